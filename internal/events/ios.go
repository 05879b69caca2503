package events

import (
	"context"

	"github.com/tinywideclouds/go-push-bridge/internal/center"
	"github.com/tinywideclouds/go-push-bridge/internal/pipeline"
	"github.com/tinywideclouds/go-push-bridge/pkg/native"
	"github.com/tinywideclouds/go-push-bridge/pkg/push"
)

func (n *Normalizer) handleIOS(ev native.IOSEvent) {
	n.logger.Debug("Native event received", "type", ev.Type, "callback_key", ev.CallbackKey)

	switch ev.Type {
	case native.IOSDidReceiveRemote:
		rec := n.fromUserInfo(ev.UserInfo)
		n.emitNotification(rec)
		ack := pipeline.NewAcknowledger(n.platform.IOS, ev.CallbackKey, n.logger)
		n.goProcess(func(ctx context.Context) {
			n.report(n.processor.FetchIOS(ctx, rec, ack))
		})

	case native.IOSWillPresent:
		rec := fromIOSNotification(ev.Notification)
		n.emitNotification(rec)
		ack := pipeline.NewAcknowledger(n.platform.IOS, ev.CallbackKey, n.logger)
		n.goProcess(func(ctx context.Context) {
			n.report(n.processor.PresentIOS(ctx, rec, ack))
		})

	case native.IOSDidReceiveResponse:
		action := ev.ActionIdentifier
		if action == native.IOSDefaultActionIdentifier || action == "" {
			action = push.ActionDefault
		}
		n.emitInteraction(push.Interaction{
			Notification: fromIOSNotification(ev.Notification),
			Action:       action,
		})
		pipeline.NewAcknowledger(n.platform.IOS, ev.CallbackKey, n.logger).Ack(0)

	case native.IOSDidRegister, native.IOSDidFailToRegister:
		// Consumed by the token manager.

	default:
		n.logger.Warn("Ignoring unknown ios event", "type", ev.Type)
	}
}

func fromIOSNotification(d *native.DeliveredNotification) push.Notification {
	if d == nil {
		return push.Notification{}
	}
	return center.FromDelivered(*d)
}

// fromUserInfo builds the record of a remote notification from its payload:
// badge, sound and alert are lifted out of aps, and aps is dropped from data.
func (n *Normalizer) fromUserInfo(userInfo map[string]any) push.Notification {
	rec := push.Notification{
		Date: n.now().UnixMilli(),
		Data: center.StripAPS(userInfo),
	}
	aps, _ := userInfo["aps"].(map[string]any)
	if aps == nil {
		return rec
	}
	rec.Badge = asInt(aps["badge"])
	rec.Sound, _ = aps["sound"].(string)
	switch alert := aps["alert"].(type) {
	case map[string]any:
		rec.Title, _ = alert["title"].(string)
		rec.Subtitle, _ = alert["subtitle"].(string)
		rec.Body, _ = alert["body"].(string)
	case string:
		rec.Body = alert
	}
	return rec
}

// asInt accepts the numeric shapes a decoded or natively built payload uses.
func asInt(v any) *int {
	switch x := v.(type) {
	case int:
		return push.IntPtr(x)
	case int64:
		return push.IntPtr(int(x))
	case float64:
		return push.IntPtr(int(x))
	default:
		return nil
	}
}
