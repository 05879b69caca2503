package events

import (
	"context"
	"strconv"

	"github.com/tinywideclouds/go-push-bridge/pkg/native"
	"github.com/tinywideclouds/go-push-bridge/pkg/push"
)

func (n *Normalizer) handleAndroid(ev native.AndroidEvent) {
	n.logger.Debug("Native event received", "type", ev.Type, "message_id", ev.MessageID)

	switch ev.Type {
	case native.AndroidMessageReceived:
		rec := push.Notification{
			ID:    ev.MessageID,
			Date:  ev.SentTime,
			Data:  ev.Data,
			Title: ev.Title,
			Body:  ev.Body,
		}
		n.emitNotification(rec)
		n.goProcess(func(ctx context.Context) {
			n.processor.ProcessAndroid(ctx, rec)
		})

	case native.AndroidNotificationClicked:
		action := ev.Action
		if action == "" {
			action = push.ActionDefault
		}
		n.emitInteraction(push.Interaction{
			Notification: push.Notification{
				ID:        strconv.Itoa(ev.ID),
				ChannelID: ev.ChannelID,
				Title:     ev.Title,
				Subtitle:  ev.Subtext,
				Body:      ev.Body,
				Badge:     ev.Number,
				Color:     asInt(ev.Color),
				Data:      ev.Data,
			},
			Action: action,
		})

	case native.AndroidNotificationIntent:
		n.emitInteraction(push.Interaction{
			Notification: push.Notification{ID: ev.MessageID, Data: ev.Data},
			Action:       push.ActionDefault,
		})

	default:
		n.logger.Warn("Ignoring unknown android event", "type", ev.Type)
	}
}
