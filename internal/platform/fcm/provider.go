// Package fcm provides the sender for Firebase Cloud Messaging.
package fcm

import (
	"context"
	"fmt"
	"log/slog"

	"firebase.google.com/go/v4/messaging"

	"github.com/tinywideclouds/go-push-bridge/pkg/dispatch"
	"github.com/tinywideclouds/go-push-bridge/pkg/push"
)

const (
	DefaultSound     = "ping"
	DefaultChannelID = "default"
	// Icon is the small icon resource; Android requires one on every notification.
	Icon = "ic_launcher"
)

// MessagingClient defines the subset of the Firebase Messaging API we use.
// *messaging.Client satisfies it.
type MessagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type Provider struct {
	client MessagingClient
	logger *slog.Logger
}

func NewProvider(client MessagingClient, logger *slog.Logger) *Provider {
	return &Provider{
		client: client,
		logger: logger.With("component", "FCMProvider"),
	}
}

// Send delivers msg with high Android priority. The tray notification is only
// attached when the message has a Body.
func (p *Provider) Send(ctx context.Context, tok push.Token, msg dispatch.Message) (string, error) {
	if tok.Type != push.TokenTypeAndroidFCM {
		return "", fmt.Errorf("fcm cannot send to %q: %w", tok.Type, dispatch.ErrUnsupportedTokenType)
	}

	id, err := p.client.Send(ctx, buildMessage(tok, msg))
	if err != nil {
		if messaging.IsRegistrationTokenNotRegistered(err) || messaging.IsInvalidArgument(err) {
			return "", fmt.Errorf("fcm rejected token: %v: %w", err, dispatch.ErrInvalidToken)
		}
		p.logger.Error("FCM send failed", "err", err)
		return "", fmt.Errorf("fcm send failed: %w", err)
	}

	p.logger.Debug("FCM message sent", "message_id", id)
	return id, nil
}

func buildMessage(tok push.Token, msg dispatch.Message) *messaging.Message {
	android := &messaging.AndroidConfig{
		Priority: "high",
		Data:     msg.Data,
	}
	if msg.Body != "" {
		n := &messaging.AndroidNotification{
			Title:     msg.Title,
			Body:      msg.Body,
			Sound:     DefaultSound,
			ChannelID: DefaultChannelID,
			Icon:      Icon,
		}
		if msg.Sound != "" {
			n.Sound = msg.Sound
		}
		if msg.ChannelID != "" {
			n.ChannelID = msg.ChannelID
		}
		if msg.Badge != nil {
			n.NotificationCount = msg.Badge
		}
		android.Notification = n
	}
	return &messaging.Message{
		Token:   tok.Token,
		Android: android,
	}
}
