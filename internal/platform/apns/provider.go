// Package apns provides the sender for the Apple Push Notification Service.
package apns

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"

	"github.com/tinywideclouds/go-push-bridge/pkg/dispatch"
	"github.com/tinywideclouds/go-push-bridge/pkg/push"
)

const (
	// Expiry is how long APNs keeps retrying an undelivered notification.
	Expiry       = 2 * time.Hour
	DefaultSound = "ping"
	soundExt     = ".caf"
)

// APNSClient defines the subset of the apns2.Client methods we use.
// This allows mocking for unit tests.
type APNSClient interface {
	Push(n *apns2.Notification) (*apns2.Response, error)
}

// Config holds the credentials required to sign APNs tokens.
type Config struct {
	KeyID  string
	TeamID string
	// BundleID is the topic used when a token carries no app id.
	BundleID string
	// P8KeyContent is the raw string content of the .p8 file
	P8KeyContent string
}

// Provider sends to ios tokens through the production gateway and to ios-dev
// tokens through the sandbox.
type Provider struct {
	production  APNSClient
	development APNSClient
	topic       string
	logger      *slog.Logger
	now         func() time.Time
}

// NewProvider parses the P8 key immediately to fail fast on bad credentials.
func NewProvider(cfg Config, logger *slog.Logger) (*Provider, error) {
	authKey, err := token.AuthKeyFromBytes([]byte(cfg.P8KeyContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse APNs P8 key: %w", err)
	}

	tokenSource := &token.Token{
		AuthKey: authKey,
		KeyID:   cfg.KeyID,
		TeamID:  cfg.TeamID,
	}

	return NewProviderWithClients(
		apns2.NewTokenClient(tokenSource).Production(),
		apns2.NewTokenClient(tokenSource).Development(),
		cfg.BundleID,
		logger,
	), nil
}

// NewProviderWithClients builds a Provider from explicit gateway clients.
func NewProviderWithClients(production, development APNSClient, bundleID string, logger *slog.Logger) *Provider {
	return &Provider{
		production:  production,
		development: development,
		topic:       bundleID,
		logger:      logger.With("component", "APNSProvider"),
		now:         time.Now,
	}
}

// Send delivers msg to one token. A message with Data is flagged
// content-available; a message with Body carries an alert and a sound.
func (p *Provider) Send(_ context.Context, tok push.Token, msg dispatch.Message) (string, error) {
	var client APNSClient
	switch tok.Type {
	case push.TokenTypeIOS:
		client = p.production
	case push.TokenTypeIOSDev:
		client = p.development
	default:
		return "", fmt.Errorf("apns cannot send to %q: %w", tok.Type, dispatch.ErrUnsupportedTokenType)
	}

	n := &apns2.Notification{
		ApnsID:      uuid.NewString(),
		DeviceToken: tok.Token,
		Topic:       p.topic,
		Expiration:  p.now().Add(Expiry),
		Payload:     buildPayload(msg),
		PushType:    apns2.PushTypeBackground,
		Priority:    apns2.PriorityLow,
	}
	if msg.Body != "" {
		n.PushType = apns2.PushTypeAlert
		n.Priority = apns2.PriorityHigh
		if tok.ID != "" {
			n.Topic = tok.ID
		}
	}

	res, err := client.Push(n)
	if err != nil {
		p.logger.Error("APNs transport failed", "apns_id", n.ApnsID, "err", err)
		return "", fmt.Errorf("apns transport failed: %w", err)
	}

	if !res.Sent() {
		// See: https://developer.apple.com/documentation/usernotifications/handling-notification-responses-from-apns
		switch res.Reason {
		case apns2.ReasonBadDeviceToken, apns2.ReasonUnregistered, apns2.ReasonDeviceTokenNotForTopic:
			return "", fmt.Errorf("apns rejected token (%s): %w", res.Reason, dispatch.ErrInvalidToken)
		default:
			p.logger.Warn("APNs rejected notification", "reason", res.Reason, "status", res.StatusCode)
			return "", fmt.Errorf("apns rejected notification: %d %s", res.StatusCode, res.Reason)
		}
	}

	p.logger.Debug("APNs notification sent", "apns_id", res.ApnsID, "type", tok.Type)
	return res.ApnsID, nil
}

func buildPayload(msg dispatch.Message) *payload.Payload {
	pl := payload.NewPayload()
	if msg.Data != nil {
		pl.ContentAvailable()
		for k, v := range msg.Data {
			pl.Custom(k, v)
		}
	}
	if msg.Body != "" {
		sound := DefaultSound
		if msg.Sound != "" {
			sound = msg.Sound
		}
		pl.Sound(sound + soundExt).AlertTitle(msg.Title).AlertBody(msg.Body)
	}
	if msg.Badge != nil {
		pl.Badge(*msg.Badge)
	}
	return pl
}
