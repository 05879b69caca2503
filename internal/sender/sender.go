// Package sender routes outbound messages to the provider serving each token
// type and fans a message out to every registered device of a user.
package sender

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/tinywideclouds/go-push-bridge/pkg/dispatch"
	"github.com/tinywideclouds/go-push-bridge/pkg/push"
)

// DefaultConcurrency bounds in flight sends of one fan out.
const DefaultConcurrency = 8

// Result is the outcome of one send.
type Result struct {
	Device    dispatch.Device
	MessageID string
	Err       error
}

type Sender struct {
	providers   map[push.TokenType]dispatch.Provider
	store       dispatch.TokenStore
	concurrency int
	logger      *slog.Logger
}

// New builds a Sender. store may be nil when only Send and SendAll are used.
func New(providers map[push.TokenType]dispatch.Provider, store dispatch.TokenStore, concurrency int, logger *slog.Logger) *Sender {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Sender{
		providers:   providers,
		store:       store,
		concurrency: concurrency,
		logger:      logger.With("component", "Sender"),
	}
}

// Send delivers msg to one token. There is no retry.
func (s *Sender) Send(ctx context.Context, tok push.Token, msg dispatch.Message) (string, error) {
	provider, ok := s.providers[tok.Type]
	if !ok {
		return "", fmt.Errorf("no provider for %q: %w", tok.Type, dispatch.ErrUnsupportedTokenType)
	}
	return provider.Send(ctx, tok, msg)
}

// SendAll delivers msg to every device concurrently. Failures are reported per
// device; the returned slice is in input order.
func (s *Sender) SendAll(ctx context.Context, devices []dispatch.Device, msg dispatch.Message) []Result {
	results := make([]Result, len(devices))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, d := range devices {
		g.Go(func() error {
			id, err := s.Send(gctx, d.Token, msg)
			results[i] = Result{Device: d, MessageID: id, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// SendToUser fans msg out to every registered device of userID and
// unregisters the devices whose token the network rejected.
func (s *Sender) SendToUser(ctx context.Context, userID string, msg dispatch.Message) ([]Result, error) {
	if s.store == nil {
		return nil, errors.New("sender has no token store")
	}
	procLogger := s.logger.With("user_id", userID)

	devices, err := s.store.Fetch(ctx, userID)
	if err != nil {
		procLogger.Error("Failed to fetch device tokens", "err", err)
		return nil, err
	}
	if len(devices) == 0 {
		procLogger.Info("No devices registered for user; dropping notification.")
		return nil, nil
	}

	results := s.SendAll(ctx, devices, msg)

	sent, failed := 0, 0
	for _, r := range results {
		switch {
		case r.Err == nil:
			sent++
		case errors.Is(r.Err, dispatch.ErrInvalidToken):
			failed++
			procLogger.Info("Cleaning up invalid token", "device_id", r.Device.DeviceID, "type", r.Device.Token.Type)
			if err := s.store.Unregister(ctx, userID, r.Device.DeviceID); err != nil {
				procLogger.Warn("Failed to delete invalid token", "device_id", r.Device.DeviceID, "err", err)
			}
		default:
			failed++
			procLogger.Warn("Send failed", "device_id", r.Device.DeviceID, "err", r.Err)
		}
	}
	procLogger.Info("Notification dispatched", "sent", sent, "failed", failed)
	return results, nil
}
