// Package dispatch defines the send side contracts: the per network providers
// that deliver a message to one push token, and the store that remembers which
// tokens belong to a user.
package dispatch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/tinywideclouds/go-push-bridge/pkg/push"
)

var (
	// ErrInvalidToken is returned by a Provider when the network reports the
	// token as unregistered or malformed. Callers should unregister it.
	ErrInvalidToken = errors.New("dispatch: push token is no longer valid")
	// ErrNotFound is returned by a TokenStore for an unknown device.
	ErrNotFound = errors.New("dispatch: device not found")
	// ErrUnsupportedTokenType is returned when no provider serves a token type.
	ErrUnsupportedTokenType = errors.New("dispatch: unsupported token type")
)

// Message is the content sent to a device. A message without Body is a silent
// data message.
type Message struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
	// Sound is the sound name without extension.
	Sound     string            `json:"sound,omitempty"`
	Badge     *int              `json:"badge,omitempty"`
	ChannelID string            `json:"channelId,omitempty"`
	Data      map[string]string `json:"data,omitempty"`
}

// Provider delivers a message to a single token of the network it serves.
type Provider interface {
	// Send returns the network's message id.
	Send(ctx context.Context, token push.Token, msg Message) (string, error)
}

// Device is one registered installation of a user.
type Device struct {
	DeviceID  string     `json:"device_id"`
	Token     push.Token `json:"token"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TokenStore persists the push tokens of users.
type TokenStore interface {
	// Register upserts a device. An empty DeviceID is derived from the token.
	Register(ctx context.Context, userID string, device Device) error
	Unregister(ctx context.Context, userID, deviceID string) error
	// Fetch returns every device of a user; an unknown user has none.
	Fetch(ctx context.Context, userID string) ([]Device, error)
	Get(ctx context.Context, userID, deviceID string) (Device, error)
}

// DeviceID derives a stable device id from a push token.
func DeviceID(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
