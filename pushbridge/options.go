package pushbridge

import (
	"log/slog"

	"github.com/tinywideclouds/go-push-bridge/pkg/dispatch"
	"github.com/tinywideclouds/go-push-bridge/pkg/push"
)

type options struct {
	capability *push.Capability
	onError    func(error)
	store      dispatch.TokenStore
	level      *slog.LevelVar
}

// Option configures a Client.
type Option func(*options)

// WithCapability skips the runtime probe and uses the given capability.
func WithCapability(c push.Capability) Option {
	return func(o *options) { o.capability = &c }
}

// WithErrorHandler receives failures that happen while processing native
// events, after the native layer has been acknowledged.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) { o.onError = fn }
}

// WithTokenStore enables RegisterToken.
func WithTokenStore(store dispatch.TokenStore) Option {
	return func(o *options) { o.store = store }
}

// WithLevelVar lets SetVerbose switch the host's log handler between Info and Debug.
func WithLevelVar(level *slog.LevelVar) Option {
	return func(o *options) { o.level = level }
}
