package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/tinywideclouds/go-push-bridge/pkg/native"
	"github.com/tinywideclouds/go-push-bridge/pkg/push"
)

// Hook names as reported in push.HookError.
const (
	HookShow  = "onShowNotification"
	HookFetch = "onFetchData"
)

// Hooks holds the two host predicates. Unset hooks behave as push.Always.
// They can be replaced at any time; an event already in flight keeps the hook
// it loaded.
type Hooks struct {
	show  atomic.Pointer[push.Hook]
	fetch atomic.Pointer[push.Hook]
}

func NewHooks() *Hooks {
	return &Hooks{}
}

// SetShow replaces the show decision hook. nil restores the default.
func (h *Hooks) SetShow(fn push.Hook) { store(&h.show, fn) }

// SetFetch replaces the fetch data hook. nil restores the default.
func (h *Hooks) SetFetch(fn push.Hook) { store(&h.fetch, fn) }

func (h *Hooks) ShouldShow(ctx context.Context, n push.Notification) (bool, error) {
	return invoke(ctx, HookShow, load(&h.show), n)
}

func (h *Hooks) ShouldFetch(ctx context.Context, n push.Notification) (bool, error) {
	return invoke(ctx, HookFetch, load(&h.fetch), n)
}

func store(p *atomic.Pointer[push.Hook], fn push.Hook) {
	if fn == nil {
		p.Store(nil)
		return
	}
	p.Store(&fn)
}

func load(p *atomic.Pointer[push.Hook]) push.Hook {
	if fn := p.Load(); fn != nil {
		return *fn
	}
	return push.Always
}

// invoke runs a hook, converting both returned errors and panics into a
// *push.HookError.
func invoke(ctx context.Context, name string, fn push.Hook, n push.Notification) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, &push.HookError{Hook: name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	ok, err = fn(ctx, n)
	if err != nil {
		return false, &push.HookError{Hook: name, Err: err}
	}
	return ok, nil
}

// FetchResult translates a fetch hook outcome into the background fetch
// acknowledgement.
func FetchResult(ok bool, err error) native.BackgroundFetchResult {
	switch {
	case err != nil:
		return native.BackgroundFetchFailed
	case ok:
		return native.BackgroundFetchNewData
	default:
		return native.BackgroundFetchNoData
	}
}

// PresentationOptions translates a show hook outcome into the foreground
// presentation bitmask.
func PresentationOptions(ok bool, err error) int {
	if ok && err == nil {
		return native.PresentAll
	}
	return 0
}

// Acknowledger sends the completion signal of one iOS event. Only the first
// Ack reaches the native layer.
type Acknowledger struct {
	once   sync.Once
	ios    native.IOSModule
	key    string
	logger *slog.Logger
}

func NewAcknowledger(ios native.IOSModule, key string, logger *slog.Logger) *Acknowledger {
	return &Acknowledger{ios: ios, key: key, logger: logger}
}

// Ack reports whether this call was the one that acknowledged.
func (a *Acknowledger) Ack(value int) bool {
	sent := false
	a.once.Do(func() {
		sent = true
		if err := a.ios.InvokeCallback(a.key, value); err != nil {
			a.logger.Error("Failed to acknowledge native event", "callback_key", a.key, "value", value, "err", err)
			return
		}
		a.logger.Debug("Native event acknowledged", "callback_key", a.key, "value", value)
	})
	return sent
}
