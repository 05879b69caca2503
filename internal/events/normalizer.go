// Package events translates the raw event channel of the active platform into
// the canonical notification and interaction streams.
package events

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tinywideclouds/go-push-bridge/internal/broadcast"
	"github.com/tinywideclouds/go-push-bridge/internal/pipeline"
	"github.com/tinywideclouds/go-push-bridge/internal/platform"
	"github.com/tinywideclouds/go-push-bridge/pkg/push"
)

// ErrorHandler receives failures the host must observe, such as an iOS hook
// failure after the native layer has been acknowledged.
type ErrorHandler func(err error)

// Normalizer subscribes once to the platform event channel and dispatches every
// raw event. Notification and interaction emission happens on the listener
// goroutine, so both streams keep native order. Hook evaluation runs on a
// goroutine per event.
type Normalizer struct {
	platform  *platform.Platform
	processor *pipeline.Processor
	onError   ErrorHandler
	logger    *slog.Logger
	now       func() time.Time

	notifications *broadcast.Hub[push.Notification]
	interactions  *broadcast.Hub[push.Interaction]
	last          atomic.Pointer[push.Interaction]

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
	wg     sync.WaitGroup
}

func NewNormalizer(
	p *platform.Platform,
	processor *pipeline.Processor,
	onError ErrorHandler,
	bufferSize int,
	logger *slog.Logger,
) *Normalizer {
	ctx, cancel := context.WithCancel(context.Background())
	return &Normalizer{
		platform:      p,
		processor:     processor,
		onError:       onError,
		logger:        logger.With("component", "EventNormalizer"),
		now:           time.Now,
		notifications: broadcast.NewHub[push.Notification](bufferSize),
		interactions:  broadcast.NewHub[push.Interaction](bufferSize),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Setup installs the listener. Only the first call has an effect. The
// subscription is in place when Setup returns.
func (n *Normalizer) Setup() {
	n.once.Do(func() {
		switch n.platform.Capability {
		case push.CapabilityIOS:
			sub := n.platform.IOSEvents.Subscribe(n.ctx)
			n.wg.Add(1)
			go func() {
				defer n.wg.Done()
				defer sub.Close()
				for {
					select {
					case ev := <-sub.C():
						n.handleIOS(ev)
					case <-sub.Done():
						return
					}
				}
			}()
		case push.CapabilityAndroid:
			sub := n.platform.AndroidEvents.Subscribe(n.ctx)
			n.wg.Add(1)
			go func() {
				defer n.wg.Done()
				defer sub.Close()
				for {
					select {
					case ev := <-sub.C():
						n.handleAndroid(ev)
					case <-sub.Done():
						return
					}
				}
			}()
		default:
			n.logger.Info("No native push capability, events are not set up")
			return
		}
		n.logger.Info("Native event listener installed", "capability", n.platform.Capability.String())
	})
}

// Notifications is the stream of received notifications.
func (n *Normalizer) Notifications() *broadcast.Hub[push.Notification] { return n.notifications }

// Interactions is the stream of interactions.
func (n *Normalizer) Interactions() *broadcast.Hub[push.Interaction] { return n.interactions }

// LastInteraction returns the most recent interaction seen by the listener.
func (n *Normalizer) LastInteraction() (push.Interaction, bool) {
	if i := n.last.Load(); i != nil {
		return *i, true
	}
	return push.Interaction{}, false
}

// Close stops the listener, waits for in flight hook evaluations and closes
// both streams.
func (n *Normalizer) Close() error {
	n.cancel()
	n.wg.Wait()
	_ = n.notifications.Close()
	_ = n.interactions.Close()
	return nil
}

// Host streams never block the listener: a subscriber with a full buffer
// misses the value, acknowledgements still go out.
func (n *Normalizer) emitNotification(rec push.Notification) {
	if dropped := n.notifications.TryPublish(rec); dropped > 0 {
		n.logger.Warn("Notification dropped for slow subscribers", "notification_id", rec.ID, "subscribers", dropped)
	}
}

// emitInteraction records the interaction as the last one before any
// subscriber can observe it.
func (n *Normalizer) emitInteraction(i push.Interaction) {
	n.last.Store(&i)
	if dropped := n.interactions.TryPublish(i); dropped > 0 {
		n.logger.Warn("Interaction dropped for slow subscribers", "notification_id", i.ID, "subscribers", dropped)
	}
}

// goProcess runs fn for one event without blocking the listener.
func (n *Normalizer) goProcess(fn func(ctx context.Context)) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		fn(n.ctx)
	}()
}

func (n *Normalizer) report(err error) {
	if err != nil && n.onError != nil {
		n.onError(err)
	}
}
