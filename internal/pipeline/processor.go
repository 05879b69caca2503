package pipeline

import (
	"context"
	"log/slog"

	"github.com/tinywideclouds/go-push-bridge/internal/background"
	"github.com/tinywideclouds/go-push-bridge/pkg/native"
	"github.com/tinywideclouds/go-push-bridge/pkg/push"
)

// Presenter materializes a notification in the OS tray.
type Presenter interface {
	Show(ctx context.Context, n push.Notification) (string, error)
}

// Processor runs received notifications through the host hooks.
type Processor struct {
	hooks     *Hooks
	scope     *background.Scope
	presenter Presenter
	logger    *slog.Logger
}

func NewProcessor(hooks *Hooks, scope *background.Scope, presenter Presenter, logger *slog.Logger) *Processor {
	return &Processor{
		hooks:     hooks,
		scope:     scope,
		presenter: presenter,
		logger:    logger.With("component", "DecisionPipeline"),
	}
}

// FetchIOS evaluates the fetch hook for a remote notification under the
// background scope and acknowledges with NewData, NoData or Failed. The
// acknowledgement is sent on every path, including a failed scope
// acquisition; the hook failure is returned after it.
func (p *Processor) FetchIOS(ctx context.Context, n push.Notification, ack *Acknowledger) error {
	err := p.scope.Do(ctx, func(ctx context.Context) error {
		ok, err := p.hooks.ShouldFetch(ctx, n)
		ack.Ack(int(FetchResult(ok, err)))
		return err
	})
	if ack.Ack(int(native.BackgroundFetchFailed)) {
		p.logger.Warn("Remote notification acknowledged as failed without running the hook", "err", err)
	}
	if err != nil {
		p.logger.Error("Fetch data failed", "notification_id", n.ID, "err", err)
	}
	return err
}

// PresentIOS evaluates the show hook for a foreground notification and
// acknowledges with the presentation options. A hook failure acknowledges 0
// and is returned.
func (p *Processor) PresentIOS(ctx context.Context, n push.Notification, ack *Acknowledger) error {
	ok, err := p.hooks.ShouldShow(ctx, n)
	ack.Ack(PresentationOptions(ok, err))
	if err != nil {
		p.logger.Error("Show decision failed", "notification_id", n.ID, "err", err)
	}
	return err
}

// ProcessAndroid shows a received message when it has visible content and the
// show hook agrees, then runs the fetch hook. There is no acknowledgement
// channel on Android: failures are logged and never stop the pipeline.
func (p *Processor) ProcessAndroid(ctx context.Context, n push.Notification) {
	err := p.scope.Do(ctx, func(ctx context.Context) error {
		if n.Title != "" || n.Body != "" {
			show, err := p.hooks.ShouldShow(ctx, n)
			if err != nil {
				p.logger.Warn("Show decision failed", "notification_id", n.ID, "err", err)
			}
			if show {
				if _, err := p.presenter.Show(ctx, n); err != nil {
					p.logger.Warn("Failed to show received message", "notification_id", n.ID, "err", err)
				}
			}
		}
		if _, err := p.hooks.ShouldFetch(ctx, n); err != nil {
			p.logger.Warn("Fetch data failed", "notification_id", n.ID, "err", err)
		}
		return nil
	})
	if err != nil {
		p.logger.Warn("Received message not processed", "notification_id", n.ID, "err", err)
	}
}
