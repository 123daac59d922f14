package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/questflow"
)

// settleDelay lets editors finish writing before the flow is read again.
const settleDelay = 100 * time.Millisecond

// WatchFlow reloads eng whenever its loader reports a change, until ctx is done.
// A failed reload is logged and the previous flow stays in service.
// onReload, when set, runs after every successful reload.
func WatchFlow(ctx context.Context, eng *questflow.Engine, logger *slog.Logger, onReload func()) error {
	watchCh, err := eng.Watch(ctx)
	if err != nil {
		return err
	}

	logger.Info("Watching flow for changes", "flow", eng.Name)
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-watchCh:
			if !ok {
				return nil
			}

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(settleDelay):
			}

			if err := eng.Reload(ctx); err != nil {
				logger.Error("Flow reload failed, keeping previous version", "err", err)
				continue
			}
			logger.Info("Flow reloaded", "flow", eng.Name)
			if onReload != nil {
				onReload()
			}
		}
	}
}
