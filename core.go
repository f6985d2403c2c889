package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/EasterCompany/package-builder-service/utils"
)

// RunCoreLogic is the persistent background loop of the service. Each tick
// drains the session outbox, checks the weekly fuel decay and refreshes the
// health status.
func RunCoreLogic(ctx context.Context, a *app) error {
	interval := a.cfg.CoreInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	utils.SetHealthStatus("OK", "Service is running normally")
	a.logger.Info("Core Logic: Initialization complete, service is healthy")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Core Logic: Shutdown signal received, flushing outbox...")
			utils.SetHealthStatus("SHUTTING_DOWN", "Core logic is shutting down")
			flushCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Remote.Timeout)
			if _, err := a.store.Flush(flushCtx); err != nil {
				a.logger.Warn("Core Logic: Final flush incomplete", zap.Int("pending", a.store.Pending()), zap.Error(err))
			}
			cancel()
			return nil

		case now := <-ticker.C:
			if err := processPersistentTasks(ctx, a, now); err != nil {
				a.logger.Warn("Core Logic: Error processing tasks", zap.Error(err))
				utils.SetHealthStatus("DEGRADED", err.Error())
			} else {
				utils.SetHealthStatus("OK", "Service is running normally")
			}
		}
	}
}

// processPersistentTasks runs one tick of background work.
func processPersistentTasks(ctx context.Context, a *app, now time.Time) error {
	var errs []error
	if a.decay.Check(now) {
		a.metrics.DecayApplied()
		a.logger.Info("Core Logic: Weekly fuel decay applied", zap.Int("total", a.decay.Total()))
		reset, err := a.activity.ResetAllWeeks(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("weekly activity reset: %w", err))
		}
		a.logger.Info("Core Logic: Weekly logins reset", zap.Int("users", reset))
	}

	if a.store.Pending() == 0 && a.store.PendingDeletes() == 0 {
		return errors.Join(errs...)
	}
	synced, err := a.store.Flush(ctx)
	if synced > 0 {
		a.logger.Info("Core Logic: Sessions synced to remote", zap.Int("count", synced))
	}
	if err != nil {
		errs = append(errs, fmt.Errorf("remote sync pending for %d session(s): %w",
			a.store.Pending()+a.store.PendingDeletes(), err))
	}
	return errors.Join(errs...)
}
