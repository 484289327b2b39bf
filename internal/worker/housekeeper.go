package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/pratik-mahalle/voltcast-alerts/internal/domain/rule"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/logger"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/metrics"
	"github.com/robfig/cron/v3"
)

// StatsSource reports dispatch pool counters
type StatsSource interface {
	Stats() Stats
}

// Housekeeper refreshes gauges and logs pool health on a cron schedule
type Housekeeper struct {
	repo     rule.Repository
	pool     StatsSource
	schedule string
	logger   *logger.Logger

	scheduler *cron.Cron
}

// NewHousekeeper creates a housekeeper. schedule accepts standard cron
// expressions and descriptors such as "@every 1m".
func NewHousekeeper(repo rule.Repository, pool StatsSource, schedule string, log *logger.Logger) *Housekeeper {
	return &Housekeeper{
		repo:     repo,
		pool:     pool,
		schedule: schedule,
		logger:   log.WithComponent("housekeeper"),
	}
}

// Start schedules the housekeeping job and runs it once immediately
func (h *Housekeeper) Start(ctx context.Context) error {
	if _, err := cron.ParseStandard(h.schedule); err != nil {
		return fmt.Errorf("invalid housekeeping schedule: %w", err)
	}

	h.scheduler = cron.New()
	if _, err := h.scheduler.AddFunc(h.schedule, func() { h.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule housekeeping: %w", err)
	}

	h.RunOnce(ctx)
	h.scheduler.Start()

	h.logger.With("schedule", h.schedule).Info("Housekeeping scheduler started")
	return nil
}

// Stop halts the scheduler and waits for a running job to finish
func (h *Housekeeper) Stop() {
	if h.scheduler == nil {
		return
	}
	<-h.scheduler.Stop().Done()
	h.logger.Info("Housekeeping scheduler stopped")
}

// RunOnce refreshes the active-rule gauge and logs pool statistics
func (h *Housekeeper) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	count, err := h.repo.CountActive(ctx)
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to count active rules")
	} else {
		metrics.SetActiveRules(float64(count))
	}

	stats := h.pool.Stats()
	h.logger.WithFields(map[string]interface{}{
		"active_rules": count,
		"dispatched":   stats.Dispatched,
		"rejected":     stats.Rejected,
		"panicked":     stats.Panicked,
		"queued":       stats.Queued,
	}).Info("Housekeeping completed")
}
