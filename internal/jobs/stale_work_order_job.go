// Package jobs contains the scheduled background work of the application.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"repairshop/internal/core/application/usecases/queries"
)

// StaleWorkOrderJob periodically reports work orders that have not moved
// through the lifecycle for too long. It only observes and logs; nudging a
// stuck repair is a human decision, not something to automate away.
type StaleWorkOrderJob struct {
	handler    queries.GetStaleWorkOrdersQueryHandler
	staleAfter time.Duration
	cron       *cron.Cron
	logger     *zap.Logger
}

// NewStaleWorkOrderJob creates a watchdog for work orders stuck longer than
// staleAfter.
func NewStaleWorkOrderJob(
	handler queries.GetStaleWorkOrdersQueryHandler,
	staleAfter time.Duration,
	logger *zap.Logger,
) *StaleWorkOrderJob {
	return &StaleWorkOrderJob{
		handler:    handler,
		staleAfter: staleAfter,
		cron:       cron.New(),
		logger:     logger.With(zap.String("component", "stale_work_order_job")),
	}
}

// Start schedules the watchdog to run hourly.
func (j *StaleWorkOrderJob) Start() error {
	_, err := j.cron.AddFunc("@hourly", j.run)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("stale work order watchdog started",
		zap.Duration("stale_after", j.staleAfter))
	return nil
}

// Stop stops the watchdog.
func (j *StaleWorkOrderJob) Stop() {
	j.cron.Stop()
	j.logger.Info("stale work order watchdog stopped")
}

func (j *StaleWorkOrderJob) run() {
	ctx := context.Background()

	query, err := queries.NewGetStaleWorkOrdersQuery(j.staleAfter)
	if err != nil {
		j.logger.Error("failed to build stale work order query", zap.Error(err))
		return
	}

	orders, err := j.handler.Handle(ctx, query)
	if err != nil {
		j.logger.Error("stale work order check failed", zap.Error(err))
		return
	}

	if len(orders) == 0 {
		return
	}

	j.logger.Warn("found stale work orders", zap.Int("count", len(orders)))
	for _, o := range orders {
		j.logger.Warn("work order has not moved",
			zap.String("work_order_id", o.ID.String()),
			zap.String("tenant_id", o.TenantID.String()),
			zap.String("status", o.Status.String()),
			zap.Time("updated_at", o.UpdatedAt))
	}
}
