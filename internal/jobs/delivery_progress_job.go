package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// ProgressAdvancer moves every in-transit delivery one step.
type ProgressAdvancer interface {
	AdvanceAllInTransit(ctx context.Context) (int, error)
}

// DeliveryProgressJob simulates courier movement by advancing in-transit
// deliveries on a cron schedule.
type DeliveryProgressJob struct {
	advancer ProgressAdvancer
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewDeliveryProgressJob(advancer ProgressAdvancer, schedule string, logger *slog.Logger) *DeliveryProgressJob {
	return &DeliveryProgressJob{
		advancer: advancer,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "delivery_progress_job"),
	}
}

// Start registers the tick and starts the scheduler.
func (j *DeliveryProgressJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, j.tick)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Delivery progress job started", "schedule", j.schedule)
	return nil
}

// Stop waits for a running tick to finish.
func (j *DeliveryProgressJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Delivery progress job stopped")
}

func (j *DeliveryProgressJob) tick() {
	ctx := context.Background()

	moved, err := j.advancer.AdvanceAllInTransit(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Delivery progress job failed", "error", err)
		return
	}
	if moved > 0 {
		j.logger.DebugContext(ctx, "Deliveries advanced", "count", moved)
	}
}
