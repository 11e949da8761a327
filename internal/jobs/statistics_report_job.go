package jobs

import (
	"context"
	"log/slog"

	"meddelivery/internal/core/domain/model/delivery"

	"github.com/robfig/cron/v3"
)

type StatisticsSource interface {
	ComputeStatistics(ctx context.Context) (delivery.Statistics, error)
}

// StatisticsReportJob logs a delivery summary on a cron schedule.
type StatisticsReportJob struct {
	source   StatisticsSource
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewStatisticsReportJob(source StatisticsSource, schedule string, logger *slog.Logger) *StatisticsReportJob {
	return &StatisticsReportJob{
		source:   source,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "statistics_report_job"),
	}
}

func (j *StatisticsReportJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()

		stats, err := j.source.ComputeStatistics(ctx)
		if err != nil {
			j.logger.ErrorContext(ctx, "Statistics report failed", "error", err)
			return
		}
		j.logger.InfoContext(ctx, "Delivery statistics",
			"total", stats.Total,
			"pending", stats.Pending,
			"in_transit", stats.InTransit,
			"delivered", stats.Delivered,
			"average_delivery_minutes", stats.AverageDeliveryMinutes,
		)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Statistics report job started", "schedule", j.schedule)
	return nil
}

func (j *StatisticsReportJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Statistics report job stopped")
}
