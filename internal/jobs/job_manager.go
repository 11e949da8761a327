package jobs

import (
	"context"
	"fmt"
	"log/slog"
)

// Ledger is what the scheduled jobs need from the delivery ledger.
type Ledger interface {
	ProgressAdvancer
	StatisticsSource
}

// Schedules holds six-field cron expressions (seconds first). An empty
// expression disables the job.
type Schedules struct {
	Progress   string
	Statistics string
}

type job interface {
	Start() error
	Stop()
}

type namedJob struct {
	name string
	job  job
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	jobs    []namedJob
	started []namedJob
	logger  *slog.Logger
}

func NewJobManager(ledger Ledger, schedules Schedules, logger *slog.Logger) *JobManager {
	if logger == nil {
		logger = slog.Default()
	}

	jm := &JobManager{logger: logger}
	if schedules.Progress != "" {
		jm.jobs = append(jm.jobs, namedJob{
			name: "delivery progress",
			job:  NewDeliveryProgressJob(ledger, schedules.Progress, logger),
		})
	}
	if schedules.Statistics != "" {
		jm.jobs = append(jm.jobs, namedJob{
			name: "statistics report",
			job:  NewStatisticsReportJob(ledger, schedules.Statistics, logger),
		})
	}
	return jm
}

// StartAll starts every enabled job. If one fails, the ones already started
// are stopped.
func (jm *JobManager) StartAll() error {
	if len(jm.jobs) == 0 {
		jm.logger.InfoContext(context.Background(), "No scheduled jobs enabled")
		return nil
	}

	for _, nj := range jm.jobs {
		if err := nj.job.Start(); err != nil {
			jm.StopAll()
			return fmt.Errorf("failed to start %s job: %w", nj.name, err)
		}
		jm.started = append(jm.started, nj)
	}
	return nil
}

// StopAll stops started jobs in reverse order.
func (jm *JobManager) StopAll() {
	for i := len(jm.started) - 1; i >= 0; i-- {
		jm.started[i].job.Stop()
	}
	jm.started = nil
}
