// Package jobs provides scheduled background tasks for the delivery system.
//
// Jobs run on github.com/robfig/cron/v3 with seconds-resolution expressions.
//
// # Available Jobs
//
// 1. DeliveryProgressJob - advances every in-transit delivery one step per tick
// 2. StatisticsReportJob - logs the delivery summary
//
// # Usage
//
//	jobManager := jobs.NewJobManager(ledger, jobs.Schedules{
//		Progress:   "*/5 * * * * *",
//		Statistics: "0 * * * * *",
//	}, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Tick failures are logged and the job keeps its schedule. A failed start
// stops the jobs already running.
package jobs
