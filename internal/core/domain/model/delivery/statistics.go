package delivery

import (
	"math"
	"time"
)

// Statistics summarizes a set of deliveries.
type Statistics struct {
	Total     int
	Pending   int
	InTransit int
	Delivered int
	// AverageDeliveryMinutes is the mean of DeliveredAt - StartedAt, rounded to
	// whole minutes, over Delivered records that carry a DeliveredAt stamp.
	// It is 0 when there are none.
	AverageDeliveryMinutes int
}

// ComputeStatistics counts deliveries per status and averages delivery time.
// Total counts every delivery regardless of status.
func ComputeStatistics(deliveries []*Delivery) Statistics {
	stats := Statistics{Total: len(deliveries)}

	var (
		timed int
		total time.Duration
	)
	for _, d := range deliveries {
		switch d.Status() {
		case Pending:
			stats.Pending++
		case InTransit:
			stats.InTransit++
		case Delivered:
			stats.Delivered++
			if d.deliveredAt != nil && !d.startedAt.IsZero() {
				total += d.deliveredAt.Sub(d.startedAt)
				timed++
			}
		case Unknown:
		}
	}

	if timed > 0 {
		stats.AverageDeliveryMinutes = int(math.Round((total / time.Duration(timed)).Minutes()))
	}
	return stats
}
