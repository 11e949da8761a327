package delivery_test

import (
	"testing"
	"time"

	"meddelivery/internal/core/domain/model/delivery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStatistics(t *testing.T) {
	t.Run("should return zeros for no deliveries", func(t *testing.T) {
		stats := delivery.ComputeStatistics(nil)

		assert.Equal(t, delivery.Statistics{}, stats)
	})

	t.Run("should count by status and average delivered durations", func(t *testing.T) {
		fast := newDelivery(t, 2)
		require.True(t, fast.Advance(startedAt.Add(20*time.Minute)))
		slow := newDelivery(t, 2)
		require.True(t, slow.Advance(startedAt.Add(45*time.Minute)))
		moving := newDelivery(t, 3)
		moving.Advance(startedAt.Add(time.Minute))
		pending := newDelivery(t, 3)
		require.NoError(t, pending.SetStatus(delivery.Pending, startedAt))

		stats := delivery.ComputeStatistics([]*delivery.Delivery{fast, slow, moving, pending})

		assert.Equal(t, 4, stats.Total)
		assert.Equal(t, 1, stats.Pending)
		assert.Equal(t, 1, stats.InTransit)
		assert.Equal(t, 2, stats.Delivered)
		assert.Equal(t, 33, stats.AverageDeliveryMinutes)
	})

	t.Run("should skip delivered records without arrival time", func(t *testing.T) {
		forced := newDelivery(t, 3)
		require.NoError(t, forced.SetStatus(delivery.Delivered, startedAt.Add(time.Minute)))

		stats := delivery.ComputeStatistics([]*delivery.Delivery{forced})

		assert.Equal(t, 1, stats.Delivered)
		assert.Equal(t, 0, stats.AverageDeliveryMinutes)
	})
}
