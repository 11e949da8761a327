package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"meddelivery/internal/adapters/out/blobrepo"
	"meddelivery/internal/adapters/out/kvstore"
	"meddelivery/internal/adapters/out/kvstore/memory"
	"meddelivery/internal/core/application/ledger"
	"meddelivery/internal/core/domain/model/delivery"
	"meddelivery/internal/core/domain/model/kernel"
	"meddelivery/internal/core/domain/services"
	"meddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tickingClock advances one minute per reading.
type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("device storage unavailable")
}
func (brokenStore) Set(context.Context, string, []byte) error { return errors.New("quota exceeded") }
func (brokenStore) Close() error                               { return nil }

func newLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	return newLedgerOn(t, memory.NewStore())
}

func newLedgerOn(t *testing.T, store kvstore.Store) *ledger.Ledger {
	t.Helper()

	grid, err := kernel.NewGrid(20, 20)
	require.NoError(t, err)
	planner, err := services.NewRoutePlanner(grid, 2, 30, nil)
	require.NoError(t, err)
	codec, err := blobrepo.NewCodec(blobrepo.FormatJSON, blobrepo.CompressionNone)
	require.NoError(t, err)

	factory := blobrepo.NewUnitOfWorkFactory(store, codec, nil)
	clock := &tickingClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	return ledger.New(factory, planner, clock, nil)
}

func request(t *testing.T, patientID string, from, to kernel.Cell, obstacles ...kernel.Cell) ledger.StartRequest {
	t.Helper()

	medicine, err := delivery.NewReference("med-1", "Insulin")
	require.NoError(t, err)
	patient, err := delivery.NewReference(patientID, "")
	require.NoError(t, err)
	fromPlace, err := kernel.NewPlace("Pharmacy", from)
	require.NoError(t, err)
	toPlace, err := kernel.NewPlace("Home", to)
	require.NoError(t, err)

	return ledger.StartRequest{
		Medicine:  medicine,
		Patient:   patient,
		From:      fromPlace,
		To:        toPlace,
		Obstacles: obstacles,
	}
}

func TestLedger_PlanRoute(t *testing.T) {
	l := newLedger(t)
	ctx := t.Context()
	obstacles := []kernel.Cell{kernel.NewCell(8, 8), kernel.NewCell(9, 9), kernel.NewCell(10, 10)}

	t.Run("should route around the obstacles", func(t *testing.T) {
		r, err := l.PlanRoute(ctx, kernel.NewCell(5, 5), kernel.NewCell(15, 15), obstacles)

		require.NoError(t, err)
		assert.False(t, r.IsDirect())
		assert.Equal(t, kernel.NewCell(5, 5), r.Start())
		assert.Equal(t, kernel.NewCell(15, 15), r.Goal())
		for _, c := range r.Cells() {
			assert.NotContains(t, obstacles, c)
		}
	})

	t.Run("should reject coordinates outside the grid", func(t *testing.T) {
		_, err := l.PlanRoute(ctx, kernel.NewCell(5, 5), kernel.NewCell(20, 3), nil)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestLedger_StartAndAdvanceToDelivered(t *testing.T) {
	l := newLedger(t)
	ctx := t.Context()

	d, err := l.StartDelivery(ctx, request(t, "pat-1", kernel.NewCell(0, 0), kernel.NewCell(4, 0)))
	require.NoError(t, err)
	assert.Equal(t, delivery.InTransit, d.Status())
	assert.Equal(t, 0, d.CurrentStep())
	assert.InDelta(t, 0.0, d.Progress(), 1e-9)
	require.Equal(t, 5, d.Route().Len())

	var last *delivery.Delivery
	for i := 1; i < d.Route().Len(); i++ {
		got, found, advErr := l.AdvanceProgress(ctx, d.ID())
		require.NoError(t, advErr)
		require.True(t, found)
		assert.Equal(t, i, got.CurrentStep())
		last = got
	}

	assert.Equal(t, delivery.Delivered, last.Status())
	assert.InDelta(t, 100.0, last.Progress(), 1e-9)
	require.NotNil(t, last.DeliveredAt())
	stamped := *last.DeliveredAt()

	again, found, err := l.AdvanceProgress(ctx, d.ID())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, delivery.Delivered, again.Status())
	assert.Equal(t, 4, again.CurrentStep())
	assert.WithinDuration(t, stamped, *again.DeliveredAt(), 0)
}

func TestLedger_UnreachableGoalStartsOnDirectRoute(t *testing.T) {
	l := newLedger(t)
	goal := kernel.NewCell(10, 10)
	var walls []kernel.Cell
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx != 0 || dy != 0 {
				walls = append(walls, goal.Offset(dx, dy))
			}
		}
	}

	d, err := l.StartDelivery(t.Context(), request(t, "pat-1", kernel.NewCell(2, 3), goal, walls...))

	require.NoError(t, err)
	assert.True(t, d.Route().IsDirect())
	assert.Equal(t, 15, d.Route().Distance())
	assert.Equal(t, 30, d.Route().EstimatedMinutes())
}

func TestLedger_NotFound(t *testing.T) {
	l := newLedger(t)
	ctx := t.Context()
	unknown := kernel.NewUUID()

	d, found, err := l.AdvanceProgress(ctx, unknown)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, d)

	_, found, err = l.GetDelivery(ctx, unknown)
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = l.SetStatus(ctx, unknown, delivery.Pending)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLedger_SetStatusIsAllowedButUnchecked(t *testing.T) {
	l := newLedger(t)
	ctx := t.Context()
	d, err := l.StartDelivery(ctx, request(t, "pat-1", kernel.NewCell(0, 0), kernel.NewCell(6, 0)))
	require.NoError(t, err)

	got, found, err := l.SetStatus(ctx, d.ID(), delivery.Delivered)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, delivery.Delivered, got.Status())
	assert.Equal(t, 0, got.CurrentStep())
	assert.Nil(t, got.DeliveredAt())

	moved, found, err := l.AdvanceProgress(ctx, d.ID())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 0, moved.CurrentStep())

	_, _, err = l.SetStatus(ctx, d.ID(), delivery.Unknown)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestLedger_PatientHistoryAndStatistics(t *testing.T) {
	l := newLedger(t)
	ctx := t.Context()

	stats, err := l.ComputeStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, delivery.Statistics{}, stats)

	first, err := l.StartDelivery(ctx, request(t, "pat-1", kernel.NewCell(0, 0), kernel.NewCell(1, 0)))
	require.NoError(t, err)
	_, err = l.StartDelivery(ctx, request(t, "pat-2", kernel.NewCell(0, 0), kernel.NewCell(3, 0)))
	require.NoError(t, err)
	third, err := l.StartDelivery(ctx, request(t, "pat-1", kernel.NewCell(5, 5), kernel.NewCell(5, 9)))
	require.NoError(t, err)

	_, _, err = l.AdvanceProgress(ctx, first.ID())
	require.NoError(t, err)

	history, err := l.GetDeliveriesForPatient(ctx, "pat-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].ID().IsEqual(first.ID()))
	assert.True(t, history[1].ID().IsEqual(third.ID()))

	empty, err := l.GetDeliveriesForPatient(ctx, "pat-404")
	require.NoError(t, err)
	assert.Empty(t, empty)

	stats, err = l.ComputeStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.InTransit)
	assert.Equal(t, 1, stats.Delivered)
	assert.Positive(t, stats.AverageDeliveryMinutes)
}

func TestLedger_AdvanceAllInTransit(t *testing.T) {
	l := newLedger(t)
	ctx := t.Context()
	short, err := l.StartDelivery(ctx, request(t, "pat-1", kernel.NewCell(0, 0), kernel.NewCell(1, 0)))
	require.NoError(t, err)
	long, err := l.StartDelivery(ctx, request(t, "pat-1", kernel.NewCell(0, 0), kernel.NewCell(5, 0)))
	require.NoError(t, err)

	moved, err := l.AdvanceAllInTransit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, moved)

	moved, err = l.AdvanceAllInTransit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	got, _, err := l.GetDelivery(ctx, short.ID())
	require.NoError(t, err)
	assert.Equal(t, delivery.Delivered, got.Status())
	got, _, err = l.GetDelivery(ctx, long.ID())
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentStep())
}

func TestLedger_ConcurrentAdvanceKeepsInvariants(t *testing.T) {
	l := newLedger(t)
	ctx := t.Context()
	d, err := l.StartDelivery(ctx, request(t, "pat-1", kernel.NewCell(0, 0), kernel.NewCell(9, 0)))
	require.NoError(t, err)
	require.Equal(t, 10, d.Route().Len())

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		stamps   = make(map[time.Time]struct{})
		failures []error
	)
	for range 40 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, _, advErr := l.AdvanceProgress(ctx, d.ID())
			mu.Lock()
			defer mu.Unlock()
			if advErr != nil {
				failures = append(failures, advErr)
				return
			}
			if at := got.DeliveredAt(); at != nil {
				stamps[at.UTC()] = struct{}{}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = l.AdvanceAllInTransit(ctx)
	}()
	wg.Wait()

	require.Empty(t, failures)
	final, found, err := l.GetDelivery(ctx, d.ID())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 9, final.CurrentStep())
	assert.Equal(t, delivery.Delivered, final.Status())
	assert.Len(t, stamps, 1)
}

func TestLedger_StorageUnavailable(t *testing.T) {
	grid, _ := kernel.NewGrid(20, 20)
	planner, _ := services.NewRoutePlanner(grid, 2, 30, nil)
	codec, _ := blobrepo.NewCodec(blobrepo.FormatJSON, blobrepo.CompressionNone)
	l := ledger.New(blobrepo.NewUnitOfWorkFactory(brokenStore{}, codec, nil), planner,
		&tickingClock{now: time.Now()}, nil)
	ctx := t.Context()

	_, err := l.StartDelivery(ctx, request(t, "pat-1", kernel.NewCell(0, 0), kernel.NewCell(3, 3)))
	require.ErrorIs(t, err, errs.ErrStorageUnavailable)

	_, found, err := l.AdvanceProgress(ctx, kernel.NewUUID())
	require.ErrorIs(t, err, errs.ErrStorageUnavailable)
	assert.False(t, found)

	_, err = l.ComputeStatistics(ctx)
	require.ErrorIs(t, err, errs.ErrStorageUnavailable)
}

func TestLedger_UnreadableStoredRecordDoesNotBlockReads(t *testing.T) {
	store := memory.NewStore()
	ctx := t.Context()
	require.NoError(t, store.Set(ctx, blobrepo.DocumentKey,
		[]byte(`{"version":1,"deliveries":[{"id":"garbage","status":"bogus"}]}`)))
	l := newLedgerOn(t, store)

	stats, err := l.ComputeStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, delivery.Statistics{}, stats)

	_, err = l.StartDelivery(ctx, request(t, "pat-1", kernel.NewCell(0, 0), kernel.NewCell(2, 0)))
	require.NoError(t, err)

	stats, err = l.ComputeStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)

	moved, err := l.AdvanceAllInTransit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, moved)
}
