package blobrepo_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"meddelivery/internal/adapters/out/blobrepo"
	"meddelivery/internal/adapters/out/kvstore"
	"meddelivery/internal/adapters/out/kvstore/memory"
	"meddelivery/internal/core/domain/model/delivery"
	"meddelivery/internal/core/domain/model/kernel"
	"meddelivery/internal/core/domain/model/route"
	"meddelivery/internal/core/ports"
	"meddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var startedAt = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type failingStore struct {
	getErr error
	setErr error
}

func (s failingStore) Get(context.Context, string) ([]byte, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return nil, kvstore.ErrKeyNotFound
}

func (s failingStore) Set(context.Context, string, []byte) error { return s.setErr }
func (s failingStore) Close() error                               { return nil }

func newDelivery(t require.TestingT, patientID string, length int) *delivery.Delivery {
	cells := make([]kernel.Cell, 0, length)
	for x := range length {
		cells = append(cells, kernel.NewCell(x, 1))
	}
	r, err := route.NewRoute(cells, 2)
	require.NoError(t, err)

	medicine, _ := delivery.NewReference("med-9", "Amoxicillin")
	patient, _ := delivery.NewReference(patientID, "")
	from, _ := kernel.NewPlace("Pharmacy", cells[0])
	to, _ := kernel.NewPlace("Home", cells[len(cells)-1])

	d, err := delivery.NewDelivery(kernel.NewUUID(), medicine, patient, from, to, r, startedAt, nil)
	require.NoError(t, err)
	return d
}

type UnitOfWorkTestSuite struct {
	suite.Suite
	format      blobrepo.Format
	compression blobrepo.Compression
	store       *memory.Store
	factory     *blobrepo.UnitOfWorkFactory
	logs        *bytes.Buffer
}

func (s *UnitOfWorkTestSuite) SetupTest() {
	codec, err := blobrepo.NewCodec(s.format, s.compression)
	s.Require().NoError(err)

	s.logs = &bytes.Buffer{}
	s.store = memory.NewStore()
	s.factory = blobrepo.NewUnitOfWorkFactory(s.store, codec, slog.New(slog.NewTextHandler(s.logs, nil)))
}

func (s *UnitOfWorkTestSuite) inUoW(fn func(repo ports.DeliveryRepository)) {
	ctx := context.Background()
	uow := s.factory.Create()
	s.Require().NoError(uow.Begin(ctx))
	fn(uow.DeliveryRepository())
	s.Require().NoError(uow.Commit(ctx))
}

func (s *UnitOfWorkTestSuite) TestCommitPersistsAcrossUnits() {
	ctx := context.Background()
	d := newDelivery(s.T(), "pat-1", 3)
	d.Advance(startedAt.Add(2 * time.Minute))

	s.inUoW(func(repo ports.DeliveryRepository) {
		s.Require().NoError(repo.Add(ctx, d))
	})

	s.inUoW(func(repo ports.DeliveryRepository) {
		got, err := repo.Get(ctx, d.ID())
		s.Require().NoError(err)
		s.True(got.ID().IsEqual(d.ID()))
		s.Equal(1, got.CurrentStep())
		s.Equal(delivery.InTransit, got.Status())
		s.Equal(d.Route().Cells(), got.Route().Cells())
		s.Equal(d.Route().EstimatedMinutes(), got.Route().EstimatedMinutes())
		s.Equal("Amoxicillin", got.Medicine().Name())
		s.WithinDuration(d.StartedAt(), got.StartedAt(), 0)
		s.WithinDuration(d.UpdatedAt(), got.UpdatedAt(), 0)
		s.Require().NotNil(got.EstimatedArrival())
		s.WithinDuration(*d.EstimatedArrival(), *got.EstimatedArrival(), 0)
		s.Nil(got.DeliveredAt())
	})
}

func (s *UnitOfWorkTestSuite) TestRollbackDiscardsChanges() {
	ctx := context.Background()
	uow := s.factory.Create()
	s.Require().NoError(uow.Begin(ctx))
	s.Require().NoError(uow.DeliveryRepository().Add(ctx, newDelivery(s.T(), "pat-1", 2)))
	s.Require().NoError(uow.Rollback(ctx))

	_, err := s.store.Get(ctx, blobrepo.DocumentKey)
	s.Require().ErrorIs(err, kvstore.ErrKeyNotFound)
	s.Require().ErrorIs(uow.Rollback(ctx), blobrepo.ErrNoActiveTransaction)
}

func (s *UnitOfWorkTestSuite) TestListingsKeepInsertionOrder() {
	ctx := context.Background()
	first := newDelivery(s.T(), "pat-1", 2)
	second := newDelivery(s.T(), "pat-2", 4)
	third := newDelivery(s.T(), "pat-1", 3)
	s.Require().True(first.Advance(startedAt.Add(time.Minute)))

	s.inUoW(func(repo ports.DeliveryRepository) {
		for _, d := range []*delivery.Delivery{first, second, third} {
			s.Require().NoError(repo.Add(ctx, d))
		}
	})

	s.inUoW(func(repo ports.DeliveryRepository) {
		all, err := repo.GetAll(ctx)
		s.Require().NoError(err)
		s.Require().Len(all, 3)
		s.True(all[0].ID().IsEqual(first.ID()))
		s.True(all[1].ID().IsEqual(second.ID()))
		s.True(all[2].ID().IsEqual(third.ID()))

		forPatient, err := repo.GetAllByPatient(ctx, "pat-1")
		s.Require().NoError(err)
		s.Require().Len(forPatient, 2)
		s.True(forPatient[0].ID().IsEqual(first.ID()))
		s.True(forPatient[1].ID().IsEqual(third.ID()))

		none, err := repo.GetAllByPatient(ctx, "pat-404")
		s.Require().NoError(err)
		s.Empty(none)

		moving, err := repo.GetAllInTransit(ctx)
		s.Require().NoError(err)
		s.Len(moving, 2)
	})
}

func (s *UnitOfWorkTestSuite) TestUpdateAndGetUnknown() {
	ctx := context.Background()
	d := newDelivery(s.T(), "pat-1", 2)

	s.inUoW(func(repo ports.DeliveryRepository) {
		s.Require().ErrorIs(repo.Update(ctx, d), errs.ErrObjectNotFound)

		_, err := repo.Get(ctx, d.ID())
		s.Require().ErrorIs(err, errs.ErrObjectNotFound)

		s.Require().NoError(repo.Add(ctx, d))
		s.Require().ErrorIs(repo.Add(ctx, d), errs.ErrValueIsInvalid)

		s.Require().True(d.Advance(startedAt.Add(5 * time.Minute)))
		s.Require().NoError(repo.Update(ctx, d))
	})

	s.inUoW(func(repo ports.DeliveryRepository) {
		got, err := repo.Get(ctx, d.ID())
		s.Require().NoError(err)
		s.Equal(delivery.Delivered, got.Status())
		s.Require().NotNil(got.DeliveredAt())
		s.WithinDuration(startedAt.Add(5*time.Minute), *got.DeliveredAt(), 0)
		s.InDelta(100.0, got.Progress(), 1e-9)
	})
}

func (s *UnitOfWorkTestSuite) TestCorruptDocumentStartsEmpty() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, blobrepo.DocumentKey, []byte{0xde, 0xad, 0xbe, 0xef}))

	s.inUoW(func(repo ports.DeliveryRepository) {
		all, err := repo.GetAll(ctx)
		s.Require().NoError(err)
		s.Empty(all)
	})

	s.Contains(s.logs.String(), "level=WARN")
}

func TestUnitOfWorkJSON(t *testing.T) {
	suite.Run(t, &UnitOfWorkTestSuite{format: blobrepo.FormatJSON, compression: blobrepo.CompressionNone})
}

func TestUnitOfWorkMsgPackZstd(t *testing.T) {
	suite.Run(t, &UnitOfWorkTestSuite{format: blobrepo.FormatMsgPack, compression: blobrepo.CompressionZstd})
}

func TestUnitOfWork_StorageErrors(t *testing.T) {
	codec, _ := blobrepo.NewCodec(blobrepo.FormatJSON, blobrepo.CompressionNone)
	ctx := t.Context()

	t.Run("should report unreadable store", func(t *testing.T) {
		factory := blobrepo.NewUnitOfWorkFactory(failingStore{getErr: errors.New("connection refused")}, codec, nil)

		err := factory.Create().Begin(ctx)

		require.ErrorIs(t, err, errs.ErrStorageUnavailable)
		assert.Contains(t, err.Error(), "connection refused")

		// The lock is released on a failed Begin.
		uow := factory.Create()
		require.Error(t, uow.Begin(ctx))
	})

	t.Run("should report failed writes and release the lock", func(t *testing.T) {
		factory := blobrepo.NewUnitOfWorkFactory(failingStore{setErr: errors.New("quota exceeded")}, codec, nil)
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.DeliveryRepository().Add(ctx, newDelivery(t, "pat-1", 2)))

		err := uow.Commit(ctx)

		require.ErrorIs(t, err, errs.ErrStorageUnavailable)
		require.NoError(t, factory.Create().Begin(ctx))
	})

	t.Run("should refuse repository use outside a unit", func(t *testing.T) {
		factory := blobrepo.NewUnitOfWorkFactory(memory.NewStore(), codec, nil)
		uow := factory.Create()

		_, err := uow.DeliveryRepository().GetAll(ctx)

		require.ErrorIs(t, err, blobrepo.ErrNoActiveTransaction)
		require.ErrorIs(t, uow.Commit(ctx), blobrepo.ErrNoActiveTransaction)
	})
}

func TestUnitOfWork_DropsRecordsThatDoNotRestore(t *testing.T) {
	codec, _ := blobrepo.NewCodec(blobrepo.FormatJSON, blobrepo.CompressionNone)
	store := memory.NewStore()
	logs := &bytes.Buffer{}
	factory := blobrepo.NewUnitOfWorkFactory(store, codec, slog.New(slog.NewTextHandler(logs, nil)))
	ctx := t.Context()

	valid := newDelivery(t, "pat-1", 3)
	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.DeliveryRepository().Add(ctx, valid))
	require.NoError(t, uow.Commit(ctx))

	raw, err := store.Get(ctx, blobrepo.DocumentKey)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	doc["deliveries"] = append([]any{map[string]any{"id": "garbage", "status": "bogus"}}, doc["deliveries"].([]any)...)
	raw, err = json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, blobrepo.DocumentKey, raw))

	t.Run("should list only restorable deliveries", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		defer func() { _ = uow.Rollback(ctx) }()
		repo := uow.DeliveryRepository()

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.True(t, all[0].ID().IsEqual(valid.ID()))

		inTransit, err := repo.GetAllInTransit(ctx)
		require.NoError(t, err)
		assert.Len(t, inTransit, 1)

		assert.Contains(t, logs.String(), "level=WARN")
		assert.Contains(t, logs.String(), "garbage")
	})

	t.Run("should write the cleaned document on the next change", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.DeliveryRepository().Add(ctx, newDelivery(t, "pat-2", 2)))
		require.NoError(t, uow.Commit(ctx))

		raw, err := store.Get(ctx, blobrepo.DocumentKey)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "garbage")
	})

	t.Run("should treat a document of only bad records as empty", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, blobrepo.DocumentKey, []byte(`{"deliveries":[{"id":"garbage"}]}`)))
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		defer func() { _ = uow.Rollback(ctx) }()

		all, err := uow.DeliveryRepository().GetAll(ctx)

		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func TestUnitOfWork_SerializesUnits(t *testing.T) {
	codec, _ := blobrepo.NewCodec(blobrepo.FormatJSON, blobrepo.CompressionNone)
	factory := blobrepo.NewUnitOfWorkFactory(memory.NewStore(), codec, nil)
	ctx := t.Context()

	first := factory.Create()
	require.NoError(t, first.Begin(ctx))

	began := make(chan struct{})
	go func() {
		second := factory.Create()
		if err := second.Begin(ctx); err == nil {
			_ = second.Rollback(ctx)
		}
		close(began)
	}()

	select {
	case <-began:
		t.Fatal("second unit of work began while the first was open")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, first.Commit(ctx))

	select {
	case <-began:
	case <-time.After(time.Second):
		t.Fatal("second unit of work never began")
	}
}
