package commands_test

import (
	"context"
	"testing"
	"time"

	"meddelivery/internal/core/application/usecases/commands"
	"meddelivery/internal/core/domain/model/delivery"
	"meddelivery/internal/core/domain/model/kernel"
	"meddelivery/internal/core/domain/model/route"
	"meddelivery/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type MockDeliveryRepository struct{ mock.Mock }

func (m *MockDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) GetAll(ctx context.Context) ([]*delivery.Delivery, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) GetAllByPatient(ctx context.Context, patientID string) ([]*delivery.Delivery, error) {
	args := m.Called(ctx, patientID)
	return args.Get(0).([]*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) GetAllInTransit(ctx context.Context) ([]*delivery.Delivery, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*delivery.Delivery), args.Error(1)
}

type MockDeliveryUoW struct{ mock.Mock }

func (m *MockDeliveryUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockDeliveryUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockDeliveryUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDeliveryUoW) DeliveryRepository() ports.DeliveryRepository {
	args := m.Called()
	return args.Get(0).(ports.DeliveryRepository)
}

type MockDeliveryUoWFactory struct{ mock.Mock }

func (m *MockDeliveryUoWFactory) Create() commands.DeliveryUoW {
	args := m.Called()
	return args.Get(0).(commands.DeliveryUoW)
}

type MockRoutePlanner struct{ mock.Mock }

func (m *MockRoutePlanner) Plan(
	ctx context.Context,
	start, goal kernel.Cell,
	obstacles []kernel.Cell,
) (route.Route, error) {
	args := m.Called(ctx, start, goal, obstacles)
	return args.Get(0).(route.Route), args.Error(1)
}

func newInTransit(t *testing.T, length int) *delivery.Delivery {
	t.Helper()

	cells := make([]kernel.Cell, 0, length)
	for x := range length {
		cells = append(cells, kernel.NewCell(x, 0))
	}
	r, err := route.NewRoute(cells, 2)
	require.NoError(t, err)

	medicine, _ := delivery.NewReference("med-1", "Insulin")
	patient, _ := delivery.NewReference("pat-1", "")
	from, _ := kernel.NewPlace("Pharmacy", cells[0])
	to, _ := kernel.NewPlace("Ward", cells[len(cells)-1])

	d, err := delivery.NewDelivery(kernel.NewUUID(), medicine, patient, from, to, r, now.Add(-time.Hour), nil)
	require.NoError(t, err)
	return d
}
