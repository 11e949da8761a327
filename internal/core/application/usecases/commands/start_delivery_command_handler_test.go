package commands_test

import (
	"errors"
	"testing"

	"meddelivery/internal/core/application/usecases/commands"
	"meddelivery/internal/core/domain/model/delivery"
	"meddelivery/internal/core/domain/model/kernel"
	"meddelivery/internal/core/domain/model/route"
	"meddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newStartCommand(t *testing.T) commands.StartDeliveryCommand {
	t.Helper()

	medicine, _ := delivery.NewReference("med-1", "Insulin")
	patient, _ := delivery.NewReference("pat-1", "")
	from, _ := kernel.NewPlace("Pharmacy", kernel.NewCell(0, 0))
	to, _ := kernel.NewPlace("Ward", kernel.NewCell(2, 0))

	cmd, err := commands.NewStartDeliveryCommand(kernel.NewUUID(), medicine, patient, from, to, nil, nil)
	require.NoError(t, err)
	return cmd
}

func plannedRoute(t *testing.T) route.Route {
	t.Helper()

	r, err := route.NewRoute([]kernel.Cell{kernel.NewCell(0, 0), kernel.NewCell(1, 0), kernel.NewCell(2, 0)}, 2)
	require.NoError(t, err)
	return r
}

func TestStartDeliveryCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd := newStartCommand(t)

	planner := new(MockRoutePlanner)
	planner.On("Plan", ctx, kernel.NewCell(0, 0), kernel.NewCell(2, 0), []kernel.Cell(nil)).
		Return(plannedRoute(t), nil).Once()

	repo := new(MockDeliveryRepository)
	uow := new(MockDeliveryUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DeliveryRepository").Return(repo).Once(),
		repo.On("Add", ctx, mock.AnythingOfType("*delivery.Delivery")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDeliveryUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewStartDeliveryCommandHandler(factory, planner, fixedClock{now})
	d, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, d.ID().IsEqual(cmd.DeliveryID()))
	assert.Equal(t, delivery.InTransit, d.Status())
	assert.Equal(t, 0, d.CurrentStep())
	assert.Equal(t, now, d.StartedAt())
	assert.Equal(t, 3, d.Route().Len())
	planner.AssertExpectations(t)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestStartDeliveryCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockDeliveryUoWFactory)
	h := commands.NewStartDeliveryCommandHandler(factory, new(MockRoutePlanner), fixedClock{now})

	_, err := h.Handle(t.Context(), commands.StartDeliveryCommand{})

	require.ErrorIs(t, err, commands.ErrStartDeliveryCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestStartDeliveryCommandHandler_Handle_PlanError(t *testing.T) {
	ctx := t.Context()
	cmd := newStartCommand(t)
	planErr := errs.NewValueIsOutOfRangeError("x", 40, 0, 19)

	planner := new(MockRoutePlanner)
	planner.On("Plan", ctx, mock.Anything, mock.Anything, mock.Anything).Return(route.Route{}, planErr).Once()
	factory := new(MockDeliveryUoWFactory)

	h := commands.NewStartDeliveryCommandHandler(factory, planner, fixedClock{now})
	_, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	factory.AssertNotCalled(t, "Create")
}

func TestStartDeliveryCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	cmd := newStartCommand(t)
	storageErr := errs.NewStorageUnavailableError("write deliveries", errors.New("disk full"))

	planner := new(MockRoutePlanner)
	planner.On("Plan", ctx, mock.Anything, mock.Anything, mock.Anything).Return(plannedRoute(t), nil).Once()

	repo := new(MockDeliveryRepository)
	uow := new(MockDeliveryUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DeliveryRepository").Return(repo).Once(),
		repo.On("Add", ctx, mock.AnythingOfType("*delivery.Delivery")).Return(storageErr).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDeliveryUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewStartDeliveryCommandHandler(factory, planner, fixedClock{now})
	d, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrStorageUnavailable)
	assert.Nil(t, d)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestStartDeliveryCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd := newStartCommand(t)

	planner := new(MockRoutePlanner)
	planner.On("Plan", ctx, mock.Anything, mock.Anything, mock.Anything).Return(plannedRoute(t), nil).Once()

	uow := new(MockDeliveryUoW)
	factory := new(MockDeliveryUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	h := commands.NewStartDeliveryCommandHandler(factory, planner, fixedClock{now})
	_, err := h.Handle(ctx, cmd)

	require.Error(t, err)
	uow.AssertExpectations(t)
}
