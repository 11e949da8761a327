package commands

import (
	"context"

	"meddelivery/internal/core/domain/model/delivery"
	"meddelivery/internal/core/ports"
)

// StartDeliveryCommandHandler plans a route and stores a new in-transit delivery.
//
// Example:
//
//	handler := NewStartDeliveryCommandHandler(uowFactory, planner, clock)
//	d, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("delivery start failed: %w", err)
//	}
type StartDeliveryCommandHandler struct {
	uowFactory DeliveryUoWFactory
	planner    ports.RoutePlanner
	clock      ports.Clock
}

func NewStartDeliveryCommandHandler(
	uowFactory DeliveryUoWFactory,
	planner ports.RoutePlanner,
	clock ports.Clock,
) StartDeliveryCommandHandler {
	return StartDeliveryCommandHandler{
		uowFactory: uowFactory,
		planner:    planner,
		clock:      clock,
	}
}

// Handle rejects malformed coordinates before touching storage. An unreachable
// destination does not fail: the delivery is started on a direct route.
func (h *StartDeliveryCommandHandler) Handle(ctx context.Context, cmd StartDeliveryCommand) (*delivery.Delivery, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	r, err := h.planner.Plan(ctx, cmd.From().Cell(), cmd.To().Cell(), cmd.Obstacles())
	if err != nil {
		return nil, err
	}

	d, err := delivery.NewDelivery(
		cmd.DeliveryID(),
		cmd.Medicine(),
		cmd.Patient(),
		cmd.From(),
		cmd.To(),
		r,
		h.clock.Now(),
		cmd.EstimatedArrival(),
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.DeliveryRepository().Add(ctx, d); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return d, nil
}
