package commands

import (
	"context"

	"meddelivery/internal/core/domain/model/delivery"
	"meddelivery/internal/core/ports"
)

// SetDeliveryStatusCommandHandler stores an administrative status override.
// See delivery.Delivery.SetStatus for what the override leaves untouched.
type SetDeliveryStatusCommandHandler struct {
	uowFactory DeliveryUoWFactory
	clock      ports.Clock
}

func NewSetDeliveryStatusCommandHandler(
	uowFactory DeliveryUoWFactory,
	clock ports.Clock,
) SetDeliveryStatusCommandHandler {
	return SetDeliveryStatusCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h *SetDeliveryStatusCommandHandler) Handle(
	ctx context.Context,
	cmd SetDeliveryStatusCommand,
) (*delivery.Delivery, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.DeliveryRepository()
	d, err := repo.Get(ctx, cmd.DeliveryID())
	if err != nil {
		return nil, err
	}

	if err = d.SetStatus(cmd.Status(), h.clock.Now()); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, d); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return d, nil
}
