package commands

import (
	"context"

	"meddelivery/internal/core/domain/model/delivery"
	"meddelivery/internal/core/ports"
)

// AdvanceProgressCommandHandler applies delivery.Delivery.Advance to one stored delivery.
//
// Deliveries that are not in transit are returned unchanged and nothing is written.
// An unknown id surfaces as *errs.ObjectNotFoundError from the repository.
type AdvanceProgressCommandHandler struct {
	uowFactory DeliveryUoWFactory
	clock      ports.Clock
}

func NewAdvanceProgressCommandHandler(uowFactory DeliveryUoWFactory, clock ports.Clock) AdvanceProgressCommandHandler {
	return AdvanceProgressCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h *AdvanceProgressCommandHandler) Handle(ctx context.Context, cmd AdvanceProgressCommand) (*delivery.Delivery, error) {
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

	if !d.Advance(h.clock.Now()) {
		return d, nil
	}

	if err = repo.Update(ctx, d); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return d, nil
}
