package commands

import (
	"context"

	"meddelivery/internal/core/ports"
)

// AdvanceAllInTransitCommandHandler simulates one tick of travel for all
// in-transit deliveries inside a single transaction.
//
// Example:
//
//	handler := NewAdvanceAllInTransitCommandHandler(uowFactory, clock)
//	moved, err := handler.Handle(ctx, NewAdvanceAllInTransitCommand())
//
//	// This would typically be called periodically by a scheduler
type AdvanceAllInTransitCommandHandler struct {
	uowFactory DeliveryUoWFactory
	clock      ports.Clock
}

func NewAdvanceAllInTransitCommandHandler(
	uowFactory DeliveryUoWFactory,
	clock ports.Clock,
) AdvanceAllInTransitCommandHandler {
	return AdvanceAllInTransitCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

// Handle returns the number of deliveries that moved.
func (h *AdvanceAllInTransitCommandHandler) Handle(ctx context.Context, cmd AdvanceAllInTransitCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.DeliveryRepository()
	deliveries, err := repo.GetAllInTransit(ctx)
	if err != nil {
		return 0, err
	}

	now := h.clock.Now()
	moved := 0
	for _, d := range deliveries {
		if !d.Advance(now) {
			continue
		}

		if err = repo.Update(ctx, d); err != nil {
			return 0, err
		}
		moved++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return moved, nil
}
