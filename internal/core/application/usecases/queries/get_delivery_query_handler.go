package queries

import (
	"context"

	"meddelivery/internal/core/domain/model/delivery"
	"meddelivery/internal/core/ports"
)

// GetDeliveryQueryHandler returns *errs.ObjectNotFoundError for unknown ids.
type GetDeliveryQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetDeliveryQueryHandler(uowFactory ports.UnitOfWorkFactory) GetDeliveryQueryHandler {
	return GetDeliveryQueryHandler{uowFactory: uowFactory}
}

func (h GetDeliveryQueryHandler) Handle(ctx context.Context, query GetDeliveryQuery) (*delivery.Delivery, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.DeliveryRepository().Get(ctx, query.DeliveryID())
}
