package queries

import (
	"context"

	"meddelivery/internal/core/domain/model/delivery"
	"meddelivery/internal/core/ports"
)

// GetPatientDeliveriesQueryHandler returns an empty slice, not an error, for a
// patient without deliveries.
type GetPatientDeliveriesQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetPatientDeliveriesQueryHandler(uowFactory ports.UnitOfWorkFactory) GetPatientDeliveriesQueryHandler {
	return GetPatientDeliveriesQueryHandler{uowFactory: uowFactory}
}

func (h GetPatientDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query GetPatientDeliveriesQuery,
) ([]*delivery.Delivery, error) {
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

	deliveries, err := uow.DeliveryRepository().GetAllByPatient(ctx, query.PatientID())
	if err != nil {
		return nil, err
	}
	if deliveries == nil {
		deliveries = make([]*delivery.Delivery, 0)
	}

	return deliveries, nil
}
