package queries

import (
	"context"

	"meddelivery/internal/core/domain/model/delivery"
	"meddelivery/internal/core/ports"
)

// GetDeliveryStatisticsQueryHandler loads all deliveries and summarizes them
// with delivery.ComputeStatistics.
//
// Example:
//
//	stats, err := handler.Handle(ctx, NewGetDeliveryStatisticsQuery())
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%d of %d delivered, %d min on average\n",
//	    stats.Delivered, stats.Total, stats.AverageDeliveryMinutes)
type GetDeliveryStatisticsQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetDeliveryStatisticsQueryHandler(uowFactory ports.UnitOfWorkFactory) GetDeliveryStatisticsQueryHandler {
	return GetDeliveryStatisticsQueryHandler{uowFactory: uowFactory}
}

func (h GetDeliveryStatisticsQueryHandler) Handle(
	ctx context.Context,
	query GetDeliveryStatisticsQuery,
) (delivery.Statistics, error) {
	if err := query.Validate(); err != nil {
		return delivery.Statistics{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return delivery.Statistics{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deliveries, err := uow.DeliveryRepository().GetAll(ctx)
	if err != nil {
		return delivery.Statistics{}, err
	}

	return delivery.ComputeStatistics(deliveries), nil
}
