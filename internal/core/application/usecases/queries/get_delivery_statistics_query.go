package queries

import (
	"errors"

	"meddelivery/internal/pkg/guard"
)

var ErrGetDeliveryStatisticsQueryIsNotConstructed = errors.New(
	"GetDeliveryStatisticsQuery must be created via NewGetDeliveryStatisticsQuery constructor",
)

// GetDeliveryStatisticsQuery aggregates every stored delivery.
type GetDeliveryStatisticsQuery struct {
	guard guard.ConstructorGuard
}

func NewGetDeliveryStatisticsQuery() GetDeliveryStatisticsQuery {
	return GetDeliveryStatisticsQuery{guard: guard.NewConstructorGuard()}
}

func (q GetDeliveryStatisticsQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryStatisticsQueryIsNotConstructed)
}
