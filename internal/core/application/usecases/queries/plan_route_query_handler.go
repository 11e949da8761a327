package queries

import (
	"context"

	"meddelivery/internal/core/domain/model/route"
	"meddelivery/internal/core/ports"
)

// PlanRouteQueryHandler delegates to the route planner and never touches storage.
type PlanRouteQueryHandler struct {
	planner ports.RoutePlanner
}

func NewPlanRouteQueryHandler(planner ports.RoutePlanner) PlanRouteQueryHandler {
	return PlanRouteQueryHandler{planner: planner}
}

func (h PlanRouteQueryHandler) Handle(ctx context.Context, query PlanRouteQuery) (route.Route, error) {
	if err := query.Validate(); err != nil {
		return route.Route{}, err
	}

	return h.planner.Plan(ctx, query.Start(), query.Goal(), query.Obstacles())
}
