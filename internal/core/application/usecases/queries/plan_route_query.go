// Package queries contains read operations for retrieving delivery state.
// Queries never commit: each handler opens a unit of work only to read through it.
package queries

import (
	"errors"

	"meddelivery/internal/core/domain/model/kernel"
	"meddelivery/internal/pkg/guard"
)

var ErrPlanRouteQueryIsNotConstructed = errors.New(
	"PlanRouteQuery must be created via NewPlanRouteQuery constructor",
)

// PlanRouteQuery asks for a route between two cells without starting a delivery.
//
// Example:
//
//	query := NewPlanRouteQuery(kernel.NewCell(5, 5), kernel.NewCell(15, 15), obstacles)
//	r, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("invalid routing request: %w", err)
//	}
//	if r.IsDirect() {
//	    // no walkable path, r is the direct estimate
//	}
type PlanRouteQuery struct {
	start     kernel.Cell
	goal      kernel.Cell
	obstacles []kernel.Cell

	guard guard.ConstructorGuard
}

// NewPlanRouteQuery creates a routing query. Bounds are checked by the planner.
func NewPlanRouteQuery(start, goal kernel.Cell, obstacles []kernel.Cell) PlanRouteQuery {
	return PlanRouteQuery{
		start:     start,
		goal:      goal,
		obstacles: append([]kernel.Cell(nil), obstacles...),
		guard:     guard.NewConstructorGuard(),
	}
}

func (q PlanRouteQuery) Validate() error {
	return q.guard.Validate(ErrPlanRouteQueryIsNotConstructed)
}

func (q PlanRouteQuery) Start() kernel.Cell {
	return q.start
}

func (q PlanRouteQuery) Goal() kernel.Cell {
	return q.goal
}

func (q PlanRouteQuery) Obstacles() []kernel.Cell {
	return append([]kernel.Cell(nil), q.obstacles...)
}
