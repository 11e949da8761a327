// Package route provides the Route value object: the ordered cells a delivery
// travels through, with its distance and estimated travel time.
package route

import (
	"errors"
	"fmt"

	"meddelivery/internal/core/domain/model/kernel"
	"meddelivery/internal/pkg/errs"
	"meddelivery/internal/pkg/guard"
)

var (
	// ErrRouteIsNotConstructed is returned when a zero-value Route is used.
	ErrRouteIsNotConstructed = errors.New("Route must be created via NewRoute, NewDirectRoute or RestoreRoute")
	// ErrCellsAreRequired is returned for a route without cells.
	ErrCellsAreRequired = errs.NewValueIsRequiredError("route cells")
)

// Route is an immutable path from its first cell to its last cell inclusive.
//
// A searched route has Distance equal to its number of cells. A direct route is
// the fallback used when no path exists: it holds just {start, goal}, its
// Distance is the Manhattan distance between them and IsDirect reports true.
//
// Route copies the cell slice on construction and on every read, so no caller can
// mutate a route after it has been attached to a delivery.
type Route struct {
	cells            []kernel.Cell
	distance         int
	estimatedMinutes int
	direct           bool
	guard            guard.ConstructorGuard
}

// NewRoute builds a searched route. Consecutive cells must be adjacent and the
// estimated time is (len(cells)-1) * minutesPerStep.
func NewRoute(cells []kernel.Cell, minutesPerStep int) (Route, error) {
	if len(cells) == 0 {
		return Route{}, ErrCellsAreRequired
	}
	if minutesPerStep < 0 {
		return Route{}, errs.NewValueIsInvalidErrorWithCause(
			"minutes per step", fmt.Errorf("%d is negative", minutesPerStep))
	}
	for i := 1; i < len(cells); i++ {
		if !cells[i-1].IsAdjacent(cells[i]) {
			return Route{}, errs.NewValueIsInvalidErrorWithCause(
				"route cells", fmt.Errorf("%s and %s are not adjacent", cells[i-1], cells[i]))
		}
	}

	return Route{
		cells:            cloneCells(cells),
		distance:         len(cells),
		estimatedMinutes: (len(cells) - 1) * minutesPerStep,
		guard:            guard.NewConstructorGuard(),
	}, nil
}

// NewDirectRoute builds the fallback route {start, goal} with a fixed estimate.
func NewDirectRoute(start, goal kernel.Cell, estimatedMinutes int) Route {
	return Route{
		cells:            []kernel.Cell{start, goal},
		distance:         start.ManhattanDistance(goal),
		estimatedMinutes: estimatedMinutes,
		direct:           true,
		guard:            guard.NewConstructorGuard(),
	}
}

// RestoreRoute rebuilds a route from persistence without recomputing derived values.
func RestoreRoute(cells []kernel.Cell, distance, estimatedMinutes int, direct bool) (Route, error) {
	if len(cells) == 0 {
		return Route{}, ErrCellsAreRequired
	}
	if distance < 0 {
		return Route{}, errs.NewValueIsInvalidErrorWithCause("distance", fmt.Errorf("%d is negative", distance))
	}

	return Route{
		cells:            cloneCells(cells),
		distance:         distance,
		estimatedMinutes: estimatedMinutes,
		direct:           direct,
		guard:            guard.NewConstructorGuard(),
	}, nil
}

func (r Route) Validate() error {
	return r.guard.Validate(ErrRouteIsNotConstructed)
}

// Cells returns a copy of the cell sequence.
func (r Route) Cells() []kernel.Cell {
	return cloneCells(r.cells)
}

// Len is the number of cells in the sequence.
func (r Route) Len() int {
	return len(r.cells)
}

// CellAt returns the i-th cell; i must be in [0, Len()).
func (r Route) CellAt(i int) kernel.Cell {
	return r.cells[i]
}

func (r Route) Start() kernel.Cell {
	return r.cells[0]
}

func (r Route) Goal() kernel.Cell {
	return r.cells[len(r.cells)-1]
}

func (r Route) Distance() int {
	return r.distance
}

func (r Route) EstimatedMinutes() int {
	return r.estimatedMinutes
}

// IsDirect reports whether this is the fallback route produced when no path was found.
func (r Route) IsDirect() bool {
	return r.direct
}

func cloneCells(cells []kernel.Cell) []kernel.Cell {
	out := make([]kernel.Cell, len(cells))
	copy(out, cells)
	return out
}
