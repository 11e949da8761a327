package ports

import (
	"context"

	"meddelivery/internal/core/domain/model/kernel"
	"meddelivery/internal/core/domain/model/route"
)

// RoutePlanner turns a routing request into a route. Unreachable goals yield a
// direct route rather than an error; only malformed cells are rejected.
type RoutePlanner interface {
	Plan(ctx context.Context, start, goal kernel.Cell, obstacles []kernel.Cell) (route.Route, error)
}
