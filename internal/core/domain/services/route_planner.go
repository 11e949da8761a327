package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"meddelivery/internal/core/domain/model/kernel"
	"meddelivery/internal/core/domain/model/route"
)

const (
	// DefaultMinutesPerStep prices one cell of a searched route.
	DefaultMinutesPerStep = 2
	// DefaultFallbackEstimatedMinutes is the fixed estimate of a direct route.
	DefaultFallbackEstimatedMinutes = 30
)

// RoutePlanner plans delivery routes on one grid.
//
// Plan never fails because the goal is unreachable: it logs a warning and returns
// route.NewDirectRoute(start, goal, fallbackMinutes), whose IsDirect reports true.
// It fails only for malformed input: cells outside the grid are reported as
// *errs.ValueIsOutOfRangeError, prefixed with the offending argument.
type RoutePlanner struct {
	grid            kernel.Grid
	pathfinder      GridPathfinder
	minutesPerStep  int
	fallbackMinutes int
	logger          *slog.Logger
}

// NewRoutePlanner validates the grid and estimates. Non-positive estimates
// fall back to the defaults.
func NewRoutePlanner(grid kernel.Grid, minutesPerStep, fallbackMinutes int, logger *slog.Logger) (*RoutePlanner, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if minutesPerStep <= 0 {
		minutesPerStep = DefaultMinutesPerStep
	}
	if fallbackMinutes <= 0 {
		fallbackMinutes = DefaultFallbackEstimatedMinutes
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &RoutePlanner{
		grid:            grid,
		pathfinder:      NewGridPathfinder(),
		minutesPerStep:  minutesPerStep,
		fallbackMinutes: fallbackMinutes,
		logger:          logger.With("component", "route_planner"),
	}, nil
}

// Grid returns the grid routes are planned on.
func (p *RoutePlanner) Grid() kernel.Grid {
	return p.grid
}

// Plan computes the route from start to goal around obstacles.
func (p *RoutePlanner) Plan(ctx context.Context, start, goal kernel.Cell, obstacles []kernel.Cell) (route.Route, error) {
	if err := p.validate(start, goal, obstacles); err != nil {
		return route.Route{}, err
	}

	cells, err := p.pathfinder.FindPath(p.grid, start, goal, obstacles)
	if errors.Is(err, ErrNoPathFound) {
		p.logger.WarnContext(ctx, "No path found, using direct route",
			"start", start.String(),
			"goal", goal.String(),
			"grid", p.grid.String(),
			"obstacles", len(obstacles),
		)
		return route.NewDirectRoute(start, goal, p.fallbackMinutes), nil
	}
	if err != nil {
		return route.Route{}, err
	}

	return route.NewRoute(cells, p.minutesPerStep)
}

func (p *RoutePlanner) validate(start, goal kernel.Cell, obstacles []kernel.Cell) error {
	errList := make([]error, 0)

	if err := p.grid.CheckCell(start); err != nil {
		errList = append(errList, fmt.Errorf("start: %w", err))
	}
	if err := p.grid.CheckCell(goal); err != nil {
		errList = append(errList, fmt.Errorf("goal: %w", err))
	}
	for i, o := range obstacles {
		if err := p.grid.CheckCell(o); err != nil {
			errList = append(errList, fmt.Errorf("obstacle %d: %w", i, err))
		}
	}

	return errors.Join(errList...)
}
