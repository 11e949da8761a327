package services

import (
	"errors"

	"meddelivery/internal/core/domain/model/kernel"
)

// ErrNoPathFound is returned by GridPathfinder when the frontier is exhausted
// before the goal is reached.
var ErrNoPathFound = errors.New("no path found")

// stepCost is the cost of every move. Diagonal moves cost the same as
// orthogonal ones.
const stepCost = 1

// directions lists neighbour offsets in expansion order: orthogonal first, then diagonal.
var directions = [8][2]int{
	{0, 1}, {1, 0}, {0, -1}, {-1, 0},
	{1, 1}, {1, -1}, {-1, -1}, {-1, 1},
}

// GridPathfinder finds a path between two cells with A* over 8-connected
// movement and the Manhattan heuristic.
//
// Search rules:
//   - The open node with the lowest f = g + h is expanded next; ties go to the
//     node that entered the open list first
//   - An expanded node is never reopened, even if a cheaper path to it appears
//   - A neighbour already in the open list is only updated on a strictly lower g
//   - Obstacles block every cell except the goal; the start is never checked
//
// GridPathfinder holds no state between calls.
type GridPathfinder struct{}

func NewGridPathfinder() GridPathfinder {
	return GridPathfinder{}
}

// FindPath returns the cells from start to goal inclusive, or ErrNoPathFound.
// Cells must already be inside grid; FindPath does not report bounds errors.
func (GridPathfinder) FindPath(grid kernel.Grid, start, goal kernel.Cell, obstacles []kernel.Cell) ([]kernel.Cell, error) {
	blocked := make(map[kernel.Cell]struct{}, len(obstacles))
	for _, o := range obstacles {
		blocked[o] = struct{}{}
	}

	var (
		open     = []kernel.Cell{start}
		inOpen   = map[kernel.Cell]bool{start: true}
		closed   = make(map[kernel.Cell]bool)
		gScore   = map[kernel.Cell]int{start: 0}
		fScore   = map[kernel.Cell]int{start: start.ManhattanDistance(goal)}
		cameFrom = make(map[kernel.Cell]kernel.Cell)
	)

	for len(open) > 0 {
		best := 0
		for i := 1; i < len(open); i++ {
			if fScore[open[i]] < fScore[open[best]] {
				best = i
			}
		}
		current := open[best]

		if current == goal {
			return reconstructPath(cameFrom, current), nil
		}

		open = append(open[:best], open[best+1:]...)
		delete(inOpen, current)
		closed[current] = true

		for _, d := range directions {
			next := current.Offset(d[0], d[1])
			if !grid.Contains(next) || closed[next] {
				continue
			}
			if _, isObstacle := blocked[next]; isObstacle && next != goal {
				continue
			}

			tentative := gScore[current] + stepCost
			if inOpen[next] {
				if tentative >= gScore[next] {
					continue
				}
			} else {
				open = append(open, next)
				inOpen[next] = true
			}

			cameFrom[next] = current
			gScore[next] = tentative
			fScore[next] = tentative + next.ManhattanDistance(goal)
		}
	}

	return nil, ErrNoPathFound
}

func reconstructPath(cameFrom map[kernel.Cell]kernel.Cell, end kernel.Cell) []kernel.Cell {
	path := []kernel.Cell{end}
	for {
		prev, ok := cameFrom[path[len(path)-1]]
		if !ok {
			break
		}
		path = append(path, prev)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
