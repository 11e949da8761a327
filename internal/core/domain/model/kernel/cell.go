package kernel

import (
	"fmt"

	"meddelivery/internal/pkg/errs"
	"meddelivery/internal/pkg/guard"
)

// ErrGridIsNotConstructed is returned when a zero-value Grid is used.
var ErrGridIsNotConstructed = errs.NewValueIsRequiredError("grid must be created via NewGrid constructor")

// Cell is an integer grid position. It is a plain value type: two cells are the
// same cell iff their coordinates are equal, so Cell is usable directly as a map key.
//
// Unlike most kernel values Cell carries no constructor guard, because its zero
// value (0,0) is a legitimate position. Bounds are a property of a Grid and are
// checked with Grid.Contains or Grid.Cell.
type Cell struct {
	x int
	y int
}

// NewCell returns the cell at (x, y) without bounds checking.
func NewCell(x, y int) Cell {
	return Cell{x: x, y: y}
}

func (c Cell) X() int {
	return c.x
}

func (c Cell) Y() int {
	return c.y
}

// Offset returns the cell displaced by (dx, dy). The result may lie outside any grid.
func (c Cell) Offset(dx, dy int) Cell {
	return Cell{x: c.x + dx, y: c.y + dy}
}

// ManhattanDistance returns |Δx| + |Δy| between the two cells.
func (c Cell) ManhattanDistance(other Cell) int {
	return absInt(c.x-other.x) + absInt(c.y-other.y)
}

// IsAdjacent reports whether other is one of the eight king-move neighbours of c.
func (c Cell) IsAdjacent(other Cell) bool {
	dx, dy := absInt(c.x-other.x), absInt(c.y-other.y)
	return dx <= 1 && dy <= 1 && dx+dy > 0
}

// String implements fmt.Stringer, e.g. "Cell(5,7)".
func (c Cell) String() string {
	return fmt.Sprintf("Cell(%d,%d)", c.x, c.y)
}

// Grid is an immutable width × height bounding box. A cell is inside the grid
// iff 0 <= x < width and 0 <= y < height.
//
// Example:
//
//	grid, err := kernel.NewGrid(20, 20)
//	if err != nil {
//	    return err
//	}
//	start, err := grid.Cell(5, 5)
type Grid struct {
	width  int
	height int
	guard  guard.ConstructorGuard
}

// NewGrid creates a grid; both dimensions must be positive.
func NewGrid(width, height int) (Grid, error) {
	if width <= 0 {
		return Grid{}, errs.NewValueIsInvalidErrorWithCause("width", fmt.Errorf("%d is not greater than 0", width))
	}
	if height <= 0 {
		return Grid{}, errs.NewValueIsInvalidErrorWithCause("height", fmt.Errorf("%d is not greater than 0", height))
	}

	return Grid{width: width, height: height, guard: guard.NewConstructorGuard()}, nil
}

// Validate reports whether the grid was built with NewGrid.
func (g Grid) Validate() error {
	return g.guard.Validate(ErrGridIsNotConstructed)
}

func (g Grid) Width() int {
	return g.width
}

func (g Grid) Height() int {
	return g.height
}

// Contains reports whether c lies inside the grid.
func (g Grid) Contains(c Cell) bool {
	return c.x >= 0 && c.x < g.width && c.y >= 0 && c.y < g.height
}

// Cell returns the cell at (x, y) or an out-of-range error naming the offending axis.
func (g Grid) Cell(x, y int) (Cell, error) {
	c := NewCell(x, y)
	if err := g.CheckCell(c); err != nil {
		return Cell{}, err
	}
	return c, nil
}

// CheckCell returns a *errs.ValueIsOutOfRangeError when c lies outside the grid.
func (g Grid) CheckCell(c Cell) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if c.x < 0 || c.x >= g.width {
		return errs.NewValueIsOutOfRangeError("x", c.x, 0, g.width-1)
	}
	if c.y < 0 || c.y >= g.height {
		return errs.NewValueIsOutOfRangeError("y", c.y, 0, g.height-1)
	}
	return nil
}

func (g Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d)", g.width, g.height)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
