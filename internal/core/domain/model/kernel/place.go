package kernel

import (
	"fmt"
	"strings"

	"meddelivery/internal/pkg/errs"
	"meddelivery/internal/pkg/guard"
)

var (
	// ErrPlaceIsNotConstructed is returned when a zero-value Place is used.
	ErrPlaceIsNotConstructed = errs.NewValueIsRequiredError("place must be created via NewPlace constructor")
	// ErrPlaceNameIsRequired is returned for a blank place name.
	ErrPlaceNameIsRequired = errs.NewValueIsRequiredError("place name")
)

// Place is a named point on the delivery grid, such as a pharmacy or a ward.
type Place struct {
	name  string
	cell  Cell
	guard guard.ConstructorGuard
}

// NewPlace creates a Place. The name must not be blank; the cell is not
// bounds-checked here because a Place does not know which grid it belongs to.
func NewPlace(name string, cell Cell) (Place, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Place{}, ErrPlaceNameIsRequired
	}

	return Place{name: name, cell: cell, guard: guard.NewConstructorGuard()}, nil
}

func (p Place) Validate() error {
	return p.guard.Validate(ErrPlaceIsNotConstructed)
}

func (p Place) Name() string {
	return p.name
}

func (p Place) Cell() Cell {
	return p.cell
}

func (p Place) String() string {
	return fmt.Sprintf("%s@(%d,%d)", p.name, p.cell.x, p.cell.y)
}
