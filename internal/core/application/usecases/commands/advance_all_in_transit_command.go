package commands

import (
	"errors"

	"meddelivery/internal/pkg/guard"
)

var ErrAdvanceAllInTransitCommandIsNotConstructed = errors.New(
	"AdvanceAllInTransitCommand must be created via NewAdvanceAllInTransitCommand constructor",
)

// AdvanceAllInTransitCommand moves every in-transit delivery one step.
// It carries no parameters and is issued by the progress job.
type AdvanceAllInTransitCommand struct {
	guard guard.ConstructorGuard
}

func NewAdvanceAllInTransitCommand() AdvanceAllInTransitCommand {
	return AdvanceAllInTransitCommand{
		guard: guard.NewConstructorGuard(),
	}
}

func (c AdvanceAllInTransitCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceAllInTransitCommandIsNotConstructed)
}
