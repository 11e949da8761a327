package commands

import (
	"errors"

	"meddelivery/internal/core/domain/model/kernel"
	"meddelivery/internal/pkg/guard"
)

var ErrAdvanceProgressCommandIsNotConstructed = errors.New(
	"AdvanceProgressCommand must be created via NewAdvanceProgressCommand constructor",
)

// AdvanceProgressCommand moves one delivery a single step along its route.
type AdvanceProgressCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAdvanceProgressCommand(deliveryID kernel.UUID) (AdvanceProgressCommand, error) {
	if err := deliveryID.Validate(); err != nil {
		return AdvanceProgressCommand{}, err
	}

	return AdvanceProgressCommand{
		deliveryID: deliveryID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AdvanceProgressCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceProgressCommandIsNotConstructed)
}

func (c AdvanceProgressCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}
