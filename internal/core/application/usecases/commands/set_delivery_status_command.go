package commands

import (
	"errors"

	"meddelivery/internal/core/domain/model/delivery"
	"meddelivery/internal/core/domain/model/kernel"
	"meddelivery/internal/pkg/guard"
)

var ErrSetDeliveryStatusCommandIsNotConstructed = errors.New(
	"SetDeliveryStatusCommand must be created via NewSetDeliveryStatusCommand constructor",
)

// SetDeliveryStatusCommand overrides the status of a delivery.
// Any valid status is accepted regardless of the current one.
type SetDeliveryStatusCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	status     delivery.Status

	guard guard.ConstructorGuard
}

func NewSetDeliveryStatusCommand(deliveryID kernel.UUID, status delivery.Status) (SetDeliveryStatusCommand, error) {
	if err := errors.Join(deliveryID.Validate(), status.Validate()); err != nil {
		return SetDeliveryStatusCommand{}, err
	}

	return SetDeliveryStatusCommand{
		deliveryID: deliveryID,
		status:     status,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c SetDeliveryStatusCommand) Validate() error {
	return c.guard.Validate(ErrSetDeliveryStatusCommandIsNotConstructed)
}

func (c SetDeliveryStatusCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

func (c SetDeliveryStatusCommand) Status() delivery.Status {
	return c.status
}
