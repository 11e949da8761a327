package commands

import (
	"errors"
	"time"

	"meddelivery/internal/core/domain/model/delivery"
	"meddelivery/internal/core/domain/model/kernel"
	"meddelivery/internal/pkg/guard"
)

var ErrStartDeliveryCommandIsNotConstructed = errors.New(
	"StartDeliveryCommand must be created via NewStartDeliveryCommand constructor",
)

// StartDeliveryCommand requests a new delivery from one place to another.
// The route is planned by the handler around the given obstacles.
//
// Example:
//
//	cmd, err := NewStartDeliveryCommand(kernel.NewUUID(), medicine, patient, pharmacy, ward, obstacles, nil)
//	if err != nil {
//	    return fmt.Errorf("invalid delivery data: %w", err)
//	}
//
//	d, err := handler.Handle(ctx, cmd)
type StartDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID       kernel.UUID
	medicine         delivery.Reference
	patient          delivery.Reference
	from             kernel.Place
	to               kernel.Place
	obstacles        []kernel.Cell
	estimatedArrival *time.Time

	guard guard.ConstructorGuard
}

// NewStartDeliveryCommand validates the identifiers and places. Coordinates are
// checked against the grid by the route planner.
func NewStartDeliveryCommand(
	deliveryID kernel.UUID,
	medicine delivery.Reference,
	patient delivery.Reference,
	from kernel.Place,
	to kernel.Place,
	obstacles []kernel.Cell,
	estimatedArrival *time.Time,
) (StartDeliveryCommand, error) {
	cmd := StartDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setReferences(medicine, patient),
		cmd.setPlaces(from, to),
	); err != nil {
		return StartDeliveryCommand{}, err
	}

	cmd.obstacles = append([]kernel.Cell(nil), obstacles...)
	if estimatedArrival != nil {
		eta := *estimatedArrival
		cmd.estimatedArrival = &eta
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c StartDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrStartDeliveryCommandIsNotConstructed)
}

func (c StartDeliveryCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

func (c StartDeliveryCommand) Medicine() delivery.Reference {
	return c.medicine
}

func (c StartDeliveryCommand) Patient() delivery.Reference {
	return c.patient
}

func (c StartDeliveryCommand) From() kernel.Place {
	return c.from
}

func (c StartDeliveryCommand) To() kernel.Place {
	return c.to
}

func (c StartDeliveryCommand) Obstacles() []kernel.Cell {
	return append([]kernel.Cell(nil), c.obstacles...)
}

// EstimatedArrival is nil when the caller left it to the route estimate.
func (c StartDeliveryCommand) EstimatedArrival() *time.Time {
	return c.estimatedArrival
}

func (c *StartDeliveryCommand) setDeliveryID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.deliveryID = id
	return nil
}

func (c *StartDeliveryCommand) setReferences(medicine, patient delivery.Reference) error {
	var errList []error
	if medicine.ID() == "" {
		errList = append(errList, ErrMedicineIsRequired)
	}
	if patient.ID() == "" {
		errList = append(errList, ErrPatientIsRequired)
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	c.medicine = medicine
	c.patient = patient
	return nil
}

func (c *StartDeliveryCommand) setPlaces(from, to kernel.Place) error {
	if err := errors.Join(from.Validate(), to.Validate()); err != nil {
		return err
	}

	c.from = from
	c.to = to
	return nil
}
