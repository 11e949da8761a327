// Package ports defines the contracts between the delivery core and its adapters.
// Repositories and the unit of work are implemented by the storage adapters;
// Clock and RoutePlanner are supplied by the composition root.
package ports

import (
	"context"

	"meddelivery/internal/core/domain/model/delivery"
	"meddelivery/internal/core/domain/model/kernel"
)

// DeliveryRepository defines the persistence contract for delivery aggregates.
//
// Every listing returns deliveries in insertion order. Implementations must not
// sort by time or status.
type DeliveryRepository interface {
	// Add persists a new delivery. The delivery must be valid and its id unused.
	Add(ctx context.Context, d *delivery.Delivery) error

	// Update replaces the stored state of an existing delivery.
	// Returns *errs.ObjectNotFoundError when the id is unknown.
	Update(ctx context.Context, d *delivery.Delivery) error

	// Get retrieves a delivery by id.
	// Returns *errs.ObjectNotFoundError when the id is unknown.
	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetAll returns every stored delivery.
	GetAll(ctx context.Context) ([]*delivery.Delivery, error)

	// GetAllByPatient returns the deliveries whose patient reference id equals patientID.
	GetAllByPatient(ctx context.Context, patientID string) ([]*delivery.Delivery, error)

	// GetAllInTransit returns the deliveries that Advance can still move.
	GetAllInTransit(ctx context.Context) ([]*delivery.Delivery, error)
}
