// Package deliveryrepo maps delivery aggregates to the deliveries table.
package deliveryrepo

import (
	"errors"
	"time"

	"meddelivery/internal/core/domain/model/delivery"
	"meddelivery/internal/core/domain/model/kernel"
	"meddelivery/internal/core/domain/model/route"

	"github.com/google/uuid"
)

// DeliveryDTO is one row of the deliveries table. Seq records insertion order;
// every listing sorts by it.
type DeliveryDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq              int64     `gorm:"autoIncrement;not null;uniqueIndex"`
	MedicineID       string    `gorm:"not null"`
	MedicineName     string
	PatientID        string    `gorm:"not null;index"`
	PatientName      string
	From             PlaceDTO  `gorm:"embedded;embeddedPrefix:from_"`
	To               PlaceDTO  `gorm:"embedded;embeddedPrefix:to_"`
	Route            RouteDTO  `gorm:"embedded;embeddedPrefix:route_"`
	Status           int       `gorm:"index"`
	CurrentStep      int
	StartedAt        time.Time
	DeliveredAt      *time.Time
	UpdatedAt        time.Time `gorm:"autoUpdateTime:false"`
	EstimatedArrival *time.Time
}

func (DeliveryDTO) TableName() string {
	return "deliveries"
}

type PlaceDTO struct {
	Name string
	X    int
	Y    int
}

type CellDTO struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type RouteDTO struct {
	Cells            []CellDTO `gorm:"type:jsonb;serializer:json"`
	Distance         int
	EstimatedMinutes int
	Direct           bool
}

func fromDomain(d *delivery.Delivery) DeliveryDTO {
	cells := d.Route().Cells()
	cellDTOs := make([]CellDTO, 0, len(cells))
	for _, c := range cells {
		cellDTOs = append(cellDTOs, CellDTO{X: c.X(), Y: c.Y()})
	}

	return DeliveryDTO{
		ID:           d.ID().Bytes(),
		MedicineID:   d.Medicine().ID(),
		MedicineName: d.Medicine().Name(),
		PatientID:    d.Patient().ID(),
		PatientName:  d.Patient().Name(),
		From:         PlaceDTO{Name: d.From().Name(), X: d.From().Cell().X(), Y: d.From().Cell().Y()},
		To:           PlaceDTO{Name: d.To().Name(), X: d.To().Cell().X(), Y: d.To().Cell().Y()},
		Route: RouteDTO{
			Cells:            cellDTOs,
			Distance:         d.Route().Distance(),
			EstimatedMinutes: d.Route().EstimatedMinutes(),
			Direct:           d.Route().IsDirect(),
		},
		Status:           int(d.Status()),
		CurrentStep:      d.CurrentStep(),
		StartedAt:        d.StartedAt(),
		DeliveredAt:      d.DeliveredAt(),
		UpdatedAt:        d.UpdatedAt(),
		EstimatedArrival: d.EstimatedArrival(),
	}
}

func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	medicine, medicineErr := delivery.NewReference(dto.MedicineID, dto.MedicineName)
	patient, patientErr := delivery.NewReference(dto.PatientID, dto.PatientName)
	from, fromErr := kernel.NewPlace(dto.From.Name, kernel.NewCell(dto.From.X, dto.From.Y))
	to, toErr := kernel.NewPlace(dto.To.Name, kernel.NewCell(dto.To.X, dto.To.Y))
	if err = errors.Join(medicineErr, patientErr, fromErr, toErr); err != nil {
		return nil, err
	}

	cells := make([]kernel.Cell, 0, len(dto.Route.Cells))
	for _, c := range dto.Route.Cells {
		cells = append(cells, kernel.NewCell(c.X, c.Y))
	}
	r, err := route.RestoreRoute(cells, dto.Route.Distance, dto.Route.EstimatedMinutes, dto.Route.Direct)
	if err != nil {
		return nil, err
	}

	return delivery.RestoreDelivery(delivery.RestoreParams{
		ID:               id,
		Medicine:         medicine,
		Patient:          patient,
		From:             from,
		To:               to,
		Route:            r,
		Status:           delivery.Status(dto.Status),
		CurrentStep:      dto.CurrentStep,
		StartedAt:        dto.StartedAt,
		DeliveredAt:      dto.DeliveredAt,
		UpdatedAt:        dto.UpdatedAt,
		EstimatedArrival: dto.EstimatedArrival,
	})
}
