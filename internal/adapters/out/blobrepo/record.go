package blobrepo

import (
	"errors"
	"time"

	"meddelivery/internal/core/domain/model/delivery"
	"meddelivery/internal/core/domain/model/kernel"
	"meddelivery/internal/core/domain/model/route"
)

// documentVersion is written into every stored document.
const documentVersion = 1

type document struct {
	Version    int              `json:"version"    msgpack:"version"`
	Deliveries []deliveryRecord `json:"deliveries" msgpack:"deliveries"`
}

type cellRecord struct {
	X int `json:"x" msgpack:"x"`
	Y int `json:"y" msgpack:"y"`
}

type placeRecord struct {
	Name string `json:"name" msgpack:"name"`
	X    int    `json:"x"    msgpack:"x"`
	Y    int    `json:"y"    msgpack:"y"`
}

type routeRecord struct {
	Cells            []cellRecord `json:"cells"            msgpack:"cells"`
	Distance         int          `json:"distance"         msgpack:"distance"`
	EstimatedMinutes int          `json:"estimatedMinutes" msgpack:"estimated_minutes"`
	Direct           bool         `json:"direct"           msgpack:"direct"`
}

// deliveryRecord is the stored form of a delivery. Progress is written for
// readers of the raw document and ignored on load.
type deliveryRecord struct {
	ID               string      `json:"id"                         msgpack:"id"`
	MedicineID       string      `json:"medicineId"                 msgpack:"medicine_id"`
	MedicineName     string      `json:"medicineName,omitempty"     msgpack:"medicine_name,omitempty"`
	PatientID        string      `json:"patientId"                  msgpack:"patient_id"`
	PatientName      string      `json:"patientName,omitempty"      msgpack:"patient_name,omitempty"`
	From             placeRecord `json:"from"                       msgpack:"from"`
	To               placeRecord `json:"to"                         msgpack:"to"`
	Route            routeRecord `json:"route"                      msgpack:"route"`
	Status           string      `json:"status"                     msgpack:"status"`
	CurrentStep      int         `json:"currentStep"                msgpack:"current_step"`
	Progress         float64     `json:"progress"                   msgpack:"progress"`
	StartedAt        time.Time   `json:"startedAt"                  msgpack:"started_at"`
	DeliveredAt      *time.Time  `json:"deliveredAt,omitempty"      msgpack:"delivered_at,omitempty"`
	UpdatedAt        time.Time   `json:"updatedAt"                  msgpack:"updated_at"`
	EstimatedArrival *time.Time  `json:"estimatedArrival,omitempty" msgpack:"estimated_arrival,omitempty"`
}

func fromDomain(d *delivery.Delivery) deliveryRecord {
	cells := d.Route().Cells()
	cellRecords := make([]cellRecord, 0, len(cells))
	for _, c := range cells {
		cellRecords = append(cellRecords, cellRecord{X: c.X(), Y: c.Y()})
	}

	return deliveryRecord{
		ID:           d.ID().String(),
		MedicineID:   d.Medicine().ID(),
		MedicineName: d.Medicine().Name(),
		PatientID:    d.Patient().ID(),
		PatientName:  d.Patient().Name(),
		From:         placeRecord{Name: d.From().Name(), X: d.From().Cell().X(), Y: d.From().Cell().Y()},
		To:           placeRecord{Name: d.To().Name(), X: d.To().Cell().X(), Y: d.To().Cell().Y()},
		Route: routeRecord{
			Cells:            cellRecords,
			Distance:         d.Route().Distance(),
			EstimatedMinutes: d.Route().EstimatedMinutes(),
			Direct:           d.Route().IsDirect(),
		},
		Status:           d.Status().String(),
		CurrentStep:      d.CurrentStep(),
		Progress:         d.Progress(),
		StartedAt:        d.StartedAt(),
		DeliveredAt:      d.DeliveredAt(),
		UpdatedAt:        d.UpdatedAt(),
		EstimatedArrival: d.EstimatedArrival(),
	}
}

func toDomain(rec deliveryRecord) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromString(rec.ID)
	if err != nil {
		return nil, err
	}
	status, err := delivery.ParseStatus(rec.Status)
	if err != nil {
		return nil, err
	}

	medicine, medicineErr := delivery.NewReference(rec.MedicineID, rec.MedicineName)
	patient, patientErr := delivery.NewReference(rec.PatientID, rec.PatientName)
	from, fromErr := kernel.NewPlace(rec.From.Name, kernel.NewCell(rec.From.X, rec.From.Y))
	to, toErr := kernel.NewPlace(rec.To.Name, kernel.NewCell(rec.To.X, rec.To.Y))
	if err = errors.Join(medicineErr, patientErr, fromErr, toErr); err != nil {
		return nil, err
	}

	cells := make([]kernel.Cell, 0, len(rec.Route.Cells))
	for _, c := range rec.Route.Cells {
		cells = append(cells, kernel.NewCell(c.X, c.Y))
	}
	r, err := route.RestoreRoute(cells, rec.Route.Distance, rec.Route.EstimatedMinutes, rec.Route.Direct)
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
		Status:           status,
		CurrentStep:      rec.CurrentStep,
		StartedAt:        rec.StartedAt,
		DeliveredAt:      rec.DeliveredAt,
		UpdatedAt:        rec.UpdatedAt,
		EstimatedArrival: rec.EstimatedArrival,
	})
}
