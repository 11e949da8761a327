package http

import (
	"errors"

	"meddelivery/internal/core/application/ledger"
	"meddelivery/internal/core/domain/model/delivery"
	"meddelivery/internal/core/domain/model/kernel"
	"meddelivery/internal/core/domain/model/route"
	"meddelivery/internal/generated/servers"
)

func toCell(c servers.Cell) kernel.Cell {
	return kernel.NewCell(c.X, c.Y)
}

func toCells(cells []servers.Cell) []kernel.Cell {
	result := make([]kernel.Cell, len(cells))
	for i, c := range cells {
		result[i] = toCell(c)
	}
	return result
}

func toStartRequest(req servers.StartDeliveryRequest) (ledger.StartRequest, error) {
	medicine, medicineErr := delivery.NewReference(req.Medicine.Id, req.Medicine.Name)
	patient, patientErr := delivery.NewReference(req.Patient.Id, req.Patient.Name)
	from, fromErr := kernel.NewPlace(req.From.Name, toCell(req.From.Cell))
	to, toErr := kernel.NewPlace(req.To.Name, toCell(req.To.Cell))
	if err := errors.Join(medicineErr, patientErr, fromErr, toErr); err != nil {
		return ledger.StartRequest{}, err
	}

	return ledger.StartRequest{
		Medicine:         medicine,
		Patient:          patient,
		From:             from,
		To:               to,
		Obstacles:        toCells(req.Obstacles),
		EstimatedArrival: req.EstimatedArrival,
	}, nil
}

func fromCell(c kernel.Cell) servers.Cell {
	return servers.Cell{X: c.X(), Y: c.Y()}
}

func fromPlace(p kernel.Place) servers.Place {
	return servers.Place{Name: p.Name(), Cell: fromCell(p.Cell())}
}

func fromReference(r delivery.Reference) servers.Reference {
	return servers.Reference{Id: r.ID(), Name: r.Name()}
}

func fromRoute(r route.Route) servers.Route {
	cells := make([]servers.Cell, 0, r.Len())
	for _, c := range r.Cells() {
		cells = append(cells, fromCell(c))
	}

	return servers.Route{
		Cells:            cells,
		Distance:         r.Distance(),
		EstimatedMinutes: r.EstimatedMinutes(),
		Direct:           r.IsDirect(),
	}
}

func fromDelivery(d *delivery.Delivery) servers.Delivery {
	return servers.Delivery{
		Id:               d.ID().Bytes(),
		Medicine:         fromReference(d.Medicine()),
		Patient:          fromReference(d.Patient()),
		From:             fromPlace(d.From()),
		To:               fromPlace(d.To()),
		Route:            fromRoute(d.Route()),
		Status:           d.Status().String(),
		CurrentStep:      d.CurrentStep(),
		CurrentCell:      fromCell(d.CurrentCell()),
		Progress:         d.Progress(),
		StartedAt:        d.StartedAt(),
		UpdatedAt:        d.UpdatedAt(),
		DeliveredAt:      d.DeliveredAt(),
		EstimatedArrival: d.EstimatedArrival(),
	}
}

func fromStatistics(stats delivery.Statistics) servers.Statistics {
	return servers.Statistics{
		Total:                  stats.Total,
		Pending:                stats.Pending,
		InTransit:              stats.InTransit,
		Delivered:              stats.Delivered,
		AverageDeliveryMinutes: stats.AverageDeliveryMinutes,
	}
}
