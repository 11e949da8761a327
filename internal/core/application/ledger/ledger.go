// Package ledger is the entry point for delivery routing and tracking.
//
// Ledger wires the route planner and the delivery command and query handlers
// behind one API and serializes mutations: at most one mutation per delivery
// id is in flight, and the batch advance excludes every per-id mutation. This
// keeps CurrentStep monotonic and DeliveredAt single-stamped under concurrent
// callers.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"meddelivery/internal/core/application/usecases/commands"
	"meddelivery/internal/core/application/usecases/queries"
	"meddelivery/internal/core/domain/model/delivery"
	"meddelivery/internal/core/domain/model/kernel"
	"meddelivery/internal/core/domain/model/route"
	"meddelivery/internal/core/ports"
	"meddelivery/internal/pkg/errs"
)

// StartRequest describes a delivery to start. The ledger assigns the id.
type StartRequest struct {
	Medicine  delivery.Reference
	Patient   delivery.Reference
	From      kernel.Place
	To        kernel.Place
	Obstacles []kernel.Cell
	// EstimatedArrival overrides the route-based estimate when set.
	EstimatedArrival *time.Time
}

type Ledger struct {
	planRoute       queries.PlanRouteQueryHandler
	getDelivery     queries.GetDeliveryQueryHandler
	patientHistory  queries.GetPatientDeliveriesQueryHandler
	statistics      queries.GetDeliveryStatisticsQueryHandler
	startDelivery   commands.StartDeliveryCommandHandler
	advanceProgress commands.AdvanceProgressCommandHandler
	advanceAll      commands.AdvanceAllInTransitCommandHandler
	setStatus       commands.SetDeliveryStatusCommandHandler

	batch  sync.RWMutex
	perID  *keyedMutex
	logger *slog.Logger
}

// New builds a ledger over one store. The ledger must be the only writer to
// that store for its locking to hold.
func New(
	uowFactory ports.UnitOfWorkFactory,
	planner ports.RoutePlanner,
	clock ports.Clock,
	logger *slog.Logger,
) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	cmdFactory := commandUoWFactory{uowFactory}

	return &Ledger{
		planRoute:       queries.NewPlanRouteQueryHandler(planner),
		getDelivery:     queries.NewGetDeliveryQueryHandler(uowFactory),
		patientHistory:  queries.NewGetPatientDeliveriesQueryHandler(uowFactory),
		statistics:      queries.NewGetDeliveryStatisticsQueryHandler(uowFactory),
		startDelivery:   commands.NewStartDeliveryCommandHandler(cmdFactory, planner, clock),
		advanceProgress: commands.NewAdvanceProgressCommandHandler(cmdFactory, clock),
		advanceAll:      commands.NewAdvanceAllInTransitCommandHandler(cmdFactory, clock),
		setStatus:       commands.NewSetDeliveryStatusCommandHandler(cmdFactory, clock),
		perID:           newKeyedMutex(),
		logger:          logger.With("component", "ledger"),
	}
}

// PlanRoute returns the route between two cells. Unreachable goals produce a
// direct route (IsDirect); only cells outside the grid fail.
func (l *Ledger) PlanRoute(ctx context.Context, start, goal kernel.Cell, obstacles []kernel.Cell) (route.Route, error) {
	return l.planRoute.Handle(ctx, queries.NewPlanRouteQuery(start, goal, obstacles))
}

// StartDelivery plans the route and stores a new in-transit delivery.
func (l *Ledger) StartDelivery(ctx context.Context, req StartRequest) (*delivery.Delivery, error) {
	cmd, err := commands.NewStartDeliveryCommand(
		kernel.NewUUID(), req.Medicine, req.Patient, req.From, req.To, req.Obstacles, req.EstimatedArrival)
	if err != nil {
		return nil, err
	}

	l.batch.RLock()
	defer l.batch.RUnlock()

	d, err := l.startDelivery.Handle(ctx, cmd)
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "Delivery started",
		"delivery_id", d.ID().String(),
		"patient_id", d.Patient().ID(),
		"route_length", d.Route().Len(),
		"direct_route", d.Route().IsDirect(),
	)
	return d, nil
}

// AdvanceProgress moves a delivery one step. found is false for an unknown id.
// Deliveries that are not in transit come back unchanged.
func (l *Ledger) AdvanceProgress(ctx context.Context, id kernel.UUID) (*delivery.Delivery, bool, error) {
	cmd, err := commands.NewAdvanceProgressCommand(id)
	if err != nil {
		return nil, false, err
	}

	unlock := l.lock(id)
	defer unlock()

	d, found, err := notFoundAsResult(l.advanceProgress.Handle(ctx, cmd))
	if !found || err != nil {
		return d, found, err
	}

	l.logger.DebugContext(ctx, "Delivery advanced",
		"delivery_id", d.ID().String(),
		"step", d.CurrentStep(),
		"status", d.Status().String(),
	)
	return d, true, nil
}

// AdvanceAllInTransit moves every in-transit delivery one step and returns how
// many moved.
func (l *Ledger) AdvanceAllInTransit(ctx context.Context) (int, error) {
	l.batch.Lock()
	defer l.batch.Unlock()

	return l.advanceAll.Handle(ctx, commands.NewAdvanceAllInTransitCommand())
}

// GetDelivery looks up one delivery. found is false for an unknown id.
func (l *Ledger) GetDelivery(ctx context.Context, id kernel.UUID) (*delivery.Delivery, bool, error) {
	query, err := queries.NewGetDeliveryQuery(id)
	if err != nil {
		return nil, false, err
	}

	return notFoundAsResult(l.getDelivery.Handle(ctx, query))
}

// GetDeliveriesForPatient lists the patient's deliveries in insertion order.
func (l *Ledger) GetDeliveriesForPatient(ctx context.Context, patientID string) ([]*delivery.Delivery, error) {
	query, err := queries.NewGetPatientDeliveriesQuery(patientID)
	if err != nil {
		return nil, err
	}

	return l.patientHistory.Handle(ctx, query)
}

// SetStatus overrides a delivery's status without checking the transition.
// found is false for an unknown id.
func (l *Ledger) SetStatus(
	ctx context.Context,
	id kernel.UUID,
	status delivery.Status,
) (*delivery.Delivery, bool, error) {
	cmd, err := commands.NewSetDeliveryStatusCommand(id, status)
	if err != nil {
		return nil, false, err
	}

	unlock := l.lock(id)
	defer unlock()

	d, found, err := notFoundAsResult(l.setStatus.Handle(ctx, cmd))
	if !found || err != nil {
		return d, found, err
	}

	l.logger.InfoContext(ctx, "Delivery status overridden",
		"delivery_id", d.ID().String(),
		"status", d.Status().String(),
	)
	return d, true, nil
}

// ComputeStatistics summarizes every stored delivery.
func (l *Ledger) ComputeStatistics(ctx context.Context) (delivery.Statistics, error) {
	return l.statistics.Handle(ctx, queries.NewGetDeliveryStatisticsQuery())
}

func (l *Ledger) lock(id kernel.UUID) func() {
	l.batch.RLock()
	unlock := l.perID.Lock(id)
	return func() {
		unlock()
		l.batch.RUnlock()
	}
}

func notFoundAsResult(d *delivery.Delivery, err error) (*delivery.Delivery, bool, error) {
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return d, true, nil
}

type commandUoWFactory struct {
	ports.UnitOfWorkFactory
}

func (f commandUoWFactory) Create() commands.DeliveryUoW {
	return f.UnitOfWorkFactory.Create()
}
