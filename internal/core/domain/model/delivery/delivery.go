package delivery

import (
	"errors"
	"fmt"
	"time"

	"meddelivery/internal/core/domain/model/kernel"
	"meddelivery/internal/core/domain/model/route"
	"meddelivery/internal/pkg/errs"
)

var (
	// ErrDeliveryIsNotConstructed is returned when a Delivery was not created through
	// NewDelivery or RestoreDelivery.
	ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery or RestoreDelivery constructor")
	// ErrStartedAtIsRequired is returned for a zero start timestamp.
	ErrStartedAtIsRequired = errs.NewValueIsRequiredError("startedAt")
)

// Delivery tracks one medicine transport from a pickup place to a patient along a
// route planned on the delivery grid.
//
// Delivery follows these invariants:
//   - Must have a valid unique identifier and a non-empty route
//   - 0 <= CurrentStep() <= Route().Len()-1, and CurrentStep never decreases
//   - DeliveredAt is stamped at most once, by the Advance that reaches the last cell
//   - The route is copied in on construction and never replaced
//
// SetStatus deliberately bypasses these transition rules; see its documentation.
type Delivery struct {
	id               kernel.UUID
	medicine         Reference
	patient          Reference
	from             kernel.Place
	to               kernel.Place
	route            route.Route
	status           Status
	currentStep      int
	startedAt        time.Time
	deliveredAt      *time.Time
	updatedAt        time.Time
	estimatedArrival *time.Time

	isConstructed bool
}

// NewDelivery starts a delivery: status InTransit, step 0, StartedAt and UpdatedAt
// set to startedAt.
//
// estimatedArrival is advisory. When nil it defaults to startedAt plus the route's
// estimated minutes.
//
// Example:
//
//	d, err := delivery.NewDelivery(kernel.NewUUID(), medicine, patient, pharmacy, ward, r, time.Now(), nil)
//	if err != nil {
//	    return err
//	}
func NewDelivery(
	id kernel.UUID,
	medicine Reference,
	patient Reference,
	from kernel.Place,
	to kernel.Place,
	r route.Route,
	startedAt time.Time,
	estimatedArrival *time.Time,
) (*Delivery, error) {
	d := &Delivery{
		status:        InTransit,
		isConstructed: true,
	}

	if err := errors.Join(
		d.setID(id),
		d.setReferences(medicine, patient),
		d.setPlaces(from, to),
		d.setRoute(r),
		d.setStartedAt(startedAt),
	); err != nil {
		return nil, err
	}

	d.updatedAt = startedAt
	if estimatedArrival != nil {
		eta := *estimatedArrival
		d.estimatedArrival = &eta
	} else {
		eta := startedAt.Add(time.Duration(r.EstimatedMinutes()) * time.Minute)
		d.estimatedArrival = &eta
	}

	return d, nil
}

// RestoreParams carries the persisted state of a delivery.
type RestoreParams struct {
	ID               kernel.UUID
	Medicine         Reference
	Patient          Reference
	From             kernel.Place
	To               kernel.Place
	Route            route.Route
	Status           Status
	CurrentStep      int
	StartedAt        time.Time
	DeliveredAt      *time.Time
	UpdatedAt        time.Time
	EstimatedArrival *time.Time
}

// RestoreDelivery rebuilds a delivery from storage. Any valid status is accepted,
// including Pending and combinations produced by SetStatus.
func RestoreDelivery(p RestoreParams) (*Delivery, error) {
	d := &Delivery{isConstructed: true}

	if err := errors.Join(
		d.setID(p.ID),
		d.setReferences(p.Medicine, p.Patient),
		d.setPlaces(p.From, p.To),
		d.setRoute(p.Route),
		d.setStartedAt(p.StartedAt),
		p.Status.Validate(),
	); err != nil {
		return nil, err
	}

	if p.CurrentStep < 0 || p.CurrentStep > p.Route.Len()-1 {
		return nil, errs.NewValueIsOutOfRangeError("currentStep", p.CurrentStep, 0, p.Route.Len()-1)
	}

	d.status = p.Status
	d.currentStep = p.CurrentStep
	d.deliveredAt = copyTime(p.DeliveredAt)
	d.updatedAt = p.UpdatedAt
	d.estimatedArrival = copyTime(p.EstimatedArrival)
	return d, nil
}

// Validate ensures the delivery was created through a constructor.
func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}
	return nil
}

// IsEqual compares deliveries by identifier.
func (d *Delivery) IsEqual(other *Delivery) bool {
	return other != nil && d.id.IsEqual(other.id)
}

func (d *Delivery) ID() kernel.UUID {
	return d.id
}

func (d *Delivery) Medicine() Reference {
	return d.medicine
}

func (d *Delivery) Patient() Reference {
	return d.patient
}

func (d *Delivery) From() kernel.Place {
	return d.from
}

func (d *Delivery) To() kernel.Place {
	return d.to
}

// Route returns the owned route. Route is immutable, so the value is safe to share.
func (d *Delivery) Route() route.Route {
	return d.route
}

func (d *Delivery) Status() Status {
	return d.status
}

func (d *Delivery) CurrentStep() int {
	return d.currentStep
}

// CurrentCell is the route cell the delivery has reached.
func (d *Delivery) CurrentCell() kernel.Cell {
	return d.route.CellAt(d.currentStep)
}

func (d *Delivery) StartedAt() time.Time {
	return d.startedAt
}

// DeliveredAt is nil until Advance reaches the last cell.
func (d *Delivery) DeliveredAt() *time.Time {
	return copyTime(d.deliveredAt)
}

func (d *Delivery) UpdatedAt() time.Time {
	return d.updatedAt
}

func (d *Delivery) EstimatedArrival() *time.Time {
	return copyTime(d.estimatedArrival)
}

// Progress is the completed share of the route as a percentage. It is derived
// from the step counter: CurrentStep / Route().Len() * 100, except that it is
// exactly 100 once Advance has stamped arrival at the last cell.
func (d *Delivery) Progress() float64 {
	if d.deliveredAt != nil && d.currentStep == d.lastStep() {
		return 100
	}
	return float64(d.currentStep) / float64(d.route.Len()) * 100
}

// Advance simulates one step of travel.
//
// Business rules:
//   - Only InTransit deliveries move; any other status returns false unchanged
//   - CurrentStep grows by one and is capped at the last route cell
//   - Reaching the last cell switches the status to Delivered; DeliveredAt is
//     stamped only if it was never stamped before
//
// Returns true when the delivery changed.
func (d *Delivery) Advance(now time.Time) bool {
	if !d.status.CanAdvance() {
		return false
	}

	if d.currentStep < d.lastStep() {
		d.currentStep++
	}

	if d.currentStep == d.lastStep() {
		d.status = Delivered
		if d.deliveredAt == nil {
			stamp := now
			d.deliveredAt = &stamp
		}
	}

	d.updatedAt = now
	return true
}

// SetStatus overrides the status and stamps UpdatedAt.
//
// This is an administrative escape hatch. It does not check that the new status
// is reachable from the current one, does not move CurrentStep and does not stamp
// DeliveredAt, so it can produce e.g. a Delivered record halfway along its route.
func (d *Delivery) SetStatus(status Status, now time.Time) error {
	if err := status.Validate(); err != nil {
		return err
	}

	d.status = status
	d.updatedAt = now
	return nil
}

func (d *Delivery) lastStep() int {
	return d.route.Len() - 1
}

func (d *Delivery) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Delivery) setReferences(medicine, patient Reference) error {
	var errList []error
	if medicine.ID() == "" {
		errList = append(errList, errs.NewValueIsRequiredError("medicine id"))
	}
	if patient.ID() == "" {
		errList = append(errList, errs.NewValueIsRequiredError("patient id"))
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	d.medicine = medicine
	d.patient = patient
	return nil
}

func (d *Delivery) setPlaces(from, to kernel.Place) error {
	if err := errors.Join(from.Validate(), to.Validate()); err != nil {
		return err
	}
	d.from = from
	d.to = to
	return nil
}

func (d *Delivery) setRoute(r route.Route) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.Len() == 0 {
		return route.ErrCellsAreRequired
	}
	d.route = r
	return nil
}

func (d *Delivery) setStartedAt(startedAt time.Time) error {
	if startedAt.IsZero() {
		return ErrStartedAtIsRequired
	}
	d.startedAt = startedAt
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// String is used in log lines.
func (d *Delivery) String() string {
	return fmt.Sprintf("Delivery(%s %s step %d/%d)", d.id, d.status, d.currentStep, d.lastStep())
}
