package blobrepo

import (
	"context"
	"fmt"

	"meddelivery/internal/core/domain/model/delivery"
	"meddelivery/internal/core/domain/model/kernel"
	"meddelivery/internal/pkg/errs"
)

// Repository reads and writes the records loaded by its unit of work.
// Every read decodes a fresh aggregate, so callers never share state with the document.
type Repository struct {
	uow *UnitOfWork
}

func (r *Repository) Add(_ context.Context, d *delivery.Delivery) error {
	if !r.uow.active {
		return ErrNoActiveTransaction
	}
	if err := d.Validate(); err != nil {
		return err
	}

	rec := fromDomain(d)
	if r.uow.indexOf(rec.ID) >= 0 {
		return errs.NewValueIsInvalidErrorWithCause("delivery id", fmt.Errorf("%s already exists", rec.ID))
	}

	r.uow.records = append(r.uow.records, rec)
	r.uow.dirty = true
	return nil
}

func (r *Repository) Update(_ context.Context, d *delivery.Delivery) error {
	if !r.uow.active {
		return ErrNoActiveTransaction
	}
	if err := d.Validate(); err != nil {
		return err
	}

	rec := fromDomain(d)
	i := r.uow.indexOf(rec.ID)
	if i < 0 {
		return errs.NewObjectNotFoundError("delivery", rec.ID)
	}

	r.uow.records[i] = rec
	r.uow.dirty = true
	return nil
}

func (r *Repository) Get(_ context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	if !r.uow.active {
		return nil, ErrNoActiveTransaction
	}
	if err := id.Validate(); err != nil {
		return nil, err
	}

	i := r.uow.indexOf(id.String())
	if i < 0 {
		return nil, errs.NewObjectNotFoundError("delivery", id.String())
	}
	return restore(r.uow.records[i])
}

func (r *Repository) GetAll(_ context.Context) ([]*delivery.Delivery, error) {
	return r.filter(func(deliveryRecord) bool { return true })
}

func (r *Repository) GetAllByPatient(_ context.Context, patientID string) ([]*delivery.Delivery, error) {
	return r.filter(func(rec deliveryRecord) bool { return rec.PatientID == patientID })
}

func (r *Repository) GetAllInTransit(_ context.Context) ([]*delivery.Delivery, error) {
	inTransit := delivery.InTransit.String()
	return r.filter(func(rec deliveryRecord) bool { return rec.Status == inTransit })
}

func (r *Repository) filter(keep func(deliveryRecord) bool) ([]*delivery.Delivery, error) {
	if !r.uow.active {
		return nil, ErrNoActiveTransaction
	}

	result := make([]*delivery.Delivery, 0)
	for _, rec := range r.uow.records {
		if !keep(rec) {
			continue
		}
		d, err := restore(rec)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, nil
}

// restore reports a record that fails to restore as a storage fault, never as
// caller input.
func restore(rec deliveryRecord) (*delivery.Delivery, error) {
	d, err := toDomain(rec)
	if err != nil {
		return nil, errs.NewStorageUnavailableError(fmt.Sprintf("restore delivery %s", rec.ID), err)
	}
	return d, nil
}
