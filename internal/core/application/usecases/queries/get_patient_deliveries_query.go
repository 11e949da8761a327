package queries

import (
	"errors"
	"strings"

	"meddelivery/internal/pkg/errs"
	"meddelivery/internal/pkg/guard"
)

var (
	ErrGetPatientDeliveriesQueryIsNotConstructed = errors.New(
		"GetPatientDeliveriesQuery must be created via NewGetPatientDeliveriesQuery constructor",
	)
	ErrPatientIDIsRequired = errs.NewValueIsRequiredError("patient id")
)

// GetPatientDeliveriesQuery lists a patient's deliveries in insertion order.
type GetPatientDeliveriesQuery struct {
	patientID string

	guard guard.ConstructorGuard
}

func NewGetPatientDeliveriesQuery(patientID string) (GetPatientDeliveriesQuery, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return GetPatientDeliveriesQuery{}, ErrPatientIDIsRequired
	}

	return GetPatientDeliveriesQuery{
		patientID: patientID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (q GetPatientDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrGetPatientDeliveriesQueryIsNotConstructed)
}

func (q GetPatientDeliveriesQuery) PatientID() string {
	return q.patientID
}
