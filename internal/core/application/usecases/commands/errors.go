package commands

import "meddelivery/internal/pkg/errs"

var (
	ErrMedicineIsRequired = errs.NewValueIsRequiredError("medicine")
	ErrPatientIsRequired  = errs.NewValueIsRequiredError("patient")
)
