package delivery

import (
	"strings"

	"meddelivery/internal/pkg/errs"
)

// Reference points at a record owned by another part of the system, such as a
// medicine in the catalogue or a patient. Only its id takes part in lookups.
type Reference struct {
	id   string
	name string
}

// NewReference requires a non-blank id; the display name may be empty.
func NewReference(id, name string) (Reference, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Reference{}, errs.NewValueIsRequiredError("reference id")
	}
	return Reference{id: id, name: strings.TrimSpace(name)}, nil
}

func (r Reference) ID() string {
	return r.id
}

func (r Reference) Name() string {
	return r.name
}
