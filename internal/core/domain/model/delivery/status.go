package delivery

import (
	"fmt"

	"meddelivery/internal/pkg/errs"
)

// Status is the lifecycle state of a delivery.
//
// State transitions:
//
//	Pending ─ ─ ─> InTransit ──Advance reaches last cell──> Delivered
//
// Pending is a valid stored value but NewDelivery starts deliveries directly in
// InTransit. Delivered is terminal for Advance. Delivery.SetStatus may move between
// any two valid statuses; it is an administrative override, not a transition rule.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Pending
	InTransit
	Delivered
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		InTransit: "in_transit",
		Delivered: "delivered",
	}
}

// ParseStatus converts the wire form ("pending", "in_transit", "delivered") to a Status.
func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s != Pending && s != InTransit && s != Delivered {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire form of the status; invalid values print as "unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// CanAdvance reports whether step-based progress applies in this status.
func (s Status) CanAdvance() bool {
	return s == InTransit
}
