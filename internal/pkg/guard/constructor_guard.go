// Package guard provides ConstructorGuard, a marker embedded in value objects and
// commands so that zero values can be told apart from constructed ones.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard records whether the owning struct was built through its constructor.
//
// Embed it as an unexported field and set it with NewConstructorGuard inside the
// constructor. The zero value reports "not constructed":
//
//	type Dose struct {
//	    milligrams int
//	    guard      guard.ConstructorGuard
//	}
//
//	func (d Dose) Validate() error {
//	    return d.guard.Validate(ErrDoseIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is the zero value, and nil otherwise.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
