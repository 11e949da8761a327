// Package errs provides standardized error types for the medicine delivery service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes:
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsInvalidError: a value is malformed
//   - ValueIsOutOfRangeError: a value lies outside its allowed bounds (e.g. a grid cell)
//   - ObjectNotFoundError: an object cannot be found by its identifier
//   - StorageUnavailableError: the backing store could not be read or written
//
// Each error type follows the same pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired) returned by Unwrap
//   - A struct type with fields for error details and an optional Cause
//   - Constructor functions with and without cause
//
// Callers classify errors with errors.Is against the sentinels and extract details
// with errors.As against the struct types.
package errs
