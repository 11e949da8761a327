// Package kernel provides the shared value objects of the delivery domain.
//
// The package includes:
//   - UUID: identifier value object wrapping github.com/google/uuid
//   - Cell: an integer grid position, comparable by value
//   - Grid: the immutable bounding box cells are validated against
//   - Place: a named cell such as a pharmacy or a ward
//
// Values are immutable. Types whose zero value is meaningless (UUID, Grid, Place)
// fail Validate unless they were built through their constructors.
package kernel
