// Package delivery provides the Delivery aggregate root: a tracked medicine
// transport along a planned grid route, and the status state machine driving it.
//
// The package includes:
//   - Delivery: identity, medicine and patient references, owned route, step counter,
//     timestamps and derived progress
//   - Status: Pending, InTransit, Delivered
//   - Statistics: aggregate counts and mean delivery time over a set of deliveries
//
// Key business rules:
//   - A new delivery starts InTransit at step 0
//   - Advance moves one cell along the route, never past the last cell, and marks
//     the delivery Delivered (stamping DeliveredAt once) when the last cell is reached
//   - Advance is a no-op for deliveries that are not InTransit
//   - SetStatus overrides the status without any transition check
package delivery
