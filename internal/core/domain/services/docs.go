// Package services holds stateless domain services for route planning.
//
// GridPathfinder runs the A* search over a grid. RoutePlanner validates a routing
// request against the configured grid, turns the search result into a route.Route
// and degrades to a direct route when the goal cannot be reached.
package services
