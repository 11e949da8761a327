package servers

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Cell defines model for Cell.
type Cell struct {
	X int `json:"x" validate:"gte=0"`
	Y int `json:"y" validate:"gte=0"`
}

// Place defines model for Place.
type Place struct {
	Cell Cell   `json:"cell"`
	Name string `json:"name" validate:"required"`
}

// Reference defines model for Reference.
type Reference struct {
	Id   string `json:"id" validate:"required"`
	Name string `json:"name,omitempty"`
}

// PlanRouteRequest defines model for PlanRouteRequest.
type PlanRouteRequest struct {
	Goal      Cell   `json:"goal"`
	Obstacles []Cell `json:"obstacles,omitempty" validate:"omitempty,dive"`
	Start     Cell   `json:"start"`
}

// StartDeliveryRequest defines model for StartDeliveryRequest.
type StartDeliveryRequest struct {
	EstimatedArrival *time.Time `json:"estimatedArrival,omitempty"`
	From             Place      `json:"from"`
	Medicine         Reference  `json:"medicine"`
	Obstacles        []Cell     `json:"obstacles,omitempty" validate:"omitempty,dive"`
	Patient          Reference  `json:"patient"`
	To               Place      `json:"to"`
}

// SetStatusRequest defines model for SetStatusRequest.
type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_transit delivered"`
}

// Route defines model for Route.
type Route struct {
	Cells            []Cell `json:"cells"`
	Direct           bool   `json:"direct"`
	Distance         int    `json:"distance"`
	EstimatedMinutes int    `json:"estimatedMinutes"`
}

// Delivery defines model for Delivery.
type Delivery struct {
	CurrentCell      Cell               `json:"currentCell"`
	CurrentStep      int                `json:"currentStep"`
	DeliveredAt      *time.Time         `json:"deliveredAt,omitempty"`
	EstimatedArrival *time.Time         `json:"estimatedArrival,omitempty"`
	From             Place              `json:"from"`
	Id               openapi_types.UUID `json:"id"`
	Medicine         Reference          `json:"medicine"`
	Patient          Reference          `json:"patient"`
	Progress         float64            `json:"progress"`
	Route            Route              `json:"route"`
	StartedAt        time.Time          `json:"startedAt"`
	Status           string             `json:"status"`
	To               Place              `json:"to"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// Statistics defines model for Statistics.
type Statistics struct {
	AverageDeliveryMinutes int `json:"averageDeliveryMinutes"`
	Delivered              int `json:"delivered"`
	InTransit              int `json:"inTransit"`
	Pending                int `json:"pending"`
	Total                  int `json:"total"`
}

// AdvanceAllResult defines model for AdvanceAllResult.
type AdvanceAllResult struct {
	Advanced int `json:"advanced"`
}

// Error defines model for Error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
