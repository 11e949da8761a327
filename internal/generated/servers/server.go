package servers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Plan a route between two cells without starting a delivery
	// (POST /api/v1/routes)
	PlanRoute(ctx echo.Context) error
	// Plan a route and start an in-transit delivery
	// (POST /api/v1/deliveries)
	StartDelivery(ctx echo.Context) error
	// Advance every in-transit delivery one step
	// (POST /api/v1/deliveries/advance)
	AdvanceAllDeliveries(ctx echo.Context) error
	// Summarize all deliveries
	// (GET /api/v1/deliveries/statistics)
	GetDeliveryStatistics(ctx echo.Context) error
	// Get one delivery
	// (GET /api/v1/deliveries/{id})
	GetDelivery(ctx echo.Context, id openapi_types.UUID) error
	// Move a delivery one step along its route
	// (POST /api/v1/deliveries/{id}/advance)
	AdvanceDelivery(ctx echo.Context, id openapi_types.UUID) error
	// Override the delivery status
	// (PUT /api/v1/deliveries/{id}/status)
	SetDeliveryStatus(ctx echo.Context, id openapi_types.UUID) error
	// List a patient's deliveries in the order they were started
	// (GET /api/v1/patients/{patientId}/deliveries)
	GetPatientDeliveries(ctx echo.Context, patientId string) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) PlanRoute(ctx echo.Context) error {
	return w.Handler.PlanRoute(ctx)
}

func (w *ServerInterfaceWrapper) StartDelivery(ctx echo.Context) error {
	return w.Handler.StartDelivery(ctx)
}

func (w *ServerInterfaceWrapper) AdvanceAllDeliveries(ctx echo.Context) error {
	return w.Handler.AdvanceAllDeliveries(ctx)
}

func (w *ServerInterfaceWrapper) GetDeliveryStatistics(ctx echo.Context) error {
	return w.Handler.GetDeliveryStatistics(ctx)
}

func (w *ServerInterfaceWrapper) GetDelivery(ctx echo.Context) error {
	id, err := bindDeliveryID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetDelivery(ctx, id)
}

func (w *ServerInterfaceWrapper) AdvanceDelivery(ctx echo.Context) error {
	id, err := bindDeliveryID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.AdvanceDelivery(ctx, id)
}

func (w *ServerInterfaceWrapper) SetDeliveryStatus(ctx echo.Context) error {
	id, err := bindDeliveryID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.SetDeliveryStatus(ctx, id)
}

func (w *ServerInterfaceWrapper) GetPatientDeliveries(ctx echo.Context) error {
	var patientId string

	err := runtime.BindStyledParameterWithOptions("simple", "patientId", ctx.Param("patientId"), &patientId,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter patientId: %s", err))
	}
	return w.Handler.GetPatientDeliveries(ctx, patientId)
}

func bindDeliveryID(ctx echo.Context) (openapi_types.UUID, error) {
	var id openapi_types.UUID

	err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter id: %s", err))
	}
	return id, nil
}

// EchoRouter is the subset of echo routing RegisterHandlers needs. Both
// *echo.Echo and *echo.Group satisfy it.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.POST(baseURL+"/api/v1/routes", wrapper.PlanRoute)
	router.POST(baseURL+"/api/v1/deliveries", wrapper.StartDelivery)
	router.POST(baseURL+"/api/v1/deliveries/advance", wrapper.AdvanceAllDeliveries)
	router.GET(baseURL+"/api/v1/deliveries/statistics", wrapper.GetDeliveryStatistics)
	router.GET(baseURL+"/api/v1/deliveries/:id", wrapper.GetDelivery)
	router.POST(baseURL+"/api/v1/deliveries/:id/advance", wrapper.AdvanceDelivery)
	router.PUT(baseURL+"/api/v1/deliveries/:id/status", wrapper.SetDeliveryStatus)
	router.GET(baseURL+"/api/v1/patients/:patientId/deliveries", wrapper.GetPatientDeliveries)
}
