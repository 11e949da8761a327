package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"meddelivery/internal/core/application/ledger"
	"meddelivery/internal/core/domain/model/delivery"
	"meddelivery/internal/core/domain/model/kernel"
	"meddelivery/internal/core/domain/model/route"
	"meddelivery/internal/generated/servers"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// DeliveryLedger is the application API the HTTP handlers call.
type DeliveryLedger interface {
	PlanRoute(ctx context.Context, start, goal kernel.Cell, obstacles []kernel.Cell) (route.Route, error)
	StartDelivery(ctx context.Context, req ledger.StartRequest) (*delivery.Delivery, error)
	AdvanceProgress(ctx context.Context, id kernel.UUID) (*delivery.Delivery, bool, error)
	AdvanceAllInTransit(ctx context.Context) (int, error)
	GetDelivery(ctx context.Context, id kernel.UUID) (*delivery.Delivery, bool, error)
	GetDeliveriesForPatient(ctx context.Context, patientID string) ([]*delivery.Delivery, error)
	SetStatus(ctx context.Context, id kernel.UUID, status delivery.Status) (*delivery.Delivery, bool, error)
	ComputeStatistics(ctx context.Context) (delivery.Statistics, error)
}

var errDeliveryNotFound = errors.New("delivery not found")

// Server implements servers.ServerInterface on top of the delivery ledger.
type Server struct {
	ledger DeliveryLedger
	logger *slog.Logger
}

func NewServer(ledger DeliveryLedger, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		ledger: ledger,
		logger: logger.With("component", "http"),
	}
}

// PlanRoute handles POST /api/v1/routes.
func (s *Server) PlanRoute(ctx echo.Context) error {
	var req servers.PlanRouteRequest
	if err := s.bind(ctx, &req); err != nil {
		return s.fail(ctx, err)
	}

	r, err := s.ledger.PlanRoute(ctx.Request().Context(),
		toCell(req.Start), toCell(req.Goal), toCells(req.Obstacles))
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, fromRoute(r))
}

// StartDelivery handles POST /api/v1/deliveries.
func (s *Server) StartDelivery(ctx echo.Context) error {
	var req servers.StartDeliveryRequest
	if err := s.bind(ctx, &req); err != nil {
		return s.fail(ctx, err)
	}

	start, err := toStartRequest(req)
	if err != nil {
		return s.fail(ctx, err)
	}

	d, err := s.ledger.StartDelivery(ctx.Request().Context(), start)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, fromDelivery(d))
}

// AdvanceAllDeliveries handles POST /api/v1/deliveries/advance.
func (s *Server) AdvanceAllDeliveries(ctx echo.Context) error {
	moved, err := s.ledger.AdvanceAllInTransit(ctx.Request().Context())
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.AdvanceAllResult{Advanced: moved})
}

// GetDeliveryStatistics handles GET /api/v1/deliveries/statistics.
func (s *Server) GetDeliveryStatistics(ctx echo.Context) error {
	stats, err := s.ledger.ComputeStatistics(ctx.Request().Context())
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, fromStatistics(stats))
}

// GetDelivery handles GET /api/v1/deliveries/{id}.
func (s *Server) GetDelivery(ctx echo.Context, id openapi_types.UUID) error {
	deliveryID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return s.fail(ctx, err)
	}

	d, found, err := s.ledger.GetDelivery(ctx.Request().Context(), deliveryID)
	return s.respondWithDelivery(ctx, d, found, err)
}

// AdvanceDelivery handles POST /api/v1/deliveries/{id}/advance.
func (s *Server) AdvanceDelivery(ctx echo.Context, id openapi_types.UUID) error {
	deliveryID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return s.fail(ctx, err)
	}

	d, found, err := s.ledger.AdvanceProgress(ctx.Request().Context(), deliveryID)
	return s.respondWithDelivery(ctx, d, found, err)
}

// SetDeliveryStatus handles PUT /api/v1/deliveries/{id}/status.
func (s *Server) SetDeliveryStatus(ctx echo.Context, id openapi_types.UUID) error {
	deliveryID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return s.fail(ctx, err)
	}

	var req servers.SetStatusRequest
	if err = s.bind(ctx, &req); err != nil {
		return s.fail(ctx, err)
	}

	status, err := delivery.ParseStatus(req.Status)
	if err != nil {
		return s.fail(ctx, err)
	}

	d, found, err := s.ledger.SetStatus(ctx.Request().Context(), deliveryID, status)
	return s.respondWithDelivery(ctx, d, found, err)
}

// GetPatientDeliveries handles GET /api/v1/patients/{patientId}/deliveries.
func (s *Server) GetPatientDeliveries(ctx echo.Context, patientId string) error {
	deliveries, err := s.ledger.GetDeliveriesForPatient(ctx.Request().Context(), patientId)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]servers.Delivery, len(deliveries))
	for i, d := range deliveries {
		response[i] = fromDelivery(d)
	}

	return ctx.JSON(http.StatusOK, response)
}

func (s *Server) respondWithDelivery(ctx echo.Context, d *delivery.Delivery, found bool, err error) error {
	if err != nil {
		return s.fail(ctx, err)
	}
	if !found {
		return ctx.JSON(http.StatusNotFound, servers.Error{
			Code:    http.StatusNotFound,
			Message: errDeliveryNotFound.Error(),
		})
	}

	return ctx.JSON(http.StatusOK, fromDelivery(d))
}

func (s *Server) bind(ctx echo.Context, req any) error {
	if err := ctx.Bind(req); err != nil {
		return errInvalidBody(err)
	}
	return ctx.Validate(req)
}

func (s *Server) fail(ctx echo.Context, err error) error {
	code := statusCode(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "Request failed",
			"method", ctx.Request().Method,
			"path", ctx.Path(),
			"error", err,
		)
		message = http.StatusText(code)
	}

	return ctx.JSON(code, servers.Error{Code: code, Message: message})
}
