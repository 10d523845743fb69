// Package api is the console's HTTP layer: thin echo handlers over the
// alerting editor and registry.
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/beehivemonitor/console/internal/alerting"
	"github.com/beehivemonitor/console/internal/backend"
)

// Controller wires the console routes to the alerting core. Editors are
// created per request; the registry is the long-lived per-console list
// cache.
type Controller struct {
	alerts   alerting.AlertService
	hives    alerting.HiveService
	registry *alerting.Registry
	log      *zap.Logger
}

// NewController creates the console controller.
func NewController(alerts alerting.AlertService, hives alerting.HiveService, registry *alerting.Registry, log *zap.Logger) *Controller {
	return &Controller{alerts: alerts, hives: hives, registry: registry, log: log}
}

// RegisterRoutes attaches all console endpoints.
func (c *Controller) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", c.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	g := e.Group("/api/v1")
	g.GET("/alerts/schema", c.GetAlertSchema)
	g.GET("/alerts", c.ListAlerts)
	g.GET("/alerts/:id", c.GetAlertEditor)
	g.POST("/alerts", c.CreateAlert)
	g.PUT("/alerts/:id", c.UpdateAlert)
	g.DELETE("/alerts/:id", c.DeleteAlert)
	g.POST("/alerts/:id/reset", c.ResetAlert)
	g.GET("/hives", c.ListHives)
}

// Health reports liveness.
func (c *Controller) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// validationErrors are the editor/registry failures reported as 400s with
// their own message.
var validationErrors = []error{
	alerting.ErrNameRequired,
	alerting.ErrHiveRequired,
	alerting.ErrNoConditions,
	alerting.ErrHiveLocked,
	alerting.ErrTooManyConditions,
	alerting.ErrLastCondition,
	alerting.ErrIndexOutOfRange,
	alerting.ErrConfirmationRequired,
}

// handleError translates core and remote errors into the console's JSON
// error bodies. Validation failures keep their message; remote rejections
// surface the collaborator's message verbatim when it supplied one.
func (c *Controller) handleError(ctx echo.Context, err error) error {
	for _, ve := range validationErrors {
		if errors.Is(err, ve) {
			return ctx.JSON(http.StatusBadRequest, map[string]string{"error": ve.Error()})
		}
	}
	switch {
	case errors.Is(err, backend.ErrNotAuthenticated):
		return ctx.JSON(http.StatusUnauthorized, map[string]string{"error": "Not authenticated. Please log in again."})
	case errors.Is(err, backend.ErrUnreachable):
		return ctx.JSON(http.StatusBadGateway, map[string]string{"error": "Cannot connect to the monitoring service."})
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = "The monitoring service rejected the request."
		}
		return ctx.JSON(apiErr.StatusCode, map[string]string{"error": msg})
	}
	c.log.Error("unhandled console error", zap.Error(err))
	return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": "Something went wrong. Please try again."})
}
