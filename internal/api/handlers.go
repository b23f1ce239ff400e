// Package api contains the HTTP handlers exposed to the console UI.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"workshop-console/backend/internal/services"
	"workshop-console/backend/internal/workflow"
	"workshop-console/backend/pkg/models"
)

// Handler holds the service dependencies for the REST API.
type Handler struct {
	Tracking   *services.TrackingService
	Assignment *services.AssignmentService
}

// NewHandler creates a new Handler with required dependencies.
func NewHandler(tracking *services.TrackingService, assign *services.AssignmentService) *Handler {
	return &Handler{Tracking: tracking, Assignment: assign}
}

// Register mounts all routes on the given group.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.HandleHealth)

	g := e.Group("/api/v1")
	g.GET("/orders", h.ListOrders)
	g.GET("/warranty-claims", h.ListClaims)
	g.GET("/units/:kind/:id", h.GetUnit)
	g.GET("/units/:kind/:id/progress", h.GetProgress)
	g.POST("/units/:kind/:id/status", h.UpdateStatus)
	g.PUT("/units/:kind/:id/products/:productId/stages/:stageId/done", h.SetStageDone)
	g.GET("/workload", h.GetWorkload)
	g.POST("/assignments/suggest", h.SuggestAssignments)
	g.POST("/assignments/commit", h.CommitAssignments)
	g.GET("/tasks", h.ListTasks)
	g.POST("/tasks", h.CreateTask)
	g.PUT("/tasks/:id", h.UpdateTask)
	g.DELETE("/tasks/:id", h.DeleteTask)
}

// HealthStatus represents the health check response.
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
}

// HandleHealth returns basic health status (always returns 200 OK).
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Service:   "workshop-console",
		Version:   "1.0.0",
	})
}

// ProblemDetails represents an RFC 7807 Problem Details response.
type ProblemDetails struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func writeProblem(c echo.Context, status int, title, detail string) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/problem+json")
	return c.JSON(status, ProblemDetails{
		Type:   "about:blank",
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

// writeServiceError maps domain errors onto HTTP problem responses.
func writeServiceError(c echo.Context, err error) error {
	var denied *workflow.TransitionDeniedError
	var invalid *workflow.ValidationError
	switch {
	case errors.As(err, &denied):
		return writeProblem(c, http.StatusConflict, "transition denied", denied.Error())
	case errors.As(err, &invalid):
		return writeProblem(c, http.StatusBadRequest, "validation failed", invalid.Error())
	case errors.Is(err, services.ErrNothingToCommit):
		return writeProblem(c, http.StatusUnprocessableEntity, "nothing to commit", err.Error())
	case errors.Is(err, services.ErrUnitNotFound), errors.Is(err, services.ErrTaskNotFound):
		return writeProblem(c, http.StatusNotFound, "not found", err.Error())
	default:
		return writeProblem(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}

// unitKindParam parses the :kind path segment.
func unitKindParam(c echo.Context) (models.UnitKind, error) {
	switch c.Param("kind") {
	case "orders", "order":
		return models.UnitKindOrder, nil
	case "warranty-claims", "warranty_claim":
		return models.UnitKindWarrantyClaim, nil
	default:
		return "", echo.NewHTTPError(http.StatusBadRequest, "unknown unit kind: "+c.Param("kind"))
	}
}
