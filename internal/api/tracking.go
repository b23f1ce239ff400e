package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"workshop-console/backend/internal/workflow"
	"workshop-console/backend/pkg/models"
)

// ListOrders returns all orders.
// (GET /api/v1/orders)
func (h *Handler) ListOrders(c echo.Context) error {
	units, err := h.Tracking.ListUnits(c.Request().Context(), models.UnitKindOrder)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, units)
}

// ListClaims returns all warranty claims.
// (GET /api/v1/warranty-claims)
func (h *Handler) ListClaims(c echo.Context) error {
	units, err := h.Tracking.ListUnits(c.Request().Context(), models.UnitKindWarrantyClaim)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, units)
}

// GetUnit returns one order or claim.
// (GET /api/v1/units/:kind/:id)
func (h *Handler) GetUnit(c echo.Context) error {
	kind, err := unitKindParam(c)
	if err != nil {
		return err
	}
	unit, err := h.Tracking.GetUnit(c.Request().Context(), kind, c.Param("id"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, unit)
}

// progressResponse carries the aggregate alongside the rounded percentage.
type progressResponse struct {
	workflow.Progress
	Percent int `json:"percent"`
}

// GetProgress returns the live completed/total stage counts of a unit.
// (GET /api/v1/units/:kind/:id/progress)
func (h *Handler) GetProgress(c echo.Context) error {
	kind, err := unitKindParam(c)
	if err != nil {
		return err
	}
	progress, err := h.Tracking.Progress(c.Request().Context(), kind, c.Param("id"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, progressResponse{Progress: progress, Percent: progress.Percent()})
}

type statusRequest struct {
	Target models.UnitStatus `json:"target"`
}

// UpdateStatus attempts a status transition through the gate.
// (POST /api/v1/units/:kind/:id/status)
func (h *Handler) UpdateStatus(c echo.Context) error {
	kind, err := unitKindParam(c)
	if err != nil {
		return err
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if req.Target == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "target status is required")
	}
	unit, err := h.Tracking.AttemptTransition(c.Request().Context(), kind, c.Param("id"), req.Target)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, unit)
}

type stageDoneRequest struct {
	Done bool `json:"done"`
}

// SetStageDone toggles one stage's done flag.
// (PUT /api/v1/units/:kind/:id/products/:productId/stages/:stageId/done)
func (h *Handler) SetStageDone(c echo.Context) error {
	kind, err := unitKindParam(c)
	if err != nil {
		return err
	}
	var req stageDoneRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body: "+err.Error())
	}
	err = h.Tracking.SetStageDone(c.Request().Context(), kind,
		c.Param("id"), c.Param("productId"), c.Param("stageId"), req.Done)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
