package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"workshop-console/backend/internal/assignment"
	"workshop-console/backend/internal/services"
	"workshop-console/backend/pkg/models"
)

// GetWorkload returns the live workload index.
// (GET /api/v1/workload)
func (h *Handler) GetWorkload(c echo.Context) error {
	index, err := h.Assignment.WorkloadIndex(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, index)
}

type suggestRequest struct {
	Strategy assignment.Strategy `json:"strategy"`
	Seed     *int64              `json:"seed,omitempty"`
}

type suggestResponse struct {
	Tasks       []models.Task           `json:"tasks"`
	Suggestions []assignment.Suggestion `json:"suggestions"`
}

// SuggestAssignments applies a strategy over the open task list.
// (POST /api/v1/assignments/suggest)
func (h *Handler) SuggestAssignments(c echo.Context) error {
	var req suggestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body: "+err.Error())
	}
	tasks, suggestions, err := h.Assignment.Suggest(c.Request().Context(), req.Strategy, req.Seed)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, suggestResponse{Tasks: tasks, Suggestions: suggestions})
}

type commitRequest struct {
	Pairs []services.AssignmentPair `json:"pairs"`
}

type commitResponse struct {
	Committed int `json:"committed"`
}

// CommitAssignments applies accepted pairs as one atomic write.
// (POST /api/v1/assignments/commit)
func (h *Handler) CommitAssignments(c echo.Context) error {
	var req commitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body: "+err.Error())
	}
	count, err := h.Assignment.CommitAssignments(c.Request().Context(), req.Pairs)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, commitResponse{Committed: count})
}

// ListTasks returns all standalone tasks.
// (GET /api/v1/tasks)
func (h *Handler) ListTasks(c echo.Context) error {
	tasks, err := h.Assignment.ListTasks(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, tasks)
}

// CreateTask creates a standalone task.
// (POST /api/v1/tasks)
func (h *Handler) CreateTask(c echo.Context) error {
	var task models.StandaloneTask
	if err := c.Bind(&task); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body: "+err.Error())
	}
	created, err := h.Assignment.CreateTask(c.Request().Context(), task)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateTask updates a standalone task.
// (PUT /api/v1/tasks/:id)
func (h *Handler) UpdateTask(c echo.Context) error {
	var task models.StandaloneTask
	if err := c.Bind(&task); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body: "+err.Error())
	}
	task.ID = c.Param("id")
	if err := h.Assignment.UpdateTask(c.Request().Context(), task); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteTask removes a standalone task.
// (DELETE /api/v1/tasks/:id)
func (h *Handler) DeleteTask(c echo.Context) error {
	if err := h.Assignment.DeleteTask(c.Request().Context(), c.Param("id")); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
