package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workshop-console/backend/internal/logging"
	"workshop-console/backend/internal/services"
	"workshop-console/backend/internal/store"
	"workshop-console/backend/internal/workflow"
	"workshop-console/backend/pkg/models"
)

func newTestServer(t *testing.T) (*echo.Echo, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	logger := logging.NewNopLogger()
	tracking := services.NewTrackingService(st, logger)
	assign := services.NewAssignmentService(st, tracking, logger)

	e := echo.New()
	NewHandler(tracking, assign).Register(e)
	return e, st
}

func seedOrder(t *testing.T, st *store.MemoryStore, id string, status models.UnitStatus, done ...bool) {
	t.Helper()
	stages := make(map[string]models.Stage, len(done))
	for i, d := range done {
		stages[string(rune('a'+i))] = models.Stage{
			DepartmentCode: "carpentry",
			AssigneeIDs:    []string{"m1"},
			IsDone:         d,
		}
	}
	unit := models.Unit{
		Code:         "DH-" + id,
		CustomerName: "Nguyen",
		Status:       status,
		Products: map[string]models.Product{
			"p1": {Name: "table", Quantity: 1, Images: []string{"table.jpg"}, Stages: stages},
		},
	}
	require.NoError(t, st.Set(context.Background(), store.UnitPath(models.UnitKindOrder, id), unit))
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	e, _ := newTestServer(t)
	rec := doJSON(e, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestListOrders(t *testing.T) {
	e, st := newTestServer(t)
	seedOrder(t, st, "o1", models.StatusPending, false)

	rec := doJSON(e, http.MethodGet, "/api/v1/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var units []models.Unit
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &units))
	require.Len(t, units, 1)
	assert.Equal(t, "DH-o1", units[0].Code)
}

func TestGetUnit(t *testing.T) {
	e, st := newTestServer(t)
	seedOrder(t, st, "o1", models.StatusPending, false)

	t.Run("found", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/api/v1/units/orders/o1", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing is a 404 problem", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/api/v1/units/orders/ghost", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "application/problem+json")
	})

	t.Run("unknown kind", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/api/v1/units/invoices/o1", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetProgress(t *testing.T) {
	e, st := newTestServer(t)
	seedOrder(t, st, "o1", models.StatusInProgress, true, false)

	rec := doJSON(e, http.MethodGet, "/api/v1/units/orders/o1/progress", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Completed int `json:"completed"`
		Total     int `json:"total"`
		Percent   int `json:"percent"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Completed)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 50, resp.Percent)
}

func TestUpdateStatus(t *testing.T) {
	e, st := newTestServer(t)
	seedOrder(t, st, "o1", models.StatusInProgress, false)

	t.Run("gate denial is a 409 problem", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/api/v1/units/orders/o1/status", `{"target":"completed"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "application/problem+json")

		var problem ProblemDetails
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
		assert.Equal(t, "transition denied", problem.Title)
		assert.Contains(t, problem.Detail, workflow.ReasonIncompleteStages)
	})

	t.Run("missing target", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/api/v1/units/orders/o1/status", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("allowed transition returns updated unit", func(t *testing.T) {
		rec := doJSON(e, http.MethodPut,
			"/api/v1/units/orders/o1/products/p1/stages/a/done", `{"done":true}`)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = doJSON(e, http.MethodPost, "/api/v1/units/orders/o1/status", `{"target":"completed"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var unit models.Unit
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &unit))
		assert.Equal(t, models.StatusCompleted, unit.Status)
	})
}

func TestWorkloadEndpoint(t *testing.T) {
	e, st := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, st.Update(ctx, map[string]any{
		"members/m1": models.Member{Name: "Binh", IsActive: true},
		"members/m2": models.Member{Name: "Chi", IsActive: true},
	}))
	seedOrder(t, st, "o1", models.StatusInProgress, false)

	rec := doJSON(e, http.MethodGet, "/api/v1/workload", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var index []models.WorkloadEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &index))
	require.Len(t, index, 2)
	assert.Equal(t, "m2", index[0].MemberID)
	assert.Equal(t, 0, index[0].ActiveTasks)
	assert.Equal(t, "m1", index[1].MemberID)
	assert.Equal(t, 1, index[1].ActiveTasks)
}

func TestSuggestAndCommit(t *testing.T) {
	e, st := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, st.Update(ctx, map[string]any{
		"members/m1": models.Member{Name: "Binh", IsActive: true},
		"members/m2": models.Member{Name: "Chi", IsActive: true},
	}))
	seedOrder(t, st, "o1", models.StatusInProgress, false)

	rec := doJSON(e, http.MethodPost, "/api/v1/assignments/suggest", `{"strategy":5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var suggested struct {
		Tasks       []models.Task `json:"tasks"`
		Suggestions []struct {
			TaskKey    string `json:"taskKey"`
			AssigneeID string `json:"assigneeId"`
		} `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &suggested))
	require.Len(t, suggested.Tasks, 1)
	require.Len(t, suggested.Suggestions, 1)
	assert.Equal(t, "m2", suggested.Suggestions[0].AssigneeID, "least loaded member")

	commit := `{"pairs":[{"task":` + mustJSON(t, suggested.Tasks[0]) + `,"assigneeId":"m2"}]}`
	rec = doJSON(e, http.MethodPost, "/api/v1/assignments/commit", commit)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"committed":1`)

	value, err := st.Get(ctx, store.StageMembersPath(models.UnitKindOrder, "o1", "p1", "a"))
	require.NoError(t, err)
	assert.Equal(t, []any{"m2"}, value)
}

func TestCommitEmptyBatch(t *testing.T) {
	e, _ := newTestServer(t)
	rec := doJSON(e, http.MethodPost, "/api/v1/assignments/commit", `{"pairs":[]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "application/problem+json")
}

func TestSuggestRejectsUnknownStrategy(t *testing.T) {
	e, _ := newTestServer(t)
	rec := doJSON(e, http.MethodPost, "/api/v1/assignments/suggest", `{"strategy":12}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestTaskEndpoints(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/tasks", `{"title":"Fix jig","assignee":"m1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.StandaloneTask
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	rec = doJSON(e, http.MethodPut, "/api/v1/tasks/"+created.ID, `{"title":"Fix jig","isDone":true}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/v1/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tasks []models.StandaloneTask
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].IsDone)

	rec = doJSON(e, http.MethodDelete, "/api/v1/tasks/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(e, http.MethodPut, "/api/v1/tasks/"+created.ID, `{"title":"gone"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return string(raw)
}
