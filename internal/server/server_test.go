// internal/server/server_test.go
package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/models"
	"taskflow/internal/notify"
	"taskflow/internal/repository"
	"taskflow/internal/store"
	"taskflow/internal/view"
)

func newTestServer(t *testing.T) (*Server, *notify.Feed) {
	t.Helper()
	taskClient, err := repository.NewMemoryTaskClient(store.Latency{})
	require.NoError(t, err)
	categoryClient, err := repository.NewMemoryCategoryClient(store.Latency{})
	require.NoError(t, err)

	taskRepo := repository.NewTaskRepository(taskClient)
	categoryRepo := repository.NewCategoryRepository(categoryClient)
	feed := notify.NewFeed(nil)
	coordinator := view.NewCoordinator(taskRepo, categoryRepo, feed, nil)

	return New(taskRepo, categoryRepo, coordinator, feed, nil), feed
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewBuffer(encoded)
	} else {
		payload = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/api/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_TaskCRUDRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	// create
	rec := doJSON(t, srv, http.MethodPost, "/api/tasks", map[string]any{
		"title":    "Buy milk",
		"priority": "low",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID          string  `json:"id"`
		Title       string  `json:"title"`
		Completed   bool    `json:"completed"`
		Status      string  `json:"status"`
		Priority    string  `json:"priority"`
		CompletedAt *string `json:"completedAt"`
	}
	decodeBody(t, rec, &created)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Buy milk", created.Title)
	assert.False(t, created.Completed)
	assert.Equal(t, models.StatusNotStarted, created.Status)
	assert.Equal(t, models.PriorityLow, created.Priority)
	assert.Nil(t, created.CompletedAt)

	// read back
	rec = doJSON(t, srv, http.MethodGet, "/api/tasks/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// update
	rec = doJSON(t, srv, http.MethodPut, "/api/tasks/"+created.ID, map[string]any{
		"title":    "Buy oat milk",
		"priority": "high",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated struct {
		Title    string `json:"title"`
		Priority string `json:"priority"`
	}
	decodeBody(t, rec, &updated)
	assert.Equal(t, "Buy oat milk", updated.Title)
	assert.Equal(t, models.PriorityHigh, updated.Priority)

	// delete
	rec = doJSON(t, srv, http.MethodDelete, "/api/tasks/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/tasks/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_CreateTaskValidation(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodPost, "/api/tasks", map[string]any{"title": ""})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error string `json:"error"`
		Field string `json:"field"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, "title", body.Field)
}

func TestServer_ListTasksAppliesQueryFilters(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/tasks?status=completed", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Tasks []struct {
			Completed bool `json:"completed"`
		} `json:"tasks"`
	}
	decodeBody(t, rec, &body)
	require.NotEmpty(t, body.Tasks)
	for _, task := range body.Tasks {
		assert.True(t, task.Completed)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/tasks?search=groceries", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var searched struct {
		Tasks []struct {
			Title string `json:"title"`
		} `json:"tasks"`
	}
	decodeBody(t, rec, &searched)
	require.Len(t, searched.Tasks, 1)
	assert.Equal(t, "Buy groceries", searched.Tasks[0].Title)
}

func TestServer_ToggleTask(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/tasks", map[string]any{"title": "toggle me"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &created)

	rec = doJSON(t, srv, http.MethodPost, "/api/tasks/"+created.ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var toggled struct {
		Completed   bool    `json:"completed"`
		CompletedAt *string `json:"completedAt"`
	}
	decodeBody(t, rec, &toggled)
	assert.True(t, toggled.Completed)
	assert.NotNil(t, toggled.CompletedAt)
}

func TestServer_DeleteMissingTask(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodDelete, "/api/tasks/no-such-id", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_CategoriesCarryTaskCounts(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Categories []struct {
			ID        string `json:"id"`
			Name      string `json:"name"`
			TaskCount int    `json:"taskCount"`
		} `json:"categories"`
	}
	decodeBody(t, rec, &body)
	require.NotEmpty(t, body.Categories)

	var work *struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		TaskCount int    `json:"taskCount"`
	}
	for i := range body.Categories {
		if body.Categories[i].Name == "Work" {
			work = &body.Categories[i]
		}
	}
	require.NotNil(t, work)
	assert.Equal(t, 2, work.TaskCount, "seed has two tasks in Work, one via embedded ref")
}

func TestServer_Overview(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/overview", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary struct {
		Total     int `json:"total"`
		Completed int `json:"completed"`
		Pending   int `json:"pending"`
	}
	decodeBody(t, rec, &summary)
	assert.Equal(t, summary.Total, summary.Completed+summary.Pending)
	assert.NotZero(t, summary.Total)
}

func TestServer_ViewFlow(t *testing.T) {
	srv, feed := newTestServer(t)

	// select the completed pseudo-category
	rec := doJSON(t, srv, http.MethodPost, "/api/view/select", map[string]any{"selection": "completed"})
	require.Equal(t, http.StatusOK, rec.Code)
	var state struct {
		Selected string `json:"selected"`
		Criteria struct {
			Status   string `json:"status"`
			Category string `json:"category"`
		} `json:"criteria"`
	}
	decodeBody(t, rec, &state)
	assert.Equal(t, "completed", state.Selected)
	assert.Equal(t, "completed", state.Criteria.Status)
	assert.Equal(t, "all", state.Criteria.Category)

	// view data honors the synthesized filter
	rec = doJSON(t, srv, http.MethodGet, "/api/view/data", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var data struct {
		Tasks []struct {
			Completed bool `json:"completed"`
		} `json:"tasks"`
		Summary struct {
			Total int `json:"total"`
		} `json:"summary"`
		Refresh int64 `json:"refresh"`
	}
	decodeBody(t, rec, &data)
	for _, task := range data.Tasks {
		assert.True(t, task.Completed)
	}

	// submit a task through the editor; refresh must bump
	rec = doJSON(t, srv, http.MethodPost, "/api/view/task-editor", map[string]any{"id": ""})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, srv, http.MethodPost, "/api/view/tasks", map[string]any{"title": "from the modal"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/view", nil)
	var after struct {
		Modal   string `json:"modal"`
		Refresh int64  `json:"refresh"`
	}
	decodeBody(t, rec, &after)
	assert.Empty(t, after.Modal)
	assert.Equal(t, int64(1), after.Refresh)

	feed.Drain()
}

func TestServer_ViewConfirmDeleteNotifies(t *testing.T) {
	srv, feed := newTestServer(t)

	// fetch any task id
	rec := doJSON(t, srv, http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Tasks []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"tasks"`
	}
	decodeBody(t, rec, &listing)
	require.NotEmpty(t, listing.Tasks)
	target := listing.Tasks[0]

	rec = doJSON(t, srv, http.MethodPost, "/api/view/delete", map[string]any{
		"kind":  "task",
		"id":    target.ID,
		"label": target.Title,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/view/confirm", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/notifications", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var notifications struct {
		Notifications []struct {
			Level   string `json:"level"`
			Message string `json:"message"`
		} `json:"notifications"`
	}
	decodeBody(t, rec, &notifications)
	require.Len(t, notifications.Notifications, 1)
	assert.Equal(t, string(notify.LevelSuccess), notifications.Notifications[0].Level)

	// feed drains on read
	assert.Empty(t, feed.Drain())
}
