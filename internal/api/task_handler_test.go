package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskwell/taskwell-api/internal/api"
	"github.com/taskwell/taskwell-api/internal/api/shared"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/mocks"
	"github.com/taskwell/taskwell-api/internal/service"
	"github.com/taskwell/taskwell-api/internal/service/taskcache"
	"github.com/taskwell/taskwell-api/internal/store"
)

// directTxRunner runs transaction functions inline against the in-memory
// stores.
type directTxRunner struct{}

func (directTxRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	return fn(ctx, (*sql.Tx)(nil))
}

type taskAPIFixture struct {
	router *chi.Mux
	tasks  *mocks.MemoryTaskStore
	labels *mocks.MemoryLabelStore
	userID uuid.UUID
}

func newTaskAPIFixture(t *testing.T) *taskAPIFixture {
	t.Helper()

	labels := mocks.NewMemoryLabelStore()
	tasks := mocks.NewMemoryTaskStore()
	tasks.Labels = labels
	activities := mocks.NewMemoryActivityLogStore()
	manager := taskcache.NewManager(mocks.NewSpyCacheBackend(), tasks, time.Minute, nil)

	svc := service.NewTaskService(
		directTxRunner{}, tasks, labels, activities,
		service.NewRecorder(nil), manager, nil)

	handler := api.NewTaskHandler(svc, nil)

	router := chi.NewRouter()
	router.Route("/api/tasks", func(r chi.Router) {
		r.Get("/", handler.List)
		r.Post("/", handler.Create)
		r.Get("/{id}", handler.Get)
		r.Put("/{id}", handler.Update)
		r.Delete("/{id}", handler.Delete)
		r.Post("/{id}/restore", handler.Restore)
	})

	return &taskAPIFixture{
		router: router,
		tasks:  tasks,
		labels: labels,
		userID: uuid.New(),
	}
}

// do issues a request with the fixture's user already authenticated.
func (f *taskAPIFixture) do(t *testing.T, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, f.userID)

	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req.WithContext(ctx))
	return rr
}

func (f *taskAPIFixture) createTask(t *testing.T, title string) *domain.Task {
	t.Helper()

	rr := f.do(t, http.MethodPost, "/api/tasks", map[string]interface{}{"title": title})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var task domain.Task
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &task))
	return &task
}

func TestTaskEndpointsRequireAuthentication(t *testing.T) {
	t.Parallel()

	f := newTaskAPIFixture(t)

	// No user ID in context: every endpoint refuses.
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateTaskEndpoint(t *testing.T) {
	t.Parallel()

	f := newTaskAPIFixture(t)

	rr := f.do(t, http.MethodPost, "/api/tasks", map[string]interface{}{
		"title":    "ship release",
		"priority": "high",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var task domain.Task
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &task))
	assert.Equal(t, "ship release", task.Title)
	assert.Equal(t, domain.TaskPriorityHigh, task.Priority)
	assert.Equal(t, domain.TaskStatusTodo, task.Status)
	assert.Equal(t, f.userID, task.OwnerID)
}

func TestCreateTaskEndpointValidation(t *testing.T) {
	t.Parallel()

	f := newTaskAPIFixture(t)

	missingTitle := f.do(t, http.MethodPost, "/api/tasks", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, missingTitle.Code)

	badStatus := f.do(t, http.MethodPost, "/api/tasks", map[string]interface{}{
		"title":  "x",
		"status": "someday",
	})
	assert.Equal(t, http.StatusBadRequest, badStatus.Code)

	badLabel := f.do(t, http.MethodPost, "/api/tasks", map[string]interface{}{
		"title":     "x",
		"label_ids": []string{"not-a-uuid"},
	})
	assert.Equal(t, http.StatusBadRequest, badLabel.Code)

	unknownLabel := f.do(t, http.MethodPost, "/api/tasks", map[string]interface{}{
		"title":     "x",
		"label_ids": []string{uuid.NewString()},
	})
	assert.Equal(t, http.StatusNotFound, unknownLabel.Code)
	assert.Contains(t, unknownLabel.Body.String(), "Label not found")
}

func TestListTasksEndpoint(t *testing.T) {
	t.Parallel()

	f := newTaskAPIFixture(t)
	for i := 0; i < 3; i++ {
		f.createTask(t, fmt.Sprintf("task %d", i))
	}

	rr := f.do(t, http.MethodGet, "/api/tasks?page=1&page_size=2", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp api.TaskListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	assert.Len(t, resp.Tasks, 2)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 2, resp.PageSize)
	assert.Equal(t, 2, resp.TotalPages)
}

func TestListTasksEndpointRejectsBadParams(t *testing.T) {
	t.Parallel()

	f := newTaskAPIFixture(t)

	for _, path := range []string{
		"/api/tasks?page=abc",
		"/api/tasks?page_size=abc",
		"/api/tasks?overdue=maybe",
		"/api/tasks?label_ids=not-a-uuid",
		"/api/tasks?sort_by=updated_at",
		"/api/tasks?page_size=500",
	} {
		rr := f.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code, "path %s", path)
	}
}

func TestGetTaskEndpoint(t *testing.T) {
	t.Parallel()

	f := newTaskAPIFixture(t)
	task := f.createTask(t, "findable")

	rr := f.do(t, http.MethodGet, "/api/tasks/"+task.ID.String(), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	missing := f.do(t, http.MethodGet, "/api/tasks/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Contains(t, missing.Body.String(), "Task not found")

	malformed := f.do(t, http.MethodGet, "/api/tasks/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, malformed.Code)
}

func TestUpdateTaskEndpoint(t *testing.T) {
	t.Parallel()

	f := newTaskAPIFixture(t)
	task := f.createTask(t, "draft")

	rr := f.do(t, http.MethodPut, "/api/tasks/"+task.ID.String(), map[string]interface{}{
		"title":  "final",
		"status": "completed",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var updated domain.Task
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, "final", updated.Title)
	assert.Equal(t, domain.TaskStatusCompleted, updated.Status)

	badStatus := f.do(t, http.MethodPut, "/api/tasks/"+task.ID.String(), map[string]interface{}{
		"status": "someday",
	})
	assert.Equal(t, http.StatusBadRequest, badStatus.Code)
}

func TestDeleteAndRestoreTaskEndpoints(t *testing.T) {
	t.Parallel()

	f := newTaskAPIFixture(t)
	task := f.createTask(t, "recycled")

	deleted := f.do(t, http.MethodDelete, "/api/tasks/"+task.ID.String(), nil)
	require.Equal(t, http.StatusOK, deleted.Code)
	assert.Contains(t, deleted.Body.String(), "Task deleted")

	// The deleted task is gone from reads.
	gone := f.do(t, http.MethodGet, "/api/tasks/"+task.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, gone.Code)

	restored := f.do(t, http.MethodPost, "/api/tasks/"+task.ID.String()+"/restore", nil)
	require.Equal(t, http.StatusOK, restored.Code, restored.Body.String())

	back := f.do(t, http.MethodGet, "/api/tasks/"+task.ID.String(), nil)
	assert.Equal(t, http.StatusOK, back.Code)

	// Restoring a live task is a validation error, and the message reaches
	// the client without the internal service wrapping.
	again := f.do(t, http.MethodPost, "/api/tasks/"+task.ID.String()+"/restore", nil)
	assert.Equal(t, http.StatusBadRequest, again.Code)
	assert.Contains(t, again.Body.String(), "validation failed: task is not deleted")
	assert.NotContains(t, again.Body.String(), "task service")
}

func TestTasksAreInvisibleAcrossUsers(t *testing.T) {
	t.Parallel()

	f := newTaskAPIFixture(t)
	task := f.createTask(t, "mine only")

	// Same router, different authenticated user.
	f.userID = uuid.New()

	rr := f.do(t, http.MethodGet, "/api/tasks/"+task.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	list := f.do(t, http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, list.Code)

	var resp api.TaskListResponse
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &resp))
	assert.Zero(t, resp.Total)
}
