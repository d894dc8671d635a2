package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/project-tracker/internal/clock"
	"github.com/BuzzLyutic/project-tracker/internal/model"
	"github.com/BuzzLyutic/project-tracker/internal/persist"
	"github.com/BuzzLyutic/project-tracker/internal/repo"
	"github.com/BuzzLyutic/project-tracker/internal/service"
	"github.com/BuzzLyutic/project-tracker/internal/session"
	"github.com/BuzzLyutic/project-tracker/internal/view"
	"github.com/BuzzLyutic/project-tracker/internal/worker"
)

var fixedNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

type testServer struct {
	server  *httptest.Server
	store   *repo.MemoryStore
	adapter *persist.Adapter
	writer  *worker.Writer
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	c := clock.Fixed(fixedNow)
	ids := clock.Sequence("id")

	store := repo.NewMemoryStore()
	adapter := persist.NewAdapter(store, logger, persist.Options{Clock: c, NewID: ids})
	writer := worker.NewWriter(adapter, logger, time.Second)
	writer.Start(context.Background())

	initial, currentUser := adapter.Bootstrap(context.Background())
	tracker := service.NewTracker(initial, currentUser, writer, logger, service.Options{
		Clock: c,
		NewID: ids,
		Seed:  adapter.Seed,
	})
	h := NewDashboardHandler(tracker, session.New(), logger)

	ts := &testServer{
		server:  httptest.NewServer(NewRouter(h)),
		store:   store,
		adapter: adapter,
		writer:  writer,
	}
	t.Cleanup(func() {
		ts.server.Close()
		writer.Stop()
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (ts *testServer) dashboard(t *testing.T) view.Dashboard {
	t.Helper()
	resp := ts.do(t, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decodeBody[view.Dashboard](t, resp)
}

func TestHealth(t *testing.T) {
	ts := setupServer(t)

	resp := ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDashboard_SeededOnEmptyStore(t *testing.T) {
	ts := setupServer(t)

	d := ts.dashboard(t)

	assert.Equal(t, "Maya Li", d.CurrentUser)
	assert.Len(t, d.Projects, 3)
	assert.Len(t, d.Tasks, 5)
	assert.Equal(t, view.DefaultSort(), d.Sort)
	assert.Equal(t, view.ScopeAll, d.Scope)
	assert.Equal(t, 1, d.KPIs.OverdueTasks)
	assert.Equal(t, 2, d.KPIs.ActiveProjects)

	// сортировка по умолчанию: срок по возрастанию
	assert.Equal(t, "Review API contract updates", d.Tasks[0].Task.Title)
	assert.Equal(t, view.DueOverdue, d.Tasks[0].DueState)
}

func TestCreateProject(t *testing.T) {
	tests := []struct {
		name      string
		body      interface{}
		wantCode  int
		wantField string
	}{
		{
			name:     "successful creation",
			body:     service.ProjectInput{Name: "Website", Owner: "Nora Chen"},
			wantCode: http.StatusCreated,
		},
		{
			name:     "empty body",
			body:     nil,
			wantCode: http.StatusBadRequest,
		},
		{
			name:      "validation error",
			body:      service.ProjectInput{Name: "  "},
			wantCode:  http.StatusBadRequest,
			wantField: "name",
		},
		{
			name:     "unknown field",
			body:     map[string]string{"title": "x"},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := setupServer(t)

			resp := ts.do(t, http.MethodPost, "/api/projects", tt.body)

			assert.Equal(t, tt.wantCode, resp.StatusCode)
			if tt.wantCode == http.StatusCreated {
				project := decodeBody[model.Project](t, resp)
				assert.Equal(t, "Website", project.Name)
				assert.Equal(t, []string{"todo", "in_progress", "done"}, project.Workflow)
				assert.Contains(t, resp.Header.Get("Location"), "/api/projects/")
				assert.Equal(t, project.ID, ts.dashboard(t).Projects[0].Project.ID)
			}
			if tt.wantField != "" {
				body := decodeBody[map[string]string](t, resp)
				assert.Equal(t, tt.wantField, body["field"])
			}
		})
	}
}

func TestCreateTask(t *testing.T) {
	ts := setupServer(t)
	projectID := ts.dashboard(t).Projects[1].Project.ID

	resp := ts.do(t, http.MethodPost, "/api/tasks", service.TaskInput{
		Title:     "Polish icons",
		Assignee:  "Luca Kim",
		DueDate:   "2026-10-30",
		Priority:  model.PriorityLow,
		ProjectID: projectID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	task := decodeBody[model.Task](t, resp)
	assert.Equal(t, "backlog", task.Status)

	resp = ts.do(t, http.MethodPost, "/api/tasks", service.TaskInput{Title: "x", ProjectID: "missing"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdvance_TwoPhase(t *testing.T) {
	ts := setupServer(t)
	projectID := ts.dashboard(t).Projects[2].Project.ID

	resp := ts.do(t, http.MethodPost, "/api/tasks", service.TaskInput{Title: "Flow", ProjectID: projectID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	task := decodeBody[model.Task](t, resp)

	advance := func(wantFrom, wantTo string) {
		resp := ts.do(t, http.MethodPost, "/api/tasks/"+task.ID+"/advance", nil)
		require.Equal(t, http.StatusAccepted, resp.StatusCode)
		preview := decodeBody[service.AdvancePreview](t, resp)
		assert.Equal(t, wantFrom, preview.From)
		assert.Equal(t, wantTo, preview.To)

		// до подтверждения ничего не меняется
		cur, _ := ts.trackerTask(t, task.ID)
		assert.Equal(t, wantFrom, cur.Status)

		resp = ts.do(t, http.MethodPost, "/api/confirmations/advance/confirm", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, wantTo, decodeBody[model.Task](t, resp).Status)
	}

	advance("todo", "in_progress")
	advance("in_progress", "done")

	resp = ts.do(t, http.MethodPost, "/api/tasks/"+task.ID+"/advance", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "terminal task can't be advanced")

	resp = ts.do(t, http.MethodPost, "/api/confirmations/advance/confirm", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "nothing pending")
}

func (ts *testServer) trackerTask(t *testing.T, id string) (model.Task, bool) {
	t.Helper()
	resp := ts.do(t, http.MethodGet, "/api/snapshot", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decodeBody[model.Snapshot](t, resp).Task(id)
}

func TestAdvance_Cancel(t *testing.T) {
	ts := setupServer(t)
	task := ts.dashboard(t).Tasks[0].Task

	resp := ts.do(t, http.MethodPost, "/api/tasks/"+task.ID+"/advance", nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/api/confirmations/advance/cancel", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/api/confirmations/advance/confirm", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	cur, _ := ts.trackerTask(t, task.ID)
	assert.Equal(t, task.Status, cur.Status)
}

func TestRemove_TwoPhase(t *testing.T) {
	ts := setupServer(t)
	task := ts.dashboard(t).Tasks[0].Task

	resp := ts.do(t, http.MethodDelete, "/api/tasks/"+task.ID, nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	_, ok := ts.trackerTask(t, task.ID)
	assert.True(t, ok, "removal waits for confirmation")

	resp = ts.do(t, http.MethodPost, "/api/confirmations/remove/confirm", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, ok = ts.trackerTask(t, task.ID)
	assert.False(t, ok)

	resp = ts.do(t, http.MethodDelete, "/api/tasks/"+task.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/api/confirmations/archive/confirm", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSaveWorkflow(t *testing.T) {
	ts := setupServer(t)
	projectID := ts.dashboard(t).Projects[0].Project.ID

	resp := ts.do(t, http.MethodPut, "/api/projects/"+projectID+"/workflow", workflowRequest{Draft: "Only"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Workflow needs at least 2 steps.", decodeBody[map[string]string](t, resp)["error"])

	resp = ts.do(t, http.MethodPut, "/api/projects/"+projectID+"/workflow", workflowRequest{Draft: "Plan, Build, Ship"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"plan", "build", "ship"}, decodeBody[model.Project](t, resp).Workflow)

	for _, row := range ts.dashboard(t).Tasks {
		if row.Task.ProjectID == projectID {
			assert.Equal(t, "plan", row.Task.Status, "statuses outside the new workflow reset to its first step")
		}
	}

	resp = ts.do(t, http.MethodPut, "/api/projects/missing/workflow", workflowRequest{Draft: "a, b"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestArchiveProject(t *testing.T) {
	ts := setupServer(t)
	projectID := ts.dashboard(t).Projects[0].Project.ID

	resp := ts.do(t, http.MethodPost, "/api/projects/"+projectID+"/archive", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, model.ProjectCompleted, decodeBody[model.Project](t, resp).Status)

	resp = ts.do(t, http.MethodPost, "/api/projects/missing/archive", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestViewParams(t *testing.T) {
	ts := setupServer(t)
	projectID := ts.dashboard(t).Projects[1].Project.ID

	resp := ts.do(t, http.MethodPost, "/api/view/sort", sortRequest{Key: "priority"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, view.SortConfig{Key: view.SortPriority, Direction: view.Asc}, decodeBody[view.SortConfig](t, resp))

	resp = ts.do(t, http.MethodPost, "/api/view/sort", sortRequest{Key: "priority"})
	assert.Equal(t, view.Desc, decodeBody[view.SortConfig](t, resp).Direction)

	resp = ts.do(t, http.MethodPost, "/api/view/sort", sortRequest{Key: "colour"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = ts.do(t, http.MethodPut, "/api/view/scope", scopeRequest{ProjectID: projectID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	d := ts.dashboard(t)
	assert.Equal(t, projectID, d.Scope)
	assert.Len(t, d.Tasks, 2)
	for _, row := range d.Tasks {
		assert.Equal(t, projectID, row.Task.ProjectID)
	}

	resp = ts.do(t, http.MethodPost, "/api/reset", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, view.DefaultSort(), ts.dashboard(t).Sort, "reset restores the default sort")
}

func TestSetCurrentUser(t *testing.T) {
	ts := setupServer(t)

	resp := ts.do(t, http.MethodPut, "/api/user", userRequest{User: "Kai Patel"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Kai Patel", ts.dashboard(t).CurrentUser)

	resp = ts.do(t, http.MethodPut, "/api/user", userRequest{User: "Mallory"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWriteThrough(t *testing.T) {
	ts := setupServer(t)

	resp := ts.do(t, http.MethodPost, "/api/projects", service.ProjectInput{Name: "Persisted"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = ts.do(t, http.MethodPut, "/api/user", userRequest{User: "Nora Chen"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	ts.writer.Stop()

	ctx := context.Background()
	reloaded := ts.adapter.Load(ctx)
	require.Len(t, reloaded.Projects, 4)
	assert.Equal(t, "Persisted", reloaded.Projects[0].Name)
	assert.Equal(t, "Nora Chen", ts.adapter.LoadCurrentUser(ctx))
}

func TestSeedIsStoredOnStartup(t *testing.T) {
	ts := setupServer(t)
	seeded := ts.dashboard(t)
	ts.writer.Stop()

	ctx := context.Background()
	_, err := ts.store.Get(ctx, persist.DefaultSnapshotKey)
	require.NoError(t, err)
	user, err := ts.store.Get(ctx, persist.DefaultCurrentUserKey)
	require.NoError(t, err)
	assert.Equal(t, "Maya Li", string(user))

	// другой генератор id: совпадение значит, что снимок прочитан из хранилища
	restarted := persist.NewAdapter(ts.store, zap.NewNop(), persist.Options{Clock: clock.Fixed(fixedNow), NewID: clock.Sequence("restart")})
	snap := restarted.Load(ctx)
	require.Len(t, snap.Projects, 3)
	assert.Equal(t, seeded.Projects[0].Project.ID, snap.Projects[0].ID)
}

func TestCorruptStoreFallsBackToSeed(t *testing.T) {
	store := repo.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, persist.DefaultSnapshotKey, []byte("{broken")))

	adapter := persist.NewAdapter(store, zap.NewNop(), persist.Options{Clock: clock.Fixed(fixedNow), NewID: clock.Sequence("id")})
	snap, _ := adapter.Bootstrap(ctx)

	assert.Len(t, snap.Projects, 3)
	assert.Len(t, snap.Tasks, 5)

	// битая запись заменена seed-снимком
	data, err := store.Get(ctx, persist.DefaultSnapshotKey)
	require.NoError(t, err)
	assert.NotEqual(t, "{broken", string(data))
	assert.Equal(t, snap, adapter.Load(ctx))
}
