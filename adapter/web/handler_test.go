package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	internalApp "github.com/felixgeelhaar/tasker/internal/app"
	"github.com/felixgeelhaar/tasker/internal/shared/infrastructure/kv"
	"github.com/felixgeelhaar/tasker/internal/tasks/application/commands"
	"github.com/felixgeelhaar/tasker/pkg/config"
	"github.com/felixgeelhaar/tasker/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServer(t *testing.T) (*internalApp.Container, http.Handler) {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.SQLitePath = filepath.Join(cfg.DataDir, "tasker.db")

	c, err := internalApp.NewContainer(context.Background(), cfg, observability.Discard(),
		internalApp.WithKV(kv.NewMemoryStore()))
	require.NoError(t, err)
	t.Cleanup(c.Close)

	s := NewServer(DefaultServerConfig(), NewHandler(c), observability.Discard())
	return c, s.Handler()
}

func addTask(t *testing.T, c *internalApp.Container, cmd commands.AddTaskCommand) *commands.AddTaskResult {
	t.Helper()
	res, err := c.AddTaskHandler.Handle(context.Background(), cmd)
	require.NoError(t, err)
	return res
}

func postForm(h http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestIndex_Empty(t *testing.T) {
	_, h := setupServer(t)

	rec := get(h, "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "No tasks found.")
	assert.Contains(t, rec.Body.String(), "0/0 done")
}

func TestIndex_ListsSortedAndFiltered(t *testing.T) {
	c, h := setupServer(t)
	addTask(t, c, commands.AddTaskCommand{Title: "Later", DueDate: "2030-02-01", Priority: "high"})
	addTask(t, c, commands.AddTaskCommand{Title: "Sooner", DueDate: "2030-01-01", Priority: "low"})

	body := get(h, "/").Body.String()
	assert.Less(t, strings.Index(body, "Sooner"), strings.Index(body, "Later"))

	body = get(h, "/?sort=priority").Body.String()
	assert.Less(t, strings.Index(body, "Later"), strings.Index(body, "Sooner"))
	assert.Contains(t, body, `<option value="priority" selected>`)

	body = get(h, "/?q=soon&unknown=1").Body.String()
	assert.Contains(t, body, "Sooner")
	assert.NotContains(t, body, ">Later<")
}

func TestIndex_InvalidFilter(t *testing.T) {
	_, h := setupServer(t)

	rec := get(h, "/?sort=alphabetical")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid sort")
}

func TestAdd_RedirectsToList(t *testing.T) {
	c, h := setupServer(t)

	rec := postForm(h, "/tasks?sort=priority", url.Values{
		"title":       {"Write report"},
		"description": {"quarterly"},
		"due":         {"2030-01-01"},
		"priority":    {"high"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?sort=priority", rec.Header().Get("Location"))
	require.Equal(t, 1, c.Store.Len())
	tasks := c.Store.Snapshot()
	assert.Equal(t, "Write report", tasks[0].Title())
	assert.Equal(t, "quarterly", tasks[0].Description())
}

func TestAdd_ValidationErrorRerendersForm(t *testing.T) {
	c, h := setupServer(t)

	rec := postForm(h, "/tasks", url.Values{
		"title": {"Report"},
		"due":   {"next week"},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "invalid due")
	assert.Contains(t, body, `value="Report"`)
	assert.Contains(t, body, `value="next week"`)
	assert.Equal(t, 0, c.Store.Len())
}

func TestComplete(t *testing.T) {
	c, h := setupServer(t)
	res := addTask(t, c, commands.AddTaskCommand{Title: "Email"})

	rec := postForm(h, "/tasks/"+res.TaskID.String()+"/complete", nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	tasks := c.Store.Snapshot()
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].IsDone())
}

func TestComplete_Errors(t *testing.T) {
	_, h := setupServer(t)

	rec := postForm(h, "/tasks/not-a-uuid/complete", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid task id")

	rec = postForm(h, "/tasks/6f1c2a4e-3b5d-4c7e-9f10-123456789abc/complete", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDelete(t *testing.T) {
	c, h := setupServer(t)
	res := addTask(t, c, commands.AddTaskCommand{Title: "Email"})
	addTask(t, c, commands.AddTaskCommand{Title: "Slides"})

	rec := postForm(h, "/tasks/"+res.TaskID.String()+"/delete?status=pending", nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?status=pending", rec.Header().Get("Location"))
	tasks := c.Store.Snapshot()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Slides", tasks[0].Title())
}

func TestListJSON(t *testing.T) {
	c, h := setupServer(t)
	addTask(t, c, commands.AddTaskCommand{Title: "Email", Priority: "low"})

	rec := get(h, "/api/tasks?status=pending")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Email", got[0]["title"])
	assert.Equal(t, "low", got[0]["priority"])
	assert.EqualValues(t, 1, got[0]["position"])

	rec = get(h, "/api/tasks?status=archived")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProgressJSON(t *testing.T) {
	c, h := setupServer(t)
	res := addTask(t, c, commands.AddTaskCommand{Title: "Email"})
	addTask(t, c, commands.AddTaskCommand{Title: "Slides"})
	_, err := c.CompleteTaskHandler.Handle(context.Background(), commands.CompleteTaskCommand{Target: commands.ByID(res.TaskID)})
	require.NoError(t, err)

	rec := get(h, "/api/progress")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"done":1,"total":2,"percent":50}`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	_, h := setupServer(t)

	rec := get(h, "/healthz")

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "healthy", got["status"])
	assert.Contains(t, got["checks"], "storage")
}

func TestServe_StopsOnCancel(t *testing.T) {
	c, _ := setupServer(t)
	cfg := DefaultServerConfig()
	cfg.Addr = "127.0.0.1:0"
	s := NewServer(cfg, NewHandler(c), observability.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	assert.NoError(t, <-done)
}
