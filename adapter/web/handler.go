package web

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	internalApp "github.com/felixgeelhaar/tasker/internal/app"
	"github.com/felixgeelhaar/tasker/internal/tasks/application/commands"
	"github.com/felixgeelhaar/tasker/internal/tasks/application/queries"
	"github.com/felixgeelhaar/tasker/internal/tasks/domain/ordering"
	"github.com/felixgeelhaar/tasker/internal/tasks/domain/task"
	"github.com/felixgeelhaar/tasker/internal/tasks/store"
	"github.com/felixgeelhaar/tasker/pkg/observability"
	"github.com/google/uuid"
	"github.com/gorilla/schema"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	pageTemplate  = template.Must(template.New("index.html").Funcs(funcs).ParseFS(templateFS, "templates/index.html"))
	schemaDecoder = schema.NewDecoder()
)

func init() {
	schemaDecoder.IgnoreUnknownKeys(true)
}

var funcs = template.FuncMap{
	"due": func(t queries.TaskDTO) string {
		if t.Due == nil {
			return ""
		}
		if t.DateOnly {
			return t.Due.Local().Format("Mon, Jan 2 2006")
		}
		return t.Due.Local().Format("Mon, Jan 2 2006 15:04")
	},
}

// Handler serves the widget page and its form posts.
type Handler struct {
	app    *internalApp.Container
	alerts *queries.CheckDueHandler
	logger *slog.Logger
}

// NewHandler creates a handler over the wired container. Alerts on the page
// are evaluated only; notifications stay with the container's notifier.
func NewHandler(c *internalApp.Container) *Handler {
	return &Handler{
		app:    c,
		alerts: queries.NewCheckDueHandler(c.Store, c.Monitor, nil),
		logger: c.Logger,
	}
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

type pageData struct {
	Tasks    []queries.TaskDTO
	Query    queries.ListTasksQuery
	RawQuery template.URL
	Sorts    []option
	Statuses []option
	Progress store.Progress
	Alerts   []queries.AlertDTO
	Form     commands.AddTaskCommand
	Error    string
}

// Index renders the task list.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	var q queries.ListTasksQuery
	if err := schemaDecoder.Decode(&q, r.URL.Query()); err != nil {
		h.render(w, r, http.StatusBadRequest, queries.ListTasksQuery{}, commands.AddTaskCommand{}, err)
		return
	}
	h.render(w, r, http.StatusOK, q, commands.AddTaskCommand{}, nil)
}

// Add creates a task from the posted form.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var cmd commands.AddTaskCommand
	if err := schemaDecoder.Decode(&cmd, r.PostForm); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.app.AddTaskHandler.Handle(r.Context(), cmd); err != nil {
		h.commandFailed(w, r, cmd, err)
		return
	}
	h.backToList(w, r)
}

// Complete marks the task in the path as done.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}
	if _, err := h.app.CompleteTaskHandler.Handle(r.Context(), commands.CompleteTaskCommand{Target: commands.ByID(id)}); err != nil {
		h.commandFailed(w, r, commands.AddTaskCommand{}, err)
		return
	}
	h.backToList(w, r)
}

// Delete removes the task in the path.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}
	if _, err := h.app.DeleteTaskHandler.Handle(r.Context(), commands.DeleteTaskCommand{Target: commands.ByID(id)}); err != nil {
		h.commandFailed(w, r, commands.AddTaskCommand{}, err)
		return
	}
	h.backToList(w, r)
}

// ListJSON returns the listed tasks as JSON.
func (h *Handler) ListJSON(w http.ResponseWriter, r *http.Request) {
	var q queries.ListTasksQuery
	if err := schemaDecoder.Decode(&q, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tasks, err := h.app.ListTasksHandler.Handle(r.Context(), q)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// ProgressJSON returns completion progress as JSON.
func (h *Handler) ProgressJSON(w http.ResponseWriter, r *http.Request) {
	p := h.app.ProgressHandler.Handle(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"done":    p.Done,
		"total":   p.Total,
		"percent": p.Percent,
	})
}

// Health reports the registered health checks.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	health := h.app.Health.Check(r.Context())
	status := http.StatusOK
	if health.Status == observability.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

func (h *Handler) taskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.render(w, r, http.StatusBadRequest, listQuery(r), commands.AddTaskCommand{}, errors.New("invalid task id"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) commandFailed(w http.ResponseWriter, r *http.Request, form commands.AddTaskCommand, err error) {
	h.logger.WarnContext(r.Context(), "web command failed", "path", r.URL.Path, "error", err)
	h.render(w, r, statusFor(err), listQuery(r), form, err)
}

// backToList redirects to the list, keeping the current sort and filter.
func (h *Handler) backToList(w http.ResponseWriter, r *http.Request) {
	target := "/"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, q queries.ListTasksQuery, form commands.AddTaskCommand, pageErr error) {
	ctx := r.Context()
	data := pageData{
		Query:    q,
		RawQuery: template.URL(encodeQuery(q)),
		Form:     form,
		Progress: h.app.ProgressHandler.Handle(ctx),
		Alerts:   h.alerts.Handle(ctx).Alerts,
	}

	tasks, err := h.app.ListTasksHandler.Handle(ctx, q)
	if err != nil {
		// An invalid filter still shows the default list.
		if pageErr == nil {
			pageErr = err
			status = statusFor(err)
		}
		data.Query = queries.ListTasksQuery{}
		data.RawQuery = ""
		tasks, _ = h.app.ListTasksHandler.Handle(ctx, data.Query)
	}
	data.Tasks = tasks
	data.Sorts = sortOptions(data.Query)
	data.Statuses = statusOptions(data.Query)
	if pageErr != nil {
		data.Error = pageErr.Error()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		h.logger.ErrorContext(ctx, "failed to render page", "error", err)
	}
}

func listQuery(r *http.Request) queries.ListTasksQuery {
	var q queries.ListTasksQuery
	_ = schemaDecoder.Decode(&q, r.URL.Query())
	return q
}

func encodeQuery(q queries.ListTasksQuery) string {
	v := url.Values{}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	return v.Encode()
}

func sortOptions(q queries.ListTasksQuery) []option {
	current := q.Sort
	if current == "" {
		current = string(ordering.SortDueDate)
	}
	return []option{
		{Value: string(ordering.SortDueDate), Label: "Due date", Selected: current == string(ordering.SortDueDate)},
		{Value: string(ordering.SortPriority), Label: "Priority", Selected: current == string(ordering.SortPriority)},
	}
}

func statusOptions(q queries.ListTasksQuery) []option {
	current := q.Status
	if current == "" {
		current = string(ordering.StatusAll)
	}
	out := make([]option, 0, 3)
	for _, s := range []ordering.StatusFilter{ordering.StatusAll, ordering.StatusPending, ordering.StatusDone} {
		out = append(out, option{Value: string(s), Label: string(s), Selected: current == string(s)})
	}
	return out
}

func statusFor(err error) int {
	var verr *task.ValidationError
	var ierr *task.IndexError
	switch {
	case errors.As(err, &verr), errors.As(err, &ierr):
		return http.StatusBadRequest
	case errors.Is(err, task.ErrTaskNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

