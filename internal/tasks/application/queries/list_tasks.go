// Package queries reads the task collection for renderers.
package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/tasker/internal/tasks/domain/duedate"
	"github.com/felixgeelhaar/tasker/internal/tasks/domain/ordering"
	"github.com/felixgeelhaar/tasker/internal/tasks/domain/task"
	"github.com/felixgeelhaar/tasker/internal/tasks/store"
)

// ListTasksQuery selects and orders tasks. Empty fields keep the defaults:
// due-date order, every status, no search.
type ListTasksQuery struct {
	Sort   string `schema:"sort"`
	Status string `schema:"status"`
	Search string `schema:"q"`
}

// Parse converts the query into ordering terms.
func (q ListTasksQuery) Parse() (ordering.Query, error) {
	sort, err := ordering.ParseSort(q.Sort)
	if err != nil {
		return ordering.Query{}, &task.ValidationError{Field: "sort", Err: err}
	}
	status, err := ordering.ParseStatusFilter(q.Status)
	if err != nil {
		return ordering.Query{}, &task.ValidationError{Field: "status", Err: err}
	}
	return ordering.Query{Sort: sort, Status: status, Search: q.Search}, nil
}

// ListTasksHandler handles the ListTasksQuery.
type ListTasksHandler struct {
	store   *store.Store
	monitor duedate.Monitor
	now     func() time.Time
}

// NewListTasksHandler creates a new ListTasksHandler.
func NewListTasksHandler(s *store.Store, monitor duedate.Monitor) *ListTasksHandler {
	return &ListTasksHandler{store: s, monitor: monitor, now: time.Now}
}

// Handle returns the matching tasks in display order. Positions are 1-based
// and refer to this result.
func (h *ListTasksHandler) Handle(_ context.Context, query ListTasksQuery) ([]TaskDTO, error) {
	q, err := query.Parse()
	if err != nil {
		return nil, err
	}

	now := h.now()
	tasks := h.store.Query(q)
	dtos := make([]TaskDTO, 0, len(tasks))
	for i, t := range tasks {
		dtos = append(dtos, toDTO(t, i+1, h.monitor.Classify(t, now)))
	}
	return dtos, nil
}
