// Package ordering derives views of a task collection: sort, status filter and
// keyword search.
package ordering

import (
	"errors"
	"slices"
	"strings"

	"github.com/felixgeelhaar/tasker/internal/tasks/domain/task"
)

var (
	ErrInvalidSort         = errors.New("invalid sort criterion")
	ErrInvalidStatusFilter = errors.New("invalid status filter")
)

// Sort selects how a view is ordered.
type Sort string

const (
	SortDueDate  Sort = "due_date"
	SortPriority Sort = "priority"
)

// ParseSort parses a user supplied sort criterion. Empty input means SortDueDate.
func ParseSort(s string) (Sort, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "date", "due", "due_date", "duedate":
		return SortDueDate, nil
	case "priority":
		return SortPriority, nil
	default:
		return SortDueDate, ErrInvalidSort
	}
}

// StatusFilter selects which tasks a view keeps.
type StatusFilter string

const (
	StatusAll     StatusFilter = "all"
	StatusPending StatusFilter = "pending"
	StatusDone    StatusFilter = "done"
)

// ParseStatusFilter parses a user supplied status filter. Empty input means StatusAll.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return StatusAll, nil
	case "pending", "open":
		return StatusPending, nil
	case "done", "completed":
		return StatusDone, nil
	default:
		return StatusAll, ErrInvalidStatusFilter
	}
}

// Query holds the parameters of a derived view.
type Query struct {
	Sort   Sort
	Status StatusFilter
	Search string
}

// ByDueDate orders tasks with a parseable due date ascending. Tasks without one
// sort after every dated task and compare equal among themselves.
func ByDueDate(a, b *task.Task) int {
	at, aok := a.DueDate().Time()
	bt, bok := b.DueDate().Time()
	switch {
	case aok && bok:
		return at.Compare(bt)
	case aok:
		return -1
	case bok:
		return 1
	default:
		return 0
	}
}

// ByPriority orders high before medium before low.
func ByPriority(a, b *task.Task) int {
	return b.Priority().Weight() - a.Priority().Weight()
}

// MatchStatus reports whether t passes the status filter.
func MatchStatus(filter StatusFilter, t *task.Task) bool {
	switch filter {
	case StatusPending:
		return !t.IsDone()
	case StatusDone:
		return t.IsDone()
	default:
		return true
	}
}

// MatchSearch reports whether term occurs, ignoring case, in the title or the
// description of t. An empty term matches every task.
func MatchSearch(term string, t *task.Task) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(t.Title()), term) ||
		strings.Contains(strings.ToLower(t.Description()), term)
}

// Apply sorts, then filters by status, then filters by search term. The input
// slice is left untouched.
func Apply(tasks []*task.Task, q Query) []*task.Task {
	view := slices.Clone(tasks)

	cmp := ByDueDate
	if q.Sort == SortPriority {
		cmp = ByPriority
	}
	slices.SortStableFunc(view, cmp)

	search := strings.TrimSpace(q.Search)
	return slices.DeleteFunc(view, func(t *task.Task) bool {
		return !MatchStatus(q.Status, t) || !MatchSearch(search, t)
	})
}
