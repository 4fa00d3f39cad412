// Package store owns the in-memory task collection.
package store

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/felixgeelhaar/tasker/internal/shared/domain"
	"github.com/felixgeelhaar/tasker/internal/tasks/domain/ordering"
	"github.com/felixgeelhaar/tasker/internal/tasks/domain/task"
	"github.com/google/uuid"
)

var (
	ErrAmbiguousRef = errors.New("task reference matches more than one task")
	ErrEmptyRef     = errors.New("task reference cannot be empty")
)

// Progress summarizes completion across the collection.
type Progress struct {
	Done     int
	Total    int
	Fraction float64
	Percent  int
}

// Store holds tasks in insertion order. Tasks handed out by the store are copies;
// the only way to change the collection is through the store's methods.
type Store struct {
	mu       sync.RWMutex
	tasks    []*task.Task
	lastView []uuid.UUID
	hasView  bool
	events   []domain.DomainEvent
}

// New creates a store holding tasks in the given order.
func New(tasks ...*task.Task) *Store {
	s := &Store{}
	s.tasks = append(s.tasks, tasks...)
	return s
}

// Add appends t. The store takes ownership of t.
func (s *Store) Add(t *task.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = append(s.tasks, t)
	s.events = append(s.events, t.PullDomainEvents()...)
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Query returns copies of the tasks matching q in view order and remembers the
// result as the target of RemoveAt and CompleteAt.
func (s *Store) Query(q ordering.Query) []*task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := ordering.Apply(s.tasks, q)
	s.lastView = make([]uuid.UUID, len(view))
	out := make([]*task.Task, len(view))
	for i, t := range view {
		s.lastView[i] = t.ID()
		out[i] = t.Clone()
	}
	s.hasView = true
	return out
}

// Snapshot returns copies of every task in insertion order.
func (s *Store) Snapshot() []*task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*task.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Replace swaps the whole collection, typically after a reload. Pending events
// and the remembered view are discarded.
func (s *Store) Replace(tasks []*task.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = slices.Clone(tasks)
	s.lastView = nil
	s.hasView = false
	s.events = nil
}

// Find returns a copy of the task with the given id.
func (s *Store) Find(id uuid.UUID) (*task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, task.ErrTaskNotFound
	}
	return s.tasks[i].Clone(), nil
}

// Resolve turns a full id or a unique id prefix into a task id.
func (s *Store) Resolve(ref string) (uuid.UUID, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return uuid.Nil, ErrEmptyRef
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if id, err := uuid.Parse(ref); err == nil {
		if s.indexOf(id) < 0 {
			return uuid.Nil, task.ErrTaskNotFound
		}
		return id, nil
	}

	var matches []uuid.UUID
	for _, t := range s.tasks {
		if strings.HasPrefix(t.ID().String(), ref) {
			matches = append(matches, t.ID())
		}
	}
	switch len(matches) {
	case 0:
		return uuid.Nil, task.ErrTaskNotFound
	case 1:
		return matches[0], nil
	default:
		return uuid.Nil, fmt.Errorf("%w: %q", ErrAmbiguousRef, ref)
	}
}

// Complete marks the task with the given id done and returns a copy of it.
// Completing a done task succeeds without change.
func (s *Store) Complete(id uuid.UUID, now time.Time) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, task.ErrTaskNotFound
	}
	return s.completeIndex(i, now), nil
}

// CompleteAt completes the task at index in the last query result, or in
// insertion order when no query has run.
func (s *Store) CompleteAt(index int, now time.Time) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.resolveIndex(index)
	if err != nil {
		return nil, err
	}
	return s.completeIndex(i, now), nil
}

// Remove deletes the task with the given id and returns it.
func (s *Store) Remove(id uuid.UUID) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, task.ErrTaskNotFound
	}
	return s.removeIndex(i), nil
}

// RemoveAt deletes the task at index in the last query result, or in insertion
// order when no query has run.
func (s *Store) RemoveAt(index int) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.resolveIndex(index)
	if err != nil {
		return nil, err
	}
	return s.removeIndex(i), nil
}

// Progress reports how many tasks are done.
func (s *Store) Progress() Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := Progress{Total: len(s.tasks)}
	for _, t := range s.tasks {
		if t.IsDone() {
			p.Done++
		}
	}
	if p.Total > 0 {
		p.Fraction = float64(p.Done) / float64(p.Total)
	}
	p.Percent = int(math.Round(p.Fraction * 100))
	return p
}

// PullEvents returns and clears the domain events recorded by mutations.
func (s *Store) PullEvents() []domain.DomainEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.events
	s.events = nil
	return events
}

func (s *Store) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(s.tasks, func(t *task.Task) bool { return t.ID() == id })
}

// resolveIndex maps a view position to a collection index. Caller holds mu.
func (s *Store) resolveIndex(index int) (int, error) {
	if !s.hasView {
		if index < 0 || index >= len(s.tasks) {
			return -1, &task.IndexError{Index: index, Len: len(s.tasks)}
		}
		return index, nil
	}
	if index < 0 || index >= len(s.lastView) {
		return -1, &task.IndexError{Index: index, Len: len(s.lastView)}
	}
	i := s.indexOf(s.lastView[index])
	if i < 0 {
		return -1, task.ErrTaskNotFound
	}
	return i, nil
}

func (s *Store) completeIndex(i int, now time.Time) *task.Task {
	t := s.tasks[i]
	t.Complete(now)
	s.events = append(s.events, t.PullDomainEvents()...)
	return t.Clone()
}

func (s *Store) removeIndex(i int) *task.Task {
	t := s.tasks[i]
	s.tasks = slices.Delete(s.tasks, i, i+1)
	if s.hasView {
		s.lastView = slices.DeleteFunc(s.lastView, func(id uuid.UUID) bool { return id == t.ID() })
	}
	s.events = append(s.events, t.PullDomainEvents()...)
	s.events = append(s.events, task.NewTaskDeleted(t.ID(), t.Title(), time.Now()))
	return t
}
