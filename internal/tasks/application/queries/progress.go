package queries

import (
	"context"

	"github.com/felixgeelhaar/tasker/internal/tasks/store"
)

// ProgressHandler reports completion across the collection.
type ProgressHandler struct {
	store *store.Store
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(s *store.Store) *ProgressHandler {
	return &ProgressHandler{store: s}
}

// Handle returns the current progress.
func (h *ProgressHandler) Handle(_ context.Context) store.Progress {
	return h.store.Progress()
}
