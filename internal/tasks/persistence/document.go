// Package persistence converts the task collection to and from its stored form.
package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/tasker/internal/tasks/domain/task"
	"github.com/felixgeelhaar/tasker/internal/tasks/domain/value_objects"
	"github.com/google/uuid"
)

// DocumentVersion is the version written by Encode.
const DocumentVersion = 1

// UntitledTask replaces a missing or blank title on load.
const UntitledTask = "Untitled task"

type document struct {
	Version int      `json:"version"`
	Tasks   []record `json:"tasks"`
}

type record struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     string  `json:"dueDate,omitempty"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	CompletedAt *string `json:"completedAt,omitempty"`
}

// Encode serializes tasks in order.
func Encode(tasks []*task.Task) ([]byte, error) {
	doc := document{Version: DocumentVersion, Tasks: make([]record, 0, len(tasks))}
	for _, t := range tasks {
		s := t.State()
		r := record{
			ID:          s.ID.String(),
			Title:       s.Title,
			Description: s.Description,
			DueDate:     s.DueDate.Raw(),
			Priority:    s.Priority.String(),
			Status:      s.Status.String(),
		}
		if !s.CreatedAt.IsZero() {
			r.CreatedAt = s.CreatedAt.UTC().Format(time.RFC3339Nano)
		}
		if s.CompletedAt != nil {
			at := s.CompletedAt.UTC().Format(time.RFC3339Nano)
			r.CompletedAt = &at
		}
		doc.Tasks = append(doc.Tasks, r)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode tasks: %w", err)
	}
	return data, nil
}

// Decode rebuilds tasks from stored data. It never fails: anything it cannot use
// is replaced by a default or skipped, and each such recovery is reported.
func Decode(data []byte) ([]*task.Task, Report) {
	var report Report

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		report.document("document is empty")
		return []*task.Task{}, report
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		report.document("document is not valid JSON: %v", err)
		return []*task.Task{}, report
	}

	var items []any
	switch v := raw.(type) {
	case []any:
		report.document("document is a bare task list; it will be rewritten as version %d", DocumentVersion)
		items = v
	case map[string]any:
		validateSchema(v, &report)
		if version, ok := v["version"].(float64); !ok || int(version) != DocumentVersion {
			report.document("unsupported document version %v", v["version"])
		}
		list, ok := v["tasks"].([]any)
		if !ok {
			report.document("document has no task list")
			return []*task.Task{}, report
		}
		items = list
	default:
		report.document("document is a %T, not a task list", raw)
		return []*task.Task{}, report
	}

	tasks := make([]*task.Task, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(items))
	for i, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			report.record(i, "", "record is a %T, skipped", item)
			continue
		}
		t := reconstruct(i, fields, seen, &report)
		if t == nil {
			continue
		}
		seen[t.ID()] = true
		tasks = append(tasks, t)
	}
	return tasks, report
}

// Field aliases accepted for documents written by the browser widget.
var fieldAliases = map[string][]string{
	"id":          {"id"},
	"title":       {"title", "_titre"},
	"description": {"description", "_description"},
	"dueDate":     {"dueDate", "_dateEcheance"},
	"priority":    {"priority", "_priorite"},
	"status":      {"status", "_statut"},
	"createdAt":   {"createdAt"},
	"completedAt": {"completedAt"},
}

var priorityAliases = map[string]value_objects.Priority{
	"basse":   value_objects.PriorityLow,
	"moyenne": value_objects.PriorityMedium,
	"haute":   value_objects.PriorityHigh,
	"elevee":  value_objects.PriorityHigh,
	"élevée":  value_objects.PriorityHigh,
}

var statusAliases = map[string]task.Status{
	"en_cours": task.StatusPending,
	"terminee": task.StatusDone,
	"terminée": task.StatusDone,
}

func lookup(fields map[string]any, name string) (any, bool) {
	for _, key := range fieldAliases[name] {
		if v, ok := fields[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func lookupString(i int, fields map[string]any, name string, report *Report) (string, bool) {
	v, ok := lookup(fields, name)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		report.record(i, name, "expected text, got %T", v)
		return "", false
	}
	return s, true
}

// reconstruct rebuilds a single record with these defaults: a missing,
// invalid or duplicate id gets a new one; a blank title becomes UntitledTask;
// an absent or unknown priority becomes low; an absent or unknown status
// becomes pending; the due date is kept as text even when it does not parse.
func reconstruct(i int, fields map[string]any, seen map[uuid.UUID]bool, report *Report) *task.Task {
	var s task.State

	if raw, ok := lookupString(i, fields, "id", report); ok {
		id, err := uuid.Parse(raw)
		switch {
		case err != nil:
			report.record(i, "id", "invalid id %q, assigned a new one", raw)
		case seen[id]:
			report.record(i, "id", "duplicate id %s, assigned a new one", id)
		default:
			s.ID = id
		}
	} else {
		report.record(i, "id", "missing, assigned a new one")
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	title, _ := lookupString(i, fields, "title", report)
	s.Title = strings.TrimSpace(title)
	if s.Title == "" {
		report.record(i, "title", "missing, using %q", UntitledTask)
		s.Title = UntitledTask
	}

	s.Description, _ = lookupString(i, fields, "description", report)

	if raw, ok := lookupString(i, fields, "dueDate", report); ok {
		s.DueDate = value_objects.NewDueDate(raw)
		if s.DueDate.IsSet() && !s.DueDate.IsValid() {
			report.record(i, "dueDate", "%q is not a date, kept as text", raw)
		}
	}

	s.Priority = value_objects.PriorityLow
	if raw, ok := lookupString(i, fields, "priority", report); ok {
		s.Priority = decodePriority(i, raw, report)
	} else {
		report.record(i, "priority", "missing, using %s", value_objects.PriorityLow)
	}

	s.Status = task.StatusPending
	if raw, ok := lookupString(i, fields, "status", report); ok {
		s.Status = decodeStatus(i, raw, report)
	} else {
		report.record(i, "status", "missing, using %s", task.StatusPending)
	}

	if raw, ok := lookupString(i, fields, "createdAt", report); ok {
		if at, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			s.CreatedAt = at
		} else {
			report.record(i, "createdAt", "invalid timestamp %q, ignored", raw)
		}
	}

	if raw, ok := lookupString(i, fields, "completedAt", report); ok && s.Status == task.StatusDone {
		if at, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			s.CompletedAt = &at
		} else {
			report.record(i, "completedAt", "invalid timestamp %q, ignored", raw)
		}
	}

	t, err := task.Rehydrate(s)
	if err != nil {
		report.record(i, "", "record skipped: %v", err)
		return nil
	}
	return t
}

func decodePriority(i int, raw string, report *Report) value_objects.Priority {
	p, err := value_objects.ParsePriority(raw)
	if err == nil {
		return p
	}
	if p, ok := priorityAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return p
	}
	report.record(i, "priority", "unknown priority %q, using %s", raw, value_objects.PriorityLow)
	return value_objects.PriorityLow
}

func decodeStatus(i int, raw string, report *Report) task.Status {
	s, err := task.ParseStatus(raw)
	if err == nil {
		return s
	}
	if s, ok := statusAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	report.record(i, "status", "unknown status %q, using %s", raw, task.StatusPending)
	return task.StatusPending
}
