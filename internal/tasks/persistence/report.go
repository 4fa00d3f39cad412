package persistence

import (
	"fmt"
	"strings"
)

// Warning describes one deviation recovered while decoding a document.
type Warning struct {
	// Record is the position of the record in the document, or -1 for the
	// document as a whole.
	Record  int
	Field   string
	Message string
}

func (w Warning) String() string {
	var b strings.Builder
	if w.Record >= 0 {
		fmt.Fprintf(&b, "task %d: ", w.Record)
	}
	if w.Field != "" {
		fmt.Fprintf(&b, "%s: ", w.Field)
	}
	b.WriteString(w.Message)
	return b.String()
}

// Report collects the warnings of a decode.
type Report struct {
	Warnings []Warning
}

// OK reports whether the document decoded without any recovery.
func (r Report) OK() bool {
	return len(r.Warnings) == 0
}

func (r *Report) document(format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{Record: -1, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) record(i int, field, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{Record: i, Field: field, Message: fmt.Sprintf(format, args...)})
}
