package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/felixgeelhaar/tasker/internal/tasks/application/queries"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	exportFormat string
	exportOutput string
	exportQuery  queries.ListTasksQuery
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tasks to JSON, YAML or iCalendar",
	Long: `Export the task list. The ics format writes a VTODO entry for every
task with a due date, for import into calendar apps.

Examples:
  tasker export                          # JSON to stdout
  tasker export --format yaml            # YAML to stdout
  tasker export --format ics -o todo.ics # iCalendar file
  tasker export --status pending --sort priority`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}

		tasks, err := app.ListTasksHandler.Handle(cmd.Context(), exportQuery)
		if err != nil {
			return err
		}

		var data []byte
		switch strings.ToLower(exportFormat) {
		case "json":
			data, err = json.MarshalIndent(tasks, "", "  ")
			data = append(data, '\n')
		case "yaml", "yml":
			data, err = yaml.Marshal(tasks)
		case "ics", "ical":
			data = []byte(generateICS(tasks, time.Now()))
		default:
			return fmt.Errorf("unsupported format: %s (supported: json, yaml, ics)", exportFormat)
		}
		if err != nil {
			return fmt.Errorf("failed to encode tasks: %w", err)
		}

		return writeExport(cmd, data, len(tasks))
	},
}

func writeExport(cmd *cobra.Command, data []byte, count int) error {
	if exportOutput == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(exportOutput, data, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d tasks to %s\n", count, exportOutput)
	return nil
}

func generateICS(tasks []queries.TaskDTO, now time.Time) string {
	var sb strings.Builder

	sb.WriteString("BEGIN:VCALENDAR\r\n")
	sb.WriteString("VERSION:2.0\r\n")
	sb.WriteString("PRODID:-//tasker//tasker CLI//EN\r\n")
	sb.WriteString("CALSCALE:GREGORIAN\r\n")
	sb.WriteString("METHOD:PUBLISH\r\n")
	sb.WriteString("X-WR-CALNAME:tasker\r\n")

	for _, t := range tasks {
		if t.Due == nil {
			continue
		}
		writeTodo(&sb, t, now)
	}

	sb.WriteString("END:VCALENDAR\r\n")
	return sb.String()
}

func writeTodo(w io.StringWriter, t queries.TaskDTO, now time.Time) {
	line := func(format string, args ...any) {
		_, _ = w.WriteString(fmt.Sprintf(format, args...) + "\r\n")
	}

	line("BEGIN:VTODO")
	line("UID:%s@tasker", t.ID)
	line("DTSTAMP:%s", formatICSTime(now))
	line("CREATED:%s", formatICSTime(t.CreatedAt))
	if t.DateOnly {
		line("DUE;VALUE=DATE:%s", t.Due.Format("20060102"))
	} else {
		line("DUE:%s", formatICSTime(*t.Due))
	}
	line("SUMMARY:%s", escapeICS(t.Title))
	if t.Description != "" {
		line("DESCRIPTION:%s", escapeICS(t.Description))
	}
	line("PRIORITY:%d", icsPriority(t.Priority))
	if t.IsDone() {
		line("STATUS:COMPLETED")
		if t.CompletedAt != nil {
			line("COMPLETED:%s", formatICSTime(*t.CompletedAt))
		}
	} else {
		line("STATUS:NEEDS-ACTION")
	}
	line("END:VTODO")
}

// icsPriority maps to the RFC 5545 scale where 1 is highest.
func icsPriority(priority string) int {
	switch priority {
	case "high":
		return 1
	case "low":
		return 9
	default:
		return 5
	}
}

func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func escapeICS(s string) string {
	// Escape special characters in ICS format
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "export format (json, yaml, ics)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportQuery.Sort, "sort", "", "sort by due_date or priority")
	exportCmd.Flags().StringVar(&exportQuery.Status, "status", "", "filter by status (all, pending, done)")
	exportCmd.Flags().StringVar(&exportQuery.Search, "search", "", "only tasks whose title or description contains this text")

	rootCmd.AddCommand(exportCmd)
}
