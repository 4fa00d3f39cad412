package cli

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/felixgeelhaar/tasker/internal/tasks/application/commands"
	"github.com/felixgeelhaar/tasker/internal/tasks/domain/value_objects"
	"github.com/spf13/cobra"
)

var addDescription string

var addCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Quick add a task with natural language",
	Long: `Quickly add a task using natural language.

The command parses your input to extract:
- Task title (required)
- Due date: today, tomorrow, next week, monday-sunday, or YYYY-MM-DD
- Priority: high, medium, low (or ! for medium, !! for high)

Examples:
  tasker add "Buy groceries"
  tasker add "Buy groceries tomorrow"
  tasker add "Finish report by friday high priority"
  tasker add "Call mom today !!"
  tasker add "Renew passport 2026-12-01 low"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}

		parsed := parseNaturalLanguage(strings.Join(args, " "), time.Now())

		command := commands.AddTaskCommand{
			Title:       parsed.title,
			Description: addDescription,
			Priority:    parsed.priority,
		}
		if parsed.dueDate != nil {
			command.DueDate = value_objects.DueOn(*parsed.dueDate).Raw()
		}

		result, err := app.AddTaskHandler.Handle(cmd.Context(), command)
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Task added!")
		fmt.Fprintf(out, "  Title: %s\n", result.Task.Title())
		fmt.Fprintf(out, "  ID: %s\n", result.TaskID.String()[:8])
		fmt.Fprintf(out, "  Priority: %s\n", result.Task.Priority())
		if parsed.dueDate != nil {
			fmt.Fprintf(out, "  Due: %s\n", parsed.dueDate.Format("Mon, Jan 2 2006"))
		}
		return nil
	},
}

type parsedInput struct {
	title    string
	priority string
	dueDate  *time.Time
}

func parseNaturalLanguage(input string, now time.Time) parsedInput {
	result := parsedInput{
		title: input,
	}

	result.priority, result.title = extractPriority(result.title)
	result.dueDate, result.title = extractDueDate(result.title, now)
	result.title = cleanTitle(result.title)

	return result
}

// priorityKeywords are matched in order so that longer phrases win.
var priorityKeywords = []struct {
	keyword  string
	priority string
}{
	{"high priority", "high"},
	{"medium priority", "medium"},
	{"low priority", "low"},
	{"high", "high"},
	{"low", "low"},
}

func extractPriority(input string) (string, string) {
	if strings.Contains(input, "!!") {
		return "high", strings.ReplaceAll(input, "!", "")
	}
	if strings.Contains(input, "!") {
		return "medium", strings.ReplaceAll(input, "!", "")
	}

	for _, p := range priorityKeywords {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(p.keyword) + `\b`)
		if re.MatchString(input) {
			return p.priority, re.ReplaceAllString(input, "")
		}
	}

	return "", input
}

var relativeDates = []struct {
	keyword string
	days    int
}{
	{"today", 0},
	{"tomorrow", 1},
	{"next week", 7},
}

var weekdays = []struct {
	name string
	day  time.Weekday
}{
	{"monday", time.Monday},
	{"tuesday", time.Tuesday},
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"friday", time.Friday},
	{"saturday", time.Saturday},
	{"sunday", time.Sunday},
}

var isoDatePattern = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)

func extractDueDate(input string, now time.Time) (*time.Time, string) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for _, r := range relativeDates {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(r.keyword) + `\b`)
		if re.MatchString(input) {
			d := today.AddDate(0, 0, r.days)
			return &d, re.ReplaceAllString(input, "")
		}
	}

	// "by friday", "next friday" or "friday"
	for _, wd := range weekdays {
		re := regexp.MustCompile(`(?i)\b(?:by\s+|next\s+)?` + wd.name + `\b`)
		if re.MatchString(input) {
			d := nextWeekday(today, wd.day)
			return &d, re.ReplaceAllString(input, "")
		}
	}

	if matches := isoDatePattern.FindStringSubmatch(input); len(matches) > 1 {
		if d, err := time.ParseInLocation(value_objects.DateLayout, matches[1], now.Location()); err == nil {
			return &d, isoDatePattern.ReplaceAllString(input, "")
		}
	}

	return nil, input
}

func nextWeekday(from time.Time, target time.Weekday) time.Time {
	daysUntil := int(target) - int(from.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return from.AddDate(0, 0, daysUntil)
}

var (
	spaces  = regexp.MustCompile(`\s+`)
	fillers = []string{"by", "for", "at", "on", "due"}
)

func cleanTitle(title string) string {
	title = spaces.ReplaceAllString(title, " ")

	// Remove filler words left at the boundaries
	for _, filler := range fillers {
		title = regexp.MustCompile(`(?i)^\s*` + filler + `\s+`).ReplaceAllString(title, "")
		title = regexp.MustCompile(`(?i)\s+` + filler + `\s*$`).ReplaceAllString(title, "")
	}

	return strings.TrimSpace(title)
}

func init() {
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "task description")
	rootCmd.AddCommand(addCmd)
}
