// Package output provides formatters for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"taskbridge/internal/result"
	"taskbridge/internal/service"
)

// Output formats accepted by --format.
const (
	FormatJSON = "json"
	FormatText = "text"
)

const (
	// ProjectSeparator is the separator line around a project header.
	ProjectSeparator = "------------"
)

// ValidFormat reports whether f names a known format.
func ValidFormat(f string) bool {
	return f == FormatJSON || f == FormatText
}

// JSON writes res as indented JSON in the tool result shape.
func JSON(w io.Writer, res result.Result[any]) error {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

// Text writes successful data for a human. Types without a text form fall
// back to indented JSON.
func Text(w io.Writer, data any) error {
	switch v := data.(type) {
	case string:
		fmt.Fprintln(w, v)
	case []service.Project:
		for _, p := range v {
			FormatProject(w, p)
		}
	case service.Project:
		FormatProject(w, v)
	case service.ProjectData:
		FormatProjectData(w, v)
	case service.Task:
		fmt.Fprintf(w, "%s  %s\n", v.ID, normalizeTitle(v.Title))
	default:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\n", b)
	}
	return nil
}

// Error writes a failure line.
// Format: "error: {MESSAGE}\n"
func Error(w io.Writer, f *result.Failure) {
	fmt.Fprintf(w, "error: %s\n", f.Message)
}

// FormatProject formats a project line.
// Format: "{NAME}  [{ID}]\n", closed projects are marked.
func FormatProject(w io.Writer, p service.Project) {
	name := normalizeProjectName(p.Name)
	if p.Closed {
		name += " (closed)"
	}
	fmt.Fprintf(w, "%s  [%s]\n", name, p.ID)
}

// FormatProjectData formats a project header followed by its tasks.
func FormatProjectData(w io.Writer, pd service.ProjectData) {
	fmt.Fprintln(w, ProjectSeparator)
	fmt.Fprintln(w, normalizeProjectName(pd.Project.Name))
	fmt.Fprintln(w, ProjectSeparator)
	if len(pd.Tasks) == 0 {
		fmt.Fprintln(w, "no tasks found")
		return
	}
	for i, t := range pd.Tasks {
		FormatTask(w, i+1, t)
	}
}

// FormatTask formats a numbered task line.
// Format: "{N:>4}  {TITLE}\n" (4-wide right-aligned number, two spaces, title)
// Tasks with subtasks show the done/total count.
func FormatTask(w io.Writer, num int, task service.Task) {
	title := normalizeTitle(task.Title)
	if n := len(task.Items); n > 0 {
		done := 0
		for _, item := range task.Items {
			if item.Status != service.StatusNormal {
				done++
			}
		}
		title += fmt.Sprintf(" [%d/%d]", done, n)
	}
	fmt.Fprintf(w, "%4d  %s\n", num, title)
}

// FormatCommand formats a line of the command listing.
func FormatCommand(w io.Writer, name, synopsis string) {
	fmt.Fprintf(w, "  %-32s%s\n", name, synopsis)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

// normalizeProjectName normalizes a project name for display.
// Empty or whitespace-only names become "(untitled)".
func normalizeProjectName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "(untitled)"
	}
	return name
}
