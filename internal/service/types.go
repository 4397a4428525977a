// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Project represents a task project (a list in some backends).
type Project struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name,omitempty"`
	Color      string `json:"color,omitempty"`
	SortOrder  int64  `json:"sortOrder,omitempty"`
	Closed     bool   `json:"closed,omitempty"`
	GroupID    string `json:"groupId,omitempty"`
	ViewMode   string `json:"viewMode,omitempty"`   // "list", "kanban" or "timeline"
	Permission string `json:"permission,omitempty"` // "read", "write" or "comment"
	Kind       string `json:"kind,omitempty"`       // "TASK" or "NOTE"
}

// Task priorities.
const (
	PriorityNone   = 0
	PriorityLow    = 1
	PriorityMedium = 3
	PriorityHigh   = 5
)

// Task statuses.
const (
	StatusNormal    = 0
	StatusCompleted = 2
)

// Task represents a single task. It belongs to exactly one project.
// Zero fields are omitted so a Task can carry a partial update.
type Task struct {
	ID            string          `json:"id,omitempty"`
	ProjectID     string          `json:"projectId,omitempty"`
	Title         string          `json:"title,omitempty"`
	Content       string          `json:"content,omitempty"`
	Desc          string          `json:"desc,omitempty"`
	StartDate     string          `json:"startDate,omitempty"`
	DueDate       string          `json:"dueDate,omitempty"`
	CompletedTime Timestamp       `json:"completedTime,omitempty"`
	TimeZone      string          `json:"timeZone,omitempty"`
	IsAllDay      bool            `json:"isAllDay,omitempty"`
	Priority      int             `json:"priority,omitempty"`
	Reminders     []string        `json:"reminders,omitempty"`
	RepeatFlag    string          `json:"repeatFlag,omitempty"` // e.g. "RRULE:FREQ=DAILY;INTERVAL=1"
	Status        int             `json:"status,omitempty"`
	ColumnID      string          `json:"columnId,omitempty"`
	Items         []ChecklistItem `json:"items,omitempty"`
	SortOrder     int64           `json:"sortOrder,omitempty"`
}

// ChecklistItem is a subtask.
type ChecklistItem struct {
	ID            string    `json:"id,omitempty"`
	Title         string    `json:"title"`
	Status        int       `json:"status"`
	CompletedTime Timestamp `json:"completedTime,omitempty"`
	IsAllDay      bool      `json:"isAllDay,omitempty"`
	SortOrder     int64     `json:"sortOrder,omitempty"`
	StartDate     string    `json:"startDate,omitempty"`
	TimeZone      string    `json:"timeZone,omitempty"`
}

// Column is a kanban column.
type Column struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId"`
	Name      string `json:"name"`
	SortOrder int64  `json:"sortOrder"`
}

// ProjectData is a project with its undone tasks and columns.
type ProjectData struct {
	Project Project  `json:"project"`
	Tasks   []Task   `json:"tasks"`
	Columns []Column `json:"columns,omitempty"`
}

// Timestamp is a time string. Some backends send completion times as Unix
// milliseconds; those are converted to UTC ISO-8601 on decode.
type Timestamp string

// TimestampLayout matches the millisecond ISO form, e.g. 2025-12-31T23:59:59.000Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// UnmarshalJSON accepts a string, a number of milliseconds, or null.
func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*ts = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*ts = Timestamp(s)
		return nil
	}
	ms, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", b, err)
	}
	*ts = Timestamp(time.UnixMilli(ms).UTC().Format(TimestampLayout))
	return nil
}

// APIError is returned by backends for non-2xx upstream responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Body)
}
