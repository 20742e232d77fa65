// internal/models/task.go
package models

import (
	"fmt"
	"time"
)

// Task status constants
const (
	StatusNotStarted = "Not Started"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusOnHold     = "On Hold"
)

// Priority constants
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Field length limits enforced before any write reaches a store.
const (
	TitleMaxLen       = 100
	DescriptionMaxLen = 500
)

// Task is the UI-facing task shape. Storage field names never leak past the
// repository layer; everything here is already translated.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	CategoryID  string     `json:"categoryId,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Overdue reports whether the task has a due date in the past while still
// incomplete. Completed tasks are never overdue.
func (t Task) Overdue(now time.Time) bool {
	if t.Completed || t.DueDate == nil {
		return false
	}
	return t.DueDate.Before(now)
}

// ValidStatus reports whether s is one of the four tracked statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusOnHold:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of the three priorities.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ValidationError describes a rejected field. It is surfaced to the user
// directly and never reaches a store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
