// Package filter is the pure task filtering and aggregation engine. No
// I/O, no mutation of inputs; every function returns fresh slices and maps.
package filter

import (
	"strings"

	"taskflow/internal/models"
)

// Sentinel filter values. "all" disables the corresponding dimension.
const (
	All             = "all"
	StatusCompleted = "completed"
	StatusPending   = "pending"
)

// Criteria is one filter state. Empty strings behave like "all" so the
// zero value filters nothing.
type Criteria struct {
	Search   string `json:"search"`
	Status   string `json:"status"`
	Category string `json:"category"`
	Priority string `json:"priority"`
}

// DefaultCriteria is the filter bar's initial state.
func DefaultCriteria() Criteria {
	return Criteria{Status: All, Category: All, Priority: All}
}

// ForSelection maps a sidebar selection onto base. The pseudo-categories
// "all", "completed", and "pending" synthesize a status filter with the
// category cleared; a real category id selects it with status reset.
// Search and priority pass through untouched.
func ForSelection(selection string, base Criteria) Criteria {
	out := base
	switch selection {
	case All:
		out.Status = All
		out.Category = All
	case StatusCompleted:
		out.Status = StatusCompleted
		out.Category = All
	case StatusPending:
		out.Status = StatusPending
		out.Category = All
	default:
		out.Status = All
		out.Category = selection
	}
	return out
}

// Apply narrows tasks to those matching every active dimension of c,
// preserving input order. The result is always a subset of tasks.
func Apply(tasks []models.Task, c Criteria) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		if Matches(task, c) {
			out = append(out, task)
		}
	}
	return out
}

// Matches combines the four dimensions with logical AND.
func Matches(task models.Task, c Criteria) bool {
	if c.Search != "" {
		search := strings.ToLower(c.Search)
		title := strings.ToLower(task.Title)
		description := strings.ToLower(task.Description)
		if !strings.Contains(title, search) && !strings.Contains(description, search) {
			return false
		}
	}
	switch c.Status {
	case StatusCompleted:
		if !task.Completed {
			return false
		}
	case StatusPending:
		if task.Completed {
			return false
		}
	}
	if c.Category != "" && c.Category != All && task.CategoryID != c.Category {
		return false
	}
	if c.Priority != "" && c.Priority != All && task.Priority != c.Priority {
		return false
	}
	return true
}

// Summary holds the sidebar's overview counts.
type Summary struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// Summarize computes the global counts independent of any category.
func Summarize(tasks []models.Task) Summary {
	s := Summary{Total: len(tasks)}
	for _, task := range tasks {
		if task.Completed {
			s.Completed++
		} else {
			s.Pending++
		}
	}
	return s
}

// CountByCategory counts tasks per normalized category id. Tasks without a
// category are not counted anywhere.
func CountByCategory(tasks []models.Task) map[string]int {
	counts := make(map[string]int)
	for _, task := range tasks {
		if task.CategoryID == "" {
			continue
		}
		counts[task.CategoryID]++
	}
	return counts
}

// AttachTaskCounts returns a copy of categories with taskCount derived from
// the current task set.
func AttachTaskCounts(categories []models.Category, tasks []models.Task) []models.Category {
	counts := CountByCategory(tasks)
	out := make([]models.Category, len(categories))
	for i, category := range categories {
		category.TaskCount = counts[category.ID]
		out[i] = category
	}
	return out
}
