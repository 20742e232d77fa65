package models

import "regexp"

// DefaultCategoryColor is applied when a category arrives without a color.
const DefaultCategoryColor = "#2563eb"

// CategoryNameMaxLen bounds category names the same way TitleMaxLen bounds
// task titles.
const CategoryNameMaxLen = 50

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Category is the UI-facing category shape. TaskCount is derived on read
// from the current task set and is never authoritative storage state.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	TaskCount int    `json:"taskCount"`
}

// ValidHexColor reports whether s is a #rrggbb color string.
func ValidHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}
