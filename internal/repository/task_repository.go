// internal/repository/task_repository.go
package repository

import (
	"context"
	"strings"
	"time"

	"taskflow/internal/models"
	"taskflow/internal/store"
)

// TaskRepository specializes a record-store client for tasks. It owns the
// translation between storage field names and the UI shape, applied on
// every read path so callers never observe wire names.
type TaskRepository struct {
	client store.Client[TaskRecord, TaskRecordPatch]
	now    func() time.Time
}

func NewTaskRepository(client store.Client[TaskRecord, TaskRecordPatch]) *TaskRepository {
	return &TaskRepository{
		client: client,
		now:    time.Now,
	}
}

// TaskInput is the task form payload, used for create and full-form edit.
type TaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	CategoryID  string     `json:"categoryId"`
	DueDate     *time.Time `json:"dueDate"`
}

// Validate checks the input before any store write is attempted.
func (in TaskInput) Validate() error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return &models.ValidationError{Field: "title", Message: "title is required"}
	}
	if len(title) > models.TitleMaxLen {
		return &models.ValidationError{Field: "title", Message: "title must be 100 characters or fewer"}
	}
	if len(in.Description) > models.DescriptionMaxLen {
		return &models.ValidationError{Field: "description", Message: "description must be 500 characters or fewer"}
	}
	if in.Status != "" && !models.ValidStatus(in.Status) {
		return &models.ValidationError{Field: "status", Message: "unknown status"}
	}
	if in.Priority != "" && !models.ValidPriority(in.Priority) {
		return &models.ValidationError{Field: "priority", Message: "unknown priority"}
	}
	return nil
}

// List returns all tasks in storage order.
func (r *TaskRepository) List(ctx context.Context) ([]models.Task, error) {
	records, err := r.client.List(ctx)
	if err != nil {
		return nil, err
	}
	tasks := make([]models.Task, len(records))
	for i, rec := range records {
		tasks[i] = taskFromRecord(rec)
	}
	return tasks, nil
}

// GetByID returns the task or store.ErrNotFound.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	rec, err := r.client.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	task := taskFromRecord(rec)
	return &task, nil
}

// Create validates, applies defaults, and stores a new task. A fail-soft
// store echoes a zero record on failure; that surfaces as a nil task, the
// "null result" callers expect under the fail-soft contract.
func (r *TaskRepository) Create(ctx context.Context, in TaskInput) (*models.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	createdAt := r.now().UTC()
	rec := TaskRecord{
		Name:        strings.TrimSpace(in.Title),
		Description: in.Description,
		Completed:   false,
		Status:      defaultString(in.Status, models.StatusNotStarted),
		Priority:    defaultString(in.Priority, models.PriorityMedium),
		CategoryID:  RecordRef(in.CategoryID),
		DueDate:     cloneTime(in.DueDate),
		CreatedAt:   &createdAt,
	}
	stored, err := r.client.Create(ctx, rec)
	if err != nil {
		return nil, err
	}
	if stored.RecordID() == "" {
		return nil, nil
	}
	task := taskFromRecord(stored)
	return &task, nil
}

// Update applies a full form edit. Completion state is untouched here; use
// ToggleComplete for that transition. createdAt is never rewritten.
func (r *TaskRepository) Update(ctx context.Context, id string, in TaskInput) (*models.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	patch := TaskRecordPatch{
		Name:        &title,
		Description: &in.Description,
	}
	if in.Status != "" {
		patch.Status = &in.Status
	}
	if in.Priority != "" {
		patch.Priority = &in.Priority
	}
	if in.CategoryID == "" {
		patch.ClearCategoryID = true
	} else {
		ref := RecordRef(in.CategoryID)
		patch.CategoryID = &ref
	}
	if in.DueDate == nil {
		patch.ClearDueDate = true
	} else {
		patch.DueDate = cloneTime(in.DueDate)
	}
	stored, err := r.client.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if stored.RecordID() == "" {
		return nil, nil
	}
	task := taskFromRecord(stored)
	return &task, nil
}

// ToggleComplete flips the completed flag, stamping completedAt on the
// false→true transition and clearing it on true→false. Status is left
// alone; the two fields are tracked independently.
func (r *TaskRepository) ToggleComplete(ctx context.Context, id string) (*models.Task, error) {
	current, err := r.client.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	completed := !current.Completed
	patch := TaskRecordPatch{Completed: &completed}
	if completed {
		stamp := r.now().UTC()
		patch.CompletedAt = &stamp
	} else {
		patch.ClearCompletedAt = true
	}
	stored, err := r.client.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if stored.RecordID() == "" {
		return nil, nil
	}
	task := taskFromRecord(stored)
	return &task, nil
}

// Delete removes the task, reporting whether it existed.
func (r *TaskRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.client.Delete(ctx, id)
}

// taskFromRecord translates storage shape to UI shape, supplying defaults
// for fields the store never populated.
func taskFromRecord(rec TaskRecord) models.Task {
	task := models.Task{
		ID:          rec.RecordID(),
		Title:       rec.Name,
		Description: rec.Description,
		Completed:   rec.Completed,
		Status:      defaultString(rec.Status, models.StatusNotStarted),
		Priority:    defaultString(rec.Priority, models.PriorityMedium),
		CategoryID:  rec.CategoryID.String(),
		DueDate:     cloneTime(rec.DueDate),
		CompletedAt: cloneTime(rec.CompletedAt),
	}
	if rec.CreatedAt != nil {
		task.CreatedAt = *rec.CreatedAt
	}
	return task
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
