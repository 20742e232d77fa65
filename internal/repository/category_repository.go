package repository

import (
	"context"
	"errors"
	"strings"

	"taskflow/internal/models"
	"taskflow/internal/store"
)

// CategoryRepository specializes a record-store client for categories.
// taskCount is not storage state; it is attached on read from the task set
// the caller already holds.
type CategoryRepository struct {
	client store.Client[CategoryRecord, CategoryRecordPatch]
}

func NewCategoryRepository(client store.Client[CategoryRecord, CategoryRecordPatch]) *CategoryRepository {
	return &CategoryRepository{client: client}
}

// CategoryInput is the category form payload.
type CategoryInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (in CategoryInput) Validate() error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return &models.ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) > models.CategoryNameMaxLen {
		return &models.ValidationError{Field: "name", Message: "name must be 50 characters or fewer"}
	}
	if in.Color != "" && !models.ValidHexColor(in.Color) {
		return &models.ValidationError{Field: "color", Message: "color must be a #rrggbb value"}
	}
	return nil
}

// List returns all categories with zero task counts. Use AttachTaskCounts
// when the current task set is at hand.
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	records, err := r.client.List(ctx)
	if err != nil {
		return nil, err
	}
	categories := make([]models.Category, len(records))
	for i, rec := range records {
		categories[i] = categoryFromRecord(rec)
	}
	return categories, nil
}

// GetByID returns the category or store.ErrNotFound.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	rec, err := r.client.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category := categoryFromRecord(rec)
	return &category, nil
}

// Lookup resolves a task's category reference. A missing or orphaned
// reference resolves to nil, never an error; category deletion does not
// cascade to tasks and their stale references must stay harmless.
func (r *CategoryRepository) Lookup(ctx context.Context, id string) (*models.Category, error) {
	if id == "" {
		return nil, nil
	}
	category, err := r.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (r *CategoryRepository) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	rec := CategoryRecord{
		Name:  strings.TrimSpace(in.Name),
		Color: defaultString(in.Color, models.DefaultCategoryColor),
	}
	stored, err := r.client.Create(ctx, rec)
	if err != nil {
		return nil, err
	}
	if stored.RecordID() == "" {
		return nil, nil
	}
	category := categoryFromRecord(stored)
	return &category, nil
}

func (r *CategoryRepository) Update(ctx context.Context, id string, in CategoryInput) (*models.Category, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	patch := CategoryRecordPatch{Name: &name}
	if in.Color != "" {
		patch.Color = &in.Color
	}
	stored, err := r.client.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if stored.RecordID() == "" {
		return nil, nil
	}
	category := categoryFromRecord(stored)
	return &category, nil
}

// Delete removes the category only. Tasks referencing it keep their stale
// categoryId; Lookup resolves those to "no category".
func (r *CategoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.client.Delete(ctx, id)
}

func categoryFromRecord(rec CategoryRecord) models.Category {
	return models.Category{
		ID:    rec.RecordID(),
		Name:  rec.Name,
		Color: defaultString(rec.Color, models.DefaultCategoryColor),
	}
}
