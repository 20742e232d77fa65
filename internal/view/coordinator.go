// Package view holds the UI selection state and translates user actions
// into repository calls. It is deliberately thin glue: all filtering logic
// lives in the filter package, all storage behavior in the repositories.
package view

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"taskflow/internal/filter"
	"taskflow/internal/models"
	"taskflow/internal/notify"
	"taskflow/internal/repository"
	"taskflow/internal/store"
)

// Modal identifies which editor dialog is open.
type Modal string

const (
	ModalNone          Modal = ""
	ModalTask          Modal = "task"
	ModalCategory      Modal = "category"
	ModalConfirmDelete Modal = "confirm-delete"
)

// DeleteKind distinguishes what a pending delete confirmation targets.
type DeleteKind string

const (
	DeleteTask     DeleteKind = "task"
	DeleteCategory DeleteKind = "category"
)

// PendingDelete is a delete awaiting user confirmation.
type PendingDelete struct {
	Kind  DeleteKind `json:"kind"`
	ID    string     `json:"id"`
	Label string     `json:"label"`
}

// Coordinator owns the single interactive user's view state: selected
// (pseudo-)category, active criteria, open modal, and the refresh counter
// that read-driven components observe to re-fetch. There are no partial
// updates; every successful write forces a full reload.
type Coordinator struct {
	mu         sync.Mutex
	tasks      *repository.TaskRepository
	categories *repository.CategoryRepository
	notifier   notify.Notifier
	logger     *zap.SugaredLogger

	selected        string
	criteria        filter.Criteria
	modal           Modal
	editingTask     *models.Task
	editingCategory *models.Category
	pendingDelete   *PendingDelete
	refresh         int64
}

func NewCoordinator(tasks *repository.TaskRepository, categories *repository.CategoryRepository, notifier notify.Notifier, logger *zap.SugaredLogger) *Coordinator {
	return &Coordinator{
		tasks:      tasks,
		categories: categories,
		notifier:   notifier,
		logger:     logger,
		selected:   filter.All,
		criteria:   filter.DefaultCriteria(),
	}
}

// State is a snapshot of the coordinator for the client.
type State struct {
	Selected        string           `json:"selected"`
	Criteria        filter.Criteria  `json:"criteria"`
	Modal           Modal            `json:"modal"`
	EditingTask     *models.Task     `json:"editingTask,omitempty"`
	EditingCategory *models.Category `json:"editingCategory,omitempty"`
	PendingDelete   *PendingDelete   `json:"pendingDelete,omitempty"`
	Refresh         int64            `json:"refresh"`
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Selected:        c.selected,
		Criteria:        c.criteria,
		Modal:           c.modal,
		EditingTask:     c.editingTask,
		EditingCategory: c.editingCategory,
		PendingDelete:   c.pendingDelete,
		Refresh:         c.refresh,
	}
}

// SelectCategory records a sidebar selection and synthesizes the matching
// filter state. "all", "completed", and "pending" are pseudo-categories;
// anything else is treated as a real category id.
func (c *Coordinator) SelectCategory(selection string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = selection
	c.criteria = filter.ForSelection(selection, c.criteria)
}

// SetSearch updates the free-text search, leaving filters untouched.
func (c *Coordinator) SetSearch(search string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria.Search = search
}

// SetFilters replaces status/category/priority, preserving the search.
func (c *Coordinator) SetFilters(criteria filter.Criteria) {
	c.mu.Lock()
	defer c.mu.Unlock()
	search := c.criteria.Search
	c.criteria = criteria
	c.criteria.Search = search
}

// OpenTaskEditor opens the task modal, pre-loaded for edit when task is
// non-nil, empty for create when nil.
func (c *Coordinator) OpenTaskEditor(task *models.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modal = ModalTask
	c.editingTask = task
	c.editingCategory = nil
	c.pendingDelete = nil
}

func (c *Coordinator) OpenCategoryEditor(category *models.Category) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modal = ModalCategory
	c.editingCategory = category
	c.editingTask = nil
	c.pendingDelete = nil
}

// RequestDelete opens the confirmation dialog for a task or category.
func (c *Coordinator) RequestDelete(kind DeleteKind, id, label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modal = ModalConfirmDelete
	c.pendingDelete = &PendingDelete{Kind: kind, ID: id, Label: label}
	c.editingTask = nil
	c.editingCategory = nil
}

// CloseModal dismisses whichever dialog is open without acting.
func (c *Coordinator) CloseModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modal = ModalNone
	c.editingTask = nil
	c.editingCategory = nil
	c.pendingDelete = nil
}

// SubmitTask creates or updates depending on what the editor was opened
// with. Validation errors stay local to the form: the modal remains open
// and no refresh is triggered.
func (c *Coordinator) SubmitTask(ctx context.Context, in repository.TaskInput) (*models.Task, error) {
	c.mu.Lock()
	editing := c.editingTask
	c.mu.Unlock()

	var task *models.Task
	var err error
	if editing != nil {
		task, err = c.tasks.Update(ctx, editing.ID, in)
	} else {
		task, err = c.tasks.Create(ctx, in)
	}
	if err != nil {
		return nil, err
	}
	c.completeWrite()
	return task, nil
}

func (c *Coordinator) SubmitCategory(ctx context.Context, in repository.CategoryInput) (*models.Category, error) {
	c.mu.Lock()
	editing := c.editingCategory
	c.mu.Unlock()

	var category *models.Category
	var err error
	if editing != nil {
		category, err = c.categories.Update(ctx, editing.ID, in)
	} else {
		category, err = c.categories.Create(ctx, in)
	}
	if err != nil {
		return nil, err
	}
	c.completeWrite()
	return category, nil
}

// ConfirmDelete executes the pending delete. Deleting a category leaves
// its tasks in place with a stale reference that resolves to no category.
func (c *Coordinator) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	pending := c.pendingDelete
	c.mu.Unlock()
	if pending == nil {
		return nil
	}

	var found bool
	var err error
	switch pending.Kind {
	case DeleteCategory:
		found, err = c.categories.Delete(ctx, pending.ID)
	default:
		found, err = c.tasks.Delete(ctx, pending.ID)
	}
	if err != nil {
		c.notifier.Error("Failed to delete " + string(pending.Kind))
		return err
	}
	if !found {
		c.notifier.Error("Failed to delete " + string(pending.Kind))
		c.CloseModal()
		return store.ErrNotFound
	}

	switch pending.Kind {
	case DeleteCategory:
		c.notifier.Success("Category deleted successfully")
	default:
		c.notifier.Success("Task deleted successfully")
	}
	c.completeWrite()
	return nil
}

// ToggleTask flips a task's completion. The sidebar counts go stale until
// the next write-triggered reload, same as the source behavior.
func (c *Coordinator) ToggleTask(ctx context.Context, id string) (*models.Task, error) {
	task, err := c.tasks.ToggleComplete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		if c.logger != nil {
			c.logger.Errorw("toggle task failed", "id", id, "error", err)
		}
		return nil, err
	}
	return task, nil
}

// Refresh returns the counter bumped by every successful write.
func (c *Coordinator) Refresh() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refresh
}

func (c *Coordinator) completeWrite() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modal = ModalNone
	c.editingTask = nil
	c.editingCategory = nil
	c.pendingDelete = nil
	c.refresh++
}

// Data is one full reload: the visible task subset under the active
// criteria, categories with derived counts, and the overview summary.
type Data struct {
	Tasks      []models.Task     `json:"tasks"`
	Categories []models.Category `json:"categories"`
	Summary    filter.Summary    `json:"summary"`
	Refresh    int64             `json:"refresh"`
}

// Load issues the fixed pair of reads jointly and derives the view. The
// two entities are independent; ordering between the reads is irrelevant.
func (c *Coordinator) Load(ctx context.Context) (*Data, error) {
	var (
		tasks      []models.Task
		categories []models.Category
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = c.tasks.List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = c.categories.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	criteria := c.criteria
	refresh := c.refresh
	c.mu.Unlock()

	return &Data{
		Tasks:      filter.Apply(tasks, criteria),
		Categories: filter.AttachTaskCounts(categories, tasks),
		Summary:    filter.Summarize(tasks),
		Refresh:    refresh,
	}, nil
}
