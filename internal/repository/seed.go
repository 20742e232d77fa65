package repository

import (
	"embed"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"taskflow/internal/notify"
	"taskflow/internal/store"
)

//go:embed seed/tasks.json seed/categories.json
var seedData embed.FS

// Collection and field names of the record-store schema. These stay inside
// the repository package; nothing above it sees storage names.
const (
	taskCollection     = "task_c"
	categoryCollection = "category_c"
)

var taskFields = []string{
	"Id", "Name", "description_c", "completed_c", "status_c",
	"priority_c", "category_id_c", "due_date_c", "created_at_c",
	"completed_at_c",
}

var categoryFields = []string{"Id", "Name", "color_c"}

// SeedTasks returns the embedded task snapshot used by the memory variant.
func SeedTasks() ([]TaskRecord, error) {
	raw, err := seedData.ReadFile("seed/tasks.json")
	if err != nil {
		return nil, fmt.Errorf("read task seed: %w", err)
	}
	var records []TaskRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode task seed: %w", err)
	}
	return records, nil
}

// SeedCategories returns the embedded category snapshot.
func SeedCategories() ([]CategoryRecord, error) {
	raw, err := seedData.ReadFile("seed/categories.json")
	if err != nil {
		return nil, fmt.Errorf("read category seed: %w", err)
	}
	var records []CategoryRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode category seed: %w", err)
	}
	return records, nil
}

// NewMemoryTaskClient builds the in-memory task store from the seed
// snapshot. latency simulates round trips; pass the zero value in tests.
func NewMemoryTaskClient(latency store.Latency) (*store.Memory[TaskRecord, TaskRecordPatch], error) {
	seed, err := SeedTasks()
	if err != nil {
		return nil, err
	}
	return store.NewMemory[TaskRecord, TaskRecordPatch](seed, latency), nil
}

// NewMemoryCategoryClient builds the in-memory category store.
func NewMemoryCategoryClient(latency store.Latency) (*store.Memory[CategoryRecord, CategoryRecordPatch], error) {
	seed, err := SeedCategories()
	if err != nil {
		return nil, err
	}
	return store.NewMemory[CategoryRecord, CategoryRecordPatch](seed, latency), nil
}

// NewRemoteTaskClient builds the record-API task store.
func NewRemoteTaskClient(cfg store.RemoteConfig, logger *zap.SugaredLogger, notifier notify.Notifier) *store.Remote[TaskRecord, TaskRecordPatch] {
	return store.NewRemote[TaskRecord, TaskRecordPatch](cfg, taskCollection, "tasks", taskFields, logger, notifier)
}

// NewRemoteCategoryClient builds the record-API category store.
func NewRemoteCategoryClient(cfg store.RemoteConfig, logger *zap.SugaredLogger, notifier notify.Notifier) *store.Remote[CategoryRecord, CategoryRecordPatch] {
	return store.NewRemote[CategoryRecord, CategoryRecordPatch](cfg, categoryCollection, "categories", categoryFields, logger, notifier)
}
