// internal/store/memory_test.go
package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRecord is a minimal record type for exercising the generic stores.
type testRecord struct {
	ID   string   `json:"Id,omitempty"`
	Name string   `json:"Name"`
	Tags []string `json:"tags_c,omitempty"`
}

func (r testRecord) RecordID() string { return r.ID }

func (r testRecord) WithRecordID(id string) testRecord {
	r.ID = id
	return r
}

func (r testRecord) Clone() testRecord {
	out := r
	if r.Tags != nil {
		out.Tags = append([]string(nil), r.Tags...)
	}
	return out
}

type testPatch struct {
	Name *string  `json:"Name,omitempty"`
	Tags []string `json:"tags_c,omitempty"`
}

func (p testPatch) Apply(rec testRecord) testRecord {
	if p.Name != nil {
		rec.Name = *p.Name
	}
	if p.Tags != nil {
		rec.Tags = append([]string(nil), p.Tags...)
	}
	return rec
}

func newTestMemory(seed []testRecord) *Memory[testRecord, testPatch] {
	return NewMemory[testRecord, testPatch](seed, Latency{})
}

func TestMemory_ListReturnsSeedInInsertionOrder(t *testing.T) {
	seed := []testRecord{{ID: "a", Name: "first"}, {ID: "b", Name: "second"}}
	m := newTestMemory(seed)

	got, err := m.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

func TestMemory_CopyInCopyOut(t *testing.T) {
	seed := []testRecord{{ID: "a", Name: "first", Tags: []string{"x"}}}
	m := newTestMemory(seed)

	// mutating the seed after construction must not affect the store
	seed[0].Name = "mutated"
	seed[0].Tags[0] = "mutated"

	got, err := m.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", got[0].Name)
	assert.Equal(t, "x", got[0].Tags[0])

	// mutating a listed record must not affect later reads
	got[0].Name = "poked"
	got[0].Tags[0] = "poked"

	again, err := m.GetByID(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "first", again.Name)
	assert.Equal(t, "x", again.Tags[0])
}

func TestMemory_CreateAssignsID(t *testing.T) {
	m := newTestMemory(nil)

	created, err := m.Create(context.Background(), testRecord{Name: "new"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "new", created.Name)

	got, err := m.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestMemory_GetByIDNotFound(t *testing.T) {
	m := newTestMemory(nil)
	_, err := m.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_UpdateMergesPatch(t *testing.T) {
	m := newTestMemory([]testRecord{{ID: "a", Name: "before", Tags: []string{"keep"}}})

	name := "after"
	got, err := m.Update(context.Background(), "a", testPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "after", got.Name)
	assert.Equal(t, []string{"keep"}, got.Tags, "unset patch fields preserve stored values")
}

func TestMemory_UpdateNotFound(t *testing.T) {
	m := newTestMemory(nil)
	name := "x"
	_, err := m.Update(context.Background(), "missing", testPatch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_DeleteReportsWasFound(t *testing.T) {
	m := newTestMemory([]testRecord{{ID: "a", Name: "one"}, {ID: "b", Name: "two"}})

	found, err := m.Delete(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = m.Delete(context.Background(), "a")
	require.NoError(t, err)
	assert.False(t, found, "second delete of the same id reports not found")
}

func TestMemory_DeleteMissingLeavesStoreIntact(t *testing.T) {
	m := newTestMemory([]testRecord{{ID: "a", Name: "one"}, {ID: "b", Name: "two"}})

	found, err := m.Delete(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)

	got, err := m.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "one", got[0].Name)
	assert.Equal(t, "two", got[1].Name)
}

func TestMemory_LatencyHonorsContextCancellation(t *testing.T) {
	m := NewMemory[testRecord, testPatch](nil, Latency{List: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := m.List(ctx)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}
