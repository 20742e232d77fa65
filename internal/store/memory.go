package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Latency simulates store round-trip time per operation, matching the mock
// backend this store replaces. Zero values mean no delay; tests run with
// the zero Latency.
type Latency struct {
	List   time.Duration
	Get    time.Duration
	Create time.Duration
	Update time.Duration
	Delete time.Duration
}

// TaskLatency and CategoryLatency reproduce the mock backend's per-entity
// delays. Only relevant for exercising UI loading states.
func TaskLatency() Latency {
	return Latency{
		List:   300 * time.Millisecond,
		Get:    200 * time.Millisecond,
		Create: 400 * time.Millisecond,
		Update: 350 * time.Millisecond,
		Delete: 300 * time.Millisecond,
	}
}

func CategoryLatency() Latency {
	return Latency{
		List:   250 * time.Millisecond,
		Get:    200 * time.Millisecond,
		Create: 350 * time.Millisecond,
		Update: 300 * time.Millisecond,
		Delete: 300 * time.Millisecond,
	}
}

// Memory is the in-memory store variant, seeded from a static snapshot.
// Every operation copies in and copies out, so callers never hold a live
// reference into internal storage.
type Memory[T Record[T], P Patch[T]] struct {
	mu      sync.Mutex
	records []T
	latency Latency
	newID   func() string
}

// NewMemory seeds a store from snapshot. The seed records are cloned; the
// caller's slice stays untouched.
func NewMemory[T Record[T], P Patch[T]](seed []T, latency Latency) *Memory[T, P] {
	records := make([]T, len(seed))
	for i, rec := range seed {
		records[i] = rec.Clone()
	}
	return &Memory[T, P]{
		records: records,
		latency: latency,
		newID:   uuid.NewString,
	}
}

func (m *Memory[T, P]) List(ctx context.Context) ([]T, error) {
	if err := wait(ctx, m.latency.List); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]T, len(m.records))
	for i, rec := range m.records {
		out[i] = rec.Clone()
	}
	return out, nil
}

func (m *Memory[T, P]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T
	if err := wait(ctx, m.latency.Get); err != nil {
		return zero, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if rec.RecordID() == id {
			return rec.Clone(), nil
		}
	}
	return zero, ErrNotFound
}

func (m *Memory[T, P]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	if err := wait(ctx, m.latency.Create); err != nil {
		return zero, err
	}
	stored := rec.Clone().WithRecordID(m.newID())
	m.mu.Lock()
	m.records = append(m.records, stored)
	m.mu.Unlock()
	return stored.Clone(), nil
}

func (m *Memory[T, P]) Update(ctx context.Context, id string, patch P) (T, error) {
	var zero T
	if err := wait(ctx, m.latency.Update); err != nil {
		return zero, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, rec := range m.records {
		if rec.RecordID() == id {
			updated := patch.Apply(rec.Clone())
			m.records[i] = updated
			return updated.Clone(), nil
		}
	}
	return zero, ErrNotFound
}

func (m *Memory[T, P]) Delete(ctx context.Context, id string) (bool, error) {
	if err := wait(ctx, m.latency.Delete); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, rec := range m.records {
		if rec.RecordID() == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// wait sleeps for d while honoring context cancellation.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
