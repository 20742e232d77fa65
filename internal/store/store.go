// Package store provides the record-store client: one generic CRUD contract
// with two interchangeable backends, an in-memory snapshot store and a
// remote record API. The variant is chosen once at startup; repositories
// never branch on it per call.
package store

import (
	"context"
	"errors"
)

// ErrNotFound signals a read, update, or delete against a missing id. Both
// variants return it so callers handle a single condition.
var ErrNotFound = errors.New("record not found")

// Record is implemented by wire-shape record types. Methods return copies;
// a record handed to or received from a store never aliases internal state.
type Record[T any] interface {
	// RecordID returns the record's opaque identifier, already normalized
	// to a string.
	RecordID() string
	// WithRecordID returns a copy carrying the given identifier.
	WithRecordID(id string) T
	// Clone returns a deep copy.
	Clone() T
}

// Patch carries a partial update. Fields left unset preserve the stored
// value; the merge runs inside the store so both variants agree on it.
type Patch[T any] interface {
	Apply(rec T) T
}

// Client is the capability interface over a single record collection.
type Client[T Record[T], P Patch[T]] interface {
	// List returns every record in storage order.
	List(ctx context.Context) ([]T, error)
	// GetByID returns the record or ErrNotFound.
	GetByID(ctx context.Context, id string) (T, error)
	// Create stores rec, assigns its id, and echoes the stored shape.
	Create(ctx context.Context, rec T) (T, error)
	// Update merges patch over the stored record and echoes the result,
	// or returns ErrNotFound.
	Update(ctx context.Context, id string, patch P) (T, error)
	// Delete removes the record and reports whether it was found.
	// Deleting a missing id is (false, nil), never an error.
	Delete(ctx context.Context, id string) (bool, error)
}
