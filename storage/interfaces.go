package storage

import (
	"context"

	"github.com/poiesic/hearth/core"
)

// OpKind tags an operation inside a batch.
type OpKind int

const (
	// OpAdd inserts a new record.
	OpAdd OpKind = iota + 1
	// OpUpdate upserts a record.
	OpUpdate
	// OpDelete removes a record by id.
	OpDelete
)

// Operation is one entry in a batch. Add and Update carry a Record;
// Delete carries only an Id.
type Operation struct {
	Kind   OpKind
	Record *core.VectorRecord
	Id     string
}

// CollectionStats summarizes a collection's contents.
type CollectionStats struct {
	Count      int
	Dimensions int
	Metadata   map[string]string
}

// Store provides named collections of (id, vector, metadata) rows with
// similarity search. Implementations must be thread-safe within a single
// process; the embedded badger backend is NOT safe for concurrent writers
// across processes without external coordination.
type Store interface {
	// Initialize prepares the store for use. Idempotent.
	Initialize(ctx context.Context) error

	// HealthCheck reports whether the store is usable.
	HealthCheck(ctx context.Context) bool

	// CreateCollection creates a named collection. Creating an existing
	// collection is a no-op.
	CreateCollection(ctx context.Context, name string, metadata map[string]string) error

	// DeleteCollection removes a collection and all of its records.
	DeleteCollection(ctx context.Context, name string) error

	// CollectionExists reports whether a collection has been created.
	CollectionExists(ctx context.Context, name string) (bool, error)

	// AddVectors stores records in a collection, creating the collection
	// if it does not exist. Existing ids are overwritten.
	AddVectors(ctx context.Context, collection string, records ...*core.VectorRecord) error

	// GetVectors retrieves records by id. Missing ids are skipped, not
	// errors; a missing collection yields an empty result.
	GetVectors(ctx context.Context, collection string, ids ...string) ([]*core.VectorRecord, error)

	// SearchVectors returns up to limit records nearest to the query
	// vector, ordered by ascending distance. The filter applies
	// equality constraints against record metadata. A missing collection
	// yields an empty result, not an error.
	SearchVectors(ctx context.Context, collection string, vector []float32, limit int, filter map[string]string) ([]*core.SearchResult, error)

	// UpdateVectors upserts records, preserving InsertedAt for existing ids.
	UpdateVectors(ctx context.Context, collection string, records ...*core.VectorRecord) error

	// DeleteVectors removes records by id. Absent ids are not errors.
	DeleteVectors(ctx context.Context, collection string, ids ...string) error

	// BatchOperations applies operations in order, best-effort: a failing
	// operation is logged and skipped, never aborting the batch.
	BatchOperations(ctx context.Context, collection string, ops []Operation) error

	// CollectionStats returns count, dimensions, and metadata for a
	// collection. A missing collection yields zero stats.
	CollectionStats(ctx context.Context, collection string) (*CollectionStats, error)

	// Close releases all resources held by the store.
	Close() error
}
