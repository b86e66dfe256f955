package badger

import (
	"context"
	"math"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/hearth/core"
	"github.com/poiesic/hearth/storage"
)

// CreateCollection creates a named collection. Creating an existing
// collection is a no-op.
func (s *Store) CreateCollection(ctx context.Context, name string, metadata map[string]string) error {
	if name == "" {
		return core.ErrEmptyCollection
	}
	return s.WithTx(func(tx *badger.Txn) error {
		existing, err := readCollectionInfo(tx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return tx.Commit()
		}
		info := &core.CollectionInfo{
			Name:      name,
			Metadata:  metadata,
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.Set(makeCollectionKey(name), storage.MarshalCollectionInfo(info)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// DeleteCollection removes a collection and all of its records.
// Deleting a missing collection is a no-op.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	return s.WithTx(func(tx *badger.Txn) error {
		// Collect record keys first; deleting while iterating invalidates
		// the iterator.
		var keys [][]byte
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeRecordPrefix(name)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		iter.Close()

		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		if err := tx.Delete(makeCollectionKey(name)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// CollectionExists reports whether a collection has been created.
func (s *Store) CollectionExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.WithTx(func(tx *badger.Txn) error {
		info, err := readCollectionInfo(tx, name)
		if err != nil {
			return err
		}
		exists = info != nil
		return nil
	}, false)
	return exists, err
}

// AddVectors stores records in a collection, creating the collection if it
// does not exist. Existing ids are overwritten.
func (s *Store) AddVectors(ctx context.Context, collection string, records ...*core.VectorRecord) error {
	return s.upsertVectors(collection, false, records...)
}

// UpdateVectors upserts records, preserving InsertedAt for existing ids.
func (s *Store) UpdateVectors(ctx context.Context, collection string, records ...*core.VectorRecord) error {
	return s.upsertVectors(collection, true, records...)
}

func (s *Store) upsertVectors(collection string, preserveInserted bool, records ...*core.VectorRecord) error {
	if collection == "" {
		return core.ErrEmptyCollection
	}
	return s.WithTx(func(tx *badger.Txn) error {
		info, err := ensureCollection(tx, collection)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, record := range records {
			if err := core.ValidateVectorRecord(record); err != nil {
				return err
			}
			if info.Dimensions > 0 && len(record.Vector) != info.Dimensions {
				return storage.ErrDimensionMismatch
			}

			record.UpdatedAt = now
			record.InsertedAt = now
			if preserveInserted {
				old, err := readVectorRecord(tx, collection, record.Id)
				if err != nil {
					return err
				}
				if old != nil {
					record.InsertedAt = old.InsertedAt
				}
			}

			key := makeRecordKey(collection, record.Id)
			if err := tx.Set(key, storage.MarshalVectorRecord(record)); err != nil {
				return err
			}

			// First write establishes the collection's dimensionality.
			if info.Dimensions == 0 {
				info.Dimensions = len(record.Vector)
				if err := tx.Set(makeCollectionKey(collection), storage.MarshalCollectionInfo(info)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)
}

// GetVectors retrieves records by id. Missing ids are skipped.
func (s *Store) GetVectors(ctx context.Context, collection string, ids ...string) ([]*core.VectorRecord, error) {
	var results []*core.VectorRecord
	err := s.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			record, err := readVectorRecord(tx, collection, id)
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)
	return results, err
}

// DeleteVectors removes records by id. Absent ids are not errors.
func (s *Store) DeleteVectors(ctx context.Context, collection string, ids ...string) error {
	return s.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			if err := tx.Delete(makeRecordKey(collection, id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// SearchVectors scans the collection, computes cosine distance against the
// query vector, applies the equality metadata filter, and returns up to
// limit results ordered by ascending distance. A missing collection yields
// an empty result.
func (s *Store) SearchVectors(ctx context.Context, collection string, vector []float32, limit int, filter map[string]string) ([]*core.SearchResult, error) {
	if len(vector) == 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.SearchResult
	err := s.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeRecordPrefix(collection)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.VectorRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalVectorRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record == nil || len(record.Vector) == 0 {
				continue
			}

			if !matchesFilter(record.Metadata, filter) {
				continue
			}

			results = append(results, &core.SearchResult{
				Id:       record.Id,
				Distance: cosineDistance(vector, record.Vector),
				Metadata: record.Metadata,
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by distance ascending (nearest first)
	slices.SortFunc(results, func(a, b *core.SearchResult) int {
		if a.Distance < b.Distance {
			return -1
		}
		if a.Distance > b.Distance {
			return 1
		}
		return 0
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// BatchOperations applies operations in order, best-effort: a failing
// operation is logged and skipped, never aborting the batch.
func (s *Store) BatchOperations(ctx context.Context, collection string, ops []storage.Operation) error {
	for i, op := range ops {
		var err error
		switch op.Kind {
		case storage.OpAdd:
			err = s.AddVectors(ctx, collection, op.Record)
		case storage.OpUpdate:
			err = s.UpdateVectors(ctx, collection, op.Record)
		case storage.OpDelete:
			err = s.DeleteVectors(ctx, collection, op.Id)
		default:
			s.logger.Warn("skipping batch operation with unknown kind", "index", i, "kind", op.Kind)
			continue
		}
		if err != nil {
			s.logger.Error("batch operation failed, skipping", "collection", collection, "index", i, "err", err)
		}
	}
	return nil
}

// CollectionStats returns count, dimensions, and metadata for a collection.
// A missing collection yields zero stats.
func (s *Store) CollectionStats(ctx context.Context, collection string) (*storage.CollectionStats, error) {
	stats := &storage.CollectionStats{}
	err := s.WithTx(func(tx *badger.Txn) error {
		info, err := readCollectionInfo(tx, collection)
		if err != nil {
			return err
		}
		if info == nil {
			return nil
		}
		stats.Dimensions = info.Dimensions
		stats.Metadata = info.Metadata

		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeRecordPrefix(collection)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			stats.Count++
		}
		return nil
	}, false)
	return stats, err
}

// Helper functions

// ensureCollection reads a collection's info, creating it if absent.
func ensureCollection(tx *badger.Txn, name string) (*core.CollectionInfo, error) {
	info, err := readCollectionInfo(tx, name)
	if err != nil {
		return nil, err
	}
	if info != nil {
		return info, nil
	}
	info = &core.CollectionInfo{
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := tx.Set(makeCollectionKey(name), storage.MarshalCollectionInfo(info)); err != nil {
		return nil, err
	}
	return info, nil
}

// readCollectionInfo reads collection metadata, returning nil if absent.
func readCollectionInfo(tx *badger.Txn, name string) (*core.CollectionInfo, error) {
	item, err := tx.Get(makeCollectionKey(name))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}
	var info *core.CollectionInfo
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		info, unmarshalErr = storage.UnmarshalCollectionInfo(val)
		return unmarshalErr
	})
	return info, err
}

// readVectorRecord reads a vector record, returning nil if absent.
func readVectorRecord(tx *badger.Txn, collection, id string) (*core.VectorRecord, error) {
	item, err := tx.Get(makeRecordKey(collection, id))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}
	var record *core.VectorRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalVectorRecord(val)
		return unmarshalErr
	})
	return record, err
}

// matchesFilter checks equality constraints against record metadata.
func matchesFilter(metadata, filter map[string]string) bool {
	for key, want := range filter {
		if metadata[key] != want {
			return false
		}
	}
	return true
}

// cosineDistance computes 1 - cosine similarity, yielding a value in [0,2].
// A zero vector on either side yields the maximum distance.
func cosineDistance(a, b []float32) float32 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var dot, normA, normB float32
	for i := 0; i < minLen; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 2
	}

	cos := dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
	return 1 - cos
}
