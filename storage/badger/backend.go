package badger

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/poiesic/hearth/storage"
)

// Store implements storage.Store on an embedded BadgerDB instance.
// Collections are emulated as key prefixes over a single keyspace.
//
// The store persists to a local directory and is single-process only:
// concurrent writers from multiple processes require external coordination
// that this backend does not provide.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ storage.Store = (*Store)(nil)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// NewStore opens a BadgerDB-backed vector store at the specified path.
// Creates the directory if it doesn't exist.
//
// Returns storage.Store interface (not *Store) to enforce abstraction.
func NewStore(filePath string) (storage.Store, error) {
	return openStore(filePath, false)
}

// NewMemoryStore creates an in-memory vector store for testing.
func NewMemoryStore() (storage.Store, error) {
	return openStore("", true)
}

func openStore(filePath string, inMemory bool) (*Store, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		// Ensure directory exists
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:     db,
		logger: slog.Default().With("component", "badger-store"),
	}, nil
}

// Initialize prepares the store for use. The database is opened by the
// constructor, so this only verifies the handle is still usable.
func (s *Store) Initialize(ctx context.Context) error {
	if s.db.IsClosed() {
		return storage.ErrStorageClosed
	}
	return nil
}

// HealthCheck reports whether the store is usable.
func (s *Store) HealthCheck(ctx context.Context) bool {
	return !s.db.IsClosed()
}

// Close closes the BadgerDB database.
func (s *Store) Close() error {
	return s.db.Close()
}

// WithTx executes a function within a BadgerDB transaction.
// If isWrite is true, creates a read-write transaction.
// The transaction is automatically discarded if fn returns an error.
func (s *Store) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := s.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}
