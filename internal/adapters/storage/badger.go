// Package storage provides document store adapters.
//
// The production adapter is an embedded BadgerDB keyed blob store; an
// in-memory implementation backs tests. Both satisfy ports.DocumentStore.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/jsamuelsen/daily-reflections/internal/domain"
)

// BadgerConfig holds configuration for the Badger-backed store.
type BadgerConfig struct {
	// Path is the directory for Badger's files. Ignored when InMemory is set.
	Path string

	// InMemory disables disk persistence. Useful for tests.
	InMemory bool

	// Logger receives Badger's internal log output. Badger logging is
	// disabled when nil.
	Logger *slog.Logger
}

// BadgerStore implements ports.DocumentStore on an embedded BadgerDB.
// Puts are synchronous whole-value replaces, matching the pipeline's
// whole-document overwrite semantics.
type BadgerStore struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// NewBadgerStore opens the database and returns the store.
// The caller owns the returned store and must Close it.
func NewBadgerStore(cfg BadgerConfig) (*BadgerStore, error) {
	opts := badger.DefaultOptions(cfg.Path).
		WithInMemory(cfg.InMemory).
		WithSyncWrites(!cfg.InMemory).
		WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger at %q: %w", cfg.Path, err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &BadgerStore{
		db:     db,
		logger: logger.With(slog.String("component", "storage.BadgerStore")),
	}, nil
}

// Get implements ports.DocumentStore.
func (s *BadgerStore) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}

		value, err = item.ValueCopy(nil)

		return err
	})

	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, domain.NewNotFoundError("document", key)
		}

		return nil, domain.NewStorageError("get", key, err)
	}

	return value, nil
}

// Put implements ports.DocumentStore.
func (s *BadgerStore) Put(_ context.Context, key string, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})

	if err != nil {
		return domain.NewStorageError("put", key, err)
	}

	return nil
}

// Close releases the database. Further calls fail.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Name implements ports.HealthChecker.
func (s *BadgerStore) Name() string {
	return "document-store"
}

// Check implements ports.HealthChecker. A missing probe key is healthy;
// only transactional failures count against the store.
func (s *BadgerStore) Check(_ context.Context) error {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte("healthz"))

		return err
	})

	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return err
	}

	return nil
}
