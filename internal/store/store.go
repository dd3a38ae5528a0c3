// Package store is the persistent entity store for the board hierarchy.
// It wraps a sqlite database behind gorm and exposes per-entity lookup
// helpers that operate on a *gorm.DB so they compose inside transactions.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pmckit/pmboard/internal/domain"
)

// Store wraps the database connection.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the database at path and migrates the
// five entity tables.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return newStore(db)
}

// OpenInMemory opens a private in-memory database, used by tests. The
// connection pool is pinned to a single connection so every query sees
// the same memory database.
func OpenInMemory() (*Store, error) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return newStore(db)
}

func newStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(
		&domain.Project{},
		&domain.Category{},
		&domain.SubCategory{},
		&domain.Task{},
		&domain.TaskHistory{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

// DB returns the underlying handle for read-only queries outside a
// transaction.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Tx runs fn inside a single transaction. Every multi-step mutation in the
// services goes through here: either all steps commit or none do.
func (s *Store) Tx(op string, fn func(tx *gorm.DB) error) error {
	if err := s.db.Transaction(fn); err != nil {
		// Domain errors pass through unchanged so callers can match them.
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidFormat) {
			return err
		}
		return &domain.TxError{Op: op, Err: err}
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Counts holds per-table row counts, used by the backup service and tests.
type Counts struct {
	Projects      int64
	Categories    int64
	SubCategories int64
	Tasks         int64
	TaskHistory   int64
}

// CountAll returns the row count of every table.
func CountAll(db *gorm.DB) (Counts, error) {
	var c Counts
	for _, q := range []struct {
		model any
		dst   *int64
	}{
		{&domain.Project{}, &c.Projects},
		{&domain.Category{}, &c.Categories},
		{&domain.SubCategory{}, &c.SubCategories},
		{&domain.Task{}, &c.Tasks},
		{&domain.TaskHistory{}, &c.TaskHistory},
	} {
		if err := db.Model(q.model).Count(q.dst).Error; err != nil {
			return c, err
		}
	}
	return c, nil
}

// notFound maps gorm's record-not-found onto the domain sentinel.
func notFound(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.StoreError{Op: "get", Entity: entity, ID: id, Err: domain.ErrNotFound}
	}
	return err
}
