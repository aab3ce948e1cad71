// Package pgstore implements the store repositories on PostgreSQL through
// gorm, for deployments where several app instances share one database.
package pgstore

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/arlab/arlab/internal/store"
)

const sequenceName = "arlab_global_sequence"

// Store owns the gorm handle and hands out repositories.
type Store struct {
	db *gorm.DB
}

// Open connects to the Postgres database at dsn and migrates the schema.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		s.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return s, nil
}

// New wraps an existing gorm handle. The caller owns migration via Migrate.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the tables this package owns.
func (s *Store) Migrate(ctx context.Context) error {
	return s.migrate(ctx)
}

func (s *Store) migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(&progressRow{}, &stepRow{}, &attemptRow{}, &llmEventRow{}); err != nil {
		return err
	}
	return db.Exec("CREATE SEQUENCE IF NOT EXISTS " + sequenceName).Error
}

// DB returns the underlying gorm handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close closes the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ProgressRepo returns a store.ProgressRepo backed by Postgres.
func (s *Store) ProgressRepo() store.ProgressRepo {
	return &progressRepo{db: s.db}
}

// AttemptRepo returns a store.AttemptRepo backed by Postgres.
func (s *Store) AttemptRepo() store.AttemptRepo {
	return &attemptRepo{db: s.db}
}

// EventRepo returns a store.EventRepo backed by Postgres.
func (s *Store) EventRepo() store.EventRepo {
	return &eventRepo{db: s.db}
}

func nextSequence(ctx context.Context, db *gorm.DB) (int64, error) {
	var seq int64
	if err := db.WithContext(ctx).Raw("SELECT nextval(?)", sequenceName).Scan(&seq).Error; err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
