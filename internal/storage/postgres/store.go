package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/tesseract-hub/listing-service/internal/models"
)

// Store is the Postgres-backed implementation of storage.Storage.
type Store struct {
	db *gorm.DB
}

// NewStore creates a Postgres store and migrates the schema.
func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Favorite{},
		&models.Inquiry{},
		&models.SearchHistory{},
		&models.Wave{},
		&models.CustomerWavePermission{},
		&models.CustomerActivity{},
		&models.CustomerPoints{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Ping checks the underlying database connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
