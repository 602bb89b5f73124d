package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tesseract-hub/listing-service/internal/models"
	"github.com/tesseract-hub/listing-service/internal/storage"
)

// CreateWave inserts a promotional wave. Waves always start active.
func (s *Store) CreateWave(ctx context.Context, wave *models.Wave) error {
	if wave.ID == "" {
		wave.ID = uuid.NewString()
	}
	wave.IsActive = true
	now := time.Now()
	if wave.CreatedAt.IsZero() {
		wave.CreatedAt = now
	}
	wave.UpdatedAt = now
	if err := s.db.WithContext(ctx).Create(wave).Error; err != nil {
		return fmt.Errorf("failed to create wave: %w", err)
	}
	return nil
}

// GetWave retrieves a wave by id. Returns (nil, nil) when absent.
func (s *Store) GetWave(ctx context.Context, id string) (*models.Wave, error) {
	var wave models.Wave
	if err := s.db.WithContext(ctx).First(&wave, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get wave: %w", err)
	}
	return &wave, nil
}

// GetWaves lists waves, newest first, optionally only active ones.
func (s *Store) GetWaves(ctx context.Context, activeOnly bool) ([]models.Wave, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var waves []models.Wave
	if err := q.Find(&waves).Error; err != nil {
		return nil, fmt.Errorf("failed to list waves: %w", err)
	}
	if waves == nil {
		waves = []models.Wave{}
	}
	return waves, nil
}

// UpdateWave saves a wave. Returns ErrNotFound for an unknown id.
func (s *Store) UpdateWave(ctx context.Context, wave *models.Wave) error {
	var existing models.Wave
	if err := s.db.WithContext(ctx).First(&existing, "id = ?", wave.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("failed to load wave: %w", err)
	}
	wave.CreatedAt = existing.CreatedAt
	wave.UpdatedAt = time.Now()
	if err := s.db.WithContext(ctx).Save(wave).Error; err != nil {
		return fmt.Errorf("failed to update wave: %w", err)
	}
	return nil
}

// DeleteWave soft-deletes a wave by flipping it inactive. Properties keep
// their assignment; the wave just stops being offered.
func (s *Store) DeleteWave(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&models.Wave{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("failed to delete wave: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GrantWavePermission upserts a per-wave allowance for a user.
func (s *Store) GrantWavePermission(ctx context.Context, perm *models.CustomerWavePermission) error {
	var existing models.CustomerWavePermission
	err := s.db.WithContext(ctx).First(&existing, "user_id = ? AND wave_id = ?", perm.UserID, perm.WaveID).Error
	if err == nil {
		existing.MaxProperties = perm.MaxProperties
		existing.GrantedBy = perm.GrantedBy
		if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return fmt.Errorf("failed to update wave permission: %w", err)
		}
		*perm = existing
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check wave permission: %w", err)
	}

	if perm.ID == "" {
		perm.ID = uuid.NewString()
	}
	if perm.CreatedAt.IsZero() {
		perm.CreatedAt = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(perm).Error; err != nil {
		return fmt.Errorf("failed to grant wave permission: %w", err)
	}
	return nil
}

// GetWavePermissions lists a user's per-wave allowances.
func (s *Store) GetWavePermissions(ctx context.Context, userID string) ([]models.CustomerWavePermission, error) {
	var perms []models.CustomerWavePermission
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&perms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get wave permissions: %w", err)
	}
	if perms == nil {
		perms = []models.CustomerWavePermission{}
	}
	return perms, nil
}

// RevokeWavePermission removes a user's allowance for one wave.
func (s *Store) RevokeWavePermission(ctx context.Context, userID, waveID string) error {
	res := s.db.WithContext(ctx).Delete(&models.CustomerWavePermission{}, "user_id = ? AND wave_id = ?", userID, waveID)
	if res.Error != nil {
		return fmt.Errorf("failed to revoke wave permission: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
