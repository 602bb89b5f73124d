package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/listing-service/internal/models"
	"github.com/tesseract-hub/listing-service/internal/storage"
)

// WaveService manages promotional waves, per-wave permissions and the
// per-user quota summary shown in the admin dashboard.
type WaveService struct {
	store  storage.Storage
	logger *logrus.Logger
}

// NewWaveService creates a new wave service.
func NewWaveService(store storage.Storage, logger *logrus.Logger) *WaveService {
	return &WaveService{
		store:  store,
		logger: logger,
	}
}

// Create inserts a wave.
func (s *WaveService) Create(ctx context.Context, wave *models.Wave) error {
	if wave.Name == "" {
		return NewValidationError("name", "wave name is required")
	}
	if err := s.store.CreateWave(ctx, wave); err != nil {
		s.logger.WithError(err).Error("Failed to create wave")
		return fmt.Errorf("failed to create wave: %w", err)
	}
	s.logger.WithField("wave_id", wave.ID).Info("Wave created")
	return nil
}

// Get returns a wave by id, or (nil, nil) when absent.
func (s *WaveService) Get(ctx context.Context, id string) (*models.Wave, error) {
	return s.store.GetWave(ctx, id)
}

// List returns waves, optionally only active ones.
func (s *WaveService) List(ctx context.Context, activeOnly bool) ([]models.Wave, error) {
	return s.store.GetWaves(ctx, activeOnly)
}

// Update saves a wave.
func (s *WaveService) Update(ctx context.Context, wave *models.Wave) error {
	if err := s.store.UpdateWave(ctx, wave); err != nil {
		if err == storage.ErrNotFound {
			return err
		}
		s.logger.WithError(err).WithField("wave_id", wave.ID).Error("Failed to update wave")
		return fmt.Errorf("failed to update wave: %w", err)
	}
	return nil
}

// Delete soft-deletes a wave.
func (s *WaveService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteWave(ctx, id); err != nil {
		if err == storage.ErrNotFound {
			return err
		}
		s.logger.WithError(err).WithField("wave_id", id).Error("Failed to delete wave")
		return fmt.Errorf("failed to delete wave: %w", err)
	}
	return nil
}

// Quota returns the user's wave allowance summary, or (nil, nil) for an
// unknown user.
func (s *WaveService) Quota(ctx context.Context, userID string) (*models.WaveQuota, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, nil
	}
	usage, err := s.store.GetUserWaveUsage(ctx, userID)
	if err != nil {
		return nil, err
	}
	remaining, err := s.store.GetUserRemainingWaves(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.WaveQuota{
		UserID:      userID,
		WaveBalance: user.WaveBalance,
		Usage:       usage,
		Remaining:   remaining,
	}, nil
}

// ValidateAssignment checks whether the user may take one more wave slot.
func (s *WaveService) ValidateAssignment(ctx context.Context, userID string, waveID *string) error {
	return s.store.ValidateWaveAssignment(ctx, userID, waveID)
}

// GrantPermission upserts a per-wave allowance.
func (s *WaveService) GrantPermission(ctx context.Context, perm *models.CustomerWavePermission) error {
	if err := s.store.GrantWavePermission(ctx, perm); err != nil {
		s.logger.WithError(err).Error("Failed to grant wave permission")
		return fmt.Errorf("failed to grant wave permission: %w", err)
	}
	return nil
}

// Permissions lists a user's per-wave allowances.
func (s *WaveService) Permissions(ctx context.Context, userID string) ([]models.CustomerWavePermission, error) {
	return s.store.GetWavePermissions(ctx, userID)
}

// RevokePermission removes a user's allowance for one wave.
func (s *WaveService) RevokePermission(ctx context.Context, userID, waveID string) error {
	if err := s.store.RevokeWavePermission(ctx, userID, waveID); err != nil {
		if err == storage.ErrNotFound {
			return err
		}
		s.logger.WithError(err).Error("Failed to revoke wave permission")
		return fmt.Errorf("failed to revoke wave permission: %w", err)
	}
	return nil
}
