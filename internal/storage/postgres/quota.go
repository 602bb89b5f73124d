package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tesseract-hub/listing-service/internal/models"
	"github.com/tesseract-hub/listing-service/internal/storage"
)

// waveUsage counts the agent's properties carrying a real wave assignment.
// The "no-wave" sentinel is excluded like a null.
func waveUsage(tx *gorm.DB, userID string) (int64, error) {
	var count int64
	err := tx.Model(&models.Property{}).
		Where("agent_id = ? AND wave_id IS NOT NULL AND wave_id <> '' AND wave_id <> ?", userID, models.NoWaveSentinel).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count wave usage: %w", err)
	}
	return count, nil
}

// GetUserWaveUsage returns the number of the user's properties currently
// tagged with a wave. Usage is derived from live property rows, never from
// a stored counter.
func (s *Store) GetUserWaveUsage(ctx context.Context, userID string) (int64, error) {
	return waveUsage(s.db.WithContext(ctx), userID)
}

// GetUserRemainingWaves returns how many more wave assignments the user may
// make. Admin roles get the unlimited sentinel; an unknown user gets 0.
func (s *Store) GetUserRemainingWaves(ctx context.Context, userID string) (int64, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, nil
	}
	if user.HasUnlimitedWaves() {
		return models.UnlimitedWaveBalance, nil
	}
	usage, err := waveUsage(s.db.WithContext(ctx), userID)
	if err != nil {
		return 0, err
	}
	remaining := int64(user.WaveBalance) - usage
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// isRealWave reports whether the pointer names an actual wave rather than
// null, empty or the sentinel.
func isRealWave(waveID *string) bool {
	return waveID != nil && *waveID != "" && *waveID != models.NoWaveSentinel
}

// ValidateWaveAssignment checks whether the user may tag one more property
// with a wave. Clearing an assignment never needs quota; admin roles are
// exempt entirely.
func (s *Store) ValidateWaveAssignment(ctx context.Context, userID string, waveID *string) error {
	if !isRealWave(waveID) {
		return nil
	}
	return validateWaveAssignment(s.db.WithContext(ctx), userID, false)
}

// validateWaveAssignment enforces the quota check. With lock set, the user
// row is locked FOR UPDATE so concurrent assignments by the same agent
// serialize on it; the caller must then be inside a transaction.
func validateWaveAssignment(tx *gorm.DB, userID string, lock bool) error {
	q := tx
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var user models.User
	if err := q.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &storage.QuotaExceededError{UserID: userID, WaveBalance: 0}
		}
		return fmt.Errorf("failed to load user for quota check: %w", err)
	}
	if user.HasUnlimitedWaves() {
		return nil
	}
	usage, err := waveUsage(tx, userID)
	if err != nil {
		return err
	}
	if int64(user.WaveBalance)-usage > 0 {
		return nil
	}
	return &storage.QuotaExceededError{UserID: userID, WaveBalance: user.WaveBalance}
}
