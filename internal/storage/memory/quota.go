package memory

import (
	"context"

	"github.com/tesseract-hub/listing-service/internal/models"
	"github.com/tesseract-hub/listing-service/internal/storage"
)

// waveUsageLocked counts the agent's properties carrying a real wave
// assignment. Caller holds the store lock.
func (s *Store) waveUsageLocked(userID string) int64 {
	var count int64
	for _, p := range s.properties {
		if p.AgentID == userID && p.HasWave() {
			count++
		}
	}
	return count
}

// GetUserWaveUsage returns the number of the user's properties currently
// tagged with a wave.
func (s *Store) GetUserWaveUsage(ctx context.Context, userID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.waveUsageLocked(userID), nil
}

// GetUserRemainingWaves returns how many more wave assignments the user may
// make. Admin roles get the unlimited sentinel; an unknown user gets 0.
func (s *Store) GetUserRemainingWaves(ctx context.Context, userID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return 0, nil
	}
	if user.HasUnlimitedWaves() {
		return models.UnlimitedWaveBalance, nil
	}
	remaining := int64(user.WaveBalance) - s.waveUsageLocked(userID)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

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
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validateWaveAssignmentLocked(userID)
}

// validateWaveAssignmentLocked enforces the quota check. Caller holds the
// store lock, which is the serialization point keeping concurrent
// assignments by the same agent from both slipping past the limit.
func (s *Store) validateWaveAssignmentLocked(userID string) error {
	user, ok := s.users[userID]
	if !ok {
		return &storage.QuotaExceededError{UserID: userID, WaveBalance: 0}
	}
	if user.HasUnlimitedWaves() {
		return nil
	}
	if int64(user.WaveBalance)-s.waveUsageLocked(userID) > 0 {
		return nil
	}
	return &storage.QuotaExceededError{UserID: userID, WaveBalance: user.WaveBalance}
}
