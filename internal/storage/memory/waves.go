package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

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
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *wave
	s.waves[wave.ID] = &c
	return nil
}

// GetWave retrieves a wave by id. Returns (nil, nil) when absent.
func (s *Store) GetWave(ctx context.Context, id string) (*models.Wave, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if w, ok := s.waves[id]; ok {
		c := *w
		return &c, nil
	}
	return nil, nil
}

// GetWaves lists waves, newest first, optionally only active ones.
func (s *Store) GetWaves(ctx context.Context, activeOnly bool) ([]models.Wave, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	waves := make([]models.Wave, 0, len(s.waves))
	for _, w := range s.waves {
		if activeOnly && !w.IsActive {
			continue
		}
		waves = append(waves, *w)
	}
	sort.Slice(waves, func(i, j int) bool {
		return waves[i].CreatedAt.After(waves[j].CreatedAt)
	})
	return waves, nil
}

// UpdateWave saves a wave. Returns ErrNotFound for an unknown id.
func (s *Store) UpdateWave(ctx context.Context, wave *models.Wave) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.waves[wave.ID]
	if !ok {
		return storage.ErrNotFound
	}
	wave.CreatedAt = existing.CreatedAt
	wave.UpdatedAt = time.Now()
	c := *wave
	s.waves[wave.ID] = &c
	return nil
}

// DeleteWave soft-deletes a wave by flipping it inactive.
func (s *Store) DeleteWave(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.waves[id]
	if !ok {
		return storage.ErrNotFound
	}
	w.IsActive = false
	w.UpdatedAt = time.Now()
	return nil
}

// GrantWavePermission upserts a per-wave allowance for a user.
func (s *Store) GrantWavePermission(ctx context.Context, perm *models.CustomerWavePermission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.wavePermissions {
		if existing.UserID == perm.UserID && existing.WaveID == perm.WaveID {
			existing.MaxProperties = perm.MaxProperties
			existing.GrantedBy = perm.GrantedBy
			*perm = *existing
			return nil
		}
	}
	if perm.ID == "" {
		perm.ID = uuid.NewString()
	}
	if perm.CreatedAt.IsZero() {
		perm.CreatedAt = time.Now()
	}
	c := *perm
	s.wavePermissions[perm.ID] = &c
	return nil
}

// GetWavePermissions lists a user's per-wave allowances.
func (s *Store) GetWavePermissions(ctx context.Context, userID string) ([]models.CustomerWavePermission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	perms := make([]models.CustomerWavePermission, 0)
	for _, p := range s.wavePermissions {
		if p.UserID == userID {
			perms = append(perms, *p)
		}
	}
	sort.Slice(perms, func(i, j int) bool {
		return perms[i].CreatedAt.After(perms[j].CreatedAt)
	})
	return perms, nil
}

// RevokeWavePermission removes a user's allowance for one wave.
func (s *Store) RevokeWavePermission(ctx context.Context, userID, waveID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.wavePermissions {
		if p.UserID == userID && p.WaveID == waveID {
			delete(s.wavePermissions, id)
			return nil
		}
	}
	return storage.ErrNotFound
}
