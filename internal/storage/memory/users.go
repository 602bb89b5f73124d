package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tesseract-hub/listing-service/internal/models"
	"github.com/tesseract-hub/listing-service/internal/storage"
)

// GetUser retrieves a user by id. Returns (nil, nil) when absent.
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		return copyUser(u), nil
	}
	return nil, nil
}

// GetUserByUsername retrieves a user by username. Returns (nil, nil) when absent.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

// GetUserByEmail retrieves a user by email. Returns (nil, nil) when absent.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

// CreateUser inserts a user, assigning id, role and timestamps when unset.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = copyUser(user)
	return nil
}

// UpdateUser saves a user. Returns ErrNotFound for an unknown id.
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[user.ID]
	if !ok {
		return storage.ErrNotFound
	}
	user.CreatedAt = existing.CreatedAt
	s.users[user.ID] = copyUser(user)
	return nil
}

// ListUsers returns all users, newest first.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, *copyUser(u))
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

// UpdateUsersWithZeroWaveBalance resets user-role accounts with a zero wave
// balance back to the default allowance and returns how many were changed.
func (s *Store) UpdateUsersWithZeroWaveBalance(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var changed int64
	for _, u := range s.users {
		if u.Role == models.RoleUser && u.WaveBalance == 0 {
			u.WaveBalance = models.DefaultWaveBalance
			changed++
		}
	}
	return changed, nil
}
