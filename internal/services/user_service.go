package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/tesseract-hub/listing-service/internal/models"
	"github.com/tesseract-hub/listing-service/internal/storage"
)

const bcryptCost = 12

// UserService handles account management.
type UserService struct {
	store  storage.Storage
	logger *logrus.Logger
}

// NewUserService creates a new user service.
func NewUserService(store storage.Storage, logger *logrus.Logger) *UserService {
	return &UserService{
		store:  store,
		logger: logger,
	}
}

// Create registers an account. Username and email must be unique; the
// password is stored as a bcrypt hash.
func (s *UserService) Create(ctx context.Context, user *models.User, password string) error {
	if user.Username == "" {
		return NewValidationError("username", "username is required")
	}
	if user.Email == "" {
		return NewValidationError("email", "email is required")
	}
	if password == "" {
		return NewValidationError("password", "password is required")
	}

	existing, err := s.store.GetUserByUsername(ctx, user.Username)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return NewConflictError("user", "username already taken")
	}
	existing, err = s.store.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return NewConflictError("user", "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	if user.WaveBalance == 0 && !user.HasUnlimitedWaves() {
		user.WaveBalance = models.DefaultWaveBalance
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		s.logger.WithError(err).Error("Failed to create user")
		return fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("User created")
	return nil
}

// Authenticate verifies credentials. Returns (nil, nil) when the account is
// unknown, expired or the password does not match.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || user.IsExpired() {
		return nil, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}
	return user, nil
}

// Get returns a user by id, or (nil, nil) when absent.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

// List returns all users, newest first.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.store.ListUsers(ctx)
}

// Update saves a user.
func (s *UserService) Update(ctx context.Context, user *models.User) error {
	if err := s.store.UpdateUser(ctx, user); err != nil {
		if err == storage.ErrNotFound {
			return err
		}
		s.logger.WithError(err).WithField("user_id", user.ID).Error("Failed to update user")
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// RepairZeroWaveBalances restores the default wave allowance for user-role
// accounts whose balance dropped to zero. Returns how many were changed.
func (s *UserService) RepairZeroWaveBalances(ctx context.Context) (int64, error) {
	count, err := s.store.UpdateUsersWithZeroWaveBalance(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to repair wave balances")
		return 0, fmt.Errorf("failed to repair wave balances: %w", err)
	}
	s.logger.WithField("count", count).Info("Repaired zero wave balances")
	return count, nil
}
