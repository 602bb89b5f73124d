package storage

import (
	"context"

	"github.com/tesseract-hub/listing-service/internal/models"
)

// Storage is the data-access facade the rest of the service is written
// against. Two implementations exist: a Postgres-backed store and an
// in-memory store seeded with demo fixtures. Callers must not be able to
// tell them apart: every method returns the same values and errors for
// equivalent state on either backend.
//
// Single-entity getters return (nil, nil) when the record is absent;
// mutations of a missing record return ErrNotFound.
type Storage interface {
	// Users
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)
	// UpdateUsersWithZeroWaveBalance resets the wave balance of every
	// user-role account currently at 0 back to the default and returns how
	// many rows changed.
	UpdateUsersWithZeroWaveBalance(ctx context.Context) (int64, error)

	// Quota. Usage is always derived from live property rows; there is no
	// separately maintained counter to drift out of sync.
	GetUserWaveUsage(ctx context.Context, userID string) (int64, error)
	GetUserRemainingWaves(ctx context.Context, userID string) (int64, error)
	// ValidateWaveAssignment returns nil when the assignment is allowed and
	// *QuotaExceededError when it is not. Clearing an assignment (nil, empty
	// or sentinel wave) is always allowed, as is any assignment by an
	// admin or super_admin.
	ValidateWaveAssignment(ctx context.Context, userID string, waveID *string) error

	// Properties
	GetProperties(ctx context.Context, filters models.PropertyFilters) ([]models.PropertyWithAgent, error)
	GetProperty(ctx context.Context, id string) (*models.PropertyWithAgent, error)
	GetFeaturedProperties(ctx context.Context) ([]models.Property, error)
	CreateProperty(ctx context.Context, property *models.Property) error
	UpdateProperty(ctx context.Context, property *models.Property) error
	DeleteProperty(ctx context.Context, id string) error
	IncrementPropertyViews(ctx context.Context, id string) error
	// ClearAllProperties atomically removes every property together with all
	// favorites, inquiries and search history, and returns the number of
	// properties removed.
	ClearAllProperties(ctx context.Context) (int64, error)

	// Favorites
	AddFavorite(ctx context.Context, userID, propertyID string) (*models.Favorite, error)
	RemoveFavorite(ctx context.Context, userID, propertyID string) error
	GetFavorites(ctx context.Context, userID string) ([]models.Property, error)
	IsFavorite(ctx context.Context, userID, propertyID string) (bool, error)

	// Inquiries
	CreateInquiry(ctx context.Context, inquiry *models.Inquiry) error
	GetPropertyInquiries(ctx context.Context, propertyID string) ([]models.Inquiry, error)
	UpdateInquiryStatus(ctx context.Context, id, status string) error

	// Search history
	AddSearchHistory(ctx context.Context, entry *models.SearchHistory) error
	// GetSearchHistory returns the user's most recent entries, newest first.
	// A non-positive limit falls back to the default cap.
	GetSearchHistory(ctx context.Context, userID string, limit int) ([]models.SearchHistory, error)

	// Waves
	CreateWave(ctx context.Context, wave *models.Wave) error
	GetWave(ctx context.Context, id string) (*models.Wave, error)
	GetWaves(ctx context.Context, activeOnly bool) ([]models.Wave, error)
	UpdateWave(ctx context.Context, wave *models.Wave) error
	// DeleteWave soft-deletes: the wave stays addressable but inactive.
	DeleteWave(ctx context.Context, id string) error
	GrantWavePermission(ctx context.Context, perm *models.CustomerWavePermission) error
	GetWavePermissions(ctx context.Context, userID string) ([]models.CustomerWavePermission, error)
	RevokeWavePermission(ctx context.Context, userID, waveID string) error

	// Activity & points
	AddCustomerActivity(ctx context.Context, activity *models.CustomerActivity) error
	GetCustomerPoints(ctx context.Context, userID string) (*models.CustomerPoints, error)
	GetCustomerAnalytics(ctx context.Context, userID string) (*models.CustomerAnalytics, error)

	Ping(ctx context.Context) error
	Close() error
}

// DefaultSearchHistoryLimit bounds search-history retrieval when the caller
// does not pass an explicit limit.
const DefaultSearchHistoryLimit = 20
