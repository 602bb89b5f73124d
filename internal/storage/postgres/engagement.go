package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/tesseract-hub/listing-service/internal/models"
	"github.com/tesseract-hub/listing-service/internal/storage"
)

// AddFavorite bookmarks a property for a user. Adding an existing pair is
// idempotent and returns the stored favorite. The insert rides on the unique
// index: concurrent adds of the same pair cannot both insert, and the loser
// reads back the winner's row instead of surfacing a duplicate-key error.
func (s *Store) AddFavorite(ctx context.Context, userID, propertyID string) (*models.Favorite, error) {
	fav := models.Favorite{
		ID:         uuid.NewString(),
		UserID:     userID,
		PropertyID: propertyID,
		CreatedAt:  time.Now(),
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "property_id"}},
			DoNothing: true,
		}).
		Create(&fav)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to add favorite: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var existing models.Favorite
		if err := s.db.WithContext(ctx).First(&existing, "user_id = ? AND property_id = ?", userID, propertyID).Error; err != nil {
			return nil, fmt.Errorf("failed to load favorite: %w", err)
		}
		return &existing, nil
	}
	return &fav, nil
}

// RemoveFavorite deletes the (user, property) pair.
func (s *Store) RemoveFavorite(ctx context.Context, userID, propertyID string) error {
	res := s.db.WithContext(ctx).Delete(&models.Favorite{}, "user_id = ? AND property_id = ?", userID, propertyID)
	if res.Error != nil {
		return fmt.Errorf("failed to remove favorite: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetFavorites returns the user's favorited properties, newest bookmark first.
func (s *Store) GetFavorites(ctx context.Context, userID string) ([]models.Property, error) {
	var props []models.Property
	err := s.db.WithContext(ctx).Table("properties").
		Select("properties.*").
		Joins("JOIN favorites ON favorites.property_id = properties.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Scan(&props).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get favorites: %w", err)
	}
	if props == nil {
		props = []models.Property{}
	}
	return props, nil
}

// IsFavorite reports whether the user has bookmarked the property.
func (s *Store) IsFavorite(ctx context.Context, userID, propertyID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return count > 0, nil
}

// CreateInquiry records a contact request against a property.
func (s *Store) CreateInquiry(ctx context.Context, inquiry *models.Inquiry) error {
	if inquiry.ID == "" {
		inquiry.ID = uuid.NewString()
	}
	if inquiry.Status == "" {
		inquiry.Status = "pending"
	}
	if inquiry.CreatedAt.IsZero() {
		inquiry.CreatedAt = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(inquiry).Error; err != nil {
		return fmt.Errorf("failed to create inquiry: %w", err)
	}
	return nil
}

// GetPropertyInquiries returns a property's inquiries, newest first.
func (s *Store) GetPropertyInquiries(ctx context.Context, propertyID string) ([]models.Inquiry, error) {
	var inquiries []models.Inquiry
	err := s.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at DESC").
		Find(&inquiries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get inquiries: %w", err)
	}
	if inquiries == nil {
		inquiries = []models.Inquiry{}
	}
	return inquiries, nil
}

// UpdateInquiryStatus moves an inquiry to a new status.
func (s *Store) UpdateInquiryStatus(ctx context.Context, id, status string) error {
	res := s.db.WithContext(ctx).Model(&models.Inquiry{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update inquiry status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// AddSearchHistory appends one search record.
func (s *Store) AddSearchHistory(ctx context.Context, entry *models.SearchHistory) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to add search history: %w", err)
	}
	return nil
}

// GetSearchHistory returns the user's most recent searches, newest first.
func (s *Store) GetSearchHistory(ctx context.Context, userID string, limit int) ([]models.SearchHistory, error) {
	if limit <= 0 {
		limit = storage.DefaultSearchHistoryLimit
	}
	var entries []models.SearchHistory
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get search history: %w", err)
	}
	if entries == nil {
		entries = []models.SearchHistory{}
	}
	return entries, nil
}
