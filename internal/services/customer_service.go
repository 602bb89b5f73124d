package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/listing-service/internal/events"
	"github.com/tesseract-hub/listing-service/internal/models"
	"github.com/tesseract-hub/listing-service/internal/storage"
)

// CustomerService handles customer engagement: activity points, favorites,
// inquiries and search history.
type CustomerService struct {
	store     storage.Storage
	publisher *events.Publisher
	logger    *logrus.Logger
}

// NewCustomerService creates a new customer service.
func NewCustomerService(store storage.Storage, publisher *events.Publisher, logger *logrus.Logger) *CustomerService {
	return &CustomerService{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// RecordActivity appends an activity and updates the user's points and
// level in one atomic store operation.
func (s *CustomerService) RecordActivity(ctx context.Context, activity *models.CustomerActivity) error {
	if activity.UserID == "" {
		return NewValidationError("user_id", "user id is required")
	}
	if activity.ActivityType == "" {
		return NewValidationError("activity_type", "activity type is required")
	}
	if activity.Points < 0 {
		return NewValidationError("points", "points must not be negative")
	}

	if err := s.store.AddCustomerActivity(ctx, activity); err != nil {
		s.logger.WithError(err).WithField("user_id", activity.UserID).Error("Failed to record activity")
		return fmt.Errorf("failed to record activity: %w", err)
	}

	s.publisher.Publish(events.SubjectActivityRecorded, events.ActivityEvent{
		EventType:    "customer.activity",
		UserID:       activity.UserID,
		ActivityType: activity.ActivityType,
		Points:       activity.Points,
		Timestamp:    time.Now(),
	})
	return nil
}

// Points returns the user's accumulator row, or (nil, nil) before any activity.
func (s *CustomerService) Points(ctx context.Context, userID string) (*models.CustomerPoints, error) {
	points, err := s.store.GetCustomerPoints(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("Failed to get customer points")
		return nil, fmt.Errorf("failed to get customer points: %w", err)
	}
	return points, nil
}

// Analytics returns the user's aggregated activity breakdowns.
func (s *CustomerService) Analytics(ctx context.Context, userID string) (*models.CustomerAnalytics, error) {
	analytics, err := s.store.GetCustomerAnalytics(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("Failed to get customer analytics")
		return nil, fmt.Errorf("failed to get customer analytics: %w", err)
	}
	return analytics, nil
}

// AddFavorite bookmarks a property for the user. Idempotent per pair.
func (s *CustomerService) AddFavorite(ctx context.Context, userID, propertyID string) (*models.Favorite, error) {
	fav, err := s.store.AddFavorite(ctx, userID, propertyID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to add favorite")
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}
	return fav, nil
}

// RemoveFavorite removes a bookmark.
func (s *CustomerService) RemoveFavorite(ctx context.Context, userID, propertyID string) error {
	if err := s.store.RemoveFavorite(ctx, userID, propertyID); err != nil {
		if err == storage.ErrNotFound {
			return err
		}
		s.logger.WithError(err).Error("Failed to remove favorite")
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// Favorites lists the user's bookmarked properties.
func (s *CustomerService) Favorites(ctx context.Context, userID string) ([]models.Property, error) {
	props, err := s.store.GetFavorites(ctx, userID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list favorites")
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return props, nil
}

// CreateInquiry leaves a contact request on a property.
func (s *CustomerService) CreateInquiry(ctx context.Context, inquiry *models.Inquiry) error {
	if inquiry.PropertyID == "" {
		return NewValidationError("property_id", "property id is required")
	}
	if inquiry.Name == "" {
		return NewValidationError("name", "name is required")
	}
	if err := s.store.CreateInquiry(ctx, inquiry); err != nil {
		s.logger.WithError(err).Error("Failed to create inquiry")
		return fmt.Errorf("failed to create inquiry: %w", err)
	}
	return nil
}

// Inquiries lists a property's inquiries, newest first.
func (s *CustomerService) Inquiries(ctx context.Context, propertyID string) ([]models.Inquiry, error) {
	inquiries, err := s.store.GetPropertyInquiries(ctx, propertyID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list inquiries")
		return nil, fmt.Errorf("failed to list inquiries: %w", err)
	}
	return inquiries, nil
}

// UpdateInquiryStatus moves an inquiry to a new status.
func (s *CustomerService) UpdateInquiryStatus(ctx context.Context, id, status string) error {
	if status == "" {
		return NewValidationError("status", "status is required")
	}
	if err := s.store.UpdateInquiryStatus(ctx, id, status); err != nil {
		if err == storage.ErrNotFound {
			return err
		}
		s.logger.WithError(err).Error("Failed to update inquiry status")
		return fmt.Errorf("failed to update inquiry status: %w", err)
	}
	return nil
}

// SearchHistory returns the user's most recent searches.
func (s *CustomerService) SearchHistory(ctx context.Context, userID string, limit int) ([]models.SearchHistory, error) {
	entries, err := s.store.GetSearchHistory(ctx, userID, limit)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get search history")
		return nil, fmt.Errorf("failed to get search history: %w", err)
	}
	return entries, nil
}
