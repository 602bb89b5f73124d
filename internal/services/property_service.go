package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/listing-service/internal/cache"
	"github.com/tesseract-hub/listing-service/internal/events"
	"github.com/tesseract-hub/listing-service/internal/models"
	"github.com/tesseract-hub/listing-service/internal/storage"
)

// PropertyService handles listing business logic on top of the storage
// facade: search-history capture, featured-strip caching and lifecycle
// events. Cache and publisher may be nil; both degrade to no-ops.
type PropertyService struct {
	store     storage.Storage
	cache     *cache.Client
	publisher *events.Publisher
	logger    *logrus.Logger
}

// NewPropertyService creates a new property service.
func NewPropertyService(store storage.Storage, cacheClient *cache.Client, publisher *events.Publisher, logger *logrus.Logger) *PropertyService {
	return &PropertyService{
		store:     store,
		cache:     cacheClient,
		publisher: publisher,
		logger:    logger,
	}
}

// List returns filtered properties. When a known user ran a text search,
// the search is appended to their history; history failures never fail the
// listing call.
func (s *PropertyService) List(ctx context.Context, filters models.PropertyFilters, userID string) ([]models.PropertyWithAgent, error) {
	results, err := s.store.GetProperties(ctx, filters)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list properties")
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}

	if filters.Search != "" && userID != "" {
		entry := &models.SearchHistory{
			UserID: &userID,
			Query:  filters.Search,
			Filters: models.JSONMap{
				"type":         filters.Type,
				"listing_type": filters.ListingType,
				"city":         filters.City,
				"country":      filters.Country,
			},
			Results: models.JSONMap{"count": len(results)},
		}
		if err := s.store.AddSearchHistory(ctx, entry); err != nil {
			s.logger.WithError(err).Warn("Failed to record search history")
		}
	}

	return results, nil
}

// Get returns one property, bumping its view counter when trackView is set.
// Returns (nil, nil) when the property does not exist.
func (s *PropertyService) Get(ctx context.Context, id string, trackView bool) (*models.PropertyWithAgent, error) {
	prop, err := s.store.GetProperty(ctx, id)
	if err != nil {
		s.logger.WithError(err).WithField("property_id", id).Error("Failed to get property")
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	if prop == nil {
		return nil, nil
	}
	if trackView {
		if err := s.store.IncrementPropertyViews(ctx, id); err != nil {
			s.logger.WithError(err).WithField("property_id", id).Warn("Failed to increment views")
		} else {
			prop.Views++
		}
	}
	return prop, nil
}

// Featured returns the featured strip, cached for a few minutes.
func (s *PropertyService) Featured(ctx context.Context) ([]models.Property, error) {
	var cached []models.Property
	hit, err := s.cache.GetJSON(ctx, cache.FeaturedPropertiesKey, &cached)
	if err != nil {
		s.logger.WithError(err).Warn("Featured cache read failed")
	}
	if hit {
		return cached, nil
	}

	props, err := s.store.GetFeaturedProperties(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get featured properties")
		return nil, fmt.Errorf("failed to get featured properties: %w", err)
	}
	if err := s.cache.SetJSON(ctx, cache.FeaturedPropertiesKey, props, cache.FeaturedTTL); err != nil {
		s.logger.WithError(err).Warn("Featured cache write failed")
	}
	return props, nil
}

// Create inserts a property. Wave quota is enforced by the store inside the
// write; a quota failure propagates with no property written.
func (s *PropertyService) Create(ctx context.Context, p *models.Property) error {
	if err := s.store.CreateProperty(ctx, p); err != nil {
		if _, ok := storage.IsQuotaExceeded(err); ok {
			return err
		}
		s.logger.WithError(err).Error("Failed to create property")
		return fmt.Errorf("failed to create property: %w", err)
	}

	s.invalidateFeatured(ctx)
	s.publisher.Publish(events.SubjectPropertyCreated, events.PropertyEvent{
		EventType:  "property.created",
		PropertyID: p.ID,
		AgentID:    p.AgentID,
		Title:      p.Title,
		Timestamp:  time.Now(),
	})
	s.logger.WithFields(logrus.Fields{
		"property_id": p.ID,
		"agent_id":    p.AgentID,
	}).Info("Property created")
	return nil
}

// Update saves a property, enforcing wave quota on wave changes.
func (s *PropertyService) Update(ctx context.Context, p *models.Property) error {
	if err := s.store.UpdateProperty(ctx, p); err != nil {
		if _, ok := storage.IsQuotaExceeded(err); ok {
			return err
		}
		if err == storage.ErrNotFound {
			return err
		}
		s.logger.WithError(err).WithField("property_id", p.ID).Error("Failed to update property")
		return fmt.Errorf("failed to update property: %w", err)
	}

	s.invalidateFeatured(ctx)
	s.publisher.Publish(events.SubjectPropertyUpdated, events.PropertyEvent{
		EventType:  "property.updated",
		PropertyID: p.ID,
		AgentID:    p.AgentID,
		Title:      p.Title,
		Timestamp:  time.Now(),
	})
	return nil
}

// Delete removes one property.
func (s *PropertyService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteProperty(ctx, id); err != nil {
		if err == storage.ErrNotFound {
			return err
		}
		s.logger.WithError(err).WithField("property_id", id).Error("Failed to delete property")
		return fmt.Errorf("failed to delete property: %w", err)
	}

	s.invalidateFeatured(ctx)
	s.publisher.Publish(events.SubjectPropertyDeleted, events.PropertyEvent{
		EventType:  "property.deleted",
		PropertyID: id,
		Timestamp:  time.Now(),
	})
	return nil
}

// ClearAll atomically wipes every property and dependent row. Returns the
// number of properties removed.
func (s *PropertyService) ClearAll(ctx context.Context) (int64, error) {
	count, err := s.store.ClearAllProperties(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to clear properties")
		return 0, fmt.Errorf("failed to clear properties: %w", err)
	}

	s.invalidateFeatured(ctx)
	s.publisher.Publish(events.SubjectPropertiesClear, events.PropertyEvent{
		EventType: "property.cleared",
		Count:     count,
		Timestamp: time.Now(),
	})
	s.logger.WithField("count", count).Info("Cleared all properties")
	return count, nil
}

func (s *PropertyService) invalidateFeatured(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.FeaturedPropertiesKey); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate featured cache")
	}
}
