package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tesseract-hub/listing-service/internal/models"
	"github.com/tesseract-hub/listing-service/internal/storage"
)

// AddFavorite bookmarks a property for a user. Adding an existing pair is
// idempotent and returns the stored favorite.
func (s *Store) AddFavorite(ctx context.Context, userID, propertyID string) (*models.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.favorites {
		if f.UserID == userID && f.PropertyID == propertyID {
			c := *f
			return &c, nil
		}
	}
	fav := &models.Favorite{
		ID:         uuid.NewString(),
		UserID:     userID,
		PropertyID: propertyID,
		CreatedAt:  time.Now(),
	}
	s.favorites[fav.ID] = fav
	c := *fav
	return &c, nil
}

// RemoveFavorite deletes the (user, property) pair.
func (s *Store) RemoveFavorite(ctx context.Context, userID, propertyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, f := range s.favorites {
		if f.UserID == userID && f.PropertyID == propertyID {
			delete(s.favorites, id)
			return nil
		}
	}
	return storage.ErrNotFound
}

// GetFavorites returns the user's favorited properties, newest bookmark first.
func (s *Store) GetFavorites(ctx context.Context, userID string) ([]models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	favs := make([]*models.Favorite, 0)
	for _, f := range s.favorites {
		if f.UserID == userID {
			favs = append(favs, f)
		}
	}
	sort.Slice(favs, func(i, j int) bool {
		return favs[i].CreatedAt.After(favs[j].CreatedAt)
	})
	props := make([]models.Property, 0, len(favs))
	for _, f := range favs {
		if p, ok := s.properties[f.PropertyID]; ok {
			props = append(props, *copyProperty(p))
		}
	}
	return props, nil
}

// IsFavorite reports whether the user has bookmarked the property.
func (s *Store) IsFavorite(ctx context.Context, userID, propertyID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.favorites {
		if f.UserID == userID && f.PropertyID == propertyID {
			return true, nil
		}
	}
	return false, nil
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
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inquiries[inquiry.ID] = copyInquiry(inquiry)
	return nil
}

// GetPropertyInquiries returns a property's inquiries, newest first.
func (s *Store) GetPropertyInquiries(ctx context.Context, propertyID string) ([]models.Inquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inquiries := make([]models.Inquiry, 0)
	for _, inq := range s.inquiries {
		if inq.PropertyID == propertyID {
			inquiries = append(inquiries, *copyInquiry(inq))
		}
	}
	sort.Slice(inquiries, func(i, j int) bool {
		return inquiries[i].CreatedAt.After(inquiries[j].CreatedAt)
	})
	return inquiries, nil
}

// UpdateInquiryStatus moves an inquiry to a new status.
func (s *Store) UpdateInquiryStatus(ctx context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inq, ok := s.inquiries[id]
	if !ok {
		return storage.ErrNotFound
	}
	inq.Status = status
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
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *entry
	s.searchHistory[entry.ID] = &c
	return nil
}

// GetSearchHistory returns the user's most recent searches, newest first.
func (s *Store) GetSearchHistory(ctx context.Context, userID string, limit int) ([]models.SearchHistory, error) {
	if limit <= 0 {
		limit = storage.DefaultSearchHistoryLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]models.SearchHistory, 0)
	for _, e := range s.searchHistory {
		if e.UserID != nil && *e.UserID == userID {
			entries = append(entries, *e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
