package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tesseract-hub/listing-service/internal/models"
	"github.com/tesseract-hub/listing-service/internal/storage"
)

func normalizeWaveID(p *models.Property) {
	if p.WaveID != nil && (*p.WaveID == "" || *p.WaveID == models.NoWaveSentinel) {
		p.WaveID = nil
	}
}

// priceValue parses the decimal-as-string price for numeric comparison.
func priceValue(p *models.Property) (float64, bool) {
	v, err := strconv.ParseFloat(p.Price, 64)
	return v, err == nil
}

func matchesFilters(p *models.Property, f models.PropertyFilters) bool {
	if p.Status != "active" {
		return false
	}
	if f.Type != "" && p.Type != f.Type {
		return false
	}
	if f.ListingType != "" && p.ListingType != f.ListingType {
		return false
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price, ok := priceValue(p)
		if !ok {
			return false
		}
		if f.MinPrice != nil && price < *f.MinPrice {
			return false
		}
		if f.MaxPrice != nil && price > *f.MaxPrice {
			return false
		}
	}
	if f.MinBedrooms != nil && p.Bedrooms < *f.MinBedrooms {
		return false
	}
	if f.MinBathrooms != nil && p.Bathrooms < *f.MinBathrooms {
		return false
	}
	if f.City != "" && !strings.Contains(strings.ToLower(p.City), strings.ToLower(f.City)) {
		return false
	}
	if f.Country != "" && p.Country != f.Country {
		return false
	}
	if f.Language != "" && p.Language != f.Language {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Title), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) &&
			!strings.Contains(strings.ToLower(p.Address), term) {
			return false
		}
	}
	return true
}

func sortProperties(props []*models.Property, f models.PropertyFilters) {
	asc := f.SortOrder == "asc"
	less := func(i, j *models.Property) bool {
		switch f.SortBy {
		case "price":
			pi, _ := priceValue(i)
			pj, _ := priceValue(j)
			return pi < pj
		case "views":
			return i.Views < j.Views
		default:
			return i.CreatedAt.Before(j.CreatedAt)
		}
	}
	sort.SliceStable(props, func(a, b int) bool {
		if asc {
			return less(props[a], props[b])
		}
		return less(props[b], props[a])
	})
}

// GetProperties returns active properties matching the filters, each
// enriched with the owning agent and the latest inquiry that has a phone.
func (s *Store) GetProperties(ctx context.Context, f models.PropertyFilters) ([]models.PropertyWithAgent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*models.Property, 0)
	for _, p := range s.properties {
		if matchesFilters(p, f) {
			matched = append(matched, p)
		}
	}
	sortProperties(matched, f)

	if f.Offset > 0 {
		if f.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[f.Offset:]
		}
	}
	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}

	results := make([]models.PropertyWithAgent, 0, len(matched))
	for _, p := range matched {
		results = append(results, s.enrichPropertyLocked(p))
	}
	return results, nil
}

// enrichPropertyLocked attaches the agent record and the single most recent
// inquiry with a non-empty phone. Caller holds the store lock.
func (s *Store) enrichPropertyLocked(p *models.Property) models.PropertyWithAgent {
	result := models.PropertyWithAgent{Property: *copyProperty(p)}
	if agent, ok := s.users[p.AgentID]; ok {
		result.Agent = copyUser(agent)
	}
	var latest *models.Inquiry
	for _, inq := range s.inquiries {
		if inq.PropertyID != p.ID || inq.Phone == "" {
			continue
		}
		if latest == nil || inq.CreatedAt.After(latest.CreatedAt) {
			latest = inq
		}
	}
	if latest != nil {
		result.CustomerContact = copyInquiry(latest)
	}
	return result
}

// GetProperty retrieves one property with agent and latest-contact
// enrichment. Returns (nil, nil) when absent.
func (s *Store) GetProperty(ctx context.Context, id string) (*models.PropertyWithAgent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.properties[id]
	if !ok {
		return nil, nil
	}
	enriched := s.enrichPropertyLocked(p)
	return &enriched, nil
}

// GetFeaturedProperties returns the six newest featured active listings.
func (s *Store) GetFeaturedProperties(ctx context.Context) ([]models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	featured := make([]models.Property, 0)
	for _, p := range s.properties {
		if p.IsFeatured && p.Status == "active" {
			featured = append(featured, *copyProperty(p))
		}
	}
	sort.Slice(featured, func(i, j int) bool {
		return featured[i].CreatedAt.After(featured[j].CreatedAt)
	})
	if len(featured) > 6 {
		featured = featured[:6]
	}
	return featured, nil
}

// CreateProperty inserts a property. A real wave assignment is validated
// against the agent's quota under the store lock; on failure nothing is
// written.
func (s *Store) CreateProperty(ctx context.Context, p *models.Property) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = "active"
	}
	normalizeWaveID(p)

	s.mu.Lock()
	defer s.mu.Unlock()
	if p.HasWave() && p.AgentID != "" {
		if err := s.validateWaveAssignmentLocked(p.AgentID); err != nil {
			return err
		}
	}
	s.properties[p.ID] = copyProperty(p)
	return nil
}

// UpdateProperty saves a property. Setting or changing the wave re-runs the
// quota check; a quota failure leaves the stored property untouched.
func (s *Store) UpdateProperty(ctx context.Context, p *models.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.properties[p.ID]
	if !ok {
		return storage.ErrNotFound
	}

	normalizeWaveID(p)
	waveChanged := p.HasWave() && (existing.WaveID == nil || *existing.WaveID != *p.WaveID)
	if waveChanged && p.AgentID != "" {
		if err := s.validateWaveAssignmentLocked(p.AgentID); err != nil {
			return err
		}
	}

	p.CreatedAt = existing.CreatedAt
	// Views only move through IncrementPropertyViews.
	p.Views = existing.Views
	p.UpdatedAt = time.Now()
	s.properties[p.ID] = copyProperty(p)
	return nil
}

// DeleteProperty removes one property. Returns ErrNotFound for unknown ids.
func (s *Store) DeleteProperty(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.properties[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.properties, id)
	return nil
}

// IncrementPropertyViews bumps the view counter under the store lock so
// concurrent views never lose increments.
func (s *Store) IncrementPropertyViews(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.properties[id]
	if !ok {
		return storage.ErrNotFound
	}
	p.Views++
	return nil
}

// ClearAllProperties removes every property and all dependent rows while
// holding the lock for the whole sequence, so no reader observes a
// half-cleared state. Returns the property count removed.
func (s *Store) ClearAllProperties(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := int64(len(s.properties))
	s.favorites = make(map[string]*models.Favorite)
	s.inquiries = make(map[string]*models.Inquiry)
	s.searchHistory = make(map[string]*models.SearchHistory)
	s.properties = make(map[string]*models.Property)
	return count, nil
}
