package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tesseract-hub/listing-service/internal/models"
	"github.com/tesseract-hub/listing-service/internal/storage"
)

// normalizeWaveID folds the empty string and the "no-wave" sentinel into a
// null wave so both read paths and quota accounting see one representation.
func normalizeWaveID(p *models.Property) {
	if p.WaveID != nil && (*p.WaveID == "" || *p.WaveID == models.NoWaveSentinel) {
		p.WaveID = nil
	}
}

// GetProperties returns active properties matching the filters, each
// enriched with the owning agent and the latest inquiry that has a phone.
func (s *Store) GetProperties(ctx context.Context, f models.PropertyFilters) ([]models.PropertyWithAgent, error) {
	q := s.db.WithContext(ctx).Model(&models.Property{}).Where("status = ?", "active")

	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.ListingType != "" {
		q = q.Where("listing_type = ?", f.ListingType)
	}
	if f.MinPrice != nil {
		q = q.Where("CAST(price AS DECIMAL) >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("CAST(price AS DECIMAL) <= ?", *f.MaxPrice)
	}
	if f.MinBedrooms != nil {
		q = q.Where("bedrooms >= ?", *f.MinBedrooms)
	}
	if f.MinBathrooms != nil {
		q = q.Where("bathrooms >= ?", *f.MinBathrooms)
	}
	if f.City != "" {
		q = q.Where("LOWER(city) LIKE ?", "%"+strings.ToLower(f.City)+"%")
	}
	if f.Country != "" {
		q = q.Where("country = ?", f.Country)
	}
	if f.Language != "" {
		q = q.Where("language = ?", f.Language)
	}
	if f.Search != "" {
		term := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(address) LIKE ?", term, term, term)
	}

	q = q.Order(sortClause(f))

	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var props []models.Property
	if err := q.Find(&props).Error; err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}

	return s.enrichProperties(ctx, props)
}

// sortClause whitelists the sortable columns. Price sorts numerically even
// though it is stored as a decimal string.
func sortClause(f models.PropertyFilters) string {
	column := "created_at"
	switch f.SortBy {
	case "price":
		column = "CAST(price AS DECIMAL)"
	case "views":
		column = "views"
	}
	direction := "DESC"
	if f.SortOrder == "asc" {
		direction = "ASC"
	}
	return column + " " + direction
}

// enrichProperties attaches agent records and the single most recent
// inquiry with a non-empty phone per property. DISTINCT ON keeps exactly
// one inquiry per property instead of the row fan-out a plain join gives.
func (s *Store) enrichProperties(ctx context.Context, props []models.Property) ([]models.PropertyWithAgent, error) {
	results := make([]models.PropertyWithAgent, 0, len(props))
	if len(props) == 0 {
		return results, nil
	}

	agentIDs := make([]string, 0, len(props))
	propIDs := make([]string, 0, len(props))
	seen := make(map[string]bool)
	for _, p := range props {
		propIDs = append(propIDs, p.ID)
		if p.AgentID != "" && !seen[p.AgentID] {
			seen[p.AgentID] = true
			agentIDs = append(agentIDs, p.AgentID)
		}
	}

	agents := make(map[string]*models.User)
	if len(agentIDs) > 0 {
		var users []models.User
		if err := s.db.WithContext(ctx).Where("id IN ?", agentIDs).Find(&users).Error; err != nil {
			return nil, fmt.Errorf("failed to load agents: %w", err)
		}
		for i := range users {
			agents[users[i].ID] = &users[i]
		}
	}

	var contacts []models.Inquiry
	err := s.db.WithContext(ctx).Table("inquiries").
		Select("DISTINCT ON (property_id) *").
		Where("property_id IN ? AND phone <> ''", propIDs).
		Order("property_id, created_at DESC").
		Scan(&contacts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load latest contacts: %w", err)
	}
	contactByProperty := make(map[string]*models.Inquiry, len(contacts))
	for i := range contacts {
		contactByProperty[contacts[i].PropertyID] = &contacts[i]
	}

	for _, p := range props {
		results = append(results, models.PropertyWithAgent{
			Property:        p,
			Agent:           agents[p.AgentID],
			CustomerContact: contactByProperty[p.ID],
		})
	}
	return results, nil
}

// GetProperty retrieves one property with agent and latest-contact
// enrichment. Returns (nil, nil) when absent.
func (s *Store) GetProperty(ctx context.Context, id string) (*models.PropertyWithAgent, error) {
	var prop models.Property
	if err := s.db.WithContext(ctx).First(&prop, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	enriched, err := s.enrichProperties(ctx, []models.Property{prop})
	if err != nil {
		return nil, err
	}
	return &enriched[0], nil
}

// GetFeaturedProperties returns the six newest featured active listings.
func (s *Store) GetFeaturedProperties(ctx context.Context) ([]models.Property, error) {
	var props []models.Property
	err := s.db.WithContext(ctx).
		Where("is_featured = ? AND status = ?", true, "active").
		Order("created_at DESC").
		Limit(6).
		Find(&props).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get featured properties: %w", err)
	}
	if props == nil {
		props = []models.Property{}
	}
	return props, nil
}

// CreateProperty inserts a property. A real wave assignment is validated
// against the agent's quota inside the insert transaction; on failure
// nothing is written.
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

	if !p.HasWave() || p.AgentID == "" {
		if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
			return fmt.Errorf("failed to create property: %w", err)
		}
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := validateWaveAssignment(tx, p.AgentID, true); err != nil {
			return err
		}
		if err := tx.Create(p).Error; err != nil {
			return fmt.Errorf("failed to create property: %w", err)
		}
		return nil
	})
}

// UpdateProperty saves a property. Setting or changing the wave re-runs the
// quota check under the agent's row lock; a quota failure leaves the stored
// property untouched.
func (s *Store) UpdateProperty(ctx context.Context, p *models.Property) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Property
		if err := tx.First(&existing, "id = ?", p.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("failed to load property: %w", err)
		}

		normalizeWaveID(p)
		waveChanged := p.HasWave() && (existing.WaveID == nil || *existing.WaveID != *p.WaveID)
		if waveChanged && p.AgentID != "" {
			if err := validateWaveAssignment(tx, p.AgentID, true); err != nil {
				return err
			}
		}

		p.CreatedAt = existing.CreatedAt
		// Views only move through IncrementPropertyViews.
		p.Views = existing.Views
		p.UpdatedAt = time.Now()
		if err := tx.Save(p).Error; err != nil {
			return fmt.Errorf("failed to update property: %w", err)
		}
		return nil
	})
}

// DeleteProperty removes one property. Returns ErrNotFound for unknown ids.
func (s *Store) DeleteProperty(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Property{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete property: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// IncrementPropertyViews bumps the view counter with a single UPDATE so
// concurrent views never lose increments.
func (s *Store) IncrementPropertyViews(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&models.Property{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return fmt.Errorf("failed to increment views: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ClearAllProperties removes every property and all dependent rows in one
// transaction: favorites, inquiries and search history go first so no
// orphan can survive a partial failure. Returns the property count removed.
func (s *Store) ClearAllProperties(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Property{}).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count properties: %w", err)
		}
		for _, table := range []string{"favorites", "inquiries", "search_histories", "properties"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
