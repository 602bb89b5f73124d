package memory

import (
	"time"

	"github.com/tesseract-hub/listing-service/internal/models"
)

// seed fills the store with demo fixtures: an admin, two agents, a
// customer, two waves and a handful of listings with inquiries and
// favorites, enough to exercise every screen without a database.
func (s *Store) seed() {
	now := time.Now()

	users := []*models.User{
		{
			ID:          "user-admin",
			Username:    "admin",
			Email:       "admin@listings.local",
			Role:        models.RoleAdmin,
			WaveBalance: 0,
			IsVerified:  true,
			CreatedAt:   now.AddDate(0, -6, 0),
		},
		{
			ID:               "user-agent-elena",
			Username:         "elena",
			Email:            "elena@listings.local",
			Role:             models.RoleAgent,
			WaveBalance:      models.DefaultWaveBalance,
			AllowedLanguages: models.StringList{"en", "es"},
			IsVerified:       true,
			CreatedAt:        now.AddDate(0, -4, 0),
		},
		{
			ID:               "user-agent-marco",
			Username:         "marco",
			Email:            "marco@listings.local",
			Role:             models.RoleAgent,
			WaveBalance:      2,
			AllowedLanguages: models.StringList{"en", "it"},
			IsVerified:       true,
			CreatedAt:        now.AddDate(0, -3, 0),
		},
		{
			ID:          "user-customer-dana",
			Username:    "dana",
			Email:       "dana@example.com",
			Role:        models.RoleUser,
			WaveBalance: models.DefaultWaveBalance,
			CreatedAt:   now.AddDate(0, -1, 0),
		},
	}
	for _, u := range users {
		s.users[u.ID] = u
	}

	waves := []*models.Wave{
		{
			ID:          "wave-summer",
			Name:        "Summer Promotion",
			Description: "Seasonal highlight for coastal listings",
			Color:       "#f59e0b",
			IsActive:    true,
			CreatedBy:   "user-admin",
			CreatedAt:   now.AddDate(0, -2, 0),
			UpdatedAt:   now.AddDate(0, -2, 0),
		},
		{
			ID:          "wave-premium",
			Name:        "Premium",
			Description: "Hand-picked premium listings",
			Color:       "#8b5cf6",
			IsActive:    true,
			CreatedBy:   "user-admin",
			CreatedAt:   now.AddDate(0, -2, 5),
			UpdatedAt:   now.AddDate(0, -2, 5),
		},
	}
	for _, w := range waves {
		s.waves[w.ID] = w
	}

	summerWave := "wave-summer"
	properties := []*models.Property{
		{
			ID:          "prop-villa-alicante",
			Title:       "Seafront Villa in Alicante",
			Description: "Four-bedroom villa with private pool and sea views.",
			Type:        "villa",
			ListingType: "sale",
			Price:       "600000",
			Currency:    "EUR",
			Bedrooms:    4,
			Bathrooms:   3,
			Area:        280,
			Address:     "Calle del Mar 12",
			City:        "Alicante",
			Country:     "Spain",
			Images:      models.StringList{"https://cdn.listings.local/villa-alicante-1.jpg"},
			Amenities:   models.StringList{"pool", "garage", "garden"},
			Language:    "en",
			AgentID:     "user-agent-elena",
			WaveID:      &summerWave,
			IsFeatured:  true,
			Status:      "active",
			CreatedAt:   now.AddDate(0, 0, -20),
			UpdatedAt:   now.AddDate(0, 0, -20),
		},
		{
			ID:          "prop-flat-valencia",
			Title:       "Bright Apartment near Turia Gardens",
			Description: "Two-bedroom apartment, recently renovated.",
			Type:        "apartment",
			ListingType: "sale",
			Price:       "250000",
			Currency:    "EUR",
			Bedrooms:    2,
			Bathrooms:   1,
			Area:        85,
			Address:     "Carrer de la Pau 4",
			City:        "Valencia",
			Country:     "Spain",
			Amenities:   models.StringList{"elevator", "balcony"},
			Language:    "en",
			AgentID:     "user-agent-elena",
			IsFeatured:  true,
			Status:      "active",
			CreatedAt:   now.AddDate(0, 0, -15),
			UpdatedAt:   now.AddDate(0, 0, -15),
		},
		{
			ID:          "prop-studio-milan",
			Title:       "Studio for Rent in Navigli",
			Description: "Compact studio steps from the canals.",
			Type:        "apartment",
			ListingType: "rent",
			Price:       "1200",
			Currency:    "EUR",
			Bedrooms:    1,
			Bathrooms:   1,
			Area:        40,
			Address:     "Via Vigevano 8",
			City:        "Milan",
			Country:     "Italy",
			Language:    "it",
			AgentID:     "user-agent-marco",
			Status:      "active",
			CreatedAt:   now.AddDate(0, 0, -10),
			UpdatedAt:   now.AddDate(0, 0, -10),
		},
		{
			ID:          "prop-house-turin",
			Title:       "Family House with Garden",
			Description: "Three-bedroom house in a quiet neighborhood.",
			Type:        "house",
			ListingType: "sale",
			Price:       "100000",
			Currency:    "EUR",
			Bedrooms:    3,
			Bathrooms:   2,
			Area:        140,
			Address:     "Corso Francia 80",
			City:        "Turin",
			Country:     "Italy",
			Language:    "it",
			AgentID:     "user-agent-marco",
			Status:      "active",
			CreatedAt:   now.AddDate(0, 0, -5),
			UpdatedAt:   now.AddDate(0, 0, -5),
		},
	}
	for _, p := range properties {
		s.properties[p.ID] = p
	}

	inquiries := []*models.Inquiry{
		{
			ID:         "inq-villa-1",
			PropertyID: "prop-villa-alicante",
			Name:       "Sofia Marin",
			Email:      "sofia@example.com",
			Status:     "pending",
			CreatedAt:  now.AddDate(0, 0, -8),
		},
		{
			ID:         "inq-villa-2",
			PropertyID: "prop-villa-alicante",
			Name:       "James Holt",
			Phone:      "+44 20 7946 0958",
			Email:      "james@example.com",
			Status:     "pending",
			CreatedAt:  now.AddDate(0, 0, -4),
		},
		{
			ID:         "inq-flat-1",
			PropertyID: "prop-flat-valencia",
			Name:       "Dana Ryu",
			Phone:      "+34 600 111 222",
			Email:      "dana@example.com",
			Status:     "pending",
			CreatedAt:  now.AddDate(0, 0, -2),
		},
	}
	for _, inq := range inquiries {
		s.inquiries[inq.ID] = inq
	}

	s.favorites["fav-dana-villa"] = &models.Favorite{
		ID:         "fav-dana-villa",
		UserID:     "user-customer-dana",
		PropertyID: "prop-villa-alicante",
		CreatedAt:  now.AddDate(0, 0, -3),
	}

	activities := []*models.CustomerActivity{
		{ID: "act-dana-1", UserID: "user-customer-dana", ActivityType: "property_view", Points: 5, CreatedAt: now.AddDate(0, 0, -3)},
		{ID: "act-dana-2", UserID: "user-customer-dana", ActivityType: "favorite_added", Points: 10, CreatedAt: now.AddDate(0, 0, -3)},
		{ID: "act-dana-3", UserID: "user-customer-dana", ActivityType: "inquiry_sent", Points: 25, CreatedAt: now.AddDate(0, 0, -2)},
	}
	total := 0
	for _, a := range activities {
		s.activities[a.ID] = a
		total += a.Points
	}
	s.points["user-customer-dana"] = &models.CustomerPoints{
		UserID:          "user-customer-dana",
		TotalPoints:     total,
		PointsThisMonth: total,
		CurrentLevel:    models.LevelForPoints(total),
		LastActivity:    now.AddDate(0, 0, -2),
		UpdatedAt:       now.AddDate(0, 0, -2),
	}
}
