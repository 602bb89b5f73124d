package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tesseract-hub/listing-service/internal/models"
)

// AddCustomerActivity appends an activity row and folds its points into the
// user's CustomerPoints under one lock, mirroring the Postgres transaction.
func (s *Store) AddCustomerActivity(ctx context.Context, activity *models.CustomerActivity) error {
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := *activity
	s.activities[activity.ID] = &c

	now := time.Now()
	points, ok := s.points[activity.UserID]
	if !ok {
		s.points[activity.UserID] = &models.CustomerPoints{
			UserID:          activity.UserID,
			TotalPoints:     activity.Points,
			PointsThisMonth: activity.Points,
			CurrentLevel:    models.LevelForPoints(activity.Points),
			LastActivity:    now,
			UpdatedAt:       now,
		}
		return nil
	}
	points.TotalPoints += activity.Points
	points.PointsThisMonth += activity.Points
	points.CurrentLevel = models.LevelForPoints(points.TotalPoints)
	points.LastActivity = now
	points.UpdatedAt = now
	return nil
}

// GetCustomerPoints retrieves the accumulator row. Returns (nil, nil) when
// the user has no recorded activity yet.
func (s *Store) GetCustomerPoints(ctx context.Context, userID string) (*models.CustomerPoints, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.points[userID]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

// GetCustomerAnalytics aggregates a user's activity log: totals, per-type
// breakdown, daily points for the last 30 days and monthly counts for the
// last 12 months. Empty days and months are simply absent.
func (s *Store) GetCustomerAnalytics(ctx context.Context, userID string) (*models.CustomerAnalytics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	analytics := &models.CustomerAnalytics{
		ActivitiesByType: []models.ActivityTypeStats{},
		PointsHistory:    []models.DailyPoints{},
		MonthlyActivity:  []models.MonthlyActivity{},
	}

	byType := make(map[string]*models.ActivityTypeStats)
	daily := make(map[string]int64)
	monthly := make(map[string]int64)
	daySince := time.Now().AddDate(0, 0, -30)
	monthSince := time.Now().AddDate(0, -12, 0)

	for _, a := range s.activities {
		if a.UserID != userID {
			continue
		}
		analytics.TotalActivities++

		stats, ok := byType[a.ActivityType]
		if !ok {
			stats = &models.ActivityTypeStats{Type: a.ActivityType}
			byType[a.ActivityType] = stats
		}
		stats.Count++
		stats.Points += int64(a.Points)

		// UTC bucketing keeps daily and monthly groupings identical to the
		// Postgres aggregation whatever the local timezone.
		if !a.CreatedAt.Before(daySince) {
			daily[a.CreatedAt.UTC().Format("2006-01-02")] += int64(a.Points)
		}
		if !a.CreatedAt.Before(monthSince) {
			monthly[a.CreatedAt.UTC().Format("2006-01")]++
		}
	}

	for _, stats := range byType {
		analytics.ActivitiesByType = append(analytics.ActivitiesByType, *stats)
	}
	sort.Slice(analytics.ActivitiesByType, func(i, j int) bool {
		return analytics.ActivitiesByType[i].Count > analytics.ActivitiesByType[j].Count
	})

	for date, points := range daily {
		analytics.PointsHistory = append(analytics.PointsHistory, models.DailyPoints{Date: date, Points: points})
	}
	sort.Slice(analytics.PointsHistory, func(i, j int) bool {
		return analytics.PointsHistory[i].Date < analytics.PointsHistory[j].Date
	})

	for month, count := range monthly {
		analytics.MonthlyActivity = append(analytics.MonthlyActivity, models.MonthlyActivity{Month: month, Count: count})
	}
	sort.Slice(analytics.MonthlyActivity, func(i, j int) bool {
		return analytics.MonthlyActivity[i].Month < analytics.MonthlyActivity[j].Month
	})

	return analytics, nil
}
