package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tesseract-hub/listing-service/internal/models"
)

// AddCustomerActivity appends an activity row and folds its points into the
// user's CustomerPoints in the same transaction. The points row is locked
// so concurrent activity inserts for one user cannot lose updates.
func (s *Store) AddCustomerActivity(ctx context.Context, activity *models.CustomerActivity) error {
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(activity).Error; err != nil {
			return fmt.Errorf("failed to create activity: %w", err)
		}

		now := time.Now()
		var points models.CustomerPoints
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&points, "user_id = ?", activity.UserID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			points = models.CustomerPoints{
				UserID:          activity.UserID,
				TotalPoints:     activity.Points,
				PointsThisMonth: activity.Points,
				CurrentLevel:    models.LevelForPoints(activity.Points),
				LastActivity:    now,
				UpdatedAt:       now,
			}
			if err := tx.Create(&points).Error; err != nil {
				return fmt.Errorf("failed to create customer points: %w", err)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load customer points: %w", err)
		}

		points.TotalPoints += activity.Points
		points.PointsThisMonth += activity.Points
		points.CurrentLevel = models.LevelForPoints(points.TotalPoints)
		points.LastActivity = now
		points.UpdatedAt = now
		if err := tx.Save(&points).Error; err != nil {
			return fmt.Errorf("failed to update customer points: %w", err)
		}
		return nil
	})
}

// GetCustomerPoints retrieves the accumulator row. Returns (nil, nil) when
// the user has no recorded activity yet.
func (s *Store) GetCustomerPoints(ctx context.Context, userID string) (*models.CustomerPoints, error) {
	var points models.CustomerPoints
	if err := s.db.WithContext(ctx).First(&points, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get customer points: %w", err)
	}
	return &points, nil
}

// GetCustomerAnalytics aggregates a user's activity log: totals, per-type
// breakdown, daily points for the last 30 days and monthly counts for the
// last 12 months. Empty days and months are simply absent.
func (s *Store) GetCustomerAnalytics(ctx context.Context, userID string) (*models.CustomerAnalytics, error) {
	analytics := &models.CustomerAnalytics{
		ActivitiesByType: []models.ActivityTypeStats{},
		PointsHistory:    []models.DailyPoints{},
		MonthlyActivity:  []models.MonthlyActivity{},
	}

	err := s.db.WithContext(ctx).Model(&models.CustomerActivity{}).
		Where("user_id = ?", userID).
		Count(&analytics.TotalActivities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count activities: %w", err)
	}

	var byType []struct {
		ActivityType string
		Count        int64
		Points       int64
	}
	err = s.db.WithContext(ctx).Model(&models.CustomerActivity{}).
		Select("activity_type, COUNT(*) as count, COALESCE(SUM(points), 0) as points").
		Where("user_id = ?", userID).
		Group("activity_type").
		Order("count DESC").
		Scan(&byType).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate activities by type: %w", err)
	}
	for _, row := range byType {
		analytics.ActivitiesByType = append(analytics.ActivitiesByType, models.ActivityTypeStats{
			Type:   row.ActivityType,
			Count:  row.Count,
			Points: row.Points,
		})
	}

	var daily []struct {
		Date   time.Time
		Points int64
	}
	since := time.Now().AddDate(0, 0, -30)
	// Buckets are pinned to UTC so both backends agree on which day an
	// activity near midnight belongs to, regardless of session timezone.
	err = s.db.WithContext(ctx).Model(&models.CustomerActivity{}).
		Select("DATE(created_at AT TIME ZONE 'UTC') as date, COALESCE(SUM(points), 0) as points").
		Where("user_id = ? AND created_at >= ?", userID, since).
		Group("DATE(created_at AT TIME ZONE 'UTC')").
		Order("date ASC").
		Scan(&daily).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily points: %w", err)
	}
	for _, row := range daily {
		analytics.PointsHistory = append(analytics.PointsHistory, models.DailyPoints{
			Date:   row.Date.Format("2006-01-02"),
			Points: row.Points,
		})
	}

	var monthly []struct {
		Month string
		Count int64
	}
	monthSince := time.Now().AddDate(0, -12, 0)
	err = s.db.WithContext(ctx).Model(&models.CustomerActivity{}).
		Select("to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM') as month, COUNT(*) as count").
		Where("user_id = ? AND created_at >= ?", userID, monthSince).
		Group("to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM')").
		Order("month ASC").
		Scan(&monthly).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly activity: %w", err)
	}
	for _, row := range monthly {
		analytics.MonthlyActivity = append(analytics.MonthlyActivity, models.MonthlyActivity{
			Month: row.Month,
			Count: row.Count,
		})
	}

	return analytics, nil
}
