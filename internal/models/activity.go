package models

import (
	"time"
)

// Customer level names, derived from cumulative points.
const (
	LevelBronze   = "Bronze"
	LevelSilver   = "Silver"
	LevelGold     = "Gold"
	LevelPlatinum = "Platinum"
)

// LevelForPoints maps cumulative points to a level.
// Thresholds: Platinum >= 1000, Gold >= 500, Silver >= 200, else Bronze.
func LevelForPoints(total int) string {
	switch {
	case total >= 1000:
		return LevelPlatinum
	case total >= 500:
		return LevelGold
	case total >= 200:
		return LevelSilver
	default:
		return LevelBronze
	}
}

// CustomerActivity is an append-only activity log entry. Each insert
// updates the owning user's CustomerPoints row.
type CustomerActivity struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	UserID       string    `gorm:"size:36;not null;index" json:"user_id"`
	ActivityType string    `gorm:"size:50;not null" json:"activity_type"`
	Points       int       `json:"points"`
	CreatedAt    time.Time `json:"created_at"`
}

// CustomerPoints is the per-user points accumulator. TotalPoints only ever
// increases through activity inserts; it is never edited directly.
type CustomerPoints struct {
	UserID          string    `gorm:"primaryKey;size:36" json:"user_id"`
	TotalPoints     int       `json:"total_points"`
	CurrentLevel    string    `gorm:"size:20" json:"current_level"`
	PointsThisMonth int       `json:"points_this_month"`
	LastActivity    time.Time `json:"last_activity"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ActivityTypeStats aggregates activity count and points for one type.
type ActivityTypeStats struct {
	Type   string `json:"type"`
	Count  int64  `json:"count"`
	Points int64  `json:"points"`
}

// DailyPoints is one day's points total, date formatted YYYY-MM-DD.
type DailyPoints struct {
	Date   string `json:"date"`
	Points int64  `json:"points"`
}

// MonthlyActivity is one month's activity count, month formatted YYYY-MM.
type MonthlyActivity struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// CustomerAnalytics summarizes a user's activity log. Days and months with
// no activity are absent from the lists.
type CustomerAnalytics struct {
	TotalActivities  int64               `json:"total_activities"`
	ActivitiesByType []ActivityTypeStats `json:"activities_by_type"`
	PointsHistory    []DailyPoints       `json:"points_history"`   // last 30 days
	MonthlyActivity  []MonthlyActivity   `json:"monthly_activity"` // last 12 months
}

// WaveQuota is the per-user quota summary surfaced to the admin dashboard.
type WaveQuota struct {
	UserID      string `json:"user_id"`
	WaveBalance int    `json:"wave_balance"`
	Usage       int64  `json:"usage"`
	Remaining   int64  `json:"remaining"`
}
