package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tesseract-hub/listing-service/internal/models"
	"github.com/tesseract-hub/listing-service/internal/storage"
	"github.com/tesseract-hub/listing-service/internal/storage/memory"
)

func seededStore() *memory.Store {
	return memory.NewStore(memory.WithSeedData())
}

func wavedProperty(id, agentID, waveID string) *models.Property {
	return &models.Property{
		ID:          id,
		Title:       "Test Listing " + id,
		Type:        "apartment",
		ListingType: "sale",
		Price:       "150000",
		AgentID:     agentID,
		WaveID:      &waveID,
	}
}

func TestCreatePropertyQuotaConservation(t *testing.T) {
	ctx := context.Background()
	store := seededStore()

	// marco starts with balance 2 and no waved listings
	usage, err := store.GetUserWaveUsage(ctx, "user-agent-marco")
	require.NoError(t, err)
	assert.Equal(t, int64(0), usage)

	require.NoError(t, store.CreateProperty(ctx, wavedProperty("p1", "user-agent-marco", "wave-summer")))
	require.NoError(t, store.CreateProperty(ctx, wavedProperty("p2", "user-agent-marco", "wave-premium")))

	err = store.CreateProperty(ctx, wavedProperty("p3", "user-agent-marco", "wave-summer"))
	require.Error(t, err)
	qerr, ok := storage.IsQuotaExceeded(err)
	require.True(t, ok, "expected quota error, got %v", err)
	assert.Equal(t, "user-agent-marco", qerr.UserID)
	assert.Equal(t, 2, qerr.WaveBalance)

	// the rejected insert must leave no trace
	p, err := store.GetProperty(ctx, "p3")
	require.NoError(t, err)
	assert.Nil(t, p)

	usage, err = store.GetUserWaveUsage(ctx, "user-agent-marco")
	require.NoError(t, err)
	assert.Equal(t, int64(2), usage)

	remaining, err := store.GetUserRemainingWaves(ctx, "user-agent-marco")
	require.NoError(t, err)
	assert.Equal(t, int64(0), remaining)
}

func TestUpdatePropertyQuotaFailureLeavesWaveUnchanged(t *testing.T) {
	ctx := context.Background()
	store := seededStore()

	require.NoError(t, store.CreateProperty(ctx, wavedProperty("p1", "user-agent-marco", "wave-summer")))
	require.NoError(t, store.CreateProperty(ctx, wavedProperty("p2", "user-agent-marco", "wave-premium")))

	plain := &models.Property{
		ID:      "p-plain",
		Title:   "Unwaved Listing",
		Price:   "90000",
		AgentID: "user-agent-marco",
	}
	require.NoError(t, store.CreateProperty(ctx, plain))

	waveID := "wave-summer"
	updated := *plain
	updated.WaveID = &waveID
	err := store.UpdateProperty(ctx, &updated)
	_, ok := storage.IsQuotaExceeded(err)
	require.True(t, ok, "expected quota error, got %v", err)

	got, err := store.GetProperty(ctx, "p-plain")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.WaveID, "failed update must not assign the wave")
}

func TestAdminWaveExemption(t *testing.T) {
	ctx := context.Background()
	store := seededStore()

	// the seeded admin has wave balance 0 yet is never limited
	for i := 0; i < 5; i++ {
		p := wavedProperty(fmt.Sprintf("admin-p%d", i), "user-admin", "wave-summer")
		require.NoError(t, store.CreateProperty(ctx, p))
	}

	remaining, err := store.GetUserRemainingWaves(ctx, "user-admin")
	require.NoError(t, err)
	assert.Equal(t, int64(models.UnlimitedWaveBalance), remaining)
}

func TestSentinelWaveIsNotCounted(t *testing.T) {
	ctx := context.Background()
	store := seededStore()

	require.NoError(t, store.CreateProperty(ctx, wavedProperty("p1", "user-agent-marco", "wave-summer")))
	require.NoError(t, store.CreateProperty(ctx, wavedProperty("p2", "user-agent-marco", "wave-premium")))

	// at the limit, but the sentinel and empty wave ids need no quota
	require.NoError(t, store.CreateProperty(ctx, wavedProperty("p3", "user-agent-marco", models.NoWaveSentinel)))
	require.NoError(t, store.CreateProperty(ctx, wavedProperty("p4", "user-agent-marco", "")))

	got, err := store.GetProperty(ctx, "p3")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.WaveID, "sentinel normalizes to null")

	usage, err := store.GetUserWaveUsage(ctx, "user-agent-marco")
	require.NoError(t, err)
	assert.Equal(t, int64(2), usage)
}

func TestValidateWaveAssignmentUnknownUser(t *testing.T) {
	ctx := context.Background()
	store := seededStore()

	waveID := "wave-summer"
	err := store.ValidateWaveAssignment(ctx, "no-such-user", &waveID)
	qerr, ok := storage.IsQuotaExceeded(err)
	require.True(t, ok)
	assert.Equal(t, 0, qerr.WaveBalance)

	// clearing never needs a quota check, even for unknown users
	assert.NoError(t, store.ValidateWaveAssignment(ctx, "no-such-user", nil))
}

func TestGetPropertiesFilters(t *testing.T) {
	ctx := context.Background()
	store := seededStore()

	t.Run("max price", func(t *testing.T) {
		maxPrice := 250000.0
		props, err := store.GetProperties(ctx, models.PropertyFilters{MaxPrice: &maxPrice})
		require.NoError(t, err)
		require.Len(t, props, 3)
		for _, p := range props {
			assert.NotEqual(t, "prop-villa-alicante", p.ID, "600000 exceeds the cap")
		}
	})

	t.Run("city is case-insensitive substring", func(t *testing.T) {
		props, err := store.GetProperties(ctx, models.PropertyFilters{City: "valEN"})
		require.NoError(t, err)
		require.Len(t, props, 1)
		assert.Equal(t, "prop-flat-valencia", props[0].ID)
	})

	t.Run("type and listing type", func(t *testing.T) {
		props, err := store.GetProperties(ctx, models.PropertyFilters{Type: "apartment", ListingType: "rent"})
		require.NoError(t, err)
		require.Len(t, props, 1)
		assert.Equal(t, "prop-studio-milan", props[0].ID)
	})

	t.Run("bedrooms lower bound", func(t *testing.T) {
		three := 3
		props, err := store.GetProperties(ctx, models.PropertyFilters{MinBedrooms: &three})
		require.NoError(t, err)
		assert.Len(t, props, 2) // villa (4) and turin house (3)
	})

	t.Run("text search", func(t *testing.T) {
		props, err := store.GetProperties(ctx, models.PropertyFilters{Search: "turia"})
		require.NoError(t, err)
		require.Len(t, props, 1)
		assert.Equal(t, "prop-flat-valencia", props[0].ID)
	})

	t.Run("inactive hidden", func(t *testing.T) {
		got, err := store.GetProperty(ctx, "prop-house-turin")
		require.NoError(t, err)
		updated := got.Property
		updated.Status = "sold"
		require.NoError(t, store.UpdateProperty(ctx, &updated))

		props, err := store.GetProperties(ctx, models.PropertyFilters{})
		require.NoError(t, err)
		assert.Len(t, props, 3)
	})
}

func TestGetPropertiesSortAndPagination(t *testing.T) {
	ctx := context.Background()
	store := seededStore()

	props, err := store.GetProperties(ctx, models.PropertyFilters{SortBy: "price", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, props, 4)
	assert.Equal(t, "prop-studio-milan", props[0].ID)   // 1200
	assert.Equal(t, "prop-house-turin", props[1].ID)    // 100000
	assert.Equal(t, "prop-flat-valencia", props[2].ID)  // 250000
	assert.Equal(t, "prop-villa-alicante", props[3].ID) // 600000

	// default sort is newest first
	props, err = store.GetProperties(ctx, models.PropertyFilters{Limit: 2})
	require.NoError(t, err)
	require.Len(t, props, 2)
	assert.Equal(t, "prop-house-turin", props[0].ID)

	props, err = store.GetProperties(ctx, models.PropertyFilters{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, props, 2)
	assert.Equal(t, "prop-flat-valencia", props[0].ID)

	props, err = store.GetProperties(ctx, models.PropertyFilters{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, props)
}

func TestLatestContactProjection(t *testing.T) {
	ctx := context.Background()
	store := seededStore()

	// two inquiries on the villa; only the ones with a phone qualify, newest wins
	got, err := store.GetProperty(ctx, "prop-villa-alicante")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.CustomerContact)
	assert.Equal(t, "inq-villa-2", got.CustomerContact.ID)
	assert.Equal(t, "user-agent-elena", got.Agent.ID)

	// no inquiries at all on the studio
	got, err = store.GetProperty(ctx, "prop-studio-milan")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.CustomerContact)

	// a newer phoneless inquiry must not displace the older one with a phone
	require.NoError(t, store.CreateInquiry(ctx, &models.Inquiry{
		ID:         "inq-villa-3",
		PropertyID: "prop-villa-alicante",
		Name:       "No Phone",
		Email:      "nophone@example.com",
	}))
	got, err = store.GetProperty(ctx, "prop-villa-alicante")
	require.NoError(t, err)
	assert.Equal(t, "inq-villa-2", got.CustomerContact.ID)
}

func TestIncrementPropertyViewsConcurrent(t *testing.T) {
	ctx := context.Background()
	store := seededStore()

	const viewers = 50
	var wg sync.WaitGroup
	wg.Add(viewers)
	for i := 0; i < viewers; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, store.IncrementPropertyViews(ctx, "prop-villa-alicante"))
		}()
	}
	wg.Wait()

	got, err := store.GetProperty(ctx, "prop-villa-alicante")
	require.NoError(t, err)
	assert.Equal(t, int64(viewers), got.Views)
}

func TestClearAllPropertiesCascade(t *testing.T) {
	ctx := context.Background()
	store := seededStore()

	userID := "user-customer-dana"
	require.NoError(t, store.AddSearchHistory(ctx, &models.SearchHistory{
		UserID: &userID,
		Query:  "villa alicante",
	}))

	deleted, err := store.ClearAllProperties(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)

	props, err := store.GetProperties(ctx, models.PropertyFilters{})
	require.NoError(t, err)
	assert.Empty(t, props)

	favs, err := store.GetFavorites(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, favs)

	inquiries, err := store.GetPropertyInquiries(ctx, "prop-villa-alicante")
	require.NoError(t, err)
	assert.Empty(t, inquiries)

	history, err := store.GetSearchHistory(ctx, userID, 0)
	require.NoError(t, err)
	assert.Empty(t, history)

	// users and waves survive the wipe
	user, err := store.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.NotNil(t, user)
	waves, err := store.GetWaves(ctx, false)
	require.NoError(t, err)
	assert.Len(t, waves, 2)
}

func TestFavoritesIdempotent(t *testing.T) {
	ctx := context.Background()
	store := seededStore()

	first, err := store.AddFavorite(ctx, "user-customer-dana", "prop-flat-valencia")
	require.NoError(t, err)
	second, err := store.AddFavorite(ctx, "user-customer-dana", "prop-flat-valencia")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	favs, err := store.GetFavorites(ctx, "user-customer-dana")
	require.NoError(t, err)
	assert.Len(t, favs, 2) // seeded villa + the flat

	require.NoError(t, store.RemoveFavorite(ctx, "user-customer-dana", "prop-flat-valencia"))
	assert.ErrorIs(t, store.RemoveFavorite(ctx, "user-customer-dana", "prop-flat-valencia"), storage.ErrNotFound)

	isFav, err := store.IsFavorite(ctx, "user-customer-dana", "prop-flat-valencia")
	require.NoError(t, err)
	assert.False(t, isFav)
}

func TestWaveSoftDelete(t *testing.T) {
	ctx := context.Background()
	store := seededStore()

	require.NoError(t, store.DeleteWave(ctx, "wave-premium"))

	wave, err := store.GetWave(ctx, "wave-premium")
	require.NoError(t, err)
	require.NotNil(t, wave, "soft-deleted wave stays addressable")
	assert.False(t, wave.IsActive)

	active, err := store.GetWaves(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "wave-summer", active[0].ID)

	all, err := store.GetWaves(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	assert.ErrorIs(t, store.DeleteWave(ctx, "no-such-wave"), storage.ErrNotFound)
}

func TestWavePermissionUpsert(t *testing.T) {
	ctx := context.Background()
	store := seededStore()

	perm := &models.CustomerWavePermission{
		UserID:        "user-customer-dana",
		WaveID:        "wave-summer",
		MaxProperties: 3,
		GrantedBy:     "user-admin",
	}
	require.NoError(t, store.GrantWavePermission(ctx, perm))
	firstID := perm.ID

	again := &models.CustomerWavePermission{
		UserID:        "user-customer-dana",
		WaveID:        "wave-summer",
		MaxProperties: 5,
		GrantedBy:     "user-admin",
	}
	require.NoError(t, store.GrantWavePermission(ctx, again))
	assert.Equal(t, firstID, again.ID, "granting the same pair updates in place")

	perms, err := store.GetWavePermissions(ctx, "user-customer-dana")
	require.NoError(t, err)
	require.Len(t, perms, 1)
	assert.Equal(t, 5, perms[0].MaxProperties)

	require.NoError(t, store.RevokeWavePermission(ctx, "user-customer-dana", "wave-summer"))
	assert.ErrorIs(t, store.RevokeWavePermission(ctx, "user-customer-dana", "wave-summer"), storage.ErrNotFound)
}

func TestRepairZeroWaveBalances(t *testing.T) {
	ctx := context.Background()
	store := seededStore()

	require.NoError(t, store.CreateUser(ctx, &models.User{
		ID:       "user-broke",
		Username: "broke",
		Email:    "broke@example.com",
		Role:     models.RoleUser,
	}))

	changed, err := store.UpdateUsersWithZeroWaveBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	repaired, err := store.GetUser(ctx, "user-broke")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultWaveBalance, repaired.WaveBalance)

	// admin accounts keep their zero balance
	admin, err := store.GetUser(ctx, "user-admin")
	require.NoError(t, err)
	assert.Equal(t, 0, admin.WaveBalance)
}

func TestSearchHistoryBound(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	userID := "user-searcher"
	for i := 0; i < 25; i++ {
		require.NoError(t, store.AddSearchHistory(ctx, &models.SearchHistory{
			UserID: &userID,
			Query:  fmt.Sprintf("query %d", i),
		}))
	}

	history, err := store.GetSearchHistory(ctx, userID, 0)
	require.NoError(t, err)
	assert.Len(t, history, storage.DefaultSearchHistoryLimit)

	history, err = store.GetSearchHistory(ctx, userID, 5)
	require.NoError(t, err)
	assert.Len(t, history, 5)

	// anonymous entries never show up under a user id
	require.NoError(t, store.AddSearchHistory(ctx, &models.SearchHistory{Query: "anonymous"}))
	history, err = store.GetSearchHistory(ctx, "", 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestCustomerPointsAccumulation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	record := func(points int) {
		require.NoError(t, store.AddCustomerActivity(ctx, &models.CustomerActivity{
			UserID:       "user-x",
			ActivityType: "property_view",
			Points:       points,
		}))
	}

	record(150)
	points, err := store.GetCustomerPoints(ctx, "user-x")
	require.NoError(t, err)
	assert.Equal(t, 150, points.TotalPoints)
	assert.Equal(t, models.LevelBronze, points.CurrentLevel)

	record(100)
	points, _ = store.GetCustomerPoints(ctx, "user-x")
	assert.Equal(t, 250, points.TotalPoints)
	assert.Equal(t, models.LevelSilver, points.CurrentLevel)

	record(300)
	points, _ = store.GetCustomerPoints(ctx, "user-x")
	assert.Equal(t, 550, points.TotalPoints)
	assert.Equal(t, models.LevelGold, points.CurrentLevel)

	record(500)
	points, _ = store.GetCustomerPoints(ctx, "user-x")
	assert.Equal(t, 1050, points.TotalPoints)
	assert.Equal(t, models.LevelPlatinum, points.CurrentLevel)
	assert.Equal(t, 1050, points.PointsThisMonth)

	// no activity yet means no row
	points, err = store.GetCustomerPoints(ctx, "user-y")
	require.NoError(t, err)
	assert.Nil(t, points)
}

func TestCustomerAnalytics(t *testing.T) {
	ctx := context.Background()
	store := seededStore()

	analytics, err := store.GetCustomerAnalytics(ctx, "user-customer-dana")
	require.NoError(t, err)
	assert.Equal(t, int64(3), analytics.TotalActivities)
	assert.Len(t, analytics.ActivitiesByType, 3)

	var totalPoints int64
	for _, day := range analytics.PointsHistory {
		totalPoints += day.Points
	}
	assert.Equal(t, int64(40), totalPoints)

	// unknown user gets an empty summary, not an error
	analytics, err = store.GetCustomerAnalytics(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, analytics.TotalActivities)
	assert.Empty(t, analytics.ActivitiesByType)
}

func TestCustomerAnalyticsBucketsInUTC(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	// 20:00 UTC is already the next calendar day in UTC+14; the bucket must
	// follow the UTC date, not the value's local zone.
	utc := time.Now().UTC().AddDate(0, 0, -2)
	instant := time.Date(utc.Year(), utc.Month(), utc.Day(), 20, 0, 0, 0, time.UTC)
	local := instant.In(time.FixedZone("UTC+14", 14*3600))

	require.NoError(t, store.AddCustomerActivity(ctx, &models.CustomerActivity{
		UserID:       "user-tz",
		ActivityType: "property_view",
		Points:       5,
		CreatedAt:    local,
	}))

	analytics, err := store.GetCustomerAnalytics(ctx, "user-tz")
	require.NoError(t, err)
	require.Len(t, analytics.PointsHistory, 1)
	assert.Equal(t, instant.Format("2006-01-02"), analytics.PointsHistory[0].Date)
	require.Len(t, analytics.MonthlyActivity, 1)
	assert.Equal(t, instant.Format("2006-01"), analytics.MonthlyActivity[0].Month)
}

func TestAbsentRecordSemantics(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	user, err := store.GetUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, user)

	prop, err := store.GetProperty(ctx, "nothing")
	require.NoError(t, err)
	assert.Nil(t, prop)

	wave, err := store.GetWave(ctx, "nothing")
	require.NoError(t, err)
	assert.Nil(t, wave)

	assert.ErrorIs(t, store.UpdateProperty(ctx, &models.Property{ID: "nothing"}), storage.ErrNotFound)
	assert.ErrorIs(t, store.DeleteProperty(ctx, "nothing"), storage.ErrNotFound)
	assert.ErrorIs(t, store.IncrementPropertyViews(ctx, "nothing"), storage.ErrNotFound)
	assert.ErrorIs(t, store.UpdateUser(ctx, &models.User{ID: "nobody"}), storage.ErrNotFound)
	assert.ErrorIs(t, store.UpdateInquiryStatus(ctx, "nothing", "contacted"), storage.ErrNotFound)
	assert.ErrorIs(t, store.UpdateWave(ctx, &models.Wave{ID: "nothing"}), storage.ErrNotFound)
}

func TestUpdatePropertyPreservesViewsAndCreatedAt(t *testing.T) {
	ctx := context.Background()
	store := seededStore()

	require.NoError(t, store.IncrementPropertyViews(ctx, "prop-studio-milan"))
	before, err := store.GetProperty(ctx, "prop-studio-milan")
	require.NoError(t, err)

	updated := before.Property
	updated.Title = "Renovated Studio in Navigli"
	updated.Views = 9999 // must be ignored
	require.NoError(t, store.UpdateProperty(ctx, &updated))

	after, err := store.GetProperty(ctx, "prop-studio-milan")
	require.NoError(t, err)
	assert.Equal(t, "Renovated Studio in Navigli", after.Title)
	assert.Equal(t, int64(1), after.Views)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
}
