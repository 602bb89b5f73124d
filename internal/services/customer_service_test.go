package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tesseract-hub/listing-service/internal/models"
	"github.com/tesseract-hub/listing-service/internal/services"
	"github.com/tesseract-hub/listing-service/internal/storage"
	"github.com/tesseract-hub/listing-service/internal/storage/memory"
)

func newCustomerService(store storage.Storage) *services.CustomerService {
	return services.NewCustomerService(store, nil, testLogger())
}

func TestRecordActivityValidation(t *testing.T) {
	ctx := context.Background()
	svc := newCustomerService(memory.NewStore())

	err := svc.RecordActivity(ctx, &models.CustomerActivity{ActivityType: "view", Points: 5})
	verr, ok := services.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "user_id", verr.Field)

	err = svc.RecordActivity(ctx, &models.CustomerActivity{UserID: "u", Points: 5})
	verr, ok = services.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "activity_type", verr.Field)

	err = svc.RecordActivity(ctx, &models.CustomerActivity{UserID: "u", ActivityType: "view", Points: -1})
	verr, ok = services.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "points", verr.Field)
}

func TestRecordActivityAccumulates(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newCustomerService(store)

	require.NoError(t, svc.RecordActivity(ctx, &models.CustomerActivity{
		UserID: "u1", ActivityType: "property_view", Points: 150,
	}))
	require.NoError(t, svc.RecordActivity(ctx, &models.CustomerActivity{
		UserID: "u1", ActivityType: "inquiry_sent", Points: 100,
	}))

	points, err := svc.Points(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, points)
	assert.Equal(t, 250, points.TotalPoints)
	assert.Equal(t, models.LevelSilver, points.CurrentLevel)

	analytics, err := svc.Analytics(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), analytics.TotalActivities)
	assert.Len(t, analytics.ActivitiesByType, 2)
}

func TestInquiryLifecycle(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(memory.WithSeedData())
	svc := newCustomerService(store)

	err := svc.CreateInquiry(ctx, &models.Inquiry{Name: "No Property"})
	_, ok := services.IsValidationError(err)
	assert.True(t, ok)

	inquiry := &models.Inquiry{
		PropertyID: "prop-studio-milan",
		Name:       "Ada",
		Email:      "ada@example.com",
	}
	require.NoError(t, svc.CreateInquiry(ctx, inquiry))
	assert.Equal(t, "pending", inquiry.Status)

	require.NoError(t, svc.UpdateInquiryStatus(ctx, inquiry.ID, "contacted"))
	inquiries, err := svc.Inquiries(ctx, "prop-studio-milan")
	require.NoError(t, err)
	require.Len(t, inquiries, 1)
	assert.Equal(t, "contacted", inquiries[0].Status)

	err = svc.UpdateInquiryStatus(ctx, inquiry.ID, "")
	_, ok = services.IsValidationError(err)
	assert.True(t, ok)
	assert.ErrorIs(t, svc.UpdateInquiryStatus(ctx, "nothing", "contacted"), storage.ErrNotFound)
}

func TestFavoriteRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newCustomerService(memory.NewStore(memory.WithSeedData()))

	fav, err := svc.AddFavorite(ctx, "user-customer-dana", "prop-studio-milan")
	require.NoError(t, err)
	require.NotNil(t, fav)

	props, err := svc.Favorites(ctx, "user-customer-dana")
	require.NoError(t, err)
	assert.Len(t, props, 2)

	require.NoError(t, svc.RemoveFavorite(ctx, "user-customer-dana", "prop-studio-milan"))
	assert.ErrorIs(t, svc.RemoveFavorite(ctx, "user-customer-dana", "prop-studio-milan"), storage.ErrNotFound)
}
