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

func TestWaveQuotaSummary(t *testing.T) {
	ctx := context.Background()
	svc := services.NewWaveService(memory.NewStore(memory.WithSeedData()), testLogger())

	// elena: balance 10, one waved listing seeded
	quota, err := svc.Quota(ctx, "user-agent-elena")
	require.NoError(t, err)
	require.NotNil(t, quota)
	assert.Equal(t, 10, quota.WaveBalance)
	assert.Equal(t, int64(1), quota.Usage)
	assert.Equal(t, int64(9), quota.Remaining)

	// admin reports the unlimited sentinel
	quota, err = svc.Quota(ctx, "user-admin")
	require.NoError(t, err)
	require.NotNil(t, quota)
	assert.Equal(t, int64(models.UnlimitedWaveBalance), quota.Remaining)

	quota, err = svc.Quota(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, quota)
}

func TestWaveLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := services.NewWaveService(memory.NewStore(), testLogger())

	err := svc.Create(ctx, &models.Wave{})
	_, ok := services.IsValidationError(err)
	assert.True(t, ok, "name is required")

	wave := &models.Wave{Name: "Autumn Deals", Color: "#d97706"}
	require.NoError(t, svc.Create(ctx, wave))
	require.NotEmpty(t, wave.ID)
	assert.True(t, wave.IsActive)

	wave.Description = "Fall campaign"
	require.NoError(t, svc.Update(ctx, wave))

	require.NoError(t, svc.Delete(ctx, wave.ID))
	got, err := svc.Get(ctx, wave.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.IsActive)

	assert.ErrorIs(t, svc.Delete(ctx, "nothing"), storage.ErrNotFound)
}

func TestWavePermissions(t *testing.T) {
	ctx := context.Background()
	svc := services.NewWaveService(memory.NewStore(memory.WithSeedData()), testLogger())

	perm := &models.CustomerWavePermission{
		UserID:        "user-customer-dana",
		WaveID:        "wave-premium",
		MaxProperties: 2,
		GrantedBy:     "user-admin",
	}
	require.NoError(t, svc.GrantPermission(ctx, perm))

	perms, err := svc.Permissions(ctx, "user-customer-dana")
	require.NoError(t, err)
	require.Len(t, perms, 1)
	assert.Equal(t, "wave-premium", perms[0].WaveID)

	require.NoError(t, svc.RevokePermission(ctx, "user-customer-dana", "wave-premium"))
	assert.ErrorIs(t, svc.RevokePermission(ctx, "user-customer-dana", "wave-premium"), storage.ErrNotFound)
}
