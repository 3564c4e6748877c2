package services

import (
	"context"
	"testing"
	"time"

	"looply-spotify/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokenStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTokenStore()

	_, err := store.Get(ctx, "user-1")
	assert.ErrorIs(t, err, ErrRecordMissing)

	err = store.UpdateAccessToken(ctx, "user-1", "access", fixedNow, "")
	assert.ErrorIs(t, err, ErrRecordMissing)

	require.NoError(t, store.Upsert(ctx, &models.TokenRecord{
		UserID:       "user-1",
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    fixedNow,
	}))

	require.NoError(t, store.UpdateAccessToken(ctx, "user-1", "access-2", fixedNow.Add(time.Hour), ""))
	record, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "access-2", record.AccessToken)
	assert.Equal(t, "refresh-1", record.RefreshToken)
	assert.Equal(t, fixedNow.Add(time.Hour), record.ExpiresAt)

	require.NoError(t, store.UpdateAccessToken(ctx, "user-1", "access-3", fixedNow.Add(2*time.Hour), "refresh-2"))
	record, err = store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "refresh-2", record.RefreshToken)
}

func TestMemoryTokenStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTokenStore()
	require.NoError(t, store.Upsert(ctx, &models.TokenRecord{UserID: "user-1", AccessToken: "access-1"}))

	record, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	record.AccessToken = "mutated"

	again, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "access-1", again.AccessToken)
}
