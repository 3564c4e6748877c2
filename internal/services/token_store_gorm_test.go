package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"looply-spotify/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var tokenColumns = []string{"user_id", "access_token", "refresh_token", "scope", "token_type", "expires_at", "updated_at"}

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestGormTokenStore_Get(t *testing.T) {
	db, mock := newMockGorm(t)
	store := NewGormTokenStore(db, nil)
	expiresAt := fixedNow.Add(time.Hour)

	mock.ExpectQuery(`SELECT \* FROM "spotify_connections" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows(tokenColumns).
			AddRow("user-1", "access-1", "refresh-1", "user-top-read", "Bearer", expiresAt, fixedNow))

	record, err := store.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "access-1", record.AccessToken)
	assert.Equal(t, "refresh-1", record.RefreshToken)
	assert.True(t, record.ExpiresAt.Equal(expiresAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTokenStore_GetMissing(t *testing.T) {
	db, mock := newMockGorm(t)
	store := NewGormTokenStore(db, nil)

	mock.ExpectQuery(`SELECT \* FROM "spotify_connections"`).
		WillReturnRows(sqlmock.NewRows(tokenColumns))

	_, err := store.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrRecordMissing)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTokenStore_GetDatabaseError(t *testing.T) {
	db, mock := newMockGorm(t)
	store := NewGormTokenStore(db, nil)

	mock.ExpectQuery(`SELECT \* FROM "spotify_connections"`).
		WillReturnError(errors.New("connection refused"))

	_, err := store.Get(context.Background(), "user-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRecordMissing)
}

func TestGormTokenStore_UpsertUsesOnConflict(t *testing.T) {
	db, mock := newMockGorm(t)
	store := NewGormTokenStore(db, nil)

	mock.ExpectExec(`INSERT INTO "spotify_connections" .* ON CONFLICT \("user_id"\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Upsert(context.Background(), &models.TokenRecord{
		UserID:       "user-1",
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    fixedNow.Add(time.Hour),
		UpdatedAt:    fixedNow,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTokenStore_UpdateAccessToken(t *testing.T) {
	tests := []struct {
		name         string
		refreshToken string
		pattern      string
	}{
		{
			name:    "keeps refresh token",
			pattern: `UPDATE "spotify_connections" SET "access_token"=\$1,"expires_at"=\$2,"updated_at"=\$3 WHERE user_id = \$4`,
		},
		{
			name:         "rotates refresh token",
			refreshToken: "refresh-2",
			pattern:      `UPDATE "spotify_connections" SET "access_token"=\$1,"expires_at"=\$2,"refresh_token"=\$3,"updated_at"=\$4 WHERE user_id = \$5`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockGorm(t)
			store := NewGormTokenStore(db, nil)

			mock.ExpectExec(tt.pattern).WillReturnResult(sqlmock.NewResult(0, 1))

			err := store.UpdateAccessToken(context.Background(), "user-1", "access-2", fixedNow.Add(time.Hour), tt.refreshToken)
			require.NoError(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGormTokenStore_UpdateMissingRecord(t *testing.T) {
	db, mock := newMockGorm(t)
	store := NewGormTokenStore(db, nil)

	mock.ExpectExec(`UPDATE "spotify_connections" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateAccessToken(context.Background(), "nobody", "access-2", fixedNow, "")
	assert.ErrorIs(t, err, ErrRecordMissing)
}

func TestGormTokenStore_EncryptsTokens(t *testing.T) {
	db, mock := newMockGorm(t)
	cipher, err := NewTokenCipher("test-encryption-secret")
	require.NoError(t, err)
	store := NewGormTokenStore(db, cipher)

	sealedAccess, err := cipher.Seal("access-1")
	require.NoError(t, err)
	sealedRefresh, err := cipher.Seal("refresh-1")
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "spotify_connections"`).
		WillReturnRows(sqlmock.NewRows(tokenColumns).
			AddRow("user-1", sealedAccess, sealedRefresh, "", "Bearer", fixedNow, fixedNow))

	record, err := store.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "access-1", record.AccessToken)
	assert.Equal(t, "refresh-1", record.RefreshToken)

	mock.ExpectQuery(`SELECT \* FROM "spotify_connections"`).
		WillReturnRows(sqlmock.NewRows(tokenColumns).
			AddRow("user-1", "plain-access", "plain-refresh", "", "Bearer", fixedNow, fixedNow))

	_, err = store.Get(context.Background(), "user-1")
	assert.Error(t, err, "unsealed values are rejected when encryption is enabled")
}
