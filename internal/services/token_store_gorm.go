package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"looply-spotify/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormTokenStore реалізація TokenStore поверх PostgreSQL через GORM
type gormTokenStore struct {
	db     *gorm.DB
	cipher *TokenCipher
}

// NewGormTokenStore створює сховище токенів у таблиці spotify_connections
func NewGormTokenStore(db *gorm.DB, cipher *TokenCipher) TokenStore {
	return &gormTokenStore{
		db:     db,
		cipher: cipher,
	}
}

// Get отримує запис токенів користувача
func (s *gormTokenStore) Get(ctx context.Context, userID string) (*models.TokenRecord, error) {
	var record models.TokenRecord
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordMissing
		}
		return nil, fmt.Errorf("failed to get spotify connection: %w", err)
	}

	if record.AccessToken, err = s.cipher.Open(record.AccessToken); err != nil {
		return nil, fmt.Errorf("failed to open access token: %w", err)
	}
	if record.RefreshToken, err = s.cipher.Open(record.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to open refresh token: %w", err)
	}

	return &record, nil
}

// Upsert вставляє або повністю замінює запис користувача
func (s *gormTokenStore) Upsert(ctx context.Context, record *models.TokenRecord) error {
	row := *record

	var err error
	if row.AccessToken, err = s.cipher.Seal(record.AccessToken); err != nil {
		return err
	}
	if row.RefreshToken, err = s.cipher.Seal(record.RefreshToken); err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert spotify connection: %w", err)
	}

	logrus.WithField("user_id", record.UserID).Debug("Spotify connection upserted")
	return nil
}

// UpdateAccessToken оновлює access token і expires_at одним запитом
func (s *gormTokenStore) UpdateAccessToken(ctx context.Context, userID, accessToken string, expiresAt time.Time, refreshToken string) error {
	sealedAccess, err := s.cipher.Seal(accessToken)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"access_token": sealedAccess,
		"expires_at":   expiresAt,
		"updated_at":   time.Now(),
	}

	if refreshToken != "" {
		sealedRefresh, err := s.cipher.Seal(refreshToken)
		if err != nil {
			return err
		}
		updates["refresh_token"] = sealedRefresh
	}

	result := s.db.WithContext(ctx).Model(&models.TokenRecord{}).Where("user_id = ?", userID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update spotify connection: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordMissing
	}
	return nil
}
