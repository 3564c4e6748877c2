package services

import (
	"context"
	"sync"
	"time"

	"looply-spotify/internal/models"

	"github.com/sirupsen/logrus"
)

// memoryTokenStore реалізація TokenStore в пам'яті (для розробки і тестів)
type memoryTokenStore struct {
	records map[string]models.TokenRecord
	mutex   sync.RWMutex
}

// NewMemoryTokenStore створює нове сховище токенів в пам'яті
func NewMemoryTokenStore() TokenStore {
	return &memoryTokenStore{
		records: make(map[string]models.TokenRecord),
	}
}

// Get повертає копію запису користувача
func (s *memoryTokenStore) Get(_ context.Context, userID string) (*models.TokenRecord, error) {
	s.mutex.RLock()
	record, exists := s.records[userID]
	s.mutex.RUnlock()

	if !exists {
		return nil, ErrRecordMissing
	}
	return &record, nil
}

// Upsert вставляє або замінює запис користувача
func (s *memoryTokenStore) Upsert(_ context.Context, record *models.TokenRecord) error {
	s.mutex.Lock()
	s.records[record.UserID] = *record
	s.mutex.Unlock()

	logrus.WithField("user_id", record.UserID).Debug("Spotify connection stored in memory")
	return nil
}

// UpdateAccessToken оновлює access token існуючого запису
func (s *memoryTokenStore) UpdateAccessToken(_ context.Context, userID, accessToken string, expiresAt time.Time, refreshToken string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	record, exists := s.records[userID]
	if !exists {
		return ErrRecordMissing
	}

	record.AccessToken = accessToken
	record.ExpiresAt = expiresAt
	record.UpdatedAt = time.Now()
	if refreshToken != "" {
		record.RefreshToken = refreshToken
	}
	s.records[userID] = record

	return nil
}
