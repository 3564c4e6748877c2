package services

import (
	"context"
	"time"

	"looply-spotify/internal/models"
)

// TokenStore інтерфейс для сховища OAuth токенів Spotify (один запис на користувача)
type TokenStore interface {
	Get(ctx context.Context, userID string) (*models.TokenRecord, error)
	Upsert(ctx context.Context, record *models.TokenRecord) error
	// UpdateAccessToken оновлює access token разом з expires_at; порожній refreshToken залишає попередній
	UpdateAccessToken(ctx context.Context, userID, accessToken string, expiresAt time.Time, refreshToken string) error
}

// TokenProvider інтерфейс для роботи з token endpoint Spotify
type TokenProvider interface {
	AuthCodeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*ProviderToken, error)
	RefreshToken(ctx context.Context, refreshToken string) (*ProviderToken, error)
	ClientToken(ctx context.Context) (string, error)
}

// ConnectionService інтерфейс для життєвого циклу підключення Spotify
type ConnectionService interface {
	AuthorizeURL(userID string) (string, error)
	CompleteAuthorization(ctx context.Context, code, userID string) (*AuthorizationResult, error)
	AccessToken(ctx context.Context, userID string) (string, error)
	IsConnected(ctx context.Context, userID string) (bool, error)
}

// MusicService інтерфейс для читання даних Spotify
type MusicService interface {
	TopTracks(ctx context.Context, userID string, limit int) ([]models.Track, error)
	TopArtists(ctx context.Context, userID string, limit int) ([]models.Artist, error)
	RecentlyPlayed(ctx context.Context, userID string, limit int) ([]models.PlayedTrack, error)
	SearchTracks(ctx context.Context, query string) ([]models.Track, error)
	Compatibility(ctx context.Context, userID, otherUserID string) (*models.Compatibility, error)
	Persona(ctx context.Context, userID string) (*models.Persona, error)
}

// RefreshGuard серіалізує оновлення токена для одного користувача
type RefreshGuard interface {
	Do(ctx context.Context, userID string, fn func(ctx context.Context) (string, error)) (string, error)
}

// AuthorizationResult представляє результат успішного обміну коду
type AuthorizationResult struct {
	UserID      string
	DisplayName string
}
