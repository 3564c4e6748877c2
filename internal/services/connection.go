package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"looply-spotify/internal/models"

	"github.com/sirupsen/logrus"
)

// connectionService реалізація ConnectionService
type connectionService struct {
	settings SpotifySettings
	store    TokenStore
	provider TokenProvider
	guard    RefreshGuard
	api      spotifyAPI
	now      func() time.Time
}

// NewConnectionService створює сервіс підключення Spotify
func NewConnectionService(settings SpotifySettings, store TokenStore, provider TokenProvider, guard RefreshGuard, httpClient *http.Client) ConnectionService {
	if guard == nil {
		guard = NewLocalRefreshGuard(settings.HTTPTimeout)
	}
	return &connectionService{
		settings: settings,
		store:    store,
		provider: provider,
		guard:    guard,
		api:      newSpotifyAPI(settings, httpClient),
		now:      time.Now,
	}
}

// AuthorizeURL повертає URL авторизації Spotify з ID користувача в state
func (s *connectionService) AuthorizeURL(userID string) (string, error) {
	if err := s.checkSettings(); err != nil {
		return "", err
	}
	if userID == "" {
		return "", stepError(StepAuthorizeURL, ErrInvalidRequest, errors.New("missing user_id"))
	}
	return s.provider.AuthCodeURL(userID), nil
}

// CompleteAuthorization обмінює authorization code на токени і зберігає їх для користувача
func (s *connectionService) CompleteAuthorization(ctx context.Context, code, userID string) (*AuthorizationResult, error) {
	if err := s.checkSettings(); err != nil {
		return nil, err
	}
	if code == "" || userID == "" {
		return nil, stepError(StepValidate, ErrInvalidRequest, errors.New("missing code or state"))
	}

	issuedAt := s.now()
	tok, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Spotify code exchange failed")
		return nil, err
	}

	record := &models.TokenRecord{
		UserID:       userID,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Scope:        tok.Scope,
		TokenType:    tok.TokenType,
		ExpiresAt:    s.expiresAt(issuedAt, tok.ExpiresIn),
		UpdatedAt:    issuedAt,
	}

	if err := s.store.Upsert(ctx, record); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to store Spotify tokens")
		return nil, stepError(StepStoreWrite, ErrStore, err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":    userID,
		"scope":      tok.Scope,
		"expires_at": record.ExpiresAt,
	}).Info("Spotify account connected")

	return &AuthorizationResult{
		UserID:      userID,
		DisplayName: s.lookupDisplayName(ctx, userID, tok.AccessToken),
	}, nil
}

// lookupDisplayName необов'язковий крок: помилка лише логується і не зупиняє авторизацію
func (s *connectionService) lookupDisplayName(ctx context.Context, userID, accessToken string) string {
	profile, err := s.api.client(ctx, accessToken).CurrentUser(ctx)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Spotify profile lookup failed, continuing without display name")
		return ""
	}
	return profile.DisplayName
}

// AccessToken повертає дійсний access token, оновлюючи його за потреби
func (s *connectionService) AccessToken(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", stepError(StepValidate, ErrInvalidRequest, errors.New("missing user_id"))
	}

	record, err := s.load(ctx, userID)
	if err != nil {
		return "", err
	}
	if record.Valid(s.now()) {
		return record.AccessToken, nil
	}

	return s.guard.Do(ctx, userID, func(ctx context.Context) (string, error) {
		return s.refresh(ctx, userID)
	})
}

// refresh перечитує запис і оновлює токен, якщо він досі прострочений
func (s *connectionService) refresh(ctx context.Context, userID string) (string, error) {
	record, err := s.load(ctx, userID)
	if err != nil {
		return "", err
	}
	if record.Valid(s.now()) {
		return record.AccessToken, nil
	}
	if record.RefreshToken == "" {
		return "", stepError(StepRefresh, ErrUpstreamAuth, errors.New("no refresh token stored"))
	}

	issuedAt := s.now()
	tok, err := s.provider.RefreshToken(ctx, record.RefreshToken)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Spotify token refresh failed")
		return "", err
	}

	rotated := ""
	if tok.RefreshToken != "" && tok.RefreshToken != record.RefreshToken {
		rotated = tok.RefreshToken
	}

	expiresAt := s.expiresAt(issuedAt, tok.ExpiresIn)
	if err := s.store.UpdateAccessToken(ctx, userID, tok.AccessToken, expiresAt, rotated); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to persist refreshed Spotify token")
		return "", stepError(StepStoreWrite, ErrStore, err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":       userID,
		"expires_at":    expiresAt,
		"refresh_token": rotated != "",
	}).Info("Spotify access token refreshed")

	return tok.AccessToken, nil
}

// IsConnected перевіряє наявність запису токенів без звернення до Spotify
func (s *connectionService) IsConnected(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, stepError(StepValidate, ErrInvalidRequest, errors.New("missing user_id"))
	}

	_, err := s.store.Get(ctx, userID)
	if errors.Is(err, ErrRecordMissing) {
		return false, nil
	}
	if err != nil {
		return false, stepError(StepStoreRead, ErrStore, err)
	}
	return true, nil
}

func (s *connectionService) load(ctx context.Context, userID string) (*models.TokenRecord, error) {
	record, err := s.store.Get(ctx, userID)
	if errors.Is(err, ErrRecordMissing) {
		return nil, stepError(StepStoreRead, ErrNotConnected, nil)
	}
	if err != nil {
		return nil, stepError(StepStoreRead, ErrStore, err)
	}
	return record, nil
}

// expiresAt = момент видачі + expires_in - запас безпеки
func (s *connectionService) expiresAt(issuedAt time.Time, expiresIn int64) time.Time {
	return issuedAt.Add(time.Duration(expiresIn)*time.Second - s.settings.margin())
}

func (s *connectionService) checkSettings() error {
	if missing := s.settings.Missing(); len(missing) > 0 {
		return stepError(StepValidate, ErrConfiguration, fmt.Errorf("missing spotify settings: %s", strings.Join(missing, ", ")))
	}
	return nil
}

// ProfileRedirectURL формує адресу профілю у фронтенді після успішного підключення
func ProfileRedirectURL(frontendBaseURL string, result *AuthorizationResult) (string, error) {
	base, err := url.Parse(strings.TrimSuffix(frontendBaseURL, "/"))
	if err != nil {
		return "", stepError(StepValidate, ErrConfiguration, fmt.Errorf("invalid frontend base url: %w", err))
	}

	target := base.JoinPath("profile", result.UserID)
	query := target.Query()
	query.Set("spotify", "connected")
	if result.DisplayName != "" {
		query.Set("name", result.DisplayName)
	}
	target.RawQuery = query.Encode()

	return target.String(), nil
}
