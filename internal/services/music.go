package services

import (
	"context"
	"errors"
	"net/http"

	"looply-spotify/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/zmb3/spotify/v2"
)

// Межі параметра limit для запитів історії прослуховування
const (
	DefaultLimit = 20
	MaxLimit     = 50
	searchLimit  = 10
)

// musicService реалізація MusicService
type musicService struct {
	settings    SpotifySettings
	connections ConnectionService
	provider    TokenProvider
	api         spotifyAPI
}

// NewMusicService створює сервіс читання даних Spotify
func NewMusicService(settings SpotifySettings, connections ConnectionService, provider TokenProvider, httpClient *http.Client) MusicService {
	return &musicService{
		settings:    settings,
		connections: connections,
		provider:    provider,
		api:         newSpotifyAPI(settings, httpClient),
	}
}

// ClampLimit нормалізує limit до діапазону 1..MaxLimit (0 означає значення за замовчуванням)
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// TopTracks повертає найпопулярніші треки користувача за середній період
func (m *musicService) TopTracks(ctx context.Context, userID string, limit int) ([]models.Track, error) {
	client, err := m.userClient(ctx, userID)
	if err != nil {
		return nil, err
	}

	page, err := client.CurrentUsersTopTracks(ctx, spotify.Limit(ClampLimit(limit)), spotify.Timerange(spotify.MediumTermRange))
	if err != nil {
		return nil, fetchError("top_tracks", err)
	}

	tracks := make([]models.Track, 0, len(page.Tracks))
	for _, t := range page.Tracks {
		tracks = append(tracks, trackFromFull(t))
	}
	return tracks, nil
}

// TopArtists повертає найпопулярніших артистів користувача за середній період
func (m *musicService) TopArtists(ctx context.Context, userID string, limit int) ([]models.Artist, error) {
	client, err := m.userClient(ctx, userID)
	if err != nil {
		return nil, err
	}

	page, err := client.CurrentUsersTopArtists(ctx, spotify.Limit(ClampLimit(limit)), spotify.Timerange(spotify.MediumTermRange))
	if err != nil {
		return nil, fetchError("top_artists", err)
	}

	artists := make([]models.Artist, 0, len(page.Artists))
	for _, a := range page.Artists {
		artists = append(artists, artistFromFull(a))
	}
	return artists, nil
}

// RecentlyPlayed повертає нещодавно прослухані треки користувача
func (m *musicService) RecentlyPlayed(ctx context.Context, userID string, limit int) ([]models.PlayedTrack, error) {
	client, err := m.userClient(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := client.PlayerRecentlyPlayedOpt(ctx, &spotify.RecentlyPlayedOptions{Limit: spotify.Numeric(ClampLimit(limit))})
	if err != nil {
		return nil, fetchError("recently_played", err)
	}

	played := make([]models.PlayedTrack, 0, len(items))
	for _, item := range items {
		played = append(played, models.PlayedTrack{
			Track:    trackFromSimple(item.Track, item.Track.Album),
			PlayedAt: item.PlayedAt,
		})
	}
	return played, nil
}

// SearchTracks шукає треки з токеном застосунку (client credentials), новим на кожен виклик
func (m *musicService) SearchTracks(ctx context.Context, query string) ([]models.Track, error) {
	if query == "" {
		return nil, stepError(StepValidate, ErrInvalidRequest, errors.New("missing q"))
	}
	if m.settings.ClientID == "" || m.settings.ClientSecret == "" {
		return nil, stepError(StepValidate, ErrConfiguration, errors.New("spotify client credentials are not configured"))
	}

	token, err := m.provider.ClientToken(ctx)
	if err != nil {
		return nil, err
	}

	result, err := m.api.client(ctx, token).Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(searchLimit))
	if err != nil {
		return nil, fetchError("search", err)
	}

	tracks := []models.Track{}
	if result.Tracks != nil {
		for _, t := range result.Tracks.Tracks {
			tracks = append(tracks, trackFromFull(t))
		}
	}

	logrus.WithFields(logrus.Fields{
		"query":   query,
		"results": len(tracks),
	}).Debug("Spotify track search completed")

	return tracks, nil
}

func (m *musicService) userClient(ctx context.Context, userID string) (*spotify.Client, error) {
	token, err := m.connections.AccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	return m.api.client(ctx, token), nil
}
