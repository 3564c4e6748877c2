package services

import (
	"context"
	"errors"
	"net/http"

	"looply-spotify/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
)

// spotifyAPI створює клієнти Spotify Web API з bearer токеном
type spotifyAPI struct {
	baseURL    string
	httpClient *http.Client
}

func newSpotifyAPI(settings SpotifySettings, httpClient *http.Client) spotifyAPI {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return spotifyAPI{
		baseURL:    settings.apiBaseURL(),
		httpClient: httpClient,
	}
}

// client повертає клієнт, який додає Authorization: Bearer <token> до кожного запиту
func (a spotifyAPI) client(ctx context.Context, accessToken string) *spotify.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))

	var opts []spotify.ClientOption
	if a.baseURL != "" {
		opts = append(opts, spotify.WithBaseURL(a.baseURL))
	}
	return spotify.New(httpClient, opts...)
}

// fetchError перетворює помилку Spotify API на ErrFetchFailed
func fetchError(resource string, err error) error {
	fields := logrus.Fields{"resource": resource}

	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		fields["status_code"] = apiErr.Status
	}
	logrus.WithError(err).WithFields(fields).Warn("Spotify API request failed")

	return stepError(StepFetch, ErrFetchFailed, err)
}

func trackFromSimple(t spotify.SimpleTrack, album spotify.SimpleAlbum) models.Track {
	artists := make([]models.ArtistRef, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, models.ArtistRef{Name: a.Name})
	}

	return models.Track{
		ID:      string(t.ID),
		Name:    t.Name,
		Artists: artists,
		Album: models.Album{
			Name:   album.Name,
			Images: imagesFrom(album.Images),
		},
	}
}

func trackFromFull(t spotify.FullTrack) models.Track {
	return trackFromSimple(t.SimpleTrack, t.Album)
}

func artistFromFull(a spotify.FullArtist) models.Artist {
	genres := a.Genres
	if genres == nil {
		genres = []string{}
	}
	return models.Artist{
		ID:     string(a.ID),
		Name:   a.Name,
		Genres: genres,
		Images: imagesFrom(a.Images),
	}
}

func imagesFrom(images []spotify.Image) []models.Image {
	result := make([]models.Image, 0, len(images))
	for _, img := range images {
		result = append(result, models.Image{URL: img.URL})
	}
	return result
}
