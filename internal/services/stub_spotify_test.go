package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

const (
	stubClientID     = "client-id"
	stubClientSecret = "client-secret"
	stubAppToken     = "app-token"
)

// stubSpotify імітує accounts.spotify.com/api/token і Web API для тестів
type stubSpotify struct {
	server *httptest.Server

	mu sync.Mutex
	// refresh відповідь: статус і тіло
	refreshStatus       int
	refreshAccessToken  string
	refreshRefreshToken string
	exchangeStatus      int
	meStatus            int
	topStatus           int
	lastBearer          string
	lastLimit           string
	lastTimeRange       string
	lastRefreshToken    string
	topArtistsBody      string
	topTracksBody       string

	tokenCalls   atomic.Int32
	refreshCalls atomic.Int32
	clientCalls  atomic.Int32
	apiCalls     atomic.Int32
	basicAuthOK  atomic.Bool
}

func newStubSpotify(t *testing.T) *stubSpotify {
	t.Helper()

	s := &stubSpotify{
		refreshStatus:      http.StatusOK,
		refreshAccessToken: "access-2",
		exchangeStatus:     http.StatusOK,
		meStatus:           http.StatusOK,
		topStatus:          http.StatusOK,
		topArtistsBody:     defaultTopArtists,
		topTracksBody:      defaultTopTracks,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", s.handleToken)
	mux.HandleFunc("/v1/me", s.api(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status := s.meStatus
		s.mu.Unlock()
		if status != http.StatusOK {
			writeAPIError(w, status)
			return
		}
		writeJSON(w, http.StatusOK, `{"id":"ann","display_name":"Ann Lee"}`)
	}))
	mux.HandleFunc("/v1/me/top/tracks", s.api(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status, body := s.topStatus, s.topTracksBody
		s.mu.Unlock()
		if status != http.StatusOK {
			writeAPIError(w, status)
			return
		}
		writeJSON(w, http.StatusOK, body)
	}))
	mux.HandleFunc("/v1/me/top/artists", s.api(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status, body := s.topStatus, s.topArtistsBody
		s.mu.Unlock()
		if status != http.StatusOK {
			writeAPIError(w, status)
			return
		}
		writeJSON(w, http.StatusOK, body)
	}))
	mux.HandleFunc("/v1/me/player/recently-played", s.api(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, recentlyPlayedBody)
	}))
	mux.HandleFunc("/v1/search", s.api(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("type") != "track" {
			writeAPIError(w, http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, `{"tracks":`+defaultTopTracks+`}`)
	}))

	s.server = httptest.NewServer(mux)
	t.Cleanup(s.server.Close)
	return s
}

func (s *stubSpotify) settings() SpotifySettings {
	return SpotifySettings{
		ClientID:        stubClientID,
		ClientSecret:    stubClientSecret,
		RedirectURI:     "http://localhost:8080/auth/spotify/callback",
		FrontendBaseURL: "http://localhost:3000",
		AuthURL:         s.server.URL + "/authorize",
		TokenURL:        s.server.URL + "/api/token",
		APIBaseURL:      s.server.URL + "/v1",
	}
}

func (s *stubSpotify) set(fn func(s *stubSpotify)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

func (s *stubSpotify) bearer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastBearer
}

func (s *stubSpotify) handleToken(w http.ResponseWriter, r *http.Request) {
	s.tokenCalls.Add(1)

	user, pass, ok := r.BasicAuth()
	s.basicAuthOK.Store(ok && user == stubClientID && pass == stubClientSecret)
	if !ok || user != stubClientID || pass != stubClientSecret {
		writeJSON(w, http.StatusUnauthorized, `{"error":"invalid_client"}`)
		return
	}

	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, `{"error":"invalid_request"}`)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch r.PostForm.Get("grant_type") {
	case "authorization_code":
		if s.exchangeStatus != http.StatusOK {
			writeJSON(w, s.exchangeStatus, `{"error":"server_error"}`)
			return
		}
		if r.PostForm.Get("code") != "good-code" {
			writeJSON(w, http.StatusBadRequest, `{"error":"invalid_grant","error_description":"Invalid authorization code"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"access_token":"access-1","refresh_token":"refresh-1","expires_in":3600,"token_type":"Bearer","scope":"user-top-read user-read-recently-played"}`)

	case "refresh_token":
		s.refreshCalls.Add(1)
		s.lastRefreshToken = r.PostForm.Get("refresh_token")
		if s.refreshStatus != http.StatusOK {
			writeJSON(w, s.refreshStatus, `{"error":"invalid_grant","error_description":"Refresh token revoked"}`)
			return
		}
		body := map[string]interface{}{
			"access_token": s.refreshAccessToken,
			"expires_in":   3600,
			"token_type":   "Bearer",
		}
		if s.refreshRefreshToken != "" {
			body["refresh_token"] = s.refreshRefreshToken
		}
		raw, _ := json.Marshal(body)
		writeJSON(w, http.StatusOK, string(raw))

	case "client_credentials":
		s.clientCalls.Add(1)
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{"access_token":%q,"expires_in":3600,"token_type":"Bearer"}`, stubAppToken))

	default:
		writeJSON(w, http.StatusBadRequest, `{"error":"unsupported_grant_type"}`)
	}
}

func (s *stubSpotify) api(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.apiCalls.Add(1)
		s.mu.Lock()
		s.lastBearer = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.lastLimit = r.URL.Query().Get("limit")
		s.lastTimeRange = r.URL.Query().Get("time_range")
		s.mu.Unlock()
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func writeAPIError(w http.ResponseWriter, status int) {
	writeJSON(w, status, fmt.Sprintf(`{"error":{"status":%d,"message":"stub error"}}`, status))
}

const defaultTopTracks = `{
  "href": "",
  "limit": 20,
  "offset": 0,
  "total": 2,
  "items": [
    {
      "id": "t1",
      "name": "Blinding Lights",
      "artists": [{"id": "a1", "name": "The Weeknd"}],
      "album": {"id": "al1", "name": "After Hours", "images": [{"url": "https://img/after-hours.jpg", "height": 640, "width": 640}]}
    },
    {
      "id": "t2",
      "name": "Levitating",
      "artists": [{"id": "a2", "name": "Dua Lipa"}, {"id": "a3", "name": "DaBaby"}],
      "album": {"id": "al2", "name": "Future Nostalgia", "images": []}
    }
  ]
}`

const defaultTopArtists = `{
  "href": "",
  "limit": 20,
  "offset": 0,
  "total": 2,
  "items": [
    {"id": "a1", "name": "The Weeknd", "genres": ["canadian contemporary r&b", "pop"], "images": [{"url": "https://img/weeknd.jpg"}]},
    {"id": "a2", "name": "Dua Lipa", "genres": ["dance pop", "pop"], "images": []}
  ]
}`

const recentlyPlayedBody = `{
  "items": [
    {
      "track": {
        "id": "t3",
        "name": "Heat Waves",
        "artists": [{"id": "a4", "name": "Glass Animals"}],
        "album": {"id": "al3", "name": "Dreamland", "images": [{"url": "https://img/dreamland.jpg"}]}
      },
      "played_at": "2025-08-01T10:15:00Z"
    }
  ],
  "limit": 20
}`
