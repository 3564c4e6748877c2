package services

import (
	"strings"
	"time"
)

// DefaultExpiryMargin віднімається від expires_in, щоб не використовувати токен на межі закінчення
const DefaultExpiryMargin = 60 * time.Second

// DefaultScopes дозволи, які запитуються при підключенні Spotify
var DefaultScopes = []string{
	"user-read-email",
	"user-read-private",
	"user-top-read",
	"user-read-recently-played",
	"playlist-read-private",
	"user-library-read",
}

// SpotifySettings містить явну конфігурацію інтеграції зі Spotify
type SpotifySettings struct {
	ClientID        string
	ClientSecret    string
	RedirectURI     string
	FrontendBaseURL string
	AuthURL         string
	TokenURL        string
	APIBaseURL      string
	Scopes          []string
	ExpiryMargin    time.Duration
	HTTPTimeout     time.Duration
}

// Missing повертає назви обов'язкових параметрів, які не задані
func (s SpotifySettings) Missing() []string {
	var missing []string
	if s.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if s.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if s.RedirectURI == "" {
		missing = append(missing, "redirect_uri")
	}
	if s.FrontendBaseURL == "" {
		missing = append(missing, "frontend_base_url")
	}
	return missing
}

func (s SpotifySettings) margin() time.Duration {
	if s.ExpiryMargin <= 0 {
		return DefaultExpiryMargin
	}
	return s.ExpiryMargin
}

func (s SpotifySettings) scopes() []string {
	if len(s.Scopes) == 0 {
		return DefaultScopes
	}
	return s.Scopes
}

func (s SpotifySettings) apiBaseURL() string {
	if s.APIBaseURL == "" {
		return ""
	}
	if strings.HasSuffix(s.APIBaseURL, "/") {
		return s.APIBaseURL
	}
	return s.APIBaseURL + "/"
}

// maskSecret обрізає код або токен для логування
func maskSecret(value string) string {
	if len(value) <= 6 {
		return "***"
	}
	return value[:6] + "..."
}
