package models

import "time"

// TokenRecord представляє OAuth токени Spotify одного користувача
type TokenRecord struct {
	UserID       string    `gorm:"primaryKey;size:255" json:"user_id"`
	AccessToken  string    `gorm:"not null" json:"-"`
	RefreshToken string    `gorm:"not null" json:"-"`
	Scope        string    `gorm:"size:1024" json:"scope"`
	TokenType    string    `gorm:"size:32" json:"token_type"`
	ExpiresAt    time.Time `gorm:"not null" json:"expires_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName явно задає ім'я таблиці для GORM
func (TokenRecord) TableName() string {
	return "spotify_connections"
}

// Valid повертає true, якщо access token ще не прострочений на момент now
func (r *TokenRecord) Valid(now time.Time) bool {
	return r.AccessToken != "" && r.ExpiresAt.After(now)
}

// Image представляє зображення альбому або артиста
type Image struct {
	URL string `json:"url"`
}

// ArtistRef представляє посилання на артиста в треку
type ArtistRef struct {
	Name string `json:"name"`
}

// Album представляє альбом треку
type Album struct {
	Name   string  `json:"name"`
	Images []Image `json:"images"`
}

// Track представляє трек у стабільному форматі застосунку
type Track struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Artists []ArtistRef `json:"artists"`
	Album   Album       `json:"album"`
}

// Artist представляє артиста у стабільному форматі застосунку
type Artist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
	Images []Image  `json:"images"`
}

// PlayedTrack представляє запис історії прослуховування
type PlayedTrack struct {
	Track    Track     `json:"track"`
	PlayedAt time.Time `json:"played_at"`
}

// TrackList представляє відповідь зі списком треків
type TrackList struct {
	Items []Track `json:"items"`
}

// ArtistList представляє відповідь зі списком артистів
type ArtistList struct {
	Items []Artist `json:"items"`
}

// PlayedTrackList представляє відповідь з історією прослуховування
type PlayedTrackList struct {
	Items []PlayedTrack `json:"items"`
}

// SearchRequest представляє запит на пошук треків
type SearchRequest struct {
	Q string `json:"q"`
}

// SearchResponse представляє результат пошуку треків
type SearchResponse struct {
	Tracks []Track `json:"tracks"`
}

// Compatibility представляє музичну сумісність двох користувачів
type Compatibility struct {
	Score         int      `json:"score"`
	SharedArtists []string `json:"shared_artists"`
	Reason        string   `json:"reason"`
}

// Persona представляє музичну персону користувача
type Persona struct {
	UserID       string `json:"user_id"`
	TopArtist    string `json:"top_artist,omitempty"`
	TopGenre     string `json:"top_genre,omitempty"`
	FavoriteSong string `json:"favorite_song,omitempty"`
	Tagline      string `json:"tagline"`
}
