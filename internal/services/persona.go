package services

import (
	"context"
	"strings"

	"looply-spotify/internal/models"
)

const personaSampleLimit = 10

// taglines перевіряються по черзі, перший збіг підрядка виграє
var taglines = []struct {
	genre   string
	tagline string
}{
	{"pop", "Pop Princess 💫"},
	{"rock", "Rock Royalty 🎸"},
	{"hip-hop", "Hip-Hop Hero 🎤"},
	{"rap", "Rap Ruler 👑"},
	{"indie", "Indie Explorer 🌟"},
	{"electronic", "Beat Master 🎛️"},
	{"jazz", "Jazz Virtuoso 🎺"},
	{"classical", "Symphony Soul 🎼"},
	{"country", "Country Cruiser 🤠"},
	{"r&b", "R&B Royalty 👸"},
	{"alternative", "Alt Adventurer 🚀"},
	{"folk", "Folk Philosopher 🍃"},
}

const defaultTagline = "Music Lover 🎵"

// Persona будує музичну персону користувача з його топ артистів і треків
func (m *musicService) Persona(ctx context.Context, userID string) (*models.Persona, error) {
	artists, err := m.TopArtists(ctx, userID, personaSampleLimit)
	if err != nil {
		return nil, err
	}
	tracks, err := m.TopTracks(ctx, userID, personaSampleLimit)
	if err != nil {
		return nil, err
	}
	return BuildPersona(userID, artists, tracks), nil
}

// BuildPersona чиста функція для побудови персони
func BuildPersona(userID string, artists []models.Artist, tracks []models.Track) *models.Persona {
	persona := &models.Persona{UserID: userID}

	if len(artists) > 0 {
		persona.TopArtist = artists[0].Name
	}
	if len(tracks) > 0 {
		persona.FavoriteSong = tracks[0].Name
	}

	persona.TopGenre = topGenre(artists)
	persona.Tagline = PersonaTagline(persona.TopGenre)

	return persona
}

// topGenre повертає найчастіший жанр; при рівності перемагає той, що трапився раніше
func topGenre(artists []models.Artist) string {
	counts := make(map[string]int)
	var order []string

	for _, a := range artists {
		for _, g := range a.Genres {
			if _, seen := counts[g]; !seen {
				order = append(order, g)
			}
			counts[g]++
		}
	}

	best := ""
	for _, g := range order {
		if counts[g] > counts[best] {
			best = g
		}
	}
	return best
}

// PersonaTagline підбирає підпис за жанром
func PersonaTagline(genre string) string {
	normalized := strings.ToLower(genre)
	if normalized == "" {
		return defaultTagline
	}
	for _, t := range taglines {
		if strings.Contains(normalized, t.genre) {
			return t.tagline
		}
	}
	return defaultTagline
}
