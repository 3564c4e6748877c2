package services

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"

	"looply-spotify/internal/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	maxCompatibilityScore = 99
	maxSharedArtists      = 5
	tasteSampleLimit      = 20

	notConnectedReason = "Connect Spotify accounts to see compatibility!"
)

// Compatibility порівнює артистів двох користувачів і рахує відсоток збігу
func (m *musicService) Compatibility(ctx context.Context, userID, otherUserID string) (*models.Compatibility, error) {
	if userID == "" || otherUserID == "" {
		return nil, stepError(StepCompatibility, ErrInvalidRequest, errors.New("missing user_id or other_user_id"))
	}

	var mine, theirs map[string]struct{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		mine, err = m.artistSet(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		theirs, err = m.artistSet(gctx, otherUserID)
		return err
	})

	if err := g.Wait(); err != nil {
		if !tasteUnavailable(err) {
			return nil, err
		}
		if !errors.Is(err, ErrNotConnected) {
			logrus.WithError(err).WithFields(logrus.Fields{
				"user_id":       userID,
				"other_user_id": otherUserID,
				"step":          FailedStep(err),
			}).Warn("Spotify data unavailable, compatibility falls back to empty result")
		}
		return &models.Compatibility{
			Score:         0,
			SharedArtists: []string{},
			Reason:        notConnectedReason,
		}, nil
	}

	result := ScoreCompatibility(mine, theirs)

	logrus.WithFields(logrus.Fields{
		"user_id":       userID,
		"other_user_id": otherUserID,
		"score":         result.Score,
	}).Debug("Music compatibility computed")

	return result, nil
}

// tasteUnavailable повертає true для помилок, при яких дані Spotify просто недоступні
// (немає підключення, відкликаний токен, збій Spotify); помилки сховища і конфігурації пробиваються далі
func tasteUnavailable(err error) bool {
	return errors.Is(err, ErrNotConnected) ||
		errors.Is(err, ErrUpstreamAuth) ||
		errors.Is(err, ErrUpstreamUnavailable) ||
		errors.Is(err, ErrFetchFailed)
}

// artistSet збирає імена артистів (у нижньому регістрі) з топ артистів і топ треків
func (m *musicService) artistSet(ctx context.Context, userID string) (map[string]struct{}, error) {
	artists, err := m.TopArtists(ctx, userID, tasteSampleLimit)
	if err != nil {
		return nil, err
	}
	tracks, err := m.TopTracks(ctx, userID, tasteSampleLimit)
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(artists)+len(tracks))
	for _, a := range artists {
		set[strings.ToLower(a.Name)] = struct{}{}
	}
	for _, t := range tracks {
		for _, a := range t.Artists {
			set[strings.ToLower(a.Name)] = struct{}{}
		}
	}
	return set, nil
}

// ScoreCompatibility рахує результат сумісності для двох множин артистів
func ScoreCompatibility(a, b map[string]struct{}) *models.Compatibility {
	shared := make([]string, 0)
	for name := range a {
		if _, ok := b[name]; ok {
			shared = append(shared, name)
		}
	}
	sort.Strings(shared)

	score := 0
	if smaller := min(len(a), len(b)); smaller > 0 {
		score = int(math.Round(float64(len(shared)) / float64(smaller) * 100))
	}
	if score > maxCompatibilityScore {
		score = maxCompatibilityScore
	}

	if len(shared) > maxSharedArtists {
		shared = shared[:maxSharedArtists]
	}

	return &models.Compatibility{
		Score:         score,
		SharedArtists: shared,
		Reason:        compatibilityReason(score),
	}
}

func compatibilityReason(score int) string {
	switch {
	case score >= 80:
		return "You're music soulmates! 🎵✨"
	case score >= 60:
		return "Great musical connection! 🎶"
	case score >= 40:
		return "Some shared vibes! 🎤"
	case score >= 20:
		return "Different but interesting tastes 🎨"
	default:
		return "Opposites in music! Time to discover new sounds 🌟"
	}
}
