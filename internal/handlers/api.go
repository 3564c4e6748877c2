package handlers

import (
	"net/http"
	"strconv"

	"looply-spotify/internal/middleware"
	"looply-spotify/internal/models"
	"looply-spotify/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// APIHandler містить handlers для читання даних Spotify
type APIHandler struct {
	connections services.ConnectionService
	music       services.MusicService
}

// NewAPIHandler створює новий APIHandler
func NewAPIHandler(connections services.ConnectionService, music services.MusicService) *APIHandler {
	return &APIHandler{
		connections: connections,
		music:       music,
	}
}

// Search шукає треки в каталозі Spotify
// @Summary Search Tracks
// @Description Шукає треки (до 10 результатів) з токеном застосунку
// @Tags spotify
// @Accept json
// @Produce json
// @Param request body models.SearchRequest true "Пошуковий запит"
// @Security BearerAuth
// @Success 200 {object} models.SearchResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /api/v1/spotify/search [post]
func (h *APIHandler) Search(c *gin.Context) {
	var req models.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Q == "" {
		badRequest(c, "Missing q")
		return
	}

	tracks, err := h.music.SearchTracks(c.Request.Context(), req.Q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SearchResponse{Tracks: tracks})
}

// TopTracks повертає топ треки користувача
// @Summary Top Tracks
// @Description Повертає найпопулярніші треки користувача за середній період
// @Tags spotify
// @Produce json
// @Param user_id path string true "ID користувача"
// @Param limit query int false "Кількість (1-50, за замовчуванням 20)"
// @Security BearerAuth
// @Success 200 {object} models.TrackList
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /api/v1/spotify/users/{user_id}/top-tracks [get]
func (h *APIHandler) TopTracks(c *gin.Context) {
	userID, limit, ok := h.userAndLimit(c)
	if !ok {
		return
	}

	tracks, err := h.music.TopTracks(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.TrackList{Items: tracks})
}

// TopArtists повертає топ артистів користувача
// @Summary Top Artists
// @Description Повертає найпопулярніших артистів користувача за середній період
// @Tags spotify
// @Produce json
// @Param user_id path string true "ID користувача"
// @Param limit query int false "Кількість (1-50, за замовчуванням 20)"
// @Security BearerAuth
// @Success 200 {object} models.ArtistList
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /api/v1/spotify/users/{user_id}/top-artists [get]
func (h *APIHandler) TopArtists(c *gin.Context) {
	userID, limit, ok := h.userAndLimit(c)
	if !ok {
		return
	}

	artists, err := h.music.TopArtists(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ArtistList{Items: artists})
}

// RecentlyPlayed повертає історію прослуховування користувача
// @Summary Recently Played
// @Description Повертає нещодавно прослухані треки
// @Tags spotify
// @Produce json
// @Param user_id path string true "ID користувача"
// @Param limit query int false "Кількість (1-50, за замовчуванням 20)"
// @Security BearerAuth
// @Success 200 {object} models.PlayedTrackList
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /api/v1/spotify/users/{user_id}/recently-played [get]
func (h *APIHandler) RecentlyPlayed(c *gin.Context) {
	userID, limit, ok := h.userAndLimit(c)
	if !ok {
		return
	}

	played, err := h.music.RecentlyPlayed(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.PlayedTrackList{Items: played})
}

// Connection повертає стан підключення Spotify
// @Summary Connection Status
// @Description Перевіряє, чи підключений Spotify (без звернення до Spotify)
// @Tags spotify
// @Produce json
// @Param user_id path string true "ID користувача"
// @Security BearerAuth
// @Success 200 {object} models.ConnectionStatus
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/spotify/users/{user_id}/connection [get]
func (h *APIHandler) Connection(c *gin.Context) {
	userID := c.Param("user_id")
	if !middleware.CallerAllowed(c, userID) {
		return
	}

	connected, err := h.connections.IsConnected(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ConnectionStatus{UserID: userID, Connected: connected})
}

// Persona повертає музичну персону користувача
// @Summary Music Persona
// @Description Будує музичну персону з топ артистів і треків
// @Tags spotify
// @Produce json
// @Param user_id path string true "ID користувача"
// @Security BearerAuth
// @Success 200 {object} models.Persona
// @Failure 404 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /api/v1/spotify/users/{user_id}/persona [get]
func (h *APIHandler) Persona(c *gin.Context) {
	userID := c.Param("user_id")
	if !middleware.CallerAllowed(c, userID) {
		return
	}

	persona, err := h.music.Persona(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, persona)
}

// Compatibility повертає музичну сумісність двох користувачів
// @Summary Music Compatibility
// @Description Порівнює артистів двох користувачів
// @Tags spotify
// @Produce json
// @Param user_id query string true "ID поточного користувача"
// @Param other_user_id query string true "ID іншого користувача"
// @Security BearerAuth
// @Success 200 {object} models.Compatibility
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /api/v1/spotify/compatibility [get]
func (h *APIHandler) Compatibility(c *gin.Context) {
	userID := c.Query("user_id")
	otherUserID := c.Query("other_user_id")
	if userID == "" || otherUserID == "" {
		badRequest(c, "Missing user_id or other_user_id")
		return
	}
	if !middleware.CallerAllowed(c, userID) {
		return
	}

	result, err := h.music.Compatibility(c.Request.Context(), userID, otherUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"user_id":       userID,
		"other_user_id": otherUserID,
		"score":         result.Score,
	}).Info("🎶 Compatibility calculated")

	c.JSON(http.StatusOK, result)
}

func (h *APIHandler) userAndLimit(c *gin.Context) (string, int, bool) {
	userID := c.Param("user_id")
	if userID == "" {
		badRequest(c, "Missing user_id")
		return "", 0, false
	}
	if !middleware.CallerAllowed(c, userID) {
		return "", 0, false
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "limit must be an integer")
			return "", 0, false
		}
		limit = max(n, 1)
	}
	return userID, services.ClampLimit(limit), true
}
