package handlers

import (
	"net/http"
	"strings"

	"looply-spotify/internal/middleware"
	"looply-spotify/internal/models"
	"looply-spotify/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuthHandler містить handlers для підключення Spotify (OAuth authorization code flow)
type AuthHandler struct {
	connections     services.ConnectionService
	frontendBaseURL string
}

// NewAuthHandler створює новий AuthHandler
func NewAuthHandler(connections services.ConnectionService, frontendBaseURL string) *AuthHandler {
	return &AuthHandler{
		connections:     connections,
		frontendBaseURL: frontendBaseURL,
	}
}

// Authorize перенаправляє користувача на сторінку авторизації Spotify
// @Summary Spotify Authorize
// @Description Формує URL авторизації Spotify; state містить ID користувача Looply
// @Tags auth
// @Produce json
// @Param user_id query string true "ID користувача Looply"
// @Success 200 {object} models.AuthorizeResponse
// @Success 302 {string} string "Redirect на Spotify"
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /auth/spotify/authorize [get]
func (h *AuthHandler) Authorize(c *gin.Context) {
	userID := c.Query("user_id")

	authURL, err := h.connections.AuthorizeURL(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	logrus.WithField("user_id", userID).Info("🎧 Spotify authorization started")

	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		c.JSON(http.StatusOK, models.AuthorizeResponse{AuthURL: authURL})
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

// Callback обробляє повернення зі Spotify після згоди користувача
// @Summary Spotify Callback
// @Description Обмінює authorization code на токени, зберігає їх і перенаправляє у профіль
// @Tags auth
// @Param code query string true "Authorization Code"
// @Param state query string true "ID користувача Looply"
// @Param error query string false "Помилка від Spotify"
// @Success 302 {string} string "Redirect у профіль"
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /auth/spotify/callback [get]
func (h *AuthHandler) Callback(c *gin.Context) {
	logrus.Info("🔄 Spotify authorization callback")

	var req models.CallbackRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "Invalid callback parameters")
		return
	}

	// Користувач відмовив або Spotify повернув помилку
	if req.Error != "" {
		logrus.WithFields(logrus.Fields{
			"error": req.Error,
			"state": req.State,
		}).Warn("Spotify returned authorization error")

		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:            req.Error,
			ErrorDescription: "Spotify authorization was not granted",
		})
		return
	}

	if req.Code == "" || req.State == "" {
		badRequest(c, "Missing code or state parameter")
		return
	}

	result, err := h.connections.CompleteAuthorization(c.Request.Context(), req.Code, req.State)
	if err != nil {
		respondError(c, err)
		return
	}

	target, err := services.ProfileRedirectURL(h.frontendBaseURL, result)
	if err != nil {
		respondError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"user_id":      result.UserID,
		"display_name": result.DisplayName,
	}).Info("✅ Spotify callback processed successfully")

	c.Redirect(http.StatusFound, target)
}

// Token повертає дійсний access token Spotify, оновлюючи його за потреби
// @Summary Spotify Access Token
// @Description Повертає дійсний access token; прострочений токен оновлюється через refresh token
// @Tags spotify
// @Accept json
// @Produce json
// @Param request body models.TokenRequest true "ID користувача"
// @Security BearerAuth
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/spotify/token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	var req models.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		badRequest(c, "Missing user_id")
		return
	}

	if !middleware.CallerAllowed(c, req.UserID) {
		return
	}

	accessToken, err := h.connections.AccessToken(c.Request.Context(), req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.TokenResponse{AccessToken: accessToken})
}
