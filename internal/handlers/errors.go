package handlers

import (
	"errors"
	"net/http"

	"looply-spotify/internal/models"
	"looply-spotify/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type errorMapping struct {
	kind        error
	status      int
	code        string
	description string
}

// порядок важливий: перший збіг класу помилки визначає відповідь
var errorMappings = []errorMapping{
	{services.ErrInvalidRequest, http.StatusBadRequest, "invalid_request", "Missing or invalid parameters"},
	{services.ErrNotConnected, http.StatusNotFound, "not_connected", "Spotify not connected"},
	{services.ErrUpstreamAuth, http.StatusBadRequest, "invalid_grant", "Spotify rejected the authorization"},
	{services.ErrUpstreamUnavailable, http.StatusInternalServerError, "upstream_unavailable", "Spotify is unavailable"},
	{services.ErrConfiguration, http.StatusInternalServerError, "server_error", "Server configuration error"},
	{services.ErrStore, http.StatusInternalServerError, "server_error", "Failed to access token store"},
	{services.ErrFetchFailed, http.StatusBadGateway, "fetch_failed", "Failed to fetch data from Spotify"},
}

// StatusFor повертає HTTP статус і тіло помилки для класу помилки сервісу
func StatusFor(err error) (int, models.ErrorResponse) {
	for _, m := range errorMappings {
		if errors.Is(err, m.kind) {
			return m.status, models.ErrorResponse{Error: m.code, ErrorDescription: m.description}
		}
	}
	return http.StatusInternalServerError, models.ErrorResponse{Error: "server_error", ErrorDescription: "Internal server error"}
}

// respondError логує помилку і відправляє JSON з відповідним статусом
func respondError(c *gin.Context, err error) {
	status, body := StatusFor(err)

	entry := logrus.WithError(err).WithFields(logrus.Fields{
		"status": status,
		"step":   services.FailedStep(err),
		"path":   c.Request.URL.Path,
	})
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	c.JSON(status, body)
}

func badRequest(c *gin.Context, description string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:            "invalid_request",
		ErrorDescription: description,
	})
}
