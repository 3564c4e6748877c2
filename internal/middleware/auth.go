package middleware

import (
	"net/http"
	"strings"

	"looply-spotify/internal/models"
	"looply-spotify/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const callerIDKey = "caller_id"

// CallerAuthMiddleware перевіряє bearer токен викликача і зберігає його user ID у контексті
func CallerAuthMiddleware(tokens services.CallerTokenService) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logrus.Warn("Missing Authorization header")
			abortUnauthorized(c, "unauthorized", "Missing Authorization header")
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			logrus.Warn("Invalid Authorization header format")
			abortUnauthorized(c, "unauthorized", "Invalid Authorization header format")
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			logrus.Warn("Empty bearer token")
			abortUnauthorized(c, "unauthorized", "Empty bearer token")
			return
		}

		callerID, err := tokens.VerifyToken(token)
		if err != nil {
			logrus.WithError(err).Warn("Invalid caller token")
			abortUnauthorized(c, "invalid_token", "Token validation failed")
			return
		}

		c.Set(callerIDKey, callerID)

		logrus.WithFields(logrus.Fields{
			"caller_id": callerID,
			"path":      c.Request.URL.Path,
		}).Debug("Caller authenticated successfully")

		c.Next()
	})
}

// GetCallerID витягує ID викликача з контексту
func GetCallerID(c *gin.Context) (string, bool) {
	callerID, exists := c.Get(callerIDKey)
	if !exists {
		return "", false
	}

	callerIDStr, ok := callerID.(string)
	return callerIDStr, ok
}

// CallerAllowed перевіряє, що викликач діє від імені userID. Без перевірки викликачів дозволено все.
// При відмові відповідь 403 вже відправлена.
func CallerAllowed(c *gin.Context, userID string) bool {
	callerID, ok := GetCallerID(c)
	if !ok || callerID == userID {
		return true
	}

	logrus.WithFields(logrus.Fields{
		"caller_id": callerID,
		"user_id":   userID,
	}).Warn("Caller attempted to access another user's Spotify data")

	c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{
		Error:            "forbidden",
		ErrorDescription: "Token subject does not match user_id",
	})
	return false
}

func abortUnauthorized(c *gin.Context, code, description string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
		Error:            code,
		ErrorDescription: description,
	})
}
