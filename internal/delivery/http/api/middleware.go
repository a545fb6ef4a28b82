package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	userIDCtxKey    = "user_id"
	sessionIDCtxKey = "session_id"
)

func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header == "" {
		h.logger.Error().Msg("authorization header required")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	const bearerPrefix = "Bearer"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix {
		h.logger.Error().Msg("invalid authorization header")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	accessToken := parts[1]
	claims, err := h.auth.ParseJWTToken(accessToken)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to parse token")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	session, err := h.sessions.GetSessionByID(c, claims.Subject)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("session not found")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	fingerprint, err := generateFingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	if fingerprint != session.Fingerprint {
		h.logger.Error().Msg("fingerprint mismatch")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	c.Set(userIDCtxKey, session.UserID)
	c.Set(sessionIDCtxKey, session.ID)
	c.Next()
}

func generateFingerprint(c *gin.Context) (string, error) {
	fingerprintBytes, err := json.Marshal(map[string]string{
		"client_ip":  c.ClientIP(),
		"user_agent": c.Request.UserAgent(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal json: %w", err)
	}
	return string(fingerprintBytes), nil
}

func getStringFromContext(c *gin.Context, key string) (string, bool) {
	value, exists := c.Get(key)
	if !exists {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}
