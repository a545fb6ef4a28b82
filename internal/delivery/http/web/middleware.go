package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/avdoshkin/task-manager/internal/services"
)

const (
	userIDCtxKey    = "user_id"
	sessionIDCtxKey = "session_id"

	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"

	loginPath = "/accounts/login/"
	listPath  = "/tasks/"
)

// HandleSessionMiddleware authenticates the browser session from the
// access-token cookie, falling back to the refresh-token cookie when
// the access token no longer parses. Unauthenticated requests are
// redirected to the login page.
func (h *handlerImpl) HandleSessionMiddleware(c *gin.Context) {
	accessToken, err := c.Cookie(accessTokenCookie)
	if err != nil {
		h.redirectToLogin(c)
		return
	}

	claims, err := h.auth.ParseJWTToken(accessToken)
	if err != nil {
		h.logger.Debug().
			Err(err).
			Msg("stale access token, trying refresh")
		claims = h.refreshSession(c)
		if claims == nil {
			return
		}
	}

	session, err := h.sessions.GetSessionByID(c, claims.Subject)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("session not found")
		h.redirectToLogin(c)
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
		h.redirectToLogin(c)
		return
	}

	c.Set(userIDCtxKey, session.UserID)
	c.Set(sessionIDCtxKey, session.ID)
	c.Next()
}

// refreshSession rotates the session from the refresh cookie and
// returns the claims of the fresh access token, or nil after
// redirecting to login.
func (h *handlerImpl) refreshSession(c *gin.Context) *jwt.RegisteredClaims {
	refreshToken, err := c.Cookie(refreshTokenCookie)
	if err != nil {
		h.redirectToLogin(c)
		return nil
	}

	fingerprint, err := generateFingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		c.AbortWithStatus(http.StatusInternalServerError)
		return nil
	}

	result, err := h.auth.Refresh(c, services.RefreshParams{
		RefreshToken: refreshToken,
		Fingerprint:  fingerprint,
	})
	if err != nil {
		h.logger.Debug().
			Err(err).
			Msg("failed to refresh session")
		h.redirectToLogin(c)
		return nil
	}
	setAuthCookies(c, result)

	claims, err := h.auth.ParseJWTToken(result.AccessToken)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to parse fresh token")
		h.redirectToLogin(c)
		return nil
	}
	return claims
}

func (h *handlerImpl) redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, loginPath)
	c.Abort()
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

func setAuthCookies(c *gin.Context, result *services.AuthResult) {
	now := time.Now()
	setCookie(c, accessTokenCookie, result.AccessToken, result.AccessTokenExpiresAt.Sub(now))
	setCookie(c, refreshTokenCookie, result.RefreshToken, result.RefreshTokenExpiresAt.Sub(now))
}

func setCookie(c *gin.Context, name, value string, maxAge time.Duration) {
	const secure, httpOnly = false, true
	c.SetCookie(name, value, int(maxAge.Seconds()),
		"/", "", secure, httpOnly)
}

func clearCookie(c *gin.Context, name string) {
	c.SetCookie(name, "", -1,
		"/", "", false, true)
}
