package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avdoshkin/task-manager/internal/services"
)

type loginRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Password string `json:"password" binding:"required,max=255"`
}

type loginResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (h *handlerImpl) HandleLogin(c *gin.Context) {
	var req loginRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	fingerprint, err := generateFingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	result, err := h.auth.Login(c, services.LoginParams{
		Username:    req.Username,
		Password:    req.Password,
		Fingerprint: fingerprint,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to login")
		switch {
		// Bad credentials are a validation failure of the token
		// endpoint, not an authentication challenge.
		case errors.Is(err, services.ErrUserNotFound),
			errors.Is(err, services.ErrUserPasswordMismatch):
			abort(c, newBadRequestError(errInvalidCredentials.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Token:        result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresAt:    result.AccessTokenExpiresAt,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *handlerImpl) HandleRefresh(c *gin.Context) {
	var req refreshRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	fingerprint, err := generateFingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	result, err := h.auth.Refresh(c, services.RefreshParams{
		RefreshToken: req.RefreshToken,
		Fingerprint:  fingerprint,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to refresh session")
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			abort(c, newUnauthorizedError(services.ErrSessionNotFound.Error()))
		case errors.Is(err, services.ErrSessionExpired):
			abort(c, newUnauthorizedError(services.ErrSessionExpired.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Token:        result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresAt:    result.AccessTokenExpiresAt,
	})
}

type registerRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Password string `json:"password" binding:"required,min=6,max=255"`
}

type registerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (h *handlerImpl) HandleRegister(c *gin.Context) {
	var req registerRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}
	h.logger.Info().
		Str("username", req.Username).
		Msg("register request")

	fingerprint, err := generateFingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	result, err := h.auth.Register(c, services.LoginParams{
		Username:    req.Username,
		Password:    req.Password,
		Fingerprint: fingerprint,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to register user")
		switch {
		case errors.Is(err, services.ErrUserAlreadyExists):
			abort(c, newConflictError(services.ErrUserAlreadyExists.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusCreated, registerResponse{
		ID:       result.UserID,
		Username: result.Username,
	})
}

func (h *handlerImpl) HandleLogout(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	err := h.auth.Logout(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to logout")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.Status(http.StatusNoContent)
}
