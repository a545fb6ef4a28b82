package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avdoshkin/task-manager/internal/services"
)

type credentialsForm struct {
	Username string `form:"username" binding:"required,max=150"`
	Password string `form:"password" binding:"required,min=6,max=255"`
}

func (h *handlerImpl) HandleRegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{
		"Error":    "",
		"Username": "",
	})
}

func (h *handlerImpl) HandleRegisterSubmit(c *gin.Context) {
	var form credentialsForm
	err := c.ShouldBind(&form)
	if err != nil {
		h.logger.Debug().
			Err(err).
			Msg("invalid registration form")
		c.HTML(http.StatusBadRequest, "register.html", gin.H{
			"Error":    "username is required and the password must be at least 6 characters",
			"Username": c.PostForm("username"),
		})
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

	_, err = h.auth.Register(c, services.LoginParams{
		Username:    form.Username,
		Password:    form.Password,
		Fingerprint: fingerprint,
	})
	if err != nil {
		if errors.Is(err, services.ErrUserAlreadyExists) {
			c.HTML(http.StatusBadRequest, "register.html", gin.H{
				"Error":    "this username is already taken",
				"Username": form.Username,
			})
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to register user")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.Redirect(http.StatusFound, loginPath)
}

func (h *handlerImpl) HandleLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Error":    "",
		"Username": "",
	})
}

func (h *handlerImpl) HandleLoginSubmit(c *gin.Context) {
	var form credentialsForm
	err := c.ShouldBind(&form)
	if err != nil {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{
			"Error":    "both username and password are required",
			"Username": c.PostForm("username"),
		})
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

	result, err := h.auth.Login(c, services.LoginParams{
		Username:    form.Username,
		Password:    form.Password,
		Fingerprint: fingerprint,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound),
			errors.Is(err, services.ErrUserPasswordMismatch):
			c.HTML(http.StatusBadRequest, "login.html", gin.H{
				"Error":    "invalid username or password",
				"Username": form.Username,
			})
		default:
			h.logger.Error().
				Err(err).
				Msg("failed to login")
			c.AbortWithStatus(http.StatusInternalServerError)
		}
		return
	}

	setAuthCookies(c, result)
	c.Redirect(http.StatusFound, listPath)
}

func (h *handlerImpl) HandleLogout(c *gin.Context) {
	accessToken, err := c.Cookie(accessTokenCookie)
	if err == nil {
		claims, parseErr := h.auth.ParseJWTToken(accessToken)
		if parseErr == nil {
			session, sessErr := h.sessions.GetSessionByID(c, claims.Subject)
			if sessErr == nil {
				if logoutErr := h.auth.Logout(c, session.UserID); logoutErr != nil {
					h.logger.Error().
						Err(logoutErr).
						Msg("failed to logout")
				}
			}
		}
	}

	clearCookie(c, accessTokenCookie)
	clearCookie(c, refreshTokenCookie)
	c.Redirect(http.StatusFound, loginPath)
}
