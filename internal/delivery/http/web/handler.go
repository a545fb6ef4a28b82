// Package web is the server-rendered browser surface: HTML forms,
// cookie sessions, redirect-based flows. It shares the services and
// the authorization policy with the JSON API surface.
package web

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/avdoshkin/task-manager/internal/services"
)

type Handler interface {
	HandleRegisterPage(c *gin.Context)
	HandleRegisterSubmit(c *gin.Context)
	HandleLoginPage(c *gin.Context)
	HandleLoginSubmit(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleSessionMiddleware(c *gin.Context)

	HandleTaskList(c *gin.Context)
	HandleTaskDetail(c *gin.Context)
	HandleTaskCreatePage(c *gin.Context)
	HandleTaskCreateSubmit(c *gin.Context)
	HandleTaskEditPage(c *gin.Context)
	HandleTaskEditSubmit(c *gin.Context)
	HandleTaskDeletePage(c *gin.Context)
	HandleTaskDeleteSubmit(c *gin.Context)
}

type handlerImpl struct {
	logger   zerolog.Logger
	auth     services.AuthService
	sessions services.SessionService
	tasks    services.TaskService
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	sessionService services.SessionService,
	taskService services.TaskService,
) Handler {
	return &handlerImpl{
		logger:   logger,
		auth:     authService,
		sessions: sessionService,
		tasks:    taskService,
	}
}

// RegisterRoutes mounts the browser surface.
func RegisterRoutes(router gin.IRouter, h Handler) {
	accounts := router.Group("/accounts")
	accounts.GET("/register/", h.HandleRegisterPage)
	accounts.POST("/register/", h.HandleRegisterSubmit)
	accounts.GET("/login/", h.HandleLoginPage)
	accounts.POST("/login/", h.HandleLoginSubmit)
	accounts.GET("/logout/", h.HandleLogout)

	tasks := router.Group("/tasks", h.HandleSessionMiddleware)
	tasks.GET("/", h.HandleTaskList)
	tasks.GET("/create/", h.HandleTaskCreatePage)
	tasks.POST("/create/", h.HandleTaskCreateSubmit)
	tasks.GET("/:id/", h.HandleTaskDetail)
	tasks.GET("/:id/edit/", h.HandleTaskEditPage)
	tasks.POST("/:id/edit/", h.HandleTaskEditSubmit)
	// Destructive action stays behind POST; the GET route only
	// renders the confirmation page.
	tasks.GET("/:id/delete/", h.HandleTaskDeletePage)
	tasks.POST("/:id/delete/", h.HandleTaskDeleteSubmit)
}
