package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/avdoshkin/task-manager/internal/services"
)

type Handler interface {
	HandleLogin(c *gin.Context)
	HandleRefresh(c *gin.Context)
	HandleRegister(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleListTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandlePatchTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
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

// RegisterRoutes mounts the JSON surface under /api.
func RegisterRoutes(router gin.IRouter, h Handler) {
	apiRouter := router.Group("/api")
	apiRouter.POST("/login/", h.HandleLogin)
	apiRouter.POST("/register/", h.HandleRegister)
	apiRouter.POST("/refresh/", h.HandleRefresh)
	apiRouter.POST("/logout/", h.HandleAuthMiddleware, h.HandleLogout)

	taskRouter := apiRouter.Group("/tasks", h.HandleAuthMiddleware)
	taskRouter.GET("/", h.HandleListTasks)
	taskRouter.POST("/", h.HandleCreateTask)
	taskRouter.GET("/:id/", h.HandleGetTask)
	taskRouter.PUT("/:id/", h.HandleUpdateTask)
	taskRouter.PATCH("/:id/", h.HandlePatchTask)
	taskRouter.DELETE("/:id/", h.HandleDeleteTask)
}
