package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/avdoshkin/task-manager/internal/authz"
	"github.com/avdoshkin/task-manager/internal/config"
	"github.com/avdoshkin/task-manager/internal/delivery/http/api"
	"github.com/avdoshkin/task-manager/internal/delivery/http/web"
	"github.com/avdoshkin/task-manager/internal/services"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.LoadHTMLGlob(httpCfg.TemplatesGlob)
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter) {
	cfg := config.Global()
	jwtCfg := cfg.JWT

	policy := authz.NewPolicy(cfg.Tasks.WebEnforceOwnership)

	authService := services.NewAuthService(
		globalLogger,
		globalUserStore,
		globalSessionStore,
		jwtCfg.Issuer,
		[]byte(jwtCfg.SigningKey),
		jwtCfg.AccessTokenTTL,
		jwtCfg.RefreshTokenTTL,
	)
	sessionService := services.NewSessionService(globalLogger, globalSessionStore)

	apiTaskService := services.NewTaskService(
		globalLogger,
		globalTaskStore,
		policy,
		authz.SurfaceAPI,
		cfg.Tasks.ListOrder,
	)
	webTaskService := services.NewTaskService(
		globalLogger,
		globalTaskStore,
		policy,
		authz.SurfaceWeb,
		cfg.Tasks.ListOrder,
	)

	api.RegisterRoutes(router, api.New(
		globalLogger,
		authService,
		sessionService,
		apiTaskService,
	))
	web.RegisterRoutes(router, web.New(
		globalLogger,
		authService,
		sessionService,
		webTaskService,
	))
}
