package app

import (
	"fmt"

	"github.com/avdoshkin/task-manager/internal/config"
	"github.com/avdoshkin/task-manager/internal/storage"
)

var (
	globalTaskStore    storage.TaskStore
	globalUserStore    storage.UserStore
	globalSessionStore storage.SessionStore
)

func MustInitStorage() {
	cfg := config.Global().Storage

	switch cfg.Driver {
	case config.StorageDriverPostgres:
		MustConnectPostgres()
		globalTaskStore = storage.NewPostgresTaskStore(globalLogger, globalPostgresPool)
		globalUserStore = storage.NewPostgresUserStore(globalLogger, globalPostgresPool)
		globalSessionStore = storage.NewPostgresSessionStore(globalLogger, globalPostgresPool)
	case config.StorageDriverMemory:
		globalTaskStore = storage.NewMemoryTaskStore()
		globalUserStore = storage.NewMemoryUserStore()
		globalSessionStore = storage.NewMemorySessionStore()
	default:
		globalLogger.Error().
			Str("driver", cfg.Driver).
			Msg("unknown storage driver")
		panic(fmt.Errorf("unknown storage driver: %s", cfg.Driver))
	}

	globalLogger.Info().
		Str("driver", cfg.Driver).
		Msg("initialized storage")
}

func CloseStorage() {
	if globalPostgresPool != nil {
		DisconnectPostgres()
	}
}
