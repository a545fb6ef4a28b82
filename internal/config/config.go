package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env      string `env:"ENV" env-required:"true"`
	HTTP     HTTPConfig
	Postgres PostgresConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Tasks    TasksConfig
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
	TemplatesGlob   string        `env:"HTTP_TEMPLATES_GLOB" env-default:"web/templates/*.html"`
}

// PostgresConfig is only consulted when the postgres storage driver
// is selected, so none of its fields are required at read time.
type PostgresConfig struct {
	Host           string        `env:"POSTGRES_HOST" env-default:"localhost"`
	Port           int           `env:"POSTGRES_PORT" env-default:"5432"`
	Username       string        `env:"POSTGRES_USERNAME" env-default:"postgres"`
	Password       string        `env:"POSTGRES_PASSWORD" env-default:""`
	Database       string        `env:"POSTGRES_DATABASE" env-default:"task_manager"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
}

type JWTConfig struct {
	Issuer          string        `env:"JWT_ISSUER" env-default:"task-manager"`
	SigningKey      string        `env:"JWT_SIGNING_KEY" env-required:"true"`
	AccessTokenTTL  time.Duration `env:"JWT_ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL time.Duration `env:"JWT_REFRESH_TOKEN_TTL" env-default:"720h"`
}

type StorageConfig struct {
	// Driver selects the backing store: "postgres"
	// or "memory" (local runs, no database).
	Driver string `env:"STORAGE_DRIVER" env-default:"postgres"`
}

type TasksConfig struct {
	// ListOrder is the column task lists are ordered by,
	// ascending: "due_date" or "created_at".
	ListOrder string `env:"TASK_LIST_ORDER" env-default:"due_date"`
	// WebEnforceOwnership unifies the browser detail and edit
	// pages with the API ownership rule. The inherited behavior
	// exposes any task to any authenticated user on those pages,
	// so the default keeps it until a deliberate switch.
	WebEnforceOwnership bool `env:"WEB_ENFORCE_OWNERSHIP" env-default:"false"`
}
