package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/davidbz/promptc/internal/cache/redis"
	"github.com/davidbz/promptc/internal/dispatch/openai"
	"github.com/davidbz/promptc/internal/domain"
	"github.com/davidbz/promptc/internal/observability"
)

// Dispatch backends selectable with DISPATCH_BACKEND.
const (
	BackendOpenAI   = "openai"
	BackendGoOpenAI = "goopenai"
	BackendEcho     = "echo"
)

// Config represents the prompt server configuration.
type Config struct {
	Server   ServerConfig
	CORS     CORSConfig
	Log      observability.LogConfig
	Dispatch DispatchConfig
	OpenAI   openai.Config
	Chat     domain.ChatDefaults
	Redis    redis.Config
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int `env:"SERVER_PORT"          envDefault:"8080"`
	ReadTimeout  int `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"90"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization,X-Request-Id"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// DispatchConfig selects the client used to reach the model provider.
type DispatchConfig struct {
	Backend string `env:"DISPATCH_BACKEND" envDefault:"openai"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out
	*ServerConfig
	*CORSConfig
	*observability.LogConfig
	*DispatchConfig
	OpenAI *openai.Config
	*domain.ChatDefaults
	Redis *redis.Config
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		dig.Out{},
		&cfg.Server,
		&cfg.CORS,
		&cfg.Log,
		&cfg.Dispatch,
		&cfg.OpenAI,
		&cfg.Chat,
		&cfg.Redis,
	}
}
