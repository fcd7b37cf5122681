package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/davidbz/promptc/internal/cache/redis"
	"github.com/davidbz/promptc/internal/config"
	"github.com/davidbz/promptc/internal/dispatch/echo"
	"github.com/davidbz/promptc/internal/dispatch/goopenai"
	"github.com/davidbz/promptc/internal/dispatch/openai"
	"github.com/davidbz/promptc/internal/domain"
	"github.com/davidbz/promptc/internal/http"
	"github.com/davidbz/promptc/internal/http/middleware"
	"github.com/davidbz/promptc/internal/observability"
	"github.com/davidbz/promptc/internal/promptfn"
	"github.com/davidbz/promptc/internal/prompts"
	"github.com/davidbz/promptc/internal/registry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	container := buildContainer()

	err := container.Invoke(func(server *http.Server) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errs := make(chan error, 1)
		go func() { errs <- server.Start() }()

		select {
		case err := <-errs:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if err != nil {
		log.Fatalf("Server stopped with error: %v", err)
	}
}

func buildContainer() *dig.Container {
	container := dig.New()

	// Configuration
	if err := container.Provide(config.Load); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}

	// Observability
	if err := container.Provide(observability.InitLogger); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}
	if err := container.Invoke(observability.SetLogger); err != nil {
		log.Fatalf("Failed to install logger: %v", err)
	}

	// Dispatcher
	if err := container.Provide(newDispatcher); err != nil {
		log.Fatalf("Failed to provide dispatcher: %v", err)
	}

	// Prompt Registry
	if err := container.Provide(newPromptRegistry); err != nil {
		log.Fatalf("Failed to provide registry: %v", err)
	}

	// HTTP Layer
	if err := container.Provide(middleware.BuildMiddlewareChain); err != nil {
		log.Fatalf("Failed to provide middleware chain: %v", err)
	}
	if err := container.Provide(http.NewHandler); err != nil {
		log.Fatalf("Failed to provide HTTP handler: %v", err)
	}
	if err := container.Provide(http.NewServer); err != nil {
		log.Fatalf("Failed to provide HTTP server: %v", err)
	}

	return container
}

// dispatcherParams groups the configuration needed to build the dispatcher.
type dispatcherParams struct {
	dig.In

	Dispatch *config.DispatchConfig
	OpenAI   *openai.Config
	Redis    *redis.Config
	Logger   *zap.Logger
}

// newDispatcher builds the configured backend, wrapped by the redis cache when
// REDIS_ADDR is set. Without an API key the OpenAI backends return nil and the
// call endpoint stays unavailable.
func newDispatcher(p dispatcherParams) (domain.Dispatcher, error) {
	if p.Dispatch.Backend != config.BackendEcho && p.OpenAI.APIKey == "" {
		p.Logger.Warn("OPENAI_API_KEY not set, prompts can be compiled but not called")
		return nil, nil
	}

	var (
		dispatcher domain.Dispatcher
		err        error
	)
	switch p.Dispatch.Backend {
	case config.BackendEcho:
		dispatcher = echo.NewDispatcher()
	case config.BackendOpenAI:
		dispatcher, err = openai.NewDispatcher(*p.OpenAI)
	case config.BackendGoOpenAI:
		dispatcher, err = goopenai.NewDispatcher(goopenai.Config{
			APIKey:  p.OpenAI.APIKey,
			BaseURL: p.OpenAI.BaseURL,
			Timeout: p.OpenAI.Timeout,
		})
	default:
		return nil, fmt.Errorf("unknown dispatch backend %q", p.Dispatch.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s dispatcher: %w", p.Dispatch.Backend, err)
	}

	if !p.Redis.Enabled() {
		return dispatcher, nil
	}

	p.Logger.Info("caching completions in redis",
		zap.String("addr", p.Redis.Addr),
		zap.Int("ttl_seconds", p.Redis.TTL))

	return redis.NewDispatcher(redis.NewClient(*p.Redis), dispatcher, time.Duration(p.Redis.TTL)*time.Second)
}

// newPromptRegistry registers every prompt function with the shared dispatcher and sampling defaults.
func newPromptRegistry(dispatcher domain.Dispatcher, defaults *domain.ChatDefaults) (domain.PromptRegistry, error) {
	fns, err := prompts.All(
		promptfn.WithDispatcher(dispatcher),
		promptfn.WithDefaults(*defaults),
	)
	if err != nil {
		return nil, err
	}

	reg := registry.NewRegistry()
	ctx := context.Background()
	for _, fn := range fns {
		if err := reg.Register(ctx, fn); err != nil {
			return nil, fmt.Errorf("failed to register prompt %s: %w", fn.Name(), err)
		}
	}

	return reg, nil
}
