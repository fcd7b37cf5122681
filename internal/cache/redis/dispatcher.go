package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/davidbz/promptc/internal/domain"
	"github.com/davidbz/promptc/internal/observability"
)

const keyPrefix = "promptc:completion:"

// Config contains redis cache settings. An empty Addr disables the cache.
type Config struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB"       envDefault:"0"`
	TTL      int    `env:"CACHE_TTL"      envDefault:"3600"`
}

// Enabled reports whether a redis address is configured.
func (c Config) Enabled() bool {
	return c.Addr != ""
}

// Store is the subset of the redis client used by the cache.
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// NewClient opens a redis client from cfg.
func NewClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Dispatcher is a read-through cache in front of another dispatcher. Identical
// chat requests are answered from redis until the entry expires.
type Dispatcher struct {
	store Store
	next  domain.Dispatcher
	ttl   time.Duration
}

// NewDispatcher wraps next with a response cache backed by store.
func NewDispatcher(store Store, next domain.Dispatcher, ttl time.Duration) (*Dispatcher, error) {
	if store == nil {
		return nil, errors.New("redis store cannot be nil")
	}
	if next == nil {
		return nil, errors.New("next dispatcher cannot be nil")
	}

	return &Dispatcher{store: store, next: next, ttl: ttl}, nil
}

// Name returns the wrapped dispatcher's name.
func (d *Dispatcher) Name() string {
	return d.next.Name()
}

// Dispatch returns a cached completion for req, or dispatches and caches it.
// Redis failures are logged and the request falls through to the wrapped dispatcher.
func (d *Dispatcher) Dispatch(ctx context.Context, req *domain.ChatRequest) (*domain.Completion, error) {
	logger := observability.FromContext(ctx)

	key, err := cacheKey(req)
	if err != nil {
		return nil, err
	}

	cached, err := d.lookup(ctx, key)
	switch {
	case err != nil:
		logger.Warn("cache lookup failed", observability.Error(err), observability.String("cache_key", key))
	case cached != nil:
		logger.Debug("cache hit", observability.String("cache_key", key))
		return cached, nil
	default:
		logger.Debug("cache miss", observability.String("cache_key", key))
	}

	completion, err := d.next.Dispatch(ctx, req)
	if err != nil || completion == nil {
		return completion, err
	}

	if storeErr := d.save(ctx, key, completion); storeErr != nil {
		logger.Warn("failed to cache completion", observability.Error(storeErr), observability.String("cache_key", key))
	}

	return completion, nil
}

func (d *Dispatcher) lookup(ctx context.Context, key string) (*domain.Completion, error) {
	raw, err := d.store.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var completion domain.Completion
	if err := json.Unmarshal(raw, &completion); err != nil {
		return nil, fmt.Errorf("failed to decode cached completion: %w", err)
	}

	return &completion, nil
}

// cacheKey hashes the full request payload, sampling parameters included.
func cacheKey(req *domain.ChatRequest) (string, error) {
	if req == nil {
		return "", errors.New("request cannot be nil")
	}

	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	hash := sha256.Sum256(data)
	return keyPrefix + hex.EncodeToString(hash[:]), nil
}

func (d *Dispatcher) save(ctx context.Context, key string, completion *domain.Completion) error {
	data, err := json.Marshal(completion)
	if err != nil {
		return fmt.Errorf("failed to encode completion: %w", err)
	}

	return d.store.Set(ctx, key, data, d.ttl).Err()
}
