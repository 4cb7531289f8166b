// internal/cache/balance_cache.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"walpay-wallet/internal/domain"
)

// Config holds Redis connection settings. An empty Addr disables caching.
type Config struct {
	Addr     string        `envconfig:"ADDR"`
	Password string        `envconfig:"PASSWORD"`
	DB       int           `envconfig:"DB" default:"0"`
	TTL      time.Duration `envconfig:"BALANCE_TTL" default:"30s"`
	Prefix   string        `envconfig:"PREFIX" default:"walpay:balance:"`
}

// BalanceCache is a read-through cache for balance views. It is never
// consulted by the ledger engine; writers store the committed rows.
// Set never replaces an entry carrying a higher Version, so a reader that
// loaded a row before a commit cannot overwrite the writer's copy.
type BalanceCache interface {
	Get(ctx context.Context, userID int64) (*domain.Balance, bool)
	Set(ctx context.Context, balance *domain.Balance)
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

// setIfNotOlder writes ARGV[1] unless the cached entry has a higher version.
// KEYS[1] entry key, ARGV[1] JSON, ARGV[2] version, ARGV[3] ttl in ms.
var setIfNotOlder = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if current then
  local ok, cached = pcall(cjson.decode, current)
  if ok and type(cached) == 'table' and tonumber(cached['version']) and tonumber(cached['version']) > tonumber(ARGV[2]) then
    return 0
  end
end
if tonumber(ARGV[3]) > 0 then
  redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
else
  redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

// RedisBalanceCache stores balances as JSON under prefix+userID.
// Redis errors degrade to cache misses; they are logged, never returned.
type RedisBalanceCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

// NewRedisBalanceCache creates a RedisBalanceCache.
func NewRedisBalanceCache(client *redis.Client, cfg Config, logger *slog.Logger) *RedisBalanceCache {
	return &RedisBalanceCache{
		client: client,
		ttl:    cfg.TTL,
		prefix: cfg.Prefix,
		logger: logger,
	}
}

func (c *RedisBalanceCache) key(userID int64) string {
	return c.prefix + strconv.FormatInt(userID, 10)
}

// Get returns the cached balance for userID, if any.
func (c *RedisBalanceCache) Get(ctx context.Context, userID int64) (*domain.Balance, bool) {
	data, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Balance cache read failed", "user_id", userID, "error", err)
		}
		return nil, false
	}
	var balance domain.Balance
	if err := json.Unmarshal(data, &balance); err != nil {
		c.logger.Warn("Balance cache entry is corrupt", "user_id", userID, "error", err)
		return nil, false
	}
	return &balance, true
}

// Set stores balance with the configured TTL unless a newer version is cached.
func (c *RedisBalanceCache) Set(ctx context.Context, balance *domain.Balance) {
	data, err := json.Marshal(balance)
	if err != nil {
		c.logger.Warn("Balance cache marshal failed", "user_id", balance.UserID, "error", err)
		return
	}
	stored, err := setIfNotOlder.Run(ctx, c.client, []string{c.key(balance.UserID)},
		data, balance.Version, c.ttl.Milliseconds()).Int()
	if err != nil {
		c.logger.Warn("Balance cache write failed", "user_id", balance.UserID, "error", err)
		return
	}
	if stored == 0 {
		c.logger.Debug("Balance cache kept newer entry", "user_id", balance.UserID, "version", balance.Version)
	}
}

// NopBalanceCache is used when Redis is not configured.
type NopBalanceCache struct{}

func (NopBalanceCache) Get(context.Context, int64) (*domain.Balance, bool) { return nil, false }
func (NopBalanceCache) Set(context.Context, *domain.Balance)               {}
