package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// keyPrefix namespaces gramflow keys in a shared redis instance.
const keyPrefix = "gramflow:tokencount:"

// Config is the cache configuration.
type Config struct {
	// Redis address.
	Addr string `yaml:"addr" json:"addr"`

	// Password, empty for none.
	Password string `yaml:"password" json:"password"`

	// Database number.
	DB int `yaml:"db" json:"db"`

	// Default expiration for cached counts.
	DefaultTTL time.Duration `yaml:"default_ttl" json:"default_ttl"`

	// Maximum retries per command.
	MaxRetries int `yaml:"max_retries" json:"max_retries"`

	// Connection pool size.
	PoolSize int `yaml:"pool_size" json:"pool_size"`
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		Addr:       "localhost:6379",
		DB:         0,
		DefaultTTL: 30 * time.Minute,
		MaxRetries: 3,
		PoolSize:   10,
	}
}

// Manager is the token-count cache manager.
type Manager struct {
	redis  *redis.Client
	config Config
	logger *zap.Logger
	mu     sync.RWMutex
	closed bool
}

// NewManager connects to redis and verifies the connection.
func NewManager(config Config, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := redis.NewClient(&redis.Options{
		Addr:       config.Addr,
		Password:   config.Password,
		DB:         config.DB,
		MaxRetries: config.MaxRetries,
		PoolSize:   config.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", config.Addr, err)
	}

	logger.Info("token count cache connected", zap.String("addr", config.Addr))
	return &Manager{redis: client, config: config, logger: logger}, nil
}

// ContentHash returns the cache key hash for a document body.
func ContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// TokenCount looks up a cached count. The second return is false on miss.
func (m *Manager) TokenCount(ctx context.Context, contentHash string) (int, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return 0, false, fmt.Errorf("cache manager is closed")
	}

	val, err := m.redis.Get(ctx, keyPrefix+contentHash).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("cache get %s: %w", contentHash, err)
	}
	count, err := strconv.Atoi(val)
	if err != nil {
		// A corrupt entry behaves like a miss.
		m.logger.Warn("corrupt token count cache entry",
			zap.String("hash", contentHash), zap.String("value", val))
		return 0, false, nil
	}
	return count, true, nil
}

// SetTokenCount stores a count under the content hash with the default TTL.
func (m *Manager) SetTokenCount(ctx context.Context, contentHash string, count int) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return fmt.Errorf("cache manager is closed")
	}

	err := m.redis.Set(ctx, keyPrefix+contentHash, strconv.Itoa(count), m.config.DefaultTTL).Err()
	if err != nil {
		return fmt.Errorf("cache set %s: %w", contentHash, err)
	}
	return nil
}

// Close releases the redis connection. Subsequent calls are no-ops.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	return m.redis.Close()
}
