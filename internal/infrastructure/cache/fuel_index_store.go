package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared"
	"github.com/TarekBesrour/TMSv3-sub004/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FuelIndexStore holds the current fuel index price per tenant. Fuel-type
// surcharges read it at quote time; an external feed (or an operator) writes
// it. A missing price is an error: the quote pipeline degrades by skipping
// fuel surcharges rather than guessing a price.
type FuelIndexStore interface {
	CurrentPrice(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error)
	SetPrice(ctx context.Context, tenantID uuid.UUID, price decimal.Decimal, ttl time.Duration) error
}

// ErrFuelIndexUnavailable is returned when no fuel price is known for a tenant
var ErrFuelIndexUnavailable = shared.NewDomainError("FUEL_INDEX_UNAVAILABLE", "No current fuel index price for tenant")

// RedisFuelIndexStore implements FuelIndexStore using Redis
// This is suitable for distributed deployments where multiple instances
// need to see the same fuel index
type RedisFuelIndexStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisFuelIndexStore creates a new Redis-based fuel index store
func NewRedisFuelIndexStore(cfg RedisConfig) (*RedisFuelIndexStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisFuelIndexStore{
		client:    client,
		keyPrefix: "tariff:fuelindex:",
	}, nil
}

// NewRedisFuelIndexStoreWithClient creates a store with an existing Redis client
// This is useful for testing or when sharing a client across components
func NewRedisFuelIndexStoreWithClient(client *redis.Client, keyPrefix string) *RedisFuelIndexStore {
	if keyPrefix == "" {
		keyPrefix = "tariff:fuelindex:"
	}
	return &RedisFuelIndexStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// CurrentPrice returns the tenant's current fuel index price
func (s *RedisFuelIndexStore) CurrentPrice(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error) {
	value, err := s.client.Get(ctx, s.keyPrefix+tenantID.String()).Result()
	if err == redis.Nil {
		return decimal.Zero, ErrFuelIndexUnavailable
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read fuel index: %w", err)
	}

	price, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid fuel index value %q: %w", value, err)
	}
	return price, nil
}

// SetPrice stores the tenant's current fuel index price. A zero ttl keeps the
// price until the next write.
func (s *RedisFuelIndexStore) SetPrice(ctx context.Context, tenantID uuid.UUID, price decimal.Decimal, ttl time.Duration) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_FUEL_PRICE", "Fuel index price cannot be negative")
	}
	if err := s.client.Set(ctx, s.keyPrefix+tenantID.String(), price.String(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to store fuel index: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisFuelIndexStore) Close() error {
	return s.client.Close()
}

// Ensure RedisFuelIndexStore implements FuelIndexStore
var _ FuelIndexStore = (*RedisFuelIndexStore)(nil)

type fuelIndexEntry struct {
	price     decimal.Decimal
	expiresAt time.Time
}

// InMemoryFuelIndexStore implements FuelIndexStore in process memory
// This is suitable for single-instance deployments and testing
type InMemoryFuelIndexStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]fuelIndexEntry
}

// NewInMemoryFuelIndexStore creates a new in-memory fuel index store
func NewInMemoryFuelIndexStore() *InMemoryFuelIndexStore {
	return &InMemoryFuelIndexStore{entries: make(map[uuid.UUID]fuelIndexEntry)}
}

// CurrentPrice returns the tenant's current fuel index price
func (s *InMemoryFuelIndexStore) CurrentPrice(_ context.Context, tenantID uuid.UUID) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[tenantID]
	if !ok {
		return decimal.Zero, ErrFuelIndexUnavailable
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		return decimal.Zero, ErrFuelIndexUnavailable
	}
	return entry.price, nil
}

// SetPrice stores the tenant's current fuel index price
func (s *InMemoryFuelIndexStore) SetPrice(_ context.Context, tenantID uuid.UUID, price decimal.Decimal, ttl time.Duration) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_FUEL_PRICE", "Fuel index price cannot be negative")
	}

	entry := fuelIndexEntry{price: price}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[tenantID] = entry
	s.mu.Unlock()

	return nil
}

// Ensure InMemoryFuelIndexStore implements FuelIndexStore
var _ FuelIndexStore = (*InMemoryFuelIndexStore)(nil)

// NewFuelIndexStore creates a fuel index store based on whether Redis is
// available. It tries Redis first and falls back to in-memory, which does not
// share state across instances.
func NewFuelIndexStore(cfg config.RedisConfig, logger *zap.Logger) FuelIndexStore {
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := NewRedisFuelIndexStore(RedisConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err == nil {
		logger.Info("using Redis fuel index store")
		return store
	}

	logger.Warn("Redis unavailable, falling back to in-memory fuel index store. "+
		"Fuel index updates will not be shared across instances.",
		zap.Error(err),
	)
	return NewInMemoryFuelIndexStore()
}
