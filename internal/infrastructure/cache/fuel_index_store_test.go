package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryFuelIndexStore(t *testing.T) {
	t.Run("returns stored price", func(t *testing.T) {
		store := NewInMemoryFuelIndexStore()
		tenantID := uuid.New()
		price := decimal.NewFromFloat(1.85)

		require.NoError(t, store.SetPrice(context.Background(), tenantID, price, 0))

		got, err := store.CurrentPrice(context.Background(), tenantID)
		assert.NoError(t, err)
		assert.True(t, price.Equal(got))
	})

	t.Run("returns error for unknown tenant", func(t *testing.T) {
		store := NewInMemoryFuelIndexStore()

		_, err := store.CurrentPrice(context.Background(), uuid.New())
		assert.ErrorIs(t, err, ErrFuelIndexUnavailable)
	})

	t.Run("returns error after ttl expiry", func(t *testing.T) {
		store := NewInMemoryFuelIndexStore()
		tenantID := uuid.New()

		require.NoError(t, store.SetPrice(context.Background(), tenantID, decimal.NewFromFloat(1.85), time.Nanosecond))
		time.Sleep(5 * time.Millisecond)

		_, err := store.CurrentPrice(context.Background(), tenantID)
		assert.ErrorIs(t, err, ErrFuelIndexUnavailable)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		store := NewInMemoryFuelIndexStore()

		err := store.SetPrice(context.Background(), uuid.New(), decimal.NewFromInt(-1), 0)
		assert.Error(t, err)
	})

	t.Run("latest write wins", func(t *testing.T) {
		store := NewInMemoryFuelIndexStore()
		tenantID := uuid.New()

		require.NoError(t, store.SetPrice(context.Background(), tenantID, decimal.NewFromFloat(1.70), 0))
		require.NoError(t, store.SetPrice(context.Background(), tenantID, decimal.NewFromFloat(1.92), 0))

		got, err := store.CurrentPrice(context.Background(), tenantID)
		assert.NoError(t, err)
		assert.True(t, decimal.NewFromFloat(1.92).Equal(got))
	})
}
