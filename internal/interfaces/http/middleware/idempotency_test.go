package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockIdempotencyStore is a test implementation of shared.IdempotencyStore
type mockIdempotencyStore struct {
	seen     map[string]bool
	failWith error
	lastKey  string
	lastTTL  time.Duration
}

func newMockIdempotencyStore() *mockIdempotencyStore {
	return &mockIdempotencyStore{seen: make(map[string]bool)}
}

func (m *mockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if m.failWith != nil {
		return false, m.failWith
	}
	m.lastKey = key
	m.lastTTL = ttl
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}

func (m *mockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	return m.seen[key], nil
}

func (m *mockIdempotencyStore) Close() error { return nil }

func setupIdempotencyRouter(store *mockIdempotencyStore) *gin.Engine {
	engine := gin.New()
	engine.Use(Idempotency(IdempotencyMiddlewareConfig{Store: store}))
	engine.POST("/invoices", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"success": true})
	})
	engine.GET("/invoices", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return engine
}

func TestIdempotency_FirstRequestPasses(t *testing.T) {
	store := newMockIdempotencyStore()
	engine := setupIdempotencyRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/invoices", nil)
	req.Header.Set(IdempotencyHeaderKey, "abc-123")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestIdempotency_ReplayRejected(t *testing.T) {
	store := newMockIdempotencyStore()
	engine := setupIdempotencyRouter(store)

	first := httptest.NewRequest(http.MethodPost, "/invoices", nil)
	first.Header.Set(IdempotencyHeaderKey, "abc-123")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, first)
	require.Equal(t, http.StatusCreated, w.Code)

	replay := httptest.NewRequest(http.MethodPost, "/invoices", nil)
	replay.Header.Set(IdempotencyHeaderKey, "abc-123")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, replay)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "DUPLICATE_REQUEST")
}

func TestIdempotency_MissingHeaderPassesThrough(t *testing.T) {
	store := newMockIdempotencyStore()
	engine := setupIdempotencyRouter(store)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/invoices", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
	}
	assert.Empty(t, store.lastKey, "no key should be recorded without the header")
}

func TestIdempotency_ReadsAreNeverChecked(t *testing.T) {
	store := newMockIdempotencyStore()
	engine := setupIdempotencyRouter(store)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/invoices", nil)
		req.Header.Set(IdempotencyHeaderKey, "abc-123")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.Empty(t, store.lastKey)
}

func TestIdempotency_KeyIsScopedByPath(t *testing.T) {
	store := newMockIdempotencyStore()
	engine := gin.New()
	engine.Use(Idempotency(IdempotencyMiddlewareConfig{Store: store}))
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"success": true}) }
	engine.POST("/invoices", ok)
	engine.POST("/rates", ok)

	first := httptest.NewRequest(http.MethodPost, "/invoices", nil)
	first.Header.Set(IdempotencyHeaderKey, "shared-key")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, first)
	require.Equal(t, http.StatusOK, w.Code)

	// Same key on a different endpoint is a different request
	other := httptest.NewRequest(http.MethodPost, "/rates", nil)
	other.Header.Set(IdempotencyHeaderKey, "shared-key")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, other)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIdempotency_StoreErrorFailsOpen(t *testing.T) {
	store := newMockIdempotencyStore()
	store.failWith = errors.New("redis down")
	engine := setupIdempotencyRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/invoices", nil)
	req.Header.Set(IdempotencyHeaderKey, "abc-123")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestIdempotency_NilStoreIsNoop(t *testing.T) {
	engine := gin.New()
	engine.Use(Idempotency(IdempotencyMiddlewareConfig{}))
	engine.POST("/invoices", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"success": true})
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/invoices", nil)
		req.Header.Set(IdempotencyHeaderKey, "abc-123")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
	}
}

func TestIdempotency_DefaultTTLApplied(t *testing.T) {
	store := newMockIdempotencyStore()
	engine := setupIdempotencyRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/invoices", nil)
	req.Header.Set(IdempotencyHeaderKey, "ttl-check")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, 24*time.Hour, store.lastTTL)
}
