package middleware

import (
	"net/http"
	"time"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared"
	"github.com/TarekBesrour/TMSv3-sub004/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyHeaderKey is the request header carrying the client-chosen key
const IdempotencyHeaderKey = "Idempotency-Key"

// IdempotencyMiddlewareConfig holds configuration for the idempotency middleware
type IdempotencyMiddlewareConfig struct {
	// Store holds processed request keys. Required; a nil store disables the middleware.
	Store shared.IdempotencyStore
	// TTL is how long a processed key blocks replays. Default: 24 hours.
	TTL time.Duration
	// HeaderName overrides the request header. Default: Idempotency-Key.
	HeaderName string
}

// Idempotency returns a middleware that rejects replayed mutating requests.
// Clients opt in per request by sending an Idempotency-Key header; the key is
// scoped to the tenant, method and path, so the same key on different
// endpoints does not collide. Requests without the header pass through
// untouched, as do reads. Store errors fail open: a broken Redis must not
// take invoice registration down with it.
func Idempotency(cfg IdempotencyMiddlewareConfig) gin.HandlerFunc {
	if cfg.Store == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	if cfg.TTL <= 0 {
		cfg.TTL = shared.DefaultIdempotencyConfig().TTL
	}
	headerName := cfg.HeaderName
	if headerName == "" {
		headerName = IdempotencyHeaderKey
	}

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		key := c.GetHeader(headerName)
		if key == "" {
			c.Next()
			return
		}

		scopedKey := GetTenantID(c) + ":" + c.Request.Method + ":" + c.Request.URL.Path + ":" + key

		fresh, err := cfg.Store.MarkProcessed(c.Request.Context(), scopedKey, cfg.TTL)
		if err != nil {
			logger.FromContext(c.Request.Context()).Warn("idempotency check failed, allowing request",
				zap.Error(err))
			c.Next()
			return
		}
		if !fresh {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DUPLICATE_REQUEST",
					"message": "A request with this idempotency key was already processed",
				},
			})
			return
		}

		c.Next()
	}
}
