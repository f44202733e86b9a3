package middleware

import (
	"github.com/gin-gonic/gin"
	domainerrors "vnbank.backend/internal/domain/errors"
	"vnbank.backend/internal/interfaces/http/response"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	// IdempotencyKeyCtx is the gin context key holding a validated key
	IdempotencyKeyCtx = "idempotencyKey"

	maxIdempotencyKeyLength = 128
)

// IdempotencyKeyMiddleware validates the Idempotency-Key header and exposes
// it to handlers. Replay protection itself lives in the transfer engine.
func IdempotencyKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength || !printableASCII(key) {
			response.Error(c, domainerrors.BadRequest("Idempotency-Key must be at most 128 printable ASCII characters"))
			c.Abort()
			return
		}
		c.Set(IdempotencyKeyCtx, key)
		c.Next()
	}
}

// GetIdempotencyKey returns the validated key, or "" when none was sent
func GetIdempotencyKey(c *gin.Context) string {
	return c.GetString(IdempotencyKeyCtx)
}

func printableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x21 || s[i] > 0x7e {
			return false
		}
	}
	return true
}
