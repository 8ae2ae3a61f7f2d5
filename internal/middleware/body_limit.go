package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutriscan/backend/internal/types"
)

// MsgPayloadTooLarge is returned for request bodies above the limit
const MsgPayloadTooLarge = "Requête trop volumineuse"

// BodyLimit caps the request body at limit bytes. Declared oversized bodies
// are rejected up front; others fail when the handler reads past the limit.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, types.ErrorResponse{Error: MsgPayloadTooLarge})
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
