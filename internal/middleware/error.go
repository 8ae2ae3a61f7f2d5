package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/nutriscan/backend/internal/types"
)

const msgInternalError = "Erreur interne du serveur"

// Recovery converts a panic in a handler into a JSON 500 response
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					zap.String("request_id", c.GetString(RequestIDKey)),
					zap.Any("error", err),
					zap.String("stack", string(debug.Stack())),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, types.ErrorResponse{
					Error:   msgInternalError,
					Details: fmt.Sprint(err),
				})
			}
		}()

		c.Next()
	}
}
