package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/moleculab/chemalyzer/internal/infrastructure/monitoring/logging"
	apperrors "github.com/moleculab/chemalyzer/pkg/errors"
	types "github.com/moleculab/chemalyzer/pkg/types/analysis"
)

// Recovery returns middleware that converts handler panics into a logged
// 500 response carrying the standard failure envelope. The panic value and
// stack go to the log only; the wire message stays generic.
func Recovery(logger logging.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				fields := []logging.Field{
					logging.Any("panic", r),
					logging.String("method", c.Request.Method),
					logging.String("path", c.Request.URL.Path),
					logging.String("stack", string(debug.Stack())),
				}
				if id := ContextRequestID(c); id != "" {
					fields = append(fields, logging.String("request_id", id))
				}
				logger.Error("request handler panicked", fields...)

				if !c.Writer.Written() {
					resp := types.NewErrorResponse(
						apperrors.DefaultMessageForCode(apperrors.CodeInternal))
					c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
					return
				}
				c.Abort()
			}
		}()

		c.Next()
	}
}
