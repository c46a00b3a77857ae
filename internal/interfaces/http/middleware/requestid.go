package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is the header carrying the request correlation ID.
const RequestIDHeader = "X-Request-ID"

// requestIDKey is the gin context key under which the ID is stored.
const requestIDKey = "request_id"

// RequestID returns middleware that ensures every request carries a
// correlation ID. A client-supplied X-Request-ID is honored; otherwise a
// fresh UUID is generated. The ID is echoed on the response so clients can
// reference it in reports.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Request.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(requestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// ContextRequestID returns the correlation ID stored by RequestID, or an
// empty string when the middleware did not run.
func ContextRequestID(c *gin.Context) string {
	if id, ok := c.Get(requestIDKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
