package middleware

import (
	"github.com/MrJorgx/PracticasExt/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// HeaderRequestID carries the request id in both directions
	HeaderRequestID = "X-Request-ID"
	// MaxRequestIDLength bounds client supplied ids
	MaxRequestIDLength = 128
)

// RequestID reuses a well-formed X-Request-ID header or generates a UUID,
// stores it in the gin context and echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}
		c.Set(logger.GinRequestIDKey, requestID)
		c.Writer.Header().Set(HeaderRequestID, requestID)
		c.Next()
	}
}

// GetRequestID returns the id set by RequestID, or "" outside that middleware
func GetRequestID(c *gin.Context) string {
	return c.GetString(logger.GinRequestIDKey)
}

func validRequestID(id string) bool {
	if id == "" || len(id) > MaxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
