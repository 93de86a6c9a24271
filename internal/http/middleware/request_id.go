package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

const (
	HeaderRequestID = "X-Request-ID"
	CtxKeyRequestID = "request_id"
)

// RequestID tags every request with a sortable id so the JSON log lines of
// one request can be collated. An inbound X-Request-ID is trusted as-is.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if rid == "" {
			rid = strings.ToLower(ulid.Make().String())
		}

		c.Set(CtxKeyRequestID, rid)
		c.Writer.Header().Set(HeaderRequestID, rid)

		c.Next()
	}
}

func GetRequestID(c *gin.Context) string {
	if v, ok := c.Get(CtxKeyRequestID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
