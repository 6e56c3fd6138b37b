package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tracing starts a server span per request with otelgin. Health probes are
// not traced.
func Tracing(serviceName string, tp trace.TracerProvider) gin.HandlerFunc {
	opts := []otelgin.Option{
		otelgin.WithGinFilter(func(c *gin.Context) bool {
			return c.FullPath() != "/health" && c.FullPath() != "/health/ready"
		}),
	}
	if tp != nil {
		opts = append(opts, otelgin.WithTracerProvider(tp))
	}
	return otelgin.Middleware(serviceName, opts...)
}

// SpanAttributes adds the request id and idempotency key to the active span.
// It must run after Tracing and RequestID.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if id := GetRequestID(c); id != "" {
				span.SetAttributes(attribute.String("request_id", id))
			}
			if key := c.GetHeader(HeaderIdempotencyKey); key != "" {
				span.SetAttributes(attribute.String("idempotency_key", key))
			}
		}
		c.Next()
	}
}
