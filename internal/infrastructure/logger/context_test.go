package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newBufferLogger() (*zap.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(&buf), zapcore.DebugLevel)
	return zap.New(core), &buf
}

func validSpanContext(t *testing.T) trace.SpanContext {
	t.Helper()
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
}

func TestFromContext(t *testing.T) {
	t.Run("returns stored logger", func(t *testing.T) {
		l := zap.NewExample()
		ctx := WithContext(context.Background(), l)
		assert.Same(t, l, FromContext(ctx))
	})

	t.Run("returns nop logger when missing", func(t *testing.T) {
		l := FromContext(context.Background())
		require.NotNil(t, l)
		assert.NotPanics(t, func() { l.Info("ignored") })
	})
}

func TestWithRequestID(t *testing.T) {
	base, buf := newBufferLogger()

	ctx, enriched := WithRequestID(context.Background(), base, "req-123")
	enriched.Info("hello")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Same(t, enriched, FromContext(ctx))
	assert.Contains(t, buf.String(), `"request_id":"req-123"`)
}

func TestIdempotencyKey(t *testing.T) {
	assert.Empty(t, GetIdempotencyKey(context.Background()))

	ctx := WithIdempotencyKey(context.Background(), "key-1")
	assert.Equal(t, "key-1", GetIdempotencyKey(ctx))
}

func TestWithTraceContext(t *testing.T) {
	base, buf := newBufferLogger()

	t.Run("no span leaves logger unchanged", func(t *testing.T) {
		assert.Same(t, base, WithTraceContext(context.Background(), base))
	})

	t.Run("valid span adds ids", func(t *testing.T) {
		ctx := trace.ContextWithSpanContext(context.Background(), validSpanContext(t))
		WithTraceContext(ctx, base).Info("traced")

		out := buf.String()
		assert.Contains(t, out, `"trace_id":"4bf92f3577b34da6a3ce929d0e0e4736"`)
		assert.Contains(t, out, `"span_id":"00f067aa0ba902b7"`)
	})
}

func TestContextLogger(t *testing.T) {
	t.Run("stored logger is not enriched twice with request id", func(t *testing.T) {
		base, buf := newBufferLogger()
		ctx, _ := WithRequestID(context.Background(), base, "req-1")
		ctx = WithIdempotencyKey(ctx, "idem-1")

		L(ctx).Info("recibo created", zap.String("numero_recibo", "R1"))

		out := buf.String()
		assert.Equal(t, 1, strings.Count(out, `"request_id"`))
		assert.Contains(t, out, `"idempotency_key":"idem-1"`)
		assert.Contains(t, out, `"numero_recibo":"R1"`)
	})

	t.Run("explicit logger picks up request id from context", func(t *testing.T) {
		base, buf := newBufferLogger()
		ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-2")

		WithLogger(ctx, base).Warn("quota exceeded")

		assert.Contains(t, buf.String(), `"request_id":"req-2"`)
	})

	t.Run("trace ids included", func(t *testing.T) {
		base, buf := newBufferLogger()
		ctx := trace.ContextWithSpanContext(context.Background(), validSpanContext(t))

		WithLogger(ctx, base).With(zap.String("dni", "12345678A")).Error("storage failure")

		out := buf.String()
		assert.Contains(t, out, `"trace_id"`)
		assert.Contains(t, out, `"dni":"12345678A"`)
	})

	t.Run("empty context adds nothing", func(t *testing.T) {
		base, buf := newBufferLogger()
		WithLogger(context.Background(), base).Debug("plain")

		out := buf.String()
		assert.NotContains(t, out, "request_id")
		assert.NotContains(t, out, "trace_id")
		assert.NotContains(t, out, "idempotency_key")
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		cl := &ContextLogger{ctx: context.Background()}
		assert.NotPanics(t, func() {
			cl.Info("test")
			cl.With(zap.Int("n", 1)).Info("test")
			_ = cl.Zap()
		})
	})
}
