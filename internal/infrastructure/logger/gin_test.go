package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func findEntry(t *testing.T, logs []observer.LoggedEntry, msg string) observer.LoggedEntry {
	t.Helper()
	for _, e := range logs {
		if e.Message == msg {
			return e
		}
	}
	require.FailNow(t, "log entry not found", msg)
	return observer.LoggedEntry{}
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		status    int
		wantLevel zapcore.Level
	}{
		{"success logged at info", http.StatusOK, zapcore.InfoLevel},
		{"client error logged at warn", http.StatusNotFound, zapcore.WarnLevel},
		{"server error logged at error", http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.InfoLevel)

			router := gin.New()
			router.Use(func(c *gin.Context) {
				c.Set(GinRequestIDKey, "req-123")
				c.Next()
			})
			router.Use(GinMiddleware(zap.New(core)))
			router.GET("/api/clientes", func(c *gin.Context) {
				c.Status(tt.status)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/clientes?ordenarPor=dni", nil)
			router.ServeHTTP(w, req)

			entry := findEntry(t, recorded.All(), "HTTP Request")
			assert.Equal(t, tt.wantLevel, entry.Level)
			fields := entry.ContextMap()
			assert.Equal(t, "req-123", fields["request_id"])
			assert.Equal(t, "/api/clientes", fields["path"])
			assert.Equal(t, "ordenarPor=dni", fields["query"])
			assert.Equal(t, int64(tt.status), fields["status"])
		})
	}
}

func TestGinMiddleware_StoresRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.InfoLevel)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(GinRequestIDKey, "req-ctx")
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/x", func(c *gin.Context) {
		assert.Equal(t, "req-ctx", GetRequestID(c.Request.Context()))
		L(c.Request.Context()).Info("from service")
		GetGinLogger(c).Info("from handler")
		c.Status(http.StatusNoContent)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, "req-ctx", findEntry(t, recorded.All(), "from service").ContextMap()["request_id"])
	assert.Equal(t, "req-ctx", findEntry(t, recorded.All(), "from handler").ContextMap()["request_id"])
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"INTERNAL_ERROR"`)
	assert.Contains(t, w.Body.String(), "An unexpected error occurred")
	entry := findEntry(t, recorded.All(), "Panic recovered")
	assert.Equal(t, "/panic", entry.ContextMap()["path"])
}

func TestGetGinLogger_Missing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.NotNil(t, GetGinLogger(c))
}
