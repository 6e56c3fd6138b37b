package middleware

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/MrJorgx/PracticasExt/internal/domain/shared"
	"github.com/MrJorgx/PracticasExt/internal/infrastructure/logger"
	"github.com/MrJorgx/PracticasExt/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// HeaderIdempotencyKey is sent by clients that may retry a create
	HeaderIdempotencyKey = "Idempotency-Key"
	// HeaderIdempotentReplayed marks a response served from the store
	HeaderIdempotentReplayed = "Idempotent-Replayed"
	// MaxIdempotencyKeyLength bounds client supplied keys
	MaxIdempotencyKeyLength = 255
)

// Idempotency replays the recorded response when a POST is retried with the
// same Idempotency-Key. Responses below 500 are recorded; server errors
// release the key so the client can retry. A concurrent request with a key
// still in flight gets 409 REQUEST_IN_PROGRESS. Store failures let the
// request through unprotected.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if c.Request.Method != http.MethodPost || key == "" {
			c.Next()
			return
		}
		if len(key) > MaxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeValidation, "Idempotency-Key is too long", GetRequestID(c)))
			return
		}

		ctx := logger.WithIdempotencyKey(c.Request.Context(), key)
		c.Request = c.Request.WithContext(ctx)
		log := logger.L(ctx)
		storeKey := c.Request.Method + " " + c.FullPath() + " " + key

		if replayed := replay(c, store, storeKey, log); replayed {
			return
		}

		reserved, err := store.Reserve(ctx, storeKey, ttl)
		if err != nil {
			log.Warn("Idempotency store unavailable, processing without deduplication", zap.Error(err))
			c.Next()
			return
		}
		if !reserved {
			if replay(c, store, storeKey, log) {
				return
			}
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRequestInProgress,
				"A request with this Idempotency-Key is already being processed",
				GetRequestID(c),
			))
			return
		}

		writer := &capturingWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()

		// The request may have been cancelled by now; the record must still land.
		storeCtx := context.WithoutCancel(ctx)
		status := writer.Status()
		if status >= http.StatusInternalServerError {
			if err := store.Release(storeCtx, storeKey); err != nil {
				log.Warn("Failed to release idempotency key", zap.Error(err))
			}
			return
		}

		resp := shared.StoredResponse{
			Status:      status,
			ContentType: writer.Header().Get("Content-Type"),
			Body:        writer.body.Bytes(),
		}
		if err := store.Complete(storeCtx, storeKey, resp, ttl); err != nil {
			log.Warn("Failed to record idempotent response", zap.Error(err))
		}
	}
}

func replay(c *gin.Context, store shared.IdempotencyStore, storeKey string, log *logger.ContextLogger) bool {
	resp, found, err := store.Lookup(c.Request.Context(), storeKey)
	if err != nil {
		log.Warn("Idempotency lookup failed", zap.Error(err))
		return false
	}
	if !found {
		return false
	}
	log.Info("Replaying idempotent response", zap.Int("status", resp.Status))
	c.Header(HeaderIdempotentReplayed, "true")
	c.Data(resp.Status, resp.ContentType, resp.Body)
	c.Abort()
	return true
}

type capturingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
