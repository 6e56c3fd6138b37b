package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/MrJorgx/PracticasExt/internal/domain/shared"
	"github.com/MrJorgx/PracticasExt/internal/infrastructure/config"
	"github.com/MrJorgx/PracticasExt/internal/infrastructure/logger"
	"github.com/MrJorgx/PracticasExt/internal/interfaces/http/dto"
	"github.com/MrJorgx/PracticasExt/internal/interfaces/http/handler"
	"github.com/MrJorgx/PracticasExt/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// EngineConfig carries everything the HTTP engine is assembled from
type EngineConfig struct {
	HTTP   config.HTTPConfig
	Logger *zap.Logger

	// TracerProvider enables otelgin spans when non-nil
	TracerProvider trace.TracerProvider
	ServiceName    string

	// IdempotencyStore enables Idempotency-Key handling on creates when non-nil
	IdempotencyStore shared.IdempotencyStore
	IdempotencyTTL   time.Duration

	Clientes *handler.ClienteHandler
	Recibos  *handler.ReciboHandler
	Health   *handler.HealthHandler
}

// NewEngine assembles the gin engine with the middleware chain and all routes
func NewEngine(cfg EngineConfig) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	engine.Use(middleware.RequestID())
	if cfg.TracerProvider != nil {
		engine.Use(middleware.Tracing(cfg.ServiceName, cfg.TracerProvider), middleware.SpanAttributes())
	}
	engine.Use(
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORS(cfg.HTTP),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Route not found", middleware.GetRequestID(c)))
	})

	if cfg.Health != nil {
		engine.GET("/health", cfg.Health.Live)
		engine.GET("/health/ready", cfg.Health.Ready)
	}

	var createMiddleware []gin.HandlerFunc
	if cfg.IdempotencyStore != nil {
		createMiddleware = append(createMiddleware, middleware.Idempotency(cfg.IdempotencyStore, cfg.IdempotencyTTL))
	}

	r := NewRouter(engine)
	if cfg.Clientes != nil {
		r.Register(ClienteRoutes(cfg.Clientes, createMiddleware...))
		r.Register(ClienteAliasRoutes(cfg.Clientes, createMiddleware...))
	}
	if cfg.Recibos != nil {
		r.Register(ReciboRoutes(cfg.Recibos, createMiddleware...))
		r.Register(ReciboAliasRoutes(cfg.Recibos, createMiddleware...))
	}
	r.Setup()

	return engine, nil
}
