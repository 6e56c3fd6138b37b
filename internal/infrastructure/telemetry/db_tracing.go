package telemetry

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig controls the otelgorm plugin.
type DBTracingConfig struct {
	Enabled bool
	// DBName is reported as db.name on every span
	DBName string
	// LogFullSQL keeps bound query variables in db.statement. Development only.
	LogFullSQL bool
}

// RegisterDBTracing installs the otelgorm plugin so every repository call
// produces a child span of the request span.
func RegisterDBTracing(db *gorm.DB, tp trace.TracerProvider, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(cfg.DBName),
		otelgorm.WithoutMetrics(),
	}
	if tp != nil {
		opts = append(opts, otelgorm.WithTracerProvider(tp))
	}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return fmt.Errorf("failed to register otelgorm plugin: %w", err)
	}

	logger.Info("Database tracing enabled",
		zap.String("db_name", cfg.DBName),
		zap.Bool("log_full_sql", cfg.LogFullSQL),
	)
	return nil
}
