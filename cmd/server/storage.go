package main

import (
	"context"
	"fmt"

	appledger "github.com/MrJorgx/PracticasExt/internal/application/ledger"
	"github.com/MrJorgx/PracticasExt/internal/domain/ledger"
	"github.com/MrJorgx/PracticasExt/internal/infrastructure/config"
	"github.com/MrJorgx/PracticasExt/internal/infrastructure/logger"
	"github.com/MrJorgx/PracticasExt/internal/infrastructure/migration"
	"github.com/MrJorgx/PracticasExt/internal/infrastructure/persistence"
	"github.com/MrJorgx/PracticasExt/internal/infrastructure/persistence/memory"
	"github.com/MrJorgx/PracticasExt/internal/infrastructure/telemetry"
	"github.com/MrJorgx/PracticasExt/internal/interfaces/http/handler"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// storage is the repository set the services run on
type storage struct {
	clientes ledger.ClienteRepository
	recibos  ledger.ReciboRepository
	txScope  appledger.TransactionScope
	ping     handler.Pinger
	close    func() error
}

func openStorage(ctx context.Context, cfg *config.Config, tp trace.TracerProvider, log *zap.Logger) (*storage, error) {
	if cfg.Database.Driver == config.DriverMemory {
		log.Warn("Using in-memory storage; data is lost on restart")
		s := memory.NewStore()
		return &storage{
			clientes: s.Clientes(),
			recibos:  s.Recibos(),
			txScope:  s,
			ping:     s,
			close:    func() error { return nil },
		}, nil
	}

	if cfg.Database.Driver == config.DriverPostgres && cfg.Database.AutoMigrate {
		if err := migrateUp(cfg.Database, log); err != nil {
			return nil, err
		}
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Database.LogLevel),
		logger.WithSlowThreshold(cfg.Database.SlowThreshold),
	)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		return nil, err
	}
	log.Info("Database connected successfully", zap.String("driver", db.Driver()))

	if db.Driver() == config.DriverSQLite {
		if err := db.AutoMigrate(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite schema: %w", err)
		}
	}

	err = telemetry.RegisterDBTracing(db.DB, tp, telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBName:     dbName(cfg.Database),
		LogFullSQL: cfg.Telemetry.DBLogFullSQL,
	}, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &storage{
		clientes: persistence.NewGormClienteRepository(db.DB),
		recibos:  persistence.NewGormReciboRepository(db.DB),
		txScope:  persistence.NewGormTransactionScope(db.DB),
		ping:     db,
		close:    db.Close,
	}, nil
}

// migrateUp applies pending SQL migrations on a dedicated connection
func migrateUp(cfg config.DatabaseConfig, log *zap.Logger) error {
	m, err := migration.NewFromURL(cfg.DSN(), cfg.MigrationsPath, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Error closing migrator", zap.Error(err))
		}
	}()
	return m.Up()
}

func dbName(cfg config.DatabaseConfig) string {
	if cfg.Driver == config.DriverSQLite {
		return cfg.SQLitePath
	}
	return cfg.DBName
}
