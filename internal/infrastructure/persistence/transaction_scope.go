package persistence

import (
	"context"

	appledger "github.com/MrJorgx/PracticasExt/internal/application/ledger"
	"github.com/MrJorgx/PracticasExt/internal/domain/ledger"
	"gorm.io/gorm"
)

// GormTransactionScope implements appledger.TransactionScope using GORM transactions
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn in a database transaction, committing when fn returns nil
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) ClienteRepo() ledger.ClienteRepository {
	return NewGormClienteRepository(r.tx)
}

func (r *gormTransactionalRepositories) ReciboRepo() ledger.ReciboRepository {
	return NewGormReciboRepository(r.tx)
}

var (
	_ appledger.TransactionScope          = (*GormTransactionScope)(nil)
	_ appledger.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
