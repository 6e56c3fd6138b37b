package ledger

import (
	"context"

	"github.com/MrJorgx/PracticasExt/internal/domain/ledger"
)

// TransactionScope provides transactional access to the ledger repositories.
// Every repository returned inside fn shares the same transaction, which is
// committed when fn returns nil and rolled back otherwise.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the ledger repositories within a transaction.
//
// Lock order: a customer row is always locked before any of its receipts.
type TransactionalRepositories interface {
	ClienteRepo() ledger.ClienteRepository
	ReciboRepo() ledger.ReciboRepository
}
