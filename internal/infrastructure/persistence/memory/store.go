// Package memory provides in-process ledger repositories for development and
// tests. Transactions are serialized: Execute holds the store lock for the
// whole callback and works on a copy that replaces the live tables only when
// the callback succeeds.
package memory

import (
	"context"
	"maps"
	"sync"

	appledger "github.com/MrJorgx/PracticasExt/internal/application/ledger"
	"github.com/MrJorgx/PracticasExt/internal/domain/ledger"
)

type clienteRow struct {
	cliente ledger.Cliente
	seq     uint64
}

type reciboRow struct {
	recibo ledger.Recibo
	seq    uint64
}

type tables struct {
	clientes map[string]clienteRow
	recibos  map[string]reciboRow
	seq      uint64
}

func newTables() *tables {
	return &tables{
		clientes: make(map[string]clienteRow),
		recibos:  make(map[string]reciboRow),
	}
}

func (t *tables) clone() *tables {
	return &tables{
		clientes: maps.Clone(t.clientes),
		recibos:  maps.Clone(t.recibos),
		seq:      t.seq,
	}
}

func (t *tables) nextSeq() uint64 {
	t.seq++
	return t.seq
}

// Store holds the customer and receipt tables
type Store struct {
	mu   sync.RWMutex
	data *tables
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{data: newTables()}
}

// Clientes returns a customer repository on the live tables
func (s *Store) Clientes() *ClienteRepository {
	return &ClienteRepository{store: s}
}

// Recibos returns a receipt repository on the live tables
func (s *Store) Recibos() *ReciboRepository {
	return &ReciboRepository{store: s}
}

// Ping always succeeds; it lets the store stand in for a database in readiness checks
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Execute runs fn with repositories bound to a private copy of the tables.
// The copy is committed when fn returns nil.
func (s *Store) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(&txRepositories{store: s, tx: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.data = work
	return nil
}

// view runs fn on tx when inside a transaction, otherwise on the live tables under a read lock
func (s *Store) view(tx *tables, fn func(t *tables)) {
	if tx != nil {
		fn(tx)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

// update runs fn on tx when inside a transaction, otherwise on the live tables under the write lock
func (s *Store) update(tx *tables, fn func(t *tables) error) error {
	if tx != nil {
		return fn(tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

type txRepositories struct {
	store *Store
	tx    *tables
}

func (r *txRepositories) ClienteRepo() ledger.ClienteRepository {
	return &ClienteRepository{store: r.store, tx: r.tx}
}

func (r *txRepositories) ReciboRepo() ledger.ReciboRepository {
	return &ReciboRepository{store: r.store, tx: r.tx}
}

var _ appledger.TransactionScope = (*Store)(nil)
