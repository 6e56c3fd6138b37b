package ledger

import (
	"context"

	"github.com/MrJorgx/PracticasExt/internal/domain/ledger"
	"github.com/MrJorgx/PracticasExt/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockClienteRepository is a mock implementation of ClienteRepository
type MockClienteRepository struct {
	mock.Mock
}

func (m *MockClienteRepository) FindByDNI(ctx context.Context, dni string) (*ledger.Cliente, error) {
	args := m.Called(ctx, dni)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Cliente), args.Error(1)
}

func (m *MockClienteRepository) FindByDNIs(ctx context.Context, dnis []string) (map[string]*ledger.Cliente, error) {
	args := m.Called(ctx, dnis)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*ledger.Cliente), args.Error(1)
}

func (m *MockClienteRepository) FindByDNIForUpdate(ctx context.Context, dni string) (*ledger.Cliente, error) {
	args := m.Called(ctx, dni)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Cliente), args.Error(1)
}

func (m *MockClienteRepository) FindAll(ctx context.Context) ([]ledger.Cliente, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Cliente), args.Error(1)
}

func (m *MockClienteRepository) ExistsByDNI(ctx context.Context, dni string) (bool, error) {
	args := m.Called(ctx, dni)
	return args.Bool(0), args.Error(1)
}

func (m *MockClienteRepository) Create(ctx context.Context, cliente *ledger.Cliente) error {
	args := m.Called(ctx, cliente)
	return args.Error(0)
}

func (m *MockClienteRepository) Save(ctx context.Context, cliente *ledger.Cliente) error {
	args := m.Called(ctx, cliente)
	return args.Error(0)
}

func (m *MockClienteRepository) Delete(ctx context.Context, dni string) error {
	args := m.Called(ctx, dni)
	return args.Error(0)
}

// MockReciboRepository is a mock implementation of ReciboRepository
type MockReciboRepository struct {
	mock.Mock
}

func (m *MockReciboRepository) FindByNumero(ctx context.Context, numero string) (*ledger.Recibo, error) {
	args := m.Called(ctx, numero)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Recibo), args.Error(1)
}

func (m *MockReciboRepository) FindByNumeroForUpdate(ctx context.Context, numero string) (*ledger.Recibo, error) {
	args := m.Called(ctx, numero)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Recibo), args.Error(1)
}

func (m *MockReciboRepository) FindByCliente(ctx context.Context, dni string) ([]ledger.Recibo, error) {
	args := m.Called(ctx, dni)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Recibo), args.Error(1)
}

func (m *MockReciboRepository) FindAll(ctx context.Context) ([]ledger.Recibo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Recibo), args.Error(1)
}

func (m *MockReciboRepository) CountByCliente(ctx context.Context, dni string) (int64, error) {
	args := m.Called(ctx, dni)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReciboRepository) CountByClientes(ctx context.Context, dnis []string) (map[string]int64, error) {
	args := m.Called(ctx, dnis)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockReciboRepository) Create(ctx context.Context, recibo *ledger.Recibo) error {
	args := m.Called(ctx, recibo)
	return args.Error(0)
}

func (m *MockReciboRepository) Save(ctx context.Context, recibo *ledger.Recibo) error {
	args := m.Called(ctx, recibo)
	return args.Error(0)
}

func (m *MockReciboRepository) Delete(ctx context.Context, numero string) error {
	args := m.Called(ctx, numero)
	return args.Error(0)
}

func (m *MockReciboRepository) DeleteAllForCliente(ctx context.Context, dni string) (int64, error) {
	args := m.Called(ctx, dni)
	return args.Get(0).(int64), args.Error(1)
}

// mockTxScope runs fn directly against the mock repositories
type mockTxScope struct {
	clientes *MockClienteRepository
	recibos  *MockReciboRepository
	calls    int
}

func (s *mockTxScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	s.calls++
	return fn(s)
}

func (s *mockTxScope) ClienteRepo() ledger.ClienteRepository { return s.clientes }
func (s *mockTxScope) ReciboRepo() ledger.ReciboRepository   { return s.recibos }

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

var (
	_ ledger.ClienteRepository  = (*MockClienteRepository)(nil)
	_ ledger.ReciboRepository   = (*MockReciboRepository)(nil)
	_ TransactionScope          = (*mockTxScope)(nil)
	_ TransactionalRepositories = (*mockTxScope)(nil)
)
