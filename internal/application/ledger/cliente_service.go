package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrJorgx/PracticasExt/internal/domain/ledger"
	"github.com/MrJorgx/PracticasExt/internal/domain/shared"
	"go.uber.org/zap"
)

// ClienteService owns customer lifecycle: uniqueness, tier/quota rules and
// the cascading delete of a customer's receipts.
type ClienteService struct {
	clienteRepo    ledger.ClienteRepository
	reciboRepo     ledger.ReciboRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewClienteService creates a new ClienteService
func NewClienteService(
	clienteRepo ledger.ClienteRepository,
	reciboRepo ledger.ReciboRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *ClienteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClienteService{
		clienteRepo: clienteRepo,
		reciboRepo:  reciboRepo,
		txScope:     txScope,
		logger:      logger,
	}
}

// SetEventPublisher sets the publisher that receives committed customer events
func (s *ClienteService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new customer
func (s *ClienteService) Create(ctx context.Context, req CreateClienteRequest) (*ClienteResponse, error) {
	tipo, err := ledger.ParseTipoCliente(req.TipoCliente)
	if err != nil {
		return nil, err
	}

	cliente, err := ledger.NewCliente(req.DNI, req.Nombre, req.Apellidos, tipo, req.CuotaMaxima)
	if err != nil {
		return nil, err
	}

	if err := s.clienteRepo.Create(ctx, cliente); err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return nil, shared.NewConflictError("Ya existe un cliente con DNI %s", req.DNI)
		}
		return nil, fmt.Errorf("create cliente: %w", err)
	}

	s.logger.Info("cliente created",
		zap.String("dni", cliente.DNI),
		zap.String("tipo_cliente", cliente.TipoCliente.String()),
	)
	publishEvents(ctx, s.eventPublisher, s.logger, cliente)

	response := ToClienteResponse(cliente, 0)
	return &response, nil
}

// Get retrieves a customer with its current receipt count
func (s *ClienteService) Get(ctx context.Context, dni string) (*ClienteResponse, error) {
	cliente, err := s.clienteRepo.FindByDNI(ctx, dni)
	if err != nil {
		return nil, clienteNotFound(err, dni)
	}

	total, err := s.reciboRepo.CountByCliente(ctx, dni)
	if err != nil {
		return nil, fmt.Errorf("count recibos: %w", err)
	}

	response := ToClienteResponse(cliente, total)
	return &response, nil
}

// Update replaces the name, tier and quota of a customer. Receipts already
// issued are not re-validated against a lowered quota.
func (s *ClienteService) Update(ctx context.Context, dni string, req UpdateClienteRequest) (*ClienteResponse, error) {
	tipo, err := ledger.ParseTipoCliente(req.TipoCliente)
	if err != nil {
		return nil, err
	}

	var (
		cliente *ledger.Cliente
		total   int64
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		cliente, err = repos.ClienteRepo().FindByDNIForUpdate(ctx, dni)
		if err != nil {
			return clienteNotFound(err, dni)
		}
		if err := cliente.Update(req.Nombre, req.Apellidos, tipo, req.CuotaMaxima); err != nil {
			return err
		}
		if err := repos.ClienteRepo().Save(ctx, cliente); err != nil {
			return fmt.Errorf("save cliente: %w", err)
		}
		total, err = repos.ReciboRepo().CountByCliente(ctx, dni)
		if err != nil {
			return fmt.Errorf("count recibos: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishEvents(ctx, s.eventPublisher, s.logger, cliente)

	response := ToClienteResponse(cliente, total)
	return &response, nil
}

// Delete removes a customer together with all of its receipts in one
// transaction. The customer row is locked first, so a concurrent receipt
// create either commits before the cascade (and is removed by it) or sees
// the customer gone.
func (s *ClienteService) Delete(ctx context.Context, dni string) (*DeleteClienteResponse, error) {
	var (
		cliente    *ledger.Cliente
		eliminados int64
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		cliente, err = repos.ClienteRepo().FindByDNIForUpdate(ctx, dni)
		if err != nil {
			return clienteNotFound(err, dni)
		}
		eliminados, err = repos.ReciboRepo().DeleteAllForCliente(ctx, dni)
		if err != nil {
			return fmt.Errorf("delete recibos: %w", err)
		}
		if err := repos.ClienteRepo().Delete(ctx, dni); err != nil {
			return clienteNotFound(err, dni)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("cliente deleted",
		zap.String("dni", dni),
		zap.Int64("recibos_eliminados", eliminados),
	)
	cliente.MarkDeleted(eliminados)
	publishEvents(ctx, s.eventPublisher, s.logger, cliente)

	return &DeleteClienteResponse{DNI: dni, RecibosEliminados: eliminados}, nil
}

// List returns every customer ordered by dni or fechaAlta
func (s *ClienteService) List(ctx context.Context, query ListQuery) ([]ClienteResponse, error) {
	clientes, err := s.clienteRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clientes: %w", err)
	}

	dnis := make([]string, len(clientes))
	for i := range clientes {
		dnis[i] = clientes[i].DNI
	}
	counts, err := s.reciboRepo.CountByClientes(ctx, dnis)
	if err != nil {
		return nil, fmt.Errorf("count recibos: %w", err)
	}

	sorted := ledger.SortClientes(clientes, query.OrdenarPor, query.Descendente)
	responses := make([]ClienteResponse, len(sorted))
	for i := range sorted {
		responses[i] = ToClienteResponse(&sorted[i], counts[sorted[i].DNI])
	}
	return responses, nil
}

// clienteNotFound gives a repository NOT_FOUND the customer message and
// wraps anything else as an internal error.
func clienteNotFound(err error, dni string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError("No se encontró cliente con DNI %s", dni)
	}
	if shared.IsDomainError(err) {
		return err
	}
	return fmt.Errorf("find cliente: %w", err)
}
