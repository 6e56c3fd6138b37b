package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrJorgx/PracticasExt/internal/domain/ledger"
	"github.com/MrJorgx/PracticasExt/internal/domain/shared"
	"go.uber.org/zap"
)

// ReciboService owns receipts: uniqueness, owner existence and the
// per-receipt cap of REGISTRADO customers. Customers are only read, through
// ledger.ClienteReader outside transactions and through the locked
// customer repository inside them.
type ReciboService struct {
	clientes       ledger.ClienteReader
	reciboRepo     ledger.ReciboRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewReciboService creates a new ReciboService
func NewReciboService(
	clientes ledger.ClienteReader,
	reciboRepo ledger.ReciboRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *ReciboService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReciboService{
		clientes:   clientes,
		reciboRepo: reciboRepo,
		txScope:    txScope,
		logger:     logger,
	}
}

// SetEventPublisher sets the publisher that receives committed receipt events
func (s *ReciboService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a receipt for an existing customer
func (s *ReciboService) Create(ctx context.Context, req CreateReciboRequest) (*ReciboResponse, error) {
	var (
		recibo *ledger.Recibo
		owner  *ledger.Cliente
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.ReciboRepo().FindByNumero(ctx, req.NumeroRecibo); err == nil {
			return reciboConflict(req.NumeroRecibo)
		} else if !errors.Is(err, shared.ErrNotFound) {
			return fmt.Errorf("find recibo: %w", err)
		}

		var err error
		owner, err = repos.ClienteRepo().FindByDNIForUpdate(ctx, req.DNICliente)
		if err != nil {
			return ownerNotFound(err, req.DNICliente)
		}

		recibo, err = ledger.NewRecibo(req.NumeroRecibo, owner, req.Importe, req.FechaEmision)
		if err != nil {
			return err
		}

		if err := repos.ReciboRepo().Create(ctx, recibo); err != nil {
			if errors.Is(err, shared.ErrConflict) {
				return reciboConflict(req.NumeroRecibo)
			}
			return fmt.Errorf("create recibo: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, shared.ErrQuotaExceeded) {
			s.logger.Info("recibo rejected over quota",
				zap.String("numero_recibo", req.NumeroRecibo),
				zap.String("dni_cliente", req.DNICliente),
			)
		}
		return nil, err
	}

	publishEvents(ctx, s.eventPublisher, s.logger, recibo)

	response := ToReciboResponse(ledger.NewReciboDetalle(*recibo, owner))
	return &response, nil
}

// Get retrieves a receipt with its owner's name
func (s *ReciboService) Get(ctx context.Context, numero string) (*ReciboResponse, error) {
	recibo, err := s.reciboRepo.FindByNumero(ctx, numero)
	if err != nil {
		return nil, reciboNotFound(err, numero)
	}

	owner, err := s.clientes.FindByDNI(ctx, recibo.DNICliente)
	if err != nil {
		// The owner vanished between both reads: the receipt went with it.
		if errors.Is(err, shared.ErrNotFound) {
			return nil, reciboNotFound(err, numero)
		}
		return nil, fmt.Errorf("find cliente: %w", err)
	}

	response := ToReciboResponse(ledger.NewReciboDetalle(*recibo, owner))
	return &response, nil
}

// Update changes the amount and optionally the emission date of a receipt,
// re-checking the amount against the owner's current quota.
func (s *ReciboService) Update(ctx context.Context, numero string, req UpdateReciboRequest) (*ReciboResponse, error) {
	current, err := s.reciboRepo.FindByNumero(ctx, numero)
	if err != nil {
		return nil, reciboNotFound(err, numero)
	}

	var (
		recibo *ledger.Recibo
		owner  *ledger.Cliente
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		// Customer before receipt, the same order the cascade delete takes.
		owner, err = repos.ClienteRepo().FindByDNIForUpdate(ctx, current.DNICliente)
		if err != nil {
			return reciboNotFound(err, numero)
		}
		recibo, err = repos.ReciboRepo().FindByNumeroForUpdate(ctx, numero)
		if err != nil {
			return reciboNotFound(err, numero)
		}
		if err := recibo.Update(owner, req.Importe, req.FechaEmision); err != nil {
			return err
		}
		if err := repos.ReciboRepo().Save(ctx, recibo); err != nil {
			return fmt.Errorf("save recibo: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishEvents(ctx, s.eventPublisher, s.logger, recibo)

	response := ToReciboResponse(ledger.NewReciboDetalle(*recibo, owner))
	return &response, nil
}

// Delete removes a single receipt
func (s *ReciboService) Delete(ctx context.Context, numero string) error {
	recibo, err := s.reciboRepo.FindByNumero(ctx, numero)
	if err != nil {
		return reciboNotFound(err, numero)
	}
	if err := s.reciboRepo.Delete(ctx, numero); err != nil {
		return reciboNotFound(err, numero)
	}

	recibo.MarkDeleted()
	publishEvents(ctx, s.eventPublisher, s.logger, recibo)
	return nil
}

// ListByCliente returns the receipts of one customer ordered by fecha or numero
func (s *ReciboService) ListByCliente(ctx context.Context, dni string, query ListQuery) ([]ReciboResponse, error) {
	owner, err := s.clientes.FindByDNI(ctx, dni)
	if err != nil {
		return nil, ownerNotFound(err, dni)
	}

	recibos, err := s.reciboRepo.FindByCliente(ctx, dni)
	if err != nil {
		return nil, fmt.Errorf("list recibos: %w", err)
	}

	detalles := make([]ledger.ReciboDetalle, len(recibos))
	for i := range recibos {
		detalles[i] = ledger.NewReciboDetalle(recibos[i], owner)
	}
	return ToReciboResponses(ledger.SortRecibosCliente(detalles, query.OrdenarPor, query.Descendente)), nil
}

// ListAll returns every receipt ordered by cliente, fecha or numero
func (s *ReciboService) ListAll(ctx context.Context, query ListQuery) ([]ReciboResponse, error) {
	recibos, err := s.reciboRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recibos: %w", err)
	}

	seen := make(map[string]struct{})
	dnis := make([]string, 0)
	for i := range recibos {
		if _, ok := seen[recibos[i].DNICliente]; !ok {
			seen[recibos[i].DNICliente] = struct{}{}
			dnis = append(dnis, recibos[i].DNICliente)
		}
	}
	owners, err := s.clientes.FindByDNIs(ctx, dnis)
	if err != nil {
		return nil, fmt.Errorf("find clientes: %w", err)
	}

	detalles := make([]ledger.ReciboDetalle, 0, len(recibos))
	for i := range recibos {
		owner, ok := owners[recibos[i].DNICliente]
		if !ok {
			// Removed by a cascade that committed after the receipts were read.
			continue
		}
		detalles = append(detalles, ledger.NewReciboDetalle(recibos[i], owner))
	}
	return ToReciboResponses(ledger.SortRecibos(detalles, query.OrdenarPor, query.Descendente)), nil
}

func reciboConflict(numero string) error {
	return shared.NewConflictError("Ya existe un recibo con número %s", numero)
}

func reciboNotFound(err error, numero string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError("No se encontró recibo con número %s", numero)
	}
	if shared.IsDomainError(err) {
		return err
	}
	return fmt.Errorf("find recibo: %w", err)
}

func ownerNotFound(err error, dni string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError("No existe cliente con DNI %s", dni)
	}
	if shared.IsDomainError(err) {
		return err
	}
	return fmt.Errorf("find cliente: %w", err)
}
