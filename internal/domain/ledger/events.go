package ledger

import (
	"time"

	"github.com/MrJorgx/PracticasExt/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeCliente = "Cliente"
	AggregateTypeRecibo  = "Recibo"
)

// Event type constants
const (
	EventTypeClienteCreated = "ClienteCreated"
	EventTypeClienteUpdated = "ClienteUpdated"
	EventTypeClienteDeleted = "ClienteDeleted"
	EventTypeReciboCreated  = "ReciboCreated"
	EventTypeReciboUpdated  = "ReciboUpdated"
	EventTypeReciboDeleted  = "ReciboDeleted"
)

// ClienteCreatedEvent is published when a new customer is created
type ClienteCreatedEvent struct {
	shared.BaseDomainEvent
	DNI         string           `json:"dni"`
	TipoCliente TipoCliente      `json:"tipo_cliente"`
	CuotaMaxima *decimal.Decimal `json:"cuota_maxima,omitempty"`
}

// NewClienteCreatedEvent creates a new ClienteCreatedEvent
func NewClienteCreatedEvent(c *Cliente) *ClienteCreatedEvent {
	return &ClienteCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClienteCreated, AggregateTypeCliente, c.DNI),
		DNI:             c.DNI,
		TipoCliente:     c.TipoCliente,
		CuotaMaxima:     c.CuotaMaxima,
	}
}

// ClienteUpdatedEvent is published when a customer is updated
type ClienteUpdatedEvent struct {
	shared.BaseDomainEvent
	DNI         string           `json:"dni"`
	TipoCliente TipoCliente      `json:"tipo_cliente"`
	CuotaMaxima *decimal.Decimal `json:"cuota_maxima,omitempty"`
}

// NewClienteUpdatedEvent creates a new ClienteUpdatedEvent
func NewClienteUpdatedEvent(c *Cliente) *ClienteUpdatedEvent {
	return &ClienteUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClienteUpdated, AggregateTypeCliente, c.DNI),
		DNI:             c.DNI,
		TipoCliente:     c.TipoCliente,
		CuotaMaxima:     c.CuotaMaxima,
	}
}

// ClienteDeletedEvent is published when a customer and its receipts are removed
type ClienteDeletedEvent struct {
	shared.BaseDomainEvent
	DNI               string `json:"dni"`
	RecibosEliminados int64  `json:"recibos_eliminados"`
}

// NewClienteDeletedEvent creates a new ClienteDeletedEvent
func NewClienteDeletedEvent(c *Cliente, recibosEliminados int64) *ClienteDeletedEvent {
	return &ClienteDeletedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeClienteDeleted, AggregateTypeCliente, c.DNI),
		DNI:               c.DNI,
		RecibosEliminados: recibosEliminados,
	}
}

// ReciboCreatedEvent is published when a receipt is created
type ReciboCreatedEvent struct {
	shared.BaseDomainEvent
	NumeroRecibo string          `json:"numero_recibo"`
	DNICliente   string          `json:"dni_cliente"`
	Importe      decimal.Decimal `json:"importe"`
	FechaEmision time.Time       `json:"fecha_emision"`
}

// NewReciboCreatedEvent creates a new ReciboCreatedEvent
func NewReciboCreatedEvent(r *Recibo) *ReciboCreatedEvent {
	return &ReciboCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReciboCreated, AggregateTypeRecibo, r.NumeroRecibo),
		NumeroRecibo:    r.NumeroRecibo,
		DNICliente:      r.DNICliente,
		Importe:         r.Importe,
		FechaEmision:    r.FechaEmision,
	}
}

// ReciboUpdatedEvent is published when a receipt amount or date changes
type ReciboUpdatedEvent struct {
	shared.BaseDomainEvent
	NumeroRecibo string          `json:"numero_recibo"`
	DNICliente   string          `json:"dni_cliente"`
	Importe      decimal.Decimal `json:"importe"`
	FechaEmision time.Time       `json:"fecha_emision"`
}

// NewReciboUpdatedEvent creates a new ReciboUpdatedEvent
func NewReciboUpdatedEvent(r *Recibo) *ReciboUpdatedEvent {
	return &ReciboUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReciboUpdated, AggregateTypeRecibo, r.NumeroRecibo),
		NumeroRecibo:    r.NumeroRecibo,
		DNICliente:      r.DNICliente,
		Importe:         r.Importe,
		FechaEmision:    r.FechaEmision,
	}
}

// ReciboDeletedEvent is published when a single receipt is deleted.
// Receipts removed by a customer cascade are reported on ClienteDeletedEvent.
type ReciboDeletedEvent struct {
	shared.BaseDomainEvent
	NumeroRecibo string `json:"numero_recibo"`
	DNICliente   string `json:"dni_cliente"`
}

// NewReciboDeletedEvent creates a new ReciboDeletedEvent
func NewReciboDeletedEvent(r *Recibo) *ReciboDeletedEvent {
	return &ReciboDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReciboDeleted, AggregateTypeRecibo, r.NumeroRecibo),
		NumeroRecibo:    r.NumeroRecibo,
		DNICliente:      r.DNICliente,
	}
}
