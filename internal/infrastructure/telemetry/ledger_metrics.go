package telemetry

import (
	"context"
	"fmt"

	"github.com/MrJorgx/PracticasExt/internal/domain/ledger"
	"github.com/MrJorgx/PracticasExt/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Attribute keys for ledger metrics
const (
	AttrTipoCliente = "tipo_cliente"
	AttrCause       = "cause"
)

// LedgerMetrics turns ledger domain events into OpenTelemetry counters.
// It is subscribed to the event bus and never fails a publish.
type LedgerMetrics struct {
	clientesCreated metric.Int64Counter
	clientesUpdated metric.Int64Counter
	clientesDeleted metric.Int64Counter
	recibosCreated  metric.Int64Counter
	recibosUpdated  metric.Int64Counter
	recibosDeleted  metric.Int64Counter
	importeEmitido  metric.Float64Counter
}

// NewLedgerMetrics registers the ledger instruments on meter
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	m := &LedgerMetrics{}
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.clientesCreated, "ledger.clientes.created", "Customers created"},
		{&m.clientesUpdated, "ledger.clientes.updated", "Customers updated"},
		{&m.clientesDeleted, "ledger.clientes.deleted", "Customers deleted"},
		{&m.recibosCreated, "ledger.recibos.created", "Receipts created"},
		{&m.recibosUpdated, "ledger.recibos.updated", "Receipts updated"},
		{&m.recibosDeleted, "ledger.recibos.deleted", "Receipts deleted, directly or by customer cascade"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit("{item}"))
		if err != nil {
			return nil, fmt.Errorf("failed to create counter %s: %w", c.name, err)
		}
		*c.dst = counter
	}

	importe, err := meter.Float64Counter("ledger.recibos.importe",
		metric.WithDescription("Total amount of created receipts"),
		metric.WithUnit("EUR"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter ledger.recibos.importe: %w", err)
	}
	m.importeEmitido = importe
	return m, nil
}

// EventTypes returns every ledger event type
func (m *LedgerMetrics) EventTypes() []string {
	return []string{
		ledger.EventTypeClienteCreated,
		ledger.EventTypeClienteUpdated,
		ledger.EventTypeClienteDeleted,
		ledger.EventTypeReciboCreated,
		ledger.EventTypeReciboUpdated,
		ledger.EventTypeReciboDeleted,
	}
}

func (m *LedgerMetrics) Handle(ctx context.Context, evt shared.DomainEvent) error {
	switch e := evt.(type) {
	case *ledger.ClienteCreatedEvent:
		m.clientesCreated.Add(ctx, 1, tipoAttr(e.TipoCliente))
	case *ledger.ClienteUpdatedEvent:
		m.clientesUpdated.Add(ctx, 1, tipoAttr(e.TipoCliente))
	case *ledger.ClienteDeletedEvent:
		m.clientesDeleted.Add(ctx, 1)
		if e.RecibosEliminados > 0 {
			m.recibosDeleted.Add(ctx, e.RecibosEliminados,
				metric.WithAttributes(attribute.String(AttrCause, "cascade")))
		}
	case *ledger.ReciboCreatedEvent:
		m.recibosCreated.Add(ctx, 1)
		m.importeEmitido.Add(ctx, e.Importe.InexactFloat64())
	case *ledger.ReciboUpdatedEvent:
		m.recibosUpdated.Add(ctx, 1)
	case *ledger.ReciboDeletedEvent:
		m.recibosDeleted.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrCause, "direct")))
	}
	return nil
}

func tipoAttr(t ledger.TipoCliente) metric.AddOption {
	return metric.WithAttributes(attribute.String(AttrTipoCliente, t.String()))
}

var _ shared.EventHandler = (*LedgerMetrics)(nil)
