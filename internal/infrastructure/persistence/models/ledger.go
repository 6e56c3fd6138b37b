package models

import (
	"time"

	"github.com/MrJorgx/PracticasExt/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// ClienteModel is the persistence model for the Cliente aggregate.
// CreatedAt records insertion order, which list queries fall back to.
type ClienteModel struct {
	DNI         string           `gorm:"column:dni;type:varchar(9);primaryKey"`
	Nombre      string           `gorm:"type:varchar(100);not null"`
	Apellidos   string           `gorm:"type:varchar(100);not null"`
	TipoCliente string           `gorm:"type:varchar(20);not null"`
	CuotaMaxima *decimal.Decimal `gorm:"type:numeric(10,2)"`
	FechaAlta   time.Time        `gorm:"not null"`
	CreatedAt   time.Time        `gorm:"not null;index"`
	Recibos     []ReciboModel    `gorm:"foreignKey:DNICliente;references:DNI;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ClienteModel) TableName() string {
	return "clientes"
}

// ToDomain converts the persistence model to a domain Cliente
func (m *ClienteModel) ToDomain() *ledger.Cliente {
	c := &ledger.Cliente{
		DNI:         m.DNI,
		Nombre:      m.Nombre,
		Apellidos:   m.Apellidos,
		TipoCliente: ledger.TipoCliente(m.TipoCliente),
		FechaAlta:   m.FechaAlta.UTC(),
	}
	if m.CuotaMaxima != nil {
		cuota := ledger.RoundMoney(*m.CuotaMaxima)
		c.CuotaMaxima = &cuota
	}
	return c
}

// FromDomain populates the persistence model from a domain Cliente
func (m *ClienteModel) FromDomain(c *ledger.Cliente) {
	m.DNI = c.DNI
	m.Nombre = c.Nombre
	m.Apellidos = c.Apellidos
	m.TipoCliente = string(c.TipoCliente)
	m.CuotaMaxima = nil
	if c.CuotaMaxima != nil {
		cuota := *c.CuotaMaxima
		m.CuotaMaxima = &cuota
	}
	m.FechaAlta = c.FechaAlta
}

// ClienteModelFromDomain creates a persistence model from a domain Cliente
func ClienteModelFromDomain(c *ledger.Cliente) *ClienteModel {
	m := &ClienteModel{}
	m.FromDomain(c)
	return m
}

// ReciboModel is the persistence model for the Recibo aggregate
type ReciboModel struct {
	NumeroRecibo string          `gorm:"type:varchar(50);primaryKey"`
	DNICliente   string          `gorm:"column:dni_cliente;type:varchar(9);not null;index"`
	Importe      decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	FechaEmision time.Time       `gorm:"not null"`
	CreatedAt    time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ReciboModel) TableName() string {
	return "recibos"
}

// ToDomain converts the persistence model to a domain Recibo
func (m *ReciboModel) ToDomain() *ledger.Recibo {
	return &ledger.Recibo{
		NumeroRecibo: m.NumeroRecibo,
		DNICliente:   m.DNICliente,
		Importe:      ledger.RoundMoney(m.Importe),
		FechaEmision: m.FechaEmision.UTC(),
	}
}

// FromDomain populates the persistence model from a domain Recibo
func (m *ReciboModel) FromDomain(r *ledger.Recibo) {
	m.NumeroRecibo = r.NumeroRecibo
	m.DNICliente = r.DNICliente
	m.Importe = r.Importe
	m.FechaEmision = r.FechaEmision
}

// ReciboModelFromDomain creates a persistence model from a domain Recibo
func ReciboModelFromDomain(r *ledger.Recibo) *ReciboModel {
	m := &ReciboModel{}
	m.FromDomain(r)
	return m
}
