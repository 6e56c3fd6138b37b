package ledger

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MrJorgx/PracticasExt/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Recibo is a receipt owned by exactly one Cliente
type Recibo struct {
	shared.BaseAggregateRoot
	NumeroRecibo string
	DNICliente   string
	Importe      decimal.Decimal
	FechaEmision time.Time
}

// NewRecibo creates a receipt for the given owner. The owner must be the
// current state of the customer: the amount is checked against its cap.
// A nil fechaEmision defaults to the current UTC time.
func NewRecibo(numero string, owner *Cliente, importe decimal.Decimal, fechaEmision *time.Time) (*Recibo, error) {
	if err := validateNumeroRecibo(numero); err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, shared.NewInvalidArgumentError("El DNI del cliente es requerido")
	}
	amount, err := validateImporte(importe)
	if err != nil {
		return nil, err
	}
	if err := owner.CheckImporte(importe); err != nil {
		return nil, err
	}

	fecha := time.Now().UTC()
	if fechaEmision != nil {
		fecha = fechaEmision.UTC()
	}

	r := &Recibo{
		NumeroRecibo: numero,
		DNICliente:   owner.DNI,
		Importe:      amount,
		FechaEmision: fecha,
	}
	r.AddDomainEvent(NewReciboCreatedEvent(r))
	return r, nil
}

// Update changes the amount and, when given, the emission date. The amount
// is re-checked against the owner's current cap.
func (r *Recibo) Update(owner *Cliente, importe decimal.Decimal, fechaEmision *time.Time) error {
	if owner == nil || owner.DNI != r.DNICliente {
		return shared.NewInvalidArgumentError("El recibo %s no pertenece al cliente indicado", r.NumeroRecibo)
	}
	amount, err := validateImporte(importe)
	if err != nil {
		return err
	}
	if err := owner.CheckImporte(importe); err != nil {
		return err
	}

	r.Importe = amount
	if fechaEmision != nil {
		r.FechaEmision = fechaEmision.UTC()
	}
	r.AddDomainEvent(NewReciboUpdatedEvent(r))
	return nil
}

// MarkDeleted records the deletion event
func (r *Recibo) MarkDeleted() {
	r.AddDomainEvent(NewReciboDeletedEvent(r))
}

func validateNumeroRecibo(numero string) error {
	if strings.TrimSpace(numero) == "" {
		return shared.NewInvalidArgumentError("El número de recibo es requerido")
	}
	if utf8.RuneCountInString(numero) > MaxNumeroReciboLength {
		return shared.NewInvalidArgumentError("El número de recibo debe tener máximo %d caracteres", MaxNumeroReciboLength)
	}
	return nil
}

// validateImporte returns the amount as stored. The cap is checked against
// the unrounded value.
func validateImporte(importe decimal.Decimal) (decimal.Decimal, error) {
	amount := RoundMoney(importe)
	if !amount.IsPositive() {
		return decimal.Zero, shared.NewInvalidArgumentError("El importe debe ser mayor que 0")
	}
	if amount.GreaterThan(maxMoney) {
		return decimal.Zero, shared.NewInvalidArgumentError("El importe no puede superar %s", maxMoney.StringFixed(2))
	}
	return amount, nil
}

// ReciboDetalle is a receipt joined with its owner's name at read time
type ReciboDetalle struct {
	Recibo
	Nombre    string
	Apellidos string
}

// NombreCliente returns "nombre apellidos" of the owner
func (d ReciboDetalle) NombreCliente() string {
	return d.Nombre + " " + d.Apellidos
}

// NewReciboDetalle joins a receipt with its owner
func NewReciboDetalle(r Recibo, owner *Cliente) ReciboDetalle {
	d := ReciboDetalle{Recibo: r}
	if owner != nil {
		d.Nombre = owner.Nombre
		d.Apellidos = owner.Apellidos
	}
	return d
}
