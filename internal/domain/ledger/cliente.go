package ledger

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MrJorgx/PracticasExt/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TipoCliente is the customer tier
type TipoCliente string

const (
	TipoClienteRegistrado TipoCliente = "REGISTRADO" // carries a per-receipt cap
	TipoClienteSocio      TipoCliente = "SOCIO"      // uncapped
)

// Field limits shared with the persisted layout
const (
	MaxDNILength          = 9
	MaxNombreLength       = 100
	MaxApellidosLength    = 100
	MaxNumeroReciboLength = 50
)

// maxMoney is the largest value a numeric(10,2) column holds.
var maxMoney = decimal.RequireFromString("99999999.99")

// ParseTipoCliente parses the textual enumeration name
func ParseTipoCliente(s string) (TipoCliente, error) {
	switch TipoCliente(s) {
	case TipoClienteRegistrado, TipoClienteSocio:
		return TipoCliente(s), nil
	}
	return "", shared.NewInvalidArgumentError("Tipo de cliente inválido. Debe ser REGISTRADO o SOCIO")
}

// IsValid reports whether t is a known tier
func (t TipoCliente) IsValid() bool {
	return t == TipoClienteRegistrado || t == TipoClienteSocio
}

// String returns the enumeration name
func (t TipoCliente) String() string {
	return string(t)
}

// Cliente is the customer aggregate root. It is identified by its DNI.
type Cliente struct {
	shared.BaseAggregateRoot
	DNI         string
	Nombre      string
	Apellidos   string
	TipoCliente TipoCliente
	CuotaMaxima *decimal.Decimal
	FechaAlta   time.Time
}

// NewCliente creates a new customer, enforcing the tier/quota pairing.
// FechaAlta is set to the current UTC time.
func NewCliente(dni, nombre, apellidos string, tipo TipoCliente, cuotaMaxima *decimal.Decimal) (*Cliente, error) {
	if err := validateDNI(dni); err != nil {
		return nil, err
	}
	if err := validateNombreCompleto(nombre, apellidos); err != nil {
		return nil, err
	}
	cuota, err := validateTipoCuota(tipo, cuotaMaxima)
	if err != nil {
		return nil, err
	}

	c := &Cliente{
		DNI:         dni,
		Nombre:      nombre,
		Apellidos:   apellidos,
		TipoCliente: tipo,
		CuotaMaxima: cuota,
		FechaAlta:   time.Now().UTC(),
	}
	c.AddDomainEvent(NewClienteCreatedEvent(c))
	return c, nil
}

// Update replaces the mutable fields. DNI and FechaAlta never change.
// Existing receipts are not re-checked against a lowered quota.
func (c *Cliente) Update(nombre, apellidos string, tipo TipoCliente, cuotaMaxima *decimal.Decimal) error {
	if err := validateNombreCompleto(nombre, apellidos); err != nil {
		return err
	}
	cuota, err := validateTipoCuota(tipo, cuotaMaxima)
	if err != nil {
		return err
	}

	c.Nombre = nombre
	c.Apellidos = apellidos
	c.TipoCliente = tipo
	c.CuotaMaxima = cuota
	c.AddDomainEvent(NewClienteUpdatedEvent(c))
	return nil
}

// NombreCompleto returns "nombre apellidos"
func (c *Cliente) NombreCompleto() string {
	return c.Nombre + " " + c.Apellidos
}

// IsRegistrado reports whether receipts of this customer are capped
func (c *Cliente) IsRegistrado() bool {
	return c.TipoCliente == TipoClienteRegistrado
}

// CheckImporte validates a receipt amount against the customer's current cap.
// The cap is inclusive.
func (c *Cliente) CheckImporte(importe decimal.Decimal) error {
	if !c.IsRegistrado() || c.CuotaMaxima == nil {
		return nil
	}
	if importe.GreaterThan(*c.CuotaMaxima) {
		return shared.NewQuotaExceededError("El importe %s supera la cuota máxima permitida de %s",
			formatImporte(importe), c.CuotaMaxima.StringFixed(2))
	}
	return nil
}

// formatImporte keeps extra decimals so 100.004 is not reported as 100.00
func formatImporte(d decimal.Decimal) string {
	if d.Exponent() < -2 {
		return d.String()
	}
	return d.StringFixed(2)
}

// MarkDeleted records the deletion event together with the number of
// receipts removed by the cascade.
func (c *Cliente) MarkDeleted(recibosEliminados int64) {
	c.AddDomainEvent(NewClienteDeletedEvent(c, recibosEliminados))
}

func validateDNI(dni string) error {
	if strings.TrimSpace(dni) == "" {
		return shared.NewInvalidArgumentError("El DNI es requerido")
	}
	if utf8.RuneCountInString(dni) > MaxDNILength {
		return shared.NewInvalidArgumentError("El DNI debe tener máximo %d caracteres", MaxDNILength)
	}
	return nil
}

func validateNombreCompleto(nombre, apellidos string) error {
	if strings.TrimSpace(nombre) == "" {
		return shared.NewInvalidArgumentError("El nombre es requerido")
	}
	if utf8.RuneCountInString(nombre) > MaxNombreLength {
		return shared.NewInvalidArgumentError("El nombre debe tener máximo %d caracteres", MaxNombreLength)
	}
	if strings.TrimSpace(apellidos) == "" {
		return shared.NewInvalidArgumentError("Los apellidos son requeridos")
	}
	if utf8.RuneCountInString(apellidos) > MaxApellidosLength {
		return shared.NewInvalidArgumentError("Los apellidos deben tener máximo %d caracteres", MaxApellidosLength)
	}
	return nil
}

// validateTipoCuota enforces REGISTRADO <=> cuota present and > 0.
// The returned cuota is rounded to two decimals.
func validateTipoCuota(tipo TipoCliente, cuota *decimal.Decimal) (*decimal.Decimal, error) {
	if !tipo.IsValid() {
		return nil, shared.NewInvalidArgumentError("Tipo de cliente inválido. Debe ser REGISTRADO o SOCIO")
	}
	switch tipo {
	case TipoClienteRegistrado:
		if cuota == nil {
			return nil, shared.NewInvalidArgumentError("Los clientes REGISTRADO deben tener una cuota máxima")
		}
		rounded := RoundMoney(*cuota)
		if !rounded.IsPositive() {
			return nil, shared.NewInvalidArgumentError("La cuota máxima debe ser mayor que 0")
		}
		if rounded.GreaterThan(maxMoney) {
			return nil, shared.NewInvalidArgumentError("La cuota máxima no puede superar %s", maxMoney.StringFixed(2))
		}
		return &rounded, nil
	default:
		if cuota != nil {
			return nil, shared.NewInvalidArgumentError("Los clientes SOCIO no deben tener cuota máxima")
		}
		return nil, nil
	}
}

// RoundMoney rounds an amount to two decimals
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
