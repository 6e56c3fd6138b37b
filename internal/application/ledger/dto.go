package ledger

import (
	"time"

	"github.com/MrJorgx/PracticasExt/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// CreateClienteRequest represents a request to create a customer
type CreateClienteRequest struct {
	DNI         string
	Nombre      string
	Apellidos   string
	TipoCliente string
	CuotaMaxima *decimal.Decimal
}

// UpdateClienteRequest represents a request to update a customer
type UpdateClienteRequest struct {
	Nombre      string
	Apellidos   string
	TipoCliente string
	CuotaMaxima *decimal.Decimal
}

// Money is an amount written to JSON as a string with exactly two decimals,
// e.g. "100.00". Decoding accepts anything decimal.Decimal accepts.
type Money struct {
	decimal.Decimal
}

// NewMoney wraps d
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.StringFixed(2) + `"`), nil
}

// ListQuery selects the ordering of a list operation
type ListQuery struct {
	OrdenarPor  string
	Descendente bool
}

// ClienteResponse represents a customer with its receipt count
type ClienteResponse struct {
	DNI          string    `json:"dni"`
	Nombre       string    `json:"nombre"`
	Apellidos    string    `json:"apellidos"`
	TipoCliente  string    `json:"tipoCliente"`
	CuotaMaxima  *Money    `json:"cuotaMaxima"`
	FechaAlta    time.Time `json:"fechaAlta"`
	TotalRecibos int64     `json:"totalRecibos"`
}

// DeleteClienteResponse reports a customer deletion and its cascade
type DeleteClienteResponse struct {
	DNI               string `json:"dni"`
	RecibosEliminados int64  `json:"recibosEliminados"`
}

// CreateReciboRequest represents a request to create a receipt
type CreateReciboRequest struct {
	NumeroRecibo string
	DNICliente   string
	Importe      decimal.Decimal
	FechaEmision *time.Time
}

// UpdateReciboRequest represents a request to update a receipt
type UpdateReciboRequest struct {
	Importe      decimal.Decimal
	FechaEmision *time.Time
}

// ReciboResponse represents a receipt joined with its owner's name
type ReciboResponse struct {
	NumeroRecibo  string    `json:"numeroRecibo"`
	DNICliente    string    `json:"dniCliente"`
	NombreCliente string    `json:"nombreCliente"`
	Importe       Money     `json:"importe"`
	FechaEmision  time.Time `json:"fechaEmision"`
}

// ToClienteResponse converts a domain Cliente to a ClienteResponse
func ToClienteResponse(c *ledger.Cliente, totalRecibos int64) ClienteResponse {
	resp := ClienteResponse{
		DNI:          c.DNI,
		Nombre:       c.Nombre,
		Apellidos:    c.Apellidos,
		TipoCliente:  c.TipoCliente.String(),
		FechaAlta:    c.FechaAlta,
		TotalRecibos: totalRecibos,
	}
	if c.CuotaMaxima != nil {
		cuota := NewMoney(*c.CuotaMaxima)
		resp.CuotaMaxima = &cuota
	}
	return resp
}

// ToReciboResponse converts a joined receipt to a ReciboResponse
func ToReciboResponse(d ledger.ReciboDetalle) ReciboResponse {
	return ReciboResponse{
		NumeroRecibo:  d.NumeroRecibo,
		DNICliente:    d.DNICliente,
		NombreCliente: d.NombreCliente(),
		Importe:       NewMoney(d.Importe),
		FechaEmision:  d.FechaEmision,
	}
}

// ToReciboResponses converts joined receipts to responses
func ToReciboResponses(detalles []ledger.ReciboDetalle) []ReciboResponse {
	responses := make([]ReciboResponse, len(detalles))
	for i, d := range detalles {
		responses[i] = ToReciboResponse(d)
	}
	return responses
}
