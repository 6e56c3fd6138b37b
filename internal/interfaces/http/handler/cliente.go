package handler

import (
	ledgerapp "github.com/MrJorgx/PracticasExt/internal/application/ledger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ClienteHandler serves /api/clientes
type ClienteHandler struct {
	BaseHandler
	clienteService *ledgerapp.ClienteService
}

// NewClienteHandler creates a new ClienteHandler
func NewClienteHandler(clienteService *ledgerapp.ClienteService) *ClienteHandler {
	return &ClienteHandler{clienteService: clienteService}
}

// CreateClienteRequest is the body of POST /api/clientes
type CreateClienteRequest struct {
	DNI         string           `json:"dni" binding:"required,max=9"`
	Nombre      string           `json:"nombre" binding:"required,max=100"`
	Apellidos   string           `json:"apellidos" binding:"required,max=100"`
	TipoCliente string           `json:"tipoCliente"`
	CuotaMaxima *decimal.Decimal `json:"cuotaMaxima"`
}

// UpdateClienteRequest is the body of PUT /api/clientes/:dni
type UpdateClienteRequest struct {
	Nombre      string           `json:"nombre" binding:"required,max=100"`
	Apellidos   string           `json:"apellidos" binding:"required,max=100"`
	TipoCliente string           `json:"tipoCliente"`
	CuotaMaxima *decimal.Decimal `json:"cuotaMaxima"`
}

// ListQueryParams are the ordering query parameters shared by list routes
type ListQueryParams struct {
	OrdenarPor  string `form:"ordenarPor"`
	Descendente bool   `form:"descendente"`
	// OrdenarPorFecha is the older boolean form of ordenarPor=fecha|numero
	OrdenarPorFecha *bool `form:"ordenarPorFecha"`
}

func (p ListQueryParams) toQuery() ledgerapp.ListQuery {
	q := ledgerapp.ListQuery{OrdenarPor: p.OrdenarPor, Descendente: p.Descendente}
	if q.OrdenarPor == "" && p.OrdenarPorFecha != nil && !*p.OrdenarPorFecha {
		q.OrdenarPor = "numero"
	}
	return q
}

// Create handles POST /api/clientes
func (h *ClienteHandler) Create(c *gin.Context) {
	var req CreateClienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	cliente, err := h.clienteService.Create(c.Request.Context(), ledgerapp.CreateClienteRequest{
		DNI:         req.DNI,
		Nombre:      req.Nombre,
		Apellidos:   req.Apellidos,
		TipoCliente: req.TipoCliente,
		CuotaMaxima: req.CuotaMaxima,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, cliente)
}

// List handles GET /api/clientes?ordenarPor=dni|fechaAlta&descendente=bool
func (h *ClienteHandler) List(c *gin.Context) {
	var params ListQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.BindingError(c, err)
		return
	}

	clientes, err := h.clienteService.List(c.Request.Context(), params.toQuery())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, clientes)
}

// Get handles GET /api/clientes/:dni
func (h *ClienteHandler) Get(c *gin.Context) {
	cliente, err := h.clienteService.Get(c.Request.Context(), c.Param("dni"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, cliente)
}

// Update handles PUT /api/clientes/:dni
func (h *ClienteHandler) Update(c *gin.Context) {
	var req UpdateClienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	cliente, err := h.clienteService.Update(c.Request.Context(), c.Param("dni"), ledgerapp.UpdateClienteRequest{
		Nombre:      req.Nombre,
		Apellidos:   req.Apellidos,
		TipoCliente: req.TipoCliente,
		CuotaMaxima: req.CuotaMaxima,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, cliente)
}

// Delete handles DELETE /api/clientes/:dni; the response reports the cascade
func (h *ClienteHandler) Delete(c *gin.Context) {
	result, err := h.clienteService.Delete(c.Request.Context(), c.Param("dni"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}
