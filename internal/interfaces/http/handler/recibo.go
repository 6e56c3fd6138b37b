package handler

import (
	"fmt"

	ledgerapp "github.com/MrJorgx/PracticasExt/internal/application/ledger"
	"github.com/MrJorgx/PracticasExt/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ReciboHandler serves /api/recibos
type ReciboHandler struct {
	BaseHandler
	reciboService *ledgerapp.ReciboService
}

// NewReciboHandler creates a new ReciboHandler
func NewReciboHandler(reciboService *ledgerapp.ReciboService) *ReciboHandler {
	return &ReciboHandler{reciboService: reciboService}
}

// CreateReciboRequest is the body of POST /api/recibos
type CreateReciboRequest struct {
	NumeroRecibo string          `json:"numeroRecibo" binding:"required,max=50"`
	DNICliente   string          `json:"dniCliente" binding:"required,max=9"`
	Importe      decimal.Decimal `json:"importe"`
	FechaEmision *dto.Timestamp  `json:"fechaEmision"`
}

// UpdateReciboRequest is the body of PUT /api/recibos/:numeroRecibo
type UpdateReciboRequest struct {
	Importe      decimal.Decimal `json:"importe"`
	FechaEmision *dto.Timestamp  `json:"fechaEmision"`
}

// Create handles POST /api/recibos
func (h *ReciboHandler) Create(c *gin.Context) {
	var req CreateReciboRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	recibo, err := h.reciboService.Create(c.Request.Context(), ledgerapp.CreateReciboRequest{
		NumeroRecibo: req.NumeroRecibo,
		DNICliente:   req.DNICliente,
		Importe:      req.Importe,
		FechaEmision: req.FechaEmision.Ptr(),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, recibo)
}

// ListAll handles GET /api/recibos?ordenarPor=cliente|fecha|numero&descendente=bool
func (h *ReciboHandler) ListAll(c *gin.Context) {
	var params ListQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.BindingError(c, err)
		return
	}

	recibos, err := h.reciboService.ListAll(c.Request.Context(), params.toQuery())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, recibos)
}

// ListByCliente handles GET /api/recibos/cliente/:dni
func (h *ReciboHandler) ListByCliente(c *gin.Context) {
	var params ListQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.BindingError(c, err)
		return
	}

	recibos, err := h.reciboService.ListByCliente(c.Request.Context(), c.Param("dni"), params.toQuery())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, recibos)
}

// Get handles GET /api/recibos/:numeroRecibo
func (h *ReciboHandler) Get(c *gin.Context) {
	recibo, err := h.reciboService.Get(c.Request.Context(), c.Param("numeroRecibo"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, recibo)
}

// Update handles PUT /api/recibos/:numeroRecibo
func (h *ReciboHandler) Update(c *gin.Context) {
	var req UpdateReciboRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	recibo, err := h.reciboService.Update(c.Request.Context(), c.Param("numeroRecibo"), ledgerapp.UpdateReciboRequest{
		Importe:      req.Importe,
		FechaEmision: req.FechaEmision.Ptr(),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, recibo)
}

// DeleteReciboResponse confirms a receipt deletion
type DeleteReciboResponse struct {
	NumeroRecibo string `json:"numeroRecibo"`
	Mensaje      string `json:"mensaje"`
}

// Delete handles DELETE /api/recibos/:numeroRecibo
func (h *ReciboHandler) Delete(c *gin.Context) {
	numero := c.Param("numeroRecibo")
	if err := h.reciboService.Delete(c.Request.Context(), numero); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, DeleteReciboResponse{
		NumeroRecibo: numero,
		Mensaje:      fmt.Sprintf("Recibo %s eliminado correctamente", numero),
	})
}
