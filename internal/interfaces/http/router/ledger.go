package router

import (
	"slices"

	"github.com/MrJorgx/PracticasExt/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// ClienteRoutes builds /clientes. createMiddleware runs before Create only.
func ClienteRoutes(h *handler.ClienteHandler, createMiddleware ...gin.HandlerFunc) *DomainGroup {
	return clienteRoutes("clientes", "/clientes", h, createMiddleware)
}

// ClienteAliasRoutes serves the same operations under the singular /cliente
// path used by earlier API clients.
func ClienteAliasRoutes(h *handler.ClienteHandler, createMiddleware ...gin.HandlerFunc) *DomainGroup {
	return clienteRoutes("cliente", "/cliente", h, createMiddleware)
}

// ReciboRoutes builds /recibos. createMiddleware runs before Create only.
func ReciboRoutes(h *handler.ReciboHandler, createMiddleware ...gin.HandlerFunc) *DomainGroup {
	return reciboRoutes("recibos", "/recibos", h, createMiddleware)
}

// ReciboAliasRoutes serves the same operations under /recibo
func ReciboAliasRoutes(h *handler.ReciboHandler, createMiddleware ...gin.HandlerFunc) *DomainGroup {
	return reciboRoutes("recibo", "/recibo", h, createMiddleware)
}

func clienteRoutes(name, prefix string, h *handler.ClienteHandler, createMiddleware []gin.HandlerFunc) *DomainGroup {
	return NewDomainGroup(name, prefix).
		POST("", chain(createMiddleware, h.Create)...).
		GET("", h.List).
		GET("/:dni", h.Get).
		PUT("/:dni", h.Update).
		DELETE("/:dni", h.Delete)
}

func reciboRoutes(name, prefix string, h *handler.ReciboHandler, createMiddleware []gin.HandlerFunc) *DomainGroup {
	return NewDomainGroup(name, prefix).
		POST("", chain(createMiddleware, h.Create)...).
		GET("", h.ListAll).
		GET("/cliente/:dni", h.ListByCliente).
		GET("/:numeroRecibo", h.Get).
		PUT("/:numeroRecibo", h.Update).
		DELETE("/:numeroRecibo", h.Delete)
}

func chain(middleware []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	return append(slices.Clone(middleware), h)
}
