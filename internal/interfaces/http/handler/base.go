package handler

import (
	"errors"
	"net/http"

	"github.com/MrJorgx/PracticasExt/internal/domain/shared"
	"github.com/MrJorgx/PracticasExt/internal/infrastructure/logger"
	"github.com/MrJorgx/PracticasExt/internal/interfaces/http/dto"
	"github.com/MrJorgx/PracticasExt/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the given status
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BindingError sends a 400 VALIDATION_ERROR for a failed request bind
func (h *BaseHandler) BindingError(c *gin.Context, err error) {
	middleware.HandleValidationError(c, err)
}

// HandleDomainError maps a DomainError to its status and code. Anything
// else is a storage failure: it is logged and answered with a generic 500.
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, dto.GetHTTPStatus(domainErr.Code), domainErr.Code, domainErr.Message)
		return
	}

	_ = c.Error(err)
	logger.L(c.Request.Context()).Error("Request failed",
		zap.String("route", c.FullPath()),
		zap.Error(err),
	)
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, dto.InternalErrorMessage)
}
