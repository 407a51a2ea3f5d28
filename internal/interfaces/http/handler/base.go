package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/facilityos/backend/internal/domain/identity"
	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/facilityos/backend/internal/interfaces/http/dto"
	"github.com/facilityos/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// principal returns the authenticated user or writes a 401
func (h *BaseHandler) principal(c *gin.Context) (*identity.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
		return nil, false
	}
	return user, true
}

// pathID parses the :id path parameter or writes a 400
func (h *BaseHandler) pathID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid ID format")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}

// assertedVersion reads the If-Match header carrying the record version the
// caller last read. A missing or unparseable header fails with 428; the
// platform never guesses which version a write was based on.
func (h *BaseHandler) assertedVersion(c *gin.Context) (int64, bool) {
	raw := strings.TrimSpace(c.GetHeader("If-Match"))
	if raw == "" {
		h.Error(c, http.StatusPreconditionRequired, dto.ErrCodePreconditionRequired,
			"If-Match header with the last read version is required")
		return 0, false
	}
	raw = strings.TrimPrefix(raw, "W/")
	raw = strings.Trim(raw, `"`)
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || version < 0 {
		h.BadRequest(c, "If-Match header must carry a record version")
		return 0, false
	}
	return version, true
}

// setVersionHeader exposes the record version as a strong ETag
func setVersionHeader(c *gin.Context, version int64) {
	c.Header("ETag", `"`+strconv.FormatInt(version, 10)+`"`)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// HandleError converts service errors to HTTP responses. Typed errors map
// to their status and carry structured details; plain domain errors map
// through the code table.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	requestID := getRequestID(c)

	var conflict *shared.VersionConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, dto.NewErrorResponseWithDetails(
			dto.ErrCodeConcurrencyConflict,
			"Record was modified by another request",
			requestID,
			map[string]interface{}{
				"asserted": conflict.Asserted,
				"current":  conflict.Current,
			},
		))
		return
	}

	var denied *shared.PermissionDeniedError
	if errors.As(err, &denied) {
		c.JSON(http.StatusForbidden, dto.NewErrorResponseWithDetails(
			dto.ErrCodeForbidden,
			"Permission denied",
			requestID,
			map[string]interface{}{
				"module": denied.Module,
				"action": denied.Action,
			},
		))
		return
	}

	var invalidated *shared.SessionInvalidatedError
	if errors.As(err, &invalidated) {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponseWithDetails(
			dto.ErrCodeSessionInvalidated,
			"Session is no longer valid",
			requestID,
			map[string]interface{}{"reason": string(invalidated.Reason)},
		))
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, domainErr.Message, requestID))
		return
	}

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal,
		"An unexpected error occurred",
		requestID,
	))
}
