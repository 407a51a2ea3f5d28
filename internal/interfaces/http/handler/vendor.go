package handler

import (
	facilityapp "github.com/facilityos/backend/internal/application/facility"
	"github.com/facilityos/backend/internal/interfaces/http/dto"
	"github.com/facilityos/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// VendorHandler handles vendor endpoints
type VendorHandler struct {
	BaseHandler
	vendors *facilityapp.VendorService
}

// NewVendorHandler creates a new VendorHandler
func NewVendorHandler(vendors *facilityapp.VendorService) *VendorHandler {
	return &VendorHandler{vendors: vendors}
}

// Create registers a new vendor
func (h *VendorHandler) Create(c *gin.Context) {
	user, ok := h.principal(c)
	if !ok {
		return
	}

	var req facilityapp.CreateVendorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	vendor, err := h.vendors.Create(c.Request.Context(), user, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	setVersionHeader(c, vendor.Version)
	h.Created(c, toVendorResponse(vendor))
}

// List returns the vendors inside the principal's scope
func (h *VendorHandler) List(c *gin.Context) {
	user, ok := h.principal(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	vendors, err := h.vendors.List(c.Request.Context(), user, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toVendorResponses(vendors))
}

// GetByID returns one vendor
func (h *VendorHandler) GetByID(c *gin.Context) {
	user, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	vendor, err := h.vendors.Get(c.Request.Context(), user, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	setVersionHeader(c, vendor.Version)
	h.Success(c, toVendorResponse(vendor))
}

// Approve marks a vendor as approved for purchasing
func (h *VendorHandler) Approve(c *gin.Context) {
	user, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	version, ok := h.assertedVersion(c)
	if !ok {
		return
	}

	vendor, err := h.vendors.Approve(c.Request.Context(), user, id, version)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	setVersionHeader(c, vendor.Version)
	h.Success(c, toVendorResponse(vendor))
}
