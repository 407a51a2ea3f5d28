package handler

import (
	facilityapp "github.com/facilityos/backend/internal/application/facility"
	"github.com/facilityos/backend/internal/interfaces/http/dto"
	"github.com/facilityos/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AssetHandler handles asset endpoints
type AssetHandler struct {
	BaseHandler
	assets *facilityapp.AssetService
}

// NewAssetHandler creates a new AssetHandler
func NewAssetHandler(assets *facilityapp.AssetService) *AssetHandler {
	return &AssetHandler{assets: assets}
}

// Create registers a new asset
func (h *AssetHandler) Create(c *gin.Context) {
	user, ok := h.principal(c)
	if !ok {
		return
	}

	var req facilityapp.CreateAssetInput
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	asset, err := h.assets.Create(c.Request.Context(), user, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	setVersionHeader(c, asset.Version)
	h.Created(c, toAssetResponse(asset))
}

// List returns the page of assets inside the principal's scope
func (h *AssetHandler) List(c *gin.Context) {
	user, ok := h.principal(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.assets.List(c.Request.Context(), user, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toAssetResponses(page.Items), page.Total, page.Page, page.PageSize)
}

// GetByID returns one asset
func (h *AssetHandler) GetByID(c *gin.Context) {
	user, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	asset, err := h.assets.Get(c.Request.Context(), user, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	setVersionHeader(c, asset.Version)
	h.Success(c, toAssetResponse(asset))
}

// Update applies a version-guarded partial update
func (h *AssetHandler) Update(c *gin.Context) {
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

	var req facilityapp.UpdateAssetInput
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	asset, err := h.assets.Update(c.Request.Context(), user, id, version, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	setVersionHeader(c, asset.Version)
	h.Success(c, toAssetResponse(asset))
}

// RecordPurchase records acquisition details on an asset
func (h *AssetHandler) RecordPurchase(c *gin.Context) {
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

	var req facilityapp.PurchaseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	asset, err := h.assets.RecordPurchase(c.Request.Context(), user, id, version, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	setVersionHeader(c, asset.Version)
	h.Success(c, toAssetResponse(asset))
}

// Delete removes an asset
func (h *AssetHandler) Delete(c *gin.Context) {
	user, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.assets.Delete(c.Request.Context(), user, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
