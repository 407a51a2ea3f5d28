package handler

import (
	facilityapp "github.com/facilityos/backend/internal/application/facility"
	"github.com/facilityos/backend/internal/interfaces/http/dto"
	"github.com/facilityos/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// SiteHandler handles site, building, and floor endpoints
type SiteHandler struct {
	BaseHandler
	sites *facilityapp.SiteService
}

// NewSiteHandler creates a new SiteHandler
func NewSiteHandler(sites *facilityapp.SiteService) *SiteHandler {
	return &SiteHandler{sites: sites}
}

// CreateBuildingRequest represents a request to add a building to a site
type CreateBuildingRequest struct {
	Name string `json:"name" binding:"required,max=200"`
}

// CreateFloorRequest represents a request to add a floor to a building
type CreateFloorRequest struct {
	Level int    `json:"level"`
	Name  string `json:"name" binding:"max=100"`
}

// Create registers a new site
func (h *SiteHandler) Create(c *gin.Context) {
	user, ok := h.principal(c)
	if !ok {
		return
	}

	var req facilityapp.CreateSiteInput
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	site, err := h.sites.Create(c.Request.Context(), user, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	setVersionHeader(c, site.Version)
	h.Created(c, toSiteResponse(site))
}

// List returns the page of sites the principal may view
func (h *SiteHandler) List(c *gin.Context) {
	user, ok := h.principal(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.sites.List(c.Request.Context(), user, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toSiteResponses(page.Items), page.Total, page.Page, page.PageSize)
}

// GetByID returns one site
func (h *SiteHandler) GetByID(c *gin.Context) {
	user, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	site, err := h.sites.Get(c.Request.Context(), user, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	setVersionHeader(c, site.Version)
	h.Success(c, toSiteResponse(site))
}

// Update applies a version-guarded partial update
func (h *SiteHandler) Update(c *gin.Context) {
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

	var req facilityapp.UpdateSiteInput
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	site, err := h.sites.Update(c.Request.Context(), user, id, version, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	setVersionHeader(c, site.Version)
	h.Success(c, toSiteResponse(site))
}

// Delete removes a site
func (h *SiteHandler) Delete(c *gin.Context) {
	user, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.sites.Delete(c.Request.Context(), user, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddBuilding adds a building to a site
func (h *SiteHandler) AddBuilding(c *gin.Context) {
	user, ok := h.principal(c)
	if !ok {
		return
	}
	siteID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req CreateBuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	building, err := h.sites.AddBuilding(c.Request.Context(), user, facilityapp.CreateBuildingInput{
		SiteID: siteID,
		Name:   req.Name,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toBuildingResponse(building))
}

// ListBuildings returns the buildings of a site
func (h *SiteHandler) ListBuildings(c *gin.Context) {
	user, ok := h.principal(c)
	if !ok {
		return
	}
	siteID, ok := h.pathID(c)
	if !ok {
		return
	}

	buildings, err := h.sites.Buildings(c.Request.Context(), user, siteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toBuildingResponses(buildings))
}

// AddFloor adds a floor to a building
func (h *SiteHandler) AddFloor(c *gin.Context) {
	user, ok := h.principal(c)
	if !ok {
		return
	}
	buildingID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req CreateFloorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	floor, err := h.sites.AddFloor(c.Request.Context(), user, facilityapp.CreateFloorInput{
		BuildingID: buildingID,
		Level:      req.Level,
		Name:       req.Name,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toFloorResponse(floor))
}

// ListFloors returns the floors of a building
func (h *SiteHandler) ListFloors(c *gin.Context) {
	user, ok := h.principal(c)
	if !ok {
		return
	}
	buildingID, ok := h.pathID(c)
	if !ok {
		return
	}

	floors, err := h.sites.Floors(c.Request.Context(), user, buildingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toFloorResponses(floors))
}
