package handler

import (
	"io"
	"strconv"

	facilityapp "github.com/facilityos/backend/internal/application/facility"
	"github.com/facilityos/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// DocumentHandler handles document metadata and content endpoints
type DocumentHandler struct {
	BaseHandler
	documents *facilityapp.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documents *facilityapp.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// Create registers document metadata, optionally attached to an asset
func (h *DocumentHandler) Create(c *gin.Context) {
	user, ok := h.principal(c)
	if !ok {
		return
	}

	var req facilityapp.CreateDocumentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	doc, err := h.documents.Create(c.Request.Context(), user, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toDocumentResponse(doc))
}

// GetByID returns document metadata
func (h *DocumentHandler) GetByID(c *gin.Context) {
	user, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	doc, err := h.documents.Get(c.Request.Context(), user, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toDocumentResponse(doc))
}

// Download streams the document content
func (h *DocumentHandler) Download(c *gin.Context) {
	user, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	reader, doc, err := h.documents.Open(c.Request.Context(), user, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer reader.Close()

	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", `attachment; filename="`+doc.Name+`"`)
	if doc.SizeBytes > 0 {
		c.Header("Content-Length", strconv.FormatInt(doc.SizeBytes, 10))
	}
	c.Header("Content-Type", contentType)
	c.Status(200)
	_, _ = io.Copy(c.Writer, reader)
}

// ListForAsset returns the documents attached to an asset
func (h *DocumentHandler) ListForAsset(c *gin.Context) {
	user, ok := h.principal(c)
	if !ok {
		return
	}
	assetID, ok := h.pathID(c)
	if !ok {
		return
	}

	docs, err := h.documents.ListFor(c.Request.Context(), user, "assets", assetID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toDocumentResponses(docs))
}

// Delete removes document metadata and its stored content
func (h *DocumentHandler) Delete(c *gin.Context) {
	user, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.documents.Delete(c.Request.Context(), user, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
