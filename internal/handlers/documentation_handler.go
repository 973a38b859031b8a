package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/course-platform/catalog-service/internal/repositories"
	"github.com/course-platform/catalog-service/internal/services"
	"github.com/course-platform/catalog-service/internal/utils"
)

type DocumentationHandler struct {
	BaseHandler
	catalogService services.CatalogService
	graphService   services.GraphService
}

func NewDocumentationHandler(
	catalogService services.CatalogService,
	graphService services.GraphService,
	logger utils.Logger,
) *DocumentationHandler {
	return &DocumentationHandler{
		BaseHandler:    NewBaseHandler(logger),
		catalogService: catalogService,
		graphService:   graphService,
	}
}

// CreateDocumentation creates a new documentation page
// @Summary Create documentation
// @Tags documentation
// @Accept json
// @Produce json
// @Param request body services.CreateDocumentationRequest true "Documentation data"
// @Success 201 {object} models.Documentation
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 409 {object} ErrorResponse "Slug already exists"
// @Router /docs [post]
func (h *DocumentationHandler) CreateDocumentation(c *gin.Context) {
	var req services.CreateDocumentationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating documentation", "title", req.Title)

	doc, err := h.catalogService.CreateDocumentation(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// GetDocumentation gets a documentation page with its section ids
// @Summary Get documentation
// @Tags documentation
// @Produce json
// @Param id path uint true "Documentation ID"
// @Success 200 {object} services.DocumentationResponse
// @Failure 404 {object} ErrorResponse
// @Router /docs/{id} [get]
func (h *DocumentationHandler) GetDocumentation(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	doc, err := h.catalogService.GetDocumentation(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// GetDocumentationBySlug gets a documentation page by slug
// @Summary Get documentation by slug
// @Tags documentation
// @Produce json
// @Param slug path string true "Documentation slug"
// @Success 200 {object} services.DocumentationResponse
// @Failure 404 {object} ErrorResponse
// @Router /docs/slug/{slug} [get]
func (h *DocumentationHandler) GetDocumentationBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid slug"})
		return
	}

	doc, err := h.catalogService.GetDocumentationBySlug(c.Request.Context(), slug)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// ListDocumentation lists documentation pages
// @Summary List documentation
// @Tags documentation
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 10)"
// @Param category_id query uint false "Filter by category"
// @Param is_published query bool false "Filter published pages"
// @Success 200 {object} services.DocumentationListResponse
// @Router /docs [get]
func (h *DocumentationHandler) ListDocumentation(c *gin.Context) {
	filters := h.parseDocumentationFilters(c)

	response, err := h.catalogService.ListDocumentation(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// UpdateDocumentation updates a documentation page
// @Summary Update documentation
// @Tags documentation
// @Accept json
// @Produce json
// @Param id path uint true "Documentation ID"
// @Param request body services.UpdateDocumentationRequest true "Documentation data"
// @Success 200 {object} models.Documentation
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /docs/{id} [put]
func (h *DocumentationHandler) UpdateDocumentation(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateDocumentationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating documentation", "document_id", id)

	doc, err := h.catalogService.UpdateDocumentation(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// DeleteDocumentation deletes a documentation page
// @Summary Delete documentation
// @Tags documentation
// @Produce json
// @Param id path uint true "Documentation ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /docs/{id} [delete]
func (h *DocumentationHandler) DeleteDocumentation(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting documentation", "document_id", id)

	if err := h.catalogService.DeleteDocumentation(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Documentation deleted successfully"})
}

// GetSections returns the ordered child section ids of a document
// @Summary Get document sections
// @Tags documentation
// @Produce json
// @Param id path uint true "Documentation ID"
// @Success 200 {object} map[string]interface{} "Section ids"
// @Failure 404 {object} ErrorResponse
// @Router /docs/{id}/sections [get]
func (h *DocumentationHandler) GetSections(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	sectionIDs, err := h.graphService.GetSections(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"document_id": id,
		"section_ids": sectionIDs,
	})
}

// UpdateSections replaces a document's ordered child sections
// @Summary Replace document sections
// @Description Atomically replaces the child section list. Rejects self
// references and cycles; mutual references are accepted and reported in
// the response. The expected_version field must match the current
// document version.
// @Tags documentation
// @Accept json
// @Produce json
// @Param id path uint true "Documentation ID"
// @Param request body services.UpdateSectionsRequest true "Ordered section ids with expected version"
// @Success 200 {object} services.DocumentationResponse
// @Failure 400 {object} ErrorResponse "Self reference or cycle"
// @Failure 404 {object} ErrorResponse "Document or section not found"
// @Failure 409 {object} ErrorResponse "Version conflict"
// @Router /docs/{id}/sections [put]
func (h *DocumentationHandler) UpdateSections(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateSectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Replacing document sections",
		"document_id", id,
		"section_count", len(req.SectionIDs),
		"expected_version", req.ExpectedVersion)

	doc, err := h.graphService.UpdateDocumentSections(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *DocumentationHandler) parseDocumentationFilters(c *gin.Context) repositories.DocumentationFilters {
	page := h.parseIntQuery(c, "page", 1)
	size := h.parseIntQuery(c, "size", 10)

	filters := repositories.DocumentationFilters{
		Limit:     size,
		Offset:    (page - 1) * size,
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}

	if categoryID := h.parseIntQuery(c, "category_id", 0); categoryID > 0 {
		id := uint(categoryID)
		filters.CategoryID = &id
	}

	if slug := c.Query("slug"); slug != "" {
		filters.Slug = &slug
	}

	if published := c.Query("is_published"); published != "" {
		isPublished := published == "true"
		filters.IsPublished = &isPublished
	}

	return filters
}
