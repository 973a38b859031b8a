package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/course-platform/catalog-service/internal/repositories"
	"github.com/course-platform/catalog-service/internal/services"
	"github.com/course-platform/catalog-service/internal/utils"
)

type CategoryHandler struct {
	BaseHandler
	catalogService services.CatalogService
}

func NewCategoryHandler(catalogService services.CatalogService, logger utils.Logger) *CategoryHandler {
	return &CategoryHandler{
		BaseHandler:    NewBaseHandler(logger),
		catalogService: catalogService,
	}
}

// CreateCategory creates a new category
// @Summary Create category
// @Description Create a new content category
// @Tags categories
// @Accept json
// @Produce json
// @Param request body services.CreateCategoryRequest true "Category data"
// @Success 201 {object} models.Category
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 409 {object} ErrorResponse "Title already exists"
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req services.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating category", "title", req.Title)

	category, err := h.catalogService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// GetCategory gets a category by ID
// @Summary Get category
// @Tags categories
// @Produce json
// @Param id path uint true "Category ID"
// @Success 200 {object} models.Category
// @Failure 404 {object} ErrorResponse
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	category, err := h.catalogService.GetCategory(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// GetCategoryBySlug gets a category by slug
// @Summary Get category by slug
// @Tags categories
// @Produce json
// @Param slug path string true "Category slug"
// @Success 200 {object} models.Category
// @Failure 404 {object} ErrorResponse
// @Router /categories/slug/{slug} [get]
func (h *CategoryHandler) GetCategoryBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid slug"})
		return
	}

	category, err := h.catalogService.GetCategoryBySlug(c.Request.Context(), slug)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// ListCategories lists categories
// @Summary List categories
// @Tags categories
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 50)"
// @Param sort_by query string false "Sort field (display_order, title, created_at)"
// @Success 200 {object} map[string]interface{} "Category list response"
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	filters := h.parseCategoryFilters(c)

	categories, total, err := h.catalogService.ListCategories(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	page := (filters.Offset / max(filters.Limit, 1)) + 1
	c.JSON(http.StatusOK, map[string]interface{}{
		"categories": categories,
		"total":      total,
		"page":       page,
		"size":       filters.Limit,
	})
}

// UpdateCategory updates a category
// @Summary Update category
// @Tags categories
// @Accept json
// @Produce json
// @Param id path uint true "Category ID"
// @Param request body services.UpdateCategoryRequest true "Category data"
// @Success 200 {object} models.Category
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating category", "category_id", id)

	category, err := h.catalogService.UpdateCategory(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory deletes a category
// @Summary Delete category
// @Tags categories
// @Produce json
// @Param id path uint true "Category ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting category", "category_id", id)

	if err := h.catalogService.DeleteCategory(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Category deleted successfully"})
}

func (h *CategoryHandler) parseCategoryFilters(c *gin.Context) repositories.CategoryFilters {
	page := h.parseIntQuery(c, "page", 1)
	size := h.parseIntQuery(c, "size", 50)

	filters := repositories.CategoryFilters{
		Limit:     size,
		Offset:    (page - 1) * size,
		SortBy:    c.DefaultQuery("sort_by", "display_order"),
		SortOrder: c.DefaultQuery("sort_order", "asc"),
	}

	if slug := c.Query("slug"); slug != "" {
		filters.Slug = &slug
	}

	return filters
}
