package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/course-platform/catalog-service/internal/models"
	"github.com/course-platform/catalog-service/internal/repositories"
	"github.com/course-platform/catalog-service/internal/services"
	"github.com/course-platform/catalog-service/internal/utils"
)

type CourseHandler struct {
	BaseHandler
	catalogService   services.CatalogService
	reportingService services.ReportingService
}

func NewCourseHandler(
	catalogService services.CatalogService,
	reportingService services.ReportingService,
	logger utils.Logger,
) *CourseHandler {
	return &CourseHandler{
		BaseHandler:      NewBaseHandler(logger),
		catalogService:   catalogService,
		reportingService: reportingService,
	}
}

// CreateCourse creates a new course
// @Summary Create course
// @Tags courses
// @Accept json
// @Produce json
// @Param request body services.CreateCourseRequest true "Course data"
// @Success 201 {object} models.Course
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 404 {object} ErrorResponse "Category not found"
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req services.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating course", "title", req.Title)

	course, err := h.catalogService.CreateCourse(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

// GetCourse gets a course with its sections
// @Summary Get course
// @Tags courses
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {object} services.CourseResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	course, err := h.catalogService.GetCourse(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// ListCourses lists courses with optional filtering
// @Summary List courses
// @Tags courses
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 10)"
// @Param category_id query uint false "Filter by category"
// @Param level query string false "Filter by level (beginner, intermediate, advanced)"
// @Param is_premium query bool false "Filter premium courses"
// @Param is_published query bool false "Filter published courses"
// @Success 200 {object} services.CourseListResponse
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	filters := h.parseCourseFilters(c)

	response, err := h.catalogService.ListCourses(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// UpdateCourse updates a course
// @Summary Update course
// @Tags courses
// @Accept json
// @Produce json
// @Param id path uint true "Course ID"
// @Param request body services.UpdateCourseRequest true "Course data"
// @Success 200 {object} models.Course
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating course", "course_id", id)

	course, err := h.catalogService.UpdateCourse(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// DeleteCourse deletes a course
// @Summary Delete course
// @Tags courses
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting course", "course_id", id)

	if err := h.catalogService.DeleteCourse(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Course deleted successfully"})
}

// AddSection adds a section to a course
// @Summary Add course section
// @Tags courses
// @Accept json
// @Produce json
// @Param id path uint true "Course ID"
// @Param request body services.CreateSectionRequest true "Section data"
// @Success 201 {object} models.CourseSection
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id}/sections [post]
func (h *CourseHandler) AddSection(c *gin.Context) {
	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}

	var req services.CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Adding course section", "course_id", courseID)

	section, err := h.catalogService.AddSection(c.Request.Context(), courseID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, section)
}

// UpdateSection updates a course section
// @Summary Update course section
// @Tags courses
// @Accept json
// @Produce json
// @Param section_id path uint true "Section ID"
// @Param request body services.UpdateSectionRequest true "Section data"
// @Success 200 {object} models.CourseSection
// @Failure 404 {object} ErrorResponse
// @Router /courses/sections/{section_id} [put]
func (h *CourseHandler) UpdateSection(c *gin.Context) {
	sectionID := h.parseIDParam(c, "section_id")
	if sectionID == 0 {
		return
	}

	var req services.UpdateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	section, err := h.catalogService.UpdateSection(c.Request.Context(), sectionID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, section)
}

// DeleteSection deletes a course section
// @Summary Delete course section
// @Tags courses
// @Produce json
// @Param section_id path uint true "Section ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/sections/{section_id} [delete]
func (h *CourseHandler) DeleteSection(c *gin.Context) {
	sectionID := h.parseIDParam(c, "section_id")
	if sectionID == 0 {
		return
	}

	h.LogRequest(c, "Deleting course section", "section_id", sectionID)

	if err := h.catalogService.DeleteSection(c.Request.Context(), sectionID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Section deleted successfully"})
}

// GetCourseEngagement returns engagement statistics for a course
// @Summary Get course engagement stats
// @Description Enrollment, completion, average progress and rating for one course
// @Tags courses
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {object} repositories.CourseEngagementStats
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id}/engagement [get]
func (h *CourseHandler) GetCourseEngagement(c *gin.Context) {
	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}

	h.LogRequest(c, "Getting course engagement", "course_id", courseID)

	stats, err := h.reportingService.GetCourseEngagement(c.Request.Context(), courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *CourseHandler) parseCourseFilters(c *gin.Context) repositories.CourseFilters {
	page := h.parseIntQuery(c, "page", 1)
	size := h.parseIntQuery(c, "size", 10)

	filters := repositories.CourseFilters{
		Limit:     size,
		Offset:    (page - 1) * size,
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}

	if categoryID := h.parseIntQuery(c, "category_id", 0); categoryID > 0 {
		id := uint(categoryID)
		filters.CategoryID = &id
	}

	if level := c.Query("level"); level != "" {
		courseLevel := models.CourseLevel(level)
		filters.Level = &courseLevel
	}

	if premium := c.Query("is_premium"); premium != "" {
		isPremium := premium == "true"
		filters.IsPremium = &isPremium
	}

	if published := c.Query("is_published"); published != "" {
		isPublished := published == "true"
		filters.IsPublished = &isPublished
	}

	return filters
}
