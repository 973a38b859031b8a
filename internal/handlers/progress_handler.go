package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/course-platform/catalog-service/internal/services"
	"github.com/course-platform/catalog-service/internal/utils"
)

type ProgressHandler struct {
	BaseHandler
	progressService services.ProgressService
}

func NewProgressHandler(progressService services.ProgressService, logger utils.Logger) *ProgressHandler {
	return &ProgressHandler{
		BaseHandler:     NewBaseHandler(logger),
		progressService: progressService,
	}
}

// Enroll enrolls the caller into a course
// @Summary Enroll in course
// @Description Creates an active enrollment. Idempotent, re-enrolling returns the existing row.
// @Tags enrollments
// @Accept json
// @Produce json
// @Param request body services.EnrollRequest true "Enrollment data"
// @Success 201 {object} models.Enrollment
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Course not published"
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /enrollments [post]
func (h *ProgressHandler) Enroll(c *gin.Context) {
	userID := h.getUserID(c)
	if userID == "" {
		return
	}

	var req services.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Enrolling user", "user_id", userID, "course_id", req.CourseID)

	enrollment, err := h.progressService.Enroll(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}

// PauseEnrollment pauses an active enrollment
// @Summary Pause enrollment
// @Tags enrollments
// @Produce json
// @Param course_id path uint true "Course ID"
// @Success 200 {object} models.Enrollment
// @Failure 404 {object} ErrorResponse "Enrollment not found"
// @Failure 409 {object} ErrorResponse "Invalid transition"
// @Router /enrollments/{course_id}/pause [post]
func (h *ProgressHandler) PauseEnrollment(c *gin.Context) {
	userID := h.getUserID(c)
	if userID == "" {
		return
	}

	courseID := h.parseIDParam(c, "course_id")
	if courseID == 0 {
		return
	}

	h.LogRequest(c, "Pausing enrollment", "user_id", userID, "course_id", courseID)

	enrollment, err := h.progressService.PauseEnrollment(c.Request.Context(), userID, courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollment)
}

// CancelEnrollment cancels an enrollment
// @Summary Cancel enrollment
// @Tags enrollments
// @Produce json
// @Param course_id path uint true "Course ID"
// @Success 200 {object} models.Enrollment
// @Failure 404 {object} ErrorResponse "Enrollment not found"
// @Failure 409 {object} ErrorResponse "Invalid transition"
// @Router /enrollments/{course_id}/cancel [post]
func (h *ProgressHandler) CancelEnrollment(c *gin.Context) {
	userID := h.getUserID(c)
	if userID == "" {
		return
	}

	courseID := h.parseIDParam(c, "course_id")
	if courseID == 0 {
		return
	}

	h.LogRequest(c, "Cancelling enrollment", "user_id", userID, "course_id", courseID)

	enrollment, err := h.progressService.CancelEnrollment(c.Request.Context(), userID, courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollment)
}

// ReactivateEnrollment reactivates a paused or cancelled enrollment
// @Summary Reactivate enrollment
// @Tags enrollments
// @Produce json
// @Param course_id path uint true "Course ID"
// @Success 200 {object} models.Enrollment
// @Failure 404 {object} ErrorResponse "Enrollment not found"
// @Failure 409 {object} ErrorResponse "Invalid transition"
// @Router /enrollments/{course_id}/reactivate [post]
func (h *ProgressHandler) ReactivateEnrollment(c *gin.Context) {
	userID := h.getUserID(c)
	if userID == "" {
		return
	}

	courseID := h.parseIDParam(c, "course_id")
	if courseID == 0 {
		return
	}

	h.LogRequest(c, "Reactivating enrollment", "user_id", userID, "course_id", courseID)

	enrollment, err := h.progressService.ReactivateEnrollment(c.Request.Context(), userID, courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollment)
}

// MarkSectionComplete records one completed course section
// @Summary Mark section complete
// @Description Adds the section to the completed set and recomputes the
// floor percentage. Re-marking is a no-op; the percentage never
// decreases. Reaching 100 completes an active enrollment.
// @Tags progress
// @Accept json
// @Produce json
// @Param course_id path uint true "Course ID"
// @Param request body services.MarkSectionCompleteRequest true "Section data"
// @Success 200 {object} services.ProgressResponse
// @Failure 404 {object} ErrorResponse "Course, section or enrollment not found"
// @Router /progress/{course_id}/sections [post]
func (h *ProgressHandler) MarkSectionComplete(c *gin.Context) {
	userID := h.getUserID(c)
	if userID == "" {
		return
	}

	courseID := h.parseIDParam(c, "course_id")
	if courseID == 0 {
		return
	}

	var req services.MarkSectionCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Marking section complete",
		"user_id", userID,
		"course_id", courseID,
		"section_id", req.SectionID)

	progress, err := h.progressService.MarkSectionComplete(c.Request.Context(), userID, courseID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// GetProgress returns the caller's progress for a course
// @Summary Get course progress
// @Tags progress
// @Produce json
// @Param course_id path uint true "Course ID"
// @Success 200 {object} services.ProgressResponse
// @Failure 404 {object} ErrorResponse "Progress not found"
// @Router /progress/{course_id} [get]
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	userID := h.getUserID(c)
	if userID == "" {
		return
	}

	courseID := h.parseIDParam(c, "course_id")
	if courseID == 0 {
		return
	}

	progress, err := h.progressService.GetProgress(c.Request.Context(), userID, courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// CreateReview submits a course review
// @Summary Create review
// @Description Records the one allowed review per (user, course) and updates the course rating.
// @Tags reviews
// @Accept json
// @Produce json
// @Param request body services.CreateReviewRequest true "Review data"
// @Success 201 {object} models.CourseReview
// @Failure 400 {object} ErrorResponse "Rating out of range"
// @Failure 404 {object} ErrorResponse "Course not found"
// @Failure 409 {object} ErrorResponse "Review already exists"
// @Router /reviews [post]
func (h *ProgressHandler) CreateReview(c *gin.Context) {
	userID := h.getUserID(c)
	if userID == "" {
		return
	}

	var req services.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating review", "user_id", userID, "course_id", req.CourseID)

	review, err := h.progressService.RecordReview(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}
