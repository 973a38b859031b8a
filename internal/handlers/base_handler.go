package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/course-platform/catalog-service/internal/services"
	"github.com/course-platform/catalog-service/internal/utils"
	"github.com/course-platform/catalog-service/internal/validator"
)

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse is the standard payload for operations with no body.
type SuccessResponse struct {
	Message string `json:"message"`
}

// BaseHandler carries the shared helpers every handler embeds.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs an incoming request with the request-scoped logger.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.GetLogger(c, h.logger).Info(msg, args...)
}

// LogError logs a handler-level failure with the request-scoped logger.
func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err)
	utils.GetLogger(c, h.logger).Error(msg, args...)
}

// RespondWithError writes an ErrorResponse with the given status.
func (h *BaseHandler) RespondWithError(c *gin.Context, status int, message string, err error) {
	resp := ErrorResponse{Message: message}
	if err != nil {
		resp.Details = err.Error()
	}
	c.JSON(status, resp)
}

// parseIDParam parses a numeric path parameter. On failure it has
// already written a 400 response and returns 0.
func (h *BaseHandler) parseIDParam(c *gin.Context, param string) uint {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: err.Error(),
		})
		return 0
	}
	return uint(id)
}

func (h *BaseHandler) parseIntQuery(c *gin.Context, param string, defaultValue int) int {
	valueStr := c.Query(param)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getUserID returns the authenticated user id or responds 401 and
// returns "".
func (h *BaseHandler) getUserID(c *gin.Context) string {
	value, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return ""
	}
	if id, ok := value.(string); ok && id != "" {
		return id
	}
	c.JSON(http.StatusUnauthorized, ErrorResponse{
		Message: "User not authenticated",
	})
	return ""
}

// handleServiceError maps service-layer errors to HTTP responses.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	var selfRefErr *services.SelfReferenceError
	var cycleErr *services.CycleError
	var conflictErr *services.ConflictError
	var transitionErr *services.InvalidTransitionError
	var mismatchErr *services.AmountMismatchError
	var unknownRefErr *services.UnknownReferenceError
	var rangeErr *services.OutOfRangeError
	var duplicateReviewErr *services.DuplicateReviewError
	var permissionErr *services.PermissionError

	switch {
	case errors.As(err, &validationErrs):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrs,
		})
	case errors.As(err, &selfRefErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Self reference not allowed",
			Details: selfRefErr.Error(),
		})
	case errors.As(err, &cycleErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Section update would create a cycle",
			Details: gin.H{
				"document_id": cycleErr.DocumentID,
				"path":        cycleErr.Path,
			},
		})
	case errors.As(err, &rangeErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Value out of range",
			Details: rangeErr.Error(),
		})
	case errors.As(err, &permissionErr):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Forbidden",
			Details: permissionErr.Error(),
		})
	case errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrCourseNotFound),
		errors.Is(err, services.ErrSectionNotFound),
		errors.Is(err, services.ErrDocumentationNotFound),
		errors.Is(err, services.ErrPurchaseNotFound),
		errors.Is(err, services.ErrEnrollmentNotFound),
		errors.Is(err, services.ErrProgressNotFound),
		errors.Is(err, services.ErrReviewNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Resource not found",
			Details: err.Error(),
		})
	case errors.As(err, &unknownRefErr):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "No purchase matches the provider references",
			Details: unknownRefErr.Error(),
		})
	case errors.Is(err, services.ErrVersionConflict):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Document was modified concurrently",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrCategoryTitleTaken),
		errors.Is(err, services.ErrSlugTaken):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Resource already exists",
			Details: err.Error(),
		})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Resource already exists",
			Details: conflictErr.Error(),
		})
	case errors.As(err, &duplicateReviewErr):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Review already exists for this course",
			Details: duplicateReviewErr.Error(),
		})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Invalid state transition",
			Details: transitionErr.Error(),
		})
	case errors.As(err, &mismatchErr):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Recorded amount disagrees with provider",
			Details: mismatchErr.Error(),
		})
	default:
		h.LogError(c, err, "Unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
			Details: err.Error(),
		})
	}
}
