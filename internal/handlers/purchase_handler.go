package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/course-platform/catalog-service/internal/models"
	"github.com/course-platform/catalog-service/internal/repositories"
	"github.com/course-platform/catalog-service/internal/services"
	"github.com/course-platform/catalog-service/internal/utils"
)

type PurchaseHandler struct {
	BaseHandler
	ledgerService    services.LedgerService
	reportingService services.ReportingService
}

func NewPurchaseHandler(
	ledgerService services.LedgerService,
	reportingService services.ReportingService,
	logger utils.Logger,
) *PurchaseHandler {
	return &PurchaseHandler{
		BaseHandler:      NewBaseHandler(logger),
		ledgerService:    ledgerService,
		reportingService: reportingService,
	}
}

// Checkout opens a pending purchase for a paid document
// @Summary Start checkout
// @Description Creates or returns the pending purchase for (user, document). Idempotent.
// @Tags purchases
// @Accept json
// @Produce json
// @Param request body services.CheckoutRequest true "Checkout data"
// @Success 201 {object} models.Purchase
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Document not found"
// @Router /purchases/checkout [post]
func (h *PurchaseHandler) Checkout(c *gin.Context) {
	userID := h.getUserID(c)
	if userID == "" {
		return
	}

	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Starting checkout", "user_id", userID, "document_id", req.DocumentID)

	purchase, err := h.ledgerService.RecordPendingPurchase(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, purchase)
}

// CheckAccess reports whether the caller can read a document
// @Summary Check document access
// @Description True when the document is free or the caller holds a completed purchase
// @Tags purchases
// @Produce json
// @Param document_id path uint true "Document ID"
// @Success 200 {object} map[string]interface{} "Access response"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Document not found"
// @Router /purchases/access/{document_id} [get]
func (h *PurchaseHandler) CheckAccess(c *gin.Context) {
	userID := h.getUserID(c)
	if userID == "" {
		return
	}

	documentID := h.parseIDParam(c, "document_id")
	if documentID == 0 {
		return
	}

	hasAccess, err := h.ledgerService.HasAccess(c.Request.Context(), userID, documentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"document_id": documentID,
		"has_access":  hasAccess,
	})
}

// GetPurchaseHistory lists the caller's purchases
// @Summary Get purchase history
// @Tags purchases
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20)"
// @Param status query string false "Filter by status (pending, completed, failed, refunded)"
// @Param date_from query string false "Filter from date (YYYY-MM-DD)"
// @Param date_to query string false "Filter to date (YYYY-MM-DD)"
// @Success 200 {object} services.PurchaseHistoryResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /purchases [get]
func (h *PurchaseHandler) GetPurchaseHistory(c *gin.Context) {
	userID := h.getUserID(c)
	if userID == "" {
		return
	}

	filters := h.parsePurchaseFilters(c)

	history, err := h.reportingService.UserPurchaseHistory(c.Request.Context(), userID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

// GetPurchaseSummary returns aggregate purchase counts and spend
// @Summary Get purchase summary
// @Tags purchases
// @Produce json
// @Success 200 {object} repositories.PurchaseSummary
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /purchases/summary [get]
func (h *PurchaseHandler) GetPurchaseSummary(c *gin.Context) {
	userID := h.getUserID(c)
	if userID == "" {
		return
	}

	summary, err := h.reportingService.GetPurchaseSummary(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetTotalSpent returns the caller's completed spend
// @Summary Get total spent
// @Tags purchases
// @Produce json
// @Success 200 {object} map[string]interface{} "Total spent response"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /purchases/total [get]
func (h *PurchaseHandler) GetTotalSpent(c *gin.Context) {
	userID := h.getUserID(c)
	if userID == "" {
		return
	}

	total, err := h.reportingService.TotalSpent(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"total_spent": total,
	})
}

// ExportPurchaseHistory downloads the caller's purchase history as xlsx
// @Summary Export purchase history
// @Description Streams an xlsx workbook with the caller's purchases
// @Tags purchases
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /purchases/export [get]
func (h *PurchaseHandler) ExportPurchaseHistory(c *gin.Context) {
	userID := h.getUserID(c)
	if userID == "" {
		return
	}

	h.LogRequest(c, "Exporting purchase history", "user_id", userID)

	data, err := h.reportingService.ExportPurchaseHistory(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("purchases-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *PurchaseHandler) parsePurchaseFilters(c *gin.Context) repositories.PurchaseFilters {
	page := h.parseIntQuery(c, "page", 1)
	size := h.parseIntQuery(c, "size", 20)

	filters := repositories.PurchaseFilters{
		Limit:  size,
		Offset: (page - 1) * size,
	}

	if status := c.Query("status"); status != "" {
		purchaseStatus := models.PurchaseStatus(status)
		filters.Status = &purchaseStatus
	}

	if from := c.Query("date_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filters.DateFrom = &t
		}
	}

	if to := c.Query("date_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			filters.DateTo = &end
		}
	}

	return filters
}
