package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/course-platform/catalog-service/internal/services"
	"github.com/course-platform/catalog-service/internal/utils"
)

type WebhookHandler struct {
	BaseHandler
	ledgerService services.LedgerService
}

func NewWebhookHandler(ledgerService services.LedgerService, logger utils.Logger) *WebhookHandler {
	return &WebhookHandler{
		BaseHandler:   NewBaseHandler(logger),
		ledgerService: ledgerService,
	}
}

// HandlePaymentEvent receives asynchronous payment provider events
// @Summary Payment provider webhook
// @Description Applies a provider outcome to the purchase ledger. Domain
// anomalies (unknown references, replays, dead-state events, amount
// mismatches) are acknowledged with 200 and logged for reconciliation so
// the provider does not retry them forever. Only transport problems and
// infrastructure failures are surfaced as errors.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param request body services.ProviderEventRequest true "Provider event"
// @Success 200 {object} map[string]interface{} "Event acknowledged"
// @Failure 400 {object} ErrorResponse "Unparseable payload"
// @Failure 500 {object} ErrorResponse "Infrastructure failure, provider should retry"
// @Router /webhooks/payment [post]
func (h *WebhookHandler) HandlePaymentEvent(c *gin.Context) {
	var req services.ProviderEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.LogError(c, err, "Unparseable provider event payload")
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Received payment provider event",
		"event_id", req.EventID,
		"outcome", req.Outcome)

	purchase, err := h.ledgerService.ApplyProviderEvent(c.Request.Context(), &req)
	if err != nil {
		var unknownRefErr *services.UnknownReferenceError
		var transitionErr *services.InvalidTransitionError
		var mismatchErr *services.AmountMismatchError

		switch {
		case errors.As(err, &unknownRefErr):
			// Acknowledged so the provider stops retrying, logged for
			// manual reconciliation.
			utils.GetLogger(c, h.logger).Warn("Provider event matches no purchase",
				"event_id", req.EventID,
				"outcome", req.Outcome,
				"error", err)
			c.JSON(http.StatusOK, gin.H{
				"received": true,
				"applied":  false,
				"reason":   "unknown_reference",
				"event_id": req.EventID,
			})
		case errors.As(err, &transitionErr):
			utils.GetLogger(c, h.logger).Warn("Provider event rejected by transition guard",
				"event_id", req.EventID,
				"outcome", req.Outcome,
				"error", err)
			c.JSON(http.StatusOK, gin.H{
				"received": true,
				"applied":  false,
				"reason":   "invalid_transition",
				"event_id": req.EventID,
			})
		case errors.As(err, &mismatchErr):
			// The transition has already been applied; the mismatch is a
			// reconciliation signal, never a delivery failure.
			utils.GetLogger(c, h.logger).Warn("Provider event amount mismatch",
				"event_id", req.EventID,
				"purchase_id", mismatchErr.PurchaseID,
				"error", err)
			c.JSON(http.StatusOK, gin.H{
				"received":        true,
				"applied":         true,
				"amount_mismatch": true,
				"event_id":        req.EventID,
			})
		default:
			h.LogError(c, err, "Failed to apply provider event", "event_id", req.EventID)
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Message: "Failed to apply provider event",
				Details: err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"received":        true,
		"applied":         true,
		"event_id":        req.EventID,
		"purchase_id":     purchase.ID,
		"purchase_status": purchase.Status,
	})
}
