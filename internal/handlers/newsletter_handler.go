package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/course-platform/catalog-service/internal/services"
	"github.com/course-platform/catalog-service/internal/utils"
)

type NewsletterHandler struct {
	BaseHandler
	catalogService services.CatalogService
}

func NewNewsletterHandler(catalogService services.CatalogService, logger utils.Logger) *NewsletterHandler {
	return &NewsletterHandler{
		BaseHandler:    NewBaseHandler(logger),
		catalogService: catalogService,
	}
}

// Subscribe subscribes an email to the newsletter
// @Summary Subscribe to newsletter
// @Description Idempotent, re-subscribing an email returns the existing subscription.
// @Tags newsletter
// @Accept json
// @Produce json
// @Param request body services.SubscribeRequest true "Subscription data"
// @Success 201 {object} models.NewsletterSubscriber
// @Failure 400 {object} ErrorResponse "Invalid email"
// @Router /newsletter/subscribe [post]
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req services.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Subscribing to newsletter")

	subscriber, err := h.catalogService.Subscribe(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subscriber)
}
