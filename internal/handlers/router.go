package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/course-platform/catalog-service/internal/models"
	"github.com/course-platform/catalog-service/internal/services"
	"github.com/course-platform/catalog-service/internal/utils"
)

type HandlerManager struct {
	categoryHandler      *CategoryHandler
	courseHandler        *CourseHandler
	documentationHandler *DocumentationHandler
	purchaseHandler      *PurchaseHandler
	progressHandler      *ProgressHandler
	webhookHandler       *WebhookHandler
	newsletterHandler    *NewsletterHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		categoryHandler:      NewCategoryHandler(serviceManager.Catalog(), logger),
		courseHandler:        NewCourseHandler(serviceManager.Catalog(), serviceManager.Reporting(), logger),
		documentationHandler: NewDocumentationHandler(serviceManager.Catalog(), serviceManager.Graph(), logger),
		purchaseHandler:      NewPurchaseHandler(serviceManager.Ledger(), serviceManager.Reporting(), logger),
		progressHandler:      NewProgressHandler(serviceManager.Progress(), logger),
		webhookHandler:       NewWebhookHandler(serviceManager.Ledger(), logger),
		newsletterHandler:    NewNewsletterHandler(serviceManager.Catalog(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	editorRoles := RequireRole(string(models.RoleAdmin), string(models.RoleInstructor))

	v1 := router.Group("/api/v1")
	v1.Use(IdentityMiddleware())
	{
		// Category routes
		categories := v1.Group("/categories")
		{
			// Modify categories - content editors only
			categories.POST("", editorRoles, hm.categoryHandler.CreateCategory)
			categories.PUT("/:id", editorRoles, hm.categoryHandler.UpdateCategory)
			categories.DELETE("/:id", editorRoles, hm.categoryHandler.DeleteCategory)

			// Public reads
			categories.GET("", hm.categoryHandler.ListCategories)
			categories.GET("/:id", hm.categoryHandler.GetCategory)
			categories.GET("/slug/:slug", hm.categoryHandler.GetCategoryBySlug)
		}

		// Course routes
		courses := v1.Group("/courses")
		{
			courses.POST("", editorRoles, hm.courseHandler.CreateCourse)
			courses.PUT("/:id", editorRoles, hm.courseHandler.UpdateCourse)
			courses.DELETE("/:id", editorRoles, hm.courseHandler.DeleteCourse)

			// Section management - content editors only
			courses.POST("/:id/sections", editorRoles, hm.courseHandler.AddSection)
			courses.PUT("/sections/:section_id", editorRoles, hm.courseHandler.UpdateSection)
			courses.DELETE("/sections/:section_id", editorRoles, hm.courseHandler.DeleteSection)

			// Engagement stats - content editors only
			courses.GET("/:id/engagement", editorRoles, hm.courseHandler.GetCourseEngagement)

			// Public reads
			courses.GET("", hm.courseHandler.ListCourses)
			courses.GET("/:id", hm.courseHandler.GetCourse)
		}

		// Documentation routes
		docs := v1.Group("/docs")
		{
			docs.POST("", editorRoles, hm.documentationHandler.CreateDocumentation)
			docs.PUT("/:id", editorRoles, hm.documentationHandler.UpdateDocumentation)
			docs.DELETE("/:id", editorRoles, hm.documentationHandler.DeleteDocumentation)

			// Section graph management - content editors only
			docs.PUT("/:id/sections", editorRoles, hm.documentationHandler.UpdateSections)

			// Public reads
			docs.GET("", hm.documentationHandler.ListDocumentation)
			docs.GET("/:id", hm.documentationHandler.GetDocumentation)
			docs.GET("/:id/sections", hm.documentationHandler.GetSections)
			docs.GET("/slug/:slug", hm.documentationHandler.GetDocumentationBySlug)
		}

		// Purchase routes - authenticated users
		purchases := v1.Group("/purchases")
		purchases.Use(RequireAuth())
		{
			purchases.POST("/checkout", hm.purchaseHandler.Checkout)
			purchases.GET("", hm.purchaseHandler.GetPurchaseHistory)
			purchases.GET("/summary", hm.purchaseHandler.GetPurchaseSummary)
			purchases.GET("/total", hm.purchaseHandler.GetTotalSpent)
			purchases.GET("/export", hm.purchaseHandler.ExportPurchaseHistory)
			purchases.GET("/access/:document_id", hm.purchaseHandler.CheckAccess)
		}

		// Enrollment routes - authenticated users
		enrollments := v1.Group("/enrollments")
		enrollments.Use(RequireAuth())
		{
			enrollments.POST("", hm.progressHandler.Enroll)
			enrollments.POST("/:course_id/pause", hm.progressHandler.PauseEnrollment)
			enrollments.POST("/:course_id/cancel", hm.progressHandler.CancelEnrollment)
			enrollments.POST("/:course_id/reactivate", hm.progressHandler.ReactivateEnrollment)
		}

		// Progress routes - authenticated users
		progress := v1.Group("/progress")
		progress.Use(RequireAuth())
		{
			progress.GET("/:course_id", hm.progressHandler.GetProgress)
			progress.POST("/:course_id/sections", hm.progressHandler.MarkSectionComplete)
		}

		// Review routes - authenticated users
		reviews := v1.Group("/reviews")
		reviews.Use(RequireAuth())
		{
			reviews.POST("", hm.progressHandler.CreateReview)
		}

		// Newsletter routes - public
		newsletter := v1.Group("/newsletter")
		{
			newsletter.POST("/subscribe", hm.newsletterHandler.Subscribe)
		}
	}

	// Payment provider webhook. Signature verification happens at the
	// gateway; deliveries are at-least-once.
	router.POST("/webhooks/payment", hm.webhookHandler.HandlePaymentEvent)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "catalog-service",
		})
	})
}
