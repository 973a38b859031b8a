package repositories

import (
	"time"

	"github.com/course-platform/catalog-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type CategoryFilters struct {
	Slug      *string `json:"slug"`
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
	SortBy    string  `json:"sort_by"`    // "display_order", "title", "created_at"
	SortOrder string  `json:"sort_order"` // "asc", "desc"
}

type CourseFilters struct {
	CategoryID  *uint               `json:"category_id"`
	Level       *models.CourseLevel `json:"level"`
	IsPremium   *bool               `json:"is_premium"`
	IsPublished *bool               `json:"is_published"`
	Limit       int                 `json:"limit"`
	Offset      int                 `json:"offset"`
	SortBy      string              `json:"sort_by"`
	SortOrder   string              `json:"sort_order"`
}

type DocumentationFilters struct {
	CategoryID  *uint   `json:"category_id"`
	Slug        *string `json:"slug"`
	IsPublished *bool   `json:"is_published"`
	Limit       int     `json:"limit"`
	Offset      int     `json:"offset"`
	SortBy      string  `json:"sort_by"`
	SortOrder   string  `json:"sort_order"`
}

type PurchaseFilters struct {
	Status   *models.PurchaseStatus `json:"status"`
	UserID   *string                `json:"user_id"`
	DateFrom *time.Time             `json:"date_from"`
	DateTo   *time.Time             `json:"date_to"`
	Limit    int                    `json:"limit"`
	Offset   int                    `json:"offset"`
}

type EnrollmentFilters struct {
	Status   *models.EnrollmentStatus `json:"status"`
	UserID   *string                  `json:"user_id"`
	CourseID *uint                    `json:"course_id"`
	Limit    int                      `json:"limit"`
	Offset   int                      `json:"offset"`
}

type ReviewFilters struct {
	CourseID  *uint   `json:"course_id"`
	UserID    *string `json:"user_id"`
	RatingMin *int    `json:"rating_min"`
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
}

type UserFilters struct {
	Query  string
	Limit  int
	Offset int
}

// ===== SHARED STATISTICS STRUCTS =====

type PurchaseSummary struct {
	TotalPurchases     int     `json:"total_purchases"`
	CompletedPurchases int     `json:"completed_purchases"`
	RefundedPurchases  int     `json:"refunded_purchases"`
	TotalSpent         float64 `json:"total_spent"`
}

type CourseEngagementStats struct {
	EnrollmentCount int     `json:"enrollment_count"`
	CompletionCount int     `json:"completion_count"`
	AverageProgress float64 `json:"average_progress"`
	AverageRating   float64 `json:"average_rating"`
	ReviewCount     int     `json:"review_count"`
}
