package services

import (
	"context"

	"github.com/course-platform/catalog-service/internal/models"
	"github.com/course-platform/catalog-service/internal/repositories"
	"github.com/course-platform/catalog-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateCategoryRequest = validator.CategoryCreateRequest
type UpdateCategoryRequest = validator.CategoryUpdateRequest
type CreateCourseRequest = validator.CourseCreateRequest
type UpdateCourseRequest = validator.CourseUpdateRequest
type CreateSectionRequest = validator.SectionCreateRequest
type UpdateSectionRequest = validator.SectionUpdateRequest
type CreateDocumentationRequest = validator.DocumentationCreateRequest
type UpdateDocumentationRequest = validator.DocumentationUpdateRequest
type UpdateSectionsRequest = validator.UpdateSectionsRequest
type CheckoutRequest = validator.CheckoutRequest
type ProviderEventRequest = validator.ProviderEventRequest
type EnrollRequest = validator.EnrollRequest
type MarkSectionCompleteRequest = validator.MarkSectionCompleteRequest
type CreateReviewRequest = validator.ReviewCreateRequest
type SubscribeRequest = validator.NewsletterSubscribeRequest

type DocumentationResponse struct {
	*models.Documentation
	SectionIDs []uint `json:"section_ids"`
	// MutualReferences lists section ids that link back to this
	// document. Advisory, surfaced so editors can decide whether the
	// cross-link is intended.
	MutualReferences []uint `json:"mutual_references,omitempty"`
}

type DocumentationListResponse struct {
	Documents []*models.Documentation `json:"documents"`
	Total     int64                   `json:"total"`
	Page      int                     `json:"page"`
	Size      int                     `json:"size"`
}

type CourseResponse struct {
	*models.Course
	SectionCount int  `json:"section_count"`
	IsEnrolled   bool `json:"is_enrolled,omitempty"`
}

type CourseListResponse struct {
	Courses []*models.Course `json:"courses"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Size    int              `json:"size"`
}

type PurchaseHistoryResponse struct {
	Purchases []*models.Purchase `json:"purchases"`
	Total     int64              `json:"total"`
}

type ProgressResponse struct {
	*models.CourseProgress
	CompletedSectionIDs []uint `json:"completed_section_ids"`
	CourseCompleted     bool   `json:"course_completed"`
}

// ===== SERVICE INTERFACES =====

// GraphService keeps the documentation section graph a DAG.
type GraphService interface {
	// Pure checks against an in-memory adjacency snapshot
	ValidateSelfReference(docID uint, proposedSections []uint) error
	ValidateNoCycle(ctx context.Context, docID uint, proposedSections []uint) error
	FindMutualReferences(ctx context.Context, docID uint, proposedSections []uint) ([]uint, error)

	// UpdateDocumentSections validates and commits a section replacement
	// atomically, guarded by the document's version so a concurrent
	// graph edit cannot slip an undetected cycle in.
	UpdateDocumentSections(ctx context.Context, docID uint, req *UpdateSectionsRequest) (*DocumentationResponse, error)

	GetSections(ctx context.Context, docID uint) ([]uint, error)
}

// LedgerService is the single source of truth for paid-document access.
type LedgerService interface {
	// RecordPendingPurchase creates or returns the purchase row for
	// (user, document). Idempotent under concurrent calls.
	RecordPendingPurchase(ctx context.Context, userID string, req *CheckoutRequest) (*models.Purchase, error)

	// ApplyProviderEvent reconciles an asynchronous provider outcome
	// into local purchase state. Safe under at-least-once delivery:
	// replays are no-ops, dead-state resurrection is rejected.
	ApplyProviderEvent(ctx context.Context, req *ProviderEventRequest) (*models.Purchase, error)

	HasAccess(ctx context.Context, userID string, documentID uint) (bool, error)
}

// ProgressService tracks enrollment, consumption and feedback state.
type ProgressService interface {
	Enroll(ctx context.Context, userID string, req *EnrollRequest) (*models.Enrollment, error)
	PauseEnrollment(ctx context.Context, userID string, courseID uint) (*models.Enrollment, error)
	CancelEnrollment(ctx context.Context, userID string, courseID uint) (*models.Enrollment, error)
	ReactivateEnrollment(ctx context.Context, userID string, courseID uint) (*models.Enrollment, error)

	// MarkSectionComplete adds a section to the completed set and
	// recomputes the floor percentage. Monotonic: re-marking is a no-op
	// and the percentage never decreases. Reaching 100 completes an
	// ACTIVE enrollment.
	MarkSectionComplete(ctx context.Context, userID string, courseID uint, req *MarkSectionCompleteRequest) (*ProgressResponse, error)

	GetProgress(ctx context.Context, userID string, courseID uint) (*ProgressResponse, error)

	// RecordReview creates the one allowed review per (user, course)
	// and recomputes the course's aggregate rating.
	RecordReview(ctx context.Context, userID string, req *CreateReviewRequest) (*models.CourseReview, error)
}

// ReportingService is the read-only aggregation surface.
type ReportingService interface {
	UserPurchaseHistory(ctx context.Context, userID string, filters repositories.PurchaseFilters) (*PurchaseHistoryResponse, error)
	TotalSpent(ctx context.Context, userID string) (float64, error)
	GetPurchaseSummary(ctx context.Context, userID string) (*repositories.PurchaseSummary, error)
	GetCourseEngagement(ctx context.Context, courseID uint) (*repositories.CourseEngagementStats, error)

	// ExportPurchaseHistory writes the user's purchase history as an
	// xlsx workbook for the admin surface.
	ExportPurchaseHistory(ctx context.Context, userID string) ([]byte, error)
}

// CatalogService is the content-editor surface for reference data.
type CatalogService interface {
	// Categories
	CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uint, req *UpdateCategoryRequest) (*models.Category, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListCategories(ctx context.Context, filters repositories.CategoryFilters) ([]*models.Category, int64, error)
	DeleteCategory(ctx context.Context, id uint) error

	// Courses
	CreateCourse(ctx context.Context, req *CreateCourseRequest) (*models.Course, error)
	UpdateCourse(ctx context.Context, id uint, req *UpdateCourseRequest) (*models.Course, error)
	GetCourse(ctx context.Context, id uint) (*CourseResponse, error)
	ListCourses(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error)
	DeleteCourse(ctx context.Context, id uint) error

	// Course sections
	AddSection(ctx context.Context, courseID uint, req *CreateSectionRequest) (*models.CourseSection, error)
	UpdateSection(ctx context.Context, sectionID uint, req *UpdateSectionRequest) (*models.CourseSection, error)
	DeleteSection(ctx context.Context, sectionID uint) error

	// Documentation
	CreateDocumentation(ctx context.Context, req *CreateDocumentationRequest) (*models.Documentation, error)
	UpdateDocumentation(ctx context.Context, id uint, req *UpdateDocumentationRequest) (*models.Documentation, error)
	GetDocumentation(ctx context.Context, id uint) (*DocumentationResponse, error)
	GetDocumentationBySlug(ctx context.Context, slug string) (*DocumentationResponse, error)
	ListDocumentation(ctx context.Context, filters repositories.DocumentationFilters) (*DocumentationListResponse, error)
	DeleteDocumentation(ctx context.Context, id uint) error

	// Newsletter
	Subscribe(ctx context.Context, req *SubscribeRequest) (*models.NewsletterSubscriber, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Graph() GraphService
	Ledger() LedgerService
	Progress() ProgressService
	Reporting() ReportingService
	Catalog() CatalogService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
