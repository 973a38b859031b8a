package repositories

import (
	"context"

	"github.com/course-platform/catalog-service/internal/models"
	"gorm.io/gorm"
)

// PurchaseRepository interface for the entitlement ledger's rows.
// Uniqueness per (user_id, document_id) is a database constraint;
// Create surfaces the conflict and callers re-read.
type PurchaseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, purchase *models.Purchase) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Purchase, error)
	GetByUserAndDocument(ctx context.Context, tx *gorm.DB, userID string, documentID uint) (*models.Purchase, error)
	GetByProviderRef(ctx context.Context, tx *gorm.DB, sessionRef, paymentRef *string) (*models.Purchase, error)
	Update(ctx context.Context, tx *gorm.DB, purchase *models.Purchase) error

	// UpdateStatusGuarded moves a purchase from one status to another
	// only if the row still carries the expected current status, so
	// racing provider deliveries cannot blind-overwrite each other.
	// Returns the number of rows changed (0 means the guard failed).
	UpdateStatusGuarded(ctx context.Context, tx *gorm.DB, id uint, from, to models.PurchaseStatus, paymentRef *string) (int64, error)

	ListByUser(ctx context.Context, tx *gorm.DB, userID string, filters PurchaseFilters) ([]*models.Purchase, int64, error)
	TotalSpent(ctx context.Context, tx *gorm.DB, userID string) (float64, error)
	GetSummary(ctx context.Context, tx *gorm.DB, userID string) (*PurchaseSummary, error)
}

// EnrollmentRepository interface for enrollment facts.
type EnrollmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error)
	GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID string, courseID uint) (*models.Enrollment, error)
	Update(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error

	// UpdateStatusGuarded applies a status change only when the stored
	// status still matches. Returns rows changed.
	UpdateStatusGuarded(ctx context.Context, tx *gorm.DB, id uint, from, to models.EnrollmentStatus) (int64, error)

	List(ctx context.Context, tx *gorm.DB, filters EnrollmentFilters) ([]*models.Enrollment, int64, error)
}
