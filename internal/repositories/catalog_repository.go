package repositories

import (
	"context"

	"github.com/course-platform/catalog-service/internal/models"
	"gorm.io/gorm"
)

// CategoryRepository interface for category operations
type CategoryRepository interface {
	Create(ctx context.Context, tx *gorm.DB, category *models.Category) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Category, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*models.Category, error)
	Update(ctx context.Context, tx *gorm.DB, category *models.Category) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	List(ctx context.Context, tx *gorm.DB, filters CategoryFilters) ([]*models.Category, int64, error)

	ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
	ExistsByTitle(ctx context.Context, tx *gorm.DB, title string, excludeID *uint) (bool, error)
}

// CourseRepository interface for course and course-section operations
type CourseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, course *models.Course) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error)
	GetByIDWithSections(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error)
	Update(ctx context.Context, tx *gorm.DB, course *models.Course) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	List(ctx context.Context, tx *gorm.DB, filters CourseFilters) ([]*models.Course, int64, error)

	// Sections
	CreateSection(ctx context.Context, tx *gorm.DB, section *models.CourseSection) error
	GetSectionByID(ctx context.Context, tx *gorm.DB, id uint) (*models.CourseSection, error)
	UpdateSection(ctx context.Context, tx *gorm.DB, section *models.CourseSection) error
	DeleteSection(ctx context.Context, tx *gorm.DB, id uint) error
	GetSections(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.CourseSection, error)
	CountSections(ctx context.Context, tx *gorm.DB, courseID uint) (int, error)

	// Aggregates maintained by enrollment/review flows
	IncrementStudentCount(ctx context.Context, tx *gorm.DB, courseID uint, delta int) error
	UpdateRating(ctx context.Context, tx *gorm.DB, courseID uint, rating float64) error

	ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error)

	// Statistics
	GetEngagementStats(ctx context.Context, tx *gorm.DB, courseID uint) (*CourseEngagementStats, error)
}

// DocumentationRepository interface for documentation and its
// self-referential section graph.
type DocumentationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, doc *models.Documentation) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Documentation, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*models.Documentation, error)
	Update(ctx context.Context, tx *gorm.DB, doc *models.Documentation) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	List(ctx context.Context, tx *gorm.DB, filters DocumentationFilters) ([]*models.Documentation, int64, error)

	// Section graph. Edges are rows in documentation_sections; the
	// graph is read as adjacency lists, never as nested documents.
	GetSectionIDs(ctx context.Context, tx *gorm.DB, docID uint) ([]uint, error)
	ReplaceSections(ctx context.Context, tx *gorm.DB, parentID uint, childIDs []uint) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)

	// UpdateWithVersion saves doc only if its stored version still
	// matches expectedVersion, bumping the version on success. Returns
	// a not-found style miss when the row changed underneath.
	UpdateWithVersion(ctx context.Context, tx *gorm.DB, doc *models.Documentation, expectedVersion int) error

	ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
	ExistAllByID(ctx context.Context, tx *gorm.DB, ids []uint) (bool, error)
}

// NewsletterRepository interface for newsletter subscriptions
type NewsletterRepository interface {
	Subscribe(ctx context.Context, tx *gorm.DB, email string) (*models.NewsletterSubscriber, error)
	List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*models.NewsletterSubscriber, int64, error)
}
