package repositories

import (
	"context"

	"github.com/course-platform/catalog-service/internal/models"
	"gorm.io/gorm"
)

// ProgressRepository interface for per-user course progress.
type ProgressRepository interface {
	Create(ctx context.Context, tx *gorm.DB, progress *models.CourseProgress) error
	GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID string, courseID uint) (*models.CourseProgress, error)
	Update(ctx context.Context, tx *gorm.DB, progress *models.CourseProgress) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID string, limit, offset int) ([]*models.CourseProgress, int64, error)
	AverageProgress(ctx context.Context, tx *gorm.DB, courseID uint) (float64, error)
}

// ReviewRepository interface for course reviews. One review per
// (user, course), enforced by unique index; reviews are create-once.
type ReviewRepository interface {
	Create(ctx context.Context, tx *gorm.DB, review *models.CourseReview) error
	GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID string, courseID uint) (*models.CourseReview, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	List(ctx context.Context, tx *gorm.DB, filters ReviewFilters) ([]*models.CourseReview, int64, error)
	AverageRating(ctx context.Context, tx *gorm.DB, courseID uint) (float64, int, error)
}
