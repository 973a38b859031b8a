package postgres

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/course-platform/catalog-service/internal/cache"
	"github.com/course-platform/catalog-service/internal/models"
	"github.com/course-platform/catalog-service/internal/repositories"
)

type EnrollmentPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewEnrollmentPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (e *EnrollmentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return e.db
}

func (e *EnrollmentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	db := e.getDB(tx)
	if err := db.WithContext(ctx).Create(enrollment).Error; err != nil {
		return err
	}
	cache.InvalidateCourseCache(ctx, e.cacheManager, enrollment.CourseID)
	return nil
}

func (e *EnrollmentPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error) {
	db := e.getDB(tx)
	var enrollment models.Enrollment
	if err := db.WithContext(ctx).First(&enrollment, id).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (e *EnrollmentPostgreSQL) GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID string, courseID uint) (*models.Enrollment, error) {
	db := e.getDB(tx)
	var enrollment models.Enrollment
	if err := db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (e *EnrollmentPostgreSQL) Update(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	db := e.getDB(tx)
	if err := db.WithContext(ctx).Save(enrollment).Error; err != nil {
		return err
	}
	cache.InvalidateCourseCache(ctx, e.cacheManager, enrollment.CourseID)
	return nil
}

func (e *EnrollmentPostgreSQL) UpdateStatusGuarded(ctx context.Context, tx *gorm.DB, id uint, from, to models.EnrollmentStatus) (int64, error) {
	db := e.getDB(tx)
	result := db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (e *EnrollmentPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	db := e.getDB(tx)
	var enrollments []*models.Enrollment
	var total int64

	query := db.WithContext(ctx).Model(&models.Enrollment{})
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.CourseID != nil {
		query = query.Where("course_id = ?", *filters.CourseID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("enrolled_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	if err := query.Preload("Course").Find(&enrollments).Error; err != nil {
		return nil, 0, err
	}

	return enrollments, total, nil
}
