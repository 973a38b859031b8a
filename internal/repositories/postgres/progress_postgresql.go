package postgres

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/course-platform/catalog-service/internal/cache"
	"github.com/course-platform/catalog-service/internal/models"
	"github.com/course-platform/catalog-service/internal/repositories"
)

type ProgressPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewProgressPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ProgressRepository {
	return &ProgressPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (p *ProgressPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return p.db
}

func (p *ProgressPostgreSQL) Create(ctx context.Context, tx *gorm.DB, progress *models.CourseProgress) error {
	db := p.getDB(tx)
	return db.WithContext(ctx).Create(progress).Error
}

func (p *ProgressPostgreSQL) GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID string, courseID uint) (*models.CourseProgress, error) {
	db := p.getDB(tx)
	var progress models.CourseProgress
	if err := db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

func (p *ProgressPostgreSQL) Update(ctx context.Context, tx *gorm.DB, progress *models.CourseProgress) error {
	db := p.getDB(tx)
	return db.WithContext(ctx).Save(progress).Error
}

func (p *ProgressPostgreSQL) ListByUser(ctx context.Context, tx *gorm.DB, userID string, limit, offset int) ([]*models.CourseProgress, int64, error) {
	db := p.getDB(tx)
	var items []*models.CourseProgress
	var total int64

	query := db.WithContext(ctx).Model(&models.CourseProgress{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("updated_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Preload("Course").Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (p *ProgressPostgreSQL) AverageProgress(ctx context.Context, tx *gorm.DB, courseID uint) (float64, error) {
	db := p.getDB(tx)
	var avg *float64
	err := db.WithContext(ctx).
		Model(&models.CourseProgress{}).
		Where("course_id = ?", courseID).
		Select("AVG(progress_percentage)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

type ReviewPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewReviewPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ReviewRepository {
	return &ReviewPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (r *ReviewPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *ReviewPostgreSQL) Create(ctx context.Context, tx *gorm.DB, review *models.CourseReview) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(review).Error; err != nil {
		return err
	}
	cache.InvalidateCourseCache(ctx, r.cacheManager, review.CourseID)
	return nil
}

func (r *ReviewPostgreSQL) GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID string, courseID uint) (*models.CourseReview, error) {
	db := r.getDB(tx)
	var review models.CourseReview
	if err := db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	var review models.CourseReview
	if err := db.WithContext(ctx).First(&review, id).Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).Delete(&review).Error; err != nil {
		return err
	}
	cache.InvalidateCourseCache(ctx, r.cacheManager, review.CourseID)
	return nil
}

func (r *ReviewPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ReviewFilters) ([]*models.CourseReview, int64, error) {
	db := r.getDB(tx)
	var reviews []*models.CourseReview
	var total int64

	query := db.WithContext(ctx).Model(&models.CourseReview{})
	if filters.CourseID != nil {
		query = query.Where("course_id = ?", *filters.CourseID)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.RatingMin != nil {
		query = query.Where("rating >= ?", *filters.RatingMin)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}
	if err := query.Preload("User").Find(&reviews).Error; err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

func (r *ReviewPostgreSQL) AverageRating(ctx context.Context, tx *gorm.DB, courseID uint) (float64, int, error) {
	db := r.getDB(tx)
	var result struct {
		Avg   *float64
		Count int
	}
	err := db.WithContext(ctx).
		Model(&models.CourseReview{}).
		Where("course_id = ?", courseID).
		Select("AVG(rating) as avg, COUNT(*) as count").
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	if result.Avg == nil {
		return 0, result.Count, nil
	}
	return *result.Avg, result.Count, nil
}
