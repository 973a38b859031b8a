package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/course-platform/catalog-service/internal/cache"
	"github.com/course-platform/catalog-service/internal/models"
	"github.com/course-platform/catalog-service/internal/repositories"
)

type CoursePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewCoursePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.CourseRepository {
	return &CoursePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (c *CoursePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

func (c *CoursePostgreSQL) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := c.getDB(tx)
	if err := db.WithContext(ctx).Create(course).Error; err != nil {
		return err
	}
	cache.InvalidateCourseCache(ctx, c.cacheManager, course.ID)
	return nil
}

func (c *CoursePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	db := c.getDB(tx)
	cacheKey := fmt.Sprintf("id:%d", id)
	var course models.Course

	err := c.cacheManager.Course.CacheOrExecute(ctx, cacheKey, &course, cache.CourseCacheConfig.TTL, func() (interface{}, error) {
		var dbCourse models.Course
		if err := db.WithContext(ctx).First(&dbCourse, id).Error; err != nil {
			return nil, err
		}
		return &dbCourse, nil
	})
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *CoursePostgreSQL) GetByIDWithSections(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	db := c.getDB(tx)
	var course models.Course
	if err := db.WithContext(ctx).
		Preload("Category").
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC, id ASC")
		}).
		First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *CoursePostgreSQL) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := c.getDB(tx)
	if err := db.WithContext(ctx).Save(course).Error; err != nil {
		return err
	}
	cache.InvalidateCourseCache(ctx, c.cacheManager, course.ID)
	return nil
}

func (c *CoursePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := c.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.Course{}, id).Error; err != nil {
		return err
	}
	cache.InvalidateCourseCache(ctx, c.cacheManager, id)
	return nil
}

func (c *CoursePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	db := c.getDB(tx)
	var courses []*models.Course
	var total int64

	query := db.WithContext(ctx).Model(&models.Course{})
	query = c.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = c.applyPaginationAndSort(query, filters)

	if err := query.Preload("Category").Find(&courses).Error; err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

func (c *CoursePostgreSQL) applyFilters(query *gorm.DB, filters repositories.CourseFilters) *gorm.DB {
	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.Level != nil {
		query = query.Where("level = ?", *filters.Level)
	}
	if filters.IsPremium != nil {
		query = query.Where("is_premium = ?", *filters.IsPremium)
	}
	if filters.IsPublished != nil {
		query = query.Where("is_published = ?", *filters.IsPublished)
	}
	return query
}

func (c *CoursePostgreSQL) applyPaginationAndSort(query *gorm.DB, filters repositories.CourseFilters) *gorm.DB {
	sortBy := filters.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	sortOrder := filters.SortOrder
	if sortOrder != "asc" {
		sortOrder = "desc"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}
	return query
}

// ===== SECTIONS =====

func (c *CoursePostgreSQL) CreateSection(ctx context.Context, tx *gorm.DB, section *models.CourseSection) error {
	db := c.getDB(tx)
	if err := db.WithContext(ctx).Create(section).Error; err != nil {
		return err
	}
	cache.InvalidateCourseCache(ctx, c.cacheManager, section.CourseID)
	return nil
}

func (c *CoursePostgreSQL) GetSectionByID(ctx context.Context, tx *gorm.DB, id uint) (*models.CourseSection, error) {
	db := c.getDB(tx)
	var section models.CourseSection
	if err := db.WithContext(ctx).First(&section, id).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

func (c *CoursePostgreSQL) UpdateSection(ctx context.Context, tx *gorm.DB, section *models.CourseSection) error {
	db := c.getDB(tx)
	if err := db.WithContext(ctx).Save(section).Error; err != nil {
		return err
	}
	cache.InvalidateCourseCache(ctx, c.cacheManager, section.CourseID)
	return nil
}

func (c *CoursePostgreSQL) DeleteSection(ctx context.Context, tx *gorm.DB, id uint) error {
	db := c.getDB(tx)
	return db.WithContext(ctx).Delete(&models.CourseSection{}, id).Error
}

func (c *CoursePostgreSQL) GetSections(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.CourseSection, error) {
	db := c.getDB(tx)
	var sections []*models.CourseSection
	if err := db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("display_order ASC, id ASC").
		Find(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

func (c *CoursePostgreSQL) CountSections(ctx context.Context, tx *gorm.DB, courseID uint) (int, error) {
	db := c.getDB(tx)
	var count int64
	err := db.WithContext(ctx).
		Model(&models.CourseSection{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return int(count), err
}

// ===== AGGREGATES =====

func (c *CoursePostgreSQL) IncrementStudentCount(ctx context.Context, tx *gorm.DB, courseID uint, delta int) error {
	db := c.getDB(tx)
	err := db.WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ?", courseID).
		UpdateColumn("student_count", gorm.Expr("student_count + ?", delta)).Error
	if err != nil {
		return err
	}
	cache.InvalidateCourseCache(ctx, c.cacheManager, courseID)
	return nil
}

func (c *CoursePostgreSQL) UpdateRating(ctx context.Context, tx *gorm.DB, courseID uint, rating float64) error {
	db := c.getDB(tx)
	err := db.WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ?", courseID).
		UpdateColumn("rating", rating).Error
	if err != nil {
		return err
	}
	cache.InvalidateCourseCache(ctx, c.cacheManager, courseID)
	return nil
}

func (c *CoursePostgreSQL) ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	db := c.getDB(tx)
	var count int64
	err := db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (c *CoursePostgreSQL) GetEngagementStats(ctx context.Context, tx *gorm.DB, courseID uint) (*repositories.CourseEngagementStats, error) {
	db := c.getDB(tx)
	cacheKey := fmt.Sprintf("course:%d:engagement", courseID)
	var stats repositories.CourseEngagementStats

	err := c.cacheManager.Stats.CacheOrExecute(ctx, cacheKey, &stats, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		var result repositories.CourseEngagementStats

		var enrollments int64
		if err := db.WithContext(ctx).Model(&models.Enrollment{}).
			Where("course_id = ?", courseID).Count(&enrollments).Error; err != nil {
			return nil, err
		}
		result.EnrollmentCount = int(enrollments)

		var completions int64
		if err := db.WithContext(ctx).Model(&models.Enrollment{}).
			Where("course_id = ? AND status = ?", courseID, models.EnrollmentCompleted).
			Count(&completions).Error; err != nil {
			return nil, err
		}
		result.CompletionCount = int(completions)

		var avgProgress *float64
		if err := db.WithContext(ctx).Model(&models.CourseProgress{}).
			Where("course_id = ?", courseID).
			Select("AVG(progress_percentage)").Scan(&avgProgress).Error; err != nil {
			return nil, err
		}
		if avgProgress != nil {
			result.AverageProgress = *avgProgress
		}

		var reviewAgg struct {
			Avg   *float64
			Count int64
		}
		if err := db.WithContext(ctx).Model(&models.CourseReview{}).
			Where("course_id = ?", courseID).
			Select("AVG(rating) as avg, COUNT(*) as count").Scan(&reviewAgg).Error; err != nil {
			return nil, err
		}
		if reviewAgg.Avg != nil {
			result.AverageRating = *reviewAgg.Avg
		}
		result.ReviewCount = int(reviewAgg.Count)

		return &result, nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
