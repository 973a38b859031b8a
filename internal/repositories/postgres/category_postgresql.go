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

type CategoryPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewCategoryPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.CategoryRepository {
	return &CategoryPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (c *CategoryPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

func (c *CategoryPostgreSQL) Create(ctx context.Context, tx *gorm.DB, category *models.Category) error {
	db := c.getDB(tx)
	return db.WithContext(ctx).Create(category).Error
}

func (c *CategoryPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Category, error) {
	db := c.getDB(tx)
	var category models.Category
	if err := db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *CategoryPostgreSQL) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*models.Category, error) {
	db := c.getDB(tx)
	var category models.Category
	if err := db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *CategoryPostgreSQL) Update(ctx context.Context, tx *gorm.DB, category *models.Category) error {
	db := c.getDB(tx)
	return db.WithContext(ctx).Save(category).Error
}

func (c *CategoryPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := c.getDB(tx)
	return db.WithContext(ctx).Delete(&models.Category{}, id).Error
}

func (c *CategoryPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.CategoryFilters) ([]*models.Category, int64, error) {
	db := c.getDB(tx)
	var categories []*models.Category
	var total int64

	query := db.WithContext(ctx).Model(&models.Category{})
	if filters.Slug != nil {
		query = query.Where("slug = ?", *filters.Slug)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filters.SortBy
	if sortBy == "" {
		sortBy = "display_order"
	}
	sortOrder := filters.SortOrder
	if sortOrder != "desc" {
		sortOrder = "asc"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	if err := query.Find(&categories).Error; err != nil {
		return nil, 0, err
	}

	return categories, total, nil
}

func (c *CategoryPostgreSQL) ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	db := c.getDB(tx)
	var count int64
	err := db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (c *CategoryPostgreSQL) ExistsByTitle(ctx context.Context, tx *gorm.DB, title string, excludeID *uint) (bool, error) {
	db := c.getDB(tx)
	query := db.WithContext(ctx).Model(&models.Category{}).Where("title = ?", title)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}
