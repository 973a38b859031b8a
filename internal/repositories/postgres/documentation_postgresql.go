package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/course-platform/catalog-service/internal/cache"
	"github.com/course-platform/catalog-service/internal/models"
	"github.com/course-platform/catalog-service/internal/repositories"
)

type DocumentationPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewDocumentationPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.DocumentationRepository {
	return &DocumentationPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (d *DocumentationPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return d.db
}

func (d *DocumentationPostgreSQL) Create(ctx context.Context, tx *gorm.DB, doc *models.Documentation) error {
	db := d.getDB(tx)
	if err := db.WithContext(ctx).Create(doc).Error; err != nil {
		return err
	}
	cache.InvalidateDocumentCache(ctx, d.cacheManager, doc.ID)
	return nil
}

func (d *DocumentationPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Documentation, error) {
	db := d.getDB(tx)
	var doc models.Documentation
	if err := db.WithContext(ctx).First(&doc, id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *DocumentationPostgreSQL) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*models.Documentation, error) {
	db := d.getDB(tx)
	var doc models.Documentation
	if err := db.WithContext(ctx).Where("slug = ?", slug).First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *DocumentationPostgreSQL) Update(ctx context.Context, tx *gorm.DB, doc *models.Documentation) error {
	db := d.getDB(tx)
	if err := db.WithContext(ctx).Save(doc).Error; err != nil {
		return err
	}
	cache.InvalidateDocumentCache(ctx, d.cacheManager, doc.ID)
	return nil
}

func (d *DocumentationPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := d.getDB(tx)
	// Remove graph edges in both directions so no dangling references
	// survive the delete.
	if err := db.WithContext(ctx).
		Where("parent_id = ? OR child_id = ?", id, id).
		Delete(&models.DocumentLink{}).Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).Delete(&models.Documentation{}, id).Error; err != nil {
		return err
	}
	cache.InvalidateDocumentCache(ctx, d.cacheManager, id)
	return nil
}

func (d *DocumentationPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.DocumentationFilters) ([]*models.Documentation, int64, error) {
	db := d.getDB(tx)
	var docs []*models.Documentation
	var total int64

	query := db.WithContext(ctx).Model(&models.Documentation{})
	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.Slug != nil {
		query = query.Where("slug = ?", *filters.Slug)
	}
	if filters.IsPublished != nil {
		query = query.Where("is_published = ?", *filters.IsPublished)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filters.SortBy
	if sortBy == "" {
		sortBy = "updated_at"
	}
	sortOrder := filters.SortOrder
	if sortOrder != "asc" {
		sortOrder = "desc"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	if err := query.Find(&docs).Error; err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}

// ===== SECTION GRAPH =====

func (d *DocumentationPostgreSQL) GetSectionIDs(ctx context.Context, tx *gorm.DB, docID uint) ([]uint, error) {
	db := d.getDB(tx)
	var ids []uint
	if err := db.WithContext(ctx).
		Model(&models.DocumentLink{}).
		Where("parent_id = ?", docID).
		Order("position ASC, id ASC").
		Pluck("child_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (d *DocumentationPostgreSQL) ReplaceSections(ctx context.Context, tx *gorm.DB, parentID uint, childIDs []uint) error {
	db := d.getDB(tx)

	if err := db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Delete(&models.DocumentLink{}).Error; err != nil {
		return err
	}

	if len(childIDs) == 0 {
		cache.InvalidateDocumentCache(ctx, d.cacheManager, parentID)
		return nil
	}

	links := make([]models.DocumentLink, 0, len(childIDs))
	for i, childID := range childIDs {
		links = append(links, models.DocumentLink{
			ParentID: parentID,
			ChildID:  childID,
			Position: i,
		})
	}

	if err := db.WithContext(ctx).Create(&links).Error; err != nil {
		return err
	}

	cache.InvalidateDocumentCache(ctx, d.cacheManager, parentID)
	return nil
}

func (d *DocumentationPostgreSQL) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := d.getDB(tx)
	var count int64
	err := db.WithContext(ctx).Model(&models.Documentation{}).Count(&count).Error
	return count, err
}

func (d *DocumentationPostgreSQL) UpdateWithVersion(ctx context.Context, tx *gorm.DB, doc *models.Documentation, expectedVersion int) error {
	db := d.getDB(tx)

	doc.Version = expectedVersion + 1
	result := db.WithContext(ctx).
		Model(&models.Documentation{}).
		Where("id = ? AND version = ?", doc.ID, expectedVersion).
		Select("*").
		Omit(clause.Associations, "id", "created_at").
		Updates(doc)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Row changed (or vanished) since the snapshot was read.
		return gorm.ErrRecordNotFound
	}

	cache.InvalidateDocumentCache(ctx, d.cacheManager, doc.ID)
	return nil
}

func (d *DocumentationPostgreSQL) ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	db := d.getDB(tx)
	var count int64
	err := db.WithContext(ctx).Model(&models.Documentation{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (d *DocumentationPostgreSQL) ExistAllByID(ctx context.Context, tx *gorm.DB, ids []uint) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	db := d.getDB(tx)
	var count int64
	err := db.WithContext(ctx).Model(&models.Documentation{}).Where("id IN ?", ids).Count(&count).Error
	return count == int64(len(ids)), err
}
