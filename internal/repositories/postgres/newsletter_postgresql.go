package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/course-platform/catalog-service/internal/models"
	"github.com/course-platform/catalog-service/internal/repositories"
)

type NewsletterPostgreSQL struct {
	db *gorm.DB
}

func NewNewsletterPostgreSQL(db *gorm.DB) repositories.NewsletterRepository {
	return &NewsletterPostgreSQL{db: db}
}

func (n *NewsletterPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return n.db
}

// Subscribe is idempotent: a repeat subscription returns the existing
// row instead of a conflict.
func (n *NewsletterPostgreSQL) Subscribe(ctx context.Context, tx *gorm.DB, email string) (*models.NewsletterSubscriber, error) {
	db := n.getDB(tx)

	subscriber := &models.NewsletterSubscriber{Email: email}
	err := db.WithContext(ctx).Create(subscriber).Error
	if err == nil {
		return subscriber, nil
	}
	if !repositories.IsDuplicateKeyError(err) {
		return nil, err
	}

	var existing models.NewsletterSubscriber
	if err := db.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func (n *NewsletterPostgreSQL) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*models.NewsletterSubscriber, int64, error) {
	db := n.getDB(tx)
	var subscribers []*models.NewsletterSubscriber
	var total int64

	query := db.WithContext(ctx).Model(&models.NewsletterSubscriber{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&subscribers).Error; err != nil {
		return nil, 0, err
	}

	return subscribers, total, nil
}
