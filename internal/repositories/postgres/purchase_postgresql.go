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

type PurchasePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewPurchasePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.PurchaseRepository {
	return &PurchasePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (p *PurchasePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return p.db
}

func (p *PurchasePostgreSQL) Create(ctx context.Context, tx *gorm.DB, purchase *models.Purchase) error {
	db := p.getDB(tx)
	if err := db.WithContext(ctx).Create(purchase).Error; err != nil {
		return err
	}
	cache.InvalidatePurchaseCache(ctx, p.cacheManager, purchase.UserID)
	return nil
}

func (p *PurchasePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Purchase, error) {
	db := p.getDB(tx)
	var purchase models.Purchase
	if err := db.WithContext(ctx).First(&purchase, id).Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (p *PurchasePostgreSQL) GetByUserAndDocument(ctx context.Context, tx *gorm.DB, userID string, documentID uint) (*models.Purchase, error) {
	db := p.getDB(tx)
	var purchase models.Purchase
	if err := db.WithContext(ctx).
		Where("user_id = ? AND document_id = ?", userID, documentID).
		First(&purchase).Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (p *PurchasePostgreSQL) GetByProviderRef(ctx context.Context, tx *gorm.DB, sessionRef, paymentRef *string) (*models.Purchase, error) {
	db := p.getDB(tx)
	query := db.WithContext(ctx).Model(&models.Purchase{})

	switch {
	case sessionRef != nil && paymentRef != nil:
		query = query.Where("provider_session_ref = ? OR provider_payment_ref = ?", *sessionRef, *paymentRef)
	case sessionRef != nil:
		query = query.Where("provider_session_ref = ?", *sessionRef)
	case paymentRef != nil:
		query = query.Where("provider_payment_ref = ?", *paymentRef)
	default:
		return nil, gorm.ErrRecordNotFound
	}

	var purchase models.Purchase
	if err := query.First(&purchase).Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (p *PurchasePostgreSQL) Update(ctx context.Context, tx *gorm.DB, purchase *models.Purchase) error {
	db := p.getDB(tx)
	if err := db.WithContext(ctx).Save(purchase).Error; err != nil {
		return err
	}
	cache.InvalidatePurchaseCache(ctx, p.cacheManager, purchase.UserID)
	return nil
}

func (p *PurchasePostgreSQL) UpdateStatusGuarded(ctx context.Context, tx *gorm.DB, id uint, from, to models.PurchaseStatus, paymentRef *string) (int64, error) {
	db := p.getDB(tx)

	updates := map[string]interface{}{"status": to}
	if paymentRef != nil {
		updates["provider_payment_ref"] = *paymentRef
	}

	result := db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		var userID string
		err := db.WithContext(ctx).
			Model(&models.Purchase{}).
			Where("id = ?", id).
			Select("user_id").
			Scan(&userID).Error
		if err == nil && userID != "" {
			cache.InvalidatePurchaseCache(ctx, p.cacheManager, userID)
		}
	}
	return result.RowsAffected, nil
}

func (p *PurchasePostgreSQL) ListByUser(ctx context.Context, tx *gorm.DB, userID string, filters repositories.PurchaseFilters) ([]*models.Purchase, int64, error) {
	db := p.getDB(tx)
	var purchases []*models.Purchase
	var total int64

	query := db.WithContext(ctx).Model(&models.Purchase{}).Where("user_id = ?", userID)
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.DateFrom != nil {
		query = query.Where("purchase_date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("purchase_date <= ?", *filters.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("purchase_date DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	if err := query.Preload("Document").Find(&purchases).Error; err != nil {
		return nil, 0, err
	}

	return purchases, total, nil
}

func (p *PurchasePostgreSQL) TotalSpent(ctx context.Context, tx *gorm.DB, userID string) (float64, error) {
	db := p.getDB(tx)
	var total *float64
	err := db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("user_id = ? AND status = ?", userID, models.PurchaseCompleted).
		Select("SUM(amount)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (p *PurchasePostgreSQL) GetSummary(ctx context.Context, tx *gorm.DB, userID string) (*repositories.PurchaseSummary, error) {
	db := p.getDB(tx)
	cacheKey := fmt.Sprintf("purchases:%s:summary", userID)
	var summary repositories.PurchaseSummary

	err := p.cacheManager.Stats.CacheOrExecute(ctx, cacheKey, &summary, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		var result repositories.PurchaseSummary

		rows := []struct {
			Status models.PurchaseStatus
			Count  int
			Sum    float64
		}{}
		if err := db.WithContext(ctx).
			Model(&models.Purchase{}).
			Where("user_id = ?", userID).
			Select("status, COUNT(*) as count, COALESCE(SUM(amount), 0) as sum").
			Group("status").
			Scan(&rows).Error; err != nil {
			return nil, err
		}

		for _, row := range rows {
			result.TotalPurchases += row.Count
			switch row.Status {
			case models.PurchaseCompleted:
				result.CompletedPurchases = row.Count
				result.TotalSpent = row.Sum
			case models.PurchaseRefunded:
				result.RefundedPurchases = row.Count
			}
		}

		return &result, nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
