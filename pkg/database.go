package pkg

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/course-platform/catalog-service/internal/config"
	"github.com/course-platform/catalog-service/internal/models"
)

// InitDatabase opens the Postgres connection and runs migrations.
// TranslateError is required so unique-constraint violations surface as
// gorm.ErrDuplicatedKey for the idempotent create paths.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormLogLevel := logger.Warn
	if cfg.LogLevel == slog.LevelDebug {
		gormLogLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(gormLogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Course{},
		&models.CourseSection{},
		&models.Documentation{},
		&models.DocumentLink{},
		&models.Purchase{},
		&models.Enrollment{},
		&models.CourseProgress{},
		&models.CourseReview{},
		&models.NewsletterSubscriber{},
	)
}
