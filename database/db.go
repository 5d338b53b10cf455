package database

import (
	"fmt"
	"log/slog"
	"time"

	"clubedoebook/internal/api/models"
	"clubedoebook/internal/config"
	"clubedoebook/internal/gamification"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

func ConnectDB(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	gormLogLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		gormLogLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access underlying connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := migrate(db); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := seedCatalogs(db); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to seed catalogs: %w", err)
	}

	logger.Info("Connected to the database successfully")
	return db, nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Ebook{},
		&models.Bundle{},
		&models.Rating{},
		&models.UserFavorite{},
		&models.Notification{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.UserStats{},
		&models.Certificate{},
		&models.UserCertificate{},
		&models.CreatorProfile{},
		&models.Order{},
	)
}

// seedCatalogs mirrors the fixed achievement and certificate tables into the
// database so per-user state rows have catalog rows to reference. Upserts
// keep redeploys idempotent and let definition tweaks flow through.
func seedCatalogs(db *gorm.DB) error {
	achievements := make([]models.Achievement, 0, len(gamification.Catalog))
	for _, a := range gamification.Catalog {
		achievements = append(achievements, models.Achievement{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Category:    string(a.Category),
			Requirement: a.Requirement,
			Points:      a.Points,
			PremiumOnly: a.PremiumOnly,
		})
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&achievements).Error; err != nil {
		return fmt.Errorf("seed achievements: %w", err)
	}

	certificates := make([]models.Certificate, 0, len(gamification.CertificateCatalog))
	for _, c := range gamification.CertificateCatalog {
		certificates = append(certificates, models.Certificate{
			ID:             c.ID,
			Title:          c.Title,
			Description:    c.Description,
			RequiredEbooks: c.RequiredEbooks,
		})
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&certificates).Error; err != nil {
		return fmt.Errorf("seed certificates: %w", err)
	}

	return nil
}
