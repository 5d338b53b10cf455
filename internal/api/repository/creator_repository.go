package repository

import (
	"context"
	"fmt"

	"clubedoebook/internal/api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreatorRepository interface {
	GetProfile(ctx context.Context, userID string) (*models.CreatorProfile, error)
	Upsert(ctx context.Context, profile *models.CreatorProfile) error
	IncrementSales(ctx context.Context, userID string, delta int) error
}

type creatorRepository struct {
	db *gorm.DB
}

func NewCreatorRepository(db *gorm.DB) CreatorRepository {
	return &creatorRepository{db: db}
}

// GetProfile materializes the zero-state profile on first read; the badge
// engine treats zero sales as bronze, never as "missing creator".
func (r *creatorRepository) GetProfile(ctx context.Context, userID string) (*models.CreatorProfile, error) {
	var profile models.CreatorProfile
	if err := r.db.WithContext(ctx).
		Where(models.CreatorProfile{UserID: userID}).
		FirstOrCreate(&profile).Error; err != nil {
		return nil, fmt.Errorf("get creator profile: %w", err)
	}
	return &profile, nil
}

func (r *creatorRepository) Upsert(ctx context.Context, profile *models.CreatorProfile) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"bio", "updated_at"}),
		}).
		Create(profile).Error; err != nil {
		return fmt.Errorf("upsert creator profile: %w", err)
	}
	return nil
}

// IncrementSales bumps the completed-sale counter as one server-side UPDATE.
// Sales are never un-sold, so delta is positive by contract.
func (r *creatorRepository) IncrementSales(ctx context.Context, userID string, delta int) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.CreatorProfile{UserID: userID}).Error; err != nil {
		return fmt.Errorf("ensure creator profile: %w", err)
	}
	if err := r.db.WithContext(ctx).
		Model(&models.CreatorProfile{}).
		Where("user_id = ?", userID).
		UpdateColumn("total_sales", gorm.Expr("total_sales + ?", delta)).Error; err != nil {
		return fmt.Errorf("increment creator sales: %w", err)
	}
	return nil
}
