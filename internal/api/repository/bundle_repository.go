package repository

import (
	"context"
	"fmt"

	"clubedoebook/internal/api/models"

	"gorm.io/gorm"
)

type BundleRepo struct {
	db *gorm.DB
}

func NewBundleRepo(db *gorm.DB) *BundleRepo {
	return &BundleRepo{db: db}
}

func (r *BundleRepo) List(ctx context.Context) ([]models.Bundle, error) {
	var list []models.Bundle
	if err := r.db.WithContext(ctx).
		Preload("Ebooks").
		Where("published = ?", true).
		Order("created_at desc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list bundles: %w", err)
	}
	return list, nil
}

func (r *BundleRepo) GetByID(ctx context.Context, id int64) (*models.Bundle, error) {
	var b models.Bundle
	if err := r.db.WithContext(ctx).Preload("Ebooks").First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BundleRepo) GetBySlug(ctx context.Context, slug string) (*models.Bundle, error) {
	var b models.Bundle
	if err := r.db.WithContext(ctx).Preload("Ebooks").Where("slug = ?", slug).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BundleRepo) Create(ctx context.Context, b *models.Bundle) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("create bundle: %w", err)
	}
	return nil
}
