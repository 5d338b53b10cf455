package repository

import (
	"context"
	"fmt"

	"clubedoebook/internal/api/models"

	"gorm.io/gorm"
)

type RatingRepository interface {
	Create(ctx context.Context, rating *models.Rating) error
	Update(ctx context.Context, rating *models.Rating) error
	Delete(ctx context.Context, userID string, ebookID int64) error
	GetByUserAndEbook(ctx context.Context, userID string, ebookID int64) (*models.Rating, error)
	GetByEbook(ctx context.Context, ebookID int64, page, pageSize int) ([]models.Rating, int64, error)
	AverageForEbook(ctx context.Context, ebookID int64) (float64, int64, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Create(ctx context.Context, rating *models.Rating) error {
	if err := r.db.WithContext(ctx).Create(rating).Error; err != nil {
		return fmt.Errorf("create rating: %w", err)
	}
	return nil
}

func (r *ratingRepository) Update(ctx context.Context, rating *models.Rating) error {
	if err := r.db.WithContext(ctx).Save(rating).Error; err != nil {
		return fmt.Errorf("update rating: %w", err)
	}
	return nil
}

func (r *ratingRepository) Delete(ctx context.Context, userID string, ebookID int64) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND ebook_id = ?", userID, ebookID).
		Delete(&models.Rating{}).Error; err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}
	return nil
}

func (r *ratingRepository) GetByUserAndEbook(ctx context.Context, userID string, ebookID int64) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND ebook_id = ?", userID, ebookID).
		First(&rating).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) GetByEbook(ctx context.Context, ebookID int64, page, pageSize int) ([]models.Rating, int64, error) {
	var list []models.Rating
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Rating{}).Where("ebook_id = ?", ebookID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count ratings: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := db.Preload("User").
		Order("created_at desc").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list ratings: %w", err)
	}

	return list, total, nil
}

// AverageForEbook computes the aggregate in SQL rather than in memory.
func (r *ratingRepository) AverageForEbook(ctx context.Context, ebookID int64) (float64, int64, error) {
	var result struct {
		Avg   float64
		Count int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select("COALESCE(AVG(rating), 0) as avg, COUNT(*) as count").
		Where("ebook_id = ?", ebookID).
		Scan(&result).Error; err != nil {
		return 0, 0, fmt.Errorf("average rating: %w", err)
	}
	return result.Avg, result.Count, nil
}
