package repository

import (
	"context"
	"errors"
	"fmt"

	"clubedoebook/internal/api/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrAlreadyFavorited is returned when the unique (user, ebook) pair exists.
var ErrAlreadyFavorited = errors.New("ebook already in favorites")

type FavoriteRepository interface {
	Add(ctx context.Context, fav *models.UserFavorite) error
	Remove(ctx context.Context, userID string, ebookID int64) error
	ListByUser(ctx context.Context, userID string) ([]models.UserFavorite, error)
	Exists(ctx context.Context, userID string, ebookID int64) (bool, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Add(ctx context.Context, fav *models.UserFavorite) error {
	if err := r.db.WithContext(ctx).Create(fav).Error; err != nil {
		// 23505 = unique_violation, the pair already exists
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyFavorited
		}
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

func (r *favoriteRepository) Remove(ctx context.Context, userID string, ebookID int64) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND ebook_id = ?", userID, ebookID).
		Delete(&models.UserFavorite{}).Error; err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

func (r *favoriteRepository) ListByUser(ctx context.Context, userID string) ([]models.UserFavorite, error) {
	var list []models.UserFavorite
	if err := r.db.WithContext(ctx).
		Preload("Ebook").
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return list, nil
}

func (r *favoriteRepository) Exists(ctx context.Context, userID string, ebookID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UserFavorite{}).
		Where("user_id = ? AND ebook_id = ?", userID, ebookID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return count > 0, nil
}
