package service

import (
	"context"
	"errors"
	"fmt"

	"clubedoebook/internal/api/models"
	"clubedoebook/internal/api/repository"

	"gorm.io/gorm"
)

var ErrNotFavorited = errors.New("ebook not in favorites")

type FavoriteService interface {
	Add(ctx context.Context, userID string, ebookID int64) error
	Remove(ctx context.Context, userID string, ebookID int64) error
	List(ctx context.Context, userID string) ([]models.Ebook, error)
}

type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	ebookRepo    *repository.EbookRepo
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository, ebookRepo *repository.EbookRepo) FavoriteService {
	return &favoriteService{favoriteRepo: favoriteRepo, ebookRepo: ebookRepo}
}

func (s *favoriteService) Add(ctx context.Context, userID string, ebookID int64) error {
	if _, err := s.ebookRepo.GetByID(ctx, ebookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEbookNotFound
		}
		return fmt.Errorf("load ebook: %w", err)
	}
	err := s.favoriteRepo.Add(ctx, &models.UserFavorite{UserID: userID, EbookID: ebookID})
	if err != nil && !errors.Is(err, repository.ErrAlreadyFavorited) {
		return fmt.Errorf("add favorite: %w", err)
	}
	// Repeat additions are a no-op; the shelf is a set.
	return nil
}

func (s *favoriteService) Remove(ctx context.Context, userID string, ebookID int64) error {
	exists, err := s.favoriteRepo.Exists(ctx, userID, ebookID)
	if err != nil {
		return fmt.Errorf("check favorite: %w", err)
	}
	if !exists {
		return ErrNotFavorited
	}
	if err := s.favoriteRepo.Remove(ctx, userID, ebookID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

func (s *favoriteService) List(ctx context.Context, userID string) ([]models.Ebook, error) {
	favorites, err := s.favoriteRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	ebooks := make([]models.Ebook, 0, len(favorites))
	for _, f := range favorites {
		if f.Ebook != nil {
			ebooks = append(ebooks, *f.Ebook)
		}
	}
	return ebooks, nil
}
