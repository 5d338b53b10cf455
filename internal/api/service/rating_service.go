package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"clubedoebook/internal/api/dto"
	"clubedoebook/internal/api/models"
	"clubedoebook/internal/api/repository"

	"gorm.io/gorm"
)

var ErrRatingNotFound = errors.New("rating not found")

// ratingEbookStore is the slice of the ebook repository this service needs.
type ratingEbookStore interface {
	GetByID(ctx context.Context, id int64) (*models.Ebook, error)
	SetAverageRating(ctx context.Context, id int64, avg *float64) error
}

type RatingService interface {
	Submit(ctx context.Context, userID string, ebookID int64, req dto.SubmitRatingRequest) (*dto.RatingResponse, error)
	Delete(ctx context.Context, userID string, ebookID int64) error
	ListForEbook(ctx context.Context, ebookID int64, page, pageSize int) (*dto.PaginatedRatingResponse, error)
	Summary(ctx context.Context, ebookID int64) (*dto.RatingSummaryResponse, error)
}

type ratingService struct {
	ratingRepo   repository.RatingRepository
	ebookRepo    ratingEbookStore
	gamification GamificationService
	logger       *slog.Logger
}

func NewRatingService(
	ratingRepo repository.RatingRepository,
	ebookRepo ratingEbookStore,
	gamification GamificationService,
	logger *slog.Logger,
) RatingService {
	return &ratingService{
		ratingRepo:   ratingRepo,
		ebookRepo:    ebookRepo,
		gamification: gamification,
		logger:       logger,
	}
}

// Submit creates or updates the caller's rating for an ebook. Only the first
// submission counts as community activity; edits keep the score fresh without
// farming points.
func (s *ratingService) Submit(ctx context.Context, userID string, ebookID int64, req dto.SubmitRatingRequest) (*dto.RatingResponse, error) {
	if _, err := s.ebookRepo.GetByID(ctx, ebookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEbookNotFound
		}
		return nil, fmt.Errorf("load ebook: %w", err)
	}

	existing, err := s.ratingRepo.GetByUserAndEbook(ctx, userID, ebookID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load rating: %w", err)
	}

	isNew := existing == nil
	if isNew {
		existing = &models.Rating{UserID: userID, EbookID: ebookID}
	}
	existing.Rating = req.Rating
	existing.Review = req.Review

	if isNew {
		err = s.ratingRepo.Create(ctx, existing)
	} else {
		err = s.ratingRepo.Update(ctx, existing)
	}
	if err != nil {
		return nil, fmt.Errorf("save rating: %w", err)
	}

	s.refreshAverage(ctx, ebookID)

	if isNew {
		if err := s.gamification.RecordActivity(ctx, userID, EventCommentPosted); err != nil {
			s.logger.Warn("record rating activity failed", "user_id", userID, "ebook_id", ebookID, "error", err)
		}
	}

	return dto.FromModelToRatingResponse(existing), nil
}

func (s *ratingService) Delete(ctx context.Context, userID string, ebookID int64) error {
	existing, err := s.ratingRepo.GetByUserAndEbook(ctx, userID, ebookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRatingNotFound
		}
		return fmt.Errorf("load rating: %w", err)
	}
	if err := s.ratingRepo.Delete(ctx, existing.UserID, existing.EbookID); err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}
	s.refreshAverage(ctx, ebookID)
	return nil
}

func (s *ratingService) ListForEbook(ctx context.Context, ebookID int64, page, pageSize int) (*dto.PaginatedRatingResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	ratings, total, err := s.ratingRepo.GetByEbook(ctx, ebookID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	items := make([]dto.RatingResponse, 0, len(ratings))
	for i := range ratings {
		items = append(items, *dto.FromModelToRatingResponse(&ratings[i]))
	}
	return &dto.PaginatedRatingResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *ratingService) Summary(ctx context.Context, ebookID int64) (*dto.RatingSummaryResponse, error) {
	avg, count, err := s.ratingRepo.AverageForEbook(ctx, ebookID)
	if err != nil {
		return nil, fmt.Errorf("rating summary: %w", err)
	}
	return &dto.RatingSummaryResponse{EbookID: ebookID, Average: avg, Count: count}, nil
}

// refreshAverage recomputes the denormalized average on the ebook row. A lost
// update only leaves the listing stale; the ratings table stays the truth.
func (s *ratingService) refreshAverage(ctx context.Context, ebookID int64) {
	avg, count, err := s.ratingRepo.AverageForEbook(ctx, ebookID)
	if err != nil {
		s.logger.Warn("recompute rating average failed", "ebook_id", ebookID, "error", err)
		return
	}
	var value *float64
	if count > 0 {
		value = &avg
	}
	if err := s.ebookRepo.SetAverageRating(ctx, ebookID, value); err != nil {
		s.logger.Warn("store rating average failed", "ebook_id", ebookID, "error", err)
	}
}
