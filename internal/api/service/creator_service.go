package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"clubedoebook/internal/api/dto"
	"clubedoebook/internal/api/models"
	"clubedoebook/internal/api/repository"
	"clubedoebook/internal/commission"

	"github.com/redis/go-redis/v9"
)

type CreatorService interface {
	GetBadgeProgress(ctx context.Context, creatorID string) (*dto.BadgeProgressResponse, error)
	RecordSale(ctx context.Context, creatorID string) error
	CommissionRateFor(ctx context.Context, creatorID string) (float64, error)
	UpdateProfile(ctx context.Context, creatorID string, req dto.UpdateCreatorProfileRequest) (*models.CreatorProfile, error)
	GetProfile(ctx context.Context, creatorID string) (*models.CreatorProfile, error)
}

type creatorService struct {
	creatorRepo repository.CreatorRepository
	rdb         *redis.Client
	cacheTTL    time.Duration
	logger      *slog.Logger
}

func NewCreatorService(
	creatorRepo repository.CreatorRepository,
	rdb *redis.Client,
	cacheTTL time.Duration,
	logger *slog.Logger,
) CreatorService {
	return &creatorService{
		creatorRepo: creatorRepo,
		rdb:         rdb,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

func creatorSalesKey(creatorID string) string {
	return "creator:sales:" + creatorID
}

// GetBadgeProgress derives the creator's badge standing from the sales
// counter. The badge itself is never stored; only the counter is, so there is
// no stored rank to drift out of sync.
func (s *creatorService) GetBadgeProgress(ctx context.Context, creatorID string) (*dto.BadgeProgressResponse, error) {
	sales, err := s.loadSales(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	progress := commission.ResolveBadge(sales)

	resp := &dto.BadgeProgressResponse{
		CurrentBadge:          string(progress.CurrentBadge),
		CurrentSales:          progress.CurrentSales,
		CurrentCommissionRate: progress.CurrentCommissionRate,
		PayoutPercent:         commission.PayoutPercent(progress.CurrentCommissionRate),
		NextBadgeRequirement:  progress.NextBadgeRequirement,
		SalesToNextLevel:      progress.SalesToNextLevel,
	}
	if progress.NextBadge != nil {
		next := string(*progress.NextBadge)
		resp.NextBadge = &next
	}
	return resp, nil
}

// RecordSale bumps the durable counter once per completed sale and drops the
// cached count so the next read sees the new standing.
func (s *creatorService) RecordSale(ctx context.Context, creatorID string) error {
	if err := s.creatorRepo.IncrementSales(ctx, creatorID, 1); err != nil {
		return fmt.Errorf("record sale: %w", err)
	}
	if err := s.rdb.Del(ctx, creatorSalesKey(creatorID)).Err(); err != nil {
		s.logger.Warn("invalidate sales cache failed", "creator_id", creatorID, "error", err)
	}
	return nil
}

// CommissionRateFor reads the rate implied by the creator's current badge.
// Callers snapshot it onto the order; a later rank-up never rewrites history.
func (s *creatorService) CommissionRateFor(ctx context.Context, creatorID string) (float64, error) {
	sales, err := s.loadSales(ctx, creatorID)
	if err != nil {
		return 0, err
	}
	return commission.ResolveBadge(sales).CurrentCommissionRate, nil
}

func (s *creatorService) UpdateProfile(ctx context.Context, creatorID string, req dto.UpdateCreatorProfileRequest) (*models.CreatorProfile, error) {
	profile, err := s.creatorRepo.GetProfile(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	profile.Bio = req.Bio
	if err := s.creatorRepo.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *creatorService) GetProfile(ctx context.Context, creatorID string) (*models.CreatorProfile, error) {
	return s.creatorRepo.GetProfile(ctx, creatorID)
}

// loadSales serves the counter cache-aside. A cache miss or a redis outage
// falls through to postgres; the cache is purely a read shortcut.
func (s *creatorService) loadSales(ctx context.Context, creatorID string) (int, error) {
	key := creatorSalesKey(creatorID)
	if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
		if sales, convErr := strconv.Atoi(cached); convErr == nil {
			return sales, nil
		}
	} else if err != redis.Nil {
		s.logger.Warn("read sales cache failed", "creator_id", creatorID, "error", err)
	}

	profile, err := s.creatorRepo.GetProfile(ctx, creatorID)
	if err != nil {
		return 0, err
	}
	if err := s.rdb.Set(ctx, key, strconv.Itoa(profile.TotalSales), s.cacheTTL).Err(); err != nil {
		s.logger.Warn("write sales cache failed", "creator_id", creatorID, "error", err)
	}
	return profile.TotalSales, nil
}
