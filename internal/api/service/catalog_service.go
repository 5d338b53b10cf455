package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"clubedoebook/internal/api/dto"
	"clubedoebook/internal/api/models"
	"clubedoebook/internal/api/repository"

	"gorm.io/gorm"
)

var (
	ErrEbookNotFound   = errors.New("ebook not found")
	ErrBundleNotFound  = errors.New("bundle not found")
	ErrNotOwner        = errors.New("ebook belongs to another creator")
	ErrDownloadLocked  = errors.New("ebook requires a purchase or premium subscription")
	ErrDownloadOffline = errors.New("downloads are not configured")
)

// downloadPresigner is the slice of the storage layer this service needs.
type downloadPresigner interface {
	PresignDownload(ctx context.Context, key string) (string, time.Time, error)
}

type CatalogService interface {
	List(ctx context.Context, query dto.ListEbooksQuery) (*dto.PaginatedEbooksResponse, error)
	GetBySlug(ctx context.Context, slug string) (*dto.EbookResponse, error)
	ListBundles(ctx context.Context) ([]dto.BundleResponse, error)
	GetBundle(ctx context.Context, slug string) (*dto.BundleResponse, error)

	Publish(ctx context.Context, creatorID string, req dto.PublishEbookRequest) (*dto.EbookResponse, error)
	Update(ctx context.Context, caps Capabilities, ebookID int64, req dto.UpdateEbookRequest) (*dto.EbookResponse, error)
	Unpublish(ctx context.Context, caps Capabilities, ebookID int64) error
	ListOwn(ctx context.Context, creatorID string) ([]dto.EbookResponse, error)

	Download(ctx context.Context, caps Capabilities, ebookID int64) (*dto.DownloadResponse, error)
}

type catalogService struct {
	ebookRepo    *repository.EbookRepo
	bundleRepo   *repository.BundleRepo
	orderRepo    repository.OrderRepository
	downloads    downloadPresigner
	gamification GamificationService
	logger       *slog.Logger
}

func NewCatalogService(
	ebookRepo *repository.EbookRepo,
	bundleRepo *repository.BundleRepo,
	orderRepo repository.OrderRepository,
	downloads downloadPresigner,
	gamification GamificationService,
	logger *slog.Logger,
) CatalogService {
	return &catalogService{
		ebookRepo:    ebookRepo,
		bundleRepo:   bundleRepo,
		orderRepo:    orderRepo,
		downloads:    downloads,
		gamification: gamification,
		logger:       logger,
	}
}

func (s *catalogService) List(ctx context.Context, query dto.ListEbooksQuery) (*dto.PaginatedEbooksResponse, error) {
	filter := repository.EbookFilter{
		Category: query.Category,
		Premium:  query.Premium,
		FreeOnly: query.Free,
		Search:   query.Search,
	}
	list, total, err := s.ebookRepo.List(ctx, filter, query.Page, query.PageSize)
	if err != nil {
		return nil, err
	}

	resp := &dto.PaginatedEbooksResponse{
		Items:    make([]dto.EbookResponse, 0, len(list)),
		Total:    total,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	for i := range list {
		resp.Items = append(resp.Items, toEbookResponse(&list[i]))
	}
	return resp, nil
}

func (s *catalogService) GetBySlug(ctx context.Context, slug string) (*dto.EbookResponse, error) {
	ebook, err := s.ebookRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEbookNotFound
		}
		return nil, err
	}
	resp := toEbookResponse(ebook)
	return &resp, nil
}

func (s *catalogService) ListBundles(ctx context.Context) ([]dto.BundleResponse, error) {
	bundles, err := s.bundleRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.BundleResponse, 0, len(bundles))
	for i := range bundles {
		resp = append(resp, toBundleResponse(&bundles[i]))
	}
	return resp, nil
}

func (s *catalogService) GetBundle(ctx context.Context, slug string) (*dto.BundleResponse, error) {
	bundle, err := s.bundleRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBundleNotFound
		}
		return nil, err
	}
	resp := toBundleResponse(bundle)
	return &resp, nil
}

func (s *catalogService) Publish(ctx context.Context, creatorID string, req dto.PublishEbookRequest) (*dto.EbookResponse, error) {
	ebook := &models.Ebook{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Category:    req.Category,
		PriceCents:  req.PriceCents,
		IsPremium:   req.IsPremium,
		CoverURL:    req.CoverURL,
		FileKey:     req.FileKey,
		CreatorID:   creatorID,
		Published:   true,
	}
	if err := s.ebookRepo.Create(ctx, ebook); err != nil {
		return nil, err
	}
	resp := toEbookResponse(ebook)
	return &resp, nil
}

func (s *catalogService) Update(ctx context.Context, caps Capabilities, ebookID int64, req dto.UpdateEbookRequest) (*dto.EbookResponse, error) {
	ebook, err := s.ownedEbook(ctx, caps, ebookID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		ebook.Title = *req.Title
	}
	if req.Author != nil {
		ebook.Author = *req.Author
	}
	if req.Description != nil {
		ebook.Description = req.Description
	}
	if req.Category != nil {
		ebook.Category = *req.Category
	}
	if req.PriceCents != nil {
		ebook.PriceCents = *req.PriceCents
	}
	if req.IsPremium != nil {
		ebook.IsPremium = *req.IsPremium
	}
	if req.CoverURL != nil {
		ebook.CoverURL = req.CoverURL
	}

	if err := s.ebookRepo.Update(ctx, ebook); err != nil {
		return nil, err
	}
	resp := toEbookResponse(ebook)
	return &resp, nil
}

func (s *catalogService) Unpublish(ctx context.Context, caps Capabilities, ebookID int64) error {
	if _, err := s.ownedEbook(ctx, caps, ebookID); err != nil {
		return err
	}
	return s.ebookRepo.SetPublished(ctx, ebookID, false)
}

func (s *catalogService) ListOwn(ctx context.Context, creatorID string) ([]dto.EbookResponse, error) {
	list, err := s.ebookRepo.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.EbookResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toEbookResponse(&list[i]))
	}
	return resp, nil
}

// Download gates access (free, premium subscription, or a paid order), then
// hands out a presigned URL and records the download activity event.
func (s *catalogService) Download(ctx context.Context, caps Capabilities, ebookID int64) (*dto.DownloadResponse, error) {
	if s.downloads == nil {
		return nil, ErrDownloadOffline
	}
	ebook, err := s.ebookRepo.GetByID(ctx, ebookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEbookNotFound
		}
		return nil, err
	}

	allowed := ebook.IsFree()
	if !allowed && ebook.IsPremium && caps.Premium && ebook.PriceCents == 0 {
		allowed = true
	}
	if !allowed {
		owned, err := s.orderRepo.HasPaidOrder(ctx, caps.UserID, ebookID)
		if err != nil {
			return nil, err
		}
		allowed = owned
	}
	if !allowed {
		return nil, ErrDownloadLocked
	}

	url, expiresAt, err := s.downloads.PresignDownload(ctx, ebook.FileKey)
	if err != nil {
		return nil, err
	}

	if err := s.gamification.RecordActivity(ctx, caps.UserID, EventEbookDownloaded); err != nil {
		// the download itself succeeded; losing the activity event is worth
		// a log line, not a failed response
		s.logger.Warn("download activity not recorded", "user_id", caps.UserID, "ebook_id", ebookID, "error", err)
	}

	return &dto.DownloadResponse{URL: url, ExpiresAt: expiresAt}, nil
}

func (s *catalogService) ownedEbook(ctx context.Context, caps Capabilities, ebookID int64) (*models.Ebook, error) {
	ebook, err := s.ebookRepo.GetByID(ctx, ebookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEbookNotFound
		}
		return nil, err
	}
	if ebook.CreatorID != caps.UserID && !caps.Admin {
		return nil, ErrNotOwner
	}
	return ebook, nil
}

func toEbookResponse(e *models.Ebook) dto.EbookResponse {
	return dto.EbookResponse{
		ID:            e.ID,
		Slug:          e.Slug,
		Title:         e.Title,
		Author:        e.Author,
		Description:   e.Description,
		Category:      e.Category,
		PriceCents:    e.PriceCents,
		IsPremium:     e.IsPremium,
		IsFree:        e.IsFree(),
		CoverURL:      e.CoverURL,
		AverageRating: e.AverageRating,
		CreatedAt:     e.CreatedAt,
	}
}

func toBundleResponse(b *models.Bundle) dto.BundleResponse {
	resp := dto.BundleResponse{
		ID:          b.ID,
		Slug:        b.Slug,
		Title:       b.Title,
		Description: b.Description,
		PriceCents:  b.PriceCents,
		CoverURL:    b.CoverURL,
	}
	for i := range b.Ebooks {
		resp.Ebooks = append(resp.Ebooks, toEbookResponse(&b.Ebooks[i]))
	}
	return resp
}
