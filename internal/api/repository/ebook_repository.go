package repository

import (
	"context"
	"fmt"
	"strings"

	"clubedoebook/internal/api/models"

	"gorm.io/gorm"
)

// EbookFilter narrows a catalog listing. Zero values mean "no filter".
type EbookFilter struct {
	Category string
	Premium  *bool
	FreeOnly bool
	Search   string
}

type EbookRepo struct {
	db *gorm.DB
}

func NewEbookRepo(db *gorm.DB) *EbookRepo {
	return &EbookRepo{db: db}
}

func (r *EbookRepo) List(ctx context.Context, filter EbookFilter, page, pageSize int) ([]models.Ebook, int64, error) {
	var list []models.Ebook
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Ebook{}).Where("published = ?", true)

	if filter.Category != "" {
		db = db.Where("category = ?", filter.Category)
	}
	if filter.Premium != nil {
		db = db.Where("is_premium = ?", *filter.Premium)
	}
	if filter.FreeOnly {
		db = db.Where("price_cents = 0 AND is_premium = ?", false)
	}
	if tokens := strings.Fields(filter.Search); len(tokens) > 0 {
		clauses := make([]string, 0, len(tokens))
		args := make([]interface{}, 0, len(tokens)*2)
		for _, t := range tokens {
			p := "%" + t + "%"
			clauses = append(clauses, "(title ILIKE ? OR author ILIKE ?)")
			args = append(args, p, p)
		}
		db = db.Where(strings.Join(clauses, " AND "), args...)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count ebooks: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := db.Order("created_at desc").Limit(pageSize).Offset(offset).Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list ebooks: %w", err)
	}

	return list, total, nil
}

func (r *EbookRepo) GetByID(ctx context.Context, id int64) (*models.Ebook, error) {
	var e models.Ebook
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EbookRepo) GetBySlug(ctx context.Context, slug string) (*models.Ebook, error) {
	var e models.Ebook
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// GetByTitle resolves the exact title strings certificates are keyed on.
func (r *EbookRepo) GetByTitle(ctx context.Context, title string) (*models.Ebook, error) {
	var e models.Ebook
	if err := r.db.WithContext(ctx).Where("title = ?", title).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EbookRepo) ListByCreator(ctx context.Context, creatorID string) ([]models.Ebook, error) {
	var list []models.Ebook
	if err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at desc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list creator ebooks: %w", err)
	}
	return list, nil
}

func (r *EbookRepo) Create(ctx context.Context, e *models.Ebook) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("create ebook: %w", err)
	}
	return nil
}

func (r *EbookRepo) Update(ctx context.Context, e *models.Ebook) error {
	if err := r.db.WithContext(ctx).Save(e).Error; err != nil {
		return fmt.Errorf("update ebook: %w", err)
	}
	return nil
}

// SetPublished flips listing visibility without touching the rest of the row.
func (r *EbookRepo) SetPublished(ctx context.Context, id int64, published bool) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Ebook{}).
		Where("id = ?", id).
		Update("published", published).Error; err != nil {
		return fmt.Errorf("set ebook published: %w", err)
	}
	return nil
}

func (r *EbookRepo) SetAverageRating(ctx context.Context, id int64, avg *float64) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Ebook{}).
		Where("id = ?", id).
		Update("average_rating", avg).Error; err != nil {
		return fmt.Errorf("set average rating: %w", err)
	}
	return nil
}
