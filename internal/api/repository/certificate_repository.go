package repository

import (
	"context"
	"fmt"

	"clubedoebook/internal/api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CertificateRepository interface {
	ListCatalog(ctx context.Context) ([]models.Certificate, error)
	ListStates(ctx context.Context, userID string) ([]models.UserCertificate, error)
	SaveState(ctx context.Context, state *models.UserCertificate) error
}

type certificateRepository struct {
	db *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) CertificateRepository {
	return &certificateRepository{db: db}
}

func (r *certificateRepository) ListCatalog(ctx context.Context) ([]models.Certificate, error) {
	var list []models.Certificate
	if err := r.db.WithContext(ctx).Order("id").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list certificate catalog: %w", err)
	}
	return list, nil
}

func (r *certificateRepository) ListStates(ctx context.Context, userID string) ([]models.UserCertificate, error) {
	var list []models.UserCertificate
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list certificate states: %w", err)
	}
	return list, nil
}

func (r *certificateRepository) SaveState(ctx context.Context, state *models.UserCertificate) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "certificate_id"}},
			UpdateAll: true,
		}).
		Create(state).Error; err != nil {
		return fmt.Errorf("save certificate state: %w", err)
	}
	return nil
}
