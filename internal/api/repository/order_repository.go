package repository

import (
	"context"
	"fmt"
	"time"

	"clubedoebook/internal/api/models"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	SetCheckoutID(ctx context.Context, id, checkoutID string) error
	MarkPaid(ctx context.Context, id string, at time.Time) (bool, error)
	MarkFailed(ctx context.Context, id string) error
	HasPaidOrder(ctx context.Context, userID string, ebookID int64) (bool, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Ebook").
		Preload("Bundle").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var list []models.Order
	if err := r.db.WithContext(ctx).
		Preload("Ebook").
		Preload("Bundle").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return list, nil
}

func (r *orderRepository) SetCheckoutID(ctx context.Context, id, checkoutID string) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("checkout_id", checkoutID).Error; err != nil {
		return fmt.Errorf("set checkout id: %w", err)
	}
	return nil
}

// MarkPaid transitions pending → paid and reports whether this call made the
// transition. The status guard in the WHERE clause keeps the downstream sale
// attribution and activity events from firing twice on a repeated poll.
func (r *orderRepository) MarkPaid(ctx context.Context, id string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, models.OrderStatusPending).
		Updates(map[string]interface{}{"status": models.OrderStatusPaid, "paid_at": at})
	if res.Error != nil {
		return false, fmt.Errorf("mark order paid: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *orderRepository) MarkFailed(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, models.OrderStatusPending).
		Update("status", models.OrderStatusFailed).Error; err != nil {
		return fmt.Errorf("mark order failed: %w", err)
	}
	return nil
}

// HasPaidOrder checks ownership of a single e-book, directly or via a bundle.
func (r *orderRepository) HasPaidOrder(ctx context.Context, userID string, ebookID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ? AND status = ?", userID, models.OrderStatusPaid).
		Where("ebook_id = ? OR bundle_id IN (SELECT bundle_id FROM bundle_ebooks WHERE ebook_id = ?)", ebookID, ebookID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check paid order: %w", err)
	}
	return count > 0, nil
}
