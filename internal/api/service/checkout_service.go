package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"clubedoebook/internal/api/dto"
	"clubedoebook/internal/api/models"
	"clubedoebook/internal/api/repository"
	"clubedoebook/internal/payments"

	"gorm.io/gorm"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrInvalidCheckout = errors.New("checkout must target exactly one ebook or bundle")
	ErrNothingToPay    = errors.New("item is free, nothing to pay")
)

// checkoutProcessor is the slice of the payment client the service needs.
type checkoutProcessor interface {
	CreateCheckout(ctx context.Context, req payments.CheckoutRequest) (*payments.CheckoutSession, error)
	GetCheckout(ctx context.Context, checkoutID string) (*payments.CheckoutSession, error)
}

type bundleResolver interface {
	GetByID(ctx context.Context, id int64) (*models.Bundle, error)
}

type CheckoutService interface {
	StartCheckout(ctx context.Context, userID string, req dto.StartCheckoutRequest) (*dto.CheckoutResponse, error)
	GetOrder(ctx context.Context, userID, orderID string) (*dto.OrderResponse, error)
	ListOrders(ctx context.Context, userID string) ([]dto.OrderResponse, error)
}

type checkoutService struct {
	orderRepo     repository.OrderRepository
	ebookRepo     ebookResolver
	bundleRepo    bundleResolver
	processor     checkoutProcessor
	creators      CreatorService
	gamification  GamificationService
	notifications NotificationService
	logger        *slog.Logger
}

func NewCheckoutService(
	orderRepo repository.OrderRepository,
	ebookRepo ebookResolver,
	bundleRepo bundleResolver,
	processor checkoutProcessor,
	creators CreatorService,
	gamification GamificationService,
	notifications NotificationService,
	logger *slog.Logger,
) CheckoutService {
	return &checkoutService{
		orderRepo:     orderRepo,
		ebookRepo:     ebookRepo,
		bundleRepo:    bundleRepo,
		processor:     processor,
		creators:      creators,
		gamification:  gamification,
		notifications: notifications,
		logger:        logger,
	}
}

// StartCheckout creates a pending order and opens a hosted checkout session
// for it. For single ebooks the creator's commission rate is snapshotted onto
// the order at this moment.
func (s *checkoutService) StartCheckout(ctx context.Context, userID string, req dto.StartCheckoutRequest) (*dto.CheckoutResponse, error) {
	if (req.EbookID == nil) == (req.BundleID == nil) {
		return nil, ErrInvalidCheckout
	}

	order := &models.Order{UserID: userID}
	var description string

	switch {
	case req.EbookID != nil:
		ebook, err := s.ebookRepo.GetByID(ctx, *req.EbookID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrEbookNotFound
			}
			return nil, fmt.Errorf("load ebook: %w", err)
		}
		if ebook.PriceCents == 0 {
			return nil, ErrNothingToPay
		}
		rate, err := s.creators.CommissionRateFor(ctx, ebook.CreatorID)
		if err != nil {
			return nil, fmt.Errorf("resolve commission rate: %w", err)
		}
		order.EbookID = &ebook.ID
		order.AmountCents = ebook.PriceCents
		order.CommissionRate = rate
		description = "Ebook: " + ebook.Title
	default:
		bundle, err := s.bundleRepo.GetByID(ctx, *req.BundleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrBundleNotFound
			}
			return nil, fmt.Errorf("load bundle: %w", err)
		}
		if bundle.PriceCents == 0 {
			return nil, ErrNothingToPay
		}
		order.BundleID = &bundle.ID
		order.AmountCents = bundle.PriceCents
		description = "Bundle: " + bundle.Title
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	session, err := s.processor.CreateCheckout(ctx, payments.CheckoutRequest{
		OrderID:     order.ID,
		AmountCents: order.AmountCents,
		Description: description,
	})
	if err != nil {
		if markErr := s.orderRepo.MarkFailed(ctx, order.ID); markErr != nil {
			s.logger.Error("mark order failed after checkout error", "order_id", order.ID, "error", markErr)
		}
		return nil, fmt.Errorf("open checkout: %w", err)
	}

	order.CheckoutID = session.ID
	if err := s.orderRepo.SetCheckoutID(ctx, order.ID, session.ID); err != nil {
		s.logger.Warn("store checkout id failed", "order_id", order.ID, "error", err)
	}

	return &dto.CheckoutResponse{
		OrderID:     order.ID,
		CheckoutURL: session.URL,
		Status:      order.Status,
	}, nil
}

// GetOrder returns the caller's order, polling the processor while it is
// still pending. The paid transition is guarded in SQL, so a race between
// two polls settles the sale exactly once.
func (s *checkoutService) GetOrder(ctx context.Context, userID, orderID string) (*dto.OrderResponse, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("load order: %w", err)
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}

	if order.Status == models.OrderStatusPending && order.CheckoutID != "" {
		if err := s.reconcile(ctx, order); err != nil {
			s.logger.Warn("reconcile order failed", "order_id", order.ID, "error", err)
		}
	}

	return toOrderResponse(order), nil
}

func (s *checkoutService) ListOrders(ctx context.Context, userID string) ([]dto.OrderResponse, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, *toOrderResponse(&orders[i]))
	}
	return out, nil
}

// reconcile pulls the processor's view of a pending order and applies the
// terminal transition. Sale attribution and activity counters run only when
// this call is the one that flipped the row.
func (s *checkoutService) reconcile(ctx context.Context, order *models.Order) error {
	session, err := s.processor.GetCheckout(ctx, order.CheckoutID)
	if err != nil {
		return fmt.Errorf("poll checkout: %w", err)
	}

	switch session.Status {
	case payments.StatusPaid:
		now := time.Now()
		transitioned, err := s.orderRepo.MarkPaid(ctx, order.ID, now)
		if err != nil {
			return fmt.Errorf("mark paid: %w", err)
		}
		order.Status = models.OrderStatusPaid
		order.PaidAt = &now
		if !transitioned {
			return nil
		}
		s.settle(ctx, order)
	case payments.StatusFailed:
		if err := s.orderRepo.MarkFailed(ctx, order.ID); err != nil {
			return fmt.Errorf("mark failed: %w", err)
		}
		order.Status = models.OrderStatusFailed
	}
	return nil
}

// settle runs the once-per-sale side effects after this call won the paid
// transition.
func (s *checkoutService) settle(ctx context.Context, order *models.Order) {
	if order.EbookID != nil {
		ebook, err := s.ebookRepo.GetByID(ctx, *order.EbookID)
		if err != nil {
			s.logger.Error("load ebook for sale attribution failed", "order_id", order.ID, "error", err)
		} else if err := s.creators.RecordSale(ctx, ebook.CreatorID); err != nil {
			s.logger.Error("record sale failed", "order_id", order.ID, "creator_id", ebook.CreatorID, "error", err)
		}
	}
	if order.BundleID != nil {
		if err := s.gamification.RecordActivity(ctx, order.UserID, EventBundlePurchased); err != nil {
			s.logger.Warn("record bundle activity failed", "order_id", order.ID, "error", err)
		}
	}
	msg := fmt.Sprintf("Payment confirmed for order %s.", order.ID)
	if err := s.notifications.Push(ctx, order.UserID, NotificationOrderPaid, "Order paid", msg); err != nil {
		s.logger.Warn("push order notification failed", "order_id", order.ID, "error", err)
	}
}

func toOrderResponse(order *models.Order) *dto.OrderResponse {
	return &dto.OrderResponse{
		ID:          order.ID,
		EbookID:     order.EbookID,
		BundleID:    order.BundleID,
		AmountCents: order.AmountCents,
		Status:      order.Status,
		CreatedAt:   order.CreatedAt,
		PaidAt:      order.PaidAt,
	}
}
