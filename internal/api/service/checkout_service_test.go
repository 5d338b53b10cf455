package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"clubedoebook/internal/api/dto"
	"clubedoebook/internal/api/models"
	"clubedoebook/internal/payments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeBundleResolver struct {
	bundles map[int64]*models.Bundle
}

func (f *fakeBundleResolver) GetByID(ctx context.Context, id int64) (*models.Bundle, error) {
	b, ok := f.bundles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

type fakeOrderRepo struct {
	orders map[string]*models.Order
	nextID int
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		f.nextID++
		order.ID = string(rune('a' + f.nextID))
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	copied := *order
	f.orders[order.ID] = &copied
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *o
	return &copied, nil
}

func (f *fakeOrderRepo) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) SetCheckoutID(ctx context.Context, id, checkoutID string) error {
	f.orders[id].CheckoutID = checkoutID
	return nil
}

func (f *fakeOrderRepo) MarkPaid(ctx context.Context, id string, at time.Time) (bool, error) {
	o := f.orders[id]
	if o.Status != models.OrderStatusPending {
		return false, nil
	}
	o.Status = models.OrderStatusPaid
	o.PaidAt = &at
	return true, nil
}

func (f *fakeOrderRepo) MarkFailed(ctx context.Context, id string) error {
	o := f.orders[id]
	if o.Status == models.OrderStatusPending {
		o.Status = models.OrderStatusFailed
	}
	return nil
}

func (f *fakeOrderRepo) HasPaidOrder(ctx context.Context, userID string, ebookID int64) (bool, error) {
	for _, o := range f.orders {
		if o.UserID == userID && o.Status == models.OrderStatusPaid && o.EbookID != nil && *o.EbookID == ebookID {
			return true, nil
		}
	}
	return false, nil
}

type fakeProcessor struct {
	sessions map[string]*payments.CheckoutSession
	created  []payments.CheckoutRequest
	fail     bool
}

func (f *fakeProcessor) CreateCheckout(ctx context.Context, req payments.CheckoutRequest) (*payments.CheckoutSession, error) {
	if f.fail {
		return nil, assert.AnError
	}
	f.created = append(f.created, req)
	session := &payments.CheckoutSession{
		ID:     "cs_" + req.OrderID,
		URL:    "https://pay.example/cs_" + req.OrderID,
		Status: payments.StatusPending,
	}
	f.sessions[session.ID] = session
	return session, nil
}

func (f *fakeProcessor) GetCheckout(ctx context.Context, checkoutID string) (*payments.CheckoutSession, error) {
	s, ok := f.sessions[checkoutID]
	if !ok {
		return nil, assert.AnError
	}
	return s, nil
}

type fakeCreators struct {
	rate  float64
	sales map[string]int
}

func (f *fakeCreators) GetBadgeProgress(ctx context.Context, creatorID string) (*dto.BadgeProgressResponse, error) {
	return nil, nil
}
func (f *fakeCreators) RecordSale(ctx context.Context, creatorID string) error {
	f.sales[creatorID]++
	return nil
}
func (f *fakeCreators) CommissionRateFor(ctx context.Context, creatorID string) (float64, error) {
	return f.rate, nil
}
func (f *fakeCreators) UpdateProfile(ctx context.Context, creatorID string, req dto.UpdateCreatorProfileRequest) (*models.CreatorProfile, error) {
	return nil, nil
}
func (f *fakeCreators) GetProfile(ctx context.Context, creatorID string) (*models.CreatorProfile, error) {
	return nil, nil
}

type checkoutFixture struct {
	svc           CheckoutService
	orders        *fakeOrderRepo
	processor     *fakeProcessor
	creators      *fakeCreators
	notifications *fakeNotifications
	gamification  *gamificationFixture
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	gfx := newGamificationFixture(t, false)
	gfx.ebooks.ebooks[1] = &models.Ebook{ID: 1, Title: "Joinery Basics", PriceCents: 1990, CreatorID: "creator-1"}
	gfx.ebooks.ebooks[2] = &models.Ebook{ID: 2, Title: "Free Sampler", PriceCents: 0}
	bundles := &fakeBundleResolver{bundles: map[int64]*models.Bundle{
		7: {ID: 7, Title: "Woodworking Kit", PriceCents: 4990},
	}}

	orders := &fakeOrderRepo{orders: map[string]*models.Order{}}
	processor := &fakeProcessor{sessions: map[string]*payments.CheckoutSession{}}
	creators := &fakeCreators{rate: 0.45, sales: map[string]int{}}
	notifications := &fakeNotifications{}

	svc := NewCheckoutService(
		orders, gfx.ebooks, bundles, processor, creators, gfx.svc, notifications, slog.Default())

	return &checkoutFixture{
		svc:           svc,
		orders:        orders,
		processor:     processor,
		creators:      creators,
		notifications: notifications,
		gamification:  gfx,
	}
}

func int64Ptr(v int64) *int64 { return &v }

func TestStartCheckout_RequiresExactlyOneTarget(t *testing.T) {
	fx := newCheckoutFixture(t)
	ctx := context.Background()

	_, err := fx.svc.StartCheckout(ctx, "u1", dto.StartCheckoutRequest{})
	assert.ErrorIs(t, err, ErrInvalidCheckout)

	_, err = fx.svc.StartCheckout(ctx, "u1", dto.StartCheckoutRequest{EbookID: int64Ptr(1), BundleID: int64Ptr(7)})
	assert.ErrorIs(t, err, ErrInvalidCheckout)
}

func TestStartCheckout_FreeEbookRejected(t *testing.T) {
	fx := newCheckoutFixture(t)
	_, err := fx.svc.StartCheckout(context.Background(), "u1", dto.StartCheckoutRequest{EbookID: int64Ptr(2)})
	assert.ErrorIs(t, err, ErrNothingToPay)
}

func TestStartCheckout_SnapshotsCommissionRate(t *testing.T) {
	fx := newCheckoutFixture(t)

	resp, err := fx.svc.StartCheckout(context.Background(), "u1", dto.StartCheckoutRequest{EbookID: int64Ptr(1)})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, resp.Status)
	assert.NotEmpty(t, resp.CheckoutURL)

	order := fx.orders.orders[resp.OrderID]
	require.NotNil(t, order)
	assert.Equal(t, 0.45, order.CommissionRate, "the rate at checkout time sticks to the order")
	assert.Equal(t, int64(1990), order.AmountCents)
	assert.Equal(t, "cs_"+order.ID, order.CheckoutID)

	// A later rank-up must not rewrite the stored rate
	fx.creators.rate = 0.40
	assert.Equal(t, 0.45, fx.orders.orders[resp.OrderID].CommissionRate)
}

func TestStartCheckout_ProcessorFailureFailsOrder(t *testing.T) {
	fx := newCheckoutFixture(t)
	fx.processor.fail = true

	_, err := fx.svc.StartCheckout(context.Background(), "u1", dto.StartCheckoutRequest{EbookID: int64Ptr(1)})
	require.Error(t, err)

	require.Len(t, fx.orders.orders, 1)
	for _, o := range fx.orders.orders {
		assert.Equal(t, models.OrderStatusFailed, o.Status)
	}
}

func TestGetOrder_PaidSettlesExactlyOnce(t *testing.T) {
	fx := newCheckoutFixture(t)
	ctx := context.Background()

	resp, err := fx.svc.StartCheckout(ctx, "u1", dto.StartCheckoutRequest{EbookID: int64Ptr(1)})
	require.NoError(t, err)

	fx.processor.sessions["cs_"+resp.OrderID].Status = payments.StatusPaid

	order, err := fx.svc.GetOrder(ctx, "u1", resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	require.NotNil(t, order.PaidAt)
	assert.Equal(t, 1, fx.creators.sales["creator-1"])
	assert.Equal(t, 1, fx.notifications.countByType(NotificationOrderPaid))

	// Polling again must not attribute the sale twice
	order, err = fx.svc.GetOrder(ctx, "u1", resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, 1, fx.creators.sales["creator-1"])
	assert.Equal(t, 1, fx.notifications.countByType(NotificationOrderPaid))
}

func TestGetOrder_BundleCountsPurchaseEvent(t *testing.T) {
	fx := newCheckoutFixture(t)
	ctx := context.Background()

	resp, err := fx.svc.StartCheckout(ctx, "u1", dto.StartCheckoutRequest{BundleID: int64Ptr(7)})
	require.NoError(t, err)

	fx.processor.sessions["cs_"+resp.OrderID].Status = payments.StatusPaid

	_, err = fx.svc.GetOrder(ctx, "u1", resp.OrderID)
	require.NoError(t, err)

	assert.Equal(t, 1, fx.gamification.stats.stats.BundlesPurchased)
	assert.True(t, fx.gamification.achievements.states["kit-collector"].Completed)
	assert.Empty(t, fx.creators.sales, "bundle sales don't feed creator badges")
}

func TestGetOrder_FailedTransition(t *testing.T) {
	fx := newCheckoutFixture(t)
	ctx := context.Background()

	resp, err := fx.svc.StartCheckout(ctx, "u1", dto.StartCheckoutRequest{EbookID: int64Ptr(1)})
	require.NoError(t, err)

	fx.processor.sessions["cs_"+resp.OrderID].Status = payments.StatusFailed

	order, err := fx.svc.GetOrder(ctx, "u1", resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusFailed, order.Status)
	assert.Empty(t, fx.creators.sales)
}

func TestGetOrder_OwnershipEnforced(t *testing.T) {
	fx := newCheckoutFixture(t)
	ctx := context.Background()

	resp, err := fx.svc.StartCheckout(ctx, "u1", dto.StartCheckoutRequest{EbookID: int64Ptr(1)})
	require.NoError(t, err)

	_, err = fx.svc.GetOrder(ctx, "someone-else", resp.OrderID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
