package dto

import "time"

// StartCheckoutRequest targets exactly one of ebook_id / bundle_id.
type StartCheckoutRequest struct {
	EbookID  *int64 `json:"ebook_id"`
	BundleID *int64 `json:"bundle_id"`
}

type CheckoutResponse struct {
	OrderID     string `json:"order_id"`
	CheckoutURL string `json:"checkout_url"`
	Status      string `json:"status"`
}

type OrderResponse struct {
	ID          string     `json:"id"`
	EbookID     *int64     `json:"ebook_id,omitempty"`
	BundleID    *int64     `json:"bundle_id,omitempty"`
	AmountCents int64      `json:"amount_cents"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}
