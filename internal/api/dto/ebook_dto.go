package dto

import "time"

type ListEbooksQuery struct {
	Category string `form:"category"`
	Premium  *bool  `form:"premium"`
	Free     bool   `form:"free"`
	Search   string `form:"search"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"page_size,default=20" binding:"min=1,max=100"`
}

type EbookResponse struct {
	ID            int64      `json:"id"`
	Slug          string     `json:"slug"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	Description   *string    `json:"description,omitempty"`
	Category      string     `json:"category"`
	PriceCents    int64      `json:"price_cents"`
	IsPremium     bool       `json:"is_premium"`
	IsFree        bool       `json:"is_free"`
	CoverURL      *string    `json:"cover_url,omitempty"`
	AverageRating *float64   `json:"average_rating,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

type PaginatedEbooksResponse struct {
	Items    []EbookResponse `json:"items"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

type PublishEbookRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Author      string  `json:"author" binding:"required,max=120"`
	Description *string `json:"description"`
	Category    string  `json:"category" binding:"required,oneof=architecture design woodworking"`
	PriceCents  int64   `json:"price_cents" binding:"min=0"`
	IsPremium   bool    `json:"is_premium"`
	CoverURL    *string `json:"cover_url"`
	FileKey     string  `json:"file_key" binding:"required"`
}

type UpdateEbookRequest struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	Description *string `json:"description"`
	Category    *string `json:"category" binding:"omitempty,oneof=architecture design woodworking"`
	PriceCents  *int64  `json:"price_cents" binding:"omitempty,min=0"`
	IsPremium   *bool   `json:"is_premium"`
	CoverURL    *string `json:"cover_url"`
}

type BundleResponse struct {
	ID          int64           `json:"id"`
	Slug        string          `json:"slug"`
	Title       string          `json:"title"`
	Description *string         `json:"description,omitempty"`
	PriceCents  int64           `json:"price_cents"`
	CoverURL    *string         `json:"cover_url,omitempty"`
	Ebooks      []EbookResponse `json:"ebooks,omitempty"`
}

type DownloadResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
