package dto

import (
	"time"

	"clubedoebook/internal/api/models"
)

type SubmitRatingRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Review string `json:"review" binding:"max=4000"`
}

type RatingResponse struct {
	ID        int64     `json:"id"`
	EbookID   int64     `json:"ebook_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	Rating    int       `json:"rating"`
	Review    string    `json:"review,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromModelToRatingResponse(r *models.Rating) *RatingResponse {
	resp := &RatingResponse{
		ID:        r.ID,
		EbookID:   r.EbookID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Review:    r.Review,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.User.Username != "" {
		resp.Username = r.User.Username
	}
	return resp
}

type PaginatedRatingResponse struct {
	Items    []RatingResponse `json:"items"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

type RatingSummaryResponse struct {
	EbookID int64   `json:"ebook_id"`
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}
