package models

import (
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type Ebook struct {
	ID            int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Slug          string     `json:"slug" gorm:"uniqueIndex;size:200"`
	Title         string     `json:"title" gorm:"not null"`
	Author        string     `json:"author" gorm:"not null"`
	Description   *string    `json:"description,omitempty"`
	Category      string     `json:"category" gorm:"index"` // architecture, design, woodworking
	PriceCents    int64      `json:"price_cents" gorm:"not null;default:0"`
	IsPremium     bool       `json:"is_premium" gorm:"default:false;index"` // gated behind the premium flag
	Published     bool       `json:"published" gorm:"default:true;index"`
	CreatorID     string     `json:"creator_id" gorm:"type:uuid;not null;index"`
	CoverURL      *string    `json:"cover_url,omitempty"`
	FileKey       string     `json:"-" gorm:"not null"` // object key in the download bucket
	AverageRating *float64   `json:"average_rating,omitempty" gorm:"type:decimal(3,2)"`
	CreatedAt     *time.Time `json:"created_at,omitempty" gorm:"autoCreateTime"`

	// association
	Creator *User `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
}

// BeforeCreate derives the URL slug from the title when none was given.
func (e *Ebook) BeforeCreate(tx *gorm.DB) (err error) {
	if e.Slug == "" {
		e.Slug = slug.Make(e.Title)
	}
	return
}

// IsFree reports whether the e-book can be downloaded without a purchase.
func (e *Ebook) IsFree() bool {
	return e.PriceCents == 0 && !e.IsPremium
}

func (Ebook) TableName() string {
	return "ebooks"
}
