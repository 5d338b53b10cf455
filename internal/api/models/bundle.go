package models

import (
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Bundle is a curated kit of e-books sold at a single price.
type Bundle struct {
	ID          int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Slug        string     `json:"slug" gorm:"uniqueIndex;size:200"`
	Title       string     `json:"title" gorm:"not null"`
	Description *string    `json:"description,omitempty"`
	PriceCents  int64      `json:"price_cents" gorm:"not null"`
	CoverURL    *string    `json:"cover_url,omitempty"`
	Published   bool       `json:"published" gorm:"default:true;index"`
	CreatedAt   *time.Time `json:"created_at,omitempty" gorm:"autoCreateTime"`

	// association
	Ebooks []Ebook `json:"ebooks,omitempty" gorm:"many2many:bundle_ebooks;constraint:OnDelete:CASCADE;"`
}

func (b *Bundle) BeforeCreate(tx *gorm.DB) (err error) {
	if b.Slug == "" {
		b.Slug = slug.Make(b.Title)
	}
	return
}

func (Bundle) TableName() string {
	return "bundles"
}
