package models

import "time"

type UserFavorite struct {
	ID      int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID  string    `gorm:"type:uuid;not null;index:idx_user_ebook_fav,unique" json:"user_id"`
	EbookID int64     `gorm:"not null;index:idx_user_ebook_fav,unique" json:"ebook_id"`
	AddedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"added_at"`

	// Associations
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Ebook *Ebook `gorm:"foreignKey:EbookID" json:"ebook,omitempty"`
}

func (UserFavorite) TableName() string {
	return "user_favorites"
}
