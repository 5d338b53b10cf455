package models

import "time"

// Certificate is a catalog row: a named set of e-book titles that must all
// be finished. The title set is stored as JSON, same shape the engine uses.
type Certificate struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"not null" json:"title"`
	Description    string    `json:"description"`
	RequiredEbooks []string  `gorm:"type:jsonb;serializer:json" json:"required_ebooks"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Certificate) TableName() string {
	return "certificates"
}

// UserCertificate tracks which required titles a user has finished.
// CompletedEbooks is a subset of the catalog row's RequiredEbooks and only grows.
type UserCertificate struct {
	UserID          string     `gorm:"type:uuid;not null;primaryKey" json:"user_id"`
	CertificateID   string     `gorm:"not null;primaryKey" json:"certificate_id"`
	CompletedEbooks []string   `gorm:"type:jsonb;serializer:json" json:"completed_ebooks"`
	Completed       bool       `gorm:"default:false" json:"completed"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	UpdatedAt       time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Associations
	User        *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Certificate *Certificate `gorm:"foreignKey:CertificateID" json:"certificate,omitempty"`
}

func (UserCertificate) TableName() string {
	return "user_certificates"
}
