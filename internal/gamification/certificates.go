package gamification

import (
	"slices"
	"time"
)

// Certificate is a compound goal over a named set of e-book titles. Unlike a
// counted achievement, every listed title must be finished.
type Certificate struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	RequiredEbooks []string `json:"required_ebooks"`
}

// CertificateProgress tracks which required titles a user has finished.
// CompletedEbooks only grows and never holds duplicates or foreign titles.
type CertificateProgress struct {
	Certificate
	CompletedEbooks []string   `json:"completed_ebooks"`
	Completed       bool       `json:"completed"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// CertificateCatalog is the fixed certificate table keyed on e-book titles.
var CertificateCatalog = []Certificate{
	{
		ID:          "woodworking-fundamentals",
		Title:       "Woodworking Fundamentals",
		Description: "Complete the core woodworking trilogy",
		RequiredEbooks: []string{
			"Joinery Basics",
			"Hand Tools Essentials",
			"Wood Finishing",
		},
	},
	{
		ID:          "interior-design-path",
		Title:       "Interior Design Path",
		Description: "Complete the interior design track",
		RequiredEbooks: []string{
			"Color Theory at Home",
			"Small Spaces",
			"Lighting Design",
			"Materials and Textures",
		},
	},
	{
		ID:          "architecture-starter",
		Title:       "Architecture Starter",
		Description: "Complete the architecture starter pack",
		RequiredEbooks: []string{
			"Reading Floor Plans",
			"Residential Basics",
		},
	},
}

// AdvanceCertificateProgress records one finished e-book title against every
// certificate that requires it. The slice is updated in place; the returned
// list holds the certificates completed by this title, each exactly once.
//
// Titles outside every RequiredEbooks set are a no-op, and resubmitting a
// title already recorded changes nothing.
func AdvanceCertificateProgress(certs []CertificateProgress, completedEbookTitle string, now time.Time) []CertificateProgress {
	var earned []CertificateProgress
	for i := range certs {
		c := &certs[i]
		if c.Completed {
			continue
		}
		if !slices.Contains(c.RequiredEbooks, completedEbookTitle) {
			continue
		}
		if slices.Contains(c.CompletedEbooks, completedEbookTitle) {
			continue
		}
		c.CompletedEbooks = append(c.CompletedEbooks, completedEbookTitle)
		if len(c.CompletedEbooks) == len(c.RequiredEbooks) {
			c.Completed = true
			at := now
			c.CompletedAt = &at
			earned = append(earned, *c)
		}
	}
	return earned
}
