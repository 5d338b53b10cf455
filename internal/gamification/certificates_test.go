package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCertificates() []CertificateProgress {
	return []CertificateProgress{
		{
			Certificate: Certificate{
				ID:             "abc",
				Title:          "ABC Track",
				RequiredEbooks: []string{"A", "B", "C"},
			},
		},
		{
			Certificate: Certificate{
				ID:             "solo",
				Title:          "Solo Track",
				RequiredEbooks: []string{"X"},
			},
		},
	}
}

func TestAdvanceCertificateDuplicatesAndCompletion(t *testing.T) {
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	certs := testCertificates()

	require.Empty(t, AdvanceCertificateProgress(certs, "A", now))
	require.Empty(t, AdvanceCertificateProgress(certs, "A", now), "duplicate submission is idempotent")
	require.Empty(t, AdvanceCertificateProgress(certs, "B", now))

	earned := AdvanceCertificateProgress(certs, "C", now)
	require.Len(t, earned, 1)
	assert.Equal(t, "abc", earned[0].ID)

	assert.ElementsMatch(t, []string{"A", "B", "C"}, certs[0].CompletedEbooks)
	assert.True(t, certs[0].Completed)
	require.NotNil(t, certs[0].CompletedAt)
	assert.Equal(t, now, *certs[0].CompletedAt)
}

func TestAdvanceCertificateAnyOrder(t *testing.T) {
	orders := [][]string{
		{"A", "B", "C"},
		{"C", "B", "A"},
		{"B", "C", "A"},
	}
	for _, order := range orders {
		certs := testCertificates()
		completions := 0
		for _, title := range order {
			completions += len(AdvanceCertificateProgress(certs, title, time.Now()))
		}
		assert.Equal(t, 1, completions, "order %v must complete exactly once", order)
		assert.True(t, certs[0].Completed)
	}
}

func TestAdvanceCertificateUnknownTitleNoop(t *testing.T) {
	certs := testCertificates()
	earned := AdvanceCertificateProgress(certs, "Not A Course Book", time.Now())
	assert.Empty(t, earned)
	assert.Empty(t, certs[0].CompletedEbooks)
	assert.Empty(t, certs[1].CompletedEbooks)
}

func TestAdvanceCertificateCompletedIsFrozen(t *testing.T) {
	now := time.Now()
	certs := testCertificates()
	earned := AdvanceCertificateProgress(certs, "X", now)
	require.Len(t, earned, 1)

	// resubmitting against a completed certificate changes nothing
	later := AdvanceCertificateProgress(certs, "X", now.Add(time.Hour))
	assert.Empty(t, later)
	assert.Equal(t, now, *certs[1].CompletedAt)
	assert.Equal(t, []string{"X"}, certs[1].CompletedEbooks)
}

func TestAdvanceCertificateSharedTitle(t *testing.T) {
	certs := []CertificateProgress{
		{Certificate: Certificate{ID: "one", RequiredEbooks: []string{"Shared", "Other"}}},
		{Certificate: Certificate{ID: "two", RequiredEbooks: []string{"Shared"}}},
	}
	earned := AdvanceCertificateProgress(certs, "Shared", time.Now())
	require.Len(t, earned, 1)
	assert.Equal(t, "two", earned[0].ID)
	assert.Equal(t, []string{"Shared"}, certs[0].CompletedEbooks)
	assert.False(t, certs[0].Completed)
}

func TestCertificateCatalogWellFormed(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range CertificateCatalog {
		assert.False(t, seen[c.ID], "duplicate certificate id %q", c.ID)
		seen[c.ID] = true
		assert.NotEmpty(t, c.RequiredEbooks, "certificate %q requires no e-books", c.ID)
		titles := make(map[string]bool)
		for _, title := range c.RequiredEbooks {
			assert.False(t, titles[title], "certificate %q lists %q twice", c.ID, title)
			titles[title] = true
		}
	}
}
