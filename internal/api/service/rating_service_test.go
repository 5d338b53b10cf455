package service

import (
	"context"
	"log/slog"
	"testing"

	"clubedoebook/internal/api/dto"
	"clubedoebook/internal/api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRatingEbookStore struct {
	*fakeEbookResolver
	averages map[int64]*float64
}

func (f *fakeRatingEbookStore) GetByID(ctx context.Context, id int64) (*models.Ebook, error) {
	e, ok := f.ebooks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (f *fakeRatingEbookStore) SetAverageRating(ctx context.Context, id int64, avg *float64) error {
	f.averages[id] = avg
	return nil
}

type fakeRatingRepo struct {
	ratings map[string]*models.Rating // userID keyed, single-ebook tests
}

func (f *fakeRatingRepo) key(userID string, ebookID int64) string {
	return userID
}

func (f *fakeRatingRepo) Create(ctx context.Context, rating *models.Rating) error {
	copied := *rating
	f.ratings[f.key(rating.UserID, rating.EbookID)] = &copied
	return nil
}

func (f *fakeRatingRepo) Update(ctx context.Context, rating *models.Rating) error {
	copied := *rating
	f.ratings[f.key(rating.UserID, rating.EbookID)] = &copied
	return nil
}

func (f *fakeRatingRepo) Delete(ctx context.Context, userID string, ebookID int64) error {
	delete(f.ratings, f.key(userID, ebookID))
	return nil
}

func (f *fakeRatingRepo) GetByUserAndEbook(ctx context.Context, userID string, ebookID int64) (*models.Rating, error) {
	r, ok := f.ratings[f.key(userID, ebookID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRatingRepo) GetByEbook(ctx context.Context, ebookID int64, page, pageSize int) ([]models.Rating, int64, error) {
	var out []models.Rating
	for _, r := range f.ratings {
		if r.EbookID == ebookID {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRatingRepo) AverageForEbook(ctx context.Context, ebookID int64) (float64, int64, error) {
	var sum, count int
	for _, r := range f.ratings {
		if r.EbookID == ebookID {
			sum += r.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), int64(count), nil
}

type ratingFixture struct {
	svc          RatingService
	ratings      *fakeRatingRepo
	ebooks       *fakeRatingEbookStore
	gamification *gamificationFixture
}

func newRatingFixture(t *testing.T) *ratingFixture {
	t.Helper()

	gfx := newGamificationFixture(t, false)
	gfx.ebooks.ebooks[1] = &models.Ebook{ID: 1, Title: "Joinery Basics"}

	ebooks := &fakeRatingEbookStore{fakeEbookResolver: gfx.ebooks, averages: map[int64]*float64{}}
	ratings := &fakeRatingRepo{ratings: map[string]*models.Rating{}}

	svc := NewRatingService(ratings, ebooks, gfx.svc, slog.Default())
	return &ratingFixture{svc: svc, ratings: ratings, ebooks: ebooks, gamification: gfx}
}

func TestSubmitRating_NewRatingCountsActivity(t *testing.T) {
	fx := newRatingFixture(t)

	resp, err := fx.svc.Submit(context.Background(), "u1", 1, dto.SubmitRatingRequest{Rating: 4, Review: "solid intro"})
	require.NoError(t, err)

	assert.Equal(t, 4, resp.Rating)
	assert.Equal(t, 1, fx.gamification.stats.stats.CommentsPosted)
	assert.True(t, fx.gamification.achievements.states["first-comment"].Completed)

	require.NotNil(t, fx.ebooks.averages[1])
	assert.Equal(t, 4.0, *fx.ebooks.averages[1])
}

func TestSubmitRating_EditDoesNotFarmPoints(t *testing.T) {
	fx := newRatingFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Submit(ctx, "u1", 1, dto.SubmitRatingRequest{Rating: 4})
	require.NoError(t, err)
	_, err = fx.svc.Submit(ctx, "u1", 1, dto.SubmitRatingRequest{Rating: 2, Review: "changed my mind"})
	require.NoError(t, err)

	assert.Equal(t, 1, fx.gamification.stats.stats.CommentsPosted, "an edit is not new activity")
	require.NotNil(t, fx.ebooks.averages[1])
	assert.Equal(t, 2.0, *fx.ebooks.averages[1])
}

func TestSubmitRating_UnknownEbook(t *testing.T) {
	fx := newRatingFixture(t)
	_, err := fx.svc.Submit(context.Background(), "u1", 99, dto.SubmitRatingRequest{Rating: 5})
	assert.ErrorIs(t, err, ErrEbookNotFound)
}

func TestDeleteRating_ClearsAverage(t *testing.T) {
	fx := newRatingFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Submit(ctx, "u1", 1, dto.SubmitRatingRequest{Rating: 5})
	require.NoError(t, err)
	require.NoError(t, fx.svc.Delete(ctx, "u1", 1))

	assert.Nil(t, fx.ebooks.averages[1], "no ratings left means no average")
	assert.ErrorIs(t, fx.svc.Delete(ctx, "u1", 1), ErrRatingNotFound)
}
