package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"clubedoebook/internal/api/models"
	"clubedoebook/internal/api/repository"
	"clubedoebook/internal/gamification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory fakes. The flows under test are stateful (counter bump, then an
// engine pass over the fresh snapshot), so stateful fakes read better than
// call-by-call mocks here.

type fakeUserRepo struct {
	users map[string]*models.User
}

func (f *fakeUserRepo) Create(user *models.User) error { f.users[user.ID] = user; return nil }
func (f *fakeUserRepo) FindByUsername(username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, ErrInvalidCredentials
}
func (f *fakeUserRepo) FindByID(id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
func (f *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	return nil, ErrInvalidCredentials
}
func (f *fakeUserRepo) UpdateLastLogin(id string, at time.Time) error {
	f.users[id].LastLogin = &at
	return nil
}
func (f *fakeUserRepo) SetPremium(id string, premium bool) error {
	f.users[id].IsPremium = premium
	return nil
}
func (f *fakeUserRepo) SetRole(id string, role string) error {
	f.users[id].Role = role
	return nil
}

type fakeStatsRepo struct {
	stats models.UserStats
}

func (f *fakeStatsRepo) Get(ctx context.Context, userID string) (*models.UserStats, error) {
	snapshot := f.stats
	return &snapshot, nil
}

func (f *fakeStatsRepo) Increment(ctx context.Context, userID string, col repository.StatColumn, delta int) error {
	switch col {
	case repository.StatEbooksRead:
		f.stats.EbooksRead += delta
	case repository.StatCommentsPosted:
		f.stats.CommentsPosted += delta
	case repository.StatDaysActive:
		f.stats.DaysActive += delta
	case repository.StatStreakDays:
		f.stats.StreakDays += delta
	case repository.StatLoginCount:
		f.stats.LoginCount += delta
	case repository.StatBundlesPurchased:
		f.stats.BundlesPurchased += delta
	case repository.StatCertificatesEarned:
		f.stats.CertificatesEarned += delta
	}
	return nil
}

func (f *fakeStatsRepo) SetStreak(ctx context.Context, userID string, days int) error {
	f.stats.StreakDays = days
	return nil
}

func (f *fakeStatsRepo) ResetBrokenStreaks(ctx context.Context) (int64, error) { return 0, nil }

type fakeAchievementRepo struct {
	states map[string]models.UserAchievement
	stats  *fakeStatsRepo
}

func (f *fakeAchievementRepo) ListCatalog(ctx context.Context) ([]models.Achievement, error) {
	catalog := make([]models.Achievement, 0, len(gamification.Catalog))
	for _, a := range gamification.Catalog {
		catalog = append(catalog, models.Achievement{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Category:    string(a.Category),
			Requirement: a.Requirement,
			Points:      a.Points,
			PremiumOnly: a.PremiumOnly,
		})
	}
	return catalog, nil
}

func (f *fakeAchievementRepo) ListStates(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	out := make([]models.UserAchievement, 0, len(f.states))
	for _, st := range f.states {
		out = append(out, st)
	}
	return out, nil
}

func (f *fakeAchievementRepo) SaveState(ctx context.Context, state *models.UserAchievement) error {
	f.states[state.AchievementID] = *state
	return nil
}

func (f *fakeAchievementRepo) CompleteAchievements(ctx context.Context, userID string, states []models.UserAchievement, points int) error {
	for _, st := range states {
		f.states[st.AchievementID] = st
	}
	f.stats.stats.TotalPoints += points
	return nil
}

type fakeCertificateRepo struct {
	states map[string]models.UserCertificate
}

func (f *fakeCertificateRepo) ListCatalog(ctx context.Context) ([]models.Certificate, error) {
	catalog := make([]models.Certificate, 0, len(gamification.CertificateCatalog))
	for _, c := range gamification.CertificateCatalog {
		catalog = append(catalog, models.Certificate{
			ID:             c.ID,
			Title:          c.Title,
			Description:    c.Description,
			RequiredEbooks: c.RequiredEbooks,
		})
	}
	return catalog, nil
}

func (f *fakeCertificateRepo) ListStates(ctx context.Context, userID string) ([]models.UserCertificate, error) {
	out := make([]models.UserCertificate, 0, len(f.states))
	for _, st := range f.states {
		out = append(out, st)
	}
	return out, nil
}

func (f *fakeCertificateRepo) SaveState(ctx context.Context, state *models.UserCertificate) error {
	f.states[state.CertificateID] = *state
	return nil
}

type fakeNotifications struct {
	pushed []models.Notification
}

func (f *fakeNotifications) Push(ctx context.Context, userID, ntype, title, message string) error {
	f.pushed = append(f.pushed, models.Notification{UserID: userID, Type: ntype, Title: title, Message: message})
	return nil
}
func (f *fakeNotifications) GetUnread(ctx context.Context, userID string) ([]models.Notification, error) {
	return f.pushed, nil
}
func (f *fakeNotifications) MarkAsRead(ctx context.Context, userID string, notificationID int64) error {
	return nil
}
func (f *fakeNotifications) MarkAllAsRead(ctx context.Context, userID string) error { return nil }

func (f *fakeNotifications) countByType(ntype string) int {
	n := 0
	for _, p := range f.pushed {
		if p.Type == ntype {
			n++
		}
	}
	return n
}

type fakeEbookResolver struct {
	ebooks map[int64]*models.Ebook
}

func (f *fakeEbookResolver) GetByID(ctx context.Context, id int64) (*models.Ebook, error) {
	e, ok := f.ebooks[id]
	if !ok {
		return nil, ErrEbookNotFound
	}
	return e, nil
}

type gamificationFixture struct {
	svc           GamificationService
	users         *fakeUserRepo
	stats         *fakeStatsRepo
	achievements  *fakeAchievementRepo
	certificates  *fakeCertificateRepo
	notifications *fakeNotifications
	ebooks        *fakeEbookResolver
}

func newGamificationFixture(t *testing.T, premium bool) *gamificationFixture {
	t.Helper()
	users := &fakeUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Username: "alice", IsPremium: premium},
	}}
	stats := &fakeStatsRepo{stats: models.UserStats{UserID: "u1"}}
	achievements := &fakeAchievementRepo{states: map[string]models.UserAchievement{}, stats: stats}
	certificates := &fakeCertificateRepo{states: map[string]models.UserCertificate{}}
	notifications := &fakeNotifications{}
	ebooks := &fakeEbookResolver{ebooks: map[int64]*models.Ebook{}}

	svc := NewGamificationService(users, stats, achievements, certificates, ebooks, notifications, slog.Default())
	return &gamificationFixture{
		svc:           svc,
		users:         users,
		stats:         stats,
		achievements:  achievements,
		certificates:  certificates,
		notifications: notifications,
		ebooks:        ebooks,
	}
}

func TestRecordActivity_UnknownEvent(t *testing.T) {
	fx := newGamificationFixture(t, false)
	err := fx.svc.RecordActivity(context.Background(), "u1", ActivityEvent("nonsense"))
	assert.ErrorIs(t, err, ErrUnknownEvent)
}

func TestRecordActivity_FirstCommentUnlocks(t *testing.T) {
	fx := newGamificationFixture(t, false)

	err := fx.svc.RecordActivity(context.Background(), "u1", EventCommentPosted)
	require.NoError(t, err)

	assert.Equal(t, 1, fx.stats.stats.CommentsPosted)
	st, ok := fx.achievements.states["first-comment"]
	require.True(t, ok)
	assert.True(t, st.Completed)
	require.NotNil(t, st.CompletedAt)
	assert.Equal(t, 5, fx.stats.stats.TotalPoints)
	assert.Equal(t, 1, fx.notifications.countByType(NotificationAchievementUnlocked))
}

func TestRecordActivity_RepeatEventDoesNotReUnlock(t *testing.T) {
	fx := newGamificationFixture(t, false)

	require.NoError(t, fx.svc.RecordActivity(context.Background(), "u1", EventCommentPosted))
	require.NoError(t, fx.svc.RecordActivity(context.Background(), "u1", EventCommentPosted))

	assert.Equal(t, 2, fx.stats.stats.CommentsPosted)
	assert.Equal(t, 5, fx.stats.stats.TotalPoints, "completion awards its points exactly once")
	assert.Equal(t, 1, fx.notifications.countByType(NotificationAchievementUnlocked))
}

func TestRecordActivity_PremiumGatedStaysLocked(t *testing.T) {
	fx := newGamificationFixture(t, false)
	fx.stats.stats.EbooksRead = 49

	require.NoError(t, fx.svc.RecordActivity(context.Background(), "u1", EventEbookDownloaded))

	assert.Equal(t, 50, fx.stats.stats.EbooksRead)
	st := fx.achievements.states["shelf-master"]
	assert.False(t, st.Completed, "premium-only achievement must not unlock for a free user")

	// bookworm (10) and first-read (1) were already eligible and complete now
	assert.True(t, fx.achievements.states["first-read"].Completed)
	assert.True(t, fx.achievements.states["bookworm"].Completed)
}

func TestRecordActivity_PremiumUserUnlocksGated(t *testing.T) {
	fx := newGamificationFixture(t, true)
	fx.stats.stats.EbooksRead = 49

	require.NoError(t, fx.svc.RecordActivity(context.Background(), "u1", EventEbookDownloaded))

	assert.True(t, fx.achievements.states["shelf-master"].Completed)
}

func TestRecordActivity_TierUpNotification(t *testing.T) {
	fx := newGamificationFixture(t, false)
	// 95 points banked; first-comment's 5 points push the total to 100, silver
	fx.stats.stats.TotalPoints = 95

	require.NoError(t, fx.svc.RecordActivity(context.Background(), "u1", EventCommentPosted))

	assert.Equal(t, 100, fx.stats.stats.TotalPoints)
	assert.Equal(t, 1, fx.notifications.countByType(NotificationTierUp))
}

func TestRecordLogin_FirstLoginStartsStreak(t *testing.T) {
	fx := newGamificationFixture(t, false)

	require.NoError(t, fx.svc.RecordLogin(context.Background(), "u1"))

	assert.Equal(t, 1, fx.stats.stats.LoginCount)
	assert.Equal(t, 1, fx.stats.stats.DaysActive)
	assert.Equal(t, 1, fx.stats.stats.StreakDays)
	require.NotNil(t, fx.users.users["u1"].LastLogin)
}

func TestRecordLogin_SameDayOnlyCountsLogin(t *testing.T) {
	fx := newGamificationFixture(t, false)

	require.NoError(t, fx.svc.RecordLogin(context.Background(), "u1"))
	require.NoError(t, fx.svc.RecordLogin(context.Background(), "u1"))

	assert.Equal(t, 2, fx.stats.stats.LoginCount)
	assert.Equal(t, 1, fx.stats.stats.DaysActive)
	assert.Equal(t, 1, fx.stats.stats.StreakDays)
}

func TestRecordLogin_ConsecutiveDayExtendsStreak(t *testing.T) {
	fx := newGamificationFixture(t, false)
	yesterday := time.Now().AddDate(0, 0, -1)
	fx.users.users["u1"].LastLogin = &yesterday
	fx.stats.stats = models.UserStats{UserID: "u1", LoginCount: 3, DaysActive: 3, StreakDays: 3}

	require.NoError(t, fx.svc.RecordLogin(context.Background(), "u1"))

	assert.Equal(t, 4, fx.stats.stats.LoginCount)
	assert.Equal(t, 4, fx.stats.stats.DaysActive)
	assert.Equal(t, 4, fx.stats.stats.StreakDays)
}

func TestRecordLogin_GapRestartsStreak(t *testing.T) {
	fx := newGamificationFixture(t, false)
	lastWeek := time.Now().AddDate(0, 0, -7)
	fx.users.users["u1"].LastLogin = &lastWeek
	fx.stats.stats = models.UserStats{UserID: "u1", LoginCount: 10, DaysActive: 10, StreakDays: 6}

	require.NoError(t, fx.svc.RecordLogin(context.Background(), "u1"))

	assert.Equal(t, 11, fx.stats.stats.LoginCount)
	assert.Equal(t, 11, fx.stats.stats.DaysActive)
	assert.Equal(t, 1, fx.stats.stats.StreakDays, "a missed day restarts the streak at 1")
}

func TestCompleteEbook_AdvancesCertificate(t *testing.T) {
	fx := newGamificationFixture(t, false)
	cert := gamification.CertificateCatalog[0]
	fx.ebooks.ebooks[1] = &models.Ebook{ID: 1, Title: cert.RequiredEbooks[0]}

	require.NoError(t, fx.svc.CompleteEbook(context.Background(), "u1", 1))

	st, ok := fx.certificates.states[cert.ID]
	require.True(t, ok)
	assert.Equal(t, []string{cert.RequiredEbooks[0]}, st.CompletedEbooks)
	assert.False(t, st.Completed)
	assert.Equal(t, 0, fx.stats.stats.CertificatesEarned)
}

func TestCompleteEbook_EarningCertificateCascades(t *testing.T) {
	fx := newGamificationFixture(t, false)
	cert := gamification.CertificateCatalog[0]
	for i, title := range cert.RequiredEbooks {
		fx.ebooks.ebooks[int64(i+1)] = &models.Ebook{ID: int64(i + 1), Title: title}
	}

	for i := range cert.RequiredEbooks {
		require.NoError(t, fx.svc.CompleteEbook(context.Background(), "u1", int64(i+1)))
	}

	st := fx.certificates.states[cert.ID]
	assert.True(t, st.Completed)
	require.NotNil(t, st.CompletedAt)

	// The earn cascades into the certificate counter and its achievement
	assert.Equal(t, 1, fx.stats.stats.CertificatesEarned)
	assert.True(t, fx.achievements.states["first-certificate"].Completed)
	assert.Equal(t, 1, fx.notifications.countByType(NotificationCertificateEarned))
}

func TestCompleteEbook_RepeatIsNoOp(t *testing.T) {
	fx := newGamificationFixture(t, false)
	cert := gamification.CertificateCatalog[0]
	fx.ebooks.ebooks[1] = &models.Ebook{ID: 1, Title: cert.RequiredEbooks[0]}

	require.NoError(t, fx.svc.CompleteEbook(context.Background(), "u1", 1))
	require.NoError(t, fx.svc.CompleteEbook(context.Background(), "u1", 1))

	st := fx.certificates.states[cert.ID]
	assert.Equal(t, []string{cert.RequiredEbooks[0]}, st.CompletedEbooks, "a re-read never double counts")
}

func TestGetProgress_DerivesTierFresh(t *testing.T) {
	fx := newGamificationFixture(t, false)
	fx.stats.stats.TotalPoints = 185

	resp, err := fx.svc.GetProgress(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, 185, resp.TotalPoints)
	assert.Equal(t, "silver", resp.CurrentTier.Level)
	assert.Equal(t, 10, resp.CurrentTier.Discount)
	require.NotNil(t, resp.NextTier)
	assert.Equal(t, "gold", resp.NextTier.Level)
	require.NotNil(t, resp.PointsToNextTier)
	assert.Equal(t, 115, *resp.PointsToNextTier)
	assert.Len(t, resp.PendingAchievements, len(gamification.Catalog))
	assert.Empty(t, resp.CompletedAchievements)
}

func TestGetCertificates_ReturnsWholeCatalog(t *testing.T) {
	fx := newGamificationFixture(t, false)

	certs, err := fx.svc.GetCertificates(context.Background(), "u1")
	require.NoError(t, err)

	assert.Len(t, certs, len(gamification.CertificateCatalog))
	for _, c := range certs {
		assert.False(t, c.Completed)
		assert.Empty(t, c.CompletedEbooks)
	}
}
