package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"clubedoebook/internal/api/dto"
	"clubedoebook/internal/api/models"
	"clubedoebook/internal/api/repository"
	"clubedoebook/internal/gamification"
)

// ActivityEvent names one qualifying user action. Each event mutates exactly
// one durable counter; the mapping lives in eventColumns.
type ActivityEvent string

const (
	EventEbookDownloaded   ActivityEvent = "ebook_downloaded"
	EventCommentPosted     ActivityEvent = "comment_posted"
	EventBundlePurchased   ActivityEvent = "bundle_purchased"
	EventCertificateEarned ActivityEvent = "certificate_earned"
)

var eventColumns = map[ActivityEvent]repository.StatColumn{
	EventEbookDownloaded:   repository.StatEbooksRead,
	EventCommentPosted:     repository.StatCommentsPosted,
	EventBundlePurchased:   repository.StatBundlesPurchased,
	EventCertificateEarned: repository.StatCertificatesEarned,
}

var ErrUnknownEvent = errors.New("unknown activity event")

// ebookResolver is the slice of the ebook repository this service needs.
type ebookResolver interface {
	GetByID(ctx context.Context, id int64) (*models.Ebook, error)
}

type GamificationService interface {
	RecordActivity(ctx context.Context, userID string, event ActivityEvent) error
	RecordLogin(ctx context.Context, userID string) error
	CompleteEbook(ctx context.Context, userID string, ebookID int64) error
	GetProgress(ctx context.Context, userID string) (*dto.UserProgressResponse, error)
	GetCertificates(ctx context.Context, userID string) ([]dto.CertificateResponse, error)
}

type gamificationService struct {
	userRepo        repository.UserRepository
	statsRepo       repository.StatsRepository
	achievementRepo repository.AchievementRepository
	certificateRepo repository.CertificateRepository
	ebooks          ebookResolver
	notifications   NotificationService
	logger          *slog.Logger
}

func NewGamificationService(
	userRepo repository.UserRepository,
	statsRepo repository.StatsRepository,
	achievementRepo repository.AchievementRepository,
	certificateRepo repository.CertificateRepository,
	ebooks ebookResolver,
	notifications NotificationService,
	logger *slog.Logger,
) GamificationService {
	return &gamificationService{
		userRepo:        userRepo,
		statsRepo:       statsRepo,
		achievementRepo: achievementRepo,
		certificateRepo: certificateRepo,
		ebooks:          ebooks,
		notifications:   notifications,
		logger:          logger,
	}
}

// RecordActivity applies one activity event: a single atomic counter bump,
// then an engine pass over the fresh snapshot. Evaluation is a derivation,
// not a background job; it runs right after the mutation completes.
func (s *gamificationService) RecordActivity(ctx context.Context, userID string, event ActivityEvent) error {
	col, ok := eventColumns[event]
	if !ok {
		return ErrUnknownEvent
	}
	if err := s.statsRepo.Increment(ctx, userID, col, 1); err != nil {
		return err
	}
	return s.evaluate(ctx, userID)
}

// RecordLogin folds one login into the time counters: login_count always,
// days_active on the first login of a day, and the streak extends when the
// previous login was yesterday, restarts at 1 otherwise.
func (s *gamificationService) RecordLogin(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	now := time.Now()
	if err := s.statsRepo.Increment(ctx, userID, repository.StatLoginCount, 1); err != nil {
		return err
	}

	today := now.Truncate(24 * time.Hour)
	switch {
	case user.LastLogin == nil:
		if err := s.statsRepo.Increment(ctx, userID, repository.StatDaysActive, 1); err != nil {
			return err
		}
		if err := s.statsRepo.SetStreak(ctx, userID, 1); err != nil {
			return err
		}
	case user.LastLogin.Truncate(24 * time.Hour).Before(today):
		if err := s.statsRepo.Increment(ctx, userID, repository.StatDaysActive, 1); err != nil {
			return err
		}
		if user.LastLogin.Truncate(24 * time.Hour).Equal(today.AddDate(0, 0, -1)) {
			if err := s.statsRepo.Increment(ctx, userID, repository.StatStreakDays, 1); err != nil {
				return err
			}
		} else {
			if err := s.statsRepo.SetStreak(ctx, userID, 1); err != nil {
				return err
			}
		}
	}

	if err := s.userRepo.UpdateLastLogin(userID, now); err != nil {
		return err
	}
	return s.evaluate(ctx, userID)
}

// CompleteEbook records a finished e-book against every certificate that
// requires its title. Earned certificates bump certificates_earned, which
// cascades into a regular achievement evaluation.
func (s *gamificationService) CompleteEbook(ctx context.Context, userID string, ebookID int64) error {
	ebook, err := s.ebooks.GetByID(ctx, ebookID)
	if err != nil {
		return fmt.Errorf("load ebook: %w", err)
	}

	certs, err := s.loadCertificates(ctx, userID)
	if err != nil {
		return err
	}

	before := make(map[string]int, len(certs))
	for _, c := range certs {
		before[c.ID] = len(c.CompletedEbooks)
	}

	earned := gamification.AdvanceCertificateProgress(certs, ebook.Title, time.Now())

	for i := range certs {
		c := &certs[i]
		if len(c.CompletedEbooks) == before[c.ID] {
			continue
		}
		state := &models.UserCertificate{
			UserID:          userID,
			CertificateID:   c.ID,
			CompletedEbooks: c.CompletedEbooks,
			Completed:       c.Completed,
			CompletedAt:     c.CompletedAt,
		}
		if err := s.certificateRepo.SaveState(ctx, state); err != nil {
			return err
		}
	}

	for _, c := range earned {
		msg := fmt.Sprintf("You completed all %d e-books of %s", len(c.RequiredEbooks), c.Title)
		if err := s.notifications.Push(ctx, userID, NotificationCertificateEarned, "Certificate earned: "+c.Title, msg); err != nil {
			s.logger.Warn("certificate notification failed", "user_id", userID, "error", err)
		}
		if err := s.RecordActivity(ctx, userID, EventCertificateEarned); err != nil {
			return err
		}
	}
	return nil
}

// evaluate runs one engine pass over the current snapshot and persists the
// outcome. Re-running against an unchanged snapshot is a no-op, so no
// locking is needed around concurrent activity from the same user.
func (s *gamificationService) evaluate(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	stats, err := s.statsRepo.Get(ctx, userID)
	if err != nil {
		return err
	}

	pending, err := s.loadPending(ctx, userID)
	if err != nil {
		return err
	}

	progressBefore := make(map[string]int, len(pending))
	for _, p := range pending {
		progressBefore[p.ID] = p.CurrentProgress
	}

	now := time.Now()
	unlocks := gamification.EvaluateAchievements(pending, snapshotOf(stats), user.IsPremium, now)
	points := gamification.UnlockPoints(unlocks)

	var completedRows []models.UserAchievement
	for _, p := range pending {
		state := models.UserAchievement{
			UserID:          userID,
			AchievementID:   p.ID,
			CurrentProgress: p.CurrentProgress,
			Completed:       p.Completed,
			CompletedAt:     p.CompletedAt,
		}
		if p.Completed {
			completedRows = append(completedRows, state)
			continue
		}
		if p.CurrentProgress != progressBefore[p.ID] {
			st := state
			if err := s.achievementRepo.SaveState(ctx, &st); err != nil {
				return err
			}
		}
	}

	if err := s.achievementRepo.CompleteAchievements(ctx, userID, completedRows, points); err != nil {
		return err
	}

	for _, u := range unlocks {
		msg := fmt.Sprintf("%s (+%d points)", u.Description, u.Points)
		if err := s.notifications.Push(ctx, userID, NotificationAchievementUnlocked, "Achievement unlocked: "+u.Title, msg); err != nil {
			s.logger.Warn("unlock notification failed", "user_id", userID, "error", err)
		}
	}

	if points > 0 && gamification.TierChanged(stats.TotalPoints, stats.TotalPoints+points) {
		tier, _ := gamification.ResolveTier(stats.TotalPoints + points)
		msg := fmt.Sprintf("You reached the %s tier and now get %d%% off", tier.Level, tier.Discount)
		if err := s.notifications.Push(ctx, userID, NotificationTierUp, "Tier up!", msg); err != nil {
			s.logger.Warn("tier notification failed", "user_id", userID, "error", err)
		}
	}
	return nil
}

// GetProgress assembles the per-user progress view. Everything tier-related
// is recomputed from total_points on every read, never stored.
func (s *gamificationService) GetProgress(ctx context.Context, userID string) (*dto.UserProgressResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	stats, err := s.statsRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.achievementRepo.ListCatalog(ctx)
	if err != nil {
		return nil, err
	}
	states, err := s.achievementRepo.ListStates(ctx, userID)
	if err != nil {
		return nil, err
	}
	stateByID := make(map[string]models.UserAchievement, len(states))
	for _, st := range states {
		stateByID[st.AchievementID] = st
	}

	current, next := gamification.ResolveTier(stats.TotalPoints)
	resp := &dto.UserProgressResponse{
		TotalPoints: stats.TotalPoints,
		CurrentTier: dto.FromTier(current),
		IsPremium:   user.IsPremium,
		Stats:       snapshotOf(stats),
	}
	if next != nil {
		n := dto.FromTier(*next)
		resp.NextTier = &n
		remaining := next.MinPoints - stats.TotalPoints
		resp.PointsToNextTier = &remaining
	}

	for _, a := range catalog {
		entry := dto.AchievementResponse{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Category:    a.Category,
			Requirement: a.Requirement,
			Points:      a.Points,
			PremiumOnly: a.PremiumOnly,
		}
		if st, ok := stateByID[a.ID]; ok {
			entry.CurrentProgress = st.CurrentProgress
			entry.Completed = st.Completed
			entry.CompletedAt = st.CompletedAt
		}
		if entry.Completed {
			resp.CompletedAchievements = append(resp.CompletedAchievements, entry)
		} else {
			resp.PendingAchievements = append(resp.PendingAchievements, entry)
		}
	}
	return resp, nil
}

func (s *gamificationService) GetCertificates(ctx context.Context, userID string) ([]dto.CertificateResponse, error) {
	certs, err := s.loadCertificates(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CertificateResponse, 0, len(certs))
	for _, c := range certs {
		resp = append(resp, dto.CertificateResponse{
			ID:              c.ID,
			Title:           c.Title,
			Description:     c.Description,
			RequiredEbooks:  c.RequiredEbooks,
			CompletedEbooks: c.CompletedEbooks,
			Completed:       c.Completed,
			CompletedAt:     c.CompletedAt,
		})
	}
	return resp, nil
}

// loadPending joins the catalog with the user's state rows into the engine's
// input shape, completed entries excluded.
func (s *gamificationService) loadPending(ctx context.Context, userID string) ([]gamification.Progress, error) {
	catalog, err := s.achievementRepo.ListCatalog(ctx)
	if err != nil {
		return nil, err
	}
	states, err := s.achievementRepo.ListStates(ctx, userID)
	if err != nil {
		return nil, err
	}
	stateByID := make(map[string]models.UserAchievement, len(states))
	for _, st := range states {
		stateByID[st.AchievementID] = st
	}

	var pending []gamification.Progress
	for _, a := range catalog {
		st := stateByID[a.ID]
		if st.Completed {
			continue
		}
		pending = append(pending, gamification.Progress{
			Achievement: gamification.Achievement{
				ID:          a.ID,
				Title:       a.Title,
				Description: a.Description,
				Category:    gamification.Category(a.Category),
				Requirement: a.Requirement,
				Points:      a.Points,
				PremiumOnly: a.PremiumOnly,
			},
			CurrentProgress: st.CurrentProgress,
		})
	}
	return pending, nil
}

func (s *gamificationService) loadCertificates(ctx context.Context, userID string) ([]gamification.CertificateProgress, error) {
	catalog, err := s.certificateRepo.ListCatalog(ctx)
	if err != nil {
		return nil, err
	}
	states, err := s.certificateRepo.ListStates(ctx, userID)
	if err != nil {
		return nil, err
	}
	stateByID := make(map[string]models.UserCertificate, len(states))
	for _, st := range states {
		stateByID[st.CertificateID] = st
	}

	certs := make([]gamification.CertificateProgress, 0, len(catalog))
	for _, c := range catalog {
		st := stateByID[c.ID]
		certs = append(certs, gamification.CertificateProgress{
			Certificate: gamification.Certificate{
				ID:             c.ID,
				Title:          c.Title,
				Description:    c.Description,
				RequiredEbooks: c.RequiredEbooks,
			},
			CompletedEbooks: st.CompletedEbooks,
			Completed:       st.Completed,
			CompletedAt:     st.CompletedAt,
		})
	}
	return certs, nil
}

func snapshotOf(stats *models.UserStats) gamification.Stats {
	return gamification.Stats{
		EbooksRead:         stats.EbooksRead,
		CommentsPosted:     stats.CommentsPosted,
		DaysActive:         stats.DaysActive,
		StreakDays:         stats.StreakDays,
		LoginCount:         stats.LoginCount,
		BundlesPurchased:   stats.BundlesPurchased,
		CertificatesEarned: stats.CertificatesEarned,
	}
}
