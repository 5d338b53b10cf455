package repository

import (
	"context"
	"fmt"

	"clubedoebook/internal/api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatColumn names one durable activity counter. Increments address the
// column directly so concurrent events from several devices can't lose
// updates to a read-then-write race.
type StatColumn string

const (
	StatEbooksRead         StatColumn = "ebooks_read"
	StatCommentsPosted     StatColumn = "comments_posted"
	StatDaysActive         StatColumn = "days_active"
	StatStreakDays         StatColumn = "streak_days"
	StatLoginCount         StatColumn = "login_count"
	StatBundlesPurchased   StatColumn = "bundles_purchased"
	StatCertificatesEarned StatColumn = "certificates_earned"
)

type StatsRepository interface {
	Get(ctx context.Context, userID string) (*models.UserStats, error)
	Increment(ctx context.Context, userID string, col StatColumn, delta int) error
	SetStreak(ctx context.Context, userID string, days int) error
	ResetBrokenStreaks(ctx context.Context) (int64, error)
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

// Get loads the counter snapshot, materializing the zero-state row on first
// touch so callers always evaluate against a real row, never a guess.
func (r *statsRepository) Get(ctx context.Context, userID string) (*models.UserStats, error) {
	var stats models.UserStats
	if err := r.db.WithContext(ctx).
		Where(models.UserStats{UserID: userID}).
		FirstOrCreate(&stats).Error; err != nil {
		return nil, fmt.Errorf("get user stats: %w", err)
	}
	return &stats, nil
}

// Increment bumps one counter as a single server-side UPDATE.
func (r *statsRepository) Increment(ctx context.Context, userID string, col StatColumn, delta int) error {
	if err := r.ensureRow(ctx, userID); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).
		Model(&models.UserStats{}).
		Where("user_id = ?", userID).
		UpdateColumn(string(col), gorm.Expr(string(col)+" + ?", delta)).Error; err != nil {
		return fmt.Errorf("increment %s: %w", col, err)
	}
	return nil
}

// SetStreak overwrites streak_days; used by the daily rollover job.
func (r *statsRepository) SetStreak(ctx context.Context, userID string, days int) error {
	if err := r.ensureRow(ctx, userID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.UserStats{}).
		Where("user_id = ?", userID).
		UpdateColumn("streak_days", days).Error
}

// ResetBrokenStreaks zeroes streak_days for every user who has not logged in
// since yesterday. One statement, run once per day by the scheduler.
func (r *statsRepository) ResetBrokenStreaks(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE user_stats
		SET streak_days = 0
		FROM users
		WHERE user_stats.user_id = users.id
		  AND user_stats.streak_days > 0
		  AND (users.last_login IS NULL OR users.last_login::date < CURRENT_DATE - 1)`)
	if res.Error != nil {
		return 0, fmt.Errorf("reset broken streaks: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *statsRepository) ensureRow(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserStats{UserID: userID}).Error; err != nil {
		return fmt.Errorf("ensure stats row: %w", err)
	}
	return nil
}
