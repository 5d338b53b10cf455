package repository

import (
	"context"
	"fmt"

	"clubedoebook/internal/api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementRepository interface {
	ListCatalog(ctx context.Context) ([]models.Achievement, error)
	ListStates(ctx context.Context, userID string) ([]models.UserAchievement, error)
	SaveState(ctx context.Context, state *models.UserAchievement) error
	CompleteAchievements(ctx context.Context, userID string, states []models.UserAchievement, points int) error
}

type achievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) ListCatalog(ctx context.Context) ([]models.Achievement, error) {
	var list []models.Achievement
	if err := r.db.WithContext(ctx).Order("category, requirement").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list achievement catalog: %w", err)
	}
	return list, nil
}

func (r *achievementRepository) ListStates(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	var list []models.UserAchievement
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list achievement states: %w", err)
	}
	return list, nil
}

func (r *achievementRepository) SaveState(ctx context.Context, state *models.UserAchievement) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
			UpdateAll: true,
		}).
		Create(state).Error; err != nil {
		return fmt.Errorf("save achievement state: %w", err)
	}
	return nil
}

// CompleteAchievements persists newly completed states and the matching point
// award in one transaction, so the reward is applied exactly once per
// threshold crossing even if the caller re-evaluates the same snapshot.
func (r *achievementRepository) CompleteAchievements(ctx context.Context, userID string, states []models.UserAchievement, points int) error {
	if len(states) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range states {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
				UpdateAll: true,
			}).Create(&states[i]).Error; err != nil {
				return err
			}
		}
		if points != 0 {
			if err := tx.Model(&models.UserStats{}).
				Where("user_id = ?", userID).
				UpdateColumn("total_points", gorm.Expr("total_points + ?", points)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("complete achievements: %w", err)
	}
	return nil
}
