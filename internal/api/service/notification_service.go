package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"clubedoebook/internal/api/models"
	"clubedoebook/internal/api/repository"

	"github.com/redis/go-redis/v9"
)

const (
	NotificationAchievementUnlocked = "ACHIEVEMENT_UNLOCKED"
	NotificationTierUp              = "TIER_UP"
	NotificationCertificateEarned   = "CERTIFICATE_EARNED"
	NotificationOrderPaid           = "ORDER_PAID"
)

type NotificationService interface {
	Push(ctx context.Context, userID, ntype, title, message string) error
	GetUnread(ctx context.Context, userID string) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, userID string, notificationID int64) error
	MarkAllAsRead(ctx context.Context, userID string) error
}

type notificationService struct {
	repo   repository.NotificationRepository
	rdb    *redis.Client
	logger *slog.Logger
}

func NewNotificationService(repo repository.NotificationRepository, rdb *redis.Client, logger *slog.Logger) NotificationService {
	return &notificationService{repo: repo, rdb: rdb, logger: logger}
}

// Push persists a notification and fans it out to the UI toast channel.
// The redis publish is fire-and-forget: a dropped publish only delays the
// toast until the next unread fetch, so it is logged, not returned.
func (s *notificationService) Push(ctx context.Context, userID, ntype, title, message string) error {
	n := &models.Notification{
		UserID:  userID,
		Type:    ntype,
		Title:   title,
		Message: message,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	if s.rdb != nil {
		payload, err := json.Marshal(n)
		if err == nil {
			channel := fmt.Sprintf("notifications:user:%s", userID)
			if err := s.rdb.Publish(ctx, channel, payload).Err(); err != nil {
				s.logger.Warn("notification publish failed", "user_id", userID, "error", err)
			}
		}
	}
	return nil
}

func (s *notificationService) GetUnread(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.repo.GetUnreadByUser(ctx, userID)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID string, notificationID int64) error {
	// Verify notification belongs to user
	notifications, err := s.repo.GetUnreadByUser(ctx, userID)
	if err != nil {
		return err
	}

	found := false
	for _, n := range notifications {
		if n.ID == notificationID {
			found = true
			break
		}
	}

	if !found {
		return errors.New("notification not found or already read")
	}

	return s.repo.MarkAsRead(ctx, notificationID)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
