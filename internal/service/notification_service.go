package service

import (
	"context"
	"fmt"
	"time"

	"boutique/internal/metrics"
	"boutique/internal/model"
	"boutique/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// notificationService implements NotificationService with persisted rows.
type notificationService struct {
	repo    repository.NotificationRepository
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(repo repository.NotificationRepository, m *metrics.Metrics, logger zerolog.Logger) NotificationService {
	return &notificationService{
		repo:    repo,
		metrics: m,
		logger:  logger.With().Str("service", "notification").Logger(),
	}
}

// Notify persists one notification per target user.
func (s *notificationService) Notify(ctx context.Context, userIDs []uuid.UUID, title, message string, htmlBody *string, typ model.NotificationType) error {
	if len(userIDs) == 0 {
		return nil
	}

	now := time.Now()
	notifications := make([]model.Notification, len(userIDs))
	for i, userID := range userIDs {
		notifications[i] = model.Notification{
			ID:        uuid.New(),
			UserID:    userID,
			Title:     title,
			Message:   message,
			HTMLBody:  htmlBody,
			Type:      typ,
			CreatedAt: now,
		}
	}

	if err := s.repo.CreateBatch(ctx, notifications); err != nil {
		s.metrics.NotificationsSent.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to send notifications: %w", err)
	}

	s.metrics.NotificationsSent.WithLabelValues("ok").Add(float64(len(notifications)))
	s.logger.Debug().
		Int("count", len(notifications)).
		Str("title", title).
		Msg("notifications sent")

	return nil
}

// ListForUser retrieves a user's notifications, newest first.
func (s *notificationService) ListForUser(ctx context.Context, userID uuid.UUID, page, limit int) (*model.NotificationList, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	items, total, err := s.repo.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return &model.NotificationList{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// MarkRead marks one notification of the user as read.
func (s *notificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, userID, id)
}

// MarkAllRead marks all of the user's notifications as read.
func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}
