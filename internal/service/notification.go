package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/boardy-hostel/boardy-api/internal/domain"
	"github.com/boardy-hostel/boardy-api/internal/repository"
)

var ErrNotificationNotFound = repository.ErrNotificationNotFound

// Notifier stores notifications for users and pushes them to connected clients.
type Notifier interface {
	Notify(ctx context.Context, notifications ...domain.Notification) error
}

// Pusher delivers a stored notification to the user's open connections.
type Pusher interface {
	Push(userID uint, notification domain.Notification)
}

type NotificationRepository interface {
	CreateMany(ctx context.Context, notifications []domain.Notification) ([]domain.Notification, error)
	FindByUserID(ctx context.Context, userID uint, unreadOnly bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userID, id uint) error
}

type NotificationService struct {
	repo   NotificationRepository
	pusher Pusher
}

func NewNotificationService(repo NotificationRepository, pusher Pusher) *NotificationService {
	return &NotificationService{
		repo:   repo,
		pusher: pusher,
	}
}

func (s *NotificationService) Notify(ctx context.Context, notifications ...domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	created, err := s.repo.CreateMany(ctx, notifications)
	if err != nil {
		return fmt.Errorf("s.repo.CreateMany -> %w", err)
	}

	if s.pusher != nil {
		for _, n := range created {
			s.pusher.Push(n.UserID, n)
		}
	}

	return nil
}

func (s *NotificationService) List(ctx context.Context, userID uint, unreadOnly bool) ([]domain.Notification, error) {
	notifications, err := s.repo.FindByUserID(ctx, userID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	return notifications, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint) error {
	if err := s.repo.MarkRead(ctx, userID, id); err != nil {
		return fmt.Errorf("s.repo.MarkRead -> %w", err)
	}

	return nil
}

// notify is used after a state change has already been committed, so a
// failure is logged rather than returned.
func notify(ctx context.Context, notifier Notifier, notifications ...domain.Notification) {
	if notifier == nil || len(notifications) == 0 {
		return
	}
	if err := notifier.Notify(ctx, notifications...); err != nil {
		zap.L().Error("failed to send notifications", zap.Int("count", len(notifications)), zap.Error(err))
	}
}

func logErr(op string, err error) {
	zap.L().Error("follow-up action failed", zap.String("op", op), zap.Error(err))
}
