package repository

import (
	"context"
	"fmt"

	"github.com/boardy-hostel/boardy-api/internal/domain"
	"github.com/boardy-hostel/boardy-api/internal/repository/dao"
)

var (
	ErrNotificationNotFound = dao.ErrNotificationNotFound
	ErrAlreadyWatching      = dao.ErrAlreadyWatching
)

type NotificationDAO interface {
	InsertMany(ctx context.Context, notifications []dao.Notification) ([]dao.Notification, error)
	FindByUserID(ctx context.Context, userID uint, unreadOnly bool) ([]dao.Notification, error)
	MarkRead(ctx context.Context, userID, id uint) error
	InsertWatch(ctx context.Context, watch dao.GameWatch) (dao.GameWatch, error)
	PopWatches(ctx context.Context, gameID uint) ([]dao.GameWatch, error)
	InsertWarning(ctx context.Context, warning dao.Warning) (dao.Warning, error)
	FindWarningsByUserID(ctx context.Context, userID uint) ([]dao.Warning, error)
}

type NotificationRepository struct {
	dao NotificationDAO
}

func NewNotificationRepository(dao NotificationDAO) *NotificationRepository {
	return &NotificationRepository{
		dao: dao,
	}
}

func (r *NotificationRepository) CreateMany(ctx context.Context, notifications []domain.Notification) ([]domain.Notification, error) {
	rows := make([]dao.Notification, 0, len(notifications))
	for _, n := range notifications {
		rows = append(rows, dao.Notification{
			UserID:   n.UserID,
			Title:    n.Title,
			Message:  n.Message,
			IsRead:   n.IsRead,
			LinkPath: n.LinkPath,
		})
	}

	created, err := r.dao.InsertMany(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("r.dao.InsertMany -> %w", err)
	}

	return notificationsDAOToDomain(created), nil
}

func (r *NotificationRepository) FindByUserID(ctx context.Context, userID uint, unreadOnly bool) ([]domain.Notification, error) {
	found, err := r.dao.FindByUserID(ctx, userID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	return notificationsDAOToDomain(found), nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id uint) error {
	if err := r.dao.MarkRead(ctx, userID, id); err != nil {
		return fmt.Errorf("r.dao.MarkRead -> %w", err)
	}

	return nil
}

func (r *NotificationRepository) Watch(ctx context.Context, userID, gameID uint) (domain.GameWatch, error) {
	w, err := r.dao.InsertWatch(ctx, dao.GameWatch{UserID: userID, GameID: gameID})
	if err != nil {
		return domain.GameWatch{}, fmt.Errorf("r.dao.InsertWatch -> %w", err)
	}

	return domain.GameWatch{UserID: w.UserID, GameID: w.GameID, CreatedAt: w.CreatedAt}, nil
}

func (r *NotificationRepository) PopWatches(ctx context.Context, gameID uint) ([]domain.GameWatch, error) {
	found, err := r.dao.PopWatches(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.PopWatches -> %w", err)
	}

	watches := make([]domain.GameWatch, 0, len(found))
	for _, w := range found {
		watches = append(watches, domain.GameWatch{UserID: w.UserID, GameID: w.GameID, CreatedAt: w.CreatedAt})
	}

	return watches, nil
}

func (r *NotificationRepository) CreateWarning(ctx context.Context, warning domain.Warning) (domain.Warning, error) {
	created, err := r.dao.InsertWarning(ctx, dao.Warning{
		UserID:   warning.UserID,
		Reason:   warning.Reason,
		IssuedBy: warning.IssuedBy,
	})
	if err != nil {
		return domain.Warning{}, fmt.Errorf("r.dao.InsertWarning -> %w", err)
	}

	return warningDAOToDomain(created), nil
}

func (r *NotificationRepository) FindWarningsByUserID(ctx context.Context, userID uint) ([]domain.Warning, error) {
	found, err := r.dao.FindWarningsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindWarningsByUserID -> %w", err)
	}

	warnings := make([]domain.Warning, 0, len(found))
	for _, w := range found {
		warnings = append(warnings, warningDAOToDomain(w))
	}

	return warnings, nil
}

func warningDAOToDomain(w dao.Warning) domain.Warning {
	return domain.Warning{
		ID:        w.ID,
		UserID:    w.UserID,
		Reason:    w.Reason,
		IssuedBy:  w.IssuedBy,
		CreatedAt: w.CreatedAt,
	}
}

func notificationsDAOToDomain(found []dao.Notification) []domain.Notification {
	notifications := make([]domain.Notification, 0, len(found))
	for _, n := range found {
		notifications = append(notifications, domain.Notification{
			ID:        n.ID,
			UserID:    n.UserID,
			Title:     n.Title,
			Message:   n.Message,
			IsRead:    n.IsRead,
			LinkPath:  n.LinkPath,
			CreatedAt: n.CreatedAt,
		})
	}
	return notifications
}
