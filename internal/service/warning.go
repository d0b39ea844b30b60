package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/boardy-hostel/boardy-api/internal/domain"
)

var ErrEmptyWarningReason = errors.New("warning reason is required")

type WarningRepository interface {
	CreateWarning(ctx context.Context, warning domain.Warning) (domain.Warning, error)
	FindWarningsByUserID(ctx context.Context, userID uint) ([]domain.Warning, error)
}

type WarningService struct {
	repo     WarningRepository
	users    UserFinder
	notifier Notifier
}

func NewWarningService(repo WarningRepository, users UserFinder, notifier Notifier) *WarningService {
	return &WarningService{
		repo:     repo,
		users:    users,
		notifier: notifier,
	}
}

func (s *WarningService) Issue(ctx context.Context, adminID, userID uint, reason string) (domain.Warning, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domain.Warning{}, ErrEmptyWarningReason
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return domain.Warning{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	warning, err := s.repo.CreateWarning(ctx, domain.Warning{
		UserID:   userID,
		Reason:   reason,
		IssuedBy: adminID,
	})
	if err != nil {
		return domain.Warning{}, fmt.Errorf("s.repo.CreateWarning -> %w", err)
	}

	notify(ctx, s.notifier, domain.Notification{
		UserID:   userID,
		Title:    "You received a warning",
		Message:  reason,
		LinkPath: "/profile",
	})

	return warning, nil
}

func (s *WarningService) ListForUser(ctx context.Context, userID uint) ([]domain.Warning, error) {
	warnings, err := s.repo.FindWarningsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindWarningsByUserID -> %w", err)
	}

	return warnings, nil
}
