package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/boardy-hostel/boardy-api/internal/domain"
	"github.com/boardy-hostel/boardy-api/internal/repository"
)

var (
	ErrUserNotFound    = repository.ErrUserNotFound
	ErrUserNotVerified = errors.New("user is not verified")
)

type UserFinder interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	List(ctx context.Context, verified *bool) ([]domain.User, error)
	SetVerified(ctx context.Context, id uint, verified bool) (domain.User, error)
	Stats(ctx context.Context, userID uint) (domain.UserStats, error)
	PlayedWith(ctx context.Context, userID uint) ([]domain.PlayedWith, error)
}

type UserService struct {
	repo     UserRepository
	notifier Notifier
}

func NewUserService(repo UserRepository, notifier Notifier) *UserService {
	return &UserService{
		repo:     repo,
		notifier: notifier,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) GetStats(ctx context.Context, id uint) (domain.UserStats, error) {
	stats, err := s.repo.Stats(ctx, id)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("s.repo.Stats -> %w", err)
	}

	return stats, nil
}

// PeoplePlayedWith lists the residents who shared events with the user.
func (s *UserService) PeoplePlayedWith(ctx context.Context, id uint) ([]domain.PlayedWith, error) {
	people, err := s.repo.PlayedWith(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("s.repo.PlayedWith -> %w", err)
	}

	return people, nil
}

func (s *UserService) ListUsers(ctx context.Context, verified *bool) ([]domain.User, error) {
	users, err := s.repo.List(ctx, verified)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return users, nil
}

func (s *UserService) VerifyUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.SetVerified(ctx, id, true)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.SetVerified -> %w", err)
	}

	notify(ctx, s.notifier, domain.Notification{
		UserID:   user.ID,
		Title:    "Account verified",
		Message:  "You can now rent games and register for events.",
		LinkPath: "/games",
	})

	return user, nil
}

// requireVerified loads the user and fails with ErrUserNotVerified for
// accounts an admin has not verified yet.
func requireVerified(ctx context.Context, users UserFinder, id uint) (domain.User, error) {
	user, err := users.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("users.FindByID -> %w", err)
	}
	if !user.IsVerified {
		return domain.User{}, ErrUserNotVerified
	}

	return user, nil
}
