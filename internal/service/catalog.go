package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/boardy-hostel/boardy-api/internal/domain"
	"github.com/boardy-hostel/boardy-api/internal/repository"
)

const FeaturedGamesLimit = 4

var (
	ErrGameNotFound     = repository.ErrGameNotFound
	ErrGameNotAvailable = repository.ErrGameNotAvailable
	ErrGameInUse        = repository.ErrGameInUse
	ErrAlreadyWatching  = repository.ErrAlreadyWatching
	ErrGameRentable     = errors.New("game can already be rented")
)

type GameRepository interface {
	Create(ctx context.Context, game domain.Game) (domain.Game, error)
	FindByID(ctx context.Context, id uint) (domain.Game, error)
	List(ctx context.Context, f domain.GameFilter, page, limit int) (repository.GamePage, error)
	FindByStatus(ctx context.Context, status domain.GameStatus, limit int) ([]domain.Game, error)
	Update(ctx context.Context, game domain.Game) (domain.Game, error)
	SetStatus(ctx context.Context, id uint, status domain.GameStatus, from ...domain.GameStatus) (domain.Game, error)
	Delete(ctx context.Context, id uint) error
}

type WatchRepository interface {
	Watch(ctx context.Context, userID, gameID uint) (domain.GameWatch, error)
	PopWatches(ctx context.Context, gameID uint) ([]domain.GameWatch, error)
}

type CatalogService struct {
	repo     GameRepository
	watches  WatchRepository
	notifier Notifier
}

func NewCatalogService(repo GameRepository, watches WatchRepository, notifier Notifier) *CatalogService {
	return &CatalogService{
		repo:     repo,
		watches:  watches,
		notifier: notifier,
	}
}

func (s *CatalogService) ListGames(ctx context.Context, f domain.GameFilter, page, limit int) (repository.GamePage, error) {
	result, err := s.repo.List(ctx, f, page, limit)
	if err != nil {
		return repository.GamePage{}, fmt.Errorf("s.repo.List -> %w", err)
	}

	return result, nil
}

func (s *CatalogService) FeaturedGames(ctx context.Context) ([]domain.Game, error) {
	games, err := s.repo.FindByStatus(ctx, domain.GameAvailable, FeaturedGamesLimit)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByStatus -> %w", err)
	}

	return domain.FeaturedGames(games, FeaturedGamesLimit), nil
}

func (s *CatalogService) GetGame(ctx context.Context, id uint) (domain.Game, error) {
	game, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Game{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return game, nil
}

// WatchGame asks to be told when a game that cannot be rented right now comes back.
func (s *CatalogService) WatchGame(ctx context.Context, userID, gameID uint) (domain.GameWatch, error) {
	game, err := s.repo.FindByID(ctx, gameID)
	if err != nil {
		return domain.GameWatch{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if game.IsRentable() {
		return domain.GameWatch{}, ErrGameRentable
	}

	watch, err := s.watches.Watch(ctx, userID, gameID)
	if err != nil {
		return domain.GameWatch{}, fmt.Errorf("s.watches.Watch -> %w", err)
	}

	return watch, nil
}

func (s *CatalogService) CreateGame(ctx context.Context, game domain.Game) (domain.Game, error) {
	if game.Status == "" {
		game.Status = domain.GameAvailable
	}
	if err := game.Validate(); err != nil {
		return domain.Game{}, err
	}

	created, err := s.repo.Create(ctx, game)
	if err != nil {
		return domain.Game{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// UpdateGame replaces the editable fields. The status is kept unless the
// update carries one.
func (s *CatalogService) UpdateGame(ctx context.Context, game domain.Game) (domain.Game, error) {
	current, err := s.repo.FindByID(ctx, game.ID)
	if err != nil {
		return domain.Game{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if game.Status == "" {
		game.Status = current.Status
	}
	if err = game.Validate(); err != nil {
		return domain.Game{}, err
	}

	updated, err := s.repo.Update(ctx, game)
	if err != nil {
		return domain.Game{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	if !current.IsRentable() && updated.IsRentable() {
		notifyWatchers(ctx, s.watches, s.notifier, updated)
	}

	return updated, nil
}

func (s *CatalogService) SetGameStatus(ctx context.Context, id uint, status domain.GameStatus) (domain.Game, error) {
	if !status.Valid() {
		return domain.Game{}, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidGame, status)
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Game{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	updated, err := s.repo.SetStatus(ctx, id, status, current.Status)
	if err != nil {
		return domain.Game{}, fmt.Errorf("s.repo.SetStatus -> %w", err)
	}

	if !current.IsRentable() && updated.IsRentable() {
		notifyWatchers(ctx, s.watches, s.notifier, updated)
	}

	return updated, nil
}

func (s *CatalogService) DeleteGame(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// notifyWatchers tells everybody waiting on game that it can be rented
// again and clears their watches.
func notifyWatchers(ctx context.Context, watches WatchRepository, notifier Notifier, game domain.Game) {
	if watches == nil {
		return
	}

	popped, err := watches.PopWatches(ctx, game.ID)
	if err != nil {
		logErr("watches.PopWatches", err)
		return
	}

	notifications := make([]domain.Notification, 0, len(popped))
	for _, w := range popped {
		notifications = append(notifications, domain.Notification{
			UserID:   w.UserID,
			Title:    game.Name + " is available",
			Message:  fmt.Sprintf("%s is back on the shelf. Rent it before someone else does!", game.Name),
			LinkPath: fmt.Sprintf("/games/%d", game.ID),
		})
	}

	notify(ctx, notifier, notifications...)
}
