package repository

import (
	"context"
	"fmt"

	"github.com/boardy-hostel/boardy-api/internal/domain"
	"github.com/boardy-hostel/boardy-api/internal/repository/dao"
)

var (
	ErrGameNotFound     = dao.ErrGameNotFound
	ErrGameNotAvailable = dao.ErrGameNotAvailable
	ErrGameInUse        = dao.ErrGameInUse
)

type GameDAO interface {
	Insert(ctx context.Context, game dao.Game) (dao.Game, error)
	FindByID(ctx context.Context, id uint) (dao.Game, error)
	List(ctx context.Context, q dao.GameQuery, page dao.Page) ([]dao.Game, int64, dao.Page, error)
	FindByStatus(ctx context.Context, status string, limit int) ([]dao.Game, error)
	Update(ctx context.Context, game dao.Game) (dao.Game, error)
	SetStatus(ctx context.Context, id uint, status string, from ...string) (dao.Game, error)
	Delete(ctx context.Context, id uint) error
}

// GamePage is one page of the filtered catalog.
type GamePage struct {
	Games []domain.Game
	Total int64
	Page  int
	Limit int
}

type GameRepository struct {
	dao GameDAO
}

func NewGameRepository(dao GameDAO) *GameRepository {
	return &GameRepository{
		dao: dao,
	}
}

func (r *GameRepository) Create(ctx context.Context, game domain.Game) (domain.Game, error) {
	created, err := r.dao.Insert(ctx, gameDomainToDAO(game))
	if err != nil {
		return domain.Game{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return gameDAOToDomain(created), nil
}

func (r *GameRepository) FindByID(ctx context.Context, id uint) (domain.Game, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Game{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return gameDAOToDomain(found), nil
}

// List runs the catalog filter in the database.
func (r *GameRepository) List(ctx context.Context, f domain.GameFilter, page, limit int) (GamePage, error) {
	q := dao.GameQuery{
		MinPlayers:    f.Players,
		MaxDuration:   f.Duration,
		MaxComplexity: f.Complexity,
	}
	if f.Category != domain.FilterAll {
		q.Category = f.Category
	}
	if f.Status != domain.FilterAll {
		q.Status = f.Status
	}

	found, total, p, err := r.dao.List(ctx, q, dao.Page{Number: page, Size: limit})
	if err != nil {
		return GamePage{}, fmt.Errorf("r.dao.List -> %w", err)
	}

	games := make([]domain.Game, 0, len(found))
	for _, g := range found {
		games = append(games, gameDAOToDomain(g))
	}

	return GamePage{Games: games, Total: total, Page: p.Number, Limit: p.Size}, nil
}

func (r *GameRepository) FindByStatus(ctx context.Context, status domain.GameStatus, limit int) ([]domain.Game, error) {
	found, err := r.dao.FindByStatus(ctx, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByStatus -> %w", err)
	}

	games := make([]domain.Game, 0, len(found))
	for _, g := range found {
		games = append(games, gameDAOToDomain(g))
	}

	return games, nil
}

func (r *GameRepository) Update(ctx context.Context, game domain.Game) (domain.Game, error) {
	updated, err := r.dao.Update(ctx, gameDomainToDAO(game))
	if err != nil {
		return domain.Game{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return gameDAOToDomain(updated), nil
}

func (r *GameRepository) SetStatus(ctx context.Context, id uint, status domain.GameStatus, from ...domain.GameStatus) (domain.Game, error) {
	updated, err := r.dao.SetStatus(ctx, id, string(status), gameStatusStrings(from)...)
	if err != nil {
		return domain.Game{}, fmt.Errorf("r.dao.SetStatus -> %w", err)
	}

	return gameDAOToDomain(updated), nil
}

func (r *GameRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func gameStatusStrings(statuses []domain.GameStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

func gameDomainToDAO(g domain.Game) dao.Game {
	return dao.Game{
		ID:              g.ID,
		Name:            g.Name,
		Description:     g.Description,
		Images:          g.Images,
		Category:        string(g.Category),
		MinPlayers:      g.MinPlayers,
		MaxPlayers:      g.MaxPlayers,
		DurationMinutes: g.DurationMinutes,
		Complexity:      g.Complexity,
		RulesURL:        g.RulesURL,
		Components:      g.Components,
		Status:          string(g.Status),
	}
}

func gameDAOToDomain(g dao.Game) domain.Game {
	images := g.Images
	if images == nil {
		images = []string{}
	}
	components := g.Components
	if components == nil {
		components = []string{}
	}

	return domain.Game{
		ID:              g.ID,
		Name:            g.Name,
		Description:     g.Description,
		Images:          images,
		Category:        domain.GameCategory(g.Category),
		MinPlayers:      g.MinPlayers,
		MaxPlayers:      g.MaxPlayers,
		DurationMinutes: g.DurationMinutes,
		Complexity:      g.Complexity,
		RulesURL:        g.RulesURL,
		Components:      components,
		Status:          domain.GameStatus(g.Status),
		CreatedAt:       g.CreatedAt,
		UpdatedAt:       g.UpdatedAt,
	}
}
