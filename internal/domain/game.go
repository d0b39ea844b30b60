package domain

import (
	"errors"
	"fmt"
	"time"
)

type GameCategory string

const (
	CategoryStrategy    GameCategory = "strategy"
	CategoryParty       GameCategory = "party"
	CategoryCooperative GameCategory = "cooperative"
	CategoryFamily      GameCategory = "family"
	CategoryCard        GameCategory = "card"
	CategoryDice        GameCategory = "dice"
)

var GameCategories = []GameCategory{
	CategoryStrategy,
	CategoryParty,
	CategoryCooperative,
	CategoryFamily,
	CategoryCard,
	CategoryDice,
}

func (c GameCategory) Valid() bool {
	for _, v := range GameCategories {
		if c == v {
			return true
		}
	}
	return false
}

type GameStatus string

const (
	GameAvailable         GameStatus = "available"
	GameBooked            GameStatus = "booked"
	GamePartiallyPlayable GameStatus = "partially_playable"
	GameUnavailable       GameStatus = "unavailable"
)

var GameStatuses = []GameStatus{
	GameAvailable,
	GameBooked,
	GamePartiallyPlayable,
	GameUnavailable,
}

func (s GameStatus) Valid() bool {
	for _, v := range GameStatuses {
		if s == v {
			return true
		}
	}
	return false
}

const (
	MinComplexity = 1
	MaxComplexity = 5
)

var (
	ErrInvalidGame = errors.New("invalid game")
)

type Game struct {
	ID              uint         `json:"id"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	Images          []string     `json:"images"`
	Category        GameCategory `json:"category"`
	MinPlayers      int          `json:"min_players"`
	MaxPlayers      int          `json:"max_players"`
	DurationMinutes int          `json:"duration_minutes"`
	Complexity      int          `json:"complexity"`
	RulesURL        string       `json:"rules_url,omitempty"`
	Components      []string     `json:"components"`
	Status          GameStatus   `json:"status"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// IsRentable reports whether a rental can be requested for the game.
// Partially playable games can still go out, just with missing pieces.
func (g Game) IsRentable() bool {
	return g.Status == GameAvailable || g.Status == GamePartiallyPlayable
}

func (g Game) Validate() error {
	switch {
	case g.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidGame)
	case !g.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", ErrInvalidGame, g.Category)
	case !g.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", ErrInvalidGame, g.Status)
	case g.MinPlayers < 1:
		return fmt.Errorf("%w: min players must be at least 1", ErrInvalidGame)
	case g.MinPlayers > g.MaxPlayers:
		return fmt.Errorf("%w: min players %d exceeds max players %d", ErrInvalidGame, g.MinPlayers, g.MaxPlayers)
	case g.DurationMinutes <= 0:
		return fmt.Errorf("%w: duration must be positive", ErrInvalidGame)
	case g.Complexity < MinComplexity || g.Complexity > MaxComplexity:
		return fmt.Errorf("%w: complexity %d outside [%d,%d]", ErrInvalidGame, g.Complexity, MinComplexity, MaxComplexity)
	}
	return nil
}

// FeaturedGames returns up to limit games that are available right now, in order.
func FeaturedGames(games []Game, limit int) []Game {
	featured := make([]Game, 0, limit)
	for _, g := range games {
		if len(featured) == limit {
			break
		}
		if g.Status == GameAvailable {
			featured = append(featured, g)
		}
	}
	return featured
}
