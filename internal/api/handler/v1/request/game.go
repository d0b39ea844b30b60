package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/boardy-hostel/boardy-api/internal/domain"
)

// GameListQuery is bound from the catalog query string. Missing criteria
// fall back to the filter defaults.
type GameListQuery struct {
	Category   string `form:"category"`
	Players    *int   `form:"players"`
	Duration   *int   `form:"duration"`
	Complexity *int   `form:"complexity"`
	Status     string `form:"status"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

func (q *GameListQuery) Validate() error {
	return validation.ValidateStruct(
		q,
		validation.Field(&q.Category, validation.In(categoryChoices()...)),
		validation.Field(&q.Players, validation.NilOrNotEmpty, validation.Min(1)),
		validation.Field(&q.Duration, validation.NilOrNotEmpty, validation.Min(1)),
		validation.Field(&q.Complexity, validation.Min(0), validation.Max(domain.MaxComplexity)),
		validation.Field(&q.Status, validation.In(statusChoices()...)),
		validation.Field(&q.Page, validation.Min(0)),
		validation.Field(&q.Limit, validation.Min(0)),
	)
}

func (q *GameListQuery) Filter() domain.GameFilter {
	f := domain.DefaultGameFilter()
	if q.Category != "" {
		f.Category = q.Category
	}
	if q.Players != nil {
		f.Players = *q.Players
	}
	if q.Duration != nil {
		f.Duration = *q.Duration
	}
	if q.Complexity != nil {
		f.Complexity = *q.Complexity
	}
	if q.Status != "" {
		f.Status = q.Status
	}
	return f
}

type GameRequest struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Images          []string `json:"images"`
	Category        string   `json:"category"`
	MinPlayers      int      `json:"min_players"`
	MaxPlayers      int      `json:"max_players"`
	DurationMinutes int      `json:"duration_minutes"`
	Complexity      int      `json:"complexity"`
	RulesURL        string   `json:"rules_url"`
	Components      []string `json:"components"`
	Status          string   `json:"status"`
}

func (req *GameRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.Images, eachString(is.URL)),
		validation.Field(&req.Category, validation.Required, validation.In(categoryChoices()[1:]...)),
		validation.Field(&req.MinPlayers, validation.Required, validation.Min(1)),
		validation.Field(&req.MaxPlayers, validation.Required, validation.Min(req.MinPlayers)),
		validation.Field(&req.DurationMinutes, validation.Required, validation.Min(1)),
		validation.Field(&req.Complexity, validation.Required, validation.Min(domain.MinComplexity), validation.Max(domain.MaxComplexity)),
		validation.Field(&req.RulesURL, is.URL),
		validation.Field(&req.Components, eachString(validation.Required)),
		validation.Field(&req.Status, validation.In(statusChoices()[1:]...)),
	)
}

func (req *GameRequest) ToDomain() domain.Game {
	return domain.Game{
		Name:            req.Name,
		Description:     req.Description,
		Images:          req.Images,
		Category:        domain.GameCategory(req.Category),
		MinPlayers:      req.MinPlayers,
		MaxPlayers:      req.MaxPlayers,
		DurationMinutes: req.DurationMinutes,
		Complexity:      req.Complexity,
		RulesURL:        req.RulesURL,
		Components:      req.Components,
		Status:          domain.GameStatus(req.Status),
	}
}

type GameStatusRequest struct {
	Status string `json:"status"`
}

func (req *GameStatusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required, validation.In(statusChoices()[1:]...)),
	)
}

// categoryChoices lists "all" followed by every category.
func categoryChoices() []any {
	choices := []any{domain.FilterAll}
	for _, c := range domain.GameCategories {
		choices = append(choices, string(c))
	}
	return choices
}

func statusChoices() []any {
	choices := []any{domain.FilterAll}
	for _, s := range domain.GameStatuses {
		choices = append(choices, string(s))
	}
	return choices
}

// eachString applies rules to every element of a []string field.
func eachString(rules ...validation.Rule) validation.Rule {
	return validation.By(func(value interface{}) error {
		items, _ := value.([]string)
		for _, item := range items {
			if err := validation.Validate(item, rules...); err != nil {
				return err
			}
		}
		return nil
	})
}
