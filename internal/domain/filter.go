package domain

// FilterAll matches any category or status.
const FilterAll = "all"

const (
	DefaultFilterPlayers    = 1
	DefaultFilterDuration   = 180
	DefaultFilterComplexity = 0
)

// GameFilter holds the catalog criteria. Every criterion is conjunctive.
// A Complexity of 0 means any complexity.
type GameFilter struct {
	Category   string `json:"category"`
	Players    int    `json:"players"`
	Duration   int    `json:"duration"`
	Complexity int    `json:"complexity"`
	Status     string `json:"status"`
}

func DefaultGameFilter() GameFilter {
	return GameFilter{
		Category:   FilterAll,
		Players:    DefaultFilterPlayers,
		Duration:   DefaultFilterDuration,
		Complexity: DefaultFilterComplexity,
		Status:     FilterAll,
	}
}

// Reset puts every criterion back to its default.
func (f *GameFilter) Reset() {
	*f = DefaultGameFilter()
}

// HasFilters reports whether any criterion narrows the catalog.
func (f GameFilter) HasFilters() bool {
	return f != DefaultGameFilter()
}

func (f GameFilter) Matches(g Game) bool {
	if f.Category != FilterAll && string(g.Category) != f.Category {
		return false
	}
	if g.MaxPlayers < f.Players {
		return false
	}
	if g.DurationMinutes > f.Duration {
		return false
	}
	if f.Complexity != 0 && g.Complexity > f.Complexity {
		return false
	}
	if f.Status != FilterAll && string(g.Status) != f.Status {
		return false
	}
	return true
}

func FilterGames(games []Game, f GameFilter) []Game {
	filtered := make([]Game, 0, len(games))
	for _, g := range games {
		if f.Matches(g) {
			filtered = append(filtered, g)
		}
	}
	return filtered
}
