package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func catalog() []Game {
	return []Game{
		{ID: 1, Name: "Catan", Category: CategoryStrategy, MinPlayers: 3, MaxPlayers: 4, DurationMinutes: 90, Complexity: 2, Status: GameAvailable},
		{ID: 2, Name: "Codenames", Category: CategoryParty, MinPlayers: 4, MaxPlayers: 8, DurationMinutes: 15, Complexity: 1, Status: GameBooked},
		{ID: 3, Name: "Pandemic", Category: CategoryCooperative, MinPlayers: 2, MaxPlayers: 4, DurationMinutes: 45, Complexity: 3, Status: GamePartiallyPlayable},
		{ID: 4, Name: "Twilight Imperium", Category: CategoryStrategy, MinPlayers: 3, MaxPlayers: 6, DurationMinutes: 240, Complexity: 5, Status: GameAvailable},
		{ID: 5, Name: "7 Wonders Duel", Category: CategoryCard, MinPlayers: 2, MaxPlayers: 2, DurationMinutes: 30, Complexity: 2, Status: GameUnavailable},
	}
}

func ids(games []Game) []uint {
	out := make([]uint, 0, len(games))
	for _, g := range games {
		out = append(out, g.ID)
	}
	return out
}

func TestFilterGames(t *testing.T) {
	tests := []struct {
		name   string
		modify func(f *GameFilter)
		want   []uint
	}{
		{
			name:   "defaults drop only games longer than 180 minutes",
			modify: func(f *GameFilter) {},
			want:   []uint{1, 2, 3, 5},
		},
		{
			name:   "players 4 excludes games with fewer max players",
			modify: func(f *GameFilter) { f.Players = 4 },
			want:   []uint{1, 2, 3},
		},
		{
			name:   "complexity 0 keeps every complexity",
			modify: func(f *GameFilter) { f.Complexity = 0; f.Duration = 300 },
			want:   []uint{1, 2, 3, 4, 5},
		},
		{
			name:   "complexity caps the maximum",
			modify: func(f *GameFilter) { f.Complexity = 2 },
			want:   []uint{1, 2, 5},
		},
		{
			name:   "category",
			modify: func(f *GameFilter) { f.Category = string(CategoryStrategy); f.Duration = 300 },
			want:   []uint{1, 4},
		},
		{
			name:   "status",
			modify: func(f *GameFilter) { f.Status = string(GameAvailable) },
			want:   []uint{1},
		},
		{
			name:   "duration is inclusive",
			modify: func(f *GameFilter) { f.Duration = 45 },
			want:   []uint{2, 3, 5},
		},
		{
			name: "criteria combine",
			modify: func(f *GameFilter) {
				f.Category = string(CategoryCooperative)
				f.Players = 4
				f.Complexity = 3
				f.Status = string(GamePartiallyPlayable)
			},
			want: []uint{3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := DefaultGameFilter()
			tt.modify(&f)
			assert.Equal(t, tt.want, ids(FilterGames(catalog(), f)))
		})
	}
}

func TestFilterPlayersNeverLeaksSmallerGames(t *testing.T) {
	f := DefaultGameFilter()
	f.Players = 4
	for _, g := range FilterGames(catalog(), f) {
		assert.GreaterOrEqual(t, g.MaxPlayers, 4, g.Name)
	}
}

func TestGameFilterReset(t *testing.T) {
	f := GameFilter{Category: "party", Players: 6, Duration: 30, Complexity: 4, Status: "booked"}
	assert.True(t, f.HasFilters())

	f.Reset()

	assert.Equal(t, GameFilter{Category: "all", Players: 1, Duration: 180, Complexity: 0, Status: "all"}, f)
	assert.False(t, f.HasFilters())
}

func TestFeaturedGames(t *testing.T) {
	assert.Equal(t, []uint{1}, ids(FeaturedGames(catalog(), 1)))
	assert.Equal(t, []uint{1, 4}, ids(FeaturedGames(catalog(), 4)))
	assert.Empty(t, FeaturedGames(nil, 4))
}

func TestGameValidate(t *testing.T) {
	valid := catalog()[0]
	assert.NoError(t, valid.Validate())

	g := valid
	g.MinPlayers, g.MaxPlayers = 5, 2
	assert.ErrorIs(t, g.Validate(), ErrInvalidGame)

	g = valid
	g.Complexity = 6
	assert.ErrorIs(t, g.Validate(), ErrInvalidGame)

	g = valid
	g.DurationMinutes = 0
	assert.ErrorIs(t, g.Validate(), ErrInvalidGame)

	g = valid
	g.Category = "trivia"
	assert.ErrorIs(t, g.Validate(), ErrInvalidGame)
}

func TestGameIsRentable(t *testing.T) {
	assert.True(t, Game{Status: GameAvailable}.IsRentable())
	assert.True(t, Game{Status: GamePartiallyPlayable}.IsRentable())
	assert.False(t, Game{Status: GameBooked}.IsRentable())
	assert.False(t, Game{Status: GameUnavailable}.IsRentable())
}
