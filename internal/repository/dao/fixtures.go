package dao

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Seed fills an empty database with a demo catalog, residents and events.
// Every seeded user gets passwordHash. A database that already has games is
// left alone and Seed reports false.
func Seed(ctx context.Context, db *gorm.DB, passwordHash string, now time.Time) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&Game{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	day := 24 * time.Hour
	nextSaturday := now.Truncate(day)
	for nextSaturday.Weekday() != time.Saturday {
		nextSaturday = nextSaturday.Add(day)
	}

	users := []User{
		{Email: "admin@boardy.local", Name: "Hostel Admin", Phone: "9000000001", RoomNumber: "Office", IsVerified: true, IsAdmin: true},
		{Email: "aarav@boardy.local", Name: "Aarav Shah", Phone: "9000000002", RoomNumber: "A-101", IsVerified: true},
		{Email: "meera@boardy.local", Name: "Meera Iyer", Phone: "9000000003", RoomNumber: "B-204", IsVerified: true},
		{Email: "kabir@boardy.local", Name: "Kabir Rao", Phone: "9000000004", RoomNumber: "C-310"},
	}
	for i := range users {
		users[i].Password = passwordHash
	}

	games := []Game{
		{Name: "Catan", Description: "Trade, build and settle the island of Catan.", Category: "strategy", MinPlayers: 3, MaxPlayers: 4, DurationMinutes: 90, Complexity: 2, Status: "available",
			Components: []string{"19 terrain hexes", "95 resource cards", "25 development cards", "4 sets of player pieces", "2 dice"}},
		{Name: "Codenames", Description: "Give one-word clues to find your agents.", Category: "party", MinPlayers: 4, MaxPlayers: 8, DurationMinutes: 15, Complexity: 1, Status: "available",
			Components: []string{"200 codename cards", "40 key cards", "agent cards", "sand timer"}},
		{Name: "Pandemic", Description: "Work together to stop four diseases.", Category: "cooperative", MinPlayers: 2, MaxPlayers: 4, DurationMinutes: 45, Complexity: 3, Status: "partially_playable",
			Components: []string{"board", "7 role cards", "59 player cards", "96 disease cubes (4 missing)"}},
		{Name: "Ticket to Ride", Description: "Claim railway routes across the map.", Category: "family", MinPlayers: 2, MaxPlayers: 5, DurationMinutes: 60, Complexity: 2, Status: "available",
			Components: []string{"board", "240 train cars", "110 train cards", "30 destination tickets"}},
		{Name: "Exploding Kittens", Description: "Russian roulette with kittens.", Category: "card", MinPlayers: 2, MaxPlayers: 5, DurationMinutes: 15, Complexity: 1, Status: "booked",
			Components: []string{"56 cards"}},
		{Name: "King of Tokyo", Description: "Roll dice, smash monsters, rule Tokyo.", Category: "dice", MinPlayers: 2, MaxPlayers: 6, DurationMinutes: 30, Complexity: 1, Status: "available",
			Components: []string{"board", "8 dice", "66 cards", "6 monster boards"}},
		{Name: "Twilight Imperium", Description: "Galactic conquest for a whole weekend.", Category: "strategy", MinPlayers: 3, MaxPlayers: 6, DurationMinutes: 480, Complexity: 5, Status: "unavailable",
			Components: []string{"system tiles", "plastic ships", "cards", "tokens"}},
	}

	events := []Event{
		{Title: "Saturday Strategy Night", Description: "Catan and Ticket to Ride tables.", EventDate: nextSaturday, StartTime: "19:00", Theme: "Strategy",
			MaxParticipants: 16, FeeAmount: 50, Status: "open"},
		{Title: "Party Games Marathon", Description: "Codenames until midnight.", EventDate: nextSaturday.Add(7 * day), StartTime: "19:00", Theme: "Party",
			MaxParticipants: 12, FeeAmount: 0, Status: "draft"},
		{Title: "Co-op Showdown", Description: "Can the hostel save the world?", EventDate: nextSaturday.Add(-7 * day), StartTime: "19:00", Theme: "Cooperative",
			MaxParticipants: 8, RegisteredCount: 8, FeeAmount: 50, Status: "completed", GamesPlayed: []string{"Pandemic", "Codenames"}},
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&users).Error; err != nil {
			return fmt.Errorf("users -> %w", err)
		}
		if err := tx.Create(&games).Error; err != nil {
			return fmt.Errorf("games -> %w", err)
		}
		if err := tx.Create(&events).Error; err != nil {
			return fmt.Errorf("events -> %w", err)
		}

		verifiedAt := now.Add(-2 * day)
		rentals := []Rental{
			{UserID: users[1].ID, GameID: games[4].ID, StartDate: now.Add(-day), EndDate: now.Add(2 * day),
				Status: "active", PaymentReference: "UPI-SEED-001", PaymentStatus: "verified", PaymentVerifiedAt: &verifiedAt, FineStatus: "none", GameCondition: "available"},
			{UserID: users[2].ID, GameID: games[0].ID, StartDate: now.Add(day), EndDate: now.Add(3 * day),
				Status: "pending_approval", PaymentReference: "UPI-SEED-002", PaymentStatus: "pending", FineStatus: "none"},
		}
		if err := tx.Omit("User", "Game").Create(&rentals).Error; err != nil {
			return fmt.Errorf("rentals -> %w", err)
		}

		return nil
	})
	if err != nil {
		return false, err
	}

	return true, nil
}
