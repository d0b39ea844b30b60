package domain

import "time"

type User struct {
	ID         uint      `json:"id"`
	Email      string    `json:"email"`
	Password   string    `json:"-"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	RoomNumber string    `json:"room_number"`
	AvatarURL  string    `json:"avatar_url,omitempty"`
	IsVerified bool      `json:"is_verified"`
	IsAdmin    bool      `json:"is_admin"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type UserStats struct {
	TotalRentals     int `json:"total_rentals"`
	CompletedRentals int `json:"completed_rentals"`
	ActiveRentals    int `json:"active_rentals"`
	EventsRegistered int `json:"events_registered"`
	WarningsReceived int `json:"warnings_received"`
	PeoplePlayedWith int `json:"people_played_with"`
}

// PlayedWith is a resident who attended the same events as someone else.
type PlayedWith struct {
	User        User      `json:"user"`
	EventsCount int       `json:"events_count"`
	LastPlayed  time.Time `json:"last_played"`
}

// Warning is an admin note against a resident, e.g. for a late return.
type Warning struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Reason    string    `json:"reason"`
	IssuedBy  uint      `json:"issued_by"`
	CreatedAt time.Time `json:"created_at"`
}
