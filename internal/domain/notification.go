package domain

import "time"

type Notification struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	LinkPath  string    `json:"link_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// GameWatch subscribes a user to the next time a game frees up.
type GameWatch struct {
	UserID    uint      `json:"user_id"`
	GameID    uint      `json:"game_id"`
	CreatedAt time.Time `json:"created_at"`
}
