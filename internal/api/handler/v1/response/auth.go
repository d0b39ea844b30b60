package response

import (
	"time"

	"github.com/boardy-hostel/boardy-api/internal/domain"
)

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      domain.User `json:"user"`
}

type ProfileResponse struct {
	User  domain.User      `json:"user"`
	Stats domain.UserStats `json:"stats"`
}
