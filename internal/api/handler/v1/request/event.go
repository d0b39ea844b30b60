package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/boardy-hostel/boardy-api/internal/domain"
)

const TimeLayout = "15:04"

type CreateEventRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	EventDate       string `json:"event_date" format:"YYYY-MM-DD"`
	StartTime       string `json:"start_time" format:"HH:MM"`
	Theme           string `json:"theme"`
	MaxParticipants int    `json:"max_participants"`
	FeeAmount       int    `json:"fee_amount"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.EventDate, validation.Required, validation.Date(DateLayout)),
		validation.Field(&req.StartTime, validation.Required, validation.Date(TimeLayout)),
		validation.Field(&req.Theme, validation.Length(0, 50)),
		validation.Field(&req.MaxParticipants, validation.Required, validation.Min(1)),
		validation.Field(&req.FeeAmount, validation.Min(0)),
	)
}

func (req *CreateEventRequest) ToDomain() domain.Event {
	date, _ := time.Parse(DateLayout, req.EventDate)
	return domain.Event{
		Title:           req.Title,
		Description:     req.Description,
		EventDate:       date,
		StartTime:       req.StartTime,
		Theme:           req.Theme,
		MaxParticipants: req.MaxParticipants,
		FeeAmount:       req.FeeAmount,
	}
}

type CompleteEventRequest struct {
	GamesPlayed []string `json:"games_played"`
}

func (req *CompleteEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.GamesPlayed, eachString(validation.Required)),
	)
}
