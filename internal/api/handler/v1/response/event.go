package response

import "github.com/boardy-hostel/boardy-api/internal/domain"

// EventView is an event as the listing shows it: status is the display status
// and spots_left is precomputed.
type EventView struct {
	domain.Event
	Status    domain.EventStatus `json:"status"`
	SpotsLeft int                `json:"spots_left"`
	IsFull    bool               `json:"is_full"`
}

func NewEventView(e domain.Event) EventView {
	return EventView{
		Event:     e,
		Status:    e.DisplayStatus(),
		SpotsLeft: max(e.SpotsLeft(), 0),
		IsFull:    e.IsFull(),
	}
}

type EventListResponse struct {
	Upcoming []EventView `json:"upcoming"`
	Past     []EventView `json:"past"`
}

func NewEventListResponse(events []domain.Event) EventListResponse {
	upcoming, past := domain.SplitEvents(events)
	resp := EventListResponse{
		Upcoming: make([]EventView, 0, len(upcoming)),
		Past:     make([]EventView, 0, len(past)),
	}
	for _, e := range upcoming {
		resp.Upcoming = append(resp.Upcoming, NewEventView(e))
	}
	for _, e := range past {
		resp.Past = append(resp.Past, NewEventView(e))
	}
	return resp
}
