package domain

import (
	"errors"
	"fmt"
	"time"
)

type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventOpen      EventStatus = "open"
	EventFull      EventStatus = "full"
	EventClosed    EventStatus = "closed"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

var eventTransitions = map[EventStatus][]EventStatus{
	EventDraft:  {EventOpen, EventCancelled},
	EventOpen:   {EventFull, EventClosed, EventCancelled},
	EventFull:   {EventOpen, EventClosed, EventCancelled},
	EventClosed: {EventCompleted, EventCancelled},
}

func (s EventStatus) Valid() bool {
	_, ok := eventTransitions[s]
	return ok || s.IsTerminal()
}

func (s EventStatus) IsTerminal() bool {
	return s == EventCompleted || s == EventCancelled
}

func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	for _, allowed := range eventTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s EventStatus) IsUpcoming() bool {
	return s == EventOpen || s == EventFull
}

func (s EventStatus) IsPast() bool {
	return s.IsTerminal()
}

var (
	ErrInvalidEvent           = errors.New("invalid event")
	ErrInvalidEventTransition = errors.New("invalid event status transition")
	ErrEventFull              = errors.New("event is full")
	ErrEventNotOpen           = errors.New("event is not open for registration")
)

type Event struct {
	ID              uint        `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description,omitempty"`
	EventDate       time.Time   `json:"event_date"`
	StartTime       string      `json:"start_time"`
	Theme           string      `json:"theme,omitempty"`
	MaxParticipants int         `json:"max_participants"`
	RegisteredCount int         `json:"registered_count"`
	FeeAmount       int         `json:"fee_amount"`
	Status          EventStatus `json:"status"`
	GamesPlayed     []string    `json:"games_played,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func (e Event) Validate() error {
	switch {
	case e.Title == "":
		return fmt.Errorf("%w: title is required", ErrInvalidEvent)
	case !e.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", ErrInvalidEvent, e.Status)
	case e.MaxParticipants <= 0:
		return fmt.Errorf("%w: max participants must be positive", ErrInvalidEvent)
	case e.RegisteredCount < 0 || e.RegisteredCount > e.MaxParticipants:
		return fmt.Errorf("%w: registered count %d outside [0,%d]", ErrInvalidEvent, e.RegisteredCount, e.MaxParticipants)
	case e.FeeAmount < 0:
		return fmt.Errorf("%w: negative fee", ErrInvalidEvent)
	}
	return nil
}

func (e Event) SpotsLeft() int {
	return e.MaxParticipants - e.RegisteredCount
}

// IsFull is what the listing shows as sold out.
func (e Event) IsFull() bool {
	return e.Status == EventFull || e.SpotsLeft() <= 0
}

// DisplayStatus reports full whenever every seat is taken, whatever is stored.
func (e Event) DisplayStatus() EventStatus {
	if e.RegisteredCount >= e.MaxParticipants {
		return EventFull
	}
	return e.Status
}

func (e *Event) transition(next EventStatus) error {
	if !e.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidEventTransition, e.Status, next)
	}
	e.Status = next
	return nil
}

// Publish opens a draft for registration. An event created already full goes
// straight to full.
func (e *Event) Publish() error {
	if err := e.transition(EventOpen); err != nil {
		return err
	}
	if e.RegisteredCount >= e.MaxParticipants {
		e.Status = EventFull
	}
	return nil
}

func (e *Event) Close() error {
	return e.transition(EventClosed)
}

func (e *Event) Complete() error {
	return e.transition(EventCompleted)
}

func (e *Event) Cancel() error {
	return e.transition(EventCancelled)
}

// TakeSeat reserves one seat, flipping open to full on the last one.
func (e *Event) TakeSeat() error {
	switch e.Status {
	case EventOpen:
	case EventFull:
		return ErrEventFull
	default:
		return fmt.Errorf("%w: status %s", ErrEventNotOpen, e.Status)
	}
	if e.RegisteredCount >= e.MaxParticipants {
		e.Status = EventFull
		return ErrEventFull
	}

	e.RegisteredCount++
	if e.RegisteredCount == e.MaxParticipants {
		e.Status = EventFull
	}
	return nil
}

// ReleaseSeat gives a seat back. A full event reopens.
func (e *Event) ReleaseSeat() {
	if e.RegisteredCount > 0 {
		e.RegisteredCount--
	}
	if e.Status == EventFull && e.RegisteredCount < e.MaxParticipants {
		e.Status = EventOpen
	}
}

func SplitEvents(events []Event) (upcoming, past []Event) {
	upcoming, past = []Event{}, []Event{}
	for _, e := range events {
		switch {
		case e.Status.IsUpcoming():
			upcoming = append(upcoming, e)
		case e.Status.IsPast():
			past = append(past, e)
		}
	}
	return upcoming, past
}
