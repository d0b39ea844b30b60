package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/boardy-hostel/boardy-api/internal/domain"
	"github.com/boardy-hostel/boardy-api/internal/repository"
)

// maxSeatAttempts bounds how often a seat change is retried after losing a
// race with another registration for the same event.
const maxSeatAttempts = 5

var (
	ErrEventNotFound          = repository.ErrEventNotFound
	ErrEventConflict          = repository.ErrEventConflict
	ErrRegistrationNotFound   = repository.ErrRegistrationNotFound
	ErrRegistrationConflict   = repository.ErrRegistrationConflict
	ErrAlreadyRegistered      = repository.ErrAlreadyRegistered
	ErrNotRegistrationOwner   = errors.New("registration belongs to another user")
	ErrEventFull              = domain.ErrEventFull
	ErrEventNotOpen           = domain.ErrEventNotOpen
	ErrInvalidEventTransition = domain.ErrInvalidEventTransition
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	FindByStatus(ctx context.Context, statuses ...domain.EventStatus) ([]domain.Event, error)
	Update(ctx context.Context, event, prev domain.Event) error
	Register(ctx context.Context, event, prev domain.Event, reg domain.EventRegistration) (domain.EventRegistration, error)
	FindRegistrationByID(ctx context.Context, id uint) (domain.EventRegistration, error)
	FindRegistrationsByUserID(ctx context.Context, userID uint) ([]domain.EventRegistration, error)
	FindRegistrationsByStatus(ctx context.Context, status domain.RegistrationStatus) ([]domain.EventRegistration, error)
	UpdateRegistration(ctx context.Context, reg domain.EventRegistration, from domain.RegistrationStatus, event *domain.Event, prev domain.Event) error
}

type EventService struct {
	repo     EventRepository
	users    UserFinder
	notifier Notifier
	now      func() time.Time
}

func NewEventService(repo EventRepository, users UserFinder, notifier Notifier) *EventService {
	return &EventService{
		repo:     repo,
		users:    users,
		notifier: notifier,
		now:      time.Now,
	}
}

// ListEvents returns the events residents can see, split into upcoming and past.
func (s *EventService) ListEvents(ctx context.Context) (upcoming, past []domain.Event, err error) {
	events, err := s.repo.FindByStatus(ctx, domain.EventOpen, domain.EventFull, domain.EventCompleted, domain.EventCancelled)
	if err != nil {
		return nil, nil, fmt.Errorf("s.repo.FindByStatus -> %w", err)
	}

	upcoming, past = domain.SplitEvents(events)
	return upcoming, past, nil
}

func (s *EventService) ListAllEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.FindByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByStatus -> %w", err)
	}

	return events, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event, nil
}

// CreateEvent stores a new event as a draft with no seats taken.
func (s *EventService) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	event.Status = domain.EventDraft
	event.RegisteredCount = 0
	if err := event.Validate(); err != nil {
		return domain.Event{}, err
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EventService) PublishEvent(ctx context.Context, id uint) (domain.Event, error) {
	return s.changeEvent(ctx, id, (*domain.Event).Publish)
}

func (s *EventService) CloseEvent(ctx context.Context, id uint) (domain.Event, error) {
	return s.changeEvent(ctx, id, (*domain.Event).Close)
}

func (s *EventService) CompleteEvent(ctx context.Context, id uint, gamesPlayed []string) (domain.Event, error) {
	return s.changeEvent(ctx, id, func(e *domain.Event) error {
		if err := e.Complete(); err != nil {
			return err
		}
		if len(gamesPlayed) > 0 {
			e.GamesPlayed = gamesPlayed
		}
		return nil
	})
}

func (s *EventService) CancelEvent(ctx context.Context, id uint) (domain.Event, error) {
	return s.changeEvent(ctx, id, (*domain.Event).Cancel)
}

// Register takes a seat for the user. Free events confirm the registration
// straight away, paid ones wait for a payment reference.
func (s *EventService) Register(ctx context.Context, userID, eventID uint) (domain.EventRegistration, error) {
	if _, err := requireVerified(ctx, s.users, userID); err != nil {
		return domain.EventRegistration{}, err
	}

	var reg domain.EventRegistration
	err := s.retrySeat(ctx, func() error {
		event, err := s.repo.FindByID(ctx, eventID)
		if err != nil {
			return fmt.Errorf("s.repo.FindByID -> %w", err)
		}

		prev := event
		if err = event.TakeSeat(); err != nil {
			return err
		}

		reg, err = s.repo.Register(ctx, event, prev, domain.NewRegistration(event, userID, s.now()))
		if err != nil {
			return fmt.Errorf("s.repo.Register -> %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.EventRegistration{}, err
	}

	return reg, nil
}

func (s *EventService) ListUserRegistrations(ctx context.Context, userID uint) ([]domain.EventRegistration, error) {
	regs, err := s.repo.FindRegistrationsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindRegistrationsByUserID -> %w", err)
	}

	return regs, nil
}

func (s *EventService) ListRegistrations(ctx context.Context, status domain.RegistrationStatus) ([]domain.EventRegistration, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown registration status %q", domain.ErrInvalidEvent, status)
	}

	regs, err := s.repo.FindRegistrationsByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindRegistrationsByStatus -> %w", err)
	}

	return regs, nil
}

func (s *EventService) SubmitRegistrationPayment(ctx context.Context, userID, id uint, reference string) (domain.EventRegistration, error) {
	reg, err := s.findRegistration(ctx, id)
	if err != nil {
		return domain.EventRegistration{}, err
	}
	if reg.UserID != userID {
		return domain.EventRegistration{}, ErrNotRegistrationOwner
	}

	from := reg.Status
	if err = reg.SubmitPayment(reference); err != nil {
		return domain.EventRegistration{}, err
	}
	if err = s.repo.UpdateRegistration(ctx, reg, from, nil, domain.Event{}); err != nil {
		return domain.EventRegistration{}, fmt.Errorf("s.repo.UpdateRegistration -> %w", err)
	}

	return reg, nil
}

func (s *EventService) ApproveRegistration(ctx context.Context, id uint) (domain.EventRegistration, error) {
	reg, err := s.findRegistration(ctx, id)
	if err != nil {
		return domain.EventRegistration{}, err
	}

	from := reg.Status
	if err = reg.Approve(s.now()); err != nil {
		return domain.EventRegistration{}, err
	}
	if err = s.repo.UpdateRegistration(ctx, reg, from, nil, domain.Event{}); err != nil {
		return domain.EventRegistration{}, fmt.Errorf("s.repo.UpdateRegistration -> %w", err)
	}

	notify(ctx, s.notifier, domain.Notification{
		UserID:   reg.UserID,
		Title:    "Registration confirmed",
		Message:  "Your payment was verified. See you at the table!",
		LinkPath: eventPath(reg.EventID),
	})

	return reg, nil
}

// RejectRegistration cancels a registration whose payment could not be
// verified and gives its seat back.
func (s *EventService) RejectRegistration(ctx context.Context, id uint) (domain.EventRegistration, error) {
	reg, err := s.releaseRegistration(ctx, id, func(r *domain.EventRegistration) error {
		return r.Reject()
	})
	if err != nil {
		return domain.EventRegistration{}, err
	}

	notify(ctx, s.notifier, domain.Notification{
		UserID:   reg.UserID,
		Title:    "Registration rejected",
		Message:  "We could not verify your event payment. Your seat was released.",
		LinkPath: eventPath(reg.EventID),
	})

	return reg, nil
}

// CancelRegistration lets a resident drop out of an event, or an admin
// remove them.
func (s *EventService) CancelRegistration(ctx context.Context, user domain.User, id uint) (domain.EventRegistration, error) {
	return s.releaseRegistration(ctx, id, func(r *domain.EventRegistration) error {
		if r.UserID != user.ID && !user.IsAdmin {
			return ErrNotRegistrationOwner
		}
		return r.Cancel()
	})
}

func (s *EventService) releaseRegistration(ctx context.Context, id uint, apply func(*domain.EventRegistration) error) (domain.EventRegistration, error) {
	var reg domain.EventRegistration
	err := s.retrySeat(ctx, func() error {
		var err error
		reg, err = s.findRegistration(ctx, id)
		if err != nil {
			return err
		}

		from := reg.Status
		if err = apply(&reg); err != nil {
			return err
		}

		event, err := s.repo.FindByID(ctx, reg.EventID)
		if err != nil {
			return fmt.Errorf("s.repo.FindByID -> %w", err)
		}

		// Finished events keep their head count.
		var changed *domain.Event
		if !event.Status.IsTerminal() {
			released := event
			released.ReleaseSeat()
			changed = &released
		}

		if err = s.repo.UpdateRegistration(ctx, reg, from, changed, event); err != nil {
			return fmt.Errorf("s.repo.UpdateRegistration -> %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.EventRegistration{}, err
	}

	return reg, nil
}

func (s *EventService) changeEvent(ctx context.Context, id uint, apply func(*domain.Event) error) (domain.Event, error) {
	var event domain.Event
	err := s.retrySeat(ctx, func() error {
		var err error
		event, err = s.repo.FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("s.repo.FindByID -> %w", err)
		}

		prev := event
		if err = apply(&event); err != nil {
			return err
		}

		if err = s.repo.Update(ctx, event, prev); err != nil {
			return fmt.Errorf("s.repo.Update -> %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Event{}, err
	}

	return event, nil
}

// retrySeat runs fn again while it fails because the event row moved under it.
func (s *EventService) retrySeat(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxSeatAttempts; attempt++ {
		if err = fn(); !errors.Is(err, ErrEventConflict) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}

	return err
}

func (s *EventService) findRegistration(ctx context.Context, id uint) (domain.EventRegistration, error) {
	reg, err := s.repo.FindRegistrationByID(ctx, id)
	if err != nil {
		return domain.EventRegistration{}, fmt.Errorf("s.repo.FindRegistrationByID -> %w", err)
	}

	return reg, nil
}

func eventPath(id uint) string {
	return fmt.Sprintf("/events/%d", id)
}
