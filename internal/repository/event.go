package repository

import (
	"context"
	"fmt"

	"github.com/boardy-hostel/boardy-api/internal/domain"
	"github.com/boardy-hostel/boardy-api/internal/repository/dao"
)

var (
	ErrEventNotFound        = dao.ErrEventNotFound
	ErrEventConflict        = dao.ErrEventConflict
	ErrRegistrationNotFound = dao.ErrRegistrationNotFound
	ErrRegistrationConflict = dao.ErrRegistrationConflict
	ErrAlreadyRegistered    = dao.ErrAlreadyRegistered
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id uint) (dao.Event, error)
	FindByStatus(ctx context.Context, statuses ...string) ([]dao.Event, error)
	Update(ctx context.Context, event dao.Event, prev dao.EventSnapshot) error
	Register(ctx context.Context, event dao.Event, prev dao.EventSnapshot, reg dao.EventRegistration) (dao.EventRegistration, error)
	FindRegistrationByID(ctx context.Context, id uint) (dao.EventRegistration, error)
	FindRegistrationsByUserID(ctx context.Context, userID uint) ([]dao.EventRegistration, error)
	FindRegistrationsByStatus(ctx context.Context, status string) ([]dao.EventRegistration, error)
	UpdateRegistration(ctx context.Context, reg dao.EventRegistration, from string, event *dao.Event, prev dao.EventSnapshot) error
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, eventDomainToDAO(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return eventDAOToDomain(created), nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return eventDAOToDomain(found), nil
}

func (r *EventRepository) FindByStatus(ctx context.Context, statuses ...domain.EventStatus) ([]domain.Event, error) {
	raw := make([]string, 0, len(statuses))
	for _, s := range statuses {
		raw = append(raw, string(s))
	}

	found, err := r.dao.FindByStatus(ctx, raw...)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByStatus -> %w", err)
	}

	events := make([]domain.Event, 0, len(found))
	for _, e := range found {
		events = append(events, eventDAOToDomain(e))
	}

	return events, nil
}

// Update writes event if the stored status and seat count still equal prev's.
func (r *EventRepository) Update(ctx context.Context, event, prev domain.Event) error {
	if err := r.dao.Update(ctx, eventDomainToDAO(event), snapshot(prev)); err != nil {
		return fmt.Errorf("r.dao.Update -> %w", err)
	}

	return nil
}

// Register saves the seat taken on event together with reg.
func (r *EventRepository) Register(ctx context.Context, event, prev domain.Event, reg domain.EventRegistration) (domain.EventRegistration, error) {
	created, err := r.dao.Register(ctx, eventDomainToDAO(event), snapshot(prev), registrationDomainToDAO(reg))
	if err != nil {
		return domain.EventRegistration{}, fmt.Errorf("r.dao.Register -> %w", err)
	}

	return registrationDAOToDomain(created), nil
}

func (r *EventRepository) FindRegistrationByID(ctx context.Context, id uint) (domain.EventRegistration, error) {
	found, err := r.dao.FindRegistrationByID(ctx, id)
	if err != nil {
		return domain.EventRegistration{}, fmt.Errorf("r.dao.FindRegistrationByID -> %w", err)
	}

	return registrationDAOToDomain(found), nil
}

func (r *EventRepository) FindRegistrationsByUserID(ctx context.Context, userID uint) ([]domain.EventRegistration, error) {
	found, err := r.dao.FindRegistrationsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindRegistrationsByUserID -> %w", err)
	}

	return registrationsDAOToDomain(found), nil
}

func (r *EventRepository) FindRegistrationsByStatus(ctx context.Context, status domain.RegistrationStatus) ([]domain.EventRegistration, error) {
	found, err := r.dao.FindRegistrationsByStatus(ctx, string(status))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindRegistrationsByStatus -> %w", err)
	}

	return registrationsDAOToDomain(found), nil
}

// UpdateRegistration writes reg if it is still in from. A non-nil event is
// written in the same transaction, guarded by prev.
func (r *EventRepository) UpdateRegistration(ctx context.Context, reg domain.EventRegistration, from domain.RegistrationStatus, event *domain.Event, prev domain.Event) error {
	var e *dao.Event
	if event != nil {
		converted := eventDomainToDAO(*event)
		e = &converted
	}

	if err := r.dao.UpdateRegistration(ctx, registrationDomainToDAO(reg), string(from), e, snapshot(prev)); err != nil {
		return fmt.Errorf("r.dao.UpdateRegistration -> %w", err)
	}

	return nil
}

func snapshot(e domain.Event) dao.EventSnapshot {
	return dao.EventSnapshot{Status: string(e.Status), RegisteredCount: e.RegisteredCount}
}

func eventDomainToDAO(e domain.Event) dao.Event {
	return dao.Event{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		EventDate:       e.EventDate,
		StartTime:       e.StartTime,
		Theme:           e.Theme,
		MaxParticipants: e.MaxParticipants,
		RegisteredCount: e.RegisteredCount,
		FeeAmount:       e.FeeAmount,
		Status:          string(e.Status),
		GamesPlayed:     e.GamesPlayed,
	}
}

func eventDAOToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		EventDate:       e.EventDate,
		StartTime:       e.StartTime,
		Theme:           e.Theme,
		MaxParticipants: e.MaxParticipants,
		RegisteredCount: e.RegisteredCount,
		FeeAmount:       e.FeeAmount,
		Status:          domain.EventStatus(e.Status),
		GamesPlayed:     e.GamesPlayed,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func registrationsDAOToDomain(found []dao.EventRegistration) []domain.EventRegistration {
	regs := make([]domain.EventRegistration, 0, len(found))
	for _, reg := range found {
		regs = append(regs, registrationDAOToDomain(reg))
	}
	return regs
}

func registrationDomainToDAO(r domain.EventRegistration) dao.EventRegistration {
	return dao.EventRegistration{
		ID:                r.ID,
		EventID:           r.EventID,
		UserID:            r.UserID,
		Status:            string(r.Status),
		PaymentReference:  r.PaymentReference,
		PaymentStatus:     string(r.PaymentStatus),
		PaymentVerifiedAt: r.PaymentVerifiedAt,
	}
}

func registrationDAOToDomain(r dao.EventRegistration) domain.EventRegistration {
	return domain.EventRegistration{
		ID:                r.ID,
		EventID:           r.EventID,
		UserID:            r.UserID,
		Status:            domain.RegistrationStatus(r.Status),
		PaymentReference:  r.PaymentReference,
		PaymentStatus:     domain.PaymentStatus(r.PaymentStatus),
		PaymentVerifiedAt: r.PaymentVerifiedAt,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}
