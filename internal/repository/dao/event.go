package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrEventConflict        = errors.New("event changed concurrently")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrRegistrationConflict = errors.New("registration status changed concurrently")
	ErrAlreadyRegistered    = errors.New("user already registered for event")
)

type Event struct {
	ID              uint   `gorm:"primaryKey"`
	Title           string `gorm:"not null"`
	Description     string
	EventDate       time.Time `gorm:"not null;index"`
	StartTime       string    `gorm:"not null"`
	Theme           string
	MaxParticipants int      `gorm:"not null"`
	RegisteredCount int      `gorm:"not null;default:0"`
	FeeAmount       int      `gorm:"not null;default:0"`
	Status          string   `gorm:"not null;index"`
	GamesPlayed     []string `gorm:"serializer:json"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type EventRegistration struct {
	ID                uint   `gorm:"primaryKey"`
	EventID           uint   `gorm:"not null;index"`
	Event             Event  `gorm:"foreignKey:EventID"`
	UserID            uint   `gorm:"not null;index"`
	User              User   `gorm:"foreignKey:UserID"`
	Status            string `gorm:"not null"`
	PaymentReference  string
	PaymentStatus     string `gorm:"not null"`
	PaymentVerifiedAt *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// EventSnapshot is the part of an event a seat change is checked against.
type EventSnapshot struct {
	Status          string
	RegisteredCount int
}

func (e Event) Snapshot() EventSnapshot {
	return EventSnapshot{Status: e.Status, RegisteredCount: e.RegisteredCount}
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	if err := d.db.WithContext(ctx).Create(&event).Error; err != nil {
		return Event{}, err
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

// FindByStatus lists events by date. No statuses lists all of them.
func (d *EventDAO) FindByStatus(ctx context.Context, statuses ...string) ([]Event, error) {
	var events []Event

	query := d.db.WithContext(ctx).Order("event_date, id")
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

// Update writes event when the stored row still matches prev.
func (d *EventDAO) Update(ctx context.Context, event Event, prev EventSnapshot) error {
	return updateEvent(d.db.WithContext(ctx), event, prev)
}

func updateEvent(tx *gorm.DB, event Event, prev EventSnapshot) error {
	result := tx.Model(&Event{}).
		Where("id = ? AND status = ? AND registered_count = ?", event.ID, prev.Status, prev.RegisteredCount).
		Select("Title", "Description", "EventDate", "StartTime", "Theme", "MaxParticipants",
			"RegisteredCount", "FeeAmount", "Status", "GamesPlayed", "UpdatedAt").
		Updates(&Event{
			Title:           event.Title,
			Description:     event.Description,
			EventDate:       event.EventDate,
			StartTime:       event.StartTime,
			Theme:           event.Theme,
			MaxParticipants: event.MaxParticipants,
			RegisteredCount: event.RegisteredCount,
			FeeAmount:       event.FeeAmount,
			Status:          event.Status,
			GamesPlayed:     event.GamesPlayed,
			UpdatedAt:       time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := tx.Model(&Event{}).Where("id = ?", event.ID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrEventNotFound
	}
	return ErrEventConflict
}

// Register stores the event with its seat taken together with the new
// registration. A user holding a non-cancelled registration for the event
// gets ErrAlreadyRegistered.
func (d *EventDAO) Register(ctx context.Context, event Event, prev EventSnapshot, reg EventRegistration) (EventRegistration, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var active int64
		err := tx.Model(&EventRegistration{}).
			Where("event_id = ? AND user_id = ? AND status <> ?", reg.EventID, reg.UserID, "cancelled").
			Count(&active).Error
		if err != nil {
			return err
		}
		if active > 0 {
			return ErrAlreadyRegistered
		}

		if err = updateEvent(tx, event, prev); err != nil {
			return err
		}

		return tx.Omit("Event", "User").Create(&reg).Error
	})
	if err != nil {
		return EventRegistration{}, err
	}

	return reg, nil
}

func (d *EventDAO) FindRegistrationByID(ctx context.Context, id uint) (EventRegistration, error) {
	var reg EventRegistration

	result := d.db.WithContext(ctx).First(&reg, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return EventRegistration{}, ErrRegistrationNotFound
		}

		return EventRegistration{}, result.Error
	}

	return reg, nil
}

func (d *EventDAO) FindRegistrationsByUserID(ctx context.Context, userID uint) ([]EventRegistration, error) {
	var regs []EventRegistration

	err := d.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&regs).Error
	if err != nil {
		return nil, err
	}

	return regs, nil
}

// FindRegistrationsByStatus feeds the admin approval queue.
func (d *EventDAO) FindRegistrationsByStatus(ctx context.Context, status string) ([]EventRegistration, error) {
	var regs []EventRegistration

	query := d.db.WithContext(ctx).Order("created_at, id")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&regs).Error; err != nil {
		return nil, err
	}

	return regs, nil
}

// UpdateRegistration writes reg if its stored status is still from. When
// event is set the seat change is written in the same transaction.
func (d *EventDAO) UpdateRegistration(ctx context.Context, reg EventRegistration, from string, event *Event, prev EventSnapshot) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&EventRegistration{}).
			Where("id = ? AND status = ?", reg.ID, from).
			Select("Status", "PaymentReference", "PaymentStatus", "PaymentVerifiedAt", "UpdatedAt").
			Updates(&EventRegistration{
				Status:            reg.Status,
				PaymentReference:  reg.PaymentReference,
				PaymentStatus:     reg.PaymentStatus,
				PaymentVerifiedAt: reg.PaymentVerifiedAt,
				UpdatedAt:         time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRegistrationConflict
		}

		if event == nil {
			return nil
		}
		return updateEvent(tx, *event, prev)
	})
}
