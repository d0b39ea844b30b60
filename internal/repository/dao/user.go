package dao

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"
)

var (
	ErrUserEmailExists = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
)

type User struct {
	ID uint `gorm:"primaryKey"`

	Email    string `gorm:"unique;not null"`
	Password string `gorm:"not null"`

	Name       string `gorm:"not null"`
	Phone      string
	RoomNumber string
	AvatarURL  string
	IsVerified bool `gorm:"not null;default:false"`
	IsAdmin    bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// UserStats is the per-user activity summary shown on the profile page.
type UserStats struct {
	TotalRentals     int64
	CompletedRentals int64
	ActiveRentals    int64
	EventsRegistered int64
	WarningsReceived int64
	PeoplePlayedWith int64
}

type PlayedWith struct {
	User        User
	EventsCount int64
	LastPlayed  time.Time
}

// coAttendance is one event another user shares with the queried user.
type coAttendance struct {
	UserID    uint
	EventID   uint
	EventDate time.Time
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return User{}, ErrUserEmailExists
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

// List returns users ordered by id. Passing verified filters on the flag.
func (d *UserDAO) List(ctx context.Context, verified *bool) ([]User, error) {
	var users []User

	query := d.db.WithContext(ctx).Order("id")
	if verified != nil {
		query = query.Where("is_verified = ?", *verified)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (d *UserDAO) SetVerified(ctx context.Context, id uint, verified bool) (User, error) {
	result := d.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("is_verified", verified)
	if result.Error != nil {
		return User{}, result.Error
	}
	if result.RowsAffected == 0 {
		return User{}, ErrUserNotFound
	}

	return d.FindByID(ctx, id)
}

func (d *UserDAO) Stats(ctx context.Context, userID uint) (UserStats, error) {
	var stats UserStats
	db := d.db.WithContext(ctx)

	counts := []struct {
		dst   *int64
		model any
		where string
		args  []any
	}{
		{&stats.TotalRentals, &Rental{}, "user_id = ?", []any{userID}},
		{&stats.CompletedRentals, &Rental{}, "user_id = ? AND status = ?", []any{userID, "completed"}},
		{&stats.ActiveRentals, &Rental{}, "user_id = ? AND status IN ?", []any{userID, []string{"active", "return_requested"}}},
		{&stats.EventsRegistered, &EventRegistration{}, "user_id = ? AND status <> ?", []any{userID, "cancelled"}},
		{&stats.WarningsReceived, &Warning{}, "user_id = ?", []any{userID}},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Where(c.where, c.args...).Count(c.dst).Error; err != nil {
			return UserStats{}, err
		}
	}

	people, err := d.PlayedWith(ctx, userID)
	if err != nil {
		return UserStats{}, err
	}
	stats.PeoplePlayedWith = int64(len(people))

	return stats, nil
}

// PlayedWith lists everyone holding a registration for an event the user is
// also registered for, most recent shared event first. Cancelled
// registrations and cancelled events are left out.
func (d *UserDAO) PlayedWith(ctx context.Context, userID uint) ([]PlayedWith, error) {
	var rows []coAttendance

	err := d.db.WithContext(ctx).
		Table("event_registrations AS other").
		Select("other.user_id, other.event_id, events.event_date").
		Joins("JOIN event_registrations AS mine ON mine.event_id = other.event_id").
		Joins("JOIN events ON events.id = other.event_id").
		Where("mine.user_id = ? AND mine.status <> ?", userID, "cancelled").
		Where("other.user_id <> ? AND other.status <> ?", userID, "cancelled").
		Where("events.status <> ?", "cancelled").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []PlayedWith{}, nil
	}

	type shared struct {
		events map[uint]struct{}
		last   time.Time
	}
	byUser := make(map[uint]*shared)
	for _, r := range rows {
		s, ok := byUser[r.UserID]
		if !ok {
			s = &shared{events: make(map[uint]struct{})}
			byUser[r.UserID] = s
		}
		s.events[r.EventID] = struct{}{}
		if r.EventDate.After(s.last) {
			s.last = r.EventDate
		}
	}

	ids := make([]uint, 0, len(byUser))
	for id := range byUser {
		ids = append(ids, id)
	}
	var users []User
	if err = d.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}

	people := make([]PlayedWith, 0, len(users))
	for _, u := range users {
		s := byUser[u.ID]
		people = append(people, PlayedWith{User: u, EventsCount: int64(len(s.events)), LastPlayed: s.last})
	}
	sort.Slice(people, func(i, j int) bool {
		if !people[i].LastPlayed.Equal(people[j].LastPlayed) {
			return people[i].LastPlayed.After(people[j].LastPlayed)
		}
		return people[i].User.ID < people[j].User.ID
	})

	return people, nil
}
