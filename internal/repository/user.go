package repository

import (
	"context"
	"fmt"

	"github.com/boardy-hostel/boardy-api/internal/domain"
	"github.com/boardy-hostel/boardy-api/internal/repository/dao"
)

var (
	ErrUserEmailExists = dao.ErrUserEmailExists
	ErrUserNotFound    = dao.ErrUserNotFound
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	List(ctx context.Context, verified *bool) ([]dao.User, error)
	SetVerified(ctx context.Context, id uint, verified bool) (dao.User, error)
	Stats(ctx context.Context, userID uint) (dao.UserStats, error)
	PlayedWith(ctx context.Context, userID uint) ([]dao.PlayedWith, error)
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, dao.User{
		Email:      user.Email,
		Password:   user.Password,
		Name:       user.Name,
		Phone:      user.Phone,
		RoomNumber: user.RoomNumber,
		AvatarURL:  user.AvatarURL,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) List(ctx context.Context, verified *bool) ([]domain.User, error) {
	found, err := r.dao.List(ctx, verified)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	users := make([]domain.User, 0, len(found))
	for _, u := range found {
		users = append(users, r.daoToDomain(u))
	}

	return users, nil
}

func (r *UserRepository) SetVerified(ctx context.Context, id uint, verified bool) (domain.User, error) {
	updated, err := r.dao.SetVerified(ctx, id, verified)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.SetVerified -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *UserRepository) Stats(ctx context.Context, userID uint) (domain.UserStats, error) {
	s, err := r.dao.Stats(ctx, userID)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("r.dao.Stats -> %w", err)
	}

	return domain.UserStats{
		TotalRentals:     int(s.TotalRentals),
		CompletedRentals: int(s.CompletedRentals),
		ActiveRentals:    int(s.ActiveRentals),
		EventsRegistered: int(s.EventsRegistered),
		WarningsReceived: int(s.WarningsReceived),
		PeoplePlayedWith: int(s.PeoplePlayedWith),
	}, nil
}

func (r *UserRepository) PlayedWith(ctx context.Context, userID uint) ([]domain.PlayedWith, error) {
	found, err := r.dao.PlayedWith(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.PlayedWith -> %w", err)
	}

	people := make([]domain.PlayedWith, 0, len(found))
	for _, p := range found {
		people = append(people, domain.PlayedWith{
			User:        r.daoToDomain(p.User),
			EventsCount: int(p.EventsCount),
			LastPlayed:  p.LastPlayed,
		})
	}

	return people, nil
}

func (r *UserRepository) daoToDomain(u dao.User) domain.User {
	return domain.User{
		ID:         u.ID,
		Email:      u.Email,
		Password:   u.Password,
		Name:       u.Name,
		Phone:      u.Phone,
		RoomNumber: u.RoomNumber,
		AvatarURL:  u.AvatarURL,
		IsVerified: u.IsVerified,
		IsAdmin:    u.IsAdmin,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
