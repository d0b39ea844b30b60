package repository

import (
	"context"
	"fmt"

	"github.com/boardy-hostel/boardy-api/internal/domain"
	"github.com/boardy-hostel/boardy-api/internal/repository/dao"
)

var (
	ErrRentalNotFound       = dao.ErrRentalNotFound
	ErrRentalStatusConflict = dao.ErrRentalStatusConflict
)

type RentalDAO interface {
	Insert(ctx context.Context, rental dao.Rental) (dao.Rental, error)
	FindByID(ctx context.Context, id uint) (dao.Rental, error)
	FindByUserID(ctx context.Context, userID uint) ([]dao.Rental, error)
	FindByStatus(ctx context.Context, status string) ([]dao.Rental, error)
	Transition(ctx context.Context, rental dao.Rental, from string, game *dao.GameStatusChange) error
	UpdateFine(ctx context.Context, rental dao.Rental, fromFineStatus string) error
}

// GameChange moves the rented game along with a rental transition.
type GameChange struct {
	To   domain.GameStatus
	From []domain.GameStatus
}

type RentalRepository struct {
	dao RentalDAO
}

func NewRentalRepository(dao RentalDAO) *RentalRepository {
	return &RentalRepository{
		dao: dao,
	}
}

func (r *RentalRepository) Create(ctx context.Context, rental domain.Rental) (domain.Rental, error) {
	created, err := r.dao.Insert(ctx, rentalDomainToDAO(rental))
	if err != nil {
		return domain.Rental{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return rentalDAOToDomain(created), nil
}

func (r *RentalRepository) FindByID(ctx context.Context, id uint) (domain.Rental, domain.Game, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Rental{}, domain.Game{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return rentalDAOToDomain(found), gameDAOToDomain(found.Game), nil
}

func (r *RentalRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Rental, error) {
	found, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	return rentalsDAOToDomain(found), nil
}

func (r *RentalRepository) FindByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error) {
	found, err := r.dao.FindByStatus(ctx, string(status))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByStatus -> %w", err)
	}

	return rentalsDAOToDomain(found), nil
}

// UpdateStatus persists rental provided nobody moved it off from meanwhile.
func (r *RentalRepository) UpdateStatus(ctx context.Context, rental domain.Rental, from domain.RentalStatus, game *GameChange) error {
	var change *dao.GameStatusChange
	if game != nil {
		change = &dao.GameStatusChange{
			To:   string(game.To),
			From: gameStatusStrings(game.From),
		}
	}

	if err := r.dao.Transition(ctx, rentalDomainToDAO(rental), string(from), change); err != nil {
		return fmt.Errorf("r.dao.Transition -> %w", err)
	}

	return nil
}

func (r *RentalRepository) UpdateFine(ctx context.Context, rental domain.Rental, from domain.FineStatus) error {
	if err := r.dao.UpdateFine(ctx, rentalDomainToDAO(rental), string(from)); err != nil {
		return fmt.Errorf("r.dao.UpdateFine -> %w", err)
	}

	return nil
}

func rentalsDAOToDomain(found []dao.Rental) []domain.Rental {
	rentals := make([]domain.Rental, 0, len(found))
	for _, r := range found {
		rentals = append(rentals, rentalDAOToDomain(r))
	}
	return rentals
}

func rentalDomainToDAO(r domain.Rental) dao.Rental {
	return dao.Rental{
		ID:                r.ID,
		UserID:            r.UserID,
		GameID:            r.GameID,
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
		Status:            string(r.Status),
		PaymentReference:  r.PaymentReference,
		PaymentStatus:     string(r.PaymentStatus),
		PaymentVerifiedAt: r.PaymentVerifiedAt,
		FineAmount:        r.FineAmount,
		FineReason:        r.FineReason,
		FineStatus:        string(r.FineStatus),
		FinePaidAt:        r.FinePaidAt,
		ReturnRequestedAt: r.ReturnRequestedAt,
		ReturnedAt:        r.ReturnedAt,
		GameCondition:     string(r.GameCondition),
	}
}

func rentalDAOToDomain(r dao.Rental) domain.Rental {
	return domain.Rental{
		ID:                r.ID,
		UserID:            r.UserID,
		GameID:            r.GameID,
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
		Status:            domain.RentalStatus(r.Status),
		PaymentReference:  r.PaymentReference,
		PaymentStatus:     domain.PaymentStatus(r.PaymentStatus),
		PaymentVerifiedAt: r.PaymentVerifiedAt,
		FineAmount:        r.FineAmount,
		FineReason:        r.FineReason,
		FineStatus:        domain.FineStatus(r.FineStatus),
		FinePaidAt:        r.FinePaidAt,
		ReturnRequestedAt: r.ReturnRequestedAt,
		ReturnedAt:        r.ReturnedAt,
		GameCondition:     domain.GameStatus(r.GameCondition),
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}
