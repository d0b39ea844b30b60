package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/boardy-hostel/boardy-api/internal/domain"
	"github.com/boardy-hostel/boardy-api/internal/repository"
)

var (
	ErrRentalNotFound       = repository.ErrRentalNotFound
	ErrRentalStatusConflict = repository.ErrRentalStatusConflict
	ErrNotRentalOwner       = errors.New("rental belongs to another user")
	ErrRentalTooLong        = errors.New("rental is longer than allowed")
	ErrRentalStartsInPast   = errors.New("rental cannot start in the past")
	ErrInvalidCondition     = errors.New("invalid game condition")
)

type RentalRepository interface {
	Create(ctx context.Context, rental domain.Rental) (domain.Rental, error)
	FindByID(ctx context.Context, id uint) (domain.Rental, domain.Game, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Rental, error)
	FindByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error)
	UpdateStatus(ctx context.Context, rental domain.Rental, from domain.RentalStatus, game *repository.GameChange) error
	UpdateFine(ctx context.Context, rental domain.Rental, from domain.FineStatus) error
}

type RentalGameFinder interface {
	FindByID(ctx context.Context, id uint) (domain.Game, error)
}

// RentalRequest is what a resident asks for when booking a game.
type RentalRequest struct {
	UserID    uint
	GameID    uint
	StartDate time.Time
	EndDate   time.Time
}

type RentalService struct {
	repo     RentalRepository
	games    RentalGameFinder
	users    UserFinder
	watches  WatchRepository
	notifier Notifier
	maxDays  int
	now      func() time.Time
}

func NewRentalService(repo RentalRepository, games RentalGameFinder, users UserFinder, watches WatchRepository, notifier Notifier, maxDays int) *RentalService {
	return &RentalService{
		repo:     repo,
		games:    games,
		users:    users,
		watches:  watches,
		notifier: notifier,
		maxDays:  maxDays,
		now:      time.Now,
	}
}

func (s *RentalService) RequestRental(ctx context.Context, req RentalRequest) (domain.Rental, error) {
	if _, err := requireVerified(ctx, s.users, req.UserID); err != nil {
		return domain.Rental{}, err
	}

	game, err := s.games.FindByID(ctx, req.GameID)
	if err != nil {
		return domain.Rental{}, fmt.Errorf("s.games.FindByID -> %w", err)
	}
	if !game.IsRentable() {
		return domain.Rental{}, ErrGameNotAvailable
	}

	start, end := day(req.StartDate), day(req.EndDate)
	if start.Before(day(s.now())) {
		return domain.Rental{}, ErrRentalStartsInPast
	}
	if days := int(end.Sub(start).Hours()/24) + 1; s.maxDays > 0 && days > s.maxDays {
		return domain.Rental{}, fmt.Errorf("%w: %d days, at most %d", ErrRentalTooLong, days, s.maxDays)
	}

	rental := domain.NewRental(req.UserID, req.GameID, start, end)
	if err = rental.Validate(); err != nil {
		return domain.Rental{}, err
	}

	created, err := s.repo.Create(ctx, rental)
	if err != nil {
		return domain.Rental{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// GetRental returns the rental with its game. Residents only see their own
// rentals, admins see all of them.
func (s *RentalService) GetRental(ctx context.Context, user domain.User, id uint) (domain.Rental, domain.Game, error) {
	rental, game, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Rental{}, domain.Game{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if rental.UserID != user.ID && !user.IsAdmin {
		return domain.Rental{}, domain.Game{}, ErrNotRentalOwner
	}

	return rental, game, nil
}

func (s *RentalService) ListUserRentals(ctx context.Context, userID uint) ([]domain.Rental, error) {
	rentals, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	return rentals, nil
}

// ListRentals lists rentals in status, or every rental for an empty status.
func (s *RentalService) ListRentals(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidRental, status)
	}

	rentals, err := s.repo.FindByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByStatus -> %w", err)
	}

	return rentals, nil
}

func (s *RentalService) SubmitPayment(ctx context.Context, userID, id uint, reference string) (domain.Rental, error) {
	rental, _, err := s.ownRental(ctx, userID, id)
	if err != nil {
		return domain.Rental{}, err
	}

	return s.transition(ctx, rental, func(r *domain.Rental) error {
		return r.SubmitPayment(reference)
	}, nil)
}

// ApprovePayment confirms the rental and books the game in one step. A game
// that was booked by someone else in the meantime fails with ErrGameNotAvailable.
// The rental remembers the game's condition so releasing it restores that.
func (s *RentalService) ApprovePayment(ctx context.Context, id uint) (domain.Rental, error) {
	rental, game, err := s.findRental(ctx, id)
	if err != nil {
		return domain.Rental{}, err
	}

	// Booking only succeeds while the game is still in the recorded condition.
	from := []domain.GameStatus{domain.GameAvailable, domain.GamePartiallyPlayable}
	if game.IsRentable() {
		from = []domain.GameStatus{game.Status}
	}

	now := s.now()
	updated, err := s.transition(ctx, rental, func(r *domain.Rental) error {
		return r.ApprovePayment(now, game.Status)
	}, &repository.GameChange{
		To:   domain.GameBooked,
		From: from,
	})
	if err != nil {
		return domain.Rental{}, err
	}

	notify(ctx, s.notifier, domain.Notification{
		UserID:   updated.UserID,
		Title:    "Rental confirmed",
		Message:  fmt.Sprintf("Your payment for %s was verified. The game is ready for pickup!", game.Name),
		LinkPath: rentalPath(updated.ID),
	})

	return updated, nil
}

func (s *RentalService) RejectPayment(ctx context.Context, id uint) (domain.Rental, error) {
	rental, game, err := s.findRental(ctx, id)
	if err != nil {
		return domain.Rental{}, err
	}

	updated, err := s.transition(ctx, rental, (*domain.Rental).RejectPayment, nil)
	if err != nil {
		return domain.Rental{}, err
	}

	notify(ctx, s.notifier, domain.Notification{
		UserID:   updated.UserID,
		Title:    "Payment rejected",
		Message:  fmt.Sprintf("We could not verify your payment for %s. The rental was cancelled.", game.Name),
		LinkPath: rentalPath(updated.ID),
	})

	return updated, nil
}

func (s *RentalService) ConfirmPickup(ctx context.Context, id uint) (domain.Rental, error) {
	rental, _, err := s.findRental(ctx, id)
	if err != nil {
		return domain.Rental{}, err
	}

	return s.transition(ctx, rental, (*domain.Rental).ConfirmPickup, nil)
}

func (s *RentalService) RequestReturn(ctx context.Context, userID, id uint) (domain.Rental, error) {
	rental, _, err := s.ownRental(ctx, userID, id)
	if err != nil {
		return domain.Rental{}, err
	}

	now := s.now()
	return s.transition(ctx, rental, func(r *domain.Rental) error {
		return r.RequestReturn(now)
	}, nil)
}

// CompleteReturn closes an inspected rental. The game goes back on the shelf
// as condition, which defaults to the condition it was booked in.
func (s *RentalService) CompleteReturn(ctx context.Context, id uint, fine domain.Fine, condition domain.GameStatus) (domain.Rental, error) {
	if condition != "" && (!condition.Valid() || condition == domain.GameBooked) {
		return domain.Rental{}, fmt.Errorf("%w: %q", ErrInvalidCondition, condition)
	}

	rental, game, err := s.findRental(ctx, id)
	if err != nil {
		return domain.Rental{}, err
	}
	if condition == "" {
		condition = rental.ReleaseCondition()
	}

	now := s.now()
	updated, err := s.transition(ctx, rental, func(r *domain.Rental) error {
		return r.CompleteReturn(fine, now)
	}, &repository.GameChange{To: condition})
	if err != nil {
		return domain.Rental{}, err
	}

	if updated.FineStatus == domain.FinePending {
		notify(ctx, s.notifier, domain.Notification{
			UserID:   updated.UserID,
			Title:    "Fine issued",
			Message:  fmt.Sprintf("A fine of Rs %d was added to your %s rental: %s", updated.FineAmount, game.Name, updated.FineReason),
			LinkPath: rentalPath(updated.ID),
		})
	}

	game.Status = condition
	if game.IsRentable() {
		notifyWatchers(ctx, s.watches, s.notifier, game)
	}

	return updated, nil
}

// Cancel stops a rental before it completes. Residents may cancel their own
// rentals, admins any. A rental that had booked the game puts it back in the
// condition it was booked in.
func (s *RentalService) Cancel(ctx context.Context, user domain.User, id uint) (domain.Rental, error) {
	rental, game, err := s.GetRental(ctx, user, id)
	if err != nil {
		return domain.Rental{}, err
	}

	var change *repository.GameChange
	if rental.HoldsGame() {
		change = &repository.GameChange{To: rental.ReleaseCondition()}
	}

	updated, err := s.transition(ctx, rental, (*domain.Rental).Cancel, change)
	if err != nil {
		return domain.Rental{}, err
	}

	if change != nil {
		game.Status = change.To
		notifyWatchers(ctx, s.watches, s.notifier, game)
	}

	return updated, nil
}

func (s *RentalService) PayFine(ctx context.Context, userID, id uint) (domain.Rental, error) {
	rental, _, err := s.ownRental(ctx, userID, id)
	if err != nil {
		return domain.Rental{}, err
	}

	from := rental.FineStatus
	if err = rental.PayFine(s.now()); err != nil {
		return domain.Rental{}, err
	}

	if err = s.repo.UpdateFine(ctx, rental, from); err != nil {
		return domain.Rental{}, fmt.Errorf("s.repo.UpdateFine -> %w", err)
	}

	return rental, nil
}

func (s *RentalService) transition(ctx context.Context, rental domain.Rental, apply func(*domain.Rental) error, game *repository.GameChange) (domain.Rental, error) {
	from := rental.Status
	if err := apply(&rental); err != nil {
		return domain.Rental{}, err
	}

	if err := s.repo.UpdateStatus(ctx, rental, from, game); err != nil {
		return domain.Rental{}, fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return rental, nil
}

func (s *RentalService) findRental(ctx context.Context, id uint) (domain.Rental, domain.Game, error) {
	rental, game, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Rental{}, domain.Game{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return rental, game, nil
}

func (s *RentalService) ownRental(ctx context.Context, userID, id uint) (domain.Rental, domain.Game, error) {
	rental, game, err := s.findRental(ctx, id)
	if err != nil {
		return domain.Rental{}, domain.Game{}, err
	}
	if rental.UserID != userID {
		return domain.Rental{}, domain.Game{}, ErrNotRentalOwner
	}

	return rental, game, nil
}

func rentalPath(id uint) string {
	return fmt.Sprintf("/rentals/%d", id)
}

func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
