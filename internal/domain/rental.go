package domain

import (
	"errors"
	"fmt"
	"time"
)

type RentalStatus string

const (
	RentalPendingPayment  RentalStatus = "pending_payment"
	RentalPendingApproval RentalStatus = "pending_approval"
	RentalConfirmed       RentalStatus = "confirmed"
	RentalActive          RentalStatus = "active"
	RentalReturnRequested RentalStatus = "return_requested"
	RentalCompleted       RentalStatus = "completed"
	RentalCancelled       RentalStatus = "cancelled"
)

// RentalStatusOrder is the forward path of a rental. Cancelled sits outside it.
var RentalStatusOrder = []RentalStatus{
	RentalPendingPayment,
	RentalPendingApproval,
	RentalConfirmed,
	RentalActive,
	RentalReturnRequested,
	RentalCompleted,
}

// Index returns the position in RentalStatusOrder, or -1.
func (s RentalStatus) Index() int {
	for i, v := range RentalStatusOrder {
		if s == v {
			return i
		}
	}
	return -1
}

func (s RentalStatus) Valid() bool {
	return s == RentalCancelled || s.Index() >= 0
}

func (s RentalStatus) IsTerminal() bool {
	return s == RentalCompleted || s == RentalCancelled
}

// CanTransitionTo allows exactly one step forward, or cancellation from a
// non-terminal state.
func (s RentalStatus) CanTransitionTo(next RentalStatus) bool {
	if !s.Valid() || s.IsTerminal() {
		return false
	}
	if next == RentalCancelled {
		return true
	}
	i := s.Index()
	return next.Index() == i+1
}

type RentalGroup string

const (
	RentalGroupPending RentalGroup = "pending"
	RentalGroupActive  RentalGroup = "active"
	RentalGroupHistory RentalGroup = "history"
)

func (s RentalStatus) Group() RentalGroup {
	switch s {
	case RentalActive, RentalReturnRequested:
		return RentalGroupActive
	case RentalCompleted, RentalCancelled:
		return RentalGroupHistory
	default:
		return RentalGroupPending
	}
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentVerified PaymentStatus = "verified"
	PaymentRejected PaymentStatus = "rejected"
)

type FineStatus string

const (
	FineNone    FineStatus = "none"
	FinePending FineStatus = "pending"
	FinePaid    FineStatus = "paid"
)

var (
	ErrInvalidRental           = errors.New("invalid rental")
	ErrInvalidRentalTransition = errors.New("invalid rental status transition")
	ErrNoPendingFine           = errors.New("rental has no pending fine")
)

type Rental struct {
	ID                uint          `json:"id"`
	UserID            uint          `json:"user_id"`
	GameID            uint          `json:"game_id"`
	StartDate         time.Time     `json:"start_date"`
	EndDate           time.Time     `json:"end_date"`
	Status            RentalStatus  `json:"status"`
	PaymentReference  string        `json:"payment_reference,omitempty"`
	PaymentStatus     PaymentStatus `json:"payment_status"`
	PaymentVerifiedAt *time.Time    `json:"payment_verified_at,omitempty"`
	FineAmount        int           `json:"fine_amount"`
	FineReason        string        `json:"fine_reason,omitempty"`
	FineStatus        FineStatus    `json:"fine_status"`
	FinePaidAt        *time.Time    `json:"fine_paid_at,omitempty"`
	ReturnRequestedAt *time.Time    `json:"return_requested_at,omitempty"`
	ReturnedAt        *time.Time    `json:"returned_at,omitempty"`
	GameCondition     GameStatus    `json:"game_condition,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// NewRental builds a rental in its initial state.
func NewRental(userID, gameID uint, start, end time.Time) Rental {
	return Rental{
		UserID:        userID,
		GameID:        gameID,
		StartDate:     start,
		EndDate:       end,
		Status:        RentalPendingPayment,
		PaymentStatus: PaymentPending,
		FineStatus:    FineNone,
	}
}

func (r Rental) Validate() error {
	switch {
	case !r.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", ErrInvalidRental, r.Status)
	case r.EndDate.Before(r.StartDate):
		return fmt.Errorf("%w: end date before start date", ErrInvalidRental)
	case r.FineAmount < 0:
		return fmt.Errorf("%w: negative fine", ErrInvalidRental)
	case r.FineAmount > 0 && r.FineStatus == FineNone:
		return fmt.Errorf("%w: fine amount set without fine status", ErrInvalidRental)
	}
	return nil
}

// HoldsGame reports whether the rental keeps the game booked.
func (r Rental) HoldsGame() bool {
	return r.Status == RentalConfirmed || r.Status == RentalActive || r.Status == RentalReturnRequested
}

// ReleaseCondition is the status the game goes back to when the rental lets
// go of it without an inspection.
func (r Rental) ReleaseCondition() GameStatus {
	if r.GameCondition == "" || r.GameCondition == GameBooked {
		return GameAvailable
	}
	return r.GameCondition
}

func (r *Rental) transition(next RentalStatus) error {
	if !r.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidRentalTransition, r.Status, next)
	}
	r.Status = next
	return nil
}

func (r *Rental) SubmitPayment(reference string) error {
	if err := r.transition(RentalPendingApproval); err != nil {
		return err
	}
	r.PaymentReference = reference
	r.PaymentStatus = PaymentPending
	return nil
}

// ApprovePayment confirms the rental. condition is the game's status at the
// moment it gets booked.
func (r *Rental) ApprovePayment(now time.Time, condition GameStatus) error {
	if err := r.transition(RentalConfirmed); err != nil {
		return err
	}
	r.PaymentStatus = PaymentVerified
	r.PaymentVerifiedAt = &now
	r.GameCondition = condition
	return nil
}

// RejectPayment cancels a rental waiting on approval.
func (r *Rental) RejectPayment() error {
	if r.Status != RentalPendingApproval {
		return fmt.Errorf("%w: reject from %s", ErrInvalidRentalTransition, r.Status)
	}
	r.Status = RentalCancelled
	r.PaymentStatus = PaymentRejected
	return nil
}

func (r *Rental) ConfirmPickup() error {
	return r.transition(RentalActive)
}

func (r *Rental) RequestReturn(now time.Time) error {
	if err := r.transition(RentalReturnRequested); err != nil {
		return err
	}
	r.ReturnRequestedAt = &now
	return nil
}

// Fine is what an inspection charges for damaged or missing components.
type Fine struct {
	Amount int
	Reason string
}

func (r *Rental) CompleteReturn(fine Fine, now time.Time) error {
	if fine.Amount < 0 {
		return fmt.Errorf("%w: negative fine", ErrInvalidRental)
	}
	if err := r.transition(RentalCompleted); err != nil {
		return err
	}
	r.ReturnedAt = &now
	if fine.Amount > 0 {
		r.FineAmount = fine.Amount
		r.FineReason = fine.Reason
		r.FineStatus = FinePending
	}
	return nil
}

func (r *Rental) Cancel() error {
	return r.transition(RentalCancelled)
}

func (r *Rental) PayFine(now time.Time) error {
	if r.FineStatus != FinePending {
		return ErrNoPendingFine
	}
	r.FineStatus = FinePaid
	r.FinePaidAt = &now
	return nil
}

// GroupRentals splits rentals into the pending, active and history tabs.
func GroupRentals(rentals []Rental) map[RentalGroup][]Rental {
	groups := map[RentalGroup][]Rental{
		RentalGroupPending: {},
		RentalGroupActive:  {},
		RentalGroupHistory: {},
	}
	for _, r := range rentals {
		g := r.Status.Group()
		groups[g] = append(groups[g], r)
	}
	return groups
}
