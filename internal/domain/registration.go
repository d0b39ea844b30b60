package domain

import (
	"errors"
	"fmt"
	"time"
)

type RegistrationStatus string

const (
	RegistrationPendingPayment  RegistrationStatus = "pending_payment"
	RegistrationPendingApproval RegistrationStatus = "pending_approval"
	RegistrationConfirmed       RegistrationStatus = "confirmed"
	RegistrationCancelled       RegistrationStatus = "cancelled"
)

var ErrInvalidRegistrationTransition = errors.New("invalid registration status transition")

func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationPendingPayment, RegistrationPendingApproval, RegistrationConfirmed, RegistrationCancelled:
		return true
	}
	return false
}

type EventRegistration struct {
	ID                uint               `json:"id"`
	EventID           uint               `json:"event_id"`
	UserID            uint               `json:"user_id"`
	Status            RegistrationStatus `json:"status"`
	PaymentReference  string             `json:"payment_reference,omitempty"`
	PaymentStatus     PaymentStatus      `json:"payment_status"`
	PaymentVerifiedAt *time.Time         `json:"payment_verified_at,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// NewRegistration starts a registration. Free events need no payment step.
func NewRegistration(event Event, userID uint, now time.Time) EventRegistration {
	reg := EventRegistration{
		EventID:       event.ID,
		UserID:        userID,
		Status:        RegistrationPendingPayment,
		PaymentStatus: PaymentPending,
	}
	if event.FeeAmount == 0 {
		reg.Status = RegistrationConfirmed
		reg.PaymentStatus = PaymentVerified
		reg.PaymentVerifiedAt = &now
	}
	return reg
}

func (r EventRegistration) IsActive() bool {
	return r.Status != RegistrationCancelled
}

func (r *EventRegistration) SubmitPayment(reference string) error {
	if r.Status != RegistrationPendingPayment {
		return fmt.Errorf("%w: submit payment from %s", ErrInvalidRegistrationTransition, r.Status)
	}
	r.Status = RegistrationPendingApproval
	r.PaymentReference = reference
	return nil
}

func (r *EventRegistration) Approve(now time.Time) error {
	if r.Status != RegistrationPendingApproval {
		return fmt.Errorf("%w: approve from %s", ErrInvalidRegistrationTransition, r.Status)
	}
	r.Status = RegistrationConfirmed
	r.PaymentStatus = PaymentVerified
	r.PaymentVerifiedAt = &now
	return nil
}

func (r *EventRegistration) Reject() error {
	if r.Status != RegistrationPendingApproval {
		return fmt.Errorf("%w: reject from %s", ErrInvalidRegistrationTransition, r.Status)
	}
	r.Status = RegistrationCancelled
	r.PaymentStatus = PaymentRejected
	return nil
}

func (r *EventRegistration) Cancel() error {
	if r.Status == RegistrationCancelled {
		return fmt.Errorf("%w: already cancelled", ErrInvalidRegistrationTransition)
	}
	r.Status = RegistrationCancelled
	return nil
}
