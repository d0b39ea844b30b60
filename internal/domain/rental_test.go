package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allRentalStatuses = []RentalStatus{
	RentalPendingPayment,
	RentalPendingApproval,
	RentalConfirmed,
	RentalActive,
	RentalReturnRequested,
	RentalCompleted,
	RentalCancelled,
}

func TestRentalTransitionsOnlyMoveForwardOrCancel(t *testing.T) {
	for _, from := range allRentalStatuses {
		for _, to := range allRentalStatuses {
			got := from.CanTransitionTo(to)

			want := false
			if !from.IsTerminal() {
				want = to == RentalCancelled || to.Index() == from.Index()+1
			}

			assert.Equalf(t, want, got, "%s -> %s", from, to)
		}
	}
}

func TestRentalStatusUnknown(t *testing.T) {
	s := RentalStatus("lost")
	assert.False(t, s.Valid())
	assert.Equal(t, -1, s.Index())
	assert.False(t, s.CanTransitionTo(RentalCancelled))
}

func TestRentalHappyPath(t *testing.T) {
	now := time.Date(2026, 10, 3, 12, 0, 0, 0, time.UTC)
	r := NewRental(7, 3, now, now.Add(48*time.Hour))
	require.NoError(t, r.Validate())

	require.NoError(t, r.SubmitPayment("UPI-1234"))
	assert.Equal(t, RentalPendingApproval, r.Status)
	assert.Equal(t, "UPI-1234", r.PaymentReference)

	require.NoError(t, r.ApprovePayment(now, GameAvailable))
	assert.Equal(t, RentalConfirmed, r.Status)
	assert.Equal(t, PaymentVerified, r.PaymentStatus)
	require.NotNil(t, r.PaymentVerifiedAt)
	assert.True(t, r.HoldsGame())

	require.NoError(t, r.ConfirmPickup())
	require.NoError(t, r.RequestReturn(now))
	require.NotNil(t, r.ReturnRequestedAt)

	require.NoError(t, r.CompleteReturn(Fine{}, now))
	assert.Equal(t, RentalCompleted, r.Status)
	assert.Equal(t, FineNone, r.FineStatus)
	assert.False(t, r.HoldsGame())
	assert.NoError(t, r.Validate())
}

func TestRentalCannotSkipStates(t *testing.T) {
	r := NewRental(1, 1, time.Now(), time.Now())

	assert.ErrorIs(t, r.ApprovePayment(time.Now(), GameAvailable), ErrInvalidRentalTransition)
	assert.Empty(t, r.GameCondition)
	assert.ErrorIs(t, r.ConfirmPickup(), ErrInvalidRentalTransition)
	assert.ErrorIs(t, r.RequestReturn(time.Now()), ErrInvalidRentalTransition)
	assert.ErrorIs(t, r.CompleteReturn(Fine{}, time.Now()), ErrInvalidRentalTransition)
	assert.ErrorIs(t, r.RejectPayment(), ErrInvalidRentalTransition)
	assert.Equal(t, RentalPendingPayment, r.Status)
}

func TestRentalReject(t *testing.T) {
	r := NewRental(1, 1, time.Now(), time.Now())
	require.NoError(t, r.SubmitPayment("ref"))

	require.NoError(t, r.RejectPayment())
	assert.Equal(t, RentalCancelled, r.Status)
	assert.Equal(t, PaymentRejected, r.PaymentStatus)
}

func TestRentalCancel(t *testing.T) {
	r := NewRental(1, 1, time.Now(), time.Now())
	require.NoError(t, r.SubmitPayment("ref"))
	require.NoError(t, r.ApprovePayment(time.Now(), GamePartiallyPlayable))
	require.NoError(t, r.ConfirmPickup())

	require.NoError(t, r.Cancel())
	assert.Equal(t, RentalCancelled, r.Status)
	assert.Equal(t, GamePartiallyPlayable, r.ReleaseCondition())

	assert.ErrorIs(t, r.Cancel(), ErrInvalidRentalTransition)
}

func TestRentalFine(t *testing.T) {
	now := time.Now()
	r := Rental{Status: RentalReturnRequested, PaymentStatus: PaymentVerified, FineStatus: FineNone, StartDate: now, EndDate: now}

	assert.ErrorIs(t, r.CompleteReturn(Fine{Amount: -5}, now), ErrInvalidRental)
	assert.Equal(t, RentalReturnRequested, r.Status)

	assert.ErrorIs(t, r.PayFine(now), ErrNoPendingFine)

	require.NoError(t, r.CompleteReturn(Fine{Amount: 200, Reason: "two missing meeples"}, now))
	assert.Equal(t, FinePending, r.FineStatus)
	assert.Equal(t, 200, r.FineAmount)
	assert.NoError(t, r.Validate())

	require.NoError(t, r.PayFine(now))
	assert.Equal(t, FinePaid, r.FineStatus)
	require.NotNil(t, r.FinePaidAt)
	assert.ErrorIs(t, r.PayFine(now), ErrNoPendingFine)
}

func TestRentalValidate(t *testing.T) {
	now := time.Now()

	r := NewRental(1, 1, now, now.Add(-time.Hour))
	assert.ErrorIs(t, r.Validate(), ErrInvalidRental)

	r = NewRental(1, 1, now, now)
	r.FineAmount = 50
	assert.ErrorIs(t, r.Validate(), ErrInvalidRental)

	r.FineStatus = FinePending
	assert.NoError(t, r.Validate())
}

func TestGroupRentals(t *testing.T) {
	rentals := []Rental{
		{ID: 1, Status: RentalPendingPayment},
		{ID: 2, Status: RentalPendingApproval},
		{ID: 3, Status: RentalConfirmed},
		{ID: 4, Status: RentalActive},
		{ID: 5, Status: RentalReturnRequested},
		{ID: 6, Status: RentalCompleted},
		{ID: 7, Status: RentalCancelled},
	}

	groups := GroupRentals(rentals)

	rentalIDs := func(rs []Rental) []uint {
		out := []uint{}
		for _, r := range rs {
			out = append(out, r.ID)
		}
		return out
	}
	assert.Equal(t, []uint{1, 2, 3}, rentalIDs(groups[RentalGroupPending]))
	assert.Equal(t, []uint{4, 5}, rentalIDs(groups[RentalGroupActive]))
	assert.Equal(t, []uint{6, 7}, rentalIDs(groups[RentalGroupHistory]))
}

func TestRentalReleaseCondition(t *testing.T) {
	tests := []struct {
		condition GameStatus
		want      GameStatus
	}{
		{"", GameAvailable},
		{GameAvailable, GameAvailable},
		{GamePartiallyPlayable, GamePartiallyPlayable},
		{GameBooked, GameAvailable},
	}
	for _, tt := range tests {
		r := Rental{GameCondition: tt.condition}
		assert.Equal(t, tt.want, r.ReleaseCondition(), "condition %q", tt.condition)
	}
}
