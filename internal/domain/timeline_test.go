package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func stepStates(tl Timeline) []StepState {
	out := []StepState{}
	for _, s := range tl.Steps {
		out = append(out, s.State)
	}
	return out
}

func TestRentalTimelineTruncates(t *testing.T) {
	tl := RentalTimeline(RentalPendingPayment, false)
	assert.False(t, tl.Cancelled)
	assert.Equal(t, []StepState{StepCurrent, StepUpcoming}, stepStates(tl))

	tl = RentalTimeline(RentalConfirmed, false)
	assert.Equal(t, []StepState{StepCompleted, StepCompleted, StepCurrent, StepUpcoming}, stepStates(tl))
	assert.Equal(t, RentalActive, tl.Steps[3].Status)

	tl = RentalTimeline(RentalReturnRequested, false)
	assert.Len(t, tl.Steps, 6)

	tl = RentalTimeline(RentalCompleted, false)
	assert.Len(t, tl.Steps, 6)
	assert.Equal(t, StepCurrent, tl.Steps[5].State)
}

func TestRentalTimelineShowAll(t *testing.T) {
	tl := RentalTimeline(RentalPendingApproval, true)
	assert.Equal(t, []StepState{
		StepCompleted, StepCurrent, StepUpcoming, StepUpcoming, StepUpcoming, StepUpcoming,
	}, stepStates(tl))
}

func TestRentalTimelineCancelled(t *testing.T) {
	tl := RentalTimeline(RentalCancelled, true)
	assert.True(t, tl.Cancelled)
	assert.Empty(t, tl.Steps)
}
