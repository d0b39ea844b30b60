package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardy-hostel/boardy-api/internal/domain"
)

func TestEventLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	draft, err := env.events.CreateEvent(ctx, domain.Event{
		Title: "Co-op Night", EventDate: testNow, StartTime: "19:00", MaxParticipants: 8,
		RegisteredCount: 5, Status: domain.EventCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.EventDraft, draft.Status)
	assert.Zero(t, draft.RegisteredCount)

	_, err = env.events.CreateEvent(ctx, domain.Event{Title: "", MaxParticipants: 8})
	assert.ErrorIs(t, err, domain.ErrInvalidEvent)

	upcoming, past, err := env.events.ListEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, upcoming, "drafts are not listed")
	assert.Empty(t, past)

	_, err = env.events.CloseEvent(ctx, draft.ID)
	assert.ErrorIs(t, err, ErrInvalidEventTransition)

	ev, err := env.events.PublishEvent(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EventOpen, ev.Status)

	upcoming, _, err = env.events.ListEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, upcoming, 1)

	ev, err = env.events.CloseEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EventClosed, ev.Status)

	ev, err = env.events.CompleteEvent(ctx, ev.ID, []string{"Pandemic"})
	require.NoError(t, err)
	assert.Equal(t, domain.EventCompleted, ev.Status)
	assert.Equal(t, []string{"Pandemic"}, ev.GamesPlayed)

	_, err = env.events.CancelEvent(ctx, ev.ID)
	assert.ErrorIs(t, err, ErrInvalidEventTransition)

	_, past, err = env.events.ListEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, past, 1)

	_, err = env.events.PublishEvent(ctx, 999)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestRegisterFillsAndReleasesSeats(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	ev := env.openEvent(t, 2, 50)
	a, b, c := env.user(t, true), env.user(t, true), env.user(t, true)

	_, err := env.events.Register(ctx, env.user(t, false).ID, ev.ID)
	assert.ErrorIs(t, err, ErrUserNotVerified)

	regA, err := env.events.Register(ctx, a.ID, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationPendingPayment, regA.Status)

	_, err = env.events.Register(ctx, a.ID, ev.ID)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	regB, err := env.events.Register(ctx, b.ID, ev.ID)
	require.NoError(t, err)

	full, err := env.events.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EventFull, full.Status)
	assert.Equal(t, 2, full.RegisteredCount)

	_, err = env.events.Register(ctx, c.ID, ev.ID)
	assert.ErrorIs(t, err, ErrEventFull)

	_, err = env.events.CancelRegistration(ctx, c, regB.ID)
	assert.ErrorIs(t, err, ErrNotRegistrationOwner)

	cancelled, err := env.events.CancelRegistration(ctx, b, regB.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationCancelled, cancelled.Status)

	reopened, err := env.events.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EventOpen, reopened.Status)
	assert.Equal(t, 1, reopened.RegisteredCount)

	regB, err = env.events.Register(ctx, b.ID, ev.ID)
	require.NoError(t, err, "a cancelled registration does not block a new one")

	regA, err = env.events.SubmitRegistrationPayment(ctx, a.ID, regA.ID, "UPI-EV-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationPendingApproval, regA.Status)

	regA, err = env.events.ApproveRegistration(ctx, regA.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationConfirmed, regA.Status)
	assert.Len(t, env.notifier.For(a.ID), 1)

	_, err = env.events.SubmitRegistrationPayment(ctx, b.ID, regB.ID, "UPI-EV-2")
	require.NoError(t, err)
	rejected, err := env.events.RejectRegistration(ctx, regB.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentRejected, rejected.PaymentStatus)

	final, err := env.events.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, final.RegisteredCount)

	mine, err := env.events.ListUserRegistrations(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestRegisterForFreeEventConfirmsImmediately(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	ev := env.openEvent(t, 4, 0)
	u := env.user(t, true)

	reg, err := env.events.Register(ctx, u.ID, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationConfirmed, reg.Status)
	assert.Equal(t, domain.PaymentVerified, reg.PaymentStatus)
	assert.NotNil(t, reg.PaymentVerifiedAt)
}

func TestRegisterForDraftEvent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	u := env.user(t, true)

	draft, err := env.events.CreateEvent(ctx, domain.Event{Title: "Later", EventDate: testNow, StartTime: "19:00", MaxParticipants: 4})
	require.NoError(t, err)

	_, err = env.events.Register(ctx, u.ID, draft.ID)
	assert.ErrorIs(t, err, ErrEventNotOpen)
}

func TestConcurrentRegistrationsNeverOverbook(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	ev := env.openEvent(t, 3, 0)

	users := make([]domain.User, 10)
	for i := range users {
		users[i] = env.user(t, true)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for _, u := range users {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			_, err := env.events.Register(ctx, userID, ev.ID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
				return
			}
			assert.ErrorIs(t, err, ErrEventFull)
		}(u.ID)
	}
	wg.Wait()

	assert.Equal(t, 3, succeeded)

	final, err := env.events.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, final.RegisteredCount)
	assert.Equal(t, domain.EventFull, final.Status)
}
