package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardy-hostel/boardy-api/internal/domain"
)

type fakePusher struct {
	mu     sync.Mutex
	pushed map[uint][]domain.Notification
}

func (p *fakePusher) Push(userID uint, n domain.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pushed == nil {
		p.pushed = map[uint][]domain.Notification{}
	}
	p.pushed[userID] = append(p.pushed[userID], n)
}

func TestNotificationService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a, b := env.user(t, true), env.user(t, true)
	pusher := &fakePusher{}
	svc := NewNotificationService(env.notifications, pusher)

	require.NoError(t, svc.Notify(ctx))
	require.NoError(t, svc.Notify(ctx,
		domain.Notification{UserID: a.ID, Title: "one", Message: "first"},
		domain.Notification{UserID: a.ID, Title: "two", Message: "second"},
		domain.Notification{UserID: b.ID, Title: "three", Message: "third"},
	))

	require.Len(t, pusher.pushed[a.ID], 2)
	assert.NotZero(t, pusher.pushed[a.ID][0].ID, "pushed notifications carry their stored id")

	list, err := svc.List(ctx, a.ID, false)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, svc.MarkRead(ctx, a.ID, list[0].ID))
	assert.ErrorIs(t, svc.MarkRead(ctx, b.ID, list[1].ID), ErrNotificationNotFound)

	unread, err := svc.List(ctx, a.ID, true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, list[1].ID, unread[0].ID)
}
