package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardy-hostel/boardy-api/internal/domain"
	"github.com/boardy-hostel/boardy-api/internal/pkg/jwthelper"
)

func TestAuthService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	created, err := env.auth.Signup(ctx, domain.User{
		Email:    "meera@boardy.local",
		Password: "secret123",
		Name:     "Meera",
		IsAdmin:  true,
	})
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", created.Password)
	assert.False(t, created.IsAdmin, "signup must not grant admin")
	assert.False(t, created.IsVerified)

	_, err = env.auth.Signup(ctx, domain.User{Email: "meera@boardy.local", Password: "secret123", Name: "Again"})
	assert.ErrorIs(t, err, ErrUserEmailExists)

	_, err = env.auth.Signup(ctx, domain.User{Email: " Meera@Boardy.local ", Password: "secret123", Name: "Case"})
	assert.ErrorIs(t, err, ErrUserEmailExists, "emails are compared case-insensitively")

	session, err := env.auth.Login(ctx, "MEERA@boardy.local", "secret123", "test-agent")
	require.NoError(t, err)
	assert.Equal(t, created.ID, session.User.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, time.Minute)

	claims, err := jwthelper.ParseToken([]byte("test-key"), session.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, "test-agent", claims.UserAgent)

	_, err = env.auth.Login(ctx, "meera@boardy.local", "wrong-pass1", "test-agent")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.auth.Login(ctx, "nobody@boardy.local", "secret123", "test-agent")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserServiceVerify(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	u := env.user(t, false)
	env.user(t, true)

	unverified := false
	pending, err := env.userSvc.ListUsers(ctx, &unverified)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, u.ID, pending[0].ID)

	verified, err := env.userSvc.VerifyUser(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
	assert.Len(t, env.notifier.For(u.ID), 1)

	_, err = env.userSvc.VerifyUser(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestWarningService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	admin := env.user(t, true)
	u := env.user(t, true)

	_, err := env.warnings.Issue(ctx, admin.ID, u.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyWarningReason)

	_, err = env.warnings.Issue(ctx, admin.ID, 999, "late return")
	assert.ErrorIs(t, err, ErrUserNotFound)

	w, err := env.warnings.Issue(ctx, admin.ID, u.ID, " late return ")
	require.NoError(t, err)
	assert.Equal(t, "late return", w.Reason)
	assert.Equal(t, admin.ID, w.IssuedBy)

	list, err := env.warnings.ListForUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Len(t, env.notifier.For(u.ID), 1)

	stats, err := env.userSvc.GetStats(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.WarningsReceived)
}
