package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/boardy-hostel/boardy-api/internal/db"
	"github.com/boardy-hostel/boardy-api/internal/domain"
	"github.com/boardy-hostel/boardy-api/internal/repository"
	"github.com/boardy-hostel/boardy-api/internal/repository/dao"
)

var testNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, notifications ...domain.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notifications...)
	return nil
}

func (n *recordingNotifier) For(userID uint) []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []domain.Notification
	for _, s := range n.sent {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out
}

type testEnv struct {
	users         *repository.UserRepository
	games         *repository.GameRepository
	notifications *repository.NotificationRepository
	notifier      *recordingNotifier

	auth     *AuthService
	catalog  *CatalogService
	rentals  *RentalService
	events   *EventService
	warnings *WarningService
	userSvc  *UserService

	seq int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, dao.InitTables(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	env := &testEnv{
		users:         repository.NewUserRepository(dao.NewUserDAO(gdb)),
		games:         repository.NewGameRepository(dao.NewGameDAO(gdb)),
		notifications: repository.NewNotificationRepository(dao.NewNotificationDAO(gdb)),
		notifier:      &recordingNotifier{},
	}
	rentalRepo := repository.NewRentalRepository(dao.NewRentalDAO(gdb))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(gdb))

	env.auth = NewAuthService(env.users, "test-key", time.Hour)
	env.catalog = NewCatalogService(env.games, env.notifications, env.notifier)
	env.rentals = NewRentalService(rentalRepo, env.games, env.users, env.notifications, env.notifier, 7)
	env.rentals.now = func() time.Time { return testNow }
	env.events = NewEventService(eventRepo, env.users, env.notifier)
	env.events.now = func() time.Time { return testNow }
	env.warnings = NewWarningService(env.notifications, env.users, env.notifier)
	env.userSvc = NewUserService(env.users, env.notifier)

	return env
}

func (e *testEnv) user(t *testing.T, verified bool) domain.User {
	t.Helper()
	e.seq++

	u, err := e.users.Create(context.Background(), domain.User{
		Email:    fmt.Sprintf("resident%d@boardy.local", e.seq),
		Password: "hash",
		Name:     fmt.Sprintf("Resident %d", e.seq),
	})
	require.NoError(t, err)

	if verified {
		u, err = e.users.SetVerified(context.Background(), u.ID, true)
		require.NoError(t, err)
	}
	return u
}

func (e *testEnv) game(t *testing.T, name string, status domain.GameStatus, maxPlayers int) domain.Game {
	t.Helper()

	g, err := e.catalog.CreateGame(context.Background(), domain.Game{
		Name:            name,
		Category:        domain.CategoryStrategy,
		MinPlayers:      2,
		MaxPlayers:      maxPlayers,
		DurationMinutes: 60,
		Complexity:      2,
		Status:          status,
		Components:      []string{"board"},
	})
	require.NoError(t, err)
	return g
}

func (e *testEnv) openEvent(t *testing.T, max, fee int) domain.Event {
	t.Helper()
	ctx := context.Background()

	ev, err := e.events.CreateEvent(ctx, domain.Event{
		Title:           "Saturday Night",
		EventDate:       testNow.Add(7 * 24 * time.Hour),
		StartTime:       "19:00",
		MaxParticipants: max,
		FeeAmount:       fee,
	})
	require.NoError(t, err)

	ev, err = e.events.PublishEvent(ctx, ev.ID)
	require.NoError(t, err)
	return ev
}

func days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}
