package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardy-hostel/boardy-api/internal/api/handler/v1/response"
	"github.com/boardy-hostel/boardy-api/internal/config"
	"github.com/boardy-hostel/boardy-api/internal/db"
	"github.com/boardy-hostel/boardy-api/internal/domain"
	"github.com/boardy-hostel/boardy-api/internal/repository/dao"
	"github.com/boardy-hostel/boardy-api/internal/service"
)

const testPassword = "secret123"

type testServer struct {
	t      *testing.T
	server *Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	gormDB, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, dao.InitTables(gormDB))

	conf := &config.AppConfig{
		API: &config.APIConfig{
			Environment:        "test",
			BaseURL:            "localhost:8080",
			AllowedCORSDomains: []string{"http://localhost:5173"},
			JWTSigningKey:      "test-key",
			JWTTTL:             time.Hour,
		},
		Gin:    &config.GinConfig{Mode: gin.TestMode},
		Rental: &config.RentalConfig{MaxDays: 7},
		Seed:   &config.SeedConfig{},
	}

	hash, err := service.HashPassword(testPassword)
	require.NoError(t, err)
	_, err = dao.NewUserDAO(gormDB).Insert(context.Background(), dao.User{
		Email:      "admin@boardy.local",
		Password:   hash,
		Name:       "Hostel Admin",
		IsVerified: true,
		IsAdmin:    true,
	})
	require.NoError(t, err)

	return &testServer{t: t, server: NewServer(conf, gormDB)}
}

func (ts *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(ts.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.server.Router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (ts *testServer) login(email string) (string, domain.User) {
	ts.t.Helper()

	rec := ts.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": email, "password": testPassword})
	require.Equal(ts.t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[response.LoginResponse](ts.t, rec)
	return resp.Token, resp.User
}

func (ts *testServer) signup(email string) (string, domain.User) {
	ts.t.Helper()

	rec := ts.do(http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"email":            email,
		"password":         testPassword,
		"confirm_password": testPassword,
		"name":             "Resident " + email,
		"phone":            "+919876543210",
		"room_number":      "A-101",
	})
	require.Equal(ts.t, http.StatusCreated, rec.Code, rec.Body.String())

	return ts.login(email)
}

func (ts *testServer) verifiedResident(adminToken, email string) (string, domain.User) {
	ts.t.Helper()

	token, user := ts.signup(email)
	rec := ts.do(http.MethodPost, fmt.Sprintf("/api/v1/admin/users/%d/verify", user.ID), adminToken, nil)
	require.Equal(ts.t, http.StatusOK, rec.Code, rec.Body.String())

	return token, user
}

func (ts *testServer) createGame(adminToken, name string) domain.Game {
	ts.t.Helper()

	rec := ts.do(http.MethodPost, "/api/v1/admin/games", adminToken, gin.H{
		"name":             name,
		"category":         "strategy",
		"min_players":      2,
		"max_players":      4,
		"duration_minutes": 60,
		"complexity":       2,
		"components":       []string{"board", "cards"},
	})
	require.Equal(ts.t, http.StatusCreated, rec.Code, rec.Body.String())

	return decode[domain.Game](ts.t, rec)
}

func date(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func TestHealthcheckAndVersion(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = ts.do(http.MethodGet, "/api/version", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	info := decode[domain.VersionInfo](t, rec)
	assert.Equal(t, "test", info.Env)
	assert.NotEmpty(t, info.SHA)
	_, err := time.Parse(time.RFC3339, info.Timestamp)
	assert.NoError(t, err)
}

func TestSignupRules(t *testing.T) {
	ts := newTestServer(t)
	ts.signup("aarav@boardy.local")

	rec := ts.do(http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"email":            "aarav@boardy.local",
		"password":         testPassword,
		"confirm_password": testPassword,
		"name":             "Aarav Again",
		"phone":            "9876543210",
		"room_number":      "B-2",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "aarav@boardy.local", "password": "wrong-pass1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesNeedAdmin(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.signup("meera@boardy.local")

	rec := ts.do(http.MethodGet, "/api/v1/admin/rentals", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(http.MethodGet, "/api/v1/admin/rentals", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminToken, _ := ts.login("admin@boardy.local")
	rec = ts.do(http.MethodGet, "/api/v1/admin/rentals", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodGet, "/api/v1/admin/rentals?status=lost", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRentalLifecycle(t *testing.T) {
	ts := newTestServer(t)
	adminToken, _ := ts.login("admin@boardy.local")
	game := ts.createGame(adminToken, "Catan")

	unverified, _ := ts.signup("kabir@boardy.local")
	rec := ts.do(http.MethodPost, "/api/v1/rentals", unverified, gin.H{"game_id": game.ID, "start_date": date(1), "end_date": date(2)})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	token, _ := ts.verifiedResident(adminToken, "aarav@boardy.local")

	rec = ts.do(http.MethodPost, "/api/v1/rentals", token, gin.H{"game_id": game.ID, "start_date": date(1), "end_date": date(10)})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "longer than max days")

	rec = ts.do(http.MethodPost, "/api/v1/rentals", token, gin.H{"game_id": 999, "start_date": date(1), "end_date": date(2)})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodPost, "/api/v1/rentals", token, gin.H{"game_id": game.ID, "start_date": date(1), "end_date": date(3)})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rental := decode[domain.Rental](t, rec)
	assert.Equal(t, domain.RentalPendingPayment, rental.Status)

	path := fmt.Sprintf("/api/v1/rentals/%d", rental.ID)
	adminPath := fmt.Sprintf("/api/v1/admin/rentals/%d", rental.ID)

	rec = ts.do(http.MethodGet, path, unverified, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(http.MethodPost, adminPath+"/approve", adminToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "nothing to approve yet")

	rec = ts.do(http.MethodPost, path+"/payment", token, gin.H{"payment_reference": "UPI-4411"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodPost, adminPath+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, domain.RentalConfirmed, decode[domain.Rental](t, rec).Status)

	rec = ts.do(http.MethodGet, fmt.Sprintf("/api/v1/games/%d", game.ID), "", nil)
	assert.Equal(t, domain.GameBooked, decode[domain.Game](t, rec).Status)

	rec = ts.do(http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[response.RentalDetailResponse](t, rec)
	assert.Equal(t, "Catan", detail.Game.Name)
	assert.False(t, detail.Timeline.Cancelled)
	require.NotEmpty(t, detail.Timeline.Steps)

	rec = ts.do(http.MethodPost, adminPath+"/pickup", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodPost, path+"/return", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodPost, adminPath+"/complete", adminToken, gin.H{"fine_amount": 100})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "fine without a reason")

	rec = ts.do(http.MethodPost, adminPath+"/complete", adminToken, gin.H{
		"fine_amount": 100, "fine_reason": "two cards missing", "condition": "partially_playable",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	completed := decode[domain.Rental](t, rec)
	assert.Equal(t, domain.RentalCompleted, completed.Status)
	assert.Equal(t, domain.FinePending, completed.FineStatus)

	rec = ts.do(http.MethodGet, fmt.Sprintf("/api/v1/games/%d", game.ID), "", nil)
	assert.Equal(t, domain.GamePartiallyPlayable, decode[domain.Game](t, rec).Status)

	rec = ts.do(http.MethodPost, path+"/fine/pay", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, domain.FinePaid, decode[domain.Rental](t, rec).FineStatus)

	rec = ts.do(http.MethodGet, "/api/v1/rentals", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	groups := decode[response.RentalGroupsResponse](t, rec)
	assert.Empty(t, groups.Pending)
	assert.Empty(t, groups.Active)
	assert.Len(t, groups.History, 1)

	rec = ts.do(http.MethodGet, "/api/v1/notifications?unread=true", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	notifications := decode[[]domain.Notification](t, rec)
	require.NotEmpty(t, notifications)

	rec = ts.do(http.MethodPost, fmt.Sprintf("/api/v1/notifications/%d/read", notifications[0].ID), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(http.MethodPost, fmt.Sprintf("/api/v1/notifications/%d/read", notifications[0].ID+1000), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogQueries(t *testing.T) {
	ts := newTestServer(t)
	adminToken, _ := ts.login("admin@boardy.local")
	for _, name := range []string{"Catan", "Azul", "Splendor"} {
		ts.createGame(adminToken, name)
	}

	rec := ts.do(http.MethodGet, "/api/v1/games?category=strategy&players=3&page=1&limit=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := decode[response.PaginatedResponse[domain.Game]](t, rec)
	assert.Len(t, page.Data, 2)
	assert.EqualValues(t, 3, page.Meta.TotalItems)
	assert.Equal(t, 2, page.Meta.TotalPages)

	rec = ts.do(http.MethodGet, "/api/v1/games?players=5", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[response.PaginatedResponse[domain.Game]](t, rec).Data)

	rec = ts.do(http.MethodGet, "/api/v1/games?category=chess", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodGet, "/api/v1/games?duration=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodGet, "/api/v1/games?duration=60&players=4", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[response.PaginatedResponse[domain.Game]](t, rec).Data, 3)

	rec = ts.do(http.MethodGet, "/api/v1/games/featured", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.Game](t, rec), 3)

	rec = ts.do(http.MethodGet, "/api/v1/games/12345", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventRegistration(t *testing.T) {
	ts := newTestServer(t)
	adminToken, _ := ts.login("admin@boardy.local")

	rec := ts.do(http.MethodPost, "/api/v1/admin/events", adminToken, gin.H{
		"title":            "Strategy Night",
		"event_date":       date(5),
		"start_time":       "19:00",
		"max_participants": 1,
		"fee_amount":       50,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	event := decode[domain.Event](t, rec)
	assert.Equal(t, domain.EventDraft, event.Status)

	rec = ts.do(http.MethodGet, "/api/v1/events", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[response.EventListResponse](t, rec).Upcoming, "drafts are hidden")

	eventPath := fmt.Sprintf("/api/v1/events/%d", event.ID)
	rec = ts.do(http.MethodPost, fmt.Sprintf("/api/v1/admin/events/%d/publish", event.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	first, _ := ts.verifiedResident(adminToken, "aarav@boardy.local")
	second, _ := ts.verifiedResident(adminToken, "meera@boardy.local")

	rec = ts.do(http.MethodPost, eventPath+"/register", first, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reg := decode[domain.EventRegistration](t, rec)
	assert.Equal(t, domain.RegistrationPendingPayment, reg.Status)

	rec = ts.do(http.MethodPost, eventPath+"/register", first, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(http.MethodPost, eventPath+"/register", second, nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "event is full")

	rec = ts.do(http.MethodGet, eventPath, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[response.EventView](t, rec)
	assert.Equal(t, domain.EventFull, view.Status)
	assert.Equal(t, 0, view.SpotsLeft)

	regPath := fmt.Sprintf("/api/v1/registrations/%d", reg.ID)
	rec = ts.do(http.MethodPost, regPath+"/cancel", second, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(http.MethodPost, regPath+"/payment", first, gin.H{"payment_reference": "UPI-7788"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodGet, "/api/v1/admin/registrations?status=pending_approval", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.EventRegistration](t, rec), 1)

	rec = ts.do(http.MethodPost, fmt.Sprintf("/api/v1/admin/registrations/%d/reject", reg.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodPost, eventPath+"/register", second, nil)
	assert.Equal(t, http.StatusCreated, rec.Code, "rejected seat was released")

	rec = ts.do(http.MethodPost, fmt.Sprintf("/api/v1/admin/events/%d/complete", event.ID), adminToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "registration must be closed first")

	rec = ts.do(http.MethodPost, fmt.Sprintf("/api/v1/admin/events/%d/close", event.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodPost, fmt.Sprintf("/api/v1/admin/events/%d/complete", event.ID), adminToken, gin.H{"games_played": []string{"Catan"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodGet, "/api/v1/events", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[response.EventListResponse](t, rec)
	assert.Empty(t, list.Upcoming)
	require.Len(t, list.Past, 1)
	assert.Equal(t, []string{"Catan"}, list.Past[0].GamesPlayed)

	rec = ts.do(http.MethodGet, "/api/v1/users/me/people", second, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, decode[[]domain.PlayedWith](t, rec), "the rejected registration does not count")

	rec = ts.do(http.MethodGet, "/api/v1/users/me/people", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
