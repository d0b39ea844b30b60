package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardy-hostel/boardy-api/internal/domain"
)

func validSignup() SignupRequest {
	return SignupRequest{
		Email:           "aarav@boardy.local",
		Password:        "boardgames1",
		ConfirmPassword: "boardgames1",
		Name:            "Aarav",
		Phone:           "+919000000002",
		RoomNumber:      "A-101",
	}
}

func TestSignupRequestValidate(t *testing.T) {
	req := validSignup()
	require.NoError(t, req.Validate())

	tests := []struct {
		name    string
		mutate  func(*SignupRequest)
		wantErr error
	}{
		{"letters only", func(r *SignupRequest) { r.Password, r.ConfirmPassword = "boardgames", "boardgames" }, errInvalidPassword},
		{"digits only", func(r *SignupRequest) { r.Password, r.ConfirmPassword = "12345678", "12345678" }, errInvalidPassword},
		{"too short", func(r *SignupRequest) { r.Password, r.ConfirmPassword = "abc123", "abc123" }, errInvalidPassword},
		{"mismatch", func(r *SignupRequest) { r.ConfirmPassword = "boardgames2" }, errConfirmPasswordMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSignup()
			tt.mutate(&req)
			assert.ErrorIs(t, req.Validate(), tt.wantErr)
		})
	}

	bad := validSignup()
	bad.Email = "not-an-email"
	assert.Error(t, bad.Validate())

	bad = validSignup()
	bad.Phone = "12ab"
	assert.Error(t, bad.Validate())
}

func TestLoginRequestValidate(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"meera@boardy.local", false},
		{"Meera.Iyer+games@hostel.example.org", false},
		{"", true},
		{"meera", true},
		{"meera@", true},
	}
	for _, tt := range tests {
		req := LoginRequest{Email: tt.email, Password: "secret123"}
		if tt.wantErr {
			assert.Error(t, req.Validate(), tt.email)
		} else {
			assert.NoError(t, req.Validate(), tt.email)
		}
	}
}

func TestGameListQueryFilter(t *testing.T) {
	q := GameListQuery{}
	require.NoError(t, q.Validate())
	assert.Equal(t, domain.DefaultGameFilter(), q.Filter())
	assert.False(t, q.Filter().HasFilters())

	zero, four := 0, 4
	q = GameListQuery{Category: "party", Players: &four, Complexity: &zero, Status: "available"}
	require.NoError(t, q.Validate())
	f := q.Filter()
	assert.Equal(t, "party", f.Category)
	assert.Equal(t, 4, f.Players)
	assert.Equal(t, 0, f.Complexity)
	assert.Equal(t, domain.DefaultFilterDuration, f.Duration)
	assert.True(t, f.HasFilters())

	q = GameListQuery{Category: "sports"}
	assert.Error(t, q.Validate())

	six := 6
	q = GameListQuery{Complexity: &six}
	assert.Error(t, q.Validate())

	q = GameListQuery{Duration: &zero}
	assert.Error(t, q.Validate())

	q = GameListQuery{Players: &zero}
	assert.Error(t, q.Validate())

	one := 1
	q = GameListQuery{Players: &one, Duration: &one}
	assert.NoError(t, q.Validate())
}

func TestGameRequestValidate(t *testing.T) {
	req := GameRequest{
		Name: "Catan", Category: "strategy", MinPlayers: 3, MaxPlayers: 4,
		DurationMinutes: 90, Complexity: 2, Components: []string{"board"},
		Images: []string{"https://example.com/catan.jpg"},
	}
	require.NoError(t, req.Validate())

	req.MaxPlayers = 2
	assert.Error(t, req.Validate())

	req.MaxPlayers = 4
	req.Category = domain.FilterAll
	assert.Error(t, req.Validate())

	req.Category = "strategy"
	req.Images = []string{"not a url"}
	assert.Error(t, req.Validate())

	req.Images = nil
	req.Components = []string{"board", ""}
	assert.Error(t, req.Validate())
}

func TestCreateRentalRequest(t *testing.T) {
	req := CreateRentalRequest{GameID: 1, StartDate: "2026-10-20", EndDate: "2026-10-22"}
	require.NoError(t, req.Validate())

	start, end := req.Dates()
	assert.Equal(t, 20, start.Day())
	assert.Equal(t, 22, end.Day())

	req.EndDate = "2026-10-19"
	assert.ErrorIs(t, req.Validate(), errEndBeforeStart)

	req.EndDate = "22/10/2026"
	assert.Error(t, req.Validate())
}

func TestCompleteReturnRequest(t *testing.T) {
	req := CompleteReturnRequest{}
	require.NoError(t, req.Validate())
	assert.Equal(t, domain.Fine{}, req.Fine())

	req = CompleteReturnRequest{FineAmount: 150}
	assert.ErrorIs(t, req.Validate(), errFineNeedsReason)

	req.FineReason = "torn cards"
	req.Condition = "booked"
	assert.Error(t, req.Validate())

	req.Condition = "partially_playable"
	assert.NoError(t, req.Validate())
}

func TestCreateEventRequest(t *testing.T) {
	req := CreateEventRequest{Title: "Strategy Night", EventDate: "2026-10-24", StartTime: "19:00", MaxParticipants: 16}
	require.NoError(t, req.Validate())

	e := req.ToDomain()
	assert.Equal(t, 24, e.EventDate.Day())
	assert.Equal(t, "19:00", e.StartTime)

	req.StartTime = "7pm"
	assert.Error(t, req.Validate())
}
