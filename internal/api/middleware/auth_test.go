package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardy-hostel/boardy-api/internal/domain"
	"github.com/boardy-hostel/boardy-api/internal/pkg/jwthelper"
)

const testKey = "test-key"

type fakeUsers map[uint]domain.User

func (f fakeUsers) GetUser(_ context.Context, id uint) (domain.User, error) {
	u, ok := f[id]
	if !ok {
		return domain.User{}, errors.New("user not found")
	}
	return u, nil
}

func newRouter(users UserFinder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := NewAuthenticator(testKey)

	r.GET("/me", auth.VerifyJWT(), func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"user_id": ctx.GetUint(ContextUserIDKey)})
	})
	r.GET("/admin", auth.VerifyJWT(), RequireAdmin(users), func(ctx *gin.Context) {
		ctx.Status(http.StatusNoContent)
	})
	return r
}

func token(t *testing.T, userID uint) string {
	t.Helper()
	tok, err := jwthelper.GenerateToken([]byte(testKey), userID, "test", time.Hour)
	require.NoError(t, err)
	return tok
}

func TestVerifyJWT(t *testing.T) {
	r := newRouter(fakeUsers{})

	tests := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{name: "missing", want: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "valid header", header: "Bearer " + token(t, 3), want: http.StatusOK},
		{name: "valid query", query: "?token=" + token(t, 3), want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				assert.JSONEq(t, `{"user_id":3}`, rec.Body.String())
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	r := newRouter(fakeUsers{
		1: {ID: 1, IsAdmin: true},
		2: {ID: 2},
	})

	for id, want := range map[uint]int{1: http.StatusNoContent, 2: http.StatusForbidden, 9: http.StatusUnauthorized} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token(t, id))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, want, rec.Code, "user %d", id)
	}
}
