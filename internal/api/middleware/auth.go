package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/boardy-hostel/boardy-api/internal/api/handler/v1/response"
	"github.com/boardy-hostel/boardy-api/internal/domain"
	"github.com/boardy-hostel/boardy-api/internal/pkg/jwthelper"
)

// ContextUserIDKey is where VerifyJWT stores the authenticated user id.
const ContextUserIDKey = "userID"

var (
	errMissingToken = errors.New("missing bearer token")
	errNotAdmin     = errors.New("admin access required")
)

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := bearerToken(ctx)
		if tokenString == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, tokenString)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(fmt.Errorf("jwthelper.ParseToken -> %w", err)))
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Next()
	}
}

// bearerToken reads the Authorization header. Browsers cannot set headers on
// websocket upgrades, so a "token" query parameter is accepted as well.
func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ctx.Query("token")
}

type UserFinder interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

// RequireAdmin must be mounted after VerifyJWT.
func RequireAdmin(users UserFinder) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := ctx.GetUint(ContextUserIDKey)
		if userID == 0 {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}

		user, err := users.GetUser(ctx.Request.Context(), userID)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(fmt.Errorf("users.GetUser -> %w", err)))
			return
		}

		if !user.IsAdmin {
			response.RenderErr(ctx, response.ErrPermissionDenied(errNotAdmin))
			return
		}

		ctx.Next()
	}
}
