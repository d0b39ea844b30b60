package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/boardy-hostel/boardy-api/internal/api/handler/v1/request"
	"github.com/boardy-hostel/boardy-api/internal/api/handler/v1/response"
	"github.com/boardy-hostel/boardy-api/internal/domain"
	"github.com/boardy-hostel/boardy-api/internal/service"
)

type AuthService interface {
	Signup(ctx context.Context, user domain.User) (domain.User, error)
	Login(ctx context.Context, email, password, userAgent string) (service.Session, error)
}

type AuthHandler struct {
	svc AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{
		svc: svc,
	}
}

// HandleSignup godoc
// @Summary      Create a resident account, pending admin verification
// @Tags         auth
// @Produce      json
// @Param        request  body      request.SignupRequest  true  "request body"
// @Success      201      {object}  domain.User
// @Failure      400      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /auth/signup [post]
func (h *AuthHandler) HandleSignup(ctx *gin.Context) {
	var req request.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.Signup(ctx.Request.Context(), req.ToDomain())
	switch {
	case errors.Is(err, service.ErrUserEmailExists):
		response.RenderErr(ctx, response.ErrConflict(service.ErrUserEmailExists))
		return
	case err != nil:
		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("v1.HandleSignup -> h.svc.Signup -> %w", err)))
		return
	}

	ctx.JSON(http.StatusCreated, user)
}

// HandleLogin godoc
// @Summary      Exchange email and password for a bearer token
// @Tags         auth
// @Produce      json
// @Param        request  body      request.LoginRequest  true  "request body"
// @Success      200      {object}  response.LoginResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	var req request.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	session, err := h.svc.Login(ctx.Request.Context(), req.Email, req.Password, ctx.Request.UserAgent())
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.RenderErr(ctx, response.ErrWrongCredentials(err))
		return
	case err != nil:
		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      session.User,
	})
}
