package v1

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/boardy-hostel/boardy-api/internal/api/handler/v1/request"
	"github.com/boardy-hostel/boardy-api/internal/api/handler/v1/response"
	"github.com/boardy-hostel/boardy-api/internal/domain"
	"github.com/boardy-hostel/boardy-api/internal/service"
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
	GetStats(ctx context.Context, id uint) (domain.UserStats, error)
	PeoplePlayedWith(ctx context.Context, id uint) ([]domain.PlayedWith, error)
	ListUsers(ctx context.Context, verified *bool) ([]domain.User, error)
	VerifyUser(ctx context.Context, id uint) (domain.User, error)
}

type WarningService interface {
	Issue(ctx context.Context, adminID, userID uint, reason string) (domain.Warning, error)
	ListForUser(ctx context.Context, userID uint) ([]domain.Warning, error)
}

type UserHandler struct {
	svc      UserService
	warnings WarningService
}

func NewUserHandler(svc UserService, warnings WarningService) *UserHandler {
	return &UserHandler{
		svc:      svc,
		warnings: warnings,
	}
}

// HandleGetMe godoc
// @Summary      Get the signed in user with their stats
// @Tags         users
// @Produce      json
// @Success      200  {object}  response.ProfileResponse
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users/me [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetMe(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	stats, err := h.svc.GetStats(ctx.Request.Context(), user.ID)
	if err != nil {
		response.RenderErr(ctx, toResponseErr("v1.HandleGetMe -> h.svc.GetStats", err))
		return
	}

	ctx.JSON(http.StatusOK, response.ProfileResponse{User: user, Stats: stats})
}

// HandleGetMyStats godoc
// @Summary      Get rental, event and warning counts of the signed in user
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.UserStats
// @Failure      401  {object}  response.Err
// @Router       /users/me/stats [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetMyStats(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	stats, err := h.svc.GetStats(ctx.Request.Context(), userID)
	if err != nil {
		response.RenderErr(ctx, toResponseErr("v1.HandleGetMyStats -> h.svc.GetStats", err))
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// HandleGetMyPeople godoc
// @Summary      List residents who attended the same events as the signed in user
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.PlayedWith
// @Failure      401  {object}  response.Err
// @Router       /users/me/people [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetMyPeople(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	people, err := h.svc.PeoplePlayedWith(ctx.Request.Context(), userID)
	if err != nil {
		response.RenderErr(ctx, toResponseErr("v1.HandleGetMyPeople -> h.svc.PeoplePlayedWith", err))
		return
	}

	ctx.JSON(http.StatusOK, people)
}

// HandleGetMyWarnings godoc
// @Summary      List warnings issued to the signed in user
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.Warning
// @Failure      401  {object}  response.Err
// @Router       /users/me/warnings [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetMyWarnings(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	warnings, err := h.warnings.ListForUser(ctx.Request.Context(), userID)
	if err != nil {
		response.RenderErr(ctx, toResponseErr("v1.HandleGetMyWarnings -> h.warnings.ListForUser", err))
		return
	}

	ctx.JSON(http.StatusOK, warnings)
}

// HandleListUsers godoc
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Param        verified  query     bool  false  "filter on verification"
// @Success      200       {array}   domain.User
// @Failure      400       {object}  response.Err
// @Failure      403       {object}  response.Err
// @Router       /admin/users [get]
// @Security     BearerAuth
func (h *UserHandler) HandleListUsers(ctx *gin.Context) {
	var verified *bool
	if raw := ctx.Query("verified"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
		verified = &v
	}

	users, err := h.svc.ListUsers(ctx.Request.Context(), verified)
	if err != nil {
		response.RenderErr(ctx, toResponseErr("v1.HandleListUsers -> h.svc.ListUsers", err))
		return
	}

	ctx.JSON(http.StatusOK, users)
}

// HandleVerifyUser godoc
// @Summary      Verify a resident
// @Tags         admin
// @Produce      json
// @Param        userID  path      int  true  "User ID"
// @Success      200     {object}  domain.User
// @Failure      404     {object}  response.Err
// @Router       /admin/users/{userID}/verify [post]
// @Security     BearerAuth
func (h *UserHandler) HandleVerifyUser(ctx *gin.Context) {
	userID, respErr := parseIDParam(ctx, "userID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	user, err := h.svc.VerifyUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))
			return
		}

		response.RenderErr(ctx, toResponseErr("v1.HandleVerifyUser -> h.svc.VerifyUser", err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleIssueWarning godoc
// @Summary      Issue a warning to a resident
// @Tags         admin
// @Produce      json
// @Param        userID   path      int                     true  "User ID"
// @Param        request  body      request.WarningRequest  true  "request body"
// @Success      201      {object}  domain.Warning
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /admin/users/{userID}/warnings [post]
// @Security     BearerAuth
func (h *UserHandler) HandleIssueWarning(ctx *gin.Context) {
	adminID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	userID, respErr := parseIDParam(ctx, "userID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.WarningRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	warning, err := h.warnings.Issue(ctx.Request.Context(), adminID, userID, req.Reason)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))
			return
		}

		response.RenderErr(ctx, toResponseErr("v1.HandleIssueWarning -> h.warnings.Issue", err))
		return
	}

	ctx.JSON(http.StatusCreated, warning)
}
