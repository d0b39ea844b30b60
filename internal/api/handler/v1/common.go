package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/boardy-hostel/boardy-api/internal/api/handler/v1/response"
	"github.com/boardy-hostel/boardy-api/internal/api/middleware"
	"github.com/boardy-hostel/boardy-api/internal/domain"
	"github.com/boardy-hostel/boardy-api/internal/service"
)

var errMissingUser = errors.New("no authenticated user in context")

// UserGetter resolves the authenticated user for handlers that need more
// than the id carried by the token.
type UserGetter interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

// HandleHealthcheck godoc
// @Summary      Healthcheck
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func getUserIDFromContext(ctx *gin.Context) (uint, *response.Err) {
	userID := ctx.GetUint(middleware.ContextUserIDKey)
	if userID == 0 {
		return 0, response.ErrUnauthorized(errMissingUser)
	}

	return userID, nil
}

func getUserFromContext(ctx *gin.Context, uSvc UserGetter) (domain.User, *response.Err) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		return domain.User{}, respErr
	}

	user, err := uSvc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.User{}, response.ErrUnauthorized(err)
		}

		err = fmt.Errorf("getUserFromContext -> uSvc.GetUser -> %w", err)
		return domain.User{}, response.ErrInternalServerError(err)
	}

	return user, nil
}

func parseIDParam(ctx *gin.Context, name string) (uint, *response.Err) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid %s %q", name, ctx.Param(name)))
	}

	return uint(id), nil
}

// toResponseErr maps the errors every resource shares. op names the failing
// call for the log line of unexpected errors.
func toResponseErr(op string, err error) *response.Err {
	switch {
	case errors.Is(err, domain.ErrInvalidGame),
		errors.Is(err, domain.ErrInvalidRental),
		errors.Is(err, domain.ErrInvalidEvent),
		errors.Is(err, service.ErrRentalTooLong),
		errors.Is(err, service.ErrRentalStartsInPast),
		errors.Is(err, service.ErrInvalidCondition),
		errors.Is(err, service.ErrEmptyWarningReason):
		return response.ErrBadRequest(err)

	case errors.Is(err, service.ErrNotRentalOwner),
		errors.Is(err, service.ErrNotRegistrationOwner),
		errors.Is(err, service.ErrUserNotVerified):
		return response.ErrPermissionDenied(err)

	case errors.Is(err, domain.ErrInvalidRentalTransition),
		errors.Is(err, domain.ErrInvalidEventTransition),
		errors.Is(err, domain.ErrInvalidRegistrationTransition),
		errors.Is(err, domain.ErrNoPendingFine),
		errors.Is(err, service.ErrRentalStatusConflict),
		errors.Is(err, service.ErrEventConflict),
		errors.Is(err, service.ErrRegistrationConflict),
		errors.Is(err, service.ErrGameNotAvailable),
		errors.Is(err, service.ErrGameInUse),
		errors.Is(err, service.ErrGameRentable),
		errors.Is(err, service.ErrAlreadyWatching),
		errors.Is(err, service.ErrAlreadyRegistered),
		errors.Is(err, service.ErrEventFull),
		errors.Is(err, service.ErrEventNotOpen):
		return response.ErrConflict(err)
	}

	return response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err))
}
