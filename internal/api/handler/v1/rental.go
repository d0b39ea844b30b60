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

type RentalService interface {
	RequestRental(ctx context.Context, req service.RentalRequest) (domain.Rental, error)
	GetRental(ctx context.Context, user domain.User, id uint) (domain.Rental, domain.Game, error)
	ListUserRentals(ctx context.Context, userID uint) ([]domain.Rental, error)
	ListRentals(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error)
	SubmitPayment(ctx context.Context, userID, id uint, reference string) (domain.Rental, error)
	ApprovePayment(ctx context.Context, id uint) (domain.Rental, error)
	RejectPayment(ctx context.Context, id uint) (domain.Rental, error)
	ConfirmPickup(ctx context.Context, id uint) (domain.Rental, error)
	RequestReturn(ctx context.Context, userID, id uint) (domain.Rental, error)
	CompleteReturn(ctx context.Context, id uint, fine domain.Fine, condition domain.GameStatus) (domain.Rental, error)
	Cancel(ctx context.Context, user domain.User, id uint) (domain.Rental, error)
	PayFine(ctx context.Context, userID, id uint) (domain.Rental, error)
}

type RentalHandler struct {
	svc  RentalService
	uSvc UserGetter
}

func NewRentalHandler(svc RentalService, uSvc UserGetter) *RentalHandler {
	return &RentalHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleCreateRental godoc
// @Summary      Request a rental
// @Tags         rentals
// @Produce      json
// @Param        request  body      request.CreateRentalRequest  true  "request body"
// @Success      201      {object}  domain.Rental
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /rentals [post]
// @Security     BearerAuth
func (h *RentalHandler) HandleCreateRental(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateRentalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	start, end := req.Dates()
	rental, err := h.svc.RequestRental(ctx.Request.Context(), service.RentalRequest{
		UserID:    userID,
		GameID:    req.GameID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("game", "ID", req.GameID))
			return
		}

		response.RenderErr(ctx, toResponseErr("v1.HandleCreateRental -> h.svc.RequestRental", err))
		return
	}

	ctx.JSON(http.StatusCreated, rental)
}

// HandleListMyRentals godoc
// @Summary      List the signed in user's rentals grouped as pending, active and history
// @Tags         rentals
// @Produce      json
// @Success      200  {object}  response.RentalGroupsResponse
// @Router       /rentals [get]
// @Security     BearerAuth
func (h *RentalHandler) HandleListMyRentals(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	rentals, err := h.svc.ListUserRentals(ctx.Request.Context(), userID)
	if err != nil {
		response.RenderErr(ctx, toResponseErr("v1.HandleListMyRentals -> h.svc.ListUserRentals", err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewRentalGroupsResponse(rentals))
}

// HandleGetRental godoc
// @Summary      Get a rental with its game and progress timeline
// @Tags         rentals
// @Produce      json
// @Param        rentalID  path      int   true   "Rental ID"
// @Param        all       query     bool  false  "show every timeline step"
// @Success      200       {object}  response.RentalDetailResponse
// @Failure      403       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Router       /rentals/{rentalID} [get]
// @Security     BearerAuth
func (h *RentalHandler) HandleGetRental(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	rentalID, respErr := parseIDParam(ctx, "rentalID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	showAll, _ := strconv.ParseBool(ctx.Query("all"))

	rental, game, err := h.svc.GetRental(ctx.Request.Context(), user, rentalID)
	if err != nil {
		h.renderErr(ctx, "v1.HandleGetRental -> h.svc.GetRental", rentalID, err)
		return
	}

	ctx.JSON(http.StatusOK, response.RentalDetailResponse{
		Rental:   rental,
		Game:     game,
		Timeline: domain.RentalTimeline(rental.Status, showAll),
	})
}

// HandleSubmitPayment godoc
// @Summary      Submit the UPI reference of a rental payment
// @Tags         rentals
// @Produce      json
// @Param        rentalID  path      int                     true  "Rental ID"
// @Param        request   body      request.PaymentRequest  true  "request body"
// @Success      200       {object}  domain.Rental
// @Failure      400       {object}  response.Err
// @Failure      409       {object}  response.Err
// @Router       /rentals/{rentalID}/payment [post]
// @Security     BearerAuth
func (h *RentalHandler) HandleSubmitPayment(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	rentalID, respErr := parseIDParam(ctx, "rentalID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.PaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	rental, err := h.svc.SubmitPayment(ctx.Request.Context(), userID, rentalID, req.PaymentReference)
	if err != nil {
		h.renderErr(ctx, "v1.HandleSubmitPayment -> h.svc.SubmitPayment", rentalID, err)
		return
	}

	ctx.JSON(http.StatusOK, rental)
}

// HandleRequestReturn godoc
// @Summary      Ask to return a rented game
// @Tags         rentals
// @Produce      json
// @Param        rentalID  path      int  true  "Rental ID"
// @Success      200       {object}  domain.Rental
// @Failure      409       {object}  response.Err
// @Router       /rentals/{rentalID}/return [post]
// @Security     BearerAuth
func (h *RentalHandler) HandleRequestReturn(ctx *gin.Context) {
	h.ownerAction(ctx, "v1.HandleRequestReturn -> h.svc.RequestReturn", h.svc.RequestReturn)
}

// HandlePayFine godoc
// @Summary      Mark a rental fine as paid
// @Tags         rentals
// @Produce      json
// @Param        rentalID  path      int  true  "Rental ID"
// @Success      200       {object}  domain.Rental
// @Failure      409       {object}  response.Err
// @Router       /rentals/{rentalID}/fine/pay [post]
// @Security     BearerAuth
func (h *RentalHandler) HandlePayFine(ctx *gin.Context) {
	h.ownerAction(ctx, "v1.HandlePayFine -> h.svc.PayFine", h.svc.PayFine)
}

// HandleCancelRental godoc
// @Summary      Cancel a rental
// @Tags         rentals
// @Produce      json
// @Param        rentalID  path      int  true  "Rental ID"
// @Success      200       {object}  domain.Rental
// @Failure      403       {object}  response.Err
// @Failure      409       {object}  response.Err
// @Router       /rentals/{rentalID}/cancel [post]
// @Security     BearerAuth
func (h *RentalHandler) HandleCancelRental(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	rentalID, respErr := parseIDParam(ctx, "rentalID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	rental, err := h.svc.Cancel(ctx.Request.Context(), user, rentalID)
	if err != nil {
		h.renderErr(ctx, "v1.HandleCancelRental -> h.svc.Cancel", rentalID, err)
		return
	}

	ctx.JSON(http.StatusOK, rental)
}

// HandleListRentals godoc
// @Summary      List rentals for the admin queue
// @Tags         admin
// @Produce      json
// @Param        status  query     string  false  "rental status"
// @Success      200     {array}   domain.Rental
// @Failure      400     {object}  response.Err
// @Router       /admin/rentals [get]
// @Security     BearerAuth
func (h *RentalHandler) HandleListRentals(ctx *gin.Context) {
	rentals, err := h.svc.ListRentals(ctx.Request.Context(), domain.RentalStatus(ctx.Query("status")))
	if err != nil {
		response.RenderErr(ctx, toResponseErr("v1.HandleListRentals -> h.svc.ListRentals", err))
		return
	}

	ctx.JSON(http.StatusOK, rentals)
}

// HandleApproveRental godoc
// @Summary      Approve a rental payment and book the game
// @Tags         admin
// @Produce      json
// @Param        rentalID  path      int  true  "Rental ID"
// @Success      200       {object}  domain.Rental
// @Failure      409       {object}  response.Err
// @Router       /admin/rentals/{rentalID}/approve [post]
// @Security     BearerAuth
func (h *RentalHandler) HandleApproveRental(ctx *gin.Context) {
	h.adminAction(ctx, "v1.HandleApproveRental -> h.svc.ApprovePayment", h.svc.ApprovePayment)
}

// HandleRejectRental godoc
// @Summary      Reject a rental payment
// @Tags         admin
// @Produce      json
// @Param        rentalID  path      int  true  "Rental ID"
// @Success      200       {object}  domain.Rental
// @Failure      409       {object}  response.Err
// @Router       /admin/rentals/{rentalID}/reject [post]
// @Security     BearerAuth
func (h *RentalHandler) HandleRejectRental(ctx *gin.Context) {
	h.adminAction(ctx, "v1.HandleRejectRental -> h.svc.RejectPayment", h.svc.RejectPayment)
}

// HandleConfirmPickup godoc
// @Summary      Record that the resident picked the game up
// @Tags         admin
// @Produce      json
// @Param        rentalID  path      int  true  "Rental ID"
// @Success      200       {object}  domain.Rental
// @Failure      409       {object}  response.Err
// @Router       /admin/rentals/{rentalID}/pickup [post]
// @Security     BearerAuth
func (h *RentalHandler) HandleConfirmPickup(ctx *gin.Context) {
	h.adminAction(ctx, "v1.HandleConfirmPickup -> h.svc.ConfirmPickup", h.svc.ConfirmPickup)
}

// HandleCompleteReturn godoc
// @Summary      Complete a return after inspection
// @Tags         admin
// @Produce      json
// @Param        rentalID  path      int                            true  "Rental ID"
// @Param        request   body      request.CompleteReturnRequest  false "fine and condition"
// @Success      200       {object}  domain.Rental
// @Failure      400       {object}  response.Err
// @Failure      409       {object}  response.Err
// @Router       /admin/rentals/{rentalID}/complete [post]
// @Security     BearerAuth
func (h *RentalHandler) HandleCompleteReturn(ctx *gin.Context) {
	rentalID, respErr := parseIDParam(ctx, "rentalID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CompleteReturnRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	rental, err := h.svc.CompleteReturn(ctx.Request.Context(), rentalID, req.Fine(), domain.GameStatus(req.Condition))
	if err != nil {
		h.renderErr(ctx, "v1.HandleCompleteReturn -> h.svc.CompleteReturn", rentalID, err)
		return
	}

	ctx.JSON(http.StatusOK, rental)
}

func (h *RentalHandler) ownerAction(ctx *gin.Context, op string, action func(ctx context.Context, userID, id uint) (domain.Rental, error)) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	rentalID, respErr := parseIDParam(ctx, "rentalID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	rental, err := action(ctx.Request.Context(), userID, rentalID)
	if err != nil {
		h.renderErr(ctx, op, rentalID, err)
		return
	}

	ctx.JSON(http.StatusOK, rental)
}

func (h *RentalHandler) adminAction(ctx *gin.Context, op string, action func(ctx context.Context, id uint) (domain.Rental, error)) {
	rentalID, respErr := parseIDParam(ctx, "rentalID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	rental, err := action(ctx.Request.Context(), rentalID)
	if err != nil {
		h.renderErr(ctx, op, rentalID, err)
		return
	}

	ctx.JSON(http.StatusOK, rental)
}

func (h *RentalHandler) renderErr(ctx *gin.Context, op string, rentalID uint, err error) {
	if errors.Is(err, service.ErrRentalNotFound) {
		response.RenderErr(ctx, response.ErrNotFound("rental", "ID", rentalID))
		return
	}

	response.RenderErr(ctx, toResponseErr(op, err))
}
