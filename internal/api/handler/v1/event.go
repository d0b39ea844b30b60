package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/boardy-hostel/boardy-api/internal/api/handler/v1/request"
	"github.com/boardy-hostel/boardy-api/internal/api/handler/v1/response"
	"github.com/boardy-hostel/boardy-api/internal/domain"
	"github.com/boardy-hostel/boardy-api/internal/service"
)

type EventService interface {
	ListEvents(ctx context.Context) (upcoming, past []domain.Event, err error)
	ListAllEvents(ctx context.Context) ([]domain.Event, error)
	GetEvent(ctx context.Context, id uint) (domain.Event, error)
	CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	PublishEvent(ctx context.Context, id uint) (domain.Event, error)
	CloseEvent(ctx context.Context, id uint) (domain.Event, error)
	CompleteEvent(ctx context.Context, id uint, gamesPlayed []string) (domain.Event, error)
	CancelEvent(ctx context.Context, id uint) (domain.Event, error)
	Register(ctx context.Context, userID, eventID uint) (domain.EventRegistration, error)
	ListUserRegistrations(ctx context.Context, userID uint) ([]domain.EventRegistration, error)
	ListRegistrations(ctx context.Context, status domain.RegistrationStatus) ([]domain.EventRegistration, error)
	SubmitRegistrationPayment(ctx context.Context, userID, id uint, reference string) (domain.EventRegistration, error)
	ApproveRegistration(ctx context.Context, id uint) (domain.EventRegistration, error)
	RejectRegistration(ctx context.Context, id uint) (domain.EventRegistration, error)
	CancelRegistration(ctx context.Context, user domain.User, id uint) (domain.EventRegistration, error)
}

type EventHandler struct {
	svc  EventService
	uSvc UserGetter
}

func NewEventHandler(svc EventService, uSvc UserGetter) *EventHandler {
	return &EventHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListEvents godoc
// @Summary      List published events split into upcoming and past
// @Tags         events
// @Produce      json
// @Success      200  {object}  response.EventListResponse
// @Router       /events [get]
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	upcoming, past, err := h.svc.ListEvents(ctx.Request.Context())
	if err != nil {
		response.RenderErr(ctx, toResponseErr("v1.HandleListEvents -> h.svc.ListEvents", err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewEventListResponse(append(upcoming, past...)))
}

// HandleGetEvent godoc
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  response.EventView
// @Failure      404      {object}  response.Err
// @Router       /events/{eventID} [get]
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	event, err := h.svc.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		h.renderErr(ctx, "v1.HandleGetEvent -> h.svc.GetEvent", eventID, err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewEventView(event))
}

// HandleRegister godoc
// @Summary      Register for an event
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      201      {object}  domain.EventRegistration
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /events/{eventID}/register [post]
// @Security     BearerAuth
func (h *EventHandler) HandleRegister(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	reg, err := h.svc.Register(ctx.Request.Context(), userID, eventID)
	if err != nil {
		h.renderErr(ctx, "v1.HandleRegister -> h.svc.Register", eventID, err)
		return
	}

	ctx.JSON(http.StatusCreated, reg)
}

// HandleListMyRegistrations godoc
// @Summary      List the signed in user's event registrations
// @Tags         events
// @Produce      json
// @Success      200  {array}  domain.EventRegistration
// @Router       /registrations [get]
// @Security     BearerAuth
func (h *EventHandler) HandleListMyRegistrations(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	regs, err := h.svc.ListUserRegistrations(ctx.Request.Context(), userID)
	if err != nil {
		response.RenderErr(ctx, toResponseErr("v1.HandleListMyRegistrations -> h.svc.ListUserRegistrations", err))
		return
	}

	ctx.JSON(http.StatusOK, regs)
}

// HandleSubmitRegistrationPayment godoc
// @Summary      Submit the UPI reference of an event fee
// @Tags         events
// @Produce      json
// @Param        registrationID  path      int                     true  "Registration ID"
// @Param        request         body      request.PaymentRequest  true  "request body"
// @Success      200             {object}  domain.EventRegistration
// @Failure      400             {object}  response.Err
// @Failure      409             {object}  response.Err
// @Router       /registrations/{registrationID}/payment [post]
// @Security     BearerAuth
func (h *EventHandler) HandleSubmitRegistrationPayment(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	regID, respErr := parseIDParam(ctx, "registrationID")
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

	reg, err := h.svc.SubmitRegistrationPayment(ctx.Request.Context(), userID, regID, req.PaymentReference)
	if err != nil {
		h.renderRegistrationErr(ctx, "v1.HandleSubmitRegistrationPayment -> h.svc.SubmitRegistrationPayment", regID, err)
		return
	}

	ctx.JSON(http.StatusOK, reg)
}

// HandleCancelRegistration godoc
// @Summary      Cancel an event registration and free the seat
// @Tags         events
// @Produce      json
// @Param        registrationID  path      int  true  "Registration ID"
// @Success      200             {object}  domain.EventRegistration
// @Failure      403             {object}  response.Err
// @Failure      409             {object}  response.Err
// @Router       /registrations/{registrationID}/cancel [post]
// @Security     BearerAuth
func (h *EventHandler) HandleCancelRegistration(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	regID, respErr := parseIDParam(ctx, "registrationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	reg, err := h.svc.CancelRegistration(ctx.Request.Context(), user, regID)
	if err != nil {
		h.renderRegistrationErr(ctx, "v1.HandleCancelRegistration -> h.svc.CancelRegistration", regID, err)
		return
	}

	ctx.JSON(http.StatusOK, reg)
}

// HandleListAllEvents godoc
// @Summary      List every event including drafts
// @Tags         admin
// @Produce      json
// @Success      200  {array}  response.EventView
// @Router       /admin/events [get]
// @Security     BearerAuth
func (h *EventHandler) HandleListAllEvents(ctx *gin.Context) {
	events, err := h.svc.ListAllEvents(ctx.Request.Context())
	if err != nil {
		response.RenderErr(ctx, toResponseErr("v1.HandleListAllEvents -> h.svc.ListAllEvents", err))
		return
	}

	views := make([]response.EventView, 0, len(events))
	for _, e := range events {
		views = append(views, response.NewEventView(e))
	}

	ctx.JSON(http.StatusOK, views)
}

// HandleCreateEvent godoc
// @Summary      Create a draft event
// @Tags         admin
// @Produce      json
// @Param        request  body      request.CreateEventRequest  true  "request body"
// @Success      201      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Router       /admin/events [post]
// @Security     BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.CreateEvent(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		response.RenderErr(ctx, toResponseErr("v1.HandleCreateEvent -> h.svc.CreateEvent", err))
		return
	}

	ctx.JSON(http.StatusCreated, event)
}

// HandlePublishEvent godoc
// @Summary      Open a draft event for registration
// @Tags         admin
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  domain.Event
// @Failure      409      {object}  response.Err
// @Router       /admin/events/{eventID}/publish [post]
// @Security     BearerAuth
func (h *EventHandler) HandlePublishEvent(ctx *gin.Context) {
	h.eventAction(ctx, "v1.HandlePublishEvent -> h.svc.PublishEvent", h.svc.PublishEvent)
}

// HandleCloseEvent godoc
// @Summary      Close registration for an event
// @Tags         admin
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  domain.Event
// @Failure      409      {object}  response.Err
// @Router       /admin/events/{eventID}/close [post]
// @Security     BearerAuth
func (h *EventHandler) HandleCloseEvent(ctx *gin.Context) {
	h.eventAction(ctx, "v1.HandleCloseEvent -> h.svc.CloseEvent", h.svc.CloseEvent)
}

// HandleCancelEvent godoc
// @Summary      Cancel an event
// @Tags         admin
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  domain.Event
// @Failure      409      {object}  response.Err
// @Router       /admin/events/{eventID}/cancel [post]
// @Security     BearerAuth
func (h *EventHandler) HandleCancelEvent(ctx *gin.Context) {
	h.eventAction(ctx, "v1.HandleCancelEvent -> h.svc.CancelEvent", h.svc.CancelEvent)
}

// HandleCompleteEvent godoc
// @Summary      Mark an event as completed
// @Tags         admin
// @Produce      json
// @Param        eventID  path      int                           true   "Event ID"
// @Param        request  body      request.CompleteEventRequest  false  "games played"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /admin/events/{eventID}/complete [post]
// @Security     BearerAuth
func (h *EventHandler) HandleCompleteEvent(ctx *gin.Context) {
	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CompleteEventRequest
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

	event, err := h.svc.CompleteEvent(ctx.Request.Context(), eventID, req.GamesPlayed)
	if err != nil {
		h.renderErr(ctx, "v1.HandleCompleteEvent -> h.svc.CompleteEvent", eventID, err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleListRegistrations godoc
// @Summary      List registrations for the admin queue
// @Tags         admin
// @Produce      json
// @Param        status  query     string  false  "registration status"
// @Success      200     {array}   domain.EventRegistration
// @Failure      400     {object}  response.Err
// @Router       /admin/registrations [get]
// @Security     BearerAuth
func (h *EventHandler) HandleListRegistrations(ctx *gin.Context) {
	regs, err := h.svc.ListRegistrations(ctx.Request.Context(), domain.RegistrationStatus(ctx.Query("status")))
	if err != nil {
		response.RenderErr(ctx, toResponseErr("v1.HandleListRegistrations -> h.svc.ListRegistrations", err))
		return
	}

	ctx.JSON(http.StatusOK, regs)
}

// HandleApproveRegistration godoc
// @Summary      Approve an event fee payment
// @Tags         admin
// @Produce      json
// @Param        registrationID  path      int  true  "Registration ID"
// @Success      200             {object}  domain.EventRegistration
// @Failure      409             {object}  response.Err
// @Router       /admin/registrations/{registrationID}/approve [post]
// @Security     BearerAuth
func (h *EventHandler) HandleApproveRegistration(ctx *gin.Context) {
	h.registrationAction(ctx, "v1.HandleApproveRegistration -> h.svc.ApproveRegistration", h.svc.ApproveRegistration)
}

// HandleRejectRegistration godoc
// @Summary      Reject an event fee payment
// @Tags         admin
// @Produce      json
// @Param        registrationID  path      int  true  "Registration ID"
// @Success      200             {object}  domain.EventRegistration
// @Failure      409             {object}  response.Err
// @Router       /admin/registrations/{registrationID}/reject [post]
// @Security     BearerAuth
func (h *EventHandler) HandleRejectRegistration(ctx *gin.Context) {
	h.registrationAction(ctx, "v1.HandleRejectRegistration -> h.svc.RejectRegistration", h.svc.RejectRegistration)
}

func (h *EventHandler) eventAction(ctx *gin.Context, op string, action func(ctx context.Context, id uint) (domain.Event, error)) {
	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	event, err := action(ctx.Request.Context(), eventID)
	if err != nil {
		h.renderErr(ctx, op, eventID, err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

func (h *EventHandler) registrationAction(ctx *gin.Context, op string, action func(ctx context.Context, id uint) (domain.EventRegistration, error)) {
	regID, respErr := parseIDParam(ctx, "registrationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	reg, err := action(ctx.Request.Context(), regID)
	if err != nil {
		h.renderRegistrationErr(ctx, op, regID, err)
		return
	}

	ctx.JSON(http.StatusOK, reg)
}

func (h *EventHandler) renderErr(ctx *gin.Context, op string, eventID uint, err error) {
	if errors.Is(err, service.ErrEventNotFound) {
		response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		return
	}

	response.RenderErr(ctx, toResponseErr(op, err))
}

func (h *EventHandler) renderRegistrationErr(ctx *gin.Context, op string, regID uint, err error) {
	if errors.Is(err, service.ErrRegistrationNotFound) {
		response.RenderErr(ctx, response.ErrNotFound("registration", "ID", regID))
		return
	}

	response.RenderErr(ctx, toResponseErr(op, err))
}
