package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/boardy-hostel/boardy-api/internal/api/handler/v1/request"
	"github.com/boardy-hostel/boardy-api/internal/api/handler/v1/response"
	"github.com/boardy-hostel/boardy-api/internal/domain"
	"github.com/boardy-hostel/boardy-api/internal/repository"
	"github.com/boardy-hostel/boardy-api/internal/service"
)

type CatalogService interface {
	ListGames(ctx context.Context, f domain.GameFilter, page, limit int) (repository.GamePage, error)
	FeaturedGames(ctx context.Context) ([]domain.Game, error)
	GetGame(ctx context.Context, id uint) (domain.Game, error)
	WatchGame(ctx context.Context, userID, gameID uint) (domain.GameWatch, error)
	CreateGame(ctx context.Context, game domain.Game) (domain.Game, error)
	UpdateGame(ctx context.Context, game domain.Game) (domain.Game, error)
	SetGameStatus(ctx context.Context, id uint, status domain.GameStatus) (domain.Game, error)
	DeleteGame(ctx context.Context, id uint) error
}

type GameHandler struct {
	svc CatalogService
}

func NewGameHandler(svc CatalogService) *GameHandler {
	return &GameHandler{
		svc: svc,
	}
}

// HandleListGames godoc
// @Summary      Browse the catalog
// @Description  Filters by category, minimum players, maximum duration, maximum complexity and status. Omitted criteria use the defaults.
// @Tags         games
// @Produce      json
// @Param        category    query     string  false  "category or all"
// @Param        players     query     int     false  "minimum supported players"
// @Param        duration    query     int     false  "maximum duration in minutes"
// @Param        complexity  query     int     false  "maximum complexity, 0 for any"
// @Param        status      query     string  false  "status or all"
// @Param        page        query     int     false  "page number"
// @Param        limit       query     int     false  "page size"
// @Success      200         {object}  response.PaginatedResponse[domain.Game]
// @Failure      400         {object}  response.Err
// @Router       /games [get]
func (h *GameHandler) HandleListGames(ctx *gin.Context) {
	var q request.GameListQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := q.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	page, err := h.svc.ListGames(ctx.Request.Context(), q.Filter(), q.Page, q.Limit)
	if err != nil {
		response.RenderErr(ctx, toResponseErr("v1.HandleListGames -> h.svc.ListGames", err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewPaginatedResponse(page.Games, page.Total, page.Page, page.Limit))
}

// HandleFeaturedGames godoc
// @Summary      Featured games
// @Tags         games
// @Produce      json
// @Success      200  {array}  domain.Game
// @Router       /games/featured [get]
func (h *GameHandler) HandleFeaturedGames(ctx *gin.Context) {
	games, err := h.svc.FeaturedGames(ctx.Request.Context())
	if err != nil {
		response.RenderErr(ctx, toResponseErr("v1.HandleFeaturedGames -> h.svc.FeaturedGames", err))
		return
	}

	ctx.JSON(http.StatusOK, games)
}

// HandleGetGame godoc
// @Summary      Get a game
// @Tags         games
// @Produce      json
// @Param        gameID  path      int  true  "Game ID"
// @Success      200     {object}  domain.Game
// @Failure      404     {object}  response.Err
// @Router       /games/{gameID} [get]
func (h *GameHandler) HandleGetGame(ctx *gin.Context) {
	gameID, respErr := parseIDParam(ctx, "gameID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	game, err := h.svc.GetGame(ctx.Request.Context(), gameID)
	if err != nil {
		h.renderErr(ctx, "v1.HandleGetGame -> h.svc.GetGame", gameID, err)
		return
	}

	ctx.JSON(http.StatusOK, game)
}

// HandleWatchGame godoc
// @Summary      Get notified when a game can be rented again
// @Tags         games
// @Produce      json
// @Param        gameID  path      int  true  "Game ID"
// @Success      201     {object}  domain.GameWatch
// @Failure      404     {object}  response.Err
// @Failure      409     {object}  response.Err
// @Router       /games/{gameID}/watch [post]
// @Security     BearerAuth
func (h *GameHandler) HandleWatchGame(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	gameID, respErr := parseIDParam(ctx, "gameID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	watch, err := h.svc.WatchGame(ctx.Request.Context(), userID, gameID)
	if err != nil {
		h.renderErr(ctx, "v1.HandleWatchGame -> h.svc.WatchGame", gameID, err)
		return
	}

	ctx.JSON(http.StatusCreated, watch)
}

// HandleCreateGame godoc
// @Summary      Add a game to the catalog
// @Tags         admin
// @Produce      json
// @Param        request  body      request.GameRequest  true  "request body"
// @Success      201      {object}  domain.Game
// @Failure      400      {object}  response.Err
// @Router       /admin/games [post]
// @Security     BearerAuth
func (h *GameHandler) HandleCreateGame(ctx *gin.Context) {
	var req request.GameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	game, err := h.svc.CreateGame(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		response.RenderErr(ctx, toResponseErr("v1.HandleCreateGame -> h.svc.CreateGame", err))
		return
	}

	ctx.JSON(http.StatusCreated, game)
}

// HandleUpdateGame godoc
// @Summary      Edit a game
// @Tags         admin
// @Produce      json
// @Param        gameID   path      int                  true  "Game ID"
// @Param        request  body      request.GameRequest  true  "request body"
// @Success      200      {object}  domain.Game
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /admin/games/{gameID} [put]
// @Security     BearerAuth
func (h *GameHandler) HandleUpdateGame(ctx *gin.Context) {
	gameID, respErr := parseIDParam(ctx, "gameID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.GameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	game := req.ToDomain()
	game.ID = gameID

	updated, err := h.svc.UpdateGame(ctx.Request.Context(), game)
	if err != nil {
		h.renderErr(ctx, "v1.HandleUpdateGame -> h.svc.UpdateGame", gameID, err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleSetGameStatus godoc
// @Summary      Change a game's status
// @Tags         admin
// @Produce      json
// @Param        gameID   path      int                        true  "Game ID"
// @Param        request  body      request.GameStatusRequest  true  "request body"
// @Success      200      {object}  domain.Game
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /admin/games/{gameID}/status [post]
// @Security     BearerAuth
func (h *GameHandler) HandleSetGameStatus(ctx *gin.Context) {
	gameID, respErr := parseIDParam(ctx, "gameID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.GameStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	game, err := h.svc.SetGameStatus(ctx.Request.Context(), gameID, domain.GameStatus(req.Status))
	if err != nil {
		h.renderErr(ctx, "v1.HandleSetGameStatus -> h.svc.SetGameStatus", gameID, err)
		return
	}

	ctx.JSON(http.StatusOK, game)
}

// HandleDeleteGame godoc
// @Summary      Remove a game from the catalog
// @Tags         admin
// @Param        gameID  path  int  true  "Game ID"
// @Success      204
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Router       /admin/games/{gameID} [delete]
// @Security     BearerAuth
func (h *GameHandler) HandleDeleteGame(ctx *gin.Context) {
	gameID, respErr := parseIDParam(ctx, "gameID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DeleteGame(ctx.Request.Context(), gameID); err != nil {
		h.renderErr(ctx, "v1.HandleDeleteGame -> h.svc.DeleteGame", gameID, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *GameHandler) renderErr(ctx *gin.Context, op string, gameID uint, err error) {
	if errors.Is(err, service.ErrGameNotFound) {
		response.RenderErr(ctx, response.ErrNotFound("game", "ID", gameID))
		return
	}

	response.RenderErr(ctx, toResponseErr(op, err))
}
