package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/boardy-hostel/boardy-api/internal/api/handler/v1/response"
	"github.com/boardy-hostel/boardy-api/internal/domain"
	"github.com/boardy-hostel/boardy-api/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	clientSendSize = 32
)

// PushMessage is the frame written to notification sockets.
type PushMessage struct {
	Type string              `json:"type"`
	Data domain.Notification `json:"data"`
}

type client struct {
	conn   *websocket.Conn
	send   chan []byte
	userID uint
}

// Hub fans notifications out to the open sockets of each user. A user may
// hold several sockets, one per browser tab.
type Hub struct {
	upgrader     websocket.Upgrader
	clients      map[uint]map[*client]struct{}
	clientsMutex sync.RWMutex
	register     chan *client
	unregister   chan *client
	done         chan struct{}
}

// NewHub accepts upgrades from allowedOrigins. Requests without an Origin
// header (non-browser clients) are always accepted.
func NewHub(allowedOrigins []string) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
		clients:    make(map[uint]map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

// Run serves register and unregister requests until ctx is done, then closes
// every socket.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case c := <-h.register:
			h.clientsMutex.Lock()
			if h.clients[c.userID] == nil {
				h.clients[c.userID] = make(map[*client]struct{})
			}
			h.clients[c.userID][c] = struct{}{}
			h.clientsMutex.Unlock()

		case c := <-h.unregister:
			h.clientsMutex.Lock()
			h.remove(c)
			h.clientsMutex.Unlock()

		case <-ctx.Done():
			h.clientsMutex.Lock()
			for _, set := range h.clients {
				for c := range set {
					h.remove(c)
				}
			}
			h.clientsMutex.Unlock()
			close(h.done)
			return
		}
	}
}

// remove must be called with clientsMutex held.
func (h *Hub) remove(c *client) {
	set, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}

	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.userID)
	}
}

// Push never blocks: a socket whose buffer is full misses the message and
// picks it up from the notification list instead.
func (h *Hub) Push(userID uint, n domain.Notification) {
	msg, err := json.Marshal(PushMessage{Type: "notification", Data: n})
	if err != nil {
		zap.L().Error("json.Marshal", zap.Error(err))
		return
	}

	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()

	for c := range h.clients[userID] {
		select {
		case c.send <- msg:
		default:
			zap.L().Warn("notification dropped, socket buffer full", zap.Uint("userID", userID))
		}
	}
}

// Connected reports how many sockets userID has open.
func (h *Hub) Connected(userID uint) int {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()

	return len(h.clients[userID])
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only drains control frames; the socket is push-only.
func (c *client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Debug("notification socket closed", zap.Uint("userID", c.userID), zap.Error(err))
			}
			return
		}
	}
}

type NotificationService interface {
	List(ctx context.Context, userID uint, unreadOnly bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userID, id uint) error
}

type NotificationHandler struct {
	svc NotificationService
	hub *Hub
}

func NewNotificationHandler(svc NotificationService, hub *Hub) *NotificationHandler {
	return &NotificationHandler{
		svc: svc,
		hub: hub,
	}
}

// HandleListNotifications godoc
// @Summary      List the signed in user's notifications, newest first
// @Tags         notifications
// @Produce      json
// @Param        unread  query     bool  false  "only unread notifications"
// @Success      200     {array}   domain.Notification
// @Router       /notifications [get]
// @Security     BearerAuth
func (h *NotificationHandler) HandleListNotifications(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	unreadOnly, _ := strconv.ParseBool(ctx.Query("unread"))

	notifications, err := h.svc.List(ctx.Request.Context(), userID, unreadOnly)
	if err != nil {
		response.RenderErr(ctx, toResponseErr("v1.HandleListNotifications -> h.svc.List", err))
		return
	}

	ctx.JSON(http.StatusOK, notifications)
}

// HandleMarkRead godoc
// @Summary      Mark a notification as read
// @Tags         notifications
// @Param        notificationID  path  int  true  "Notification ID"
// @Success      204
// @Failure      404  {object}  response.Err
// @Router       /notifications/{notificationID}/read [post]
// @Security     BearerAuth
func (h *NotificationHandler) HandleMarkRead(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	notificationID, respErr := parseIDParam(ctx, "notificationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.MarkRead(ctx.Request.Context(), userID, notificationID); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("notification", "ID", notificationID))
			return
		}

		response.RenderErr(ctx, toResponseErr("v1.HandleMarkRead -> h.svc.MarkRead", err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleWebSocket godoc
// @Summary      Open a socket that receives the user's notifications as they happen
// @Tags         notifications
// @Param        token  query  string  false  "JWT, for clients that cannot set headers"
// @Success      101    {string}  string  "Switching Protocols"
// @Failure      401    {object}  response.Err
// @Router       /notifications/ws [get]
// @Security     BearerAuth
func (h *NotificationHandler) HandleWebSocket(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	conn, err := h.hub.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		zap.L().Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		conn:   conn,
		send:   make(chan []byte, clientSendSize),
		userID: userID,
	}
	select {
	case h.hub.register <- c:
	case <-h.hub.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump(h.hub)
}
