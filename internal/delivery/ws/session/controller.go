package ws_session

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	http_common "github.com/humanbelnik/kinofav/core/internal/delivery/http/common"
	usecase_browse "github.com/humanbelnik/kinofav/core/internal/usecase/browse"
)

// Nil CheckOrigin keeps the library's same-host check: cross-site pages
// must not drive a tab bound to the visitor's session cookie.
var upgrader = websocket.Upgrader{}

// BrowserFactory builds the browse session of one tab around its view.
type BrowserFactory func(sessionID string, view usecase_browse.View) Browser

type Controller struct {
	hub        *Hub
	session    gin.HandlerFunc
	newBrowser BrowserFactory

	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func NewController(hub *Hub,
	session gin.HandlerFunc,
	newBrowser BrowserFactory,
	opts ...ControllerOption) *Controller {
	c := &Controller{
		hub:        hub,
		session:    session,
		newBrowser: newBrowser,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ws", c.session, c.browseWS)
}

func (c *Controller) browseWS(ctx *gin.Context) {
	sessionID := http_common.SessionID(ctx)

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.logger.Error("failed to upgrade to websocket",
			slog.String("error", err.Error()),
		)
		return
	}

	client := newClient(c.hub, conn, sessionID, c.logger)
	client.browser = c.newBrowser(sessionID, client)

	c.hub.RegisterClient(client)

	go client.writePump()
	go client.readPump()
	go client.start()
}
