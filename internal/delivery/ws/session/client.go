package ws_session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	usecase_browse "github.com/humanbelnik/kinofav/core/internal/usecase/browse"
)

const (
	EventReplace  = "REPLACE"
	EventStatus   = "STATUS"
	EventAlert    = "ALERT"
	EventFavorite = "FAVORITE"
	EventShow     = "SHOW"
)

const (
	CommandPage          = "PAGE"
	CommandNext          = "NEXT"
	CommandPrevious      = "PREV"
	CommandSearch        = "SEARCH"
	CommandToggle        = "TOGGLE"
	CommandShowFavorites = "SHOW_FAVORITES"
	CommandShowMovies    = "SHOW_MOVIES"
	CommandDetail        = "DETAIL"
	CommandBack          = "BACK"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type ReplacePayload struct {
	Target string `json:"target"`
	HTML   string `json:"html"`
}

type TextPayload struct {
	Text string `json:"text"`
}

type FavoritePayload struct {
	MovieID  int64 `json:"movie_id"`
	Favorite bool  `json:"favorite"`
}

type ShowPayload struct {
	Section string `json:"section"`
}

type Command struct {
	Type    string `json:"type"`
	Page    int    `json:"page,omitempty"`
	Query   string `json:"query,omitempty"`
	MovieID int64  `json:"movie_id,omitempty"`
}

// Browser is the per-tab browse session a client drives.
type Browser interface {
	Start(ctx context.Context) error
	Close()
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	ShowPage(ctx context.Context, page int) error
	Search(ctx context.Context, query string) error
	ToggleFavorite(ctx context.Context, movieID int64) error
	ShowFavorites() error
	ShowMovies(ctx context.Context) error
	ShowDetail(movieID int64) error
	Back()
}

// Client is one browser tab. It is the view of its browse session.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	sessionID string
	browser   Browser
	logger    *slog.Logger

	send      chan Event
	done      chan struct{}
	closeOnce sync.Once
	ctx       context.Context
	cancel    context.CancelFunc
}

func newClient(hub *Hub, conn *websocket.Conn, sessionID string, logger *slog.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		hub:       hub,
		conn:      conn,
		sessionID: sessionID,
		logger:    logger.With(slog.String("session", sessionID)),
		send:      make(chan Event, sendBuffer),
		done:      make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (c *Client) emit(ev Event) {
	select {
	case c.send <- ev:
	case <-c.done:
	}
}

func (c *Client) Replace(target usecase_browse.Target, html string) {
	c.emit(Event{Type: EventReplace, Payload: ReplacePayload{Target: string(target), HTML: html}})
}

func (c *Client) SetStatus(text string) {
	c.emit(Event{Type: EventStatus, Payload: TextPayload{Text: text}})
}

func (c *Client) Alert(text string) {
	c.emit(Event{Type: EventAlert, Payload: TextPayload{Text: text}})
}

func (c *Client) SetFavorite(movieID int64, favorite bool) {
	c.emit(Event{Type: EventFavorite, Payload: FavoritePayload{MovieID: movieID, Favorite: favorite}})
}

func (c *Client) Show(section usecase_browse.Section) {
	c.emit(Event{Type: EventShow, Payload: ShowPayload{Section: string(section)}})
}

func (c *Client) start() {
	if err := c.browser.Start(c.ctx); err != nil && !errors.Is(err, usecase_browse.ErrClosed) {
		c.logger.Warn("browse session start failed", slog.String("error", err.Error()))
	}
}

// close is safe to call from any goroutine, any number of times.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.cancel()
		c.hub.RemoveClient(c)
		c.conn.Close()
		c.browser.Close()
	})
}

func (c *Client) readPump() {
	defer c.close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var cmd Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read failed", slog.String("error", err.Error()))
			}
			return
		}

		go c.dispatch(cmd)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case ev := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// dispatch runs one command. Overlapping commands run concurrently.
func (c *Client) dispatch(cmd Command) {
	var err error
	switch cmd.Type {
	case CommandPage:
		err = c.browser.ShowPage(c.ctx, cmd.Page)
	case CommandNext:
		err = c.browser.Next(c.ctx)
	case CommandPrevious:
		err = c.browser.Previous(c.ctx)
	case CommandSearch:
		err = c.browser.Search(c.ctx, cmd.Query)
	case CommandToggle:
		err = c.browser.ToggleFavorite(c.ctx, cmd.MovieID)
	case CommandShowFavorites:
		err = c.browser.ShowFavorites()
	case CommandShowMovies:
		err = c.browser.ShowMovies(c.ctx)
	case CommandDetail:
		err = c.browser.ShowDetail(cmd.MovieID)
	case CommandBack:
		c.browser.Back()
	default:
		c.logger.Warn("unknown command", slog.String("type", cmd.Type))
		return
	}

	if err != nil && !errors.Is(err, usecase_browse.ErrNotAuthenticated) {
		c.logger.Debug("command failed",
			slog.String("type", cmd.Type),
			slog.String("error", err.Error()),
		)
	}
}
