package http_session_middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/kinofav/core/internal/delivery/http/common"
)

type SessionService interface {
	IssueSession() (sessionID string, token string, err error)
	ParseToken(token string) (string, error)
	TTL() time.Duration
}

type Middleware struct {
	service    SessionService
	cookieName string
	secure     bool
	logger     *slog.Logger
}

type Option func(*Middleware)

func WithSecureCookie(secure bool) Option {
	return func(m *Middleware) {
		m.secure = secure
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Middleware) {
		m.logger = logger
	}
}

func New(
	service SessionService,
	cookieName string,
	opts ...Option,
) *Middleware {
	m := &Middleware{
		service:    service,
		cookieName: cookieName,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SessionRequired resolves the browser session from its cookie and starts a
// new one when the cookie is missing, expired or forged.
func (m *Middleware) SessionRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if token, err := ctx.Cookie(m.cookieName); err == nil {
			if sid, err := m.service.ParseToken(token); err == nil {
				http_common.SetSessionID(ctx, sid)
				ctx.Next()
				return
			}
			m.logger.Debug("session cookie rejected, issuing new one")
		}

		sid, token, err := m.service.IssueSession()
		if err != nil {
			m.logger.Error("failed to issue session", slog.String("error", err.Error()))
			ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
				Message: "internal error",
			})
			ctx.Abort()
			return
		}

		ctx.SetSameSite(http.SameSiteLaxMode)
		ctx.SetCookie(m.cookieName, token, int(m.service.TTL().Seconds()), "/", "", m.secure, true)
		http_common.SetSessionID(ctx, sid)
		ctx.Next()
	}
}
