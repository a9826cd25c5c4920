package http_auth

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/kinofav/core/internal/delivery/http/common"
	"github.com/humanbelnik/kinofav/core/internal/model"
	service_auth "github.com/humanbelnik/kinofav/core/internal/service/auth"
	usecase_browse "github.com/humanbelnik/kinofav/core/internal/usecase/browse"
)

type Service interface {
	CurrentUser(ctx context.Context, sessionID string) (*model.User, error)
	SignInAnonymously(ctx context.Context, sessionID string) (*model.User, error)
	BeginPopupSignIn(ctx context.Context, sessionID string) (string, error)
	CompletePopupSignIn(ctx context.Context, state, code string) (*model.User, error)
	SignOut(ctx context.Context, sessionID string) error
}

type Controller struct {
	service Service
	session gin.HandlerFunc
	logger  *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(
	service Service,
	session gin.HandlerFunc,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		service: service,
		session: session,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	// The provider redirects here with the state it was given, no cookie needed.
	auth.GET("/google/callback", c.googleCallback)

	session := auth.Group("", c.session)
	session.GET("/me", c.me)
	session.POST("/anonymous", c.anonymous)
	session.GET("/google", c.google)
	session.POST("/logout", c.logout)
}

// UserResponseDTO DTO пользователя сессии
type UserResponseDTO struct {
	ID          string `json:"id" example:"google:1001"`
	DisplayName string `json:"display_name" example:"Ann"`
	Anonymous   bool   `json:"anonymous" example:"false"`
	Provider    string `json:"provider" example:"google"`
}

// MeResponseDTO DTO текущего состояния аутентификации
type MeResponseDTO struct {
	SignedIn bool             `json:"signed_in" example:"true"`
	Status   string           `json:"status" example:"Signed in: Ann"`
	User     *UserResponseDTO `json:"user,omitempty"`
}

func convertUser(u *model.User) *UserResponseDTO {
	if u == nil {
		return nil
	}
	return &UserResponseDTO{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Anonymous:   u.Anonymous,
		Provider:    u.Provider,
	}
}

// @Summary Текущий пользователь
// @Description Возвращает пользователя, привязанного к cookie сессии браузера
// @Tags Auth operations
// @Produce json
// @Success 200 {object} MeResponseDTO
// @Failure 500 {object} http_common.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/me [get]
func (c *Controller) me(ctx *gin.Context) {
	u, err := c.service.CurrentUser(ctx.Request.Context(), http_common.SessionID(ctx))
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, MeResponseDTO{
		SignedIn: u != nil,
		Status:   usecase_browse.StatusText(u),
		User:     convertUser(u),
	})
}

// @Summary Анонимный вход
// @Description Создает анонимного пользователя для текущей сессии браузера
// @Tags Auth operations
// @Produce json
// @Success 200 {object} UserResponseDTO
// @Failure 401 {object} http_common.ErrorResponse "Нет сессии"
// @Failure 500 {object} http_common.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/anonymous [post]
func (c *Controller) anonymous(ctx *gin.Context) {
	u, err := c.service.SignInAnonymously(ctx.Request.Context(), http_common.SessionID(ctx))
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, convertUser(u))
}

// @Summary Вход через Google
// @Description Перенаправляет всплывающее окно на страницу выбора аккаунта Google
// @Tags Auth operations
// @Success 302
// @Failure 401 {object} http_common.ErrorResponse "Нет сессии"
// @Failure 500 {object} http_common.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/google [get]
func (c *Controller) google(ctx *gin.Context) {
	authURL, err := c.service.BeginPopupSignIn(ctx.Request.Context(), http_common.SessionID(ctx))
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.Redirect(http.StatusFound, authURL)
}

var popupPage = template.Must(template.New("popup").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Kinofav</title></head>
<body><p>{{.}}</p><script>window.close();</script></body></html>`))

const (
	popupSignedIn = "Signed in. You can close this window."
	popupFailed   = "Sign in failed. You can close this window."
)

// @Summary Завершение входа через Google
// @Description Обменивает код авторизации на пользователя и закрывает всплывающее окно
// @Tags Auth operations
// @Produce html
// @Param state query string true "Состояние, выданное при начале входа"
// @Param code query string false "Код авторизации"
// @Param error query string false "Ошибка провайдера"
// @Success 200 {string} string "Страница, закрывающая окно"
// @Failure 400 {string} string "Неизвестное состояние"
// @Failure 502 {string} string "Ошибка провайдера"
// @Router /auth/google/callback [get]
func (c *Controller) googleCallback(ctx *gin.Context) {
	if reason := ctx.Query("error"); reason != "" {
		c.logger.Warn("google sign in cancelled", slog.String("reason", reason))
		c.popup(ctx, http.StatusOK, popupFailed)
		return
	}

	u, err := c.service.CompletePopupSignIn(ctx.Request.Context(), ctx.Query("state"), ctx.Query("code"))
	if err != nil {
		switch {
		case errors.Is(err, service_auth.ErrInvalidState):
			c.logger.Warn("google callback with unknown state")
			c.popup(ctx, http.StatusBadRequest, popupFailed)
		case errors.Is(err, service_auth.ErrProviderFailed):
			c.logger.Warn("google sign in failed", slog.String("error", err.Error()))
			c.popup(ctx, http.StatusBadGateway, popupFailed)
		default:
			c.logger.Error("internal sign in error", slog.String("error", err.Error()))
			c.popup(ctx, http.StatusInternalServerError, popupFailed)
		}
		return
	}

	c.logger.Info("signed in", slog.String("user", u.ID))
	c.popup(ctx, http.StatusOK, popupSignedIn)
}

func (c *Controller) popup(ctx *gin.Context, status int, text string) {
	ctx.Status(status)
	ctx.Header("Content-Type", "text/html; charset=utf-8")
	if err := popupPage.Execute(ctx.Writer, text); err != nil {
		c.logger.Error("failed to write popup page", slog.String("error", err.Error()))
	}
}

// @Summary Выход
// @Description Завершает вход для текущей сессии браузера
// @Tags Auth operations
// @Success 204
// @Failure 401 {object} http_common.ErrorResponse "Нет сессии"
// @Failure 500 {object} http_common.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/logout [post]
func (c *Controller) logout(ctx *gin.Context) {
	if err := c.service.SignOut(ctx.Request.Context(), http_common.SessionID(ctx)); err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (c *Controller) respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service_auth.ErrNoSession):
		c.logger.Warn("request without session")
		ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{
			Message: "no session",
		})
	default:
		c.logger.Error("internal auth error", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
	}
}
