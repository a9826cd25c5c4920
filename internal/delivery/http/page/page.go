package http_page

import (
	"embed"
	"io"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	service_render "github.com/humanbelnik/kinofav/core/internal/service/render"
)

//go:embed static
var staticFS embed.FS

const assetPath = "/static"

type PageRenderer interface {
	Page(w io.Writer, data service_render.PageData) error
}

// Controller serves the single browse page and its script.
type Controller struct {
	renderer PageRenderer
	session  gin.HandlerFunc
	data     service_render.PageData
	assets   http.FileSystem
	logger   *slog.Logger
}

func New(renderer PageRenderer, session gin.HandlerFunc, title, wsPath string) *Controller {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return &Controller{
		renderer: renderer,
		session:  session,
		data: service_render.PageData{
			Title:     title,
			WSPath:    wsPath,
			AssetPath: assetPath,
		},
		assets: http.FS(sub),
		logger: slog.Default(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/", c.session, c.index)
	router.StaticFS(assetPath, c.assets)
}

func (c *Controller) index(ctx *gin.Context) {
	ctx.Status(http.StatusOK)
	ctx.Header("Content-Type", "text/html; charset=utf-8")
	if err := c.renderer.Page(ctx.Writer, c.data); err != nil {
		c.logger.Error("failed to render page", slog.String("error", err.Error()))
	}
}
