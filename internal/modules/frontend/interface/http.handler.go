package transport

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"entuKaart/internal/modules/frontend/domain"
)

type Handler struct {
	config *domain.AppConfig
}

func NewHandler(config *domain.AppConfig) *Handler {
	return &Handler{config: config}
}

// Config serves the runtime configuration the SPA loads at boot.
func (h *Handler) Config(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
	return c.JSON(http.StatusOK, h.config)
}

// StaticSPA serves the built front end from dir, falling back to index.html for client routes.
// It returns nil when dir is empty or has no index.html.
func StaticSPA(dir string) echo.MiddlewareFunc {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil
	}
	if _, err := os.Stat(filepath.Join(dir, "index.html")); err != nil {
		return nil
	}
	return middleware.StaticWithConfig(middleware.StaticConfig{
		Root:  dir,
		Index: "index.html",
		HTML5: true,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return strings.HasPrefix(p, "/api/") || strings.HasPrefix(p, "/ws/") || p == "/healthz"
		},
	})
}
