package transport

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"entuKaart/internal/modules/catalog/application/port"
	"entuKaart/internal/shared/httputil"
)

// Handler serves the catalog search proxies under /api.
type Handler struct {
	discogs  port.ReleaseSearcher
	ester    port.CatalogSearcher
	template port.TemplateEntities
	errors   *httputil.ErrorMapper
}

func NewHandler(discogs port.ReleaseSearcher, ester port.CatalogSearcher, template port.TemplateEntities) *Handler {
	mapper := httputil.NewErrorMapper().
		WithMapping(port.ErrUpstreamUnconfigured, http.StatusServiceUnavailable, "upstream not configured").
		WithMapping(port.ErrUpstreamForbidden, http.StatusBadGateway, "upstream rejected credentials").
		WithMapping(port.ErrUpstreamNotFound, http.StatusNotFound, "not found").
		WithMapping(port.ErrUpstreamFailed, http.StatusBadGateway, "upstream request failed").
		WithDefault(http.StatusBadGateway, "upstream request failed")
	return &Handler{discogs: discogs, ester: ester, template: template, errors: mapper}
}

func (h *Handler) Register(g *echo.Group) {
	g.GET("/discogs", h.Discogs)
	g.GET("/ester", h.Ester)
	g.GET("/template", h.Template)
}

func (h *Handler) Discogs(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return c.JSON(http.StatusOK, map[string]any{})
	}
	releases, err := h.discogs.SearchReleases(c.Request().Context(), q)
	if err != nil {
		return h.fail(c, "discogs", err)
	}
	return c.JSON(http.StatusOK, releases)
}

func (h *Handler) Ester(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return c.JSON(http.StatusOK, []any{})
	}
	body, err := h.ester.Search(c.Request().Context(), q)
	if err != nil {
		return h.fail(c, "ester", err)
	}
	return c.JSONBlob(http.StatusOK, body)
}

// Template forwards to one entity when _id is given, otherwise lists the template user's entities.
func (h *Handler) Template(c echo.Context) error {
	query := url.Values{}
	for k, v := range c.QueryParams() {
		query[k] = append([]string(nil), v...)
	}
	id := strings.TrimSpace(query.Get("_id"))
	query.Del("_id")

	ctx := c.Request().Context()
	var (
		body []byte
		err  error
	)
	if id != "" {
		body, err = h.template.Entity(ctx, id, query)
	} else {
		body, err = h.template.Entities(ctx, query)
	}
	if err != nil {
		return h.fail(c, "template", err)
	}
	return c.JSONBlob(http.StatusOK, body)
}

func (h *Handler) fail(c echo.Context, upstream string, err error) error {
	info := h.errors.Map(err)
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	if info.Status >= http.StatusInternalServerError {
		slog.Error("catalog proxy failed", slog.String("upstream", upstream), slog.Int("status", info.Status), slog.String("requestId", requestID), slog.Any("error", err))
	} else {
		slog.Warn("catalog proxy rejected", slog.String("upstream", upstream), slog.Int("status", info.Status), slog.String("requestId", requestID), slog.Any("error", err))
	}
	return echo.NewHTTPError(info.Status, info.Message)
}
