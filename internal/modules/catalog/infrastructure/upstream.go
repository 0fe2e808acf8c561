package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"entuKaart/internal/modules/catalog/application/port"
	"entuKaart/internal/platform/rest"
)

// maxUpstreamBody caps how much of an upstream response is buffered.
const maxUpstreamBody = 8 << 20

// fetch performs a GET and returns the body of a 2xx JSON response.
func fetch(ctx context.Context, client *rest.Client, upstream, endpoint string, query url.Values, bearer string) (json.RawMessage, error) {
	req, err := client.NewRequest(ctx, http.MethodGet, endpoint, query, nil)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", upstream, err)
	}
	req.Header.Set("Accept", "application/json")
	if token := strings.TrimSpace(bearer); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	slog.Debug("upstream request", slog.String("upstream", upstream), slog.String("path", req.URL.Path))

	res, err := client.Do(req)
	if err != nil {
		slog.Error("upstream request error", slog.String("upstream", upstream), slog.String("path", req.URL.Path), slog.Any("error", err))
		return nil, fmt.Errorf("%s request failed: %w", upstream, err)
	}
	defer res.Body.Close()
	slog.Debug("upstream response", slog.String("upstream", upstream), slog.Int("status", res.StatusCode))

	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%s: %w", upstream, port.ErrUpstreamForbidden)
	case res.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", upstream, port.ErrUpstreamNotFound)
	case res.StatusCode < 200 || res.StatusCode > 299:
		slog.Error("upstream unexpected status", slog.String("upstream", upstream), slog.Int("status", res.StatusCode), slog.String("body", rest.ErrorBody(res)))
		return nil, fmt.Errorf("%s: %w: status %d", upstream, port.ErrUpstreamFailed, res.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxUpstreamBody))
	if err != nil {
		return nil, fmt.Errorf("%s read: %w", upstream, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%s: %w: invalid json", upstream, port.ErrUpstreamFailed)
	}
	return body, nil
}
