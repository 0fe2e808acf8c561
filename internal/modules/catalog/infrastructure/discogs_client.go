package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"entuKaart/internal/modules/catalog/application/port"
	"entuKaart/internal/modules/catalog/domain"
	"entuKaart/internal/platform/rest"
)

type DiscogsClient struct {
	rest *rest.Client
	key  string
}

func NewDiscogsClient(baseURL, key string, timeout time.Duration, client *http.Client) *DiscogsClient {
	return &DiscogsClient{rest: rest.NewClient(baseURL, timeout, client), key: strings.TrimSpace(key)}
}

func (c *DiscogsClient) SearchReleases(ctx context.Context, query string) ([]domain.Release, error) {
	if c.rest.BaseURL() == "" || c.key == "" {
		return nil, fmt.Errorf("discogs: %w", port.ErrUpstreamUnconfigured)
	}
	body, err := fetch(ctx, c.rest, "discogs", "/database/search", url.Values{
		"query": {query},
		"type":  {"release"},
		"token": {c.key},
	}, "")
	if err != nil {
		return nil, err
	}

	var payload struct {
		Results []domain.DiscogsResult `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode discogs search: %w", err)
	}
	releases := make([]domain.Release, 0, len(payload.Results))
	for _, r := range payload.Results {
		releases = append(releases, domain.NewRelease(r))
	}
	return releases, nil
}

var _ port.ReleaseSearcher = (*DiscogsClient)(nil)
