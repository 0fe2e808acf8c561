package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"entuKaart/internal/modules/catalog/application/port"
	"entuKaart/internal/platform/rest"
)

// EsterClient queries the ESTER search endpoint configured as ESTER_URL.
type EsterClient struct {
	rest *rest.Client
}

func NewEsterClient(searchURL string, timeout time.Duration, client *http.Client) *EsterClient {
	return &EsterClient{rest: rest.NewClient(searchURL, timeout, client)}
}

func (c *EsterClient) Search(ctx context.Context, query string) (json.RawMessage, error) {
	if c.rest.BaseURL() == "" {
		return nil, fmt.Errorf("ester: %w", port.ErrUpstreamUnconfigured)
	}
	return fetch(ctx, c.rest, "ester", "", url.Values{"q": {query}, "f": {"human"}}, "")
}

var _ port.CatalogSearcher = (*EsterClient)(nil)
