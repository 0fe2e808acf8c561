package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"entuKaart/internal/modules/catalog/application/port"
	"entuKaart/internal/platform/rest"
	"entuKaart/internal/shared/auth"
)

const templateTokenTTL = time.Hour

// TemplateClient reads the Entu "template" account with a token obtained from ENTU_KEY.
// The token and its user are cached until the earlier of one hour and the token's exp.
type TemplateClient struct {
	rest *rest.Client
	key  string
	now  func() time.Time

	mu      sync.Mutex
	token   string
	userID  string
	expires time.Time
}

func NewTemplateClient(entuURL, key string, timeout time.Duration, client *http.Client) *TemplateClient {
	return &TemplateClient{
		rest: rest.NewClient(entuURL, timeout, client),
		key:  strings.TrimSpace(key),
		now:  time.Now,
	}
}

func (c *TemplateClient) Entity(ctx context.Context, id string, query url.Values) (json.RawMessage, error) {
	token, _, err := c.session(ctx)
	if err != nil {
		return nil, err
	}
	return fetch(ctx, c.rest, "entu template", "/api/template/entity/"+url.PathEscape(id), query, token)
}

func (c *TemplateClient) Entities(ctx context.Context, query url.Values) (json.RawMessage, error) {
	token, userID, err := c.session(ctx)
	if err != nil {
		return nil, err
	}
	forwarded := url.Values{}
	for k, v := range query {
		forwarded[k] = append([]string(nil), v...)
	}
	forwarded.Set("_viewer.reference", userID)
	return fetch(ctx, c.rest, "entu template", "/api/template/entity", forwarded, token)
}

type authResponse struct {
	Token    string `json:"token"`
	Accounts []struct {
		User struct {
			ID string `json:"_id"`
		} `json:"user"`
	} `json:"accounts"`
}

// session holds the lock across the refresh so concurrent callers share one auth request.
func (c *TemplateClient) session(ctx context.Context) (string, string, error) {
	if c.rest.BaseURL() == "" || c.key == "" {
		return "", "", fmt.Errorf("entu template: %w", port.ErrUpstreamUnconfigured)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.token != "" && c.userID != "" && now.Before(c.expires) {
		return c.token, c.userID, nil
	}

	body, err := fetch(ctx, c.rest, "entu auth", "/api/auth", url.Values{"account": {"template"}}, c.key)
	if err != nil {
		return "", "", err
	}
	var payload authResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", "", fmt.Errorf("decode entu auth: %w", err)
	}
	userID := ""
	if len(payload.Accounts) > 0 {
		userID = payload.Accounts[0].User.ID
	}
	if payload.Token == "" || userID == "" {
		return "", "", fmt.Errorf("entu auth: %w: token or template user missing", port.ErrUpstreamFailed)
	}

	c.token = payload.Token
	c.userID = userID
	c.expires = auth.TokenExpiry(payload.Token, now, templateTokenTTL)
	slog.Info("entu template token refreshed", slog.String("userId", userID), slog.Time("expires", c.expires))
	return c.token, c.userID, nil
}

var _ port.TemplateEntities = (*TemplateClient)(nil)
