package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"entuKaart/internal/modules/setup/application/port"
	"entuKaart/internal/modules/setup/domain"
	"entuKaart/internal/platform/rest"
)

// StatusError is a non-2xx answer from the Entu API.
type StatusError struct {
	Status     int
	StatusText string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.StatusText)
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case port.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case port.ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// EntuClient talks to https://{host}/api/{account} with a bearer token.
type EntuClient struct {
	rest  *rest.Client
	token string
}

func NewEntuClient(baseURL, token string, timeout time.Duration, client *http.Client) *EntuClient {
	return &EntuClient{rest: rest.NewClient(baseURL, timeout, client), token: strings.TrimSpace(token)}
}

func (c *EntuClient) VerifyAccess(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/", nil, nil, nil)
}

func (c *EntuClient) FindEntities(ctx context.Context, query url.Values, limit int) ([]domain.Entity, error) {
	if limit <= 0 {
		limit = 1
	}
	values := url.Values{}
	for k, v := range query {
		values[k] = append([]string(nil), v...)
	}
	values.Set("limit", strconv.Itoa(limit))

	var payload struct {
		Entities []domain.Entity `json:"entities"`
	}
	if err := c.do(ctx, http.MethodGet, "/entity", values, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Entities, nil
}

func (c *EntuClient) FindByNameAndType(ctx context.Context, name, typ string) ([]domain.Entity, error) {
	return c.FindEntities(ctx, url.Values{
		"name.string":  {name},
		"_type.string": {typ},
		"props":        {"_id,name"},
	}, 1)
}

func (c *EntuClient) GetEntity(ctx context.Context, id string, props ...string) (*domain.Entity, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, port.ErrNotFound
	}
	var query url.Values
	if len(props) > 0 {
		query = url.Values{"props": {strings.Join(props, ",")}}
	}
	var payload struct {
		Entity *domain.Entity `json:"entity"`
	}
	if err := c.do(ctx, http.MethodGet, "/entity/"+url.PathEscape(id), query, nil, &payload); err != nil {
		return nil, err
	}
	if payload.Entity == nil {
		return nil, port.ErrNotFound
	}
	return payload.Entity, nil
}

func (c *EntuClient) CreateEntity(ctx context.Context, values []domain.PropertyValue) (string, error) {
	var payload struct {
		ID string `json:"_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/entity", nil, values, &payload); err != nil {
		return "", err
	}
	if payload.ID == "" {
		return "", errors.New("entity created without _id")
	}
	return payload.ID, nil
}

func (c *EntuClient) UpdateEntity(ctx context.Context, id string, values []domain.PropertyValue) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return port.ErrNotFound
	}
	return c.do(ctx, http.MethodPost, "/entity/"+url.PathEscape(id), nil, values, nil)
}

func (c *EntuClient) do(ctx context.Context, method, endpoint string, query url.Values, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := c.rest.NewRequest(ctx, method, endpoint, query, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	slog.Debug("entu request", slog.String("method", method), slog.String("url", req.URL.String()))

	res, err := c.rest.Do(req)
	if err != nil {
		slog.Error("entu request error", slog.String("method", method), slog.String("url", req.URL.String()), slog.Any("error", err))
		return fmt.Errorf("entu request failed: %w", err)
	}
	defer res.Body.Close()
	slog.Debug("entu response", slog.Int("status", res.StatusCode), slog.String("url", req.URL.String()))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		slog.Warn("entu unexpected status", slog.Int("status", res.StatusCode), slog.String("url", req.URL.String()), slog.String("body", rest.ErrorBody(res)))
		return &StatusError{Status: res.StatusCode, StatusText: statusText(res)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode entu response: %w", err)
	}
	return nil
}

func statusText(res *http.Response) string {
	code := strconv.Itoa(res.StatusCode)
	if text := strings.TrimSpace(strings.TrimPrefix(res.Status, code)); text != "" {
		return text
	}
	return http.StatusText(res.StatusCode)
}

var _ port.EntityStore = (*EntuClient)(nil)
