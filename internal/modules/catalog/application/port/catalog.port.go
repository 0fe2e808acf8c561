package port

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"

	"entuKaart/internal/modules/catalog/domain"
)

var (
	ErrUpstreamForbidden    = errors.New("upstream rejected credentials")
	ErrUpstreamNotFound     = errors.New("upstream resource not found")
	ErrUpstreamFailed       = errors.New("upstream request failed")
	ErrUpstreamUnconfigured = errors.New("upstream not configured")
)

// ReleaseSearcher searches the Discogs release database.
type ReleaseSearcher interface {
	SearchReleases(ctx context.Context, query string) ([]domain.Release, error)
}

// CatalogSearcher searches the ESTER library catalogue and returns its JSON verbatim.
type CatalogSearcher interface {
	Search(ctx context.Context, query string) (json.RawMessage, error)
}

// TemplateEntities reads entities of the Entu template account as its user.
type TemplateEntities interface {
	Entity(ctx context.Context, id string, query url.Values) (json.RawMessage, error)
	Entities(ctx context.Context, query url.Values) (json.RawMessage, error)
}
