package port

import (
	"context"
	"errors"
	"net/url"

	"entuKaart/internal/modules/setup/domain"
)

var (
	ErrUnauthorized = errors.New("entu access denied")
	ErrNotFound     = errors.New("entu entity not found")
)

// EntityStore is the Entu account API as seen by discovery and setup.
type EntityStore interface {
	VerifyAccess(ctx context.Context) error
	FindEntities(ctx context.Context, query url.Values, limit int) ([]domain.Entity, error)
	FindByNameAndType(ctx context.Context, name, typ string) ([]domain.Entity, error)
	GetEntity(ctx context.Context, id string, props ...string) (*domain.Entity, error)
	CreateEntity(ctx context.Context, values []domain.PropertyValue) (string, error)
	UpdateEntity(ctx context.Context, id string, values []domain.PropertyValue) error
}
