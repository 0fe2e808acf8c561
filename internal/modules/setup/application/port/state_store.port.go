package port

import (
	"errors"

	"entuKaart/internal/modules/setup/domain"
)

// ErrNoDiscovery is returned by StateStore.Load before the first discovery run.
var ErrNoDiscovery = errors.New("no discovery data found")

type StateStore interface {
	Load() (*domain.State, error)
	Save(state *domain.State) error
}
