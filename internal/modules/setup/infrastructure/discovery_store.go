package infrastructure

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"entuKaart/internal/modules/setup/application/port"
	"entuKaart/internal/modules/setup/domain"
)

const discoveryVersion = "1.0.0"

type discoveryFile struct {
	Discovery discoveryDocument `json:"discovery"`
}

type discoveryDocument struct {
	Timestamp     time.Time                    `json:"timestamp"`
	Version       string                       `json:"version"`
	Entities      map[string]*string           `json:"entities"`
	Properties    map[string]map[string]string `json:"properties"`
	Relationships map[string]json.RawMessage   `json:"relationships"`
}

// DiscoveryStore persists State as discovery.json.
type DiscoveryStore struct {
	path string
	now  func() time.Time
}

func NewDiscoveryStore(path string) *DiscoveryStore {
	if strings.TrimSpace(path) == "" {
		path = "discovery.json"
	}
	return &DiscoveryStore{path: path, now: time.Now}
}

func (s *DiscoveryStore) Path() string { return s.path }

func (s *DiscoveryStore) Load() (*domain.State, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, port.ErrNoDiscovery
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var file discoveryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}

	state := domain.NewState()
	for key, id := range file.Discovery.Entities {
		if id != nil {
			state.SetEntity(key, *id)
		}
	}
	state.SetNestedProperties(file.Discovery.Properties)
	for key, raw := range file.Discovery.Relationships {
		id, err := decodeRelationshipID(raw)
		if err != nil {
			return nil, fmt.Errorf("decode relationship %s: %w", key, err)
		}
		if id != "" {
			state.Relationships[key] = id
		}
	}
	return state, nil
}

// decodeRelationshipID accepts both the plain ID form and the older {"_id": ...} form.
func decodeRelationshipID(raw json.RawMessage) (string, error) {
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return id, nil
	}
	var obj struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", err
	}
	return obj.ID, nil
}

// Save replaces the file atomically.
func (s *DiscoveryStore) Save(state *domain.State) error {
	if state == nil {
		state = domain.NewState()
	}
	doc := discoveryDocument{
		Timestamp:     s.now().UTC(),
		Version:       discoveryVersion,
		Entities:      make(map[string]*string, len(state.Entities)),
		Properties:    state.NestedProperties(),
		Relationships: make(map[string]json.RawMessage, len(state.Relationships)),
	}
	for key, id := range state.Entities {
		id := id
		doc.Entities[key] = &id
	}
	for key, id := range state.Relationships {
		raw, err := json.Marshal(id)
		if err != nil {
			return err
		}
		doc.Relationships[key] = raw
	}

	data, err := json.MarshalIndent(discoveryFile{Discovery: doc}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode discovery: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".discovery-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

var _ port.StateStore = (*DiscoveryStore)(nil)
