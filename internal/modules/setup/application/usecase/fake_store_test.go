package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"entuKaart/internal/modules/setup/application/port"
	"entuKaart/internal/modules/setup/domain"
)

type fakeEntity struct {
	id       string
	typeName string
	values   []domain.PropertyValue
}

// fakeStore is an in-memory Entu account answering the query shapes used by discovery and setup.
type fakeStore struct {
	mu       sync.Mutex
	entities []*fakeEntity
	calls    []string
	created  [][]domain.PropertyValue
	nextID   int
	failOn   string
	failErr  error
}

func newFakeStore() *fakeStore {
	s := &fakeStore{}
	s.add("db", "database", domain.StringValue("name", "kaardid"))
	s.add("def-entity", "entity", domain.StringValue("name", "entity"))
	s.add("def-property", "entity", domain.StringValue("name", "property"))
	s.add("def-menu", "entity", domain.StringValue("name", "menu"))
	return s
}

func (s *fakeStore) add(id, typeName string, values ...domain.PropertyValue) *fakeEntity {
	e := &fakeEntity{id: id, typeName: typeName, values: values}
	s.entities = append(s.entities, e)
	return e
}

func (s *fakeStore) byID(id string) *fakeEntity {
	for _, e := range s.entities {
		if e.id == id {
			return e
		}
	}
	return nil
}

func (s *fakeStore) call(name string) error {
	s.calls = append(s.calls, name)
	if s.failOn == name {
		if s.failErr != nil {
			return s.failErr
		}
		return errors.New("HTTP 500: Internal Server Error")
	}
	return nil
}

func (s *fakeStore) countCalls(name string) int {
	n := 0
	for _, c := range s.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (s *fakeStore) VerifyAccess(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.call("VerifyAccess")
}

func (s *fakeStore) FindEntities(_ context.Context, query url.Values, limit int) ([]domain.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("FindEntities"); err != nil {
		return nil, err
	}
	var out []domain.Entity
	for _, e := range s.entities {
		if len(out) >= limit {
			break
		}
		if s.matches(e, query) {
			out = append(out, toEntity(e))
		}
	}
	return out, nil
}

func (s *fakeStore) matches(e *fakeEntity, query url.Values) bool {
	for key := range query {
		want := query.Get(key)
		switch {
		case key == "props":
		case key == "_id":
			if e.id != want {
				return false
			}
		case key == "_type.string":
			if e.typeName != want {
				return false
			}
		default:
			parts := strings.Split(key, ".")
			prop, field, lang := parts[0], parts[1], ""
			if len(parts) > 2 {
				lang = parts[2]
			}
			if !hasValue(e.values, prop, field, lang, want) {
				return false
			}
		}
	}
	return true
}

func hasValue(values []domain.PropertyValue, prop, field, lang, want string) bool {
	for _, v := range values {
		if v.Type != prop || (lang != "" && v.Language != lang) {
			continue
		}
		if v.Field(field) == want {
			return true
		}
	}
	return false
}

func (s *fakeStore) FindByNameAndType(ctx context.Context, name, typ string) ([]domain.Entity, error) {
	return s.FindEntities(ctx, url.Values{"name.string": {name}, "_type.string": {typ}}, 1)
}

func (s *fakeStore) GetEntity(_ context.Context, id string, _ ...string) (*domain.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("GetEntity"); err != nil {
		return nil, err
	}
	e := s.byID(id)
	if e == nil {
		return nil, port.ErrNotFound
	}
	entity := toEntity(e)
	return &entity, nil
}

func (s *fakeStore) CreateEntity(_ context.Context, values []domain.PropertyValue) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("CreateEntity"); err != nil {
		return "", err
	}
	s.nextID++
	id := fmt.Sprintf("new-%d", s.nextID)
	typeName := ""
	for _, v := range values {
		if v.Type == "_type" {
			if def := s.byID(v.Reference); def != nil {
				typeName = domain.Values(def.values).Localized("", "string")
			}
		}
	}
	stored := make([]domain.PropertyValue, len(values))
	for i, v := range values {
		v.ID = fmt.Sprintf("%s-v%d", id, i)
		stored[i] = v
	}
	s.add(id, typeName, stored...)
	s.created = append(s.created, values)
	return id, nil
}

func (s *fakeStore) UpdateEntity(_ context.Context, id string, values []domain.PropertyValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("UpdateEntity"); err != nil {
		return err
	}
	e := s.byID(id)
	if e == nil {
		return port.ErrNotFound
	}
	for i, v := range values {
		v.ID = fmt.Sprintf("%s-u%d-%d", id, len(e.values), i)
		e.values = append(e.values, v)
	}
	return nil
}

func toEntity(e *fakeEntity) domain.Entity {
	props := map[string]domain.Values{}
	for _, v := range e.values {
		props[v.Type] = append(props[v.Type], v)
	}
	return domain.Entity{ID: e.id, Props: props}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.SetupEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.SetupEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) actions(kind domain.Kind) map[string]domain.Action {
	out := map[string]domain.Action{}
	for _, e := range p.events {
		if e.Kind == kind {
			out[e.Key] = e.Action
		}
	}
	return out
}
