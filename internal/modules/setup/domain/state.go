package domain

import (
	"sort"
	"strings"
)

// Core entity keys. They must exist in the account before setup can run.
const (
	DatabaseKey           = "databaseEntityId"
	EntityDefinitionKey   = "entityEntityDefinitionId"
	PropertyDefinitionKey = "propertyEntityDefinitionId"
	MenuDefinitionKey     = "menuEntityDefinitionId"
)

var CoreKeys = []string{DatabaseKey, EntityDefinitionKey, PropertyDefinitionKey, MenuDefinitionKey}

func TypeKey(typ string) string { return typ + "EntityDefinitionId" }

func MenuKey(typ string) string { return typ + "MenuEntityId" }

func PropertyKey(name, typ string) string { return name + "_" + typ }

// State holds every ID discovered in or created on the account.
type State struct {
	Entities      map[string]string
	Properties    map[string]string
	Relationships map[string]string
}

func NewState() *State {
	return &State{
		Entities:      map[string]string{},
		Properties:    map[string]string{},
		Relationships: map[string]string{},
	}
}

func (s *State) Entity(key string) string { return s.Entities[key] }

func (s *State) SetEntity(key, id string) {
	if id == "" {
		return
	}
	s.Entities[key] = id
}

// MissingCore lists the core keys without an ID, in CoreKeys order.
func (s *State) MissingCore() []string {
	var missing []string
	for _, key := range CoreKeys {
		if s.Entities[key] == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

// NestedProperties groups property IDs by entity type: {type: {name: id}}.
func (s *State) NestedProperties() map[string]map[string]string {
	out := map[string]map[string]string{}
	for key, id := range s.Properties {
		idx := strings.LastIndex(key, "_")
		if idx <= 0 || idx == len(key)-1 {
			continue
		}
		name, typ := key[:idx], key[idx+1:]
		if out[typ] == nil {
			out[typ] = map[string]string{}
		}
		out[typ][name] = id
	}
	return out
}

// SetNestedProperties is the inverse of NestedProperties.
func (s *State) SetNestedProperties(nested map[string]map[string]string) {
	for typ, props := range nested {
		for name, id := range props {
			if id != "" {
				s.Properties[PropertyKey(name, typ)] = id
			}
		}
	}
}

// Merge copies every non-empty ID of other into s.
func (s *State) Merge(other *State) {
	if other == nil {
		return
	}
	for k, v := range other.Entities {
		s.SetEntity(k, v)
	}
	for k, v := range other.Properties {
		if v != "" {
			s.Properties[k] = v
		}
	}
	for k, v := range other.Relationships {
		if v != "" {
			s.Relationships[k] = v
		}
	}
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
