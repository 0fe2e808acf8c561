package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestState_NestedPropertiesRoundTrip(t *testing.T) {
	t.Parallel()

	s := NewState()
	s.Properties[PropertyKey("name", "kaart")] = "p1"
	s.Properties[PropertyKey("photo_url", "asukoht")] = "p2"

	nested := s.NestedProperties()
	expected := map[string]map[string]string{
		"kaart":   {"name": "p1"},
		"asukoht": {"photo_url": "p2"},
	}
	if diff := cmp.Diff(expected, nested); diff != "" {
		t.Fatalf("nested mismatch (-want +got):\n%s", diff)
	}

	restored := NewState()
	restored.SetNestedProperties(nested)
	if diff := cmp.Diff(s.Properties, restored.Properties); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestState_MissingCoreAndMerge(t *testing.T) {
	t.Parallel()

	s := NewState()
	s.SetEntity(DatabaseKey, "db")
	s.SetEntity(MenuDefinitionKey, "")

	if diff := cmp.Diff([]string{EntityDefinitionKey, PropertyDefinitionKey, MenuDefinitionKey}, s.MissingCore()); diff != "" {
		t.Fatalf("missing core mismatch:\n%s", diff)
	}

	other := NewState()
	other.SetEntity(TypeKey("kaart"), "k1")
	other.Relationships["kaart_add_from_menu"] = "r1"
	s.Merge(other)

	if s.Entity("kaartEntityDefinitionId") != "k1" || s.Relationships["kaart_add_from_menu"] != "r1" {
		t.Fatalf("merge lost values: %+v", s)
	}
}
