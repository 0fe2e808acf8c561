package usecase

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"entuKaart/internal/modules/setup/domain"
	"entuKaart/internal/shared/console"
)

func loadBlueprint(t *testing.T) *domain.Blueprint {
	t.Helper()
	bp, err := domain.DefaultBlueprint()
	require.NoError(t, err)
	return bp
}

func discoverState(t *testing.T, store *fakeStore, bp *domain.Blueprint) *domain.State {
	t.Helper()
	state, err := NewDiscoverUseCase(store, bp, console.NewPrinter(&bytes.Buffer{})).Execute(context.Background())
	require.NoError(t, err)
	return state
}

func TestSetupUseCase_ApplyOnFreshAccount(t *testing.T) {
	t.Parallel()

	bp := loadBlueprint(t)
	store := newFakeStore()
	state := discoverState(t, store, bp)
	events := &recordingPublisher{}
	var out bytes.Buffer

	uc := NewSetupUseCase(store, bp, console.NewPrinter(&out), events, "run-1")
	report, err := uc.Apply(context.Background(), state)
	require.NoError(t, err)

	require.Equal(t, map[domain.Kind]int{
		domain.KindType:         2,
		domain.KindProperty:     9,
		domain.KindMenu:         2,
		domain.KindRelationship: 1,
	}, report.Created)
	require.Equal(t, 1, report.Skipped[domain.KindRelationship])
	require.Equal(t, 1, store.countCalls("UpdateEntity"))

	asukoht := store.created[1]
	require.Contains(t, asukoht, domain.ReferenceValue("add_from", state.Entity("kaartEntityDefinitionId")))

	require.Equal(t, map[string]domain.Action{
		"asukoht_add_from_kaart": domain.ActionFound,
		"kaart_add_from_menu":    domain.ActionCreated,
	}, events.actions(domain.KindRelationship))
	last := events.events[len(events.events)-1]
	require.Equal(t, domain.KindRun, last.Kind)
	require.Equal(t, domain.ActionCompleted, last.Action)
	require.Equal(t, "run-1", last.RunID)

	require.Len(t, state.Properties, 9)
	require.NotEmpty(t, state.Entity("asukohtMenuEntityId"))
	require.Contains(t, out.String(), "Kaart entity created: ")
	require.Contains(t, out.String(), "Kaart -> Kaart menu relationship created")
}

func TestSetupUseCase_PayloadShapes(t *testing.T) {
	t.Parallel()

	bp := loadBlueprint(t)
	store := newFakeStore()
	state := discoverState(t, store, bp)

	_, err := NewSetupUseCase(store, bp, console.NewPrinter(&bytes.Buffer{}), nil, "run").Apply(context.Background(), state)
	require.NoError(t, err)

	kaart := store.created[0]
	expectedKaart := []domain.PropertyValue{
		domain.ReferenceValue("_type", "def-entity"),
		domain.StringValue("name", "kaart"),
		domain.LocalizedValue("label", "Kaart", "et"),
		domain.LocalizedValue("label", "Map", "en"),
		domain.LocalizedValue("label_plural", "Kaardid", "et"),
		domain.LocalizedValue("label_plural", "Maps", "en"),
		domain.ReferenceValue("_parent", "db"),
	}
	if diff := cmp.Diff(expectedKaart, kaart); diff != "" {
		t.Fatalf("kaart payload mismatch (-want +got):\n%s", diff)
	}

	// created[2] is the first property: kaart.name
	expectedName := []domain.PropertyValue{
		domain.ReferenceValue("_type", "def-property"),
		domain.ReferenceValue("_parent", "new-1"),
		domain.StringValue("name", "name"),
		domain.LocalizedValue("label", "Nimi", "et"),
		domain.LocalizedValue("label", "Name", "en"),
		domain.StringValue("type", "string"),
		domain.BooleanValue("public", true),
		domain.NumberValue("ordinal", 1),
		domain.BooleanValue("search", true),
	}
	if diff := cmp.Diff(expectedName, store.created[2]); diff != "" {
		t.Fatalf("property payload mismatch (-want +got):\n%s", diff)
	}

	url := store.created[4]
	require.Equal(t, domain.BooleanValue("multilingual", false), url[len(url)-1])

	menu := store.created[11]
	expectedMenu := []domain.PropertyValue{
		domain.ReferenceValue("_type", "def-menu"),
		domain.LocalizedValue("name", "Kaardid", "et"),
		domain.LocalizedValue("name", "Maps", "en"),
		domain.LocalizedValue("group", "Kaardirakendus", "et"),
		domain.LocalizedValue("group", "Map App", "en"),
		domain.StringValue("query", "_type.string=kaart&sort=name.string"),
		domain.ReferenceValue("entity", "new-1"),
		domain.IntegerValue("sort", 100),
		domain.ReferenceValue("_parent", "db"),
	}
	if diff := cmp.Diff(expectedMenu, menu); diff != "" {
		t.Fatalf("menu payload mismatch (-want +got):\n%s", diff)
	}
}

func TestSetupUseCase_SecondRunCreatesNothing(t *testing.T) {
	t.Parallel()

	bp := loadBlueprint(t)
	store := newFakeStore()
	state := discoverState(t, store, bp)
	_, err := NewSetupUseCase(store, bp, console.NewPrinter(&bytes.Buffer{}), nil, "first").Apply(context.Background(), state)
	require.NoError(t, err)

	store.calls = nil

	report, err := NewSetupUseCase(store, bp, console.NewPrinter(&bytes.Buffer{}), nil, "second").Apply(context.Background(), state)
	require.NoError(t, err)
	require.Zero(t, report.TotalCreated())
	require.Empty(t, store.calls, "known IDs must not trigger requests")
	require.Equal(t, 2, report.Skipped[domain.KindType])
}

func TestSetupUseCase_LooksUpRecordsMissingFromState(t *testing.T) {
	t.Parallel()

	bp := loadBlueprint(t)
	store := newFakeStore()
	_, err := NewSetupUseCase(store, bp, console.NewPrinter(&bytes.Buffer{}), nil, "first").Apply(context.Background(), discoverState(t, store, bp))
	require.NoError(t, err)

	// A fresh discovery file without anything but the core keys.
	state := domain.NewState()
	state.SetEntity(domain.DatabaseKey, "db")
	state.SetEntity(domain.EntityDefinitionKey, "def-entity")
	state.SetEntity(domain.PropertyDefinitionKey, "def-property")
	state.SetEntity(domain.MenuDefinitionKey, "def-menu")
	store.calls = nil
	events := &recordingPublisher{}

	report, err := NewSetupUseCase(store, bp, console.NewPrinter(&bytes.Buffer{}), events, "again").Apply(context.Background(), state)
	require.NoError(t, err)
	require.Zero(t, report.TotalCreated())
	require.Zero(t, store.countCalls("CreateEntity"))
	require.Zero(t, store.countCalls("UpdateEntity"))
	require.Len(t, state.Properties, 9)
	require.Len(t, state.Relationships, 2)
	for key, action := range events.actions(domain.KindType) {
		require.Equal(t, domain.ActionFound, action, key)
	}
}

func TestSetupUseCase_ReusesMenuWithoutEntityReference(t *testing.T) {
	t.Parallel()

	bp := loadBlueprint(t)
	store := newFakeStore()
	state := discoverState(t, store, bp)
	// Menus made by hand in the Entu UI carry no entity or _parent reference.
	store.add("old-menu", "menu",
		domain.LocalizedValue("name", "Kaardid", "et"),
		domain.LocalizedValue("name", "Maps", "en"),
		domain.LocalizedValue("group", "Kaardirakendus", "et"),
		domain.ReferenceValue("_type", "def-menu"),
	)
	require.Empty(t, state.Entity("kaartMenuEntityId"))
	events := &recordingPublisher{}

	report, err := NewSetupUseCase(store, bp, console.NewPrinter(&bytes.Buffer{}), events, "run").Apply(context.Background(), state)
	require.NoError(t, err)
	require.Equal(t, "old-menu", state.Entity("kaartMenuEntityId"))
	require.NotEqual(t, "old-menu", state.Entity("asukohtMenuEntityId"))
	require.Equal(t, 1, report.Created[domain.KindMenu])
	require.Equal(t, map[string]domain.Action{
		"kaart":   domain.ActionFound,
		"asukoht": domain.ActionCreated,
	}, events.actions(domain.KindMenu))
}

func TestSetupUseCase_AbortsOnFirstFailure(t *testing.T) {
	t.Parallel()

	bp := loadBlueprint(t)
	store := newFakeStore()
	state := discoverState(t, store, bp)
	boom := errors.New("HTTP 502: Bad Gateway")
	store.failOn = "UpdateEntity"
	store.failErr = boom
	events := &recordingPublisher{}

	report, err := NewSetupUseCase(store, bp, console.NewPrinter(&bytes.Buffer{}), events, "run").Apply(context.Background(), state)
	require.ErrorIs(t, err, boom)
	require.EqualError(t, err, "relationship kaart_add_from_menu: HTTP 502: Bad Gateway")
	require.NotNil(t, report)
	require.Equal(t, 2, report.Created[domain.KindMenu])
	require.Equal(t, domain.ActionFailed, events.actions(domain.KindRelationship)["kaart_add_from_menu"])
	require.Empty(t, state.Relationships["kaart_add_from_menu"])
	require.NotEqual(t, domain.KindRun, events.events[len(events.events)-1].Kind)
}

func TestSetupUseCase_RequiresCoreEntities(t *testing.T) {
	t.Parallel()

	state := domain.NewState()
	state.SetEntity(domain.DatabaseKey, "db")

	_, err := NewSetupUseCase(newFakeStore(), loadBlueprint(t), console.NewPrinter(&bytes.Buffer{}), nil, "run").Apply(context.Background(), state)
	require.ErrorIs(t, err, ErrIncompleteDiscovery)
	require.Contains(t, err.Error(), "entityEntityDefinitionId, propertyEntityDefinitionId, menuEntityDefinitionId")
}

func TestSetupUseCase_Plan(t *testing.T) {
	t.Parallel()

	bp := loadBlueprint(t)
	state := domain.NewState()
	state.SetEntity(domain.TypeKey("kaart"), "k1")
	state.Properties["name_kaart"] = "p1"
	state.Relationships["kaart_add_from_menu"] = "r1"

	items := NewSetupUseCase(nil, bp, nil, nil, "run").Plan(state)
	require.Len(t, items, 2+9+2+2)

	exists := map[string]bool{}
	for _, item := range items {
		if item.Exists {
			exists[string(item.Kind)+":"+item.Key] = true
		}
	}
	require.Equal(t, map[string]bool{
		"type:kaart":                       true,
		"property:name_kaart":              true,
		"relationship:kaart_add_from_menu": true,
	}, exists)
	require.Equal(t, "Asukoht -> Kaart relationship", items[len(items)-2].Label)
}
