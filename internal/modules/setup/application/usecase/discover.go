package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"entuKaart/internal/modules/setup/application/port"
	"entuKaart/internal/modules/setup/domain"
)

var (
	ErrDatabaseNotFound   = errors.New("database entity not found")
	ErrDefinitionNotFound = errors.New("definition not found")
)

const menuSearchLimit = 50

// DiscoverUseCase scans the account for the records the blueprint describes. It never writes.
type DiscoverUseCase struct {
	store     port.EntityStore
	blueprint *domain.Blueprint
	out       port.Reporter
}

func NewDiscoverUseCase(store port.EntityStore, blueprint *domain.Blueprint, out port.Reporter) *DiscoverUseCase {
	return &DiscoverUseCase{store: store, blueprint: blueprint, out: out}
}

func (uc *DiscoverUseCase) Execute(ctx context.Context) (*domain.State, error) {
	state := domain.NewState()

	uc.out.Section("Verifying account access...")
	if err := uc.store.VerifyAccess(ctx); err != nil {
		return nil, fmt.Errorf("verify access: %w", err)
	}
	uc.out.Success("Account access verified")

	steps := []func(context.Context, *domain.State) error{
		uc.discoverCore,
		uc.discoverTypes,
		uc.discoverMenus,
		uc.discoverProperties,
		uc.discoverRelationships,
	}
	for _, step := range steps {
		if err := step(ctx, state); err != nil {
			return nil, err
		}
	}
	return state, nil
}

func (uc *DiscoverUseCase) discoverCore(ctx context.Context, state *domain.State) error {
	uc.out.Section("Discovering core entity definitions...")

	databases, err := uc.store.FindEntities(ctx, url.Values{
		"_type.string": {"database"},
		"props":        {"_id,name"},
	}, 1)
	if err != nil {
		return fmt.Errorf("find database: %w", err)
	}
	if len(databases) == 0 {
		return ErrDatabaseNotFound
	}
	state.SetEntity(domain.DatabaseKey, databases[0].ID)
	uc.out.Success("Database entity: " + databases[0].ID)

	definitions := []struct {
		key, name, label string
	}{
		{domain.EntityDefinitionKey, "entity", "Entity definition"},
		{domain.PropertyDefinitionKey, "property", "Property definition"},
		{domain.MenuDefinitionKey, "menu", "Menu definition"},
	}
	for _, def := range definitions {
		found, err := uc.store.FindByNameAndType(ctx, def.name, "entity")
		if err != nil {
			return fmt.Errorf("find %s definition: %w", def.name, err)
		}
		if len(found) == 0 {
			return fmt.Errorf("%s %w", def.name, ErrDefinitionNotFound)
		}
		state.SetEntity(def.key, found[0].ID)
		uc.out.Success(def.label + ": " + found[0].ID)
	}
	return nil
}

func (uc *DiscoverUseCase) discoverTypes(ctx context.Context, state *domain.State) error {
	uc.out.Section("Discovering map application entity definitions...")

	for _, t := range uc.blueprint.Types {
		found, err := uc.store.FindByNameAndType(ctx, t.Name, "entity")
		if err != nil {
			return fmt.Errorf("find %s entity: %w", t.Name, err)
		}
		if len(found) == 0 {
			uc.out.Info(domain.Title(t.Name) + " entity not found (will be created)")
			continue
		}
		state.SetEntity(domain.TypeKey(t.Name), found[0].ID)
		uc.out.Warning(fmt.Sprintf("%s entity exists: %s", domain.Title(t.Name), found[0].ID))
	}
	return nil
}

func (uc *DiscoverUseCase) discoverMenus(ctx context.Context, state *domain.State) error {
	uc.out.Section("Discovering existing menus...")

	menus, err := findMenus(ctx, uc.store, uc.blueprint, state)
	if err != nil {
		return fmt.Errorf("find menus: %w", err)
	}
	if len(menus) == 0 {
		uc.out.Info("No map application menus found")
		return nil
	}

	uc.out.Warning(fmt.Sprintf("Found %d map application menu items:", len(menus)))
	for _, menu := range menus {
		names := menu.Values("name")
		uc.out.Detail("yellow", fmt.Sprintf("📋 %s - %s (%s)", menu.ID, names.Localized("et", "string"), names.Localized("en", "string")))

		et, en := menuNames(menu)
		for _, m := range uc.blueprint.Menus {
			key := domain.MenuKey(m.Type)
			if state.Entity(key) != "" || !m.Matches(et, en) {
				continue
			}
			state.SetEntity(key, menu.ID)
			uc.out.Success(fmt.Sprintf("Identified %s menu: %s", domain.Title(m.Type), menu.ID))
			break
		}
	}
	return nil
}

// findMenus lists the menus of the blueprint group.
func findMenus(ctx context.Context, store port.EntityStore, bp *domain.Blueprint, state *domain.State) ([]domain.Entity, error) {
	return store.FindEntities(ctx, url.Values{
		"group.string.et": {bp.Group.ET},
		"_type.reference": {state.Entity(domain.MenuDefinitionKey)},
		"props":           {"_id,name,entity,group"},
	}, menuSearchLimit)
}

// findMenu returns the first group menu named like m that is not already recorded for another type.
func findMenu(ctx context.Context, store port.EntityStore, bp *domain.Blueprint, state *domain.State, m domain.Menu) (string, error) {
	menus, err := findMenus(ctx, store, bp, state)
	if err != nil {
		return "", err
	}
	claimed := make(map[string]bool, len(bp.Menus))
	for _, other := range bp.Menus {
		if id := state.Entity(domain.MenuKey(other.Type)); id != "" {
			claimed[id] = true
		}
	}
	for _, menu := range menus {
		if claimed[menu.ID] {
			continue
		}
		if m.Matches(menuNames(menu)) {
			return menu.ID, nil
		}
	}
	return "", nil
}

func menuNames(menu domain.Entity) (string, string) {
	names := menu.Values("name")
	return nameIn(names, "et"), nameIn(names, "en")
}

func nameIn(values domain.Values, lang string) string {
	if v, ok := values.ByLanguage(lang); ok && v.String != "" {
		return v.String
	}
	return "N/A"
}

func (uc *DiscoverUseCase) discoverProperties(ctx context.Context, state *domain.State) error {
	uc.out.Section("Discovering existing properties...")

	for _, p := range uc.blueprint.Properties() {
		parent := state.Entity(domain.TypeKey(p.EntityType))
		if parent == "" {
			continue
		}
		found, err := findProperty(ctx, uc.store, state, p.Name, parent)
		if err != nil {
			return fmt.Errorf("find property %s: %w", p.Key(), err)
		}
		if found == "" {
			uc.out.Info(fmt.Sprintf("Property '%s' missing for %s", p.Name, p.EntityType))
			continue
		}
		state.Properties[p.Key()] = found
		uc.out.Success(fmt.Sprintf("Property '%s' exists for %s", p.Name, p.EntityType))
	}
	return nil
}

func (uc *DiscoverUseCase) discoverRelationships(ctx context.Context, state *domain.State) error {
	uc.out.Section("Discovering existing relationships...")

	for _, r := range uc.blueprint.Relationships {
		source := state.Entity(domain.TypeKey(r.Type))
		target := state.Entity(r.AddFrom.StateKey())
		if source == "" || target == "" {
			continue
		}
		label := relationshipLabel(r)

		found, err := uc.store.FindEntities(ctx, url.Values{
			"_id":                {source},
			"add_from.reference": {target},
			"props":              {"_id,add_from"},
		}, 1)
		if err != nil {
			return fmt.Errorf("find relationship %s: %w", r.Key, err)
		}
		if len(found) > 0 {
			if value, ok := found[0].Values("add_from").References(target); ok {
				state.Relationships[r.Key] = firstNonEmpty(value.ID, source)
				uc.out.Success(label + " add_from relationship exists")
				continue
			}
		}
		uc.out.Info(label + " add_from relationship missing")
	}
	return nil
}

func findProperty(ctx context.Context, store port.EntityStore, state *domain.State, name, parent string) (string, error) {
	found, err := store.FindEntities(ctx, url.Values{
		"name.string":       {name},
		"_parent.reference": {parent},
		"_type.reference":   {state.Entity(domain.PropertyDefinitionKey)},
		"props":             {"_id,name"},
	}, 1)
	if err != nil || len(found) == 0 {
		return "", err
	}
	return found[0].ID, nil
}

func relationshipLabel(r domain.Relationship) string {
	return domain.Title(r.Type) + " -> " + domain.Title(r.AddFrom.String())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
