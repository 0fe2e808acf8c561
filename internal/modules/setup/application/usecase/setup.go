package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"entuKaart/internal/modules/setup/application/port"
	"entuKaart/internal/modules/setup/domain"
)

// ErrIncompleteDiscovery means the core definitions are unknown and nothing can be parented.
var ErrIncompleteDiscovery = errors.New("discovery incomplete")

// SetupUseCase creates whatever part of the blueprint is missing from the account.
type SetupUseCase struct {
	store     port.EntityStore
	blueprint *domain.Blueprint
	out       port.Reporter
	events    port.EventPublisher
	runID     string
	now       func() time.Time
}

func NewSetupUseCase(store port.EntityStore, blueprint *domain.Blueprint, out port.Reporter, events port.EventPublisher, runID string) *SetupUseCase {
	return &SetupUseCase{
		store:     store,
		blueprint: blueprint,
		out:       out,
		events:    events,
		runID:     runID,
		now:       time.Now,
	}
}

// Plan lists every blueprint record and whether state already knows its ID.
func (uc *SetupUseCase) Plan(state *domain.State) []domain.PlanItem {
	var items []domain.PlanItem
	for _, t := range uc.blueprint.Types {
		items = append(items, domain.PlanItem{
			Kind:   domain.KindType,
			Key:    t.Name,
			Label:  domain.Title(t.Name) + " entity",
			Exists: state.Entity(domain.TypeKey(t.Name)) != "",
		})
	}
	for _, p := range uc.blueprint.Properties() {
		items = append(items, domain.PlanItem{
			Kind:   domain.KindProperty,
			Key:    p.Key(),
			Label:  fmt.Sprintf("Property '%s' for %s", p.Name, p.EntityType),
			Exists: state.Properties[p.Key()] != "",
		})
	}
	for _, m := range uc.blueprint.Menus {
		items = append(items, domain.PlanItem{
			Kind:   domain.KindMenu,
			Key:    m.Type,
			Label:  m.Name.ET + " menu",
			Exists: state.Entity(domain.MenuKey(m.Type)) != "",
		})
	}
	for _, r := range uc.blueprint.Relationships {
		items = append(items, domain.PlanItem{
			Kind:   domain.KindRelationship,
			Key:    r.Key,
			Label:  relationshipLabel(r) + " relationship",
			Exists: state.Relationships[r.Key] != "",
		})
	}
	return items
}

// Apply reconciles types, properties, menus and relationships in that order.
// It stops at the first failed request; state keeps every ID recorded before it.
func (uc *SetupUseCase) Apply(ctx context.Context, state *domain.State) (*domain.Report, error) {
	if missing := state.MissingCore(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrIncompleteDiscovery, strings.Join(missing, ", "))
	}

	report := domain.NewReport(uc.runID)
	steps := []func(context.Context, *domain.State, *domain.Report) error{
		uc.applyTypes,
		uc.applyProperties,
		uc.applyMenus,
		uc.applyRelationships,
	}
	for _, step := range steps {
		if err := step(ctx, state, report); err != nil {
			return report, err
		}
	}

	uc.publish(ctx, domain.KindRun, uc.runID, domain.ActionCompleted, "")
	slog.Info("setup run completed", slog.String("runId", uc.runID), slog.Int("created", report.TotalCreated()))
	return report, nil
}

func (uc *SetupUseCase) applyTypes(ctx context.Context, state *domain.State, report *domain.Report) error {
	uc.out.Section("Entity types")

	for _, t := range uc.blueprint.Types {
		key := domain.TypeKey(t.Name)
		title := domain.Title(t.Name)
		if id := state.Entity(key); id != "" {
			uc.out.Skip(title + " entity (already exists)")
			uc.record(ctx, report, domain.KindType, t.Name, domain.ActionSkipped, id)
			continue
		}

		found, err := uc.store.FindByNameAndType(ctx, t.Name, "entity")
		if err != nil {
			return uc.fail(ctx, domain.KindType, t.Name, err)
		}
		if len(found) > 0 {
			state.SetEntity(key, found[0].ID)
			uc.out.Skip(fmt.Sprintf("%s entity (found existing %s)", title, found[0].ID))
			uc.record(ctx, report, domain.KindType, t.Name, domain.ActionFound, found[0].ID)
			continue
		}

		uc.out.Progress(fmt.Sprintf("Creating %s (%s) entity type...", t.Label.ET, t.Label.EN))
		id, err := uc.store.CreateEntity(ctx, typePayload(t, state))
		if err != nil {
			return uc.fail(ctx, domain.KindType, t.Name, err)
		}
		state.SetEntity(key, id)
		uc.out.Success(fmt.Sprintf("%s entity created: %s", t.Label.ET, id))
		uc.record(ctx, report, domain.KindType, t.Name, domain.ActionCreated, id)
	}
	return nil
}

func (uc *SetupUseCase) applyProperties(ctx context.Context, state *domain.State, report *domain.Report) error {
	uc.out.Section("Properties")

	for _, p := range uc.blueprint.Properties() {
		key := p.Key()
		if id := state.Properties[key]; id != "" {
			uc.out.Skip(fmt.Sprintf("Property '%s' for %s (already exists)", p.Name, p.EntityType))
			uc.record(ctx, report, domain.KindProperty, key, domain.ActionSkipped, id)
			continue
		}

		parent := state.Entity(domain.TypeKey(p.EntityType))
		if parent == "" {
			uc.out.Warning(fmt.Sprintf("Skipping property '%s' - %s entity doesn't exist", p.Name, p.EntityType))
			continue
		}

		found, err := findProperty(ctx, uc.store, state, p.Name, parent)
		if err != nil {
			return uc.fail(ctx, domain.KindProperty, key, err)
		}
		if found != "" {
			state.Properties[key] = found
			uc.out.Skip(fmt.Sprintf("Property '%s' for %s (found existing %s)", p.Name, p.EntityType, found))
			uc.record(ctx, report, domain.KindProperty, key, domain.ActionFound, found)
			continue
		}

		id, err := uc.store.CreateEntity(ctx, propertyPayload(p, parent, state))
		if err != nil {
			return uc.fail(ctx, domain.KindProperty, key, err)
		}
		state.Properties[key] = id
		uc.out.Success(fmt.Sprintf("Property created: %s for %s (%s)", p.Name, p.EntityType, id))
		uc.record(ctx, report, domain.KindProperty, key, domain.ActionCreated, id)
	}
	return nil
}

func (uc *SetupUseCase) applyMenus(ctx context.Context, state *domain.State, report *domain.Report) error {
	uc.out.Section("Menus")

	for _, m := range uc.blueprint.Menus {
		key := domain.MenuKey(m.Type)
		if id := state.Entity(key); id != "" {
			uc.out.Skip(m.Name.ET + " menu (already exists)")
			uc.record(ctx, report, domain.KindMenu, m.Type, domain.ActionSkipped, id)
			continue
		}

		typeID := state.Entity(domain.TypeKey(m.Type))
		if typeID == "" {
			uc.out.Warning(fmt.Sprintf("Skipping %s menu - %s entity doesn't exist", m.Name.ET, m.Type))
			continue
		}

		found, err := findMenu(ctx, uc.store, uc.blueprint, state, m)
		if err != nil {
			return uc.fail(ctx, domain.KindMenu, m.Type, err)
		}
		if found != "" {
			state.SetEntity(key, found)
			uc.out.Skip(fmt.Sprintf("%s menu (found existing %s)", m.Name.ET, found))
			uc.record(ctx, report, domain.KindMenu, m.Type, domain.ActionFound, found)
			continue
		}

		id, err := uc.store.CreateEntity(ctx, menuPayload(m, uc.blueprint.Group, typeID, state))
		if err != nil {
			return uc.fail(ctx, domain.KindMenu, m.Type, err)
		}
		state.SetEntity(key, id)
		uc.out.Success(fmt.Sprintf("Menu created: %s (%s)", m.Name.ET, id))
		uc.record(ctx, report, domain.KindMenu, m.Type, domain.ActionCreated, id)
	}
	return nil
}

func (uc *SetupUseCase) applyRelationships(ctx context.Context, state *domain.State, report *domain.Report) error {
	uc.out.Section("Relationships")

	for _, r := range uc.blueprint.Relationships {
		label := relationshipLabel(r)
		if id := state.Relationships[r.Key]; id != "" {
			uc.out.Skip(label + " relationship (already exists)")
			uc.record(ctx, report, domain.KindRelationship, r.Key, domain.ActionSkipped, id)
			continue
		}

		source := state.Entity(domain.TypeKey(r.Type))
		target := state.Entity(r.AddFrom.StateKey())
		if source == "" || target == "" {
			uc.out.Warning(fmt.Sprintf("Skipping %s relationship - %s is unknown", label, missingEndpoint(r, source)))
			continue
		}

		// Types created with add_from already carry the reference.
		if id, ok, err := uc.addFromValue(ctx, source, target); err != nil {
			return uc.fail(ctx, domain.KindRelationship, r.Key, err)
		} else if ok {
			state.Relationships[r.Key] = id
			uc.out.Skip(label + " relationship (already exists)")
			uc.record(ctx, report, domain.KindRelationship, r.Key, domain.ActionFound, id)
			continue
		}

		uc.out.Progress("Linking " + label + "...")
		if err := uc.store.UpdateEntity(ctx, source, []domain.PropertyValue{domain.ReferenceValue("add_from", target)}); err != nil {
			return uc.fail(ctx, domain.KindRelationship, r.Key, err)
		}
		id, ok, err := uc.addFromValue(ctx, source, target)
		if err != nil {
			return uc.fail(ctx, domain.KindRelationship, r.Key, err)
		}
		if !ok {
			id = source
		}
		state.Relationships[r.Key] = id
		uc.out.Success(label + " relationship created")
		uc.record(ctx, report, domain.KindRelationship, r.Key, domain.ActionCreated, id)
	}
	return nil
}

// addFromValue returns the ID of the add_from value on source that points at target.
func (uc *SetupUseCase) addFromValue(ctx context.Context, source, target string) (string, bool, error) {
	entity, err := uc.store.GetEntity(ctx, source, "add_from")
	if err != nil {
		return "", false, err
	}
	value, ok := entity.Values("add_from").References(target)
	if !ok {
		return "", false, nil
	}
	return firstNonEmpty(value.ID, source), true, nil
}

func missingEndpoint(r domain.Relationship, source string) string {
	if source == "" {
		return r.Type + " entity"
	}
	return r.AddFrom.String()
}

func (uc *SetupUseCase) record(ctx context.Context, report *domain.Report, kind domain.Kind, key string, action domain.Action, id string) {
	switch action {
	case domain.ActionCreated:
		report.Created[kind]++
	case domain.ActionSkipped, domain.ActionFound:
		report.Skipped[kind]++
	}
	slog.Debug("setup step", slog.String("runId", uc.runID), slog.String("kind", string(kind)), slog.String("key", key), slog.String("action", string(action)), slog.String("id", id))
	uc.publish(ctx, kind, key, action, id)
}

func (uc *SetupUseCase) fail(ctx context.Context, kind domain.Kind, key string, err error) error {
	slog.Error("setup step failed", slog.String("runId", uc.runID), slog.String("kind", string(kind)), slog.String("key", key), slog.Any("error", err))
	uc.publish(ctx, kind, key, domain.ActionFailed, "")
	return fmt.Errorf("%s %s: %w", kind, key, err)
}

// publish never fails the run; the activity feed is best effort.
func (uc *SetupUseCase) publish(ctx context.Context, kind domain.Kind, key string, action domain.Action, id string) {
	if uc.events == nil {
		return
	}
	event := domain.SetupEvent{
		RunID:  uc.runID,
		Kind:   kind,
		Key:    key,
		Action: action,
		ID:     id,
		At:     uc.now().UTC(),
	}
	if err := uc.events.Publish(ctx, event); err != nil {
		slog.Warn("setup event dropped", slog.String("key", key), slog.Any("error", err))
	}
}
