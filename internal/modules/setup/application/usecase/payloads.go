package usecase

import "entuKaart/internal/modules/setup/domain"

func typePayload(t domain.EntityType, state *domain.State) []domain.PropertyValue {
	values := []domain.PropertyValue{
		domain.ReferenceValue("_type", state.Entity(domain.EntityDefinitionKey)),
		domain.StringValue("name", t.Name),
		domain.LocalizedValue("label", t.Label.ET, "et"),
		domain.LocalizedValue("label", t.Label.EN, "en"),
		domain.LocalizedValue("label_plural", t.Plural.ET, "et"),
		domain.LocalizedValue("label_plural", t.Plural.EN, "en"),
		domain.ReferenceValue("_parent", state.Entity(domain.DatabaseKey)),
	}
	for _, from := range t.AddFrom {
		if id := state.Entity(domain.TypeKey(from)); id != "" {
			values = append(values, domain.ReferenceValue("add_from", id))
		}
	}
	return values
}

func propertyPayload(p domain.Property, parent string, state *domain.State) []domain.PropertyValue {
	values := []domain.PropertyValue{
		domain.ReferenceValue("_type", state.Entity(domain.PropertyDefinitionKey)),
		domain.ReferenceValue("_parent", parent),
		domain.StringValue("name", p.Name),
		domain.LocalizedValue("label", p.Label.ET, "et"),
		domain.LocalizedValue("label", p.Label.EN, "en"),
		domain.StringValue("type", p.Datatype),
		domain.BooleanValue("public", p.Public),
		domain.NumberValue("ordinal", float64(p.Ordinal)),
	}
	if p.Search {
		values = append(values, domain.BooleanValue("search", true))
	}
	if p.Markdown {
		values = append(values, domain.BooleanValue("markdown", true))
	}
	if p.Multilingual != nil && !*p.Multilingual {
		values = append(values, domain.BooleanValue("multilingual", false))
	}
	return values
}

func menuPayload(m domain.Menu, group domain.Text, typeID string, state *domain.State) []domain.PropertyValue {
	return []domain.PropertyValue{
		domain.ReferenceValue("_type", state.Entity(domain.MenuDefinitionKey)),
		domain.LocalizedValue("name", m.Name.ET, "et"),
		domain.LocalizedValue("name", m.Name.EN, "en"),
		domain.LocalizedValue("group", group.ET, "et"),
		domain.LocalizedValue("group", group.EN, "en"),
		domain.StringValue("query", m.Query()),
		domain.ReferenceValue("entity", typeID),
		domain.IntegerValue("sort", m.Sort),
		domain.ReferenceValue("_parent", state.Entity(domain.DatabaseKey)),
	}
}
