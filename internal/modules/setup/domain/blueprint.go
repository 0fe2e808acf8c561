package domain

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed blueprint.yaml
var defaultBlueprint []byte

// ErrInvalidBlueprint wraps every structural problem found while loading a blueprint.
var ErrInvalidBlueprint = errors.New("invalid blueprint")

type Text struct {
	ET string `yaml:"et" validate:"required"`
	EN string `yaml:"en" validate:"required"`
}

// Blueprint is the desired state of the account.
type Blueprint struct {
	Group         Text           `yaml:"group"`
	Types         []EntityType   `yaml:"types" validate:"required,min=1,dive"`
	Menus         []Menu         `yaml:"menus" validate:"dive"`
	Relationships []Relationship `yaml:"relationships" validate:"dive"`
}

type EntityType struct {
	Name       string     `yaml:"name" validate:"required"`
	Label      Text       `yaml:"label"`
	Plural     Text       `yaml:"plural"`
	AddFrom    []string   `yaml:"addFrom"`
	Properties []Property `yaml:"properties" validate:"dive"`
}

type Property struct {
	Name         string `yaml:"name" validate:"required"`
	Label        Text   `yaml:"label"`
	Datatype     string `yaml:"datatype" validate:"required,oneof=string text number integer boolean date datetime file reference"`
	Public       bool   `yaml:"public"`
	Search       bool   `yaml:"search"`
	Markdown     bool   `yaml:"markdown"`
	Multilingual *bool  `yaml:"multilingual"`

	// Ordinal and EntityType are filled in by LoadBlueprint.
	Ordinal    int    `yaml:"-"`
	EntityType string `yaml:"-"`
}

type Menu struct {
	Type  string   `yaml:"type" validate:"required"`
	Name  Text     `yaml:"name"`
	Sort  int      `yaml:"sort" validate:"gte=0"`
	Match []string `yaml:"match" validate:"required,min=1"`
}

// Query is the entity list query the menu opens in the Entu UI.
func (m Menu) Query() string {
	return "_type.string=" + m.Type + "&sort=name.string"
}

// Matches reports whether an existing menu named et/en belongs to this menu's type.
func (m Menu) Matches(et, en string) bool {
	et, en = strings.ToLower(et), strings.ToLower(en)
	for _, needle := range m.Match {
		needle = strings.ToLower(needle)
		if strings.Contains(et, needle) || strings.Contains(en, needle) {
			return true
		}
	}
	return false
}

// Ref points at an entity type or at the menu of an entity type.
type Ref struct {
	Type string `yaml:"type" validate:"required_without=Menu,excluded_with=Menu"`
	Menu string `yaml:"menu" validate:"required_without=Type"`
}

// StateKey is the State.Entities key holding the referenced ID.
func (r Ref) StateKey() string {
	if r.Menu != "" {
		return MenuKey(r.Menu)
	}
	return TypeKey(r.Type)
}

func (r Ref) String() string {
	if r.Menu != "" {
		return r.Menu + " menu"
	}
	return r.Type
}

// Relationship adds an add_from reference to an entity type definition.
type Relationship struct {
	Key     string `yaml:"key" validate:"required"`
	Type    string `yaml:"type" validate:"required"`
	AddFrom Ref    `yaml:"addFrom"`
}

var validate = validator.New()

// DefaultBlueprint returns the embedded map application blueprint.
func DefaultBlueprint() (*Blueprint, error) {
	return LoadBlueprint(defaultBlueprint)
}

func LoadBlueprint(data []byte) (*Blueprint, error) {
	var bp Blueprint
	if err := yaml.Unmarshal(data, &bp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBlueprint, err)
	}
	if err := validate.Struct(bp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBlueprint, err)
	}
	if err := bp.link(); err != nil {
		return nil, err
	}
	return &bp, nil
}

func (bp *Blueprint) link() error {
	seen := make(map[string]struct{}, len(bp.Types))
	for i := range bp.Types {
		t := &bp.Types[i]
		if _, dup := seen[t.Name]; dup {
			return fmt.Errorf("%w: duplicate type %q", ErrInvalidBlueprint, t.Name)
		}
		for _, from := range t.AddFrom {
			if _, ok := seen[from]; !ok {
				return fmt.Errorf("%w: type %q adds from %q which is not declared before it", ErrInvalidBlueprint, t.Name, from)
			}
		}
		seen[t.Name] = struct{}{}
		for j := range t.Properties {
			t.Properties[j].Ordinal = j + 1
			t.Properties[j].EntityType = t.Name
		}
	}
	menus := make(map[string]struct{}, len(bp.Menus))
	for _, m := range bp.Menus {
		if _, ok := seen[m.Type]; !ok {
			return fmt.Errorf("%w: menu for unknown type %q", ErrInvalidBlueprint, m.Type)
		}
		menus[m.Type] = struct{}{}
	}
	for _, r := range bp.Relationships {
		if _, ok := seen[r.Type]; !ok {
			return fmt.Errorf("%w: relationship %q on unknown type %q", ErrInvalidBlueprint, r.Key, r.Type)
		}
		if r.AddFrom.Menu != "" {
			if _, ok := menus[r.AddFrom.Menu]; !ok {
				return fmt.Errorf("%w: relationship %q targets unknown menu %q", ErrInvalidBlueprint, r.Key, r.AddFrom.Menu)
			}
		} else if _, ok := seen[r.AddFrom.Type]; !ok {
			return fmt.Errorf("%w: relationship %q targets unknown type %q", ErrInvalidBlueprint, r.Key, r.AddFrom.Type)
		}
	}
	return nil
}

func (bp *Blueprint) Type(name string) (EntityType, bool) {
	for _, t := range bp.Types {
		if t.Name == name {
			return t, true
		}
	}
	return EntityType{}, false
}

// Properties lists every property in type order.
func (bp *Blueprint) Properties() []Property {
	var out []Property
	for _, t := range bp.Types {
		out = append(out, t.Properties...)
	}
	return out
}

// Key is the State.Properties key of the property.
func (p Property) Key() string {
	return PropertyKey(p.Name, p.EntityType)
}

// Title capitalises a type name for console output.
func Title(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
