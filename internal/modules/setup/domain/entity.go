package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// PropertyValue is one value of an Entu entity property as sent and received over the API.
type PropertyValue struct {
	ID        string   `json:"_id,omitempty"`
	Type      string   `json:"type,omitempty"`
	String    string   `json:"string,omitempty"`
	Reference string   `json:"reference,omitempty"`
	Boolean   *bool    `json:"boolean,omitempty"`
	Number    *float64 `json:"number,omitempty"`
	Integer   *int     `json:"integer,omitempty"`
	Language  string   `json:"language,omitempty"`
}

func StringValue(typ, value string) PropertyValue {
	return PropertyValue{Type: typ, String: value}
}

func LocalizedValue(typ, value, language string) PropertyValue {
	return PropertyValue{Type: typ, String: value, Language: language}
}

func ReferenceValue(typ, id string) PropertyValue {
	return PropertyValue{Type: typ, Reference: id}
}

func BooleanValue(typ string, value bool) PropertyValue {
	return PropertyValue{Type: typ, Boolean: &value}
}

func NumberValue(typ string, value float64) PropertyValue {
	return PropertyValue{Type: typ, Number: &value}
}

func IntegerValue(typ string, value int) PropertyValue {
	return PropertyValue{Type: typ, Integer: &value}
}

// Field returns the value stored under kind (string, reference, boolean, number or integer) as text.
func (v PropertyValue) Field(kind string) string {
	switch kind {
	case "reference":
		return v.Reference
	case "boolean":
		if v.Boolean != nil {
			return strconv.FormatBool(*v.Boolean)
		}
	case "number":
		if v.Number != nil {
			return strconv.FormatFloat(*v.Number, 'f', -1, 64)
		}
	case "integer":
		if v.Integer != nil {
			return strconv.Itoa(*v.Integer)
		}
	default:
		return v.String
	}
	return ""
}

type Values []PropertyValue

// ByLanguage returns the first value tagged with exactly lang.
func (vs Values) ByLanguage(lang string) (PropertyValue, bool) {
	for _, v := range vs {
		if v.Language == lang {
			return v, true
		}
	}
	return PropertyValue{}, false
}

// Localized picks the locale value, then the untagged value, then the first one.
// Empty fields fall through to the next candidate.
func (vs Values) Localized(locale, kind string) string {
	for _, v := range vs {
		if v.Language == locale && v.Language != "" {
			if s := v.Field(kind); s != "" {
				return s
			}
			break
		}
	}
	for _, v := range vs {
		if v.Language == "" {
			if s := v.Field(kind); s != "" {
				return s
			}
			break
		}
	}
	if len(vs) > 0 {
		return vs[0].Field(kind)
	}
	return ""
}

// References reports whether any value points at id.
func (vs Values) References(id string) (PropertyValue, bool) {
	for _, v := range vs {
		if id != "" && v.Reference == id {
			return v, true
		}
	}
	return PropertyValue{}, false
}

// Entity is any Entu entity: its id plus every property returned for it.
type Entity struct {
	ID    string
	Props map[string]Values
}

func (e *Entity) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode entity: %w", err)
	}
	e.Props = make(map[string]Values, len(raw))
	for key, value := range raw {
		if key == "_id" {
			if err := json.Unmarshal(value, &e.ID); err != nil {
				return fmt.Errorf("decode entity id: %w", err)
			}
			continue
		}
		var values Values
		if err := json.Unmarshal(value, &values); err != nil {
			// Non-property fields such as _sharing or _thumbnail.
			continue
		}
		e.Props[key] = values
	}
	return nil
}

func (e Entity) Values(prop string) Values {
	return e.Props[prop]
}
