package domain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestDefaultBlueprint(t *testing.T) {
	t.Parallel()

	bp, err := DefaultBlueprint()
	require.NoError(t, err)

	require.Equal(t, Text{ET: "Kaardirakendus", EN: "Map App"}, bp.Group)

	var keys []string
	for _, p := range bp.Properties() {
		keys = append(keys, p.Key())
	}
	expected := []string{
		"name_kaart", "kirjeldus_kaart", "url_kaart",
		"name_asukoht", "kirjeldus_asukoht", "long_asukoht", "lat_asukoht", "photo_asukoht", "link_asukoht",
	}
	if diff := cmp.Diff(expected, keys); diff != "" {
		t.Fatalf("property keys mismatch (-want +got):\n%s", diff)
	}

	asukoht, ok := bp.Type("asukoht")
	require.True(t, ok)
	require.Equal(t, []string{"kaart"}, asukoht.AddFrom)
	require.Equal(t, 4, asukoht.Properties[3].Ordinal)
	require.Equal(t, "lat", asukoht.Properties[3].Name)
	require.NotNil(t, asukoht.Properties[5].Multilingual)
	require.False(t, *asukoht.Properties[5].Multilingual)

	require.Equal(t, "_type.string=kaart&sort=name.string", bp.Menus[0].Query())
	require.Equal(t, "kaartMenuEntityId", bp.Relationships[1].AddFrom.StateKey())
	require.Equal(t, "kaartEntityDefinitionId", bp.Relationships[0].AddFrom.StateKey())
}

func TestLoadBlueprint_Rejects(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"forward add_from": `
group: {et: G, en: G}
types:
  - name: a
    label: {et: A, en: A}
    plural: {et: A, en: A}
    addFrom: [b]
  - name: b
    label: {et: B, en: B}
    plural: {et: B, en: B}
`,
		"bad datatype": `
group: {et: G, en: G}
types:
  - name: a
    label: {et: A, en: A}
    plural: {et: A, en: A}
    properties:
      - name: x
        label: {et: X, en: X}
        datatype: blob
`,
		"missing label": `
group: {et: G, en: G}
types:
  - name: a
    label: {et: A}
    plural: {et: A, en: A}
`,
		"menu for unknown type": `
group: {et: G, en: G}
types:
  - name: a
    label: {et: A, en: A}
    plural: {et: A, en: A}
menus:
  - type: z
    name: {et: Z, en: Z}
    match: [z]
`,
		"ref with both targets": `
group: {et: G, en: G}
types:
  - name: a
    label: {et: A, en: A}
    plural: {et: A, en: A}
relationships:
  - key: k
    type: a
    addFrom: {type: a, menu: a}
`,
	}

	for name, doc := range cases {
		if _, err := LoadBlueprint([]byte(doc)); !errors.Is(err, ErrInvalidBlueprint) {
			t.Fatalf("%s: expected ErrInvalidBlueprint, got %v", name, err)
		}
	}
}

func TestMenu_Matches(t *testing.T) {
	t.Parallel()

	m := Menu{Type: "asukoht", Match: []string{"asukoht", "location"}}
	require.True(t, m.Matches("Asukohad", "Locations"))
	require.False(t, m.Matches("Asukohad", "N/A"))
	require.True(t, m.Matches("N/A", "All Locations"))
	require.False(t, m.Matches("Kaardid", "Maps"))
}
