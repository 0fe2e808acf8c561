package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewRelease(t *testing.T) {
	t.Parallel()

	got := NewRelease(DiscogsResult{
		ID:      42,
		Title:   "Ruja - Ruja",
		Year:    json.RawMessage(`"1982"`),
		Country: "USSR",
		Format:  []string{"Vinyl", "LP", "Vinyl", "Album"},
		Label:   []string{"Мелодия", "Мелодия"},
		Thumb:   "https://i.discogs.test/t.jpg",
	})

	want := Release{
		ID:      42,
		Title:   "Ruja - Ruja",
		Year:    json.RawMessage(`"1982"`),
		Country: "USSR",
		Format:  []string{"Vinyl", "LP", "Album"},
		Label:   []string{"Мелодия"},
		Image:   "https://i.discogs.test/t.jpg",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("release mismatch (-want +got):\n%s", diff)
	}

	if empty := Unique(nil); empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}
}
