package domain

import "encoding/json"

// DiscogsResult is the subset of a Discogs database search result the proxy reads.
type DiscogsResult struct {
	ID      int64           `json:"id"`
	Title   string          `json:"title"`
	Year    json.RawMessage `json:"year,omitempty"`
	Country string          `json:"country,omitempty"`
	Format  []string        `json:"format"`
	Label   []string        `json:"label"`
	Thumb   string          `json:"thumb"`
}

// Release is the shape returned by /api/discogs.
type Release struct {
	ID      int64           `json:"id"`
	Title   string          `json:"title"`
	Year    json.RawMessage `json:"year,omitempty"`
	Country string          `json:"country,omitempty"`
	Format  []string        `json:"format"`
	Label   []string        `json:"label"`
	Image   string          `json:"image,omitempty"`
}

func NewRelease(r DiscogsResult) Release {
	return Release{
		ID:      r.ID,
		Title:   r.Title,
		Year:    r.Year,
		Country: r.Country,
		Format:  Unique(r.Format),
		Label:   Unique(r.Label),
		Image:   r.Thumb,
	}
}

// Unique drops repeated values, keeping first occurrences in order. It never returns nil.
func Unique(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
