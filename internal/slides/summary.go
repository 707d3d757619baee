package slides

import (
	"bytes"
	"encoding/json"
)

// SlideSummary is one entry of the index. Path is the identity of the slide
// and the only field ever used to request its fragment.
type SlideSummary struct {
	Path        string `json:"path"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// SlideIndex is the ordered list of summaries; order is display order.
type SlideIndex []SlideSummary

// Paths returns the path of every summary in index order.
func (idx SlideIndex) Paths() []string {
	paths := make([]string, len(idx))
	for i, s := range idx {
		paths[i] = s.Path
	}
	return paths
}

// UnmarshalJSON decodes a summary without rejecting odd entries: the index
// is passed to the renderer as published. Missing or null fields become "",
// non-string scalars keep their JSON text, and a non-object entry decodes
// to the zero summary.
func (s *SlideSummary) UnmarshalJSON(data []byte) error {
	*s = SlideSummary{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return err
	}

	s.Path = looseString(fields["path"])
	s.Title = looseString(fields["title"])
	s.Description = looseString(fields["description"])
	s.Image = looseString(fields["image"])
	return nil
}

func looseString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	return string(raw)
}

// indexDocument is the wire shape of query-index.json.
type indexDocument struct {
	Data json.RawMessage `json:"data"`
}
