package domain

import "fmt"

// Origin identifies which search backend produced a hit.
type Origin string

const (
	OriginKeyword Origin = "keyword"
	OriginVector  Origin = "vector"
)

// Hit is one retrieved document fragment, normalized at the adapter boundary
// from whatever field names the backend payload happened to use.
type Hit struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	URL     string   `json:"url"`
	Source  string   `json:"source"`
	Content string   `json:"content"`
	Origin  Origin   `json:"origin"`
	Score   *float64 `json:"score,omitempty"`          // vector hits only
	Keyword string   `json:"search_keyword,omitempty"` // keyword hits only
}

// PlaceholderURL is substituted when the upstream document genuinely lacks a
// canonical URL. Hits never carry an empty URL.
func PlaceholderURL(id string) string {
	return fmt.Sprintf("urn:campus:doc/%s", id)
}
