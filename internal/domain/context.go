package domain

import "encoding/json"

// KeywordSection holds the keyword-search half of the evidence bundle.
// An unavailable backend is represented by empty results plus an error
// string, never by omitting the section.
type KeywordSection struct {
	Keywords   []string `json:"keywords_used"`
	NumResults int      `json:"num_results"`
	Results    []Hit    `json:"results"`
	Error      string   `json:"error,omitempty"`
}

// VectorSection holds the vector-search half of the evidence bundle,
// ordered by adjusted score descending.
type VectorSection struct {
	NumResults int    `json:"num_results"`
	Results    []Hit  `json:"results"`
	Error      string `json:"error,omitempty"`
}

// Context is the evidence bundle for one query. It is built once per request
// and consumed unchanged by both validator gates and the runtime agent, so
// all three reason over identical evidence.
type Context struct {
	UserQuery string         `json:"user_query"`
	Keyword   KeywordSection `json:"keyword_search"`
	Vector    VectorSection  `json:"vector_search"`
}

// BuildErrors lists the per-subsystem failures recorded during assembly.
func (c *Context) BuildErrors() []string {
	var errs []string
	if c.Keyword.Error != "" {
		errs = append(errs, c.Keyword.Error)
	}
	if c.Vector.Error != "" {
		errs = append(errs, c.Vector.Error)
	}
	return errs
}

// Payload serializes the evidence bundle for embedding into a model prompt.
func (c *Context) Payload() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
