package model

// CuratedPlace is the caller-facing projection of a ScoredResult.
type CuratedPlace struct {
	Name       string     `json:"name"`
	NameLocal  string     `json:"name_local,omitempty"`
	Zone       Zone       `json:"zone"`
	Cuisine    string     `json:"cuisine,omitempty"`
	Vibe       string     `json:"vibe,omitempty"`
	Price      string     `json:"price,omitempty"`
	Link       string     `json:"link,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Relevance  int        `json:"relevance"`
	Provenance Provenance `json:"provenance"`
}

// Response is the result of one engine search. Curated places are always
// complete and ordered; augmented content is attached separately and never
// interleaved with them.
type Response struct {
	Query     string         `json:"query"`
	Category  string         `json:"category"`
	Zone      Zone           `json:"zone,omitempty"`
	Curated   []CuratedPlace `json:"curated"`
	Augmented string         `json:"augmented,omitempty"`
	Sources   []string       `json:"sources"`
	Images    []string       `json:"images"`

	Escalated      bool `json:"escalated"`
	RateLimited    bool `json:"rate_limited"`
	QuotaRemaining int  `json:"quota_remaining"`
}

// HasAugmented reports whether provider content is attached.
func (r *Response) HasAugmented() bool {
	return r != nil && r.Augmented != ""
}
