package model

// Provenance tags where a result came from.
type Provenance string

const (
	// ProvenanceCurated marks results from the hand-maintained record store.
	ProvenanceCurated Provenance = "curated"
	// ProvenanceAugmented marks content returned by the knowledge-search provider.
	ProvenanceAugmented Provenance = "augmented"
)

// ScoredResult is a curated entry matched by a query. It lives for a single
// search call.
type ScoredResult struct {
	Entry      *Entry     `json:"entry"`
	Zone       Zone       `json:"zone"`
	Score      int        `json:"score"`
	Provenance Provenance `json:"provenance"`
}

// AugmentedAnswer is the normalized provider response for one escalated
// search. It is never merged into the curated index.
type AugmentedAnswer struct {
	Content   string   `json:"content"`
	Citations []string `json:"citations,omitempty"`
	Images    []string `json:"images,omitempty"`
}
