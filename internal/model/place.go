package model

// Zone is a canonical area used to group and filter curated places. Unmapped
// areas keep their lower-cased raw name as a pseudo-zone.
type Zone string

const (
	ZoneCanggu   Zone = "canggu"
	ZoneUluwatu  Zone = "uluwatu"
	ZoneSeminyak Zone = "seminyak"
	ZoneUbud     Zone = "ubud"
)

// Entry is one curated place. Entries are built by the catalog and never
// mutated afterwards.
type Entry struct {
	Name         string   `json:"name"`
	NameLocal    string   `json:"name_local,omitempty"`
	Category     string   `json:"category,omitempty"`
	Cuisine      string   `json:"cuisine,omitempty"`
	Type         string   `json:"type,omitempty"`
	Vibe         string   `json:"vibe,omitempty"`
	CuisineLocal string   `json:"cuisine_local,omitempty"`
	VibeLocal    string   `json:"vibe_local,omitempty"`
	Price        string   `json:"price,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Link         string   `json:"link,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Highlights   string   `json:"highlights,omitempty"`
	Distinction  string   `json:"distinction,omitempty"`

	// Keywords are lower-cased search tokens derived from type, cuisine,
	// vibe and tags. Deduplicated, first-seen order.
	Keywords []string `json:"keywords,omitempty"`
}

// DisplayCuisine returns the localized cuisine text, falling back to the
// search text.
func (e *Entry) DisplayCuisine() string {
	if e.CuisineLocal != "" {
		return e.CuisineLocal
	}
	return e.Cuisine
}

// DisplayVibe returns the localized vibe text, falling back to the search text.
func (e *Entry) DisplayVibe() string {
	if e.VibeLocal != "" {
		return e.VibeLocal
	}
	return e.Vibe
}
