// Package catalog describes the curated place categories and builds
// per-zone indexes from their record-store rows.
package catalog

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrUnknownCategory is returned when a caller names a category that has no
// profile.
var ErrUnknownCategory = eris.New("catalog: unknown category")

// FieldMap names the record fields that feed each Entry attribute. An empty
// name leaves the attribute blank.
type FieldMap struct {
	Area         string
	Name         string
	NameLocal    string
	Category     string
	Type         string
	Cuisine      string
	CuisineLocal string
	Vibe         string
	VibeLocal    string
	Price        string
	Tags         string
	Link         string
	Phone        string
	Highlights   string
	Distinction  string
}

// Profile configures one curated category: where its rows live, how their
// fields map to entries, which queries count as general and whether the
// category may escalate to the knowledge-search provider.
type Profile struct {
	Name         string
	Title        string
	Noun         string
	Table        string
	Fields       FieldMap
	GeneralTerms []string
	Augment      bool
}

// IsGeneral reports whether a lower-cased query contains one of the
// profile's general terms.
func (p Profile) IsGeneral(query string) bool {
	for _, t := range p.GeneralTerms {
		if strings.Contains(query, t) {
			return true
		}
	}
	return false
}

var profiles = map[string]Profile{
	"restaurants": {
		Name:  "restaurants",
		Title: "Restaurants",
		Noun:  "restaurants",
		Table: "restaurants",
		Fields: FieldMap{
			Area:         "area",
			Name:         "restaurant_name_en",
			Type:         "category_en",
			Cuisine:      "cuisine_style_en",
			CuisineLocal: "cuisine_style_ru",
			Vibe:         "vibe_short_en",
			VibeLocal:    "vibe_short_ru",
			Price:        "price_level",
			Tags:         "vibe_tags",
			Link:         "instagram_link",
		},
		GeneralTerms: []string{
			"ресторан", "restaurant", "где поесть", "where to eat",
			"поесть", "eat", "кафе", "cafe", "еда", "food",
		},
		Augment: true,
	},
	"breakfast": {
		Name:  "breakfast",
		Title: "Breakfast",
		Noun:  "breakfast and brunch spots",
		Table: "breakfast",
		Fields: FieldMap{
			Area:         "area",
			Name:         "restaurant_name_en",
			NameLocal:    "restaurant_name_ru",
			Type:         "category_en",
			Category:     "category_ru",
			CuisineLocal: "cuisine_style_ru",
			VibeLocal:    "vibe_short_ru",
			Distinction:  "awards_ru",
			Price:        "price_level",
			Link:         "instagram_link",
			Phone:        "phone",
		},
		GeneralTerms: []string{
			"завтрак", "breakfast", "бранч", "brunch",
			"кофе", "coffee", "кафе", "cafe",
		},
	},
	"spa": {
		Name:  "spa",
		Title: "Spa",
		Noun:  "spas and massage salons",
		Table: "spa",
		Fields: FieldMap{
			Area:        "area",
			Name:        "spa_name_en",
			NameLocal:   "spa_name_ru",
			Type:        "category_en",
			Category:    "category_ru",
			Cuisine:     "massage_type_ru",
			VibeLocal:   "vibe_short_ru",
			Distinction: "awards_ru",
			Price:       "price_level",
			Link:        "instagram_link",
			Phone:       "phone",
		},
		GeneralTerms: []string{"спа", "spa", "массаж", "massage"},
	},
	"shopping": {
		Name:  "shopping",
		Title: "Shopping",
		Noun:  "shops and boutiques",
		Table: "shopping",
		Fields: FieldMap{
			Area:      "area",
			Name:      "shop_name_en",
			NameLocal: "shop_name_ru",
			Type:      "category_en",
			Category:  "category_ru",
			Cuisine:   "specialty_ru",
			VibeLocal: "vibe_short_ru",
			Price:     "price_level",
			Link:      "instagram_link",
			Phone:     "phone",
		},
		GeneralTerms: []string{"шопинг", "shopping", "магазин", "shop", "store"},
	},
	"art": {
		Name:  "art",
		Title: "Art",
		Noun:  "galleries and art spaces",
		Table: "art",
		Fields: FieldMap{
			Area:      "area",
			Name:      "art_name_en",
			NameLocal: "art_name_ru",
			Type:      "category_en",
			Category:  "category_ru",
			Cuisine:   "specialty_ru",
			VibeLocal: "vibe_short_ru",
			Price:     "price_level",
			Link:      "instagram_link",
			Phone:     "phone",
		},
		GeneralTerms: []string{"искусство", "арт", "art", "галере", "gallery"},
	},
	"yoga": {
		Name:  "yoga",
		Title: "Yoga",
		Noun:  "yoga and fitness studios",
		Table: "yoga",
		Fields: FieldMap{
			Area:         "area",
			Name:         "studio_name_en",
			Type:         "category_en",
			Category:     "category_ru",
			Cuisine:      "specialties_en",
			CuisineLocal: "specialties_ru",
			Highlights:   "highlights_en",
			VibeLocal:    "highlights_ru",
			Price:        "booking_type",
			Distinction:  "prestige_tier",
			Link:         "instagram_link",
		},
		GeneralTerms: []string{"йога", "yoga", "фитнес", "fitness", "студи", "studio"},
	},
	"hotels": {
		Name:  "hotels",
		Title: "Hotels",
		Noun:  "hotels and villas",
		Table: "hotels",
		Fields: FieldMap{
			Area:         "area",
			Name:         "hotel_name_en",
			NameLocal:    "hotel_name_ru",
			Type:         "type_en",
			Category:     "type_ru",
			Cuisine:      "style_en",
			CuisineLocal: "style_ru",
			Vibe:         "vibe_short_en",
			VibeLocal:    "vibe_short_ru",
			Highlights:   "description_ru_short",
			Price:        "price_level",
			Link:         "booking_link",
			Phone:        "phone",
		},
		GeneralTerms: []string{"отель", "hotel", "жиль", "stay", "вилл", "villa"},
	},
}

// Profiles returns every category profile sorted by name.
func Profiles() []Profile {
	out := make([]Profile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the profile for a category name (case-insensitive).
func Lookup(name string) (Profile, error) {
	p, ok := profiles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Profile{}, eris.Wrapf(ErrUnknownCategory, "category %q", name)
	}
	return p, nil
}
