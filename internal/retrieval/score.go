// Package retrieval ranks curated entries against a query, decides when to
// escalate to the knowledge-search provider and assembles responses.
package retrieval

import (
	"math"
	"strings"

	"github.com/sells-group/placesearch/internal/fuzzy"
	"github.com/sells-group/placesearch/internal/model"
)

const (
	nameWeight    = 0.4
	cuisineWeight = 0.2
	typeWeight    = 0.2
	keywordBonus  = 20
	specialBonus  = 15
	maxScore      = 100
)

// specialTerms are synonym groups. A group adds specialBonus when both the
// query and the entry's auxiliary text mention one of its synonyms.
var specialTerms = []struct {
	name     string
	synonyms []string
}{
	{"michelin", []string{"michelin", "starred", "star"}},
	{"fine dining", []string{"fine dining", "tasting menu", "degustation"}},
	{"romantic", []string{"romantic", "date", "anniversary"}},
	{"view", []string{"view", "ocean", "sunset", "cliff"}},
	{"new", []string{"new", "2024", "2025", "opening"}},
	{"cheap", []string{"cheap", "budget", "affordable"}},
	{"expensive", []string{"expensive", "luxury", "premium"}},
}

// Score rates how well e matches query, in [0,100].
func Score(query string, e *model.Entry) int {
	q := strings.ToLower(query)

	s := nameWeight*float64(fuzzy.PartialRatio(q, strings.ToLower(e.Name))) +
		cuisineWeight*float64(fuzzy.PartialRatio(q, strings.ToLower(e.Cuisine))) +
		typeWeight*float64(fuzzy.PartialRatio(q, strings.ToLower(e.Type)))

	for _, k := range e.Keywords {
		if strings.Contains(q, k) {
			s += keywordBonus
		}
	}

	aux := auxText(e)
	for _, st := range specialTerms {
		if containsAny(q, st.synonyms) && containsAny(aux, st.synonyms) {
			s += specialBonus
		}
	}

	return int(math.Round(math.Min(s, maxScore)))
}

func auxText(e *model.Entry) string {
	return strings.ToLower(e.Highlights + " " + e.Distinction + " " + strings.Join(e.Keywords, " "))
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
