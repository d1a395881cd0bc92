package retrieval

import (
	"strings"

	"github.com/sells-group/placesearch/internal/model"
)

// triggers mark queries that need information fresher than the curated
// store: openings, prices, hours, bookings.
var triggers = []string{
	"новый", "new", "2024", "2025", "открыли", "opened",
	"актуальн", "current", "сейчас", "now",
	"цена", "price", "стоимость", "сколько стоит",
	"работает", "открыто", "open", "hours",
	"забронировать", "booking", "reservation",
}

// ShouldEscalate reports whether the provider should be consulted: the query
// asks for fresh details, or the curated search found nothing.
func ShouldEscalate(query string, curated []model.ScoredResult) bool {
	q := strings.ToLower(query)
	for _, t := range triggers {
		if strings.Contains(q, t) {
			return true
		}
	}
	return len(curated) == 0
}
