package retrieval

import (
	"github.com/sells-group/placesearch/internal/model"
)

// Merge builds the response. Every curated result is kept in order; the
// provider answer, when present, only fills the augmented fields.
func Merge(query string, curated []model.ScoredResult, ans *model.AugmentedAnswer) *model.Response {
	resp := &model.Response{
		Query:   query,
		Curated: make([]model.CuratedPlace, 0, len(curated)),
		Sources: []string{},
		Images:  []string{},
	}

	for _, r := range curated {
		e := r.Entry
		resp.Curated = append(resp.Curated, model.CuratedPlace{
			Name:       e.Name,
			NameLocal:  e.NameLocal,
			Zone:       r.Zone,
			Cuisine:    e.DisplayCuisine(),
			Vibe:       e.DisplayVibe(),
			Price:      e.Price,
			Link:       e.Link,
			Phone:      e.Phone,
			Relevance:  r.Score,
			Provenance: r.Provenance,
		})
	}

	if ans != nil && ans.Content != "" {
		resp.Augmented = ans.Content
		if ans.Citations != nil {
			resp.Sources = ans.Citations
		}
		if ans.Images != nil {
			resp.Images = ans.Images
		}
	}
	return resp
}
