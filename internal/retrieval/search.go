package retrieval

import (
	"sort"
	"strings"

	"github.com/sells-group/placesearch/internal/area"
	"github.com/sells-group/placesearch/internal/catalog"
	"github.com/sells-group/placesearch/internal/model"
)

// Threshold is the minimum score a specific query needs to include an entry.
// The boundary is inclusive: an exact name match alone scores 40 and must
// be found.
const Threshold = 40

// maxGeneralTokens is the longest query still treated as general when it
// contains a general term.
const maxGeneralTokens = 5

// IsGeneralQuery reports whether query asks for a category as a whole rather
// than something specific: blank, or a short query containing a general term.
func IsGeneralQuery(p catalog.Profile, query string) bool {
	q := strings.ToLower(query)
	if strings.TrimSpace(q) == "" {
		return true
	}
	return p.IsGeneral(q) && len(strings.Fields(q)) <= maxGeneralTokens
}

// SearchCurated scores every entry in the target zones and returns the
// matches, best first. Ties keep index order. A general query includes every
// entry; a specific one only those scoring at least Threshold. zone may be
// empty for all zones; a non-empty raw zone is normalized first.
func SearchCurated(ix *catalog.Index, p catalog.Profile, query string, zone model.Zone) []model.ScoredResult {
	zones := ix.Zones()
	if zone != "" {
		zones = []model.Zone{area.Normalize(string(zone))}
	}

	general := IsGeneralQuery(p, query)
	var out []model.ScoredResult
	for _, z := range zones {
		for _, e := range ix.Entries(z) {
			s := Score(query, e)
			if !general && s < Threshold {
				continue
			}
			out = append(out, model.ScoredResult{
				Entry:      e,
				Zone:       z,
				Score:      s,
				Provenance: model.ProvenanceCurated,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
