// Package fuzzy provides edit-distance string similarity used for relevance
// scoring.
package fuzzy

import (
	"math"
	"strings"

	"github.com/agext/levenshtein"
)

// PartialRatio scores how well the shorter string aligns with its best
// matching substring in the longer one, in [0,100]. Containment scores 100;
// an empty side scores 0. The result is symmetric in its arguments.
func PartialRatio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}

	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if strings.Contains(string(long), string(short)) {
		return 100
	}

	s := string(short)
	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		sim := levenshtein.Similarity(s, string(long[i:i+len(short)]), nil)
		if sim > best {
			best = sim
			if best >= 1 {
				break
			}
		}
	}
	return int(math.Round(best * 100))
}
