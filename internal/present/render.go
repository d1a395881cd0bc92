// Package present renders engine responses as chat-ready text.
package present

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/placesearch/internal/model"
)

// MaxSources caps the citations listed under an answer.
const MaxSources = 3

const (
	curatedHeading   = "**Curated places:**"
	augmentedHeading = "**Current information:**"
	sourcesHeading   = "**Sources:**"
	noResults        = "No matching places found."
)

// Render formats resp: every curated place numbered with its non-empty
// details, then the provider answer and up to MaxSources citations.
func Render(resp *model.Response) string {
	if resp == nil || (len(resp.Curated) == 0 && !resp.HasAugmented()) {
		return noResults
	}

	var b strings.Builder
	if len(resp.Curated) > 0 {
		b.WriteString(curatedHeading)
		b.WriteString("\n\n")
		for i, c := range resp.Curated {
			writePlace(&b, i+1, c)
		}
	}

	if resp.HasAugmented() {
		if len(resp.Curated) > 0 {
			b.WriteString(augmentedHeading)
			b.WriteString("\n\n")
		}
		b.WriteString(strings.TrimSpace(resp.Augmented))
		b.WriteString("\n\n")

		if len(resp.Sources) > 0 {
			b.WriteString(sourcesHeading)
			b.WriteString("\n")
			for i, s := range resp.Sources {
				if i == MaxSources {
					break
				}
				fmt.Fprintf(&b, "%d. %s\n", i+1, s)
			}
		}
	}

	if resp.RateLimited {
		b.WriteString("\nDaily limit for live updates reached; showing curated places only.\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func writePlace(b *strings.Builder, n int, c model.CuratedPlace) {
	zoneTitle := cases.Title(language.Und)
	fmt.Fprintf(b, "**%d. %s**", n, c.Name)
	if c.NameLocal != "" && c.NameLocal != c.Name {
		fmt.Fprintf(b, " / %s", c.NameLocal)
	}
	if c.Zone != "" {
		fmt.Fprintf(b, " (%s)", zoneTitle.String(string(c.Zone)))
	}
	b.WriteString("\n")

	detail := func(prefix, v string) {
		if v != "" {
			fmt.Fprintf(b, "└ %s%s\n", prefix, v)
		}
	}
	detail("", c.Cuisine)
	detail("", c.Vibe)
	detail("💰 ", c.Price)
	detail("📞 ", c.Phone)
	detail("", c.Link)
	b.WriteString("\n")
}
