// Package area maps free-form area names to canonical zones.
package area

import (
	"strings"

	"github.com/sells-group/placesearch/internal/model"
)

type group struct {
	zone    model.Zone
	aliases []string
}

// groups are checked in order; the first group with a matching alias wins.
var groups = []group{
	{model.ZoneCanggu, []string{"canggu", "berawa", "pererenan"}},
	{model.ZoneUluwatu, []string{"uluwatu", "bingin"}},
	{model.ZoneSeminyak, []string{"seminyak", "kerobokan"}},
	{model.ZoneUbud, []string{"ubud"}},
}

// Normalize returns the canonical zone for a raw area name. Matching is a
// case-insensitive substring test. Unmapped input is returned lower-cased.
func Normalize(raw string) model.Zone {
	lower := strings.ToLower(raw)
	for _, g := range groups {
		for _, alias := range g.aliases {
			if strings.Contains(lower, alias) {
				return g.zone
			}
		}
	}
	return model.Zone(lower)
}

// Known returns the canonical zones in priority order.
func Known() []model.Zone {
	zones := make([]model.Zone, len(groups))
	for i, g := range groups {
		zones[i] = g.zone
	}
	return zones
}
