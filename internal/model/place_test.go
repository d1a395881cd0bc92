package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZoneValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		zone Zone
		want string
	}{
		{ZoneCanggu, "canggu"},
		{ZoneUluwatu, "uluwatu"},
		{ZoneSeminyak, "seminyak"},
		{ZoneUbud, "ubud"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, string(tt.zone))
		})
	}
}

func TestEntry_DisplayFallbacks(t *testing.T) {
	t.Parallel()

	e := &Entry{Cuisine: "Indonesian", Vibe: "casual"}
	assert.Equal(t, "Indonesian", e.DisplayCuisine())
	assert.Equal(t, "casual", e.DisplayVibe())

	e.CuisineLocal = "Индонезийская"
	e.VibeLocal = "непринуждённо"
	assert.Equal(t, "Индонезийская", e.DisplayCuisine())
	assert.Equal(t, "непринуждённо", e.DisplayVibe())
}

func TestResponse_HasAugmented(t *testing.T) {
	t.Parallel()

	var nilResp *Response
	assert.False(t, nilResp.HasAugmented())
	assert.False(t, (&Response{}).HasAugmented())
	assert.True(t, (&Response{Augmented: "fresh details"}).HasAugmented())
}

func TestProvenanceValues(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "curated", string(ProvenanceCurated))
	assert.Equal(t, "augmented", string(ProvenanceAugmented))
}
