package zone_test

import (
	"testing"

	"github.com/JiscSD/ed318-validator/internal/testutil"
	"github.com/JiscSD/ed318-validator/zone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReshape(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in   string
		want string
	}{
		"Envelope is hoisted": {
			in:   `{"type": "Feature", "geometry": {"type": "Point"}, "properties": {"UASZone": {"identifier": "A1"}}}`,
			want: `{"type": "Feature", "geometry": {"type": "Point"}, "properties": {"identifier": "A1"}}`,
		},
		"Envelope members overwrite top-level ones": {
			in:   `{"type": "Feature", "geometry": {}, "properties": {"identifier": "OLD", "country": "FRA", "UASZone": {"identifier": "NEW"}}}`,
			want: `{"type": "Feature", "geometry": {}, "properties": {"identifier": "NEW", "country": "FRA"}}`,
		},
		"Vertical layer moves to the geometry": {
			in:   `{"geometry": {"type": "Point"}, "properties": {"verticalLayer": {"upper": 1}}}`,
			want: `{"geometry": {"type": "Point", "layer": {"upper": 1}}, "properties": {}}`,
		},
		"Vertical layer inside the envelope moves too": {
			in:   `{"geometry": {}, "properties": {"UASZone": {"verticalLayer": {"upper": 2}}}}`,
			want: `{"geometry": {"layer": {"upper": 2}}, "properties": {}}`,
		},
		"Existing geometry layer wins": {
			in:   `{"geometry": {"layer": {"upper": 1}}, "properties": {"verticalLayer": {"upper": 2}}}`,
			want: `{"geometry": {"layer": {"upper": 1}}, "properties": {}}`,
		},
		"Null geometry layer still wins": {
			in:   `{"geometry": {"layer": null}, "properties": {"verticalLayer": {"upper": 2}}}`,
			want: `{"geometry": {"layer": null}, "properties": {}}`,
		},
		"Canonical feature is untouched": {
			in:   `{"geometry": {"layer": {}}, "properties": {"identifier": "A1"}}`,
			want: `{"geometry": {"layer": {}}, "properties": {"identifier": "A1"}}`,
		},
		"Non-object envelope is left alone": {
			in:   `{"geometry": {}, "properties": {"UASZone": "A1"}}`,
			want: `{"geometry": {}, "properties": {"UASZone": "A1"}}`,
		},
		"Missing geometry disables reshaping": {
			in:   `{"properties": {"UASZone": {"identifier": "A1"}}}`,
			want: `{"properties": {"UASZone": {"identifier": "A1"}}}`,
		},
		"Null properties disable reshaping": {
			in:   `{"geometry": {}, "properties": null}`,
			want: `{"geometry": {}, "properties": null}`,
		},
	}
	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			in := testutil.MustDecode(t, tc.in)
			have := zone.Reshape(in)
			assert.Equal(t, testutil.MustDecode(t, tc.want), have)

			// Idempotent.
			assert.Equal(t, have, zone.Reshape(have))

			// The input is never modified.
			assert.Equal(t, testutil.MustDecode(t, tc.in), in)
		})
	}
}

func TestReshapeNonObjects(t *testing.T) {
	t.Parallel()

	assert.Nil(t, zone.Reshape(nil))
	assert.Equal(t, "feature", zone.Reshape("feature"))
	assert.Equal(t, []interface{}{1.0}, zone.Reshape([]interface{}{1.0}))
}

func TestReshapeLegacyFixture(t *testing.T) {
	t.Parallel()

	in := testutil.Tree(t, "legacy_feature.json")
	have := zone.Reshape(in).(map[string]interface{})

	props := have["properties"].(map[string]interface{})
	assert.NotContains(t, props, "UASZone")
	assert.NotContains(t, props, "verticalLayer")
	assert.Equal(t, "ES0006", props["identifier"])
	assert.Equal(t, "enaire", props["source"])

	geom := have["geometry"].(map[string]interface{})
	require.Contains(t, geom, "layer")
	assert.Equal(t, "120", geom["layer"].(map[string]interface{})["upper"])

	assert.Equal(t, have, zone.Reshape(have))
}
