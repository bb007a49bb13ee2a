package relation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockapi/pkg/naming"
	"github.com/getmockd/mockapi/pkg/snapshot"
)

func mustObject(t *testing.T, js string) *snapshot.Object {
	t.Helper()
	v, err := snapshot.DecodeValue([]byte(js))
	require.NoError(t, err)
	obj, ok := v.(*snapshot.Object)
	require.True(t, ok)
	return obj
}

func TestClassify(t *testing.T) {
	tests := []struct {
		field   string
		value   any
		want    Direction
		wantRel bool
	}{
		{"teamId", 3.0, ToOne, true},
		{"teamId", "t-3", ToOne, true},
		{"teamId", nil, ToOne, true},
		{"teamId", true, ToOne, true},
		{"teamId", snapshot.NewObject(), "", false},
		{"teamId", []any{1.0}, "", false},
		{"playerIds", []any{1.0, 2.0}, ToMany, true},
		{"playerIds", []any{}, ToMany, true},
		{"playerIds", "1,2", "", false},
		{"teamid", 3.0, "", false},
		{"name", "x", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			dir, ok := Classify(tt.field, tt.value)
			assert.Equal(t, tt.wantRel, ok)
			assert.Equal(t, tt.want, dir)
		})
	}
}

func TestInfer(t *testing.T) {
	known := naming.NewSet("teams", "coaches", "players", "matches")

	tests := []struct {
		name   string
		sample string
		known  naming.Known
		want   []Relationship
	}{
		{
			name:   "to-one and to-many in field order",
			sample: `{"id": 1, "playerIds": [1, 2], "name": "x", "teamId": 2, "coachId": 5}`,
			known:  known,
			want: []Relationship{
				{Field: "playerIds", Direction: ToMany, Target: "players"},
				{Field: "teamId", Direction: ToOne, Target: "teams"},
				{Field: "coachId", Direction: ToOne, Target: "coaches"},
			},
		},
		{
			name:   "es plural",
			sample: `{"matchIds": []}`,
			known:  known,
			want:   []Relationship{{Field: "matchIds", Direction: ToMany, Target: "matches"}},
		},
		{
			name:   "unknown target defaults to s plural",
			sample: `{"venueId": 9}`,
			known:  known,
			want:   []Relationship{{Field: "venueId", Direction: ToOne, Target: "venues"}},
		},
		{
			name:   "nested object is not a foreign key",
			sample: `{"addressId": {"street": "Main"}}`,
			known:  known,
			want:   []Relationship{},
		},
		{
			name:   "id field itself is not a relationship",
			sample: `{"id": 1}`,
			known:  known,
			want:   []Relationship{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Infer(mustObject(t, tt.sample), tt.known)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Infer() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInfer_NilSample(t *testing.T) {
	got := Infer(nil, naming.NewSet())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTargets(t *testing.T) {
	rels := []Relationship{
		{Field: "homeTeamId", Direction: ToOne, Target: "hometeams"},
		{Field: "teamId", Direction: ToOne, Target: "teams"},
		{Field: "playerIds", Direction: ToMany, Target: "players"},
		{Field: "otherTeamId", Direction: ToOne, Target: "teams"},
	}
	assert.Equal(t, []string{"hometeams", "teams"}, Targets(rels, ToOne))
	assert.Equal(t, []string{"players"}, Targets(rels, ToMany))
	assert.Empty(t, Targets(nil, ToMany))
}
