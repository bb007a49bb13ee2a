package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockapi/pkg/relation"
	"github.com/getmockd/mockapi/pkg/snapshot"
)

func TestDB_Decodes(t *testing.T) {
	state, err := snapshot.Decode(DB)
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"clubs", "coaches", "teams", "athletes", "drills", "sessions", "feedback"},
		state.Names())

	for _, c := range state.Collections() {
		assert.NotZero(t, c.Len(), c.Name)
		for _, item := range c.Items {
			rec, ok := item.(*snapshot.Object)
			require.True(t, ok, c.Name)
			_, ok = rec.Get(snapshot.IDField)
			assert.True(t, ok, "%s record without id", c.Name)
		}
	}
}

func TestDB_Relationships(t *testing.T) {
	state, err := snapshot.Decode(DB)
	require.NoError(t, err)

	sessions, _ := state.Collection("sessions")
	sample, ok := sessions.Sample()
	require.True(t, ok)

	rels := relation.Infer(sample, state)
	assert.Equal(t, []string{"coaches", "teams"}, relation.Targets(rels, relation.ToOne))
	assert.Equal(t, []string{"drills"}, relation.Targets(rels, relation.ToMany))
}
