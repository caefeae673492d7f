package launcher

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_TextRoundTrip(t *testing.T) {
	for st := Idle; st <= Launching; st++ {
		b, err := st.MarshalText()
		require.NoError(t, err)

		var got State
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, st, got)
	}

	var s State
	assert.Error(t, s.UnmarshalText([]byte("exploded")))
}

func TestSnapshot_JSONUsesStateNames(t *testing.T) {
	b, err := json.Marshal(Snapshot{State: Ready, Root: "/Applications/Quake2"})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"state":"ready"`)

	var back Snapshot
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, Ready, back.State)
}
