//go:build profile

package profiler

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceDropsStrayClosesAndClosesOpenSpans(t *testing.T) {
	evs := []event{
		{atNS: 0, frame: 2},             // close without open
		{atNS: 1000, frame: 0, open: true},
		{atNS: 2000, frame: 1, open: true},
		{atNS: 3000, frame: 1},
		{atNS: 4000, frame: 0, open: true},
	}
	out, end := balance(evs)
	assert.Equal(t, []ssEvent{
		{Type: "O", At: 1, Frame: 0},
		{Type: "O", At: 2, Frame: 1},
		{Type: "C", At: 3, Frame: 1},
		{Type: "O", At: 4, Frame: 0},
		{Type: "C", At: 4, Frame: 0},
		{Type: "C", At: 4, Frame: 0},
	}, out)
	assert.Equal(t, int64(4), end)
}

func TestDumpWritesSpeedscope(t *testing.T) {
	Init(16)
	end := Start("outer")
	Start("inner")()
	end()

	path, err := Dump(t.TempDir())
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc ssFile
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Profiles, 1)
	assert.Len(t, doc.Profiles[0].Events, 4)
	assert.Equal(t, "evented", doc.Profiles[0].Type)
}
