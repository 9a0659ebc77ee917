package backend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aruzzi/gbpilot/pilot/emu"
)

func testFrame() *emu.Frame {
	return &emu.Frame{Width: 2, Height: 2, Pixels: make([]uint32, 4)}
}

func TestHeadlessSnapshots(t *testing.T) {
	dir := t.TempDir()

	h := NewHeadless()
	require.NoError(t, h.Init(Config{
		SnapshotInterval: 2,
		SnapshotDir:      dir,
		ROMName:          "testrom",
	}))

	for step := uint64(1); step <= 4; step++ {
		require.NoError(t, h.Update(testFrame(), Status{Step: step, LastAction: "a"}))
	}
	require.NoError(t, h.Cleanup())

	for _, name := range []string{"testrom_step_2.png", "testrom_step_4.png"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "expected snapshot %s", name)
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestHeadlessWithoutSnapshots(t *testing.T) {
	h := NewHeadless()
	require.NoError(t, h.Init(Config{}))
	require.NoError(t, h.Update(testFrame(), Status{Step: 1}))
	require.NoError(t, h.Cleanup())
}
