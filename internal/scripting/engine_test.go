package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/novarift/server/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoadMissions(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "tutorial.lua", `
mission{
    index = 101,
    level = 2,
    state_count = 3,
    state_mapping = {0, 1, 2, 2},
    lines = {
        {command = "complete_objective", value1 = 2001, storage = 0},
        {command = "collector", value1 = 2002, storage = 1},
    },
    dispensers = {2001},
}

mission{
    index = 102,
}
`)

	missions, err := LoadMissions(dir, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, missions, 2)

	m := missions[0]
	assert.EqualValues(t, 101, m.MissionIndex)
	assert.EqualValues(t, 2, m.Level)
	assert.EqualValues(t, 3, m.StateCount)
	assert.Equal(t, []int32{0, 1, 2, 2}, m.StateMapping)
	assert.Equal(t, []uint32{2001}, m.Dispensers)
	require.Len(t, m.ScriptLines, 2)
	assert.Equal(t, world.CommandCompleteObjective, m.ScriptLines[0].Command)
	assert.EqualValues(t, 2001, m.ScriptLines[0].Value1)
	assert.Equal(t, world.CommandCollector, m.ScriptLines[1].Command)

	// Defaults applied to the sparse definition.
	assert.EqualValues(t, 1, missions[1].Level)
	assert.EqualValues(t, 1, missions[1].StateCount)
}

func TestLoadMissionsStateRanges(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "m.lua", `
mission{
    index = 5,
    state_count = 2,
    state_mapping = {0, 1, 2},
    lines = {
        {command = "complete_objective", value1 = 10},
        {command = "collector", value1 = 11},
    },
    dispensers = {10},
}
`)
	missions, err := LoadMissions(dir, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, missions, 1)

	m := missions[0]
	state0 := m.LinesForState(0)
	require.Len(t, state0, 1)
	assert.Equal(t, world.CommandCompleteObjective, state0[0].Command)

	state1 := m.LinesForState(1)
	require.Len(t, state1, 1)
	assert.Equal(t, world.CommandCollector, state1[0].Command)

	assert.Nil(t, m.LinesForState(5))
}

func TestLoadMissionsMissingIndex(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "bad.lua", `mission{ level = 3 }`)

	_, err := LoadMissions(dir, zap.NewNop())
	assert.Error(t, err)
}

func TestLoadMissionsUnknownCommand(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "bad.lua", `
mission{
    index = 1,
    lines = {{command = "explode", value1 = 1}},
}
`)
	_, err := LoadMissions(dir, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown line command")
}

func TestLoadMissionsMissingDir(t *testing.T) {
	missions, err := LoadMissions(filepath.Join(t.TempDir(), "absent"), zap.NewNop())
	require.NoError(t, err, "a missing script dir is not fatal")
	assert.Empty(t, missions)
}
