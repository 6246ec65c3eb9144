package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMapList(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "map_list.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMapTable(t *testing.T) {
	table, err := LoadMapTable(writeMapList(t, `
maps:
  - map_id: 1220
    name: "Concordia Wilderness"
    base_region_id: 1
  - map_id: 1148
    name: "Concordia Divide"
    base_region_id: 5
`))
	require.NoError(t, err)
	assert.Equal(t, 2, table.Count())

	info, ok := table.Get(1220)
	require.True(t, ok)
	assert.Equal(t, "Concordia Wilderness", info.Name)
	assert.EqualValues(t, 1, info.BaseRegionID)

	_, ok = table.Get(9999)
	assert.False(t, ok)
	assert.Len(t, table.All(), 2)
}

func TestLoadMapTableDuplicateID(t *testing.T) {
	_, err := LoadMapTable(writeMapList(t, `
maps:
  - map_id: 1220
    name: "a"
  - map_id: 1220
    name: "b"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate map id")
}

func TestLoadMapTableMissingFile(t *testing.T) {
	_, err := LoadMapTable(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
