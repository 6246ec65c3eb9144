package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MapInfo describes one map context.
type MapInfo struct {
	MapID        uint32 `yaml:"map_id"`
	Name         string `yaml:"name"`
	BaseRegionID int32  `yaml:"base_region_id"`
}

type mapListFile struct {
	Maps []MapInfo `yaml:"maps"`
}

// MapTable holds the map contexts indexed by map id.
type MapTable struct {
	maps map[uint32]MapInfo
}

// Get returns the map info for a map id.
func (t *MapTable) Get(mapID uint32) (MapInfo, bool) {
	info, ok := t.maps[mapID]
	return info, ok
}

// Count returns the number of known maps.
func (t *MapTable) Count() int {
	return len(t.maps)
}

// All returns every map info, in unspecified order.
func (t *MapTable) All() []MapInfo {
	out := make([]MapInfo, 0, len(t.maps))
	for _, m := range t.maps {
		out = append(out, m)
	}
	return out
}

// LoadMapTable loads the map list from a YAML file.
func LoadMapTable(path string) (*MapTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map_list: %w", err)
	}
	var f mapListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse map_list: %w", err)
	}
	t := &MapTable{maps: make(map[uint32]MapInfo, len(f.Maps))}
	for _, m := range f.Maps {
		if _, dup := t.maps[m.MapID]; dup {
			return nil, fmt.Errorf("duplicate map id %d in %s", m.MapID, path)
		}
		t.maps[m.MapID] = m
	}
	return t, nil
}

// NewMapTable builds a table from in-memory entries, for tests and tools.
func NewMapTable(maps []MapInfo) *MapTable {
	t := &MapTable{maps: make(map[uint32]MapInfo, len(maps))}
	for _, m := range maps {
		t.maps[m.MapID] = m
	}
	return t
}
