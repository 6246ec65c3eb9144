package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/novarift/server/internal/world"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM used at startup to evaluate mission
// definition scripts. The VM is not retained after loading; the result is a
// plain Go mission table.
type Engine struct {
	vm       *lua.LState
	missions []*world.Mission
	log      *zap.Logger
}

// LoadMissions evaluates every .lua file in scriptsDir and returns the
// missions they register. Scripts call the global mission{} function once
// per definition.
func LoadMissions(scriptsDir string, log *zap.Logger) ([]*world.Mission, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	defer vm.Close()

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	vm.SetGlobal("mission", vm.NewFunction(e.registerMission))

	if err := e.loadDir(scriptsDir); err != nil {
		return nil, err
	}

	log.Info("mission scripts loaded",
		zap.String("dir", scriptsDir),
		zap.Int("missions", len(e.missions)),
	)
	return e.missions, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// registerMission is the Lua-side mission{} constructor. Expected shape:
//
//	mission{
//	    index = 101,
//	    level = 3,
//	    group_type = 0,
//	    state_count = 3,
//	    state_mapping = {0, 1, 2, 2},
//	    lines = {
//	        {command = "complete_objective", value1 = 2001, storage = 0},
//	        {command = "collector", value1 = 2002, storage = 1},
//	    },
//	    dispensers = {2001},
//	}
func (e *Engine) registerMission(L *lua.LState) int {
	tbl := L.CheckTable(1)

	m := &world.Mission{
		MissionIndex: int32(intField(L, tbl, "index", 0)),
		Level:        int32(intField(L, tbl, "level", 1)),
		GroupType:    int32(intField(L, tbl, "group_type", 0)),
		StateCount:   int32(intField(L, tbl, "state_count", 1)),
	}
	if m.MissionIndex <= 0 {
		L.RaiseError("mission: index is required and must be positive")
		return 0
	}

	if v := tbl.RawGetString("state_mapping"); v != lua.LNil {
		mapping, ok := v.(*lua.LTable)
		if !ok {
			L.RaiseError("mission %d: state_mapping must be a table", m.MissionIndex)
			return 0
		}
		mapping.ForEach(func(_, lv lua.LValue) {
			m.StateMapping = append(m.StateMapping, int32(lua.LVAsNumber(lv)))
		})
	}

	if v := tbl.RawGetString("lines"); v != lua.LNil {
		lines, ok := v.(*lua.LTable)
		if !ok {
			L.RaiseError("mission %d: lines must be a table", m.MissionIndex)
			return 0
		}
		var bad string
		lines.ForEach(func(_, lv lua.LValue) {
			line, ok := lv.(*lua.LTable)
			if !ok {
				bad = "line entries must be tables"
				return
			}
			cmd, err := parseCommand(line.RawGetString("command"))
			if err != nil {
				bad = err.Error()
				return
			}
			m.ScriptLines = append(m.ScriptLines, world.ScriptLine{
				Command:      cmd,
				Value1:       uint32(intField(L, line, "value1", 0)),
				StorageIndex: int32(intField(L, line, "storage", 0)),
			})
		})
		if bad != "" {
			L.RaiseError("mission %d: %s", m.MissionIndex, bad)
			return 0
		}
	}

	if v := tbl.RawGetString("dispensers"); v != lua.LNil {
		disp, ok := v.(*lua.LTable)
		if !ok {
			L.RaiseError("mission %d: dispensers must be a table", m.MissionIndex)
			return 0
		}
		disp.ForEach(func(_, lv lua.LValue) {
			m.Dispensers = append(m.Dispensers, uint32(lua.LVAsNumber(lv)))
		})
	}

	e.missions = append(e.missions, m)
	return 0
}

func parseCommand(v lua.LValue) (world.ScriptCommand, error) {
	s, ok := v.(lua.LString)
	if !ok {
		return world.CommandNone, fmt.Errorf("line command must be a string")
	}
	switch string(s) {
	case "complete_objective":
		return world.CommandCompleteObjective, nil
	case "collector":
		return world.CommandCollector, nil
	case "none":
		return world.CommandNone, nil
	default:
		return world.CommandNone, fmt.Errorf("unknown line command %q", s)
	}
}

func intField(L *lua.LState, tbl *lua.LTable, key string, def int) int {
	v := tbl.RawGetString(key)
	if v == lua.LNil {
		return def
	}
	return int(lua.LVAsNumber(v))
}
