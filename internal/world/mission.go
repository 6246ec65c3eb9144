package world

// ScriptCommand is a mission script line opcode. Only the commands the
// conversation-status scan cares about are modeled here; the full script
// vocabulary lives with the mission scripting collaborator.
type ScriptCommand int32

const (
	CommandNone ScriptCommand = iota
	CommandCompleteObjective
	CommandCollector
)

// ScriptLine is one line of a mission script. Value1 names the creature type
// the line binds to; StorageIndex addresses the player's per-mission data.
type ScriptLine struct {
	Command      ScriptCommand
	Value1       uint32
	StorageIndex int32
}

// Mission is a static mission definition. StateMapping[s] is the index of the
// first script line of state s; lines of state s span
// StateMapping[s]..StateMapping[s+1].
type Mission struct {
	MissionIndex int32
	Level        int32
	GroupType    int32
	StateCount   int32
	StateMapping []int32
	ScriptLines  []ScriptLine
	// Dispensers are the creature type ids that hand this mission out.
	Dispensers []uint32
}

// LinesForState returns the script line range of one mission state, or nil
// when the state is out of range.
func (m *Mission) LinesForState(state int32) []ScriptLine {
	if state < 0 || int(state)+1 >= len(m.StateMapping) {
		return nil
	}
	start := m.StateMapping[state]
	end := m.StateMapping[state+1]
	if start < 0 || int(end) > len(m.ScriptLines) || start > end {
		return nil
	}
	return m.ScriptLines[start:end]
}

// IsDispenser reports whether the creature type hands this mission out (as
// opposed to being only objective-related).
func (m *Mission) IsDispenser(creatureTypeID uint32) bool {
	for _, id := range m.Dispensers {
		if id == creatureTypeID {
			return true
		}
	}
	return false
}

// MissionTable is the read-only mission index, built once at startup from the
// mission scripting collaborator.
type MissionTable struct {
	byIndex map[int32]*Mission
}

func NewMissionTable(missions []*Mission) *MissionTable {
	t := &MissionTable{byIndex: make(map[int32]*Mission, len(missions))}
	for _, m := range missions {
		t.byIndex[m.MissionIndex] = m
	}
	return t
}

// Get resolves a mission index, or nil when unknown.
func (t *MissionTable) Get(index int32) *Mission {
	return t.byIndex[index]
}

func (t *MissionTable) Count() int { return len(t.byIndex) }
