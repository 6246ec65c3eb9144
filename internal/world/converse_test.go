package world

import (
	"testing"

	"github.com/novarift/server/internal/core/entity"
	"github.com/stretchr/testify/assert"
)

const converseNpcType uint32 = 77

func converseTestMission(index int32) *Mission {
	return &Mission{
		MissionIndex: index,
		Level:        2,
		GroupType:    1,
		StateCount:   3,
		StateMapping: []int32{0, 0, 1, 1},
		ScriptLines: []ScriptLine{
			{Command: CommandCompleteObjective, Value1: converseNpcType},
		},
		Dispensers: []uint32{converseNpcType},
	}
}

func converseTestSetup(t *testing.T) (*PlayerData, *Creature, *MissionTable) {
	t.Helper()
	p := NewPlayerData(1, NewActor(entity.NewID(1, 0), 100))
	cr := &Creature{
		DbID: 1,
		CreatureType: &CreatureType{
			DbID:    converseNpcType,
			ClassID: 200,
			NpcData: &CreatureNpcData{RelatedMissions: []int32{101}},
		},
	}
	missions := NewMissionTable([]*Mission{converseTestMission(101)})
	return p, cr, missions
}

func TestTopicsForDispensesOpenMissions(t *testing.T) {
	p, cr, missions := converseTestSetup(t)

	topics := TopicsFor(p, cr, missions)
	assert.Equal(t, []ConverseTopic{
		MissionDispenseTopic{Missions: []DispensableMission{
			{MissionIndex: 101, Level: 2, GroupType: 1},
		}},
	}, topics)
}

func TestTopicsForTurnInAtFinalState(t *testing.T) {
	p, cr, missions := converseTestSetup(t)
	p.MissionLog[101] = &MissionLogEntry{MissionIndex: 101, State: 2}

	topics := TopicsFor(p, cr, missions)
	assert.Equal(t, []ConverseTopic{
		MissionCompleteTopic{Missions: []int32{101}},
	}, topics)
}

func TestTopicsForActiveMissionNotRedispensed(t *testing.T) {
	p, cr, missions := converseTestSetup(t)
	p.MissionLog[101] = &MissionLogEntry{MissionIndex: 101, State: 1}

	assert.Empty(t, TopicsFor(p, cr, missions))
}

func TestTopicsForTurnedInMissionGone(t *testing.T) {
	p, cr, missions := converseTestSetup(t)
	p.Completed[101] = true

	assert.Empty(t, TopicsFor(p, cr, missions))
}

func TestTopicsForVendorAndAuctioneer(t *testing.T) {
	p, cr, missions := converseTestSetup(t)
	p.Completed[101] = true
	cr.CreatureType.VendorData = &CreatureVendorData{VendorPackageID: 5}
	cr.CreatureType.Auctioneer = &CreatureAuctioneerData{}

	topics := TopicsFor(p, cr, missions)
	assert.Equal(t, []ConverseTopic{
		VendorTopic{PackageIDs: []int32{5}},
		AuctioneerTopic{},
	}, topics)
}

func TestTopicsForNonNpc(t *testing.T) {
	p, cr, missions := converseTestSetup(t)
	cr.CreatureType.NpcData = nil

	assert.Nil(t, TopicsFor(p, cr, missions))
}
