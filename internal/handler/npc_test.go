package handler

import (
	"testing"

	"github.com/novarift/server/internal/net/packet"
	"github.com/novarift/server/internal/world"
	"github.com/stretchr/testify/assert"
)

const npcTypeID = 77

// npcTestMission binds mission index 101 to creature type 77: the NPC
// dispenses it, and state 1 has an objective completed by talking to it.
func npcTestMission() *world.Mission {
	return &world.Mission{
		MissionIndex: 101,
		Level:        2,
		StateCount:   3,
		StateMapping: []int32{0, 0, 1, 1},
		ScriptLines: []world.ScriptLine{
			{Command: world.CommandCompleteObjective, Value1: npcTypeID},
		},
		Dispensers: []uint32{npcTypeID},
	}
}

func npcTestSetup(t *testing.T) (*world.PlayerData, *world.Creature, *Deps) {
	t.Helper()
	deps := newTestDeps(t)
	deps.Missions = world.NewMissionTable([]*world.Mission{npcTestMission()})

	ct := &world.CreatureType{
		DbID:    npcTypeID,
		ClassID: 200,
		NpcData: &world.CreatureNpcData{RelatedMissions: []int32{101}},
	}
	cr := newTestCreature(t, deps, ct)

	viewer, _ := newWorldClient(t, deps, "viewer")
	return viewer.Player, cr, deps
}

func TestConversationStatusAvailable(t *testing.T) {
	viewer, cr, deps := npcTestSetup(t)

	status, args := conversationStatus(viewer, cr, deps)
	assert.Equal(t, world.StatusAvailable, status)
	assert.Equal(t, []int32{101}, args)
}

func TestConversationStatusObjective(t *testing.T) {
	viewer, cr, deps := npcTestSetup(t)
	viewer.MissionLog[101] = &world.MissionLogEntry{MissionIndex: 101, State: 1}

	status, args := conversationStatus(viewer, cr, deps)
	assert.Equal(t, world.StatusObjectiveComplete, status)
	assert.Equal(t, []int32{101}, args)
}

func TestConversationStatusComplete(t *testing.T) {
	viewer, cr, deps := npcTestSetup(t)
	viewer.MissionLog[101] = &world.MissionLogEntry{MissionIndex: 101, State: 2}

	status, args := conversationStatus(viewer, cr, deps)
	assert.Equal(t, world.StatusMissionComplete, status)
	assert.Equal(t, []int32{101}, args)
}

// A mission sitting on an objective state outranks another mission waiting
// for turn-in at the same NPC.
func TestConversationStatusObjectiveOutranksComplete(t *testing.T) {
	viewer, cr, deps := npcTestSetup(t)
	other := npcTestMission()
	other.MissionIndex = 102
	deps.Missions = world.NewMissionTable([]*world.Mission{npcTestMission(), other})
	cr.CreatureType.NpcData.RelatedMissions = []int32{101, 102}

	viewer.MissionLog[101] = &world.MissionLogEntry{MissionIndex: 101, State: 2}
	viewer.MissionLog[102] = &world.MissionLogEntry{MissionIndex: 102, State: 1}

	status, args := conversationStatus(viewer, cr, deps)
	assert.Equal(t, world.StatusObjectiveComplete, status)
	assert.Equal(t, []int32{102}, args)
}

func TestConversationStatusTurnedInMissionGone(t *testing.T) {
	viewer, cr, deps := npcTestSetup(t)
	viewer.Completed[101] = true

	status, args := conversationStatus(viewer, cr, deps)
	assert.Equal(t, world.StatusNone, status)
	assert.Empty(t, args)
}

func TestConversationStatusVendorFallback(t *testing.T) {
	viewer, cr, deps := npcTestSetup(t)
	viewer.Completed[101] = true
	cr.CreatureType.VendorData = &world.CreatureVendorData{VendorPackageID: 5}

	status, _ := conversationStatus(viewer, cr, deps)
	assert.Equal(t, world.StatusVending, status)

	// Any mission state beats vending.
	delete(viewer.Completed, 101)
	status, _ = conversationStatus(viewer, cr, deps)
	assert.Equal(t, world.StatusAvailable, status)
}

func TestConverseMessageFlattensTopics(t *testing.T) {
	msg := converseMessage([]world.ConverseTopic{
		world.MissionDispenseTopic{Missions: []world.DispensableMission{
			{MissionIndex: 101, Level: 2, GroupType: 1},
		}},
		world.MissionCompleteTopic{Missions: []int32{102}},
		world.VendorTopic{PackageIDs: []int32{5}},
		world.AuctioneerTopic{},
		world.TrainingTopic{Tier: 3},
	})

	assert.Equal(t, []packet.ConverseMission{
		{MissionIndex: 101, Level: 2, GroupType: 1},
	}, msg.Dispensable)
	assert.Equal(t, []int32{102}, msg.Completable)
	assert.Equal(t, []int32{5}, msg.VendorIDs)
	assert.True(t, msg.IsAuctioneer)
	assert.EqualValues(t, 3, msg.TrainingTier)
}

func TestConversationStatusNonNpc(t *testing.T) {
	viewer, cr, deps := npcTestSetup(t)
	cr.CreatureType.NpcData = nil

	status, args := conversationStatus(viewer, cr, deps)
	assert.Equal(t, world.StatusNone, status)
	assert.Nil(t, args)
}
