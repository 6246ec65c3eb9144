package world

// ConversationStatus is the flag shown over an NPC's head. Precedence when
// several could apply: objective-completable > mission-completable >
// mission-available > vendor-available > none; the first matching rule wins.
type ConversationStatus int32

const (
	StatusNone ConversationStatus = iota
	StatusAvailable
	StatusMissionComplete
	StatusObjectiveComplete
	StatusVending
)

// ConverseTopic is one entry of an NPC converse payload. The known topic
// kinds form a closed set; each carries only its own payload instead of a
// shared dictionary of untyped values.
type ConverseTopic interface {
	converseTopic()
}

// DispensableMission is a mission this NPC can hand out.
type DispensableMission struct {
	MissionIndex int32
	Level        int32
	GroupType    int32
}

// MissionDispenseTopic lists the missions the NPC offers.
type MissionDispenseTopic struct {
	Missions []DispensableMission
}

// MissionCompleteTopic lists missions the player can turn in here.
type MissionCompleteTopic struct {
	Missions []int32
}

// VendorTopic carries the NPC's vendor package ids.
type VendorTopic struct {
	PackageIDs []int32
}

// AuctioneerTopic marks the NPC as an auction-house keeper.
type AuctioneerTopic struct{}

// TrainingTopic offers skill training of the given tier.
type TrainingTopic struct {
	Tier int32
}

func (MissionDispenseTopic) converseTopic() {}
func (MissionCompleteTopic) converseTopic() {}
func (VendorTopic) converseTopic()          {}
func (AuctioneerTopic) converseTopic()      {}
func (TrainingTopic) converseTopic()        {}

// TopicsFor assembles the converse topics an NPC offers one viewer. A
// dispensed mission appears at most once: active missions at their final
// state become turn-ins, already turned-in missions vanish. Vendor and
// auctioneer topics ride on the creature type's capability blocks.
func TopicsFor(viewer *PlayerData, cr *Creature, missions *MissionTable) []ConverseTopic {
	npc := cr.CreatureType.NpcData
	if npc == nil {
		return nil
	}

	var dispense MissionDispenseTopic
	var complete MissionCompleteTopic
	for _, missionIndex := range npc.RelatedMissions {
		mission := missions.Get(missionIndex)
		if mission == nil || !mission.IsDispenser(cr.CreatureType.DbID) {
			continue
		}
		if logEntry, active := viewer.MissionLog[missionIndex]; active {
			if logEntry.State >= mission.StateCount-1 {
				complete.Missions = append(complete.Missions, missionIndex)
			}
			continue
		}
		if !viewer.Completed[missionIndex] {
			dispense.Missions = append(dispense.Missions, DispensableMission{
				MissionIndex: missionIndex,
				Level:        mission.Level,
				GroupType:    mission.GroupType,
			})
		}
	}

	var topics []ConverseTopic
	if len(dispense.Missions) > 0 {
		topics = append(topics, dispense)
	}
	if len(complete.Missions) > 0 {
		topics = append(topics, complete)
	}
	if v := cr.CreatureType.VendorData; v != nil {
		topics = append(topics, VendorTopic{PackageIDs: []int32{v.VendorPackageID}})
	}
	if cr.CreatureType.Auctioneer != nil {
		topics = append(topics, AuctioneerTopic{})
	}
	return topics
}
