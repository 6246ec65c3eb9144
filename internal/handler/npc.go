package handler

import (
	"github.com/novarift/server/internal/core/entity"
	"github.com/novarift/server/internal/net"
	"github.com/novarift/server/internal/net/packet"
	"github.com/novarift/server/internal/world"
	"go.uber.org/zap"
)

// conversationStatus derives the flag shown over an NPC's head for one
// viewer. Rules are checked in precedence order and the first match wins:
// an objective to complete outranks a turn-in, a turn-in outranks a new
// mission, and vending trails everything.
func conversationStatus(viewer *world.PlayerData, cr *world.Creature, deps *Deps) (world.ConversationStatus, []int32) {
	npc := cr.CreatureType.NpcData
	if npc == nil {
		return world.StatusNone, nil
	}

	var objective, complete, available []int32
	for _, missionIndex := range npc.RelatedMissions {
		mission := deps.Missions.Get(missionIndex)
		if mission == nil {
			continue
		}

		if logEntry, active := viewer.MissionLog[missionIndex]; active {
			for _, line := range mission.LinesForState(logEntry.State) {
				if line.Command == world.CommandCompleteObjective &&
					line.Value1 == cr.CreatureType.DbID {
					objective = append(objective, missionIndex)
					break
				}
			}
			if logEntry.State >= mission.StateCount-1 && mission.IsDispenser(cr.CreatureType.DbID) {
				complete = append(complete, missionIndex)
			}
			continue
		}

		if !viewer.Completed[missionIndex] && mission.IsDispenser(cr.CreatureType.DbID) {
			available = append(available, missionIndex)
		}
	}

	switch {
	case len(objective) > 0:
		return world.StatusObjectiveComplete, objective
	case len(complete) > 0:
		return world.StatusMissionComplete, complete
	case len(available) > 0:
		return world.StatusAvailable, available
	case cr.CreatureType.VendorData != nil:
		return world.StatusVending, nil
	default:
		return world.StatusNone, nil
	}
}

// UpdateConversationStatus recomputes and pushes one NPC's status flag to
// one viewer, after anything that may change it (mission accept, turn-in).
func UpdateConversationStatus(client *world.MapChannelClient, cr *world.Creature, deps *Deps) {
	status, args := conversationStatus(client.Player, cr, deps)
	client.Session.SendMethod(uint64(cr.Actor.EntityID), packet.NPCConversationStatus{
		Status: int32(status),
		Args:   args,
	})
}

// lookupNpc resolves an entity-addressed NPC request against the caller's
// channel. Returns nil for dead ids and non-conversing creatures.
func lookupNpc(pc *PlayerContext, id entity.ID, deps *Deps) *world.Creature {
	if pc.Channel == nil {
		return nil
	}
	if !deps.Registry.Alive(id) {
		return nil
	}
	cr := pc.Channel.Creature(id)
	if cr == nil || cr.CreatureType.NpcData == nil {
		return nil
	}
	return cr
}

// HandleRequestNPCConverse opens the conversation window with the topics the
// NPC offers this player.
func HandleRequestNPCConverse(sess *net.Session, r *packet.Reader, deps *Deps) {
	npcID := entity.ID(r.EntityID())
	pc := pctx(sess)
	cr := lookupNpc(pc, npcID, deps)
	if cr == nil {
		deps.Log.Debug("converse with unknown npc", zap.Uint64("entity", uint64(npcID)))
		return
	}

	topics := world.TopicsFor(pc.Player, cr, deps.Missions)
	sess.SendMethod(uint64(npcID), converseMessage(topics))
}

// converseMessage flattens a topic list into the wire payload.
func converseMessage(topics []world.ConverseTopic) packet.Converse {
	var msg packet.Converse
	for _, topic := range topics {
		switch t := topic.(type) {
		case world.MissionDispenseTopic:
			for _, m := range t.Missions {
				msg.Dispensable = append(msg.Dispensable, packet.ConverseMission{
					MissionIndex: m.MissionIndex,
					Level:        m.Level,
					GroupType:    m.GroupType,
				})
			}
		case world.MissionCompleteTopic:
			msg.Completable = append(msg.Completable, t.Missions...)
		case world.VendorTopic:
			msg.VendorIDs = t.PackageIDs
		case world.AuctioneerTopic:
			msg.IsAuctioneer = true
		case world.TrainingTopic:
			msg.TrainingTier = t.Tier
		}
	}
	return msg
}

// HandleRequestNPCVending opens the vendor window.
func HandleRequestNPCVending(sess *net.Session, r *packet.Reader, deps *Deps) {
	npcID := entity.ID(r.EntityID())
	pc := pctx(sess)
	cr := lookupNpc(pc, npcID, deps)
	if cr == nil || cr.CreatureType.VendorData == nil {
		return
	}
	sess.SendMethod(uint64(npcID), packet.Vend{})
}

// HandleRequestNPCOpenAuctionHouse opens the auction house through an
// auctioneer NPC.
func HandleRequestNPCOpenAuctionHouse(sess *net.Session, r *packet.Reader, deps *Deps) {
	npcID := entity.ID(r.EntityID())
	pc := pctx(sess)
	cr := lookupNpc(pc, npcID, deps)
	if cr == nil || cr.CreatureType.Auctioneer == nil {
		return
	}
	sess.SendMethod(uint64(npcID), packet.OpenAuctionHouse{})
}

// HandleRequestCancelVendor acknowledges closing the vendor window. No
// server state is held open per vending session, so this is informational.
func HandleRequestCancelVendor(sess *net.Session, r *packet.Reader, deps *Deps) {
	pc := pctx(sess)
	if pc.Player == nil {
		return
	}
	deps.Log.Debug("vendor window closed",
		zap.Int32("character", pc.Player.CharacterID))
}
