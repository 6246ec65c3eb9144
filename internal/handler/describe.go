package handler

import (
	"sort"

	"github.com/novarift/server/internal/net/packet"
	"github.com/novarift/server/internal/world"
)

// attrEntries snapshots an actor's attribute records in wire order.
func attrEntries(a *world.Actor) []packet.AttributeEntry {
	snap := a.AttributeSnapshot()
	out := make([]packet.AttributeEntry, 0, len(snap))
	for _, rec := range snap {
		out = append(out, packet.AttributeEntry{
			Kind:          int32(rec.Kind),
			Current:       rec.Current,
			CurrentMax:    rec.CurrentMax,
			NormalMax:     rec.NormalMax,
			RegenRate:     rec.RegenRate,
			RefreshAmount: rec.RefreshAmount,
		})
	}
	return out
}

func appearanceEntries(slots map[int32]*world.AppearanceSlot) []packet.AppearanceEntry {
	out := make([]packet.AppearanceEntry, 0, len(slots))
	for _, s := range slots {
		out = append(out, packet.AppearanceEntry{
			SlotID:  s.SlotID,
			ClassID: s.ClassID,
			Hue:     s.Color.Hue,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SlotID < out[j].SlotID })
	return out
}

func locationOf(a *world.Actor) packet.WorldLocationDescriptor {
	return packet.WorldLocationDescriptor{
		PosX: a.Position.X,
		PosY: a.Position.Y,
		PosZ: a.Position.Z,
		RotX: a.Rotation.X,
		RotY: a.Rotation.Y,
		RotZ: a.Rotation.Z,
		RotW: a.Rotation.W,
	}
}

// describePlayer materializes one player on a viewer's client. The sequence
// is fixed: the entity must exist client-side before any entity-addressed
// call about it, and the location comes late so the model is fully dressed
// before it is placed.
func describePlayer(to world.Sender, p *world.PlayerData, withPreload bool) {
	a := p.Actor
	id := uint64(a.EntityID)

	to.SendMethod(packet.SysEntityClient, packet.CreatePhysicalEntity{
		EntityID: id,
		ClassID:  a.EntityClassID,
	})
	to.SendMethod(id, packet.AttributeInfo{Attributes: attrEntries(a)})
	if withPreload {
		to.SendMethod(id, packet.PreloadData{})
	}
	to.SendMethod(id, packet.AppearanceData{Slots: appearanceEntries(p.Appearance)})
	to.SendMethod(id, packet.ActorControllerInfo{IsPlayer: true})
	to.SendMethod(id, packet.Level{Level: p.Level})
	to.SendMethod(id, packet.CharacterClass{ClassID: p.ClassID})
	to.SendMethod(id, packet.CharacterName{Name: a.Name})
	to.SendMethod(id, packet.ActorName{FamilyName: a.FamilyName})
	to.SendMethod(id, packet.IsRunning{Running: a.IsRunning})
	to.SendMethod(id, locationOf(a))
	to.SendMethod(id, packet.TargetCategory{Faction: 0})
	to.SendMethod(id, packet.PlayerFlags{})
}

// describeCreature materializes one creature on a viewer's client. NPCs get
// a conversation status tail computed against the viewer's mission log.
func describeCreature(to world.Sender, viewer *world.PlayerData, cr *world.Creature, deps *Deps) {
	a := cr.Actor
	id := uint64(a.EntityID)

	to.SendMethod(packet.SysEntityClient, packet.CreatePhysicalEntity{
		EntityID: id,
		ClassID:  a.EntityClassID,
	})
	to.SendMethod(id, locationOf(a))
	to.SendMethod(id, packet.IsTargetable{Targetable: true})
	to.SendMethod(id, packet.CreatureInfo{NameID: cr.NameID})
	to.SendMethod(id, packet.AppearanceData{Slots: appearanceEntries(cr.Appearance)})
	to.SendMethod(id, packet.Level{Level: cr.Level})
	attrs := attrEntries(a)
	to.SendMethod(id, packet.AttributeInfo{Attributes: attrs})
	to.SendMethod(id, packet.TargetCategory{Faction: cr.Faction})
	to.SendMethod(id, packet.UpdateAttributes{Attributes: attrs})
	to.SendMethod(id, packet.IsRunning{Running: a.IsRunning})

	if cr.CreatureType.NpcData != nil && viewer != nil {
		status, args := conversationStatus(viewer, cr, deps)
		to.SendMethod(id, packet.NPCConversationStatus{
			Status: int32(status),
			Args:   args,
		})
	}
}
