package handler

import (
	"github.com/novarift/server/internal/net"
	"github.com/novarift/server/internal/net/packet"
	"github.com/novarift/server/internal/persist"
	"github.com/novarift/server/internal/world"
	"go.uber.org/zap"
)

// HandleRequestVisualCombatMode toggles the drawn-weapon stance and shows it
// to everyone who can see the actor.
func HandleRequestVisualCombatMode(sess *net.Session, r *packet.Reader, deps *Deps) {
	inCombat := r.ReadB()

	pc := pctx(sess)
	if pc.Player == nil || pc.Channel == nil {
		return
	}
	actor := pc.Player.Actor
	actor.InCombatMode = inCombat

	broadcastKnown(pc.Channel, actor.EntityID, packet.VisualCombatMode{
		InCombat: inCombat,
	}, deps)
}

// HandleSetDesiredCrouchState mirrors the crouch toggle to observers.
func HandleSetDesiredCrouchState(sess *net.Session, r *packet.Reader, deps *Deps) {
	crouched := r.ReadB()

	pc := pctx(sess)
	if pc.Player == nil || pc.Channel == nil {
		return
	}

	broadcastKnown(pc.Channel, pc.Player.Actor.EntityID, packet.CrouchState{
		Crouched: crouched,
	}, deps)
}

// HandleSetAppearanceItem changes or clears one visual equipment slot and
// re-announces the full appearance to observers. A class id of 0 clears the
// slot.
func HandleSetAppearanceItem(sess *net.Session, r *packet.Reader, deps *Deps) {
	slotID := r.ReadD()
	classID := r.ReadD()
	hue := r.ReadD()

	pc := pctx(sess)
	p := pc.Player
	if p == nil || pc.Channel == nil {
		return
	}

	ctx, cancel := dbCtx()
	defer cancel()

	if classID == 0 {
		delete(p.Appearance, slotID)
		if err := deps.CharRepo.DeleteAppearance(ctx, uint32(p.CharacterID), slotID); err != nil {
			deps.Log.Warn("appearance remove failed",
				zap.Int32("character", p.CharacterID), zap.Error(err))
		}
	} else {
		p.Appearance[slotID] = &world.AppearanceSlot{
			SlotID:  slotID,
			ClassID: classID,
			Color:   world.Color{Hue: hue},
		}
		if err := deps.CharRepo.UpsertAppearance(ctx, uint32(p.CharacterID), persist.CharacterAppearanceRow{
			SlotID: slotID, ClassID: classID, Color: hue,
		}); err != nil {
			deps.Log.Warn("appearance save failed",
				zap.Int32("character", p.CharacterID), zap.Error(err))
		}
	}

	broadcastKnown(pc.Channel, p.Actor.EntityID, packet.AppearanceData{
		Slots: appearanceEntries(p.Appearance),
	}, deps)
}

// HandleChangeTitle selects or clears the displayed title. Only owned titles
// can be selected.
func HandleChangeTitle(sess *net.Session, r *packet.Reader, deps *Deps) {
	titleID := r.ReadD()

	pc := pctx(sess)
	p := pc.Player
	if p == nil || pc.Channel == nil {
		return
	}

	if titleID == 0 {
		p.CurrentTitle = 0
		broadcastKnown(pc.Channel, p.Actor.EntityID, packet.TitleRemoved{}, deps)
		return
	}

	owned := false
	for _, t := range p.Titles {
		if t == titleID {
			owned = true
			break
		}
	}
	if !owned {
		deps.Log.Warn("title change for unowned title",
			zap.Int32("character", p.CharacterID),
			zap.Int32("title", titleID),
		)
		return
	}

	p.CurrentTitle = titleID
	broadcastKnown(pc.Channel, p.Actor.EntityID, packet.ChangeTitle{TitleID: titleID}, deps)
}

// HandleQuit leaves the world back to character selection, or closes an
// already-idle session.
func HandleQuit(sess *net.Session, r *packet.Reader, deps *Deps) {
	pc := pctx(sess)

	if sess.State() == packet.StateInWorld && pc.Channel != nil && pc.Client != nil {
		savePlayerPosition(pc.Player, pc.Channel, deps)
		DiscardClientFromChannel(pc.Channel, pc.Client, deps)
		pc.Channel = nil
		pc.Client = nil
		pc.Player = nil
		pc.CharRow = nil
		sess.SetState(packet.StateCharacterSelection)
		startCharacterSelection(sess, deps)
		return
	}

	sess.Close()
}
