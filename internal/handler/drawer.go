package handler

import (
	"github.com/novarift/server/internal/net"
	"github.com/novarift/server/internal/net/packet"
	"github.com/novarift/server/internal/persist"
	"github.com/novarift/server/internal/world"
	"go.uber.org/zap"
)

const (
	abilityDrawerSlots = 25
	weaponDrawerSlots  = 5
)

// HandleRequestSetAbilitySlot binds or clears one ability drawer slot.
func HandleRequestSetAbilitySlot(sess *net.Session, r *packet.Reader, deps *Deps) {
	slotID := r.ReadD()
	abilityID := r.ReadD()
	abilityLevel := r.ReadD()

	pc := pctx(sess)
	p := pc.Player
	if p == nil || slotID < 0 || slotID >= abilityDrawerSlots {
		return
	}

	if abilityID == 0 {
		delete(p.Abilities, slotID)
	} else {
		p.Abilities[slotID] = &world.AbilitySlot{
			SlotID:       slotID,
			AbilityID:    abilityID,
			AbilityLevel: abilityLevel,
		}
	}

	ctx, cancel := dbCtx()
	defer cancel()
	err := deps.CharRepo.UpsertAbilitySlot(ctx, uint32(p.CharacterID), persist.CharacterAbilityRow{
		SlotID:       slotID,
		AbilityID:    abilityID,
		AbilityLevel: abilityLevel,
	})
	if err != nil {
		deps.Log.Error("ability slot save failed",
			zap.Int32("character", p.CharacterID), zap.Error(err))
	}

	sess.SendMethod(uint64(p.Actor.EntityID), packet.AbilityDrawerSlot{Slot: slotID})
}

// HandleRequestSwapAbilitySlots exchanges two drawer slot bindings.
func HandleRequestSwapAbilitySlots(sess *net.Session, r *packet.Reader, deps *Deps) {
	from := r.ReadD()
	to := r.ReadD()

	pc := pctx(sess)
	p := pc.Player
	if p == nil ||
		from < 0 || from >= abilityDrawerSlots ||
		to < 0 || to >= abilityDrawerSlots || from == to {
		return
	}

	a, b := p.Abilities[from], p.Abilities[to]
	delete(p.Abilities, from)
	delete(p.Abilities, to)
	if a != nil {
		a.SlotID = to
		p.Abilities[to] = a
	}
	if b != nil {
		b.SlotID = from
		p.Abilities[from] = b
	}

	ctx, cancel := dbCtx()
	defer cancel()
	for _, slot := range []int32{from, to} {
		row := persist.CharacterAbilityRow{SlotID: slot}
		if bound := p.Abilities[slot]; bound != nil {
			row.AbilityID = bound.AbilityID
			row.AbilityLevel = bound.AbilityLevel
		}
		if err := deps.CharRepo.UpsertAbilitySlot(ctx, uint32(p.CharacterID), row); err != nil {
			deps.Log.Error("ability slot save failed",
				zap.Int32("character", p.CharacterID), zap.Error(err))
		}
	}

	sess.SendMethod(uint64(p.Actor.EntityID), packet.AbilityDrawer{Slots: drawerSlots(p)})
}

// HandleRequestArmAbility selects the active ability drawer.
func HandleRequestArmAbility(sess *net.Session, r *packet.Reader, deps *Deps) {
	drawer := r.ReadD()

	pc := pctx(sess)
	p := pc.Player
	if p == nil || drawer < 0 {
		return
	}
	p.CurrentAbilityDrawer = drawer

	ctx, cancel := dbCtx()
	defer cancel()
	if err := deps.CharRepo.UpdateActiveDrawer(ctx, uint32(p.CharacterID), int16(drawer)); err != nil {
		deps.Log.Error("active drawer save failed",
			zap.Int32("character", p.CharacterID), zap.Error(err))
	}

	sess.SendMethod(uint64(p.Actor.EntityID), packet.AbilityDrawerSlot{Slot: drawer})
}

// HandleRequestArmWeapon selects the active weapon drawer slot and shows the
// change to everyone who can see the actor.
func HandleRequestArmWeapon(sess *net.Session, r *packet.Reader, deps *Deps) {
	slot := r.ReadD()

	pc := pctx(sess)
	p := pc.Player
	if p == nil || pc.Channel == nil || slot < 0 || slot >= weaponDrawerSlots {
		return
	}
	p.Inventory.ActiveWeaponDrawer = int(slot)

	broadcastKnown(pc.Channel, p.Actor.EntityID, packet.WeaponDrawerSlot{
		Slot:      slot,
		Requested: true,
	}, deps)
}
