package handler

import (
	"github.com/novarift/server/internal/net"
	"github.com/novarift/server/internal/net/packet"
	"github.com/novarift/server/internal/persist"
	"go.uber.org/zap"
)

// Character selection pods. The client materializes a fixed row of pods with
// well-known entity ids; slot n lives on pod entity selectionPodBase+n-1.
const (
	selectionPodBase  uint64 = 100
	selectionPodCount        = 16
)

// Fallback names when the random name pools are empty.
const (
	fallbackMaleName   = "Richard"
	fallbackFemaleName = "Rachel"
	fallbackFamilyName = "Garriott"
)

// Character creation failure codes.
const (
	createFailTechnical   int32 = 1
	createFailInvalidSlot int32 = 2
	createFailNameInUse   int32 = 3
	createFailFamilyInUse int32 = 4
)

func podEntity(slot int16) uint64 {
	return selectionPodBase + uint64(slot) - 1
}

// startCharacterSelection pushes the selection screen state: one
// CharacterInfo per pod, describe data for occupied pods, then the
// BeginCharacterSelection trigger.
func startCharacterSelection(sess *net.Session, deps *Deps) {
	ctx, cancel := dbCtx()
	defer cancel()

	account := pctx(sess).Account
	chars, err := deps.CharRepo.ListByAccount(ctx, account.ID)
	if err != nil {
		deps.Log.Error("character list load failed", zap.Error(err))
		sess.Close()
		return
	}

	bySlot := make(map[int16]*persist.CharacterRow, len(chars))
	for _, c := range chars {
		bySlot[c.Slot] = c
	}

	for slot := int16(1); slot <= selectionPodCount; slot++ {
		pod := podEntity(slot)
		c, occupied := bySlot[slot]
		sess.SendMethod(pod, packet.CharacterInfo{SlotID: int32(slot), Empty: !occupied})
		if !occupied {
			continue
		}
		appearance, err := deps.CharRepo.LoadAppearance(ctx, c.ID)
		if err != nil {
			deps.Log.Warn("appearance load failed",
				zap.Uint32("character", c.ID), zap.Error(err))
		}
		slots := make([]packet.AppearanceEntry, 0, len(appearance))
		for _, a := range appearance {
			slots = append(slots, packet.AppearanceEntry{
				SlotID: a.SlotID, ClassID: a.ClassID, Hue: a.Color,
			})
		}
		sess.SendMethod(pod, packet.AppearanceData{Slots: slots})
		sess.SendMethod(pod, packet.Level{Level: int32(c.Level)})
		sess.SendMethod(pod, packet.CharacterClass{ClassID: c.ClassID})
		sess.SendMethod(pod, packet.CharacterName{Name: c.Name})
	}

	sess.SendMethod(packet.SysEntityClient, packet.BeginCharacterSelection{
		FamilyName: account.FamilyName,
		CanSkip:    len(chars) > 0,
		AccountID:  account.ID,
	})
}

// HandleRequestCharacterName rolls a random first name for the given gender.
func HandleRequestCharacterName(sess *net.Session, r *packet.Reader, deps *Deps) {
	gender := r.ReadD()

	kind := persist.NameKindMaleFirst
	fallback := fallbackMaleName
	if gender != 0 {
		kind = persist.NameKindFemaleFirst
		fallback = fallbackFemaleName
	}

	ctx, cancel := dbCtx()
	defer cancel()
	name, err := deps.NameRepo.Random(ctx, kind)
	if err != nil {
		deps.Log.Warn("random name roll failed", zap.Error(err))
	}
	if name == "" {
		name = fallback
	}
	sess.SendMethod(packet.SysEntityClient, packet.GeneratedCharacterName{Name: name})
}

// HandleRequestFamilyName rolls a random family name.
func HandleRequestFamilyName(sess *net.Session, r *packet.Reader, deps *Deps) {
	ctx, cancel := dbCtx()
	defer cancel()
	name, err := deps.NameRepo.Random(ctx, persist.NameKindFamily)
	if err != nil {
		deps.Log.Warn("random family name roll failed", zap.Error(err))
	}
	if name == "" {
		name = fallbackFamilyName
	}
	sess.SendMethod(packet.SysEntityClient, packet.GeneratedFamilyName{Name: name})
}

// HandleRequestDeleteCharacter removes the character in the requested slot
// and replays the selection screen so the pod empties client-side.
func HandleRequestDeleteCharacter(sess *net.Session, r *packet.Reader, deps *Deps) {
	slot := int16(r.ReadD())
	if slot < 1 || slot > selectionPodCount {
		return
	}

	ctx, cancel := dbCtx()
	defer cancel()

	account := pctx(sess).Account
	row, err := deps.CharRepo.LoadBySlot(ctx, account.ID, slot)
	if err != nil {
		deps.Log.Error("slot load failed", zap.Error(err))
		return
	}
	if row == nil {
		return
	}
	if err := deps.CharRepo.Delete(ctx, row.ID); err != nil {
		deps.Log.Error("character delete failed",
			zap.Uint32("character", row.ID), zap.Error(err))
		return
	}

	deps.Log.Info("character deleted",
		zap.String("account", account.Name),
		zap.String("name", row.Name),
		zap.Int16("slot", slot),
	)
	startCharacterSelection(sess, deps)
}

// HandleRequestCreateCharacter validates and persists a new character in the
// requested selection slot.
func HandleRequestCreateCharacter(sess *net.Session, r *packet.Reader, deps *Deps) {
	slot := int16(r.ReadD())
	name := r.ReadS()
	familyName := r.ReadS()
	gender := int16(r.ReadD())
	scale := r.ReadF()
	raceID := r.ReadD()
	classID := r.ReadD()
	appearanceCount := int(r.ReadH())
	appearance := make([]persist.CharacterAppearanceRow, 0, appearanceCount)
	for i := 0; i < appearanceCount; i++ {
		appearance = append(appearance, persist.CharacterAppearanceRow{
			SlotID:  r.ReadD(),
			ClassID: r.ReadD(),
			Color:   r.ReadD(),
		})
	}

	fail := func(code int32) {
		sess.SendMethod(packet.SysEntityClient, packet.UserCreationFailed{Result: code})
	}

	if slot < 1 || slot > selectionPodCount || name == "" {
		fail(createFailInvalidSlot)
		return
	}

	ctx, cancel := dbCtx()
	defer cancel()

	account := pctx(sess).Account

	existing, err := deps.CharRepo.LoadBySlot(ctx, account.ID, slot)
	if err != nil {
		deps.Log.Error("slot check failed", zap.Error(err))
		fail(createFailTechnical)
		return
	}
	if existing != nil {
		fail(createFailInvalidSlot)
		return
	}

	taken, err := deps.CharRepo.NameTaken(ctx, name)
	if err != nil {
		deps.Log.Error("name check failed", zap.Error(err))
		fail(createFailTechnical)
		return
	}
	if taken {
		fail(createFailNameInUse)
		return
	}

	// The family name is account-wide; the first created character claims it.
	if account.FamilyName == "" {
		if familyName == "" {
			familyName = fallbackFamilyName
		}
		ok, err := deps.AccountRepo.SetFamilyName(ctx, account.ID, familyName)
		if err != nil {
			deps.Log.Error("family name claim failed", zap.Error(err))
			fail(createFailTechnical)
			return
		}
		if !ok {
			fail(createFailFamilyInUse)
			return
		}
		account.FamilyName = familyName
	}

	row := &persist.CharacterRow{
		AccountID:    account.ID,
		Slot:         slot,
		Name:         name,
		Gender:       gender,
		Scale:        scale,
		RaceID:       raceID,
		ClassID:      classID,
		MapContextID: deps.Config.World.DefaultMapID,
	}
	if err := deps.CharRepo.Create(ctx, row); err != nil {
		deps.Log.Error("character create failed", zap.Error(err))
		fail(createFailTechnical)
		return
	}
	for _, a := range appearance {
		if err := deps.CharRepo.UpsertAppearance(ctx, row.ID, a); err != nil {
			deps.Log.Warn("appearance save failed",
				zap.Uint32("character", row.ID), zap.Error(err))
		}
	}

	deps.Log.Info("character created",
		zap.String("account", account.Name),
		zap.String("name", name),
		zap.Int16("slot", slot),
	)

	sess.SendMethod(packet.SysEntityClient, packet.CharacterCreateSuccess{
		SlotID:     int32(slot),
		FamilyName: account.FamilyName,
	})
	startCharacterSelection(sess, deps)
}
