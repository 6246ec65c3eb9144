package handler

import (
	"sort"

	"github.com/novarift/server/internal/core/entity"
	"github.com/novarift/server/internal/data"
	"github.com/novarift/server/internal/net"
	"github.com/novarift/server/internal/net/packet"
	"github.com/novarift/server/internal/persist"
	"github.com/novarift/server/internal/world"
	"go.uber.org/zap"
)

// skyRunningTime is the fixed day-cycle timestamp handed to the client on
// world entry.
const skyRunningTime int64 = 6666666

// HandleEnterWorld loads the selected character, builds its live state and
// joins it to its map channel.
func HandleEnterWorld(sess *net.Session, r *packet.Reader, deps *Deps) {
	slot := int16(r.ReadD())

	ctx, cancel := dbCtx()
	defer cancel()

	pc := pctx(sess)
	row, err := deps.CharRepo.LoadBySlot(ctx, pc.Account.ID, slot)
	if err != nil {
		deps.Log.Error("character load failed", zap.Error(err))
		sess.Close()
		return
	}
	if row == nil {
		deps.Log.Warn("enter world for empty slot",
			zap.String("account", pc.Account.Name),
			zap.Int16("slot", slot),
		)
		return
	}

	ch := deps.Channels.Get(row.MapContextID)
	if ch == nil {
		deps.Log.Error("character on unknown map",
			zap.Uint32("map", row.MapContextID),
			zap.Uint32("character", row.ID),
		)
		sess.Close()
		return
	}

	player, err := buildPlayer(sess, row, deps)
	if err != nil {
		deps.Log.Error("player build failed", zap.Error(err))
		sess.Close()
		return
	}

	id := deps.Registry.Allocate()
	deps.Registry.Bind(id, player)
	player.Actor.EntityID = id

	world.RecomputeStats(player, world.RegistryItems(deps.Registry), deps.Log, true)

	client := &world.MapChannelClient{
		Session: sess,
		Player:  player,
		Known:   map[entity.ID]struct{}{id: {}},
	}
	pc.CharRow = row
	pc.Player = player
	pc.Channel = ch
	pc.Client = client

	sess.SetState(packet.StateInWorld)

	describePlayer(sess, player, false)
	assignPlayer(sess, player, ch, deps)

	ch.AddClient(client)
	IntroduceClientToPeers(ch, client, deps)
	IntroducePeersToClient(ch, client, deps)
	IntroduceCreaturesToClient(ch, client, deps)

	if err := deps.CharRepo.TouchLogin(ctx, row.ID); err != nil {
		deps.Log.Warn("login touch failed", zap.Error(err))
	}

	deps.Log.Info("player entered world",
		zap.String("character", row.Name),
		zap.Uint32("map", row.MapContextID),
		zap.Uint64("entity", uint64(id)),
	)
}

// buildPlayer hydrates a PlayerData from its persisted rows. The entity id
// is bound afterwards by the caller.
func buildPlayer(sess *net.Session, row *persist.CharacterRow, deps *Deps) (*world.PlayerData, error) {
	ctx, cancel := dbCtx()
	defer cancel()

	actor := world.NewActor(0, row.ClassID)
	actor.Name = row.Name
	actor.FamilyName = pctx(sess).Account.FamilyName
	actor.Position = world.Position{X: row.PosX, Y: row.PosY, Z: row.PosZ}
	actor.Rotation = world.IdentityRotation()

	p := world.NewPlayerData(int32(row.ID), actor)
	p.Gender = int32(row.Gender)
	p.ClassID = row.ClassID
	p.Level = int32(row.Level)
	p.Experience = row.Experience
	p.Credits = row.Credits
	p.Prestige = row.Prestige
	p.SpentBody = row.Body
	p.SpentMind = row.Mind
	p.SpentSpirit = row.Spirit
	p.CurrentAbilityDrawer = int32(row.ActiveDrawer)

	skills, err := deps.CharRepo.LoadSkills(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	for _, s := range skills {
		p.Skills[s.SkillID] = &world.SkillEntry{
			SkillID:    s.SkillID,
			SkillIndex: data.SkillIndexOf(s.SkillID),
			SkillLevel: s.SkillLevel,
		}
	}

	abilities, err := deps.CharRepo.LoadAbilitySlots(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	for _, a := range abilities {
		p.Abilities[a.SlotID] = &world.AbilitySlot{
			SlotID:       a.SlotID,
			AbilityID:    a.AbilityID,
			AbilityLevel: a.AbilityLevel,
		}
	}

	appearance, err := deps.CharRepo.LoadAppearance(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	for _, a := range appearance {
		p.Appearance[a.SlotID] = &world.AppearanceSlot{
			SlotID:  a.SlotID,
			ClassID: a.ClassID,
			Color:   world.Color{Hue: a.Color},
		}
	}

	titles, err := deps.CharRepo.LoadTitles(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	p.Titles = titles

	missions, err := deps.CharRepo.LoadMissions(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	for _, m := range missions {
		if m.Completed {
			p.Completed[m.MissionID] = true
			continue
		}
		p.MissionLog[m.MissionID] = &world.MissionLogEntry{
			MissionIndex: m.MissionID,
			State:        m.MissionState,
		}
	}

	return p, nil
}

// assignPlayer runs the fixed world-entry sequence binding the client to its
// controlled actor and pushing session-scoped state.
func assignPlayer(sess *net.Session, p *world.PlayerData, ch *world.MapChannel, deps *Deps) {
	id := uint64(p.Actor.EntityID)

	sess.SendMethod(packet.SysEntityClient, packet.SetControlledActorID{EntityID: id})
	sess.SendMethod(packet.SysEntityTime, packet.SetSkyTime{RunningTime: skyRunningTime})
	sess.SendMethod(packet.SysEntityClient, packet.SetCurrentContextID{
		MapContextID: int32(ch.Info.MapID),
	})
	sess.SendMethod(packet.SysEntityClient, packet.UpdateRegions{
		RegionID: ch.Info.BaseRegionID,
	})
	sess.SendMethod(id, packet.AllCredits{Credits: p.Credits, Prestige: p.Prestige})
	sess.SendMethod(id, packet.AdvancementStats{
		Level:           p.Level,
		Experience:      p.Experience,
		AttributePoints: world.AvailableAttributePoints(p),
		TrainPoints:     0,
		SkillPoints:     world.AvailableSkillPoints(p),
	})
	sess.SendMethod(id, packet.Skills{Skills: skillLines(p)})
	sess.SendMethod(id, packet.Abilities{Abilities: abilityLines(p)})
	if slots := drawerSlots(p); len(slots) > 0 {
		sess.SendMethod(id, packet.AbilityDrawer{Slots: slots})
	}
	sess.SendMethod(id, packet.Titles{Titles: p.Titles})
}

func skillLines(p *world.PlayerData) []packet.SkillLine {
	out := make([]packet.SkillLine, 0, len(p.Skills))
	for _, s := range p.Skills {
		out = append(out, packet.SkillLine{
			SkillID:    s.SkillID,
			SkillIndex: s.SkillIndex,
			SkillLevel: s.SkillLevel,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SkillID < out[j].SkillID })
	return out
}

// abilityLines derives the usable abilities from learned skills. Passive
// skills map to no ability and are skipped.
func abilityLines(p *world.PlayerData) []packet.AbilityLine {
	out := make([]packet.AbilityLine, 0, len(p.Skills))
	for _, s := range p.Skills {
		if s.SkillLevel <= 0 {
			continue
		}
		abilityID := data.AbilityForIndex(s.SkillIndex)
		if abilityID < 0 {
			continue
		}
		out = append(out, packet.AbilityLine{
			AbilityID:    abilityID,
			AbilityLevel: s.SkillLevel,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AbilityID < out[j].AbilityID })
	return out
}

func drawerSlots(p *world.PlayerData) []packet.DrawerSlot {
	out := make([]packet.DrawerSlot, 0, len(p.Abilities))
	for _, a := range p.Abilities {
		out = append(out, packet.DrawerSlot{
			SlotID:       a.SlotID,
			AbilityID:    a.AbilityID,
			AbilityLevel: a.AbilityLevel,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SlotID < out[j].SlotID })
	return out
}
