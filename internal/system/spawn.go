package system

import (
	"context"

	"github.com/novarift/server/internal/handler"
	"github.com/novarift/server/internal/persist"
	"github.com/novarift/server/internal/world"
	"go.uber.org/zap"
)

// LoadCreatureTypes hydrates the static creature type table from the
// database, attaching capability blocks for NPC, vendor and auctioneer rows.
func LoadCreatureTypes(ctx context.Context, repo *persist.CreatureRepo, log *zap.Logger) (map[uint32]*world.CreatureType, error) {
	rows, err := repo.LoadTypes(ctx)
	if err != nil {
		return nil, err
	}

	types := make(map[uint32]*world.CreatureType, len(rows))
	for _, row := range rows {
		t := &world.CreatureType{
			DbID:    row.ID,
			ClassID: row.ClassID,
		}
		if len(row.NpcMissions) > 0 {
			t.NpcData = &world.CreatureNpcData{RelatedMissions: row.NpcMissions}
		}
		if row.VendorPackageID != nil {
			t.VendorData = &world.CreatureVendorData{VendorPackageID: *row.VendorPackageID}
			if t.NpcData == nil {
				t.NpcData = &world.CreatureNpcData{}
			}
		}
		if row.Auctioneer {
			t.Auctioneer = &world.CreatureAuctioneerData{}
			if t.NpcData == nil {
				t.NpcData = &world.CreatureNpcData{}
			}
		}
		types[row.ID] = t
	}
	log.Info("creature types loaded", zap.Int("count", len(types)))
	return types, nil
}

// SpawnMapCreatures loads and spawns the persistent creatures of one map
// channel. Call once when the channel is created; clients arriving later are
// introduced through the interest pass.
func SpawnMapCreatures(ctx context.Context, ch *world.MapChannel, deps *handler.Deps) error {
	rows, err := deps.CreatureRepo.LoadByMap(ctx, ch.Info.MapID)
	if err != nil {
		return err
	}

	spawned := 0
	for _, row := range rows {
		ct, ok := deps.CreatureTypes[row.CreatureTypeID]
		if !ok {
			deps.Log.Warn("creature references unknown type",
				zap.Uint32("creature", row.ID),
				zap.Uint32("type", row.CreatureTypeID),
			)
			continue
		}

		id := deps.Registry.Allocate()
		actor := world.NewActor(id, ct.ClassID)
		actor.Position = world.Position{X: row.PosX, Y: row.PosY, Z: row.PosZ}
		actor.Rotation = world.IdentityRotation()

		cr := &world.Creature{
			DbID:         row.ID,
			CreatureType: ct,
			Faction:      row.Faction,
			Level:        row.Level,
			MaxHitPoints: row.MaxHitPoints,
			NameID:       row.NameID,
			Appearance:   make(map[int32]*world.AppearanceSlot),
			Actor:        actor,
		}
		deps.Registry.Bind(id, cr)

		stats, err := deps.CreatureRepo.GetStats(ctx, row.Level)
		if err != nil {
			deps.Log.Warn("creature stats load failed",
				zap.Int32("level", row.Level), zap.Error(err))
		}
		if stats != nil {
			world.SeedCreatureAttributes(actor, &world.CreatureStats{
				Body:   float64(stats.Body),
				Mind:   float64(stats.Mind),
				Spirit: float64(stats.Spirit),
				Health: float64(stats.Health),
				Armor:  float64(stats.Armor),
			})
		}

		ch.AddCreature(cr)
		handler.IntroduceCreatureToClients(ch, cr, deps)
		spawned++
	}

	deps.Log.Info("map creatures spawned",
		zap.Uint32("map", ch.Info.MapID),
		zap.Int("count", spawned),
	)
	return nil
}
