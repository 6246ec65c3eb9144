package world

import (
	"github.com/novarift/server/internal/core/entity"
)

// CreatureNpcData marks a creature type as conversation-capable and carries
// its mission bindings for the conversation-status scan.
type CreatureNpcData struct {
	RelatedMissions []int32 // mission indexes this NPC participates in
}

// CreatureVendorData marks a creature type as a vendor.
type CreatureVendorData struct {
	VendorPackageID int32
}

// CreatureLootData marks a creature type as harvestable.
type CreatureLootData struct{}

// CreatureAuctioneerData marks a creature type as an auction-house keeper.
type CreatureAuctioneerData struct{}

// CreatureType is the static, read-only template shared by creature
// instances. Loaded once at startup; capability blocks are nil when the
// creature lacks the capability.
type CreatureType struct {
	DbID       uint32
	ClassID    int32
	NpcData    *CreatureNpcData
	VendorData *CreatureVendorData
	LootData   *CreatureLootData
	Auctioneer *CreatureAuctioneerData
}

// CreatureStats is the attribute seed row for a creature.
type CreatureStats struct {
	Body   float64
	Mind   float64
	Spirit float64
	Health float64
	Armor  float64
}

// SpawnPool tracks how many creatures of a spawn group are alive.
type SpawnPool struct {
	PoolID     int32
	AliveCount int
}

// Creature is a live instance of a creature type. Its Actor is created fresh
// per spawn; the template is shared.
type Creature struct {
	DbID         uint32
	CreatureType *CreatureType
	Faction      int32
	Level        int32
	MaxHitPoints int32
	NameID       int32
	Appearance   map[int32]*AppearanceSlot
	SpawnPool    *SpawnPool
	Actor        *Actor
}

func (c *Creature) EntityKind() entity.Kind { return entity.KindCreature }

// SeedCreatureAttributes fills a freshly spawned creature actor's records
// from its stats row. Body/mind/spirit/health/armor carry the row values;
// speed idles at 1; chi/power/aware/regen stay zero for creatures.
func SeedCreatureAttributes(a *Actor, stats *CreatureStats) {
	a.WithAttributes(func(attrs map[AttrKind]*Attribute) {
		seed := func(kind AttrKind, v float64, regenRate, refresh float64) {
			rec := attrs[kind]
			rec.Current = v
			rec.CurrentMax = v
			rec.NormalMax = v
			rec.RegenRate = regenRate
			rec.RefreshAmount = refresh
		}
		seed(AttrBody, stats.Body, 5, 1000)
		seed(AttrMind, stats.Mind, 5, 1000)
		seed(AttrSpirit, stats.Spirit, 5, 1000)
		seed(AttrHealth, stats.Health, 5, 1000)
		seed(AttrChi, 0, 0, 0)
		seed(AttrPower, 0, 0, 0)
		seed(AttrAware, 0, 0, 0)
		seed(AttrArmor, stats.Armor, 5, 1000)
		seed(AttrSpeed, 1, 0, 0)
		seed(AttrRegen, 0, 0, 0)
	})
}
