package world

import (
	"testing"

	"github.com/novarift/server/internal/core/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeItems struct {
	items map[entity.ID]*Item
}

func (f fakeItems) Item(id entity.ID) *Item { return f.items[id] }

func newTestPlayer(t *testing.T, level int32) *PlayerData {
	t.Helper()
	actor := NewActor(entity.NewID(1, 0), 100)
	p := NewPlayerData(1, actor)
	p.Level = level
	return p
}

func TestSkillLevelCost(t *testing.T) {
	costs := []int32{0, 1, 3, 6, 10, 15}
	for level, want := range costs {
		assert.Equal(t, want, SkillLevelCost(int32(level)))
	}
	assert.EqualValues(t, -1, SkillLevelCost(-1))
	assert.EqualValues(t, -1, SkillLevelCost(6))
}

func TestAvailableAttributePoints(t *testing.T) {
	p := newTestPlayer(t, 5)
	assert.EqualValues(t, 8, AvailableAttributePoints(p))

	p.SpentBody, p.SpentMind, p.SpentSpirit = 3, 2, 1
	assert.EqualValues(t, 2, AvailableAttributePoints(p))

	p.SpentBody = 10
	assert.EqualValues(t, 0, AvailableAttributePoints(p), "overspent floors at zero")
}

func TestAvailableSkillPoints(t *testing.T) {
	p := newTestPlayer(t, 3)
	// (3-1)*2 + 5 recruit points
	assert.EqualValues(t, 9, AvailableSkillPoints(p))

	p.Skills[1] = &SkillEntry{SkillID: 1, SkillLevel: 3}  // costs 6
	p.Skills[8] = &SkillEntry{SkillID: 8, SkillLevel: 1}  // costs 1
	assert.EqualValues(t, 2, AvailableSkillPoints(p))
}

func TestRecomputeStatsBaseline(t *testing.T) {
	p := newTestPlayer(t, 1)
	RecomputeStats(p, fakeItems{}, zap.NewNop(), true)

	for _, kind := range []AttrKind{AttrBody, AttrMind, AttrSpirit} {
		rec := p.Actor.Attr(kind)
		assert.InDelta(t, 10, rec.NormalMax, 1e-9)
		assert.InDelta(t, rec.NormalMax, rec.Current, 1e-9)
	}
	assert.InDelta(t, 100, p.Actor.Attr(AttrHealth).NormalMax, 1e-9)
	assert.InDelta(t, 100, p.Actor.Attr(AttrChi).NormalMax, 1e-9)
	assert.InDelta(t, 100, p.Actor.Attr(AttrPower).NormalMax, 1e-9)
	assert.InDelta(t, 100, p.Actor.Attr(AttrRegen).NormalMax, 1e-9)
	assert.InDelta(t, 2, p.Actor.Attr(AttrRegen).RefreshAmount, 1e-9)
	assert.InDelta(t, 0, p.Actor.Attr(AttrArmor).NormalMax, 1e-9)
}

func TestRecomputeStatsScalesWithLevelAndSpentPoints(t *testing.T) {
	p := newTestPlayer(t, 10)
	p.SpentBody = 4
	p.SpentMind = 3
	p.SpentSpirit = 2
	RecomputeStats(p, fakeItems{}, zap.NewNop(), true)

	assert.InDelta(t, 10+9*2+4, p.Actor.Attr(AttrBody).NormalMax, 1e-9)
	assert.InDelta(t, 10+9*2+3, p.Actor.Attr(AttrMind).NormalMax, 1e-9)
	assert.InDelta(t, 10+9*2+2, p.Actor.Attr(AttrSpirit).NormalMax, 1e-9)
	assert.InDelta(t, 100+9*16+4*6, p.Actor.Attr(AttrHealth).NormalMax, 1e-9)
	assert.InDelta(t, 100+9*8+2*3, p.Actor.Attr(AttrChi).NormalMax, 1e-9)
	assert.InDelta(t, 100+9*8+3*3, p.Actor.Attr(AttrPower).NormalMax, 1e-9)

	// spirit max is 30; bonus over the base 10 feeds regeneration
	assert.InDelta(t, 100+9*2+20*6, p.Actor.Attr(AttrRegen).NormalMax, 1e-9)
}

func TestRecomputeStatsArmorFromEquipment(t *testing.T) {
	reg := NewRegistryForItems(t)
	p := newTestPlayer(t, 5)

	chest := addArmor(t, reg, 30, 0.5)
	legs := addArmor(t, reg, 20, 0.25)
	p.Inventory.EquippedInventory[0] = chest.EntityID
	p.Inventory.EquippedInventory[1] = legs.EntityID

	RecomputeStats(p, RegistryItems(reg), zap.NewNop(), true)
	armor := p.Actor.Attr(AttrArmor)
	assert.InDelta(t, 50, armor.NormalMax, 1e-9)
	assert.InDelta(t, 0.75, armor.RegenRate, 1e-9)

	// 150 spent body points scale the sum by 1 + 150*0.0066666.
	p.SpentBody = 150
	RecomputeStats(p, RegistryItems(reg), zap.NewNop(), true)
	assert.InDelta(t, 100, p.Actor.Attr(AttrArmor).NormalMax, 0.01)
}

func TestRecomputeStatsSkipsMissingItems(t *testing.T) {
	reg := NewRegistryForItems(t)
	p := newTestPlayer(t, 5)

	chest := addArmor(t, reg, 25, 0)
	p.Inventory.EquippedInventory[0] = chest.EntityID
	p.Inventory.EquippedInventory[1] = entity.NewID(999, 0) // never allocated

	RecomputeStats(p, RegistryItems(reg), zap.NewNop(), true)
	assert.InDelta(t, 25, p.Actor.Attr(AttrArmor).NormalMax, 1e-9,
		"dangling slot contributes zero without aborting")
}

func TestRecomputeStatsClampVersusReset(t *testing.T) {
	p := newTestPlayer(t, 5)
	RecomputeStats(p, fakeItems{}, zap.NewNop(), true)

	health := p.Actor.Attr(AttrHealth)
	full := health.CurrentMax
	health.Current = 40

	// Without fullReset a damaged pool stays damaged.
	RecomputeStats(p, fakeItems{}, zap.NewNop(), false)
	assert.InDelta(t, 40, health.Current, 1e-9)

	// Shrinking the ceiling clamps down.
	health.Current = full + 500
	RecomputeStats(p, fakeItems{}, zap.NewNop(), false)
	assert.InDelta(t, health.CurrentMax, health.Current, 1e-9)

	// fullReset snaps back to max.
	health.Current = 40
	RecomputeStats(p, fakeItems{}, zap.NewNop(), true)
	assert.InDelta(t, health.CurrentMax, health.Current, 1e-9)
}

func TestRegenerateRestoresHealthFromRegenRecord(t *testing.T) {
	p := newTestPlayer(t, 1)
	RecomputeStats(p, fakeItems{}, zap.NewNop(), true)

	health := p.Actor.Attr(AttrHealth)
	health.Current = 40

	// Base regeneration is 2.0/s; one 1.5 s step restores 3 points.
	assert.True(t, p.Actor.Regenerate(1500))
	assert.InDelta(t, 43, health.Current, 1e-9)
}

func TestRegenerateArmorUsesItsRegenRate(t *testing.T) {
	reg := NewRegistryForItems(t)
	p := newTestPlayer(t, 1)
	chest := addArmor(t, reg, 50, 2.0)
	p.Inventory.EquippedInventory[0] = chest.EntityID
	RecomputeStats(p, RegistryItems(reg), zap.NewNop(), true)

	armor := p.Actor.Attr(AttrArmor)
	armor.Current = 10

	require.True(t, p.Actor.Regenerate(1500))
	assert.InDelta(t, 13, armor.Current, 1e-9)
}

func TestRegenerateClampsAndReportsNoChangeWhenFull(t *testing.T) {
	p := newTestPlayer(t, 1)
	RecomputeStats(p, fakeItems{}, zap.NewNop(), true)

	health := p.Actor.Attr(AttrHealth)
	health.Current = health.CurrentMax - 1

	assert.True(t, p.Actor.Regenerate(1500))
	assert.InDelta(t, health.CurrentMax, health.Current, 1e-9)

	assert.False(t, p.Actor.Regenerate(1500), "full pools report no change")
}

func TestRecomputeStatsIdempotent(t *testing.T) {
	p := newTestPlayer(t, 7)
	p.SpentBody = 2
	RecomputeStats(p, fakeItems{}, zap.NewNop(), true)
	first := p.Actor.AttributeSnapshot()

	RecomputeStats(p, fakeItems{}, zap.NewNop(), true)
	second := p.Actor.AttributeSnapshot()
	assert.Equal(t, first, second)
}

// NewRegistryForItems builds an entity registry for item fixtures.
func NewRegistryForItems(t *testing.T) *entity.Registry {
	t.Helper()
	return entity.NewRegistry()
}

func addArmor(t *testing.T, reg *entity.Registry, value, regenRate float64) *Item {
	t.Helper()
	id := reg.Allocate()
	item := &Item{
		EntityID: id,
		Template: &ItemTemplate{
			ItemType: ItemTypeArmor,
			Armor:    ArmorData{ArmorValue: value, RegenRate: regenRate},
		},
	}
	reg.Bind(id, item)
	require.True(t, reg.Alive(id))
	return item
}
