package world

import (
	"github.com/novarift/server/internal/core/entity"
)

// EquipmentSlotCount is the number of equipped-inventory slots scanned by the
// stats recompute.
const EquipmentSlotCount = 22

// SkillEntry is one learned skill (level 0..5).
type SkillEntry struct {
	SkillID    int32
	SkillIndex int32
	SkillLevel int32
}

// AbilitySlot binds an ability to one slot of the ability drawer.
type AbilitySlot struct {
	SlotID       int32
	AbilityID    int32
	AbilityLevel int32
}

// Color is an AARRGGBB hue applied to an appearance item.
type Color struct {
	Hue int32
}

// AppearanceSlot is one visual equipment slot.
type AppearanceSlot struct {
	SlotID  int32
	ClassID int32
	Color   Color
}

// MissionLogEntry is the player's progress on one mission. Data is the
// per-objective storage the mission script lines index into.
type MissionLogEntry struct {
	MissionIndex int32
	State        int32
	Data         []int32
}

// Inventory holds entity references to owned items. Only the equipped slots
// matter to this core; bag contents live with the inventory collaborator.
type Inventory struct {
	EquippedInventory  [EquipmentSlotCount]entity.ID
	WeaponDrawer       [5]entity.ID
	ActiveWeaponDrawer int
}

// PlayerData is the per-player mutable state for one login session. It is
// persisted externally on mutation; the Actor carries the simulated body.
type PlayerData struct {
	CharacterID int32
	Actor       *Actor

	Gender     int32
	ClassID    int32
	Level      int32
	Experience int32
	Credits    int32
	Prestige   int32

	SpentBody   int32
	SpentMind   int32
	SpentSpirit int32

	Skills     map[int32]*SkillEntry     // skill id -> entry
	Abilities  map[int32]*AbilitySlot    // drawer slot -> binding
	Appearance map[int32]*AppearanceSlot // equipment slot -> visual

	CurrentAbilityDrawer int32
	Titles               []int32
	CurrentTitle         int32

	Inventory Inventory

	// Mission log, keyed by mission index. Completed holds turned-in missions.
	MissionLog map[int32]*MissionLogEntry
	Completed  map[int32]bool
}

func NewPlayerData(characterID int32, actor *Actor) *PlayerData {
	return &PlayerData{
		CharacterID: characterID,
		Actor:       actor,
		Level:       1,
		Skills:      make(map[int32]*SkillEntry),
		Abilities:   make(map[int32]*AbilitySlot),
		Appearance:  make(map[int32]*AppearanceSlot),
		MissionLog:  make(map[int32]*MissionLogEntry),
		Completed:   make(map[int32]bool),
	}
}

func (p *PlayerData) EntityKind() entity.Kind { return entity.KindPlayer }

// ItemType classifies an item template.
type ItemType int

const (
	ItemTypeNone ItemType = iota
	ItemTypeWeapon
	ItemTypeArmor
	ItemTypeConsumable
)

// ArmorData is the armor block of an item template.
type ArmorData struct {
	ArmorValue float64
	RegenRate  float64
}

// ItemTemplate is static, shared item data.
type ItemTemplate struct {
	ClassID  int32
	ItemType ItemType
	Armor    ArmorData
}

// Item is a live item instance addressable by entity id.
type Item struct {
	EntityID entity.ID
	Template *ItemTemplate
}

func (i *Item) EntityKind() entity.Kind { return entity.KindItem }

// ItemResolver resolves an equipped-slot reference to a live item. A slot
// that no longer resolves is a data-integrity warning, not a fault.
type ItemResolver interface {
	Item(id entity.ID) *Item
}

type registryItems struct {
	reg *entity.Registry
}

func (r registryItems) Item(id entity.ID) *Item {
	e, ok := r.reg.Lookup(id)
	if !ok {
		return nil
	}
	item, _ := e.(*Item)
	return item
}

// RegistryItems adapts the entity registry to an ItemResolver.
func RegistryItems(reg *entity.Registry) ItemResolver {
	return registryItems{reg: reg}
}
