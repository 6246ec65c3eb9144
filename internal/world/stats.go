package world

import (
	"go.uber.org/zap"
)

// requiredSkillLevelPoints[n] is the cumulative point cost of holding a skill
// at level n.
var requiredSkillLevelPoints = [6]int32{0, 1, 3, 6, 10, 15}

// SkillLevelCost returns the cumulative cost of a skill level, or -1 for a
// level outside 0..5.
func SkillLevelCost(level int32) int32 {
	if level < 0 || level > 5 {
		return -1
	}
	return requiredSkillLevelPoints[level]
}

// AvailableAttributePoints is level*2-2 minus every spent attribute point,
// floored at zero.
func AvailableAttributePoints(p *PlayerData) int32 {
	points := p.Level*2 - 2
	points -= p.SpentBody
	points -= p.SpentMind
	points -= p.SpentSpirit
	if points < 0 {
		points = 0
	}
	return points
}

// AvailableSkillPoints is (level-1)*2 plus the five recruit points, minus the
// cumulative cost of every held skill level, floored at zero.
func AvailableSkillPoints(p *PlayerData) int32 {
	points := (p.Level-1)*2 + 5
	for _, skill := range p.Skills {
		if skill.SkillLevel < 0 || skill.SkillLevel > 5 {
			continue // should not be possible
		}
		points -= requiredSkillLevelPoints[skill.SkillLevel]
	}
	if points < 0 {
		points = 0
	}
	return points
}

// RecomputeStats rederives every attribute record of the player's actor from
// level, spent points and equipped armor. With fullReset every Current snaps
// to its new CurrentMax; otherwise Current = min(Current, CurrentMax), so
// values never rise on their own and never exceed the new ceiling.
//
// An equipped slot that no longer resolves to a live item is logged and
// contributes zero to the armor sum; it never aborts the recompute.
func RecomputeStats(p *PlayerData, items ItemResolver, log *zap.Logger, fullReset bool) {
	p.Actor.WithAttributes(func(attrs map[AttrKind]*Attribute) {
		level := float64(p.Level)
		spentBody := float64(p.SpentBody)
		spentMind := float64(p.SpentMind)
		spentSpirit := float64(p.SpentSpirit)

		body := attrs[AttrBody]
		body.NormalMax = 10 + (level-1)*2 + spentBody
		body.CurrentMax = body.NormalMax
		body.Current = body.CurrentMax

		mind := attrs[AttrMind]
		mind.NormalMax = 10 + (level-1)*2 + spentMind
		mind.CurrentMax = mind.NormalMax
		mind.Current = mind.CurrentMax

		spirit := attrs[AttrSpirit]
		spirit.NormalMax = 10 + (level-1)*2 + spentSpirit
		spirit.CurrentMax = spirit.NormalMax
		spirit.Current = spirit.CurrentMax

		health := attrs[AttrHealth]
		health.NormalMax = 100 + (level-1)*16 + spentBody*6
		health.CurrentMax = health.NormalMax
		if fullReset {
			health.Current = health.CurrentMax
		} else if health.Current > health.CurrentMax {
			health.Current = health.CurrentMax
		}

		chi := attrs[AttrChi]
		chi.NormalMax = 100 + (level-1)*8 + spentSpirit*3
		chi.CurrentMax = chi.NormalMax
		if fullReset {
			chi.Current = chi.CurrentMax
		} else if chi.Current > chi.CurrentMax {
			chi.Current = chi.CurrentMax
		}

		power := attrs[AttrPower]
		power.NormalMax = 100 + (level-1)*8 + spentMind*3
		power.CurrentMax = power.NormalMax
		if fullReset {
			power.Current = power.CurrentMax
		} else if power.Current > power.CurrentMax {
			power.Current = power.CurrentMax
		}

		regen := attrs[AttrRegen]
		spiritBonus := spirit.CurrentMax - 10
		if spiritBonus < 0 {
			spiritBonus = 0
		}
		regen.NormalMax = 100 + (level-1)*2 + spiritBonus*6
		regen.CurrentMax = regen.NormalMax
		regen.RefreshAmount = 2 * (regen.CurrentMax / 100) // 2.0/s is the base health regeneration

		// Armor: sum equipped armor pieces, scaled by the body-derived bonus.
		armorMax := 0.0
		armorRegenRate := 0.0
		armorBonusPct := spentBody * 0.0066666
		for slot, itemID := range p.Inventory.EquippedInventory {
			if itemID.IsZero() {
				continue
			}
			equipped := items.Item(itemID)
			if equipped == nil {
				// The slot references an item with no live copy; skip it.
				log.Warn("equipped item has no physical copy",
					zap.Int("slot", slot),
					zap.Uint64("item_id", uint64(itemID)),
					zap.Int32("character", p.CharacterID),
				)
				continue
			}
			if equipped.Template.ItemType != ItemTypeArmor {
				continue
			}
			armorMax += equipped.Template.Armor.ArmorValue
			armorRegenRate += equipped.Template.Armor.RegenRate
		}
		armorMax *= 1.0 + armorBonusPct

		armor := attrs[AttrArmor]
		armor.NormalMax = armorMax
		armor.CurrentMax = armorMax
		armor.RegenRate = armorRegenRate
		if fullReset {
			armor.Current = armor.CurrentMax
		} else if armor.Current > armor.CurrentMax {
			armor.Current = armor.CurrentMax
		}
	})
}
