package handler

import (
	"errors"
	"fmt"

	"github.com/novarift/server/internal/data"
	"github.com/novarift/server/internal/net"
	"github.com/novarift/server/internal/net/packet"
	"github.com/novarift/server/internal/persist"
	"github.com/novarift/server/internal/world"
	"go.uber.org/zap"
)

// Skill leveling rejection causes.
var (
	ErrInvalidSkill       = errors.New("unknown skill id")
	ErrSkillRegression    = errors.New("requested level below current level")
	ErrSkillCapExceeded   = errors.New("requested level above cap")
	ErrInsufficientPoints = errors.New("not enough skill points")
)

const maxSkillLevel = 5

type skillRequest struct {
	SkillID  int32
	NewLevel int32
}

// HandleLevelSkills applies a batch of requested skill levels. The whole
// batch is validated first; any rejection leaves the player untouched and
// resyncs the client.
func HandleLevelSkills(sess *net.Session, r *packet.Reader, deps *Deps) {
	count := int(r.ReadH())
	reqs := make([]skillRequest, 0, count)
	for i := 0; i < count; i++ {
		reqs = append(reqs, skillRequest{
			SkillID:  r.ReadD(),
			NewLevel: r.ReadD(),
		})
	}

	pc := pctx(sess)
	p := pc.Player

	if err := validateSkillRequests(p, reqs); err != nil {
		deps.Log.Warn("skill leveling rejected",
			zap.Int32("character", p.CharacterID),
			zap.Error(err),
		)
		resyncSkills(sess, p)
		return
	}

	ctx, cancel := dbCtx()
	defer cancel()

	for _, req := range reqs {
		idx := data.SkillIndexOf(req.SkillID)
		entry, ok := p.Skills[req.SkillID]
		if !ok {
			entry = &world.SkillEntry{SkillID: req.SkillID, SkillIndex: idx}
			p.Skills[req.SkillID] = entry
		}
		if entry.SkillLevel == req.NewLevel {
			continue
		}
		entry.SkillLevel = req.NewLevel

		err := deps.CharRepo.UpsertSkill(ctx, uint32(p.CharacterID), persist.CharacterSkillRow{
			SkillID:    req.SkillID,
			AbilityID:  data.AbilityForIndex(idx),
			SkillLevel: req.NewLevel,
		})
		if err != nil {
			deps.Log.Error("skill save failed",
				zap.Int32("character", p.CharacterID),
				zap.Int32("skill", req.SkillID),
				zap.Error(err),
			)
		}
	}

	resyncSkills(sess, p)
	sess.SendMethod(uint64(p.Actor.EntityID), packet.Abilities{Abilities: abilityLines(p)})
}

// validateSkillRequests checks the whole batch against the player's current
// skills and point budget without mutating anything.
func validateSkillRequests(p *world.PlayerData, reqs []skillRequest) error {
	var totalCost int32
	for _, req := range reqs {
		idx := data.SkillIndexOf(req.SkillID)
		if idx < 0 {
			return fmt.Errorf("%w: %d", ErrInvalidSkill, req.SkillID)
		}
		if req.NewLevel > maxSkillLevel {
			return fmt.Errorf("%w: skill %d to level %d", ErrSkillCapExceeded, req.SkillID, req.NewLevel)
		}
		var current int32
		if entry, ok := p.Skills[req.SkillID]; ok {
			current = entry.SkillLevel
		}
		if req.NewLevel < current {
			return fmt.Errorf("%w: skill %d %d -> %d", ErrSkillRegression, req.SkillID, current, req.NewLevel)
		}
		totalCost += world.SkillLevelCost(req.NewLevel) - world.SkillLevelCost(current)
	}
	if totalCost > world.AvailableSkillPoints(p) {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientPoints,
			totalCost, world.AvailableSkillPoints(p))
	}
	return nil
}

func resyncSkills(sess *net.Session, p *world.PlayerData) {
	id := uint64(p.Actor.EntityID)
	sess.SendMethod(id, packet.Skills{Skills: skillLines(p)})
	sess.SendMethod(id, packet.AvailableAllocationPoints{
		AttributePoints: world.AvailableAttributePoints(p),
		TrainPoints:     0,
		SkillPoints:     world.AvailableSkillPoints(p),
	})
}
