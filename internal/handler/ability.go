package handler

import (
	"github.com/novarift/server/internal/net"
	"github.com/novarift/server/internal/net/packet"
	"github.com/novarift/server/internal/world"
	"go.uber.org/zap"
)

// Ability action ids with server-side behavior.
const (
	actionSprint int32 = 401
)

// abilityFunc performs one ability action for an in-world player.
type abilityFunc func(sess *net.Session, pc *PlayerContext, level int32, target uint64, deps *Deps)

// abilityActions is the dispatch table for ability action ids. Ids without
// an entry are logged and ignored; most abilities resolve client-side and
// need no server hook.
var abilityActions = map[int32]abilityFunc{
	actionSprint: performSprint,
}

// HandleRequestPerformAbility routes an ability activation through the
// action table.
func HandleRequestPerformAbility(sess *net.Session, r *packet.Reader, deps *Deps) {
	actionID := r.ReadD()
	level := r.ReadD()
	target := r.ReadQ()

	pc := pctx(sess)
	if pc.Player == nil || pc.Channel == nil {
		return
	}

	fn, ok := abilityActions[actionID]
	if !ok {
		deps.Log.Debug("unhandled ability action",
			zap.Int32("action", actionID),
			zap.Int32("character", pc.Player.CharacterID),
		)
		return
	}
	fn(sess, pc, level, target, deps)
}

// performSprint attaches a timed sprint effect and announces the new
// movement modifier to everyone who can see the actor.
func performSprint(sess *net.Session, pc *PlayerContext, level int32, _ uint64, deps *Deps) {
	p := pc.Player
	ch := pc.Channel
	actor := p.Actor
	id := actor.EntityID

	if level < 1 {
		level = 1
	}

	effect := &world.GameEffect{
		EffectID: ch.NextEffectID(),
		TypeID:   world.EffectTypeSprint,
		Level:    level,
		Duration: deps.Config.World.SprintDuration.Milliseconds(),
	}
	actor.AttachEffect(effect)

	broadcastKnown(ch, id, packet.GameEffectAttached{
		EffectTypeID: effect.TypeID,
		EffectID:     effect.EffectID,
		EffectLevel:  effect.Level,
		SourceID:     uint64(id),
		Announced:    true,
		Duration:     int32(effect.Duration),
		IsActive:     true,
		IsBuff:       true,
	}, deps)
	broadcastKnown(ch, id, packet.MovementModChange{
		MovementMod: actor.MovementMod(),
	}, deps)
}
