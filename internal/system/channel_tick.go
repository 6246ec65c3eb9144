package system

import (
	"time"

	"github.com/novarift/server/internal/handler"
	"github.com/novarift/server/internal/net/packet"
	"github.com/novarift/server/internal/world"
	"go.uber.org/zap"
)

// ChannelTicker drives the periodic work of every live map channel: effect
// expiry, attribute regeneration and creature location announces. One
// goroutine serves all channels; per-actor locks keep it safe against
// concurrent request handlers.
type ChannelTicker struct {
	channels *world.ChannelManager
	deps     *handler.Deps
	rate     time.Duration
	stop     chan struct{}
	log      *zap.Logger
}

func NewChannelTicker(channels *world.ChannelManager, deps *handler.Deps, rate time.Duration, log *zap.Logger) *ChannelTicker {
	return &ChannelTicker{
		channels: channels,
		deps:     deps,
		rate:     rate,
		stop:     make(chan struct{}),
		log:      log,
	}
}

// Run blocks until Stop is called. Channels created after startup are picked
// up on their first tick.
func (t *ChannelTicker) Run() {
	ticker := time.NewTicker(t.rate)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			for _, ch := range t.channels.All() {
				t.tickChannel(ch, elapsed)
			}
		case <-t.stop:
			return
		}
	}
}

func (t *ChannelTicker) Stop() {
	close(t.stop)
}

func (t *ChannelTicker) tickChannel(ch *world.MapChannel, elapsed time.Duration) {
	elapsedMs := elapsed.Milliseconds()

	for _, client := range ch.Clients() {
		t.tickActor(ch, client.Player.Actor, elapsedMs)
	}
	for _, cr := range ch.Creatures() {
		t.tickActor(ch, cr.Actor, elapsedMs)
		t.announceCreatureLocation(ch, cr)
	}
}

// tickActor expires effects and applies one regeneration step on one actor.
func (t *ChannelTicker) tickActor(ch *world.MapChannel, actor *world.Actor, elapsedMs int64) {
	var expired []*world.GameEffect
	actor.TickEffects(elapsedMs, func(e *world.GameEffect) {
		expired = append(expired, e)
	})

	for _, e := range expired {
		if err := ch.BroadcastKnown(actor.EntityID, packet.GameEffectRemoved{
			EffectID: e.EffectID,
		}); err != nil {
			t.log.Warn("effect removal broadcast failed", zap.Error(err))
		}
		if e.TypeID == world.EffectTypeSprint {
			if err := ch.BroadcastKnown(actor.EntityID, packet.MovementModChange{
				MovementMod: actor.MovementMod(),
			}); err != nil {
				t.log.Warn("movement mod broadcast failed", zap.Error(err))
			}
		}
	}

	if actor.Regenerate(elapsedMs) {
		if err := ch.BroadcastKnown(actor.EntityID, packet.UpdateAttributes{
			Attributes: attrEntries(actor),
		}); err != nil {
			t.log.Warn("regen broadcast failed", zap.Error(err))
		}
	}
}

func (t *ChannelTicker) announceCreatureLocation(ch *world.MapChannel, cr *world.Creature) {
	a := cr.Actor
	if err := ch.BroadcastKnown(a.EntityID, packet.WorldLocationDescriptor{
		PosX: a.Position.X,
		PosY: a.Position.Y,
		PosZ: a.Position.Z,
		RotX: a.Rotation.X,
		RotY: a.Rotation.Y,
		RotZ: a.Rotation.Z,
		RotW: a.Rotation.W,
	}); err != nil {
		t.log.Warn("creature location broadcast failed", zap.Error(err))
	}
}

func attrEntries(a *world.Actor) []packet.AttributeEntry {
	snap := a.AttributeSnapshot()
	out := make([]packet.AttributeEntry, 0, len(snap))
	for _, rec := range snap {
		out = append(out, packet.AttributeEntry{
			Kind:          int32(rec.Kind),
			Current:       rec.Current,
			CurrentMax:    rec.CurrentMax,
			NormalMax:     rec.NormalMax,
			RegenRate:     rec.RegenRate,
			RefreshAmount: rec.RefreshAmount,
		})
	}
	return out
}
