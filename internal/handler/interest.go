package handler

import (
	"github.com/novarift/server/internal/core/entity"
	"github.com/novarift/server/internal/net/packet"
	"github.com/novarift/server/internal/world"
	"go.uber.org/zap"
)

// Interest management. Known sets are updated under the channel mutex, but
// all sends happen outside it: a failing send closes the session, and the
// close callback re-enters the channel to remove the roster entry.

// IntroduceClientToPeers shows a newly arrived player to every other client
// on the channel that does not know them yet.
func IntroduceClientToPeers(ch *world.MapChannel, client *world.MapChannelClient, deps *Deps) {
	me := client.Player.Actor.EntityID

	var targets []*world.MapChannelClient
	ch.WithKnown(func(clients []*world.MapChannelClient) {
		for _, other := range clients {
			if other == client || other.Knows(me) {
				continue
			}
			other.Known[me] = struct{}{}
			targets = append(targets, other)
		}
	})

	for _, other := range targets {
		describePlayer(other.Session, client.Player, true)
	}
}

// IntroducePeersToClient shows every already-present player to the arriving
// client.
func IntroducePeersToClient(ch *world.MapChannel, client *world.MapChannelClient, deps *Deps) {
	var peers []*world.PlayerData
	ch.WithKnown(func(clients []*world.MapChannelClient) {
		for _, other := range clients {
			if other == client {
				continue
			}
			id := other.Player.Actor.EntityID
			if client.Knows(id) {
				continue
			}
			client.Known[id] = struct{}{}
			peers = append(peers, other.Player)
		}
	})

	for _, p := range peers {
		describePlayer(client.Session, p, false)
	}
}

// IntroduceCreaturesToClient shows every spawned creature to the arriving
// client.
func IntroduceCreaturesToClient(ch *world.MapChannel, client *world.MapChannelClient, deps *Deps) {
	spawned := ch.Creatures()
	var creatures []*world.Creature
	ch.WithKnown(func([]*world.MapChannelClient) {
		for _, cr := range spawned {
			id := cr.Actor.EntityID
			if client.Knows(id) {
				continue
			}
			client.Known[id] = struct{}{}
			creatures = append(creatures, cr)
		}
	})

	for _, cr := range creatures {
		describeCreature(client.Session, client.Player, cr, deps)
	}
}

// IntroduceCreatureToClients shows one freshly spawned creature to every
// client on the channel.
func IntroduceCreatureToClients(ch *world.MapChannel, cr *world.Creature, deps *Deps) {
	id := cr.Actor.EntityID

	var targets []*world.MapChannelClient
	ch.WithKnown(func(clients []*world.MapChannelClient) {
		for _, c := range clients {
			if c.Knows(id) {
				continue
			}
			c.Known[id] = struct{}{}
			targets = append(targets, c)
		}
	})

	for _, c := range targets {
		describeCreature(c.Session, c.Player, cr, deps)
	}
}

// RemoveCreatureFromClients destroys one despawned creature on every client
// that knows it, then frees its entity id.
func RemoveCreatureFromClients(ch *world.MapChannel, cr *world.Creature, deps *Deps) {
	id := cr.Actor.EntityID

	var targets []*world.MapChannelClient
	ch.WithKnown(func(clients []*world.MapChannelClient) {
		for _, c := range clients {
			if !c.Knows(id) {
				continue
			}
			delete(c.Known, id)
			targets = append(targets, c)
		}
	})

	for _, c := range targets {
		c.Session.SendMethod(packet.SysEntityClient, packet.DestroyPhysicalEntity{
			EntityID: uint64(id),
		})
	}

	deps.Registry.Free(id)
}

// DiscardClientFromChannel removes a departing player from the channel:
// roster removal, destroy on every peer that knows them, then entity id
// release. The id is freed only after every destroy has been enqueued so no
// concurrent introduction can reuse it mid-teardown.
func DiscardClientFromChannel(ch *world.MapChannel, client *world.MapChannelClient, deps *Deps) {
	if !ch.RemoveClient(client) {
		return
	}
	me := client.Player.Actor.EntityID

	var targets []*world.MapChannelClient
	ch.WithKnown(func(clients []*world.MapChannelClient) {
		for _, other := range clients {
			if !other.Knows(me) {
				continue
			}
			delete(other.Known, me)
			targets = append(targets, other)
		}
	})

	for _, other := range targets {
		other.Session.SendMethod(packet.SysEntityClient, packet.DestroyPhysicalEntity{
			EntityID: uint64(me),
		})
	}

	deps.Registry.Free(me)

	deps.Log.Info("player left channel",
		zap.Uint32("map", ch.Info.MapID),
		zap.Uint64("entity", uint64(me)),
	)
}

func savePlayerPosition(p *world.PlayerData, ch *world.MapChannel, deps *Deps) {
	ctx, cancel := dbCtx()
	defer cancel()
	pos := p.Actor.Position
	err := deps.CharRepo.SavePosition(ctx, uint32(p.CharacterID), ch.Info.MapID,
		pos.X, pos.Y, pos.Z, 0)
	if err != nil {
		deps.Log.Warn("position save failed",
			zap.Int32("character", p.CharacterID), zap.Error(err))
	}
}

// broadcastKnown wraps MapChannel.BroadcastKnown with failure logging; a
// partially failed broadcast is reported, never propagated to the caller's
// client.
func broadcastKnown(ch *world.MapChannel, id entity.ID, m packet.Method, deps *Deps, skip ...*world.MapChannelClient) {
	if err := ch.BroadcastKnown(id, m, skip...); err != nil {
		deps.Log.Warn("broadcast partially failed",
			zap.Uint32("map", ch.Info.MapID),
			zap.Uint16("method", m.MethodID()),
			zap.Error(err),
		)
	}
}
