package world

import (
	"errors"
	"sync"

	"github.com/novarift/server/internal/core/entity"
	"github.com/novarift/server/internal/data"
	"github.com/novarift/server/internal/net/packet"
	"go.uber.org/zap"
)

// Sender is the outbound half of a client connection, as seen from the
// world. Implemented by net.Session; tests substitute an in-memory fake.
type Sender interface {
	SendMethod(entityID uint64, m packet.Method) error
	Close()
	IsClosed() bool
}

// MapChannelClient is one connected player's presence on a map channel.
// Known tracks which entities this client has been told about; it is the
// source of truth for create/destroy dedup and is guarded by the channel
// mutex.
type MapChannelClient struct {
	Session Sender
	Player  *PlayerData
	Known   map[entity.ID]struct{}
}

// Knows reports whether the client has already been introduced to id.
// Callers must hold the channel mutex.
func (c *MapChannelClient) Knows(id entity.ID) bool {
	_, ok := c.Known[id]
	return ok
}

// MapChannel is one shared simulation space. All roster mutation and Known
// set bookkeeping happens under one coarse mutex; sends happen outside any
// per-session lock because Sender enqueues are non-blocking.
type MapChannel struct {
	mu sync.Mutex

	Info data.MapInfo

	clients   []*MapChannelClient
	creatures map[entity.ID]*Creature

	nextEffectID int32

	done chan struct{}
	log  *zap.Logger
}

func NewMapChannel(info data.MapInfo, log *zap.Logger) *MapChannel {
	return &MapChannel{
		Info:      info,
		creatures: make(map[entity.ID]*Creature),
		done:      make(chan struct{}),
		log:       log.With(zap.Uint32("map", info.MapID)),
	}
}

// AddClient joins a player to the channel roster.
func (ch *MapChannel) AddClient(c *MapChannelClient) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if c.Known == nil {
		c.Known = make(map[entity.ID]struct{})
	}
	ch.clients = append(ch.clients, c)
}

// RemoveClient drops a player from the roster. Returns false if the client
// was not on this channel.
func (ch *MapChannel) RemoveClient(c *MapChannelClient) bool {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	for i, other := range ch.clients {
		if other == c {
			ch.clients = append(ch.clients[:i], ch.clients[i+1:]...)
			return true
		}
	}
	return false
}

// Clients returns a snapshot of the roster. The snapshot is safe to iterate
// while other goroutines mutate the channel.
func (ch *MapChannel) Clients() []*MapChannelClient {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	out := make([]*MapChannelClient, len(ch.clients))
	copy(out, ch.clients)
	return out
}

// ClientCount returns the roster size.
func (ch *MapChannel) ClientCount() int {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return len(ch.clients)
}

// FindClient returns the roster entry controlling the given entity, or nil.
func (ch *MapChannel) FindClient(id entity.ID) *MapChannelClient {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	for _, c := range ch.clients {
		if c.Player != nil && c.Player.Actor.EntityID == id {
			return c
		}
	}
	return nil
}

// AddCreature registers a spawned creature on the channel.
func (ch *MapChannel) AddCreature(cr *Creature) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.creatures[cr.Actor.EntityID] = cr
}

// RemoveCreature unregisters a creature. Returns the creature or nil.
func (ch *MapChannel) RemoveCreature(id entity.ID) *Creature {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	cr := ch.creatures[id]
	delete(ch.creatures, id)
	return cr
}

// Creature looks up one creature by entity id.
func (ch *MapChannel) Creature(id entity.ID) *Creature {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.creatures[id]
}

// Creatures returns a snapshot of the spawned creatures.
func (ch *MapChannel) Creatures() []*Creature {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	out := make([]*Creature, 0, len(ch.creatures))
	for _, cr := range ch.creatures {
		out = append(out, cr)
	}
	return out
}

// NextEffectID hands out channel-unique game effect instance ids.
func (ch *MapChannel) NextEffectID() int32 {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.nextEffectID++
	return ch.nextEffectID
}

// WithKnown runs fn with the channel mutex held, for callers that need to
// read and update Known sets atomically with the roster.
func (ch *MapChannel) WithKnown(fn func(clients []*MapChannelClient)) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	fn(ch.clients)
}

// Broadcast sends one call to every client on the channel except those in
// skip. A failed send closes that one session and is collected; the
// broadcast continues to the remaining clients.
func (ch *MapChannel) Broadcast(entityID uint64, m packet.Method, skip ...*MapChannelClient) error {
	var errs []error
	for _, c := range ch.Clients() {
		if contains(skip, c) {
			continue
		}
		if err := c.Session.SendMethod(entityID, m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BroadcastKnown sends one call about entity id to every client that has
// been introduced to it.
func (ch *MapChannel) BroadcastKnown(id entity.ID, m packet.Method, skip ...*MapChannelClient) error {
	var targets []*MapChannelClient
	ch.mu.Lock()
	for _, c := range ch.clients {
		if contains(skip, c) {
			continue
		}
		if c.Knows(id) {
			targets = append(targets, c)
		}
	}
	ch.mu.Unlock()

	var errs []error
	for _, c := range targets {
		if err := c.Session.SendMethod(uint64(id), m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Done closes when the channel is shut down; tickers select on it.
func (ch *MapChannel) Done() <-chan struct{} {
	return ch.done
}

// Shutdown stops the channel's tickers.
func (ch *MapChannel) Shutdown() {
	select {
	case <-ch.done:
	default:
		close(ch.done)
	}
}

func contains(list []*MapChannelClient, c *MapChannelClient) bool {
	for _, other := range list {
		if other == c {
			return true
		}
	}
	return false
}

// ChannelManager owns the live map channels, keyed by map context id.
type ChannelManager struct {
	mu       sync.Mutex
	channels map[uint32]*MapChannel
	maps     *data.MapTable
	log      *zap.Logger
}

func NewChannelManager(maps *data.MapTable, log *zap.Logger) *ChannelManager {
	return &ChannelManager{
		channels: make(map[uint32]*MapChannel),
		maps:     maps,
		log:      log,
	}
}

// Get returns the channel for mapID, creating it on first use. Returns nil
// for a map id absent from the map table.
func (m *ChannelManager) Get(mapID uint32) *MapChannel {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ch, ok := m.channels[mapID]; ok {
		return ch
	}
	info, ok := m.maps.Get(mapID)
	if !ok {
		m.log.Warn("unknown map id requested", zap.Uint32("map", mapID))
		return nil
	}
	ch := NewMapChannel(info, m.log)
	m.channels[mapID] = ch
	return ch
}

// All returns a snapshot of the live channels.
func (m *ChannelManager) All() []*MapChannel {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*MapChannel, 0, len(m.channels))
	for _, ch := range m.channels {
		out = append(out, ch)
	}
	return out
}

// ShutdownAll stops every live channel.
func (m *ChannelManager) ShutdownAll() {
	for _, ch := range m.All() {
		ch.Shutdown()
	}
}
