package world

import (
	"errors"
	"testing"

	"github.com/novarift/server/internal/core/entity"
	"github.com/novarift/server/internal/data"
	"github.com/novarift/server/internal/net/packet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentCall struct {
	EntityID uint64
	MethodID uint16
}

// fakeSender records sends and can be forced to fail like a saturated queue.
type fakeSender struct {
	calls  []sentCall
	fail   bool
	closed bool
}

func (f *fakeSender) SendMethod(entityID uint64, m packet.Method) error {
	if f.closed {
		return errors.New("session closed")
	}
	if f.fail {
		f.closed = true
		return errors.New("send queue full")
	}
	f.calls = append(f.calls, sentCall{EntityID: entityID, MethodID: m.MethodID()})
	return nil
}

func (f *fakeSender) Close()         { f.closed = true }
func (f *fakeSender) IsClosed() bool { return f.closed }

func newTestChannel(t *testing.T) *MapChannel {
	t.Helper()
	return NewMapChannel(data.MapInfo{MapID: 1220, BaseRegionID: 1}, zap.NewNop())
}

func newTestClient(t *testing.T, id entity.ID) (*MapChannelClient, *fakeSender) {
	t.Helper()
	actor := NewActor(id, 100)
	sender := &fakeSender{}
	client := &MapChannelClient{
		Session: sender,
		Player:  NewPlayerData(int32(id.Index()), actor),
		Known:   map[entity.ID]struct{}{},
	}
	return client, sender
}

func TestAddRemoveClient(t *testing.T) {
	ch := newTestChannel(t)
	c1, _ := newTestClient(t, entity.NewID(1, 0))
	c2, _ := newTestClient(t, entity.NewID(2, 0))

	ch.AddClient(c1)
	ch.AddClient(c2)
	assert.Equal(t, 2, ch.ClientCount())

	assert.True(t, ch.RemoveClient(c1))
	assert.False(t, ch.RemoveClient(c1), "second removal must report absence")
	assert.Equal(t, 1, ch.ClientCount())
}

func TestFindClientByEntity(t *testing.T) {
	ch := newTestChannel(t)
	id := entity.NewID(7, 0)
	c, _ := newTestClient(t, id)
	ch.AddClient(c)

	assert.Same(t, c, ch.FindClient(id))
	assert.Nil(t, ch.FindClient(entity.NewID(8, 0)))
}

func TestNextEffectIDMonotonic(t *testing.T) {
	ch := newTestChannel(t)
	a := ch.NextEffectID()
	b := ch.NextEffectID()
	assert.Greater(t, b, a)
}

func TestBroadcastContinuesPastFailedSend(t *testing.T) {
	ch := newTestChannel(t)
	c1, s1 := newTestClient(t, entity.NewID(1, 0))
	c2, s2 := newTestClient(t, entity.NewID(2, 0))
	c3, s3 := newTestClient(t, entity.NewID(3, 0))
	s2.fail = true
	ch.AddClient(c1)
	ch.AddClient(c2)
	ch.AddClient(c3)

	err := ch.Broadcast(packet.SysEntityClient, packet.PreloadData{})
	require.Error(t, err, "failed send is reported to the broadcaster")

	assert.Len(t, s1.calls, 1)
	assert.Empty(t, s2.calls)
	assert.Len(t, s3.calls, 1, "later clients still receive after an earlier failure")
}

func TestBroadcastSkip(t *testing.T) {
	ch := newTestChannel(t)
	c1, s1 := newTestClient(t, entity.NewID(1, 0))
	c2, s2 := newTestClient(t, entity.NewID(2, 0))
	ch.AddClient(c1)
	ch.AddClient(c2)

	require.NoError(t, ch.Broadcast(packet.SysEntityClient, packet.PreloadData{}, c1))
	assert.Empty(t, s1.calls)
	assert.Len(t, s2.calls, 1)
}

func TestBroadcastKnownFiltersByIntroduction(t *testing.T) {
	ch := newTestChannel(t)
	target := entity.NewID(42, 0)
	c1, s1 := newTestClient(t, entity.NewID(1, 0))
	c2, s2 := newTestClient(t, entity.NewID(2, 0))
	c1.Known[target] = struct{}{}
	ch.AddClient(c1)
	ch.AddClient(c2)

	require.NoError(t, ch.BroadcastKnown(target, packet.IsRunning{Running: true}))
	require.Len(t, s1.calls, 1)
	assert.Equal(t, uint64(target), s1.calls[0].EntityID)
	assert.Empty(t, s2.calls, "clients never introduced to the entity hear nothing")
}

func TestCreatureRoster(t *testing.T) {
	ch := newTestChannel(t)
	id := entity.NewID(9, 0)
	cr := &Creature{
		CreatureType: &CreatureType{DbID: 1, ClassID: 200},
		Actor:        NewActor(id, 200),
	}
	ch.AddCreature(cr)

	assert.Same(t, cr, ch.Creature(id))
	assert.Len(t, ch.Creatures(), 1)

	removed := ch.RemoveCreature(id)
	assert.Same(t, cr, removed)
	assert.Nil(t, ch.Creature(id))
	assert.Nil(t, ch.RemoveCreature(id))
}

func TestChannelManagerUnknownMap(t *testing.T) {
	maps := data.NewMapTable([]data.MapInfo{{MapID: 1220, BaseRegionID: 1}})
	mgr := NewChannelManager(maps, zap.NewNop())

	ch := mgr.Get(1220)
	require.NotNil(t, ch)
	assert.Same(t, ch, mgr.Get(1220), "channels are created once per map")
	assert.Nil(t, mgr.Get(9999))
}
