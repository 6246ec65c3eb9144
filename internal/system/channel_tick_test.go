package system

import (
	"testing"

	"github.com/novarift/server/internal/core/entity"
	"github.com/novarift/server/internal/data"
	"github.com/novarift/server/internal/net/packet"
	"github.com/novarift/server/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// tickSender records outbound method ids so a test can count broadcasts.
type tickSender struct {
	methods []uint16
}

func (s *tickSender) SendMethod(entityID uint64, m packet.Method) error {
	s.methods = append(s.methods, m.MethodID())
	return nil
}
func (s *tickSender) Close()         {}
func (s *tickSender) IsClosed() bool { return false }

func (s *tickSender) count(methodID uint16) int {
	n := 0
	for _, id := range s.methods {
		if id == methodID {
			n++
		}
	}
	return n
}

func newTickFixture(t *testing.T) (*ChannelTicker, *world.MapChannel, *world.PlayerData, *tickSender) {
	t.Helper()
	reg := entity.NewRegistry()
	id := reg.Allocate()
	actor := world.NewActor(id, 100)
	p := world.NewPlayerData(1, actor)
	reg.Bind(id, p)
	world.RecomputeStats(p, world.RegistryItems(reg), zap.NewNop(), true)

	ch := world.NewMapChannel(data.MapInfo{MapID: 1220}, zap.NewNop())
	sender := &tickSender{}
	ch.AddClient(&world.MapChannelClient{
		Session: sender,
		Player:  p,
		Known:   map[entity.ID]struct{}{id: {}},
	})

	ticker := &ChannelTicker{log: zap.NewNop()}
	return ticker, ch, p, sender
}

func TestTickActorRegeneratesDamagedHealth(t *testing.T) {
	ticker, ch, p, sender := newTickFixture(t)

	health := p.Actor.Attr(world.AttrHealth)
	health.Current = 40

	// Base regeneration is 2.0/s; ten 1.5 s ticks restore 30 points.
	for i := 0; i < 10; i++ {
		ticker.tickActor(ch, p.Actor, 1500)
	}
	assert.InDelta(t, 70, health.Current, 1e-9)
	assert.Equal(t, 10, sender.count(packet.SvUpdateAttributes))
}

func TestTickActorRegeneratesArmorAtItsRate(t *testing.T) {
	ticker, ch, p, sender := newTickFixture(t)

	armor := p.Actor.Attr(world.AttrArmor)
	armor.CurrentMax = 50
	armor.NormalMax = 50
	armor.RegenRate = 1.5
	armor.Current = 10

	for i := 0; i < 5; i++ {
		ticker.tickActor(ch, p.Actor, 1500)
	}
	// 1.5/s over five 1.5 s ticks.
	assert.InDelta(t, 10+1.5*1.5*5, armor.Current, 1e-9)
	assert.Equal(t, 5, sender.count(packet.SvUpdateAttributes))

	// Once the pool is full the tick stops broadcasting.
	armor.Current = armor.CurrentMax
	ticker.tickActor(ch, p.Actor, 1500)
	assert.Equal(t, 5, sender.count(packet.SvUpdateAttributes))
}

func TestTickActorFullPoolsStayQuiet(t *testing.T) {
	ticker, ch, p, sender := newTickFixture(t)
	require.NotNil(t, p.Actor)

	for i := 0; i < 5; i++ {
		ticker.tickActor(ch, p.Actor, 1500)
	}
	assert.Zero(t, sender.count(packet.SvUpdateAttributes))
}
