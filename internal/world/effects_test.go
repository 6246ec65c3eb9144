package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectListMostRecentFirst(t *testing.T) {
	var l EffectList
	first := &GameEffect{EffectID: 1, TypeID: EffectTypeSprint, Duration: 5000}
	second := &GameEffect{EffectID: 2, TypeID: EffectTypeSprint, Duration: 5000}
	l.Attach(first)
	l.Attach(second)

	require.Equal(t, 2, l.Len())
	assert.Same(t, second, l.Find(EffectTypeSprint), "newest instance governs")

	all := l.All()
	assert.Same(t, second, all[0])
	assert.Same(t, first, all[1])
}

func TestEffectListDetach(t *testing.T) {
	var l EffectList
	e := &GameEffect{EffectID: 1, TypeID: EffectTypeSprint, Duration: 5000}
	l.Attach(e)

	assert.True(t, l.Detach(e))
	assert.False(t, l.Detach(e), "second detach of the same effect must report absence")
	assert.Equal(t, 0, l.Len())
	assert.Nil(t, l.Find(EffectTypeSprint))
}

func TestEffectListTickExpiry(t *testing.T) {
	var l EffectList
	short := &GameEffect{EffectID: 1, TypeID: EffectTypeSprint, Duration: 1000}
	long := &GameEffect{EffectID: 2, TypeID: 300, Duration: 10000}
	l.Attach(short)
	l.Attach(long)

	var expired []int32
	l.Tick(1500, func(e *GameEffect) { expired = append(expired, e.EffectID) })

	assert.Equal(t, []int32{1}, expired)
	assert.Equal(t, 1, l.Len())
	assert.Same(t, long, l.Find(300))
	assert.EqualValues(t, 1500, long.Elapsed)
}

func TestEffectExpiresExactlyAtDuration(t *testing.T) {
	var l EffectList
	e := &GameEffect{EffectID: 1, TypeID: EffectTypeSprint, Duration: 1000}
	l.Attach(e)

	l.Tick(999, nil)
	require.Equal(t, 1, l.Len())

	var expired int
	l.Tick(1, func(*GameEffect) { expired++ })
	assert.Equal(t, 1, expired)
	assert.Equal(t, 0, l.Len())
}

func TestActorMovementMod(t *testing.T) {
	a := NewActor(1, 100)
	assert.InDelta(t, 1.0, a.MovementMod(), 1e-9)

	sprint := &GameEffect{EffectID: 1, TypeID: EffectTypeSprint, Level: 2, Duration: 5000}
	a.AttachEffect(sprint)
	assert.InDelta(t, 1.3, a.MovementMod(), 1e-9, "base 1.0 + 0.1 + 0.1 per level")

	// A newer sprint instance takes over.
	newer := &GameEffect{EffectID: 2, TypeID: EffectTypeSprint, Level: 1, Duration: 5000}
	a.AttachEffect(newer)
	assert.InDelta(t, 1.2, a.MovementMod(), 1e-9)

	a.DetachEffect(newer)
	assert.InDelta(t, 1.3, a.MovementMod(), 1e-9)

	a.DetachEffect(sprint)
	assert.InDelta(t, 1.0, a.MovementMod(), 1e-9)
}

func TestActorTickEffectsNotifiesExpiry(t *testing.T) {
	a := NewActor(1, 100)
	a.AttachEffect(&GameEffect{EffectID: 7, TypeID: EffectTypeSprint, Duration: 1000})

	var gone []*GameEffect
	a.TickEffects(2000, func(e *GameEffect) { gone = append(gone, e) })

	require.Len(t, gone, 1)
	assert.EqualValues(t, 7, gone[0].EffectID)
	assert.Equal(t, 0, a.EffectCount())
}
