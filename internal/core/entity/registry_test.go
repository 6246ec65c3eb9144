package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEntity struct{ kind Kind }

func (f fakeEntity) EntityKind() Kind { return f.kind }

func TestAllocateNeverReturnsZero(t *testing.T) {
	reg := NewRegistry()
	for i := 0; i < 100; i++ {
		id := reg.Allocate()
		require.False(t, id.IsZero())
	}
}

func TestBindAndLookup(t *testing.T) {
	reg := NewRegistry()
	id := reg.Allocate()

	e := fakeEntity{kind: KindPlayer}
	reg.Bind(id, e)

	got, ok := reg.Lookup(id)
	require.True(t, ok)
	assert.Equal(t, KindPlayer, got.EntityKind())
}

func TestLookupUnboundID(t *testing.T) {
	reg := NewRegistry()
	id := reg.Allocate()

	_, ok := reg.Lookup(id)
	assert.False(t, ok, "allocated but unbound id must not resolve")
}

func TestFreedIDNeverResolves(t *testing.T) {
	reg := NewRegistry()
	id := reg.Allocate()
	reg.Bind(id, fakeEntity{kind: KindCreature})
	reg.Free(id)

	_, ok := reg.Lookup(id)
	assert.False(t, ok)
	assert.False(t, reg.Alive(id))

	// The slot is reused with a new generation; the stale id must still miss.
	id2 := reg.Allocate()
	reg.Bind(id2, fakeEntity{kind: KindItem})
	assert.Equal(t, id.Index(), id2.Index(), "freed slot should be reused")
	assert.NotEqual(t, id, id2)

	_, ok = reg.Lookup(id)
	assert.False(t, ok, "stale generation must not resolve to the new occupant")

	got, ok := reg.Lookup(id2)
	require.True(t, ok)
	assert.Equal(t, KindItem, got.EntityKind())
}

func TestDoubleFreeIsIgnored(t *testing.T) {
	reg := NewRegistry()
	id := reg.Allocate()
	reg.Free(id)
	reg.Free(id)

	a := reg.Allocate()
	b := reg.Allocate()
	assert.NotEqual(t, a, b, "double free must not hand the same slot out twice")
}

func TestAliveTracksLifecycle(t *testing.T) {
	reg := NewRegistry()
	id := reg.Allocate()
	assert.True(t, reg.Alive(id))
	reg.Free(id)
	assert.False(t, reg.Alive(id))
}
