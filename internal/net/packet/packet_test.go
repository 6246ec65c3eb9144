package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWriterReaderRoundtrip(t *testing.T) {
	w := NewWriter()
	w.WriteQ(42) // entity id slot
	w.WriteH(SvCharacterName)
	w.WriteC(7)
	w.WriteB(true)
	w.WriteB(false)
	w.WriteH(0xBEEF)
	w.WriteD(-123456)
	w.WriteQ(0xDEADBEEFCAFE)
	w.WriteF(3.25)
	w.WriteS("Garriott")
	w.WriteS("")
	w.WriteS("ライザ") // non-ASCII survives the UTF-16 hop

	r := NewReader(w.Bytes())
	assert.EqualValues(t, 42, r.EntityID())
	assert.Equal(t, SvCharacterName, r.MethodID())
	assert.EqualValues(t, 7, r.ReadC())
	assert.True(t, r.ReadB())
	assert.False(t, r.ReadB())
	assert.EqualValues(t, 0xBEEF, r.ReadH())
	assert.EqualValues(t, -123456, r.ReadD())
	assert.EqualValues(t, 0xDEADBEEFCAFE, r.ReadQ())
	assert.InDelta(t, 3.25, r.ReadF(), 1e-12)
	assert.Equal(t, "Garriott", r.ReadS())
	assert.Equal(t, "", r.ReadS())
	assert.Equal(t, "ライザ", r.ReadS())
	assert.Equal(t, 0, r.Remaining())
}

func TestReaderTruncatedPayload(t *testing.T) {
	w := NewWriter()
	w.WriteQ(1)
	w.WriteH(SvLevel)
	w.WriteH(5) // claims a 5-unit string with no body

	r := NewReader(w.Bytes())
	assert.Equal(t, "", r.ReadS())
	assert.EqualValues(t, 0, r.ReadD(), "reads past the end yield zero values")
}

func TestMarshalHeader(t *testing.T) {
	data := Marshal(99, Level{Level: 12})
	require.GreaterOrEqual(t, len(data), headerLen)
	assert.Equal(t, SvLevel, PeekMethodID(data))

	r := NewReader(data)
	assert.EqualValues(t, 99, r.EntityID())
	assert.EqualValues(t, 12, r.ReadD())
}

func TestPeekMethodIDShortInput(t *testing.T) {
	assert.EqualValues(t, 0, PeekMethodID([]byte{1, 2, 3}))
}

func dispatchPayload(methodID uint16) []byte {
	w := NewWriter()
	w.WriteQ(0)
	w.WriteH(methodID)
	return w.Bytes()
}

func TestDispatchUnknownMethodIgnored(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	err := reg.Dispatch(nil, StateInWorld, dispatchPayload(0x7777))
	assert.NoError(t, err, "unknown methods are dropped, not fatal")
}

func TestDispatchShortPayload(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	err := reg.Dispatch(nil, StateInWorld, []byte{1, 2, 3})
	assert.Error(t, err)
}

func TestDispatchStateGate(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	var calls int
	reg.Register(ClLogin, []SessionState{StateLogin}, func(any, *Reader) {
		calls++
	})

	require.NoError(t, reg.Dispatch(nil, StateLogin, dispatchPayload(ClLogin)))
	assert.Equal(t, 1, calls)

	err := reg.Dispatch(nil, StateInWorld, dispatchPayload(ClLogin))
	assert.Error(t, err, "login method must be rejected once in world")
	assert.Equal(t, 1, calls)
}

func TestDispatchRecoversHandlerPanic(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	reg.Register(ClKeepAlive, []SessionState{StateInWorld}, func(any, *Reader) {
		panic("bad payload")
	})

	err := reg.Dispatch(nil, StateInWorld, dispatchPayload(ClKeepAlive))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic")
}
