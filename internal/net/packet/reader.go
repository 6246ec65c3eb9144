package packet

import (
	"encoding/binary"
	"math"

	"golang.org/x/text/encoding/unicode"
)

// Reader reads fields of one decoded method-call payload.
// Bytes 0..7 are the target entity id, bytes 8..9 the method id; the reader
// starts at the first argument byte.
type Reader struct {
	data []byte
	off  int
}

const headerLen = 10

func NewReader(data []byte) *Reader {
	return &Reader{data: data, off: headerLen}
}

// EntityID returns the addressed entity id.
func (r *Reader) EntityID() uint64 {
	if len(r.data) < 8 {
		return 0
	}
	return binary.LittleEndian.Uint64(r.data[0:8])
}

// MethodID returns the method selector.
func (r *Reader) MethodID() uint16 {
	if len(r.data) < headerLen {
		return 0
	}
	return binary.LittleEndian.Uint16(r.data[8:10])
}

// ReadC reads 1 unsigned byte.
func (r *Reader) ReadC() byte {
	if r.off >= len(r.data) {
		return 0
	}
	v := r.data[r.off]
	r.off++
	return v
}

// ReadB reads 1 byte as bool.
func (r *Reader) ReadB() bool {
	return r.ReadC() != 0
}

// ReadH reads 2 bytes as little-endian uint16.
func (r *Reader) ReadH() uint16 {
	if r.off+2 > len(r.data) {
		return 0
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v
}

// ReadD reads 4 bytes as little-endian int32.
func (r *Reader) ReadD() int32 {
	if r.off+4 > len(r.data) {
		return 0
	}
	v := int32(binary.LittleEndian.Uint32(r.data[r.off:]))
	r.off += 4
	return v
}

// ReadQ reads 8 bytes as little-endian uint64.
func (r *Reader) ReadQ() uint64 {
	if r.off+8 > len(r.data) {
		return 0
	}
	v := binary.LittleEndian.Uint64(r.data[r.off:])
	r.off += 8
	return v
}

// ReadF reads a little-endian float64.
func (r *Reader) ReadF() float64 {
	return math.Float64frombits(r.ReadQ())
}

// ReadS reads a length-prefixed UTF-16LE string and returns UTF-8.
func (r *Reader) ReadS() string {
	units := int(r.ReadH())
	n := units * 2
	if n == 0 || r.off+n > len(r.data) {
		return ""
	}
	raw := r.data[r.off : r.off+n]
	r.off += n
	decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(raw)
	if err != nil {
		return ""
	}
	return string(decoded)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}
