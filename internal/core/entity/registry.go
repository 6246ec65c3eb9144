package entity

import "sync"

// ID encodes a 32-bit index in the lower bits and a 32-bit generation in the
// upper bits. The generation increments on Free, so a stale ID held by a
// caller can never resolve to a newer occupant of the same slot.
type ID uint64

func NewID(index uint32, generation uint32) ID {
	return ID(uint64(generation)<<32 | uint64(index))
}

func (id ID) Index() uint32      { return uint32(id) }
func (id ID) Generation() uint32 { return uint32(id >> 32) }
func (id ID) IsZero() bool       { return id == 0 }

// Kind classifies the live object bound to an ID.
type Kind int

const (
	KindNone Kind = iota
	KindPlayer
	KindCreature
	KindItem
)

// Entity is any live simulated object addressable by ID.
type Entity interface {
	EntityKind() Kind
}

type slot struct {
	generation uint32
	entity     Entity
}

// Registry allocates entity IDs and resolves them to live objects. It is
// shared process-wide and consulted from concurrent request handlers, so all
// operations take the registry lock.
type Registry struct {
	mu       sync.Mutex
	slots    []slot
	freeList []uint32
}

func NewRegistry() *Registry {
	return &Registry{
		slots:    make([]slot, 1, 1024), // index 0 reserved so ID zero is never live
		freeList: make([]uint32, 0, 256),
	}
}

// Allocate returns an ID no live entity shares. Freed indices are reused with
// a bumped generation.
func (r *Registry) Allocate() ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n := len(r.freeList); n > 0 {
		idx := r.freeList[n-1]
		r.freeList = r.freeList[:n-1]
		return NewID(idx, r.slots[idx].generation)
	}
	idx := uint32(len(r.slots))
	r.slots = append(r.slots, slot{})
	return NewID(idx, 0)
}

// Bind attaches the live object for an allocated ID. Binding an ID that was
// never allocated, or was already freed, is ignored.
func (r *Registry) Bind(id ID, e Entity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := id.Index()
	if int(idx) >= len(r.slots) || r.slots[idx].generation != id.Generation() {
		return
	}
	r.slots[idx].entity = e
}

// Free releases an ID for reuse and drops its bound object. Stale or unknown
// IDs are ignored.
func (r *Registry) Free(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := id.Index()
	if idx == 0 || int(idx) >= len(r.slots) || r.slots[idx].generation != id.Generation() {
		return
	}
	r.slots[idx].generation++
	r.slots[idx].entity = nil
	r.freeList = append(r.freeList, idx)
}

// Lookup resolves an ID to its live object. Unknown, freed or unbound IDs
// yield (nil, false).
func (r *Registry) Lookup(id ID) (Entity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := id.Index()
	if int(idx) >= len(r.slots) || r.slots[idx].generation != id.Generation() {
		return nil, false
	}
	e := r.slots[idx].entity
	if e == nil {
		return nil, false
	}
	return e, true
}

// Alive reports whether the ID refers to a currently allocated slot.
func (r *Registry) Alive(id ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := id.Index()
	return int(idx) < len(r.slots) && r.slots[idx].generation == id.Generation() && idx != 0
}
