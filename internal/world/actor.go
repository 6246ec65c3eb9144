package world

import (
	"sync"

	"github.com/novarift/server/internal/core/entity"
)

// AttrKind identifies one of the ten actor attribute records.
type AttrKind int

const (
	AttrBody AttrKind = iota + 1
	AttrMind
	AttrSpirit
	AttrHealth
	AttrChi
	AttrPower
	AttrAware
	AttrArmor
	AttrSpeed
	AttrRegen
)

// AttrKinds lists every attribute kind in wire order.
var AttrKinds = []AttrKind{
	AttrBody, AttrMind, AttrSpirit, AttrHealth, AttrChi,
	AttrPower, AttrAware, AttrArmor, AttrSpeed, AttrRegen,
}

// Attribute is one actor attribute record.
// Invariants: 0 <= Current <= CurrentMax; CurrentMax = NormalMax + external bonus.
type Attribute struct {
	Kind          AttrKind
	Current       float64
	CurrentMax    float64
	NormalMax     float64
	RegenRate     float64
	RefreshAmount float64
}

// Clamp pulls Current back inside [0, CurrentMax].
func (a *Attribute) Clamp() {
	if a.Current > a.CurrentMax {
		a.Current = a.CurrentMax
	}
	if a.Current < 0 {
		a.Current = 0
	}
}

type Position struct {
	X, Y, Z float64
}

// Rotation is a unit quaternion. The zero value is not valid; use IdentityRotation.
type Rotation struct {
	X, Y, Z, W float64
}

func IdentityRotation() Rotation { return Rotation{W: 1.0} }

// Actor is the simulated body shared by players and creatures: position,
// attribute records and the active-effect list. The actor mutex serializes
// attribute and effect mutation against the channel tick; entity lifecycle
// is owned by whoever created the actor.
type Actor struct {
	mu sync.Mutex

	EntityID      entity.ID
	EntityClassID int32
	Name          string
	FamilyName    string
	Position      Position
	Rotation      Rotation
	IsRunning     bool
	InCombatMode  bool

	attributes map[AttrKind]*Attribute
	effects    EffectList
}

func NewActor(id entity.ID, classID int32) *Actor {
	a := &Actor{
		EntityID:      id,
		EntityClassID: classID,
		Rotation:      IdentityRotation(),
		attributes:    make(map[AttrKind]*Attribute, len(AttrKinds)),
	}
	for _, kind := range AttrKinds {
		a.attributes[kind] = &Attribute{Kind: kind}
	}
	return a
}

// Attr returns the record for a kind. All ten kinds exist from construction.
func (a *Actor) Attr(kind AttrKind) *Attribute {
	return a.attributes[kind]
}

// WithAttributes runs fn with the actor lock held. Use for any read-modify
// of attribute records that must not race the channel tick.
func (a *Actor) WithAttributes(fn func(map[AttrKind]*Attribute)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(a.attributes)
}

// AttributeSnapshot copies all attribute records under the actor lock.
func (a *Actor) AttributeSnapshot() []Attribute {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Attribute, 0, len(AttrKinds))
	for _, kind := range AttrKinds {
		out = append(out, *a.attributes[kind])
	}
	return out
}

// AttachEffect prepends an effect to the active list (most recent first).
func (a *Actor) AttachEffect(e *GameEffect) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.effects.Attach(e)
}

// DetachEffect removes an effect by reference. Reports whether it was attached.
func (a *Actor) DetachEffect(e *GameEffect) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.effects.Detach(e)
}

// FindEffect returns the most recently attached effect of the given type,
// or nil. When several instances of a type coexist, the newest one governs.
func (a *Actor) FindEffect(typeID int32) *GameEffect {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.effects.Find(typeID)
}

// TickEffects advances every effect's elapsed time and removes expired ones,
// invoking onExpire per removed effect. The actor lock is held for the whole
// pass so attach/detach from request handlers cannot interleave.
func (a *Actor) TickEffects(elapsedMs int64, onExpire func(*GameEffect)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.effects.Tick(elapsedMs, onExpire)
}

// EffectCount returns the number of active effects.
func (a *Actor) EffectCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.effects.Len()
}

// Effects returns a copy of the active list, most recently attached first.
func (a *Actor) Effects() []*GameEffect {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.effects.All()
}

// Regenerate applies one regeneration step across the attribute records.
// Each record with a positive RegenRate recovers that many points per
// second; health additionally recovers the regen record's RefreshAmount per
// second. Reports whether any Current value actually moved.
func (a *Actor) Regenerate(elapsedMs int64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	seconds := float64(elapsedMs) / 1000.0
	if seconds <= 0 {
		return false
	}

	changed := false
	step := func(rec *Attribute, perSecond float64) {
		if perSecond <= 0 || rec.Current >= rec.CurrentMax {
			return
		}
		rec.Current += perSecond * seconds
		rec.Clamp()
		changed = true
	}
	for _, rec := range a.attributes {
		step(rec, rec.RegenRate)
	}
	step(a.attributes[AttrHealth], a.attributes[AttrRegen].RefreshAmount)
	return changed
}

// MovementMod derives the movement speed modifier from active effects.
// Base is 1.0; an active sprint adds 0.10 plus 0.10 per effect level,
// taken from the most recently attached sprint instance only.
func (a *Actor) MovementMod() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	mod := 1.0
	if sprint := a.effects.Find(EffectTypeSprint); sprint != nil {
		mod += 0.10
		mod += float64(sprint.Level) * 0.10
	}
	return mod
}
