package world

// Known effect type ids.
const (
	EffectTypeSprint int32 = 247
)

// GameEffect is one timed modifier on an actor. Effect ids are assigned
// monotonically per map channel; type ids select the effect class and
// animation; level is the sub-id for multi-level effects.
type GameEffect struct {
	EffectID int32
	TypeID   int32
	Level    int32
	Duration int64 // ms
	Elapsed  int64 // ms
}

// EffectList is the active-effect collection of a single actor, ordered most
// recently attached first. It replaces an intrusive doubly linked chain with
// an owned slice: attach is an O(1) amortized prepend, detach removes by
// reference, and first-match lookups keep the most-recently-attached-wins
// semantics. The owning actor's lock guards all access.
type EffectList struct {
	effects []*GameEffect
}

// Attach inserts at the head. Duplicate type ids are permitted; callers that
// want replace-semantics must detach the old instance first.
func (l *EffectList) Attach(e *GameEffect) {
	l.effects = append(l.effects, nil)
	copy(l.effects[1:], l.effects)
	l.effects[0] = e
}

// Detach removes the given effect by identity, keeping order. Reports whether
// the effect was present.
func (l *EffectList) Detach(e *GameEffect) bool {
	for i, cur := range l.effects {
		if cur == e {
			l.effects = append(l.effects[:i], l.effects[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns the first (most recently attached) effect with the type id.
func (l *EffectList) Find(typeID int32) *GameEffect {
	for _, e := range l.effects {
		if e.TypeID == typeID {
			return e
		}
	}
	return nil
}

// Tick advances elapsed time on every effect and removes those whose elapsed
// time reached their duration, calling onExpire for each removed effect.
func (l *EffectList) Tick(elapsedMs int64, onExpire func(*GameEffect)) {
	kept := l.effects[:0]
	var expired []*GameEffect
	for _, e := range l.effects {
		e.Elapsed += elapsedMs
		if e.Elapsed >= e.Duration {
			expired = append(expired, e)
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(l.effects); i++ {
		l.effects[i] = nil
	}
	l.effects = kept
	if onExpire != nil {
		for _, e := range expired {
			onExpire(e)
		}
	}
}

func (l *EffectList) Len() int { return len(l.effects) }

// All returns a copy of the list, head (newest) first.
func (l *EffectList) All() []*GameEffect {
	out := make([]*GameEffect, len(l.effects))
	copy(out, l.effects)
	return out
}
