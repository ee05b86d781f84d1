package pool

// slotArena is the worker registry: an indexed collection of slots
// addressed by stable identifiers. Removal tombstones an entry rather
// than deleting it, so a worker removing itself never invalidates a
// concurrent iteration, and the round-robin cursor maps onto live
// identifiers rather than mutable list positions. Tombstones are
// compacted away once they outnumber live entries.
//
// The arena performs no locking of its own; every method must be
// called with the owning Manager's lock held.
type slotArena struct {
	entries []arenaEntry
	index   map[uint64]int
	nextID  uint64
	live    int
	dead    int
}

type arenaEntry struct {
	id   uint64
	slot *workerSlot
	dead bool
}

func newSlotArena() *slotArena {
	return &slotArena{index: map[uint64]int{}}
}

// add registers a slot and assigns it the next stable identifier.
func (a *slotArena) add(s *workerSlot) uint64 {
	a.nextID++
	s.id = a.nextID

	a.index[s.id] = len(a.entries)
	a.entries = append(a.entries, arenaEntry{id: s.id, slot: s})
	a.live++

	return s.id
}

// remove tombstones the slot with the given identifier, reporting
// whether the slot was live. Safe to call more than once per slot.
func (a *slotArena) remove(id uint64) bool {
	pos, ok := a.index[id]
	if !ok || a.entries[pos].dead {
		return false
	}

	a.entries[pos].dead = true
	a.live--
	a.dead++

	if a.dead > a.live {
		a.compact()
	}

	return true
}

func (a *slotArena) compact() {
	kept := a.entries[:0]
	for _, e := range a.entries {
		if !e.dead {
			kept = append(kept, e)
		}
	}

	a.entries = kept
	a.dead = 0
	a.index = make(map[uint64]int, len(kept))
	for pos, e := range a.entries {
		a.index[e.id] = pos
	}
}

func (a *slotArena) size() int { return a.live }

// next returns the live slot at the cursor's round-robin position and
// advances the cursor, or nil when no slots are live. Because the
// cursor is monotonic and entries keep their insertion order,
// consecutive calls cycle through the live workers in turn even as
// other slots come and go.
func (a *slotArena) next(cursor *uint64) *workerSlot {
	if a.live == 0 {
		return nil
	}

	target := int(*cursor % uint64(a.live))
	*cursor++

	for pos := range a.entries {
		if a.entries[pos].dead {
			continue
		}

		if target == 0 {
			return a.entries[pos].slot
		}
		target--
	}

	return nil
}

// snapshot returns the live slots in insertion order. The returned
// slice is safe to iterate after the lock is released; slots
// tombstoned afterward remain valid values.
func (a *slotArena) snapshot() []*workerSlot {
	out := make([]*workerSlot, 0, a.live)
	for pos := range a.entries {
		if !a.entries[pos].dead {
			out = append(out, a.entries[pos].slot)
		}
	}

	return out
}
