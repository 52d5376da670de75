package seq

// Allocator hands out voices from a fixed pool. A free voice is preferred,
// the one released longest ago first; with none free the oldest held
// note is stolen.
type Allocator struct {
	pool  []int
	slots []slot
	clock uint64
}

type slot struct {
	held  bool
	key   uint8
	stamp uint64 // Clock at note on, or at release for free voices
}

// NewAllocator creates an allocator over the given voices.
func NewAllocator(voices []int) *Allocator {
	return &Allocator{
		pool:  append([]int(nil), voices...),
		slots: make([]slot, len(voices)),
	}
}

// NoteOn picks a voice for key. stolen is set when a held note had to
// give up its voice.
func (a *Allocator) NoteOn(key uint8) (voice int, stolen bool) {
	a.clock++
	best := -1
	for i, s := range a.slots {
		if s.held {
			continue
		}
		if best < 0 || s.stamp < a.slots[best].stamp {
			best = i
		}
	}
	if best < 0 {
		stolen = true
		for i, s := range a.slots {
			if best < 0 || s.stamp < a.slots[best].stamp {
				best = i
			}
		}
	}
	a.slots[best] = slot{held: true, key: key, stamp: a.clock}
	return a.pool[best], stolen
}

// NoteOff releases the voice holding key. Returns false when the note is
// not held, e.g. because it was stolen.
func (a *Allocator) NoteOff(key uint8) (voice int, ok bool) {
	a.clock++
	best := -1
	for i, s := range a.slots {
		if !s.held || s.key != key {
			continue
		}
		// The oldest instance of a repeated key ends first
		if best < 0 || s.stamp < a.slots[best].stamp {
			best = i
		}
	}
	if best < 0 {
		return 0, false
	}
	a.slots[best] = slot{stamp: a.clock}
	return a.pool[best], true
}

// Held returns the number of voices holding a note.
func (a *Allocator) Held() int {
	n := 0
	for _, s := range a.slots {
		if s.held {
			n++
		}
	}
	return n
}
