package pinch

import (
	"time"

	"gesturebrainz/kinematics"
)

// MaxContacts is the number of contacts a Tracker follows.
const MaxContacts = 2

// Contact is one active touch point as reported by the input source.
type Contact struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Tracker keeps a sample history for each of the first two contacts.
// Slots follow the position in the reported list. A slot keeps its history
// while the same contact ID stays in it and starts over when another
// contact moves into it.
type Tracker struct {
	slots [MaxContacts]*kinematics.History
	ids   [MaxContacts]int
	n     int
}

// NewTracker creates a tracker whose per-slot histories use limit and window.
func NewTracker(limit int, window time.Duration) *Tracker {
	t := &Tracker{}
	for i := range t.slots {
		t.slots[i] = kinematics.NewHistory(limit, window)
	}
	return t
}

// Count returns the number of tracked slots.
func (t *Tracker) Count() int { return t.n }

// Slot returns the history of slot i, or nil when i is not tracked.
func (t *Tracker) Slot(i int) *kinematics.History {
	if i < 0 || i >= t.n {
		return nil
	}
	return t.slots[i]
}

// Clear empties every slot.
func (t *Tracker) Clear() {
	for _, h := range t.slots {
		h.Clear()
	}
	t.n = 0
}

// Reset clears every slot and seeds it with the current contacts.
func (t *Tracker) Reset(contacts []Contact, at time.Time) {
	t.Clear()
	t.Update(contacts, at)
}

// Update records the current position of the first two contacts. Slots
// beyond the number of reported contacts are cleared.
func (t *Tracker) Update(contacts []Contact, at time.Time) {
	n := min(len(contacts), MaxContacts)
	for i := 0; i < n; i++ {
		c := contacts[i]
		if i >= t.n || t.ids[i] != c.ID {
			t.slots[i].Clear()
			t.ids[i] = c.ID
		}
		t.slots[i].Push(kinematics.Sample{X: c.X, Y: c.Y, At: at})
	}
	for i := n; i < MaxContacts; i++ {
		t.slots[i].Clear()
	}
	t.n = n
}

// Resolve decomposes the latest move of the two tracked contacts.
func (t *Tracker) Resolve() Result {
	if t.n < MaxContacts {
		return Result{}
	}
	aOld, aNew, okA := t.slots[0].LastPair()
	bOld, bNew, okB := t.slots[1].LastPair()
	if !okA || !okB {
		return Result{}
	}
	return Resolve(&aOld, &aNew, &bOld, &bNew)
}
