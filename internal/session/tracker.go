package session

// SubmissionTracker is the local, optimistic set of card ids already sent to
// the server in the current phase. It only smooths perceived latency: the
// server remains responsible for final counts, and this set is always a
// subset of what the server has actually received.
type SubmissionTracker struct {
	order []string
	seen  map[string]struct{}
}

func NewSubmissionTracker() *SubmissionTracker {
	return &SubmissionTracker{seen: make(map[string]struct{})}
}

// Record adds a card id, reporting whether it was newly added.
func (t *SubmissionTracker) Record(cardID string) bool {
	if _, ok := t.seen[cardID]; ok {
		return false
	}
	t.seen[cardID] = struct{}{}
	t.order = append(t.order, cardID)
	return true
}

// Has reports whether the card was already submitted this phase.
func (t *SubmissionTracker) Has(cardID string) bool {
	_, ok := t.seen[cardID]
	return ok
}

func (t *SubmissionTracker) Count() int {
	return len(t.order)
}

// IDs returns the submitted ids in submission order.
func (t *SubmissionTracker) IDs() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Reset clears the set. Called only by the phase machine on entry into the
// next round's storyteller phase.
func (t *SubmissionTracker) Reset() {
	t.order = t.order[:0]
	t.seen = make(map[string]struct{})
}
