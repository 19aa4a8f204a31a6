package session

import "github.com/luke-woojudaddy/Mind-Sync/internal/protocol"

// Note is one transient notification. It carries either a literal message
// or a translation key with params; resolving keys is the renderer's job.
type Note struct {
	Type    string
	Message string
	Key     string
	Params  map[string]string
}

func noteFromPayload(p protocol.NotificationPayload) Note {
	return Note{
		Type:    p.Type,
		Message: p.Message,
		Key:     p.Key,
		Params:  p.Params,
	}
}

// NotificationQueue shows one note at a time. A new note replaces the
// current one; expiry and phase entry clear it. The generation counter lets
// the session loop discard expiry timers that were superseded by a
// replacement or a phase change.
type NotificationQueue struct {
	current *Note
	gen     int
}

func NewNotificationQueue() *NotificationQueue {
	return &NotificationQueue{}
}

// Show replaces the current note and returns the generation the caller
// should schedule expiry for.
func (q *NotificationQueue) Show(note Note) int {
	n := note
	q.current = &n
	q.gen++
	return q.gen
}

// Expire clears the note only if gen still identifies it.
func (q *NotificationQueue) Expire(gen int) {
	if gen == q.gen {
		q.current = nil
	}
}

// Clear drops the current note and invalidates any pending expiry.
func (q *NotificationQueue) Clear() {
	q.current = nil
	q.gen++
}

// Current returns the displayed note, if any.
func (q *NotificationQueue) Current() (Note, bool) {
	if q.current == nil {
		return Note{}, false
	}
	return *q.current, true
}
