package session

// ZoomCard is the card currently focused in the zoom carousel. The
// VotingCandidate flag records which collection it came from, which decides
// the list Next/Prev cycle over and which confirm action applies.
type ZoomCard struct {
	ID              string
	Src             string
	SubmitterID     string
	VotingCandidate bool
}

// ZoomNavigator drives the zoom carousel: cyclic focus movement over either
// the local hand or the voting candidates. Pure local UI state; nothing here
// talks to the server.
type ZoomNavigator struct {
	current *ZoomCard
}

func NewZoomNavigator() *ZoomNavigator {
	return &ZoomNavigator{}
}

func (n *ZoomNavigator) Open(card ZoomCard) {
	c := card
	n.current = &c
}

func (n *ZoomNavigator) Close() {
	n.current = nil
}

// Current returns the focused card, if any.
func (n *ZoomNavigator) Current() (ZoomCard, bool) {
	if n.current == nil {
		return ZoomCard{}, false
	}
	return *n.current, true
}

// Next moves focus to the following card in cards, wrapping at the end.
func (n *ZoomNavigator) Next(cards []ZoomCard) {
	n.shift(cards, 1)
}

// Prev moves focus to the preceding card in cards, wrapping at the start.
func (n *ZoomNavigator) Prev(cards []ZoomCard) {
	n.shift(cards, -1)
}

func (n *ZoomNavigator) shift(cards []ZoomCard, delta int) {
	if n.current == nil || len(cards) == 0 {
		return
	}
	idx := 0
	for i, c := range cards {
		if c.ID == n.current.ID {
			idx = i
			break
		}
	}
	next := cards[((idx+delta)%len(cards)+len(cards))%len(cards)]
	next.VotingCandidate = n.current.VotingCandidate
	n.current = &next
}

// SwipeDirection is the outcome of a completed drag.
type SwipeDirection int

const (
	SwipeNone SwipeDirection = iota
	SwipeNext
	SwipePrev
)

// SwipeRecognizer turns horizontal drags into carousel movement. Drags
// shorter than the threshold are no-ops.
type SwipeRecognizer struct {
	threshold float64
	startX    float64
	lastX     float64
	active    bool
	moved     bool
}

func NewSwipeRecognizer(threshold float64) *SwipeRecognizer {
	return &SwipeRecognizer{threshold: threshold}
}

func (r *SwipeRecognizer) Begin(x float64) {
	r.startX = x
	r.active = true
	r.moved = false
}

func (r *SwipeRecognizer) Move(x float64) {
	if !r.active {
		return
	}
	r.lastX = x
	r.moved = true
}

// End completes the drag and returns its direction. Dragging left past the
// threshold advances, dragging right goes back.
func (r *SwipeRecognizer) End() SwipeDirection {
	if !r.active || !r.moved {
		r.active = false
		return SwipeNone
	}
	r.active = false
	distance := r.startX - r.lastX
	switch {
	case distance > r.threshold:
		return SwipeNext
	case distance < -r.threshold:
		return SwipePrev
	default:
		return SwipeNone
	}
}
