package session

// ResultGate forces a minimum dwell time on the result screen: the advance
// action is refused until the countdown reaches zero. Re-armed once per
// entry into the result phase; the tick schedule lives in the session loop.
type ResultGate struct {
	remaining int
}

func NewResultGate() *ResultGate {
	return &ResultGate{}
}

// Arm starts a fresh countdown.
func (g *ResultGate) Arm(seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	g.remaining = seconds
}

// Tick counts one second down, stopping at zero.
func (g *ResultGate) Tick() {
	if g.remaining > 0 {
		g.remaining--
	}
}

// IsOpen reports whether the countdown has finished. An unarmed gate is
// open.
func (g *ResultGate) IsOpen() bool {
	return g.remaining == 0
}

func (g *ResultGate) Remaining() int {
	return g.remaining
}

// Disarm opens the gate immediately.
func (g *ResultGate) Disarm() {
	g.remaining = 0
}
