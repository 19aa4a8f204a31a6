package session

import "github.com/luke-woojudaddy/Mind-Sync/internal/protocol"

// Screen is the top-level surface the renderer should show.
type Screen string

const (
	ScreenLobby   Screen = "lobby"
	ScreenWaiting Screen = "waiting"
	ScreenGame    Screen = "game"
)

// View is an immutable snapshot of everything a renderer needs. The session
// loop builds a fresh copy per request, so readers never race the loop.
type View struct {
	Screen    Screen
	Connected bool

	UserID      string
	DisplayName string

	Room  *protocol.Room
	Users []protocol.Participant

	IsHost        bool
	IsStoryteller bool
	Hand          []protocol.Card

	// Optimistic submission state.
	ConfirmedCardID string
	SelectedWord    string
	SubmittedIDs    []string
	SubmittedCount  int
	VotedCardID     string

	// Zoom overlay.
	ZoomOpen bool
	ZoomCard *ZoomCard

	// Result phase.
	Result        *ResultMessage
	GateRemaining int
	GateOpen      bool

	// Game over ranking for the local player.
	Rank RankCategory

	TimerSeconds int
	Tip          string

	Note    *Note
	LastErr string
}
