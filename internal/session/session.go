// Package session is the client-side mirror of one game session: it owns
// the authoritative-room shadow, the phase machine, optimistic submission
// state, and every piece of local UI state that must stay consistent with
// the server's snapshots. All state lives on a single goroutine; readers
// get immutable View copies and writers post intents into the loop.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/luke-woojudaddy/Mind-Sync/internal/identity"
	"github.com/luke-woojudaddy/Mind-Sync/internal/protocol"
	"github.com/luke-woojudaddy/Mind-Sync/internal/rooms"
)

var (
	ErrGateClosed = errors.New("result gate still counting down")
	ErrNotInPhase = errors.New("action not valid in current phase")
)

// Emitter is the outbound half of the channel the session talks through.
// *channel.Channel satisfies it; tests substitute a recorder.
type Emitter interface {
	Emit(event protocol.EventType, payload any)
	Connect(ctx context.Context)
	Disconnect()
	Connected() bool
}

// Config wires the session's dependencies and tuning.
type Config struct {
	Rooms      *rooms.Client
	Identity   *identity.Identity
	RoomHandle *identity.RoomHandle
	Clock      clockwork.Clock

	// ResultGateSeconds is the dwell time forced on the result screen.
	ResultGateSeconds int
	// NotificationSeconds is how long a notification stays up before it
	// clears itself.
	NotificationSeconds int
	// SwipeThreshold is the minimum horizontal drag, in points, recognized
	// as a swipe.
	SwipeThreshold float64
	Tips           []string
}

// inbox messages
type (
	snapshotMsg struct{ payload protocol.GameStatePayload }
	userListMsg struct{ payload protocol.UserListPayload }
	timerMsg    struct{ payload protocol.TimerUpdatePayload }
	noteMsg     struct{ payload protocol.NotificationPayload }
	errorMsg    struct{ payload protocol.ErrorPayload }
	kickedMsg   struct{ payload protocol.KickedPayload }
	connMsg     struct{ connected bool }

	gateTickMsg   struct{ gen int }
	noteExpireMsg struct{ gen int }

	viewMsg   struct{ reply chan View }
	intentMsg struct{ fn func() }
)

// Session is the local authority over everything the server does not own.
type Session struct {
	cfg     Config
	clock   clockwork.Clock
	emitter Emitter

	inbox chan any
	ctx   context.Context

	userID      string
	displayName string

	screen    Screen
	connected bool

	room  *protocol.Room
	users []protocol.Participant

	tracker *SubmissionTracker
	nav     *ZoomNavigator
	swipe   *SwipeRecognizer
	gate    *ResultGate
	notes   *NotificationQueue

	confirmedCardID string
	selectedWord    protocol.Word
	votedCardID     string

	result       *ResultMessage
	rank         RankCategory
	timerSeconds int
	tip          string
	lastErr      string

	gateGen int
}

// New builds a session. Call Start to run it and Bind to attach a channel.
func New(cfg Config, emitter Emitter) (*Session, error) {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.ResultGateSeconds == 0 {
		cfg.ResultGateSeconds = 10
	}
	if cfg.NotificationSeconds == 0 {
		cfg.NotificationSeconds = 3
	}
	if cfg.SwipeThreshold == 0 {
		cfg.SwipeThreshold = 50
	}
	if len(cfg.Tips) == 0 {
		cfg.Tips = defaultTips
	}

	userID, err := cfg.Identity.UserID()
	if err != nil {
		return nil, fmt.Errorf("load session identity: %w", err)
	}
	name, err := cfg.Identity.DisplayName()
	if err != nil {
		return nil, fmt.Errorf("load display name: %w", err)
	}

	return &Session{
		cfg:         cfg,
		clock:       cfg.Clock,
		emitter:     emitter,
		ctx:         context.Background(),
		inbox:       make(chan any, 128),
		userID:      userID,
		displayName: name,
		screen:      ScreenLobby,
		tracker:     NewSubmissionTracker(),
		nav:         NewZoomNavigator(),
		swipe:       NewSwipeRecognizer(cfg.SwipeThreshold),
		gate:        NewResultGate(),
		notes:       NewNotificationQueue(),
	}, nil
}

// UserID returns the stable session identity.
func (s *Session) UserID() string { return s.userID }

// Start runs the session loop. If a room handle survived a restart the
// session routes straight to the waiting screen and reconnects; the join
// hello carries the persisted id, so the server recognizes the rejoin.
func (s *Session) Start(ctx context.Context) {
	s.ctx = ctx
	go s.run(ctx)

	roomID, ok, err := s.cfg.RoomHandle.Load()
	if err != nil {
		log.Error().Err(err).Msg("load room handle")
	}
	if ok && roomID != "" {
		log.Info().Str("room_id", roomID).Msg("rejoining persisted room")
		s.do(func() { s.screen = ScreenWaiting })
		s.emitter.Connect(ctx)
	}
}

func (s *Session) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-s.inbox:
			s.handle(m)
		}
	}
}

func (s *Session) handle(m any) {
	switch msg := m.(type) {
	case snapshotMsg:
		s.applySnapshot(msg.payload)
	case userListMsg:
		s.users = msg.payload.Users
	case timerMsg:
		s.timerSeconds = msg.payload.Time
	case noteMsg:
		s.showNote(noteFromPayload(msg.payload))
	case errorMsg:
		s.applyError(msg.payload)
	case kickedMsg:
		s.applyKicked(msg.payload)
	case connMsg:
		s.connected = msg.connected
	case gateTickMsg:
		if msg.gen != s.gateGen {
			return
		}
		s.gate.Tick()
		if !s.gate.IsOpen() {
			s.scheduleGateTick(msg.gen)
		}
	case noteExpireMsg:
		s.notes.Expire(msg.gen)
	case viewMsg:
		msg.reply <- s.buildView()
	case intentMsg:
		msg.fn()
	}
}

// post delivers a message to the loop, dropping it if the session stopped.
func (s *Session) post(m any) {
	select {
	case s.inbox <- m:
	case <-s.ctx.Done():
	}
}

func (s *Session) do(fn func()) {
	s.post(intentMsg{fn: fn})
}

// View returns a consistent copy of the session's renderable state.
func (s *Session) View(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	select {
	case s.inbox <- viewMsg{reply: reply}:
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}

// --- snapshot application -------------------------------------------------

// applySnapshot is the only writer of the room mirror. Phase-entry effects
// fire exactly when the phase value changes between consecutive snapshots;
// repeated snapshots of the same phase replace state without side effects.
func (s *Session) applySnapshot(p protocol.GameStatePayload) {
	prev := protocol.PhaseNone
	if s.room != nil {
		prev = s.room.Phase
	}
	if p.Room.Phase != prev {
		s.enterPhase(p.Room.Phase, &p)
	}

	room := p.Room
	s.room = &room
	s.users = p.Users

	switch room.Status {
	case protocol.StatusPlaying:
		s.screen = ScreenGame
	case protocol.StatusWaiting:
		if s.screen != ScreenWaiting {
			s.screen = ScreenWaiting
		}
	}
}

func (s *Session) enterPhase(phase protocol.Phase, p *protocol.GameStatePayload) {
	log.Debug().Str("phase", string(phase)).Msg("entering phase")
	switch phase {
	case protocol.PhaseStorytellerChoosing:
		s.tracker.Reset()
		s.nav.Close()
		s.swipe = NewSwipeRecognizer(s.cfg.SwipeThreshold)
		s.confirmedCardID = ""
		s.selectedWord = protocol.Word{}
		s.votedCardID = ""
		s.result = nil
		s.notes.Clear()
		s.tip = pickTip(s.cfg.Tips, s.tip)
	case protocol.PhaseResult:
		s.armGate(s.cfg.ResultGateSeconds)
		if me := protocol.FindParticipant(p.Users, s.userID); me != nil {
			msg := classifyResult(me, p.Room.StorytellerID == s.userID)
			s.result = &msg
		}
	case protocol.PhaseGameOver:
		s.disarmGate()
		s.rank = rankCategory(p.Users, s.userID)
	}
}

func (s *Session) armGate(seconds int) {
	s.gateGen++
	s.gate.Arm(seconds)
	if !s.gate.IsOpen() {
		s.scheduleGateTick(s.gateGen)
	}
}

func (s *Session) disarmGate() {
	s.gateGen++
	s.gate.Disarm()
}

func (s *Session) scheduleGateTick(gen int) {
	go func() {
		select {
		case <-s.clock.After(time.Second):
			s.post(gateTickMsg{gen: gen})
		case <-s.ctx.Done():
		}
	}()
}

func (s *Session) showNote(n Note) {
	gen := s.notes.Show(n)
	go func() {
		select {
		case <-s.clock.After(time.Duration(s.cfg.NotificationSeconds) * time.Second):
			s.post(noteExpireMsg{gen: gen})
		case <-s.ctx.Done():
		}
	}()
}

// applyError is a server rejection of some prior action: show it and fall
// back to the lobby, keeping the room handle so a retry can rejoin.
func (s *Session) applyError(p protocol.ErrorPayload) {
	log.Warn().Str("message", p.Message).Msg("server error")
	s.lastErr = p.Message
	s.screen = ScreenLobby
}

// applyKicked handles the broadcast kick event. Only the targeted session
// reacts; it drops the room handle, resets, and disconnects.
func (s *Session) applyKicked(p protocol.KickedPayload) {
	if p.TargetID != s.userID {
		return
	}
	log.Info().Msg("kicked from room")
	if err := s.cfg.RoomHandle.Clear(); err != nil {
		log.Error().Err(err).Msg("clear room handle")
	}
	s.resetToLobby()
	s.emitter.Disconnect()
}

func (s *Session) resetToLobby() {
	s.screen = ScreenLobby
	s.room = nil
	s.users = nil
	s.tracker.Reset()
	s.nav.Close()
	s.gate.Disarm()
	s.gateGen++
	s.notes.Clear()
	s.confirmedCardID = ""
	s.selectedWord = protocol.Word{}
	s.votedCardID = ""
	s.result = nil
	s.rank = ""
	s.timerSeconds = 0
	s.lastErr = ""
}

// --- room lifecycle intents ----------------------------------------------

// CreateRoom creates a room over HTTP and enters it. The HTTP call runs on
// the caller's goroutine; only the state transition goes through the loop.
func (s *Session) CreateRoom(name string) error {
	room, err := s.cfg.Rooms.CreateRoom(name)
	if err != nil {
		return err
	}
	return s.enterRoom(room.ID)
}

// JoinRoom joins an existing room by id.
func (s *Session) JoinRoom(roomID string) error {
	if err := s.cfg.Rooms.JoinRoom(roomID); err != nil {
		return err
	}
	return s.enterRoom(roomID)
}

func (s *Session) enterRoom(roomID string) error {
	if err := s.cfg.RoomHandle.Save(roomID); err != nil {
		return fmt.Errorf("persist room handle: %w", err)
	}
	s.do(func() {
		s.lastErr = ""
		s.screen = ScreenWaiting
	})
	s.emitter.Connect(s.ctx)
	return nil
}

// LeaveToLobby abandons the room on purpose: the handle is dropped so a
// restart will not rejoin.
func (s *Session) LeaveToLobby() {
	if err := s.cfg.RoomHandle.Clear(); err != nil {
		log.Error().Err(err).Msg("clear room handle")
	}
	s.do(s.resetToLobby)
	s.emitter.Disconnect()
}

// UpdateProfile persists the new display name and announces it to the room.
func (s *Session) UpdateProfile(name string) error {
	if err := s.cfg.Identity.SetDisplayName(name); err != nil {
		return err
	}
	s.do(func() {
		s.displayName = name
		if s.room != nil {
			s.emitter.Emit(protocol.EventUpdateProfile, protocol.UpdateProfilePayload{
				RoomID:   s.room.ID,
				UserID:   s.userID,
				Username: name,
			})
		}
	})
	return nil
}

// StartGame asks the server to begin. Gated on being host locally; the
// server re-validates.
func (s *Session) StartGame(roundsPerUser int) {
	s.do(func() {
		if s.room == nil || s.room.HostID != s.userID {
			return
		}
		s.emitter.Emit(protocol.EventStartGame, protocol.StartGamePayload{
			RoomID:        s.room.ID,
			RoundsPerUser: roundsPerUser,
		})
	})
}

// KickUser asks the server to remove a participant. Host only.
func (s *Session) KickUser(targetID string) {
	s.do(func() {
		if s.room == nil || s.room.HostID != s.userID {
			return
		}
		s.emitter.Emit(protocol.EventKickUser, protocol.KickUserPayload{
			RoomID:       s.room.ID,
			UserID:       s.userID,
			TargetUserID: targetID,
		})
	})
}

// AddAI asks the server to seat an AI participant. Host only.
func (s *Session) AddAI() {
	s.do(func() {
		if s.room == nil || s.room.HostID != s.userID {
			return
		}
		s.emitter.Emit(protocol.EventAddAI, protocol.AddAIPayload{
			RoomID: s.room.ID,
			UserID: s.userID,
		})
	})
}

// --- storyteller intents --------------------------------------------------

// SelectWord marks a word candidate as the storyteller's working choice.
func (s *Session) SelectWord(w protocol.Word) {
	s.do(func() { s.selectedWord = w })
}

// ClearConfirmedCard undoes the storyteller's working card choice before
// the story is submitted.
func (s *Session) ClearConfirmedCard() {
	s.do(func() { s.confirmedCardID = "" })
}

// SubmitStory sends the storyteller's card and word, then clears the local
// working choices so a replayed snapshot cannot resubmit them.
func (s *Session) SubmitStory() {
	s.do(func() {
		if s.room == nil || s.room.Phase != protocol.PhaseStorytellerChoosing {
			return
		}
		if s.confirmedCardID == "" || s.selectedWord.IsZero() {
			return
		}
		s.emitter.Emit(protocol.EventSubmitStory, protocol.SubmitStoryPayload{
			RoomID: s.room.ID,
			CardID: s.confirmedCardID,
			Word:   s.selectedWord,
		})
		s.confirmedCardID = ""
		s.selectedWord = protocol.Word{}
	})
}

// RefreshWords asks for a new word candidate set. The server enforces the
// reroll limit.
func (s *Session) RefreshWords() {
	s.do(func() {
		if s.room == nil || s.room.StorytellerID != s.userID {
			return
		}
		// reroll_count counts remaining rerolls; the server stops sending
		// candidates once it hits zero.
		if s.room.RerollCount <= 0 {
			return
		}
		s.emitter.Emit(protocol.EventRefreshWords, protocol.RefreshWordsPayload{
			RoomID: s.room.ID,
			UserID: s.userID,
		})
	})
}

// --- zoom and card intents ------------------------------------------------

// OpenCard opens the zoom overlay on a card from the current context: the
// voting candidates during voting, the local hand otherwise.
func (s *Session) OpenCard(cardID string) {
	s.do(func() {
		for _, c := range s.zoomCards() {
			if c.ID == cardID {
				s.nav.Open(c)
				return
			}
		}
	})
}

// CloseZoom dismisses the zoom overlay.
func (s *Session) CloseZoom() {
	s.do(s.nav.Close)
}

// NextCard advances the zoom focus, wrapping past the end.
func (s *Session) NextCard() {
	s.do(func() { s.nav.Next(s.zoomCards()) })
}

// PrevCard moves the zoom focus back, wrapping past the start.
func (s *Session) PrevCard() {
	s.do(func() { s.nav.Prev(s.zoomCards()) })
}

func (s *Session) SwipeBegin(x float64) {
	s.do(func() { s.swipe.Begin(x) })
}

func (s *Session) SwipeMove(x float64) {
	s.do(func() { s.swipe.Move(x) })
}

// SwipeEnd completes a drag on the zoom overlay, moving focus when the drag
// crossed the threshold.
func (s *Session) SwipeEnd() {
	s.do(func() {
		switch s.swipe.End() {
		case SwipeNext:
			s.nav.Next(s.zoomCards())
		case SwipePrev:
			s.nav.Prev(s.zoomCards())
		}
	})
}

// zoomCards returns the collection the zoom carousel cycles over. During
// voting the candidates are shown; in every other phase it is the hand.
func (s *Session) zoomCards() []ZoomCard {
	if s.room == nil {
		return nil
	}
	if s.room.Phase == protocol.PhaseVoting {
		out := make([]ZoomCard, 0, len(s.room.VotingCandidates))
		for _, vc := range s.room.VotingCandidates {
			out = append(out, ZoomCard{
				ID:              vc.CardID,
				Src:             vc.CardSrc,
				SubmitterID:     vc.UserID,
				VotingCandidate: true,
			})
		}
		return out
	}
	hand := s.hand()
	out := make([]ZoomCard, 0, len(hand))
	for _, c := range hand {
		out = append(out, ZoomCard{ID: c.ID, Src: c.Src})
	}
	return out
}

func (s *Session) hand() []protocol.Card {
	if me := protocol.FindParticipant(s.users, s.userID); me != nil {
		return me.Hand
	}
	return nil
}

// ConfirmSelection acts on the zoomed card according to the current phase:
// the storyteller marks a working choice, the audience submits a decoy, a
// voter casts their vote. Out-of-phase confirms are ignored.
func (s *Session) ConfirmSelection() {
	s.do(func() {
		card, ok := s.nav.Current()
		if !ok || s.room == nil {
			return
		}
		switch s.room.Phase {
		case protocol.PhaseStorytellerChoosing:
			if s.room.StorytellerID != s.userID || card.VotingCandidate {
				return
			}
			s.confirmedCardID = card.ID
			s.nav.Close()
		case protocol.PhaseAudienceSubmitting:
			s.confirmAudienceCard(card)
		case protocol.PhaseVoting:
			s.confirmVote(card)
		}
	})
}

func (s *Session) confirmAudienceCard(card ZoomCard) {
	if s.room.StorytellerID == s.userID || card.VotingCandidate {
		return
	}
	limit := s.room.AudienceCardLimit
	if limit > 0 && s.tracker.Count() >= limit {
		s.nav.Close()
		return
	}
	if !s.tracker.Record(card.ID) {
		return
	}
	s.emitter.Emit(protocol.EventSubmitCard, protocol.SubmitCardPayload{
		RoomID:   s.room.ID,
		UserID:   s.userID,
		CardID:   card.ID,
		CardSrc:  card.Src,
		Username: s.displayName,
	})
	if limit > 0 && s.tracker.Count() >= limit {
		s.nav.Close()
	}
}

func (s *Session) confirmVote(card ZoomCard) {
	if !card.VotingCandidate || s.room.StorytellerID == s.userID {
		return
	}
	if card.SubmitterID == s.userID {
		return
	}
	if s.votedCardID != "" {
		return
	}
	s.emitter.Emit(protocol.EventSubmitVote, protocol.SubmitVotePayload{
		RoomID: s.room.ID,
		UserID: s.userID,
		CardID: card.ID,
	})
	s.votedCardID = card.ID
	s.nav.Close()
}

// --- result intents -------------------------------------------------------

// NextRound requests advancement out of the result phase. Refused while the
// gate is counting down so the results stay readable.
func (s *Session) NextRound() error {
	errCh := make(chan error, 1)
	s.do(func() {
		if s.room == nil || s.room.Phase != protocol.PhaseResult {
			errCh <- ErrNotInPhase
			return
		}
		if !s.gate.IsOpen() {
			errCh <- ErrGateClosed
			return
		}
		s.votedCardID = ""
		s.emitter.Emit(protocol.EventNextRound, protocol.NextRoundPayload{RoomID: s.room.ID})
		errCh <- nil
	})
	select {
	case err := <-errCh:
		return err
	case <-s.ctx.Done():
		return s.ctx.Err()
	}
}

// --- view -----------------------------------------------------------------

func (s *Session) buildView() View {
	v := View{
		Screen:          s.screen,
		Connected:       s.connected,
		UserID:          s.userID,
		DisplayName:     s.displayName,
		ConfirmedCardID: s.confirmedCardID,
		VotedCardID:     s.votedCardID,
		SubmittedIDs:    s.tracker.IDs(),
		SubmittedCount:  s.tracker.Count(),
		GateRemaining:   s.gate.Remaining(),
		GateOpen:        s.gate.IsOpen(),
		Rank:            s.rank,
		TimerSeconds:    s.timerSeconds,
		Tip:             s.tip,
		LastErr:         s.lastErr,
	}
	if !s.selectedWord.IsZero() {
		v.SelectedWord = s.selectedWord.Text
	}
	if s.room != nil {
		room := *s.room
		v.Room = &room
		v.IsHost = room.HostID == s.userID
		v.IsStoryteller = room.StorytellerID == s.userID
	}
	if len(s.users) > 0 {
		v.Users = make([]protocol.Participant, len(s.users))
		copy(v.Users, s.users)
	}
	if hand := s.hand(); len(hand) > 0 {
		v.Hand = make([]protocol.Card, len(hand))
		copy(v.Hand, hand)
	}
	if card, ok := s.nav.Current(); ok {
		v.ZoomOpen = true
		c := card
		v.ZoomCard = &c
	}
	if s.result != nil {
		r := *s.result
		v.Result = &r
	}
	if note, ok := s.notes.Current(); ok {
		n := note
		v.Note = &n
	}
	return v
}
