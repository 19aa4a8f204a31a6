package session

import (
	"github.com/rs/zerolog/log"

	"github.com/luke-woojudaddy/Mind-Sync/internal/channel"
	"github.com/luke-woojudaddy/Mind-Sync/internal/protocol"
)

// Bind subscribes the session to every inbound event on ch and installs the
// hello hook that re-announces the session on each (re)connect. The hook is
// the whole resynchronization story: join_game makes the server answer with
// a full snapshot, and applySnapshot does the rest.
func Bind(s *Session, ch *channel.Channel) {
	ch.On(protocol.EventGameState, func(p any) {
		if payload, ok := p.(protocol.GameStatePayload); ok {
			s.post(snapshotMsg{payload: payload})
		}
	})
	ch.On(protocol.EventUserList, func(p any) {
		if payload, ok := p.(protocol.UserListPayload); ok {
			s.post(userListMsg{payload: payload})
		}
	})
	ch.On(protocol.EventTimerUpdate, func(p any) {
		if payload, ok := p.(protocol.TimerUpdatePayload); ok {
			s.post(timerMsg{payload: payload})
		}
	})
	ch.On(protocol.EventNotification, func(p any) {
		if payload, ok := p.(protocol.NotificationPayload); ok {
			s.post(noteMsg{payload: payload})
		}
	})
	ch.On(protocol.EventError, func(p any) {
		if payload, ok := p.(protocol.ErrorPayload); ok {
			s.post(errorMsg{payload: payload})
		}
	})
	ch.On(protocol.EventKicked, func(p any) {
		if payload, ok := p.(protocol.KickedPayload); ok {
			s.post(kickedMsg{payload: payload})
		}
	})

	ch.SetStateHandler(func(connected bool) {
		s.post(connMsg{connected: connected})
	})

	ch.SetHello(func() {
		roomID, ok, err := s.cfg.RoomHandle.Load()
		if err != nil {
			log.Error().Err(err).Msg("load room handle for hello")
			return
		}
		if !ok || roomID == "" {
			return
		}
		name, err := s.cfg.Identity.DisplayName()
		if err != nil {
			log.Error().Err(err).Msg("load display name for hello")
			name = ""
		}
		ch.Emit(protocol.EventJoinGame, protocol.JoinGamePayload{
			RoomID:   roomID,
			UserID:   s.userID,
			Username: name,
		})
	})
}
