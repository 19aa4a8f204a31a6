package protocol

import (
	"encoding/json"
	"fmt"
)

// EventType names a channel event. The same namespace covers both
// directions; Inbound/Outbound below list which side sends what.
type EventType string

// Server → client events.
const (
	EventUserList     EventType = "update_user_list"
	EventGameState    EventType = "game_state_update"
	EventTimerUpdate  EventType = "timer_update"
	EventNotification EventType = "notification"
	EventError        EventType = "error"
	EventKicked       EventType = "kicked"
)

// Client → server events.
const (
	EventJoinGame      EventType = "join_game"
	EventUpdateProfile EventType = "update_profile"
	EventStartGame     EventType = "start_game"
	EventSubmitStory   EventType = "submit_story"
	EventRefreshWords  EventType = "refresh_words"
	EventSubmitCard    EventType = "submit_card"
	EventSubmitVote    EventType = "submit_vote"
	EventNextRound     EventType = "next_round"
	EventKickUser      EventType = "kick_user"
	EventAddAI         EventType = "add_ai"
)

// Envelope is the wire frame for every channel message: an event name plus
// an event-specific JSON payload.
type Envelope struct {
	Event EventType       `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// GameStatePayload is the full authoritative snapshot.
type GameStatePayload struct {
	Room  Room          `json:"room"`
	Users []Participant `json:"users"`
}

// UserListPayload refreshes the participant roster without touching room
// state (lobby joins, renames, AI swaps).
type UserListPayload struct {
	Users []Participant `json:"users"`
}

// TimerUpdatePayload carries the server round countdown. Display only; the
// server remains authoritative for timeouts.
type TimerUpdatePayload struct {
	Time int `json:"time"`
}

// NotificationPayload carries either a literal message or a translation key
// with parameters. Resolving keys to strings is the renderer's problem.
type NotificationPayload struct {
	Type    string            `json:"type,omitempty"`
	Message string            `json:"message,omitempty"`
	Key     string            `json:"key,omitempty"`
	Params  map[string]string `json:"params,omitempty"`
}

// ErrorPayload is a server-rejected action.
type ErrorPayload struct {
	Message string `json:"message"`
}

// KickedPayload targets one participant; everyone in the room receives it
// and checks the target id against their own session id.
type KickedPayload struct {
	TargetID string `json:"target_id"`
}

// Outbound payloads. Field names match what the server parses.

type JoinGamePayload struct {
	RoomID   string `json:"room_id"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type UpdateProfilePayload struct {
	RoomID   string `json:"room_id"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type StartGamePayload struct {
	RoomID        string `json:"room_id"`
	RoundsPerUser int    `json:"rounds_per_user"`
}

type SubmitStoryPayload struct {
	RoomID string `json:"room_id"`
	CardID string `json:"card_id"`
	Word   Word   `json:"word"`
}

type RefreshWordsPayload struct {
	RoomID string `json:"room_id"`
	UserID string `json:"user_id"`
}

type SubmitCardPayload struct {
	RoomID   string `json:"room_id"`
	UserID   string `json:"user_id"`
	CardID   string `json:"card_id"`
	CardSrc  string `json:"card_src"`
	Username string `json:"username"`
}

type SubmitVotePayload struct {
	RoomID string `json:"room_id"`
	UserID string `json:"user_id"`
	CardID string `json:"card_id"`
}

type NextRoundPayload struct {
	RoomID string `json:"room_id"`
}

type KickUserPayload struct {
	RoomID       string `json:"room_id"`
	UserID       string `json:"user_id"`
	TargetUserID string `json:"target_user_id"`
}

type AddAIPayload struct {
	RoomID string `json:"room_id"`
	UserID string `json:"user_id"`
}

// DecodeEventPayload decodes an inbound envelope's data into the payload
// struct for its event type. Unknown event types return (nil, nil) so the
// channel can skip them without tearing the connection down.
func DecodeEventPayload(env Envelope) (any, error) {
	switch env.Event {
	case EventGameState:
		var p GameStatePayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Event, err)
		}
		return p, nil
	case EventUserList:
		var p UserListPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Event, err)
		}
		return p, nil
	case EventTimerUpdate:
		var p TimerUpdatePayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Event, err)
		}
		return p, nil
	case EventNotification:
		var p NotificationPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Event, err)
		}
		return p, nil
	case EventError:
		var p ErrorPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Event, err)
		}
		return p, nil
	case EventKicked:
		var p KickedPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Event, err)
		}
		return p, nil
	default:
		return nil, nil
	}
}
