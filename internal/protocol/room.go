package protocol

import (
	"encoding/json"
	"fmt"
)

// RoomStatus is the top-level lifecycle state of a room.
type RoomStatus string

const (
	StatusWaiting RoomStatus = "waiting"
	StatusPlaying RoomStatus = "playing"
)

// Phase is the step within a round's lifecycle. It is a closed enum: the
// server owns phase progression and the client only ever reads it from the
// latest snapshot, so an unrecognized value means a protocol mismatch and is
// rejected at decode time rather than rendered as nothing.
type Phase string

const (
	// PhaseNone is the zero value, present before the first game snapshot.
	PhaseNone               Phase = ""
	PhaseStorytellerChoosing Phase = "storyteller_choosing"
	PhaseAudienceSubmitting  Phase = "audience_submitting"
	PhaseVoting              Phase = "voting"
	PhaseResult              Phase = "result"
	PhaseGameOver            Phase = "game_over"
)

func (p *Phase) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("phase must be a string: %w", err)
	}
	switch Phase(s) {
	case PhaseNone, PhaseStorytellerChoosing, PhaseAudienceSubmitting, PhaseVoting, PhaseResult, PhaseGameOver:
		*p = Phase(s)
		return nil
	default:
		return fmt.Errorf("unknown phase %q", s)
	}
}

// Word is a prompt word. The server sends either a bare string or a
// per-language object ({"ko": ..., "en": ...}); both decode into one type.
type Word struct {
	Text         string
	Translations map[string]string
}

func (w *Word) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		w.Text = s
		w.Translations = nil
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("word must be a string or a language map: %w", err)
	}
	w.Translations = m
	if t, ok := m["ko"]; ok {
		w.Text = t
	} else {
		for _, t := range m {
			w.Text = t
			break
		}
	}
	return nil
}

func (w Word) MarshalJSON() ([]byte, error) {
	if w.Translations != nil {
		return json.Marshal(w.Translations)
	}
	return json.Marshal(w.Text)
}

// Display returns the word in the requested language, falling back to the
// primary text.
func (w Word) Display(lang string) string {
	if t, ok := w.Translations[lang]; ok {
		return t
	}
	return w.Text
}

func (w Word) IsZero() bool {
	return w.Text == "" && w.Translations == nil
}

// Card is a hand card. Identity is stable within a hand; during voting the
// same picture travels as a VotingCard under a decoupled candidate id.
type Card struct {
	ID    string `json:"id"`
	Src   string `json:"src"`
	IsNew bool   `json:"is_new,omitempty"`
}

// VotingCard is a submitted card as seen during the voting phase. CardID is
// the candidate identity; UserID identifies the submitter and is used only
// to stop a participant voting for their own card before the reveal.
type VotingCard struct {
	CardID        string `json:"card_id"`
	CardSrc       string `json:"card_src"`
	UserID        string `json:"user_id"`
	Username      string `json:"username"`
	IsStoryteller bool   `json:"is_storyteller"`
}

// RoundResult is a voting card with its reveal data attached.
type RoundResult struct {
	VotingCard
	Voters []string `json:"voters"`
}

// Participant is the server's view of one player, mirrored read-only on the
// client and replaced wholesale on every snapshot. Hand is populated only
// for the entry matching the local session identity.
type Participant struct {
	UserID          string  `json:"user_id"`
	Username        string  `json:"username"`
	Score           int     `json:"score"`
	Hand            []Card  `json:"hand,omitempty"`
	IsAI            bool    `json:"is_ai,omitempty"`
	Connected       bool    `json:"connected,omitempty"`
	JoinedAt        float64 `json:"joined_at,omitempty"`
	SubmittedCount  int     `json:"submitted_count,omitempty"`
	Submitted       bool    `json:"submitted,omitempty"`
	Voted           bool    `json:"voted,omitempty"`
	LastGainedScore int     `json:"last_gained_score,omitempty"`
	LastScoreReason string  `json:"last_score_reason,omitempty"`
}

// Room is the authoritative room state. The client never patches individual
// fields; each snapshot replaces the whole mirror.
type Room struct {
	ID                string        `json:"id"`
	Name              string        `json:"name,omitempty"`
	Status            RoomStatus    `json:"status"`
	HostID            string        `json:"host_id"`
	Phase             Phase         `json:"phase,omitempty"`
	CurrentRound      int           `json:"current_round,omitempty"`
	TotalRounds       int           `json:"total_rounds,omitempty"`
	StorytellerID     string        `json:"storyteller_id,omitempty"`
	StorytellerCardID string        `json:"storyteller_card_id,omitempty"`
	SelectedWord      *Word         `json:"selected_word,omitempty"`
	WordCandidates    []Word        `json:"word_candidates,omitempty"`
	RerollCount       int           `json:"reroll_count,omitempty"`
	AudienceCardLimit int           `json:"audience_card_limit,omitempty"`
	VotingCandidates  []VotingCard  `json:"voting_candidates,omitempty"`
	RoundResults      []RoundResult `json:"round_results,omitempty"`
}

// FindParticipant returns the participant with the given id, or nil.
func FindParticipant(users []Participant, userID string) *Participant {
	for i := range users {
		if users[i].UserID == userID {
			return &users[i]
		}
	}
	return nil
}
