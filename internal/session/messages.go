package session

import (
	"github.com/rs/zerolog/log"

	"github.com/luke-woojudaddy/Mind-Sync/internal/protocol"
)

// ResultCategory names the outcome shown to the local player when the
// result phase opens.
type ResultCategory string

const (
	// Storyteller outcomes.
	ResultStorytellerSuccess ResultCategory = "storyteller_success"
	ResultStorytellerFail    ResultCategory = "storyteller_fail"

	// Audience outcomes.
	ResultCorrect ResultCategory = "correct"
	ResultBaited  ResultCategory = "baited"
	ResultScored  ResultCategory = "scored"
	ResultZero    ResultCategory = "zero"
)

// RankCategory names where the local player landed in the final standings.
type RankCategory string

const (
	RankWinner RankCategory = "winner"
	RankLast   RankCategory = "last"
	RankMiddle RankCategory = "middle"
)

// ResultMessage summarizes the local player's round outcome.
type ResultMessage struct {
	Category    ResultCategory
	GainedScore int
	// TrickVotes and TrickPoints are set only for ResultBaited.
	TrickVotes  int
	TrickPoints int
}

// classifyResult derives the local player's result message from the score
// reasons the server attached to the participant. Storyteller and audience
// read different reason sets, so the caller says which role applies.
func classifyResult(me *protocol.Participant, storyteller bool) ResultMessage {
	msg := ResultMessage{GainedScore: me.LastGainedScore}
	reasons, err := protocol.ParseScoreReasons(me.LastScoreReason)
	if err != nil {
		log.Warn().Err(err).Str("reason", me.LastScoreReason).Msg("unparseable score reason")
	}

	if storyteller {
		if me.LastGainedScore == 0 {
			msg.Category = ResultStorytellerFail
		} else {
			msg.Category = ResultStorytellerSuccess
		}
		return msg
	}

	switch {
	case protocol.HasCategory(reasons, protocol.ScoreCorrect),
		protocol.HasCategory(reasons, protocol.ScoreCorrectBonus):
		msg.Category = ResultCorrect
	case protocol.HasCategory(reasons, protocol.ScoreTrick):
		msg.Category = ResultBaited
		if r, ok := protocol.FindCategory(reasons, protocol.ScoreTrick); ok && len(r.Args) >= 2 {
			msg.TrickVotes = r.Args[0]
			msg.TrickPoints = r.Args[1]
		}
	case me.LastGainedScore > 0:
		msg.Category = ResultScored
	default:
		msg.Category = ResultZero
	}
	return msg
}

// rankCategory places the local player in the final standings. Ties share
// the winner slot; a solo game is always a win.
func rankCategory(users []protocol.Participant, userID string) RankCategory {
	var mine, best, worst int
	found := false
	for i, u := range users {
		if i == 0 || u.Score > best {
			best = u.Score
		}
		if i == 0 || u.Score < worst {
			worst = u.Score
		}
		if u.UserID == userID {
			mine = u.Score
			found = true
		}
	}
	if !found {
		return RankMiddle
	}
	switch {
	case mine == best:
		return RankWinner
	case mine == worst:
		return RankLast
	default:
		return RankMiddle
	}
}
