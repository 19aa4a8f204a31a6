package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/luke-woojudaddy/Mind-Sync/internal/protocol"
)

func TestClassifyResult(t *testing.T) {
	tests := []struct {
		name        string
		participant protocol.Participant
		storyteller bool
		want        ResultCategory
	}{
		{
			name:        "storyteller scored",
			participant: protocol.Participant{LastGainedScore: 3, LastScoreReason: "score_success"},
			storyteller: true,
			want:        ResultStorytellerSuccess,
		},
		{
			name:        "storyteller everyone guessed",
			participant: protocol.Participant{LastGainedScore: 0, LastScoreReason: "score_all_correct"},
			storyteller: true,
			want:        ResultStorytellerFail,
		},
		{
			name:        "audience guessed right",
			participant: protocol.Participant{LastGainedScore: 3, LastScoreReason: "score_correct"},
			want:        ResultCorrect,
		},
		{
			name:        "audience guessed right with bonus",
			participant: protocol.Participant{LastGainedScore: 4, LastScoreReason: "score_correct|score_correct_bonus"},
			want:        ResultCorrect,
		},
		{
			name:        "audience baited votes",
			participant: protocol.Participant{LastGainedScore: 2, LastScoreReason: "score_trick:2:2"},
			want:        ResultBaited,
		},
		{
			name:        "audience scored without reasons",
			participant: protocol.Participant{LastGainedScore: 1, LastScoreReason: "-"},
			want:        ResultScored,
		},
		{
			name:        "audience empty round",
			participant: protocol.Participant{LastGainedScore: 0, LastScoreReason: "-"},
			want:        ResultZero,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyResult(&tt.participant, tt.storyteller)
			assert.Equal(t, tt.want, got.Category)
		})
	}
}

func TestClassifyResultTrickDetails(t *testing.T) {
	p := protocol.Participant{LastGainedScore: 3, LastScoreReason: "score_trick:3:3"}
	got := classifyResult(&p, false)
	assert.Equal(t, 3, got.TrickVotes)
	assert.Equal(t, 3, got.TrickPoints)
}

func TestRankCategory(t *testing.T) {
	users := []protocol.Participant{
		{UserID: "a", Score: 10},
		{UserID: "b", Score: 7},
		{UserID: "c", Score: 2},
	}
	assert.Equal(t, RankWinner, rankCategory(users, "a"))
	assert.Equal(t, RankMiddle, rankCategory(users, "b"))
	assert.Equal(t, RankLast, rankCategory(users, "c"))
	assert.Equal(t, RankMiddle, rankCategory(users, "missing"))

	tied := []protocol.Participant{
		{UserID: "a", Score: 10},
		{UserID: "b", Score: 10},
	}
	assert.Equal(t, RankWinner, rankCategory(tied, "b"))

	solo := []protocol.Participant{{UserID: "a", Score: 0}}
	assert.Equal(t, RankWinner, rankCategory(solo, "a"))
}
