package session

import "math/rand"

// defaultTips rotate on the waiting overlay while the audience submits.
var defaultTips = []string{
	"The storyteller's clue should be vague enough that not everyone guesses it.",
	"If every player finds the storyteller's card, the storyteller scores nothing.",
	"If nobody finds the storyteller's card, the storyteller also scores nothing.",
	"Votes on your decoy card earn you bonus points.",
	"You cannot vote for your own card.",
	"Watch which cards other players linger on before voting.",
	"A clue that is too obvious gives everyone easy points except you.",
	"Abstract cards make better decoys than literal ones.",
	"The storyteller can reroll the word candidates a limited number of times.",
	"Submitting more decoys raises your odds of baiting a vote.",
	"Scores carry across rounds, so a slow start is recoverable.",
	"Think about what the storyteller would associate with the clue, not you.",
	"New cards in your hand are marked so you can spot fresh options.",
	"Everyone takes a turn as storyteller before the game ends.",
	"A baited vote is worth more than a lucky guess.",
}

// pickTip returns a random tip, avoiding an immediate repeat of current
// when more than one tip exists.
func pickTip(tips []string, current string) string {
	if len(tips) == 0 {
		return ""
	}
	if len(tips) == 1 {
		return tips[0]
	}
	for {
		t := tips[rand.Intn(len(tips))]
		if t != current {
			return t
		}
	}
}
