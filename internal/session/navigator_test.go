package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zoomHand(ids ...string) []ZoomCard {
	out := make([]ZoomCard, len(ids))
	for i, id := range ids {
		out[i] = ZoomCard{ID: id}
	}
	return out
}

func TestZoomNavigatorCycles(t *testing.T) {
	cards := zoomHand("a", "b", "c")
	n := NewZoomNavigator()

	_, ok := n.Current()
	assert.False(t, ok)

	n.Open(cards[2])
	n.Next(cards)
	cur, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, "a", cur.ID)

	n.Prev(cards)
	n.Prev(cards)
	cur, _ = n.Current()
	assert.Equal(t, "b", cur.ID)

	n.Close()
	_, ok = n.Current()
	assert.False(t, ok)

	// Movement without an open card is a no-op.
	n.Next(cards)
	_, ok = n.Current()
	assert.False(t, ok)
}

func TestZoomNavigatorSingleCard(t *testing.T) {
	cards := zoomHand("only")
	n := NewZoomNavigator()
	n.Open(cards[0])
	n.Next(cards)
	cur, _ := n.Current()
	assert.Equal(t, "only", cur.ID)
	n.Prev(cards)
	cur, _ = n.Current()
	assert.Equal(t, "only", cur.ID)
}

func TestZoomNavigatorKeepsCandidateFlag(t *testing.T) {
	cards := []ZoomCard{
		{ID: "v1", VotingCandidate: true},
		{ID: "v2", VotingCandidate: true},
	}
	n := NewZoomNavigator()
	n.Open(cards[0])
	n.Next(cards)
	cur, _ := n.Current()
	assert.True(t, cur.VotingCandidate)
}

func TestSwipeRecognizer(t *testing.T) {
	r := NewSwipeRecognizer(50)

	r.Begin(200)
	r.Move(140)
	assert.Equal(t, SwipeNext, r.End())

	r.Begin(200)
	r.Move(270)
	assert.Equal(t, SwipePrev, r.End())

	r.Begin(200)
	r.Move(230)
	assert.Equal(t, SwipeNone, r.End())

	// End without movement is a tap, not a swipe.
	r.Begin(200)
	assert.Equal(t, SwipeNone, r.End())

	// End without Begin does nothing.
	assert.Equal(t, SwipeNone, r.End())
}
