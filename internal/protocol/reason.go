package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// ScoreCategory identifies why a participant gained (or failed to gain)
// points in the last round.
type ScoreCategory string

const (
	// Storyteller outcomes.
	ScoreSuccess    ScoreCategory = "score_success"
	ScoreAllCorrect ScoreCategory = "score_all_correct"
	ScoreAllFail    ScoreCategory = "score_all_fail"
	// Audience outcomes.
	ScoreCorrect      ScoreCategory = "score_correct"
	ScoreCorrectBonus ScoreCategory = "score_correct_bonus"
	ScoreFail         ScoreCategory = "score_fail"
	ScoreFailBonus    ScoreCategory = "score_fail_bonus"
	// ScoreTrick carries two args: voters baited and points gained.
	ScoreTrick ScoreCategory = "score_trick"
)

// ScoreReason is one parsed token of a participant's last_score_reason.
type ScoreReason struct {
	Category ScoreCategory
	Args     []int
}

// ParseScoreReasons parses the server's reason encoding: one or more
// "|"-joined tokens, each a bare category key or key:arg1:arg2. The string
// form is a wire-compatibility requirement; everything past this function
// works on the structured value. "-" and the empty string mean no reason.
func ParseScoreReasons(raw string) ([]ScoreReason, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "-" {
		return nil, nil
	}
	var reasons []ScoreReason
	for _, token := range strings.Split(raw, "|") {
		parts := strings.Split(token, ":")
		reason := ScoreReason{Category: ScoreCategory(parts[0])}
		for _, arg := range parts[1:] {
			n, err := strconv.Atoi(arg)
			if err != nil {
				return nil, fmt.Errorf("score reason %q: bad arg %q: %w", token, arg, err)
			}
			reason.Args = append(reason.Args, n)
		}
		reasons = append(reasons, reason)
	}
	return reasons, nil
}

// HasCategory reports whether any parsed reason has the given category.
func HasCategory(reasons []ScoreReason, cat ScoreCategory) bool {
	for _, r := range reasons {
		if r.Category == cat {
			return true
		}
	}
	return false
}

// FindCategory returns the first reason with the given category.
func FindCategory(reasons []ScoreReason, cat ScoreCategory) (ScoreReason, bool) {
	for _, r := range reasons {
		if r.Category == cat {
			return r, true
		}
	}
	return ScoreReason{}, false
}
