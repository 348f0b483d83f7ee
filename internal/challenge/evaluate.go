package challenge

import (
	"fmt"
	"strings"
)

const (
	// ConsolationReward is granted for an attempt that misses required tokens.
	ConsolationReward = 5

	consolationDamage = 5
	victoryDamage     = 100
)

// Outcome is the result of judging one submission.
type Outcome struct {
	Succeeded           bool     `json:"succeeded"`
	RewardGranted       int      `json:"reward_granted"`
	Narrative           string   `json:"narrative"`
	FirstTimeCompletion bool     `json:"first_time_completion"`
	Missing             []string `json:"missing,omitempty"`
	Forbidden           []string `json:"forbidden,omitempty"`
	Damage              int      `json:"damage"`
}

// Evaluate judges a submission. Required tokens are checked first, forbidden
// tokens only when all required ones are present. A repeated win reports
// success without reward.
func Evaluate(submission string, def Definition, alreadyCompleted bool) Outcome {
	missing := make([]string, 0, len(def.RequiredTokens))
	for _, token := range def.RequiredTokens {
		if !strings.Contains(submission, token) {
			missing = append(missing, token)
		}
	}
	if len(missing) > 0 {
		return Outcome{
			RewardGranted: ConsolationReward,
			Narrative:     fmt.Sprintf("Your spell fizzled! You forgot to use: %s", strings.Join(missing, ", ")),
			Missing:       missing,
			Damage:        consolationDamage,
		}
	}

	var forbidden []string
	for _, token := range def.ForbiddenTokens {
		if strings.Contains(submission, token) {
			forbidden = append(forbidden, token)
		}
	}
	if len(forbidden) > 0 {
		return Outcome{
			Narrative: fmt.Sprintf("The Boss absorbs your attack! You used forbidden magic: %s", strings.Join(forbidden, ", ")),
			Forbidden: forbidden,
		}
	}

	outcome := Outcome{
		Succeeded: true,
		Narrative: "CRITICAL HIT! The code compiles perfectly. The Boss is defeated!",
		Damage:    victoryDamage,
	}

	if alreadyCompleted {
		outcome.Narrative += " (You have already defeated this boss, no new XP gained)"
		return outcome
	}

	outcome.RewardGranted = def.RewardPoints
	outcome.FirstTimeCompletion = true
	outcome.Narrative += fmt.Sprintf(" You gained %d XP!", def.RewardPoints)
	return outcome
}
