package progression

import (
	"errors"
	"fmt"
	"strings"
)

// Event names an activity that earns experience.
type Event string

const (
	EventDailyLogin           Event = "daily_login"
	EventApplicationSubmitted Event = "application_submitted"
	EventInterviewCompleted   Event = "interview_completed"
	EventCVGenerated          Event = "cv_generated"
	EventSkillAdded           Event = "skill_added"
	EventMentorConnected      Event = "mentor_connected"
	EventBarterCompleted      Event = "barter_completed"
	EventProfileCompleted     Event = "profile_completed"
)

var ErrUnknownEvent = errors.New("unknown reward event")

// Rewards maps events to XP amounts.
type Rewards map[Event]int

// DefaultRewards returns a fresh copy of the built-in reward table.
func DefaultRewards() Rewards {
	return Rewards{
		EventDailyLogin:           10,
		EventApplicationSubmitted: 25,
		EventInterviewCompleted:   50,
		EventCVGenerated:          15,
		EventSkillAdded:           20,
		EventMentorConnected:      30,
		EventBarterCompleted:      40,
		EventProfileCompleted:     100,
	}
}

// WithOverrides returns the defaults patched with configured amounts.
// Keys are matched case-insensitively; negative amounts are rejected.
func WithOverrides(overrides map[string]int) (Rewards, error) {
	rewards := DefaultRewards()
	for name, amount := range overrides {
		if amount < 0 {
			return nil, fmt.Errorf("reward %q: %w", name, ErrNegativeAward)
		}
		rewards[Event(strings.ToLower(strings.TrimSpace(name)))] = amount
	}
	return rewards, nil
}

// Lookup returns the XP amount for an event.
func (r Rewards) Lookup(e Event) (int, error) {
	amount, ok := r[e]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownEvent, e)
	}
	return amount, nil
}
