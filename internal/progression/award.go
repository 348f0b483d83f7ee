package progression

import "fmt"

// Hero is the progression-relevant slice of a candidate record.
type Hero struct {
	XP    int   `json:"experience_points"`
	Level int   `json:"level"`
	Title Title `json:"title"`
}

// Award describes the effect of a single experience grant.
type Award struct {
	XPAwarded   int    `json:"xp_awarded"`
	Reason      string `json:"reason,omitempty"`
	TotalXP     int    `json:"total_xp"`
	LevelBefore int    `json:"level_before"`
	LevelAfter  int    `json:"level_after"`
	LevelUp     bool   `json:"level_up"`
	NewTitle    Title  `json:"new_title,omitempty"`

	// ProgressPercent is how far TotalXP has moved towards the next level.
	ProgressPercent int `json:"progress_percent"`
}

// Advance recomputes level for the hero's current XP. The title is only
// rederived when the level moves (or was never set).
func Advance(h Hero) (Hero, error) {
	if h.Level == 0 {
		h.Level = MinLevel
	}

	p, err := Apply(h.XP, h.Level)
	if err != nil {
		return h, err
	}

	if p.Level != h.Level || h.Title == "" {
		h.Title = p.Title
	}
	h.Level = p.Level

	return h, nil
}

// Grant adds amount to the hero's XP and advances progression.
func Grant(h Hero, amount int, reason string) (Hero, Award, error) {
	if amount < 0 {
		return h, Award{}, fmt.Errorf("%w: %d", ErrNegativeAward, amount)
	}

	before := h.Level
	if before == 0 {
		before = MinLevel
	}

	h.XP += amount
	next, err := Advance(h)
	if err != nil {
		return h, Award{}, err
	}

	award := Award{
		XPAwarded:   amount,
		Reason:      reason,
		TotalXP:     next.XP,
		LevelBefore: before,
		LevelAfter:  next.Level,
		LevelUp:     next.Level > before,

		ProgressPercent: ProgressPercent(next.XP, next.Level),
	}
	if award.LevelUp {
		award.NewTitle = next.Title
	}

	return next, award, nil
}
