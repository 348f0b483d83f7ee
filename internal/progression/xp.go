package progression

import (
	"errors"
	"fmt"
	"math"
)

const (
	// MinLevel is the level every hero starts at.
	MinLevel = 1
	// MaxLevel caps progression. Experience beyond its threshold keeps accumulating.
	MaxLevel = 100

	thresholdCoef = 100.0
)

var (
	ErrNegativeXP    = errors.New("experience points must not be negative")
	ErrInvalidLevel  = errors.New("level is out of range")
	ErrNegativeAward = errors.New("award amount must not be negative")
)

// Progress is the derived (level, title) pair for an experience total.
type Progress struct {
	Level int   `json:"level"`
	Title Title `json:"title"`
}

// XPThreshold returns the experience total needed to leave the given level:
// floor(100 * level^1.5).
func XPThreshold(level int) int {
	if level <= 0 {
		return 0
	}
	l := float64(level)
	// level*sqrt(level) keeps perfect squares exact, math.Pow(l, 1.5) does not.
	return int(math.Floor(thresholdCoef * l * math.Sqrt(l)))
}

// Apply advances level while xp crosses the threshold of the current level.
// A single large reward can cross several thresholds at once.
func Apply(xp, level int) (Progress, error) {
	if xp < 0 {
		return Progress{}, fmt.Errorf("%w: %d", ErrNegativeXP, xp)
	}
	if level < MinLevel || level > MaxLevel {
		return Progress{}, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}

	for level < MaxLevel && xp >= XPThreshold(level) {
		level++
	}

	return Progress{Level: level, Title: TitleFor(level)}, nil
}

// ProgressPercent reports how far xp has moved from the previous threshold
// towards the next one. Max level always reports 100.
func ProgressPercent(xp, level int) int {
	if level >= MaxLevel {
		return 100
	}
	if level < MinLevel {
		level = MinLevel
	}

	floor := 0
	if level > MinLevel {
		floor = XPThreshold(level - 1)
	}
	next := XPThreshold(level)
	if next <= floor || xp <= floor {
		return 0
	}

	pct := (xp - floor) * 100 / (next - floor)
	return min(pct, 100)
}
