// Package guild is the calling layer of the engine: it loads records, runs the
// pure scoring and validation functions, and writes mutations back.
package guild

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/spigell/careerquest/internal/board"
	"github.com/spigell/careerquest/internal/challenge"
	"github.com/spigell/careerquest/internal/fitscore"
	"github.com/spigell/careerquest/internal/progression"
)

var ErrNotFound = errors.New("record not found")

// Candidate is the persisted hero record.
type Candidate struct {
	ID                  string             `json:"id" validate:"required"`
	Name                string             `json:"name,omitempty"`
	XP                  int                `json:"xp" validate:"gte=0"`
	Level               int                `json:"level" validate:"gte=1,lte=100"`
	Title               progression.Title  `json:"title"`
	Profile             fitscore.Candidate `json:"profile"`
	CompletedChallenges []string           `json:"completed_challenges"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// Hero returns the progression view of the record.
func (c Candidate) Hero() progression.Hero {
	return progression.Hero{XP: c.XP, Level: c.Level, Title: c.Title}
}

// WithHero copies progression state back into the record.
func (c Candidate) WithHero(h progression.Hero) Candidate {
	c.XP, c.Level, c.Title = h.XP, h.Level, h.Title
	return c
}

func (c Candidate) HasCompleted(challengeID string) bool {
	return slices.Contains(c.CompletedChallenges, challengeID)
}

// MarkCompleted inserts the id once. It reports whether the set changed.
func (c *Candidate) MarkCompleted(challengeID string) bool {
	if c.HasCompleted(challengeID) {
		return false
	}
	c.CompletedChallenges = append(c.CompletedChallenges, challengeID)
	return true
}

// Store is the persistence collaborator. Implementations wrap their own
// failures and return ErrNotFound for missing records.
type Store interface {
	LoadCandidate(ctx context.Context, id string) (Candidate, error)
	SaveCandidate(ctx context.Context, c Candidate) error
	LoadPosting(ctx context.Context, id string) (board.Quest, error)
	ListActivePostings(ctx context.Context) ([]board.Quest, error)
	LoadChallengeDefinition(ctx context.Context, id string) (challenge.Definition, error)
	ListActiveChallengeDefinitions(ctx context.Context) ([]challenge.Definition, error)
	SaveChallengeDefinition(ctx context.Context, def challenge.Definition) error
}

// Updater is implemented by stores that can run a read-modify-write of one
// candidate atomically. fn reports whether the record must be written back.
type Updater interface {
	UpdateCandidate(ctx context.Context, id string, fn func(*Candidate) (bool, error)) error
}
