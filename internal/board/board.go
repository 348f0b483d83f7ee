// Package board builds a hero's quest board: postings scored in bulk and
// passed through a chain of filtering steps.
package board

import (
	"time"

	"github.com/spigell/careerquest/internal/enrich"
	"github.com/spigell/careerquest/internal/fitscore"
)

// Quest is a stored posting with its listing metadata.
type Quest struct {
	Posting   fitscore.Posting `json:"posting"`
	Active    bool             `json:"active"`
	CreatedAt time.Time        `json:"created_at"`
}

// Entry is a quest together with the assessment shown on the board.
type Entry struct {
	Quest      Quest               `json:"quest"`
	Assessment fitscore.Assessment `json:"assessment"`
	Source     enrich.Source       `json:"source"`
}

// Board is the ordered set of entries a pipeline works on.
type Board struct {
	Entries []*Entry `json:"entries"`
}

// New quick-scores every quest for the candidate. Input order is preserved.
func New(c fitscore.Candidate, quests []Quest) *Board {
	postings := make([]fitscore.Posting, len(quests))
	for i, q := range quests {
		postings[i] = q.Posting
	}

	scored := fitscore.Board(c, postings)
	entries := make([]*Entry, len(quests))
	for i, q := range quests {
		entries[i] = &Entry{
			Quest:      q,
			Assessment: scored[i].Assessment,
			Source:     enrich.SourceDeterministic,
		}
	}

	return &Board{Entries: entries}
}

func (b *Board) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Entries)
}

// Exclude drops every entry matching drop and returns the dropped posting ids.
func (b *Board) Exclude(drop func(*Entry) bool) []string {
	kept := b.Entries[:0]
	var excluded []string
	for _, e := range b.Entries {
		if drop(e) {
			excluded = append(excluded, e.Quest.Posting.ID)
			continue
		}
		kept = append(kept, e)
	}
	clear(b.Entries[len(kept):])
	b.Entries = kept
	return excluded
}

// Postings returns the scoring view of every entry.
func (b *Board) Postings() []fitscore.Posting {
	postings := make([]fitscore.Posting, 0, b.Len())
	for _, e := range b.Entries {
		postings = append(postings, e.Quest.Posting)
	}
	return postings
}
