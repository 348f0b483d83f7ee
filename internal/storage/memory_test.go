package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spigell/careerquest/internal/board"
	"github.com/spigell/careerquest/internal/challenge"
	"github.com/spigell/careerquest/internal/fitscore"
	"github.com/spigell/careerquest/internal/guild"
)

func TestMemoryCopiesRecords(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	c := guild.Candidate{
		ID:                  "hero-1",
		Level:               1,
		Profile:             fitscore.Candidate{Skills: []fitscore.Skill{{Name: "Go"}}},
		CompletedChallenges: []string{"a"},
	}
	if err := m.SaveCandidate(ctx, c); err != nil {
		t.Fatalf("save: %v", err)
	}

	c.Profile.Skills[0].Name = "mutated"
	c.CompletedChallenges[0] = "mutated"

	got, err := m.LoadCandidate(ctx, "hero-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Profile.Skills[0].Name != "Go" || got.CompletedChallenges[0] != "a" {
		t.Fatalf("store shares memory with caller: %+v", got)
	}
}

func TestMemoryNotFound(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, err := m.LoadCandidate(ctx, "x"); !errors.Is(err, guild.ErrNotFound) {
		t.Fatalf("candidate: expected ErrNotFound, got %v", err)
	}
	if _, err := m.LoadPosting(ctx, "x"); !errors.Is(err, guild.ErrNotFound) {
		t.Fatalf("posting: expected ErrNotFound, got %v", err)
	}
	if _, err := m.LoadChallengeDefinition(ctx, "x"); !errors.Is(err, guild.ErrNotFound) {
		t.Fatalf("challenge: expected ErrNotFound, got %v", err)
	}
}

func TestMemoryListsActiveOnly(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	now := time.Now()

	_ = m.SavePosting(ctx, board.Quest{Posting: fitscore.Posting{ID: "old"}, Active: true, CreatedAt: now.Add(-time.Hour)})
	_ = m.SavePosting(ctx, board.Quest{Posting: fitscore.Posting{ID: "new"}, Active: true, CreatedAt: now})
	_ = m.SavePosting(ctx, board.Quest{Posting: fitscore.Posting{ID: "closed"}, CreatedAt: now})

	quests, _ := m.ListActivePostings(ctx)
	if len(quests) != 2 || quests[0].Posting.ID != "new" || quests[1].Posting.ID != "old" {
		t.Fatalf("unexpected postings %+v", quests)
	}

	defs := challenge.Defaults()
	defs[1].Active = false
	for _, def := range defs {
		_ = m.SaveChallengeDefinition(ctx, def)
	}

	active, _ := m.ListActiveChallengeDefinitions(ctx)
	if len(active) != 2 || active[0].ID != defs[0].ID || active[1].ID != defs[2].ID {
		t.Fatalf("unexpected challenges %+v", active)
	}
}

func TestMemoryFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.json")

	empty, err := OpenFile(ctx, path)
	if err != nil {
		t.Fatalf("open missing file: %v", err)
	}
	_ = empty.SaveCandidate(ctx, guild.Candidate{ID: "hero-1", Level: 3, XP: 600, CompletedChallenges: []string{"boss"}})
	_ = empty.SaveChallengeDefinition(ctx, challenge.Defaults()[0])
	if err := empty.WriteFile(path); err != nil {
		t.Fatalf("write: %v", err)
	}

	reopened, err := OpenFile(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	c, err := reopened.LoadCandidate(ctx, "hero-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.XP != 600 || !c.HasCompleted("boss") {
		t.Fatalf("unexpected candidate %+v", c)
	}
	defs, _ := reopened.ListActiveChallengeDefinitions(ctx)
	if len(defs) != 1 {
		t.Fatalf("expected one challenge, got %d", len(defs))
	}
}

func TestWriteFileDetectsConcurrentWriter(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.json")

	seed := NewMemory()
	_ = seed.SaveCandidate(ctx, guild.Candidate{ID: "hero-1", Level: 1, XP: 10})
	if err := seed.WriteFile(path); err != nil {
		t.Fatalf("seed: %v", err)
	}

	first, err := OpenFile(ctx, path)
	if err != nil {
		t.Fatalf("open first: %v", err)
	}
	second, err := OpenFile(ctx, path)
	if err != nil {
		t.Fatalf("open second: %v", err)
	}

	_ = first.SaveCandidate(ctx, guild.Candidate{ID: "hero-1", Level: 1, XP: 40})
	if err := first.WriteFile(path); err != nil {
		t.Fatalf("first write: %v", err)
	}
	// the store keeps tracking its own writes
	_ = first.SaveCandidate(ctx, guild.Candidate{ID: "hero-1", Level: 1, XP: 60})
	if err := first.WriteFile(path); err != nil {
		t.Fatalf("second write from same store: %v", err)
	}

	_ = second.SaveCandidate(ctx, guild.Candidate{ID: "hero-1", Level: 1, XP: 25})
	if err := second.WriteFile(path); !errors.Is(err, ErrConcurrentModification) {
		t.Fatalf("expected ErrConcurrentModification, got %v", err)
	}

	onDisk, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(onDisk.Candidates) != 1 || onDisk.Candidates[0].XP != 60 {
		t.Fatalf("stale write replaced the file: %+v", onDisk.Candidates)
	}
}

func TestWriteFileDetectsFileCreatedAfterOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.json")

	m, err := OpenFile(ctx, path)
	if err != nil {
		t.Fatalf("open missing file: %v", err)
	}
	if err := os.WriteFile(path, []byte(`{"candidates":[]}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := m.WriteFile(path); !errors.Is(err, ErrConcurrentModification) {
		t.Fatalf("expected ErrConcurrentModification, got %v", err)
	}
}

func TestOpenFileRejectsInvalidChallenge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(`{"challenges":[{"id":"x","title":"x","reward_points":0}]}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := OpenFile(context.Background(), path); !errors.Is(err, challenge.ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition, got %v", err)
	}
}
