package storage

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/spigell/careerquest/internal/board"
	"github.com/spigell/careerquest/internal/challenge"
	"github.com/spigell/careerquest/internal/fitscore"
	"github.com/spigell/careerquest/internal/guild"
)

// Memory is a process-local store. Records are copied on the way in and out.
type Memory struct {
	mu         sync.RWMutex
	candidates map[string]guild.Candidate
	postings   map[string]board.Quest
	challenges map[string]challenge.Definition
	order      []string

	fileMu sync.Mutex
	loaded *loadedFile
}

func NewMemory() *Memory {
	return &Memory{
		candidates: make(map[string]guild.Candidate),
		postings:   make(map[string]board.Quest),
		challenges: make(map[string]challenge.Definition),
	}
}

func (m *Memory) LoadCandidate(_ context.Context, id string) (guild.Candidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.candidates[id]
	if !ok {
		return guild.Candidate{}, fmt.Errorf("candidate %s: %w", id, guild.ErrNotFound)
	}
	return copyCandidate(c), nil
}

func (m *Memory) SaveCandidate(_ context.Context, c guild.Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.candidates[c.ID] = copyCandidate(c)
	return nil
}

func (m *Memory) LoadPosting(_ context.Context, id string) (board.Quest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	q, ok := m.postings[id]
	if !ok {
		return board.Quest{}, fmt.Errorf("posting %s: %w", id, guild.ErrNotFound)
	}
	return copyQuest(q), nil
}

// SavePosting stores or replaces a posting.
func (m *Memory) SavePosting(_ context.Context, q board.Quest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.postings[q.Posting.ID] = copyQuest(q)
	return nil
}

// ListActivePostings returns active postings, newest first.
func (m *Memory) ListActivePostings(_ context.Context) ([]board.Quest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	quests := make([]board.Quest, 0, len(m.postings))
	for _, q := range m.postings {
		if q.Active {
			quests = append(quests, copyQuest(q))
		}
	}
	sort.Slice(quests, func(i, j int) bool {
		if quests[i].CreatedAt.Equal(quests[j].CreatedAt) {
			return quests[i].Posting.ID < quests[j].Posting.ID
		}
		return quests[i].CreatedAt.After(quests[j].CreatedAt)
	})
	return quests, nil
}

func (m *Memory) LoadChallengeDefinition(_ context.Context, id string) (challenge.Definition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	def, ok := m.challenges[id]
	if !ok {
		return challenge.Definition{}, fmt.Errorf("challenge %s: %w", id, guild.ErrNotFound)
	}
	return copyDefinition(def), nil
}

// ListActiveChallengeDefinitions returns active definitions in insertion order.
func (m *Memory) ListActiveChallengeDefinitions(_ context.Context) ([]challenge.Definition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	defs := make([]challenge.Definition, 0, len(m.order))
	for _, id := range m.order {
		if def := m.challenges[id]; def.Active {
			defs = append(defs, copyDefinition(def))
		}
	}
	return defs, nil
}

// SaveChallengeDefinition stores a new definition. Definitions are immutable,
// so saving an existing id is a no-op.
func (m *Memory) SaveChallengeDefinition(_ context.Context, def challenge.Definition) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.challenges[def.ID]; ok {
		return nil
	}
	m.order = append(m.order, def.ID)
	m.challenges[def.ID] = copyDefinition(def)
	return nil
}

func copyCandidate(c guild.Candidate) guild.Candidate {
	c.Profile = fitscore.Candidate{
		Skills:     slices.Clone(c.Profile.Skills),
		Experience: slices.Clone(c.Profile.Experience),
		Education:  slices.Clone(c.Profile.Education),
	}
	c.CompletedChallenges = slices.Clone(c.CompletedChallenges)
	return c
}

func copyQuest(q board.Quest) board.Quest {
	q.Posting.Requirements = slices.Clone(q.Posting.Requirements)
	return q
}

func copyDefinition(d challenge.Definition) challenge.Definition {
	d.RequiredTokens = slices.Clone(d.RequiredTokens)
	d.ForbiddenTokens = slices.Clone(d.ForbiddenTokens)
	return d
}
