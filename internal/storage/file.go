package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spigell/careerquest/internal/board"
	"github.com/spigell/careerquest/internal/challenge"
	"github.com/spigell/careerquest/internal/guild"
)

// Snapshot is the on-disk form of a store's contents.
type Snapshot struct {
	Candidates []guild.Candidate      `json:"candidates"`
	Postings   []board.Quest          `json:"postings"`
	Challenges []challenge.Definition `json:"challenges"`
}

// ErrConcurrentModification is returned by WriteFile when the data file
// changed on disk after the store was loaded from it.
var ErrConcurrentModification = errors.New("data file modified by another process")

// ReadSnapshot decodes a snapshot file. A missing file yields an empty snapshot.
func ReadSnapshot(path string) (Snapshot, error) {
	snap, _, err := readSnapshot(path)
	return snap, err
}

func readSnapshot(path string) (Snapshot, string, error) {
	var snap Snapshot

	data, err := readDataFile(path)
	if err != nil {
		return snap, "", err
	}
	if data == nil {
		return snap, "", nil
	}

	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, "", fmt.Errorf("decode data file %q: %w", path, err)
	}
	return snap, digest(data), nil
}

// readDataFile returns nil for a missing file.
func readDataFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read data file %q: %w", path, err)
	}
	return data, nil
}

// digest is empty for a missing file.
func digest(data []byte) string {
	if data == nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Import writes every record of the snapshot into the store.
func Import(ctx context.Context, snap Snapshot, store Writer) error {
	for _, def := range snap.Challenges {
		if err := def.Validate(); err != nil {
			return fmt.Errorf("challenge %q: %w", def.Title, err)
		}
		if err := store.SaveChallengeDefinition(ctx, def); err != nil {
			return err
		}
	}
	for _, q := range snap.Postings {
		if err := store.SavePosting(ctx, q); err != nil {
			return err
		}
	}
	for _, c := range snap.Candidates {
		if err := store.SaveCandidate(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// Writer is the write side shared by Memory and Postgres.
type Writer interface {
	SaveCandidate(ctx context.Context, c guild.Candidate) error
	SavePosting(ctx context.Context, q board.Quest) error
	SaveChallengeDefinition(ctx context.Context, def challenge.Definition) error
}

// OpenFile builds a Memory store preloaded from path. WriteFile on the
// returned store refuses to overwrite the file if it changed in between.
func OpenFile(ctx context.Context, path string) (*Memory, error) {
	snap, sum, err := readSnapshot(path)
	if err != nil {
		return nil, err
	}

	m := NewMemory()
	if err := Import(ctx, snap, m); err != nil {
		return nil, fmt.Errorf("load data file %q: %w", path, err)
	}
	m.loaded = &loadedFile{path: path, digest: sum}
	return m, nil
}

// Snapshot copies the store contents in a stable order.
func (m *Memory) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{
		Candidates: make([]guild.Candidate, 0, len(m.candidates)),
		Postings:   make([]board.Quest, 0, len(m.postings)),
		Challenges: make([]challenge.Definition, 0, len(m.order)),
	}
	for _, c := range m.candidates {
		snap.Candidates = append(snap.Candidates, copyCandidate(c))
	}
	for _, q := range m.postings {
		snap.Postings = append(snap.Postings, copyQuest(q))
	}
	for _, id := range m.order {
		snap.Challenges = append(snap.Challenges, copyDefinition(m.challenges[id]))
	}

	sort.Slice(snap.Candidates, func(i, j int) bool { return snap.Candidates[i].ID < snap.Candidates[j].ID })
	sort.Slice(snap.Postings, func(i, j int) bool { return snap.Postings[i].Posting.ID < snap.Postings[j].Posting.ID })
	return snap
}

// WriteFile stores the snapshot atomically next to path. When path is the
// file the store was opened from, the write fails with
// ErrConcurrentModification if another writer replaced it since.
func (m *Memory) WriteFile(path string) error {
	data, err := json.MarshalIndent(m.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode data file: %w", err)
	}

	m.fileMu.Lock()
	defer m.fileMu.Unlock()

	if m.loaded != nil && m.loaded.path == path {
		current, err := readDataFile(path)
		if err != nil {
			return err
		}
		if digest(current) != m.loaded.digest {
			return fmt.Errorf("write %q: %w", path, ErrConcurrentModification)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp data file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close data file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace data file %q: %w", path, err)
	}
	if m.loaded != nil && m.loaded.path == path {
		m.loaded.digest = digest(data)
	}
	return nil
}

type loadedFile struct {
	path   string
	digest string
}
