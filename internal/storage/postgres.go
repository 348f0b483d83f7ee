package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spigell/careerquest/internal/board"
	"github.com/spigell/careerquest/internal/challenge"
	"github.com/spigell/careerquest/internal/fitscore"
	"github.com/spigell/careerquest/internal/guild"
	"github.com/spigell/careerquest/internal/progression"
)

// Postgres implements guild.Store on top of database/sql.
type Postgres struct {
	DB *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{DB: db}
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const selectCandidate = `
SELECT id, name, experience_points, level, title, skills, experience, education, completed_challenges, updated_at
FROM candidates
WHERE id = $1`

func (p *Postgres) LoadCandidate(ctx context.Context, id string) (guild.Candidate, error) {
	return loadCandidate(ctx, p.DB, selectCandidate, id)
}

// SaveCandidate upserts the record.
func (p *Postgres) SaveCandidate(ctx context.Context, c guild.Candidate) error {
	return upsertCandidate(ctx, p.DB, c)
}

// UpdateCandidate loads the row with FOR UPDATE, applies fn and writes the
// result back in the same transaction. Concurrent updaters of the same
// candidate queue behind the row lock.
func (p *Postgres) UpdateCandidate(ctx context.Context, id string, fn func(*guild.Candidate) (bool, error)) error {
	return WithTx(ctx, p.DB, func(tx *sql.Tx) error {
		c, err := loadCandidate(ctx, tx, selectCandidate+" FOR UPDATE", id)
		if err != nil {
			return err
		}

		save, err := fn(&c)
		if err != nil || !save {
			return err
		}
		return upsertCandidate(ctx, tx, c)
	})
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertCandidate(ctx context.Context, db execer, c guild.Candidate) error {
	skills, err := marshalJSONB(c.Profile.Skills)
	if err != nil {
		return err
	}
	experience, err := marshalJSONB(c.Profile.Experience)
	if err != nil {
		return err
	}
	education, err := marshalJSONB(c.Profile.Education)
	if err != nil {
		return err
	}
	completed, err := marshalJSONB(c.CompletedChallenges)
	if err != nil {
		return err
	}

	updatedAt := c.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	const upsert = `
INSERT INTO candidates (id, name, experience_points, level, title, skills, experience, education, completed_challenges, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	experience_points = EXCLUDED.experience_points,
	level = EXCLUDED.level,
	title = EXCLUDED.title,
	skills = EXCLUDED.skills,
	experience = EXCLUDED.experience,
	education = EXCLUDED.education,
	completed_challenges = EXCLUDED.completed_challenges,
	updated_at = EXCLUDED.updated_at`

	if _, err := db.ExecContext(ctx, upsert,
		c.ID,
		c.Name,
		c.XP,
		c.Level,
		string(c.Title),
		skills,
		experience,
		education,
		completed,
		updatedAt,
	); err != nil {
		return fmt.Errorf("save candidate %s: %w", c.ID, err)
	}
	return nil
}

func (p *Postgres) LoadPosting(ctx context.Context, id string) (board.Quest, error) {
	const query = `
SELECT id, title, guild, description, requirements, difficulty, active, created_at
FROM postings
WHERE id = $1`

	q, err := scanQuest(p.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return board.Quest{}, fmt.Errorf("posting %s: %w", id, guild.ErrNotFound)
	}
	if err != nil {
		return board.Quest{}, fmt.Errorf("load posting %s: %w", id, err)
	}
	return q, nil
}

func (p *Postgres) SavePosting(ctx context.Context, q board.Quest) error {
	requirements, err := marshalJSONB(q.Posting.Requirements)
	if err != nil {
		return err
	}
	createdAt := q.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	const query = `
INSERT INTO postings (id, title, guild, description, requirements, difficulty, active, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE SET
	title = EXCLUDED.title,
	guild = EXCLUDED.guild,
	description = EXCLUDED.description,
	requirements = EXCLUDED.requirements,
	difficulty = EXCLUDED.difficulty,
	active = EXCLUDED.active`

	if _, err := p.DB.ExecContext(ctx, query,
		q.Posting.ID,
		q.Posting.Title,
		q.Posting.Guild,
		q.Posting.Description,
		requirements,
		q.Posting.Difficulty,
		q.Active,
		createdAt,
	); err != nil {
		return fmt.Errorf("save posting %s: %w", q.Posting.ID, err)
	}
	return nil
}

func (p *Postgres) ListActivePostings(ctx context.Context) ([]board.Quest, error) {
	const query = `
SELECT id, title, guild, description, requirements, difficulty, active, created_at
FROM postings
WHERE active
ORDER BY created_at DESC, id`

	rows, err := p.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list postings: %w", err)
	}
	defer rows.Close()

	var quests []board.Quest
	for rows.Next() {
		q, err := scanQuest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan posting: %w", err)
		}
		quests = append(quests, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list postings: %w", err)
	}
	return quests, nil
}

const challengeColumns = `id, title, description, difficulty, level_requirement, problem_statement, starter_code,
       required_tokens, forbidden_tokens, reward_points, active`

func (p *Postgres) LoadChallengeDefinition(ctx context.Context, id string) (challenge.Definition, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenge_definitions WHERE id = $1`

	def, err := scanDefinition(p.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return challenge.Definition{}, fmt.Errorf("challenge %s: %w", id, guild.ErrNotFound)
	}
	if err != nil {
		return challenge.Definition{}, fmt.Errorf("load challenge %s: %w", id, err)
	}
	return def, nil
}

func (p *Postgres) ListActiveChallengeDefinitions(ctx context.Context) ([]challenge.Definition, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenge_definitions WHERE active ORDER BY level_requirement, created_at`

	rows, err := p.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	defer rows.Close()

	var defs []challenge.Definition
	for rows.Next() {
		def, err := scanDefinition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan challenge: %w", err)
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	return defs, nil
}

// SaveChallengeDefinition inserts a definition. Existing ids are left untouched.
func (p *Postgres) SaveChallengeDefinition(ctx context.Context, def challenge.Definition) error {
	required, err := marshalJSONB(def.RequiredTokens)
	if err != nil {
		return err
	}
	forbidden, err := marshalJSONB(def.ForbiddenTokens)
	if err != nil {
		return err
	}

	const query = `
INSERT INTO challenge_definitions (id, title, description, difficulty, level_requirement, problem_statement,
	starter_code, required_tokens, forbidden_tokens, reward_points, active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id) DO NOTHING`

	if _, err := p.DB.ExecContext(ctx, query,
		def.ID,
		def.Title,
		def.Description,
		def.Difficulty,
		def.LevelRequirement,
		def.ProblemStatement,
		def.StarterCode,
		required,
		forbidden,
		def.RewardPoints,
		def.Active,
	); err != nil {
		return fmt.Errorf("save challenge %s: %w", def.ID, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func loadCandidate(ctx context.Context, q queryer, query, id string) (guild.Candidate, error) {
	var (
		c                                        guild.Candidate
		title                                    string
		skills, experience, education, completed []byte
	)

	err := q.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.XP,
		&c.Level,
		&title,
		&skills,
		&experience,
		&education,
		&completed,
		&c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return guild.Candidate{}, fmt.Errorf("candidate %s: %w", id, guild.ErrNotFound)
	}
	if err != nil {
		return guild.Candidate{}, fmt.Errorf("load candidate %s: %w", id, err)
	}

	c.Title = progression.Title(title)
	c.Profile = fitscore.Candidate{}
	if err := unmarshalJSONB(skills, &c.Profile.Skills); err != nil {
		return guild.Candidate{}, fmt.Errorf("candidate %s skills: %w", id, err)
	}
	if err := unmarshalJSONB(experience, &c.Profile.Experience); err != nil {
		return guild.Candidate{}, fmt.Errorf("candidate %s experience: %w", id, err)
	}
	if err := unmarshalJSONB(education, &c.Profile.Education); err != nil {
		return guild.Candidate{}, fmt.Errorf("candidate %s education: %w", id, err)
	}
	if err := unmarshalJSONB(completed, &c.CompletedChallenges); err != nil {
		return guild.Candidate{}, fmt.Errorf("candidate %s completed challenges: %w", id, err)
	}
	return c, nil
}

func scanQuest(s scanner) (board.Quest, error) {
	var (
		q            board.Quest
		requirements []byte
	)
	if err := s.Scan(
		&q.Posting.ID,
		&q.Posting.Title,
		&q.Posting.Guild,
		&q.Posting.Description,
		&requirements,
		&q.Posting.Difficulty,
		&q.Active,
		&q.CreatedAt,
	); err != nil {
		return board.Quest{}, err
	}
	if err := unmarshalJSONB(requirements, &q.Posting.Requirements); err != nil {
		return board.Quest{}, fmt.Errorf("posting %s requirements: %w", q.Posting.ID, err)
	}
	return q, nil
}

func scanDefinition(s scanner) (challenge.Definition, error) {
	var (
		def                 challenge.Definition
		required, forbidden []byte
	)
	if err := s.Scan(
		&def.ID,
		&def.Title,
		&def.Description,
		&def.Difficulty,
		&def.LevelRequirement,
		&def.ProblemStatement,
		&def.StarterCode,
		&required,
		&forbidden,
		&def.RewardPoints,
		&def.Active,
	); err != nil {
		return challenge.Definition{}, err
	}
	if err := unmarshalJSONB(required, &def.RequiredTokens); err != nil {
		return challenge.Definition{}, fmt.Errorf("challenge %s required tokens: %w", def.ID, err)
	}
	if err := unmarshalJSONB(forbidden, &def.ForbiddenTokens); err != nil {
		return challenge.Definition{}, fmt.Errorf("challenge %s forbidden tokens: %w", def.ID, err)
	}
	return def, nil
}

// marshalJSONB encodes v for a JSONB column. Nil slices become [].
func marshalJSONB(v any) (string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal jsonb: %w", err)
	}
	if string(payload) == "null" {
		return "[]", nil
	}
	return string(payload), nil
}

func unmarshalJSONB(raw []byte, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}
