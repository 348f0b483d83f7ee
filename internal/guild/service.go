package guild

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/spigell/careerquest/internal/board"
	"github.com/spigell/careerquest/internal/challenge"
	"github.com/spigell/careerquest/internal/enrich"
	"github.com/spigell/careerquest/internal/logger"
	"github.com/spigell/careerquest/internal/progression"
)

var (
	ErrInvalidCandidate = errors.New("invalid candidate record")
	ErrInactive         = errors.New("record is not active")
)

var validate = validator.New()

// Config tunes a Service.
type Config struct {
	Rewards progression.Rewards
	Board   board.Config
}

// Service runs engine operations against a Store.
type Service struct {
	store    Store
	delegate *enrich.Delegate
	rewards  progression.Rewards
	board    board.Config
	locks    *keyedMutex
	logger   *zap.Logger
	now      func() time.Time
}

// New builds a Service. A nil delegate disables enrichment.
func New(store Store, delegate *enrich.Delegate, cfg Config, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	rewards := cfg.Rewards
	if rewards == nil {
		rewards = progression.DefaultRewards()
	}
	return &Service{
		store:    store,
		delegate: delegate,
		rewards:  rewards,
		board:    cfg.Board,
		locks:    newKeyedMutex(),
		logger:   log,
		now:      time.Now,
	}
}

// ChallengeResult is what a submission produced.
type ChallengeResult struct {
	Outcome challenge.Outcome  `json:"outcome"`
	Award   *progression.Award `json:"award,omitempty"`
	Hero    progression.Hero   `json:"hero"`
}

// SubmitChallenge judges a submission and, when it earns anything, records the
// reward. Submissions of the same candidate never overlap, so a winning
// solution is rewarded once.
func (s *Service) SubmitChallenge(ctx context.Context, candidateID, challengeID, submission string) (ChallengeResult, error) {
	def, err := s.store.LoadChallengeDefinition(ctx, challengeID)
	if err != nil {
		return ChallengeResult{}, fmt.Errorf("load challenge %s: %w", challengeID, err)
	}
	if !def.Active {
		return ChallengeResult{}, fmt.Errorf("challenge %s: %w", challengeID, ErrInactive)
	}

	var result ChallengeResult
	err = s.mutate(ctx, candidateID, func(c *Candidate) (bool, error) {
		outcome := challenge.Evaluate(submission, def, c.HasCompleted(challengeID))
		result = ChallengeResult{Outcome: outcome, Hero: c.Hero()}

		if outcome.FirstTimeCompletion {
			c.MarkCompleted(challengeID)
		}

		if outcome.RewardGranted > 0 {
			reason := "challenge attempt: " + def.Title
			if outcome.Succeeded {
				reason = "challenge defeated: " + def.Title
			}

			hero, award, err := progression.Grant(c.Hero(), outcome.RewardGranted, reason)
			if err != nil {
				return false, fmt.Errorf("grant reward: %w", err)
			}
			*c = c.WithHero(hero)
			result.Award = &award
			result.Hero = hero
		}

		return outcome.FirstTimeCompletion || outcome.RewardGranted > 0, nil
	})
	if err != nil {
		return ChallengeResult{}, err
	}

	logger.WithFields(s.logger, logger.SubjectFields(candidateID, "", challengeID)...).Info("challenge submission judged",
		zap.Bool("succeeded", result.Outcome.Succeeded),
		zap.Bool("first_time", result.Outcome.FirstTimeCompletion),
		zap.Int("reward", result.Outcome.RewardGranted),
		zap.Int("level", result.Hero.Level),
	)

	return result, nil
}

// AwardEvent grants the configured XP for a named activity.
func (s *Service) AwardEvent(ctx context.Context, candidateID string, event progression.Event) (progression.Award, error) {
	amount, err := s.rewards.Lookup(event)
	if err != nil {
		return progression.Award{}, err
	}

	var award progression.Award
	err = s.mutate(ctx, candidateID, func(c *Candidate) (bool, error) {
		hero, a, err := progression.Grant(c.Hero(), amount, string(event))
		if err != nil {
			return false, fmt.Errorf("grant %s: %w", event, err)
		}
		*c = c.WithHero(hero)
		award = a
		return true, nil
	})
	if err != nil {
		return progression.Award{}, err
	}

	logger.WithFields(s.logger, logger.SubjectFields(candidateID, "", "")...).Info("xp awarded",
		zap.String("event", string(event)),
		zap.Int("xp", amount),
		zap.Bool("level_up", award.LevelUp),
	)

	return award, nil
}

// AssessPosting scores one posting in detail, enriched when possible.
func (s *Service) AssessPosting(ctx context.Context, candidateID, postingID string) (enrich.Result, error) {
	c, err := s.loadCandidate(ctx, candidateID)
	if err != nil {
		return enrich.Result{}, err
	}

	q, err := s.store.LoadPosting(ctx, postingID)
	if err != nil {
		return enrich.Result{}, fmt.Errorf("load posting %s: %w", postingID, err)
	}

	return s.delegate.Enrich(ctx, c.Profile, q.Posting), nil
}

// QuestBoard quick-scores the active postings and runs the board pipeline.
func (s *Service) QuestBoard(ctx context.Context, candidateID string) (*board.Board, error) {
	c, err := s.loadCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	quests, err := s.store.ListActivePostings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list postings: %w", err)
	}

	log := logger.WithFields(s.logger, logger.SubjectFields(candidateID, "", "")...)
	steps := board.DefaultSteps(s.board, c.Profile, s.delegate, log)
	for _, status := range board.Describe(steps) {
		log.Debug("board step",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	b, err := board.Run(ctx, log, steps, board.New(c.Profile, quests))
	if err != nil {
		return nil, fmt.Errorf("build quest board: %w", err)
	}
	return b, nil
}

// Challenges lists the active challenges, seeding the defaults into an empty store.
func (s *Service) Challenges(ctx context.Context) ([]challenge.Public, error) {
	defs, err := s.store.ListActiveChallengeDefinitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}

	if len(defs) == 0 {
		defs = challenge.Defaults()
		for _, def := range defs {
			if err := s.store.SaveChallengeDefinition(ctx, def); err != nil {
				return nil, fmt.Errorf("seed challenge %q: %w", def.Title, err)
			}
		}
		s.logger.Info("seeded default challenges", zap.Int("count", len(defs)))
	}

	public := make([]challenge.Public, 0, len(defs))
	for _, def := range defs {
		public = append(public, def.Public())
	}
	return public, nil
}

// AddChallenge validates and stores an authored challenge.
func (s *Service) AddChallenge(ctx context.Context, def challenge.Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	if err := s.store.SaveChallengeDefinition(ctx, def); err != nil {
		return fmt.Errorf("save challenge %s: %w", def.ID, err)
	}
	return nil
}

// RegisterCandidate validates a new record. Level and title are derived from
// XP alone; whatever the caller supplied for them is discarded.
func (s *Service) RegisterCandidate(ctx context.Context, c Candidate) (Candidate, error) {
	progress, err := progression.Apply(c.XP, progression.MinLevel)
	if err != nil {
		return Candidate{}, fmt.Errorf("%w: %w", ErrInvalidCandidate, err)
	}
	c.Level, c.Title = progress.Level, progress.Title

	if err := validate.Struct(c); err != nil {
		return Candidate{}, fmt.Errorf("%w: %w", ErrInvalidCandidate, err)
	}
	for _, skill := range c.Profile.Skills {
		if err := validate.Struct(skill); err != nil {
			return Candidate{}, fmt.Errorf("%w: skill %q: %w", ErrInvalidCandidate, skill.Name, err)
		}
	}

	if err := s.saveCandidate(ctx, c); err != nil {
		return Candidate{}, err
	}
	return c, nil
}

// mutate serializes read-modify-write cycles per candidate. Stores that
// implement Updater additionally guard the cycle with their own atomicity.
func (s *Service) mutate(ctx context.Context, candidateID string, fn func(*Candidate) (bool, error)) error {
	unlock := s.locks.Lock(candidateID)
	defer unlock()

	if u, ok := s.store.(Updater); ok {
		err := u.UpdateCandidate(ctx, candidateID, func(c *Candidate) (bool, error) {
			save, err := fn(c)
			if save {
				c.UpdatedAt = s.now().UTC()
			}
			return save, err
		})
		if err != nil {
			return fmt.Errorf("update candidate %s: %w", candidateID, err)
		}
		return nil
	}

	c, err := s.loadCandidate(ctx, candidateID)
	if err != nil {
		return err
	}

	save, err := fn(&c)
	if err != nil || !save {
		return err
	}
	return s.saveCandidate(ctx, c)
}

func (s *Service) loadCandidate(ctx context.Context, id string) (Candidate, error) {
	c, err := s.store.LoadCandidate(ctx, id)
	if err != nil {
		return Candidate{}, fmt.Errorf("load candidate %s: %w", id, err)
	}
	return c, nil
}

func (s *Service) saveCandidate(ctx context.Context, c Candidate) error {
	c.UpdatedAt = s.now().UTC()
	if err := s.store.SaveCandidate(ctx, c); err != nil {
		return fmt.Errorf("save candidate %s: %w", c.ID, err)
	}
	return nil
}
