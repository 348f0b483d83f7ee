package board

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/careerquest/internal/enrich"
	"github.com/spigell/careerquest/internal/fitscore"
)

// DefaultLimit is how many of the newest quests a board shows.
const DefaultLimit = 20

// Config holds the tunables of the default pipeline.
type Config struct {
	MinimumScore int  `mapstructure:"minimum-score"`
	Limit        int  `mapstructure:"limit"`
	Enrich       bool `mapstructure:"enrich"`
	Concurrency  int  `mapstructure:"concurrency"`
}

// DefaultSteps builds the quest board pipeline: drop inactive quests, keep the
// newest ones, optionally enrich them, then drop poor fits.
func DefaultSteps(cfg Config, candidate fitscore.Candidate, delegate *enrich.Delegate, logger *zap.Logger) []Filter {
	steps := []Filter{
		NewInactive(logger),
		NewLimit(cfg.Limit),
		NewEnrich(candidate, delegate, cfg.Concurrency, logger),
		NewMinimumScore(cfg.MinimumScore, logger),
	}
	if !cfg.Enrich {
		DisableByName(steps, enrichName, "enrichment of the board is switched off")
	}
	return steps
}

type inactiveFilter struct {
	logger *zap.Logger
}

// NewInactive creates a filter that removes quests no longer open.
func NewInactive(logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &inactiveFilter{logger: logger}
}

func (f *inactiveFilter) Name() string { return "inactive" }

func (f *inactiveFilter) Disable(string) {}

func (f *inactiveFilter) IsEnabled() bool { return true }

func (f *inactiveFilter) Validate() error { return nil }

func (f *inactiveFilter) Apply(_ context.Context, b *Board) (*Board, Step, error) {
	initial := b.Len()
	excluded := b.Exclude(func(e *Entry) bool { return !e.Quest.Active })
	if len(excluded) > 0 {
		f.logger.Debug("excluding inactive quests",
			zap.Strings("excluded_postings", excluded),
			zap.Int("postings_left", b.Len()),
		)
	}
	return b, Step{Initial: initial, Dropped: len(excluded), Left: b.Len()}, nil
}

type limitFilter struct {
	limit int
}

// NewLimit keeps the newest quests. A non-positive limit falls back to DefaultLimit.
func NewLimit(limit int) Filter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &limitFilter{limit: limit}
}

func (f *limitFilter) Name() string { return "limit" }

func (f *limitFilter) Disable(string) {}

func (f *limitFilter) IsEnabled() bool { return true }

func (f *limitFilter) Validate() error { return nil }

func (f *limitFilter) Apply(_ context.Context, b *Board) (*Board, Step, error) {
	initial := b.Len()
	sort.SliceStable(b.Entries, func(i, j int) bool {
		return b.Entries[i].Quest.CreatedAt.After(b.Entries[j].Quest.CreatedAt)
	})
	if len(b.Entries) > f.limit {
		clear(b.Entries[f.limit:])
		b.Entries = b.Entries[:f.limit]
	}
	return b, Step{Initial: initial, Dropped: initial - b.Len(), Left: b.Len()}, nil
}

func (f *limitFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: true, Details: map[string]string{"limit": strconv.Itoa(f.limit)}}
}

type minimumScoreFilter struct {
	minimum int
	enabled bool
	reason  string
	logger  *zap.Logger
}

// NewMinimumScore drops entries scoring below minimum. Zero disables the step.
func NewMinimumScore(minimum int, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &minimumScoreFilter{minimum: minimum, enabled: true, logger: logger}
	if minimum == 0 {
		f.Disable("no minimum score configured")
	}
	return f
}

func (f *minimumScoreFilter) Name() string { return "minimum_score" }

func (f *minimumScoreFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *minimumScoreFilter) IsEnabled() bool { return f.enabled }

func (f *minimumScoreFilter) Validate() error {
	if f.minimum < 0 || f.minimum > 100 {
		return fmt.Errorf("minimum score must be within 0..100, got %d", f.minimum)
	}
	return nil
}

func (f *minimumScoreFilter) Apply(_ context.Context, b *Board) (*Board, Step, error) {
	initial := b.Len()
	excluded := b.Exclude(func(e *Entry) bool { return e.Assessment.Score < f.minimum })
	if len(excluded) > 0 {
		f.logger.Info("excluding quests below minimum score",
			zap.Int("minimum_score", f.minimum),
			zap.Strings("excluded_postings", excluded),
			zap.Int("postings_left", b.Len()),
		)
	}
	return b, Step{Initial: initial, Dropped: len(excluded), Left: b.Len()}, nil
}

func (f *minimumScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.enabled,
		Reason:  f.reason,
		Details: map[string]string{"minimum_score": strconv.Itoa(f.minimum)},
	}
}

const enrichName = "enrich"

type enrichFilter struct {
	candidate   fitscore.Candidate
	delegate    *enrich.Delegate
	concurrency int
	enabled     bool
	reason      string
	logger      *zap.Logger
}

// NewEnrich replaces quick assessments with enriched ones. Entries whose
// enrichment fails keep the detailed deterministic assessment instead.
func NewEnrich(candidate fitscore.Candidate, delegate *enrich.Delegate, concurrency int, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &enrichFilter{
		candidate:   candidate,
		delegate:    delegate,
		concurrency: concurrency,
		enabled:     true,
		logger:      logger,
	}
}

func (f *enrichFilter) Name() string { return enrichName }

func (f *enrichFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *enrichFilter) IsEnabled() bool { return f.enabled }

func (f *enrichFilter) Validate() error {
	if f.concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", f.concurrency)
	}
	return nil
}

func (f *enrichFilter) Apply(ctx context.Context, b *Board) (*Board, Step, error) {
	initial := b.Len()
	if !f.delegate.Configured() {
		f.logger.Info("enrichment service is not configured; keeping quick scores")
		return b, Step{Initial: initial, Left: initial}, nil
	}

	results := f.delegate.EnrichBoard(ctx, f.candidate, b.Postings(), f.concurrency)

	// A failed enrichment keeps the quick board score rather than the
	// delegate's detailed fallback.
	enriched := 0
	for i, res := range results {
		if !res.Enriched() {
			f.logger.Debug("keeping quick score",
				zap.String("posting_id", b.Entries[i].Quest.Posting.ID),
				zap.String("reason", res.FallbackReason),
			)
			continue
		}
		b.Entries[i].Assessment = res.Assessment
		b.Entries[i].Source = res.Source
		enriched++
	}

	f.logger.Info("board enrichment completed",
		zap.Int("postings", initial),
		zap.Int("enriched", enriched),
		zap.Int("kept_quick", initial-enriched),
	)

	return b, Step{Initial: initial, Left: b.Len()}, nil
}

func (f *enrichFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.enabled,
		Reason:  f.reason,
		Details: map[string]string{
			"configured":  strconv.FormatBool(f.delegate.Configured()),
			"concurrency": strconv.Itoa(f.concurrency),
		},
	}
}
