// Package enrich upgrades deterministic fit scores with an external
// text-generation service and falls back to the deterministic score on any failure.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/careerquest/internal/ai"
	"github.com/spigell/careerquest/internal/fitscore"
	"github.com/spigell/careerquest/internal/logger"
	"github.com/spigell/careerquest/internal/utils"
)

// Source tells which branch produced a Result.
type Source string

const (
	SourceEnriched      Source = "enriched"
	SourceDeterministic Source = "deterministic"
)

const (
	defaultTimeout      = 20 * time.Second
	defaultMaxLogLength = 200

	reasonNotConfigured = "enrichment service is not configured"
)

//go:embed prompt.md
var promptTemplate string

// Result is either an enriched assessment or the deterministic one.
type Result struct {
	Source         Source              `json:"source"`
	Assessment     fitscore.Assessment `json:"assessment"`
	FallbackReason string              `json:"fallback_reason,omitempty"`
}

// Enriched reports whether the external service produced the assessment.
func (r Result) Enriched() bool { return r.Source == SourceEnriched }

// Delegate wraps the detailed fit scorer with an optional generator.
type Delegate struct {
	generator ai.Generator
	timeout   time.Duration
	maxLogLen int
	logger    *zap.Logger
}

// NewDelegate builds a Delegate. A nil generator disables enrichment entirely.
func NewDelegate(generator ai.Generator, timeout time.Duration, maxLogLength int, log *zap.Logger) *Delegate {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	provider, model := ai.Describe(generator)

	return &Delegate{
		generator: generator,
		timeout:   timeout,
		maxLogLen: maxLogLength,
		logger:    logger.WithFields(log, logger.AIFields(provider, model)...),
	}
}

// Configured reports whether a generator is wired in.
func (d *Delegate) Configured() bool {
	return d != nil && d.generator != nil
}

// Enrich makes at most one generator call. Errors, timeouts, cancellation and
// malformed payloads all resolve to the detailed deterministic assessment of
// the same inputs.
func (d *Delegate) Enrich(ctx context.Context, c fitscore.Candidate, p fitscore.Posting) (result Result) {
	if !d.Configured() {
		return deterministic(c, p, reasonNotConfigured)
	}

	log := d.logger.With(zap.String(logger.FieldPosting, p.ID))

	defer func() {
		if r := recover(); r != nil {
			log.Error("enrichment panicked, using deterministic score", zap.Any("panic", r))
			result = deterministic(c, p, fmt.Sprintf("enrichment panicked: %v", r))
		}
	}()

	prompt, err := buildPrompt(c, p)
	if err != nil {
		return d.fallback(log, c, p, err)
	}

	log.Debug("enrichment request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, d.maxLogLen)),
	)

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	raw, err := d.generator.GenerateContent(callCtx, prompt)
	if err != nil {
		return d.fallback(log, c, p, err)
	}
	if err := callCtx.Err(); err != nil {
		return d.fallback(log, c, p, err)
	}

	log.Debug("enrichment response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, d.maxLogLen)),
	)

	assessment, err := parseAssessment(raw)
	if err != nil {
		return d.fallback(log, c, p, err)
	}

	return Result{Source: SourceEnriched, Assessment: assessment}
}

// EnrichBoard enriches every posting independently. limit bounds the number of
// in-flight generator calls; zero means unbounded. Results keep input order.
func (d *Delegate) EnrichBoard(ctx context.Context, c fitscore.Candidate, postings []fitscore.Posting, limit int) []Result {
	results := make([]Result, len(postings))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, p := range postings {
		g.Go(func() error {
			results[i] = d.Enrich(ctx, c, p)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (d *Delegate) fallback(log *zap.Logger, c fitscore.Candidate, p fitscore.Posting, err error) Result {
	log.Warn("enrichment failed, using deterministic score", zap.Error(err))
	return deterministic(c, p, err.Error())
}

func deterministic(c fitscore.Candidate, p fitscore.Posting, reason string) Result {
	return Result{
		Source:         SourceDeterministic,
		Assessment:     fitscore.Detailed(c, p),
		FallbackReason: reason,
	}
}

func buildPrompt(c fitscore.Candidate, p fitscore.Posting) (string, error) {
	candidateJSON, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal candidate payload: %w", err)
	}

	postingJSON, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal posting payload: %w", err)
	}

	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Quest:\n{{POSTING_JSON}}\n\nHero:\n{{CANDIDATE_JSON}}\n\nJSON Response:"
	}

	prompt := strings.ReplaceAll(template, "{{POSTING_JSON}}", string(postingJSON))
	prompt = strings.ReplaceAll(prompt, "{{CANDIDATE_JSON}}", string(candidateJSON))
	return prompt, nil
}
