package enrich

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/careerquest/internal/fitscore"
)

var ErrMalformedResponse = errors.New("malformed enrichment response")

// parseAssessment turns the collaborator's raw text into an assessment.
// Anything that does not fit the assessment shape is an error.
func parseAssessment(raw string) (fitscore.Assessment, error) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return fitscore.Assessment{}, fmt.Errorf("%w: no json object found", ErrMalformedResponse)
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return fitscore.Assessment{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if score, ok := data["score"]; !ok || score == nil {
		return fitscore.Assessment{}, fmt.Errorf("%w: score is missing", ErrMalformedResponse)
	}

	var assessment fitscore.Assessment
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &assessment,
		WeaklyTypedInput: true,
		DecodeHook:       scoreHook,
	})
	if err != nil {
		return fitscore.Assessment{}, fmt.Errorf("build decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return fitscore.Assessment{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if assessment.Score < 0 || assessment.Score > 100 {
		return fitscore.Assessment{}, fmt.Errorf("%w: score %d out of range", ErrMalformedResponse, assessment.Score)
	}

	tier, err := normalizeTier(assessment.RiskTier, assessment.Score)
	if err != nil {
		return fitscore.Assessment{}, err
	}
	assessment.RiskTier = tier
	assessment.Recommendation = strings.TrimSpace(assessment.Recommendation)

	return assessment, nil
}

// extractJSON strips markdown fences and any prose around the outermost object.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```JSON")
		raw = strings.TrimPrefix(raw, "```")
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(strings.TrimSpace(raw), "`")

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end < start {
		return ""
	}
	return raw[start : end+1]
}

func normalizeTier(tier fitscore.RiskTier, score int) (fitscore.RiskTier, error) {
	value := strings.TrimSpace(string(tier))
	if value == "" {
		return fitscore.RiskTierFor(score), nil
	}

	for _, known := range []fitscore.RiskTier{fitscore.RiskLow, fitscore.RiskMedium, fitscore.RiskHigh, fitscore.RiskCritical} {
		if strings.EqualFold(value, string(known)) {
			return known, nil
		}
	}

	return "", fmt.Errorf("%w: unknown risk tier %q", ErrMalformedResponse, value)
}

// scoreHook rounds fractional scores and accepts "73" or "73%" strings.
func scoreHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Int {
		return data, nil
	}

	switch v := data.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("score %v is not a number", v)
		}
		return int(math.Round(v)), nil
	case string:
		trimmed := strings.TrimSuffix(strings.TrimSpace(v), "%")
		f, err := strconv.ParseFloat(strings.TrimSpace(trimmed), 64)
		if err != nil {
			return nil, fmt.Errorf("score %q is not numeric", v)
		}
		return int(math.Round(f)), nil
	default:
		return data, nil
	}
}
