// Package challenge validates boss-battle code submissions against token rules.
package challenge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidDefinition = errors.New("invalid challenge definition")

var validate = validator.New()

// Definition is an authored coding trial. Token rules are case-sensitive.
type Definition struct {
	ID               string   `json:"id" validate:"required"`
	Title            string   `json:"title" validate:"required"`
	Description      string   `json:"description,omitempty"`
	Difficulty       string   `json:"difficulty,omitempty" validate:"omitempty,oneof=Tutorial Easy Medium Hard Nightmare 'Raid Boss'"`
	LevelRequirement int      `json:"level_requirement" validate:"gte=0,lte=100"`
	ProblemStatement string   `json:"problem_statement,omitempty"`
	StarterCode      string   `json:"starter_code,omitempty"`
	RequiredTokens   []string `json:"required_tokens" validate:"dive,required"`
	ForbiddenTokens  []string `json:"forbidden_tokens" validate:"dive,required"`
	RewardPoints     int      `json:"reward_points" validate:"gt=0"`
	Active           bool     `json:"active"`
}

// Public is the listing view of a definition. Token rules stay hidden.
type Public struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description,omitempty"`
	Difficulty       string `json:"difficulty,omitempty"`
	LevelRequirement int    `json:"level_requirement"`
	ProblemStatement string `json:"problem_statement,omitempty"`
	StarterCode      string `json:"starter_code,omitempty"`
	RewardPoints     int    `json:"reward_points"`
}

// Validate rejects definitions the evaluator cannot judge fairly.
func (d Definition) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}

	for _, req := range d.RequiredTokens {
		for _, forbidden := range d.ForbiddenTokens {
			if strings.Contains(req, forbidden) {
				return fmt.Errorf("%w: required token %q contains forbidden token %q", ErrInvalidDefinition, req, forbidden)
			}
		}
	}

	return nil
}

// Public strips the validation rules.
func (d Definition) Public() Public {
	return Public{
		ID:               d.ID,
		Title:            d.Title,
		Description:      d.Description,
		Difficulty:       d.Difficulty,
		LevelRequirement: d.LevelRequirement,
		ProblemStatement: d.ProblemStatement,
		StarterCode:      d.StarterCode,
		RewardPoints:     d.RewardPoints,
	}
}
