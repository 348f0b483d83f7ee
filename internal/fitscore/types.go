// Package fitscore computes deterministic fit scores between a hero profile and a quest posting.
package fitscore

// RiskTier buckets a fit score.
type RiskTier string

const (
	RiskLow      RiskTier = "Low"
	RiskMedium   RiskTier = "Medium"
	RiskHigh     RiskTier = "High"
	RiskCritical RiskTier = "Critical"
)

// Skill is a single entry of the hero's skill record.
type Skill struct {
	Name        string `json:"name" validate:"required"`
	Proficiency int    `json:"proficiency" validate:"min=0,max=100"`
	Category    string `json:"category,omitempty"`
}

// ExperienceEntry is a coarse work/project record.
type ExperienceEntry struct {
	Role     string `json:"role"`
	Company  string `json:"company,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// EducationEntry is a coarse education record.
type EducationEntry struct {
	Descriptor  string `json:"descriptor"`
	Institution string `json:"institution,omitempty"`
}

// Candidate holds the evaluable attributes of a hero.
type Candidate struct {
	Skills     []Skill           `json:"skills"`
	Experience []ExperienceEntry `json:"experience"`
	Education  []EducationEntry  `json:"education"`
}

// Posting is the read-only view of a quest used for scoring.
type Posting struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Guild        string   `json:"guild,omitempty"`
	Description  string   `json:"description,omitempty"`
	Requirements []string `json:"requirements"`
	Difficulty   string   `json:"difficulty,omitempty"`
}

// Assessment is the advisory, non-persisted result of scoring.
type Assessment struct {
	Score                 int      `json:"score" mapstructure:"score"`
	RiskTier              RiskTier `json:"risk_tier" mapstructure:"risk_tier"`
	MatchedRequirements   []string `json:"matched_requirements" mapstructure:"matched_requirements"`
	UnmatchedRequirements []string `json:"unmatched_requirements" mapstructure:"unmatched_requirements"`
	MatchedSkills         []string `json:"matched_skills" mapstructure:"matched_skills"`
	Strengths             []string `json:"strengths,omitempty" mapstructure:"strengths"`
	Concerns              []string `json:"concerns,omitempty" mapstructure:"concerns"`
	ImprovementTips       []string `json:"improvement_tips,omitempty" mapstructure:"improvement_tips"`
	Recommendation        string   `json:"recommendation,omitempty" mapstructure:"recommendation"`
}

// Valid reports whether the tier is one of the known values.
func (r RiskTier) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	default:
		return false
	}
}

// RiskTierFor derives the risk tier shared by every scoring mode.
func RiskTierFor(score int) RiskTier {
	switch {
	case score >= 70:
		return RiskLow
	case score >= 50:
		return RiskMedium
	case score >= 30:
		return RiskHigh
	default:
		return RiskCritical
	}
}
