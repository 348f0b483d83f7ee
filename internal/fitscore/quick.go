package fitscore

const (
	quickMinScore = 10
	quickMaxScore = 95

	experienceBonusPerEntry = 5
	experienceBonusCap      = 20
	educationBonusPerEntry  = 3
	educationBonusCap       = 10
)

// Scored pairs a posting with its quick assessment.
type Scored struct {
	Posting    Posting    `json:"posting"`
	Assessment Assessment `json:"assessment"`
}

// Quick scores a posting the cheap way used by list views. Matching is wide
// and the result includes experience and education bonuses.
func Quick(c Candidate, p Posting) Assessment {
	skills := skillTokens(c.Skills)

	matched := make([]string, 0, len(p.Requirements))
	unmatched := make([]string, 0, len(p.Requirements))
	for _, req := range p.Requirements {
		if quickMatch(normalize(req), skills) {
			matched = append(matched, req)
		} else {
			unmatched = append(unmatched, req)
		}
	}

	base := emptyRequirementsScore
	if len(p.Requirements) > 0 {
		base = percent(len(matched), len(p.Requirements))
	}

	score := clamp(base+ExperienceBonus(c)+EducationBonus(c), quickMinScore, quickMaxScore)

	return Assessment{
		Score:                 score,
		RiskTier:              RiskTierFor(score),
		MatchedRequirements:   matched,
		UnmatchedRequirements: unmatched,
		MatchedSkills:         quickMatchedSkills(c.Skills, p.Requirements),
	}
}

// Board quick-scores every posting, keeping input order.
func Board(c Candidate, postings []Posting) []Scored {
	scored := make([]Scored, 0, len(postings))
	for _, p := range postings {
		scored = append(scored, Scored{Posting: p, Assessment: Quick(c, p)})
	}
	return scored
}

// ExperienceBonus is min(20, 5 per experience entry).
func ExperienceBonus(c Candidate) int {
	return min(experienceBonusCap, len(c.Experience)*experienceBonusPerEntry)
}

// EducationBonus is min(10, 3 per education entry).
func EducationBonus(c Candidate) int {
	return min(educationBonusCap, len(c.Education)*educationBonusPerEntry)
}

func quickMatchedSkills(skills []Skill, requirements []string) []string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		token := normalize(s.Name)
		if token == "" {
			continue
		}
		for _, req := range requirements {
			if quickMatch(normalize(req), []string{token}) {
				names = append(names, s.Name)
				break
			}
		}
	}
	return names
}
