package fitscore

const (
	detailedMinScore = 20
	detailedMaxScore = 90
)

// Detailed scores a single posting with the stricter two-way substring rule.
// No bonuses are applied; headroom above 90 is left to enrichment.
func Detailed(c Candidate, p Posting) Assessment {
	matched := make([]string, 0, len(p.Requirements))
	unmatched := make([]string, 0, len(p.Requirements))
	for _, req := range p.Requirements {
		if requirementMatched(normalize(req), c.Skills) {
			matched = append(matched, req)
		} else {
			unmatched = append(unmatched, req)
		}
	}

	matchedSkills := make([]string, 0, len(c.Skills))
	for _, s := range c.Skills {
		token := normalize(s.Name)
		for _, req := range p.Requirements {
			if detailedMatch(normalize(req), token) {
				matchedSkills = append(matchedSkills, s.Name)
				break
			}
		}
	}

	score := emptyRequirementsScore
	if len(p.Requirements) > 0 {
		score = clamp(percent(len(matched), len(p.Requirements)), detailedMinScore, detailedMaxScore)
	}

	return Assessment{
		Score:                 score,
		RiskTier:              RiskTierFor(score),
		MatchedRequirements:   matched,
		UnmatchedRequirements: unmatched,
		MatchedSkills:         matchedSkills,
		Strengths:             []string{"Has relevant experience"},
		Concerns:              []string{"Could strengthen skill match"},
		ImprovementTips:       []string{"Research the company", "Prepare specific examples"},
		Recommendation:        "Consider highlighting transferable skills in your application.",
	}
}

func requirementMatched(req string, skills []Skill) bool {
	for _, s := range skills {
		if detailedMatch(req, normalize(s.Name)) {
			return true
		}
	}
	return false
}
