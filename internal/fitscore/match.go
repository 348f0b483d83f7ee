package fitscore

import (
	"math"
	"strings"
)

const emptyRequirementsScore = 50

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func skillTokens(skills []Skill) []string {
	tokens := make([]string, 0, len(skills))
	for _, s := range skills {
		if token := normalize(s.Name); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// quickMatch is the wide bulk rule: either token contains the other, or
// any single word of the requirement appears inside a skill.
func quickMatch(req string, skills []string) bool {
	words := strings.Fields(req)
	for _, skill := range skills {
		if strings.Contains(req, skill) || strings.Contains(skill, req) {
			return true
		}
		for _, word := range words {
			if strings.Contains(skill, word) {
				return true
			}
		}
	}
	return false
}

// detailedMatch is the two-way substring rule without word splitting.
func detailedMatch(req, skill string) bool {
	if req == "" || skill == "" {
		return false
	}
	return strings.Contains(req, skill) || strings.Contains(skill, req)
}

func percent(matched, total int) int {
	if total < 1 {
		total = 1
	}
	return int(math.Round(float64(matched) / float64(total) * 100))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
