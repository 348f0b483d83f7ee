package fitscore

import (
	"encoding/json"
	"reflect"
	"testing"
)

func heroWith(skills ...string) Candidate {
	c := Candidate{}
	for _, name := range skills {
		c.Skills = append(c.Skills, Skill{Name: name, Proficiency: 50, Category: "technical"})
	}
	return c
}

func TestDetailedScenario(t *testing.T) {
	t.Parallel()

	c := heroWith("React", "Node.js")
	p := Posting{ID: "q1", Requirements: []string{"react", "typescript"}}

	a := Detailed(c, p)

	if a.Score != 50 {
		t.Fatalf("expected score 50, got %d", a.Score)
	}
	if a.RiskTier != RiskMedium {
		t.Fatalf("expected Medium, got %s", a.RiskTier)
	}
	if !reflect.DeepEqual(a.MatchedRequirements, []string{"react"}) {
		t.Fatalf("unexpected matched: %v", a.MatchedRequirements)
	}
	if !reflect.DeepEqual(a.UnmatchedRequirements, []string{"typescript"}) {
		t.Fatalf("unexpected unmatched: %v", a.UnmatchedRequirements)
	}
	if !reflect.DeepEqual(a.MatchedSkills, []string{"React"}) {
		t.Fatalf("unexpected matched skills: %v", a.MatchedSkills)
	}
}

func TestDetailedClamps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		c    Candidate
		reqs []string
		want int
		tier RiskTier
	}{
		{name: "no requirements", c: heroWith("Go"), reqs: nil, want: 50, tier: RiskMedium},
		{name: "nothing matched floors at 20", c: heroWith("Go"), reqs: []string{"rust", "zig"}, want: 20, tier: RiskCritical},
		{name: "everything matched caps at 90", c: heroWith("Go", "SQL"), reqs: []string{"go", "sql"}, want: 90, tier: RiskLow},
		{name: "one of three", c: heroWith("Docker"), reqs: []string{"docker", "k8s", "helm"}, want: 33, tier: RiskHigh},
		{name: "skill inside a longer requirement", c: heroWith("Python"), reqs: []string{"strong python skills"}, want: 90, tier: RiskLow},
		{name: "word only match is not enough", c: heroWith("cloud native"), reqs: []string{"cloud platforms"}, want: 20, tier: RiskCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := Detailed(tt.c, Posting{Requirements: tt.reqs})
			if a.Score != tt.want || a.RiskTier != tt.tier {
				t.Fatalf("expected %d/%s, got %d/%s", tt.want, tt.tier, a.Score, a.RiskTier)
			}
		})
	}
}

func TestQuickMatchesWords(t *testing.T) {
	t.Parallel()

	// "cloud" from the requirement appears inside the skill token.
	c := heroWith("cloud native")
	a := Quick(c, Posting{Requirements: []string{"Cloud platforms", "Accounting"}})

	if a.Score != 50 {
		t.Fatalf("expected 50, got %d", a.Score)
	}
	if !reflect.DeepEqual(a.MatchedRequirements, []string{"Cloud platforms"}) {
		t.Fatalf("unexpected matched: %v", a.MatchedRequirements)
	}
	if !reflect.DeepEqual(a.UnmatchedRequirements, []string{"Accounting"}) {
		t.Fatalf("unexpected unmatched: %v", a.UnmatchedRequirements)
	}
}

func TestQuickBonusesAndClamp(t *testing.T) {
	t.Parallel()

	experienced := heroWith("Go")
	for range 6 {
		experienced.Experience = append(experienced.Experience, ExperienceEntry{Role: "Engineer"})
	}
	for range 5 {
		experienced.Education = append(experienced.Education, EducationEntry{Descriptor: "BSc"})
	}

	tests := []struct {
		name string
		c    Candidate
		reqs []string
		want int
	}{
		{name: "empty requirements no bonus", c: heroWith(), reqs: nil, want: 50},
		{name: "empty requirements with capped bonuses", c: experienced, reqs: nil, want: 80},
		{name: "full match clamps at 95", c: experienced, reqs: []string{"go"}, want: 95},
		{name: "no match floors at 10", c: heroWith("Go"), reqs: []string{"painting"}, want: 10},
		{name: "bonus counted per entry", c: Candidate{
			Experience: []ExperienceEntry{{Role: "Intern"}},
			Education:  []EducationEntry{{Descriptor: "BSc"}},
		}, reqs: []string{"painting"}, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := Quick(tt.c, Posting{Requirements: tt.reqs})
			if a.Score != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, a.Score)
			}
			if a.RiskTier != RiskTierFor(tt.want) {
				t.Fatalf("unexpected tier %s", a.RiskTier)
			}
		})
	}

	if got := ExperienceBonus(experienced); got != 20 {
		t.Fatalf("expected experience bonus 20, got %d", got)
	}
	if got := EducationBonus(experienced); got != 10 {
		t.Fatalf("expected education bonus 10, got %d", got)
	}
}

func TestModesDiverge(t *testing.T) {
	t.Parallel()

	c := heroWith("cloud native")
	p := Posting{Requirements: []string{"cloud platforms"}}

	if Quick(c, p).Score == Detailed(c, p).Score {
		t.Fatalf("quick and detailed modes are expected to score this posting differently")
	}
}

func TestScoringIsDeterministic(t *testing.T) {
	t.Parallel()

	c := heroWith("React", "Node.js", "PostgreSQL")
	c.Experience = []ExperienceEntry{{Role: "Frontend Engineer"}}
	p := Posting{ID: "q", Requirements: []string{"react", "typescript", "sql databases"}}

	before, _ := json.Marshal(c)

	for name, fn := range map[string]func(Candidate, Posting) Assessment{"quick": Quick, "detailed": Detailed} {
		first, _ := json.Marshal(fn(c, p))
		second, _ := json.Marshal(fn(c, p))
		if string(first) != string(second) {
			t.Fatalf("%s: outputs differ:\n%s\n%s", name, first, second)
		}
	}

	after, _ := json.Marshal(c)
	if string(before) != string(after) {
		t.Fatalf("candidate was mutated")
	}
}

func TestBoardKeepsOrder(t *testing.T) {
	t.Parallel()

	postings := []Posting{{ID: "b"}, {ID: "a"}, {ID: "c"}}
	scored := Board(heroWith("Go"), postings)

	if len(scored) != 3 {
		t.Fatalf("expected 3 results, got %d", len(scored))
	}
	for i, s := range scored {
		if s.Posting.ID != postings[i].ID {
			t.Fatalf("order changed at %d: %s", i, s.Posting.ID)
		}
	}
}

func TestRiskTierFor(t *testing.T) {
	t.Parallel()

	tests := map[int]RiskTier{100: RiskLow, 70: RiskLow, 69: RiskMedium, 50: RiskMedium, 49: RiskHigh, 30: RiskHigh, 29: RiskCritical, 0: RiskCritical}
	for score, want := range tests {
		if got := RiskTierFor(score); got != want {
			t.Fatalf("RiskTierFor(%d) = %s, want %s", score, got, want)
		}
	}
}
