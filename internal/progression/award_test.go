package progression

import (
	"errors"
	"testing"
)

func TestGrantChallengeReward(t *testing.T) {
	t.Parallel()

	hero := Hero{XP: 1000, Level: 5, Title: TitleFreshSpawn}

	next, award, err := Grant(hero, 500, "defeated The Callback Hydra")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if next.XP != 1500 {
		t.Fatalf("expected 1500 xp, got %d", next.XP)
	}

	// 1500 >= XPThreshold(5)=1118 and >= XPThreshold(6)=1469, but < XPThreshold(7)=1852.
	if next.Level != 7 {
		t.Fatalf("expected level 7, got %d", next.Level)
	}

	if next.Title != TitleApprenticeAdventurer {
		t.Fatalf("unexpected title: %q", next.Title)
	}

	if !award.LevelUp || award.LevelBefore != 5 || award.LevelAfter != 7 {
		t.Fatalf("unexpected award: %+v", award)
	}

	if award.NewTitle != TitleApprenticeAdventurer {
		t.Fatalf("expected new title in award, got %q", award.NewTitle)
	}

	// (1500-1469)*100/(1852-1469)
	if award.ProgressPercent != 8 {
		t.Fatalf("expected 8%% progress, got %d", award.ProgressPercent)
	}
}

func TestGrantWithoutLevelUpKeepsTitle(t *testing.T) {
	t.Parallel()

	hero := Hero{XP: 0, Level: 1, Title: "Custom"}

	next, award, err := Grant(hero, 10, "daily login")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if next.Title != "Custom" {
		t.Fatalf("title must not be recomputed without a level change, got %q", next.Title)
	}

	if award.LevelUp || award.NewTitle != "" {
		t.Fatalf("unexpected level up: %+v", award)
	}

	if award.ProgressPercent != 10 {
		t.Fatalf("expected 10%% progress, got %d", award.ProgressPercent)
	}
}

func TestGrantRejectsNegativeAmount(t *testing.T) {
	t.Parallel()

	hero := Hero{XP: 10, Level: 1, Title: TitleFreshSpawn}
	next, _, err := Grant(hero, -5, "")
	if !errors.Is(err, ErrNegativeAward) {
		t.Fatalf("expected ErrNegativeAward, got %v", err)
	}
	if next != hero {
		t.Fatalf("hero must be untouched on error, got %+v", next)
	}
}

func TestAdvanceFillsDefaults(t *testing.T) {
	t.Parallel()

	next, err := Advance(Hero{XP: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Level != 1 || next.Title != TitleFreshSpawn {
		t.Fatalf("unexpected hero: %+v", next)
	}
}

func TestRewards(t *testing.T) {
	t.Parallel()

	rewards, err := WithOverrides(map[string]int{" Daily_Login ": 15})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	amount, err := rewards.Lookup(EventDailyLogin)
	if err != nil || amount != 15 {
		t.Fatalf("expected override 15, got %d (%v)", amount, err)
	}

	amount, err = rewards.Lookup(EventApplicationSubmitted)
	if err != nil || amount != 25 {
		t.Fatalf("expected default 25, got %d (%v)", amount, err)
	}

	if _, err := rewards.Lookup("unknown"); !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("expected ErrUnknownEvent, got %v", err)
	}

	if _, err := WithOverrides(map[string]int{"daily_login": -1}); !errors.Is(err, ErrNegativeAward) {
		t.Fatalf("expected ErrNegativeAward, got %v", err)
	}
}
