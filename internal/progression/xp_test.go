package progression

import (
	"errors"
	"testing"
)

func TestXPThreshold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level int
		want  int
	}{
		{level: 0, want: 0},
		{level: 1, want: 100},
		{level: 4, want: 800},
		{level: 5, want: 1118},
		{level: 6, want: 1469},
		{level: 9, want: 2700},
		{level: 50, want: 35355},
		{level: 100, want: 100000},
	}

	for _, tt := range tests {
		if got := XPThreshold(tt.level); got != tt.want {
			t.Fatalf("XPThreshold(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestApplyBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		xp    int
		level int
		want  Progress
	}{
		{
			name:  "just below first threshold",
			xp:    XPThreshold(1) - 1,
			level: 1,
			want:  Progress{Level: 1, Title: TitleFreshSpawn},
		},
		{
			name:  "exactly first threshold",
			xp:    XPThreshold(1),
			level: 1,
			want:  Progress{Level: 2, Title: TitleFreshSpawn},
		},
		{
			name:  "single jump crosses many thresholds",
			xp:    XPThreshold(50),
			level: 1,
			want:  Progress{Level: 51, Title: TitleLegendaryHero},
		},
		{
			name:  "capped at max level",
			xp:    XPThreshold(100) * 3,
			level: 1,
			want:  Progress{Level: 100, Title: TitleAscendedOne},
		},
		{
			name:  "max level stays put",
			xp:    XPThreshold(100) + 1,
			level: 100,
			want:  Progress{Level: 100, Title: TitleAscendedOne},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Apply(tt.xp, tt.level)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestApplyRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := Apply(-1, 1); !errors.Is(err, ErrNegativeXP) {
		t.Fatalf("expected ErrNegativeXP, got %v", err)
	}
	if _, err := Apply(10, 0); !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("expected ErrInvalidLevel for level 0, got %v", err)
	}
	if _, err := Apply(10, 101); !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("expected ErrInvalidLevel for level 101, got %v", err)
	}
}

func TestApplyIsStableAndMonotonic(t *testing.T) {
	t.Parallel()

	prev := 0
	for xp := 0; xp <= XPThreshold(100)+500; xp += 37 {
		first, err := Apply(xp, 1)
		if err != nil {
			t.Fatalf("xp %d: %v", xp, err)
		}
		again, err := Apply(xp, first.Level)
		if err != nil {
			t.Fatalf("xp %d reapply: %v", xp, err)
		}
		if again != first {
			t.Fatalf("xp %d: reapplying changed result %+v -> %+v", xp, first, again)
		}
		if first.Level < prev {
			t.Fatalf("xp %d: level decreased from %d to %d", xp, prev, first.Level)
		}
		prev = first.Level
	}
}

func TestProgressPercent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		xp    int
		level int
		want  int
	}{
		{name: "fresh hero", xp: 0, level: 1, want: 0},
		{name: "half way through level one", xp: 50, level: 1, want: 50},
		{name: "start of level two", xp: 100, level: 2, want: 0},
		{name: "max level", xp: 1, level: 100, want: 100},
		{name: "overflow is capped", xp: 10_000, level: 2, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ProgressPercent(tt.xp, tt.level); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
