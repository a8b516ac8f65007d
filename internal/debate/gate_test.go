package debate

import (
	"math/rand"
	"testing"
)

func TestGate_ThresholdBoundary(t *testing.T) {
	g := Gate{Threshold: 0.30, MaxRounds: 3}

	tests := []struct {
		name  string
		diff  float64
		round int
		want  bool
	}{
		{"just above threshold", 0.301, 1, true},
		{"exactly threshold", 0.300, 1, false},
		{"just below threshold", 0.299, 1, false},
		{"above threshold mid rounds", 0.35, 2, true},
		{"above threshold at max round", 0.35, 3, false},
		{"above threshold beyond max", 0.99, 4, false},
		{"zero difference", 0, 1, false},
		{"max difference last allowed round", 1.0, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.ShouldRedebate(tt.diff, tt.round); got != tt.want {
				t.Errorf("ShouldRedebate(%v, %d) = %v, want %v", tt.diff, tt.round, got, tt.want)
			}
		})
	}
}

func TestGate_NeverFiresAtOrPastMaxRounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		g := Gate{Threshold: rng.Float64(), MaxRounds: 1 + rng.Intn(5)}
		diff := rng.Float64()
		for round := g.MaxRounds; round <= g.MaxRounds+3; round++ {
			if g.ShouldRedebate(diff, round) {
				t.Fatalf("gate fired at round %d with max %d (diff %v, threshold %v)", round, g.MaxRounds, diff, g.Threshold)
			}
		}
	}
}

func TestGate_FiresOnlyAboveThreshold(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		g := Gate{Threshold: rng.Float64(), MaxRounds: 5}
		diff := rng.Float64()
		got := g.ShouldRedebate(diff, 1)
		want := diff > g.Threshold
		if got != want {
			t.Fatalf("ShouldRedebate(%v, 1) with threshold %v = %v, want %v", diff, g.Threshold, got, want)
		}
	}
}
