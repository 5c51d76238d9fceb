package history

import (
	"math"
	"testing"
	"time"

	"github.com/solien-labs/affective-state/internal/affect"
)

func stateWithDominant(e affect.Emotion, value float64) affect.State {
	s := affect.NewRestingState(time.Now())
	s.Emotions[e] = value
	return affect.UpdateMood(s)
}

func TestComputeEmptyHistory(t *testing.T) {
	mem := Compute(nil)

	if mem.DominantStreak != 0 || mem.StreakEmotion != "" {
		t.Fatalf("expected zero memory, got %+v", mem)
	}
	if mem.Inertia() != nil {
		t.Fatal("empty memory should yield no inertia")
	}
}

func TestComputeStreak(t *testing.T) {
	recent := []affect.State{
		stateWithDominant(affect.Fear, 0.7),
		stateWithDominant(affect.Fear, 0.6),
		stateWithDominant(affect.Fear, 0.65),
		stateWithDominant(affect.Joy, 0.5),
		stateWithDominant(affect.Fear, 0.4),
	}

	mem := Compute(recent)

	if mem.StreakEmotion != affect.Fear {
		t.Fatalf("expected streak emotion fear, got %s", mem.StreakEmotion)
	}
	if mem.DominantStreak != 3 {
		t.Fatalf("expected streak 3, got %d", mem.DominantStreak)
	}

	inertia := mem.Inertia()
	if inertia == nil || inertia.StreakLength != 3 || inertia.StreakEmotion != affect.Fear {
		t.Fatalf("expected inertia for 3-cycle streak, got %+v", inertia)
	}
}

func TestComputeShortStreakNoInertia(t *testing.T) {
	recent := []affect.State{
		stateWithDominant(affect.Joy, 0.6),
		stateWithDominant(affect.Joy, 0.6),
		stateWithDominant(affect.Fear, 0.6),
	}

	if inertia := Compute(recent).Inertia(); inertia != nil {
		t.Fatalf("2-cycle streak should yield no inertia, got %+v", inertia)
	}
}

func TestComputeAverageAndVolatility(t *testing.T) {
	recent := []affect.State{
		stateWithDominant(affect.Joy, 0.8),
		stateWithDominant(affect.Joy, 0.6),
	}

	mem := Compute(recent)

	if math.Abs(mem.AverageIntensity-0.7) > 1e-9 {
		t.Fatalf("expected average 0.7, got %f", mem.AverageIntensity)
	}
	if math.Abs(mem.Volatility-0.1) > 1e-9 {
		t.Fatalf("expected volatility 0.1, got %f", mem.Volatility)
	}
}
