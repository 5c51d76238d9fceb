package weights

import (
	"math"
	"testing"
	"time"

	"github.com/solien-labs/affective-state/internal/affect"
	"github.com/solien-labs/affective-state/internal/stimulus"
)

func floatPtr(v float64) *float64 { return &v }

func TestNewBankAllNeutral(t *testing.T) {
	b := NewBank(time.Now())

	if len(b.Weights) != len(stimulus.All()) {
		t.Fatalf("expected %d categories, got %d", len(stimulus.All()), len(b.Weights))
	}
	for c, w := range b.Weights {
		if w != Neutral {
			t.Fatalf("category %s not neutral: %f", c, w)
		}
	}
}

func TestDecayWeightsMovesTowardNeutral(t *testing.T) {
	b := NewBank(time.Now())
	b.Weights[stimulus.GasPressure] = 1.8
	b.Weights[stimulus.WhaleTransfers] = 0.4

	out := DecayWeights(b, time.Now())

	if out.Weights[stimulus.GasPressure] >= 1.8 {
		t.Fatalf("high weight did not decay: %f", out.Weights[stimulus.GasPressure])
	}
	if out.Weights[stimulus.WhaleTransfers] <= 0.4 {
		t.Fatalf("low weight did not recover: %f", out.Weights[stimulus.WhaleTransfers])
	}
	// 2% of the distance to neutral per cycle.
	want := 1.8 + (Neutral-1.8)*DecayRate
	if math.Abs(out.Weights[stimulus.GasPressure]-want) > 1e-9 {
		t.Fatalf("expected %f, got %f", want, out.Weights[stimulus.GasPressure])
	}
	if out.CycleCount != b.CycleCount+1 {
		t.Fatalf("cycle count not bumped: %d", out.CycleCount)
	}
}

func TestDecayWeightsConvergesToNeutral(t *testing.T) {
	b := NewBank(time.Now())
	b.Weights[stimulus.PriceSwing] = Ceiling

	for i := 0; i < 1000; i++ {
		b = DecayWeights(b, time.Now())
	}

	if math.Abs(b.Weights[stimulus.PriceSwing]-Neutral) > 1e-6 {
		t.Fatalf("weight did not converge: %f", b.Weights[stimulus.PriceSwing])
	}
}

func TestApplyAdjustmentsDeltaAndTarget(t *testing.T) {
	b := NewBank(time.Now())

	out, audit, errs := ApplyAdjustments(b, []Adjustment{
		{Category: stimulus.GasPressure, Delta: floatPtr(0.25), Reason: "gas spikes kept mattering"},
		{Category: stimulus.SocialEngagement, Target: floatPtr(0.5), Reason: "stop doomscrolling"},
	}, time.Now())

	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if out.Weights[stimulus.GasPressure] != 1.25 {
		t.Fatalf("delta not applied: %f", out.Weights[stimulus.GasPressure])
	}
	if out.Weights[stimulus.SocialEngagement] != 0.5 {
		t.Fatalf("target not applied: %f", out.Weights[stimulus.SocialEngagement])
	}
	if len(audit) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(audit))
	}
	if audit[0].Before != Neutral || audit[0].After != 1.25 || audit[0].Reason == "" {
		t.Fatalf("bad audit entry: %+v", audit[0])
	}
}

func TestApplyAdjustmentsUnknownCategoryPartial(t *testing.T) {
	b := NewBank(time.Now())

	out, audit, errs := ApplyAdjustments(b, []Adjustment{
		{Category: "volcanoActivity", Delta: floatPtr(0.5), Reason: "nope"},
		{Category: stimulus.RewardSignals, Delta: floatPtr(0.1), Reason: "rewards land"},
	}, time.Now())

	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if out.Weights[stimulus.RewardSignals] != 1.1 {
		t.Fatalf("valid adjustment in same batch not applied: %f", out.Weights[stimulus.RewardSignals])
	}
	if len(audit) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(audit))
	}
}

func TestWeightsStayBounded(t *testing.T) {
	b := NewBank(time.Now())

	adjs := []Adjustment{
		{Category: stimulus.GasPressure, Delta: floatPtr(10), Reason: "push up"},
		{Category: stimulus.WhaleTransfers, Delta: floatPtr(-10), Reason: "push down"},
		{Category: stimulus.PriceSwing, Target: floatPtr(-3), Reason: "target under floor"},
	}
	for i := 0; i < 100; i++ {
		b = DecayWeights(b, time.Now())
		b, _, _ = ApplyAdjustments(b, adjs, time.Now())
		for c, w := range b.Weights {
			if w < Floor || w > Ceiling {
				t.Fatalf("weight %s out of range: %f", c, w)
			}
		}
	}
}

func TestApplyWeightsToStimuli(t *testing.T) {
	b := NewBank(time.Now())
	b.Weights[stimulus.ChainActivityJoy] = 1.5

	in := []affect.Stimulus{
		{Emotion: affect.Joy, Intensity: 0.2, WeightCategory: string(stimulus.ChainActivityJoy)},
		{Emotion: affect.Fear, Intensity: 0.2, WeightCategory: "notACategory"},
		{Emotion: affect.Surprise, Intensity: 0.2},
	}
	out := Apply(in, b)

	if math.Abs(out[0].Intensity-0.3) > 1e-9 {
		t.Fatalf("weighted stimulus wrong: %f", out[0].Intensity)
	}
	if out[1].Intensity != 0.2 {
		t.Fatalf("unknown category should pass through: %f", out[1].Intensity)
	}
	if out[2].Intensity != 0.2 {
		t.Fatalf("uncategorized stimulus should pass through: %f", out[2].Intensity)
	}
	if in[0].Intensity != 0.2 {
		t.Fatalf("input slice mutated: %f", in[0].Intensity)
	}
}
