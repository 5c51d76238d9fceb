package affect

import (
	"testing"
	"time"
)

func TestStimulateFromRest(t *testing.T) {
	s := NewRestingState(time.Now())

	out := Stimulate(s, []Stimulus{
		{Emotion: Joy, Intensity: 0.4, Source: "on-chain volume surge", WeightCategory: "chainActivityJoy"},
	}, nil)
	out = UpdateMood(out)

	// 0.15 + 0.4*(1-0.15) = 0.49
	if !almostEqual(out.Emotions[Joy], 0.49, 1e-9) {
		t.Fatalf("expected joy 0.49, got %f", out.Emotions[Joy])
	}
	if out.Dominant != Joy {
		t.Fatalf("expected dominant joy, got %s", out.Dominant)
	}
	if out.DominantLabel != "happy" {
		t.Fatalf("expected moderate-tier label 'happy', got %q", out.DominantLabel)
	}
	if len(out.Compounds) != 0 {
		t.Fatalf("expected no compounds, got %v", out.Compounds)
	}
	if out.Trigger != "on-chain volume surge" {
		t.Fatalf("expected trigger from strongest stimulus, got %q", out.Trigger)
	}
}

func TestStimulateDiminishingReturns(t *testing.T) {
	low := NewRestingState(time.Now())
	low.Emotions[Joy] = 0.1
	high := NewRestingState(time.Now())
	high.Emotions[Joy] = 0.9

	stim := []Stimulus{{Emotion: Joy, Intensity: 0.3, Source: "test"}}
	lowDelta := Stimulate(low, stim, nil).Emotions[Joy] - 0.1
	highDelta := Stimulate(high, stim, nil).Emotions[Joy] - 0.9

	if highDelta >= lowDelta {
		t.Fatalf("expected diminishing returns: delta at 0.9 (%f) >= delta at 0.1 (%f)", highDelta, lowDelta)
	}
}

func TestStimulateInertiaDampensOffStreakStimuli(t *testing.T) {
	s := NewRestingState(time.Now())
	inertia := &Inertia{StreakEmotion: Fear, StreakLength: 5}

	out := Stimulate(s, []Stimulus{
		{Emotion: Joy, Intensity: 0.4, Source: "test"},
	}, inertia)

	// Scaled by 1/(1+0.15*5) ≈ 0.5714: 0.15 + 0.4*0.5714*0.85 ≈ 0.3443
	want := Baseline + (0.4/1.75)*(1-Baseline)
	if !almostEqual(out.Emotions[Joy], want, 1e-9) {
		t.Fatalf("expected dampened joy %f, got %f", want, out.Emotions[Joy])
	}
}

func TestStimulateInertiaSparesStreakEmotion(t *testing.T) {
	s := NewRestingState(time.Now())
	inertia := &Inertia{StreakEmotion: Fear, StreakLength: 5}

	out := Stimulate(s, []Stimulus{
		{Emotion: Fear, Intensity: 0.4, Source: "test"},
	}, inertia)

	want := Baseline + 0.4*(1-Baseline)
	if !almostEqual(out.Emotions[Fear], want, 1e-9) {
		t.Fatalf("expected unscaled fear %f, got %f", want, out.Emotions[Fear])
	}
}

func TestStimulateInertiaFloor(t *testing.T) {
	// Very long streaks still let at least 40% of a contrary signal through.
	if f := inertiaFactor(&Inertia{StreakEmotion: Fear, StreakLength: 1000}); f != inertiaFloor {
		t.Fatalf("expected floor %f, got %f", inertiaFloor, f)
	}
	// Below the minimum streak, inertia never applies.
	if f := inertiaFactor(&Inertia{StreakEmotion: Fear, StreakLength: 2}); f != 1.0 {
		t.Fatalf("expected no dampening under min streak, got %f", f)
	}
}

func TestStimulateEmptyBatchIsNoOp(t *testing.T) {
	s := NewRestingState(time.Now())
	s.Emotions[Joy] = 0.7
	s.Trigger = "previous"

	out := Stimulate(s, nil, nil)

	if out.Emotions[Joy] != 0.7 {
		t.Fatalf("empty batch changed joy: %f", out.Emotions[Joy])
	}
	if out.Trigger != "previous" {
		t.Fatalf("empty batch changed trigger: %q", out.Trigger)
	}
}

func TestStimulateIgnoresInvalidStimuli(t *testing.T) {
	s := NewRestingState(time.Now())

	out := Stimulate(s, []Stimulus{
		{Emotion: "euphoria", Intensity: 0.5, Source: "bad emotion"},
		{Emotion: Joy, Intensity: -0.5, Source: "negative intensity"},
	}, nil)

	for _, e := range Wheel {
		if out.Emotions[e] != Baseline {
			t.Fatalf("invalid stimulus moved %s to %f", e, out.Emotions[e])
		}
	}
}

func TestStimulateStaysBoundedUnderRepeatedHits(t *testing.T) {
	s := NewRestingState(time.Now())
	stim := []Stimulus{{Emotion: Joy, Intensity: 5.0, Source: "oversized"}}

	for i := 0; i < 50; i++ {
		s = Stimulate(s, stim, nil)
		if s.Emotions[Joy] < 0 || s.Emotions[Joy] > 1 {
			t.Fatalf("joy left range on iteration %d: %f", i, s.Emotions[Joy])
		}
	}
}

func TestStimulateTriggerPicksStrongestEffective(t *testing.T) {
	s := NewRestingState(time.Now())
	inertia := &Inertia{StreakEmotion: Fear, StreakLength: 4}

	// fear 0.3 is unscaled; joy 0.4 is dampened to 0.25, so fear wins.
	out := Stimulate(s, []Stimulus{
		{Emotion: Joy, Intensity: 0.4, Source: "joy source"},
		{Emotion: Fear, Intensity: 0.3, Source: "fear source"},
	}, inertia)

	if out.Trigger != "fear source" {
		t.Fatalf("expected trigger 'fear source', got %q", out.Trigger)
	}
}
