package thresholds

import (
	"math"
	"testing"
	"time"
)

func TestObserveSeedsFirstSample(t *testing.T) {
	r := NewRolling()

	r = Observe(r, GasPriceGwei, 32, time.Now())

	avg := r.Averages[GasPriceGwei]
	if avg.Value != 32 || avg.Samples != 1 {
		t.Fatalf("first sample should seed average, got %+v", avg)
	}
}

func TestObserveSmoothsTowardSamples(t *testing.T) {
	r := NewRolling()
	r = Observe(r, GasPriceGwei, 10, time.Now())
	r = Observe(r, GasPriceGwei, 20, time.Now())

	// 10 + 0.15*(20-10) = 11.5
	if math.Abs(r.Averages[GasPriceGwei].Value-11.5) > 1e-9 {
		t.Fatalf("expected EMA 11.5, got %f", r.Averages[GasPriceGwei].Value)
	}
	if r.Averages[GasPriceGwei].Samples != 2 {
		t.Fatalf("expected 2 samples, got %d", r.Averages[GasPriceGwei].Samples)
	}
}

func TestComputeFallsBackBeforeMinHistory(t *testing.T) {
	r := NewRolling()
	for i := 0; i < MinHistory-1; i++ {
		r = Observe(r, WhaleTransferSize, 99999, time.Now())
	}

	th := Compute(r)[WhaleTransferSize]

	if th.Adaptive {
		t.Fatal("thresholds should not be adaptive before min history")
	}
	if th.High != 10000 || th.Low != 5000 {
		t.Fatalf("expected default thresholds, got %+v", th)
	}
}

func TestComputeAdaptiveAfterMinHistory(t *testing.T) {
	r := NewRolling()
	for i := 0; i < MinHistory; i++ {
		r = Observe(r, WhaleTransferSize, 2000, time.Now())
	}

	th := Compute(r)[WhaleTransferSize]

	if !th.Adaptive {
		t.Fatal("thresholds should be adaptive after min history")
	}
	// Constant samples leave the EMA at the sample value.
	if math.Abs(th.High-3000) > 1e-6 || math.Abs(th.Low-1000) > 1e-6 {
		t.Fatalf("expected high 3000 / low 1000, got %+v", th)
	}
}

func TestComputeCoversWholeDefaultsTable(t *testing.T) {
	out := Compute(NewRolling())

	for m := range Defaults() {
		th, ok := out[m]
		if !ok {
			t.Fatalf("metric %s missing from computed thresholds", m)
		}
		if th.Adaptive {
			t.Fatalf("metric %s adaptive with no history", m)
		}
	}
}

func TestObserveDoesNotMutateInput(t *testing.T) {
	r := NewRolling()
	r = Observe(r, FailedTxCount, 3, time.Now())

	_ = Observe(r, FailedTxCount, 100, time.Now())

	if r.Averages[FailedTxCount].Value != 3 {
		t.Fatalf("input record mutated: %f", r.Averages[FailedTxCount].Value)
	}
}
