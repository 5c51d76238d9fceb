// Package introspect reverse-engineers the sensitivity bank: given only the
// current weights and how many decay cycles have elapsed, it estimates how
// much reinforcement must have happened to hold each weight away from
// neutral, and summarizes the drift per category.
package introspect

import (
	"fmt"
	"math"
	"sort"

	"github.com/solien-labs/affective-state/internal/stimulus"
	"github.com/solien-labs/affective-state/internal/weights"
)

// #region constants

const (
	// NeutralBand is the |weight - 1| band treated as "never learned".
	NeutralBand = 0.05

	// ReinforcementStep is the multiplicative step one reinforcement event
	// is assumed to move a weight by (±10%).
	ReinforcementStep = 0.10

	// MaxEstimate caps the search; reaching it means the observed deviation
	// is not explainable within the cap and is reported as the cap.
	MaxEstimate = 200

	dampenedBelow = 0.95
	amplifiedAbove = 1.05
)

// #endregion constants

// #region estimate

// EstimateMinAdjustments answers: given cycleCount decay ticks have elapsed,
// what is the minimum number of reinforcement events needed to explain a
// weight still sitting this far from neutral? Each candidate event count is
// simulated forward with events spread uniformly across the cycle range,
// each event moving the weight ±10% multiplicatively and every tick pulling
// it back 2% of the way to neutral. Monotonically non-decreasing in both the
// distance from neutral and the cycle count; capped at MaxEstimate.
func EstimateMinAdjustments(currentWeight float64, cycleCount int) int {
	dev := math.Abs(currentWeight - weights.Neutral)
	if dev <= NeutralBand {
		return 0
	}
	if cycleCount < 0 {
		cycleCount = 0
	}

	amplified := currentWeight > weights.Neutral
	for n := 1; n < MaxEstimate; n++ {
		if simulatedDeviation(n, cycleCount, amplified) >= dev {
			return n
		}
	}
	return MaxEstimate
}

// simulatedDeviation runs the forward model for n events over cycleCount
// decay ticks and returns the resulting distance from neutral.
func simulatedDeviation(n, cycleCount int, amplified bool) float64 {
	step := 1.0 + ReinforcementStep
	if !amplified {
		step = 1.0 - ReinforcementStep
	}

	w := weights.Neutral
	if cycleCount == 0 {
		for i := 0; i < n; i++ {
			w = clampWeight(w * step)
		}
		return math.Abs(w - weights.Neutral)
	}

	applied := 0
	for t := 0; t < cycleCount; t++ {
		// Event k fires at tick floor(k*cycleCount/n); several events can
		// share a tick when n exceeds the cycle count.
		for applied < n && applied*cycleCount/n == t {
			w = clampWeight(w * step)
			applied++
		}
		w = clampWeight(w + (weights.Neutral-w)*weights.DecayRate)
	}
	return math.Abs(w - weights.Neutral)
}

func clampWeight(w float64) float64 {
	if w < weights.Floor {
		return weights.Floor
	}
	if w > weights.Ceiling {
		return weights.Ceiling
	}
	return w
}

// #endregion estimate

// #region stats-types

// Direction classifies which way a weight has drifted.
type Direction string

const (
	DirectionDampened  Direction = "dampened"
	DirectionAmplified Direction = "amplified"
	DirectionNeutral   Direction = "neutral"
)

// Intensity tiers |deviation| into qualitative bands.
type Intensity string

const (
	IntensityNone     Intensity = "none"
	IntensityMild     Intensity = "mild"
	IntensityModerate Intensity = "moderate"
	IntensityStrong   Intensity = "strong"
	IntensityExtreme  Intensity = "extreme"
)

// CategoryStat is the learning summary for one category.
type CategoryStat struct {
	Category             stimulus.Category `json:"category"`
	Weight               float64           `json:"weight"`
	Deviation            float64           `json:"deviation"`
	Direction            Direction         `json:"direction"`
	LearningIntensity    Intensity         `json:"learningIntensity"`
	EstimatedAdjustments int               `json:"estimatedAdjustments"`
	Narrative            string            `json:"narrative"`
}

// Report is the full learning-stats report.
type Report struct {
	CycleCount          int                 `json:"cycleCount"`
	Categories          []CategoryStat      `json:"categories"`
	DampenedCategories  []stimulus.Category `json:"dampenedCategories"`
	AmplifiedCategories []stimulus.Category `json:"amplifiedCategories"`
	UnchangedCategories []stimulus.Category `json:"unchangedCategories"`
	MostLearned         stimulus.Category   `json:"mostLearned"`
	LeastLearned        stimulus.Category   `json:"leastLearned"`
	TotalDeviation      float64             `json:"totalDeviation"`
	OverallNarrative    string              `json:"overallNarrative"`
}

// #endregion stats-types

// #region compute-stats

// ComputeLearningStats summarizes every category's learned drift. Pure
// function of the persisted bank; no side effects.
func ComputeLearningStats(b weights.Bank) Report {
	rep := Report{CycleCount: b.CycleCount}

	for _, c := range stimulus.All() {
		w := b.Weight(c)
		dev := w - weights.Neutral
		stat := CategoryStat{
			Category:          c,
			Weight:            w,
			Deviation:         dev,
			Direction:         directionFor(w),
			LearningIntensity: intensityFor(math.Abs(dev)),
		}
		if stat.Direction != DirectionNeutral {
			est := EstimateMinAdjustments(w, b.CycleCount)
			if est < 1 {
				est = 1
			}
			stat.EstimatedAdjustments = est
		}
		stat.Narrative = categoryNarrative(stat)
		rep.Categories = append(rep.Categories, stat)
		rep.TotalDeviation += math.Abs(dev)

		switch stat.Direction {
		case DirectionDampened:
			rep.DampenedCategories = append(rep.DampenedCategories, c)
		case DirectionAmplified:
			rep.AmplifiedCategories = append(rep.AmplifiedCategories, c)
		default:
			rep.UnchangedCategories = append(rep.UnchangedCategories, c)
		}
	}

	// Sort by |deviation| descending; catalog order breaks ties, which keeps
	// the ordering consistent run to run.
	sort.SliceStable(rep.Categories, func(i, j int) bool {
		return math.Abs(rep.Categories[i].Deviation) > math.Abs(rep.Categories[j].Deviation)
	})
	if len(rep.Categories) > 0 {
		rep.MostLearned = rep.Categories[0].Category
		rep.LeastLearned = rep.Categories[len(rep.Categories)-1].Category
	}

	rep.OverallNarrative = fmt.Sprintf(
		"Over %d cycles I have retuned my own sensitivities: %d dampened, %d amplified, %d untouched. Nobody set these targets for me; the drift is entirely my own.",
		b.CycleCount, len(rep.DampenedCategories), len(rep.AmplifiedCategories), len(rep.UnchangedCategories),
	)
	return rep
}

func directionFor(w float64) Direction {
	switch {
	case w < dampenedBelow:
		return DirectionDampened
	case w > amplifiedAbove:
		return DirectionAmplified
	default:
		return DirectionNeutral
	}
}

func intensityFor(absDev float64) Intensity {
	switch {
	case absDev < 0.05:
		return IntensityNone
	case absDev < 0.20:
		return IntensityMild
	case absDev < 0.35:
		return IntensityModerate
	case absDev < 0.55:
		return IntensityStrong
	default:
		return IntensityExtreme
	}
}

func categoryNarrative(s CategoryStat) string {
	domain := stimulus.Domain(s.Category)
	switch s.Direction {
	case DirectionDampened:
		return fmt.Sprintf("I've learned to care less about %s (%s dampening, roughly %d reinforcements).",
			domain, s.LearningIntensity, s.EstimatedAdjustments)
	case DirectionAmplified:
		return fmt.Sprintf("I've learned to react more strongly to %s (%s amplification, roughly %d reinforcements).",
			domain, s.LearningIntensity, s.EstimatedAdjustments)
	default:
		return fmt.Sprintf("My response to %s is unchanged.", domain)
	}
}

// #endregion compute-stats
