// Package weights implements the sensitivity bank: learned per-category
// multipliers that modulate how strongly each stimulus domain moves the
// affect vector. Weights drift away from neutral under reinforcement and
// forget their way back to neutral one small step per cycle.
package weights

import (
	"fmt"
	"time"

	"github.com/solien-labs/affective-state/internal/affect"
	"github.com/solien-labs/affective-state/internal/stimulus"
)

// #region constants

const (
	// Neutral is the weight of a category the engine has learned nothing
	// about: stimuli pass through unscaled.
	Neutral = 1.0

	// Floor and Ceiling bound every weight at all times. No sequence of
	// decays or adjustments can leave this range.
	Floor   = 0.3
	Ceiling = 2.0

	// DecayRate is the fraction of the distance to neutral forgotten per
	// cycle.
	DecayRate = 0.02
)

// #endregion constants

// #region bank

// Bank holds the learned weight per catalog category plus the cycle counter
// the learning introspector reasons against.
type Bank struct {
	Weights    map[stimulus.Category]float64 `json:"weights"`
	CycleCount int                           `json:"cycleCount"`
	UpdatedAt  time.Time                     `json:"updatedAt"`
}

// NewBank returns a bank with every catalog category at neutral.
func NewBank(now time.Time) Bank {
	w := make(map[stimulus.Category]float64, len(stimulus.All()))
	for _, c := range stimulus.All() {
		w[c] = Neutral
	}
	return Bank{Weights: w, UpdatedAt: now}
}

// Clone returns an independent copy of the bank.
func (b Bank) Clone() Bank {
	out := b
	out.Weights = make(map[stimulus.Category]float64, len(b.Weights))
	for c, w := range b.Weights {
		out.Weights[c] = w
	}
	return out
}

// Weight returns the multiplier for a category. Unknown or absent
// categories are unweighted passthrough.
func (b Bank) Weight(c stimulus.Category) float64 {
	if w, ok := b.Weights[c]; ok {
		return clampWeight(w)
	}
	return Neutral
}

// #endregion bank

// #region decay

// DecayWeights moves every weight one step toward neutral and bumps the
// cycle counter. Called exactly once per cycle, before any adjustments.
// Pure: the input bank is not modified.
func DecayWeights(b Bank, now time.Time) Bank {
	next := b.Clone()
	for c, w := range next.Weights {
		next.Weights[c] = clampWeight(w + (Neutral-w)*DecayRate)
	}
	next.CycleCount++
	next.UpdatedAt = now
	return next
}

// #endregion decay

// #region adjustments

// Adjustment is one externally-proposed weight change. Exactly one of Delta
// or Target should be set; when both are present Target wins.
type Adjustment struct {
	Category stimulus.Category `json:"category"`
	Delta    *float64          `json:"delta,omitempty"`
	Target   *float64          `json:"target,omitempty"`
	Reason   string            `json:"reason"`
}

// AuditEntry records one applied adjustment for the external audit log.
type AuditEntry struct {
	Category  stimulus.Category `json:"category"`
	Before    float64           `json:"before"`
	After     float64           `json:"after"`
	Reason    string            `json:"reason"`
	CreatedAt time.Time         `json:"createdAt"`
}

// ApplyAdjustments applies a batch of adjustments independently: an
// adjustment naming an unknown category is rejected with an error but does
// not abort the rest of the batch. Values are clamped, never errored.
// Pure: the input bank is not modified.
func ApplyAdjustments(b Bank, adjs []Adjustment, now time.Time) (Bank, []AuditEntry, []error) {
	next := b.Clone()
	var audit []AuditEntry
	var errs []error

	for _, adj := range adjs {
		if !stimulus.Known(adj.Category) {
			errs = append(errs, fmt.Errorf("adjustment for unknown category %q", adj.Category))
			continue
		}
		before := next.Weight(adj.Category)
		after := before
		switch {
		case adj.Target != nil:
			after = *adj.Target
		case adj.Delta != nil:
			after = before + *adj.Delta
		default:
			errs = append(errs, fmt.Errorf("adjustment for %q carries neither delta nor target", adj.Category))
			continue
		}
		after = clampWeight(after)
		next.Weights[adj.Category] = after
		audit = append(audit, AuditEntry{
			Category:  adj.Category,
			Before:    before,
			After:     after,
			Reason:    adj.Reason,
			CreatedAt: now,
		})
	}

	next.UpdatedAt = now
	return next, audit, errs
}

// #endregion adjustments

// #region weighting

// Apply multiplies each stimulus intensity by its category weight. Stimuli
// without a category pass through unchanged; intensities are not re-clamped
// here, that happens during aggregation. Pure: a new slice is returned.
func Apply(stimuli []affect.Stimulus, b Bank) []affect.Stimulus {
	out := make([]affect.Stimulus, len(stimuli))
	for i, st := range stimuli {
		if st.WeightCategory != "" {
			st.Intensity *= b.Weight(stimulus.Category(st.WeightCategory))
		}
		out[i] = st
	}
	return out
}

// #endregion weighting

// #region helpers

func clampWeight(w float64) float64 {
	if w < Floor {
		return Floor
	}
	if w > Ceiling {
		return Ceiling
	}
	return w
}

// #endregion helpers
