// Package history derives the emotion memory summary from a bounded list of
// recently persisted affect states. The engine consumes the summary as the
// optional inertia input to aggregation; the states themselves are owned by
// the store.
package history

import (
	"math"

	"github.com/solien-labs/affective-state/internal/affect"
)

// #region types

// EmotionMemory summarizes recent affect history.
type EmotionMemory struct {
	DominantStreak   int            `json:"dominantStreak"`
	StreakEmotion    affect.Emotion `json:"streakEmotion"`
	AverageIntensity float64        `json:"averageIntensity"`
	Volatility       float64        `json:"volatility"`
}

// #endregion types

// #region compute

// Compute builds the emotion memory from recent states, newest first (the
// order the store returns them in). An empty history yields a zero memory.
func Compute(recent []affect.State) EmotionMemory {
	if len(recent) == 0 {
		return EmotionMemory{}
	}

	mem := EmotionMemory{StreakEmotion: recent[0].Dominant}
	for _, s := range recent {
		if s.Dominant != mem.StreakEmotion {
			break
		}
		mem.DominantStreak++
	}

	var sum float64
	values := make([]float64, len(recent))
	for i, s := range recent {
		values[i] = s.Emotions[s.Dominant]
		sum += values[i]
	}
	mem.AverageIntensity = sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mem.AverageIntensity
		sq += d * d
	}
	mem.Volatility = math.Sqrt(sq / float64(len(values)))

	return mem
}

// Inertia converts the memory into the aggregation input, or nil when the
// streak is too short to matter.
func (m EmotionMemory) Inertia() *affect.Inertia {
	if m.DominantStreak < affect.InertiaMinStreak {
		return nil
	}
	return &affect.Inertia{StreakEmotion: m.StreakEmotion, StreakLength: m.DominantStreak}
}

// #endregion compute
