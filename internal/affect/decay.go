package affect

import "math"

// #region constants

// HalfLifeMinutes is the exponential half-life of the pull toward baseline:
// an untouched emotion loses half its distance from baseline every 3 hours.
const HalfLifeMinutes = 180.0

// #endregion constants

// #region decay

// Decay pulls every emotion toward the baseline by the elapsed wall time.
// Pure: the input state is not modified. Negative elapsed time (clock skew)
// is treated as zero, leaving the vector unchanged.
func Decay(s State, minutesElapsed float64) State {
	if minutesElapsed < 0 {
		minutesElapsed = 0
	}
	retain := math.Exp2(-minutesElapsed / HalfLifeMinutes)

	next := s
	vec := s.Emotions.Clone()
	for _, e := range Wheel {
		vec[e] = clamp01(Baseline + (vec[e]-Baseline)*retain)
	}
	next.Emotions = vec
	return next
}

// #endregion decay
