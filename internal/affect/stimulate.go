package affect

// #region inertia-constants

const (
	// InertiaMinStreak is the streak length below which inertia never applies.
	InertiaMinStreak = 3

	// inertiaSlope controls how fast the dampening grows with streak length.
	inertiaSlope = 0.15

	// inertiaFloor is the lowest multiplier inertia can impose. An entrenched
	// mood resists contrary signals but can never fully silence them.
	inertiaFloor = 0.4
)

// #endregion inertia-constants

// #region inertia-factor

// inertiaFactor returns the multiplier applied to stimuli that do not target
// the streak emotion. 1.0 when no inertia applies.
func inertiaFactor(inertia *Inertia) float64 {
	if inertia == nil || inertia.StreakLength < InertiaMinStreak {
		return 1.0
	}
	f := 1.0 / (1.0 + inertiaSlope*float64(inertia.StreakLength))
	if f < inertiaFloor {
		f = inertiaFloor
	}
	return f
}

// #endregion inertia-factor

// #region stimulate

// Stimulate folds a batch of weighted stimuli into the state with a
// diminishing-returns update: each stimulus closes a fraction of the gap to
// 1.0 equal to its effective intensity, so values approach 1 asymptotically
// and never leave range. Stimuli targeting the inertia streak emotion are
// applied at full strength; all others are dampened by the inertia factor.
//
// The stimulus with the highest effective intensity becomes the state's
// trigger; callers may overwrite it with their own description. Pure: the
// input state is not modified. An empty batch is a valid no-op.
func Stimulate(s State, stimuli []Stimulus, inertia *Inertia) State {
	next := s
	vec := s.Emotions.Clone()
	next.Emotions = vec

	if len(stimuli) == 0 {
		return next
	}

	damp := inertiaFactor(inertia)
	var topEff float64
	var topSource string

	for _, st := range stimuli {
		if !Valid(st.Emotion) || st.Intensity <= 0 {
			continue
		}
		eff := st.Intensity
		if damp < 1.0 && st.Emotion != inertia.StreakEmotion {
			eff *= damp
		}
		vec[st.Emotion] = clamp01(vec[st.Emotion] + eff*(1.0-vec[st.Emotion]))

		if eff > topEff {
			topEff = eff
			topSource = st.Source
		}
	}

	if topSource != "" {
		next.Trigger = topSource
	}
	return next
}

// #endregion stimulate
