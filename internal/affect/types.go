package affect

import "time"

// #region emotions

// Emotion is one of the eight primary emotions on the wheel.
type Emotion string

const (
	Joy          Emotion = "joy"
	Trust        Emotion = "trust"
	Fear         Emotion = "fear"
	Surprise     Emotion = "surprise"
	Sadness      Emotion = "sadness"
	Disgust      Emotion = "disgust"
	Anger        Emotion = "anger"
	Anticipation Emotion = "anticipation"
)

// Wheel lists the eight emotions in wheel order. The order doubles as the
// tie-break priority when resolving the dominant emotion, and adjacency in
// this list defines the compound pairs.
var Wheel = [8]Emotion{Joy, Trust, Fear, Surprise, Sadness, Disgust, Anger, Anticipation}

// Valid reports whether e is one of the eight primary emotions.
func Valid(e Emotion) bool {
	for _, w := range Wheel {
		if w == e {
			return true
		}
	}
	return false
}

// #endregion emotions

// #region vector

// Baseline is the resting intensity every emotion decays toward. A synthetic
// affect system never rests at true zero.
const Baseline = 0.15

// Vector holds one bounded intensity per primary emotion. Values always lie
// in [0, 1].
type Vector map[Emotion]float64

// NewRestingVector returns a vector with every emotion at the baseline.
func NewRestingVector() Vector {
	v := make(Vector, len(Wheel))
	for _, e := range Wheel {
		v[e] = Baseline
	}
	return v
}

// Clone returns an independent copy with every wheel emotion present.
// Missing entries are filled with the baseline so a vector can never be
// partial after passing through the engine.
func (v Vector) Clone() Vector {
	out := make(Vector, len(Wheel))
	for _, e := range Wheel {
		if val, ok := v[e]; ok {
			out[e] = clamp01(val)
		} else {
			out[e] = Baseline
		}
	}
	return out
}

// #endregion vector

// #region state

// State is the persisted affect record: the vector plus everything the mood
// resolver derives from it.
type State struct {
	Emotions      Vector    `json:"emotions"`
	Dominant      Emotion   `json:"dominant"`
	DominantLabel string    `json:"dominantLabel"`
	Compounds     []string  `json:"compounds"`
	Trigger       string    `json:"trigger"`
	MoodNarrative string    `json:"moodNarrative"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// NewRestingState returns the default state: all emotions at baseline,
// mood resolved.
func NewRestingState(now time.Time) State {
	s := State{
		Emotions:    NewRestingVector(),
		LastUpdated: now,
	}
	return UpdateMood(s)
}

// #endregion state

// #region stimulus

// Stimulus is one ephemeral weighted event nudging the vector. Produced
// fresh each cycle by external generators and consumed immediately; only its
// aggregate effect persists.
type Stimulus struct {
	Emotion        Emotion           `json:"emotion"`
	Intensity      float64           `json:"intensity"`
	Source         string            `json:"source"`
	WeightCategory string            `json:"weightCategory,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// Inertia describes an entrenched dominant emotion. Supplied only when the
// same emotion has been dominant for three or more consecutive cycles.
type Inertia struct {
	StreakEmotion Emotion `json:"streakEmotion"`
	StreakLength  int     `json:"streakLength"`
}

// #endregion stimulus

// #region helpers

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion helpers
