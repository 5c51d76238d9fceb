package affect

import "sort"

// #region label-table

// labelTiers maps each emotion to its mild / moderate / intense word.
var labelTiers = map[Emotion][3]string{
	Joy:          {"content", "happy", "euphoric"},
	Trust:        {"open", "trusting", "devoted"},
	Fear:         {"uneasy", "anxious", "terrified"},
	Surprise:     {"curious", "surprised", "astonished"},
	Sadness:      {"wistful", "melancholy", "despairing"},
	Disgust:      {"bored", "disgusted", "revolted"},
	Anger:        {"irritated", "angry", "furious"},
	Anticipation: {"attentive", "eager", "vigilant"},
}

const (
	mildCeiling     = 0.33
	moderateCeiling = 0.66
)

// #endregion label-table

// #region compound-table

// CompoundThreshold is the minimum intensity both members of an adjacent
// pair must reach before the pair's compound emotion is emitted.
const CompoundThreshold = 0.45

// MaxCompounds bounds how many compound labels a state can carry.
const MaxCompounds = 3

// compoundNames maps each adjacent wheel pair, in wheel order, to its
// compound emotion (Plutchik dyads).
var compoundNames = [8]string{
	"Love",            // joy + trust
	"Submission",      // trust + fear
	"Alarm",           // fear + surprise
	"Disappointment",  // surprise + sadness
	"Remorse",         // sadness + disgust
	"Contempt",        // disgust + anger
	"Aggressiveness",  // anger + anticipation
	"Optimism",        // anticipation + joy
}

// #endregion compound-table

// #region update-mood

// UpdateMood derives the dominant emotion, its qualitative label, and any
// compound emotions from the current vector. Ties on the dominant value are
// broken by wheel order. Pure: the input state is not modified.
func UpdateMood(s State) State {
	next := s
	vec := s.Emotions.Clone()
	next.Emotions = vec

	dominant := Wheel[0]
	for _, e := range Wheel[1:] {
		if vec[e] > vec[dominant] {
			dominant = e
		}
	}
	next.Dominant = dominant
	next.DominantLabel = labelFor(dominant, vec[dominant])
	next.Compounds = detectCompounds(vec)
	return next
}

func labelFor(e Emotion, value float64) string {
	tiers := labelTiers[e]
	switch {
	case value < mildCeiling:
		return tiers[0]
	case value < moderateCeiling:
		return tiers[1]
	default:
		return tiers[2]
	}
}

// #endregion update-mood

// #region compounds

type compoundHit struct {
	name     string
	strength float64 // minimum of the pair, used for ranking
}

// detectCompounds scans the eight adjacent wheel pairs and returns up to
// MaxCompounds compound names, strongest pair-minimum first.
func detectCompounds(vec Vector) []string {
	var hits []compoundHit
	for i := range Wheel {
		a := vec[Wheel[i]]
		b := vec[Wheel[(i+1)%len(Wheel)]]
		if a >= CompoundThreshold && b >= CompoundThreshold {
			strength := a
			if b < a {
				strength = b
			}
			hits = append(hits, compoundHit{name: compoundNames[i], strength: strength})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].strength > hits[j].strength
	})
	if len(hits) > MaxCompounds {
		hits = hits[:MaxCompounds]
	}

	names := make([]string, len(hits))
	for i, h := range hits {
		names[i] = h.name
	}
	return names
}

// #endregion compounds
