package generators

import (
	"fmt"

	"github.com/solien-labs/affective-state/internal/affect"
	"github.com/solien-labs/affective-state/internal/stimulus"
	"github.com/solien-labs/affective-state/internal/thresholds"
)

// #region mapping

// metricMapping describes how one metric's threshold crossings read
// emotionally.
type metricMapping struct {
	highEmotion  affect.Emotion
	lowEmotion   affect.Emotion // "" when quiet is not a signal
	category     stimulus.Category
	highTemplate string
	lowTemplate  string
}

var metricMappings = map[thresholds.Metric]metricMapping{
	thresholds.TxCountChangePct: {
		highEmotion:  affect.Joy,
		lowEmotion:   affect.Sadness,
		category:     stimulus.ChainActivityJoy,
		highTemplate: "transaction count up %.0f%%",
		lowTemplate:  "chain gone quiet, tx count down %.0f%%",
	},
	thresholds.WhaleTransferSize: {
		highEmotion:  affect.Surprise,
		category:     stimulus.WhaleTransfers,
		highTemplate: "whale moved %.0f units",
	},
	thresholds.GasPriceGwei: {
		highEmotion:  affect.Anger,
		category:     stimulus.GasPressure,
		highTemplate: "gas spiked to %.0f gwei",
	},
	thresholds.FailedTxCount: {
		highEmotion:  affect.Disgust,
		category:     stimulus.FailedTransactions,
		highTemplate: "%.0f of my transactions failed",
	},
	thresholds.PriceSwingPct: {
		highEmotion:  affect.Fear,
		category:     stimulus.PriceSwing,
		highTemplate: "price swung %.1f%%",
	},
	thresholds.SocialMentions: {
		highEmotion:  affect.Anticipation,
		category:     stimulus.MentionSpikes,
		highTemplate: "mentions spiking, %.0f this window",
	},
	thresholds.EngagementRate: {
		highEmotion:  affect.Joy,
		lowEmotion:   affect.Sadness,
		category:     stimulus.SocialEngagement,
		highTemplate: "engagement rate at %.3f",
		lowTemplate:  "nobody engaging, rate down to %.3f",
	},
}

// #endregion mapping

// #region from-metric

// FromMetric converts one raw observation into stimuli, using the adaptive
// threshold for the metric to decide whether the observation is unusual and
// how strongly it should land. Metrics inside the ordinary band produce
// nothing.
func FromMetric(metric thresholds.Metric, value float64, th thresholds.Threshold) []affect.Stimulus {
	m, ok := metricMappings[metric]
	if !ok {
		return nil
	}

	switch {
	case value >= th.High:
		return []affect.Stimulus{{
			Emotion:        m.highEmotion,
			Intensity:      ScaleOvershoot(value, th.High, 0.1, 0.45),
			Source:         fmt.Sprintf(m.highTemplate, value),
			WeightCategory: string(m.category),
		}}
	case m.lowEmotion != "" && value <= th.Low:
		return []affect.Stimulus{{
			Emotion:        m.lowEmotion,
			Intensity:      0.1,
			Source:         fmt.Sprintf(m.lowTemplate, value),
			WeightCategory: string(m.category),
		}}
	default:
		return nil
	}
}

// ScaleOvershoot maps how far value sits past the threshold into an
// intensity in [base, max]: at the threshold the stimulus is barely felt, at
// double the threshold (or beyond) it saturates.
func ScaleOvershoot(value, threshold, base, max float64) float64 {
	if threshold <= 0 {
		return base
	}
	frac := (value - threshold) / threshold
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return base + frac*(max-base)
}

// #endregion from-metric
