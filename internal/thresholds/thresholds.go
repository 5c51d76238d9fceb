// Package thresholds maintains exponential moving averages of context
// metrics and derives self-calibrating high/low thresholds from them, so
// "what counts as unusual" tracks the current regime instead of fixed
// constants. Until a metric has enough history its thresholds fall back to
// the defaults table owned here; callers never carry their own fallback.
package thresholds

import "time"

// #region constants

const (
	// Alpha is the EMA smoothing factor applied once per cycle per metric.
	Alpha = 0.15

	// MinHistory is the number of observed cycles required before adaptive
	// thresholds activate for a metric.
	MinHistory = 5

	// HighMultiplier and LowMultiplier scale the rolling average into the
	// "unusually high" and "unusually low" thresholds.
	HighMultiplier = 1.5
	LowMultiplier  = 0.5
)

// #endregion constants

// #region metrics

// Metric names one tracked context metric.
type Metric string

const (
	TxCountChangePct  Metric = "txCountChangePct"
	WhaleTransferSize Metric = "whaleTransferSize"
	GasPriceGwei      Metric = "gasPriceGwei"
	FailedTxCount     Metric = "failedTxCount"
	PriceSwingPct     Metric = "priceSwingPct"
	SocialMentions    Metric = "socialMentions"
	EngagementRate    Metric = "engagementRate"
	CPULoadPct        Metric = "cpuLoadPct"
)

// Default is the fixed fallback threshold pair for one metric.
type Default struct {
	High float64 `json:"high"`
	Low  float64 `json:"low"`
}

// defaults is the single authoritative fallback table. The change-percent
// metric is asymmetric: +50% counts as busy, -30% as quiet.
var defaults = map[Metric]Default{
	TxCountChangePct:  {High: 50, Low: -30},
	WhaleTransferSize: {High: 10000, Low: 5000},
	GasPriceGwei:      {High: 40, Low: 20},
	FailedTxCount:     {High: 5, Low: 1},
	PriceSwingPct:     {High: 5, Low: 1},
	SocialMentions:    {High: 20, Low: 5},
	EngagementRate:    {High: 0.02, Low: 0.005},
	CPULoadPct:        {High: 75, Low: 20},
}

// Defaults returns a copy of the fallback table.
func Defaults() map[Metric]Default {
	out := make(map[Metric]Default, len(defaults))
	for m, d := range defaults {
		out[m] = d
	}
	return out
}

// #endregion metrics

// #region rolling

// Average is one metric's smoothed running value.
type Average struct {
	Value   float64 `json:"value"`
	Samples int     `json:"samples"`
}

// Rolling holds the persisted rolling averages for all observed metrics.
type Rolling struct {
	Averages  map[Metric]Average `json:"averages"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// NewRolling returns an empty rolling-average record.
func NewRolling() Rolling {
	return Rolling{Averages: make(map[Metric]Average)}
}

// Clone returns an independent copy.
func (r Rolling) Clone() Rolling {
	out := r
	out.Averages = make(map[Metric]Average, len(r.Averages))
	for m, a := range r.Averages {
		out.Averages[m] = a
	}
	return out
}

// Observe folds one raw sample into the metric's EMA. The first sample
// seeds the average directly. Pure: the input record is not modified.
func Observe(r Rolling, metric Metric, value float64, now time.Time) Rolling {
	next := r.Clone()
	avg, ok := next.Averages[metric]
	if !ok || avg.Samples == 0 {
		avg = Average{Value: value, Samples: 1}
	} else {
		avg.Value = avg.Value + Alpha*(value-avg.Value)
		avg.Samples++
	}
	next.Averages[metric] = avg
	next.UpdatedAt = now
	return next
}

// #endregion rolling

// #region thresholds

// Threshold is the derived gate for one metric. Adaptive reports whether the
// values came from the rolling average or the defaults table.
type Threshold struct {
	Metric   Metric  `json:"metric"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Adaptive bool    `json:"adaptive"`
}

// Compute derives thresholds for every metric in the defaults table, using
// the rolling average where at least MinHistory cycles exist and the
// defaults otherwise.
func Compute(r Rolling) map[Metric]Threshold {
	out := make(map[Metric]Threshold, len(defaults))
	for m, d := range defaults {
		th := Threshold{Metric: m, High: d.High, Low: d.Low}
		if avg, ok := r.Averages[m]; ok && avg.Samples >= MinHistory {
			th.High = avg.Value * HighMultiplier
			th.Low = avg.Value * LowMultiplier
			th.Adaptive = true
		}
		out[m] = th
	}
	return out
}

// For returns the threshold for a single metric, falling back to the
// defaults table for unknown metrics.
func For(r Rolling, metric Metric) Threshold {
	if th, ok := Compute(r)[metric]; ok {
		return th
	}
	d := defaults[metric]
	return Threshold{Metric: metric, High: d.High, Low: d.Low}
}

// #endregion thresholds
