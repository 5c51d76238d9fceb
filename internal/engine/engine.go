// Package engine runs the affect cycle: decay, stimulus weighting,
// aggregation, mood resolution, persistence, then sensitivity-bank decay and
// adjustment application. One cycle runs to completion before the next
// begins; all mutation is serialized here so the pure packages underneath
// never see concurrent state.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/solien-labs/affective-state/internal/affect"
	"github.com/solien-labs/affective-state/internal/generators"
	"github.com/solien-labs/affective-state/internal/history"
	"github.com/solien-labs/affective-state/internal/introspect"
	"github.com/solien-labs/affective-state/internal/store"
	"github.com/solien-labs/affective-state/internal/thresholds"
	"github.com/solien-labs/affective-state/internal/weights"
)

// #region types

// memoryWindow is how many recent snapshots feed the emotion memory.
const memoryWindow = 12

// MetricSample is one raw observation for the adaptive threshold engine.
type MetricSample struct {
	Metric thresholds.Metric `json:"metric"`
	Value  float64           `json:"value"`
}

// CycleInput carries everything external collaborators contributed since
// the previous cycle.
type CycleInput struct {
	Stimuli     []affect.Stimulus
	Adjustments []weights.Adjustment
	Metrics     []MetricSample

	// Trigger, when set, overrides the engine's own candidate trigger.
	Trigger string
	// Narrative is the opaque mood narrative supplied by the external
	// generator; stored as-is.
	Narrative string
}

// CycleResult reports what one cycle did.
type CycleResult struct {
	State            affect.State
	Bank             weights.Bank
	Memory           history.EmotionMemory
	Audit            []weights.AuditEntry
	AdjustmentErrors []error
	Elapsed          time.Duration
}

// #endregion types

// #region engine

// Engine owns the cycle loop and the queues external inputs land in
// between cycles.
type Engine struct {
	mu     sync.Mutex
	store  *store.Store
	mirror *store.Mirror // nil = no live mirror
	log    *zap.Logger
	clock  func() time.Time

	pendingStimuli     []affect.Stimulus
	pendingAdjustments []weights.Adjustment
	pendingMetrics     []MetricSample
}

// New creates an engine. mirror may be nil.
func New(st *store.Store, mirror *store.Mirror, log *zap.Logger) *Engine {
	return &Engine{
		store:  st,
		mirror: mirror,
		log:    log,
		clock:  time.Now,
	}
}

// #endregion engine

// #region queues

// QueueStimuli adds stimuli to the next cycle's batch. Stimuli with unknown
// weight categories are accepted; they pass through unweighted.
func (e *Engine) QueueStimuli(stimuli []affect.Stimulus) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pendingStimuli = append(e.pendingStimuli, stimuli...)
}

// QueueAdjustments adds weight adjustments; they apply at the end of the
// next cycle, after the bank's passive decay.
func (e *Engine) QueueAdjustments(adjs []weights.Adjustment) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pendingAdjustments = append(e.pendingAdjustments, adjs...)
}

// QueueMetrics adds raw metric observations for the rolling averages.
func (e *Engine) QueueMetrics(samples []MetricSample) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pendingMetrics = append(e.pendingMetrics, samples...)
}

// #endregion queues

// #region run-cycle

// RunCycle executes one full pass. Queued inputs are drained and merged
// with the explicit input. Serialized: a second caller blocks until the
// first cycle completes.
func (e *Engine) RunCycle(ctx context.Context, input CycleInput) (CycleResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := e.clock()
	stimuli := append(e.pendingStimuli, input.Stimuli...)
	adjs := append(e.pendingAdjustments, input.Adjustments...)
	samples := append(e.pendingMetrics, input.Metrics...)
	e.pendingStimuli = nil
	e.pendingAdjustments = nil
	e.pendingMetrics = nil

	st, err := e.store.EnsureInitialState(start)
	if err != nil {
		return CycleResult{}, fmt.Errorf("load state: %w", err)
	}

	// 1. Decay by wall time since the last persisted update.
	minutes := start.Sub(st.LastUpdated).Minutes()
	st = affect.Decay(st, minutes)

	// 2. Judge metric observations against the thresholds as they stood,
	// deriving stimuli for crossings, then fold them into the rolling
	// averages.
	rolling, err := e.store.LoadRolling()
	if err != nil {
		return CycleResult{}, fmt.Errorf("load rolling averages: %w", err)
	}
	ths := thresholds.Compute(rolling)
	for _, s := range samples {
		stimuli = append(stimuli, generators.FromMetric(s.Metric, s.Value, ths[s.Metric])...)
		rolling = thresholds.Observe(rolling, s.Metric, s.Value, start)
	}

	// 3. Weight stimuli with the bank as of the start of weighting; this
	// cycle's adjustments land after the aggregation below.
	bank, err := e.store.LoadBank(start)
	if err != nil {
		return CycleResult{}, fmt.Errorf("load bank: %w", err)
	}
	weighted := weights.Apply(stimuli, bank)

	// 4. Aggregate under inertia from recent history.
	recent, err := e.store.ListStates(memoryWindow)
	if err != nil {
		return CycleResult{}, fmt.Errorf("load history: %w", err)
	}
	mem := history.Compute(recent)
	st = affect.Stimulate(st, weighted, mem.Inertia())

	// 5. Resolve mood and finalize the record.
	if input.Trigger != "" {
		st.Trigger = input.Trigger
	}
	if input.Narrative != "" {
		st.MoodNarrative = input.Narrative
	}
	st = affect.UpdateMood(st)
	st.LastUpdated = start

	if err := e.store.CommitState(st, start); err != nil {
		return CycleResult{}, fmt.Errorf("commit state: %w", err)
	}

	// 6. Bank decay, then adjustments, in that order.
	bank = weights.DecayWeights(bank, start)
	bank, audit, adjErrs := weights.ApplyAdjustments(bank, adjs, start)
	for _, aerr := range adjErrs {
		e.log.Warn("adjustment rejected", zap.Error(aerr))
	}
	if err := e.store.SaveBank(bank); err != nil {
		return CycleResult{}, fmt.Errorf("save bank: %w", err)
	}
	if err := e.store.LogWeightAudit(audit); err != nil {
		return CycleResult{}, fmt.Errorf("log audit: %w", err)
	}
	if err := e.store.SaveRolling(rolling); err != nil {
		return CycleResult{}, fmt.Errorf("save rolling averages: %w", err)
	}

	e.verifyBounds(st, bank)

	if e.mirror != nil {
		if err := e.mirror.Publish(ctx, st, bank); err != nil {
			e.log.Warn("mirror publish failed", zap.Error(err))
		}
	}

	elapsed := e.clock().Sub(start)
	e.log.Info("cycle complete",
		zap.String("dominant", string(st.Dominant)),
		zap.String("label", st.DominantLabel),
		zap.Strings("compounds", st.Compounds),
		zap.String("trigger", st.Trigger),
		zap.Int("stimuli", len(stimuli)),
		zap.Int("adjustments_applied", len(audit)),
		zap.Int("adjustments_rejected", len(adjErrs)),
		zap.Int("cycle_count", bank.CycleCount),
		zap.Duration("elapsed", elapsed),
	)

	return CycleResult{
		State:            st,
		Bank:             bank,
		Memory:           mem,
		Audit:            audit,
		AdjustmentErrors: adjErrs,
		Elapsed:          elapsed,
	}, nil
}

// verifyBounds re-checks the invariants after aggregation. The pure
// functions cannot produce out-of-range values, so a violation means a bug
// upstream; it is logged rather than crashing the cycle.
func (e *Engine) verifyBounds(st affect.State, b weights.Bank) {
	for _, em := range affect.Wheel {
		if v := st.Emotions[em]; v < 0 || v > 1 {
			e.log.Error("emotion out of range", zap.String("emotion", string(em)), zap.Float64("value", v))
		}
	}
	for c, w := range b.Weights {
		if w < weights.Floor || w > weights.Ceiling {
			e.log.Error("weight out of range", zap.String("category", string(c)), zap.Float64("value", w))
		}
	}
}

// #endregion run-cycle

// #region reports

// State returns the current persisted affect state.
func (e *Engine) State() (affect.State, error) {
	return e.store.CurrentState()
}

// History returns recent snapshots, newest first.
func (e *Engine) History(limit int) ([]affect.State, error) {
	return e.store.ListStates(limit)
}

// Bank returns the current sensitivity bank.
func (e *Engine) Bank() (weights.Bank, error) {
	return e.store.LoadBank(e.clock())
}

// LearningReport computes learning stats from the persisted bank. Pure
// read; no side effects.
func (e *Engine) LearningReport() (introspect.Report, error) {
	bank, err := e.store.LoadBank(e.clock())
	if err != nil {
		return introspect.Report{}, fmt.Errorf("load bank: %w", err)
	}
	return introspect.ComputeLearningStats(bank), nil
}

// Thresholds returns the current adaptive thresholds, defaults merged in.
func (e *Engine) Thresholds() (map[thresholds.Metric]thresholds.Threshold, error) {
	rolling, err := e.store.LoadRolling()
	if err != nil {
		return nil, fmt.Errorf("load rolling averages: %w", err)
	}
	return thresholds.Compute(rolling), nil
}

// #endregion reports
