// Package generators holds the in-process stimulus generators. They are
// ordinary consumers of the engine's boundary contract: each turns raw
// observations into stimuli, gated and scaled by the adaptive thresholds,
// and exists mostly so the daemon has a heartbeat of real signals without
// any external detector wired up.
package generators

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/solien-labs/affective-state/internal/affect"
	"github.com/solien-labs/affective-state/internal/stimulus"
	"github.com/solien-labs/affective-state/internal/thresholds"
)

// #region sampler

// HostSampler abstracts gopsutil so the generator can be tested without
// touching the host.
type HostSampler interface {
	CPUPercent(ctx context.Context) (float64, error)
	MemoryPercent(ctx context.Context) (float64, error)
}

type gopsutilSampler struct{}

func (gopsutilSampler) CPUPercent(ctx context.Context) (float64, error) {
	vals, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, fmt.Errorf("cpu percent: %w", err)
	}
	if len(vals) == 0 {
		return 0, fmt.Errorf("cpu percent: no samples")
	}
	return vals[0], nil
}

func (gopsutilSampler) MemoryPercent(ctx context.Context) (float64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("virtual memory: %w", err)
	}
	return vm.UsedPercent, nil
}

// #endregion sampler

// #region hostload

// HostLoad converts the daemon's own runtime health into self-performance
// stimuli: strain reads as fear, headroom as mild joy.
type HostLoad struct {
	sampler HostSampler
}

// NewHostLoad returns a generator backed by gopsutil.
func NewHostLoad() *HostLoad {
	return &HostLoad{sampler: gopsutilSampler{}}
}

// NewHostLoadWithSampler injects a sampler for tests.
func NewHostLoadWithSampler(s HostSampler) *HostLoad {
	return &HostLoad{sampler: s}
}

// Generate samples the host and returns stimuli plus the raw CPU metric for
// the rolling averages. The CPU threshold decides whether load is unusual;
// intensity scales with overshoot.
func (g *HostLoad) Generate(ctx context.Context, th thresholds.Threshold) ([]affect.Stimulus, float64, error) {
	cpuPct, err := g.sampler.CPUPercent(ctx)
	if err != nil {
		return nil, 0, err
	}
	memPct, err := g.sampler.MemoryPercent(ctx)
	if err != nil {
		return nil, 0, err
	}

	var out []affect.Stimulus
	if cpuPct >= th.High {
		out = append(out, affect.Stimulus{
			Emotion:        affect.Fear,
			Intensity:      ScaleOvershoot(cpuPct, th.High, 0.1, 0.4),
			Source:         fmt.Sprintf("cpu running hot at %.0f%%", cpuPct),
			WeightCategory: string(stimulus.SelfPerformance),
		})
	} else if cpuPct <= th.Low {
		out = append(out, affect.Stimulus{
			Emotion:        affect.Joy,
			Intensity:      0.05,
			Source:         fmt.Sprintf("plenty of headroom, cpu at %.0f%%", cpuPct),
			WeightCategory: string(stimulus.SelfPerformance),
		})
	}
	if memPct >= 90 {
		out = append(out, affect.Stimulus{
			Emotion:        affect.Fear,
			Intensity:      0.25,
			Source:         fmt.Sprintf("memory nearly exhausted at %.0f%%", memPct),
			WeightCategory: string(stimulus.SelfPerformance),
		})
	}
	return out, cpuPct, nil
}

// #endregion hostload

// Interval is how often the host-load generator is worth sampling; more
// often than the cycle interval just reads the same regime twice.
const Interval = time.Minute
