// Package runtime runs baseline/intervention comparisons on top of the core
// recurrence engine and hosts the logging used across caresim.
package runtime

import (
	"fmt"

	"github.com/panyam/caresim/core"
)

// Direction says whether a change favours the intervention.
type Direction string

const (
	Improvement Direction = "improvement"
	Worsening   Direction = "worsening"
	Unchanged   Direction = "unchanged"
)

// Delta is a relative change between the baseline and intervention KPIs.
// A positive ChangePct always means the intervention is better.
type Delta struct {
	ChangePct float64   `json:"changePct"`
	Direction Direction `json:"direction"`
}

func newDelta(pct float64) Delta {
	if pct == 0 {
		pct = 0 // drop the sign of -0
	}
	d := Delta{ChangePct: pct, Direction: Unchanged}
	if pct > 0 {
		d.Direction = Improvement
	} else if pct < 0 {
		d.Direction = Worsening
	}
	return d
}

// Deltas summarizes the intervention against the baseline.
//
// Wait and FinalQueue are reductions ((b-i)/b); TotalServed and Utilization
// are increases ((i-b)/b). Each is 0 when the baseline value is 0.
type Deltas struct {
	Wait        Delta `json:"wait"`
	FinalQueue  Delta `json:"finalQueue"`
	TotalServed Delta `json:"totalServed"`
	Utilization Delta `json:"utilization"`
}

// ComputeDeltas derives the relative-change summary of two scenario results.
func ComputeDeltas(baseline, intervention core.ScenarioResult) Deltas {
	return Deltas{
		Wait:        newDelta(-core.PercentChange(baseline.AverageWaitEstimate, intervention.AverageWaitEstimate)),
		FinalQueue:  newDelta(-core.PercentChange(baseline.FinalQueueLength, intervention.FinalQueueLength)),
		TotalServed: newDelta(core.PercentChange(baseline.TotalServed, intervention.TotalServed)),
		Utilization: newDelta(core.PercentChange(baseline.Utilization, intervention.Utilization)),
	}
}

// Comparison is the packaged outcome of one dual-scenario run.
type Comparison struct {
	Parameters   core.Parameters     `json:"parameters"`
	Baseline     core.ScenarioResult `json:"baseline"`
	Intervention core.ScenarioResult `json:"intervention"`
	Deltas       Deltas              `json:"deltas"`
}

// Simulator runs comparisons. It holds no state between runs besides its
// logger, so one value may be shared freely.
type Simulator struct {
	Logger Logger
}

func NewSimulator(logger Logger) *Simulator {
	if logger == nil {
		logger = globalLogger
	}
	return &Simulator{Logger: logger}
}

// Run validates p and runs the engine once per capacity against the same
// arrival and initial-queue inputs.
func (s *Simulator) Run(p core.Parameters) (Comparison, error) {
	if err := p.Validate(); err != nil {
		return Comparison{}, err
	}
	p.Granularity, _ = core.ParseGranularity(string(p.Granularity))
	baseLabel, ivLabel := p.ScenarioLabels()

	baseline, err := core.RunScenario(p, p.BaselineCapacityPerPeriod, baseLabel)
	if err != nil {
		return Comparison{}, fmt.Errorf("baseline scenario: %w", err)
	}
	intervention, err := core.RunScenario(p, p.InterventionCapacityPerPeriod, ivLabel)
	if err != nil {
		return Comparison{}, fmt.Errorf("intervention scenario: %w", err)
	}

	c := Comparison{
		Parameters:   p,
		Baseline:     baseline,
		Intervention: intervention,
		Deltas:       ComputeDeltas(baseline, intervention),
	}
	s.Logger.Debug("comparison %s: final queue %s -> %s, wait %s -> %s %s",
		p.Summary(),
		core.FormatQuantity(baseline.FinalQueueLength), core.FormatQuantity(intervention.FinalQueueLength),
		core.FormatQuantity(baseline.AverageWaitEstimate), core.FormatQuantity(intervention.AverageWaitEstimate),
		p.Granularity.TimeUnit())
	for _, w := range append(baseline.Warnings, intervention.Warnings...) {
		s.Logger.Debug("  %s: %s", w.Code, w.Message)
	}
	return c, nil
}

var defaultSimulator = &Simulator{Logger: globalLogger}

// RunComparison runs p with the default simulator.
func RunComparison(p core.Parameters) (Comparison, error) {
	return defaultSimulator.Run(p)
}
