package core

import (
	"fmt"
	"math"
	"strings"
)

// Granularity selects what one simulation period stands for.
type Granularity string

const (
	// Weekly periods model the surgical queue. Wait estimates are in days.
	Weekly Granularity = "weekly"

	// Hourly periods model emergency-department flow. Wait estimates are in hours.
	Hourly Granularity = "hourly"
)

// MaxDurationPeriods bounds a run: ten years of weekly periods, or a little
// over eleven years of hourly ones.
const MaxDurationPeriods = 100_000

// ParseGranularity accepts "weekly"/"hourly" (and the short forms "w"/"h").
// An empty string means Weekly.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "weekly", "week", "w":
		return Weekly, nil
	case "hourly", "hour", "h":
		return Hourly, nil
	default:
		return "", invalid("granularity", s, "must be one of weekly|hourly")
	}
}

// PeriodLength is the length of one period in the wait-estimate time unit.
func (g Granularity) PeriodLength() float64 {
	if g == Hourly {
		return 1
	}
	return 7
}

// TimeUnit names the unit wait estimates are reported in.
func (g Granularity) TimeUnit() string {
	if g == Hourly {
		return "hours"
	}
	return "days"
}

// PeriodUnit names a single period.
func (g Granularity) PeriodUnit() string {
	if g == Hourly {
		return "hour"
	}
	return "week"
}

func (g Granularity) orDefault() Granularity {
	if g == "" {
		return Weekly
	}
	return g
}

// Parameters is the immutable input record for one comparison run.
type Parameters struct {
	ArrivalRatePerPeriod          float64     `json:"arrivalRatePerPeriod" yaml:"arrival_rate_per_period"`
	BaselineCapacityPerPeriod     float64     `json:"baselineCapacityPerPeriod" yaml:"baseline_capacity_per_period"`
	InterventionCapacityPerPeriod float64     `json:"interventionCapacityPerPeriod" yaml:"intervention_capacity_per_period"`
	InitialQueueLength            float64     `json:"initialQueueLength" yaml:"initial_queue_length"`
	DurationPeriods               int         `json:"durationPeriods" yaml:"duration_periods"`
	Granularity                   Granularity `json:"granularity,omitempty" yaml:"granularity"`
	BaselineLabel                 string      `json:"baselineLabel,omitempty" yaml:"baseline_label"`
	InterventionLabel             string      `json:"interventionLabel,omitempty" yaml:"intervention_label"`
}

// DefaultParameters mirrors the defaults of the surgical queue dashboard.
func DefaultParameters() Parameters {
	return Parameters{
		ArrivalRatePerPeriod:          15,
		BaselineCapacityPerPeriod:     12,
		InterventionCapacityPerPeriod: 14,
		InitialQueueLength:            150,
		DurationPeriods:               26,
		Granularity:                   Weekly,
	}
}

// PeriodLength returns the period length of the record's granularity.
func (p Parameters) PeriodLength() float64 {
	return p.Granularity.orDefault().PeriodLength()
}

// Horizon is the simulated span in wait-estimate units. Wait estimates never
// exceed it.
func (p Parameters) Horizon() float64 {
	return float64(p.DurationPeriods) * p.PeriodLength()
}

// ScenarioLabels returns the baseline and intervention labels, deriving them
// from the capacities when unset.
func (p Parameters) ScenarioLabels() (baseline, intervention string) {
	unit := p.Granularity.orDefault().PeriodUnit()
	baseline = p.BaselineLabel
	if baseline == "" {
		baseline = fmt.Sprintf("Baseline (%s/%s)", FormatQuantity(p.BaselineCapacityPerPeriod), unit)
	}
	intervention = p.InterventionLabel
	if intervention == "" {
		intervention = fmt.Sprintf("Intervention (%s/%s)", FormatQuantity(p.InterventionCapacityPerPeriod), unit)
	}
	return
}

// validateInputs checks everything except capacities.
func (p Parameters) validateInputs() error {
	if p.DurationPeriods < 1 {
		return invalid("durationPeriods", p.DurationPeriods, "must be >= 1")
	}
	if p.DurationPeriods > MaxDurationPeriods {
		return invalid("durationPeriods", p.DurationPeriods, fmt.Sprintf("must be <= %d", MaxDurationPeriods))
	}
	if err := nonNegative("arrivalRatePerPeriod", p.ArrivalRatePerPeriod); err != nil {
		return err
	}
	if err := nonNegative("initialQueueLength", p.InitialQueueLength); err != nil {
		return err
	}
	if _, err := ParseGranularity(string(p.Granularity)); err != nil {
		return err
	}
	return nil
}

// Validate checks a record intended for a baseline/intervention comparison.
// Both capacities must be strictly positive here.
func (p Parameters) Validate() error {
	if err := p.validateInputs(); err != nil {
		return err
	}
	if err := positive("baselineCapacityPerPeriod", p.BaselineCapacityPerPeriod); err != nil {
		return err
	}
	return positive("interventionCapacityPerPeriod", p.InterventionCapacityPerPeriod)
}

func nonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid(field, v, "must be a finite number")
	}
	if v < 0 {
		return invalid(field, v, "must be >= 0")
	}
	return nil
}

func positive(field string, v float64) error {
	if err := nonNegative(field, v); err != nil {
		return err
	}
	if v == 0 {
		return invalid(field, v, "must be > 0")
	}
	return nil
}

// InterventionMode says how an Intervention value relates to the baseline.
type InterventionMode string

const (
	// Absolute sets the intervention capacity directly.
	Absolute InterventionMode = "absolute"

	// Additional adds slots on top of the baseline capacity.
	Additional InterventionMode = "additional"
)

// Intervention is the user-facing form of the intervention capacity. It is
// normalized to a single capacity before any run.
type Intervention struct {
	Mode  InterventionMode `json:"mode" yaml:"mode"`
	Value float64          `json:"value" yaml:"value"`
}

// Resolve returns the intervention capacity per period for the given baseline.
func (iv Intervention) Resolve(baseline float64) (float64, error) {
	if err := nonNegative("intervention.value", iv.Value); err != nil {
		return 0, err
	}
	switch iv.Mode {
	case Absolute, "":
		return iv.Value, nil
	case Additional:
		return baseline + iv.Value, nil
	default:
		return 0, invalid("intervention.mode", iv.Mode, "must be one of absolute|additional")
	}
}

// WithIntervention returns a copy of p whose intervention capacity is the
// normalized value of iv.
func (p Parameters) WithIntervention(iv Intervention) (Parameters, error) {
	capacity, err := iv.Resolve(p.BaselineCapacityPerPeriod)
	if err != nil {
		return p, err
	}
	p.InterventionCapacityPerPeriod = capacity
	return p, nil
}

// Summary is a compact one-line description, e.g. "λ15 · 12→14/wk · 26 wk".
func (p Parameters) Summary() string {
	short := "wk"
	if p.Granularity.orDefault() == Hourly {
		short = "h"
	}
	return fmt.Sprintf("λ%s · %s→%s/%s · %d %s",
		FormatQuantity(p.ArrivalRatePerPeriod),
		FormatQuantity(p.BaselineCapacityPerPeriod),
		FormatQuantity(p.InterventionCapacityPerPeriod),
		short, p.DurationPeriods, short)
}
