package intake

import (
	"errors"
	"fmt"
	"math"

	"github.com/panyam/caresim/core"
	"gonum.org/v1/gonum/stat"
)

var ErrNotTrained = errors.New("forecaster has not been trained")

// Forecaster predicts future per-period arrivals from a history series.
type Forecaster interface {
	Train(series []float64) error
	Predict(steps int) []float64
}

const (
	DefaultMovingAverageWindow = 4
	DefaultSmoothingAlpha      = 0.3
)

// MovingAverage forecasts the mean of the last Window observations.
type MovingAverage struct {
	Window int
	level  float64
	ready  bool
}

func NewMovingAverage(window int) *MovingAverage {
	if window <= 0 {
		window = DefaultMovingAverageWindow
	}
	return &MovingAverage{Window: window}
}

func (m *MovingAverage) Train(series []float64) error {
	if len(series) == 0 {
		return ErrEmptyHistory
	}
	w := min(max(m.Window, 1), len(series))
	m.level = stat.Mean(series[len(series)-w:], nil)
	m.ready = true
	return nil
}

func (m *MovingAverage) Predict(steps int) []float64 {
	return flat(m.level, m.ready, steps)
}

// ExponentialSmoothing is simple (level-only) exponential smoothing.
type ExponentialSmoothing struct {
	Alpha float64
	level float64
	ready bool
}

func NewExponentialSmoothing(alpha float64) *ExponentialSmoothing {
	if alpha <= 0 {
		alpha = DefaultSmoothingAlpha
	}
	return &ExponentialSmoothing{Alpha: alpha}
}

func (e *ExponentialSmoothing) Train(series []float64) error {
	if e.Alpha <= 0 || e.Alpha > 1 {
		return fmt.Errorf("smoothing alpha must be in (0, 1], got %v", e.Alpha)
	}
	if len(series) == 0 {
		return ErrEmptyHistory
	}
	level := series[0]
	for _, x := range series[1:] {
		level = e.Alpha*x + (1-e.Alpha)*level
	}
	e.level = level
	e.ready = true
	return nil
}

func (e *ExponentialSmoothing) Predict(steps int) []float64 {
	return flat(e.level, e.ready, steps)
}

func flat(level float64, ready bool, steps int) []float64 {
	if !ready || steps <= 0 {
		return nil
	}
	out := make([]float64, steps)
	for i := range out {
		out[i] = level
	}
	return out
}

// NewForecaster builds a forecaster by name: "moving-average" (or "ma")
// and "exponential" (or "ses").
func NewForecaster(name string, window int, alpha float64) (Forecaster, error) {
	switch name {
	case "", "moving-average", "ma":
		return NewMovingAverage(window), nil
	case "exponential", "ses":
		return NewExponentialSmoothing(alpha), nil
	}
	return nil, fmt.Errorf("unknown forecaster %q", name)
}

// SuggestParameters seeds base with the one-step arrival forecast and the
// backlog implied by the latest observed wait (Little's law). Capacities
// and duration are left as given.
func SuggestParameters(h *History, f Forecaster, base core.Parameters) (core.Parameters, error) {
	if h == nil || h.Len() == 0 {
		return base, ErrEmptyHistory
	}
	if err := f.Train(h.Arrivals()); err != nil {
		return base, err
	}
	next := f.Predict(1)
	if len(next) == 0 {
		return base, ErrNotTrained
	}

	p := base
	p.ArrivalRatePerPeriod = round2(math.Max(0, next[0]))
	lastWait := h.Observations[h.Len()-1].WaitTime
	p.InitialQueueLength = math.Round(p.ArrivalRatePerPeriod * lastWait / p.PeriodLength())
	return p, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
