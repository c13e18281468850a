package core

import "fmt"

// CapacityStatus summarizes how capacity relates to arrivals.
type CapacityStatus string

const (
	// Growing: arrivals exceed capacity, the backlog keeps increasing.
	Growing CapacityStatus = "growing"
	// Balanced: capacity just covers new arrivals, the backlog does not shrink.
	Balanced CapacityStatus = "balanced"
	// Draining: capacity exceeds arrivals, the backlog can be cleared.
	Draining CapacityStatus = "draining"
)

// ClassifyCapacity compares the arrival rate against a capacity.
func ClassifyCapacity(arrivals, capacity float64) CapacityStatus {
	switch {
	case arrivals > capacity:
		return Growing
	case arrivals < capacity:
		return Draining
	default:
		return Balanced
	}
}

// WaitEstimate is the dashboard's wait heuristic for a backlog of the given
// size: backlog / (capacity / periodLength), inflated by WaitEscalationFactor
// when arrivals exceed capacity, and capped at the simulated horizon.
//
// This is an approximation carried over for compatibility, not a queueing
// theory result.
func WaitEstimate(p Parameters, backlog, capacity float64) (float64, []Warning) {
	if backlog == 0 {
		return 0, nil
	}
	horizon := p.Horizon()
	var warnings []Warning
	if capacity == 0 {
		warnings = append(warnings, Warning{
			Code:    WarnDivisionGuarded,
			Message: fmt.Sprintf("capacity is zero; wait reported as the %s %s horizon", FormatQuantity(horizon), p.Granularity.orDefault().TimeUnit()),
		})
		return horizon, warnings
	}

	wait := backlog / (capacity / p.PeriodLength())
	if p.ArrivalRatePerPeriod > capacity {
		wait *= WaitEscalationFactor
		warnings = append(warnings, Warning{
			Code:    WarnDivergingQueue,
			Message: fmt.Sprintf("arrivals %s exceed capacity %s; queue is diverging", FormatQuantity(p.ArrivalRatePerPeriod), FormatQuantity(capacity)),
		})
	}
	return MinQuantity(wait, horizon), warnings
}

// Utilization is the share of offered capacity that was used.
func Utilization(totalServed, capacity float64, periods int) float64 {
	offered := capacity * float64(periods)
	if offered == 0 {
		return 0
	}
	return totalServed / offered
}
