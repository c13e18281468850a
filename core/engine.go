package core

// WaitEscalationFactor inflates the wait estimate of a scenario whose
// arrivals exceed its capacity. It is a heuristic flag for a diverging
// queue, not a derived queueing quantity.
const WaitEscalationFactor = 1.5

// ScenarioResult is the output of one engine run. It is plain data and is
// never modified after RunScenario returns it.
type ScenarioResult struct {
	Label                string         `json:"label"`
	CapacityPerPeriod    float64        `json:"capacityPerPeriod"`
	QueueLengthByPeriod  []float64      `json:"queueLengthByPeriod"`
	ServedByPeriod       []float64      `json:"servedByPeriod"`
	CumulativeServed     []float64      `json:"cumulativeServed"`
	WaitEstimateByPeriod []float64      `json:"waitEstimateByPeriod"`
	AverageWaitEstimate  float64        `json:"averageWaitEstimate"`
	TotalServed          float64        `json:"totalServed"`
	FinalQueueLength     float64        `json:"finalQueueLength"`
	Utilization          float64        `json:"utilization"`
	Status               CapacityStatus `json:"status"`
	Warnings             []Warning      `json:"warnings,omitempty"`
}

// Periods returns the number of simulated periods.
func (r ScenarioResult) Periods() int {
	return len(r.QueueLengthByPeriod)
}

// RunScenario runs the deterministic backlog recurrence for one capacity.
//
// The capacity may be zero here (a closed service); the wait estimate is then
// reported as the horizon cap instead of dividing by zero. Negative or
// non-finite inputs and DurationPeriods < 1 are rejected before any step.
func RunScenario(p Parameters, capacityPerPeriod float64, label string) (ScenarioResult, error) {
	if err := p.validateInputs(); err != nil {
		return ScenarioResult{}, err
	}
	if err := nonNegative("capacityPerPeriod", capacityPerPeriod); err != nil {
		return ScenarioResult{}, err
	}
	p.Granularity, _ = ParseGranularity(string(p.Granularity))

	n := p.DurationPeriods
	queue := make([]float64, n)
	served := make([]float64, n)

	queue[0] = p.InitialQueueLength
	for i := 1; i < n; i++ {
		served[i-1] = MinQuantity(queue[i-1], capacityPerPeriod)
		// Backlog is clamped at zero even when capacity exceeds queue+arrivals.
		queue[i] = MaxQuantity(0, queue[i-1]+p.ArrivalRatePerPeriod-served[i-1])
	}
	// The last period's service does not feed a further queue state.
	served[n-1] = MinQuantity(queue[n-1], capacityPerPeriod)

	cumulative := make([]float64, n)
	var total float64
	for i, s := range served {
		total += s
		cumulative[i] = total
	}

	avgWait, warnings := WaitEstimate(p, p.InitialQueueLength, capacityPerPeriod)
	waits := make([]float64, n)
	for i, q := range queue {
		waits[i], _ = WaitEstimate(p, q, capacityPerPeriod)
	}

	return ScenarioResult{
		Label:                label,
		CapacityPerPeriod:    capacityPerPeriod,
		QueueLengthByPeriod:  queue,
		ServedByPeriod:       served,
		CumulativeServed:     cumulative,
		WaitEstimateByPeriod: waits,
		AverageWaitEstimate:  avgWait,
		TotalServed:          total,
		FinalQueueLength:     queue[n-1],
		Utilization:          Utilization(total, capacityPerPeriod, n),
		Status:               ClassifyCapacity(p.ArrivalRatePerPeriod, capacityPerPeriod),
		Warnings:             warnings,
	}, nil
}
