package runtime

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/panyam/caresim/core"
)

// SweepPoint is one intervention capacity of a sweep.
type SweepPoint struct {
	InterventionCapacity float64    `json:"interventionCapacity"`
	Comparison           Comparison `json:"comparison"`
}

// CapacityRange lists from, from+step, ... up to and including to.
func CapacityRange(from, to, step float64) ([]float64, error) {
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return nil, errors.New("sweep step must be a positive number")
	}
	if to < from {
		return nil, fmt.Errorf("sweep range is empty: %v > %v", from, to)
	}
	n := int(math.Floor((to-from)/step+1e-9)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = from + float64(i)*step
	}
	return out, nil
}

// Sweep runs one comparison per intervention capacity, spreading the
// capacities over numWorkers goroutines. Results keep the order of
// capacities. onPoint, if set, is called from worker goroutines.
func (s *Simulator) Sweep(p core.Parameters, capacities []float64, numWorkers int, onPoint func(i int, pt SweepPoint)) ([]SweepPoint, error) {
	// Validate once up front so every worker sees the same verdict.
	probe := p
	probe.InterventionCapacityPerPeriod = p.BaselineCapacityPerPeriod
	if err := probe.Validate(); err != nil {
		return nil, err
	}
	if len(capacities) == 0 {
		return nil, nil
	}
	startTime := time.Now()
	defer func() {
		s.Logger.Debug("sweep of %d capacities took %v", len(capacities), time.Since(startTime))
	}()

	numWorkers = max(1, min(numWorkers, len(capacities)))
	perWorker := (len(capacities) + numWorkers - 1) / numWorkers

	results := make([]SweepPoint, len(capacities))
	errs := make([]error, numWorkers)
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(workerIndex int) {
			defer wg.Done()
			start := workerIndex * perWorker
			end := min(start+perWorker, len(capacities))
			for i := start; i < end; i++ {
				q := p
				q.InterventionCapacityPerPeriod = capacities[i]
				q.InterventionLabel = ""
				c, err := s.Run(q)
				if err != nil {
					errs[workerIndex] = fmt.Errorf("capacity %v: %w", capacities[i], err)
					return
				}
				results[i] = SweepPoint{InterventionCapacity: capacities[i], Comparison: c}
				if onPoint != nil {
					onPoint(i, results[i])
				}
			}
		}(w)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return results, nil
}

// RunSweep sweeps with the default simulator.
func RunSweep(p core.Parameters, capacities []float64, numWorkers int) ([]SweepPoint, error) {
	return defaultSimulator.Sweep(p, capacities, numWorkers, nil)
}
