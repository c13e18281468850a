package runtime

import (
	"sync/atomic"
	"testing"

	"github.com/panyam/caresim/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapacityRange(t *testing.T) {
	r, err := CapacityRange(12, 16, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{12, 13, 14, 15, 16}, r)

	r, err = CapacityRange(1, 2, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1.5, 2}, r)

	_, err = CapacityRange(1, 2, 0)
	assert.Error(t, err)
	_, err = CapacityRange(3, 2, 1)
	assert.Error(t, err)
}

func TestSweep_OrderedAndMonotone(t *testing.T) {
	defer QuietTest(t)()
	capacities, err := CapacityRange(12, 20, 1)
	require.NoError(t, err)

	var calls atomic.Int32
	points, err := NewSimulator(nil).Sweep(core.DefaultParameters(), capacities, 4, func(int, SweepPoint) { calls.Add(1) })
	require.NoError(t, err)
	require.Len(t, points, len(capacities))
	assert.Equal(t, int32(len(capacities)), calls.Load())

	for i, pt := range points {
		assert.Equal(t, capacities[i], pt.InterventionCapacity)
		assert.Equal(t, capacities[i], pt.Comparison.Intervention.CapacityPerPeriod)
		assert.Equal(t, 225.0, pt.Comparison.Baseline.FinalQueueLength)
		if i > 0 {
			assert.LessOrEqual(t, pt.Comparison.Intervention.FinalQueueLength, points[i-1].Comparison.Intervention.FinalQueueLength)
		}
	}
	assert.Equal(t, "Intervention (14/week)", points[2].Comparison.Intervention.Label)
}

func TestSweep_MoreWorkersThanCapacities(t *testing.T) {
	defer QuietTest(t)()
	points, err := RunSweep(core.DefaultParameters(), []float64{13}, 16)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 200.0, points[0].Comparison.Intervention.FinalQueueLength)
}

func TestSweep_Errors(t *testing.T) {
	defer QuietTest(t)()
	p := core.DefaultParameters()
	_, err := RunSweep(p, []float64{14, 0, 16}, 2)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)

	p.DurationPeriods = 0
	_, err = RunSweep(p, []float64{14}, 2)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}
