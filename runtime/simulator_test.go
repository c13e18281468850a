package runtime

import (
	"testing"

	"github.com/panyam/caresim/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunComparison_SurgicalQueue(t *testing.T) {
	defer QuietTest(t)()

	c, err := RunComparison(core.DefaultParameters())
	require.NoError(t, err)

	assert.Equal(t, "Baseline (12/week)", c.Baseline.Label)
	assert.Equal(t, "Intervention (14/week)", c.Intervention.Label)
	assert.Less(t, c.Intervention.FinalQueueLength, c.Baseline.FinalQueueLength)

	assert.InDelta(t, 14.2857, c.Deltas.Wait.ChangePct, 1e-3)
	assert.Equal(t, Improvement, c.Deltas.Wait.Direction)
	assert.InDelta(t, 22.2222, c.Deltas.FinalQueue.ChangePct, 1e-3)
	assert.InDelta(t, 16.6667, c.Deltas.TotalServed.ChangePct, 1e-3)
	assert.Equal(t, Improvement, c.Deltas.TotalServed.Direction)
	assert.Equal(t, 0.0, c.Deltas.Utilization.ChangePct)
	assert.Equal(t, Unchanged, c.Deltas.Utilization.Direction)
}

func TestRunComparison_WorseIntervention(t *testing.T) {
	defer QuietTest(t)()

	p := core.DefaultParameters()
	p.InterventionCapacityPerPeriod = 10
	c, err := RunComparison(p)
	require.NoError(t, err)
	assert.Equal(t, Worsening, c.Deltas.FinalQueue.Direction)
	assert.Equal(t, Worsening, c.Deltas.TotalServed.Direction)
}

func TestRunComparison_ZeroBaselineKPIs(t *testing.T) {
	defer QuietTest(t)()

	p := core.Parameters{BaselineCapacityPerPeriod: 3, InterventionCapacityPerPeriod: 5, DurationPeriods: 4}
	c, err := RunComparison(p)
	require.NoError(t, err)
	assert.Equal(t, Deltas{
		Wait:        Delta{Direction: Unchanged},
		FinalQueue:  Delta{Direction: Unchanged},
		TotalServed: Delta{Direction: Unchanged},
		Utilization: Delta{Direction: Unchanged},
	}, c.Deltas)
	assert.Equal(t, core.Weekly, c.Parameters.Granularity)
}

func TestRunComparison_RejectsBeforeRunning(t *testing.T) {
	p := core.DefaultParameters()
	p.BaselineCapacityPerPeriod = 0
	c, err := RunComparison(p)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
	assert.Nil(t, c.Baseline.QueueLengthByPeriod)

	p = core.DefaultParameters()
	p.DurationPeriods = 0
	_, err = RunComparison(p)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestSimulator_LogsSummaryAtDebug(t *testing.T) {
	buffer, cleanup := CaptureLog(t, LogLevelDebug)
	defer cleanup()

	_, err := NewSimulator(nil).Run(core.DefaultParameters())
	require.NoError(t, err)
	assert.Contains(t, buffer.String(), "final queue 225 -> 175")
	assert.Contains(t, buffer.String(), string(core.WarnDivergingQueue))
}

func TestSimpleIDGen(t *testing.T) {
	var g SimpleIDGen
	assert.Equal(t, "cmp-1", g.NextID("cmp"))
	assert.Equal(t, "cmp-2", g.NextID("cmp"))
}
