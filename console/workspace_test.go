package console

import (
	"testing"

	"github.com/panyam/caresim/core"
	"github.com/panyam/caresim/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCompare(t *testing.T, p core.Parameters) runtime.Comparison {
	t.Helper()
	defer runtime.QuietTest(t)()
	c, err := runtime.RunComparison(p)
	require.NoError(t, err)
	return c
}

func hourlyParams(periods int) core.Parameters {
	return core.Parameters{
		ArrivalRatePerPeriod:          6,
		BaselineCapacityPerPeriod:     5,
		InterventionCapacityPerPeriod: 7,
		InitialQueueLength:            20,
		DurationPeriods:               periods,
		Granularity:                   core.Hourly,
	}
}

func TestWorkspace_AddNamesAndDeduplicates(t *testing.T) {
	ws := NewWorkspace(nil)
	c := mustCompare(t, core.DefaultParameters())

	a, err := ws.Add("  Plan A ", c)
	require.NoError(t, err)
	b, err := ws.Add("Plan A", c)
	require.NoError(t, err)
	accented, err := ws.Add("plan á", c)
	require.NoError(t, err)
	unnamed, err := ws.Add("", c)
	require.NoError(t, err)

	assert.Equal(t, "Plan A", a.Name)
	assert.Equal(t, "Plan A (2)", b.Name)
	assert.Equal(t, "plan á (3)", accented.Name)
	assert.Equal(t, "λ15 · 12→14/wk · 26 wk", unnamed.Name)
	assert.True(t, a.Visible)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 4, ws.Len())
}

func TestWorkspace_ColorsCycleByAddSequence(t *testing.T) {
	ws := NewWorkspace([]string{"red", "blue"})
	c := mustCompare(t, core.DefaultParameters())

	var colors []string
	var first string
	for i := 0; i < 3; i++ {
		rec, err := ws.Add("run", c)
		require.NoError(t, err)
		colors = append(colors, rec.Color)
		if i == 0 {
			first = rec.ID
		}
	}
	assert.Equal(t, []string{"red", "blue", "red"}, colors)

	// Removing a record does not reuse its colour slot.
	require.NoError(t, ws.Remove(first))
	rec, err := ws.Add("run", c)
	require.NoError(t, err)
	assert.Equal(t, "blue", rec.Color)
	assert.Equal(t, 3, rec.Sequence)
}

func TestWorkspace_ToggleGetRemove(t *testing.T) {
	ws := NewWorkspace(nil)
	rec, err := ws.Add("x", mustCompare(t, core.DefaultParameters()))
	require.NoError(t, err)

	visible, err := ws.ToggleVisibility(rec.ID)
	require.NoError(t, err)
	assert.False(t, visible)

	got, err := ws.Get(rec.ID)
	require.NoError(t, err)
	assert.False(t, got.Visible)

	// Returned records are copies.
	rec.Name = "changed"
	got, _ = ws.Get(rec.ID)
	assert.Equal(t, "x", got.Name)

	require.NoError(t, ws.Remove(rec.ID))
	assert.Empty(t, ws.List())

	_, err = ws.Get(rec.ID)
	assert.ErrorIs(t, err, ErrComparisonNotFound)
	_, err = ws.ToggleVisibility("cmp-99")
	assert.ErrorIs(t, err, ErrComparisonNotFound)
	assert.ErrorIs(t, ws.Remove("cmp-99"), ErrComparisonNotFound)
}

func TestWorkspace_RejectsEmptyComparison(t *testing.T) {
	_, err := NewWorkspace(nil).Add("x", runtime.Comparison{})
	assert.ErrorIs(t, err, ErrEmptyComparison)
}

func TestWorkspace_OverlaysVisibleOnly(t *testing.T) {
	ws := NewWorkspace(nil)
	weekly, err := ws.Add("weekly", mustCompare(t, core.DefaultParameters()))
	require.NoError(t, err)
	hidden, err := ws.Add("hidden", mustCompare(t, core.DefaultParameters()))
	require.NoError(t, err)
	_, err = ws.ToggleVisibility(hidden.ID)
	require.NoError(t, err)

	set := ws.Overlays(DefaultReportingWindow())
	require.Len(t, set.Occupancy, 2)
	require.Len(t, set.WaitTimes, 2)
	require.Len(t, set.KPIs.Datasets, 2)
	assert.Len(t, set.KPIs.Categories, 4)

	base, iv := set.Occupancy[0], set.Occupancy[1]
	assert.Equal(t, weekly.ID, base.ComparisonID)
	assert.Equal(t, "baseline", base.Scenario)
	assert.True(t, base.Dashed)
	assert.False(t, iv.Dashed)
	assert.Equal(t, weekly.Color, iv.Color)
	assert.Len(t, base.Points, 26)
	assert.Equal(t, 225.0, base.Points[25].Y)

	assert.True(t, set.KPIs.Datasets[0].Muted)
	assert.False(t, set.KPIs.Datasets[1].Muted)
	assert.Equal(t, weekly.Color, set.KPIs.Datasets[1].Color)

	kpis := set.KPIs.Datasets[0].Values
	require.Len(t, kpis, 4)
	for i, want := range []float64{131.25, 225, 312, 100} {
		assert.InDelta(t, want, kpis[i], 1e-9, kpiCategories[i])
	}
}

func TestWorkspace_OverlaysTruncateHourly(t *testing.T) {
	ws := NewWorkspace(nil)
	_, err := ws.Add("ed", mustCompare(t, hourlyParams(300)))
	require.NoError(t, err)

	set := ws.Overlays(DefaultReportingWindow())
	assert.Len(t, set.Occupancy[0].Points, DefaultHourlyWindow)
	assert.Len(t, set.WaitTimes[1].Points, DefaultHourlyWindow)

	set = ws.Overlays(ReportingWindow{})
	assert.Len(t, set.Occupancy[0].Points, 300)
}

func TestWorkspace_OverlaysEmpty(t *testing.T) {
	set := NewWorkspace(nil).Overlays(DefaultReportingWindow())
	assert.NotNil(t, set.Occupancy)
	assert.Empty(t, set.Occupancy)
	assert.Empty(t, set.KPIs.Datasets)
}

func TestSummaries(t *testing.T) {
	ws := NewWorkspace(nil)
	_, err := ws.Add("a", mustCompare(t, hourlyParams(10)))
	require.NoError(t, err)
	s := Summaries(ws.List())
	require.Len(t, s, 1)
	assert.Equal(t, "λ6 · 5→7/h · 10 h", s[0].Params)
}

func TestParseChartSeries(t *testing.T) {
	cs, err := ParseChartSeries("")
	require.NoError(t, err)
	assert.Equal(t, ChartQueue, cs)
	cs, err = ParseChartSeries("wait")
	require.NoError(t, err)
	assert.Equal(t, ChartWait, cs)
	_, err = ParseChartSeries("latency")
	assert.Error(t, err)
}
