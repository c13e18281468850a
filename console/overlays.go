package console

import (
	"fmt"

	"github.com/panyam/caresim/core"
	"github.com/panyam/caresim/viz"
	fn "github.com/panyam/goutils/fn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultHourlyWindow is one simulated week of hourly periods.
const DefaultHourlyWindow = 168

// ReportingWindow caps how many periods of a series are charted. Zero
// means no cap.
type ReportingWindow struct {
	Hourly int `json:"hourly" yaml:"hourly_window"`
	Weekly int `json:"weekly" yaml:"weekly_window"`
}

func DefaultReportingWindow() ReportingWindow {
	return ReportingWindow{Hourly: DefaultHourlyWindow}
}

func (rw ReportingWindow) limit(g core.Granularity) int {
	if g == core.Hourly {
		return rw.Hourly
	}
	return rw.Weekly
}

// Series is one scenario line of one saved comparison.
type Series struct {
	ComparisonID string `json:"comparisonId"`
	Scenario     string `json:"scenario"`
	viz.DataSeries
}

// KPIBars is the grouped bar dataset for headline metrics.
type KPIBars struct {
	Categories []string         `json:"categories"`
	Datasets   []viz.BarDataset `json:"datasets"`
}

// OverlaySet is everything the dashboard needs to overlay the visible
// comparisons.
type OverlaySet struct {
	Occupancy []Series `json:"occupancy"`
	KPIs      KPIBars  `json:"kpis"`
	WaitTimes []Series `json:"waitTimes"`
}

var kpiCategories = []string{"Average wait", "Final queue", "Total served", "Utilization %"}

const (
	scenarioBaseline     = "baseline"
	scenarioIntervention = "intervention"
)

// Overlays projects the visible records into chart datasets, in insertion
// order. Baseline lines are dashed and share the record's colour.
func (w *Workspace) Overlays(window ReportingWindow) OverlaySet {
	visible := w.visible()
	set := OverlaySet{
		Occupancy: []Series{},
		WaitTimes: []Series{},
		KPIs:      KPIBars{Categories: kpiCategories, Datasets: []viz.BarDataset{}},
	}
	for _, rec := range visible {
		limit := window.limit(rec.Comparison.Parameters.Granularity)
		b, i := rec.Comparison.Baseline, rec.Comparison.Intervention

		set.Occupancy = append(set.Occupancy,
			rec.series(scenarioBaseline, truncate(b.QueueLengthByPeriod, limit)),
			rec.series(scenarioIntervention, truncate(i.QueueLengthByPeriod, limit)))
		set.WaitTimes = append(set.WaitTimes,
			rec.series(scenarioBaseline, truncate(b.WaitEstimateByPeriod, limit)),
			rec.series(scenarioIntervention, truncate(i.WaitEstimateByPeriod, limit)))
		set.KPIs.Datasets = append(set.KPIs.Datasets,
			viz.BarDataset{Name: fmt.Sprintf("%s · %s", rec.Name, scenarioBaseline), Color: rec.Color, Muted: true, Values: kpiValues(b)},
			viz.BarDataset{Name: fmt.Sprintf("%s · %s", rec.Name, scenarioIntervention), Color: rec.Color, Values: kpiValues(i)})
	}
	return set
}

func (rec SavedComparison) series(scenario string, values []float64) Series {
	ds := viz.SeriesFromValues(fmt.Sprintf("%s · %s", rec.Name, scenario), values)
	ds.Color = rec.Color
	ds.Dashed = scenario == scenarioBaseline
	return Series{ComparisonID: rec.ID, Scenario: scenario, DataSeries: ds}
}

func kpiValues(r core.ScenarioResult) []float64 {
	return []float64{r.AverageWaitEstimate, r.FinalQueueLength, r.TotalServed, r.Utilization * 100}
}

func truncate(values []float64, limit int) []float64 {
	if limit > 0 && len(values) > limit {
		return values[:limit]
	}
	return values
}

// Summary is the list view of a saved comparison.
type Summary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	Visible bool   `json:"visible"`
	Params  string `json:"params"`
}

func Summaries(records []SavedComparison) []Summary {
	out := fn.Map(records, func(r SavedComparison) Summary {
		return Summary{ID: r.ID, Name: r.Name, Color: r.Color, Visible: r.Visible, Params: r.Comparison.Parameters.Summary()}
	})
	if out == nil {
		return []Summary{}
	}
	return out
}

// ChartSeries selects which per-period series a comparison chart draws.
type ChartSeries string

const (
	ChartQueue      ChartSeries = "queue"
	ChartServed     ChartSeries = "served"
	ChartCumulative ChartSeries = "cumulative"
	ChartWait       ChartSeries = "wait"
)

func ParseChartSeries(s string) (ChartSeries, error) {
	switch cs := ChartSeries(s); cs {
	case "":
		return ChartQueue, nil
	case ChartQueue, ChartServed, ChartCumulative, ChartWait:
		return cs, nil
	}
	return "", fmt.Errorf("unknown chart series %q", s)
}

func pick(r core.ScenarioResult, which ChartSeries) []float64 {
	switch which {
	case ChartServed:
		return r.ServedByPeriod
	case ChartCumulative:
		return r.CumulativeServed
	case ChartWait:
		return r.WaitEstimateByPeriod
	}
	return r.QueueLengthByPeriod
}

// RenderChart draws one saved comparison's baseline and intervention lines.
func RenderChart(p viz.Plotter, rec SavedComparison, which ChartSeries) (string, error) {
	params := rec.Comparison.Parameters
	var yLabel string
	switch which {
	case ChartWait:
		yLabel = fmt.Sprintf("Estimated wait (%s)", params.Granularity.TimeUnit())
	case ChartQueue:
		yLabel = "Patients waiting"
	default:
		yLabel = "Patients served"
	}
	series := []viz.DataSeries{}
	for _, s := range []struct {
		name string
		r    core.ScenarioResult
	}{{scenarioBaseline, rec.Comparison.Baseline}, {scenarioIntervention, rec.Comparison.Intervention}} {
		ds := viz.SeriesFromValues(s.r.Label, pick(s.r, which))
		ds.Color = rec.Color
		ds.Dashed = s.name == scenarioBaseline
		series = append(series, ds)
	}
	return p.Generate(series, viz.PlotMetadata{
		Title:  fmt.Sprintf("%s: %s", rec.Name, which),
		XLabel: capitalize(params.Granularity.PeriodUnit()),
		YLabel: yLabel,
	})
}

func capitalize(s string) string {
	return cases.Title(language.English).String(s)
}
