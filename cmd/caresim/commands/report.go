package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/panyam/caresim/core"
	"github.com/panyam/caresim/runtime"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

func num(v float64) string {
	if v == float64(int64(v)) {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprintf("%.2f", v)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printWarnings(w io.Writer, warnings []core.Warning) {
	warn := color.New(color.FgYellow).SprintFunc()
	for _, wn := range warnings {
		fmt.Fprintf(w, "%s %s\n", warn("warning:"), wn.Message)
	}
}

// printScenario writes a scenario summary and its period table.
func printScenario(w io.Writer, p core.Parameters, r core.ScenarioResult) {
	bold := color.New(color.Bold).SprintFunc()
	unit := p.Granularity.TimeUnit()
	fmt.Fprintf(w, "%s  %s\n", bold(r.Label), p.Summary())
	fmt.Fprintf(w, "  status %s, final queue %s, served %s, utilization %s%%, wait %s %s\n",
		r.Status, num(r.FinalQueueLength), num(r.TotalServed), num(r.Utilization*100), num(r.AverageWaitEstimate), unit)
	printWarnings(w, r.Warnings)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s\tQUEUE\tSERVED\tCUMULATIVE\tWAIT (%s)\t\n", capitalizeUnit(p), unit)
	for i := range r.QueueLengthByPeriod {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n", i,
			num(r.QueueLengthByPeriod[i]), num(r.ServedByPeriod[i]), num(r.CumulativeServed[i]), num(r.WaitEstimateByPeriod[i]))
	}
	tw.Flush()
}

func capitalizeUnit(p core.Parameters) string {
	if p.Granularity == core.Hourly {
		return "HOUR"
	}
	return "WEEK"
}

func directionColor(d runtime.Direction) *color.Color {
	switch d {
	case runtime.Improvement:
		return color.New(color.FgGreen)
	case runtime.Worsening:
		return color.New(color.FgRed)
	}
	return color.New(color.Faint)
}

func deltaText(d runtime.Delta) string {
	return directionColor(d.Direction).Sprintf("%+.1f%% %s", d.ChangePct, d.Direction)
}

// printComparison writes the KPI table of a comparison.
func printComparison(w io.Writer, c runtime.Comparison) {
	bold := color.New(color.Bold).SprintFunc()
	unit := c.Parameters.Granularity.TimeUnit()
	fmt.Fprintf(w, "%s\n", bold(c.Parameters.Summary()))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "KPI\t%s\t%s\tCHANGE\n", c.Baseline.Label, c.Intervention.Label)
	rows := []struct {
		name string
		b, i float64
		d    runtime.Delta
	}{
		{"Average wait (" + unit + ")", c.Baseline.AverageWaitEstimate, c.Intervention.AverageWaitEstimate, c.Deltas.Wait},
		{"Final queue", c.Baseline.FinalQueueLength, c.Intervention.FinalQueueLength, c.Deltas.FinalQueue},
		{"Total served", c.Baseline.TotalServed, c.Intervention.TotalServed, c.Deltas.TotalServed},
		{"Utilization %", c.Baseline.Utilization * 100, c.Intervention.Utilization * 100, c.Deltas.Utilization},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.name, num(r.b), num(r.i), deltaText(r.d))
	}
	fmt.Fprintf(tw, "Status\t%s\t%s\t\n", c.Baseline.Status, c.Intervention.Status)
	tw.Flush()

	printWarnings(w, c.Baseline.Warnings)
	printWarnings(w, c.Intervention.Warnings)
}
