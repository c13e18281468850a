// Package export writes comparisons out as spreadsheets and CSV tables.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/panyam/caresim/core"
	"github.com/panyam/caresim/intake"
	"github.com/panyam/caresim/runtime"
	"github.com/xuri/excelize/v2"
)

const (
	SheetParameters = "Parameters"
	SheetPeriods    = "Periods"
	SheetHistory    = "History"
)

// PeriodHeader names the columns of the period-by-period table.
func PeriodHeader(c runtime.Comparison) []string {
	unit := c.Parameters.Granularity.TimeUnit()
	return []string{
		"period",
		"baseline_queue", "baseline_served", "baseline_cumulative_served", "baseline_wait_" + unit,
		"intervention_queue", "intervention_served", "intervention_cumulative_served", "intervention_wait_" + unit,
	}
}

// PeriodRows returns one row per period, starting at period 0.
func PeriodRows(c runtime.Comparison) [][]float64 {
	b, i := c.Baseline, c.Intervention
	rows := make([][]float64, b.Periods())
	for k := range rows {
		rows[k] = []float64{
			float64(k),
			b.QueueLengthByPeriod[k], b.ServedByPeriod[k], b.CumulativeServed[k], b.WaitEstimateByPeriod[k],
			i.QueueLengthByPeriod[k], i.ServedByPeriod[k], i.CumulativeServed[k], i.WaitEstimateByPeriod[k],
		}
	}
	return rows
}

// WriteCSV writes the period table with a header row.
func WriteCSV(w io.Writer, c runtime.Comparison) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(PeriodHeader(c)); err != nil {
		return err
	}
	for _, row := range PeriodRows(c) {
		record := make([]string, len(row))
		for k, v := range row {
			record[k] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Workbook builds a spreadsheet with the parameters and KPIs, the period
// table, and (when h is non-nil) the observed history and its forecast.
func Workbook(c runtime.Comparison, h *intake.History) (*excelize.File, error) {
	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	steps := []func(*excelize.File, int) error{
		func(f *excelize.File, style int) error { return writeParameters(f, style, c) },
		func(f *excelize.File, style int) error { return writePeriods(f, style, c) },
	}
	if h != nil {
		steps = append(steps, func(f *excelize.File, style int) error { return writeHistory(f, style, h) })
	}
	for _, step := range steps {
		if err := step(f, bold); err != nil {
			f.Close()
			return nil, fmt.Errorf("building workbook: %w", err)
		}
	}

	// NewFile always starts with a default sheet we do not use.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, err
	}
	if idx, err := f.GetSheetIndex(SheetParameters); err == nil {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

// WriteWorkbook builds the workbook and streams it to w.
func WriteWorkbook(w io.Writer, c runtime.Comparison, h *intake.History) error {
	f, err := Workbook(c, h)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func writeParameters(f *excelize.File, bold int, c runtime.Comparison) error {
	if _, err := f.NewSheet(SheetParameters); err != nil {
		return err
	}
	p := c.Parameters
	unit := p.Granularity.TimeUnit()
	rows := [][]any{
		{"Parameter", "Value"},
		{"Summary", p.Summary()},
		{"Granularity", string(p.Granularity)},
		{"Arrivals per " + p.Granularity.PeriodUnit(), p.ArrivalRatePerPeriod},
		{"Baseline capacity", p.BaselineCapacityPerPeriod},
		{"Intervention capacity", p.InterventionCapacityPerPeriod},
		{"Initial queue", p.InitialQueueLength},
		{"Duration (periods)", p.DurationPeriods},
		{},
		{"KPI", c.Baseline.Label, c.Intervention.Label, "Change %", "Direction"},
		kpiRow("Average wait ("+unit+")", c.Baseline.AverageWaitEstimate, c.Intervention.AverageWaitEstimate, c.Deltas.Wait),
		kpiRow("Final queue", c.Baseline.FinalQueueLength, c.Intervention.FinalQueueLength, c.Deltas.FinalQueue),
		kpiRow("Total served", c.Baseline.TotalServed, c.Intervention.TotalServed, c.Deltas.TotalServed),
		kpiRow("Utilization", c.Baseline.Utilization, c.Intervention.Utilization, c.Deltas.Utilization),
		{"Status", string(c.Baseline.Status), string(c.Intervention.Status)},
	}
	for _, w := range append(append([]core.Warning{}, c.Baseline.Warnings...), c.Intervention.Warnings...) {
		rows = append(rows, []any{"Warning", string(w.Code), w.Message})
	}
	if err := writeRows(f, SheetParameters, rows); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetParameters, 1, 1, bold); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetParameters, 10, 10, bold); err != nil {
		return err
	}
	return f.SetColWidth(SheetParameters, "A", "C", 26)
}

func kpiRow(name string, b, i float64, d runtime.Delta) []any {
	return []any{name, b, i, round2(d.ChangePct), string(d.Direction)}
}

func writePeriods(f *excelize.File, bold int, c runtime.Comparison) error {
	if _, err := f.NewSheet(SheetPeriods); err != nil {
		return err
	}
	header := PeriodHeader(c)
	rows := [][]any{toAny(header)}
	for _, r := range PeriodRows(c) {
		rows = append(rows, toAny(r))
	}
	if err := writeRows(f, SheetPeriods, rows); err != nil {
		return err
	}
	if err := f.SetPanes(SheetPeriods, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}
	return f.SetRowStyle(SheetPeriods, 1, 1, bold)
}

func writeHistory(f *excelize.File, bold int, h *intake.History) error {
	if _, err := f.NewSheet(SheetHistory); err != nil {
		return err
	}
	rows := [][]any{{"date", "arrivals", "wait", "forecast_arrivals"}}
	for _, o := range h.Observations {
		rows = append(rows, []any{o.Date.Format(intake.DateLayout), o.Arrivals, o.WaitTime})
	}
	for k, v := range h.Forecast {
		rows = append(rows, []any{fmt.Sprintf("+%d", k+1), nil, nil, round2(v)})
	}
	if err := writeRows(f, SheetHistory, rows); err != nil {
		return err
	}
	return f.SetRowStyle(SheetHistory, 1, 1, bold)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func toAny[T any](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
