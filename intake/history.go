// Package intake reads observed arrival and wait-time history from CSV or
// spreadsheet files and turns it into suggested simulation parameters.
package intake

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/stat"
)

// DateLayout is the expected format of the date column.
const DateLayout = "2006-01-02"

var (
	ErrMalformedHistory = errors.New("malformed history")
	ErrEmptyHistory     = errors.New("history has no observations")
)

// Observation is one period of observed demand.
type Observation struct {
	Date     time.Time `json:"date"`
	Arrivals float64   `json:"arrivals"`
	WaitTime float64   `json:"waitTime"`
}

// History is a date-ordered set of observations plus an optional forecast
// of future arrivals.
type History struct {
	Observations []Observation `json:"observations"`
	Forecast     []float64     `json:"forecast,omitempty"`
}

func (h *History) Len() int { return len(h.Observations) }

func (h *History) Arrivals() []float64 {
	out := make([]float64, len(h.Observations))
	for i, o := range h.Observations {
		out[i] = o.Arrivals
	}
	return out
}

func (h *History) WaitTimes() []float64 {
	out := make([]float64, len(h.Observations))
	for i, o := range h.Observations {
		out[i] = o.WaitTime
	}
	return out
}

// ArrivalStats returns the mean and sample standard deviation of arrivals.
func (h *History) ArrivalStats() (mean, std float64) {
	if h.Len() == 0 {
		return 0, 0
	}
	if h.Len() == 1 {
		return h.Observations[0].Arrivals, 0
	}
	return stat.MeanStdDev(h.Arrivals(), nil)
}

// WithForecast trains f on the arrivals and stores a steps-long forecast.
func (h *History) WithForecast(f Forecaster, steps int) error {
	if err := f.Train(h.Arrivals()); err != nil {
		return err
	}
	h.Forecast = f.Predict(steps)
	return nil
}

// ReadCSV parses a history with a header row naming date, arrivals and
// wait columns, in any order.
func ReadCSV(r io.Reader) (*History, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHistory, err)
	}
	return parseRows(rows)
}

// ReadXLSX parses the first sheet of a workbook laid out like ReadCSV expects.
func ReadXLSX(r io.Reader) (*History, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHistory, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformedHistory)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHistory, err)
	}
	return parseRows(rows)
}

type columns struct{ date, arrivals, wait int }

func findColumns(header []string) (columns, error) {
	cols := columns{-1, -1, -1}
	for i, name := range header {
		switch name = strings.ToLower(strings.TrimSpace(name)); {
		case name == "date" || name == "week" || name == "period":
			cols.date = i
		case name == "arrivals" || name == "referrals":
			cols.arrivals = i
		case strings.HasPrefix(name, "wait"):
			cols.wait = i
		}
	}
	if cols.date < 0 || cols.arrivals < 0 || cols.wait < 0 {
		return cols, fmt.Errorf("%w: header must name date, arrivals and wait columns, got %v", ErrMalformedHistory, header)
	}
	return cols, nil
}

func parseRows(rows [][]string) (*History, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyHistory
	}
	cols, err := findColumns(rows[0])
	if err != nil {
		return nil, err
	}

	h := &History{}
	for i, row := range rows[1:] {
		line := i + 2
		if isBlank(row) {
			continue
		}
		cell := func(idx int) string {
			if idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}
		date, err := time.Parse(DateLayout, cell(cols.date))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: bad date %q", ErrMalformedHistory, line, cell(cols.date))
		}
		arrivals, err := parseQuantity(cell(cols.arrivals))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: arrivals: %v", ErrMalformedHistory, line, err)
		}
		wait, err := parseQuantity(cell(cols.wait))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: wait: %v", ErrMalformedHistory, line, err)
		}
		h.Observations = append(h.Observations, Observation{Date: date, Arrivals: arrivals, WaitTime: wait})
	}
	if h.Len() == 0 {
		return nil, ErrEmptyHistory
	}
	slices.SortStableFunc(h.Observations, func(a, b Observation) int { return a.Date.Compare(b.Date) })
	return h, nil
}

func parseQuantity(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative value %v", v)
	}
	return v, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
