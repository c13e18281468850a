package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/panyam/caresim/core"
	"github.com/panyam/caresim/intake"
	"github.com/spf13/cobra"
)

// addParamFlags registers the scenario flags shared by run, compare, plot
// and export. Unset flags fall back to the config's defaults section.
func addParamFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64("arrivals", 0, "Arrivals per period")
	f.Float64("baseline", 0, "Baseline capacity per period")
	f.Float64("intervention", 0, "Intervention capacity per period (absolute)")
	f.Float64("add-slots", 0, "Intervention as extra slots on top of the baseline")
	f.Float64("initial", 0, "Initial queue length")
	f.Int("periods", 0, "Number of periods to simulate")
	f.Bool("hourly", false, "Hourly periods (emergency department) instead of weekly")
	f.String("baseline-label", "", "Label for the baseline scenario")
	f.String("intervention-label", "", "Label for the intervention scenario")
	cmd.MarkFlagsMutuallyExclusive("intervention", "add-slots")
}

func paramsFromFlags(cmd *cobra.Command) (core.Parameters, error) {
	p := cfg.Defaults
	f := cmd.Flags()

	floats := []struct {
		name string
		dst  *float64
	}{
		{"arrivals", &p.ArrivalRatePerPeriod},
		{"baseline", &p.BaselineCapacityPerPeriod},
		{"intervention", &p.InterventionCapacityPerPeriod},
		{"initial", &p.InitialQueueLength},
	}
	for _, fl := range floats {
		if f.Changed(fl.name) {
			*fl.dst, _ = f.GetFloat64(fl.name)
		}
	}
	if f.Changed("periods") {
		p.DurationPeriods, _ = f.GetInt("periods")
	}
	if hourly, _ := f.GetBool("hourly"); hourly {
		p.Granularity = core.Hourly
	}
	if f.Changed("baseline-label") {
		p.BaselineLabel, _ = f.GetString("baseline-label")
	}
	if f.Changed("intervention-label") {
		p.InterventionLabel, _ = f.GetString("intervention-label")
	}
	if f.Changed("add-slots") {
		slots, _ := f.GetFloat64("add-slots")
		return p.WithIntervention(core.Intervention{Mode: core.Additional, Value: slots})
	}
	return p, nil
}

// readHistory picks the reader from the file extension.
func readHistory(path string) (*intake.History, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var h *intake.History
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		h, err = intake.ReadXLSX(file)
	default:
		h, err = intake.ReadCSV(file)
	}
	if err != nil {
		return nil, fmt.Errorf("reading history %s: %w", path, err)
	}
	return h, nil
}

func addForecastFlags(cmd *cobra.Command) {
	cmd.Flags().String("method", "moving-average", "Forecaster: moving-average|exponential")
	cmd.Flags().Int("window", intake.DefaultMovingAverageWindow, "Moving-average window")
	cmd.Flags().Float64("alpha", intake.DefaultSmoothingAlpha, "Exponential smoothing factor")
	cmd.Flags().Int("steps", 4, "Periods to forecast")
}

func forecasterFromFlags(cmd *cobra.Command) (intake.Forecaster, int, error) {
	method, _ := cmd.Flags().GetString("method")
	window, _ := cmd.Flags().GetInt("window")
	alpha, _ := cmd.Flags().GetFloat64("alpha")
	steps, _ := cmd.Flags().GetInt("steps")
	f, err := intake.NewForecaster(method, window, alpha)
	return f, steps, err
}
