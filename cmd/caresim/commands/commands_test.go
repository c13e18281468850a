package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/panyam/caresim/config"
	"github.com/panyam/caresim/core"
	"github.com/panyam/caresim/intake"
	"github.com/panyam/caresim/runtime"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noColor(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func paramCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addParamFlags(cmd)
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestParamsFromFlags(t *testing.T) {
	p, err := paramsFromFlags(paramCmd(t))
	require.NoError(t, err)
	assert.Equal(t, core.DefaultParameters(), p)

	p, err = paramsFromFlags(paramCmd(t, "--arrivals", "20", "--baseline", "10", "--add-slots", "3", "--hourly", "--periods", "48"))
	require.NoError(t, err)
	assert.Equal(t, 20.0, p.ArrivalRatePerPeriod)
	assert.Equal(t, 13.0, p.InterventionCapacityPerPeriod)
	assert.Equal(t, 48, p.DurationPeriods)
	assert.Equal(t, core.Hourly, p.Granularity)

	_, err = paramsFromFlags(paramCmd(t, "--add-slots", "-1"))
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestPrintComparison(t *testing.T) {
	noColor(t)
	defer runtime.QuietTest(t)()
	c, err := runtime.RunComparison(core.DefaultParameters())
	require.NoError(t, err)

	var buf bytes.Buffer
	printComparison(&buf, c)
	out := buf.String()
	assert.Contains(t, out, "λ15 · 12→14/wk · 26 wk")
	assert.Contains(t, out, "Baseline (12/week)")
	assert.Contains(t, out, "+22.2% improvement")
	assert.Contains(t, out, "+0.0% unchanged")
	assert.Contains(t, out, "arrivals 15 exceed capacity 12")
}

func TestPrintScenario_GroupsThousands(t *testing.T) {
	noColor(t)
	p := core.Parameters{ArrivalRatePerPeriod: 0, InitialQueueLength: 2500, DurationPeriods: 3}
	r, err := core.RunScenario(p, 1000, "big")
	require.NoError(t, err)

	var buf bytes.Buffer
	printScenario(&buf, p, r)
	out := buf.String()
	assert.Contains(t, out, "2,500")
	assert.Contains(t, out, "1,500")
	assert.Contains(t, out, "WAIT (days)")
	assert.Equal(t, 6, strings.Count(out, "\n"))
}

func TestWritePlotsAndExport(t *testing.T) {
	defer runtime.QuietTest(t)()
	c, err := runtime.RunComparison(core.DefaultParameters())
	require.NoError(t, err)
	dir := t.TempDir()

	files, err := writePlots(filepath.Join(dir, "plan"), "Plan A", c)
	require.NoError(t, err)
	assert.Len(t, files, 5)
	svg, err := os.ReadFile(filepath.Join(dir, "plan-kpis.svg"))
	require.NoError(t, err)
	assert.Contains(t, string(svg), "Plan A")

	require.NoError(t, exportTo(filepath.Join(dir, "plan.csv"), c, nil))
	csv, err := os.ReadFile(filepath.Join(dir, "plan.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(csv), "period,"))

	require.NoError(t, exportTo(filepath.Join(dir, "plan.xlsx"), c, nil))
	assert.FileExists(t, filepath.Join(dir, "plan.xlsx"))

	err = exportTo(filepath.Join(dir, "plan.pdf"), c, nil)
	assert.ErrorContains(t, err, "unsupported export format")
	assert.NoFileExists(t, filepath.Join(dir, "plan.pdf"))
}

func TestReadHistoryAndForecastOutput(t *testing.T) {
	noColor(t)
	path := filepath.Join(t.TempDir(), "h.csv")
	require.NoError(t, os.WriteFile(path, []byte("date,arrivals,wait\n2024-01-01,14,35\n2024-01-08,14,35\n"), 0o600))

	h, err := readHistory(path)
	require.NoError(t, err)
	require.NoError(t, h.WithForecast(mustForecaster(t), 2))

	var buf bytes.Buffer
	p := core.DefaultParameters()
	p.ArrivalRatePerPeriod, p.InitialQueueLength = 14, 70
	printForecast(&buf, h, p)
	out := buf.String()
	assert.Contains(t, out, "2 observations, 2024-01-01 to 2024-01-08")
	assert.Contains(t, out, "forecast: 14 14")
	assert.Contains(t, out, "initial queue 70 (latest wait 35 days)")

	_, err = readHistory(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func mustForecaster(t *testing.T) intake.Forecaster {
	cmd := &cobra.Command{Use: "test"}
	addForecastFlags(cmd)
	f, _, err := forecasterFromFlags(cmd)
	require.NoError(t, err)
	return f
}

func TestExecuteCompareJSON(t *testing.T) {
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv(config.EnvLogFormat, "")
	defer runtime.QuietTest(t)()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"compare", "--json", "--log-level", "off", "--env-file", filepath.Join(t.TempDir(), "none.env"), "--add-slots", "2"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	require.NoError(t, rootCmd.Execute())

	var c runtime.Comparison
	require.NoError(t, json.Unmarshal(out.Bytes(), &c))
	assert.Equal(t, 14.0, c.Parameters.InterventionCapacityPerPeriod)
	assert.Equal(t, 175.0, c.Intervention.FinalQueueLength)
}

func TestPrintSweep(t *testing.T) {
	noColor(t)
	defer runtime.QuietTest(t)()
	points, err := runtime.RunSweep(core.DefaultParameters(), []float64{12, 15, 18}, 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	printSweep(&buf, points)
	out := buf.String()
	assert.Contains(t, out, "baseline 12/week, final queue 225")
	assert.Contains(t, out, "+0.0% unchanged")
	assert.Contains(t, out, "balanced")
	assert.Equal(t, 5, strings.Count(out, "\n"))
}
