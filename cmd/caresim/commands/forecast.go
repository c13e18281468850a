package commands

import (
	"fmt"
	"io"
	"math"

	"github.com/panyam/caresim/core"
	"github.com/panyam/caresim/intake"
	"github.com/panyam/caresim/runtime"
	"github.com/spf13/cobra"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast <history.csv|history.xlsx>",
	Short: "Suggest parameters from observed arrivals and waits",
	Long: `Read a history file with date, arrivals and wait columns, forecast the
next periods of arrivals, and suggest an arrival rate and initial queue.
The initial queue is the backlog implied by the latest observed wait.

Example:
  caresim forecast referrals.csv --method exponential --alpha 0.4
  caresim forecast referrals.xlsx --compare --add-slots 2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := readHistory(args[0])
		if err != nil {
			return err
		}
		f, steps, err := forecasterFromFlags(cmd)
		if err != nil {
			return err
		}
		base, err := paramsFromFlags(cmd)
		if err != nil {
			return err
		}
		suggested, err := intake.SuggestParameters(h, f, base)
		if err != nil {
			return err
		}
		if err := h.WithForecast(f, steps); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		asJSON, _ := cmd.Flags().GetBool("json")
		doCompare, _ := cmd.Flags().GetBool("compare")
		var c *runtime.Comparison
		if doCompare {
			cmp, err := runtime.RunComparison(suggested)
			if err != nil {
				return err
			}
			c = &cmp
		}

		if asJSON {
			return writeJSON(out, map[string]any{
				"history":    h,
				"parameters": suggested,
				"comparison": c,
			})
		}
		printForecast(out, h, suggested)
		if c != nil {
			fmt.Fprintln(out)
			printComparison(out, *c)
		}
		return nil
	},
}

func printForecast(w io.Writer, h *intake.History, p core.Parameters) {
	mean, std := h.ArrivalStats()
	first, last := h.Observations[0], h.Observations[h.Len()-1]
	fmt.Fprintf(w, "%d observations, %s to %s\n", h.Len(), first.Date.Format(intake.DateLayout), last.Date.Format(intake.DateLayout))
	fmt.Fprintf(w, "arrivals: mean %s, std dev %s, latest %s\n", num(round2(mean)), num(round2(std)), num(last.Arrivals))
	fmt.Fprintf(w, "forecast:")
	for _, v := range h.Forecast {
		fmt.Fprintf(w, " %s", num(round2(v)))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "suggested: arrivals %s/%s, initial queue %s (latest wait %s %s)\n",
		num(p.ArrivalRatePerPeriod), p.Granularity.PeriodUnit(), num(p.InitialQueueLength),
		num(last.WaitTime), p.Granularity.TimeUnit())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func init() {
	addParamFlags(forecastCmd)
	addForecastFlags(forecastCmd)
	forecastCmd.Flags().Bool("compare", false, "Also run a comparison with the suggested parameters")
	forecastCmd.Flags().Bool("json", false, "Print the result as JSON")
	rootCmd.AddCommand(forecastCmd)
}
