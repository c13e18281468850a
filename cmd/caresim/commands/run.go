package commands

import (
	"github.com/panyam/caresim/core"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single capacity scenario",
	Long: `Run the backlog recurrence for one capacity and print the period table.

Example:
  caresim run --arrivals 15 --capacity 12 --initial 150 --periods 26
  caresim run --hourly --arrivals 6 --capacity 5 --periods 48 --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := paramsFromFlags(cmd)
		if err != nil {
			return err
		}
		capacity := p.BaselineCapacityPerPeriod
		if cmd.Flags().Changed("capacity") {
			capacity, _ = cmd.Flags().GetFloat64("capacity")
		}
		label, _ := p.ScenarioLabels()
		if cmd.Flags().Changed("capacity") && p.BaselineLabel == "" {
			label = "Capacity " + core.FormatQuantity(capacity) + "/" + p.Granularity.PeriodUnit()
		}

		result, err := core.RunScenario(p, capacity, label)
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), result)
		}
		printScenario(cmd.OutOrStdout(), p, result)
		return nil
	},
}

func init() {
	addParamFlags(runCmd)
	runCmd.Flags().Float64("capacity", 0, "Capacity per period (default: the baseline capacity)")
	runCmd.Flags().Bool("json", false, "Print the result as JSON")
	rootCmd.AddCommand(runCmd)
}
