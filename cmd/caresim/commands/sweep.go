package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/panyam/caresim/runtime"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Compare a range of intervention capacities against the baseline",
	Long: `Run one comparison per intervention capacity in [from, to] and print how
the final queue, wait and throughput respond.

Example:
  caresim sweep --from 12 --to 20
  caresim sweep --hourly --arrivals 6 --baseline 5 --from 5 --to 9 --step 0.5 --workers 8`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := paramsFromFlags(cmd)
		if err != nil {
			return err
		}
		from, _ := cmd.Flags().GetFloat64("from")
		to, _ := cmd.Flags().GetFloat64("to")
		step, _ := cmd.Flags().GetFloat64("step")
		workers, _ := cmd.Flags().GetInt("workers")
		if !cmd.Flags().Changed("from") {
			from = p.BaselineCapacityPerPeriod
		}
		if !cmd.Flags().Changed("to") {
			to = from + 8*step
		}

		capacities, err := runtime.CapacityRange(from, to, step)
		if err != nil {
			return err
		}
		points, err := runtime.RunSweep(p, capacities, workers)
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), points)
		}
		printSweep(cmd.OutOrStdout(), points)
		return nil
	},
}

func printSweep(w io.Writer, points []runtime.SweepPoint) {
	if len(points) == 0 {
		return
	}
	params := points[0].Comparison.Parameters
	fmt.Fprintf(w, "baseline %s/%s, final queue %s\n",
		num(params.BaselineCapacityPerPeriod), params.Granularity.PeriodUnit(), num(points[0].Comparison.Baseline.FinalQueueLength))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "CAPACITY\tFINAL QUEUE\tWAIT (%s)\tSERVED\tQUEUE CHANGE\tSTATUS\n", params.Granularity.TimeUnit())
	for _, pt := range points {
		iv := pt.Comparison.Intervention
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			num(pt.InterventionCapacity), num(iv.FinalQueueLength), num(iv.AverageWaitEstimate), num(iv.TotalServed),
			deltaText(pt.Comparison.Deltas.FinalQueue), iv.Status)
	}
	tw.Flush()
}

func init() {
	addParamFlags(sweepCmd)
	sweepCmd.Flags().Float64("from", 0, "First intervention capacity (default: the baseline capacity)")
	sweepCmd.Flags().Float64("to", 0, "Last intervention capacity (default: from + 8 steps)")
	sweepCmd.Flags().Float64("step", 1, "Capacity increment")
	sweepCmd.Flags().Int("workers", 4, "Concurrent workers")
	sweepCmd.Flags().Bool("json", false, "Print the sweep as JSON")
	rootCmd.AddCommand(sweepCmd)
}
