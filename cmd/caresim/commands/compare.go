package commands

import (
	"github.com/panyam/caresim/runtime"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare baseline and intervention capacity",
	Long: `Run the baseline and intervention scenarios against the same arrivals and
initial queue, and report the headline KPIs with their relative change.

Example:
  caresim compare                                  # defaults from config
  caresim compare --baseline 12 --add-slots 2
  caresim compare --hourly --arrivals 6 --baseline 5 --intervention 7 --periods 168 --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := paramsFromFlags(cmd)
		if err != nil {
			return err
		}
		c, err := runtime.RunComparison(p)
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), c)
		}
		printComparison(cmd.OutOrStdout(), c)
		return nil
	},
}

func init() {
	addParamFlags(compareCmd)
	compareCmd.Flags().Bool("json", false, "Print the comparison as JSON")
	rootCmd.AddCommand(compareCmd)
}
