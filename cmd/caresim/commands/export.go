package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/panyam/caresim/export"
	"github.com/panyam/caresim/intake"
	"github.com/panyam/caresim/runtime"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a comparison as .xlsx or .csv",
	Long: `Run a comparison and write it to a spreadsheet (Parameters, Periods and,
with --history, History sheets) or a CSV period table. The format follows the
output file extension.

Example:
  caresim export -o plan.xlsx --add-slots 2 --history referrals.csv
  caresim export -o plan.csv`,
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

		var history *intake.History
		if path, _ := cmd.Flags().GetString("history"); path != "" {
			if history, err = readHistory(path); err != nil {
				return err
			}
			f, steps, err := forecasterFromFlags(cmd)
			if err != nil {
				return err
			}
			if err := history.WithForecast(f, steps); err != nil {
				return err
			}
		}

		out, _ := cmd.Flags().GetString("output")
		if err := exportTo(out, c, history); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
		return nil
	},
}

func exportTo(path string, c runtime.Comparison, h *intake.History) error {
	var write func(*os.File) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		write = func(f *os.File) error { return export.WriteCSV(f, c) }
	case ".xlsx":
		write = func(f *os.File) error { return export.WriteWorkbook(f, c, h) }
	default:
		return fmt.Errorf("unsupported export format %q (want .xlsx or .csv)", ext)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func init() {
	addParamFlags(exportCmd)
	addForecastFlags(exportCmd)
	exportCmd.Flags().StringP("output", "o", "caresim.xlsx", "Output file (.xlsx or .csv)")
	exportCmd.Flags().String("history", "", "Observed history (.csv or .xlsx) to include")
	rootCmd.AddCommand(exportCmd)
}
