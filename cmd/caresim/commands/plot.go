package commands

import (
	"fmt"
	"os"

	"github.com/panyam/caresim/console"
	"github.com/panyam/caresim/runtime"
	"github.com/panyam/caresim/viz"
	"github.com/spf13/cobra"
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Write SVG charts for a comparison",
	Long: `Run a comparison and write one SVG per series (queue, served, cumulative,
wait) plus a KPI bar chart, named <prefix>-<series>.svg.

Example:
  caresim plot --add-slots 2 -o surgical`,
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
		prefix, _ := cmd.Flags().GetString("output")
		label, _ := cmd.Flags().GetString("label")
		files, err := writePlots(prefix, label, c)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", f)
		}
		return nil
	},
}

// writePlots renders every chart of c and returns the files written.
func writePlots(prefix, label string, c runtime.Comparison) ([]string, error) {
	ws := console.NewWorkspace(cfg.Reporting.Palette)
	rec, err := ws.Add(label, c)
	if err != nil {
		return nil, err
	}
	plotter := viz.NewSVGPlotter(viz.DefaultPlotConfig())

	var files []string
	write := func(name, svg string) error {
		path := fmt.Sprintf("%s-%s.svg", prefix, name)
		if err := os.WriteFile(path, []byte(svg), 0o644); err != nil {
			return err
		}
		files = append(files, path)
		return nil
	}

	for _, which := range []console.ChartSeries{console.ChartQueue, console.ChartServed, console.ChartCumulative, console.ChartWait} {
		svg, err := console.RenderChart(plotter, *rec, which)
		if err != nil {
			return files, err
		}
		if err := write(string(which), svg); err != nil {
			return files, err
		}
	}

	set := ws.Overlays(cfg.Reporting.Window())
	svg, err := plotter.GenerateBars(set.KPIs.Categories, set.KPIs.Datasets, viz.PlotMetadata{Title: rec.Name})
	if err != nil {
		return files, err
	}
	return files, write("kpis", svg)
}

func init() {
	addParamFlags(plotCmd)
	plotCmd.Flags().StringP("output", "o", "caresim", "Output file prefix")
	plotCmd.Flags().String("label", "", "Chart title (default: parameter summary)")
	rootCmd.AddCommand(plotCmd)
}
