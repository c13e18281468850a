package viz

// Plotter renders line series and grouped bars. SVGPlotter is the only
// implementation; the console and the CLI depend on this interface.
type Plotter interface {
	Generate(series []DataSeries, meta PlotMetadata) (string, error)
	GenerateBars(categories []string, datasets []BarDataset, meta PlotMetadata) (string, error)
}

var _ Plotter = (*SVGPlotter)(nil)
