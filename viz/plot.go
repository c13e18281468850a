// Package viz renders simulation series as standalone SVG charts.
package viz

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// DataPoint is one sample; X is the period index.
type DataPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DataSeries is one line of a chart. An empty Color picks from the palette.
type DataSeries struct {
	Name   string      `json:"name"`
	Color  string      `json:"color,omitempty"`
	Dashed bool        `json:"dashed,omitempty"`
	Points []DataPoint `json:"points"`
}

// SeriesFromValues indexes values by period, starting at period 0.
func SeriesFromValues(name string, values []float64) DataSeries {
	points := make([]DataPoint, len(values))
	for i, v := range values {
		points[i] = DataPoint{X: float64(i), Y: v}
	}
	return DataSeries{Name: name, Points: points}
}

// PlotMetadata contains chart labels and title.
type PlotMetadata struct {
	XLabel string `json:"xLabel,omitempty"`
	YLabel string `json:"yLabel,omitempty"`
	Title  string `json:"title,omitempty"`
}

// PlotConfig holds styling and dimension configuration.
type PlotConfig struct {
	Width        int
	Height       int
	MarginTop    int
	MarginRight  int
	MarginBottom int
	MarginLeft   int
	GridColor    string
	TextColor    string
	YAxisMode    YAxisMode
	Colors       []string
}

// DefaultPalette is the colour cycle shared by charts and saved comparisons.
var DefaultPalette = []string{"#3b82f6", "#ef4444", "#10b981", "#f97316", "#8b5cf6", "#ec4899", "#14b8a6", "#eab308"}

// DefaultPlotConfig returns sensible defaults.
func DefaultPlotConfig() PlotConfig {
	return PlotConfig{
		Width:        800,
		Height:       400,
		MarginTop:    40,
		MarginRight:  200,
		MarginBottom: 50,
		MarginLeft:   60,
		GridColor:    "#e5e7eb",
		TextColor:    "#000000",
		YAxisMode:    YAxisZeroBased,
		Colors:       DefaultPalette,
	}
}

type templateData struct {
	Config      PlotConfig
	Metadata    PlotMetadata
	InnerWidth  int
	InnerHeight int
	XTicks      []tick
	YTicks      []tick
	GridLines   []gridLine
	SeriesPaths []seriesPath
	LegendItems []legendItem
	Bars        []bar
}

type tick struct {
	X, Y  int
	Label string
}
type gridLine struct{ X1, Y1, X2, Y2 int }
type seriesPath struct {
	Path, Color string
	Dashed      bool
}
type legendItem struct {
	Name, Color string
	Dashed      bool
	Y           int
}

const svgTemplate = `<svg width="{{.Config.Width}}" height="{{.Config.Height}}" xmlns="http://www.w3.org/2000/svg">
  <defs>
    <style>
      .axis { font: 12px sans-serif; fill: {{.Config.TextColor}}; }
      .axis path, .axis line { fill: none; stroke: {{.Config.TextColor}}; shape-rendering: crispEdges; }
      .grid-line { stroke: {{.Config.GridColor}}; stroke-width: 0.5px; }
      .title { font: bold 16px sans-serif; text-anchor: middle; fill: {{.Config.TextColor}}; }
      .axis-label { font: 12px sans-serif; text-anchor: middle; fill: {{.Config.TextColor}}; }
      .legend { font: 12px sans-serif; fill: {{.Config.TextColor}}; }
      .bar-label { font: 10px sans-serif; text-anchor: middle; fill: {{.Config.TextColor}}; }
    </style>
  </defs>
  {{if .Metadata.Title}}<text class="title" x="{{div .Config.Width 2}}" y="20">{{.Metadata.Title}}</text>{{end}}
  <g transform="translate({{.Config.MarginLeft}},{{.Config.MarginTop}})">
    {{range .GridLines}}<line class="grid-line" x1="{{.X1}}" x2="{{.X2}}" y1="{{.Y1}}" y2="{{.Y2}}"></line>{{end}}
    <g class="axis" transform="translate(0,{{.InnerHeight}})">
      {{range .XTicks}}<line x1="{{.X}}" x2="{{.X}}" y1="0" y2="6"></line><text x="{{.X}}" y="20" text-anchor="middle">{{.Label}}</text>{{end}}
      <path d="M0,0H{{$.InnerWidth}}"></path>
      {{if .Metadata.XLabel}}<text class="axis-label" x="{{div .InnerWidth 2}}" y="40">{{.Metadata.XLabel}}</text>{{end}}
    </g>
    <g class="axis">
      {{range .YTicks}}<line x1="0" x2="-6" y1="{{.Y}}" y2="{{.Y}}"></line><text x="-10" y="{{add .Y 4}}" text-anchor="end">{{.Label}}</text>{{end}}
      <path d="M0,0V{{$.InnerHeight}}"></path>
      {{if .Metadata.YLabel}}<text class="axis-label" transform="rotate(-90)" x="{{neg (div .InnerHeight 2)}}" y="-45">{{.Metadata.YLabel}}</text>{{end}}
    </g>
    {{range .SeriesPaths}}<path class="series" fill="none" stroke="{{.Color}}" stroke-width="2px"{{if .Dashed}} stroke-dasharray="6,4"{{end}} d="{{.Path}}"></path>
    {{end}}
    {{range .Bars}}<rect class="bar" x="{{.X}}" y="{{.Y}}" width="{{.Width}}" height="{{.Height}}" fill="{{.Color}}"{{if .Muted}} fill-opacity="0.4" stroke="{{.Color}}" stroke-dasharray="4,2"{{end}}></rect><text class="bar-label" x="{{.LabelX}}" y="{{.LabelY}}">{{.Label}}</text>
    {{end}}
  </g>
  <g class="legend" transform="translate({{add (add .Config.MarginLeft .InnerWidth) 20}},{{.Config.MarginTop}})">
    {{range .LegendItems}}<rect x="0" y="{{.Y}}" width="12" height="12" fill="{{.Color}}"{{if .Dashed}} fill-opacity="0.4" stroke="{{.Color}}" stroke-dasharray="4,2"{{end}}></rect><text x="20" y="{{add .Y 10}}">{{.Name}}</text>
    {{end}}
  </g>
</svg>`

func newTemplate() *template.Template {
	return template.Must(template.New("svg").Funcs(template.FuncMap{
		"div": func(a, b int) int { return a / b },
		"add": func(a, b int) int { return a + b },
		"neg": func(a int) int { return -a },
	}).Parse(svgTemplate))
}

// SVGPlotter generates multi-series line charts.
type SVGPlotter struct {
	config   PlotConfig
	template *template.Template
}

func NewSVGPlotter(config PlotConfig) *SVGPlotter {
	if len(config.Colors) == 0 {
		config.Colors = DefaultPalette
	}
	return &SVGPlotter{config: config, template: newTemplate()}
}

func (p *SVGPlotter) innerSize() (int, int) {
	return p.config.Width - p.config.MarginLeft - p.config.MarginRight,
		p.config.Height - p.config.MarginTop - p.config.MarginBottom
}

// Generate renders series as one SVG document. No series, or only empty
// series, produce a chart with axes and no lines.
func (p *SVGPlotter) Generate(series []DataSeries, meta PlotMetadata) (string, error) {
	innerWidth, innerHeight := p.innerSize()
	data := templateData{Config: p.config, Metadata: meta, InnerWidth: innerWidth, InnerHeight: innerHeight}

	xExtent, yExtent, ok := findExtents(series)
	if ok {
		xScale := linearScale{domain: xExtent, rangeV: [2]int{0, innerWidth}}
		yScale := linearScale{domain: adjustValueExtent(yExtent, p.config.YAxisMode), rangeV: [2]int{innerHeight, 0}}

		for i, s := range series {
			color := s.Color
			if color == "" {
				color = p.config.Colors[i%len(p.config.Colors)]
			}
			data.SeriesPaths = append(data.SeriesPaths, seriesPath{
				Path:   linePath(s.Points, xScale, yScale),
				Color:  color,
				Dashed: s.Dashed,
			})
			data.LegendItems = append(data.LegendItems, legendItem{Name: s.Name, Color: color, Dashed: s.Dashed, Y: i * 20})
		}
		data.XTicks = periodTicks(xScale)
		data.YTicks = valueTicks(yScale)
		for _, t := range data.YTicks {
			data.GridLines = append(data.GridLines, gridLine{0, t.Y, innerWidth, t.Y})
		}
	}
	return p.render(data)
}

func (p *SVGPlotter) render(data templateData) (string, error) {
	var result strings.Builder
	result.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	if err := p.template.Execute(&result, data); err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}
	return result.String(), nil
}

type linearScale struct {
	domain [2]float64
	rangeV [2]int
}

func (ls linearScale) scale(v float64) int {
	d := ls.domain[1] - ls.domain[0]
	if d == 0 {
		return ls.rangeV[0]
	}
	r := (v - ls.domain[0]) / d
	return ls.rangeV[0] + int(math.Round(r*float64(ls.rangeV[1]-ls.rangeV[0])))
}

func findExtents(series []DataSeries) (x, y [2]float64, ok bool) {
	x = [2]float64{math.Inf(1), math.Inf(-1)}
	y = x
	for _, s := range series {
		for _, pt := range s.Points {
			x[0], x[1] = math.Min(x[0], pt.X), math.Max(x[1], pt.X)
			y[0], y[1] = math.Min(y[0], pt.Y), math.Max(y[1], pt.Y)
			ok = true
		}
	}
	return
}

func linePath(data []DataPoint, xs, ys linearScale) string {
	if len(data) == 0 {
		return ""
	}
	var b strings.Builder
	for i, pt := range data {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&b, "%s%d,%d", cmd, xs.scale(pt.X), ys.scale(pt.Y))
	}
	// A single point still draws as a short horizontal stub.
	if len(data) == 1 {
		fmt.Fprintf(&b, "h1")
	}
	return b.String()
}

func periodTicks(xs linearScale) []tick {
	var ticks []tick
	for _, v := range niceTicks(xs.domain[0], xs.domain[1], 8) {
		if v != math.Trunc(v) {
			continue
		}
		ticks = append(ticks, tick{X: xs.scale(v), Label: formatValue(v, 0)})
	}
	return ticks
}

func valueTicks(ys linearScale) []tick {
	values := niceTicks(ys.domain[0], ys.domain[1], 6)
	prec := optimalPrecision(values)
	ticks := make([]tick, 0, len(values))
	for _, v := range values {
		ticks = append(ticks, tick{Y: ys.scale(v), Label: formatValue(v, prec)})
	}
	return ticks
}

// YAxisMode selects how the value axis is fitted to the data.
type YAxisMode int

const (
	YAxisAuto YAxisMode = iota
	YAxisZeroBased
)

func adjustValueExtent(extent [2]float64, mode YAxisMode) [2]float64 {
	min, max := extent[0], extent[1]
	if mode == YAxisZeroBased {
		min, max = math.Min(min, 0), math.Max(max, 0)
	}
	if min == max {
		if min == 0 {
			return [2]float64{0, 1}
		}
		padding := math.Abs(min) * 0.1
		return [2]float64{min - padding, max + padding}
	}
	padding := (max - min) * 0.05
	if mode == YAxisZeroBased && min == 0 {
		return [2]float64{0, max + padding}
	}
	return [2]float64{min - padding, max + padding}
}

func niceTicks(min, max float64, maxTicks int) []float64 {
	if min >= max {
		return []float64{min}
	}
	rawStep := (max - min) / float64(maxTicks-1)
	magnitude := math.Pow(10, math.Floor(math.Log10(rawStep)))
	var step float64
	switch normalized := rawStep / magnitude; {
	case normalized <= 1:
		step = magnitude
	case normalized <= 2:
		step = 2 * magnitude
	case normalized <= 5:
		step = 5 * magnitude
	default:
		step = 10 * magnitude
	}
	var ticks []float64
	for v := math.Ceil(min/step) * step; v <= max+step*1e-9; v += step {
		ticks = append(ticks, math.Round(v/step)*step)
	}
	return ticks
}

func optimalPrecision(values []float64) int {
	if len(values) <= 1 {
		return 1
	}
	minDiff := math.Inf(1)
	for i := 1; i < len(values); i++ {
		if diff := math.Abs(values[i] - values[i-1]); diff > 0 && diff < minDiff {
			minDiff = diff
		}
	}
	if minDiff > 0 && !math.IsInf(minDiff, 0) {
		precision := int(math.Max(0, -math.Floor(math.Log10(minDiff))))
		return min(precision, 8)
	}
	return 2
}

func formatValue(value float64, precision int) string {
	formatted := fmt.Sprintf("%.*f", precision, value)
	if strings.Contains(formatted, ".") {
		formatted = strings.TrimRight(strings.TrimRight(formatted, "0"), ".")
	}
	if formatted == "" || formatted == "-0" || formatted == "-" {
		return "0"
	}
	return formatted
}
