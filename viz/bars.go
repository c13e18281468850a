package viz

import (
	"fmt"
	"math"
)

// BarDataset is one coloured bar per category. Muted bars are drawn
// translucent with a dashed outline so two datasets sharing a colour stay
// apart.
type BarDataset struct {
	Name   string    `json:"name"`
	Color  string    `json:"color,omitempty"`
	Muted  bool      `json:"muted,omitempty"`
	Values []float64 `json:"values"`
}

type bar struct {
	X, Y, Width, Height int
	Color               string
	Muted               bool
	Label               string
	LabelX, LabelY      int
}

// GenerateBars renders grouped bars, one group per category. Each group is
// scaled to its own maximum because KPIs carry different units.
func (p *SVGPlotter) GenerateBars(categories []string, datasets []BarDataset, meta PlotMetadata) (string, error) {
	for _, ds := range datasets {
		if len(ds.Values) != len(categories) {
			return "", fmt.Errorf("dataset %q has %d values for %d categories", ds.Name, len(ds.Values), len(categories))
		}
	}

	innerWidth, innerHeight := p.innerSize()
	data := templateData{Config: p.config, Metadata: meta, InnerWidth: innerWidth, InnerHeight: innerHeight}
	if len(categories) == 0 || len(datasets) == 0 {
		return p.render(data)
	}

	groupWidth := innerWidth / len(categories)
	barWidth := max(1, (groupWidth*8/10)/len(datasets))
	// 1px gaps once bars get narrow, none below 3px.
	gap := min(2, barWidth-1)
	labelSpace := 14

	for ci, category := range categories {
		groupMax := 0.0
		for _, ds := range datasets {
			groupMax = math.Max(groupMax, math.Abs(ds.Values[ci]))
		}
		groupX := ci * groupWidth
		data.XTicks = append(data.XTicks, tick{X: groupX + groupWidth/2, Label: category})

		for di, ds := range datasets {
			v := ds.Values[ci]
			h := 0
			if groupMax > 0 {
				h = int(math.Round(math.Abs(v) / groupMax * float64(innerHeight-labelSpace)))
			}
			x := groupX + groupWidth/10 + di*barWidth
			data.Bars = append(data.Bars, bar{
				X: x, Y: innerHeight - h, Width: barWidth - gap, Height: h,
				Color:  p.datasetColor(ds, di),
				Muted:  ds.Muted,
				Label:  formatValue(v, 1),
				LabelX: x + barWidth/2,
				LabelY: innerHeight - h - 4,
			})
		}
	}
	for di, ds := range datasets {
		data.LegendItems = append(data.LegendItems, legendItem{Name: ds.Name, Color: p.datasetColor(ds, di), Dashed: ds.Muted, Y: di * 20})
	}
	return p.render(data)
}

func (p *SVGPlotter) datasetColor(ds BarDataset, i int) string {
	if ds.Color != "" {
		return ds.Color
	}
	return p.config.Colors[i%len(p.config.Colors)]
}
