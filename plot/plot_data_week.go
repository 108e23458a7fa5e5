package plot

import (
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// dataWeekForGraph holds one epidemic curve sampled on weekly buckets,
// labels come in already formatted as year/week.
type dataWeekForGraph struct {
	labels    []string
	yValues   []float64
	nameYAxis string
	nameGraph string
}

func NewDataWeekForGraph(labels []string, y []float64, nameYAxis, nameGraph string) dataWeekForGraph {
	return dataWeekForGraph{
		labels:    labels,
		yValues:   y,
		nameYAxis: nameYAxis,
		nameGraph: nameGraph,
	}
}

func (d dataWeekForGraph) GetNameGraph() string {
	return d.nameGraph
}
func (d dataWeekForGraph) getNameYAxis() string {
	return d.nameYAxis
}
func (d dataWeekForGraph) getYValues() []float64 {
	return d.yValues
}
func (d dataWeekForGraph) lenLabels() int {
	return len(d.labels)
}

func (d dataWeekForGraph) calculateChartDimensions(minBarWidth float64) (width, height int) {
	if len(d.yValues) == 0 || d.lenLabels() <= 0 || minBarWidth <= 0 {
		return 0, 0
	}
	x := 1.1
	if d.lenLabels() < 2 {
		x = 10.0
	} else if d.lenLabels() < 10 {
		x = 3.0
	}

	const (
		paddingY     = 100
		spacingRatio = 0.2
		aspectRatio  = 9.0 / 16.0
	)

	barSpacing := minBarWidth * spacingRatio
	totalWidth := (minBarWidth+barSpacing)*float64(d.lenLabels()) + paddingY
	width = int(totalWidth*x) + paddingY
	height = int(float64(width) * aspectRatio)
	return width, height
}

func (d dataWeekForGraph) generateBarValues() []chart.Value {
	var bars []chart.Value
	for i, label := range d.labels {
		bars = append(bars, chart.Value{
			Value: d.yValues[i],
			Style: chart.Style{FillColor: drawing.ColorLime.WithAlpha(40),
				TextVerticalAlign: 100},
			Label: label,
		})
	}
	return bars
}
