package plot

import (
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// dataCategoryForGraph holds one categorical distribution, one bar per
// category in display order.
type dataCategoryForGraph struct {
	labels    []string
	yValues   []float64
	nameYAxis string
	nameGraph string
}

func NewDataCategoryForGraph(labels []string, y []float64, nameYAxis, nameGraph string) dataCategoryForGraph {
	return dataCategoryForGraph{
		labels:    labels,
		yValues:   y,
		nameYAxis: nameYAxis,
		nameGraph: nameGraph,
	}
}

func (d dataCategoryForGraph) GetNameGraph() string {
	return d.nameGraph
}
func (d dataCategoryForGraph) getNameYAxis() string {
	return d.nameYAxis
}
func (d dataCategoryForGraph) getYValues() []float64 {
	return d.yValues
}
func (d dataCategoryForGraph) lenLabels() int {
	return len(d.labels)
}

func (d dataCategoryForGraph) calculateChartDimensions(minBarWidth float64) (width, height int) {
	// Проверка входных параметров
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
		paddingY     = 100        // отступ для оси Y и подписей
		spacingRatio = 0.2        // соотношение отступа между столбцами к ширине столбца
		aspectRatio  = 9.0 / 16.0 // соотношение сторон по умолчанию
	)

	barSpacing := minBarWidth * spacingRatio
	totalWidth := (minBarWidth+barSpacing)*float64(d.lenLabels()) + paddingY
	width = int(totalWidth*x) + paddingY
	height = int(float64(width) * aspectRatio)
	return width, height
}

func (d dataCategoryForGraph) generateBarValues() []chart.Value {
	var bars []chart.Value
	for i := 0; i < len(d.labels); i++ {
		bars = append(bars, chart.Value{
			Value: d.yValues[i],
			Label: d.labels[i],
			Style: chart.Style{
				FillColor: drawing.ColorPurple.WithAlpha(100),
			},
		})
	}
	return bars
}
