// dashboard_charts.go
package main

import (
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/epivizor/linelist_analyzer/domain/models"
)

// chart titles shown on the rendered dashboard page
var viewTitles = map[string]string{
	viewGeoloc:          "Geolocation",
	viewAge:             "Age distribution",
	viewGender:          "Gender",
	viewSourceType:      "Sample source type",
	viewSourceSite:      "Sample source site",
	viewEpiCurve:        "Epidemic curve",
	viewPrimaryType:     "Primary type",
	viewSecondaryType:   "Secondary type",
	viewGeneticProfile:  "Genetic profile",
	viewGeneticComp:     "Genetic profile components",
	viewPhenoProfile:    "Phenotypic profile",
	viewPhenoComp:       "Phenotypic profile components",
	viewSunburst:        "Hierarchy of clusters",
	viewClusterID:       "Cluster codes",
	viewInvestigationID: "Investigation codes",
}

// renderDashboardPage writes one self-contained html page with a chart per
// successfully computed view.
func renderDashboardPage(result *models.DashboardResult, w io.Writer) error {
	page := components.NewPage()
	page.PageTitle = "Line list dashboard"

	keys := make([]string, 0, len(result.Views))
	for key := range result.Views {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		view := result.Views[key]
		if view.Error != "" {
			continue
		}
		switch {
		case view.Key == viewSunburst && view.Group1 != nil:
			page.AddCharts(sunburstChart(view))
		case view.Temporal1 != nil:
			page.AddCharts(temporalChart(view))
		case view.Group1 != nil:
			page.AddCharts(barChart(view))
		}
	}
	return page.Render(w)
}

func barChart(view *models.DashboardView) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: viewTitles[view.Key]}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	if len(view.Group1.GroupOrder) > 0 {
		axis := []string{}
		seen := map[string]bool{}
		for _, group := range view.Group1.GroupOrder {
			for _, c := range view.Group1.GroupedCounts[group] {
				if !seen[c.Value] {
					seen[c.Value] = true
					axis = append(axis, c.Value)
				}
			}
		}
		sort.Strings(axis)
		bar.SetXAxis(axis)
		for _, group := range view.Group1.GroupOrder {
			bar.AddSeries(group, alignedBarData(axis, view.Group1.GroupedCounts[group]))
		}
		return bar
	}

	if view.Group2 != nil {
		axis := unionLabels(view.Group1.Counts, view.Group2.Counts)
		bar.SetXAxis(axis)
		bar.AddSeries("Group #1", alignedBarData(axis, view.Group1.Counts))
		bar.AddSeries("Group #2", alignedBarData(axis, view.Group2.Counts))
		return bar
	}

	bar.SetXAxis(countLabels(view.Group1.Counts))
	bar.AddSeries("Group #1", barData(view.Group1.Counts))
	return bar
}

// unionLabels merges the labels of two count series into one sorted axis
func unionLabels(a, b []models.ValueCount) []string {
	seen := map[string]bool{}
	labels := []string{}
	for _, c := range a {
		if !seen[c.Value] {
			seen[c.Value] = true
			labels = append(labels, c.Value)
		}
	}
	for _, c := range b {
		if !seen[c.Value] {
			seen[c.Value] = true
			labels = append(labels, c.Value)
		}
	}
	sort.Strings(labels)
	return labels
}

func temporalChart(view *models.DashboardView) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: viewTitles[view.Key]}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	labels := make([]string, 0, len(view.Temporal1.Weekly))
	data := make([]opts.LineData, 0, len(view.Temporal1.Weekly))
	for _, point := range view.Temporal1.Weekly {
		labels = append(labels, point.Label)
		data = append(data, opts.LineData{Value: point.Count})
	}
	line.SetXAxis(labels)
	line.AddSeries("Group #1", data)

	if view.Temporal2 != nil {
		byLabel := map[string]float64{}
		for _, point := range view.Temporal2.Weekly {
			byLabel[point.Label] = point.Count
		}
		data2 := make([]opts.LineData, 0, len(labels))
		for _, label := range labels {
			data2 = append(data2, opts.LineData{Value: byLabel[label]})
		}
		line.AddSeries("Group #2", data2)
	}
	return line
}

func sunburstChart(view *models.DashboardView) *charts.Sunburst {
	sb := charts.NewSunburst()
	sb.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: viewTitles[view.Key]}),
	)
	sb.AddSeries("hierarchy", pathsToSunburst(view.Group1.Paths))
	return sb
}

// pathsToSunburst folds the flat path list into the nested tree the
// sunburst series expects.
func pathsToSunburst(paths []models.PathCount) []opts.SunBurstData {
	type node struct {
		name     string
		count    int
		children []*node
		index    map[string]*node
	}
	root := &node{index: map[string]*node{}}
	for _, path := range paths {
		current := root
		for _, level := range path.Levels {
			child, ok := current.index[level]
			if !ok {
				child = &node{name: level, index: map[string]*node{}}
				current.index[level] = child
				current.children = append(current.children, child)
			}
			current = child
		}
		current.count += path.Count
	}

	var convert func(n *node) *opts.SunBurstData
	convert = func(n *node) *opts.SunBurstData {
		data := &opts.SunBurstData{Name: n.name}
		if len(n.children) == 0 {
			data.Value = float64(n.count)
			return data
		}
		for _, child := range n.children {
			data.Children = append(data.Children, convert(child))
		}
		return data
	}

	out := make([]opts.SunBurstData, 0, len(root.children))
	for _, child := range root.children {
		out = append(out, *convert(child))
	}
	return out
}

func countLabels(counts []models.ValueCount) []string {
	labels := make([]string, 0, len(counts))
	for _, c := range counts {
		labels = append(labels, c.Value)
	}
	return labels
}

func barData(counts []models.ValueCount) []opts.BarData {
	data := make([]opts.BarData, 0, len(counts))
	for _, c := range counts {
		data = append(data, opts.BarData{Value: c.Count})
	}
	return data
}

// alignedBarData reorders a count series onto a shared axis, categories the
// series lacks plot as zero
func alignedBarData(axis []string, counts []models.ValueCount) []opts.BarData {
	byValue := map[string]float64{}
	for _, c := range counts {
		byValue[c.Value] = c.Count
	}
	data := make([]opts.BarData, 0, len(axis))
	for _, label := range axis {
		data = append(data, opts.BarData{Value: byValue[label]})
	}
	return data
}
