// stat_formatters.go
package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/epivizor/linelist_analyzer/domain/models"
)

// GenerateAggregateTable renders one aggregate result as an aligned text
// table, used by the diagnostics surface and the export endpoint
func GenerateAggregateTable(result *models.AggregateResult) string {
	t := table.NewWriter()

	if result.Kind == models.AggregatePaths {
		if len(result.Paths) == 0 {
			return ""
		}
		header := table.Row{}
		for i := range result.Paths[0].Levels {
			header = append(header, fmt.Sprintf("hs_level_%d", i))
		}
		header = append(header, "Count")
		t.AppendHeader(header)
		for _, path := range result.Paths {
			row := table.Row{}
			for _, level := range path.Levels {
				row = append(row, level)
			}
			row = append(row, path.Count)
			t.AppendRows([]table.Row{row})
		}
		t.SetStyle(table.StyleDefault)
		return t.Render()
	}

	valueHeader := "Value"
	countHeader := "Count"
	if result.Percent {
		countHeader = "% of total"
	}

	if len(result.GroupedCounts) > 0 {
		t.AppendHeader(table.Row{result.Column, valueHeader, countHeader})
		for _, group := range result.GroupOrder {
			for _, c := range result.GroupedCounts[group] {
				t.AppendRows([]table.Row{{group, c.Value, formatCount(c.Count, result.Percent)}})
			}
		}
	} else {
		t.AppendHeader(table.Row{valueHeader, countHeader})
		for _, c := range result.Counts {
			t.AppendRows([]table.Row{{c.Value, formatCount(c.Count, result.Percent)}})
		}
	}
	t.SetStyle(table.StyleDefault)
	return t.Render()
}

// GenerateTemporalTable renders the four epi curve series as text tables
func GenerateTemporalTable(result *models.TemporalResult) string {
	buf := &strings.Builder{}
	for _, series := range []struct {
		name   string
		points []models.BucketPoint
	}{
		{models.GranularityDaily, result.Daily},
		{models.GranularityWeekly, result.Weekly},
		{models.GranularityMonthly, result.Monthly},
		{models.GranularityYearly, result.Yearly},
	} {
		t := table.NewWriter()
		t.AppendHeader(table.Row{series.name, "Count"})
		for _, p := range series.points {
			t.AppendRows([]table.Row{{p.Label, formatCount(p.Count, result.Percent)}})
		}
		t.SetStyle(table.StyleDefault)
		buf.WriteString(t.Render())
		buf.WriteString("\n")
	}
	return buf.String()
}

// formatCount keeps plain counts numeric so the table writer right-aligns
// them, percentages render with two decimals
func formatCount(v float64, percent bool) interface{} {
	if percent {
		return fmt.Sprintf("%.2f", v)
	}
	return int(v)
}

// --- captions ---

func captionFrequency(result *models.AggregateResult) string {
	return fmt.Sprintf("The plot of '%s' field composed of %d categories distributed across %d samples (with %d missing samples).",
		result.Column, result.Categories, result.SamplesTotal, result.Missing)
}

func captionFrequencyTwoGroups(r1, r2 *models.AggregateResult) string {
	return fmt.Sprintf("The plot of '%s' field composed of two groups:\n"+
		"a) Group #1 with %d categories distributed across %d samples (with %d missing samples);\n"+
		"b) Group #2 with %d categories distributed across %d samples (with %d missing samples).",
		r1.Column,
		r1.Categories, r1.SamplesTotal, r1.Missing,
		r2.Categories, r2.SamplesTotal, r2.Missing)
}

func captionComponents(result *models.AggregateResult) string {
	return fmt.Sprintf("The plot of '%s' field composed of %d components distributed across %d samples "+
		"(with %d missing samples). Selected split delimiter symbol %s",
		result.Column, result.Categories, result.SamplesTotal, result.Missing, result.Delimiter)
}

func captionComponentsTwoGroups(r1, r2 *models.AggregateResult) string {
	return fmt.Sprintf("The plot of '%s' field component counts for the following two groups:\n"+
		"a) Group #1 composed of %d components distributed across %d samples (with %d missing samples)\n"+
		"b) Group #2 composed of %d components distributed across %d samples (with %d missing samples).\n"+
		"Selected delimiter symbol %s",
		r1.Column,
		r1.Categories, r1.SamplesTotal, r1.Missing,
		r2.Categories, r2.SamplesTotal, r2.Missing,
		r1.Delimiter)
}

func captionTemporal(result *models.TemporalResult) string {
	return fmt.Sprintf("Sample counts per time unit (day, week, month or year) on %d samples with available information "+
		"(and %d samples with unknown time information).",
		result.SamplesTotal, result.MissingDates)
}

func captionTemporalTwoGroups(r1, r2 *models.TemporalResult) string {
	return fmt.Sprintf("Sample counts per time unit (day, week, month or year) on two groups:\n"+
		"a) Group 1 composed of %d samples with information (and %d samples with unknown time information).\n"+
		"b) Group 2 composed of %d samples with information (and %d samples with unknown time information)",
		r1.SamplesTotal, r1.MissingDates, r2.SamplesTotal, r2.MissingDates)
}

func captionPaths(result *models.AggregateResult, delimiter string, rendered int) string {
	return fmt.Sprintf("The hierarchical cluster abundances distributed across %d samples and %d total levels\n"+
		"Note 1: Top-down hierarchy with the first level being the most relaxed conditions compared to other levels\n"+
		"Note 2: Only %d top most numerous hierarchy paths rendered to improve performance\n"+
		"Note 3: The selected delimiter symbol is '%s'\n"+
		"Note 4: If defined, the Group #2 samples are NOT rendered, only Group #1 samples",
		result.SamplesTotal, result.Categories, rendered, delimiter)
}

func captionAge(result *models.AggregateResult) string {
	return fmt.Sprintf("Age distribution plot on %d cases with age data (%d cases age unknown)",
		result.SamplesTotal, result.Missing)
}

func captionAgeTwoGroups(r1, r2 *models.AggregateResult) string {
	return fmt.Sprintf("Age distribution plot on two groups:\n"+
		"a) Group #1 composed of %d cases with age data (%d cases with age unknown)\n"+
		"b) Group #2 composed of %d cases with age data (%d cases with age unknown)",
		r1.SamplesTotal, r1.Missing, r2.SamplesTotal, r2.Missing)
}

func captionCorrelation(caption string, corr *models.CorrelationResult) string {
	return caption + fmt.Sprintf("\nPearson correlation coefficient between two groups based on the %d data points: %.3f (p-value: %.3e)",
		corr.N, corr.Coefficient, corr.PValue)
}
