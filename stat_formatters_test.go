package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/epivizor/linelist_analyzer/domain/models"
)

func TestGenerateAggregateTable(t *testing.T) {
	result := &models.AggregateResult{
		Kind:   models.AggregateFrequency,
		Column: "geoloc_id",
		Counts: []models.ValueCount{
			{Value: "Canada", Count: 2},
			{Value: "USA", Count: 1},
			{Value: "unknown", Count: 1},
		},
	}
	assert.Equal(t, `+---------+-------+
| VALUE   | COUNT |
+---------+-------+
| Canada  |     2 |
| USA     |     1 |
| unknown |     1 |
+---------+-------+`, GenerateAggregateTable(result))
}

func TestGenerateAggregateTableGrouped(t *testing.T) {
	result := &models.AggregateResult{
		Kind:       models.AggregateFrequency,
		Column:     "gender",
		GroupOrder: []string{"Canada", "other(3)"},
		GroupedCounts: map[string][]models.ValueCount{
			"Canada":   {{Value: "female", Count: 3}},
			"other(3)": {{Value: "male", Count: 2}},
		},
	}
	rendered := GenerateAggregateTable(result)
	assert.Contains(t, rendered, "GENDER")
	assert.Contains(t, rendered, "Canada")
	assert.Contains(t, rendered, "other(3)")
	// group #1 order is preserved top to bottom
	assert.Less(t, strings.Index(rendered, "female"), strings.Index(rendered, "male"))
}

func TestGenerateAggregateTablePaths(t *testing.T) {
	result := &models.AggregateResult{
		Kind: models.AggregatePaths,
		Paths: []models.PathCount{
			{Levels: []string{"1", "1.1"}, Count: 3},
			{Levels: []string{"2", "2.1"}, Count: 1},
		},
	}
	rendered := GenerateAggregateTable(result)
	assert.Contains(t, rendered, "HS_LEVEL_0")
	assert.Contains(t, rendered, "HS_LEVEL_1")
	assert.Contains(t, rendered, "1.1")

	empty := &models.AggregateResult{Kind: models.AggregatePaths}
	assert.Equal(t, "", GenerateAggregateTable(empty))
}

func TestGenerateAggregateTablePercentHeader(t *testing.T) {
	result := &models.AggregateResult{
		Kind:    models.AggregateFrequency,
		Column:  "geoloc_id",
		Percent: true,
		Counts:  []models.ValueCount{{Value: "Canada", Count: 100}},
	}
	rendered := GenerateAggregateTable(result)
	assert.Contains(t, rendered, "% OF TOTAL")
	assert.Contains(t, rendered, "100.00")
}

func TestGenerateTemporalTable(t *testing.T) {
	result := &models.TemporalResult{
		Daily:  []models.BucketPoint{{Label: "2021-01-11", Count: 2}},
		Weekly: []models.BucketPoint{{Label: "2021/02", Count: 2}},
	}
	rendered := GenerateTemporalTable(result)
	assert.Contains(t, rendered, "DAILY")
	assert.Contains(t, rendered, "WEEKLY")
	assert.Contains(t, rendered, "2021-01-11")
	assert.Contains(t, rendered, "2021/02")
}

func TestCaptions(t *testing.T) {
	freq := &models.AggregateResult{Column: "geoloc_id", Categories: 3, SamplesTotal: 10, Missing: 2}
	assert.Equal(t,
		"The plot of 'geoloc_id' field composed of 3 categories distributed across 10 samples (with 2 missing samples).",
		captionFrequency(freq))

	two := captionFrequencyTwoGroups(freq, &models.AggregateResult{Column: "geoloc_id", Categories: 1, SamplesTotal: 4, Missing: 0})
	assert.Contains(t, two, "a) Group #1 with 3 categories")
	assert.Contains(t, two, "b) Group #2 with 1 categories")

	corr := &models.CorrelationResult{Coefficient: 0.8, PValue: 0.104, N: 5}
	withCorr := captionCorrelation(two, corr)
	assert.Contains(t, withCorr, "Pearson correlation coefficient between two groups based on the 5 data points: 0.800")

	paths := &models.AggregateResult{SamplesTotal: 7, Categories: 2}
	assert.Contains(t, captionPaths(paths, "|", 100), "Note 2: Only 100 top most numerous hierarchy paths rendered")
	assert.Contains(t, captionPaths(paths, "|", 100), "delimiter symbol is '|'")
}
