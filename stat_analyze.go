// stat_analyze.go
package main

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pivolan/go_utils"

	"github.com/epivizor/linelist_analyzer/domain/models"
)

// unknownCategory absorbs missing cells and the placeholder values the
// source data uses for "nothing here" (numeric zero, empty antigenic formula)
const unknownCategory = "unknown"

func normalizeCategory(v interface{}) string {
	if isMissing(v) {
		return unknownCategory
	}
	s := valueToString(v)
	if go_utils.InArray(s, []string{"0", "-:-:-"}) {
		return unknownCategory
	}
	return s
}

// aggregateFrequency counts the distinct values of one categorical column,
// optionally cross-tabulated against a grouping column collapsed to the
// top-N categories plus other(K). Missing values land in "unknown".
func aggregateFrequency(ds *Dataset, column string, groupBy string, cap int, percent bool) (*models.AggregateResult, error) {
	if !ds.HasColumn(column) {
		return nil, &MissingColumnError{Column: column}
	}

	result := &models.AggregateResult{
		Kind:         models.AggregateFrequency,
		Column:       column,
		SamplesTotal: len(ds.Rows),
		Percent:      percent,
	}

	if groupBy == "" {
		counts, missing, categories := frequencyCounts(ds.Rows, column)
		result.Counts = counts
		result.Missing = missing
		result.Categories = categories
		if percent {
			percentNormalize(result.Counts)
		}
		return result, nil
	}

	if !ds.HasColumn(groupBy) {
		return nil, &MissingColumnError{Column: groupBy}
	}
	// grouping column: missing becomes its own trace, long tail collapses
	for _, row := range ds.Rows {
		if isMissing(row[groupBy]) {
			row[groupBy] = unknownCategory
		}
	}
	groupOrder := collapseColumn(ds, groupBy, cap)

	result.GroupOrder = groupOrder
	result.GroupedCounts = map[string][]models.ValueCount{}
	_, result.Missing, result.Categories = frequencyCounts(ds.Rows, column)
	for _, group := range groupOrder {
		rows := subsetRows(ds.Rows, groupBy, group)
		counts, _, _ := frequencyCounts(rows, column)
		if percent {
			percentNormalize(counts)
		}
		result.GroupedCounts[group] = counts
	}
	return result, nil
}

func frequencyCounts(rows []map[string]interface{}, column string) (counts []models.ValueCount, missing, categories int) {
	byValue := map[string]float64{}
	for _, row := range rows {
		v := normalizeCategory(row[column])
		if v == unknownCategory {
			missing++
		}
		byValue[v]++
	}
	values := make([]string, 0, len(byValue))
	for v := range byValue {
		values = append(values, v)
		if v != unknownCategory {
			categories++
		}
	}
	sort.Strings(values)
	for _, v := range values {
		counts = append(counts, models.ValueCount{Value: v, Count: byValue[v]})
	}
	return counts, missing, categories
}

// aggregateComponents splits every non-missing cell of a composite column
// on the delimiter and counts each atomic token across all rows: a bag of
// tokens, not a per-row count. Missing rows are excluded entirely.
func aggregateComponents(ds *Dataset, column, delimiter string, groupBy string, cap int, percent bool) (*models.AggregateResult, error) {
	if !ds.HasColumn(column) {
		return nil, &MissingColumnError{Column: column}
	}

	result := &models.AggregateResult{
		Kind:         models.AggregateComponents,
		Column:       column,
		SamplesTotal: len(ds.Rows),
		Delimiter:    delimiter,
		Percent:      percent,
	}
	for _, row := range ds.Rows {
		if isMissing(row[column]) {
			result.Missing++
		}
	}

	if groupBy == "" {
		result.Counts = componentCounts(ds.Rows, column, delimiter)
		result.Categories = len(result.Counts)
		if percent {
			percentNormalize(result.Counts)
		}
		return result, nil
	}

	if !ds.HasColumn(groupBy) {
		return nil, &MissingColumnError{Column: groupBy}
	}
	for _, row := range ds.Rows {
		if isMissing(row[groupBy]) {
			row[groupBy] = unknownCategory
		}
	}
	groupOrder := collapseColumn(ds, groupBy, cap)
	result.GroupOrder = groupOrder
	result.GroupedCounts = map[string][]models.ValueCount{}
	result.Categories = len(componentCounts(ds.Rows, column, delimiter))
	for _, group := range groupOrder {
		counts := componentCounts(subsetRows(ds.Rows, groupBy, group), column, delimiter)
		if percent {
			percentNormalize(counts)
		}
		result.GroupedCounts[group] = counts
	}
	return result, nil
}

func componentCounts(rows []map[string]interface{}, column, delimiter string) []models.ValueCount {
	byToken := map[string]float64{}
	for _, row := range rows {
		v := row[column]
		if isMissing(v) {
			continue
		}
		for _, token := range strings.Split(valueToString(v), delimiter) {
			byToken[token]++
		}
	}
	tokens := make([]string, 0, len(byToken))
	for token := range byToken {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	counts := make([]models.ValueCount, 0, len(tokens))
	for _, token := range tokens {
		counts = append(counts, models.ValueCount{Value: token, Count: byToken[token]})
	}
	return counts
}

// aggregatePaths counts complete hierarchical subtype paths. Rows missing
// any level are excluded; the result is sorted by count descending with
// ties in first-seen order and capped at maxPaths for rendering cost.
func aggregatePaths(ds *Dataset, maxPaths int) (*models.AggregateResult, error) {
	levels := ds.HierarchyColumns()
	if len(levels) == 0 {
		return nil, &MissingColumnError{Column: "hs_level_0"}
	}

	type pathAgg struct {
		levels []string
		count  int
		seen   int
	}
	byKey := map[string]*pathAgg{}
	order := 0
	complete := 0
	for _, row := range ds.Rows {
		values := make([]string, len(levels))
		ok := true
		for i, col := range levels {
			v := row[col]
			if isMissing(v) {
				ok = false
				break
			}
			values[i] = valueToString(v)
		}
		if !ok {
			continue
		}
		complete++
		key := strings.Join(values, "\x00")
		agg, exists := byKey[key]
		if !exists {
			agg = &pathAgg{levels: values, seen: order}
			order++
			byKey[key] = agg
		}
		agg.count++
	}

	paths := make([]*pathAgg, 0, len(byKey))
	for _, agg := range byKey {
		paths = append(paths, agg)
	}
	sort.Slice(paths, func(i, j int) bool {
		if paths[i].count != paths[j].count {
			return paths[i].count > paths[j].count
		}
		return paths[i].seen < paths[j].seen
	})
	if len(paths) > maxPaths {
		paths = paths[:maxPaths]
	}

	result := &models.AggregateResult{
		Kind:         models.AggregatePaths,
		Column:       "hierarchical_subtype",
		SamplesTotal: complete,
		Missing:      len(ds.Rows) - complete,
		Categories:   len(levels),
	}
	for _, agg := range paths {
		result.Paths = append(result.Paths, models.PathCount{Levels: agg.levels, Count: agg.count})
	}
	return result, nil
}

const ageBinWidth = 5
const ageBinMax = 105

// aggregateAgeBins coerces the age column to float and counts cases per
// fixed [a, a+5) bin from 0 to 105. Non-numeric entries are excluded and
// reported as missing. All bins are present zero-filled so two groups line
// up positionally without any label reconciliation.
func aggregateAgeBins(ds *Dataset, percent bool) (*models.AggregateResult, error) {
	if !ds.HasColumn("age") {
		return nil, &MissingColumnError{Column: "age"}
	}

	bins := make([]float64, ageBinMax/ageBinWidth)
	withAge := 0
	for _, row := range ds.Rows {
		age, ok := parseFloatValue(row["age"])
		if !ok {
			continue
		}
		withAge++
		if age < 0 || age >= ageBinMax {
			continue
		}
		bins[int(age)/ageBinWidth]++
	}

	result := &models.AggregateResult{
		Kind:         models.AggregateNumericBins,
		Column:       "age",
		SamplesTotal: withAge,
		Missing:      len(ds.Rows) - withAge,
		Percent:      percent,
	}
	for i, count := range bins {
		result.Counts = append(result.Counts, models.ValueCount{
			Value: ageBinLabel(i * ageBinWidth),
			Count: count,
		})
	}
	result.Categories = len(result.Counts)
	if percent {
		percentNormalize(result.Counts)
	}
	return result, nil
}

func ageBinLabel(start int) string {
	return "[" + strconv.Itoa(start) + "-" + strconv.Itoa(start+ageBinWidth) + ")"
}

func subsetRows(rows []map[string]interface{}, column, value string) []map[string]interface{} {
	subset := rows[:0:0]
	for _, row := range rows {
		if !isMissing(row[column]) && valueToString(row[column]) == value {
			subset = append(subset, row)
		}
	}
	return subset
}

func percentNormalize(counts []models.ValueCount) {
	total := 0.0
	for _, c := range counts {
		total += c.Count
	}
	if total == 0 {
		return
	}
	for i := range counts {
		counts[i].Percent = counts[i].Count / total * 100
		counts[i].Count = counts[i].Percent
	}
}
