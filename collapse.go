// collapse.go
package main

import (
	"fmt"
	"sort"
)

// collapseCategory computes the top-N most frequent distinct values of a
// categorical column. Frequency decides membership only: the selected
// values come back in natural sort order so every view of the same grouping
// variable shows categories in the same stable order. When more than cap
// distinct values exist the remainder is summarized by a single "other(K)"
// label, K being the count of excluded distinct values, not rows.
func collapseCategory(values []interface{}, cap int) ([]string, string) {
	counts := map[string]int{}
	for _, v := range values {
		if isMissing(v) {
			continue
		}
		counts[valueToString(v)]++
	}

	distinct := make([]string, 0, len(counts))
	for v := range counts {
		distinct = append(distinct, v)
	}
	sort.Slice(distinct, func(i, j int) bool {
		if counts[distinct[i]] != counts[distinct[j]] {
			return counts[distinct[i]] > counts[distinct[j]]
		}
		return distinct[i] < distinct[j]
	})

	if len(distinct) <= cap {
		sort.Strings(distinct)
		return distinct, ""
	}

	selected := append([]string{}, distinct[:cap]...)
	sort.Strings(selected)
	otherLabel := fmt.Sprintf("other(%d)", len(distinct)-cap)
	return selected, otherLabel
}

// collapseColumn rewrites a dataset column in place so that every value
// outside the selected set becomes the other(K) label. Returns the selected
// values followed by the other label (when present), which is the display
// order of the grouped traces.
func collapseColumn(ds *Dataset, column string, cap int) []string {
	values := make([]interface{}, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		values = append(values, row[column])
	}
	selected, otherLabel := collapseCategory(values, cap)
	if otherLabel == "" {
		return selected
	}

	keep := toSet(selected)
	for _, row := range ds.Rows {
		v := row[column]
		if isMissing(v) {
			continue
		}
		if !keep[valueToString(v)] {
			row[column] = otherLabel
		}
	}
	return append(selected, otherLabel)
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
