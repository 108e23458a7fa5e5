// filter_engine.go
package main

import (
	"fmt"
	"log"
	"strings"
)

// applyFilter applies one normalized filter specification to the dataset and
// returns the surviving subset as a named group. The input dataset is never
// touched: all work happens on a deep copy.
//
// Matching is done with per-field accepted-value sets instead of building
// textual match expressions, so values carrying regex metacharacters
// ("B.1.1.7") match only themselves. Hierarchy levels are OR-combined and
// case-sensitive; the flat fields are AND-combined across fields,
// OR-combined within a field, case-insensitive, and missing cells never
// match. Date bounds are inclusive and independent.
func applyFilter(spec *FilterSpec, ds *Dataset, groupName string) (*Group, []string, error) {
	df := ds.Copy()
	warnings := []string{}

	// hierarchical subtype filter runs first
	hierarchySets := map[string]map[string]bool{}
	for column, values := range spec.Hierarchy {
		if len(values) == 0 {
			continue
		}
		if !df.HasColumn(column) {
			warnings = append(warnings, fmt.Sprintf("hierarchy filter on missing column %q skipped", column))
			continue
		}
		set := make(map[string]bool, len(values))
		for _, v := range values {
			set[v] = true
		}
		hierarchySets[column] = set
	}
	if len(hierarchySets) > 0 {
		kept := df.Rows[:0:0]
		for _, row := range df.Rows {
			pass := false
			for column, set := range hierarchySets {
				v := row[column]
				if !isMissing(v) && set[valueToString(v)] {
					pass = true
					break
				}
			}
			if pass {
				kept = append(kept, row)
			}
		}
		df.Rows = kept
		log.Printf("after hierarchical cluster code filter left %d rows", len(df.Rows))
	}

	// flat field filters, AND across fields
	for _, field := range flatFilterFields {
		values := spec.Fields[field]
		if len(values) == 0 {
			continue
		}
		set := toLowerSet(values)
		kept := df.Rows[:0:0]
		for _, row := range df.Rows {
			v := row[field]
			if isMissing(v) {
				continue
			}
			if set[strings.ToLower(valueToString(v))] {
				kept = append(kept, row)
			}
		}
		df.Rows = kept
	}

	// date range filter needs the date column parsed in place first
	if df.HasColumn("date") {
		for _, row := range df.Rows {
			if t, ok := parseDateValue(row["date"]); ok {
				row["date"] = t
			} else {
				row["date"] = nil
			}
		}
		if spec.StartDate != "" || spec.EndDate != "" {
			kept := df.Rows[:0:0]
			for _, row := range df.Rows {
				t, ok := parseDateValue(row["date"])
				if !ok {
					continue
				}
				day := t.Format("20060102")
				if spec.StartDate != "" && day < spec.StartDate {
					continue
				}
				if spec.EndDate != "" && day > spec.EndDate {
					continue
				}
				kept = append(kept, row)
			}
			df.Rows = kept
		}
	} else if spec.StartDate != "" || spec.EndDate != "" {
		warnings = append(warnings, `the date field "date" not mapped or available so date filtering was not applied`)
	}

	if len(df.Rows) == 0 {
		return nil, warnings, fmt.Errorf("%s: %w", groupName, ErrEmptyResult)
	}
	log.Printf("%s: after filtering %d rows", groupName, len(df.Rows))
	return &Group{Name: groupName, Data: df}, warnings, nil
}

func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
