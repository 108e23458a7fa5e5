// filter_parser.go
package main

import (
	"regexp"
	"strings"
)

// flatFilterFields are the nine fixed semantic fields selectable in the
// group filter panels; hierarchy levels are discovered dynamically.
var flatFilterFields = []string{
	"primary_type",
	"secondary_type",
	"genetic_profile",
	"phenotypic_profile",
	"cluster_id",
	"investigation_id",
	"source_site",
	"source_type",
	"geoloc_id",
}

// FilterSpec is the normalized form of one filter set. An empty value list
// means the field is unconstrained, never "matches nothing".
type FilterSpec struct {
	Fields    map[string][]string // flat field -> accepted values
	Hierarchy map[string][]string // hs_level_N column -> accepted values
	StartDate string              // YYYYMMDD or empty
	EndDate   string              // YYYYMMDD or empty
}

func (s *FilterSpec) IsEmpty() bool {
	for _, values := range s.Fields {
		if len(values) > 0 {
			return false
		}
	}
	if len(s.Hierarchy) > 0 {
		return false
	}
	return s.StartDate == "" && s.EndDate == ""
}

var hsLevelKeyRe = regexp.MustCompile(`^select_(hs_level_\d+)_genotype_hierarchy_groups_`)

// parseFilterSpec extracts one filter set from the flat form criteria
// submitted by the front end. Multiple selections of the same field arrive
// as multiple keys sharing a prefix (select_<field>_<tag>, select_<field>_<tag>_2, ...).
// Unrecognized keys are ignored so new UI controls never break parsing.
func parseFilterSpec(form map[string]string, setName string) *FilterSpec {
	spec := &FilterSpec{
		Fields:    map[string][]string{},
		Hierarchy: map[string][]string{},
	}
	for _, field := range flatFilterFields {
		spec.Fields[field] = []string{}
	}

	for formKey, value := range form {
		if !strings.Contains(formKey, setName) {
			continue
		}
		if m := hsLevelKeyRe.FindStringSubmatch(formKey); m != nil {
			column := m[1]
			spec.Hierarchy[column] = append(spec.Hierarchy[column], value)
			continue
		}
		if strings.HasPrefix(formKey, "start_date_"+setName) {
			spec.StartDate = strings.ReplaceAll(value, "-", "")
			continue
		}
		if strings.HasPrefix(formKey, "end_date_"+setName) {
			spec.EndDate = strings.ReplaceAll(value, "-", "")
			continue
		}
		for _, field := range flatFilterFields {
			if strings.HasPrefix(formKey, "select_"+field+"_"+setName) {
				spec.Fields[field] = append(spec.Fields[field], value)
				break
			}
		}
	}
	return spec
}

// hasFilterSet reports whether any submitted criterion belongs to the named
// filter set, used to decide whether a group #2 subset was requested.
func hasFilterSet(form map[string]string, setName string) bool {
	for key := range form {
		if strings.Contains(key, setName) {
			return true
		}
	}
	return false
}
