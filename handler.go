// handler.go
package main

import (
	"fmt"
	"log"

	"github.com/epivizor/linelist_analyzer/config"
	"github.com/epivizor/linelist_analyzer/domain/models"
)

// AnalyzeRequest carries one decoded dashboard request: display options,
// the raw filter criteria of both filter sets and the validation screen
// field mapping.
type AnalyzeRequest struct {
	DataFilters  map[string]string
	FieldMapping map[string]string
	GroupBy      string
	Percent      bool
	Delimiter    string
}

// chart slots of one dashboard response, keyed the way the front end
// addresses its figure placeholders
const (
	viewGeoloc          = "geoloc_chart"
	viewAge             = "age_distribution_chart"
	viewGender          = "gender_distribution_chart"
	viewSourceType      = "sample_source_type_distribution_chart"
	viewSourceSite      = "sample_source_site_distribution_chart"
	viewEpiCurve        = "sample_accum_plot"
	viewPrimaryType     = "primary_type_chart"
	viewSecondaryType   = "secondary_type_chart"
	viewGeneticProfile  = "genetic_profile_bar_chart"
	viewGeneticComp     = "genetic_components_bar_chart"
	viewPhenoProfile    = "phenotypic_profile_bar_chart"
	viewPhenoComp       = "phenotypic_components_bar_chart"
	viewSunburst        = "hierarchy_of_clusters_sunburst_chart"
	viewClusterID       = "clusterid_codes_distribution_chart"
	viewInvestigationID = "investigationid_codes_distribution_chart"
)

// buildDashboard runs the full aggregation pass: optional field mapping and
// hierarchy expansion, group #1 (and optionally #2) filtering, then every
// chart view. Views fail independently; only an empty group #1 or #2 aborts
// the whole pass since there is nothing left to aggregate over.
func buildDashboard(source *Dataset, req *AnalyzeRequest) (*models.DashboardResult, error) {
	cfg := config.GetConfig()
	if req.Delimiter == "" {
		req.Delimiter = cfg.DelimiterSymbol
	}

	ds := source.Copy()
	result := &models.DashboardResult{Views: map[string]*models.DashboardView{}}

	if len(req.FieldMapping) > 0 {
		result.Warnings = append(result.Warnings, ds.ApplyFieldMapping(req.FieldMapping)...)
	}
	if ds.HasColumn("hierarchical_subtype") {
		if err := ds.ExpandHierarchicalSubtype(req.Delimiter); err != nil {
			result.Warnings = append(result.Warnings, err.Error())
		}
	}

	var group1, group2 *Group
	if hasFilterSet(req.DataFilters, "filterset2") {
		log.Println("second set of filters were selected")
		spec2 := parseFilterSpec(req.DataFilters, "filterset2")
		g2, warnings, err := applyFilter(spec2, ds, "Group #2")
		result.Warnings = append(result.Warnings, warnings...)
		if err != nil {
			return nil, fmt.Errorf("group #2 filter application: %w", err)
		}
		group2 = g2
	}
	if hasFilterSet(req.DataFilters, "filterset1") {
		spec1 := parseFilterSpec(req.DataFilters, "filterset1")
		g1, warnings, err := applyFilter(spec1, ds, "Group #1")
		result.Warnings = append(result.Warnings, warnings...)
		if err != nil {
			return nil, fmt.Errorf("group #1 filter application: %w", err)
		}
		group1 = g1
	} else {
		group1 = &Group{Name: "Group #1", Data: ds}
	}

	// group-by traces and the group #2 comparison are mutually exclusive,
	// the comparison wins
	groupBy := req.GroupBy
	if group2 != nil {
		groupBy = ""
	}

	log.Printf("started rendering views on %d cases", len(group1.Data.Rows))

	frequencyViews := []struct {
		key    string
		column string
	}{
		{viewGeoloc, "geoloc_id"},
		{viewGender, "gender"},
		{viewSourceType, "source_type"},
		{viewSourceSite, "source_site"},
		{viewPrimaryType, "primary_type"},
		{viewSecondaryType, "secondary_type"},
		{viewGeneticProfile, "genetic_profile"},
		{viewPhenoProfile, "phenotypic_profile"},
		{viewClusterID, "cluster_id"},
		{viewInvestigationID, "investigation_id"},
	}
	for _, fv := range frequencyViews {
		result.Views[fv.key] = frequencyView(fv.key, fv.column, group1, group2, groupBy, req.Percent, cfg.CategoryCap)
	}

	result.Views[viewGeneticComp] = componentsView(viewGeneticComp, "genetic_profile", group1, group2, groupBy, req, cfg.CategoryCap)
	result.Views[viewPhenoComp] = componentsView(viewPhenoComp, "phenotypic_profile", group1, group2, groupBy, req, cfg.CategoryCap)
	result.Views[viewAge] = ageView(group1, group2, req.Percent)
	result.Views[viewEpiCurve] = epiCurveView(group1, group2, req.Percent)
	result.Views[viewSunburst] = sunburstView(group1, req.Delimiter, cfg.MaxPathsRendered)

	for key, view := range result.Views {
		if view.Error != "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %s", key, view.Error))
		}
	}
	return result, nil
}

func frequencyView(key, column string, group1, group2 *Group, groupBy string, percent bool, cap int) *models.DashboardView {
	view := &models.DashboardView{Key: key}

	r1, err := aggregateFrequency(group1.Data.Copy(), column, groupBy, cap, percent)
	if err != nil {
		view.Error = err.Error()
		return view
	}
	view.Group1 = r1
	view.Caption = captionFrequency(r1)

	if group2 == nil {
		return view
	}
	r2, err := aggregateFrequency(group2.Data.Copy(), column, "", cap, percent)
	if err != nil {
		view.Error = err.Error()
		return view
	}
	view.Group2 = r2
	view.Caption = captionFrequencyTwoGroups(r1, r2)
	if corr, err := correlateCounts(r1.Counts, r2.Counts); err == nil {
		view.Correlation = corr
		view.Caption = captionCorrelation(view.Caption, corr)
	}
	return view
}

func componentsView(key, column string, group1, group2 *Group, groupBy string, req *AnalyzeRequest, cap int) *models.DashboardView {
	view := &models.DashboardView{Key: key}

	r1, err := aggregateComponents(group1.Data.Copy(), column, req.Delimiter, groupBy, cap, req.Percent)
	if err != nil {
		view.Error = err.Error()
		return view
	}
	view.Group1 = r1
	view.Caption = captionComponents(r1)

	if group2 == nil {
		return view
	}
	r2, err := aggregateComponents(group2.Data.Copy(), column, req.Delimiter, "", cap, req.Percent)
	if err != nil {
		view.Error = err.Error()
		return view
	}
	view.Group2 = r2
	view.Caption = captionComponentsTwoGroups(r1, r2)
	if corr, err := correlateCounts(r1.Counts, r2.Counts); err == nil {
		view.Correlation = corr
		view.Caption = captionCorrelation(view.Caption, corr)
	}
	return view
}

func ageView(group1, group2 *Group, percent bool) *models.DashboardView {
	view := &models.DashboardView{Key: viewAge}

	r1, err := aggregateAgeBins(group1.Data.Copy(), percent)
	if err != nil {
		view.Error = err.Error()
		return view
	}
	view.Group1 = r1
	view.Caption = captionAge(r1)

	if group2 == nil {
		return view
	}
	r2, err := aggregateAgeBins(group2.Data.Copy(), percent)
	if err != nil {
		view.Error = err.Error()
		return view
	}
	view.Group2 = r2
	view.Caption = captionAgeTwoGroups(r1, r2)
	if corr, err := correlateCounts(r1.Counts, r2.Counts); err == nil {
		view.Correlation = corr
		view.Caption = captionCorrelation(view.Caption, corr)
	}
	return view
}

func epiCurveView(group1, group2 *Group, percent bool) *models.DashboardView {
	view := &models.DashboardView{Key: viewEpiCurve}

	t1, err := bucketTemporal(group1.Data.Copy(), "date", percent)
	if err != nil {
		view.Error = err.Error()
		return view
	}
	view.Temporal1 = t1
	view.Caption = captionTemporal(t1)

	if group2 == nil {
		return view
	}
	t2, err := bucketTemporal(group2.Data.Copy(), "date", percent)
	if err != nil {
		view.Error = err.Error()
		return view
	}
	view.Temporal2 = t2
	view.Caption = captionTemporalTwoGroups(t1, t2)
	if corr, err := correlatePoints(t1.Daily, t2.Daily); err == nil {
		view.Correlation = corr
		view.Caption = captionCorrelation(view.Caption, corr)
	}
	return view
}

func sunburstView(group1 *Group, delimiter string, maxPaths int) *models.DashboardView {
	view := &models.DashboardView{Key: viewSunburst}

	r1, err := aggregatePaths(group1.Data, maxPaths)
	if err != nil {
		view.Error = err.Error()
		return view
	}
	if len(r1.Paths) == 0 {
		view.Error = "empty result after filtering of missing data samples, check data completeness"
		return view
	}
	view.Group1 = r1
	view.Caption = captionPaths(r1, delimiter, len(r1.Paths))
	return view
}
