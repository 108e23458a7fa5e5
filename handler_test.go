package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func dashboardDataset() *Dataset {
	columns := []string{
		"date", "geoloc_id", "gender", "age", "source_type", "source_site",
		"primary_type", "secondary_type", "genetic_profile", "phenotypic_profile",
		"cluster_id", "investigation_id", "hierarchical_subtype",
	}
	ds := NewDataset(columns)
	rows := []map[string]interface{}{
		{
			"date": "2021-01-15", "geoloc_id": "Canada", "gender": "male", "age": "34",
			"source_type": "human", "source_site": "hospital A", "primary_type": "1:4",
			"secondary_type": "ser1", "genetic_profile": "geneA|geneB", "phenotypic_profile": "A:B:C",
			"cluster_id": "C1", "investigation_id": "I1", "hierarchical_subtype": "1|1.1",
		},
		{
			"date": "2021-02-10", "geoloc_id": "Canada", "gender": "female", "age": "7",
			"source_type": "human", "source_site": "hospital B", "primary_type": "1:4",
			"secondary_type": "ser1", "genetic_profile": "geneA", "phenotypic_profile": "A:B:C",
			"cluster_id": "C1", "investigation_id": "I1", "hierarchical_subtype": "1|1.2",
		},
		{
			"date": "2021-03-01", "geoloc_id": "USA", "gender": "male", "age": "52",
			"source_type": "food", "source_site": "plant", "primary_type": "4,[5],12",
			"secondary_type": "ser2", "genetic_profile": "geneB", "phenotypic_profile": "D:E:F",
			"cluster_id": "C2", "investigation_id": "I2", "hierarchical_subtype": "2|2.1",
		},
		{
			"date": "2021-03-03", "geoloc_id": "USA", "gender": "female", "age": "61",
			"source_type": "food", "source_site": "plant", "primary_type": "4,[5],12",
			"secondary_type": "ser2", "genetic_profile": "geneA|geneC", "phenotypic_profile": "D:E:F",
			"cluster_id": "C2", "investigation_id": "I2", "hierarchical_subtype": "2|2.1",
		},
		{
			"date": nil, "geoloc_id": "Mexico", "gender": nil, "age": nil,
			"source_type": "environment", "source_site": "river", "primary_type": nil,
			"secondary_type": "ser3", "genetic_profile": "-:-:-", "phenotypic_profile": "0",
			"cluster_id": nil, "investigation_id": nil, "hierarchical_subtype": nil,
		},
	}
	ds.Rows = rows
	return ds
}

func TestBuildDashboardAllViews(t *testing.T) {
	ds := dashboardDataset()
	result, err := buildDashboard(ds, &AnalyzeRequest{})
	assert.NoError(t, err)
	assert.Len(t, result.Views, 15)

	for key, view := range result.Views {
		assert.Empty(t, view.Error, key)
	}

	geoloc := result.Views[viewGeoloc]
	assert.Equal(t, 5, geoloc.Group1.SamplesTotal)
	assert.Contains(t, geoloc.Caption, "'geoloc_id'")

	sunburst := result.Views[viewSunburst]
	assert.NotEmpty(t, sunburst.Group1.Paths)

	epi := result.Views[viewEpiCurve]
	assert.Len(t, epi.Temporal1.Weekly, 53)
	assert.Equal(t, 1, epi.Temporal1.MissingDates)
}

func TestBuildDashboardDoesNotTouchSource(t *testing.T) {
	ds := dashboardDataset()
	_, err := buildDashboard(ds, &AnalyzeRequest{})
	assert.NoError(t, err)
	// hierarchy expansion and bucketing happen on a copy
	assert.False(t, ds.HasColumn("hs_level_0"))
	assert.Equal(t, "2021-01-15", ds.Rows[0]["date"])
}

func TestBuildDashboardTwoGroups(t *testing.T) {
	ds := dashboardDataset()
	req := &AnalyzeRequest{
		DataFilters: map[string]string{
			"select_geoloc_id_filterset1": "Canada",
			"select_geoloc_id_filterset2": "USA",
		},
	}
	result, err := buildDashboard(ds, req)
	assert.NoError(t, err)

	gender := result.Views[viewGender]
	assert.NotNil(t, gender.Group2)
	assert.Contains(t, gender.Caption, "Group #2")

	age := result.Views[viewAge]
	assert.NotNil(t, age.Group2)
	assert.NotNil(t, age.Correlation)
	assert.Contains(t, age.Caption, "Pearson correlation coefficient")

	epi := result.Views[viewEpiCurve]
	assert.NotNil(t, epi.Temporal2)
	assert.NotNil(t, epi.Correlation)

	// sunburst renders group #1 only
	assert.Nil(t, result.Views[viewSunburst].Group2)
}

func TestBuildDashboardEmptyGroupFails(t *testing.T) {
	ds := dashboardDataset()
	req := &AnalyzeRequest{
		DataFilters: map[string]string{
			"select_geoloc_id_filterset2": "Atlantis",
		},
	}
	_, err := buildDashboard(ds, req)
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestBuildDashboardGroupBy(t *testing.T) {
	ds := dashboardDataset()
	result, err := buildDashboard(ds, &AnalyzeRequest{GroupBy: "geoloc_id"})
	assert.NoError(t, err)

	gender := result.Views[viewGender]
	assert.NotEmpty(t, gender.Group1.GroupOrder)
	assert.Contains(t, gender.Group1.GroupOrder, "Canada")
	assert.NotEmpty(t, gender.Group1.GroupedCounts["Canada"])
}

func TestBuildDashboardGroupByIgnoredWithTwoGroups(t *testing.T) {
	ds := dashboardDataset()
	req := &AnalyzeRequest{
		GroupBy: "geoloc_id",
		DataFilters: map[string]string{
			"select_source_type_filterset1": "human",
			"select_source_type_filterset2": "food",
		},
	}
	result, err := buildDashboard(ds, req)
	assert.NoError(t, err)
	gender := result.Views[viewGender]
	assert.Empty(t, gender.Group1.GroupOrder)
	assert.NotNil(t, gender.Group2)
}

func TestBuildDashboardFieldMapping(t *testing.T) {
	ds := NewDataset([]string{"country", "collection_date"})
	ds.Rows = []map[string]interface{}{
		{"country": "Canada", "collection_date": "2021-01-15"},
		{"country": "USA", "collection_date": "2021-02-10"},
	}
	req := &AnalyzeRequest{
		FieldMapping: map[string]string{
			"geoloc_id": "country",
			"date":      "collection_date",
		},
	}
	result, err := buildDashboard(ds, req)
	assert.NoError(t, err)
	geoloc := result.Views[viewGeoloc]
	assert.Empty(t, geoloc.Error)
	assert.Equal(t, 2, geoloc.Group1.SamplesTotal)
	// unmapped fields fail per view without failing the request
	assert.NotEmpty(t, result.Views[viewAge].Error)
}
