package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func repeatValues(spec map[string]int) []interface{} {
	values := []interface{}{}
	for v, n := range spec {
		for i := 0; i < n; i++ {
			values = append(values, v)
		}
	}
	return values
}

func TestCollapseCategoryUnderCap(t *testing.T) {
	values := repeatValues(map[string]int{"cherry": 3, "apple": 5, "banana": 1})
	selected, other := collapseCategory(values, 10)
	assert.Equal(t, []string{"apple", "banana", "cherry"}, selected)
	assert.Equal(t, "", other)
}

func TestCollapseCategoryOverCap(t *testing.T) {
	values := repeatValues(map[string]int{
		"apple": 5, "banana": 4, "cherry": 3, "date": 2, "elderberry": 1,
	})
	selected, other := collapseCategory(values, 3)
	// top 3 by frequency, shown in natural order
	assert.Equal(t, []string{"apple", "banana", "cherry"}, selected)
	assert.Equal(t, "other(2)", other)
}

func TestCollapseCategoryTieBreak(t *testing.T) {
	values := repeatValues(map[string]int{"b": 2, "a": 2, "c": 2})
	selected, other := collapseCategory(values, 2)
	assert.Equal(t, []string{"a", "b"}, selected)
	assert.Equal(t, "other(1)", other)
}

func TestCollapseCategorySkipsMissing(t *testing.T) {
	values := []interface{}{"x", nil, "", "  ", "y"}
	selected, other := collapseCategory(values, 10)
	assert.Equal(t, []string{"x", "y"}, selected)
	assert.Equal(t, "", other)
}

func TestCollapseColumnRewritesTail(t *testing.T) {
	ds := NewDataset([]string{"lineage"})
	for _, v := range []interface{}{"a", "a", "a", "b", "b", "c", "d", nil} {
		ds.Rows = append(ds.Rows, map[string]interface{}{"lineage": v})
	}
	order := collapseColumn(ds, "lineage", 2)
	assert.Equal(t, []string{"a", "b", "other(2)"}, order)

	otherCount := 0
	for _, row := range ds.Rows {
		if row["lineage"] == "other(2)" {
			otherCount++
		}
	}
	// c and d rows were rewritten, the missing cell stays missing
	assert.Equal(t, 2, otherCount)
	assert.Nil(t, ds.Rows[7]["lineage"])
}
