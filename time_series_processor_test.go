package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func dateDataset(dates ...interface{}) *Dataset {
	ds := NewDataset([]string{"date"})
	for _, d := range dates {
		ds.Rows = append(ds.Rows, map[string]interface{}{"date": d})
	}
	return ds
}

func TestBucketTemporalDenseWeeklyGrid(t *testing.T) {
	ds := dateDataset("2021-01-15", "2021-03-01", "2021-03-03", nil)
	result, err := bucketTemporal(ds, "date", false)
	assert.NoError(t, err)
	assert.Equal(t, 3, result.SamplesTotal)
	assert.Equal(t, 1, result.MissingDates)

	// one calendar year gives exactly 53 weekly buckets, gap free
	assert.Len(t, result.Weekly, 53)
	assert.Equal(t, "2021/01", result.Weekly[0].Label)
	assert.Equal(t, "2021/53", result.Weekly[52].Label)

	byLabel := map[string]float64{}
	for _, p := range result.Weekly {
		byLabel[p.Label] = p.Count
	}
	assert.Equal(t, 1.0, byLabel["2021/02"]) // Jan 15
	assert.Equal(t, 2.0, byLabel["2021/09"]) // Mar 1 and Mar 3
	assert.Equal(t, 0.0, byLabel["2021/05"])
}

func TestBucketTemporalDecember31StaysInOwnYear(t *testing.T) {
	// ISO-8601 pushes late December dates into week 1 of the next year,
	// the epi curve keeps them in week 53 of their calendar year instead
	ds := dateDataset("2019-12-31")
	result, err := bucketTemporal(ds, "date", false)
	assert.NoError(t, err)
	assert.Len(t, result.Weekly, 53)
	assert.Equal(t, "2019/53", result.Weekly[52].Label)
	assert.Equal(t, 1.0, result.Weekly[52].Count)
	for _, p := range result.Weekly[:52] {
		assert.Equal(t, 0.0, p.Count)
	}
}

func TestBucketTemporalMonthlyAndYearly(t *testing.T) {
	ds := dateDataset("2020-11-05", "2021-02-10", "2021-02-20")
	result, err := bucketTemporal(ds, "date", false)
	assert.NoError(t, err)

	// two years span: 24 dense monthly buckets, 2 yearly
	assert.Len(t, result.Monthly, 24)
	assert.Equal(t, "2020/1", result.Monthly[0].Label)
	assert.Equal(t, "2021/12", result.Monthly[23].Label)
	byLabel := map[string]float64{}
	for _, p := range result.Monthly {
		byLabel[p.Label] = p.Count
	}
	assert.Equal(t, 1.0, byLabel["2020/11"])
	assert.Equal(t, 2.0, byLabel["2021/2"])

	assert.Equal(t, []string{"2020", "2021"}, []string{result.Yearly[0].Label, result.Yearly[1].Label})
	assert.Equal(t, 1.0, result.Yearly[0].Count)
	assert.Equal(t, 2.0, result.Yearly[1].Count)
}

func TestBucketTemporalDailyIsSparseWeekAnchors(t *testing.T) {
	// Jan 13 and Jan 15 2021 share the ISO week starting Monday Jan 11
	ds := dateDataset("2021-01-13", "2021-01-15", "2021-02-02")
	result, err := bucketTemporal(ds, "date", false)
	assert.NoError(t, err)
	assert.Len(t, result.Daily, 2)
	assert.Equal(t, "2021-01-11", result.Daily[0].Label)
	assert.Equal(t, 2.0, result.Daily[0].Count)
	assert.Equal(t, "2021-02-01", result.Daily[1].Label)
	assert.Equal(t, 1.0, result.Daily[1].Count)
}

func TestBucketTemporalPercent(t *testing.T) {
	ds := dateDataset("2021-01-15", "2021-01-15", "2021-03-01", "2021-03-03")
	result, err := bucketTemporal(ds, "date", true)
	assert.NoError(t, err)

	total := 0.0
	for _, p := range result.Weekly {
		total += p.Count
	}
	assert.InDelta(t, 100.0, total, 1e-9)

	byLabel := map[string]float64{}
	for _, p := range result.Weekly {
		byLabel[p.Label] = p.Count
	}
	assert.InDelta(t, 50.0, byLabel["2021/02"], 1e-9)
}

func TestBucketTemporalNoParsableDates(t *testing.T) {
	ds := dateDataset(nil, "not a date")
	_, err := bucketTemporal(ds, "date", false)
	assert.Error(t, err)
}

func TestBucketTemporalMissingColumn(t *testing.T) {
	ds := NewDataset([]string{"geoloc_id"})
	ds.Rows = append(ds.Rows, map[string]interface{}{"geoloc_id": "Canada"})
	_, err := bucketTemporal(ds, "date", false)
	assert.True(t, IsMissingColumn(err))
}
