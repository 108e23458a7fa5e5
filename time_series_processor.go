// time_series_processor.go
package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/epivizor/linelist_analyzer/domain/models"
)

// bucketTemporal converts a date-valued column into the four epi curve
// series. Rows whose date cannot be parsed are excluded from bucketing and
// reported via MissingDates.
//
// The "daily" view is the sparse per-occurrence series of ISO week start
// dates, one point per week that has samples. Weekly, monthly and yearly
// series are dense calendar grids over [minYear, maxYear] with zero fill so
// that two independently filtered groups can be compared positionally.
func bucketTemporal(ds *Dataset, column string, percent bool) (*models.TemporalResult, error) {
	if !ds.HasColumn(column) {
		return nil, &MissingColumnError{Column: column}
	}

	dailyCounts := map[time.Time]float64{}
	weekCounts := map[string]float64{}
	monthCounts := map[string]float64{}
	yearCounts := map[string]float64{}
	minYear, maxYear := 0, 0
	parsed, missing := 0, 0

	for _, row := range ds.Rows {
		t, ok := parseDateValue(row[column])
		if !ok {
			missing++
			continue
		}
		parsed++

		dailyCounts[weekStart(t)]++

		year := t.Year()
		_, week := t.ISOWeek()
		// ISO assigns week 1 of the next year to December 31st dates,
		// force those back into week 53 of their own year
		if t.Day() == 31 && t.Month() == time.December {
			week = 53
		}
		weekCounts[weekLabel(year, week)]++
		monthCounts[monthLabel(year, int(t.Month()))]++
		yearCounts[yearLabel(year)]++

		if minYear == 0 || year < minYear {
			minYear = year
		}
		if year > maxYear {
			maxYear = year
		}
	}

	if parsed == 0 {
		return nil, fmt.Errorf("no parsable dates in column %q", column)
	}

	result := &models.TemporalResult{
		SamplesTotal: parsed,
		MissingDates: missing,
		Percent:      percent,
	}

	// daily: sparse, sorted by week start date
	anchors := make([]time.Time, 0, len(dailyCounts))
	for anchor := range dailyCounts {
		anchors = append(anchors, anchor)
	}
	sort.Slice(anchors, func(i, j int) bool { return anchors[i].Before(anchors[j]) })
	for _, anchor := range anchors {
		result.Daily = append(result.Daily, models.BucketPoint{
			Label: anchor.Format("2006-01-02"),
			Count: dailyCounts[anchor],
		})
	}

	// dense grids, zero filled
	for year := minYear; year <= maxYear; year++ {
		for week := 1; week <= 53; week++ {
			label := weekLabel(year, week)
			result.Weekly = append(result.Weekly, models.BucketPoint{Label: label, Count: weekCounts[label]})
		}
	}
	for year := minYear; year <= maxYear; year++ {
		for month := 1; month <= 12; month++ {
			label := monthLabel(year, month)
			result.Monthly = append(result.Monthly, models.BucketPoint{Label: label, Count: monthCounts[label]})
		}
	}
	for year := minYear; year <= maxYear; year++ {
		label := yearLabel(year)
		result.Yearly = append(result.Yearly, models.BucketPoint{Label: label, Count: yearCounts[label]})
	}

	if percent {
		normalizeSeries(result.Daily)
		normalizeSeries(result.Weekly)
		normalizeSeries(result.Monthly)
		normalizeSeries(result.Yearly)
	}
	return result, nil
}

// weekStart returns the Monday starting the ISO week of t
func weekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	wd := int(day.Weekday())
	if wd == 0 {
		wd = 7
	}
	return day.AddDate(0, 0, -(wd - 1))
}

// weekLabel zero-pads weeks below 10 so labels sort correctly as strings
func weekLabel(year, week int) string {
	return fmt.Sprintf("%d/%02d", year, week)
}

func monthLabel(year, month int) string {
	return fmt.Sprintf("%d/%d", year, month)
}

func yearLabel(year int) string {
	return fmt.Sprintf("%d", year)
}

func normalizeSeries(points []models.BucketPoint) {
	total := 0.0
	for _, p := range points {
		total += p.Count
	}
	if total == 0 {
		return
	}
	for i := range points {
		points[i].Count = points[i].Count / total * 100
	}
}
