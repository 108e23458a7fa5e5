package models

type AggregateKind string

const (
	AggregateFrequency    AggregateKind = "frequency"
	AggregateComponents   AggregateKind = "components"
	AggregatePaths        AggregateKind = "hierarchical_paths"
	AggregateNumericBins  AggregateKind = "numeric_bins"
	AggregateTimeSeries   AggregateKind = "time_series"
	GranularityDaily                    = "daily"
	GranularityWeekly                   = "weekly"
	GranularityMonthly                  = "monthly"
	GranularityYearly                   = "yearly"
)

type ValueCount struct {
	Value   string
	Count   float64
	Percent float64
}

// BucketPoint is one (label, count) pair of a time series at some granularity
type BucketPoint struct {
	Label string
	Count float64
}

type BucketSeries struct {
	Granularity string
	Points      []BucketPoint
}

// TemporalResult holds the four aligned granularity series of one group
type TemporalResult struct {
	Daily        []BucketPoint
	Weekly       []BucketPoint
	Monthly      []BucketPoint
	Yearly       []BucketPoint
	SamplesTotal int
	MissingDates int
	Percent      bool
}

type PathCount struct {
	Levels []string
	Count  int
}

// AggregateResult is the uniform output of every aggregation call.
// Counts holds the single-table case; GroupedCounts the cross-tab case where
// the grouping column was collapsed to top-N plus other(K).
type AggregateResult struct {
	Kind          AggregateKind
	Column        string
	Counts        []ValueCount
	GroupedCounts map[string][]ValueCount
	GroupOrder    []string
	Paths         []PathCount
	SamplesTotal  int
	Missing       int
	Categories    int
	Delimiter     string
	Percent       bool
}

type CorrelationResult struct {
	Coefficient float64
	PValue      float64
	N           int
}

// DashboardView is one chart slot of the analyze response: the aggregate
// data for group #1 (and optionally #2), a caption and a per-view error
type DashboardView struct {
	Key         string
	Group1      *AggregateResult
	Group2      *AggregateResult
	Temporal1   *TemporalResult
	Temporal2   *TemporalResult
	Correlation *CorrelationResult
	Caption     string
	Error       string
}

type DashboardResult struct {
	Views    map[string]*DashboardView
	Warnings []string
}

// UploadMetadata is the validation screen payload computed on load
type UploadMetadata struct {
	Rows            int
	Columns         []string
	ObservedCounts  map[string]int
	UniqueCounts    map[string]int
	MissingCounts   map[string]int
	MissingPercents map[string]string
	Warnings        []string
}
