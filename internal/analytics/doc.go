// Package analytics computes the filtered aggregations the dashboard
// displays: KPI summaries, time series buckets and category counts.
// Everything operates on an explicit Dataset passed by the caller, and
// every aggregation is a pure function of its view, which makes results
// safe to memoize at the service boundary keyed by filter and cache
// version.
package analytics
