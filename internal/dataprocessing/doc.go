// Package dataprocessing implements the batch pipeline that turns the
// two raw CSV exports into the enriched analytical table: typed loading
// with schema validation, the inner join on Accident_Index, feature
// derivation with sentineled defects, rare-category bucketing and the
// persisted data-quality report.
package dataprocessing
