// Package exporter writes the downloadable artifacts produced after a
// pipeline run: the flat CSV of the enriched table, aggregate CSVs and
// the Excel summary workbook.
package exporter
