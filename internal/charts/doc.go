// Package charts renders the static PNG overview charts written next to
// the processed cache after each pipeline run.
package charts
