// Package cache persists the enriched accident table as a single columnar
// Parquet file. The cache is the only durable artifact of a pipeline run:
// it is rewritten whole (atomically) each batch and read-only for the web
// process, which treats it as immutable for the life of a session.
package cache
