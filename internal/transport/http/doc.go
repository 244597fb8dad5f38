// Package http contains the chi handlers for the dashboard API:
// filtered aggregations under /api/data and the health endpoints.
// Errors render as RFC 7807 problem documents.
package http
