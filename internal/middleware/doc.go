// Package middleware provides the HTTP middleware chain: request IDs,
// structured request logging, panic recovery, CORS, rate limiting,
// security headers and Prometheus instrumentation.
package middleware
