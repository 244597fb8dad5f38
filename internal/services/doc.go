// Package services contains the business logic between the HTTP
// transport and the analytics core: dataset lifecycle, memoized
// aggregation access and health reporting.
package services
