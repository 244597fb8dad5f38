package http

import (
	"context"

	"github.com/muhammad-o98/Bike-Accidents-GB/pkg/contracts/domain"
)

// DataServiceInterface is the surface the data handler needs from the
// data service. Narrowed to an interface so handler tests can stub it.
type DataServiceInterface interface {
	Summary(ctx context.Context, filter domain.Filter) (domain.Summary, error)
	Timeseries(ctx context.Context, filter domain.Filter, granularity string) ([]domain.TimeseriesPoint, error)
	GroupCounts(ctx context.Context, filter domain.Filter, column string) ([]domain.CategoryCount, error)
	SeverityBreakdown(ctx context.Context, filter domain.Filter, column string) ([]domain.SeverityBreakdownRow, error)
	FilterOptions(ctx context.Context) (domain.FilterOptions, error)
	QualityReport(ctx context.Context) (*domain.QualityReport, error)
}
