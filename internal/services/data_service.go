package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jellydator/ttlcache/v3"

	"github.com/muhammad-o98/Bike-Accidents-GB/internal/analytics"
	"github.com/muhammad-o98/Bike-Accidents-GB/internal/cache"
	"github.com/muhammad-o98/Bike-Accidents-GB/internal/config"
	"github.com/muhammad-o98/Bike-Accidents-GB/internal/dataprocessing"
	apperrors "github.com/muhammad-o98/Bike-Accidents-GB/internal/errors"
	"github.com/muhammad-o98/Bike-Accidents-GB/pkg/contracts/domain"
)

// DataService owns the loaded dataset and serves every aggregation the
// API exposes. Results are memoized keyed by cache version, operation
// and filter, so repeated interactions over an unchanged cache never
// recompute.
type DataService struct {
	cfg    *config.Config
	logger *slog.Logger

	mu      sync.RWMutex
	dataset *analytics.Dataset

	memo *ttlcache.Cache[string, any]
}

// NewDataService creates a data service. Call Close when done to stop
// the memo janitor.
func NewDataService(cfg *config.Config, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}

	memo := ttlcache.New[string, any](
		ttlcache.WithTTL[string, any](cfg.Aggregates.MemoTTL),
		ttlcache.WithCapacity[string, any](cfg.Aggregates.MemoCapacity),
	)
	go memo.Start()

	return &DataService{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "data_service")),
		memo:   memo,
	}
}

// Close stops the memoization janitor.
func (s *DataService) Close() {
	s.memo.Stop()
}

// LoadDataset reads the processed cache into memory. Previously memoized
// results for an older cache version stay keyed separately and age out.
func (s *DataService) LoadDataset(ctx context.Context) error {
	version, err := cache.Version(s.cfg.Paths.CacheFile)
	if err != nil {
		return apperrors.ErrDataNotFound
	}

	records, err := cache.Read(s.cfg.Paths.CacheFile)
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	s.mu.Lock()
	s.dataset = analytics.NewDataset(records, version)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "dataset loaded",
		slog.Int("rows", len(records)),
		slog.String("version", version))
	return nil
}

// Refresh reloads the dataset when the cache file on disk has a newer
// version than the one in memory.
func (s *DataService) Refresh(ctx context.Context) error {
	version, err := cache.Version(s.cfg.Paths.CacheFile)
	if err != nil {
		return apperrors.ErrDataNotFound
	}

	s.mu.RLock()
	current := ""
	if s.dataset != nil {
		current = s.dataset.Version()
	}
	s.mu.RUnlock()

	if version == current {
		return nil
	}
	return s.LoadDataset(ctx)
}

// Loaded reports whether a dataset is in memory.
func (s *DataService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset != nil
}

// RowCount returns the number of rows in the loaded dataset.
func (s *DataService) RowCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return 0
	}
	return s.dataset.Len()
}

// Summary returns the KPI set for the filtered view.
func (s *DataService) Summary(ctx context.Context, filter domain.Filter) (domain.Summary, error) {
	return memoized(s, "summary", "", filter, func(ds *analytics.Dataset) (domain.Summary, error) {
		return analytics.Summarize(ds.Apply(filter)), nil
	})
}

// Timeseries returns accident counts bucketed by the requested granularity.
func (s *DataService) Timeseries(ctx context.Context, filter domain.Filter, granularity string) ([]domain.TimeseriesPoint, error) {
	g, err := analytics.ParseGranularity(granularity)
	if err != nil {
		return nil, apperrors.ErrValidation("granularity", err.Error())
	}
	return memoized(s, "timeseries", string(g), filter, func(ds *analytics.Dataset) ([]domain.TimeseriesPoint, error) {
		return analytics.Timeseries(ds.Apply(filter), g)
	})
}

// GroupCounts returns per-category counts for a groupable column.
func (s *DataService) GroupCounts(ctx context.Context, filter domain.Filter, column string) ([]domain.CategoryCount, error) {
	return memoized(s, "group_counts", column, filter, func(ds *analytics.Dataset) ([]domain.CategoryCount, error) {
		counts, err := analytics.GroupCounts(ds.Apply(filter), column)
		if err != nil {
			return nil, apperrors.ErrValidation("column", err.Error())
		}
		return counts, nil
	})
}

// SeverityBreakdown returns the severity mix per category of a column.
func (s *DataService) SeverityBreakdown(ctx context.Context, filter domain.Filter, column string) ([]domain.SeverityBreakdownRow, error) {
	return memoized(s, "severity_breakdown", column, filter, func(ds *analytics.Dataset) ([]domain.SeverityBreakdownRow, error) {
		rows, err := analytics.SeverityBreakdown(ds.Apply(filter), column)
		if err != nil {
			return nil, apperrors.ErrValidation("column", err.Error())
		}
		return rows, nil
	})
}

// FilterOptions returns the selectable filter values of the full dataset.
func (s *DataService) FilterOptions(ctx context.Context) (domain.FilterOptions, error) {
	return memoized(s, "filter_options", "", domain.Filter{}, func(ds *analytics.Dataset) (domain.FilterOptions, error) {
		return ds.FilterOptions(), nil
	})
}

// QualityReport returns the report written by the last pipeline run.
func (s *DataService) QualityReport(ctx context.Context) (*domain.QualityReport, error) {
	report, err := dataprocessing.ReadQualityReport(s.cfg.Paths.QualityFile)
	if err != nil {
		return nil, apperrors.ErrDataNotFound
	}
	return report, nil
}

// current returns the loaded dataset or the data-not-found error.
func (s *DataService) current() (*analytics.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return nil, apperrors.ErrDataNotFound
	}
	return s.dataset, nil
}

// memoized runs compute against the loaded dataset, caching the result
// under version|op|param|filter.
func memoized[T any](s *DataService, op, param string, filter domain.Filter, compute func(*analytics.Dataset) (T, error)) (T, error) {
	var zero T

	ds, err := s.current()
	if err != nil {
		return zero, err
	}

	key := fmt.Sprintf("%s|%s|%s|%s", ds.Version(), op, param, filter.Key())
	if item := s.memo.Get(key); item != nil {
		if value, ok := item.Value().(T); ok {
			return value, nil
		}
	}

	value, err := compute(ds)
	if err != nil {
		return zero, err
	}
	s.memo.Set(key, value, ttlcache.DefaultTTL)
	return value, nil
}
