package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/muhammad-o98/Bike-Accidents-GB/internal/analytics"
	"github.com/muhammad-o98/Bike-Accidents-GB/internal/cache"
	"github.com/muhammad-o98/Bike-Accidents-GB/internal/charts"
	"github.com/muhammad-o98/Bike-Accidents-GB/internal/config"
	"github.com/muhammad-o98/Bike-Accidents-GB/internal/exporter"
	"github.com/muhammad-o98/Bike-Accidents-GB/pkg/contracts/domain"
)

// Pipeline runs the full batch: load both CSVs, merge, derive features,
// persist the cache and quality report, then render charts and exports
// when enabled.
type Pipeline struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewPipeline creates a pipeline bound to the given configuration.
func NewPipeline(cfg *config.Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "pipeline")),
	}
}

// Result describes one pipeline run.
type Result struct {
	Rows     int
	Skipped  bool
	Quality  *domain.QualityReport
	Duration time.Duration
}

// Run executes the batch. When force is false and the cache is newer
// than both inputs, the run is skipped entirely. The context is checked
// between stages so a shutdown never leaves a half-written cache; the
// cache file itself is replaced atomically.
func (p *Pipeline) Run(ctx context.Context, force bool) (*Result, error) {
	start := time.Now()

	if err := p.cfg.Paths.EnsureDirectories(); err != nil {
		return nil, err
	}

	if !force && cache.Fresh(p.cfg.Paths.CacheFile, p.cfg.Paths.InputFiles()...) {
		p.logger.Info("cache is fresh, skipping run",
			slog.String("cache", p.cfg.Paths.CacheFile))
		return &Result{Skipped: true, Duration: time.Since(start)}, nil
	}

	accidents, err := LoadAccidents(p.cfg.Paths.AccidentsFile)
	if err != nil {
		return nil, err
	}
	casualties, err := LoadCasualties(p.cfg.Paths.BikersFile)
	if err != nil {
		return nil, err
	}
	p.logger.Info("inputs loaded",
		slog.Int("accidents", len(accidents)),
		slog.Int("casualties", len(casualties)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged, err := Merge(accidents, casualties)
	if err != nil {
		return nil, err
	}

	transformer := NewTransformer(p.logger, Options{
		RareThreshold: p.cfg.Pipeline.RareCategoryThreshold,
		OtherLabel:    domain.OtherCategory,
	})
	records, report, err := transformer.Transform(merged)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := cache.Write(p.cfg.Paths.CacheFile, records); err != nil {
		return nil, fmt.Errorf("failed to write cache: %w", err)
	}
	if err := WriteQualityReport(p.cfg.Paths.QualityFile, report); err != nil {
		return nil, err
	}

	if err := p.writeArtifacts(ctx, records); err != nil {
		return nil, err
	}

	result := &Result{
		Rows:     len(records),
		Quality:  report,
		Duration: time.Since(start),
	}
	p.logger.Info("pipeline run complete",
		slog.Int("rows", result.Rows),
		slog.Int("defects", report.Defects()),
		slog.Duration("duration", result.Duration))
	return result, nil
}

// writeArtifacts renders the optional chart and export outputs from the
// freshly built table.
func (p *Pipeline) writeArtifacts(ctx context.Context, records []domain.EnrichedRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	version, err := cache.Version(p.cfg.Paths.CacheFile)
	if err != nil {
		return err
	}
	dataset := analytics.NewDataset(records, version)
	view := dataset.Apply(domain.Filter{})

	if p.cfg.Pipeline.Charts {
		renderer := charts.NewRenderer(p.logger, p.cfg.Paths.ChartsDir)
		if err := renderer.RenderAll(dataset); err != nil {
			return err
		}
	}

	if p.cfg.Pipeline.CSVExport {
		writer := exporter.NewCSVWriter(p.logger, p.cfg.Paths.ExportsDir)
		if err := writer.WriteEnriched("bicycle_accidents.csv", records); err != nil {
			return err
		}
	}

	if p.cfg.Pipeline.ExcelReport {
		years, err := analytics.Timeseries(view, analytics.GranularityYear)
		if err != nil {
			return err
		}
		severities, err := analytics.GroupCounts(view, domain.ColumnSeverity)
		if err != nil {
			return err
		}
		writer := exporter.NewExcelWriter(p.logger, p.cfg.Paths.ExportsDir)
		if err := writer.WriteSummary("summary.xlsx", analytics.Summarize(view), years, severities); err != nil {
			return err
		}
	}

	return nil
}
