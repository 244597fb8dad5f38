package charts

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/muhammad-o98/Bike-Accidents-GB/internal/analytics"
	"github.com/muhammad-o98/Bike-Accidents-GB/pkg/contracts/domain"
)

const (
	chartWidth  = 1024
	chartHeight = 512
)

// Renderer writes the static overview charts the pipeline produces after
// every batch run.
type Renderer struct {
	logger *slog.Logger
	dir    string
}

// NewRenderer creates a renderer targeting dir.
func NewRenderer(logger *slog.Logger, dir string) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		logger: logger.With(slog.String("component", "charts")),
		dir:    dir,
	}
}

// RenderAll draws the three overview charts into the renderer's directory.
// A failed chart is logged and skipped; chart output is a convenience and
// never fails the batch that produced the data.
func (r *Renderer) RenderAll(ds *analytics.Dataset) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create charts directory: %w", err)
	}

	view := ds.Apply(domain.Filter{})
	renders := []struct {
		name   string
		render func(analytics.View, string) error
	}{
		{"accidents_per_year.png", r.accidentsPerYear},
		{"severity_distribution.png", r.severityDistribution},
		{"gender_age_distribution.png", r.genderAgeDistribution},
	}

	for _, c := range renders {
		path := filepath.Join(r.dir, c.name)
		if err := c.render(view, path); err != nil {
			r.logger.Warn("chart render failed",
				slog.String("chart", c.name),
				slog.String("error", err.Error()))
			continue
		}
		r.logger.Debug("chart written", slog.String("path", path))
	}
	return nil
}

// accidentsPerYear draws the yearly accident count as a line chart.
func (r *Renderer) accidentsPerYear(view analytics.View, path string) error {
	points, err := analytics.Timeseries(view, analytics.GranularityYear)
	if err != nil {
		return err
	}
	if len(points) < 2 {
		return fmt.Errorf("need at least two yearly buckets, have %d", len(points))
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		year, err := strconv.Atoi(p.Bucket)
		if err != nil {
			return fmt.Errorf("unexpected year bucket %q: %w", p.Bucket, err)
		}
		xs[i] = float64(year)
		ys[i] = float64(p.Count)
	}

	graph := chart.Chart{
		Title:  "Bicycle Accidents Per Year",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return strconv.Itoa(int(f))
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{XValues: xs, YValues: ys},
		},
	}
	return renderPNG(path, graph.Render)
}

// severityDistribution draws accident counts per severity as a bar chart,
// in severity order.
func (r *Renderer) severityDistribution(view analytics.View, path string) error {
	counts, err := analytics.GroupCounts(view, domain.ColumnSeverity)
	if err != nil {
		return err
	}

	bars := make([]chart.Value, 0, len(counts))
	for _, c := range counts {
		bars = append(bars, chart.Value{Label: c.Category, Value: float64(c.Count)})
	}

	graph := chart.BarChart{
		Title:    "Accidents By Severity",
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 80,
		Bars:     bars,
	}
	return renderPNG(path, graph.Render)
}

// genderAgeDistribution draws casualties per gender split by age group as
// a stacked bar chart.
func (r *Renderer) genderAgeDistribution(view analytics.View, path string) error {
	groups, err := analytics.StackedCounts(view, domain.ColumnGender, domain.ColumnAgeGroup)
	if err != nil {
		return err
	}

	bars := make([]chart.StackedBar, 0, len(groups))
	for _, group := range groups {
		values := make([]chart.Value, 0, len(group.Parts))
		for _, part := range group.Parts {
			values = append(values, chart.Value{Label: part.Category, Value: float64(part.Count)})
		}
		bars = append(bars, chart.StackedBar{Name: group.Category, Values: values})
	}

	graph := chart.StackedBarChart{
		Title:  "Casualties By Gender And Age Group",
		Width:  chartWidth,
		Height: chartHeight,
		Bars:   bars,
	}
	return renderPNG(path, graph.Render)
}

// renderPNG renders a chart into path, replacing any previous file.
func renderPNG(path string, render func(chart.RendererProvider, io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := render(chart.PNG, file); err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return file.Close()
}
