package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "github.com/muhammad-o98/Bike-Accidents-GB/internal/errors"
	"github.com/muhammad-o98/Bike-Accidents-GB/pkg/contracts/domain"
)

// DataHandler serves the aggregation endpoints with RFC 7807 errors.
type DataHandler struct {
	service      DataServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a new data handler
func NewDataHandler(service DataServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the data routes
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/summary", h.GetSummary)
	r.Get("/timeseries", h.GetTimeseries)
	r.Get("/group-counts", h.GetGroupCounts)
	r.Get("/severity-breakdown", h.GetSeverityBreakdown)
	r.Get("/filters", h.GetFilterOptions)
	r.Get("/quality", h.GetQualityReport)

	return r
}

// GetSummary handles GET /api/data/summary
func (h *DataHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	summary, err := h.service.Summary(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, r, "summary", err)
		return
	}
	render.JSON(w, r, summary)
}

// GetTimeseries handles GET /api/data/timeseries?granularity=year
func (h *DataHandler) GetTimeseries(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	granularity := r.URL.Query().Get("granularity")
	if granularity == "" {
		granularity = "year"
	}

	points, err := h.service.Timeseries(r.Context(), filter, granularity)
	if err != nil {
		h.handleServiceError(w, r, "timeseries", err)
		return
	}
	render.JSON(w, r, points)
}

// GetGroupCounts handles GET /api/data/group-counts?column=severity
func (h *DataHandler) GetGroupCounts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	column := r.URL.Query().Get("column")
	if column == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("column", "column parameter is required"))
		return
	}

	counts, err := h.service.GroupCounts(r.Context(), filter, column)
	if err != nil {
		h.handleServiceError(w, r, "group counts", err)
		return
	}
	render.JSON(w, r, counts)
}

// GetSeverityBreakdown handles GET /api/data/severity-breakdown?column=gender
func (h *DataHandler) GetSeverityBreakdown(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	column := r.URL.Query().Get("column")
	if column == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("column", "column parameter is required"))
		return
	}

	rows, err := h.service.SeverityBreakdown(r.Context(), filter, column)
	if err != nil {
		h.handleServiceError(w, r, "severity breakdown", err)
		return
	}
	render.JSON(w, r, rows)
}

// GetFilterOptions handles GET /api/data/filters
func (h *DataHandler) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.service.FilterOptions(r.Context())
	if err != nil {
		h.handleServiceError(w, r, "filter options", err)
		return
	}
	render.JSON(w, r, options)
}

// GetQualityReport handles GET /api/data/quality
func (h *DataHandler) GetQualityReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.QualityReport(r.Context())
	if err != nil {
		h.handleServiceError(w, r, "quality report", err)
		return
	}
	render.JSON(w, r, report)
}

// handleServiceError logs and renders a service failure.
func (h *DataHandler) handleServiceError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("operation", operation),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("error", err.Error()))
	h.errorHandler.HandleError(w, r, err)
}

// filterParams maps query parameter names onto filter fields. Each
// parameter accepts repeated values or a single comma-separated list.
var filterParams = []struct {
	name   string
	target func(*domain.Filter) *[]string
}{
	{"severity", func(f *domain.Filter) *[]string { return &f.Severities }},
	{"gender", func(f *domain.Filter) *[]string { return &f.Genders }},
	{"age_group", func(f *domain.Filter) *[]string { return &f.AgeGroups }},
	{"road_conditions", func(f *domain.Filter) *[]string { return &f.RoadConditions }},
	{"weather_conditions", func(f *domain.Filter) *[]string { return &f.WeatherConditions }},
	{"road_type", func(f *domain.Filter) *[]string { return &f.RoadTypes }},
	{"light_conditions", func(f *domain.Filter) *[]string { return &f.LightConditions }},
}

// parseFilter builds a filter from query parameters.
func parseFilter(query url.Values) (domain.Filter, error) {
	var filter domain.Filter

	yearMin, err := parseYear(query, "year_min")
	if err != nil {
		return domain.Filter{}, err
	}
	yearMax, err := parseYear(query, "year_max")
	if err != nil {
		return domain.Filter{}, err
	}
	if yearMin != 0 && yearMax != 0 && yearMin > yearMax {
		return domain.Filter{}, apierrors.ErrValidation("year_min", "year_min cannot exceed year_max")
	}
	filter.YearMin = yearMin
	filter.YearMax = yearMax

	for _, p := range filterParams {
		*p.target(&filter) = parseValues(query[p.name])
	}
	return filter, nil
}

// parseYear reads an optional integer year parameter.
func parseYear(query url.Values, name string) (int, error) {
	raw := strings.TrimSpace(query.Get(name))
	if raw == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 0 {
		return 0, apierrors.ErrValidation(name, "must be a non-negative integer")
	}
	return year, nil
}

// parseValues flattens repeated and comma-separated parameter values.
func parseValues(raw []string) []string {
	var values []string
	for _, item := range raw {
		for _, value := range strings.Split(item, ",") {
			if value = strings.TrimSpace(value); value != "" {
				values = append(values, value)
			}
		}
	}
	return values
}
