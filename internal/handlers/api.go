package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"autosales-dashboard/internal/errors"
	"autosales-dashboard/internal/models"
	"autosales-dashboard/internal/observability"
	"autosales-dashboard/internal/services"
)

const cacheControl = "public, max-age=300"

var cacheHeaders = map[string]string{
	"Cache-Control": cacheControl,
}

type APIHandlers struct {
	engine *services.Engine
	logger *slog.Logger
}

func NewAPIHandlers(engine *services.Engine, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		engine: engine,
		logger: logger,
	}
}

type optionsResponse struct {
	Modes       []models.StatisticsMode `json:"modes"`
	DefaultMode models.StatisticsMode   `json:"default_mode"`
	Years       []int                   `json:"years"`
}

type yearControlResponse struct {
	Mode     models.StatisticsMode `json:"mode"`
	Disabled bool                  `json:"disabled"`
}

type dashboardResponse struct {
	Mode         models.StatisticsMode `json:"mode"`
	Year         int                   `json:"year,omitempty"`
	YearDisabled bool                  `json:"year_disabled"`
	Rendered     bool                  `json:"rendered"`
	Charts       []models.Chart        `json:"charts"`
}

// parseSelection reads mode and year query parameters. A missing or
// malformed year becomes "no year".
func parseSelection(r *http.Request) models.Selection {
	q := r.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		year = 0
	}
	return models.Selection{
		Mode: models.ParseStatisticsMode(q.Get("mode")),
		Year: year,
	}
}

func (h *APIHandlers) HandleOptions(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, optionsResponse{
		Modes:       models.StatisticsModes,
		DefaultMode: models.ModeYearly,
		Years:       models.Years(),
	}, cacheHeaders)
}

func (h *APIHandlers) HandleYearControl(w http.ResponseWriter, r *http.Request) {
	mode := models.ParseStatisticsMode(r.URL.Query().Get("mode"))

	errors.WriteSuccess(w, yearControlResponse{
		Mode:     mode,
		Disabled: services.YearControlDisabled(mode),
	})
}

func (h *APIHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sel := parseSelection(r)

	dash, ok := h.engine.Dispatch(sel)
	resp := dashboardResponse{
		Mode:         sel.Mode,
		YearDisabled: services.YearControlDisabled(sel.Mode),
		Rendered:     ok,
		Charts:       dash.Charts(),
	}
	if ok {
		resp.Year = dash.Selection.Year
	}

	errors.WriteSuccessWithHeaders(w, resp, cacheHeaders)
}

func (h *APIHandlers) HandleYearly(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		appErr := errors.ValidationWrap(err, "year must be an integer").
			WithDetails("supported years are 1980-2023")
		errors.WriteError(w, h.logger, appErr, observability.GetRequestID(r.Context()))
		return
	}

	errors.WriteSuccessWithHeaders(w, h.engine.YearlyView(year), cacheHeaders)
}

func (h *APIHandlers) HandleRecession(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.engine.RecessionView(), cacheHeaders)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.engine.Stats())
}
