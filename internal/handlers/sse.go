package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"autosales-dashboard/internal/models"
	"autosales-dashboard/internal/services"
	"autosales-dashboard/internal/ui/templates"
)

type SSEHandlers struct {
	engine *services.Engine
	logger *slog.Logger
}

func NewSSEHandlers(engine *services.Engine, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		engine: engine,
		logger: logger,
	}
}

// dashboardSignals mirrors the page's data-signals. Bound selects may send
// the year as a number or a string.
type dashboardSignals struct {
	StatType   string `json:"statType"`
	SelectYear any    `json:"selectYear"`
}

func (s dashboardSignals) selection() models.Selection {
	return models.Selection{
		Mode: models.ParseStatisticsMode(s.StatType),
		Year: yearFromSignal(s.SelectYear),
	}
}

func yearFromSignal(v any) int {
	switch year := v.(type) {
	case float64:
		return int(year)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(year))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// HandleDashboard recomputes the charts for the current dropdown values and
// patches the year control state, the chart data and the chart grid.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	var signals dashboardSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.logger.Debug("read signals", "error", err)
	}

	sel := signals.selection()
	dash, ok := h.engine.Dispatch(sel)
	charts := dash.Charts()

	sse := datastar.NewSSE(w, r)

	html, err := h.renderGrid(r, charts)
	if err != nil {
		h.logger.Error("render chart grid", "error", err)
		return
	}
	if err := sse.PatchElements(html); err != nil {
		h.logger.Warn("patch chart grid", "error", err)
		return
	}

	jsonData, err := json.Marshal(map[string]any{
		"yearDisabled": services.YearControlDisabled(sel.Mode),
		"charts":       charts,
	})
	if err != nil {
		h.logger.Error("marshal chart signals", "error", err)
		return
	}
	if err := sse.PatchSignals(jsonData); err != nil {
		h.logger.Warn("patch chart signals", "error", err)
		return
	}

	h.logger.Debug("dashboard updated",
		"mode", sel.Mode,
		"year", sel.Year,
		"rendered", ok,
		"charts", len(charts),
	)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) renderGrid(r *http.Request, charts []models.Chart) (string, error) {
	var buf strings.Builder
	if err := templates.ChartGrid(charts).Render(r.Context(), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
