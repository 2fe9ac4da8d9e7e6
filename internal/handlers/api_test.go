package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"autosales-dashboard/internal/dataset"
	"autosales-dashboard/internal/models"
	"autosales-dashboard/internal/services"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func createTestEngine() *services.Engine {
	records := []models.SalesRecord{
		{Year: 2005, Month: models.Jan, VehicleType: "Sedan", AutomobileSales: 20, AdvertisingExpenditure: 200, UnemploymentRate: 5.1},
		{Year: 2005, Month: models.Mar, VehicleType: "Sports", AutomobileSales: 30, AdvertisingExpenditure: 50, UnemploymentRate: 5.1},
		{Year: 2008, Month: models.Oct, VehicleType: "Sedan", AutomobileSales: 5, AdvertisingExpenditure: 70, UnemploymentRate: 6.5, Recession: true},
		{Year: 2009, Month: models.Feb, VehicleType: "Trucks", AutomobileSales: 9, AdvertisingExpenditure: 25, UnemploymentRate: 9.0, Recession: true},
	}
	table := dataset.NewTable("test.csv", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), records)
	return services.NewEngine(table, quietLogger())
}

type envelope[T any] struct {
	Data    T    `json:"data"`
	Success bool `json:"success"`
}

func decodeEnvelope[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var resp envelope[T]
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if !resp.Success {
		t.Error("expected success=true in response")
	}
	return resp.Data
}

func TestNewAPIHandlers(t *testing.T) {
	engine := createTestEngine()
	handlers := NewAPIHandlers(engine, quietLogger())

	if handlers == nil {
		t.Fatal("NewAPIHandlers() returned nil")
	}
	if handlers.engine != engine {
		t.Error("NewAPIHandlers() should set engine field")
	}
}

func TestAPIHandlers_HandleOptions(t *testing.T) {
	handlers := NewAPIHandlers(createTestEngine(), quietLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/options", nil)
	w := httptest.NewRecorder()
	handlers.HandleOptions(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if got := w.Header().Get("Cache-Control"); got != "public, max-age=300" {
		t.Errorf("expected cache-control 'public, max-age=300', got %q", got)
	}

	data := decodeEnvelope[optionsResponse](t, w)
	if len(data.Modes) != 2 {
		t.Errorf("expected 2 modes, got %v", data.Modes)
	}
	if data.DefaultMode != models.ModeYearly {
		t.Errorf("expected default mode %q, got %q", models.ModeYearly, data.DefaultMode)
	}
	if len(data.Years) != 44 || data.Years[0] != 1980 || data.Years[43] != 2023 {
		t.Errorf("unexpected year list: %v", data.Years)
	}
}

func TestAPIHandlers_HandleYearControl(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"?mode=Yearly+Statistics", false},
		{"?mode=yearly", false},
		{"?mode=Recession+Period+Statistics", true},
		{"?mode=Monthly", true},
		{"", true},
	}

	handlers := NewAPIHandlers(createTestEngine(), quietLogger())
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/year-control"+tt.query, nil)
			w := httptest.NewRecorder()
			handlers.HandleYearControl(w, req)

			data := decodeEnvelope[yearControlResponse](t, w)
			if data.Disabled != tt.want {
				t.Errorf("disabled = %v, want %v", data.Disabled, tt.want)
			}
		})
	}
}

func TestAPIHandlers_HandleDashboard(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantRendered bool
		wantCharts   int
		wantYear     int
		wantDisabled bool
	}{
		{"yearly", "?mode=yearly&year=2005", true, 4, 2005, false},
		{"recession ignores year", "?mode=recession&year=1999", true, 4, 0, true},
		{"yearly without year", "?mode=yearly", false, 0, 0, false},
		{"yearly out of range", "?mode=yearly&year=1970", false, 0, 0, false},
		{"unknown mode", "?mode=weekly&year=2005", false, 0, 0, true},
	}

	handlers := NewAPIHandlers(createTestEngine(), quietLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/dashboard"+tt.query, nil)
			w := httptest.NewRecorder()
			handlers.HandleDashboard(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
			}

			data := decodeEnvelope[dashboardResponse](t, w)
			if data.Rendered != tt.wantRendered {
				t.Errorf("rendered = %v, want %v", data.Rendered, tt.wantRendered)
			}
			if len(data.Charts) != tt.wantCharts {
				t.Errorf("got %d charts, want %d", len(data.Charts), tt.wantCharts)
			}
			if data.Year != tt.wantYear {
				t.Errorf("year = %d, want %d", data.Year, tt.wantYear)
			}
			if data.YearDisabled != tt.wantDisabled {
				t.Errorf("year_disabled = %v, want %v", data.YearDisabled, tt.wantDisabled)
			}
		})
	}
}

func TestAPIHandlers_HandleDashboard_EmptyChartsIsArray(t *testing.T) {
	handlers := NewAPIHandlers(createTestEngine(), quietLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?mode=unknown", nil)
	w := httptest.NewRecorder()
	handlers.HandleDashboard(w, req)

	var raw struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&raw); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if got := string(raw.Data["charts"]); got != "[]" {
		t.Errorf("expected charts to be an empty array, got %s", got)
	}
}

func TestAPIHandlers_HandleYearly(t *testing.T) {
	handlers := NewAPIHandlers(createTestEngine(), quietLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/yearly/2005", nil)
	req.SetPathValue("year", "2005")
	w := httptest.NewRecorder()
	handlers.HandleYearly(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	view := decodeEnvelope[models.YearlyView](t, w)
	if view.Year != 2005 {
		t.Errorf("year = %d, want 2005", view.Year)
	}
	if len(view.SalesByYear) != 3 {
		t.Errorf("expected sales trend over 3 years, got %d", len(view.SalesByYear))
	}
	wantMonths := []models.Month{models.Jan, models.Mar}
	if len(view.SalesByMonth) != len(wantMonths) {
		t.Fatalf("expected %d months, got %v", len(wantMonths), view.SalesByMonth)
	}
	for i, m := range wantMonths {
		if view.SalesByMonth[i].Month != m {
			t.Errorf("month[%d] = %v, want %v", i, view.SalesByMonth[i].Month, m)
		}
	}
}

func TestAPIHandlers_HandleYearly_OutOfRange(t *testing.T) {
	handlers := NewAPIHandlers(createTestEngine(), quietLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/yearly/1900", nil)
	req.SetPathValue("year", "1900")
	w := httptest.NewRecorder()
	handlers.HandleYearly(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	view := decodeEnvelope[models.YearlyView](t, w)
	if len(view.SalesByMonth) != 0 || len(view.CountByVehicle) != 0 || len(view.AdSpendByVehicle) != 0 {
		t.Errorf("expected empty per-year tables, got %+v", view)
	}
}

func TestAPIHandlers_HandleYearly_InvalidYear(t *testing.T) {
	handlers := NewAPIHandlers(createTestEngine(), quietLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/yearly/abc", nil)
	req.SetPathValue("year", "abc")
	w := httptest.NewRecorder()
	handlers.HandleYearly(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if resp.Success {
		t.Error("expected success=false in response")
	}
	if resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR, got %q", resp.Error.Code)
	}
}

func TestAPIHandlers_HandleRecession(t *testing.T) {
	handlers := NewAPIHandlers(createTestEngine(), quietLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/recession", nil)
	w := httptest.NewRecorder()
	handlers.HandleRecession(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	view := decodeEnvelope[models.RecessionView](t, w)
	if len(view.SalesByYear) != 2 {
		t.Errorf("expected 2 recession years, got %v", view.SalesByYear)
	}
	if len(view.SalesByUnemployment) != 2 {
		t.Errorf("expected 2 unemployment groups, got %v", view.SalesByUnemployment)
	}
}

func TestAPIHandlers_HandleHealth(t *testing.T) {
	handlers := NewAPIHandlers(createTestEngine(), quietLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handlers.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	data := decodeEnvelope[map[string]string](t, w)
	if data["status"] != "healthy" {
		t.Errorf("expected status 'healthy', got %q", data["status"])
	}
	if _, err := time.Parse(time.RFC3339, data["timestamp"]); err != nil {
		t.Errorf("timestamp is not RFC3339: %v", err)
	}
}

func TestAPIHandlers_HandleStats(t *testing.T) {
	handlers := NewAPIHandlers(createTestEngine(), quietLogger())

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	w := httptest.NewRecorder()
	handlers.HandleStats(w, req)

	stats := decodeEnvelope[models.DatasetStats](t, w)
	if stats.RecordCount != 4 {
		t.Errorf("record_count = %d, want 4", stats.RecordCount)
	}
	if stats.RecessionCount != 2 {
		t.Errorf("recession_count = %d, want 2", stats.RecessionCount)
	}
	if stats.Source != "test.csv" {
		t.Errorf("source = %q, want test.csv", stats.Source)
	}
}
