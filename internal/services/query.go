package services

import (
	"cmp"
	"iter"
	"log/slog"
	"maps"
	"slices"

	"autosales-dashboard/internal/dataset"
	"autosales-dashboard/internal/models"
)

// Engine answers dashboard queries against a loaded table. It holds no
// mutable state, so one Engine serves all requests concurrently.
type Engine struct {
	table  *dataset.Table
	logger *slog.Logger
}

func NewEngine(table *dataset.Table, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		table:  table,
		logger: logger,
	}
}

// YearControlDisabled reports whether the year picker is inactive for mode.
func YearControlDisabled(mode models.StatisticsMode) bool {
	return mode != models.ModeYearly
}

func (e *Engine) YearlyView(year int) *models.YearlyView {
	return ComputeYearlyView(e.table, year)
}

func (e *Engine) RecessionView() *models.RecessionView {
	return ComputeRecessionView(e.table)
}

// Dispatch picks the view for a selection. ok is false when there is
// nothing to render: an unknown mode, or yearly mode without a usable year.
func (e *Engine) Dispatch(sel models.Selection) (dash *Dashboard, ok bool) {
	switch {
	case sel.Mode == models.ModeRecession:
		return &Dashboard{
			Selection: models.Selection{Mode: sel.Mode},
			Recession: e.RecessionView(),
		}, true
	case sel.Mode == models.ModeYearly && models.ValidYear(sel.Year):
		return &Dashboard{
			Selection: sel,
			Yearly:    e.YearlyView(sel.Year),
		}, true
	default:
		e.logger.Debug("nothing to render", "mode", sel.Mode, "year", sel.Year)
		return nil, false
	}
}

// ComputeYearlyView builds the yearly charts' tables. The sales trend covers
// the whole table; the other three only rows of the given year. Months with
// no rows are left out of the monthly table.
func ComputeYearlyView(table *dataset.Table, year int) *models.YearlyView {
	inYear := func(r models.SalesRecord) bool { return r.Year == year }

	return &models.YearlyView{
		Year:             year,
		SalesByYear:      meanSalesByYear(table.All(), all),
		SalesByMonth:     salesByMonth(table.All(), inYear),
		CountByVehicle:   countByVehicle(table.All(), inYear),
		AdSpendByVehicle: adSpendByVehicle(table.All(), inYear),
	}
}

// ComputeRecessionView builds the recession charts' tables from rows
// flagged as recession periods only.
func ComputeRecessionView(table *dataset.Table) *models.RecessionView {
	inRecession := func(r models.SalesRecord) bool { return r.Recession }

	return &models.RecessionView{
		SalesByYear:         meanSalesByYear(table.All(), inRecession),
		CountByVehicle:      countByVehicle(table.All(), inRecession),
		AdSpendByVehicle:    adSpendByVehicle(table.All(), inRecession),
		SalesByUnemployment: salesByUnemployment(table.All(), inRecession),
	}
}

func all(models.SalesRecord) bool { return true }

func salesOf(r models.SalesRecord) float64 { return r.AutomobileSales }

func advertisingOf(r models.SalesRecord) float64 { return r.AdvertisingExpenditure }

// groupBy collects the values of matching rows per key.
func groupBy[K comparable](
	records iter.Seq[models.SalesRecord],
	keep func(models.SalesRecord) bool,
	key func(models.SalesRecord) K,
	value func(models.SalesRecord) float64,
) map[K][]float64 {
	groups := make(map[K][]float64)
	for r := range records {
		if !keep(r) {
			continue
		}
		k := key(r)
		groups[k] = append(groups[k], value(r))
	}
	return groups
}

// sum adds values in ascending order so the total is the same for any
// input row order.
func sum(values []float64) float64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	var total float64
	for _, v := range sorted {
		total += v
	}
	return total
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sum(values) / float64(len(values))
}

func meanSalesByYear(records iter.Seq[models.SalesRecord], keep func(models.SalesRecord) bool) []models.YearValue {
	groups := groupBy(records, keep, func(r models.SalesRecord) int { return r.Year }, salesOf)

	result := make([]models.YearValue, 0, len(groups))
	for _, year := range slices.Sorted(maps.Keys(groups)) {
		result = append(result, models.YearValue{Year: year, Value: mean(groups[year])})
	}
	return result
}

func salesByMonth(records iter.Seq[models.SalesRecord], keep func(models.SalesRecord) bool) []models.MonthValue {
	groups := groupBy(records, keep, func(r models.SalesRecord) models.Month { return r.Month }, salesOf)

	result := make([]models.MonthValue, 0, len(groups))
	for _, month := range models.Months {
		values, ok := groups[month]
		if !ok {
			continue
		}
		result = append(result, models.MonthValue{Month: month, Value: sum(values)})
	}
	return result
}

func vehicleType(r models.SalesRecord) string { return r.VehicleType }

func countByVehicle(records iter.Seq[models.SalesRecord], keep func(models.SalesRecord) bool) []models.VehicleCount {
	groups := groupBy(records, keep, vehicleType, salesOf)

	result := make([]models.VehicleCount, 0, len(groups))
	for _, vt := range slices.Sorted(maps.Keys(groups)) {
		result = append(result, models.VehicleCount{VehicleType: vt, Count: len(groups[vt])})
	}
	return result
}

func adSpendByVehicle(records iter.Seq[models.SalesRecord], keep func(models.SalesRecord) bool) []models.VehicleValue {
	groups := groupBy(records, keep, vehicleType, advertisingOf)

	result := make([]models.VehicleValue, 0, len(groups))
	for _, vt := range slices.Sorted(maps.Keys(groups)) {
		result = append(result, models.VehicleValue{VehicleType: vt, Value: sum(groups[vt])})
	}
	return result
}

type unemploymentKey struct {
	rate        float64
	vehicleType string
}

func salesByUnemployment(records iter.Seq[models.SalesRecord], keep func(models.SalesRecord) bool) []models.UnemploymentSales {
	groups := groupBy(records, keep, func(r models.SalesRecord) unemploymentKey {
		return unemploymentKey{rate: r.UnemploymentRate, vehicleType: r.VehicleType}
	}, salesOf)

	keys := slices.SortedFunc(maps.Keys(groups), func(a, b unemploymentKey) int {
		if c := cmp.Compare(a.rate, b.rate); c != 0 {
			return c
		}
		return cmp.Compare(a.vehicleType, b.vehicleType)
	})

	result := make([]models.UnemploymentSales, 0, len(keys))
	for _, k := range keys {
		result = append(result, models.UnemploymentSales{
			UnemploymentRate: k.rate,
			VehicleType:      k.vehicleType,
			Sales:            sum(groups[k]),
		})
	}
	return result
}

// Stats summarizes the loaded table for monitoring.
func (e *Engine) Stats() models.DatasetStats {
	stats := models.DatasetStats{
		Source:       e.table.Source(),
		LoadedAt:     e.table.LoadedAt(),
		RecordCount:  e.table.Len(),
		VehicleTypes: []string{},
	}

	types := make(map[string]struct{})
	for r := range e.table.All() {
		if r.Recession {
			stats.RecessionCount++
		}
		if stats.FirstYear == 0 || r.Year < stats.FirstYear {
			stats.FirstYear = r.Year
		}
		if r.Year > stats.LastYear {
			stats.LastYear = r.Year
		}
		types[r.VehicleType] = struct{}{}
	}
	stats.VehicleTypes = append(stats.VehicleTypes, slices.Sorted(maps.Keys(types))...)

	return stats
}
