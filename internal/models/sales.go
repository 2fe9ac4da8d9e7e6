package models

import (
	"fmt"
	"time"
)

const (
	MinYear = 1980
	MaxYear = 2023
)

type Month int

const (
	Jan Month = iota + 1
	Feb
	Mar
	Apr
	May
	Jun
	Jul
	Aug
	Sep
	Oct
	Nov
	Dec
)

var monthNames = [...]string{"", "Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Months lists the calendar in order.
var Months = []Month{Jan, Feb, Mar, Apr, May, Jun, Jul, Aug, Sep, Oct, Nov, Dec}

func (m Month) String() string {
	if !m.Valid() {
		return ""
	}
	return monthNames[m]
}

func (m Month) Valid() bool {
	return m >= Jan && m <= Dec
}

// ParseMonth accepts the three-letter abbreviation used by the dataset.
func ParseMonth(s string) (Month, bool) {
	for i := 1; i < len(monthNames); i++ {
		if monthNames[i] == s {
			return Month(i), true
		}
	}
	return 0, false
}

func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Month) UnmarshalText(text []byte) error {
	parsed, ok := ParseMonth(string(text))
	if !ok {
		return fmt.Errorf("unknown month %q", text)
	}
	*m = parsed
	return nil
}

type SalesRecord struct {
	Year                   int
	Month                  Month
	VehicleType            string
	AutomobileSales        float64
	AdvertisingExpenditure float64
	UnemploymentRate       float64
	Recession              bool
}

type StatisticsMode string

const (
	ModeYearly    StatisticsMode = "Yearly Statistics"
	ModeRecession StatisticsMode = "Recession Period Statistics"
	ModeUnknown   StatisticsMode = ""
)

// StatisticsModes is the option list offered to the user.
var StatisticsModes = []StatisticsMode{ModeYearly, ModeRecession}

// ParseStatisticsMode maps the dropdown label (or a short alias) to a mode.
func ParseStatisticsMode(s string) StatisticsMode {
	switch s {
	case string(ModeYearly), "yearly":
		return ModeYearly
	case string(ModeRecession), "recession":
		return ModeRecession
	default:
		return ModeUnknown
	}
}

type Selection struct {
	Mode StatisticsMode `json:"mode"`
	// Year is zero when no year is selected.
	Year int `json:"year,omitempty"`
}

func ValidYear(year int) bool {
	return year >= MinYear && year <= MaxYear
}

// Years returns the selectable years in ascending order.
func Years() []int {
	years := make([]int, 0, MaxYear-MinYear+1)
	for y := MinYear; y <= MaxYear; y++ {
		years = append(years, y)
	}
	return years
}

type YearValue struct {
	Year  int     `json:"year"`
	Value float64 `json:"automobile_sales"`
}

type MonthValue struct {
	Month Month   `json:"month"`
	Value float64 `json:"automobile_sales"`
}

type VehicleCount struct {
	VehicleType string `json:"vehicle_type"`
	Count       int    `json:"count"`
}

type VehicleValue struct {
	VehicleType string  `json:"vehicle_type"`
	Value       float64 `json:"advertising_expenditure"`
}

type UnemploymentSales struct {
	UnemploymentRate float64 `json:"unemployment_rate"`
	VehicleType      string  `json:"vehicle_type"`
	Sales            float64 `json:"automobile_sales"`
}

type YearlyView struct {
	Year             int            `json:"year"`
	SalesByYear      []YearValue    `json:"sales_by_year"`
	SalesByMonth     []MonthValue   `json:"sales_by_month"`
	CountByVehicle   []VehicleCount `json:"count_by_vehicle"`
	AdSpendByVehicle []VehicleValue `json:"ad_spend_by_vehicle"`
}

type RecessionView struct {
	SalesByYear         []YearValue         `json:"sales_by_year"`
	CountByVehicle      []VehicleCount      `json:"count_by_vehicle"`
	AdSpendByVehicle    []VehicleValue      `json:"ad_spend_by_vehicle"`
	SalesByUnemployment []UnemploymentSales `json:"sales_by_unemployment"`
}

type ChartKind string

const (
	ChartLine ChartKind = "line"
	ChartBar  ChartKind = "bar"
	ChartPie  ChartKind = "pie"
)

type ChartPoint struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	Series string  `json:"series,omitempty"`
}

// Chart describes one figure; the client picks the renderer from Kind.
type Chart struct {
	ID          string       `json:"id"`
	Kind        ChartKind    `json:"kind"`
	Title       string       `json:"title"`
	XField      string       `json:"x,omitempty"`
	YField      string       `json:"y,omitempty"`
	NamesField  string       `json:"names,omitempty"`
	ValuesField string       `json:"values,omitempty"`
	ColorField  string       `json:"color,omitempty"`
	Points      []ChartPoint `json:"points"`
}

type DatasetStats struct {
	Source         string    `json:"source"`
	LoadedAt       time.Time `json:"loaded_at"`
	RecordCount    int       `json:"record_count"`
	RecessionCount int       `json:"recession_count"`
	FirstYear      int       `json:"first_year"`
	LastYear       int       `json:"last_year"`
	VehicleTypes   []string  `json:"vehicle_types"`
}
