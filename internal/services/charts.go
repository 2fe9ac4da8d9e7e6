package services

import (
	"fmt"
	"strconv"

	"autosales-dashboard/internal/models"
)

// Dashboard is the result of one dispatch. Exactly one of Yearly and
// Recession is set.
type Dashboard struct {
	Selection models.Selection
	Yearly    *models.YearlyView
	Recession *models.RecessionView
}

// Charts lays the view out as the four dashboard figures.
func (d *Dashboard) Charts() []models.Chart {
	switch {
	case d == nil:
		return []models.Chart{}
	case d.Recession != nil:
		return recessionCharts(d.Recession)
	case d.Yearly != nil:
		return yearlyCharts(d.Yearly)
	default:
		return []models.Chart{}
	}
}

func yearlyCharts(v *models.YearlyView) []models.Chart {
	return []models.Chart{
		{
			ID:     "yearly-sales-trend",
			Kind:   models.ChartLine,
			Title:  "Automobile Sales for the year",
			XField: "Year",
			YField: "Automobile_Sales",
			Points: yearPoints(v.SalesByYear),
		},
		{
			ID:     "yearly-monthly-sales",
			Kind:   models.ChartLine,
			Title:  fmt.Sprintf("Monthly sale for the year %d", v.Year),
			XField: "Month",
			YField: "Automobile_Sales",
			Points: monthPoints(v.SalesByMonth),
		},
		{
			ID:     "yearly-vehicle-count",
			Kind:   models.ChartBar,
			Title:  "Average Number of Vehicles Sold",
			XField: "Vehicle_Type",
			YField: "Automobile_Sales",
			Points: countPoints(v.CountByVehicle),
		},
		{
			ID:          "yearly-ad-spend",
			Kind:        models.ChartPie,
			Title:       "Expenditure on each vehicle",
			NamesField:  "Vehicle_Type",
			ValuesField: "Advertising_Expenditure",
			Points:      vehicleValuePoints(v.AdSpendByVehicle),
		},
	}
}

func recessionCharts(v *models.RecessionView) []models.Chart {
	return []models.Chart{
		{
			ID:     "recession-sales-trend",
			Kind:   models.ChartLine,
			Title:  "Average Automobile Sales fluctuation over Recession Period",
			XField: "Year",
			YField: "Automobile_Sales",
			Points: yearPoints(v.SalesByYear),
		},
		{
			ID:     "recession-vehicle-count",
			Kind:   models.ChartBar,
			Title:  "Average number of Vehicles sold",
			XField: "Vehicle_Type",
			YField: "Automobile_Sales",
			Points: countPoints(v.CountByVehicle),
		},
		{
			ID:          "recession-ad-spend",
			Kind:        models.ChartPie,
			Title:       "Total Expenditure by Vehicle Type",
			NamesField:  "Vehicle_Type",
			ValuesField: "Advertising_Expenditure",
			Points:      vehicleValuePoints(v.AdSpendByVehicle),
		},
		{
			ID:         "recession-unemployment",
			Kind:       models.ChartBar,
			Title:      "Effect of Unemployment Rate on Sales",
			XField:     "unemployment_rate",
			YField:     "Automobile_Sales",
			ColorField: "Vehicle_Type",
			Points:     unemploymentPoints(v.SalesByUnemployment),
		},
	}
}

func yearPoints(rows []models.YearValue) []models.ChartPoint {
	points := make([]models.ChartPoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, models.ChartPoint{Label: strconv.Itoa(r.Year), Value: r.Value})
	}
	return points
}

func monthPoints(rows []models.MonthValue) []models.ChartPoint {
	points := make([]models.ChartPoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, models.ChartPoint{Label: r.Month.String(), Value: r.Value})
	}
	return points
}

func countPoints(rows []models.VehicleCount) []models.ChartPoint {
	points := make([]models.ChartPoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, models.ChartPoint{Label: r.VehicleType, Value: float64(r.Count)})
	}
	return points
}

func vehicleValuePoints(rows []models.VehicleValue) []models.ChartPoint {
	points := make([]models.ChartPoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, models.ChartPoint{Label: r.VehicleType, Value: r.Value})
	}
	return points
}

func unemploymentPoints(rows []models.UnemploymentSales) []models.ChartPoint {
	points := make([]models.ChartPoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, models.ChartPoint{
			Label:  strconv.FormatFloat(r.UnemploymentRate, 'f', -1, 64),
			Value:  r.Sales,
			Series: r.VehicleType,
		})
	}
	return points
}
