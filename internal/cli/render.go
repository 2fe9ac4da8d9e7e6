package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"autosales-dashboard/internal/models"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorOrange    = lipgloss.Color("#DA702C")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Padding(0, 1)

	numberStyle = cellStyle.
			Align(lipgloss.Right)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table represents a bordered text table for CLI output. The first column
// is left aligned and the rest are treated as numbers.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	var b strings.Builder

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	if len(t.Rows) == 0 {
		b.WriteString("  ")
		b.WriteString(mutedStyle.Render("No data."))
		b.WriteString("\n")
		return b.String()
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers(t.Headers...).
		Rows(t.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numberStyle
			}
		})

	b.WriteString(tbl.String())
	b.WriteString("\n")
	return b.String()
}

// RenderWarning renders a one-line warning.
func RenderWarning(msg string) string {
	return "  " + warnStyle.Render(msg) + "\n"
}

// RenderYearlyView renders the four yearly tables in chart order.
func RenderYearlyView(v *models.YearlyView) string {
	trend := make([][]string, 0, len(v.SalesByYear))
	for _, row := range v.SalesByYear {
		trend = append(trend, []string{strconv.Itoa(row.Year), FormatAmount(row.Value)})
	}

	monthly := make([][]string, 0, len(v.SalesByMonth))
	for _, row := range v.SalesByMonth {
		monthly = append(monthly, []string{row.Month.String(), FormatAmount(row.Value)})
	}

	return joinSections(
		RenderTable(Table{
			Title:   "Automobile Sales for the year",
			Headers: []string{"Year", "Avg Sales"},
			Rows:    trend,
		}),
		RenderTable(Table{
			Title:   fmt.Sprintf("Monthly sale for the year %d", v.Year),
			Headers: []string{"Month", "Sales"},
			Rows:    monthly,
		}),
		RenderTable(Table{
			Title:   "Average Number of Vehicles Sold",
			Headers: []string{"Vehicle Type", "Records"},
			Rows:    countRows(v.CountByVehicle),
		}),
		RenderTable(Table{
			Title:   "Expenditure on each vehicle",
			Headers: []string{"Vehicle Type", "Advertising"},
			Rows:    spendRows(v.AdSpendByVehicle),
		}),
	)
}

// RenderRecessionView renders the four recession tables in chart order.
func RenderRecessionView(v *models.RecessionView) string {
	trend := make([][]string, 0, len(v.SalesByYear))
	for _, row := range v.SalesByYear {
		trend = append(trend, []string{strconv.Itoa(row.Year), FormatAmount(row.Value)})
	}

	unemployment := make([][]string, 0, len(v.SalesByUnemployment))
	for _, row := range v.SalesByUnemployment {
		unemployment = append(unemployment, []string{
			FormatRate(row.UnemploymentRate),
			row.VehicleType,
			FormatAmount(row.Sales),
		})
	}

	return joinSections(
		RenderTable(Table{
			Title:   "Average Automobile Sales fluctuation over Recession Period",
			Headers: []string{"Year", "Avg Sales"},
			Rows:    trend,
		}),
		RenderTable(Table{
			Title:   "Average number of Vehicles sold",
			Headers: []string{"Vehicle Type", "Records"},
			Rows:    countRows(v.CountByVehicle),
		}),
		RenderTable(Table{
			Title:   "Total Expenditure by Vehicle Type",
			Headers: []string{"Vehicle Type", "Advertising"},
			Rows:    spendRows(v.AdSpendByVehicle),
		}),
		RenderTable(Table{
			Title:   "Effect of Unemployment Rate on Sales",
			Headers: []string{"Unemployment", "Vehicle Type", "Sales"},
			Rows:    unemployment,
		}),
	)
}

// RenderStats renders dataset statistics as a two-column table.
func RenderStats(s models.DatasetStats) string {
	return RenderTable(Table{
		Title:   "Dataset",
		Headers: []string{"Field", "Value"},
		Rows: [][]string{
			{"Source", s.Source},
			{"Loaded", s.LoadedAt.Format("2006-01-02 15:04:05")},
			{"Records", FormatNumber(int64(s.RecordCount))},
			{"Recession records", FormatNumber(int64(s.RecessionCount))},
			{"Years", fmt.Sprintf("%d-%d", s.FirstYear, s.LastYear)},
			{"Vehicle types", strings.Join(s.VehicleTypes, ", ")},
		},
	})
}

func countRows(rows []models.VehicleCount) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, []string{row.VehicleType, FormatNumber(int64(row.Count))})
	}
	return out
}

func spendRows(rows []models.VehicleValue) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, []string{row.VehicleType, FormatAmount(row.Value)})
	}
	return out
}

func joinSections(sections ...string) string {
	return strings.Join(sections, "\n")
}
