package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"autosales-dashboard/internal/models"
)

const (
	batchSize  = 256
	maxWorkers = 8
)

const (
	colYear             = "Year"
	colMonth            = "Month"
	colVehicleType      = "Vehicle_Type"
	colAutomobileSales  = "Automobile_Sales"
	colAdvertising      = "Advertising_Expenditure"
	colUnemploymentRate = "unemployment_rate"
	colRecession        = "Recession"
)

var requiredColumns = []string{
	colYear,
	colMonth,
	colVehicleType,
	colAutomobileSales,
	colAdvertising,
	colUnemploymentRate,
	colRecession,
}

var (
	ErrEmptyInput     = errors.New("empty input")
	ErrNoValidRecords = errors.New("no valid records found")
	ErrNotFinite      = errors.New("value is not a finite number")
)

type ParseResult struct {
	Records []models.SalesRecord
	Skipped int
}

type columnIndex map[string]int

func newColumnIndex(header []string) (columnIndex, error) {
	idx := make(columnIndex, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		idx[name] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func (c columnIndex) field(record []string, name string) (string, error) {
	i := c[name]
	if i >= len(record) {
		return "", fmt.Errorf("column %s: insufficient columns", name)
	}
	return strings.TrimSpace(record[i]), nil
}

// Parse reads a sales CSV with a header row. Rows that fail validation are
// skipped and counted; the column order is taken from the header.
func Parse(ctx context.Context, r io.Reader) (*ParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := newColumnIndex(header)
	if err != nil {
		return nil, err
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	parsed := make([]models.SalesRecord, len(rows))
	valid := make([]bool, len(rows))

	var g errgroup.Group
	g.SetLimit(maxWorkers)

	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			for i := start; i < end; i++ {
				rec, err := parseRecord(cols, rows[i])
				if err != nil {
					continue
				}
				parsed[i] = rec
				valid[i] = true
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &ParseResult{Records: make([]models.SalesRecord, 0, len(rows))}
	for i, ok := range valid {
		if !ok {
			result.Skipped++
			continue
		}
		result.Records = append(result.Records, parsed[i])
	}

	if len(result.Records) == 0 {
		return nil, ErrNoValidRecords
	}
	return result, nil
}

func parseRecord(cols columnIndex, record []string) (models.SalesRecord, error) {
	var rec models.SalesRecord

	yearField, err := cols.field(record, colYear)
	if err != nil {
		return rec, err
	}
	year, err := strconv.Atoi(yearField)
	if err != nil {
		return rec, fmt.Errorf("year: %w", err)
	}
	if !models.ValidYear(year) {
		return rec, fmt.Errorf("year %d out of range", year)
	}

	monthField, err := cols.field(record, colMonth)
	if err != nil {
		return rec, err
	}
	month, ok := models.ParseMonth(monthField)
	if !ok {
		return rec, fmt.Errorf("unknown month %q", monthField)
	}

	vehicleType, err := cols.field(record, colVehicleType)
	if err != nil {
		return rec, err
	}
	if vehicleType == "" {
		return rec, fmt.Errorf("empty vehicle type")
	}

	sales, err := parseFloatColumn(cols, record, colAutomobileSales)
	if err != nil {
		return rec, err
	}
	advertising, err := parseFloatColumn(cols, record, colAdvertising)
	if err != nil {
		return rec, err
	}
	unemployment, err := parseFloatColumn(cols, record, colUnemploymentRate)
	if err != nil {
		return rec, err
	}

	flag, err := parseFloatColumn(cols, record, colRecession)
	if err != nil {
		return rec, err
	}
	if flag != 0 && flag != 1 {
		return rec, fmt.Errorf("recession flag must be 0 or 1, got %v", flag)
	}

	return models.SalesRecord{
		Year:                   year,
		Month:                  month,
		VehicleType:            vehicleType,
		AutomobileSales:        sales,
		AdvertisingExpenditure: advertising,
		UnemploymentRate:       unemployment,
		Recession:              flag == 1,
	}, nil
}

func parseFloatColumn(cols columnIndex, record []string, name string) (float64, error) {
	field, err := cols.field(record, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s %q: %w", name, field, ErrNotFinite)
	}
	return v, nil
}
