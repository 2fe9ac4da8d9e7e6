package dataset

import (
	"iter"
	"slices"
	"time"

	"autosales-dashboard/internal/models"
)

// Table is the loaded sales dataset. It is never modified after NewTable
// returns, so concurrent readers need no locking.
type Table struct {
	source   string
	loadedAt time.Time
	records  []models.SalesRecord
}

func NewTable(source string, loadedAt time.Time, records []models.SalesRecord) *Table {
	return &Table{
		source:   source,
		loadedAt: loadedAt,
		records:  slices.Clone(records),
	}
}

func (t *Table) Len() int {
	return len(t.records)
}

// All iterates the records in file order.
func (t *Table) All() iter.Seq[models.SalesRecord] {
	return func(yield func(models.SalesRecord) bool) {
		for _, r := range t.records {
			if !yield(r) {
				return
			}
		}
	}
}

// Records returns a copy of the rows.
func (t *Table) Records() []models.SalesRecord {
	return slices.Clone(t.records)
}

func (t *Table) Source() string {
	return t.source
}

func (t *Table) LoadedAt() time.Time {
	return t.loadedAt
}
