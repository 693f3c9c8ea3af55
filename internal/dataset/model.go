package dataset

import (
	"fmt"
	"sort"
	"time"
)

// SaleRecord is one line item of a sales export. Each (customer, purchase
// date) pair represents one order, possibly spanning multiple rows.
type SaleRecord struct {
	CustomerID   string    `db:"customer_id" json:"customer_id"`
	CustomerName string    `db:"customer_name" json:"customer_name"`
	ProductID    string    `db:"product_id" json:"product_id"`
	ProductName  string    `db:"product_name" json:"product_name"`
	Region       string    `db:"region" json:"region"`
	PurchaseDate time.Time `db:"purchase_date" json:"purchase_date"`
	UnitPrice    float64   `db:"unit_price" json:"unit_price"`
	Quantity     float64   `db:"quantity" json:"quantity"`
	Freight      float64   `db:"freight" json:"freight"`
	LineTotal    float64   `db:"line_total" json:"line_total"`

	// Derived during normalization, never persisted.
	Year    int    `db:"-" json:"year"`
	Month   int    `db:"-" json:"month"`
	ISOYear int    `db:"-" json:"iso_year"`
	ISOWeek int    `db:"-" json:"iso_week"`
	Quarter int    `db:"-" json:"quarter"`
	Weekday string `db:"-" json:"weekday"`
}

// Dataset is a parsed, normalized sales table held in memory for the
// duration of the process (and mirrored into the advisory cache).
type Dataset struct {
	ID         string       `json:"id"`
	Hash       string       `json:"hash"`
	Name       string       `json:"name"`
	UploadedBy string       `json:"uploaded_by"`
	CreatedAt  time.Time    `json:"created_at"`
	Rows       []SaleRecord `json:"-"`
}

// DataError marks a malformed export. It is surfaced verbatim to the
// caller at load time; there is no partial-table recovery.
type DataError struct {
	Reason string
}

func (e *DataError) Error() string {
	return e.Reason
}

func dataErrorf(format string, args ...any) *DataError {
	return &DataError{Reason: fmt.Sprintf(format, args...)}
}

// Normalize derives the calendar fields of every row and sorts the table
// by (customer, purchase date), the order every downstream view assumes.
func Normalize(rows []SaleRecord) []SaleRecord {
	for i := range rows {
		r := &rows[i]
		r.Year = r.PurchaseDate.Year()
		r.Month = int(r.PurchaseDate.Month())
		r.ISOYear, r.ISOWeek = r.PurchaseDate.ISOWeek()
		r.Quarter = (int(r.PurchaseDate.Month())-1)/3 + 1
		r.Weekday = r.PurchaseDate.Weekday().String()
	}
	sortRows(rows)
	return rows
}

func sortRows(rows []SaleRecord) {
	// Customer first, then purchase date, so per-customer order history
	// reads chronologically.
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CustomerID != rows[j].CustomerID {
			return rows[i].CustomerID < rows[j].CustomerID
		}
		return rows[i].PurchaseDate.Before(rows[j].PurchaseDate)
	})
}

// DateRange returns the min and max purchase dates of the table.
func DateRange(rows []SaleRecord) (min, max time.Time) {
	for _, r := range rows {
		if min.IsZero() || r.PurchaseDate.Before(min) {
			min = r.PurchaseDate
		}
		if max.IsZero() || r.PurchaseDate.After(max) {
			max = r.PurchaseDate
		}
	}
	return min, max
}

// FilterRange keeps rows with purchase date inside [start, end], both
// inclusive at day precision. Zero bounds are open on that side, so the
// default range is the full dataset.
func FilterRange(rows []SaleRecord, start, end time.Time) []SaleRecord {
	out := make([]SaleRecord, 0, len(rows))
	for _, r := range rows {
		day := dayOf(r.PurchaseDate)
		if !start.IsZero() && day.Before(dayOf(start)) {
			continue
		}
		if !end.IsZero() && day.After(dayOf(end)) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
