package dataset

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const sampleCSV = `customer_id,customer_name,product_id,product_name,region,purchase_date,unit_price,quantity,freight,line_total
C002,Second,P01,Beans,South,2024-01-15,24.00,8,9.00,192.00
C001,First,P01,Beans,North,2024-01-08,24.00,10,12.50,240.00
C001,First,P02,Milk,North,2024-01-08,3.50,40,12.50,140.00
`

func TestParseCSV(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	// Normalized order is (customer, purchase date).
	if rows[0].CustomerID != "C001" || rows[2].CustomerID != "C002" {
		t.Fatalf("rows not sorted by customer: %q, %q", rows[0].CustomerID, rows[2].CustomerID)
	}
	r := rows[0]
	if r.LineTotal != 240.00 || r.Quantity != 10 {
		t.Fatalf("numeric columns wrong: %+v", r)
	}
	if r.Year != 2024 || r.Month != 1 || r.Quarter != 1 {
		t.Fatalf("derived calendar fields wrong: %+v", r)
	}
	isoYear, isoWeek := r.PurchaseDate.ISOWeek()
	if r.ISOYear != isoYear || r.ISOWeek != isoWeek {
		t.Fatalf("ISO week fields wrong: %+v", r)
	}
	if r.Weekday != "Monday" {
		t.Fatalf("weekday: got %q, want Monday", r.Weekday)
	}
}

func TestParseCSVWithBOM(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader("\ufeff" + sampleCSV))
	if err != nil {
		t.Fatalf("parse with BOM: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
}

func TestParseCSVMissingDateColumn(t *testing.T) {
	csv := "customer_id,customer_name,product_id,product_name,region,unit_price,quantity,freight,line_total\n" +
		"C001,First,P01,Beans,North,24.00,10,12.50,240.00\n"
	_, err := ParseCSV(strings.NewReader(csv))
	var de *DataError
	if !errors.As(err, &de) {
		t.Fatalf("want DataError, got %v", err)
	}
	if !strings.Contains(de.Reason, "purchase_date") {
		t.Fatalf("error should name the missing column: %q", de.Reason)
	}
}

func TestParseCSVBadDate(t *testing.T) {
	csv := strings.Replace(sampleCSV, "2024-01-15", "not a date", 1)
	_, err := ParseCSV(strings.NewReader(csv))
	var de *DataError
	if !errors.As(err, &de) {
		t.Fatalf("want DataError, got %v", err)
	}
}

func TestFilterRangeInclusive(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	start := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	got := FilterRange(rows, start, end)
	if len(got) != 2 {
		t.Fatalf("inclusive bounds: got %d rows, want 2", len(got))
	}
	for _, r := range got {
		if !r.PurchaseDate.Equal(start) {
			t.Fatalf("row outside range survived the filter: %v", r.PurchaseDate)
		}
	}
	// Open bounds pass everything through.
	if got := FilterRange(rows, time.Time{}, time.Time{}); len(got) != len(rows) {
		t.Fatalf("default range dropped rows: %d of %d", len(got), len(rows))
	}
}

func TestDateRange(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	min, max := DateRange(rows)
	if min.Format("2006-01-02") != "2024-01-08" || max.Format("2006-01-02") != "2024-01-15" {
		t.Fatalf("range got [%v, %v]", min, max)
	}
}
