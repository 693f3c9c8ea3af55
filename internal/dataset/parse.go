package dataset

import (
	"bytes"
	"encoding/csv"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Required columns of a sales export. Header matching is case-insensitive.
var requiredColumns = []string{
	"customer_id", "customer_name",
	"product_id", "product_name",
	"region", "purchase_date",
	"unit_price", "quantity", "freight", "line_total",
}

// Date layouts accepted for the purchase_date column. Anything else is a
// DataError; date parseability is the one schema rule the loader enforces.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"01-02-06", // xlsx cell default when excelize renders a date cell as text
}

// ParseFile picks the decoder from the file extension. Only .csv and
// .xlsx/.xls exports are accepted.
func ParseFile(name string, data []byte) ([]SaleRecord, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return ParseCSV(bytes.NewReader(data))
	case ".xlsx", ".xls":
		return ParseXLSX(bytes.NewReader(data))
	default:
		return nil, dataErrorf("unsupported file type %q (want .csv or .xlsx)", filepath.Ext(name))
	}
}

// ParseCSV reads a sales export. Spreadsheet tools emit UTF-8 with BOM or
// UTF-16, so the stream runs through a BOM-aware decoder first.
func ParseCSV(r io.Reader) ([]SaleRecord, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, dataErrorf("file is empty")
	}
	if err != nil {
		return nil, dataErrorf("read header: %v", err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var rows []SaleRecord
	line := 1
	for {
		line++
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, dataErrorf("line %d: %v", line, err)
		}
		row, err := parseRow(rec, cols, line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return Normalize(rows), nil
}

// ParseXLSX reads the first sheet of a workbook with the same header
// contract as the CSV form.
func ParseXLSX(r io.Reader) ([]SaleRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, dataErrorf("open workbook: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, dataErrorf("workbook has no sheets")
	}
	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, dataErrorf("read sheet %q: %v", sheet, err)
	}
	if len(cells) == 0 {
		return nil, dataErrorf("file is empty")
	}
	cols, err := columnIndex(cells[0])
	if err != nil {
		return nil, err
	}
	var rows []SaleRecord
	for i, rec := range cells[1:] {
		if len(rec) == 0 {
			continue
		}
		row, err := parseRow(rec, cols, i+2)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return Normalize(rows), nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, req := range requiredColumns {
		if _, ok := idx[req]; !ok {
			return nil, dataErrorf("missing required column %q", req)
		}
	}
	return idx, nil
}

func parseRow(rec []string, cols map[string]int, line int) (SaleRecord, error) {
	get := func(key string) string {
		if i, ok := cols[key]; ok && i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}
	date, err := parseDate(get("purchase_date"))
	if err != nil {
		return SaleRecord{}, dataErrorf("line %d: unparsable purchase_date %q", line, get("purchase_date"))
	}
	return SaleRecord{
		CustomerID:   get("customer_id"),
		CustomerName: get("customer_name"),
		ProductID:    get("product_id"),
		ProductName:  get("product_name"),
		Region:       get("region"),
		PurchaseDate: date,
		UnitPrice:    parseNumber(get("unit_price")),
		Quantity:     parseNumber(get("quantity")),
		Freight:      parseNumber(get("freight")),
		LineTotal:    parseNumber(get("line_total")),
	}, nil
}

func parseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// parseNumber is best effort: the loader validates nothing beyond date
// parseability, so a malformed numeric cell contributes zero.
func parseNumber(s string) float64 {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
