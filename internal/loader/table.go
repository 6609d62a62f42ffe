package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Source names, one per entity
const (
	SourceOrders      = "orders"
	SourceCustomers   = "customers"
	SourceItems       = "order_items"
	SourceProducts    = "products"
	SourceSellers     = "sellers"
	SourcePayments    = "order_payments"
	SourceReviews     = "order_reviews"
	SourceGeolocation = "geolocation"
	SourceCategories  = "product_category_name_translation"
)

// DefaultFiles maps each source to the file name it is published under
var DefaultFiles = map[string]string{
	SourceOrders:      "orders_dataset.csv",
	SourceCustomers:   "customers_dataset.csv",
	SourceItems:       "order_items_dataset.csv",
	SourceProducts:    "products_dataset.csv",
	SourceSellers:     "sellers_dataset.csv",
	SourcePayments:    "order_payments_dataset.csv",
	SourceReviews:     "order_reviews_dataset.csv",
	SourceGeolocation: "geolocation_dataset.csv",
	SourceCategories:  "product_category_name_translation.csv",
}

// Source yields named tables
type Source interface {
	Read(ctx context.Context, name string) (*Table, error)
}

// Table is a named, untyped tabular source
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
	index  map[string]int
}

// NewTable creates a table and indexes its header
func NewTable(name string, header []string, rows [][]string) *Table {
	t := &Table{
		Name:   name,
		Header: make([]string, len(header)),
		Rows:   rows,
		index:  make(map[string]int, len(header)),
	}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		t.Header[i] = h
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}
	return t
}

// Index returns the position of a column
func (t *Table) Index(column string) (int, bool) {
	i, ok := t.index[column]
	return i, ok
}

// CSVSource reads tables from CSV files in a directory
type CSVSource struct {
	Dir   string
	Files map[string]string
}

// NewCSVSource creates a CSV source using the default file names
func NewCSVSource(dir string) *CSVSource {
	files := make(map[string]string, len(DefaultFiles))
	for k, v := range DefaultFiles {
		files[k] = v
	}
	return &CSVSource{Dir: dir, Files: files}
}

// Read opens and parses the file registered for name
func (s *CSVSource) Read(ctx context.Context, name string) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, ok := s.Files[name]
	if !ok {
		return nil, fmt.Errorf("no file registered for source %q", name)
	}

	f, err := os.Open(filepath.Join(s.Dir, file))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer f.Close()

	return ReadCSV(name, f)
}

// ReadCSV parses a CSV stream whose first record is the header
func ReadCSV(name string, r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("source %s is empty", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", name, err)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read records of %s: %w", name, err)
	}

	return NewTable(name, header, rows), nil
}
