package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"order-analytics/internal/loader"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const timestampLayout = "2006-01-02 15:04:05"

// tables maps source names to the tables they are imported into
var tables = map[string]string{
	loader.SourceOrders:      "olist_orders",
	loader.SourceCustomers:   "olist_customers",
	loader.SourceItems:       "olist_order_items",
	loader.SourceProducts:    "olist_products",
	loader.SourceSellers:     "olist_sellers",
	loader.SourcePayments:    "olist_order_payments",
	loader.SourceReviews:     "olist_order_reviews",
	loader.SourceGeolocation: "olist_geolocation",
	loader.SourceCategories:  "product_category_name_translation",
}

// Store reads the Olist tables from Postgres
type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Read loads a whole table as a loader.Table. Columns keep their database
// names, which match the CSV headers.
func (s *Store) Read(ctx context.Context, name string) (*loader.Table, error) {
	table, ok := tables[name]
	if !ok {
		return nil, fmt.Errorf("no table registered for source %q", name)
	}

	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM "+table)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records [][]string
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = cell(v)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return loader.NewTable(name, header, records), nil
}

// cell renders a driver value the way it appears in the CSV exports.
// NULL becomes the empty string so cleaning treats it as missing.
func cell(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case string:
		return v
	case time.Time:
		return v.Format(timestampLayout)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
