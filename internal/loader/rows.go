package loader

import (
	"strconv"
	"strings"
	"time"
)

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses a timezone-naive timestamp as UTC
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Stats describes how many rows of a source survived cleaning
type Stats struct {
	Source    string         `json:"source"`
	Read      int            `json:"read"`
	Kept      int            `json:"kept"`
	Dropped   int            `json:"dropped"`
	DroppedBy map[string]int `json:"dropped_by,omitempty"`
}

func (s *Stats) drop(column string) {
	s.Dropped++
	if s.DroppedBy == nil {
		s.DroppedBy = make(map[string]int)
	}
	s.DroppedBy[column]++
}

// rowReader resolves declared columns once and reads typed cells row by row.
// A required column whose cell is empty or unparseable marks the row as bad.
type rowReader struct {
	table    *Table
	index    map[string]int
	required map[string]bool
	row      []string
	bad      string
}

func newRowReader(t *Table, declared []string, required []string) (*rowReader, error) {
	r := &rowReader{
		table:    t,
		index:    make(map[string]int, len(declared)),
		required: make(map[string]bool, len(required)),
	}
	for _, cols := range [][]string{declared, required} {
		for _, col := range cols {
			i, ok := t.Index(col)
			if !ok {
				return nil, &MissingColumnError{Source: t.Name, Column: col}
			}
			r.index[col] = i
		}
	}
	for _, col := range required {
		r.required[col] = true
	}
	return r, nil
}

func (r *rowReader) reset(row []string) {
	r.row = row
	r.bad = ""
}

func (r *rowReader) fail(col string) {
	if r.bad == "" && r.required[col] {
		r.bad = col
	}
}

func (r *rowReader) str(col string) string {
	i := r.index[col]
	if i >= len(r.row) {
		r.fail(col)
		return ""
	}
	v := strings.TrimSpace(r.row[i])
	if v == "" {
		r.fail(col)
	}
	return v
}

func (r *rowReader) timestamp(col string) time.Time {
	v := r.str(col)
	if v == "" {
		return time.Time{}
	}
	t, ok := ParseTimestamp(v)
	if !ok {
		r.fail(col)
	}
	return t
}

func (r *rowReader) float(col string) float64 {
	v := r.str(col)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.fail(col)
		return 0
	}
	return f
}

// integer accepts integral floats ("40.0") as exported by spreadsheet tools
func (r *rowReader) integer(col string) int {
	return int(r.float(col))
}
