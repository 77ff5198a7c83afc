// Package dataset fetches and decodes the shootings CSV and its update metadata.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/fatalstats/internal/model"
)

// Sentinel errors surfaced by the loader.
var (
	ErrFetch    = errors.New("fetch records")
	ErrDecode   = errors.New("decode records")
	ErrSchema   = errors.New("unexpected csv schema")
	ErrMetadata = errors.New("fetch update metadata")
)

var requiredColumns = []string{"date", "state", "race", "age"}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006/01/02"}

// Decoder reads Records from CSV with a header row.
type Decoder struct {
	r    *csv.Reader
	cols map[string]int
	line int
}

// NewDecoder reads the header row from r and locates the required columns.
func NewDecoder(r io.Reader) (*Decoder, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing header row", ErrSchema)
	}
	if err != nil {
		return nil, readError(1, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, ok := cols[name]; !ok {
			cols[name] = i
		}
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", ErrSchema, strings.Join(missing, ", "))
	}
	return &Decoder{r: cr, cols: cols, line: 1}, nil
}

// Next returns the next record, or io.EOF after the last row.
func (d *Decoder) Next() (model.Record, error) {
	row, err := d.r.Read()
	if errors.Is(err, io.EOF) {
		return model.Record{}, io.EOF
	}
	d.line++
	if err != nil {
		return model.Record{}, readError(d.line, err)
	}
	age, hasAge := ParseAge(d.field(row, "age"))
	return model.Record{
		Date:   ParseDate(d.field(row, "date")),
		State:  NormalizeState(d.field(row, "state")),
		Race:   model.ParseRace(d.field(row, "race")),
		Age:    age,
		HasAge: hasAge,
	}, nil
}

// readError classifies malformed CSV as ErrDecode and anything else, such as
// a broken connection, as ErrFetch.
func readError(line int, err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return fmt.Errorf("%w: line %d: %v", ErrDecode, line, err)
	}
	return fmt.Errorf("%w: line %d: %v", ErrFetch, line, err)
}

func (d *Decoder) field(row []string, name string) string {
	idx := d.cols[name]
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

// ReadAll decodes every remaining record.
func (d *Decoder) ReadAll() ([]model.Record, error) {
	var out []model.Record
	for {
		rec, err := d.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

// ParseDate parses the dataset date formats and returns the zero time on failure.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ParseAge parses an age, truncating fractional values. It reports false for
// empty, non-numeric, non-finite or negative input.
func ParseAge(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, false
		}
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// NormalizeState trims and upper-cases an ASCII region code.
func NormalizeState(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		b.WriteByte(ch)
	}
	return b.String()
}
