// Package features turns a recipe dataset into a binarized feature table:
// mean-filled, rounded and min-max scaled numeric columns plus one-hot
// ingredient indicators.
package features

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dtnitsch/recipe-features/models"
)

// ErrMissingColumn is returned when an operation names a column the table
// does not have.
var ErrMissingColumn = errors.New("missing column")

// Kind is the storage type of a column.
type Kind int

const (
	Text Kind = iota
	Numeric
	Count
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Count:
		return "count"
	}
	return "text"
}

// Column is a named column. Only the slice matching Kind is populated.
// Valid marks present values of a Numeric column.
type Column struct {
	Name    string
	Kind    Kind
	Text    []string
	Numbers []float64
	Valid   []bool
	Counts  []int
}

// Sum returns the total of a Count column, or of the valid values of a
// Numeric column.
func (c *Column) Sum() float64 {
	var s float64
	switch c.Kind {
	case Count:
		for _, v := range c.Counts {
			s += float64(v)
		}
	case Numeric:
		for i, v := range c.Numbers {
			if c.Valid[i] {
				s += v
			}
		}
	}
	return s
}

// Cell renders row i for CSV output. Missing numbers render empty.
func (c *Column) Cell(i int) string {
	switch c.Kind {
	case Numeric:
		if !c.Valid[i] {
			return ""
		}
		return models.FormatFloat(c.Numbers[i])
	case Count:
		return strconv.Itoa(c.Counts[i])
	}
	return c.Text[i]
}

// Table is an ordered set of equally long columns.
type Table struct {
	rows    int
	columns []*Column
}

// NewTable returns an empty table with the given row count.
func NewTable(rows int) *Table {
	return &Table{rows: rows}
}

// Rows returns the row count.
func (t *Table) Rows() int { return t.rows }

// Names returns column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks a column up by name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Columns returns the columns in order. The slice is shared.
func (t *Table) Columns() []*Column { return t.columns }

// Add appends a column, replacing any column of the same name in place.
func (t *Table) Add(c *Column) error {
	n := 0
	switch c.Kind {
	case Text:
		n = len(c.Text)
	case Numeric:
		n = len(c.Numbers)
		if len(c.Valid) != n {
			return fmt.Errorf("column %s: %d values but %d validity flags", c.Name, n, len(c.Valid))
		}
	case Count:
		n = len(c.Counts)
	}
	if n != t.rows {
		return fmt.Errorf("column %s has %d rows, table has %d", c.Name, n, t.rows)
	}
	for i, existing := range t.columns {
		if existing.Name == c.Name {
			t.columns[i] = c
			return nil
		}
	}
	t.columns = append(t.columns, c)
	return nil
}

// AddText appends a text column.
func (t *Table) AddText(name string, values []string) error {
	return t.Add(&Column{Name: name, Kind: Text, Text: values})
}

// AddNumeric appends a numeric column; nil entries are missing.
func (t *Table) AddNumeric(name string, values []*float64) error {
	c := &Column{Name: name, Kind: Numeric, Numbers: make([]float64, len(values)), Valid: make([]bool, len(values))}
	for i, v := range values {
		if v != nil && !math.IsNaN(*v) {
			c.Numbers[i] = *v
			c.Valid[i] = true
		}
	}
	return t.Add(c)
}

// AddCounts appends an integer column.
func (t *Table) AddCounts(name string, values []int) error {
	return t.Add(&Column{Name: name, Kind: Count, Counts: values})
}

// Drop removes the named columns. Unknown names are ignored.
func (t *Table) Drop(names ...string) {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	kept := t.columns[:0]
	for _, c := range t.columns {
		if _, ok := drop[c.Name]; !ok {
			kept = append(kept, c)
		}
	}
	t.columns = kept
}

// CoerceText forces every text cell to valid UTF-8 and unwraps values a
// byte-oriented reader left as b'...' literals.
func (t *Table) CoerceText() {
	for _, c := range t.columns {
		if c.Kind != Text {
			continue
		}
		for i, v := range c.Text {
			v = strings.ToValidUTF8(v, "")
			if len(v) >= 3 && strings.HasPrefix(v, "b'") && strings.HasSuffix(v, "'") {
				v = v[2 : len(v)-1]
			}
			c.Text[i] = v
		}
	}
}

// FillMissingWithMean replaces missing numeric values with the mean of the
// column's present values. A column with no present values is filled with 0.
func (t *Table) FillMissingWithMean() {
	for _, c := range t.columns {
		if c.Kind != Numeric {
			continue
		}
		var sum float64
		var n int
		for i, ok := range c.Valid {
			if ok {
				sum += c.Numbers[i]
				n++
			}
		}
		mean := 0.0
		if n > 0 {
			mean = sum / float64(n)
		}
		for i, ok := range c.Valid {
			if !ok {
				c.Numbers[i] = mean
				c.Valid[i] = true
			}
		}
	}
}

// RoundNumeric rounds every present numeric value to places decimals,
// half to even.
func (t *Table) RoundNumeric(places int) {
	scale := math.Pow(10, float64(places))
	for _, c := range t.columns {
		if c.Kind != Numeric {
			continue
		}
		for i, ok := range c.Valid {
			if ok {
				c.Numbers[i] = math.RoundToEven(c.Numbers[i]*scale) / scale
			}
		}
	}
}

// MinMaxNormalize scales each named numeric column to [0,1] using its own
// minimum and maximum. A constant column becomes all zeros.
func (t *Table) MinMaxNormalize(names ...string) error {
	for _, name := range names {
		c, ok := t.Column(name)
		if !ok {
			return fmt.Errorf("normalize %s: %w", name, ErrMissingColumn)
		}
		if c.Kind != Numeric {
			return fmt.Errorf("normalize %s: column is %s, not numeric", name, c.Kind)
		}

		lo, hi := math.Inf(1), math.Inf(-1)
		for i, v := range c.Numbers {
			if c.Valid[i] {
				lo = math.Min(lo, v)
				hi = math.Max(hi, v)
			}
		}
		span := hi - lo
		for i, v := range c.Numbers {
			if !c.Valid[i] {
				continue
			}
			if span == 0 {
				c.Numbers[i] = 0
			} else {
				c.Numbers[i] = (v - lo) / span
			}
		}
	}
	return nil
}

// WriteCSV writes a header row and one row per record.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	record := make([]string, len(t.columns))
	for i := 0; i < t.rows; i++ {
		for j, c := range t.columns {
			record[j] = c.Cell(i)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
