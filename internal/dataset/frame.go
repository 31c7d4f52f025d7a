// Package dataset provides the in-memory columnar frame that every analysis
// in walkabout operates on, plus loaders that materialise frames from
// database adapters.
//
// A frame holds two kinds of columns. Numeric columns store float64 values
// and mark missing entries with NaN. Text columns store strings alongside a
// null mask, so an empty string and a missing value stay distinguishable.
package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the storage kind of a column.
type Kind int

// Column kinds.
const (
	KindText Kind = iota
	KindNumeric
)

// String returns the kind name used in reports.
func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Column is a single named column of a frame.
type Column struct {
	Name string
	Kind Kind

	// Num holds values for numeric columns. NaN marks a missing value.
	Num []float64

	// Text and Null hold values for text columns.
	Text []string
	Null []bool

	// SQLType and Nullable describe the declared database column. SQLType
	// is empty when the column came from a query.
	SQLType  string
	Nullable bool
}

// NewNumeric creates a numeric column.
func NewNumeric(name string, values []float64) *Column {
	return &Column{Name: name, Kind: KindNumeric, Num: values}
}

// NewText creates a text column. A nil null mask means no value is missing.
func NewText(name string, values []string, null []bool) *Column {
	if null == nil {
		null = make([]bool, len(values))
	}
	return &Column{Name: name, Kind: KindText, Text: values, Null: null}
}

// Len returns the number of values in the column.
func (c *Column) Len() int {
	if c.Kind == KindNumeric {
		return len(c.Num)
	}
	return len(c.Text)
}

// IsMissing reports whether the value at row i is missing.
func (c *Column) IsMissing(i int) bool {
	if c.Kind == KindNumeric {
		return math.IsNaN(c.Num[i])
	}
	return c.Null[i]
}

// Missing returns the number of missing values.
func (c *Column) Missing() int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			n++
		}
	}
	return n
}

// Format returns the display form of the value at row i. Missing values
// format as the empty string.
func (c *Column) Format(i int) string {
	if c.IsMissing(i) {
		return ""
	}
	if c.Kind == KindNumeric {
		return strconv.FormatFloat(c.Num[i], 'g', -1, 64)
	}
	return c.Text[i]
}

// Copy returns a deep copy of the column.
func (c *Column) Copy() *Column {
	out := &Column{Name: c.Name, Kind: c.Kind, SQLType: c.SQLType, Nullable: c.Nullable}
	if c.Num != nil {
		out.Num = append([]float64(nil), c.Num...)
	}
	if c.Text != nil {
		out.Text = append([]string(nil), c.Text...)
		out.Null = append([]bool(nil), c.Null...)
	}
	return out
}

// Frame is an ordered set of equally long columns.
type Frame struct {
	Columns []*Column
	Rows    int
}

// ColumnError is returned when a column lookup fails or a column has the
// wrong kind for an operation.
type ColumnError struct {
	Column string
	Reason string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("column %q: %s", e.Column, e.Reason)
}

// New builds a frame from columns, checking that they all have the same
// length and distinct names.
func New(columns ...*Column) (*Frame, error) {
	f := &Frame{}
	seen := make(map[string]bool, len(columns))
	for i, col := range columns {
		if seen[col.Name] {
			return nil, &ColumnError{Column: col.Name, Reason: "duplicate column name"}
		}
		seen[col.Name] = true

		if i == 0 {
			f.Rows = col.Len()
		} else if col.Len() != f.Rows {
			return nil, &ColumnError{
				Column: col.Name,
				Reason: fmt.Sprintf("has %d values, expected %d", col.Len(), f.Rows),
			}
		}
		f.Columns = append(f.Columns, col)
	}
	return f, nil
}

// MustNew is like New but panics on error. Intended for tests and literals.
func MustNew(columns ...*Column) *Frame {
	f, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return f
}

// Column returns the column with the given name.
func (f *Frame) Column(name string) (*Column, error) {
	for _, col := range f.Columns {
		if col.Name == name {
			return col, nil
		}
	}
	return nil, &ColumnError{Column: name, Reason: "not found"}
}

// Names returns the column names in order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.Columns))
	for i, col := range f.Columns {
		names[i] = col.Name
	}
	return names
}

// Numeric returns the numeric columns in order.
func (f *Frame) Numeric() []*Column {
	return f.ofKind(KindNumeric)
}

// Text returns the text columns in order.
func (f *Frame) Text() []*Column {
	return f.ofKind(KindText)
}

func (f *Frame) ofKind(k Kind) []*Column {
	var out []*Column
	for _, col := range f.Columns {
		if col.Kind == k {
			out = append(out, col)
		}
	}
	return out
}

// Copy returns a deep copy of the frame.
func (f *Frame) Copy() *Frame {
	out := &Frame{Rows: f.Rows, Columns: make([]*Column, len(f.Columns))}
	for i, col := range f.Columns {
		out.Columns[i] = col.Copy()
	}
	return out
}

// Row returns the formatted values of row i.
func (f *Frame) Row(i int) []string {
	row := make([]string, len(f.Columns))
	for j, col := range f.Columns {
		row[j] = col.Format(i)
	}
	return row
}

// MissingCells returns the total number of missing values in the frame.
func (f *Frame) MissingCells() int {
	n := 0
	for _, col := range f.Columns {
		n += col.Missing()
	}
	return n
}

// DuplicateRows returns the number of rows identical to an earlier row.
// Missing values compare equal to each other.
func DuplicateRows(f *Frame) int {
	seen := make(map[string]struct{}, f.Rows)
	dups := 0
	var b strings.Builder
	for i := 0; i < f.Rows; i++ {
		b.Reset()
		for _, col := range f.Columns {
			if col.IsMissing(i) {
				b.WriteString("\x00N")
			} else {
				b.WriteString("\x00V")
				b.WriteString(col.Format(i))
			}
		}
		key := b.String()
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

// Reinfer converts text columns whose non-missing values all parse as
// numbers into numeric columns. Columns with no non-missing values stay
// text. It returns a new frame; f is not modified.
func Reinfer(f *Frame) *Frame {
	out := f.Copy()
	for i, col := range out.Columns {
		if col.Kind != KindText {
			continue
		}
		if num, ok := parseNumeric(col); ok {
			c := NewNumeric(col.Name, num)
			c.SQLType, c.Nullable = col.SQLType, col.Nullable
			out.Columns[i] = c
		}
	}
	return out
}

func parseNumeric(col *Column) ([]float64, bool) {
	num := make([]float64, len(col.Text))
	present := 0
	for i, s := range col.Text {
		if col.Null[i] {
			num[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(v) {
			return nil, false
		}
		num[i] = v
		present++
	}
	return num, present > 0
}
