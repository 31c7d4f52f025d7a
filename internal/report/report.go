// Package report builds the exploratory data analysis report for a frame:
// a dataset overview plus one summary per column.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/walkabout-eda/walkabout/internal/dataset"
	"github.com/walkabout-eda/walkabout/internal/support"
)

// Report is the result of profiling one dataset.
type Report struct {
	ID             string           `json:"id" yaml:"id"`
	Source         string           `json:"source" yaml:"source"`
	CreatedAt      time.Time        `json:"created_at" yaml:"created_at"`
	Rows           int              `json:"rows" yaml:"rows"`
	Columns        int              `json:"columns" yaml:"columns"`
	DuplicateRows  int              `json:"duplicate_rows" yaml:"duplicate_rows"`
	MissingCells   int              `json:"missing_cells" yaml:"missing_cells"`
	MissingPercent Float            `json:"missing_percent" yaml:"missing_percent"`
	Numeric        []NumericSummary `json:"numeric" yaml:"numeric"`
	Text           []TextSummary    `json:"text" yaml:"text"`
}

// NumericSummary describes a numeric column.
type NumericSummary struct {
	Name                string `json:"name" yaml:"name"`
	Count               int    `json:"count" yaml:"count"`
	Missing             int    `json:"missing" yaml:"missing"`
	MissingPercent      Float  `json:"missing_percent" yaml:"missing_percent"`
	Unique              int    `json:"unique" yaml:"unique"`
	Mean                Float  `json:"mean" yaml:"mean"`
	Std                 Float  `json:"std" yaml:"std"`
	Min                 Float  `json:"min" yaml:"min"`
	Q1                  Float  `json:"q1" yaml:"q1"`
	Median              Float  `json:"median" yaml:"median"`
	Q3                  Float  `json:"q3" yaml:"q3"`
	Max                 Float  `json:"max" yaml:"max"`
	Trimean             Float  `json:"trimean" yaml:"trimean"`
	VarianceCoefficient Float  `json:"variance_coefficient" yaml:"variance_coefficient"`
	Outliers            int    `json:"outliers" yaml:"outliers"`

	Declared `yaml:",inline"`
}

// TextSummary describes a text column.
type TextSummary struct {
	Name           string `json:"name" yaml:"name"`
	Count          int    `json:"count" yaml:"count"`
	Missing        int    `json:"missing" yaml:"missing"`
	MissingPercent Float  `json:"missing_percent" yaml:"missing_percent"`
	Unique         int    `json:"unique" yaml:"unique"`
	Top            string `json:"top,omitempty" yaml:"top,omitempty"`
	TopFreq        int    `json:"top_freq" yaml:"top_freq"`

	Declared `yaml:",inline"`
}

// Declared is the column definition recorded by the database, when the
// dataset came from a table or file.
type Declared struct {
	SQLType  string `json:"sql_type,omitempty" yaml:"sql_type,omitempty"`
	Nullable *bool  `json:"nullable,omitempty" yaml:"nullable,omitempty"`
}

func declared(col *dataset.Column) Declared {
	if col.SQLType == "" {
		return Declared{}
	}
	nullable := col.Nullable
	return Declared{SQLType: col.SQLType, Nullable: &nullable}
}

// Describe returns the declared type, suffixed with NOT NULL when the
// column does not accept nulls.
func (d Declared) Describe() string {
	if d.Nullable != nil && !*d.Nullable {
		return d.SQLType + " NOT NULL"
	}
	return d.SQLType
}

// Options controls how a report is built.
type Options struct {
	// Source is recorded in the report.
	Source string
	// Workers bounds how many columns are summarised at once.
	// Zero uses GOMAXPROCS.
	Workers int
	// InclusiveOutliers keeps values lying exactly on an IQR fence.
	InclusiveOutliers bool
	Logger            *slog.Logger
}

// columnResult holds either summary for one column slot.
type columnResult struct {
	numeric *NumericSummary
	text    *TextSummary
}

// Build profiles f. Column summaries are computed concurrently but appear
// in the report in frame order.
func Build(ctx context.Context, f *dataset.Frame, opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	started := time.Now()
	results := make([]columnResult, len(f.Columns))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, col := range f.Columns {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			switch col.Kind {
			case dataset.KindNumeric:
				s := summariseNumeric(col, f.Rows, opts.InclusiveOutliers)
				results[i].numeric = &s
			default:
				s := summariseText(col, f.Rows)
				results[i].text = &s
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}

	r := &Report{
		ID:            uuid.New().String(),
		Source:        opts.Source,
		CreatedAt:     time.Now().UTC(),
		Rows:          f.Rows,
		Columns:       len(f.Columns),
		DuplicateRows: dataset.DuplicateRows(f),
		MissingCells:  f.MissingCells(),
		Numeric:       []NumericSummary{},
		Text:          []TextSummary{},
	}
	r.MissingPercent = percent(r.MissingCells, r.Rows*r.Columns)
	for _, res := range results {
		if res.numeric != nil {
			r.Numeric = append(r.Numeric, *res.numeric)
		}
		if res.text != nil {
			r.Text = append(r.Text, *res.text)
		}
	}

	logger.Debug("report built",
		"source", opts.Source,
		"rows", r.Rows,
		"columns", r.Columns,
		"workers", workers,
		"elapsed", time.Since(started))
	return r, nil
}

func percent(part, whole int) Float {
	if whole == 0 {
		return 0
	}
	return Float(100 * float64(part) / float64(whole))
}

func summariseNumeric(col *dataset.Column, rows int, inclusive bool) NumericSummary {
	missing := col.Missing()
	s := NumericSummary{
		Name:           col.Name,
		Declared:       declared(col),
		Count:          rows - missing,
		Missing:        missing,
		MissingPercent: percent(missing, rows),
	}

	distinct := make(map[float64]struct{})
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range col.Num {
		if math.IsNaN(v) {
			continue
		}
		distinct[v] = struct{}{}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	s.Unique = len(distinct)
	if s.Count == 0 {
		lo, hi = math.NaN(), math.NaN()
	}

	q1, q2, q3 := support.Quartiles(col.Num)
	s.Mean = Float(support.Mean(col.Num))
	s.Std = Float(support.Std(col.Num))
	s.Min = Float(lo)
	s.Q1 = Float(q1)
	s.Median = Float(q2)
	s.Q3 = Float(q3)
	s.Max = Float(hi)
	s.Trimean = Float(support.Trimean(col.Num))
	s.VarianceCoefficient = Float(support.VarianceCoefficient(col.Num))
	s.Outliers = support.CountTrue(support.OutlierMask(col.Num, inclusive))
	return s
}

func summariseText(col *dataset.Column, rows int) TextSummary {
	missing := col.Missing()
	s := TextSummary{
		Name:           col.Name,
		Declared:       declared(col),
		Count:          rows - missing,
		Missing:        missing,
		MissingPercent: percent(missing, rows),
	}

	freq := make(map[string]int)
	for i, v := range col.Text {
		if !col.Null[i] {
			freq[v]++
		}
	}
	s.Unique = len(freq)

	// Most frequent value; ties go to the lexically smallest.
	values := make([]string, 0, len(freq))
	for v := range freq {
		values = append(values, v)
	}
	sort.Strings(values)
	for _, v := range values {
		if freq[v] > s.TopFreq {
			s.Top, s.TopFreq = v, freq[v]
		}
	}
	return s
}

// Outlier is a single flagged value.
type Outlier struct {
	Row   int     `json:"row"`
	Value float64 `json:"value"`
}

// OutlierResult lists the outliers of one column with the fences used.
type OutlierResult struct {
	Column    string    `json:"column"`
	Lower     Float     `json:"lower"`
	Upper     Float     `json:"upper"`
	Inclusive bool      `json:"inclusive"`
	Outliers  []Outlier `json:"outliers"`
}

// Rows returns the row positions of the flagged values in order.
func (r *OutlierResult) Rows() []int {
	rows := make([]int, len(r.Outliers))
	for i, o := range r.Outliers {
		rows[i] = o.Row
	}
	return rows
}

// Outliers returns the IQR outliers of a numeric column. Rows are zero
// based positions in f.
func Outliers(f *dataset.Frame, column string, inclusive bool) (*OutlierResult, error) {
	col, err := f.Column(column)
	if err != nil {
		return nil, err
	}
	if col.Kind != dataset.KindNumeric {
		return nil, &dataset.ColumnError{Column: column, Reason: "is not numeric"}
	}

	lower, upper := support.Fences(col.Num)
	res := &OutlierResult{
		Column:    column,
		Lower:     Float(lower),
		Upper:     Float(upper),
		Inclusive: inclusive,
		Outliers:  []Outlier{},
	}
	for i, flagged := range support.OutlierMask(col.Num, inclusive) {
		if flagged {
			res.Outliers = append(res.Outliers, Outlier{Row: i, Value: col.Num[i]})
		}
	}
	return res, nil
}
