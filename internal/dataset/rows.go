package dataset

import (
	"database/sql"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"time"
)

// FromRows reads every remaining row of a result set into a frame.
//
// A column becomes numeric when each of its non-null values is an integer,
// float, big integer or decimal. Every other column is text: strings and
// byte slices are kept verbatim, timestamps are formatted as RFC 3339 and
// other values use their fmt form. The caller still owns rows and must
// close it.
func FromRows(rows *sql.Rows) (*Frame, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	raw := make([][]any, len(names))
	for rows.Next() {
		values := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			raw[i] = append(raw[i], v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	columns := make([]*Column, len(names))
	for i, name := range names {
		columns[i] = buildColumn(name, raw[i])
	}
	return New(columns...)
}

func buildColumn(name string, values []any) *Column {
	if num, ok := asNumbers(values); ok {
		return NewNumeric(name, num)
	}

	text := make([]string, len(values))
	null := make([]bool, len(values))
	for i, v := range values {
		if v == nil {
			null[i] = true
			continue
		}
		text[i] = formatValue(v)
	}
	return NewText(name, text, null)
}

// asNumbers converts values when every non-null value is numeric. A column
// of only nulls is not numeric.
func asNumbers(values []any) ([]float64, bool) {
	out := make([]float64, len(values))
	present := 0
	for i, v := range values {
		if v == nil {
			out[i] = math.NaN()
			continue
		}
		f, ok := toFloat(v)
		if !ok {
			return nil, false
		}
		out[i] = f
		present++
	}
	return out, present > 0
}

// float64er matches decimal types such as the DuckDB driver's Decimal.
type float64er interface {
	Float64() float64
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case *big.Int:
		f, _ := new(big.Float).SetInt(n).Float64()
		return f, true
	case float64er:
		return n.Float64(), true
	default:
		return 0, false
	}
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
