package report

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Float is a statistic that may be undefined. Non-finite values encode as
// null in JSON and YAML and render as an empty cell.
type Float float64

// Valid reports whether the value is finite.
func (f Float) Valid() bool {
	v := float64(f)
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(f))
}

// UnmarshalJSON implements json.Unmarshaler. null decodes as NaN.
func (f *Float) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*f = Float(math.NaN())
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (f Float) MarshalYAML() (any, error) {
	if !f.Valid() {
		return nil, nil
	}
	return float64(f), nil
}

// String formats the value with at most four decimals. Values too small
// for that use four significant digits instead.
func (f Float) String() string {
	if !f.Valid() {
		return ""
	}
	v := float64(f)
	switch {
	case v == 0:
		return "0"
	case math.Abs(v) < 1e-4:
		return strconv.FormatFloat(v, 'g', 4, 64)
	}
	s := strconv.FormatFloat(v, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
