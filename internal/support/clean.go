package support

import (
	"math"
	"strconv"
	"strings"

	"github.com/walkabout-eda/walkabout/internal/dataset"
)

// Placeholders are sentinel values that stand in for missing data.
// Strings match text cells exactly. Numbers match numeric cells and text
// cells that parse to the same number, so "-999" in a column that only
// becomes numeric after cleanup is still caught.
type Placeholders struct {
	Numbers []float64
	Strings []string
}

// DefaultPlaceholders returns the sentinels commonly used for missing data.
func DefaultPlaceholders() Placeholders {
	return Placeholders{
		Numbers: []float64{-1, -999, -9999, math.Inf(1)},
		Strings: []string{"None", "none", "missing", "Missing", "Null", "null", "?", "inf"},
	}
}

// ParsePlaceholders builds placeholders from configuration tokens. Every
// token matches text cells verbatim; tokens that parse as numbers
// (including "inf") match numeric cells as well.
func ParsePlaceholders(tokens []string) Placeholders {
	var p Placeholders
	for _, tok := range tokens {
		if v, ok := parsePlaceholderNumber(strings.TrimSpace(tok)); ok {
			p.Numbers = append(p.Numbers, v)
		}
		p.Strings = append(p.Strings, tok)
	}
	return p
}

func parsePlaceholderNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Empty reports whether there are no placeholders.
func (p Placeholders) Empty() bool {
	return len(p.Numbers) == 0 && len(p.Strings) == 0
}

// PlaceholdToMissing returns a copy of f with every placeholder value
// replaced by a missing value.
func PlaceholdToMissing(f *dataset.Frame, p Placeholders) *dataset.Frame {
	out := f.Copy()

	nums := make(map[float64]struct{}, len(p.Numbers))
	for _, v := range p.Numbers {
		nums[v] = struct{}{}
	}
	strs := make(map[string]struct{}, len(p.Strings))
	for _, s := range p.Strings {
		strs[s] = struct{}{}
	}

	for _, col := range out.Columns {
		switch col.Kind {
		case dataset.KindNumeric:
			for i, v := range col.Num {
				if _, ok := nums[v]; ok {
					col.Num[i] = math.NaN()
				}
			}
		case dataset.KindText:
			for i, s := range col.Text {
				if col.Null[i] {
					continue
				}
				_, hit := strs[s]
				if !hit {
					if v, ok := parsePlaceholderNumber(s); ok {
						_, hit = nums[v]
					}
				}
				if hit {
					col.Text[i] = ""
					col.Null[i] = true
				}
			}
		}
	}
	return out
}

// StripColumns returns a copy of f with leading and trailing whitespace
// removed from every value of every non-numeric column.
func StripColumns(f *dataset.Frame) *dataset.Frame {
	out := f.Copy()
	for _, col := range out.Text() {
		for i, s := range col.Text {
			col.Text[i] = strings.TrimSpace(s)
		}
	}
	return out
}
