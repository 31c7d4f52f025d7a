package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes f with a header row. Missing values are written as empty
// fields.
func WriteCSV(w io.Writer, f *Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Names()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := 0; i < f.Rows; i++ {
		if err := cw.Write(f.Row(i)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
