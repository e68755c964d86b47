// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pdiddy/factor-engine/pkg/types"
)

// fieldCount is the number of tab-separated fields in a factor row:
// country-of-origin, material-class, specific-material, emission-factor.
const fieldCount = 4

// RowError reports a row that could not be promoted into a Factor. It is the
// non-fatal error class: callers skip the row, log the error, and continue.
type RowError struct {
	// Line is the 1-based line number in the input.
	Line int

	// Fields holds the row's original text fields, unmodified.
	Fields []string

	// Err is the underlying cause.
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d [%s]: %v", e.Line, strings.Join(e.Fields, " | "), e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// ParseRow parses one tab-separated input line into a Factor. The line must
// have exactly four fields and the fourth must be a base-10 float in decimal
// or scientific notation. The three text fields are copied verbatim, empty
// strings included. Any failure is returned as a *RowError.
func ParseRow(line string, lineNum int) (types.Factor, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != fieldCount {
		return types.Factor{}, &RowError{
			Line:   lineNum,
			Fields: fields,
			Err:    fmt.Errorf("expected %d fields, got %d", fieldCount, len(fields)),
		}
	}

	value, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return types.Factor{}, &RowError{
			Line:   lineNum,
			Fields: fields,
			Err:    fmt.Errorf("emission factor %q is not a number", fields[3]),
		}
	}

	// ParseFloat accepts "Inf" and "NaN" but JSON cannot carry them, and a
	// document that fails to round-trip is worse than a skipped row.
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return types.Factor{}, &RowError{
			Line:   lineNum,
			Fields: fields,
			Err:    fmt.Errorf("emission factor %q is not finite", fields[3]),
		}
	}

	return types.Factor{
		CountryOfOrigin:  fields[0],
		MaterialClass:    fields[1],
		SpecificMaterial: fields[2],
		EmissionFactor:   value,
	}, nil
}
