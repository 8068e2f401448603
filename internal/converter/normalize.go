package converter

import (
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/nconklindev/csvbook/internal/types"
)

// Plain decimal numbers only: no thousands separators, hex or inf.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// missingMarkers are the cell values read as "no value".
var missingMarkers = map[string]struct{}{
	"":         {},
	"NA":       {},
	"N/A":      {},
	"n/a":      {},
	"NaN":      {},
	"nan":      {},
	"-NaN":     {},
	"-nan":     {},
	"NULL":     {},
	"null":     {},
	"None":     {},
	"<NA>":     {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"1.#IND":   {},
	"-1.#IND":  {},
	"1.#QNAN":  {},
	"-1.#QNAN": {},
}

// IsMissing reports whether s is a missing-value marker.
func IsMissing(s string) bool {
	_, ok := missingMarkers[s]
	return ok
}

// IsNumeric reports whether s is a plain finite decimal number.
func IsNumeric(s string) bool {
	return numericRegex.MatchString(strings.TrimSpace(s))
}

// NormalizeTable returns a copy of t with every cell in canonical string
// form. A column whose non-missing cells are all numeric is treated as
// numeric: integral values lose their fractional part and other values use
// their shortest decimal form. Cells in other columns are kept as-is apart
// from missing markers, which become empty.
func NormalizeTable(t *types.Table) *types.Table {
	numeric := numericColumns(t)

	out := &types.Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		normalized := make([]string, len(row))
		for j, cell := range row {
			switch {
			case IsMissing(cell):
				normalized[j] = ""
			case j < len(numeric) && numeric[j]:
				normalized[j] = formatNumber(cell)
			default:
				normalized[j] = cell
			}
		}
		out.Rows[i] = normalized
	}

	return out
}

func numericColumns(t *types.Table) []bool {
	numeric := make([]bool, len(t.Columns))
	for j := range t.Columns {
		seen := false
		ok := true
		for _, row := range t.Rows {
			cell := row[j]
			if IsMissing(cell) {
				continue
			}
			if !IsNumeric(cell) {
				ok = false
				break
			}
			seen = true
		}
		numeric[j] = ok && seen
	}
	return numeric
}

// formatNumber renders a numeric cell. Callers have already checked IsNumeric.
func formatNumber(s string) string {
	s = strings.TrimSpace(s)
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return strconv.FormatInt(i, 10)
		}
		if u, err := strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, 64); err == nil {
			return strconv.FormatUint(u, 10)
		}
		// Too wide for 64 bits: keep every digit.
		if n, ok := new(big.Int).SetString(s, 10); ok {
			return n.String()
		}
		return s
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return formatFloat(f)
}

func formatFloat(f float64) string {
	if f == 0 {
		// Drop the sign of negative zero.
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// NormalizeCell renders a single typed value. Numbers follow the same rules
// as numeric columns; strings only lose missing markers.
func NormalizeCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		if IsMissing(x) {
			return ""
		}
		return x
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		return formatFloat(x)
	case float32:
		return NormalizeCell(float64(x))
	case int:
		return strconv.Itoa(x)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
