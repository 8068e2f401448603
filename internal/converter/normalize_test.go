package converter

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/nconklindev/csvbook/internal/types"
)

func column(t *types.Table, j int) []string {
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[j]
	}
	return out
}

func tableOf(cols []string, values ...[]string) *types.Table {
	rows := make([][]string, len(values[0]))
	for i := range rows {
		rows[i] = make([]string, len(cols))
		for j := range cols {
			rows[i][j] = values[j][i]
		}
	}
	return &types.Table{Columns: cols, Rows: rows}
}

func TestNormalizeTable(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "Numeric column",
			input:    []string{"1", "2.0", "", "NA", "3.50", "1e3", "-0", "007", "+4"},
			expected: []string{"1", "2", "", "", "3.5", "1000", "0", "7", "4"},
		},
		{
			name:     "Text column keeps lookalikes",
			input:    []string{"x", "1,234", "N/A", "5.0"},
			expected: []string{"x", "1,234", "", "5.0"},
		},
		{
			name:     "Mixed column untouched",
			input:    []string{"1", "abc", "2.0"},
			expected: []string{"1", "abc", "2.0"},
		},
		{
			name:     "All missing",
			input:    []string{"", "null", "NaN"},
			expected: []string{"", "", ""},
		},
		{
			name:     "Small and large numbers",
			input:    []string{"1e-7", "0.1", "12345678901234567890"},
			expected: []string{"0.0000001", "0.1", "12345678901234567890"},
		},
		{
			name:     "Integers wider than 64 bits",
			input:    []string{"12345678901234567890123", "42", "-000123456789012345678901234", "+0099999999999999999999"},
			expected: []string{"12345678901234567890123", "42", "-123456789012345678901234", "99999999999999999999"},
		},
		{
			name:     "Hex and infinity are text",
			input:    []string{"0x1F", "inf"},
			expected: []string{"0x1F", "inf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTable(tableOf([]string{"c"}, tt.input))
			if col := column(got, 0); !reflect.DeepEqual(col, tt.expected) {
				t.Errorf("NormalizeTable() = %q; want %q", col, tt.expected)
			}
		})
	}
}

func TestNormalizeTable_DoesNotMutateInput(t *testing.T) {
	in := tableOf([]string{"n"}, []string{"2.0"})
	NormalizeTable(in)
	if in.Rows[0][0] != "2.0" {
		t.Errorf("input mutated: %q", in.Rows[0][0])
	}
}

func TestLoadTable_KeepsLongIDs(t *testing.T) {
	item := types.InputItem{Name: "ids.csv", Content: []byte("id\n12345678901234567890123\n42\n")}

	table, err := LoadTable(item, Comma)
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}
	want := []string{"12345678901234567890123", "42"}
	if got := column(table, 0); !reflect.DeepEqual(got, want) {
		t.Errorf("id column = %q; want %q", got, want)
	}
}

func TestNormalizeTable_Idempotent(t *testing.T) {
	tables := []*types.Table{
		tableOf([]string{"a", "b"}, []string{"1", "2.0"}, []string{"x", "y"}),
		tableOf([]string{"n"}, []string{"1.50", "NA", "-0.0", "3e2"}),
		tableOf([]string{"m"}, []string{"1,234", "None", "abc"}),
		tableOf([]string{"e"}, []string{"", "", ""}),
		tableOf([]string{"id"}, []string{"0012345678901234567890123", "42"}),
	}

	for i, in := range tables {
		once := NormalizeTable(in)
		twice := NormalizeTable(once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("table %d: normalize twice = %q; once = %q", i, twice.Rows, once.Rows)
		}
	}
}

func TestNormalizeCell(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"Nil", nil, ""},
		{"NaN", math.NaN(), ""},
		{"Integral float", 5.0, "5"},
		{"Negative zero", math.Copysign(0, -1), "0"},
		{"Fraction", 2.5, "2.5"},
		{"Large integral float", 1e21, "1000000000000000000000"},
		{"Int", 3, "3"},
		{"Int64", int64(-42), "-42"},
		{"Uint8", uint8(7), "7"},
		{"Float32", float32(1.5), "1.5"},
		{"Bool", true, "true"},
		{"Missing marker", "NA", ""},
		{"String lookalike", "1,234", "1,234"},
		{"String float", "5.0", "5.0"},
		{"Stringer", 90 * time.Second, "1m30s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeCell(tt.input)
			if got != tt.expected {
				t.Errorf("NormalizeCell(%v) = %q; want %q", tt.input, got, tt.expected)
			}
			if again := NormalizeCell(got); again != got {
				t.Errorf("NormalizeCell(%q) = %q; not idempotent", got, again)
			}
		})
	}
}

func TestNormalizeCell_Integral(t *testing.T) {
	for _, v := range []float64{0, 1, -7, 2.0, 1e6, 123456789, -9007199254740992} {
		if got := NormalizeCell(v); strings.Contains(got, ".") {
			t.Errorf("NormalizeCell(%v) = %q; want no decimal point", v, got)
		}
	}
}

func TestNormalizeCell_NonIntegral(t *testing.T) {
	for _, v := range []float64{0.5, -2.25, 3.14159, 1e-7, 123.456} {
		want := strconv.FormatFloat(v, 'f', -1, 64)
		if got := NormalizeCell(v); got != want {
			t.Errorf("NormalizeCell(%v) = %q; want %q", v, got, want)
		}
	}
}

func TestIsMissing(t *testing.T) {
	for _, s := range []string{"", "NA", "N/A", "NaN", "null", "NULL", "None", "#N/A", "<NA>"} {
		if !IsMissing(s) {
			t.Errorf("IsMissing(%q) = false; want true", s)
		}
	}
	for _, s := range []string{"0", " ", "na ", "none", "-"} {
		if IsMissing(s) {
			t.Errorf("IsMissing(%q) = true; want false", s)
		}
	}
}
