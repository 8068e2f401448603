package converter

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseTable(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		delim   Delimiter
		columns []string
		rows    [][]string
	}{
		{
			name:    "Semicolon",
			input:   "a;b\n1;2\n3;4",
			delim:   Semicolon,
			columns: []string{"a", "b"},
			rows:    [][]string{{"1", "2"}, {"3", "4"}},
		},
		{
			name:    "Tab",
			input:   "a\tb\nx\ty\n",
			delim:   Tab,
			columns: []string{"a", "b"},
			rows:    [][]string{{"x", "y"}},
		},
		{
			name:    "Pipe with CRLF",
			input:   "a|b\r\n1|2\r\n",
			delim:   Pipe,
			columns: []string{"a", "b"},
			rows:    [][]string{{"1", "2"}},
		},
		{
			name:    "Short rows padded",
			input:   "a,b,c\n1\n2,3\n",
			delim:   Comma,
			columns: []string{"a", "b", "c"},
			rows:    [][]string{{"1", "", ""}, {"2", "3", ""}},
		},
		{
			name:    "Blank lines skipped",
			input:   "a,b\n\n1,2\n\n",
			delim:   Comma,
			columns: []string{"a", "b"},
			rows:    [][]string{{"1", "2"}},
		},
		{
			name:    "Quoted delimiter kept in cell",
			input:   "a,b\n\"1,234\",x\n",
			delim:   Comma,
			columns: []string{"a", "b"},
			rows:    [][]string{{"1,234", "x"}},
		},
		{
			name:    "Header only",
			input:   "a,b\n",
			delim:   Comma,
			columns: []string{"a", "b"},
			rows:    [][]string{},
		},
		{
			name:    "Single column without other delimiters",
			input:   "name\nalice\nbob\n",
			delim:   Comma,
			columns: []string{"name"},
			rows:    [][]string{{"alice"}, {"bob"}},
		},
		{
			name:    "Duplicate and blank headers",
			input:   "a,a,,a\n1,2,3,4\n",
			delim:   Comma,
			columns: []string{"a", "a.1", "Unnamed: 2", "a.2"},
			rows:    [][]string{{"1", "2", "3", "4"}},
		},
		{
			name:    "UTF-8 BOM stripped",
			input:   "\xEF\xBB\xBFa,b\n1,2\n",
			delim:   Comma,
			columns: []string{"a", "b"},
			rows:    [][]string{{"1", "2"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTable([]byte(tt.input), tt.delim)
			if err != nil {
				t.Fatalf("ParseTable() error = %v", err)
			}
			if !reflect.DeepEqual(got.Columns, tt.columns) {
				t.Errorf("Columns = %q; want %q", got.Columns, tt.columns)
			}
			if !reflect.DeepEqual(got.Rows, tt.rows) {
				t.Errorf("Rows = %q; want %q", got.Rows, tt.rows)
			}
		})
	}
}

func TestParseTable_RowMapping(t *testing.T) {
	got, err := ParseTable([]byte("a;b\n1;2\n3;4"), Semicolon)
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}

	want := []map[string]string{{"a": "1", "b": "2"}, {"a": "3", "b": "4"}}
	for i := range want {
		if row := got.Row(i); !reflect.DeepEqual(row, want[i]) {
			t.Errorf("Row(%d) = %v; want %v", i, row, want[i])
		}
	}
}

func TestParseTable_UTF16(t *testing.T) {
	// "a,b\n1,2\n" as UTF-16LE with BOM
	input := []byte{0xFF, 0xFE}
	for _, r := range "a,b\n1,2\n" {
		input = append(input, byte(r), 0)
	}

	got, err := ParseTable(input, Comma)
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}
	if !reflect.DeepEqual(got.Columns, []string{"a", "b"}) {
		t.Errorf("Columns = %q; want [a b]", got.Columns)
	}
	if !reflect.DeepEqual(got.Rows, [][]string{{"1", "2"}}) {
		t.Errorf("Rows = %q; want [[1 2]]", got.Rows)
	}
}

func TestParseTable_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		delim Delimiter
		want  error
	}{
		{"Empty", []byte{}, Comma, ErrEmptyInput},
		{"Whitespace only", []byte("  \n\n"), Comma, ErrEmptyInput},
		{"Invalid UTF-8", []byte{'a', ',', 0xC3, 0x28, '\n'}, Comma, ErrUndecodable},
		{"NUL bytes", []byte("a,b\x00\n1,2\n"), Comma, ErrUndecodable},
		{"Wrong delimiter", []byte("a,b\n1,2\n"), Semicolon, ErrBadDelimiter},
		{"Unsupported delimiter", []byte("a:b\n1:2\n"), Delimiter(":"), ErrBadDelimiter},
		{"Too many fields", []byte("a,b\n1,2,3\n"), Comma, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTable(tt.input, tt.delim)
			if err == nil {
				t.Fatal("ParseTable() expected error")
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Errorf("error %v is not a *ParseError", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v; want %v", err, tt.want)
			}
		})
	}
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		input   string
		want    Delimiter
		wantErr bool
	}{
		{",", Comma, false},
		{";", Semicolon, false},
		{"|", Pipe, false},
		{"\t", Tab, false},
		{"tab", Tab, false},
		{"TAB", Tab, false},
		{`\t`, Tab, false},
		{":", "", true},
		{"", "", true},
		{",,", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDelimiter(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDelimiter(%q) error = %v; wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDelimiter(%q) = %q; want %q", tt.input, got, tt.want)
			}
		})
	}
}
