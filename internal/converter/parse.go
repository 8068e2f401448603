package converter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/nconklindev/csvbook/internal/types"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Delimiter separates fields within a row.
type Delimiter string

const (
	Comma     Delimiter = ","
	Semicolon Delimiter = ";"
	Tab       Delimiter = "\t"
	Pipe      Delimiter = "|"
)

// Delimiters lists the supported delimiters in menu order.
var Delimiters = []Delimiter{Comma, Semicolon, Tab, Pipe}

// ParseDelimiter accepts a delimiter as typed on a command line.
// "tab" and the escaped form `\t` both select Tab.
func ParseDelimiter(s string) (Delimiter, error) {
	switch strings.ToLower(s) {
	case "tab", `\t`:
		return Tab, nil
	}
	d := Delimiter(s)
	if !d.Valid() {
		return "", fmt.Errorf("%w: unsupported delimiter %q (must be one of , ; | tab)", ErrBadDelimiter, s)
	}
	return d, nil
}

func (d Delimiter) Valid() bool {
	for _, v := range Delimiters {
		if d == v {
			return true
		}
	}
	return false
}

// Name returns a printable name for the delimiter.
func (d Delimiter) Name() string {
	if d == Tab {
		return "tab"
	}
	return string(d)
}

func (d Delimiter) comma() rune {
	r, _ := utf8.DecodeRuneInString(string(d))
	return r
}

// ParseTable reads delimited text into a table. The first record is the
// header; short rows are padded with empty cells.
func ParseTable(content []byte, delim Delimiter) (*types.Table, error) {
	return parseTable(content, delim, -1)
}

// parseTable reads the header and at most limit data records. Records past
// the limit are never read. A negative limit reads everything.
func parseTable(content []byte, delim Delimiter, limit int) (*types.Table, error) {
	if !delim.Valid() {
		return nil, &ParseError{Err: fmt.Errorf("%w: %q", ErrBadDelimiter, string(delim))}
	}

	text, err := decodeText(content)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Err: ErrEmptyInput}
	}

	records, err := readRecords(text, delim, limit)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	if len(records) == 0 {
		return nil, &ParseError{Err: ErrEmptyInput}
	}

	header := records[0]
	if len(header) == 1 && !strings.Contains(text, string(delim)) {
		if alt, ok := likelyDelimiter(text, delim); ok {
			return nil, &ParseError{Err: fmt.Errorf("%w: %q not found, file looks %s-delimited",
				ErrBadDelimiter, delim.Name(), alt.Name())}
		}
	}

	table := &types.Table{
		Columns: uniqueColumns(header),
		Rows:    make([][]string, 0, len(records)-1),
	}

	width := len(table.Columns)
	for i, record := range records[1:] {
		if len(record) > width {
			// Header is line 1; data records follow.
			return nil, &ParseError{Err: fmt.Errorf("expected %d fields in record %d, saw %d", width, i+2, len(record))}
		}
		row := make([]string, width)
		copy(row, record)
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// decodeText converts raw bytes to UTF-8 text, honoring a UTF-8 or UTF-16 BOM.
func decodeText(content []byte) (string, error) {
	utf16 := bytes.HasPrefix(content, []byte{0xFF, 0xFE}) || bytes.HasPrefix(content, []byte{0xFE, 0xFF})
	if !utf16 && !utf8.Valid(content) {
		return "", ErrUndecodable
	}

	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	if bytes.IndexByte(decoded, 0) >= 0 {
		return "", fmt.Errorf("%w: contains NUL bytes", ErrUndecodable)
	}

	return string(decoded), nil
}

func newReader(r io.Reader, delim Delimiter) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = delim.comma()
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader
}

func readRecords(text string, delim Delimiter, limit int) ([][]string, error) {
	reader := newReader(strings.NewReader(text), delim)
	if limit < 0 {
		return reader.ReadAll()
	}

	var records [][]string
	for len(records) <= limit {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// likelyDelimiter reports another supported delimiter that splits the
// first line of text into more than one field.
func likelyDelimiter(text string, chosen Delimiter) (Delimiter, bool) {
	for _, d := range Delimiters {
		if d == chosen || !strings.Contains(text, string(d)) {
			continue
		}
		first, err := newReader(strings.NewReader(text), d).Read()
		if err != nil && !errors.Is(err, io.EOF) {
			continue
		}
		if len(first) > 1 {
			return d, true
		}
	}
	return "", false
}

// uniqueColumns names blank headers "Unnamed: <i>" and suffixes repeated
// names with ".1", ".2", ...
func uniqueColumns(header []string) []string {
	cols := make([]string, len(header))
	used := make(map[string]bool, len(header))
	counts := make(map[string]int)

	for i, h := range header {
		name := h
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if used[name] {
			base := name
			for used[name] {
				counts[base]++
				name = fmt.Sprintf("%s.%d", base, counts[base])
			}
		}
		used[name] = true
		cols[i] = name
	}

	return cols
}
