package types

import "fmt"

// Table is a parsed delimited table. Every row holds exactly one cell per
// column, in column order.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Row returns row i keyed by column name.
func (t *Table) Row(i int) map[string]string {
	row := make(map[string]string, len(t.Columns))
	for j, col := range t.Columns {
		row[col] = t.Rows[i][j]
	}
	return row
}

type InputItem struct {
	Name    string
	Content []byte
}

type SheetSpec struct {
	Name  string
	Table *Table
}

// Failure records an input that could not be converted.
type Failure struct {
	Source string
	Err    error
}

func (f Failure) Error() string {
	return fmt.Sprintf("Error processing file %s: %v", f.Source, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

type ArchiveResult struct {
	Name     string
	Data     []byte
	Entries  []string
	Failures []Failure
}

type WorkbookResult struct {
	Name   string
	Data   []byte
	Sheets []string
}

type Preview struct {
	Columns []string
	Rows    [][]string
}

// Progress is a completed/total pair reported after each input.
type Progress struct {
	Completed int
	Total     int
}

func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 1
	}
	return float64(p.Completed) / float64(p.Total)
}

func (p Progress) Percent() int {
	return int(p.Fraction() * 100)
}
