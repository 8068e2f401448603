package converter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nconklindev/csvbook/internal/types"

	"github.com/xuri/excelize/v2"
)

// defaultSheet is the sheet every new excelize file starts with.
const defaultSheet = "Sheet1"

// WorkbookOptions controls how sheets are rendered.
type WorkbookOptions struct {
	// AdjustColumnWidth sizes each column to its longest cell plus 2.
	AdjustColumnWidth bool
}

// WorkbookWriter serializes tables into one workbook, one sheet per table.
// It is not safe for concurrent use.
type WorkbookWriter struct {
	file   *excelize.File
	opts   WorkbookOptions
	sheets []string
	used   map[string]bool
}

func NewWorkbookWriter(opts WorkbookOptions) *WorkbookWriter {
	return &WorkbookWriter{
		file: excelize.NewFile(),
		opts: opts,
		used: make(map[string]bool),
	}
}

// Sheets returns the sheet names written so far, in order.
func (w *WorkbookWriter) Sheets() []string {
	return append([]string(nil), w.sheets...)
}

// AddSheet writes sheet as the next sheet: header row first, then data rows.
func (w *WorkbookWriter) AddSheet(sheet types.SheetSpec) error {
	if err := w.checkName(sheet.Name); err != nil {
		return &WriteError{Sheet: sheet.Name, Err: err}
	}
	table := sheet.Table
	if table == nil {
		return &WriteError{Sheet: sheet.Name, Err: fmt.Errorf("no table to write")}
	}
	if len(table.Columns) > excelize.MaxColumns {
		return &WriteError{Sheet: sheet.Name, Err: fmt.Errorf("%d columns exceeds the limit of %d", len(table.Columns), excelize.MaxColumns)}
	}
	if len(table.Rows)+1 > excelize.TotalRows {
		return &WriteError{Sheet: sheet.Name, Err: fmt.Errorf("%d rows exceeds the limit of %d", len(table.Rows)+1, excelize.TotalRows)}
	}
	if err := checkCells(table); err != nil {
		return &WriteError{Sheet: sheet.Name, Err: err}
	}

	if len(w.sheets) == 0 {
		if sheet.Name != defaultSheet {
			if err := w.file.SetSheetName(defaultSheet, sheet.Name); err != nil {
				return &WriteError{Sheet: sheet.Name, Err: err}
			}
		}
	} else if _, err := w.file.NewSheet(sheet.Name); err != nil {
		return &WriteError{Sheet: sheet.Name, Err: err}
	}

	if err := w.streamRows(sheet.Name, table); err != nil {
		return &WriteError{Sheet: sheet.Name, Err: err}
	}

	w.sheets = append(w.sheets, sheet.Name)
	w.used[strings.ToLower(sheet.Name)] = true
	return nil
}

// checkCells rejects any header or cell longer than a worksheet cell holds.
func checkCells(table *types.Table) error {
	for j, col := range table.Columns {
		if n := utf8.RuneCountInString(col); n > excelize.TotalCellChars {
			return fmt.Errorf("header of column %d has %d characters, more than the limit of %d", j+1, n, excelize.TotalCellChars)
		}
	}
	for i, row := range table.Rows {
		for j, cell := range row {
			if n := utf8.RuneCountInString(cell); n > excelize.TotalCellChars {
				return fmt.Errorf("cell in row %d, column %d has %d characters, more than the limit of %d", i+2, j+1, n, excelize.TotalCellChars)
			}
		}
	}
	return nil
}

func (w *WorkbookWriter) checkName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrSheetName)
	case utf8.RuneCountInString(name) > MaxSheetNameLength:
		return fmt.Errorf("%w: %q is longer than %d characters", ErrSheetName, name, MaxSheetNameLength)
	case strings.ContainsAny(name, `\/*?:[]`):
		return fmt.Errorf("%w: %q contains a forbidden character", ErrSheetName, name)
	case w.used[strings.ToLower(name)]:
		return fmt.Errorf("%w: %q is already in use", ErrSheetName, name)
	}
	return nil
}

func (w *WorkbookWriter) streamRows(sheet string, table *types.Table) error {
	sw, err := w.file.NewStreamWriter(sheet)
	if err != nil {
		return err
	}

	// Stream writers only accept widths before the first row.
	if w.opts.AdjustColumnWidth {
		for i, width := range ColumnWidths(table) {
			if err := sw.SetColWidth(i+1, i+1, width); err != nil {
				return fmt.Errorf("setting width of column %d: %w", i+1, err)
			}
		}
	}

	if err := w.writeRow(sw, 1, table.Columns); err != nil {
		return err
	}
	for i, row := range table.Rows {
		if err := w.writeRow(sw, i+2, row); err != nil {
			return err
		}
	}

	return sw.Flush()
}

func (w *WorkbookWriter) writeRow(sw *excelize.StreamWriter, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, v := range cells {
		values[i] = v
	}
	if err := sw.SetRow(cell, values); err != nil {
		return fmt.Errorf("row %d: %w", rowNum, err)
	}
	return nil
}

// Bytes serializes the workbook.
func (w *WorkbookWriter) Bytes() ([]byte, error) {
	if len(w.sheets) == 0 {
		return nil, &WriteError{Err: fmt.Errorf("workbook has no sheets")}
	}
	buf, err := w.file.WriteToBuffer()
	if err != nil {
		return nil, &WriteError{Err: err}
	}
	return buf.Bytes(), nil
}

func (w *WorkbookWriter) Close() error {
	return w.file.Close()
}

// ColumnWidths returns the display width of each column: the longest
// header or cell in characters, plus 2, capped at the workbook maximum.
func ColumnWidths(table *types.Table) []float64 {
	widths := make([]float64, len(table.Columns))
	for i, col := range table.Columns {
		longest := utf8.RuneCountInString(col)
		for _, row := range table.Rows {
			if n := utf8.RuneCountInString(row[i]); n > longest {
				longest = n
			}
		}
		widths[i] = min(float64(longest+2), excelize.MaxColumnWidth)
	}
	return widths
}

// WriteSingleSheet renders table as a one-sheet workbook named Sheet1.
func WriteSingleSheet(table *types.Table, opts WorkbookOptions) ([]byte, error) {
	w := NewWorkbookWriter(opts)
	defer w.Close()

	if err := w.AddSheet(types.SheetSpec{Name: defaultSheet, Table: table}); err != nil {
		return nil, err
	}
	return w.Bytes()
}
