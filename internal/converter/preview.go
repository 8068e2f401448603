package converter

import (
	"errors"
	"strings"

	"github.com/nconklindev/csvbook/internal/types"
)

// PreviewRows is how many data rows a preview shows.
const PreviewRows = 5

// Preview returns the first rows of an input for display. Only the header
// and PreviewRows records are read, so problems further down the file do not
// show up here. Missing values are blank and every comma is removed from
// cell text. Conversion output never goes through this display rule.
func Preview(item types.InputItem, delim Delimiter) (*types.Preview, error) {
	table, err := parseTable(item.Content, delim, PreviewRows)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Source = item.Name
		}
		return nil, err
	}

	preview := &types.Preview{
		Columns: table.Columns,
		Rows:    make([][]string, len(table.Rows)),
	}
	for i, row := range table.Rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			if IsMissing(cell) {
				continue
			}
			cells[j] = strings.ReplaceAll(cell, ",", "")
		}
		preview.Rows[i] = cells
	}

	return preview, nil
}
