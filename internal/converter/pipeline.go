package converter

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/nconklindev/csvbook/internal/types"
)

// Options configures a batch conversion.
type Options struct {
	Delimiter Delimiter
	// CustomNames names consolidated sheets after their source files
	// instead of Sheet1, Sheet2, ... It has no effect on archive entries.
	CustomNames       bool
	AdjustColumnWidth bool
	// OutputName is the archive or workbook name without extension.
	OutputName string
	// Workers bounds concurrent conversions in archive mode.
	Workers  int
	Reporter ProgressReporter
	Logger   *slog.Logger
}

const DefaultOutputName = "converted_files"

func (o Options) withDefaults() Options {
	if o.Delimiter == "" {
		o.Delimiter = Comma
	}
	if o.OutputName == "" {
		o.OutputName = DefaultOutputName
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Reporter == nil {
		o.Reporter = nopReporter{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

func (o Options) workbookOptions() WorkbookOptions {
	return WorkbookOptions{AdjustColumnWidth: o.AdjustColumnWidth}
}

// sink receives each converted table. position is the 1-based index of
// the item in its batch.
type sink interface {
	add(position int, item types.InputItem, table *types.Table) error
}

// LoadTable parses and normalizes one input.
func LoadTable(item types.InputItem, delim Delimiter) (*types.Table, error) {
	table, err := ParseTable(item.Content, delim)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Source = item.Name
		}
		return nil, err
	}
	return NormalizeTable(table), nil
}

// process runs parse, normalize and write for one input.
func process(position int, item types.InputItem, delim Delimiter, s sink) error {
	table, err := LoadTable(item, delim)
	if err != nil {
		return err
	}
	return s.add(position, item, table)
}

func checkDelimiter(d Delimiter) error {
	if !d.Valid() {
		return &ParseError{Err: fmt.Errorf("%w: %q", ErrBadDelimiter, string(d))}
	}
	return nil
}
