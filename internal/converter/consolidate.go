package converter

import (
	"context"
	"errors"
	"fmt"

	"github.com/nconklindev/csvbook/internal/logging"
	"github.com/nconklindev/csvbook/internal/types"
)

// workbookSink appends each table as the next sheet of one shared workbook.
type workbookSink struct {
	w           *WorkbookWriter
	namer       *SheetNamer
	customNames bool
}

func (s *workbookSink) add(position int, item types.InputItem, table *types.Table) error {
	name := DefaultSheetName(position)
	if s.customNames {
		name = SanitizeSheetName(item.Name, position)
	}
	return s.w.AddSheet(types.SheetSpec{Name: s.namer.Unique(name), Table: table})
}

// Consolidate converts every item into a sheet of a single workbook, in
// input order. Sheets are named Sheet1, Sheet2, ... unless CustomNames is
// set, in which case they are named after their sanitized source files.
// The first item that fails aborts the whole request.
func Consolidate(ctx context.Context, items []types.InputItem, opts Options) (*types.WorkbookResult, error) {
	opts = opts.withDefaults()
	if err := checkDelimiter(opts.Delimiter); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, &WriteError{Err: errors.New("no input files to consolidate")}
	}

	logger := logging.ForRun(opts.Logger, "mode", "single", "items", len(items), "delimiter", opts.Delimiter.Name())
	logger.Info("batch started")

	w := NewWorkbookWriter(opts.workbookOptions())
	defer w.Close()

	s := &workbookSink{w: w, namer: NewSheetNamer(), customNames: opts.CustomNames}
	progress := newProgressCounter(len(items), opts.Reporter)

	// Items share one writer, so they run strictly in order.
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("consolidation cancelled: %w", err)
		}
		if err := process(i+1, item, opts.Delimiter, s); err != nil {
			logger.Error("file failed, aborting", "file", item.Name, "error", err)
			return nil, fmt.Errorf("error processing file %s (%d of %d): %w", item.Name, i+1, len(items), err)
		}
		logger.Debug("sheet added", "file", item.Name, "sheet", w.sheets[len(w.sheets)-1])
		progress.finish()
	}

	data, err := w.Bytes()
	if err != nil {
		return nil, &IOError{Op: "assembling workbook", Err: err}
	}
	progress.complete()

	logger.Info("batch finished", "sheets", len(w.sheets), "bytes", len(data))
	return &types.WorkbookResult{
		Name:   opts.OutputName + ".xlsx",
		Data:   data,
		Sheets: w.Sheets(),
	}, nil
}
