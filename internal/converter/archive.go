package converter

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nconklindev/csvbook/internal/logging"
	"github.com/nconklindev/csvbook/internal/types"

	"golang.org/x/sync/errgroup"
)

// archiveSink renders each table as its own workbook and adds it to a
// shared zip. Workbooks are built in parallel; zip writes are serialized.
type archiveSink struct {
	mu      sync.Mutex
	zw      *zip.Writer
	names   []string
	entries []string
	opts    WorkbookOptions
}

func (s *archiveSink) add(position int, item types.InputItem, table *types.Table) error {
	data, err := WriteSingleSheet(table, s.opts)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := s.names[position-1]
	f, err := s.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: time.Now(),
	})
	if err != nil {
		return &IOError{Op: "adding " + name + " to archive", Err: err}
	}
	if _, err := f.Write(data); err != nil {
		return &IOError{Op: "writing " + name + " to archive", Err: err}
	}
	s.entries = append(s.entries, name)
	return nil
}

// EntryNames returns the archive entry name for each item: the source base
// name with an .xlsx extension. Later items whose name is already taken get
// a "_N" suffix, so names depend only on input order.
func EntryNames(items []types.InputItem) []string {
	names := make([]string, len(items))
	used := make(map[string]bool, len(items))

	for i, item := range items {
		base := BaseName(item.Name)
		if base == "" {
			base = fmt.Sprintf("file%d", i+1)
		}
		name := base + ".xlsx"
		for n := 2; used[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s_%d.xlsx", base, n)
		}
		used[strings.ToLower(name)] = true
		names[i] = name
	}

	return names
}

// Archive converts every item to a single-sheet workbook and packs the
// workbooks into one deflate-compressed zip. An item that fails is recorded
// in the result's Failures and left out of the archive; the rest of the
// batch still runs. The returned error is reserved for cancellation and
// archive assembly failures.
func Archive(ctx context.Context, items []types.InputItem, opts Options) (*types.ArchiveResult, error) {
	opts = opts.withDefaults()
	if err := checkDelimiter(opts.Delimiter); err != nil {
		return nil, err
	}

	logger := logging.ForRun(opts.Logger, "mode", "multi", "items", len(items), "delimiter", opts.Delimiter.Name())
	if opts.CustomNames {
		logger.Debug("custom names do not change archive entry names")
	}
	logger.Info("batch started", "workers", opts.Workers)

	buf := new(bytes.Buffer)
	s := &archiveSink{
		zw:    zip.NewWriter(buf),
		names: EntryNames(items),
		opts:  opts.workbookOptions(),
	}
	progress := newProgressCounter(len(items), opts.Reporter)

	type indexed struct {
		position int
		failure  types.Failure
	}
	var (
		failMu   sync.Mutex
		failures []indexed
	)

	g := new(errgroup.Group)
	g.SetLimit(opts.Workers)

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			break
		}
		position := i + 1
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			started := time.Now()
			if err := process(position, item, opts.Delimiter, s); err != nil {
				logger.Warn("file failed", "file", item.Name, "error", err)
				failMu.Lock()
				failures = append(failures, indexed{position, types.Failure{Source: item.Name, Err: err}})
				failMu.Unlock()
			} else {
				logger.Debug("file converted", "file", item.Name, "entry", s.names[position-1], "duration", time.Since(started))
			}

			progress.finish()
			return nil
		})
	}

	waitErr := g.Wait()
	if waitErr == nil {
		waitErr = ctx.Err()
	}
	if waitErr != nil {
		s.zw.Close()
		logger.Warn("batch cancelled", "error", waitErr)
		return nil, fmt.Errorf("archive cancelled: %w", waitErr)
	}

	if err := s.zw.Close(); err != nil {
		return nil, &IOError{Op: "closing archive", Err: err}
	}
	progress.complete()

	sort.Slice(failures, func(a, b int) bool { return failures[a].position < failures[b].position })
	result := &types.ArchiveResult{
		Name:     opts.OutputName + ".zip",
		Data:     buf.Bytes(),
		Entries:  s.entries,
		Failures: make([]types.Failure, len(failures)),
	}
	for i, f := range failures {
		result.Failures[i] = f.failure
	}

	logger.Info("batch finished", "entries", len(result.Entries), "failures", len(result.Failures), "bytes", len(result.Data))
	return result, nil
}
