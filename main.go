package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/csvbook/internal/config"
	"github.com/nconklindev/csvbook/internal/converter"
	"github.com/nconklindev/csvbook/internal/logging"
	"github.com/nconklindev/csvbook/internal/types"
	"github.com/nconklindev/csvbook/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type convertFlags struct {
	delimiter   string
	mode        string
	output      string
	outDir      string
	workers     int
	customNames bool
	adjustWidth bool
	tui         bool
	maxFileSize int64
	logLevel    string
	logFormat   string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:          "csvbook",
		Short:        "Convert delimited text files to XLSX workbooks",
		Version:      fmt.Sprintf("%s\ncommit: %s\nbuilt: %s", version, commit, date),
		SilenceUsage: true,
	}
	root.AddCommand(newConvertCmd(cfg), newPreviewCmd(cfg))
	return root
}

func newConvertCmd(cfg *config.Config) *cobra.Command {
	f := convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert [files...]",
		Short: "Convert files into a zip of workbooks or one multi-sheet workbook",
		Long: `convert reads each delimited file and either writes one workbook per
file into <output>.zip (--mode multi) or one sheet per file into
<output>.xlsx (--mode single).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, f, args)
		},
	}

	c := cfg.Convert
	cmd.Flags().StringVarP(&f.delimiter, "delimiter", "d", c.Delimiter, "Field delimiter: , ; | or tab")
	cmd.Flags().StringVarP(&f.mode, "mode", "m", c.Mode, "Output mode: multi (zip) or single (one workbook)")
	cmd.Flags().StringVarP(&f.output, "output", "o", c.OutputName, "Output file name without extension")
	cmd.Flags().StringVar(&f.outDir, "out-dir", c.OutputDir, "Directory to write the output file to")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", c.Workers, "Parallel conversions in multi mode")
	cmd.Flags().BoolVar(&f.customNames, "custom-names", c.CustomNames, "Name sheets after their source files (single mode)")
	cmd.Flags().BoolVar(&f.adjustWidth, "adjust-width", c.AdjustColumnWidth, "Fit column widths to content")
	cmd.Flags().BoolVar(&f.tui, "tui", false, "Show an interactive progress view")
	cmd.Flags().Int64Var(&f.maxFileSize, "max-file-size", c.MaxFileSize, "Largest accepted input file in bytes")
	cmd.Flags().StringVar(&f.logLevel, "log-level", cfg.Logging.Level, "Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&f.logFormat, "log-format", cfg.Logging.Format, "Log format: text or json")

	return cmd
}

func newPreviewCmd(cfg *config.Config) *cobra.Command {
	var delimiter string

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Show the first rows of a delimited file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			delim, err := converter.ParseDelimiter(delimiter)
			if err != nil {
				return err
			}
			items, err := readInputs(args, cfg.Convert.MaxFileSize)
			if err != nil {
				return err
			}
			p, err := converter.Preview(items[0], delim)
			if err != nil {
				return fmt.Errorf("error loading the file: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderPreview(filepath.Base(args[0]), p))
			return nil
		},
	}
	cmd.Flags().StringVarP(&delimiter, "delimiter", "d", cfg.Convert.Delimiter, "Field delimiter: , ; | or tab")

	return cmd
}

func runConvert(cmd *cobra.Command, f convertFlags, args []string) error {
	delim, err := converter.ParseDelimiter(f.delimiter)
	if err != nil {
		return err
	}
	mode := strings.ToLower(f.mode)
	if mode != "multi" && mode != "single" {
		return fmt.Errorf("invalid mode: %s (must be multi or single)", f.mode)
	}

	var logger *slog.Logger
	if f.tui {
		logger = logging.Discard()
	} else {
		logger = logging.Setup(f.logLevel, f.logFormat, cmd.ErrOrStderr())
	}

	items, err := readInputs(args, f.maxFileSize)
	if err != nil {
		return err
	}

	opts := converter.Options{
		Delimiter:         delim,
		CustomNames:       f.customNames,
		AdjustColumnWidth: f.adjustWidth,
		OutputName:        f.output,
		Workers:           f.workers,
		Logger:            logger,
	}

	job := func(reporter converter.ProgressReporter) (*ui.Summary, error) {
		opts.Reporter = reporter
		return convertAndWrite(cmd, mode, items, opts, f.outDir)
	}

	if f.tui {
		title := fmt.Sprintf("csvbook: %d file(s), %s mode", len(items), mode)
		final, err := tea.NewProgram(ui.InitialModel(title, job), tea.WithAltScreen()).Run()
		if err != nil {
			return err
		}
		m := final.(ui.Model)
		if m.Err() != nil {
			return m.Err()
		}
		if m.Summary() == nil {
			return errors.New("conversion abandoned")
		}
		return summaryErr(m.Summary())
	}

	summary, err := job(converter.ReporterFunc(func(p types.Progress) {
		logger.Info("progress", "completed", p.Completed, "total", p.Total, "percent", p.Percent())
	}))
	if err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), cmd.ErrOrStderr(), summary)
	return summaryErr(summary)
}

// convertAndWrite runs the batch and writes the output file. In multi mode
// the archive is written only when at least one file converted.
func convertAndWrite(cmd *cobra.Command, mode string, items []types.InputItem, opts converter.Options, outDir string) (*ui.Summary, error) {
	ctx := cmd.Context()

	var (
		summary = &ui.Summary{Mode: mode}
		name    string
		data    []byte
	)
	switch mode {
	case "single":
		res, err := converter.Consolidate(ctx, items, opts)
		if err != nil {
			return nil, err
		}
		summary.Outputs = res.Sheets
		name, data = res.Name, res.Data
	default:
		res, err := converter.Archive(ctx, items, opts)
		if err != nil {
			return nil, err
		}
		summary.Outputs = res.Entries
		summary.Failures = res.Failures
		if len(res.Entries) == 0 {
			return summary, nil
		}
		name, data = res.Name, res.Data
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(outDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write output: %w", err)
	}
	summary.OutputPath = path

	return summary, nil
}

func printSummary(stdout, stderr io.Writer, s *ui.Summary) {
	for _, f := range s.Failures {
		fmt.Fprintln(stderr, f.Error())
	}
	if s.OutputPath != "" {
		fmt.Fprintf(stdout, "Wrote %s (%d %s)\n", s.OutputPath, len(s.Outputs), outputNoun(s.Mode))
	}
}

func outputNoun(mode string) string {
	if mode == "single" {
		return "sheets"
	}
	return "files"
}

func summaryErr(s *ui.Summary) error {
	if len(s.Outputs) == 0 {
		return errors.New("no files were converted")
	}
	return nil
}

// readInputs loads each named file, rejecting files over maxSize bytes.
func readInputs(paths []string, maxSize int64) ([]types.InputItem, error) {
	items := make([]types.InputItem, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("file not found: %s", p)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", p)
		}
		if info.Size() > maxSize {
			return nil, fmt.Errorf("%s is %d bytes, larger than the %d byte limit", p, info.Size(), maxSize)
		}
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		items = append(items, types.InputItem{Name: filepath.Base(p), Content: content})
	}
	return items, nil
}
