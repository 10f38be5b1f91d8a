package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"fabtopo/internal/codec"
	"fabtopo/internal/config"
	"fabtopo/internal/domain"
	"fabtopo/internal/metrics"
	"fabtopo/internal/repository/sqlite"
	"fabtopo/internal/service"
	"fabtopo/internal/watcher"
)

// sniffLen is how much of the input is inspected to detect its format
const sniffLen = 4096

func newConvertCommand(a *app) *cobra.Command {
	var strict, watch bool

	cmd := &cobra.Command{
		Use:   "convert [input]",
		Short: "Convert an inventory report into per-subnet topology files",
		Long: `Convert an inventory report into per-subnet topology files.

The input format is detected from the file unless --format is given.
Snapshot reports are split by subnet prefix; topology reports (or
--mode topology) produce a single file named after the label.

Data-quality problems are logged as warnings and do not stop the
conversion. With --strict, any such problem makes the command exit
with status 2 after the files are written.

With --watch the conversion is repeated whenever the input file changes,
until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if len(args) == 1 {
				cfg.Input.Path = args[0]
			}
			applyConvertFlags(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.Input.Path == "" {
				return errors.New("no input given: pass a file or set input.path in the config")
			}

			report, err := runConvert(cmd.Context(), cfg, a.logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, f := range report.Files {
				fmt.Fprintln(out, f.Path)
			}

			if watch {
				return watchInput(cmd.Context(), cfg, a.logger)
			}

			if strict && len(report.Diagnostics) > 0 {
				return &ExitError{
					Code: ExitDiagnostics,
					Err:  fmt.Errorf("%d diagnostics raised in strict mode", len(report.Diagnostics)),
				}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringP("output-dir", "o", "", "directory for topology files")
	flags.String("mode", "", "subnet discovery: auto, snapshot or topology")
	flags.String("format", "", "input format: auto, snapshot-xml, topology-xml or yaml")
	flags.String("output-format", "", "output format: netloc, json or yaml")
	flags.String("prefix", "", "file name prefix for per-subnet files")
	flags.String("label", "", "subnet label written to every file")
	flags.String("archive", "", "SQLite file to record the run in")
	flags.String("metrics-textfile", "", "write Prometheus metrics to this file")
	flags.Int("gbits", 0, "nominal bandwidth written for every link")
	flags.BoolVar(&strict, "strict", false, "exit non-zero when any diagnostic is raised")
	flags.BoolVarP(&watch, "watch", "w", false, "convert again whenever the input changes")
	cmd.MarkFlagsMutuallyExclusive("strict", "watch")

	return cmd
}

// applyConvertFlags overrides config values with the flags that were set
func applyConvertFlags(cmd *cobra.Command, cfg *config.Config) {
	bindString(cmd, "output-dir", &cfg.Output.Dir)
	bindString(cmd, "format", &cfg.Input.Format)
	bindString(cmd, "output-format", &cfg.Output.Format)
	bindString(cmd, "prefix", &cfg.Output.Prefix)
	bindString(cmd, "label", &cfg.Output.Label)
	bindString(cmd, "archive", &cfg.Archive.Path)
	bindString(cmd, "metrics-textfile", &cfg.Metrics.Textfile)

	var mode string
	bindString(cmd, "mode", &mode)
	if mode != "" {
		cfg.Mode = config.Mode(mode)
	}
	if cmd.Flags().Changed("gbits") {
		cfg.Link.Gbits, _ = cmd.Flags().GetInt("gbits")
	}
}

func bindString(cmd *cobra.Command, name string, dst *string) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetString(name)
	}
}

// convertReport is what a conversion produced
type convertReport struct {
	RunID       string
	Format      string
	Mode        config.Mode
	Files       []domain.OutputFile
	Diagnostics domain.Diagnostics
}

// runConvert reads the configured input and writes, archives and measures
// its topology
func runConvert(ctx context.Context, cfg *config.Config, logger *log.Logger) (*convertReport, error) {
	f, err := os.Open(cfg.Input.Path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, sniffLen)
	format := cfg.Input.Format
	if format == codec.FormatAuto {
		head, err := r.Peek(sniffLen)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read input: %w", err)
		}
		format = codec.DetectFormat(cfg.Input.Path, head)
		logger.Debug("detected input format", "format", format)
	}

	importer, err := codec.NewImporter(format)
	if err != nil {
		return nil, err
	}
	exporter, err := codec.NewExporter(cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	snap, err := importer.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Input.Path, err)
	}

	mode := cfg.Mode.Resolve(format)
	opts := service.Options{
		Label: cfg.Output.Label,
		Gbits: cfg.Link.Gbits,
	}
	if mode.SingleSubnet() {
		opts.ImplicitSubnet = cfg.Output.Label
	}

	eventBus := service.NewEventBus()
	var recorder *metrics.Recorder
	if cfg.Metrics.Textfile != "" {
		recorder = metrics.NewRecorder()
		eventBus.Subscribe(recorder.Handle)
	}

	res, err := service.NewPipeline(opts, logger, eventBus).Run(snap)
	if err != nil {
		return nil, err
	}

	sink := service.NewFileSink(cfg.Output.Dir, cfg.Output.Prefix, mode.SingleSubnet(), exporter, logger, eventBus)
	files, err := sink.Write(res)
	if err != nil {
		return nil, err
	}

	report := &convertReport{
		RunID:       res.RunID,
		Format:      format,
		Mode:        mode,
		Files:       files,
		Diagnostics: res.Diagnostics,
	}

	if cfg.Archive.Path != "" {
		if err := archiveRun(ctx, cfg.Archive.Path, &domain.Run{
			ID:          res.RunID,
			CreatedAt:   res.StartedAt,
			Source:      cfg.Input.Path,
			Format:      format,
			Mode:        string(mode),
			Topology:    res.Topology,
			Diagnostics: res.Diagnostics,
			Files:       files,
		}); err != nil {
			return nil, err
		}
		logger.Info("archived run", "run", res.RunID, "archive", cfg.Archive.Path)
	}

	if recorder != nil {
		if err := recorder.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			return nil, err
		}
	}

	return report, nil
}

// watchInput repeats the conversion on every change to the input until the
// process is interrupted
func watchInput(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := watcher.New(cfg.Input.Path, func() {
		report, err := runConvert(ctx, cfg, logger)
		if err != nil {
			logger.Error("conversion failed", "err", err)
			return
		}
		logger.Info("conversion finished", "run", report.RunID,
			"files", len(report.Files), "diagnostics", len(report.Diagnostics))
	}, logger)

	if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func archiveRun(ctx context.Context, path string, run *domain.Run) error {
	repo, err := sqlite.New(path)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer repo.Close()

	if err := repo.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("archive run: %w", err)
	}
	return nil
}
