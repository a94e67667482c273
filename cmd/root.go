package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/iksnae/scene2json/internal"
	"github.com/iksnae/scene2json/internal/export"
	"github.com/iksnae/scene2json/internal/scene"
	"github.com/spf13/cobra"
)

var (
	version string = "dev"
	commit  string = "unknown"
	date    string = "unknown"
)

// Exit codes returned by Execute
const (
	ExitOK        = 0
	ExitUsage     = 1
	ExitArgCount  = 2
	ExitReadFail  = 3
	ExitWriteFail = 4
)

// exitError carries the process exit code for an error
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// ExitCode maps an error returned by the command tree to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitUsage
}

// options holds the flag values of one command tree
type options struct {
	verbose        bool
	compact        bool
	format         string
	flushThreshold int
	noCache        bool
	cacheDir       string
}

func (o *options) formatName() string {
	if o.compact {
		return "json-compact"
	}
	return o.format
}

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "scene2json [flags] <input> [<output>]",
		Short: "Export 3D scene descriptions as JSON",
		Long: `Convert a 3D scene description into a single JSON document.

The input is a YAML or JSON scene description (.yaml, .yml, .json). The
document is written to <output>, or to standard output when no output
is given. Output is deterministic, so exports of unchanged inputs are
served from a local cache.

Examples:
  scene2json scene.yaml                    # Print indented JSON
  scene2json -c scene.yaml scene.json      # Write compact JSON to a file
  scene2json inspect scene.yaml            # Show scene statistics
  scene2json cache list                    # Show cached exports`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:          validateExportArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			internal.SetVerbose(opts.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts, args)
		},
	}

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().StringVar(&opts.cacheDir, "cache-dir", internal.DefaultCacheDir(), "Export cache directory")
	root.Flags().BoolVarP(&opts.compact, "compact", "c", false, "Write compact JSON without whitespace")
	root.Flags().StringVarP(&opts.format, "format", "f", "json", "Output format (json, json-compact)")
	root.Flags().IntVar(&opts.flushThreshold, "flush-threshold", 1<<20, "Flush output every N buffered bytes (0 flushes once at the end)")
	root.Flags().BoolVar(&opts.noCache, "no-cache", false, "Do not read or write the export cache")

	// Set version template to ensure --version flag works
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(newInspectCmd())
	root.AddCommand(newCacheCmd(opts))
	root.AddCommand(newHealthcheckCmd(opts))
	return root
}

// validateExportArgs accepts an input and an optional output
func validateExportArgs(cmd *cobra.Command, args []string) error {
	switch {
	case len(args) == 0:
		return &exitError{code: ExitUsage, err: errors.New("no input file given")}
	case len(args) > 2:
		return &exitError{code: ExitArgCount, err: fmt.Errorf("expected <input> [<output>], got %d arguments", len(args))}
	}
	return nil
}

func runExport(cmd *cobra.Command, opts *options, args []string) error {
	ctx := cmd.Context()
	input := args[0]
	output := ""
	if len(args) == 2 {
		output = args[1]
	}

	exporter, err := export.NewExporter(opts.formatName())
	if err != nil {
		return &exitError{code: ExitUsage, err: err}
	}
	if je, ok := exporter.(*export.JSONExporter); ok {
		je.FlushThreshold = opts.flushThreshold
	}

	var cache *internal.ExportCache
	if !opts.noCache {
		cache, err = internal.OpenCache(opts.cacheDir)
		if err != nil {
			internal.LogWarn("Export cache unavailable: %v", err)
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	if cache != nil {
		cached, ok, err := cache.Lookup(input, exporter.Format())
		if err != nil {
			internal.LogDebug("Cache lookup failed: %v", err)
		} else if ok {
			internal.PrintInfo(fmt.Sprintf("Serving %s from cache", input))
			return writeOutput(cmd.OutOrStdout(), exporter, output, cached)
		}
	}

	var (
		sc  *scene.Scene
		buf bytes.Buffer
	)
	timer := internal.StartTimer()
	steps := []internal.ProgressStep{
		{
			Message: fmt.Sprintf("Importing %s", input),
			Fn: func() error {
				var importErr error
				sc, importErr = internal.ImportFile(ctx, input)
				if importErr != nil {
					return &exitError{code: ExitReadFail, err: importErr}
				}
				return nil
			},
		},
		{
			Message: "Exporting scene",
			Fn: func() error {
				var exportErr error
				if output == "" {
					exportErr = exporter.Export(ctx, sc, &buf)
				} else {
					exportErr = export.ExportFile(ctx, exporter, sc, output, &buf)
				}
				if exportErr != nil {
					return &exitError{code: ExitWriteFail, err: exportErr}
				}
				return nil
			},
		},
	}
	if err := internal.ShowProgressWithSteps(ctx, steps); err != nil {
		return err
	}
	timer.Done(fmt.Sprintf("Exported %s", input))

	if cache != nil {
		if err := cache.Store(input, exporter.Format(), buf.Bytes()); err != nil {
			internal.LogWarn("Failed to cache export: %v", err)
		}
	}

	if output == "" {
		return writeOutput(cmd.OutOrStdout(), exporter, "", buf.Bytes())
	}
	internal.PrintSuccess(fmt.Sprintf("Exported %s to %s (%s)", input, output, humanize.Bytes(uint64(buf.Len()))))
	return nil
}

// writeOutput writes a finished document to path, or to stdout when path is empty
func writeOutput(stdout io.Writer, exporter export.Exporter, path string, data []byte) error {
	if path == "" {
		if _, err := stdout.Write(data); err != nil {
			return &exitError{code: ExitWriteFail, err: &internal.ExportError{Format: exporter.Format(), Path: "<stdout>", Err: err}}
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &exitError{code: ExitWriteFail, err: &internal.ExportError{Format: exporter.Format(), Path: path, Err: err}}
	}
	internal.PrintSuccess(fmt.Sprintf("Exported %s (%s, cached)", path, humanize.Bytes(uint64(len(data)))))
	return nil
}

// Execute runs the command tree and returns the process exit code
func Execute() int {
	root := newRootCmd()
	err := root.Execute()
	if err != nil {
		internal.PrintError(err.Error())
		if ExitCode(err) == ExitUsage || ExitCode(err) == ExitArgCount {
			fmt.Fprintln(os.Stderr, root.UseLine())
		}
	}
	return ExitCode(err)
}
